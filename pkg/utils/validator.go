package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be within 1-65535: %d", port)
	}
	return nil
}

// ValidateNodeName rejects names that cannot be used as a single URL path
// segment.
func ValidateNodeName(name string) error {
	if name == "" {
		return fmt.Errorf("node name must not be empty")
	}

	if len(name) > 128 {
		return fmt.Errorf("node name must not exceed 128 characters")
	}

	for _, char := range name {
		if char == '/' || unicode.IsSpace(char) || unicode.IsControl(char) {
			return fmt.Errorf("node name contains invalid character %q: %s", char, name)
		}
	}

	return nil
}

func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https: %s", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL has no host: %s", raw)
	}
	return nil
}

func ValidateInterval(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive: %s", name, d)
	}
	return nil
}

func ValidateHeaderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("header name must not be empty")
	}
	if http.CanonicalHeaderKey(name) == "" || strings.ContainsAny(name, " :\t\r\n") {
		return fmt.Errorf("invalid header name %q", name)
	}
	return nil
}
