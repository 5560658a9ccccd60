package fleet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"fleet-dashboard/internal/model"
)

const maxErrorBody = 512

type ClientConfig struct {
	BaseURL     string
	NodesPath   string
	OverallPath string
	RoutersPath string
	LogsPath    string
	Timeout     time.Duration
	CSRFHeader  string
	Tokens      TokenProvider
	// CSRFCookie names a session cookie consulted when Tokens yields
	// nothing.
	CSRFCookie string
	// HTTPClient overrides the default client; its Jar, if any, is used
	// for cookie based tokens.
	HTTPClient *http.Client
}

// Client talks to the fleet API and to the node-scoped endpoints it
// advertises. Relative references resolve against BaseURL.
type Client struct {
	config ClientConfig
	base   *url.URL
	http   *http.Client
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

var ErrNoURL = errors.New("node has no url")

func NewClient(config ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if config.NodesPath == "" {
		config.NodesPath = "/fleet/api/nodes"
	}
	if config.OverallPath == "" {
		config.OverallPath = "/fleet/api/overall_state"
	}
	if config.RoutersPath == "" {
		config.RoutersPath = "/fleet/api/data_routers"
	}
	if config.LogsPath == "" {
		config.LogsPath = "/fleet/api/recent_logs"
	}
	if config.CSRFHeader == "" {
		config.CSRFHeader = "X-CSRF-Token"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{
			Timeout: config.Timeout,
			Jar:     jar,
		}
	}

	if config.CSRFCookie != "" {
		config.Tokens = FirstToken{
			config.Tokens,
			CookieToken{Jar: httpClient.Jar, URL: base, Name: config.CSRFCookie},
		}
	}

	return &Client{
		config: config,
		base:   base,
		http:   httpClient,
	}, nil
}

func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// Resolve turns a server supplied reference (absolute URL or path) into an
// absolute URL.
func (c *Client) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse reference %q: %w", ref, err)
	}
	return c.base.ResolveReference(u).String(), nil
}

func (c *Client) ListNodes(ctx context.Context) ([]model.Node, error) {
	var nodes []model.Node
	if err := c.getJSON(ctx, c.config.NodesPath, &nodes); err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []model.Node{}
	}
	return nodes, nil
}

// FetchConfig fetches a configuration document. The endpoint may answer
// with a lone object or with an array; both come back as a sequence.
func (c *Client) FetchConfig(ctx context.Context, ref string) ([]model.ConfigSummary, error) {
	body, err := c.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	configs, err := NormalizeToSequence[model.ConfigSummary](body)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", ref, err)
	}
	return configs, nil
}

func (c *Client) FetchOverallState(ctx context.Context) (model.OverallState, error) {
	var state model.OverallState
	err := c.getJSON(ctx, c.config.OverallPath, &state)
	return state, err
}

func (c *Client) ListDataRouters(ctx context.Context) ([]model.DataRouter, error) {
	body, err := c.get(ctx, c.config.RoutersPath)
	if err != nil {
		return nil, err
	}
	routers, err := NormalizeToSequence[model.DataRouter](body)
	if err != nil {
		return nil, fmt.Errorf("decode data routers: %w", err)
	}
	return routers, nil
}

// FetchRecentLogs returns the server's latest log entries, newest first.
func (c *Client) FetchRecentLogs(ctx context.Context) ([]model.LogEntry, error) {
	body, err := c.get(ctx, c.config.LogsPath)
	if err != nil {
		return nil, err
	}
	entries, err := NormalizeToSequence[model.LogEntry](body)
	if err != nil {
		return nil, fmt.Errorf("decode recent logs: %w", err)
	}
	return entries, nil
}

func (c *Client) FetchLogFile(ctx context.Context, node model.Node) (string, error) {
	ref, err := nodeEndpoint(node, "log_file")
	if err != nil {
		return "", err
	}
	var response struct {
		Content string `json:"content"`
	}
	if err := c.getJSON(ctx, ref, &response); err != nil {
		return "", err
	}
	return response.Content, nil
}

// PostTransition asks a node to run action. The request carries the
// anti-forgery header from the configured token provider.
func (c *Client) PostTransition(ctx context.Context, node model.Node, action model.Action) error {
	if !action.Valid() {
		return fmt.Errorf("invalid action %s", action)
	}
	ref, err := nodeEndpoint(node, action.String()+"/")
	if err != nil {
		return err
	}
	target, err := c.Resolve(ref)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
	if err != nil {
		return err
	}
	if c.config.Tokens != nil {
		token, err := c.config.Tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("anti-forgery token: %w", err)
		}
		req.Header.Set(c.config.CSRFHeader, token)
	}
	// CSRF-protected backends also check the referer on secure requests
	req.Header.Set("Referer", c.base.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(req, resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) get(ctx context.Context, ref string) ([]byte, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(req, resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, ref string, out interface{}) error {
	body, err := c.get(ctx, ref)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", ref, err)
	}
	return nil
}

func checkStatus(req *http.Request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(body)),
	}
}

// nodeEndpoint appends suffix to the node's base address. Node URLs are
// directory-like ("/nodes/node1/").
func nodeEndpoint(node model.Node, suffix string) (string, error) {
	if node.URL == "" {
		return "", fmt.Errorf("%s: %w", node.Name, ErrNoURL)
	}
	base := node.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + suffix, nil
}
