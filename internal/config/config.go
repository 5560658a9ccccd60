package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fleet-dashboard/pkg/utils"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Fleet   FleetConfig   `yaml:"fleet"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	ReadTimeout  int      `yaml:"readTimeout"`
	WriteTimeout int      `yaml:"writeTimeout"`
	CORSOrigins  []string `yaml:"corsOrigins"`
}

type FleetConfig struct {
	BaseURL        string `yaml:"baseURL"`
	NodesPath      string `yaml:"nodesPath"`
	OverallPath    string `yaml:"overallPath"`
	RoutersPath    string `yaml:"routersPath"`
	LogsPath       string `yaml:"logsPath"`
	PollIntervalMs int    `yaml:"pollIntervalMs"`
	RequestTimeout int    `yaml:"requestTimeout"`
	CSRFHeader     string `yaml:"csrfHeader"`
	CSRFToken      string `yaml:"csrfToken"`
	CSRFCookie     string `yaml:"csrfCookie"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func (f FleetConfig) PollInterval() time.Duration {
	return time.Duration(f.PollIntervalMs) * time.Millisecond
}

func (f FleetConfig) Timeout() time.Duration {
	return time.Duration(f.RequestTimeout) * time.Second
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
			CORSOrigins:  []string{"http://localhost:3000"},
		},
		Fleet: FleetConfig{
			BaseURL:        "http://127.0.0.1:8000",
			NodesPath:      "/fleet/api/nodes",
			OverallPath:    "/fleet/api/overall_state",
			RoutersPath:    "/fleet/api/data_routers",
			LogsPath:       "/fleet/api/recent_logs",
			PollIntervalMs: 5000,
			RequestTimeout: 10,
			CSRFHeader:     "X-CSRF-Token",
			CSRFCookie:     "csrftoken",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are reported to the caller, who usually just logs them.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (or FLEET_CONFIG_FILE when path is empty), then environment
// variables.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("FLEET_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the keys present in a YAML file.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.CORSOrigins = getEnvAsList("CORS_ORIGINS", c.Server.CORSOrigins)

	c.Fleet.BaseURL = getEnvAsString("FLEET_BASE_URL", c.Fleet.BaseURL)
	c.Fleet.NodesPath = getEnvAsString("FLEET_NODES_PATH", c.Fleet.NodesPath)
	c.Fleet.OverallPath = getEnvAsString("FLEET_OVERALL_PATH", c.Fleet.OverallPath)
	c.Fleet.RoutersPath = getEnvAsString("FLEET_ROUTERS_PATH", c.Fleet.RoutersPath)
	c.Fleet.LogsPath = getEnvAsString("FLEET_LOGS_PATH", c.Fleet.LogsPath)
	c.Fleet.PollIntervalMs = getEnvAsInt("POLL_INTERVAL_MS", c.Fleet.PollIntervalMs)
	c.Fleet.RequestTimeout = getEnvAsInt("REQUEST_TIMEOUT", c.Fleet.RequestTimeout)
	c.Fleet.CSRFHeader = getEnvAsString("FLEET_CSRF_HEADER", c.Fleet.CSRFHeader)
	c.Fleet.CSRFToken = getEnvAsString("FLEET_CSRF_TOKEN", c.Fleet.CSRFToken)
	c.Fleet.CSRFCookie = getEnvAsString("FLEET_CSRF_COOKIE", c.Fleet.CSRFCookie)

	c.Logging.Level = getEnvAsString("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvAsString("LOG_FORMAT", c.Logging.Format)
	c.Logging.File = getEnvAsString("LOG_FILE", c.Logging.File)
}

func (c *Config) Validate() error {
	if err := utils.ValidatePort(c.Server.Port); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := utils.ValidateBaseURL(c.Fleet.BaseURL); err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	if err := utils.ValidateInterval("poll interval", c.Fleet.PollInterval()); err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	if err := utils.ValidateInterval("request timeout", c.Fleet.Timeout()); err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	if err := utils.ValidateHeaderName(c.Fleet.CSRFHeader); err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	return nil
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
