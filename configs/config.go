package configs

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the optional YAML config file.
// Environment variables override anything set here.
type FileConfig struct {
	BaseURL    string `yaml:"base_url"`
	ListenAddr string `yaml:"listen_addr"`
	AdminAddr  string `yaml:"admin_addr"`
	LogLevel   string `yaml:"log_level"`
}

// Config holds the final application configuration, merged from the optional
// YAML file and environment variables. Fields are loaded from the environment
// with the prefix "COMPOSER_".
type Config struct {
	// ConfigFilePath is loaded first so the file can be found at all.
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// APIKey and SecretKey are the caller-supplied platform credentials.
	// Both optional at startup: without them the gateway serves only the
	// tools that do not require authentication.
	APIKey    string `envconfig:"API_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`

	BaseURL           string        `envconfig:"BASE_URL" default:"https://api.composer.trade"`
	ListenAddr        string        `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminAddr         string        `envconfig:"ADMIN_ADDR" default:":8081"`
	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	MaxConnsPerHost   int           `envconfig:"MAX_CONNS_PER_HOST" default:"64"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// ParsedLogLevel returns the slog.Level for the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load builds the configuration: .env file (if any), then the optional YAML
// file, then environment variables as final overrides.
func Load() (*Config, error) {
	// MCP servers are commonly launched by desktop clients from arbitrary
	// working directories; a missing .env is the normal case.
	_ = godotenv.Load()

	var initialCfg Config
	if err := envconfig.Process("composer", &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	finalCfg := initialCfg
	if initialCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(initialCfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", initialCfg.ConfigFilePath, err)
		}
		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file %q: %w", initialCfg.ConfigFilePath, err)
		}

		// Environment variables win over file settings, so a file value only
		// applies when the corresponding variable is unset. envconfig also
		// accepts the bare variable name, so both spellings are checked.
		if fileCfg.BaseURL != "" && !envSet("BASE_URL") {
			finalCfg.BaseURL = fileCfg.BaseURL
		}
		if fileCfg.ListenAddr != "" && !envSet("LISTEN_ADDR") {
			finalCfg.ListenAddr = fileCfg.ListenAddr
		}
		if fileCfg.AdminAddr != "" && !envSet("ADMIN_ADDR") {
			finalCfg.AdminAddr = fileCfg.AdminAddr
		}
		if fileCfg.LogLevel != "" && !envSet("LOG_LEVEL") {
			finalCfg.LogLevel = fileCfg.LogLevel
		}
	}

	if err := validate(&finalCfg); err != nil {
		return nil, err
	}
	return &finalCfg, nil
}

func envSet(name string) bool {
	if _, ok := os.LookupEnv("COMPOSER_" + name); ok {
		return true
	}
	_, ok := os.LookupEnv(name)
	return ok
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL %q is not a valid http(s) URL", cfg.BaseURL)
	}
	if cfg.HTTPClientTimeout <= 0 {
		return fmt.Errorf("HTTP client timeout must be positive, got %s", cfg.HTTPClientTimeout)
	}
	if cfg.MaxConnsPerHost <= 0 {
		return fmt.Errorf("max connections per host must be positive, got %d", cfg.MaxConnsPerHost)
	}
	return nil
}
