package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/registry/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "registry.json"

	// DefaultPort is the default server port.
	DefaultPort = 3100

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vango_registry"

	// DefaultServiceName is the default tracer name.
	DefaultServiceName = "vango-registry"

	// Navigation modes.
	ModePush    = "push"
	ModeReplace = "replace"
)

// Config represents the complete registry.json configuration.
type Config struct {
	// Server contains HTTP and WebSocket settings.
	Server ServerConfig `json:"server,omitempty"`

	// Navigation controls how URL syncs are reported to clients.
	Navigation NavigationConfig `json:"navigation,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Security controls which origins may open WebSocket sessions.
	Security SecurityConfig `json:"security,omitempty"`

	// Debug controls the session inspection endpoints.
	Debug DebugConfig `json:"debug,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ReadTimeout is how long a session may stay idle (e.g., "60s").
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout bounds a single frame write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`
}

// NavigationConfig controls history handling for URL syncs.
type NavigationConfig struct {
	// Mode is "push" (new history entry) or "replace".
	Mode string `json:"mode,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool   `json:"enabled"`
	ServiceName string `json:"serviceName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`
}

// SecurityConfig contains origin checking settings.
type SecurityConfig struct {
	// AllowedOrigins lists origins allowed for WebSocket connections
	// (e.g., "https://shop.example"). If empty, only same-origin requests
	// are accepted.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// DebugConfig contains settings for the session inspection endpoints.
// SECURITY: the endpoints expose every live session's state; keep them off
// outside development.
type DebugConfig struct {
	Enabled bool `json:"enabled"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			ReadTimeout:  "60s",
			WriteTimeout: "10s",
		},
		Navigation: NavigationConfig{
			Mode: ModeReplace,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			ServiceName: DefaultServiceName,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for registry.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No " + ConfigFileName + " found at " + path).
				Wrap(err)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOptional behaves like LoadFile but returns defaults when the file does
// not exist. An empty path also yields defaults.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return New(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "60s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}
	if c.Navigation.Mode == "" {
		c.Navigation.Mode = ModeReplace
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = DefaultServiceName
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail(fmt.Sprintf("Port %d must be between 0 and 65535", c.Server.Port))
	}

	switch strings.ToLower(c.Navigation.Mode) {
	case ModePush, ModeReplace:
	default:
		return errors.New("E121").
			WithSuggestion(fmt.Sprintf("Replace %q with \"push\" or \"replace\"", c.Navigation.Mode))
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	for _, o := range c.Security.AllowedOrigins {
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("E124").
				WithDetail(fmt.Sprintf("security.allowedOrigins: %q is not an origin", o)).
				WithSuggestion("Use scheme://host[:port], e.g. \"https://shop.example\"")
		}
	}

	for name, raw := range map[string]string{
		"server.readTimeout":  c.Server.ReadTimeout,
		"server.writeTimeout": c.Server.WriteTimeout,
	} {
		if _, err := time.ParseDuration(raw); err != nil {
			return errors.New("E120").
				WithDetail(fmt.Sprintf("%s: %v", name, err)).
				WithSuggestion("Use a Go duration such as \"30s\" or \"2m\"")
		}
	}

	return nil
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ReadTimeoutDuration parses ReadTimeout, falling back to 60s.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDuration(s.ReadTimeout, 60*time.Second)
}

// WriteTimeoutDuration parses WriteTimeout, falling back to 10s.
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return parseDuration(s.WriteTimeout, 10*time.Second)
}

// LogLevel maps Log.Level onto a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("E123").
			WithSuggestion(fmt.Sprintf("Replace %q with debug, info, warn or error", c.Log.Level))
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
