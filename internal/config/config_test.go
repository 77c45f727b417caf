package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/registry/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Navigation.Mode != ModeReplace {
		t.Errorf("Navigation.Mode = %q, want %q", cfg.Navigation.Mode, ModeReplace)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics should be enabled by default")
	}
	if cfg.Debug.Enabled {
		t.Error("Debug endpoints should be disabled by default")
	}
	if len(cfg.Security.AllowedOrigins) != 0 {
		t.Errorf("Security.AllowedOrigins = %v, want empty", cfg.Security.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	var re *errors.RegistryError
	if !stderrors.As(err, &re) || re.Code != "E120" {
		t.Errorf("missing config error = %v, want E120", err)
	}

	configJSON := `{
  "server": {
    "host": "0.0.0.0",
    "port": 8080
  },
  "navigation": {
    "mode": "push"
  },
  "metrics": {
    "namespace": "shop"
  },
  "log": {
    "level": "debug"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Navigation.Mode != ModePush {
		t.Errorf("Navigation.Mode = %q, want push", cfg.Navigation.Mode)
	}
	if cfg.Metrics.Namespace != "shop" {
		t.Errorf("Metrics.Namespace = %q, want shop", cfg.Metrics.Namespace)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should keep its default when omitted")
	}
	if cfg.Server.ReadTimeout != "60s" {
		t.Errorf("Server.ReadTimeout = %q, want default 60s", cfg.Server.ReadTimeout)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}

	level, err := cfg.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v; want debug", level, err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}

	cfg, err = LoadOptional("")
	if err != nil || cfg == nil {
		t.Fatalf("LoadOptional(\"\") = %v, %v", cfg, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "E122"},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "E122"},
		{"bad mode", func(c *Config) { c.Navigation.Mode = "teleport" }, "E121"},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "E123"},
		{"bad timeout", func(c *Config) { c.Server.ReadTimeout = "soon" }, "E120"},
		{"mode is case-insensitive", func(c *Config) { c.Navigation.Mode = "PUSH" }, ""},
		{"bare host origin", func(c *Config) { c.Security.AllowedOrigins = []string{"shop.example"} }, "E124"},
		{"valid origin", func(c *Config) { c.Security.AllowedOrigins = []string{"https://shop.example:8443"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var re *errors.RegistryError
			if !stderrors.As(err, &re) {
				t.Fatalf("Validate() error = %v, want *RegistryError", err)
			}
			if re.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", re.Code, tt.wantCode)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	s := ServerConfig{ReadTimeout: "5s", WriteTimeout: "nope"}
	if got := s.ReadTimeoutDuration(); got != 5*time.Second {
		t.Errorf("ReadTimeoutDuration() = %v, want 5s", got)
	}
	if got := s.WriteTimeoutDuration(); got != 10*time.Second {
		t.Errorf("WriteTimeoutDuration() = %v, want fallback 10s", got)
	}
}

func TestLoadSecurityAndDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	configJSON := `{
  "security": {"allowedOrigins": ["https://shop.example"]},
  "debug": {"enabled": true}
}`
	if err := os.WriteFile(path, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !cfg.Debug.Enabled {
		t.Error("Debug.Enabled = false, want true")
	}
	if len(cfg.Security.AllowedOrigins) != 1 || cfg.Security.AllowedOrigins[0] != "https://shop.example" {
		t.Errorf("Security.AllowedOrigins = %v", cfg.Security.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
