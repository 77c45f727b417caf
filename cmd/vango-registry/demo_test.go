package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runDemo(&out, "/items?q=potions", logger); err != nil {
		t.Fatalf("runDemo: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		`mounted input q with "potions"`,
		"url is now /items?q=elixir",
		"url is now /items?q=elixir&sort=price",
		"url sync kept true",
		"filters [color size], color=blue",
		"search ids [draft sort]",
		"2 navigations",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "draft=unsaved") {
		t.Error("entry without URL sync reached the URL")
	}
}

func TestLoadServeConfig(t *testing.T) {
	cfg, err := loadServeConfig(serveFlags{
		configPath: t.TempDir() + "/missing.json",
		port:       9000,
		mode:       "push",
		logLevel:   "debug",
		origins:    []string{"https://shop.example"},
		debug:      true,
	})
	if err != nil {
		t.Fatalf("loadServeConfig: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Navigation.Mode != "push" || cfg.Log.Level != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.Debug.Enabled || len(cfg.Security.AllowedOrigins) != 1 {
		t.Errorf("security overrides not applied: %+v", cfg)
	}

	if _, err := loadServeConfig(serveFlags{configPath: t.TempDir() + "/x.json", port: 70000}); err == nil {
		t.Error("expected invalid port error")
	}
	if _, err := loadServeConfig(serveFlags{configPath: t.TempDir() + "/x.json", origins: []string{"shop.example"}}); err == nil {
		t.Error("expected invalid origin error")
	}
}
