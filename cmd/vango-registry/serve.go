package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/registry/internal/config"
	"github.com/vango-dev/registry/pkg/server"
)

type serveFlags struct {
	configPath string
	host       string
	port       int
	logLevel   string
	mode       string
	origins    []string
	debug      bool
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the registry server",
		Long: `Start the registry server.

Settings are read from registry.json when present; flags override them.

Examples:
  vango-registry serve
  vango-registry serve --port=8080 --mode=push
  vango-registry serve --config=deploy/registry.json --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(f)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", config.ConfigFileName, "Path to the configuration file")
	cmd.Flags().StringVarP(&f.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.mode, "mode", "", "URL update mode: push or replace")
	cmd.Flags().StringSliceVar(&f.origins, "allowed-origin", nil, "Origin allowed to open WebSocket sessions (repeatable)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Expose the /sessions inspection endpoints")

	return cmd
}

// loadServeConfig loads the config file and applies flag overrides.
func loadServeConfig(f serveFlags) (*config.Config, error) {
	cfg, err := config.LoadOptional(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.host != "" {
		cfg.Server.Host = f.host
	}
	if f.port != 0 {
		cfg.Server.Port = f.port
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.mode != "" {
		cfg.Navigation.Mode = f.mode
	}
	if len(f.origins) > 0 {
		cfg.Security.AllowedOrigins = f.origins
	}
	if f.debug {
		cfg.Debug.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	success("Listening on http://%s", cfg.Server.Addr())
	info("WebSocket: ws://%s/ws?path=/", cfg.Server.Addr())
	if cfg.Metrics.Enabled {
		info("Metrics:   http://%s/metrics", cfg.Server.Addr())
	}
	if cfg.Debug.Enabled {
		slog.Warn("session inspection endpoints enabled", "path", "/sessions")
	}
	return srv.Run(ctx)
}
