// Package app provides the entry point shared by the solarbot commands.
// It loads configuration, builds the shared services (metrics, rate
// limiting, log redaction), starts all configured modules, and wires the
// message path from the channels through the router into the conversation
// engine.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voltmesh/solarbot/internal/config"
	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/logging"
	"github.com/voltmesh/solarbot/internal/reload"
	"github.com/voltmesh/solarbot/internal/security"
	"github.com/voltmesh/solarbot/internal/telemetry"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// DataDir overrides the default persistent data directory.
	DataDir string

	// LogOutput overrides the log destination. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Run loads configuration, starts all modules, and blocks until a shutdown
// signal is received. SIGHUP and file-change events trigger a live
// configuration reload for modules that implement core.Reloader.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		if resolved, err := ResolveConfigPath(); err == nil {
			cfgPath = resolved
		}
	}

	// Without a config file the embedded defaults apply: Telegram polling,
	// mock Beckn network, mock rooftop analysis. Only TELEGRAM_BOT_TOKEN
	// must be set in the environment.
	var cfg *config.Config
	var err error
	if cfgPath == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// The logger redacts bot tokens and API keys wherever they appear.
	// DEBUG=true in the environment forces the debug level.
	level := cfg.Log.Level
	if os.Getenv("DEBUG") == "true" {
		level = "debug"
	}
	logger, redactor := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Output: params.LogOutput,
	})
	for _, secret := range secretEnvValues() {
		redactor.AddLiteral(secret)
	}
	if cfgPath == "" {
		logger.Info("no configuration file found, using embedded defaults")
	}

	// Tracing exports to the endpoint named by the standard OTEL_* variables
	// and stays off when none is configured.
	shutdownTracing, err := telemetry.SetupTracing(context.Background(), telemetry.TracingOptions{
		Enabled: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
		Logger:  logger,
	})
	if err != nil {
		logger.Warn("tracing setup failed", "error", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	rateLimiter := security.NewRateLimiter(security.RateLimitConfig{})

	dataDir := params.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	appCtx := core.NewAppContext(logger, dataDir)
	appCtx = appCtx.WithModuleConfigs(cfg.Modules)

	// Shared prometheus registry: modules record into telemetry.Metrics and
	// the gateway serves the registry on /metrics.
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	version := params.Version
	if version == "" {
		version = "dev"
	}

	// Register shared services for cross-module discovery.
	appCtx.RegisterService("telemetry.registry", registry)
	appCtx.RegisterService("telemetry.metrics", metrics)
	appCtx.RegisterService("logging.redactor", redactor)
	appCtx.RegisterService("app.version", version)

	application := core.NewApp(appCtx)
	ids := config.Resolve(cfg)
	if err := application.LoadModules(ids); err != nil {
		return err
	}

	// Wire the message path between LoadModules and Start: discover channels
	// and flows, build the engine and router, call SetInbox on every channel,
	// and append the router and scheduler to the app lifecycle.
	if err := wireBot(application, appCtx, ids, logger, rateLimiter, metrics); err != nil {
		return err
	}

	handler := reload.NewHandler(application, logger, dataDir)

	if err := application.Start(); err != nil {
		return err
	}

	// --- signal handling ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	// --- file watcher ---
	watcher := reload.NewWatcher(reload.WatcherConfig{
		ConfigPath: cfgPath,
	})
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfgPath != "" {
		watcher.Start(watchCtx)
	}
	defer watcher.Stop()

	// --- main event loop ---
	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				if cfgPath == "" {
					logger.Warn("SIGHUP ignored, no configuration file to reload")
					continue
				}
				logger.Info("SIGHUP received, reloading configuration")
				if err := handler.HandleReload(watchCtx, cfgPath); err != nil {
					logger.Error("reload failed", "error", err)
				}
			default:
				logger.Info("shutdown signal received", "signal", sig.String())
				application.Stop()
				logger.Info("shutdown complete")
				return nil
			}
		case evt := <-watcher.Events():
			logger.Info("config file changed, reloading", "path", evt.ConfigPath)
			if err := handler.HandleReload(watchCtx, cfgPath); err != nil {
				logger.Error("reload failed", "error", err)
			}
		}
	}
}

// secretEnvValues collects the values of well-known secret environment
// variables so the redactor can mask them in log output.
func secretEnvValues() []string {
	var secrets []string
	for _, name := range []string{
		"TELEGRAM_BOT_TOKEN",
		"VERTEX_API_KEY",
		"OPENAI_API_KEY",
		"BECKN_API_KEY",
		"GATEWAY_AUTH_TOKEN",
	} {
		if v := os.Getenv(name); v != "" {
			secrets = append(secrets, v)
		}
	}
	return secrets
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/solarbot/solarbot.yaml →
// ~/.config/solarbot/solarbot.yaml → ./solarbot.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "solarbot", "solarbot.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "solarbot", "solarbot.yaml"))
	}

	candidates = append(candidates, "solarbot.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/solarbot if set, otherwise ~/.local/share/solarbot
// per the XDG spec.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "solarbot")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "solarbot")
}
