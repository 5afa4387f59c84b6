// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the unitconv server: create, start, stop.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Nicolas2912/UnitConverter/internal/adapters/bbolt"
	fsw "github.com/Nicolas2912/UnitConverter/internal/adapters/fsnotify"
	"github.com/Nicolas2912/UnitConverter/internal/adapters/metrics"
	"github.com/Nicolas2912/UnitConverter/internal/adapters/web"
	"github.com/Nicolas2912/UnitConverter/internal/config"
	"github.com/Nicolas2912/UnitConverter/internal/domain/convert"
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
	"github.com/Nicolas2912/UnitConverter/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	Paths     *Paths
	Service   *Service
	Store     *bbolt.Store // nil when stats are disabled
	Metrics   *metrics.Recorder
	WebServer *web.Server
	Watcher   *fsw.Watcher // nil when there is no config file to watch

	logger     *slog.Logger
	level      *slog.LevelVar
	loader     *config.Loader
	configPath string

	mu       sync.Mutex // guards settings
	settings *config.Config
	started  time.Time
}

// Config holds initialization parameters for the App.
type Config struct {
	// Settings is the resolved configuration (default: config.DefaultConfig()).
	Settings *config.Config
	// ConfigPath is the file watched for hot reload; "" disables reload.
	ConfigPath string
	// Loader re-reads ConfigPath on change (default: config.NewLoader).
	Loader *config.Loader
	// BaseDir holds the .unitconv/ directory (default: working directory).
	BaseDir string
	// Registry overrides the builtin unit catalog.
	Registry *units.Registry
	// Logger and Level come from NewLogger; Level is adjusted on reload.
	Logger *slog.Logger
	Level  *slog.LevelVar
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultConfig()
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		cfg.BaseDir = wd
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Level == nil {
		cfg.Level = new(slog.LevelVar)
	}
	if cfg.Loader == nil {
		cfg.Loader = config.NewLoader(cfg.Logger)
	}

	a := &App{
		Paths:      NewPaths(cfg.BaseDir),
		Metrics:    metrics.New(),
		logger:     cfg.Logger,
		level:      cfg.Level,
		loader:     cfg.Loader,
		configPath: cfg.ConfigPath,
		settings:   cfg.Settings,
	}

	// A nil *bbolt.Store must not become a non-nil interface.
	var usage ports.UsageStore
	if cfg.Settings.Stats.Enabled {
		store, err := bbolt.NewStore(a.dbPath())
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
		usage = store
	}

	a.Service = NewService(convert.NewEngine(cfg.Registry), usage, a.Metrics)

	srv := cfg.Settings.Server
	a.WebServer = web.NewServer(a.Service, web.Config{
		Logger:          cfg.Logger,
		Metrics:         a.Metrics,
		MetricsHandler:  a.Metrics.Handler(),
		AllowedOrigins:  srv.CORSOrigins,
		PortFilePath:    a.Paths.PortFile,
		ReadTimeout:     srv.ReadTimeout,
		WriteTimeout:    srv.WriteTimeout,
		ShutdownTimeout: srv.ShutdownTimeout,
	})

	return a, nil
}

// dbPath returns the configured usage database, defaulting into .unitconv/.
func (a *App) dbPath() string {
	if a.settings.Stats.DBPath != "" {
		return a.settings.Stats.DBPath
	}
	return a.Paths.DB
}

// Settings returns the configuration currently in effect.
func (a *App) Settings() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.settings
}

// Start begins serving HTTP and, if a config file is known, watching it.
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create %s: %w", a.Paths.Root, err)
	}

	addr := a.Settings().Server.Addr
	if err := a.WebServer.Start(addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if err := a.Paths.WritePID(); err != nil {
		a.logger.Warn("Failed to write pid file", slog.String("error", err.Error()))
	}
	a.logger.Info("Serving",
		slog.String("url", a.WebServer.URL()),
		slog.Bool("stats", a.Store != nil),
		slog.Int("dimensions", len(a.Service.Registry().Dimensions())))

	// Config watcher is non-fatal: the server runs fine without reload.
	if a.configPath != "" {
		if err := a.watchConfig(); err != nil {
			a.logger.Warn("Config watcher unavailable",
				slog.String("path", a.configPath),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// Stop gracefully shuts down all services and closes the store.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	err := a.WebServer.Stop()
	a.Paths.CleanEphemeral()
	if a.Store != nil {
		if cerr := a.Store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Uptime returns the time since Start.
func (a *App) Uptime() time.Duration {
	if a.started.IsZero() {
		return 0
	}
	return time.Since(a.started)
}
