package app

import (
	"log/slog"
	"slices"

	fsw "github.com/Nicolas2912/UnitConverter/internal/adapters/fsnotify"
	"github.com/Nicolas2912/UnitConverter/internal/config"
)

// watchConfig starts the fsnotify watcher on the config file.
func (a *App) watchConfig() error {
	w, err := fsw.NewWatcher()
	if err != nil {
		return err
	}
	w.OnError = func(err error) {
		a.logger.Warn("Config watcher error", slog.String("error", err.Error()))
	}
	if err := w.Watch(a.configPath, a.onConfigChanged); err != nil {
		w.Stop()
		return err
	}
	a.Watcher = w
	a.logger.Debug("Watching config", slog.String("path", a.configPath))
	return nil
}

// onConfigChanged re-reads the config file. A broken file keeps the
// previous settings in effect.
func (a *App) onConfigChanged() {
	next, err := a.loader.Reload(a.configPath)
	if err != nil {
		a.logger.Warn("Config reload failed, keeping previous settings",
			slog.String("path", a.configPath),
			slog.String("error", err.Error()))
		return
	}
	a.Reload(next)
}

// Reload applies the hot-reloadable parts of next: log level and CORS
// origins. Changes to anything else are reported as needing a restart.
func (a *App) Reload(next *config.Config) {
	a.mu.Lock()
	prev := *a.settings
	a.settings.Log.Level = next.Log.Level
	a.settings.Server.CORSOrigins = slices.Clone(next.Server.CORSOrigins)
	a.mu.Unlock()

	if lvl, err := config.ParseLevel(next.Log.Level); err == nil && next.Log.Level != prev.Log.Level {
		a.level.Set(lvl)
		a.logger.Info("Log level changed", slog.String("level", lvl.String()))
	}
	if !slices.Equal(prev.Server.CORSOrigins, next.Server.CORSOrigins) {
		a.WebServer.SetAllowedOrigins(next.Server.CORSOrigins)
		a.logger.Info("CORS origins changed", slog.Any("origins", next.Server.CORSOrigins))
	}

	for _, field := range restartOnly(prev, *next) {
		a.logger.Warn("Config change requires restart", slog.String("field", field))
	}
}

// restartOnly lists settings that differ but are not applied live.
func restartOnly(prev, next config.Config) []string {
	var changed []string
	if prev.Server.Addr != next.Server.Addr {
		changed = append(changed, "server.addr")
	}
	if prev.Server.ReadTimeout != next.Server.ReadTimeout ||
		prev.Server.WriteTimeout != next.Server.WriteTimeout ||
		prev.Server.ShutdownTimeout != next.Server.ShutdownTimeout {
		changed = append(changed, "server timeouts")
	}
	if prev.Log.Format != next.Log.Format {
		changed = append(changed, "log.format")
	}
	if prev.Stats != next.Stats {
		changed = append(changed, "stats")
	}
	return changed
}
