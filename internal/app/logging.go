package app

import (
	"io"
	"log/slog"

	"github.com/Nicolas2912/UnitConverter/internal/config"
)

// NewLogger builds the process logger from log settings. The returned
// LevelVar lets Reload change verbosity without rebuilding handlers.
func NewLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	if lvl, err := config.ParseLevel(lc.Level); err == nil {
		level.Set(lvl)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if lc.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), level
}
