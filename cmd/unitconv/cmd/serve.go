package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nicolas2912/UnitConverter/internal/app"
	"github.com/Nicolas2912/UnitConverter/internal/config"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	Long: "Serves GET /units and POST /convert until interrupted.\n" +
		"Log level and CORS origins follow edits to the config file without a restart.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "usage database path; enables stats")
}

func runServe(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	settings, watchPath, err := loadSettings()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	applyServeFlags(settings)

	logger, level := app.NewLogger(os.Stderr, settings.Log)
	slog.SetDefault(logger)

	a, err := app.New(app.Config{
		Settings:   settings,
		ConfigPath: watchPath,
		Loader:     config.NewLoader(logger),
		BaseDir:    root,
		Logger:     logger,
		Level:      level,
	})
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("cannot serve: %s", diagnoseDBLock(app.NewPaths(root)))
		}
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}

	fmt.Printf("⚡ unitconv serving at %s\n", a.WebServer.URL())

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}

// applyServeFlags lets explicit flags win over file and env settings.
func applyServeFlags(settings *config.Config) {
	if serveAddr != "" {
		settings.Server.Addr = serveAddr
	}
	if serveDB != "" {
		settings.Stats.Enabled = true
		settings.Stats.DBPath = serveDB
	}
}
