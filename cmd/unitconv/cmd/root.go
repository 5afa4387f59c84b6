package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nicolas2912/UnitConverter/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "unitconv",
	Short:        "Unit conversion service and CLI",
	Long:         "Converts quantities between units of the same dimension (length, mass, temperature, ...) and explains how.",
	SilenceUsage: true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// loadSettings resolves configuration from defaults, files and env.
func loadSettings() (*config.Config, string, error) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return config.NewLoader(quiet).Load(configPath)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./unitconv.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}
