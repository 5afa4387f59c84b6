package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nicolas2912/UnitConverter/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved configuration, data paths, and server status. No server required.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)

	settings, watchPath, err := loadSettings()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	base, health, running := probeServer(paths)
	fmt.Print(formatConfig(configView{
		Root:     root,
		File:     watchPath,
		Settings: settings,
		Paths:    paths,
		Server:   base,
		Health:   health,
		Running:  running,
	}))
	return nil
}
