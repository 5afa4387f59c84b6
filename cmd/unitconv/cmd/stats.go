package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nicolas2912/UnitConverter/internal/adapters/bbolt"
	"github.com/Nicolas2912/UnitConverter/internal/app"
	"github.com/Nicolas2912/UnitConverter/internal/ports"
)

var (
	statsDB    string
	statsJSON  bool
	statsReset bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show persisted usage statistics",
	Long: "Reads conversion counters from the usage database. When a running server\n" +
		"holds the database lock, stats are fetched from its /api/stats endpoint instead.",
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDB, "db", "", "usage database path (default: stats.db_path or .unitconv/usage.db)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print stats as JSON")
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "clear all counters")
}

func runStats(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(projectRoot())

	dbPath := statsDB
	if dbPath == "" {
		settings, _, err := loadSettings()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		dbPath = settings.Stats.DBPath
	}
	if dbPath == "" {
		dbPath = paths.DB
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) && !statsReset {
		return fmt.Errorf("no usage database at %s. Start with: unitconv serve --db %s", dbPath, dbPath)
	}

	store, err := bbolt.NewStore(dbPath)
	if err != nil {
		if isDBLockError(err) {
			if statsReset {
				return fmt.Errorf("cannot reset: %s", diagnoseDBLock(paths))
			}
			if stats, ok := remoteStats(paths); ok {
				return printStats(stats)
			}
			return fmt.Errorf("cannot read stats: %s", diagnoseDBLock(paths))
		}
		return err
	}
	defer store.Close()

	if statsReset {
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Printf("⚡ usage stats cleared (%s)\n", dbPath)
		return nil
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	return printStats(stats)
}

// remoteStats asks a running server for its stats.
func remoteStats(p *app.Paths) (*ports.UsageStats, bool) {
	base, _, ok := probeServer(p)
	if !ok {
		return nil, false
	}
	resp, err := probeClient.Get(base + "/api/stats")
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	stats := ports.NewUsageStats()
	if err := json.NewDecoder(resp.Body).Decode(stats); err != nil {
		return nil, false
	}
	return stats, true
}

func printStats(stats *ports.UsageStats) error {
	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Print(formatStats(stats))
	return nil
}
