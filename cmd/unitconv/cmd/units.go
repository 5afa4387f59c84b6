package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
)

var unitsVerbose bool

var unitsCmd = &cobra.Command{
	Use:   "units [dimension]",
	Short: "List dimensions and their units",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUnits,
}

func init() {
	unitsCmd.Flags().BoolVarP(&unitsVerbose, "verbose", "v", false, "show unit names and aliases")
}

func runUnits(cmd *cobra.Command, args []string) error {
	reg := units.Default()

	if len(args) == 1 {
		d, err := reg.Dimension(args[0])
		if err != nil {
			return err
		}
		fmt.Print(formatDimension(d, true))
		return nil
	}

	fmt.Print(formatCatalog(reg, unitsVerbose))
	return nil
}
