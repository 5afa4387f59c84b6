package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nicolas2912/UnitConverter/internal/app"
)

var convertJSON bool

var convertCmd = &cobra.Command{
	Use:   "convert <dimension> <value> <from> <to>",
	Short: "Convert a value locally",
	Long: "Converts value from one unit to another without a running server.\n" +
		"Dimension and unit names are case-insensitive; aliases such as 'Celsius' or 'liter' work too.",
	Example: "  unitconv convert length 5 km mi\n  unitconv convert --json Temperature -40 C F",
	Args:    cobra.ExactArgs(4),
	RunE:    runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "print the result as JSON")
	// Flags go before the dimension; afterwards "-40" is a value, not a flag.
	convertCmd.Flags().SetInterspersed(false)
}

func runConvert(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: must be a number", args[1])
	}

	// Local conversions are not recorded; the usage store belongs to serve.
	svc := app.NewService(nil, nil, nil)
	res, err := svc.Convert(context.Background(), args[0], args[2], args[3], value)
	if err != nil {
		return err
	}

	if convertJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatConversion(res))
	return nil
}
