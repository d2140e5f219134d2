package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// outputOptions are shared by every command that prints a footprint.
type outputOptions struct {
	json      bool
	precision int
}

func newRootCmd() *cobra.Command {
	opts := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "fpcalc",
		Short: "Estimate annual carbon footprints in tonnes CO2E",
		Long: `fpcalc evaluates the computing, diet, transportation and travel
footprint formulas for a set of activity quantities, or for a whole
lifestyle profile read from a YAML file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.precision < 0 || opts.precision > 10 {
				return fmt.Errorf("--precision must be between 0 and 10, got %d", opts.precision)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")
	cmd.PersistentFlags().IntVar(&opts.precision, "precision", 4, "Decimal places shown for tonnes")

	cmd.AddCommand(
		computingCmd(opts),
		dietCmd(opts),
		transportationCmd(opts),
		travelCmd(opts),
		activityCmd(opts),
		reportCmd(opts),
		coefficientsCmd(opts),
		versionCmd(),
	)
	return cmd
}
