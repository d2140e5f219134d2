package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

func coefficientsCmd(opts *outputOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "coefficients",
		Short: "List the emission coefficients and their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var coeffs []footprint.Coefficient
			for _, c := range footprint.Coefficients() {
				if group == "" || c.Group == group {
					coeffs = append(coeffs, c)
				}
			}
			if len(coeffs) == 0 {
				return fmt.Errorf("no coefficients for group %q", group)
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), coeffs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tNAME\tVALUE\tUNIT\tSOURCE")
			for _, c := range coeffs {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\n", c.Group, c.Name, c.Value, c.Unit, c.Source)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Only list coefficients of this group")
	return cmd
}
