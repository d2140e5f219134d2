package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ver "github.com/NERVsystems/footprintmcp/pkg/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fpcalc",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), ver.String())
		},
	}
}
