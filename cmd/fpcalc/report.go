package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/NERVsystems/footprintmcp/pkg/config"
	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

func reportCmd(opts *outputOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Footprint of a lifestyle profile",
		Long: `Reads a YAML profile with computing, diet, transportation and travel
sections and prints the annual footprint of each group and the total.
Use --file - to read the profile from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProfile(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			r, err := p.Report()
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			return writeLines(cmd.OutOrStdout(), r.Lines, r.Total, opts.precision)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Profile file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readProfile(stdin io.Reader, file string) (footprint.Profile, error) {
	if file != "-" {
		return config.LoadProfile(file)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return footprint.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	if len(data) == 0 {
		return footprint.Profile{}, errors.New("empty profile on stdin")
	}
	return config.ParseProfile(data)
}
