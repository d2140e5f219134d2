package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/NERVsystems/footprintmcp/pkg/footprint"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeLines prints one row per breakdown line followed by the total.
func writeLines(w io.Writer, lines []footprint.Line, total float64, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tACTIVITY\tTONNES")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%.*f\n", l.Group, l.Activity, precision, footprint.Round(l.Tonnes, precision))
	}
	fmt.Fprintf(tw, "\ttotal\t%.*f\n", precision, footprint.Round(total, precision))
	return tw.Flush()
}
