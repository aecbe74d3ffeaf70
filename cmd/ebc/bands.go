package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-beer-ebc/internal/analyzer"
	"go-beer-ebc/internal/report"
	"go-beer-ebc/pkg/models"
)

// NewBandsCmd creates the bands command.
func NewBandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bands [name]",
		Short: "List the EBC colour bands",
		Long: `List the EBC colour bands, from lightest to darkest.

With a name, print only that band. Names are matched case-insensitively and
small typos are tolerated.

Examples:
  ebc bands
  ebc bands amber
  ebc bands --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBandsCmd,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Output format: text, json, yaml or markdown")

	return cmd
}

func runBandsCmd(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	w, err := report.NewWriter(report.Format(format), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	bands := analyzer.Bands()
	if len(args) == 1 {
		band, ok := analyzer.LookupBand(args[0])
		if !ok {
			return fmt.Errorf("unknown colour band %q", args[0])
		}
		bands = []models.Band{band}
	}

	return w.WriteBands(bands)
}
