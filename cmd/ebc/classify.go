package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"go-beer-ebc/internal/analyzer"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <ebc>",
		Short: "Name the colour band of an EBC value",
		Long: `Name the colour band of an EBC value measured elsewhere.

Examples:
  ebc classify 12.5
  ebc classify 40`,
		Args: cobra.ExactArgs(1),
		RunE: runClassifyCmd,
	}
}

func runClassifyCmd(cmd *cobra.Command, args []string) error {
	ebc, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid EBC value %q: %w", args[0], err)
	}
	if math.IsNaN(ebc) || math.IsInf(ebc, 0) || ebc < 0 {
		return fmt.Errorf("EBC value must be a finite, non-negative number, got %q", args[0])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%.1f EBC: %s\n", ebc, analyzer.Classify(ebc))
	return nil
}
