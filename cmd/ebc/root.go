package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go-beer-ebc/internal/logger"
	"go-beer-ebc/internal/version"
)

// NewRootCmd creates the root command for ebc.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebc",
		Short: "Estimate beer colour on the EBC scale from photographs",
		Long: `ebc estimates the colour of a beer on the European Brewery Convention scale.

It samples the centre of each photograph, converts the average colour to an
EBC value and names the matching colour band, from Pale straw to Black.`,
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewBandsCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag reads the persistent verbose flag.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

// setupLogger sends human-readable logs to w, debug level when verbose.
func setupLogger(w io.Writer, verbose bool) {
	logger.UseTextOutput(w)
	if verbose {
		logger.SetLevel("debug")
		return
	}
	logger.SetLevel("warn")
}
