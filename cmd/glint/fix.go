package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glint/internal/apply"
)

var fixCmd = &cobra.Command{
	Use:   "fix [directory]",
	Short: "Apply safe fixes and formatting in place",
	Long:  "Run the full pipeline in write mode: non-conflicting fixes are applied, the formatter normalizes the result, and changed files are persisted. Overlapping fixes are skipped and picked up by the next run.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().String("format", "text", "output format (text|json)")
	fixCmd.Flags().Bool("no-format", false, "apply fixes without the formatting pass")
}

func runFix(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", output)
	}
	noFormat, err := cmd.Flags().GetBool("no-format")
	if err != nil {
		return err
	}

	return runOperation(cmd, args, operation{
		mode:   apply.ModeWrite,
		lint:   true,
		fix:    true,
		format: !noFormat,
		output: output,
	})
}
