package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glint/internal/apply"
)

var checkCmd = &cobra.Command{
	Use:   "check [directory]",
	Short: "Lint the workspace without touching any file",
	Long:  "Run the full pipeline in check mode: findings are reported, fixes and formatting show up as unified diffs, and nothing is written. Exits 1 when errors are found or changes are pending.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
	checkCmd.Flags().Bool("no-fix-preview", false, "report findings only, without evaluating fixes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", output)
	}
	noFixPreview, err := cmd.Flags().GetBool("no-fix-preview")
	if err != nil {
		return err
	}

	return runOperation(cmd, args, operation{
		mode:   apply.ModeCheck,
		lint:   true,
		fix:    !noFixPreview,
		format: true,
		output: output,
	})
}
