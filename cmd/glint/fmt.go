package main

import (
	"github.com/spf13/cobra"

	"glint/internal/apply"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [directory]",
	Short: "Normalize file formatting in place",
	Long:  "Run only the formatter over the workspace. With --check nothing is written and pending changes are shown as diffs.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that would change without writing")
}

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}

	mode := apply.ModeWrite
	if check {
		mode = apply.ModeCheck
	}
	return runOperation(cmd, args, operation{
		mode:   mode,
		lint:   false,
		fix:    false,
		format: true,
		output: "text",
	})
}
