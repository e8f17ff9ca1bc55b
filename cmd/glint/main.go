package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"glint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "glint",
	Short:        "Workspace lint, fix and format toolchain",
	Long:         `glint discovers workspace files and runs concurrent per-file parse, lint, fix and format pipelines with deterministic reporting.`,
	SilenceUsage: true,
}

// exitCode carries the run verdict past cobra: commands render their own
// output and set this instead of returning an error.
var exitCode int

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "number of concurrent file pipelines (0 = all CPUs)")
	rootCmd.PersistentFlags().Duration("file-timeout", 0, "per-file processing deadline (0 = none)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 256, "maximum diagnostics kept per file")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Bool("no-progress", false, "disable the live progress view")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the result cache")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
	stop()
	os.Exit(exitCode)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
