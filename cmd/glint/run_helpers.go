package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"glint/internal/apply"
	"glint/internal/driver"
	"glint/internal/project"
	"glint/internal/report"
)

// operation describes what a command asks the driver to do.
type operation struct {
	mode   apply.Mode
	lint   bool
	fix    bool
	format bool
	output string // text|json
}

func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// loadWorkspaceConfig resolves the target directory and the nearest
// manifest. The run is rooted at the target, not at the manifest location,
// so `glint check subdir` only touches the subtree.
func loadWorkspaceConfig(path string) (project.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return project.Config{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return project.Config{}, err
	}
	if !info.IsDir() {
		return project.Config{}, fmt.Errorf("%s: not a directory", abs)
	}

	manifest, _, err := project.LoadManifest(abs)
	if err != nil {
		return project.Config{}, err
	}
	cfg := manifest.Config
	cfg.Root = abs
	return cfg, nil
}

func buildLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	switch {
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log, nil
}

func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (auto|on|off)", mode)
	}
}

// runOperation drives one command end to end: config, run, render, verdict.
func runOperation(cmd *cobra.Command, args []string, op operation) error {
	cfg, err := loadWorkspaceConfig(targetPath(args))
	if err != nil {
		return err
	}
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Root().PersistentFlags()
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return err
	}
	timeout, err := flags.GetDuration("file-timeout")
	if err != nil {
		return err
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return err
	}
	noProgress, err := flags.GetBool("no-progress")
	if err != nil {
		return err
	}

	opts := driver.Options{
		Config:         cfg,
		Mode:           op.mode,
		LintEnabled:    op.lint,
		FixEnabled:     op.fix,
		FormatEnabled:  op.format,
		Jobs:           jobs,
		Timeout:        timeout,
		MaxDiagnostics: maxDiagnostics,
		CacheEnabled:   !noCache,
		Log:            log,
	}

	jsonOutput := op.output == "json"
	withUI := !noProgress && !quiet && !jsonOutput && isTerminal(os.Stdout)

	var res *driver.Result
	if withUI {
		res, err = runWithUI(cmd, opts)
	} else {
		res, err = driver.Run(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}

	if err := renderResult(cmd, res, op, color, quiet, showTimings); err != nil {
		return err
	}
	if res.Summary.Failing(op.mode == apply.ModeCheck) {
		exitCode = 1
	}
	return nil
}

func renderResult(cmd *cobra.Command, res *driver.Result, op operation, color, quiet, showTimings bool) error {
	out := cmd.OutOrStdout()
	if op.output == "json" {
		return report.WriteJSON(out, res.Files, res.Summary)
	}

	r := report.NewRenderer(out, res.Files, color)
	r.ShowDiffs = op.mode == apply.ModeCheck && !quiet
	r.Timings = showTimings
	if err := r.Render(res.Summary); err != nil {
		return err
	}
	if showTimings {
		if _, err := fmt.Fprint(out, res.Timings.Summary()); err != nil {
			return err
		}
	}
	return nil
}
