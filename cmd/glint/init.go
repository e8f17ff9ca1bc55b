package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"glint/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a workspace manifest",
	Long: `Create a glint.toml manifest with the default configuration. If [path] is
omitted, the current directory is initialized. A non-existing path will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	target, err := filepath.Abs(targetPath(args))
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("workspace already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(defaultManifest()), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, relErr := filepath.Rel(wd, target); relErr == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized glint workspace in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - %s\n", project.ManifestName)
	return nil
}

func defaultManifest() string {
	return `# glint workspace manifest

[workspace]
include = ["**"]
exclude = [".git/**", "**/.git/**"]
follow_symlinks = false

[linter]
max_line_length = 120
max_blank_lines = 2
# disabled = ["todo"]

[formatter]
max_blank_lines = 2
final_newline = true
`
}
