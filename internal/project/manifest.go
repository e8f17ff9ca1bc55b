package project

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest couples a parsed glint.toml with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// LoadManifest finds and parses glint.toml starting from startDir.
// When no manifest exists the default configuration rooted at startDir is
// returned with found=false.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		abs, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, false, fmt.Errorf("failed to resolve start directory: %w", absErr)
		}
		return &Manifest{Root: abs, Config: Default(abs)}, false, nil
	}

	root := filepath.Dir(manifestPath)
	cfg, err := decodeConfig(manifestPath, root)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   root,
		Config: cfg,
	}, true, nil
}

func decodeConfig(path, root string) (Config, error) {
	cfg := Default(root)
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Root = root
	if len(cfg.Workspace.Include) == 0 {
		cfg.Workspace.Include = Default(root).Workspace.Include
	}
	if cfg.Linter.MaxLineLength <= 0 {
		return Config{}, fmt.Errorf("%s: [linter].max_line_length must be positive", path)
	}
	if cfg.Linter.MaxBlankLines < 0 || cfg.Formatter.MaxBlankLines < 0 {
		return Config{}, fmt.Errorf("%s: max_blank_lines must not be negative", path)
	}
	return cfg, nil
}
