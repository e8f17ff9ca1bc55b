package textlint

import (
	"glint/internal/pipeline"
	"glint/internal/project"
	"glint/internal/source"
)

// New assembles the text toolchain from a resolved configuration. The
// interner is shared by every pipeline of the run.
func New(cfg project.Config, strings *source.Interner) pipeline.Toolchain {
	return pipeline.Toolchain{
		Parser:    Parser{},
		Analyzer:  &Analyzer{Strings: strings},
		Linter:    &Linter{Cfg: cfg.Linter, Strings: strings},
		Formatter: &Formatter{Cfg: cfg.Formatter},
	}
}
