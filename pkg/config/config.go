package config

import (
	"github.com/johnlanda/kickstart/pkg/generate"
	"github.com/johnlanda/kickstart/pkg/matchers"
)

// Config holds the settings of a kickstart run.
type Config struct {
	DefinitionFiles []string            `koanf:"definition_files"`
	VCSDirs         []string            `koanf:"vcs_dirs"`
	IgnoreMode      matchers.IgnoreMode `koanf:"ignore_mode"`
	Atomic          bool                `koanf:"atomic"`
	NoInput         bool                `koanf:"no_input"`
	CloneDepth      int                 `koanf:"clone_depth"`
}

// GeneratorOptions converts the settings into generator options
func (c *Config) GeneratorOptions(presets map[string]string) generate.Options {
	return generate.Options{
		DefinitionFiles: c.DefinitionFiles,
		VCSDirs:         c.VCSDirs,
		IgnoreMode:      c.IgnoreMode,
		Atomic:          c.Atomic,
		Presets:         presets,
	}
}
