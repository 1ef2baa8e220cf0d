package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/matchers"
	"github.com/johnlanda/kickstart/pkg/paths"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes the environment variables read as settings
const EnvPrefix = "KICKSTART_"

// LoadOptions control where settings are read from.
type LoadOptions struct {
	// ConfigDir holds the user config file; the XDG config dir when empty
	ConfigDir string

	// Overrides are applied last, keyed like the config file
	Overrides map[string]interface{}
}

// Load builds the configuration from every layer.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file
	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = paths.New().ConfigDir()
	}
	if path, parser := findConfigFile(configDir); path != "" {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).WithPath(path)
		}
		logger.Debug().Str("path", path).Msg("User config loaded")
	}

	// 3. Environment, where an empty variable counts as unset
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the first config file present in dir and its parser
func findConfigFile(dir string) (string, koanf.Parser) {
	candidates := []struct {
		name   string
		parser koanf.Parser
	}{
		{"config.toml", toml.Parser()},
		{"config.yaml", yaml.Parser()},
		{"config.yml", yaml.Parser()},
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c.name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, c.parser
		}
	}
	return "", nil
}

func postProcess(cfg *Config) error {
	mode, err := matchers.ParseIgnoreMode(string(cfg.IgnoreMode))
	if err != nil {
		return err
	}
	cfg.IgnoreMode = mode

	if len(cfg.DefinitionFiles) == 0 {
		return errors.New(errors.ErrConfigLoad, "definition_files must list at least one file name")
	}
	for _, name := range cfg.DefinitionFiles {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return errors.Newf(errors.ErrConfigLoad, "definition file %q must be a plain file name", name)
		}
	}
	if cfg.CloneDepth < 0 {
		return errors.Newf(errors.ErrConfigLoad, "clone_depth must not be negative, got %d", cfg.CloneDepth)
	}
	return nil
}
