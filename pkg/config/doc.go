// Package config loads kickstart's settings.
//
// Settings are layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file, config.toml or config.yaml in the XDG config
//     directory (see package paths)
//  3. KICKSTART_* environment variables, e.g. KICKSTART_IGNORE_MODE=component
//  4. overrides from command line flags
package config
