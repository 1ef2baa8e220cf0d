// Package paths resolves the directories kickstart reads and writes outside
// of a generation: the user config file, the log file and the cache that
// Git templates are cloned into.
//
// Every location follows the XDG Base Directory conventions through
// github.com/adrg/xdg and can be overridden with an environment variable:
//
//	KICKSTART_CONFIG_DIR  config.toml lives here
//	KICKSTART_CACHE_DIR   Git clones are made here
//	KICKSTART_STATE_DIR   kickstart.log is written here
//
// The XDG_*_HOME variables are honoured when set, even after the xdg
// package has initialised, so tests can point them at temporary
// directories.
package paths
