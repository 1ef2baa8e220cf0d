package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/johnlanda/kickstart/pkg/types"
)

// Environment variable names
const (
	EnvConfigDir = "KICKSTART_CONFIG_DIR"
	EnvCacheDir  = "KICKSTART_CACHE_DIR"
	EnvStateDir  = "KICKSTART_STATE_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory created under each XDG base directory
	AppDirName = "kickstart"

	// ConfigFileName is the user configuration file in ConfigDir
	ConfigFileName = "config.toml"

	// LogFileName is the log file in StateDir
	LogFileName = "kickstart.log"

	// ClonesDir is the subdirectory of CacheDir holding Git clones
	ClonesDir = "clones"
)

// Paths resolves kickstart's XDG locations.
type Paths struct{}

var _ types.Pather = Paths{}

// New returns the XDG locations for the current environment
func New() Paths {
	return Paths{}
}

// ConfigDir returns the directory holding the user config file
func (Paths) ConfigDir() string {
	return resolve(EnvConfigDir, "XDG_CONFIG_HOME", xdg.ConfigHome)
}

// CacheDir returns the directory for disposable data
func (Paths) CacheDir() string {
	return resolve(EnvCacheDir, "XDG_CACHE_HOME", xdg.CacheHome)
}

// StateDir returns the directory for logs
func (Paths) StateDir() string {
	return resolve(EnvStateDir, "XDG_STATE_HOME", xdg.StateHome)
}

// ConfigFile returns the path of the user config file
func (p Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir(), ConfigFileName)
}

// LogFile returns the path of the log file
func (p Paths) LogFile() string {
	return filepath.Join(p.StateDir(), LogFileName)
}

// ClonesDir returns the directory Git templates are cloned into
func (p Paths) ClonesDir() string {
	return filepath.Join(p.CacheDir(), ClonesDir)
}

func resolve(override, xdgVar, xdgDefault string) string {
	if dir := os.Getenv(override); dir != "" {
		return dir
	}
	base := os.Getenv(xdgVar)
	if base == "" {
		base = xdgDefault
	}
	if base == "" {
		// no home directory; fall back to the working directory
		return "." + AppDirName
	}
	return filepath.Join(base, AppDirName)
}
