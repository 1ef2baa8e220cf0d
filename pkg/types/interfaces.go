package types

import "io/fs"

// FS defines the filesystem operations used by the generator.
// Implementations report the failing path through *fs.PathError.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Lstat falls back to Stat where links are not supported
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides the XDG locations kickstart reads and writes
type Pather interface {
	// ConfigDir returns the XDG config directory for kickstart
	ConfigDir() string

	// CacheDir returns the XDG cache directory for kickstart
	CacheDir() string

	// StateDir returns the XDG state directory for kickstart
	StateDir() string
}
