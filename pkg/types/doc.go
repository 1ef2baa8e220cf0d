// Package types defines the interfaces shared by kickstart's packages,
// chiefly the FS abstraction the generator writes through.
package types
