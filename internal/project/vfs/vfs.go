// Package vfs provides the file system abstraction used for loading and
// saving documents, with an OS implementation and an in-memory one for
// tests.
package vfs

import (
	"io/fs"
)

// VFS is the set of file operations document persistence needs.
type VFS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, truncating it if it exists and
	// creating it with perm otherwise.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file information.
	Stat(path string) (fs.FileInfo, error)

	// Rename renames (moves) a file.
	Rename(oldPath, newPath string) error

	// Remove removes a file.
	Remove(path string) error

	// Chmod changes the mode of a file.
	Chmod(path string, mode fs.FileMode) error

	// TempFile creates a new empty file in dir whose name is built from
	// pattern, replacing its last "*" with a random string, and returns
	// its path.
	TempFile(dir, pattern string) (string, error)
}
