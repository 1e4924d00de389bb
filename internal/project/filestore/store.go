// Package filestore loads and saves whole documents.
//
// A Store reads a file into memory in one call and writes it back in one
// call. Saves either truncate and overwrite the target in place or, with
// WithAtomicSave, write a temporary file next to it and rename it over the
// target so a failed write never leaves a half-written file behind.
package filestore

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/dshills/meg/internal/project/vfs"
)

// DefaultFileMode is the mode of files created by Save.
const DefaultFileMode fs.FileMode = 0644

// Store reads and writes documents through a VFS.
type Store struct {
	vfs         vfs.VFS
	atomic      bool
	maxFileSize int64 // Maximum file size to load (0 = unlimited)
}

// Option configures a Store.
type Option func(*Store)

// WithAtomicSave makes Save write a temporary file and rename it over the
// target.
func WithAtomicSave(enabled bool) Option {
	return func(s *Store) {
		s.atomic = enabled
	}
}

// WithMaxFileSize sets the maximum file size Load accepts.
func WithMaxFileSize(size int64) Option {
	return func(s *Store) {
		s.maxFileSize = size
	}
}

// New creates a Store backed by fsys.
func New(fsys vfs.VFS, opts ...Option) *Store {
	s := &Store{vfs: fsys}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the whole file at path. A missing file yields an error
// matching fs.ErrNotExist.
func (s *Store) Load(path string) ([]byte, error) {
	info, err := s.vfs.Stat(path)
	if err != nil {
		return nil, &PathError{Op: "load", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &PathError{Op: "load", Path: path, Err: ErrIsDirectory}
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, &PathError{Op: "load", Path: path, Err: ErrFileTooLarge}
	}

	data, err := s.vfs.ReadFile(path)
	if err != nil {
		return nil, &PathError{Op: "load", Path: path, Err: err}
	}
	return data, nil
}

// Save writes data to path, replacing its content. An existing file keeps
// its permission bits; a new file gets DefaultFileMode.
func (s *Store) Save(path string, data []byte) error {
	mode := DefaultFileMode
	info, err := s.vfs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return &PathError{Op: "save", Path: path, Err: ErrIsDirectory}
	case err == nil:
		mode = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return &PathError{Op: "save", Path: path, Err: err}
	}

	if s.atomic {
		err = s.saveAtomic(path, data, mode)
	} else {
		err = s.vfs.WriteFile(path, data, mode)
	}
	if err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// saveAtomic writes to a temp file in the target's directory and renames
// it into place. The temp file is removed on any failure.
func (s *Store) saveAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := s.vfs.TempFile(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	if err := s.vfs.WriteFile(tmp, data, mode); err != nil {
		_ = s.vfs.Remove(tmp)
		return err
	}
	if err := s.vfs.Chmod(tmp, mode); err != nil {
		_ = s.vfs.Remove(tmp)
		return err
	}
	if err := s.vfs.Rename(tmp, path); err != nil {
		_ = s.vfs.Remove(tmp)
		return err
	}
	return nil
}
