package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dshills/meg/internal/engine/buffer"
	"github.com/dshills/meg/internal/project/filestore"
)

// Loader reads a document's file.
type Loader interface {
	Load(path string) ([]byte, error)
}

// Document is the file being edited and the buffer holding its text.
type Document struct {
	// Path is the file path as given on the command line.
	Path string

	// Name is the display name.
	Name string

	// Buffer holds the text.
	Buffer *buffer.Buffer

	// IsNew is true when the file did not exist.
	IsNew bool

	// LoadErr records why the file could not be read. It wraps
	// ErrFileNotFound or ErrIO; either way Buffer is usable and empty.
	LoadErr error
	cause   error
}

// OpenDocument loads path into a buffer. Load failures are not fatal: the
// document starts empty with initialCapacity and LoadErr says why. A file
// too large to grow under the buffer's maximum capacity counts as a load
// failure.
func OpenDocument(l Loader, path string, initialCapacity int, opts ...buffer.Option) *Document {
	doc := &Document{
		Path: path,
		Name: filepath.Base(path),
	}

	data, err := l.Load(path)
	doc.cause = err
	switch {
	case err == nil:
		buf := buffer.NewFromBytes(data, opts...)
		if buf.CanGrow() {
			doc.Buffer = buf
			return doc
		}
		// No room to type a single character under the capacity limit.
		doc.cause = fmt.Errorf("%w: %d bytes leaves no room to edit", filestore.ErrFileTooLarge, len(data))
		doc.LoadErr = NewOperationError("load", path, fmt.Errorf("%w: %w", ErrIO, doc.cause))
	case errors.Is(err, fs.ErrNotExist):
		doc.IsNew = true
		doc.LoadErr = NewOperationError("load", path, fmt.Errorf("%w: %w", ErrFileNotFound, err))
	default:
		doc.LoadErr = NewOperationError("load", path, fmt.Errorf("%w: %w", ErrIO, err))
	}

	doc.Buffer = buffer.New(initialCapacity, opts...)
	return doc
}

// StartupStatus returns the status line to show when editing begins, or
// "" for the default.
func (d *Document) StartupStatus() string {
	switch {
	case d.LoadErr == nil:
		return ""
	case d.IsNew:
		return fmt.Sprintf("%s [New File]", d.Name)
	default:
		return fmt.Sprintf("Could not read %s: %v", d.Name, d.cause)
	}
}
