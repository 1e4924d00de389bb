package app

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/dshills/meg/internal/engine/buffer"
	"github.com/dshills/meg/internal/project/filestore"
	"github.com/dshills/meg/internal/project/vfs"
)

type errLoader struct{ err error }

func (l errLoader) Load(string) ([]byte, error) { return nil, l.err }

func TestOpenDocument_Existing(t *testing.T) {
	memfs := vfs.NewMemFS()
	memfs.WriteFile("/docs/notes.txt", []byte("hello"), 0644)

	doc := OpenDocument(filestore.New(memfs), "/docs/notes.txt", 1024)

	if doc.LoadErr != nil {
		t.Fatalf("LoadErr = %v", doc.LoadErr)
	}
	if doc.Name != "notes.txt" || doc.IsNew {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Buffer.Text() != "hello" || doc.Buffer.Cap() != 6 || doc.Buffer.IsDirty() {
		t.Errorf("buffer text=%q cap=%d dirty=%v", doc.Buffer.Text(), doc.Buffer.Cap(), doc.Buffer.IsDirty())
	}
	if doc.StartupStatus() != "" {
		t.Errorf("StartupStatus = %q, want default", doc.StartupStatus())
	}
}

func TestOpenDocument_Missing(t *testing.T) {
	doc := OpenDocument(filestore.New(vfs.NewMemFS()), "/docs/new.txt", 64)

	if !errors.Is(doc.LoadErr, ErrFileNotFound) || !errors.Is(doc.LoadErr, fs.ErrNotExist) {
		t.Errorf("LoadErr = %v, want ErrFileNotFound", doc.LoadErr)
	}
	if IsFatal(doc.LoadErr) {
		t.Error("a missing file must not be fatal")
	}
	if !doc.IsNew {
		t.Error("IsNew = false")
	}
	if !doc.Buffer.IsEmpty() || doc.Buffer.Cap() != 64 {
		t.Errorf("buffer len=%d cap=%d, want empty with cap 64", doc.Buffer.Len(), doc.Buffer.Cap())
	}
	if doc.StartupStatus() != "new.txt [New File]" {
		t.Errorf("StartupStatus = %q", doc.StartupStatus())
	}
}

func TestOpenDocument_ReadError(t *testing.T) {
	cause := errors.New("permission denied")
	doc := OpenDocument(errLoader{err: cause}, "/secret", 8)

	if !errors.Is(doc.LoadErr, ErrIO) || !errors.Is(doc.LoadErr, cause) {
		t.Errorf("LoadErr = %v, want ErrIO wrapping the cause", doc.LoadErr)
	}
	if doc.IsNew {
		t.Error("IsNew should be false for read errors")
	}
	if !doc.Buffer.IsEmpty() {
		t.Error("buffer should start empty")
	}
	if got := doc.StartupStatus(); !strings.HasPrefix(got, "Could not read secret: ") || !strings.Contains(got, "permission denied") {
		t.Errorf("StartupStatus = %q", got)
	}
}

func TestOpenDocument_MaxCapacity(t *testing.T) {
	doc := OpenDocument(filestore.New(vfs.NewMemFS()), "/f", 2, buffer.WithMaxCapacity(2))

	if err := doc.Buffer.AppendRune('a'); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := doc.Buffer.AppendRune('b'); !errors.Is(err, buffer.ErrOutOfMemory) {
		t.Errorf("second append = %v, want ErrOutOfMemory", err)
	}
}

func TestOpenDocument_TooLargeForMaxCapacity(t *testing.T) {
	memfs := vfs.NewMemFS()
	memfs.WriteFile("/docs/big.txt", []byte("hello world"), 0644)

	doc := OpenDocument(filestore.New(memfs), "/docs/big.txt", 4, buffer.WithMaxCapacity(8))

	if !errors.Is(doc.LoadErr, ErrIO) || !errors.Is(doc.LoadErr, filestore.ErrFileTooLarge) {
		t.Errorf("LoadErr = %v, want ErrIO wrapping ErrFileTooLarge", doc.LoadErr)
	}
	if IsFatal(doc.LoadErr) || doc.IsNew {
		t.Errorf("LoadErr fatal=%v IsNew=%v", IsFatal(doc.LoadErr), doc.IsNew)
	}
	if !doc.Buffer.IsEmpty() || doc.Buffer.Cap() != 4 {
		t.Errorf("buffer len=%d cap=%d, want empty with cap 4", doc.Buffer.Len(), doc.Buffer.Cap())
	}
	if err := doc.Buffer.AppendRune('x'); err != nil {
		t.Errorf("fallback buffer should accept input: %v", err)
	}
	if got := doc.StartupStatus(); !strings.HasPrefix(got, "Could not read big.txt: file too large") {
		t.Errorf("StartupStatus = %q", got)
	}
}

func TestOpenDocument_FitsMaxCapacity(t *testing.T) {
	memfs := vfs.NewMemFS()
	memfs.WriteFile("/docs/small.txt", []byte("hello"), 0644)

	doc := OpenDocument(filestore.New(memfs), "/docs/small.txt", 4, buffer.WithMaxCapacity(12))

	if doc.LoadErr != nil {
		t.Fatalf("LoadErr = %v", doc.LoadErr)
	}
	if err := doc.Buffer.AppendRune('!'); err != nil || doc.Buffer.Text() != "hello!" {
		t.Errorf("append: err=%v text=%q", err, doc.Buffer.Text())
	}
}

func TestOpenDocument_MaxFileSize(t *testing.T) {
	memfs := vfs.NewMemFS()
	memfs.WriteFile("/docs/notes.txt", []byte("hello"), 0644)

	doc := OpenDocument(filestore.New(memfs, filestore.WithMaxFileSize(4)), "/docs/notes.txt", 16)

	if !errors.Is(doc.LoadErr, ErrIO) || !errors.Is(doc.LoadErr, filestore.ErrFileTooLarge) {
		t.Errorf("LoadErr = %v, want ErrIO wrapping ErrFileTooLarge", doc.LoadErr)
	}
	if !doc.Buffer.IsEmpty() {
		t.Error("buffer should start empty")
	}
	if got := doc.StartupStatus(); !strings.HasPrefix(got, "Could not read notes.txt: ") || !strings.Contains(got, "file too large") {
		t.Errorf("StartupStatus = %q", got)
	}
}
