package vfs

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"
)

// MemFS implements VFS using an in-memory file system. Paths are cleaned
// with path.Clean; directories are implicit.
//
// MemFS is not safe for concurrent use.
type MemFS struct {
	files map[string]*memFile
	temps int

	// WriteErr, when set, is returned by every WriteFile call, leaving the
	// target untouched. It simulates a full disk or a read-only mount.
	WriteErr error
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]*memFile)}
}

// Ensure MemFS implements VFS.
var _ VFS = (*MemFS)(nil)

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	filePath = path.Clean(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

// WriteFile writes data to a file, keeping the mode of an existing file.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	filePath = path.Clean(filePath)
	if m.WriteErr != nil {
		return &fs.PathError{Op: "write", Path: filePath, Err: m.WriteErr}
	}

	content := make([]byte, len(data))
	copy(content, data)
	if f, ok := m.files[filePath]; ok {
		f.content = content
		f.modTime = time.Now()
		return nil
	}
	m.files[filePath] = &memFile{content: content, mode: perm, modTime: time.Now()}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (fs.FileInfo, error) {
	filePath = path.Clean(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
	}
	return &memFileInfo{name: path.Base(filePath), file: f}, nil
}

// Rename renames (moves) a file, replacing any file at newPath.
func (m *MemFS) Rename(oldPath, newPath string) error {
	oldPath = path.Clean(oldPath)
	f, ok := m.files[oldPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldPath)
	m.files[path.Clean(newPath)] = f
	return nil
}

// Remove removes a file.
func (m *MemFS) Remove(filePath string) error {
	filePath = path.Clean(filePath)
	if _, ok := m.files[filePath]; !ok {
		return &fs.PathError{Op: "remove", Path: filePath, Err: fs.ErrNotExist}
	}
	delete(m.files, filePath)
	return nil
}

// TempFile creates an empty file named after pattern in dir.
func (m *MemFS) TempFile(dir, pattern string) (string, error) {
	m.temps++
	suffix := fmt.Sprintf("%d", m.temps)
	name := pattern + suffix
	if i := strings.LastIndex(pattern, "*"); i >= 0 {
		name = pattern[:i] + suffix + pattern[i+1:]
	}
	p := path.Join(dir, name)
	m.files[p] = &memFile{mode: 0o600, modTime: time.Now()}
	return p, nil
}

// Exists returns true if a file exists at filePath.
func (m *MemFS) Exists(filePath string) bool {
	_, ok := m.files[path.Clean(filePath)]
	return ok
}

// Chmod changes the mode of a file.
func (m *MemFS) Chmod(filePath string, mode fs.FileMode) error {
	f, ok := m.files[path.Clean(filePath)]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: filePath, Err: fs.ErrNotExist}
	}
	f.mode = mode
	return nil
}

// Len returns the number of files.
func (m *MemFS) Len() int {
	return len(m.files)
}

// memFileInfo implements fs.FileInfo for MemFS files.
type memFileInfo struct {
	name string
	file *memFile
}

func (i *memFileInfo) Name() string       { return i.name }
func (i *memFileInfo) Size() int64        { return int64(len(i.file.content)) }
func (i *memFileInfo) Mode() fs.FileMode  { return i.file.mode }
func (i *memFileInfo) ModTime() time.Time { return i.file.modTime }
func (i *memFileInfo) IsDir() bool        { return false }
func (i *memFileInfo) Sys() any           { return nil }
