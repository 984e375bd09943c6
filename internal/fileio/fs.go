// Package fileio moves documents between files and the editing core.
//
// The core never touches the file system. This package reads a file into
// a new engine.Document, writes a document's exact bytes back, and
// periodically autosaves a shared document to a side file.
package fileio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FS is the file system used by this package.
type FS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file content. Readers never see a partially
	// written file.
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// OSFS implements FS using the operating system's file system.
type OSFS struct{}

// Ensure OSFS implements FS.
var _ FS = OSFS{}

// ReadFile reads the entire file content.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a temporary file in the same directory and
// renames it over path. An existing file keeps its permissions.
func (OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// MemFS is an in-memory FS. It is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// Ensure MemFS implements FS.
var _ FS = (*MemFS)(nil)

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// ReadFile returns a copy of the file content.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data.
func (m *MemFS) WriteFile(path string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// Exists returns true if path has been written.
func (m *MemFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[filepath.Clean(path)]
	return ok
}
