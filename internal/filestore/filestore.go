// Package filestore reads and writes files under one root directory.
//
// A Dir is opened once at startup and shared read-only by every
// connection. Writes use create-or-truncate and take no locks: two
// concurrent writers to the same name race and the last one wins.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// Dir is an immutable handle on the served directory. All access goes
// through an os.Root, so names cannot escape it.
type Dir struct {
	root *os.Root
	path string
}

// Open resolves path and opens it as the root of a Dir
func Open(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("open root %s: %w", abs, err)
	}

	return &Dir{root: root, path: abs}, nil
}

// Path returns the absolute path of the root directory
func (d *Dir) Path() string {
	return d.path
}

// Read returns the contents of name. A missing name or a directory is
// ErrNotFound.
func (d *Dir) Read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	f, err := d.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, name)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write creates name, truncating any existing file, and writes data to it
func (d *Dir) Write(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	f, err := d.root.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// Close releases the root handle. It must only be called once no
// connection can still use the Dir.
func (d *Dir) Close() error {
	return d.root.Close()
}

// checkName rejects names that are empty, absolute or climb out of the root
func checkName(name string) error {
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
