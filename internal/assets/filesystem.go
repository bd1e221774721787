package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemLoader loads {dir}/{name}.css from a user style directory.
// Reads go through os.Root, so a style file or symlink can never resolve
// outside dir.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a FilesystemLoader for dir.
// Returns ErrInvalidBasePath unless dir is an existing, openable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBasePath, abs, err)
	}
	_ = root.Close()

	return &FilesystemLoader{dir: abs}, nil
}

// Dir returns the absolute style directory.
func (f *FilesystemLoader) Dir() string { return f.dir }

// LoadStyle reads {dir}/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(f.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	defer root.Close()

	file := name + ".css"
	content, err := root.ReadFile(file)
	switch {
	case err == nil:
		return string(content), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case isSymlink(root, file):
		// os.Root refuses links leaving the directory.
		return "", fmt.Errorf("%w: %s links outside %s", ErrPathTraversal, file, f.dir)
	}
	return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
}

// isSymlink reports whether name inside root is a symbolic link.
func isSymlink(root *os.Root, name string) bool {
	info, err := root.Lstat(name)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// Compile-time interface check.
var _ StyleLoader = (*FilesystemLoader)(nil)
