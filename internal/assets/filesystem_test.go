package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeStyle writes {dir}/{name}.css.
func writeStyle(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".css"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write CSS file: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
		if !filepath.IsAbs(loader.Dir()) {
			t.Errorf("Dir() = %q, want absolute path", loader.Dir())
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	t.Run("loads existing style", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeStyle(t, dir, "custom", "body { color: red; }")

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		got, err := loader.LoadStyle("custom")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got != "body { color: red; }" {
			t.Errorf("LoadStyle() = %q, want %q", got, "body { color: red; }")
		}
	})

	t.Run("missing style", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadStyle("nope"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadStyle("../x"); !errors.Is(err, ErrInvalidStyleName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidStyleName", err)
		}
	})

	t.Run("symlink inside directory", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("symlinks need elevated privileges on Windows")
		}

		dir := t.TempDir()
		writeStyle(t, dir, "base", "h1 {}")
		if err := os.Symlink("base.css", filepath.Join(dir, "alias.css")); err != nil {
			t.Fatalf("Symlink() error = %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		got, err := loader.LoadStyle("alias")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got != "h1 {}" {
			t.Errorf("LoadStyle() = %q, want %q", got, "h1 {}")
		}
	})

	t.Run("symlink escaping directory", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("symlinks need elevated privileges on Windows")
		}

		outside := t.TempDir()
		writeStyle(t, outside, "secret", "body {}")
		dir := t.TempDir()
		if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(dir, "linked.css")); err != nil {
			t.Fatalf("Symlink() error = %v", err)
		}

		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if _, err := loader.LoadStyle("linked"); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("LoadStyle() error = %v, want ErrPathTraversal", err)
		}
	})
}
