// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrEmptyPath              = errors.New("path cannot be empty")
)

// filePermissions is the mode of files written by WriteFileAtomic.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// markdownExtensions are the input extensions recognized by IsMarkdown.
var markdownExtensions = []string{".md", ".markdown", ".bfm"}

// WriteFileAtomic writes content to path through a temporary file in the same
// directory, so readers never observe a partial file.
func WriteFileAtomic(path string, content []byte) (err error) {
	if path == "" {
		return ErrEmptyPath
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = "tmp"
	}
	if err := ValidateExtension(ext); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".bfm-*."+ext)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if chmodErr := tmpFile.Chmod(filePermissions); chmodErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}
	return nil
}

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// OutputPath derives the output file for input: the input's base name with
// extension ext, placed in dir, or next to the input when dir is empty.
//
// Examples:
//   - ("notes/a.md", "", "html") -> "notes/a.html"
//   - ("notes/a.md", "out", "json") -> "out/a.json"
//   - ("README", "", "html") -> "README.html"
func OutputPath(input, dir, ext string) (string, error) {
	if input == "" {
		return "", ErrEmptyPath
	}
	if err := ValidateExtension(ext); err != nil {
		return "", err
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + ext
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base), nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsMarkdown returns true if path has a Markdown extension (case-insensitive).
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
