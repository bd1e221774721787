package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-bfm/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension md",
			extension: "md",
			wantErr:   nil,
		},
		{
			name:      "valid extension json",
			extension: "json",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "html\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic output writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "html file",
			file:    "out.html",
			content: "<p>Hello</p>",
		},
		{
			name:    "empty content",
			file:    "empty.md",
			content: "",
		},
		{
			name:    "no extension",
			file:    "README",
			content: "# Readme\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			if err := fileutil.WriteFileAtomic(path, []byte(tt.content)); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read output: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content = %q, want %q", string(data), tt.content)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, want 1 (temp file left behind)", len(entries))
			}
		})
	}
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.html")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("file content = %q, want %q", data, "new")
	}
}

func TestWriteFileAtomic_Errors(t *testing.T) {
	t.Parallel()

	if err := fileutil.WriteFileAtomic("", nil); !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("WriteFileAtomic(\"\") error = %v, want ErrEmptyPath", err)
	}

	missing := filepath.Join(t.TempDir(), "missing", "out.html")
	err := fileutil.WriteFileAtomic(missing, []byte("x"))
	if err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("error = %v, want creating temp file error", err)
	}
}

// ---------------------------------------------------------------------------
// TestOutputPath - Output path derivation
// ---------------------------------------------------------------------------

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		dir     string
		ext     string
		want    string
		wantErr error
	}{
		{
			name:  "next to input",
			input: filepath.Join("notes", "a.md"),
			ext:   "html",
			want:  filepath.Join("notes", "a.html"),
		},
		{
			name:  "into directory",
			input: filepath.Join("notes", "a.md"),
			dir:   "out",
			ext:   "json",
			want:  filepath.Join("out", "a.json"),
		},
		{
			name:  "no extension",
			input: "README",
			ext:   "html",
			want:  "README.html",
		},
		{
			name:  "dotted name",
			input: "v1.2.notes.markdown",
			ext:   "md",
			want:  "v1.2.notes.md",
		},
		{
			name:    "empty input",
			ext:     "html",
			wantErr: fileutil.ErrEmptyPath,
		},
		{
			name:    "bad extension",
			input:   "a.md",
			ext:     "../x",
			wantErr: fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.OutputPath(tt.input, tt.dir, tt.ext)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("OutputPath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputPath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "exists.md")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"directory", dir, false},
		{"missing file", filepath.Join(dir, "missing.md"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsMarkdown - Markdown extension detection
// ---------------------------------------------------------------------------

func TestIsMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"doc.md", true},
		{"DOC.MD", true},
		{"notes.markdown", true},
		{"page.bfm", true},
		{"dir/sub/doc.md", true},
		{"doc.txt", false},
		{"md", false},
		{"doc.md.bak", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsMarkdown(tt.path); got != tt.want {
				t.Errorf("IsMarkdown(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWriteFileAtomic_Permissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("Unix permission bits do not apply on Windows")
	}

	path := filepath.Join(t.TempDir(), "page.html")
	if err := fileutil.WriteFileAtomic(path, []byte("<p>x</p>")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if got := info.Mode().Perm(); got != 0o644 {
		t.Errorf("file mode = %o, want %o", got, 0o644)
	}
}
