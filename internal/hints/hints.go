// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// UserConfigDir locates the per-user config directory. Replaceable in tests.
var UserConfigDir = os.UserConfigDir

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating name.yaml in the user config directory.
func ForConfigNotFound(name string) string {
	hint := "use --config /path/to/file.yaml"
	if dir, err := UserConfigDir(); err == nil && dir != "" {
		hint += " or create " + filepath.Join(dir, "go-bfm", name+".yaml")
	}
	return format(hint)
}

// ForStyleNotFound returns hints for page style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + ", none")
}

// ForHostExtension returns hints for unknown host extension names.
func ForHostExtension(known []string) string {
	if len(known) == 0 {
		return ""
	}
	return format("known host extensions: " + strings.Join(known, ", "))
}

// ForDirectiveName returns hints for rejected directive names.
func ForDirectiveName() string {
	return format("directive names are lowercase letters, must not start with \"end\", and callout and embed are reserved")
}

// ForMergeConflict returns hints for front matter conflicts under the error strategy.
func ForMergeConflict() string {
	return format("use --strategy first or --strategy last to pick a side")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
