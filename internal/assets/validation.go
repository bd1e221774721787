package assets

import (
	"fmt"
	"strings"
)

// ValidateStyleName checks that a style name is safe for use as a file name.
func ValidateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	}
	return nil
}
