package assets

import "errors"

// StyleResolver combines a custom directory with the built-in styles. A
// custom style shadows the built-in style of the same name.
type StyleResolver struct {
	custom   StyleLoader // nil if no custom directory configured
	embedded StyleLoader
}

// NewStyleResolver creates a StyleResolver. An empty dir uses the built-in
// styles only. Returns ErrInvalidBasePath if dir is set but unusable.
func NewStyleResolver(dir string) (*StyleResolver, error) {
	resolver := &StyleResolver{
		embedded: NewEmbeddedLoader(),
	}

	if dir != "" {
		fsLoader, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a style, trying the custom directory first.
func (r *StyleResolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found", not validation or I/O errors.
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}

	return r.embedded.LoadStyle(name)
}

// HasCustomLoader returns true if a custom style directory is configured.
func (r *StyleResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ StyleLoader = (*StyleResolver)(nil)
