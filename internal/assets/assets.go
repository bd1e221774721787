package assets

// DefaultStyleName is the name of the built-in style used by --page output.
const DefaultStyleName = "default"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style by name.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidStyleName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// Names returns the built-in style names, sorted.
func Names() []string {
	return defaultLoader.Names()
}
