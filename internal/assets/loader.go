package assets

// StyleLoader loads a stylesheet by name (without the .css extension).
// Implementations return ErrStyleNotFound for unknown names and
// ErrInvalidStyleName for unsafe ones.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}
