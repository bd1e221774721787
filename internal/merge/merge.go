// Package merge combines documents: front matter maps are deep-merged left
// to right and bodies are joined with a separator.
package merge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict is wrapped by every ConflictError.
var ErrConflict = errors.New("merge conflict")

// ErrUnknownStrategy is returned by ParseStrategy.
var ErrUnknownStrategy = errors.New("unknown merge strategy")

// ConflictError reports two scalar values for one key under the Error
// strategy. Key is the dotted path of the key.
type ConflictError struct {
	Key      string
	Existing any
	Incoming any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge conflict on key %q", e.Key)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Document is a front matter map and a body.
type Document struct {
	FrontMatter map[string]any
	Body        string
}

// Strategy settles scalar conflicts.
type Strategy int

const (
	LastWins Strategy = iota
	FirstWins
	Error
)

var strategyNames = map[string]Strategy{
	"last":  LastWins,
	"first": FirstWins,
	"error": Error,
}

// ParseStrategy maps last, first and error to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	st, ok := strategyNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	return st, nil
}

func (s Strategy) String() string {
	for name, st := range strategyNames {
		if st == s {
			return name
		}
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Resolver picks the value for a conflicting key. It overrides Strategy.
type Resolver func(key string, existing, incoming any) any

// DefaultSeparator joins bodies.
const DefaultSeparator = "\n\n"

type options struct {
	strategy  Strategy
	resolver  Resolver
	separator string
}

// Option configures Documents.
type Option func(*options)

// WithStrategy sets the conflict strategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithResolver sets a custom conflict resolver.
func WithResolver(r Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithSeparator sets the body separator.
func WithSeparator(sep string) Option {
	return func(o *options) { o.separator = sep }
}

// Documents merges docs in order. Inputs are not modified.
func Documents(docs []Document, opts ...Option) (Document, error) {
	o := options{strategy: LastWins, separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&o)
	}

	out := Document{FrontMatter: map[string]any{}}
	var body strings.Builder
	for _, d := range docs {
		fm, err := o.merge("", out.FrontMatter, d.FrontMatter)
		if err != nil {
			return Document{}, err
		}
		out.FrontMatter = fm
		if body.Len() > 0 {
			body.WriteString(o.separator)
		}
		body.WriteString(d.Body)
	}
	out.Body = body.String()
	return out, nil
}

// merge returns a new map holding base overlaid with in.
func (o *options) merge(prefix string, base, in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(base)+len(in))
	for k, v := range base {
		out[k] = v
	}
	for k, incoming := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		existing, ok := out[k]
		if !ok {
			out[k] = clone(incoming)
			continue
		}
		v, err := o.value(key, existing, incoming)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (o *options) value(key string, existing, incoming any) (any, error) {
	switch e := existing.(type) {
	case map[string]any:
		if i, ok := incoming.(map[string]any); ok {
			return o.merge(key, e, i)
		}
	case []any:
		if i, ok := incoming.([]any); ok {
			out := make([]any, 0, len(e)+len(i))
			return append(append(out, e...), cloneSlice(i)...), nil
		}
	}
	if o.resolver != nil {
		return o.resolver(key, existing, incoming), nil
	}
	switch o.strategy {
	case FirstWins:
		return existing, nil
	case Error:
		return nil, &ConflictError{Key: key, Existing: existing, Incoming: incoming}
	}
	return clone(incoming), nil
}

func clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, c := range x {
			out[k] = clone(c)
		}
		return out
	case []any:
		return cloneSlice(x)
	}
	return v
}

func cloneSlice(s []any) []any {
	out := make([]any, len(s))
	for i, c := range s {
		out[i] = clone(c)
	}
	return out
}
