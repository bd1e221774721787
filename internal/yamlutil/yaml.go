// Package yamlutil decodes and encodes the YAML used by front matter and
// configuration files. It keeps the YAML library behind one small surface
// and bounds input size.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// DefaultMaxInputSize is the input limit of a zero Codec (1MB).
const DefaultMaxInputSize = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document is not a mapping")
)

// Codec decodes YAML with a size limit. Strict rejects unknown fields when
// decoding into structs.
type Codec struct {
	MaxInputSize int
	Strict       bool
}

func (c Codec) limit() int {
	if c.MaxInputSize <= 0 {
		return DefaultMaxInputSize
	}
	return c.MaxInputSize
}

func (c Codec) validate(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if n := c.limit(); len(data) > n {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), n)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Decode parses data into v.
func (c Codec) Decode(data []byte, v any) error {
	if err := c.validate(data, v); err != nil {
		return err
	}
	var opts []yaml.DecodeOption
	if c.Strict {
		opts = append(opts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeMap parses a YAML mapping. A null document (`null` or `~`) gives an
// empty map; any other non-mapping is ErrNotMapping.
func (c Codec) DecodeMap(data []byte) (map[string]any, error) {
	var v any
	if err := c.Decode(data, &v); err != nil {
		return nil, err
	}
	switch m := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return m, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
}

// Decode parses data into v with the default limit.
func Decode(data []byte, v any) error { return Codec{}.Decode(data, v) }

// DecodeStrict parses data into v and rejects unknown fields.
func DecodeStrict(data []byte, v any) error { return Codec{Strict: true}.Decode(data, v) }

// Encode writes v as block-style YAML with two-space indentation.
// Multiline strings use the literal style.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v,
		yaml.Indent(2),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
