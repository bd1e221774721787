// Package frontmatter splits a leading YAML block from a document.
//
// Detection is delegated to adrg/frontmatter with a single "---" format.
// The block is decoded through yamlutil; a block that is not a valid YAML
// mapping degrades to an empty map while the body after it is still
// returned.
package frontmatter

import (
	"bytes"

	fm "github.com/adrg/frontmatter"

	"github.com/alnah/go-bfm/internal/yamlutil"
)

// Delimiter opens and closes a front matter block.
const Delimiter = "---"

// Split separates front matter from body. The map is never nil.
func Split(src []byte) (map[string]any, []byte) {
	var raw []byte
	var seen bool
	capture := fm.NewFormat(Delimiter, Delimiter, func(data []byte, _ any) error {
		raw = append([]byte(nil), data...)
		seen = true
		return nil
	})

	var sink struct{}
	body, err := fm.Parse(bytes.NewReader(src), &sink, capture)
	if err != nil {
		return map[string]any{}, src
	}
	if !seen || len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, body
	}
	data, err := yamlutil.Codec{}.DecodeMap(raw)
	if err != nil {
		return map[string]any{}, body
	}
	return data, body
}

// Serialize writes data as a front matter block, or "" when data is empty.
func Serialize(data map[string]any) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	out, err := yamlutil.Encode(data)
	if err != nil {
		return "", err
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return Delimiter + "\n" + string(out) + Delimiter + "\n", nil
}
