package scan

import (
	"unicode"
	"unicode/utf8"
)

// EOF is returned by Peek when the cursor is at the end of input.
const EOF rune = -1

// Cursor is an immutable position over a source buffer.
// The zero value is a cursor over empty input.
type Cursor struct {
	src  []byte
	pos  int
	prev rune
}

// New returns a cursor at the start of src. The preceding code point is EOF,
// which the boundary rules treat as start of input.
func New(src []byte) Cursor {
	return Cursor{src: src, prev: EOF}
}

// NewAt returns a cursor at pos with an explicit preceding code point. Host
// adapters use it to scan a line fragment while keeping the boundary context
// of the enclosing text.
func NewAt(src []byte, pos int, prev rune) Cursor {
	if pos < 0 {
		pos = 0
	}
	if pos > len(src) {
		pos = len(src)
	}
	return Cursor{src: src, pos: pos, prev: prev}
}

// Peek returns the code point under the cursor or EOF.
func (c Cursor) Peek() rune {
	if c.pos >= len(c.src) {
		return EOF
	}
	r, _ := utf8.DecodeRune(c.src[c.pos:])
	return r
}

// Next returns the cursor advanced by one code point. At EOF it returns c.
func (c Cursor) Next() Cursor {
	if c.pos >= len(c.src) {
		return c
	}
	r, size := utf8.DecodeRune(c.src[c.pos:])
	return Cursor{src: c.src, pos: c.pos + size, prev: r}
}

// Skip advances while keep reports true for the current code point.
func (c Cursor) Skip(keep func(rune) bool) Cursor {
	for !c.EOF() && keep(c.Peek()) {
		c = c.Next()
	}
	return c
}

// Prev returns the code point before the cursor, or EOF at start of input.
func (c Cursor) Prev() rune { return c.prev }

// Offset returns the byte offset of the cursor in the source.
func (c Cursor) Offset() int { return c.pos }

// EOF reports whether the cursor is at the end of input.
func (c Cursor) EOF() bool { return c.pos >= len(c.src) }

// Source returns the underlying buffer.
func (c Cursor) Source() []byte { return c.src }

// Since returns the text between from and c.
func (c Cursor) Since(from Cursor) string {
	if from.pos > c.pos {
		return ""
	}
	return string(c.src[from.pos:c.pos])
}

// Rest returns the text from the cursor to the end of input.
func (c Cursor) Rest() string { return string(c.src[c.pos:]) }

// AtLineEnd reports whether the cursor sits on a line ending or EOF.
func (c Cursor) AtLineEnd() bool { return IsLineEnding(c.Peek()) }

// IsLineEnding reports whether r ends a line. EOF counts as a line end.
func IsLineEnding(r rune) bool {
	return r == '\n' || r == '\r' || r == EOF
}

// IsSpace reports whether r is a space or tab.
func IsSpace(r rune) bool { return r == ' ' || r == '\t' }

// IsASCIIAlpha reports whether r is in [A-Za-z].
func IsASCIIAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsASCIIAlphaNum reports whether r is in [A-Za-z0-9].
func IsASCIIAlphaNum(r rune) bool {
	return IsASCIIAlpha(r) || (r >= '0' && r <= '9')
}

// IsLower reports whether r is in [a-z].
func IsLower(r rune) bool { return r >= 'a' && r <= 'z' }

// AtBoundary reports whether the code point before c allows an inline
// trigger to start: start of input, whitespace, or anything that is not an
// ASCII letter or digit.
func (c Cursor) AtBoundary() bool {
	return !IsASCIIAlphaNum(c.prev)
}

// AfterSpace reports whether c is at start of input or right after whitespace.
func (c Cursor) AfterSpace() bool {
	return c.prev == EOF || unicode.IsSpace(c.prev)
}
