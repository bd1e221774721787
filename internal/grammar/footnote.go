package grammar

import (
	"strings"

	"github.com/alnah/go-bfm/internal/scan"
)

func isLabelRune(r rune) bool {
	return scan.IsASCIIAlphaNum(r) || r == '_' || r == '-'
}

var footnoteLabel = scan.Seq(
	scan.Literal("[^"),
	scan.Span(TokFootnoteLabel, scan.While(1, isLabelRune)),
	scan.Is(']'),
)

// FootnoteRef recognizes [^label].
var FootnoteRef scan.Construct = footnoteLabel

// ParseFootnoteRef returns the label of a reference at c and the cursor
// after it.
func ParseFootnoteRef(c scan.Cursor) (string, scan.Cursor, bool) {
	r := FootnoteRef(c)
	if !r.OK {
		return "", c, false
	}
	t, _ := r.Find(TokFootnoteLabel)
	return t.Text(c.Source()), r.Cursor, true
}

// footnoteDefStart is [^label]: SPACE* content, content running to the
// line end.
var footnoteDefStart = scan.Seq(
	footnoteLabel,
	scan.Is(':'),
	scan.While(0, scan.IsSpace),
	scan.Span(TokFootnoteContent, scan.While(0, func(r rune) bool { return !scan.IsLineEnding(r) })),
)

// ParseFootnoteDef recognizes the first line of a definition and claims it
// unless env.Interrupt is set.
func ParseFootnoteDef(c scan.Cursor, env scan.Env, line int) (label, content string, ok bool) {
	r := footnoteDefStart(c)
	if !r.OK {
		return "", "", false
	}
	if !env.Interrupt && !env.Claim(line) {
		return "", "", false
	}
	src := c.Source()
	l, _ := r.Find(TokFootnoteLabel)
	t, _ := r.Find(TokFootnoteContent)
	return l.Text(src), t.Text(src), true
}

// continuationIndent is the CHECK run before claiming a continuation line.
var continuationIndent = scan.While(2, scan.IsSpace)

// FootnoteContinuation reports whether the line at c continues an open
// definition: at least two leading spaces and not held by another construct.
// The whole indent is dropped from the returned text.
func FootnoteContinuation(c scan.Cursor, env scan.Env, line int) (string, bool) {
	if !scan.Check(c, continuationIndent) {
		return "", false
	}
	if !env.Claim(line) {
		return "", false
	}
	start := c.Skip(scan.IsSpace)
	end := start.Skip(func(r rune) bool { return !scan.IsLineEnding(r) })
	return end.Since(start), true
}

// RawContent joins definition lines the way they are stored on the node.
func RawContent(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
