package grammar

import (
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/scan"
)

// Fixed directive names.
const (
	NameCallout = "callout"
	NameEmbed   = "embed"
)

// Default generic allow-list.
var (
	DefaultContainers = []string{"details", "tabs", "tab", "figure", "aside"}
	DefaultLeaves     = []string{"include", "query", "toc", "math", "endnotes"}
)

// Dialect identifies which directive grammar accepted an opening line.
type Dialect int

const (
	DialectGeneric Dialect = iota
	DialectCallout
	DialectEmbed
)

func (d Dialect) String() string {
	switch d {
	case DialectCallout:
		return "callout"
	case DialectEmbed:
		return "embed"
	default:
		return "generic"
	}
}

// Open is a compiled directive opening line.
type Open struct {
	Dialect Dialect
	Name    string
	Params  ast.Params
	// Container is true when the body is re-parsed as document content.
	Container bool
}

// Directives is an immutable directive configuration: the generic allow-list
// split into container and leaf names, plus the fixed-name dialects.
type Directives struct {
	containers *scan.Trie
	leaves     *scan.Trie
	names      *scan.Trie
	callout    scan.Construct
	embed      scan.Construct
	generic    scan.Construct
}

// NewDirectives builds a configuration. Empty name lists fall back to the
// defaults; names must be lowercase ASCII letters.
func NewDirectives(containers, leaves []string) *Directives {
	if containers == nil {
		containers = DefaultContainers
	}
	if leaves == nil {
		leaves = DefaultLeaves
	}
	d := &Directives{
		containers: scan.NewTrie(containers...),
		leaves:     scan.NewTrie(leaves...),
	}
	d.names = d.containers.With(leaves...)
	d.callout = fixedOpen(NameCallout, paramList(calloutParam))
	d.embed = embedOpen
	d.generic = d.genericOpen
	return d
}

// ValidName reports whether s can be used as a directive name.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !scan.IsLower(r) {
			return false
		}
	}
	return !strings.HasPrefix(s, "end")
}

// Containers returns the container names of the generic dialect.
func (d *Directives) Containers() []string { return d.containers.Words() }

// Leaves returns the leaf names of the generic dialect.
func (d *Directives) Leaves() []string { return d.leaves.Words() }

// IsContainer reports whether the body of name is re-parsed.
func (d *Directives) IsContainer(name string) bool {
	return name == NameCallout || (name != NameEmbed && d.containers.Contains(name))
}

// IsLeaf reports whether name keeps its body as text.
func (d *Directives) IsLeaf(name string) bool {
	return name == NameEmbed || (name != NameCallout && d.leaves.Contains(name))
}

// Known reports whether any dialect accepts name.
func (d *Directives) Known(name string) bool {
	return name == NameCallout || name == NameEmbed || d.names.Contains(name)
}

// fixedOpen recognizes '@' name, then either the line end or a space and
// params. Anything else after the name rejects.
func fixedOpen(name string, params scan.Construct) scan.Construct {
	lit := scan.Seq(scan.Is('@'), scan.Span(TokDirectiveName, scan.Literal(name)))
	return func(c scan.Cursor) scan.Result {
		r := lit(c)
		if !r.OK {
			return r
		}
		return afterName(r, params)
	}
}

func afterName(r scan.Result, params scan.Construct) scan.Result {
	cur := r.Cursor
	switch {
	case cur.AtLineEnd():
		return r
	case scan.IsSpace(cur.Peek()):
		p := scan.Span(TokDirectiveParams, params)(cur)
		if !p.OK {
			return scan.Reject()
		}
		return scan.Accept(p.Cursor, append(r.Tokens, p.Tokens...)...)
	default:
		return scan.Reject()
	}
}

// embedOpen is '@embed' SPACE+ URL, the URL being the rest of the line.
func embedOpen(c scan.Cursor) scan.Result {
	head := scan.Seq(
		scan.Is('@'),
		scan.Span(TokDirectiveName, scan.Literal(NameEmbed)),
		scan.While(1, scan.IsSpace),
	)
	r := head(c)
	if !r.OK {
		return r
	}
	start := r.Cursor
	end := start.Skip(func(r rune) bool { return !scan.IsLineEnding(r) })
	url := strings.TrimSpace(end.Since(start))
	if url == "" {
		return scan.Reject()
	}
	// the token covers the trimmed URL
	from := start.Offset() + strings.Index(end.Since(start), url)
	tok := scan.Token{Kind: TokEmbedURL, Start: from, End: from + len(url)}
	return scan.Accept(end, append(r.Tokens, tok)...)
}

// genericOpen consumes the lowercase run after '@' and requires it to be an
// allow-listed name. There is no retry on a shorter name.
func (d *Directives) genericOpen(c scan.Cursor) scan.Result {
	if c.Peek() != '@' {
		return scan.Reject()
	}
	at := c.Next()
	_, end, ok := d.names.Exact(at, scan.IsLower)
	if !ok {
		return scan.Reject()
	}
	r := scan.Accept(end, scan.Token{Kind: TokDirectiveName, Start: at.Offset(), End: end.Offset()})
	return afterName(r, paramList(genericParam))
}

// OpenLine recognizes a directive opening line at c, trying the fixed-name
// dialects before the generic one. Unless env.Interrupt is set the line is
// claimed for env.Owner; a line held by another construct rejects.
func (d *Directives) OpenLine(c scan.Cursor, env scan.Env, line int) (Open, scan.Result) {
	var dialect Dialect
	r := scan.Attempt(c,
		tag(&dialect, DialectCallout, d.callout),
		tag(&dialect, DialectEmbed, d.embed),
		tag(&dialect, DialectGeneric, d.generic),
	)
	if !r.OK {
		return Open{}, r
	}
	if !env.Interrupt && !env.Claim(line) {
		return Open{}, scan.Reject()
	}
	return d.compileOpen(c.Source(), dialect, r), r
}

// tag records which alternative accepted.
func tag(dst *Dialect, d Dialect, con scan.Construct) scan.Construct {
	return func(c scan.Cursor) scan.Result {
		r := con(c)
		if r.OK {
			*dst = d
		}
		return r
	}
}

func (d *Directives) compileOpen(src []byte, dialect Dialect, r scan.Result) Open {
	o := Open{Dialect: dialect}
	if t, ok := r.Find(TokDirectiveName); ok {
		o.Name = t.Text(src)
	}
	if t, ok := r.Find(TokEmbedURL); ok {
		o.Params.Set(ast.Param{Key: "url", Value: t.Text(src)})
	} else {
		o.Params = compileParams(src, r.Tokens)
	}
	o.Container = d.IsContainer(o.Name)
	return o
}

// ParseOpen recognizes an opening line without a line registry.
func (d *Directives) ParseOpen(line string) (Open, bool) {
	o, r := d.OpenLine(scan.New([]byte(line)), scan.Env{}, 0)
	return o, r.OK
}

// LineKind classifies a line inside an open directive.
type LineKind int

const (
	// LineBody is a body line claimed by the directive.
	LineBody LineKind = iota
	// LineClose is the closing fence.
	LineClose
	// LineLazy belongs to another open construct and ends the directive.
	LineLazy
)

// closeFence builds the closing matcher for one activation:
// '@end' name SPACE* followed by the line end.
func closeFence(name string) scan.Construct {
	return scan.Span(TokCloseFence, scan.Seq(
		scan.Literal("@end"+name),
		scan.While(0, scan.IsSpace),
		scan.LineEnd,
	))
}

// IsClose reports whether the line at c closes directive name.
func IsClose(c scan.Cursor, name string) bool {
	return scan.Check(c, closeFence(name))
}

// ContinueLine classifies the line at c for directive name.
func ContinueLine(c scan.Cursor, name string, env scan.Env, line int) LineKind {
	if env.Lines != nil && env.Lines.Lazy(line, env.Owner) {
		return LineLazy
	}
	if IsClose(c, name) {
		return LineClose
	}
	if !env.Claim(line) {
		return LineLazy
	}
	return LineBody
}

// Block is a complete directive scanned from text: the opening line, the
// raw body lines and whether a closing fence was found.
type Block struct {
	Open
	Body   []string
	Closed bool
}

// ParseBlock scans one whole directive from the start of src. Lines keep
// their trailing newline. An unclosed directive runs to end of input.
func (d *Directives) ParseBlock(src string) (Block, int, bool) {
	buf := []byte(src)
	c := scan.New(buf)
	open, r := d.OpenLine(c, scan.Env{}, 0)
	if !r.OK {
		return Block{}, 0, false
	}
	b := Block{Open: open}
	pos := lineAfter(buf, r.Cursor.Offset())
	for pos < len(buf) {
		next := lineAfter(buf, pos)
		if ContinueLine(scan.NewAt(buf, pos, '\n'), open.Name, scan.Env{}, pos) == LineClose {
			b.Closed = true
			return b, next, true
		}
		b.Body = append(b.Body, string(buf[pos:next]))
		pos = next
	}
	return b, pos, true
}

func lineAfter(buf []byte, pos int) int {
	for pos < len(buf) && buf[pos] != '\n' {
		pos++
	}
	if pos < len(buf) {
		pos++
	}
	return pos
}
