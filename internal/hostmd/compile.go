package hostmd

import (
	"sort"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
)

// compiler turns a goldmark tree into an ast tree. The result holds copies
// of every string it needs, so it does not reference the source buffer.
type compiler struct {
	source     []byte
	lineStarts []int
}

func newCompiler(source []byte) *compiler {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &compiler{source: source, lineStarts: starts}
}

// line maps a byte offset to a 1-based line number.
func (c *compiler) line(offset int) int {
	if offset < 0 {
		return 0
	}
	return sort.Search(len(c.lineStarts), func(i int) bool { return c.lineStarts[i] > offset })
}

// offset returns the source offset where n starts, or -1.
func (c *compiler) offset(n gast.Node) int {
	switch v := n.(type) {
	case *gast.Text:
		return v.Segment.Start
	case *Directive:
		return v.Offset
	case *FootnoteDefinition:
		return v.Offset
	case *Inline:
		return v.Offset
	}
	if n.Type() == gast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start
	}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if off := c.offset(ch); off >= 0 {
			return off
		}
	}
	return -1
}

func (c *compiler) document(doc gast.Node) *ast.Node {
	root := &ast.Node{Kind: ast.KindRoot, Position: ast.Position{Line: 1}}
	root.Children = c.children(doc)
	return root
}

// children compiles the children of n, merging adjacent text nodes.
func (c *compiler) children(n gast.Node) []*ast.Node {
	var out []*ast.Node
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		for _, compiled := range c.node(ch) {
			if compiled.Kind == ast.KindText && len(out) > 0 && out[len(out)-1].Kind == ast.KindText {
				out[len(out)-1].Value += compiled.Value
				continue
			}
			out = append(out, compiled)
		}
	}
	return out
}

// unescape resolves backslash escapes and character references in text.
func unescape(b []byte) string {
	return string(util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(b))))
}

func (c *compiler) lines(n gast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

// node compiles one host node. Most kinds yield exactly one node; hard line
// breaks yield a text and a break, unknown wrappers yield their children.
func (c *compiler) node(n gast.Node) []*ast.Node {
	out := &ast.Node{Position: ast.Position{Line: c.line(c.offset(n))}}
	switch v := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		out.Kind = ast.KindParagraph
		out.Children = c.children(n)
	case *gast.Heading:
		out.Kind = ast.KindHeading
		out.Depth = v.Level
		out.Children = c.children(n)
	case *gast.ThematicBreak:
		out.Kind = ast.KindThematicBreak
	case *gast.Blockquote:
		out.Kind = ast.KindBlockquote
		out.Children = c.children(n)
	case *gast.List:
		out.Kind = ast.KindList
		out.Ordered = v.IsOrdered()
		if out.Ordered {
			out.Start = v.Start
		}
		out.Spread = !v.IsTight
		out.Children = c.children(n)
	case *gast.ListItem:
		out.Kind = ast.KindListItem
		out.Children = c.children(n)
	case *gast.FencedCodeBlock:
		out.Kind = ast.KindCode
		out.Lang = string(v.Language(c.source))
		out.Value = strings.TrimSuffix(c.lines(n), "\n")
	case *gast.CodeBlock:
		out.Kind = ast.KindCode
		out.Value = strings.TrimSuffix(c.lines(n), "\n")
	case *gast.HTMLBlock:
		out.Kind = ast.KindHTML
		value := c.lines(n)
		if v.HasClosure() {
			value += string(v.ClosureLine.Value(c.source))
		}
		out.Value = strings.TrimSuffix(value, "\n")
	case *east.Table:
		out.Kind = ast.KindTable
		out.Children = c.children(n)
	case *east.TableHeader:
		out.Kind = ast.KindTableRow
		out.Children = c.children(n)
		for _, cell := range out.Children {
			cell.Header = true
		}
	case *east.TableRow:
		out.Kind = ast.KindTableRow
		out.Children = c.children(n)
	case *east.TableCell:
		out.Kind = ast.KindTableCell
		if v.Alignment != east.AlignNone {
			out.Align = v.Alignment.String()
		}
		out.Children = c.children(n)
	case *gast.Text:
		out.Kind = ast.KindText
		out.Value = unescape(v.Segment.Value(c.source))
		switch {
		case v.HardLineBreak():
			return []*ast.Node{out, {Kind: ast.KindBreak, Position: out.Position}}
		case v.SoftLineBreak():
			out.Value += "\n"
		}
	case *gast.String:
		out.Kind = ast.KindText
		out.Value = string(v.Value)
	case *gast.CodeSpan:
		out.Kind = ast.KindInlineCode
		var b strings.Builder
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch t := ch.(type) {
			case *gast.Text:
				b.Write(t.Segment.Value(c.source))
			case *gast.String:
				b.Write(t.Value)
			}
		}
		out.Value = strings.ReplaceAll(b.String(), "\n", " ")
	case *gast.Emphasis:
		out.Kind = ast.KindEmphasis
		if v.Level >= 2 {
			out.Kind = ast.KindStrong
		}
		out.Children = c.children(n)
	case *east.Strikethrough:
		out.Kind = ast.KindDelete
		out.Children = c.children(n)
	case *gast.Link:
		out.Kind = ast.KindLink
		out.URL = string(v.Destination)
		out.Title = string(v.Title)
		out.Children = c.children(n)
	case *gast.Image:
		out.Kind = ast.KindImage
		out.URL = string(v.Destination)
		out.Title = string(v.Title)
		out.Alt = (&ast.Node{Children: c.children(n)}).Text()
	case *gast.AutoLink:
		out.Kind = ast.KindLink
		out.URL = string(v.URL(c.source))
		out.Children = []*ast.Node{{Kind: ast.KindText, Value: string(v.Label(c.source)), Position: out.Position}}
	case *gast.RawHTML:
		out.Kind = ast.KindHTML
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		out.Value = b.String()
	case *Inline:
		compiled := *v.Node
		compiled.Position = out.Position
		return []*ast.Node{&compiled}
	case *Directive:
		out.Kind = ast.KindDirective
		out.Name = v.Open.Name
		out.Params = append(ast.Params(nil), v.Open.Params...)
		out.Body = append([]string(nil), v.Body...)
	case *FootnoteDefinition:
		out.Kind = ast.KindFootnoteDef
		out.Label = v.Label
		out.RawContent = grammar.RawContent(v.Content)
	default:
		return c.children(n)
	}
	return []*ast.Node{out}
}
