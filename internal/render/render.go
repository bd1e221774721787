// Package render writes a finished tree as HTML.
//
// A node's render binding decides its element and attributes; binding
// prefix and suffix nodes are rendered around the node's children. Nodes
// without a binding use the conventional element for their kind. Raw HTML is
// dropped and dangerous link schemes are blanked unless Unsafe is set.
package render

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/serialize"
)

var (
	ErrNilDocument = errors.New("render: nil document")
	ErrHTMLRender  = errors.New("HTML rendering failed")
)

// Options configures a Renderer.
type Options struct {
	// Unsafe keeps raw HTML and every link scheme.
	Unsafe bool
	// CodeStyle names the chroma style behind CodeCSS. Defaults to
	// DefaultCodeStyle.
	CodeStyle string
}

// Renderer renders trees to HTML fragments. It is safe for concurrent use.
type Renderer struct {
	unsafe      bool
	highlighter *highlighter
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		unsafe:      opts.Unsafe,
		highlighter: newHighlighter(opts.CodeStyle),
	}
}

// HTML renders doc with default options.
func HTML(ctx context.Context, doc *ast.Node) (string, error) {
	return New(Options{}).HTML(ctx, doc)
}

// HTML renders doc as an HTML fragment.
// Rendering runs in a goroutine so the call returns on cancellation.
func (r *Renderer) HTML(ctx context.Context, doc *ast.Node) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc == nil {
		return "", ErrNilDocument
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		w := &writer{r: r}
		w.children(doc.Children, false)
		if w.err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLRender, w.err)}
			return
		}
		done <- result{html: w.b.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

type writer struct {
	r   *Renderer
	b   strings.Builder
	err error
}

var voidElements = map[string]bool{
	"img": true, "input": true, "br": true, "hr": true,
}

func (w *writer) children(nodes []*ast.Node, tight bool) {
	for _, n := range nodes {
		w.node(n, tight)
	}
}

// node renders n. tight is set for the children of items in a tight list,
// whose unbound paragraphs render without a p element.
func (w *writer) node(n *ast.Node, tight bool) {
	if n.Binding != nil && n.Binding.Element != "" {
		w.bound(n)
		return
	}
	switch n.Kind {
	case ast.KindText:
		w.text(n.Value)
	case ast.KindParagraph:
		if tight {
			w.children(n.Children, false)
			return
		}
		w.wrap("p", nil, n.Children)
	case ast.KindHeading:
		w.wrap("h"+strconv.Itoa(min(max(n.Depth, 1), 6)), nil, n.Children)
	case ast.KindThematicBreak:
		w.open("hr", nil)
	case ast.KindBlockquote:
		w.wrap("blockquote", nil, n.Children)
	case ast.KindList:
		w.list(n)
	case ast.KindListItem:
		w.open("li", nil)
		w.children(n.Children, tight)
		w.close("li")
	case ast.KindCode:
		w.code(n)
	case ast.KindHTML:
		if w.r.unsafe {
			w.b.WriteString(n.Value)
		} else {
			w.b.WriteString("<!-- raw HTML omitted -->")
		}
	case ast.KindTable:
		w.table(n)
	case ast.KindEmphasis:
		w.wrap("em", nil, n.Children)
	case ast.KindStrong:
		w.wrap("strong", nil, n.Children)
	case ast.KindDelete:
		w.wrap("del", nil, n.Children)
	case ast.KindInlineCode:
		w.open("code", nil)
		w.text(n.Value)
		w.close("code")
	case ast.KindBreak:
		w.open("br", nil)
		w.b.WriteByte('\n')
	case ast.KindLink:
		attrs := ast.Attrs{{Key: "href", Value: n.URL}}
		if n.Title != "" {
			attrs.Set("title", n.Title)
		}
		w.wrap("a", attrs, n.Children)
	case ast.KindImage:
		attrs := ast.Attrs{{Key: "src", Value: n.URL}, {Key: "alt", Value: n.Alt}}
		if n.Title != "" {
			attrs.Set("title", n.Title)
		}
		w.open("img", attrs)
	case ast.KindFootnoteDef:
		attrs := ast.Attrs{{Key: "class", Value: "footnote-definition"}, {Key: "data-label", Value: n.Label}}
		if len(n.Children) > 0 {
			w.wrap("div", attrs, n.Children)
			return
		}
		w.open("div", attrs)
		w.text(n.RawContent)
		w.close("div")
	case ast.KindDirective:
		w.wrap("div", ast.Attrs{{Key: "class", Value: "directive directive--" + n.Name}}, n.Children)
	case ast.KindGroup, ast.KindRoot:
		w.children(n.Children, tight)
	default:
		// unbound BFM inlines render as their source form
		w.text(serialize.Markdown(n))
	}
}

// bound renders n through its binding.
func (w *writer) bound(n *ast.Node) {
	b := n.Binding
	w.open(b.Element, b.Attrs)
	if voidElements[b.Element] {
		return
	}
	w.children(b.Prefix, false)
	switch n.Kind {
	case ast.KindText, ast.KindInlineCode:
		w.text(n.Value)
	case ast.KindCode:
		w.code(n)
	case ast.KindList:
		w.items(n)
	default:
		w.children(n.Children, false)
	}
	w.children(b.Suffix, false)
	w.close(b.Element)
}

func (w *writer) open(element string, attrs ast.Attrs) {
	w.b.WriteByte('<')
	w.b.WriteString(element)
	for _, a := range attrs {
		w.b.WriteByte(' ')
		w.b.WriteString(a.Key)
		if a.Boolean {
			continue
		}
		v := a.Value
		if a.Key == "href" || a.Key == "src" {
			v = w.url(v)
		}
		w.b.WriteString(`="`)
		w.b.WriteString(html.EscapeString(v))
		w.b.WriteByte('"')
	}
	w.b.WriteByte('>')
}

func (w *writer) close(element string) {
	w.b.WriteString("</")
	w.b.WriteString(element)
	w.b.WriteByte('>')
}

func (w *writer) wrap(element string, attrs ast.Attrs, children []*ast.Node) {
	w.open(element, attrs)
	w.children(children, false)
	w.close(element)
}

func (w *writer) text(s string) {
	w.b.WriteString(html.EscapeString(s))
}

func (w *writer) list(n *ast.Node) {
	element := "ul"
	var attrs ast.Attrs
	if n.Ordered {
		element = "ol"
		if n.Start > 1 {
			attrs.Set("start", strconv.Itoa(n.Start))
		}
	}
	w.open(element, attrs)
	w.items(n)
	w.close(element)
}

func (w *writer) items(n *ast.Node) {
	for _, item := range n.Children {
		if item.Binding != nil {
			w.boundItem(item, !n.Spread)
			continue
		}
		w.node(item, !n.Spread)
	}
}

// boundItem renders a bound list item keeping tight-list paragraphs inline.
func (w *writer) boundItem(item *ast.Node, tight bool) {
	b := item.Binding
	w.open(b.Element, b.Attrs)
	w.children(b.Prefix, false)
	w.children(item.Children, tight)
	w.children(b.Suffix, false)
	w.close(b.Element)
}

func (w *writer) table(n *ast.Node) {
	w.open("table", nil)
	for i, row := range n.Children {
		switch i {
		case 0:
			w.open("thead", nil)
		case 1:
			w.open("tbody", nil)
		}
		w.open("tr", nil)
		for _, cell := range row.Children {
			element := "td"
			if i == 0 {
				element = "th"
			}
			var attrs ast.Attrs
			if cell.Align != "" && cell.Align != "none" {
				attrs.Set("style", "text-align:"+cell.Align)
			}
			w.wrap(element, attrs, cell.Children)
		}
		w.close("tr")
		if i == 0 {
			w.close("thead")
		}
	}
	if len(n.Children) > 1 {
		w.close("tbody")
	}
	w.close("table")
}

func (w *writer) code(n *ast.Node) {
	if n.Lang != "" {
		out, err := w.r.highlighter.highlight(n.Value, n.Lang)
		if err != nil {
			w.err = err
			return
		}
		if out != "" {
			w.b.WriteString(out)
			return
		}
	}
	var attrs ast.Attrs
	if n.Lang != "" {
		attrs.Set("class", "language-"+n.Lang)
	}
	w.open("pre", nil)
	w.open("code", attrs)
	w.text(n.Value)
	w.close("code")
	w.close("pre")
}

var unsafeSchemes = []string{"javascript:", "vbscript:", "file:", "data:"}

// url blanks dangerous schemes in href and src unless the renderer is
// unsafe.
func (w *writer) url(u string) string {
	if w.r.unsafe {
		return u
	}
	lower := strings.ToLower(strings.TrimSpace(u))
	for _, s := range unsafeSchemes {
		if strings.HasPrefix(lower, s) {
			return ""
		}
	}
	return u
}
