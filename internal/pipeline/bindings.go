package pipeline

import (
	"strconv"
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
)

// materialize attaches render bindings top-down. Nodes synthesized here
// already carry their binding and are left alone when the walk reaches
// them.
func (t *Transformer) materialize(doc *ast.Node, f *facts) {
	ast.Walk(doc, func(n *ast.Node, entering bool) ast.WalkStatus {
		if !entering || n.Binding != nil {
			return ast.WalkContinue
		}
		switch n.Kind {
		case ast.KindDirective:
			t.bindDirective(n, f)
		case ast.KindHeading:
			if id, ok := f.headingIDs[n]; ok {
				n.Binding = ast.Bind("h"+strconv.Itoa(n.Depth), "id", id)
			}
		case ast.KindListItem:
			if state, ok := f.tasks[n]; ok {
				n.TaskState = state
				n.Binding = ast.Bind("li",
					"class", "task-item task-item--"+string(state),
					"data-task", string(state))
			}
		case ast.KindTaskMarker:
			n.Binding = TaskMarkerBinding(n.State)
		case ast.KindTaskModifier:
			n.Binding = modifierBinding(n)
		case ast.KindMention:
			n.Binding = MentionBinding(n.Platform, n.Identifier)
		case ast.KindHashtag:
			n.Binding = ast.Bind("span", "class", "hashtag", "data-tag", strings.ToLower(n.Identifier))
			n.Binding.Prefix = []*ast.Node{ast.NewText("#" + n.Identifier)}
		}
		return ast.WalkContinue
	})
}

// bindDirective is the directive-kind to binding table.
func (t *Transformer) bindDirective(d *ast.Node, f *facts) {
	switch d.Name {
	case grammar.NameCallout:
		bindCallout(d)
	case grammar.NameEmbed:
		d.Binding = EmbedBinding(d.Params.String("url"), d.Meta["caption"])
	case "details":
		d.Binding = ast.Bind("details")
		d.Binding.Attrs.SetBool("open", d.Params.Bool("open"))
		if summary := d.Params.String("summary"); summary != "" {
			p := ast.NewParagraph(ast.NewText(summary))
			p.Binding = ast.Bind("summary")
			d.Prepend(synthetic(p))
		}
	case "figure":
		bindFigure(d)
	case "aside":
		d.Binding = ast.Bind("aside", "class", "aside")
		if title := d.Params.String("title"); title != "" {
			p := ast.NewParagraph(ast.NewText(title))
			p.Binding = ast.Bind("p", "class", "aside__title")
			d.Prepend(synthetic(p))
		}
	case "tabs":
		d.Binding = ast.Bind("div", "class", "tabs", "role", "tablist")
		if id := d.Params.String("id"); id != "" {
			d.Binding.Attrs.Set("data-sync-id", id)
		}
	case "tab":
		d.Binding = ast.Bind("div", "class", "tab", "role", "tabpanel")
		if label := d.Params.String("label"); label != "" {
			d.Binding.Attrs.Set("aria-label", label)
		}
	case "math":
		d.Binding = ast.Bind("div", "class", "math", "role", "math")
		if label := d.Params.String("label"); label != "" {
			d.Binding.Attrs.Set("id", label)
		}
		if content, ok := d.Meta["content"]; ok {
			d.Binding.Prefix = []*ast.Node{ast.NewText(content)}
		}
	case "toc":
		d.Binding = ast.Bind("nav", "class", "toc", "aria-label", "Table of contents")
		buildTOC(d, f, t.tocDepth)
	case "include":
		d.Binding = placeholder(d, "include", "data-")
	case "query":
		d.Binding = placeholder(d, "query", "data-query-")
	case "endnotes":
		d.Binding = endnotesBinding()
	default:
		d.Binding = customBinding(d)
	}
}

func bindCallout(d *ast.Node) {
	class := "callout"
	if typ := d.Params.String("type"); typ != "" {
		class += " callout--" + typ
	}
	d.Binding = ast.Bind("aside", "class", class, "role", "note")
	if title := d.Params.String("title"); title != "" {
		p := ast.NewParagraph(ast.NewText(title))
		p.Binding = ast.Bind("p", "class", "callout__title")
		d.Prepend(synthetic(p))
	}
}

// bindFigure prepends the image named by src and wraps the remaining
// children in one figcaption.
func bindFigure(d *ast.Node) {
	d.Binding = ast.Bind("figure")
	if id := d.Params.String("id"); id != "" {
		d.Binding.Attrs.Set("id", id)
	}
	var children []*ast.Node
	if src := d.Params.String("src"); src != "" {
		img := &ast.Node{
			Kind:     ast.KindImage,
			URL:      src,
			Alt:      d.Params.String("alt"),
			Title:    d.Params.String("title"),
			Position: d.Position,
		}
		img.Binding = ast.Bind("img", "src", src, "alt", img.Alt)
		children = append(children, synthetic(img))
	}
	if len(d.Children) > 0 {
		caption := &ast.Node{Kind: ast.KindGroup, Children: d.Children, Binding: ast.Bind("figcaption"), Synthetic: true}
		children = append(children, caption)
	}
	d.Children = children
}

// placeholder mirrors every param as a data attribute.
func placeholder(d *ast.Node, name, prefix string) *ast.Binding {
	b := ast.Bind("div", "class", name)
	for _, p := range d.Params {
		b.Attrs.Set(prefix+p.Key, d.Params.String(p.Key))
	}
	return b
}

// synthetic marks n as created by the pipeline and returns it.
func synthetic(n *ast.Node) *ast.Node {
	n.Synthetic = true
	return n
}

func endnotesBinding() *ast.Binding {
	return ast.Bind("section", "class", "endnotes", "role", "doc-endnotes")
}

// customBinding covers names added to the allow-list by configuration.
func customBinding(d *ast.Node) *ast.Binding {
	b := placeholder(d, "directive directive--"+d.Name, "data-")
	if content, ok := d.Meta["content"]; ok {
		b.Prefix = []*ast.Node{ast.NewText(content)}
	}
	return b
}

// EmbedBinding is the neutral embed binding: a figure holding a link to the
// URL and the caption, if any.
func EmbedBinding(url, caption string) *ast.Binding {
	b := ast.Bind("figure", "class", "embed", "data-url", url)
	link := &ast.Node{Kind: ast.KindLink, URL: url, Children: []*ast.Node{ast.NewText(url)}}
	b.Prefix = []*ast.Node{link}
	if caption != "" {
		fc := ast.NewParagraph(ast.NewText(caption))
		fc.Binding = ast.Bind("figcaption")
		b.Suffix = []*ast.Node{fc}
	}
	return b
}

// MentionBinding links a mention on a known platform. Anything else gets
// the neutral span.
func MentionBinding(platform, id string) *ast.Binding {
	label := []*ast.Node{ast.NewText("@" + id)}
	if p, ok := LookupPlatform(platform); ok {
		if url := p.URL(id); url != "" {
			b := ast.Bind("a",
				"href", url,
				"class", "mention mention--"+platform,
				"title", p.Label)
			b.Prefix = label
			return b
		}
	}
	b := NeutralMentionBinding(id)
	if platform != "" {
		b.Attrs.Set("data-platform", platform)
	}
	return b
}

// NeutralMentionBinding renders a mention as plain text in a span.
func NeutralMentionBinding(id string) *ast.Binding {
	b := ast.Bind("span", "class", "mention")
	b.Prefix = []*ast.Node{ast.NewText("@" + id)}
	return b
}

// TaskMarkerBinding renders a marker as a disabled checkbox, checked when
// the task is done.
func TaskMarkerBinding(state ast.TaskState) *ast.Binding {
	b := ast.Bind("input", "type", "checkbox", "data-state", string(state))
	b.Attrs.SetBool("checked", state == ast.TaskDone)
	b.Attrs.SetBool("disabled", true)
	return b
}

func modifierBinding(n *ast.Node) *ast.Binding {
	b := ast.Bind("span", "class", "task-modifier task-modifier--"+n.Key, "data-key", n.Key)
	text := n.Key
	if n.HasValue {
		b.Attrs.Set("data-value", n.Value)
		text += ": " + n.Value
	}
	b.Prefix = []*ast.Node{ast.NewText(text)}
	return b
}
