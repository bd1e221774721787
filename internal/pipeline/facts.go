package pipeline

import (
	"strconv"

	"github.com/alnah/go-bfm/ast"
)

// facts is what the collection pass learns about a resolved tree. The
// materialization pass reads it; nothing here points at a node that has to
// be changed by some other node.
type facts struct {
	// tasks maps list items to the state their marker declared.
	tasks map[*ast.Node]ast.TaskState
	// headings are the top-level headings in document order.
	headings []*ast.Node
	// headingIDs holds the render id of every heading some toc lists.
	headingIDs map[*ast.Node]string
	// refs are footnote references in document order.
	refs []*ast.Node
	// defs maps labels to definitions; a later definition replaces an
	// earlier one.
	defs map[string]*ast.Node
	// endnotes is the first top-level endnotes directive, if any.
	endnotes *ast.Node
}

// collectFacts walks doc once without mutating it.
func collectFacts(doc *ast.Node, defaultDepth int) *facts {
	f := &facts{
		tasks:      make(map[*ast.Node]ast.TaskState),
		headingIDs: make(map[*ast.Node]string),
		defs:       make(map[string]*ast.Node),
	}

	for _, n := range doc.Children {
		switch {
		case n.Kind == ast.KindHeading:
			f.headings = append(f.headings, n)
		case n.IsDirective("endnotes") && f.endnotes == nil:
			f.endnotes = n
		}
	}

	tocDepth := 0
	var items []*ast.Node
	ast.Walk(doc, func(n *ast.Node, entering bool) ast.WalkStatus {
		if n.Kind == ast.KindListItem {
			if entering {
				items = append(items, n)
			} else {
				items = items[:len(items)-1]
			}
			return ast.WalkContinue
		}
		if !entering {
			return ast.WalkContinue
		}
		switch n.Kind {
		case ast.KindTaskMarker:
			if len(items) > 0 {
				f.tasks[items[len(items)-1]] = n.State
			}
		case ast.KindFootnoteRef:
			f.refs = append(f.refs, n)
		case ast.KindFootnoteDef:
			f.defs[n.Label] = n
		case ast.KindDirective:
			if n.Name == "toc" {
				tocDepth = max(tocDepth, tocDepthParam(n, defaultDepth))
			}
		}
		return ast.WalkContinue
	})

	for _, h := range f.headings {
		if h.Depth <= tocDepth {
			f.headingIDs[h] = Slug(h.Text())
		}
	}
	return f
}

// tocDepthParam reads the depth param of a toc, falling back to def for a
// missing or invalid value.
func tocDepthParam(n *ast.Node, def int) int {
	d, err := strconv.Atoi(n.Params.String("depth"))
	if err != nil || d < 1 || d > 6 {
		return def
	}
	return d
}
