package pipeline

import (
	"strconv"

	"github.com/alnah/go-bfm/ast"
)

const backrefText = "\u21a9"

// resolveFootnotes numbers references by first appearance, binds each one
// to its note and moves the definitions into the document's endnotes
// section. It returns the number of distinct labels. A document without
// references is left as is.
func resolveFootnotes(doc *ast.Node, f *facts) int {
	if len(f.refs) == 0 {
		return 0
	}

	index := make(map[string]int)
	var labels []string
	for _, ref := range f.refs {
		i, ok := index[ref.Label]
		if !ok {
			labels = append(labels, ref.Label)
			i = len(labels)
			index[ref.Label] = i
		}
		ref.Index = i
		ref.Binding = refBinding(ref.Label, i)
	}

	endnotes := f.endnotes
	if endnotes == nil {
		endnotes = &ast.Node{Kind: ast.KindDirective, Name: "endnotes", Synthetic: true}
		doc.Append(endnotes)
	}
	endnotes.Binding = endnotesBinding()

	list := &ast.Node{Kind: ast.KindList, Ordered: true, Start: 1, Synthetic: true}
	for _, label := range labels {
		list.Append(noteItem(label, f.defs[label]))
	}
	endnotes.Children = []*ast.Node{list}

	removeDefinitions(doc)
	return len(labels)
}

func refBinding(label string, index int) *ast.Binding {
	link := &ast.Node{
		Kind:     ast.KindLink,
		URL:      "#fn-" + label,
		Children: []*ast.Node{ast.NewText("[" + strconv.Itoa(index) + "]")},
		Binding:  ast.Bind("a", "href", "#fn-"+label, "role", "doc-noteref"),
	}
	b := ast.Bind("sup", "class", "footnote-ref", "id", "fnref-"+label)
	b.Prefix = []*ast.Node{link}
	return b
}

// noteItem builds the endnote for label. A missing definition gives an
// empty note; a definition without structured children falls back to one
// paragraph of its raw text. The backlink goes at the end of the last
// paragraph, or in a paragraph of its own.
func noteItem(label string, def *ast.Node) *ast.Node {
	var content []*ast.Node
	switch {
	case def == nil:
		content = []*ast.Node{ast.NewParagraph(ast.NewText(""))}
	case len(def.Children) > 0:
		content = def.Children
	case def.RawContent != "":
		content = []*ast.Node{ast.NewParagraph(ast.NewText(def.RawContent))}
	}

	backref := &ast.Node{
		Kind:      ast.KindLink,
		URL:       "#fnref-" + label,
		Children:  []*ast.Node{ast.NewText(backrefText)},
		Synthetic: true,
		Binding: ast.Bind("a",
			"href", "#fnref-"+label,
			"class", "footnote-backref",
			"role", "doc-backlink"),
	}
	if last := lastOf(content); last != nil && last.Kind == ast.KindParagraph {
		last.Append(synthetic(ast.NewText(" ")), backref)
	} else {
		content = append(content, ast.NewParagraph(backref))
	}

	item := &ast.Node{
		Kind:     ast.KindListItem,
		Children: content,
		Binding:  ast.Bind("li", "id", "fn-"+label),
	}
	if def != nil {
		item.Position = def.Position
		item.Label = label
	}
	return item
}

func lastOf(nodes []*ast.Node) *ast.Node {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[len(nodes)-1]
}

// removeDefinitions drops every footnoteDef from the tree. Their content now
// lives in the endnotes section.
func removeDefinitions(n *ast.Node) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Kind == ast.KindFootnoteDef {
			continue
		}
		removeDefinitions(c)
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
}
