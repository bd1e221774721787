package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-bfm/ast"
)

var (
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slug derives a heading id from its text: lowercase, characters other than
// word characters, whitespace and hyphens removed, whitespace runs turned
// into one hyphen, leading and trailing hyphens trimmed. Equal texts give
// equal ids.
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// buildTOC fills a toc directive with one flat list of links to the
// top-level headings it covers. No matching heading leaves it childless.
func buildTOC(toc *ast.Node, f *facts, defaultDepth int) {
	depth := tocDepthParam(toc, defaultDepth)
	list := &ast.Node{
		Kind:      ast.KindList,
		Ordered:   toc.Params.Bool("ordered"),
		Position:  toc.Position,
		Synthetic: true,
	}
	if list.Ordered {
		list.Start = 1
	}
	for _, h := range f.headings {
		if h.Depth > depth {
			continue
		}
		link := &ast.Node{
			Kind:     ast.KindLink,
			URL:      "#" + f.headingIDs[h],
			Children: []*ast.Node{ast.NewText(h.Text())},
		}
		item := &ast.Node{
			Kind:     ast.KindListItem,
			Children: []*ast.Node{ast.NewParagraph(link)},
			Binding:  ast.Bind("li", "class", "toc__item toc__item--h"+strconv.Itoa(h.Depth)),
		}
		list.Append(item)
	}
	if len(list.Children) == 0 {
		toc.Children = nil
		return
	}
	toc.Children = []*ast.Node{list}
}
