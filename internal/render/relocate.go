package render

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// relocatedAttrs lists, per element, the attribute holding a resource path.
var relocatedAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"audio":  "src",
	"video":  "src",
	"source": "src",
}

// RelocateLinks rewrites relative resource paths in htmlContent, written for
// a document in sourceDir, so they resolve from outputDir instead. Full
// pages and fragments are both accepted. Query strings and fragments are
// kept; URLs, anchors and absolute paths are left alone.
func RelocateLinks(htmlContent, sourceDir, outputDir string) (string, error) {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return "", err
	}
	if absSource == absOutput {
		return htmlContent, nil
	}
	prefix, err := filepath.Rel(absOutput, absSource)
	if err != nil {
		// Different volumes have no relative path between them.
		return htmlContent, nil
	}
	prefix = filepath.ToSlash(prefix)

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	relocateNode(doc, prefix)
	return renderNodes(doc, isFragment)
}

// parseHTML parses a full document or a body fragment. Fragment nodes are
// gathered under a document node for uniform traversal.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderNodes renders doc back to a string. Fragments render their
// children only.
func renderNodes(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// relocateNode prefixes every relative resource path under n.
func relocateNode(n *html.Node, prefix string) {
	if n.Type == html.ElementNode {
		if key, ok := relocatedAttrs[n.Data]; ok {
			for i, attr := range n.Attr {
				if attr.Key == key {
					n.Attr[i].Val = relocate(attr.Val, prefix)
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		relocateNode(c, prefix)
	}
}

// relocate prefixes the path part of ref, keeping query and fragment.
func relocate(ref, prefix string) string {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return ref
	}
	if path.IsAbs(u.Path) || filepath.IsAbs(u.Path) {
		return ref
	}
	u.Path = path.Join(prefix, u.Path)
	return u.String()
}
