// Package serialize writes tree nodes back to BFM source.
//
// It is the inverse of parsing for every BFM construct and for the common
// Markdown kinds. Text is written as is. Nodes the pipeline synthesized are
// skipped, so a finished tree serializes to the source that produced it
// minus relocated footnote definitions.
package serialize

import (
	"strconv"
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
)

// Document serializes the top-level blocks of doc separated by blank lines.
func Document(doc *ast.Node) string {
	out := blocks(doc.Children, "\n\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

// Markdown serializes one node. Block nodes carry no trailing newline.
func Markdown(n *ast.Node) string {
	if n == nil || (n.Synthetic && n.Kind != ast.KindGroup) {
		return ""
	}
	switch n.Kind {
	case ast.KindRoot:
		return strings.TrimSuffix(Document(n), "\n")
	case ast.KindGroup:
		return blocks(n.Children, "\n\n")
	case ast.KindParagraph:
		return inlines(n.Children)
	case ast.KindHeading:
		return strings.Repeat("#", max(n.Depth, 1)) + " " + inlines(n.Children)
	case ast.KindThematicBreak:
		return "---"
	case ast.KindBlockquote:
		return prefixLines(blocks(n.Children, "\n\n"), "> ", "> ")
	case ast.KindList:
		return list(n)
	case ast.KindListItem:
		return item(n, "- ")
	case ast.KindCode:
		return code(n)
	case ast.KindHTML:
		return n.Value
	case ast.KindTable:
		return table(n)
	case ast.KindDirective:
		return directive(n)
	case ast.KindFootnoteDef:
		return footnoteDef(n)
	}
	return inline(n)
}

func blocks(nodes []*ast.Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := Markdown(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func inlines(nodes []*ast.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(Markdown(n))
	}
	return b.String()
}

func inline(n *ast.Node) string {
	switch n.Kind {
	case ast.KindText:
		return n.Value
	case ast.KindEmphasis:
		return "*" + inlines(n.Children) + "*"
	case ast.KindStrong:
		return "**" + inlines(n.Children) + "**"
	case ast.KindDelete:
		return "~~" + inlines(n.Children) + "~~"
	case ast.KindInlineCode:
		return codeSpan(n.Value)
	case ast.KindBreak:
		return "\\\n"
	case ast.KindLink:
		return "[" + inlines(n.Children) + "](" + destination(n.URL, n.Title) + ")"
	case ast.KindImage:
		return "![" + n.Alt + "](" + destination(n.URL, n.Title) + ")"
	case ast.KindFootnoteRef:
		return "[^" + n.Label + "]"
	case ast.KindMention:
		if n.Platform != "" {
			return "@" + n.Platform + ":" + n.Identifier
		}
		return "@" + n.Identifier
	case ast.KindHashtag:
		return "#" + n.Identifier
	case ast.KindTaskMarker:
		c, ok := ast.TaskChar(n.State)
		if !ok {
			c = ' '
		}
		return "[" + string(c) + "] "
	case ast.KindTaskModifier:
		if n.HasValue {
			return "//" + n.Key + ":" + n.Value
		}
		return "//" + n.Key
	}
	return inlines(n.Children)
}

func destination(url, title string) string {
	if strings.ContainsAny(url, " ()") {
		url = "<" + url + ">"
	}
	if title == "" {
		return url
	}
	return url + ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
}

// codeSpan picks a backtick run longer than any run inside s.
func codeSpan(s string) string {
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func longestRun(s string, r byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == r {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}

func code(n *ast.Node) string {
	fence := strings.Repeat("`", max(3, longestRun(n.Value, '`')+1))
	return fence + n.Lang + "\n" + n.Value + "\n" + fence
}

// prefixLines prefixes the first line of s with first and the rest with rest.
// Empty lines are prefixed without trailing spaces.
func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		if line == "" {
			p = strings.TrimRight(p, " ")
		}
		lines[i] = p + line
	}
	return strings.Join(lines, "\n")
}

func list(n *ast.Node) string {
	sep := "\n"
	if n.Spread {
		sep = "\n\n"
	}
	parts := make([]string, 0, len(n.Children))
	start := n.Start
	if start == 0 {
		start = 1
	}
	for i, c := range n.Children {
		marker := "- "
		if n.Ordered {
			marker = strconv.Itoa(start+i) + ". "
		}
		parts = append(parts, item(c, marker))
	}
	return strings.Join(parts, sep)
}

func item(n *ast.Node, marker string) string {
	sep := "\n"
	body := blocks(n.Children, sep)
	return prefixLines(body, marker, strings.Repeat(" ", len(marker)))
}

func table(n *ast.Node) string {
	var lines []string
	for i, row := range n.Children {
		cells := make([]string, len(row.Children))
		for j, c := range row.Children {
			cells[j] = strings.ReplaceAll(inlines(c.Children), "|", `\|`)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			aligns := make([]string, len(row.Children))
			for j, c := range row.Children {
				aligns[j] = alignment(c.Align)
			}
			lines = append(lines, "| "+strings.Join(aligns, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n")
}

func alignment(a string) string {
	switch a {
	case "left":
		return ":--"
	case "right":
		return "--:"
	case "center":
		return ":-:"
	}
	return "---"
}

func footnoteDef(n *ast.Node) string {
	content := n.RawContent
	if len(n.Children) > 0 {
		content = blocks(n.Children, "\n\n")
	}
	return prefixLines(content, "[^"+n.Label+"]: ", "  ")
}

// directive writes @name params, the body and @endname. Embed writes its
// URL and caption instead of params and body.
func directive(n *ast.Node) string {
	if n.Name == grammar.NameEmbed {
		out := "@embed " + n.Params.String("url") + "\n"
		if caption := n.Meta["caption"]; caption != "" && n.Body == nil {
			out += caption + "\n"
		}
		out += strings.Join(n.Body, "")
		return out + "@endembed"
	}

	open := "@" + n.Name
	if ps := Params(n.Params, n.Name == grammar.NameCallout); ps != "" {
		open += " " + ps
	}

	var body string
	switch {
	case n.Body != nil:
		body = strings.Join(n.Body, "")
	case len(n.Children) > 0:
		if b := blocks(n.Children, "\n\n"); b != "" {
			body = b + "\n"
		}
	default:
		if content, ok := n.Meta["content"]; ok {
			body = content + "\n"
		}
	}
	return open + "\n" + body + "@end" + n.Name
}

// Params writes params in order as space-separated key=value pairs. Values
// that are empty or hold spaces or quotes are quoted. Flags are written as a
// bare key, or as key=true when valued is set (the callout dialect has no
// flags).
func Params(ps ast.Params, valued bool) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		switch {
		case p.Flag && !valued:
			parts = append(parts, p.Key)
		case p.Flag:
			parts = append(parts, p.Key+"=true")
		default:
			parts = append(parts, p.Key+"="+quote(p.Value))
		}
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\"") {
		return grammar.Escape(v)
	}
	return v
}
