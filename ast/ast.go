// Package ast defines the enriched syntax tree produced by bfm.
//
// The tree follows mdast naming: every node has a Kind, optional children
// and a handful of kind-specific fields. Nodes added by the BFM grammars
// (directives, footnotes, mentions, hashtags, task markers and modifiers)
// live next to the ordinary Markdown kinds. Render bindings attach
// format-independent output hints to any node.
package ast

// Kind names a node type.
type Kind string

// Markdown kinds.
const (
	KindRoot          Kind = "root"
	KindParagraph     Kind = "paragraph"
	KindHeading       Kind = "heading"
	KindThematicBreak Kind = "thematicBreak"
	KindBlockquote    Kind = "blockquote"
	KindList          Kind = "list"
	KindListItem      Kind = "listItem"
	KindCode          Kind = "code"
	KindHTML          Kind = "html"
	KindTable         Kind = "table"
	KindTableRow      Kind = "tableRow"
	KindTableCell     Kind = "tableCell"
	KindText          Kind = "text"
	KindEmphasis      Kind = "emphasis"
	KindStrong        Kind = "strong"
	KindDelete        Kind = "delete"
	KindInlineCode    Kind = "inlineCode"
	KindBreak         Kind = "break"
	KindLink          Kind = "link"
	KindImage         Kind = "image"
)

// BFM kinds.
const (
	KindDirective    Kind = "directiveBlock"
	KindFootnoteRef  Kind = "footnoteRef"
	KindFootnoteDef  Kind = "footnoteDef"
	KindMention      Kind = "mention"
	KindHashtag      Kind = "hashtag"
	KindTaskMarker   Kind = "taskMarker"
	KindTaskModifier Kind = "taskModifier"
	// KindGroup wraps block children the pipeline synthesizes, such as a
	// figure caption. It never comes from source.
	KindGroup Kind = "group"
)

// TaskState is the state a task marker assigns to its list item.
type TaskState string

// Task states, keyed in source by the character between brackets.
const (
	TaskOpen       TaskState = "open"
	TaskDone       TaskState = "done"
	TaskScheduled  TaskState = "scheduled"
	TaskMigrated   TaskState = "migrated"
	TaskIrrelevant TaskState = "irrelevant"
	TaskEvent      TaskState = "event"
	TaskPriority   TaskState = "priority"
)

// TaskStates maps marker characters to states.
var TaskStates = map[rune]TaskState{
	' ': TaskOpen,
	'x': TaskDone,
	'>': TaskScheduled,
	'<': TaskMigrated,
	'-': TaskIrrelevant,
	'o': TaskEvent,
	'!': TaskPriority,
}

// TaskChar returns the marker character for s.
func TaskChar(s TaskState) (rune, bool) {
	for c, st := range TaskStates {
		if st == s {
			return c, true
		}
	}
	return 0, false
}

// Position locates a node in the source it was parsed from. Lines are
// 1-based; zero means unknown (synthetic nodes).
type Position struct {
	Line int `json:"line"`
}

// Node is one element of the tree.
//
// Only the fields relevant to a node's Kind are set. Value holds the literal
// content of text, inlineCode, code, html and footnoteRef nodes and the value
// of a task modifier (see HasValue).
type Node struct {
	Kind     Kind     `json:"type"`
	Children []*Node  `json:"children,omitempty"`
	Value    string   `json:"value,omitempty"`
	Position Position `json:"position"`
	Binding  *Binding `json:"binding,omitempty"`
	// Synthetic marks nodes the pipeline created. They have no source
	// form and serializers skip them.
	Synthetic bool `json:"synthetic,omitempty"`

	// heading
	Depth int `json:"depth,omitempty"`

	// list
	Ordered bool `json:"ordered,omitempty"`
	Start   int  `json:"start,omitempty"`
	Spread  bool `json:"spread,omitempty"`

	// listItem
	TaskState TaskState `json:"taskState,omitempty"`

	// code
	Lang string `json:"lang,omitempty"`

	// link, image
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Alt   string `json:"alt,omitempty"`

	// tableCell
	Header bool   `json:"header,omitempty"`
	Align  string `json:"align,omitempty"`

	// directiveBlock
	Name   string            `json:"name,omitempty"`
	Params Params            `json:"params,omitempty"`
	Meta   map[string]string `json:"meta,omitempty"`
	// Body is the raw line buffer of a directive until the pipeline
	// resolves it. It is cleared afterwards.
	Body []string `json:"-"`

	// footnoteRef, footnoteDef
	Label      string `json:"label,omitempty"`
	RawContent string `json:"rawContent,omitempty"`
	Index      int    `json:"index,omitempty"`

	// mention, hashtag
	Identifier string `json:"identifier,omitempty"`
	Platform   string `json:"platform,omitempty"`

	// taskMarker
	State TaskState `json:"state,omitempty"`

	// taskModifier
	Key      string `json:"key,omitempty"`
	HasValue bool   `json:"hasValue,omitempty"`

	// root
	FrontMatter map[string]any `json:"frontMatter,omitempty"`
}

// NewText returns a text node.
func NewText(s string) *Node { return &Node{Kind: KindText, Value: s} }

// NewParagraph returns a paragraph with the given children.
func NewParagraph(children ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: children}
}

// Append adds children at the end of n.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Prepend adds children at the start of n.
func (n *Node) Prepend(children ...*Node) {
	n.Children = append(append([]*Node{}, children...), n.Children...)
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// IsDirective reports whether n is a directive named name.
func (n *Node) IsDirective(name string) bool {
	return n != nil && n.Kind == KindDirective && n.Name == name
}

// Text concatenates the literal content of n and its descendants.
func (n *Node) Text() string {
	var b []byte
	Walk(n, func(c *Node, entering bool) WalkStatus {
		if !entering {
			return WalkContinue
		}
		switch c.Kind {
		case KindText, KindInlineCode:
			b = append(b, c.Value...)
		case KindBreak:
			b = append(b, '\n')
		case KindImage:
			b = append(b, c.Alt...)
		}
		return WalkContinue
	})
	return string(b)
}

// Shift adds delta to the line of n and all its descendants that carry a
// position. It is used to map re-parsed bodies back to document lines.
func (n *Node) Shift(delta int) {
	if delta == 0 {
		return
	}
	Walk(n, func(c *Node, entering bool) WalkStatus {
		if entering && c.Position.Line > 0 {
			c.Position.Line += delta
		}
		return WalkContinue
	})
}
