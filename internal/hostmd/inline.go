package hostmd

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
	"github.com/alnah/go-bfm/internal/scan"
)

// cursor returns a scan cursor over the rest of the current line, carrying
// the host's preceding character for boundary checks.
func cursor(block text.Reader) (scan.Cursor, text.Segment) {
	line, segment := block.PeekLine()
	prev := block.PrecendingCharacter()
	return scan.NewAt(line, 0, prev), segment
}

func inline(n *ast.Node, segment text.Segment) *Inline {
	return &Inline{Node: n, Offset: segment.Start}
}

type footnoteRefParser struct{}

// NewFootnoteReferenceParser returns an InlineParser for [^label].
func NewFootnoteReferenceParser() parser.InlineParser {
	return &footnoteRefParser{}
}

func (s *footnoteRefParser) Trigger() []byte {
	return []byte{'['}
}

func (s *footnoteRefParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	c, segment := cursor(block)
	label, next, ok := grammar.ParseFootnoteRef(c)
	if !ok {
		return nil
	}
	block.Advance(next.Offset())
	return inline(&ast.Node{Kind: ast.KindFootnoteRef, Label: label, Value: "[^" + label + "]"}, segment)
}

type taskMarkerParser struct{}

// NewTaskMarkerParser returns an InlineParser for [c] at the start of a
// list item.
func NewTaskMarkerParser() parser.InlineParser {
	return &taskMarkerParser{}
}

func (s *taskMarkerParser) Trigger() []byte {
	return []byte{'['}
}

// firstInListItem reports whether nothing precedes the current position in
// the first block of a list item.
func firstInListItem(parent gast.Node) bool {
	item := parent.Parent()
	if item == nil || item.FirstChild() != parent || parent.HasChildren() {
		return false
	}
	_, ok := item.(*gast.ListItem)
	return ok
}

func (s *taskMarkerParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	c, segment := cursor(block)
	state, next, ok := grammar.ParseTaskMarker(c, firstInListItem(parent))
	if !ok {
		return nil
	}
	block.Advance(next.Offset())
	return inline(&ast.Node{Kind: ast.KindTaskMarker, State: state}, segment)
}

type mentionParser struct{}

// NewMentionParser returns an InlineParser for @id and @platform:id.
func NewMentionParser() parser.InlineParser {
	return &mentionParser{}
}

func (s *mentionParser) Trigger() []byte {
	return []byte{'@'}
}

func (s *mentionParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	c, segment := cursor(block)
	m, next, ok := grammar.ParseMention(c)
	if !ok {
		return nil
	}
	block.Advance(next.Offset())
	return inline(&ast.Node{Kind: ast.KindMention, Identifier: m.Identifier, Platform: m.Platform}, segment)
}

type hashtagParser struct{}

// NewHashtagParser returns an InlineParser for #tag.
func NewHashtagParser() parser.InlineParser {
	return &hashtagParser{}
}

func (s *hashtagParser) Trigger() []byte {
	return []byte{'#'}
}

func (s *hashtagParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	c, segment := cursor(block)
	tag, next, ok := grammar.ParseHashtag(c)
	if !ok {
		return nil
	}
	block.Advance(next.Offset())
	return inline(&ast.Node{Kind: ast.KindHashtag, Identifier: tag}, segment)
}

type modifierParser struct{}

// NewModifierParser returns an InlineParser for //key(:value).
func NewModifierParser() parser.InlineParser {
	return &modifierParser{}
}

func (s *modifierParser) Trigger() []byte {
	return []byte{'/'}
}

func (s *modifierParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	c, segment := cursor(block)
	m, next, ok := grammar.ParseModifier(c)
	if !ok {
		return nil
	}
	block.Advance(next.Offset())
	return inline(&ast.Node{Kind: ast.KindTaskModifier, Key: m.Key, Value: m.Value, HasValue: m.HasValue}, segment)
}
