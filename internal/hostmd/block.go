package hostmd

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-bfm/internal/grammar"
	"github.com/alnah/go-bfm/internal/scan"
)

var lineRegistryKey = parser.NewContextKey()

// lineRegistry returns the registry of the current parse, creating it on
// first use.
func lineRegistry(pc parser.Context) *scan.LineRegistry {
	if v, ok := pc.Get(lineRegistryKey).(*scan.LineRegistry); ok {
		return v
	}
	reg := scan.NewLineRegistry()
	pc.Set(lineRegistryKey, reg)
	return reg
}

// lineKey is the offset of the physical line containing pos.
func lineKey(source []byte, pos int) int {
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

// interrupting reports whether a block opening now would interrupt an open
// paragraph.
func interrupting(pc parser.Context) bool {
	return gast.IsParagraph(pc.LastOpenedBlock().Node)
}

// skipLine advances over the current line but leaves its newline, so the
// host sees an empty remainder.
func skipLine(reader text.Reader) {
	line, segment := reader.PeekLine()
	newline := 0
	if len(line) > 0 && line[len(line)-1] == '\n' {
		newline = 1
	}
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
}

type directiveParser struct {
	directives *grammar.Directives
}

// NewDirectiveParser returns a BlockParser for @name ... @endname blocks.
func NewDirectiveParser(d *grammar.Directives) parser.BlockParser {
	return &directiveParser{directives: d}
}

func (b *directiveParser) Trigger() []byte {
	return []byte{'@'}
}

func (b *directiveParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != '@' {
		return nil, parser.NoChildren
	}
	reg := lineRegistry(pc)
	env := scan.Env{Interrupt: interrupting(pc), Lines: reg, Owner: reg.NewOwner()}
	open, r := b.directives.OpenLine(scan.NewAt(line, pos, scan.EOF), env, lineKey(reader.Source(), segment.Start))
	if !r.OK {
		return nil, parser.NoChildren
	}
	node := &Directive{Open: open, Offset: segment.Start + pos, owner: env.Owner}
	skipLine(reader)
	return node, parser.NoChildren
}

func (b *directiveParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*Directive)
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	env := scan.Env{Lines: lineRegistry(pc), Owner: n.owner}
	switch grammar.ContinueLine(scan.NewAt(line, 0, '\n'), n.Open.Name, env, lineKey(reader.Source(), segment.Start)) {
	case grammar.LineClose:
		n.Closed = true
		skipLine(reader)
		return parser.Close
	case grammar.LineLazy:
		return parser.Close
	}
	n.Body = append(n.Body, string(line))
	skipLine(reader)
	return parser.Continue | parser.NoChildren
}

func (b *directiveParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	lineRegistry(pc).Release(node.(*Directive).owner)
}

func (b *directiveParser) CanInterruptParagraph() bool {
	return true
}

func (b *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

type footnoteDefParser struct{}

// NewFootnoteDefinitionParser returns a BlockParser for [^label]: blocks.
func NewFootnoteDefinitionParser() parser.BlockParser {
	return &footnoteDefParser{}
}

func (b *footnoteDefParser) Trigger() []byte {
	return []byte{'['}
}

func (b *footnoteDefParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != '[' {
		return nil, parser.NoChildren
	}
	reg := lineRegistry(pc)
	env := scan.Env{Interrupt: interrupting(pc), Lines: reg, Owner: reg.NewOwner()}
	label, content, ok := grammar.ParseFootnoteDef(scan.NewAt(line, pos, scan.EOF), env, lineKey(reader.Source(), segment.Start))
	if !ok {
		return nil, parser.NoChildren
	}
	node := &FootnoteDefinition{Label: label, Content: []string{content}, Offset: segment.Start + pos, owner: env.Owner}
	skipLine(reader)
	return node, parser.NoChildren
}

func (b *footnoteDefParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*FootnoteDefinition)
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	env := scan.Env{Lines: lineRegistry(pc), Owner: n.owner}
	content, ok := grammar.FootnoteContinuation(scan.NewAt(line, 0, '\n'), env, lineKey(reader.Source(), segment.Start))
	if !ok {
		return parser.Close
	}
	n.Content = append(n.Content, content)
	skipLine(reader)
	return parser.Continue | parser.NoChildren
}

func (b *footnoteDefParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	lineRegistry(pc).Release(node.(*FootnoteDefinition).owner)
}

func (b *footnoteDefParser) CanInterruptParagraph() bool {
	return true
}

func (b *footnoteDefParser) CanAcceptIndentedLine() bool {
	return false
}
