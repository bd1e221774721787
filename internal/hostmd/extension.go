package hostmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
)

// ErrUnknownHostExtension is returned for a host extension name that is not
// registered.
var ErrUnknownHostExtension = errors.New("unknown host extension")

// Parser priorities. Lower runs first; goldmark's link parser sits at 200
// and its fenced code parser at 700.
const (
	PriorityDirective   = 90
	PriorityFootnoteDef = 95
	PriorityTaskMarker  = 140
	PriorityFootnoteRef = 150
	PriorityMention     = 160
	PriorityHashtag     = 170
	PriorityModifier    = 180
)

// Feature enables one BFM construct family.
type Feature uint

const (
	FeatureDirectives Feature = 1 << iota
	FeatureFootnotes
	FeatureTasks
	FeatureModifiers
	FeatureMentions
	FeatureHashtags

	AllFeatures = FeatureDirectives | FeatureFootnotes | FeatureTasks |
		FeatureModifiers | FeatureMentions | FeatureHashtags
)

// Has reports whether f includes g.
func (f Feature) Has(g Feature) bool { return f&g == g }

// hostExtensions maps names to goldmark extensions that can be enabled next
// to the BFM grammars.
var hostExtensions = map[string]goldmark.Extender{
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
}

// DefaultHostExtensions are enabled when a Grammar names none.
var DefaultHostExtensions = []string{"table", "strikethrough"}

// HostExtensions returns the registered host extension names.
func HostExtensions() []string {
	names := make([]string, 0, len(hostExtensions))
	for name := range hostExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Grammar is the immutable configuration shared by a document parse and
// every re-parse of a directive body.
type Grammar struct {
	Directives     *grammar.Directives
	Features       Feature
	HostExtensions []string
}

// Extension installs the BFM parsers into a goldmark instance.
type Extension struct {
	grammar Grammar
}

// NewExtension returns a goldmark.Extender for g.
func NewExtension(g Grammar) *Extension {
	return &Extension{grammar: g}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	f := e.grammar.Features
	var blocks, inlines []util.PrioritizedValue
	if f.Has(FeatureDirectives) {
		blocks = append(blocks, util.Prioritized(NewDirectiveParser(e.grammar.Directives), PriorityDirective))
	}
	if f.Has(FeatureFootnotes) {
		blocks = append(blocks, util.Prioritized(NewFootnoteDefinitionParser(), PriorityFootnoteDef))
		inlines = append(inlines, util.Prioritized(NewFootnoteReferenceParser(), PriorityFootnoteRef))
	}
	if f.Has(FeatureTasks) {
		inlines = append(inlines, util.Prioritized(NewTaskMarkerParser(), PriorityTaskMarker))
	}
	if f.Has(FeatureMentions) {
		inlines = append(inlines, util.Prioritized(NewMentionParser(), PriorityMention))
	}
	if f.Has(FeatureHashtags) {
		inlines = append(inlines, util.Prioritized(NewHashtagParser(), PriorityHashtag))
	}
	if f.Has(FeatureModifiers) {
		inlines = append(inlines, util.Prioritized(NewModifierParser(), PriorityModifier))
	}
	m.Parser().AddOptions(
		parser.WithBlockParsers(blocks...),
		parser.WithInlineParsers(inlines...),
	)
}

// Parser parses BFM source into an ast tree. It is safe for concurrent use.
type Parser struct {
	grammar Grammar
	md      goldmark.Markdown
}

// NewParser builds a parser for g. A nil Directives uses the default
// allow-list; nil HostExtensions uses DefaultHostExtensions.
func NewParser(g Grammar) (*Parser, error) {
	if g.Directives == nil {
		g.Directives = grammar.NewDirectives(nil, nil)
	}
	if g.HostExtensions == nil {
		g.HostExtensions = DefaultHostExtensions
	}
	exts := make([]goldmark.Extender, 0, len(g.HostExtensions)+1)
	for _, name := range g.HostExtensions {
		ext, ok := hostExtensions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHostExtension, name)
		}
		exts = append(exts, ext)
	}
	exts = append(exts, NewExtension(g))
	return &Parser{grammar: g, md: goldmark.New(goldmark.WithExtensions(exts...))}, nil
}

// Grammar returns the configuration the parser was built with.
func (p *Parser) Grammar() Grammar { return p.grammar }

// Parse returns the raw tree for src: directive bodies are unresolved line
// buffers and no render bindings are attached yet.
func (p *Parser) Parse(src []byte) *ast.Node {
	pc := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	return newCompiler(src).document(doc)
}
