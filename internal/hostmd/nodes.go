package hostmd

import (
	"fmt"

	gast "github.com/yuin/goldmark/ast"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
	"github.com/alnah/go-bfm/internal/scan"
)

// Directive is a directive block while the host parser runs. Its body stays
// a raw line buffer.
type Directive struct {
	gast.BaseBlock
	Open   grammar.Open
	Body   []string
	Offset int
	Closed bool
	owner  scan.Owner
}

// IsRaw keeps the host parser from running inline parsers on the node.
func (n *Directive) IsRaw() bool { return true }

// Dump implements Node.Dump.
func (n *Directive) Dump(source []byte, level int) {
	m := map[string]string{
		"Name":    n.Open.Name,
		"Dialect": n.Open.Dialect.String(),
		"Lines":   fmt.Sprintf("%d", len(n.Body)),
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindDirective is a NodeKind of the Directive node.
var KindDirective = gast.NewNodeKind("BFMDirective")

// Kind implements Node.Kind.
func (n *Directive) Kind() gast.NodeKind { return KindDirective }

// FootnoteDefinition is a [^label]: definition with its raw lines.
type FootnoteDefinition struct {
	gast.BaseBlock
	Label   string
	Content []string
	Offset  int
	owner   scan.Owner
}

// IsRaw implements Node.IsRaw.
func (n *FootnoteDefinition) IsRaw() bool { return true }

// Dump implements Node.Dump.
func (n *FootnoteDefinition) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Label": n.Label}, nil)
}

// KindFootnoteDefinition is a NodeKind of the FootnoteDefinition node.
var KindFootnoteDefinition = gast.NewNodeKind("BFMFootnoteDefinition")

// Kind implements Node.Kind.
func (n *FootnoteDefinition) Kind() gast.NodeKind { return KindFootnoteDefinition }

// Inline is the host node for every BFM inline construct. The compiled
// ast.Node is built while parsing since inline constructs carry no
// children.
type Inline struct {
	gast.BaseInline
	Node   *ast.Node
	Offset int
}

// Dump implements Node.Dump.
func (n *Inline) Dump(source []byte, level int) {
	m := map[string]string{"Type": string(n.Node.Kind)}
	for k, v := range map[string]string{
		"Label":      n.Node.Label,
		"Identifier": n.Node.Identifier,
		"Platform":   n.Node.Platform,
		"State":      string(n.Node.State),
		"Key":        n.Node.Key,
	} {
		if v != "" {
			m[k] = v
		}
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindInline is a NodeKind of the Inline node.
var KindInline = gast.NewNodeKind("BFMInline")

// Kind implements Node.Kind.
func (n *Inline) Kind() gast.NodeKind { return KindInline }
