package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
	"github.com/alnah/go-bfm/internal/hostmd"
	"github.com/alnah/go-bfm/internal/logging"
)

// DefaultTOCDepth is the deepest heading level a toc lists when it has no
// depth param.
const DefaultTOCDepth = 3

// ErrNilDocument is returned when Transform is given no tree.
var ErrNilDocument = errors.New("nil document")

// Config configures a Transformer.
type Config struct {
	// TOCDepth is the default toc depth. Zero means DefaultTOCDepth.
	TOCDepth int
	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}

// Transformer runs the transform pass. It holds no per-document state and
// is safe for concurrent use.
type Transformer struct {
	parser     *hostmd.Parser
	directives *grammar.Directives
	tocDepth   int
	logger     *slog.Logger
}

// NewTransformer returns a Transformer that re-parses directive bodies with
// p, the parser that produced the document.
func NewTransformer(p *hostmd.Parser, cfg Config) *Transformer {
	t := &Transformer{
		parser:     p,
		directives: p.Grammar().Directives,
		tocDepth:   cfg.TOCDepth,
		logger:     cfg.Logger,
	}
	if t.tocDepth <= 0 {
		t.tocDepth = DefaultTOCDepth
	}
	if t.logger == nil {
		t.logger = logging.Discard()
	}
	return t
}

// Run parses src and transforms the result.
func (t *Transformer) Run(ctx context.Context, src []byte) (*ast.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := t.parser.Parse(src)
	if err := t.Transform(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Transform finishes a raw tree in place.
func (t *Transformer) Transform(ctx context.Context, doc *ast.Node) error {
	if doc == nil {
		return ErrNilDocument
	}
	if err := t.resolveBodies(ctx, doc); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f := collectFacts(doc, t.tocDepth)
	t.materialize(doc, f)
	if n := resolveFootnotes(doc, f); n > 0 {
		t.logger.Debug("footnotes resolved", "count", n)
	}
	return nil
}

// resolveBodies walks the tree pre-order and replaces every directive's raw
// body. Children produced by a re-parse are visited by the same walk, so
// nesting resolves to any depth.
func (t *Transformer) resolveBodies(ctx context.Context, doc *ast.Node) error {
	var err error
	depth := 0
	ast.Walk(doc, func(n *ast.Node, entering bool) ast.WalkStatus {
		if n.Kind != ast.KindDirective {
			return ast.WalkContinue
		}
		if !entering {
			depth--
			return ast.WalkContinue
		}
		if err = ctx.Err(); err != nil {
			return ast.WalkStop
		}
		depth++
		t.resolveBody(n)
		t.logger.Debug("directive body resolved", "name", n.Name, "depth", depth)
		return ast.WalkContinue
	})
	return err
}

func (t *Transformer) resolveBody(d *ast.Node) {
	body := strings.Join(d.Body, "")
	d.Body = nil
	switch {
	case d.Name == grammar.NameEmbed:
		if caption := strings.TrimSpace(body); caption != "" {
			setMeta(d, "caption", caption)
		}
	case t.directives.IsContainer(d.Name):
		if body == "" {
			return
		}
		sub := t.parser.Parse([]byte(body))
		for _, c := range sub.Children {
			c.Shift(d.Position.Line)
		}
		d.Children = sub.Children
	case d.Name == "math":
		if body != "" {
			setMeta(d, "content", strings.TrimSuffix(body, "\n"))
		}
	default:
		if strings.TrimSpace(body) != "" {
			setMeta(d, "content", strings.TrimSuffix(body, "\n"))
		}
	}
}

func setMeta(n *ast.Node, key, value string) {
	if n.Meta == nil {
		n.Meta = make(map[string]string)
	}
	n.Meta[key] = value
}
