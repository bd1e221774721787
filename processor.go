package bfm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/frontmatter"
	"github.com/alnah/go-bfm/internal/hostmd"
	"github.com/alnah/go-bfm/internal/logging"
	"github.com/alnah/go-bfm/internal/merge"
	"github.com/alnah/go-bfm/internal/metadata"
	"github.com/alnah/go-bfm/internal/pipeline"
	"github.com/alnah/go-bfm/internal/render"
	"github.com/alnah/go-bfm/internal/resolve"
	"github.com/alnah/go-bfm/internal/serialize"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.SourcePreprocessor = (*pipeline.LinePreprocessor)(nil)
	_ EmbedResolver               = EmbedFunc(nil)
	_ MentionResolver             = MentionFunc(nil)
)

// Document is one processed source: its front matter, the body that
// followed it and the tree parsed from that body.
type Document struct {
	FrontMatter map[string]any
	Body        []byte
	Tree        *ast.Node
}

// Processor runs the BFM pipeline. Create with New; a Processor holds no
// per-document state and is safe for concurrent use.
type Processor struct {
	cfg          *Config
	logger       *slog.Logger
	preprocessor pipeline.SourcePreprocessor
	parser       *hostmd.Parser
	transformer  *pipeline.Transformer
	renderer     *render.Renderer
	resolve      resolve.Options
	metaOpts     []metadata.Option
	maxInputSize int
}

// New creates a Processor. The configuration is validated once here and
// reused for every document and every directive body.
func New(opts ...Option) (*Processor, error) {
	pc := &processorConfig{maxInputSize: defaultMaxInputSize}
	for _, opt := range opts {
		opt(pc)
	}

	cfg := pc.resolveConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := pc.logger
	if logger == nil {
		logger = logging.Discard()
	}

	parser, err := hostmd.NewParser(cfg.Grammar())
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}

	metaOpts := []metadata.Option{metadata.WithWordsPerMinute(cfg.Metadata.WordsPerMinute)}
	for _, fn := range pc.computed {
		metaOpts = append(metaOpts, metadata.WithComputedField(fn))
	}

	return &Processor{
		cfg:          cfg,
		logger:       logger,
		preprocessor: &pipeline.LinePreprocessor{},
		parser:       parser,
		transformer: pipeline.NewTransformer(parser, pipeline.Config{
			TOCDepth: cfg.TOC.Depth,
			Logger:   logger,
		}),
		renderer: render.New(render.Options{
			Unsafe:    cfg.Render.Unsafe,
			CodeStyle: cfg.Render.CodeStyle,
		}),
		resolve: resolve.Options{
			Embed:   pc.embed,
			Mention: pc.mention,
			Limit:   pc.resolveLimit,
			Strict:  pc.strictResolve,
			Logger:  logger,
		},
		metaOpts:     metaOpts,
		maxInputSize: pc.maxInputSize,
	}, nil
}

// Config returns a copy of the configuration the Processor was built with.
func (p *Processor) Config() Config {
	return *p.cfg
}

// Parse splits front matter and parses the body into a raw tree: directive
// bodies are unresolved and no bindings are attached.
func (p *Processor) Parse(ctx context.Context, src []byte) (*Document, error) {
	fm, body, err := p.prepare(ctx, src)
	if err != nil {
		return nil, err
	}
	tree, err := p.parse(ctx, body)
	if err != nil {
		return nil, err
	}
	tree.FrontMatter = fm
	return &Document{FrontMatter: fm, Body: body, Tree: tree}, nil
}

// Process runs the whole pipeline on src: front matter split, parse,
// transform and, when resolvers are configured, the resolver post-pass.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (p *Processor) Process(ctx context.Context, src []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrParse, r)
		}
	}()

	doc, err = p.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := p.transformer.Transform(ctx, doc.Tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if p.resolve.Embed != nil || p.resolve.Mention != nil {
		if _, err := p.Resolve(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Resolve runs the configured resolvers over a processed document. It only
// changes render bindings.
func (p *Processor) Resolve(ctx context.Context, doc *Document) (ResolveReport, error) {
	if doc == nil || doc.Tree == nil {
		return ResolveReport{}, ErrNilDocument
	}
	report, err := resolve.Run(ctx, doc.Tree, p.resolve)
	if err != nil {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		return report, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	if report.Fallbacks > 0 {
		p.logger.Debug("resolver fallbacks", "count", report.Fallbacks)
	}
	return report, nil
}

// RenderHTML renders a processed document as an HTML fragment.
func (p *Processor) RenderHTML(ctx context.Context, doc *Document) (string, error) {
	if doc == nil || doc.Tree == nil {
		return "", ErrNilDocument
	}
	out, err := p.renderer.HTML(ctx, doc.Tree)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return out, nil
}

// RenderPage renders a processed document as a complete HTML page. The
// title comes from the front matter "title" key, then the configured
// title. css is appended after the code highlighting rules.
func (p *Processor) RenderPage(ctx context.Context, doc *Document, css string) (string, error) {
	fragment, err := p.RenderHTML(ctx, doc)
	if err != nil {
		return "", err
	}
	codeCSS, err := p.renderer.CodeCSS()
	if err != nil {
		return "", fmt.Errorf("%w: code styles: %w", ErrRender, err)
	}
	title := p.cfg.Render.Title
	if t, ok := doc.FrontMatter["title"].(string); ok && t != "" {
		title = t
	}
	return render.Page(fragment, title, codeCSS+css), nil
}

// Metadata extracts word count, reading time, tasks, tags, links and custom
// fields from a processed document.
func (p *Processor) Metadata(ctx context.Context, doc *Document) (*Metadata, error) {
	if doc == nil || doc.Tree == nil {
		return nil, ErrNilDocument
	}
	return metadata.Extract(ctx, doc.Tree, p.metaOpts...)
}

// Format re-serializes src in normalized BFM form. Front matter is kept.
func (p *Processor) Format(ctx context.Context, src []byte) (string, error) {
	doc, err := p.Parse(ctx, src)
	if err != nil {
		return "", err
	}
	head, err := frontmatter.Serialize(doc.FrontMatter)
	if err != nil {
		return "", fmt.Errorf("serializing front matter: %w", err)
	}
	return head + serialize.Document(doc.Tree), nil
}

// Merge combines several sources into one: front matter is deep-merged and
// bodies are concatenated in order. A conflict under MergeError returns a
// *MergeConflictError.
func (p *Processor) Merge(ctx context.Context, sources [][]byte, opts MergeOptions) (string, error) {
	if len(sources) == 0 {
		return "", ErrEmptyInput
	}
	docs := make([]merge.Document, 0, len(sources))
	for _, src := range sources {
		fm, body, err := p.prepare(ctx, src)
		if err != nil {
			return "", err
		}
		docs = append(docs, merge.Document{
			FrontMatter: fm,
			Body:        strings.TrimRight(string(body), "\n"),
		})
	}

	mergeOpts := []merge.Option{merge.WithStrategy(opts.Strategy)}
	if opts.Resolver != nil {
		mergeOpts = append(mergeOpts, merge.WithResolver(opts.Resolver))
	}
	if opts.Separator != "" {
		mergeOpts = append(mergeOpts, merge.WithSeparator(opts.Separator))
	}
	out, err := merge.Documents(docs, mergeOpts...)
	if err != nil {
		return "", err
	}

	head, err := frontmatter.Serialize(out.FrontMatter)
	if err != nil {
		return "", fmt.Errorf("serializing front matter: %w", err)
	}
	if out.Body == "" {
		return head, nil
	}
	return head + out.Body + "\n", nil
}

// prepare checks src, normalizes line endings and splits off front matter.
func (p *Processor) prepare(ctx context.Context, src []byte) (map[string]any, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(src) > p.maxInputSize {
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(src), p.maxInputSize)
	}
	normalized := p.preprocessor.PreprocessSource(ctx, string(src))
	fm, body := frontmatter.Split([]byte(normalized))
	return fm, body, nil
}

// parse runs the host parser in a goroutine so the call returns on
// cancellation.
func (p *Processor) parse(ctx context.Context, body []byte) (*ast.Node, error) {
	type result struct {
		tree *ast.Node
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: internal error: %v", ErrParse, r)}
			}
		}()
		done <- result{tree: p.parser.Parse(body)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.tree, res.err
	}
}
