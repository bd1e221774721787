// Package resolve runs the optional post-pass that asks external resolvers
// about embeds and mentions in a finished tree.
//
// Resolvers only change render bindings. Each distinct embed URL and each
// distinct mention is resolved once, concurrently. A resolver that fails or
// has nothing to say leaves the node with its neutral binding.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/grammar"
	"github.com/alnah/go-bfm/internal/logging"
	"github.com/alnah/go-bfm/internal/pipeline"
)

// DefaultLimit bounds concurrent resolver calls.
const DefaultLimit = 8

var (
	ErrNilDocument    = errors.New("resolve: nil document")
	ErrResolverFailed = errors.New("resolve: resolver failed")
)

// EmbedResult describes embedded content.
type EmbedResult struct {
	Type         string `json:"type"`
	HTML         string `json:"html,omitempty"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
	URL          string `json:"url,omitempty"`
}

// MentionResult describes a mentioned identity. An empty URL renders the
// label without a link.
type MentionResult struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// EmbedResolver looks up embed metadata. A nil result means unknown.
type EmbedResolver interface {
	Resolve(ctx context.Context, url string) (*EmbedResult, error)
}

// MentionResolver looks up a mention. platform is empty for bare mentions.
type MentionResolver interface {
	Resolve(ctx context.Context, platform, id string) (*MentionResult, error)
}

// EmbedFunc adapts a function to EmbedResolver.
type EmbedFunc func(ctx context.Context, url string) (*EmbedResult, error)

func (f EmbedFunc) Resolve(ctx context.Context, url string) (*EmbedResult, error) {
	return f(ctx, url)
}

// MentionFunc adapts a function to MentionResolver.
type MentionFunc func(ctx context.Context, platform, id string) (*MentionResult, error)

func (f MentionFunc) Resolve(ctx context.Context, platform, id string) (*MentionResult, error) {
	return f(ctx, platform, id)
}

// Options configures Run. Nil resolvers skip their node kind.
type Options struct {
	Embed   EmbedResolver
	Mention MentionResolver
	// Limit bounds concurrent calls; zero means DefaultLimit.
	Limit int
	// Strict returns the first resolver error instead of falling back.
	Strict bool
	Logger *slog.Logger
}

// Report counts what Run did.
type Report struct {
	Embeds    int
	Mentions  int
	Fallbacks int
}

type mentionKey struct{ platform, id string }

type results struct {
	mu        sync.Mutex
	embeds    map[string]*EmbedResult
	mentions  map[mentionKey]*MentionResult
	fallbacks int
}

// Run resolves every embed and mention under doc.
func Run(ctx context.Context, doc *ast.Node, opts Options) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if doc == nil {
		return Report{}, ErrNilDocument
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var embeds []*ast.Node
	var mentions []*ast.Node
	urls := map[string]bool{}
	keys := map[mentionKey]bool{}
	ast.Walk(doc, func(n *ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.WalkContinue
		}
		switch {
		case opts.Embed != nil && n.IsDirective(grammar.NameEmbed):
			embeds = append(embeds, n)
			urls[n.Params.String("url")] = true
		case opts.Mention != nil && n.Kind == ast.KindMention:
			mentions = append(mentions, n)
			keys[mentionKey{n.Platform, n.Identifier}] = true
		}
		return ast.WalkContinue
	})

	res := &results{
		embeds:   make(map[string]*EmbedResult, len(urls)),
		mentions: make(map[mentionKey]*MentionResult, len(keys)),
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	fail := func(kind, key string, err error) error {
		logger.Debug("resolver fallback", "kind", kind, "key", key, "error", err)
		res.mu.Lock()
		res.fallbacks++
		res.mu.Unlock()
		if opts.Strict && err != nil {
			return fmt.Errorf("%w: %s %q: %w", ErrResolverFailed, kind, key, err)
		}
		return nil
	}

	for url := range urls {
		g.Go(func() error {
			r, err := opts.Embed.Resolve(gctx, url)
			if err != nil || r == nil {
				return fail("embed", url, err)
			}
			res.mu.Lock()
			res.embeds[url] = r
			res.mu.Unlock()
			return nil
		})
	}
	for key := range keys {
		g.Go(func() error {
			r, err := opts.Mention.Resolve(gctx, key.platform, key.id)
			if err != nil || r == nil {
				return fail("mention", key.platform+":"+key.id, err)
			}
			res.mu.Lock()
			res.mentions[key] = r
			res.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var rep Report
	for _, n := range embeds {
		if r, ok := res.embeds[n.Params.String("url")]; ok {
			n.Binding = embedBinding(n, r)
			rep.Embeds++
		} else if n.Binding == nil {
			n.Binding = pipeline.EmbedBinding(n.Params.String("url"), n.Meta["caption"])
		}
	}
	for _, n := range mentions {
		if r, ok := res.mentions[mentionKey{n.Platform, n.Identifier}]; ok {
			n.Binding = mentionBinding(n, r)
			rep.Mentions++
		} else if n.Binding == nil {
			n.Binding = pipeline.NeutralMentionBinding(n.Identifier)
		}
	}
	rep.Fallbacks = res.fallbacks
	return rep, nil
}

// embedBinding keeps the neutral figure and enriches it. Provider HTML
// goes in as a raw html node, so renderers that drop raw HTML fall back to
// the link.
func embedBinding(n *ast.Node, r *EmbedResult) *ast.Binding {
	url := n.Params.String("url")
	if r.URL != "" {
		url = r.URL
	}
	b := pipeline.EmbedBinding(url, n.Meta["caption"])
	class := "embed"
	if r.Type != "" {
		class += " embed--" + r.Type
		b.Attrs.Set("data-embed-type", r.Type)
	}
	b.Attrs.Set("class", class)
	if r.ProviderName != "" {
		b.Attrs.Set("data-provider", r.ProviderName)
	}

	label := url
	if r.Title != "" {
		label = r.Title
	}
	link := &ast.Node{Kind: ast.KindLink, URL: url, Title: r.Description, Children: []*ast.Node{ast.NewText(label)}}
	var prefix []*ast.Node
	if r.ThumbnailURL != "" {
		prefix = append(prefix, &ast.Node{Kind: ast.KindImage, URL: r.ThumbnailURL, Alt: label})
	}
	if r.HTML != "" {
		prefix = append(prefix, &ast.Node{Kind: ast.KindHTML, Value: r.HTML})
	}
	b.Prefix = append(prefix, link)
	return b
}

func mentionBinding(n *ast.Node, r *MentionResult) *ast.Binding {
	label := r.Label
	if label == "" {
		label = "@" + n.Identifier
	}
	if r.URL == "" {
		b := pipeline.NeutralMentionBinding(n.Identifier)
		b.Prefix = []*ast.Node{ast.NewText(label)}
		return b
	}
	class := "mention"
	if n.Platform != "" {
		class += " mention--" + n.Platform
	}
	b := ast.Bind("a", "href", r.URL, "class", class)
	b.Prefix = []*ast.Node{ast.NewText(label)}
	return b
}
