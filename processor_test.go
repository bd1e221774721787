package bfm_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alnah/go-bfm"
	"github.com/alnah/go-bfm/ast"
)

func newProcessor(t *testing.T, opts ...bfm.Option) *bfm.Processor {
	t.Helper()
	proc, err := bfm.New(opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return proc
}

func process(t *testing.T, proc *bfm.Processor, src string) *bfm.Document {
	t.Helper()
	doc, err := proc.Process(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestNew - Option validation
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []bfm.Option
		wantErr error
	}{
		{
			name: "defaults",
		},
		{
			name: "custom names",
			opts: []bfm.Option{bfm.WithContainers("note"), bfm.WithLeaves("chart")},
		},
		{
			name:    "toc depth out of range",
			opts:    []bfm.Option{bfm.WithTOCDepth(7)},
			wantErr: bfm.ErrInvalidTOCDepth,
		},
		{
			name:    "negative words per minute",
			opts:    []bfm.Option{bfm.WithWordsPerMinute(-5)},
			wantErr: bfm.ErrInvalidWordsPerMinute,
		},
		{
			name:    "invalid directive name",
			opts:    []bfm.Option{bfm.WithContainers("Note")},
			wantErr: bfm.ErrInvalidDirectiveName,
		},
		{
			name: "unknown host extension",
			opts: []bfm.Option{bfm.WithConfig(func() *bfm.Config {
				cfg := bfm.DefaultConfig()
				cfg.HostExtensions = []string{"emoji"}
				return cfg
			}())},
			wantErr: bfm.ErrUnknownHostExtension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := bfm.New(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("New() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_OptionsApplyOverConfig(t *testing.T) {
	t.Parallel()

	base := bfm.DefaultConfig()
	base.TOC.Depth = 2
	proc := newProcessor(t, bfm.WithTOCDepth(5), bfm.WithConfig(base), bfm.WithContainers("note"))

	cfg := proc.Config()
	if cfg.TOC.Depth != 5 {
		t.Errorf("TOC.Depth = %d, want 5", cfg.TOC.Depth)
	}
	if len(cfg.Directives.Containers) != 1 || cfg.Directives.Containers[0] != "note" {
		t.Errorf("Directives.Containers = %v, want [note]", cfg.Directives.Containers)
	}
	if len(base.Directives.Containers) != 0 {
		t.Errorf("base config modified: %v", base.Directives.Containers)
	}
}

// ---------------------------------------------------------------------------
// TestProcess - End-to-end pipeline behavior
// ---------------------------------------------------------------------------

func TestProcess(t *testing.T) {
	t.Parallel()

	proc := newProcessor(t)

	t.Run("details summary", func(t *testing.T) {
		t.Parallel()

		doc := process(t, proc, "@details summary=\"Click to expand\"\nHidden content here.\n@enddetails\n")
		d := doc.Tree.Children[0]
		if !d.IsDirective("details") || len(d.Children) != 2 {
			t.Fatalf("got %s %q with %d children, want details with 2", d.Kind, d.Name, len(d.Children))
		}
		if !d.Children[0].Synthetic || d.Children[0].Text() != "Click to expand" {
			t.Errorf("summary = %q (synthetic %v)", d.Children[0].Text(), d.Children[0].Synthetic)
		}
		if got := d.Children[1].Text(); got != "Hidden content here." {
			t.Errorf("body = %q, want %q", got, "Hidden content here.")
		}
	})

	t.Run("nested tabs", func(t *testing.T) {
		t.Parallel()

		doc := process(t, proc, "@tabs\n@tab title=One\nFirst\n@endtab\n@endtabs\n")
		tabs := ast.Find(doc.Tree, ast.KindDirective)
		if len(tabs) != 2 || tabs[0].Name != "tabs" || tabs[1].Name != "tab" {
			t.Fatalf("directives = %d, want tabs containing tab", len(tabs))
		}
		if len(tabs[1].Children) == 0 {
			t.Error("inner tab body was not resolved")
		}
	})

	t.Run("missing footnote definition", func(t *testing.T) {
		t.Parallel()

		doc := process(t, proc, "Some text[^note1] here.\n")
		refs := ast.Find(doc.Tree, ast.KindFootnoteRef)
		if len(refs) != 1 || refs[0].Label != "note1" {
			t.Fatalf("refs = %d, want one labeled note1", len(refs))
		}
		var endnotes *ast.Node
		for _, d := range ast.Find(doc.Tree, ast.KindDirective) {
			if d.IsDirective("endnotes") {
				endnotes = d
			}
		}
		if endnotes == nil {
			t.Fatal("no endnotes section")
		}
		items := ast.Find(endnotes, ast.KindListItem)
		if len(items) != 1 {
			t.Fatalf("endnote items = %d, want 1", len(items))
		}
		links := ast.Find(items[0], ast.KindLink)
		if len(links) == 0 || links[len(links)-1].URL != "#fnref-note1" {
			t.Error("endnote item has no backlink to #fnref-note1")
		}
	})

	t.Run("mentions", func(t *testing.T) {
		t.Parallel()

		doc := process(t, proc, "Follow @github:birdcar\n\nCheck @unknown:foo\n")
		mentions := ast.Find(doc.Tree, ast.KindMention)
		if len(mentions) != 2 {
			t.Fatalf("mentions = %d, want 2", len(mentions))
		}
		if m := mentions[0]; m.Platform != "github" || m.Identifier != "birdcar" || m.Binding.Element != "a" {
			t.Errorf("first mention = %s:%s bound to %q, want github:birdcar link", m.Platform, m.Identifier, m.Binding.Element)
		}
		if m := mentions[1]; m.Platform != "unknown" || m.Binding.Element == "a" {
			t.Errorf("second mention = %s bound to %q, want neutral binding", m.Platform, m.Binding.Element)
		}
	})

	t.Run("custom container", func(t *testing.T) {
		t.Parallel()

		custom := newProcessor(t, bfm.WithContainers("note"))
		doc := process(t, custom, "@note\n# Inside\n@endnote\n")
		if n := doc.Tree.Children[0]; !n.IsDirective("note") || len(ast.Find(n, ast.KindHeading)) != 1 {
			t.Errorf("note body was not parsed as a container")
		}
	})

	t.Run("crlf input", func(t *testing.T) {
		t.Parallel()

		doc := process(t, proc, "@details\r\nBody\r\n@enddetails\r\n")
		if !doc.Tree.Children[0].IsDirective("details") {
			t.Errorf("CRLF directive not recognized: %s", doc.Tree.Children[0].Kind)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		doc := process(t, proc, "")
		if doc.Tree.Kind != ast.KindRoot || len(doc.Tree.Children) != 0 {
			t.Errorf("empty input = %s with %d children, want empty root", doc.Tree.Kind, len(doc.Tree.Children))
		}
	})
}

func TestProcess_FrontMatter(t *testing.T) {
	t.Parallel()

	doc := process(t, newProcessor(t), "---\ntitle: Hello\n---\n# Body\n")
	if doc.FrontMatter["title"] != "Hello" {
		t.Errorf("FrontMatter[title] = %v, want Hello", doc.FrontMatter["title"])
	}
	if doc.Tree.FrontMatter["title"] != "Hello" {
		t.Errorf("Tree.FrontMatter[title] = %v, want Hello", doc.Tree.FrontMatter["title"])
	}
	if string(doc.Body) != "# Body\n" {
		t.Errorf("Body = %q, want %q", doc.Body, "# Body\n")
	}
	if doc.Tree.Children[0].Kind != ast.KindHeading {
		t.Errorf("first block = %s, want heading", doc.Tree.Children[0].Kind)
	}
}

func TestProcess_Errors(t *testing.T) {
	t.Parallel()

	t.Run("input too large", func(t *testing.T) {
		t.Parallel()

		proc := newProcessor(t, bfm.WithMaxInputSize(8))
		_, err := proc.Process(context.Background(), []byte("# A long title\n"))
		if !errors.Is(err, bfm.ErrInputTooLarge) {
			t.Errorf("Process() error = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newProcessor(t).Process(ctx, []byte("# Hi\n"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Process() error = %v, want context.Canceled", err)
		}
	})

	t.Run("nil documents", func(t *testing.T) {
		t.Parallel()

		proc := newProcessor(t)
		ctx := context.Background()
		if _, err := proc.RenderHTML(ctx, nil); !errors.Is(err, bfm.ErrNilDocument) {
			t.Errorf("RenderHTML(nil) error = %v, want ErrNilDocument", err)
		}
		if _, err := proc.Metadata(ctx, &bfm.Document{}); !errors.Is(err, bfm.ErrNilDocument) {
			t.Errorf("Metadata(empty) error = %v, want ErrNilDocument", err)
		}
		if _, err := proc.Resolve(ctx, nil); !errors.Is(err, bfm.ErrNilDocument) {
			t.Errorf("Resolve(nil) error = %v, want ErrNilDocument", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestProcess_Resolvers - Optional post-pass
// ---------------------------------------------------------------------------

func TestProcess_Resolvers(t *testing.T) {
	t.Parallel()

	t.Run("embed result replaces binding", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		proc := newProcessor(t, bfm.WithEmbedResolver(bfm.EmbedFunc(
			func(ctx context.Context, url string) (*bfm.EmbedResult, error) {
				calls.Add(1)
				return &bfm.EmbedResult{Type: "video", Title: "Talk", ProviderName: "Tube"}, nil
			})))

		doc := process(t, proc, "@embed https://v.test/1\n@endembed\n\n@embed https://v.test/1\n@endembed\n")
		if calls.Load() != 1 {
			t.Errorf("resolver calls = %d, want 1 per distinct URL", calls.Load())
		}
		html, err := proc.RenderHTML(context.Background(), doc)
		if err != nil {
			t.Fatalf("RenderHTML() error = %v", err)
		}
		for _, want := range []string{`data-embed-type="video"`, `data-provider="Tube"`, ">Talk</a>"} {
			if !strings.Contains(html, want) {
				t.Errorf("RenderHTML() = %q, missing %q", html, want)
			}
		}
	})

	t.Run("mention result", func(t *testing.T) {
		t.Parallel()

		proc := newProcessor(t, bfm.WithMentionResolver(bfm.MentionFunc(
			func(ctx context.Context, platform, id string) (*bfm.MentionResult, error) {
				return &bfm.MentionResult{Label: "Nick", URL: "https://people.test/" + id}, nil
			})))

		doc := process(t, proc, "Hi @nick\n")
		m := ast.Find(doc.Tree, ast.KindMention)[0]
		if m.Binding == nil || m.Binding.Attr("href") != "https://people.test/nick" {
			t.Errorf("mention binding = %+v, want resolved link", m.Binding)
		}
	})

	t.Run("failure falls back", func(t *testing.T) {
		t.Parallel()

		proc := newProcessor(t, bfm.WithMentionResolver(bfm.MentionFunc(
			func(ctx context.Context, platform, id string) (*bfm.MentionResult, error) {
				return nil, errors.New("lookup failed")
			})))

		doc := process(t, proc, "Follow @github:birdcar\n")
		m := ast.Find(doc.Tree, ast.KindMention)[0]
		if m.Binding == nil || m.Binding.Attr("href") != "https://github.com/birdcar" {
			t.Errorf("mention binding = %+v, want platform link kept", m.Binding)
		}
	})

	t.Run("strict failure", func(t *testing.T) {
		t.Parallel()

		proc := newProcessor(t, bfm.WithStrictResolvers(), bfm.WithMentionResolver(bfm.MentionFunc(
			func(ctx context.Context, platform, id string) (*bfm.MentionResult, error) {
				return nil, errors.New("lookup failed")
			})))

		_, err := proc.Process(context.Background(), []byte("Hi @nick\n"))
		if !errors.Is(err, bfm.ErrResolve) {
			t.Errorf("Process() error = %v, want ErrResolve", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRenderPage / TestMetadata / TestFormat / TestMerge
// ---------------------------------------------------------------------------

func TestRenderPage(t *testing.T) {
	t.Parallel()

	proc := newProcessor(t)
	doc := process(t, proc, "---\ntitle: Notes & More\n---\n```go\nfunc main() {}\n```\n")
	page, err := proc.RenderPage(context.Background(), doc, "body{margin:0}")
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Notes &amp; More</title>",
		".chroma",
		"body{margin:0}",
		`class="chroma"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("RenderPage() missing %q", want)
		}
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	proc := newProcessor(t,
		bfm.WithWordsPerMinute(2),
		bfm.WithComputedField(func(doc *ast.Node, fm map[string]any, c bfm.Computed) map[string]any {
			return map[string]any{"long": c.WordCount > 3}
		}),
	)
	doc := process(t, proc, "One two three four five.\n")
	md, err := proc.Metadata(context.Background(), doc)
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if md.Computed.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", md.Computed.WordCount)
	}
	if md.Computed.ReadingTime != 3 {
		t.Errorf("ReadingTime = %d, want 3", md.Computed.ReadingTime)
	}
	if md.Custom["long"] != true {
		t.Errorf("Custom[long] = %v, want true", md.Custom["long"])
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	proc := newProcessor(t)
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "front matter kept",
			src:  "---\ntitle: Hi\n---\n# Title\n",
			want: "---\ntitle: Hi\n---\n# Title\n",
		},
		{
			name: "blank lines normalized",
			src:  "# Title\n\n\n\nText\r\n",
			want: "# Title\n\nText\n",
		},
		{
			name: "directive kept raw",
			src:  "@details summary=Hi\nBody\n@enddetails\n",
			want: "@details summary=Hi\nBody\n@enddetails\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := proc.Format(context.Background(), []byte(tt.src))
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	proc := newProcessor(t)
	ctx := context.Background()
	a := []byte("---\ntitle: A\ntags: [x]\n---\nFirst.\n")
	b := []byte("---\ntitle: B\ntags: [y]\n---\nSecond.\n")

	t.Run("last wins", func(t *testing.T) {
		t.Parallel()

		out, err := proc.Merge(ctx, [][]byte{a, b}, bfm.MergeOptions{})
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if !strings.HasSuffix(out, "First.\n\nSecond.\n") {
			t.Errorf("Merge() = %q, want bodies joined by a blank line", out)
		}

		// Scalars such as y may come back quoted; compare decoded values.
		doc, err := proc.Parse(ctx, []byte(out))
		if err != nil {
			t.Fatalf("Parse(merged) error = %v", err)
		}
		if got := doc.FrontMatter["title"]; got != "B" {
			t.Errorf("title = %v, want %q", got, "B")
		}
		tags, _ := doc.FrontMatter["tags"].([]any)
		if len(tags) != 2 || tags[0] != "x" || tags[1] != "y" {
			t.Errorf("tags = %#v, want [x y]", doc.FrontMatter["tags"])
		}
	})

	t.Run("conflict error", func(t *testing.T) {
		t.Parallel()

		_, err := proc.Merge(ctx, [][]byte{a, b}, bfm.MergeOptions{Strategy: bfm.MergeError})
		if !errors.Is(err, bfm.ErrMergeConflict) {
			t.Fatalf("Merge() error = %v, want ErrMergeConflict", err)
		}
		var ce *bfm.MergeConflictError
		if !errors.As(err, &ce) || ce.Key != "title" {
			t.Errorf("Merge() error = %#v, want conflict on title", err)
		}
	})

	t.Run("custom separator", func(t *testing.T) {
		t.Parallel()

		out, err := proc.Merge(ctx, [][]byte{[]byte("A\n"), []byte("B\n")}, bfm.MergeOptions{Separator: "\n\n---\n\n"})
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if out != "A\n\n---\n\nB\n" {
			t.Errorf("Merge() = %q, want %q", out, "A\n\n---\n\nB\n")
		}
	})

	t.Run("no sources", func(t *testing.T) {
		t.Parallel()

		if _, err := proc.Merge(ctx, nil, bfm.MergeOptions{}); !errors.Is(err, bfm.ErrEmptyInput) {
			t.Errorf("Merge(nil) error = %v, want ErrEmptyInput", err)
		}
	})
}
