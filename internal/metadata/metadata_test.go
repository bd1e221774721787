package metadata_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/hostmd"
	"github.com/alnah/go-bfm/internal/metadata"
	"github.com/alnah/go-bfm/internal/pipeline"
)

func transform(t *testing.T, src string) *ast.Node {
	t.Helper()
	p, err := hostmd.NewParser(hostmd.Grammar{Features: hostmd.AllFeatures})
	if err != nil {
		t.Fatalf("NewParser() unexpected error: %v", err)
	}
	doc, err := pipeline.NewTransformer(p, pipeline.Config{}).Run(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	return doc
}

func extract(t *testing.T, doc *ast.Node, opts ...metadata.Option) *metadata.Metadata {
	t.Helper()
	md, err := metadata.Extract(context.Background(), doc, opts...)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	return md
}

// ---------------------------------------------------------------------------
// TestExtractErrors
// ---------------------------------------------------------------------------

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := metadata.Extract(ctx, &ast.Node{Kind: ast.KindRoot}); !errors.Is(err, context.Canceled) {
		t.Errorf("Extract(canceled) error = %v, want context.Canceled", err)
	}
	if _, err := metadata.Extract(context.Background(), nil); !errors.Is(err, metadata.ErrNilDocument) {
		t.Errorf("Extract(nil) error = %v, want ErrNilDocument", err)
	}
	_, err := metadata.Extract(context.Background(), &ast.Node{Kind: ast.KindRoot}, metadata.WithWordsPerMinute(0))
	if !errors.Is(err, metadata.ErrInvalidWordsPerMinute) {
		t.Errorf("Extract(wpm 0) error = %v, want ErrInvalidWordsPerMinute", err)
	}
}

// ---------------------------------------------------------------------------
// TestWordCount
// ---------------------------------------------------------------------------

func TestWordCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		opts      []metadata.Option
		wantWords int
		wantTime  int
	}{
		{"empty", "", nil, 0, 1},
		{"paragraph", "one two three\n", nil, 3, 1},
		{"inline code", "run `go test` now\n", nil, 4, 1},
		{"code block", "```\na b\nc\n```\n", nil, 3, 1},
		{"slow reader", strings.Repeat("word ", 5) + "\n", []metadata.Option{metadata.WithWordsPerMinute(2)}, 5, 3},
		{"toc not counted", "@toc\n@endtoc\n\n# Alpha beta\n", nil, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md := extract(t, transform(t, tt.src), tt.opts...)
			if md.Computed.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", md.Computed.WordCount, tt.wantWords)
			}
			if md.Computed.ReadingTime != tt.wantTime {
				t.Errorf("ReadingTime = %d, want %d", md.Computed.ReadingTime, tt.wantTime)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTasks
// ---------------------------------------------------------------------------

func TestTasks(t *testing.T) {
	t.Parallel()

	src := "- [ ] Write docs //due:friday\n" +
		"- [x] Ship it\n" +
		"- [!] Fix bug //hard\n" +
		"- plain item\n"
	md := extract(t, transform(t, src))
	tasks := md.Computed.Tasks

	if len(tasks.All) != 3 {
		t.Fatalf("len(All) = %d, want 3", len(tasks.All))
	}
	first := tasks.All[0]
	if first.Text != "Write docs" {
		t.Errorf("All[0].Text = %q, want %q", first.Text, "Write docs")
	}
	if first.State != ast.TaskOpen {
		t.Errorf("All[0].State = %q, want %q", first.State, ast.TaskOpen)
	}
	wantMods := []metadata.TaskModifier{{Key: "due", Value: "friday"}}
	if !reflect.DeepEqual(first.Modifiers, wantMods) {
		t.Errorf("All[0].Modifiers = %+v, want %+v", first.Modifiers, wantMods)
	}
	if first.Line != 1 {
		t.Errorf("All[0].Line = %d, want 1", first.Line)
	}
	if len(tasks.Open) != 1 || len(tasks.Done) != 1 || len(tasks.Priority) != 1 {
		t.Errorf("by state = open %d, done %d, priority %d, want 1 each",
			len(tasks.Open), len(tasks.Done), len(tasks.Priority))
	}
	if got := tasks.Priority[0].Modifiers; len(got) != 1 || got[0].Key != "hard" || got[0].Value != "" {
		t.Errorf("Priority[0].Modifiers = %+v, want [{hard }]", got)
	}
}

// ---------------------------------------------------------------------------
// TestTagsAndLinks
// ---------------------------------------------------------------------------

func TestTags(t *testing.T) {
	t.Parallel()

	doc := transform(t, "Notes on #Go and #yaml and #go again.\n")
	doc.FrontMatter = map[string]any{"tags": []any{"Yaml", "intro"}}
	md := extract(t, doc)

	want := []string{"yaml", "intro", "go"}
	if !reflect.DeepEqual(md.Computed.Tags, want) {
		t.Errorf("Tags = %v, want %v", md.Computed.Tags, want)
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()

	src := "![cat](cat.png)\n\nSee [docs](https://x.test \"Docs\").\n"
	md := extract(t, transform(t, src))

	want := []metadata.Link{
		{URL: "https://x.test", Title: "Docs", Line: 3},
		{URL: "cat.png", Line: 1},
	}
	if !reflect.DeepEqual(md.Computed.Links, want) {
		t.Errorf("Links = %+v, want %+v", md.Computed.Links, want)
	}
}

func TestFootnoteBacklinksIgnored(t *testing.T) {
	t.Parallel()

	md := extract(t, transform(t, "Text[^a].\n\n[^a]: Note.\n"))
	if len(md.Computed.Links) != 0 {
		t.Errorf("Links = %+v, want none", md.Computed.Links)
	}
}

// ---------------------------------------------------------------------------
// TestComputedFields
// ---------------------------------------------------------------------------

func TestComputedFields(t *testing.T) {
	t.Parallel()

	doc := transform(t, "one two\n")
	doc.FrontMatter = map[string]any{"title": "T"}

	first := func(_ *ast.Node, fm map[string]any, c metadata.Computed) map[string]any {
		return map[string]any{"title": fm["title"], "words": c.WordCount}
	}
	second := func(*ast.Node, map[string]any, metadata.Computed) map[string]any {
		return map[string]any{"words": "many"}
	}
	md := extract(t, doc, metadata.WithComputedField(first), metadata.WithComputedField(second))

	if md.Custom["title"] != "T" {
		t.Errorf("Custom[title] = %v, want %q", md.Custom["title"], "T")
	}
	if md.Custom["words"] != "many" {
		t.Errorf("Custom[words] = %v, want %q", md.Custom["words"], "many")
	}
	if md.FrontMatter["title"] != "T" {
		t.Errorf("FrontMatter[title] = %v, want %q", md.FrontMatter["title"], "T")
	}
}
