// Package metadata extracts read-only facts from a finished tree: word
// count, reading time, tasks, tags and links, plus caller-defined fields.
package metadata

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/alnah/go-bfm/ast"
)

// DefaultWordsPerMinute is the reading speed used for ReadingTime.
const DefaultWordsPerMinute = 200

var (
	ErrNilDocument           = errors.New("metadata: nil document")
	ErrInvalidWordsPerMinute = errors.New("metadata: words per minute must be positive")
)

// Metadata is everything Extract learns about a document.
type Metadata struct {
	FrontMatter map[string]any `json:"frontmatter"`
	Computed    Computed       `json:"computed"`
	Custom      map[string]any `json:"custom,omitempty"`
}

// Computed holds the built-in fields.
type Computed struct {
	WordCount   int      `json:"wordCount"`
	ReadingTime int      `json:"readingTime"`
	Tasks       Tasks    `json:"tasks"`
	Tags        []string `json:"tags"`
	Links       []Link   `json:"links"`
}

// Tasks groups task items by state. All keeps document order.
type Tasks struct {
	All        []Task `json:"all"`
	Open       []Task `json:"open"`
	Done       []Task `json:"done"`
	Scheduled  []Task `json:"scheduled"`
	Migrated   []Task `json:"migrated"`
	Irrelevant []Task `json:"irrelevant"`
	Event      []Task `json:"event"`
	Priority   []Task `json:"priority"`
}

func (ts *Tasks) add(t Task) {
	ts.All = append(ts.All, t)
	switch t.State {
	case ast.TaskOpen:
		ts.Open = append(ts.Open, t)
	case ast.TaskDone:
		ts.Done = append(ts.Done, t)
	case ast.TaskScheduled:
		ts.Scheduled = append(ts.Scheduled, t)
	case ast.TaskMigrated:
		ts.Migrated = append(ts.Migrated, t)
	case ast.TaskIrrelevant:
		ts.Irrelevant = append(ts.Irrelevant, t)
	case ast.TaskEvent:
		ts.Event = append(ts.Event, t)
	case ast.TaskPriority:
		ts.Priority = append(ts.Priority, t)
	}
}

// Task is one task list item.
type Task struct {
	Text      string         `json:"text"`
	State     ast.TaskState  `json:"state"`
	Modifiers []TaskModifier `json:"modifiers,omitempty"`
	Line      int            `json:"line"`
}

// TaskModifier is a //key or //key:value annotation on a task.
type TaskModifier struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Link is a link or image target.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Line  int    `json:"line"`
}

// ComputedFieldResolver derives custom fields. Its keys are merged into
// Metadata.Custom.
type ComputedFieldResolver func(doc *ast.Node, frontMatter map[string]any, computed Computed) map[string]any

type options struct {
	wpm       int
	resolvers []ComputedFieldResolver
}

// Option configures Extract.
type Option func(*options)

// WithWordsPerMinute sets the reading speed.
func WithWordsPerMinute(wpm int) Option {
	return func(o *options) { o.wpm = wpm }
}

// WithComputedField registers a resolver. Resolvers run in registration
// order and later keys win.
func WithComputedField(fn ComputedFieldResolver) Option {
	return func(o *options) {
		if fn != nil {
			o.resolvers = append(o.resolvers, fn)
		}
	}
}

// Extract walks doc without modifying it. Nodes the pipeline synthesized
// (TOC entries, footnote backlinks) are not counted.
func Extract(ctx context.Context, doc *ast.Node, opts ...Option) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNilDocument
	}
	o := options{wpm: DefaultWordsPerMinute}
	for _, opt := range opts {
		opt(&o)
	}
	if o.wpm <= 0 {
		return nil, ErrInvalidWordsPerMinute
	}

	fm := doc.FrontMatter
	if fm == nil {
		fm = map[string]any{}
	}

	var c Computed
	var images []Link
	c.Tags = frontMatterTags(fm)
	seen := make(map[string]bool, len(c.Tags))
	for _, tag := range c.Tags {
		seen[tag] = true
	}

	ast.Walk(doc, func(n *ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.WalkContinue
		}
		if n.Synthetic && n.Kind != ast.KindGroup {
			return ast.WalkSkipChildren
		}
		switch n.Kind {
		case ast.KindText, ast.KindInlineCode, ast.KindCode:
			c.WordCount += len(strings.Fields(n.Value))
		case ast.KindHashtag:
			tag := strings.ToLower(n.Identifier)
			if !seen[tag] {
				seen[tag] = true
				c.Tags = append(c.Tags, tag)
			}
		case ast.KindLink:
			c.Links = append(c.Links, Link{URL: n.URL, Title: n.Title, Line: n.Position.Line})
		case ast.KindImage:
			images = append(images, Link{URL: n.URL, Title: n.Title, Line: n.Position.Line})
		case ast.KindListItem:
			if t, ok := task(n); ok {
				c.Tasks.add(t)
			}
		}
		return ast.WalkContinue
	})
	c.Links = append(c.Links, images...)
	c.ReadingTime = readingTime(c.WordCount, o.wpm)

	md := &Metadata{FrontMatter: fm, Computed: c, Custom: map[string]any{}}
	for _, fn := range o.resolvers {
		for k, v := range fn(doc, fm, c) {
			md.Custom[k] = v
		}
	}
	return md, nil
}

func readingTime(words, wpm int) int {
	return max(1, int(math.Ceil(float64(words)/float64(wpm))))
}

// frontMatterTags reads a tags list, lowercased and de-duplicated.
func frontMatterTags(fm map[string]any) []string {
	var raw []string
	switch v := fm["tags"].(type) {
	case []string:
		raw = v
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	tags := []string{}
	seen := make(map[string]bool)
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			tags = append(tags, s)
		}
	}
	return tags
}

// task reads a task list item. The state comes from the item, or from a
// leading marker when the tree has not been through the pipeline.
func task(item *ast.Node) (Task, bool) {
	if len(item.Children) == 0 || item.Children[0].Kind != ast.KindParagraph {
		return Task{}, false
	}
	p := item.Children[0]
	t := Task{State: item.TaskState, Line: item.Position.Line}
	var text strings.Builder
	for _, c := range p.Children {
		switch c.Kind {
		case ast.KindText:
			text.WriteString(c.Value)
		case ast.KindTaskMarker:
			if t.State == "" {
				t.State = c.State
			}
		case ast.KindTaskModifier:
			t.Modifiers = append(t.Modifiers, TaskModifier{Key: c.Key, Value: c.Value})
		}
	}
	if t.State == "" {
		return Task{}, false
	}
	t.Text = strings.TrimSpace(text.String())
	return t, true
}
