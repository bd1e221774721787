package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeStyle is the chroma style used for code CSS.
const DefaultCodeStyle = "github"

// highlighter emits class-based markup so the colors live in one stylesheet.
type highlighter struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func newHighlighter(style string) *highlighter {
	if style == "" {
		style = DefaultCodeStyle
	}
	return &highlighter{
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     styles.Get(style),
	}
}

// highlight returns highlighted markup, or "" when no lexer knows lang.
func (h *highlighter) highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", nil
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", err
	}
	return b.String(), nil
}

// CodeCSS returns the stylesheet for highlighted code blocks.
func (r *Renderer) CodeCSS() (string, error) {
	var b strings.Builder
	if err := r.highlighter.formatter.WriteCSS(&b, r.highlighter.style); err != nil {
		return "", err
	}
	return b.String(), nil
}
