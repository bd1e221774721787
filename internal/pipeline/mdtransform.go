package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// byteOrderMark is stripped from the start of input.
const byteOrderMark = "\uFEFF"

// SourcePreprocessor defines the contract for source preprocessing.
type SourcePreprocessor interface {
	PreprocessSource(ctx context.Context, content string) string
}

// LinePreprocessor prepares BFM source for the line-oriented grammars.
type LinePreprocessor struct{}

// PreprocessSource normalizes line endings and guarantees a final newline,
// so every closing fence and footnote line ends the same way.
func (p *LinePreprocessor) PreprocessSource(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)
	content = ensureFinalNewline(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// ensureFinalNewline appends \n to non-empty content that lacks one.
func ensureFinalNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
