// Package pipeline turns a raw BFM tree into a finished one.
//
// The stages run in order over one document:
//   - Source preprocessing (BOM removal, line endings, final newline)
//   - Body resolution: container directive bodies are re-parsed with the
//     document's own parser, leaf bodies become meta content
//   - Fact collection: task states, table of contents headings and
//     footnote references are gathered without touching the tree
//   - Materialization: render bindings are attached top-down from the
//     collected facts
//   - Footnote resolution into a single endnotes section
//
// Rendering is handled by internal/render. This package only decides what a
// node should become, not how it is written out.
package pipeline
