// Package hostmd adapts the BFM grammars to goldmark, the host line parser.
//
// goldmark owns ordinary Markdown block structure. This package registers
// block parsers for directive blocks and footnote definitions, inline
// parsers for footnote references, task markers, mentions, hashtags and
// task modifiers, then compiles the resulting goldmark tree into an
// ast.Node tree with line positions.
//
// Multi-line constructs share a scan.LineRegistry stored in the parser
// context, so a line taken by one open construct is never claimed by
// another during the same parse.
package hostmd
