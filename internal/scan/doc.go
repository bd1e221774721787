// Package scan is a small backtracking scanner over UTF-8 code points.
//
// A Cursor is an immutable position in a source buffer. Constructs are pure
// functions from a Cursor to a Result: on success the Result carries the
// cursor after the match and the tokens emitted on the way; on failure the
// caller keeps its own cursor, so rolling back is free.
//
// Attempt commits the first accepting alternative. Check runs a construct
// only to learn whether it would accept and always discards the outcome.
// Fixed literals and name sets are matched through Trie tables keyed by
// (state, code point) instead of hand-written per-character functions.
//
// Multi-line constructs consult a LineRegistry before claiming a line so that
// a line already owned by another open construct is never taken over.
package scan
