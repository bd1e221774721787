package grammar

import (
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/scan"
)

// identifier is [A-Za-z][A-Za-z0-9]* where a connector is consumed only
// when CHECK sees an identifier character right after it.
func identifier(kind, connectors string) scan.Construct {
	isConnector := func(r rune) bool { return r != scan.EOF && strings.ContainsRune(connectors, r) }
	ahead := scan.Seq(scan.Rune(isConnector), scan.Rune(scan.IsASCIIAlphaNum))
	return func(c scan.Cursor) scan.Result {
		if !scan.IsASCIIAlpha(c.Peek()) {
			return scan.Reject()
		}
		cur := c.Next()
		for {
			r := cur.Peek()
			switch {
			case scan.IsASCIIAlphaNum(r):
				cur = cur.Next()
			case isConnector(r) && scan.Check(cur, ahead):
				cur = cur.Next()
			default:
				return scan.Accept(cur, scan.Token{Kind: kind, Start: c.Offset(), End: cur.Offset()})
			}
		}
	}
}

var (
	mentionIdent  = identifier(TokIdentifier, "._-")
	platformIdent = identifier(TokIdentifier, "._-@")
	hashtagIdent  = identifier(TokIdentifier, "_-")
)

// Mention is a compiled @mention.
type Mention struct {
	Identifier string
	Platform   string
}

// ParseMention recognizes @identifier or @platform:identifier at c. The
// platform form is tried only when the first segment is all lowercase
// letters; when the character after ':' is not a letter the mention ends
// before the colon.
func ParseMention(c scan.Cursor) (Mention, scan.Cursor, bool) {
	if c.Peek() != '@' || !c.AtBoundary() {
		return Mention{}, c, false
	}
	r := mentionIdent(c.Next())
	if !r.OK {
		return Mention{}, c, false
	}
	src := c.Source()
	first := r.Tokens[0].Text(src)
	if r.Cursor.Peek() == ':' && isLowerWord(first) {
		if p := platformIdent(r.Cursor.Next()); p.OK {
			return Mention{Platform: first, Identifier: p.Tokens[0].Text(src)}, p.Cursor, true
		}
	}
	return Mention{Identifier: first}, r.Cursor, true
}

func isLowerWord(s string) bool {
	for _, r := range s {
		if !scan.IsLower(r) {
			return false
		}
	}
	return s != ""
}

// ParseHashtag recognizes #identifier at c.
func ParseHashtag(c scan.Cursor) (string, scan.Cursor, bool) {
	if c.Peek() != '#' || !c.AtBoundary() {
		return "", c, false
	}
	r := hashtagIdent(c.Next())
	if !r.OK {
		return "", c, false
	}
	return r.Tokens[0].Text(c.Source()), r.Cursor, true
}

func isTaskRune(r rune) bool {
	_, ok := ast.TaskStates[r]
	return ok
}

var taskMarker = scan.Seq(
	scan.Is('['),
	scan.Span(TokTaskValue, scan.Rune(isTaskRune)),
	scan.Is(']'),
	scan.Is(' '),
)

// ParseTaskMarker recognizes "[c] " at c. first must report whether c is
// the first inline content of a list item; the host knows that, the
// grammar does not.
func ParseTaskMarker(c scan.Cursor, first bool) (ast.TaskState, scan.Cursor, bool) {
	if !first {
		return "", c, false
	}
	r := taskMarker(c)
	if !r.OK {
		return "", c, false
	}
	t, _ := r.Find(TokTaskValue)
	ch := []rune(t.Text(c.Source()))[0]
	return ast.TaskStates[ch], r.Cursor, true
}

// Modifier is a compiled //key(:value)?.
type Modifier struct {
	Key      string
	Value    string
	HasValue bool
}

var modifierKey = scan.Span(TokModifierKey, scan.Seq(
	scan.Rune(scan.IsLower),
	scan.While(0, func(r rune) bool { return scan.IsLower(r) || (r >= '0' && r <= '9') }),
))

// nextModifier is the lookahead that ends a value: ' //' then [a-z].
var nextModifier = scan.Seq(scan.Literal(" //"), scan.Rune(scan.IsLower))

// modifierValue runs to the line end. A space is absorbed unless CHECK sees
// another modifier starting right after it.
func modifierValue(c scan.Cursor) scan.Result {
	cur := c
	for !cur.AtLineEnd() {
		if cur.Peek() == ' ' && scan.Check(cur, nextModifier) {
			break
		}
		cur = cur.Next()
	}
	return scan.Accept(cur, scan.Token{Kind: TokModifierValue, Start: c.Offset(), End: cur.Offset()})
}

var modifier = scan.Seq(
	scan.Literal("//"),
	modifierKey,
	scan.Optional(scan.Seq(scan.Is(':'), modifierValue)),
)

// ParseModifier recognizes //key or //key:value at c. The trigger must
// follow whitespace or start the input, so "https://x" is not a modifier.
func ParseModifier(c scan.Cursor) (Modifier, scan.Cursor, bool) {
	if !c.AfterSpace() {
		return Modifier{}, c, false
	}
	r := modifier(c)
	if !r.OK {
		return Modifier{}, c, false
	}
	src := c.Source()
	k, _ := r.Find(TokModifierKey)
	m := Modifier{Key: k.Text(src)}
	if v, ok := r.Find(TokModifierValue); ok {
		if val := strings.TrimRight(v.Text(src), " \t"); val != "" {
			m.Value, m.HasValue = val, true
		}
	}
	return m, r.Cursor, true
}
