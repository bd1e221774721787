package scan

// Token is a typed span of the source emitted by a construct.
type Token struct {
	Kind  string
	Start int
	End   int
}

// Text returns the token's slice of src.
func (t Token) Text(src []byte) string {
	return string(src[t.Start:t.End])
}

// Result is the outcome of running a construct. When OK is false the other
// fields are meaningless and the caller continues from its own cursor.
type Result struct {
	Cursor Cursor
	Tokens []Token
	OK     bool
}

// Accept builds a successful result ending at c.
func Accept(c Cursor, tokens ...Token) Result {
	return Result{Cursor: c, Tokens: tokens, OK: true}
}

// Reject is the failed result.
func Reject() Result { return Result{} }

// Find returns the first token of the given kind.
func (r Result) Find(kind string) (Token, bool) {
	for _, t := range r.Tokens {
		if t.Kind == kind {
			return t, true
		}
	}
	return Token{}, false
}

// All returns every token of the given kind in emission order.
func (r Result) All(kind string) []Token {
	var out []Token
	for _, t := range r.Tokens {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Construct is a recognizer starting at a cursor.
type Construct func(c Cursor) Result

// Attempt runs the alternatives in order from c and commits the first one
// that accepts. If none accepts the result is rejected and c is untouched.
func Attempt(c Cursor, alts ...Construct) Result {
	for _, alt := range alts {
		if r := alt(c); r.OK {
			return r
		}
	}
	return Reject()
}

// Check reports whether con would accept at c. Its tokens and cursor are
// always discarded.
func Check(c Cursor, con Construct) bool {
	return con(c).OK
}

// Seq runs parts one after another, threading the cursor. All parts must
// accept; tokens are concatenated.
func Seq(parts ...Construct) Construct {
	return func(c Cursor) Result {
		cur := c
		var tokens []Token
		for _, p := range parts {
			r := p(cur)
			if !r.OK {
				return Reject()
			}
			cur = r.Cursor
			tokens = append(tokens, r.Tokens...)
		}
		return Accept(cur, tokens...)
	}
}

// Span wraps con and emits one token of kind covering everything it consumed,
// followed by the inner tokens.
func Span(kind string, con Construct) Construct {
	return func(c Cursor) Result {
		r := con(c)
		if !r.OK {
			return r
		}
		tokens := append([]Token{{Kind: kind, Start: c.Offset(), End: r.Cursor.Offset()}}, r.Tokens...)
		return Accept(r.Cursor, tokens...)
	}
}

// Optional accepts even when con rejects, consuming nothing in that case.
func Optional(con Construct) Construct {
	return func(c Cursor) Result {
		if r := con(c); r.OK {
			return r
		}
		return Accept(c)
	}
}

// Many applies con zero or more times. A match that consumes nothing stops
// the loop.
func Many(con Construct) Construct {
	return func(c Cursor) Result {
		cur := c
		var tokens []Token
		for {
			r := con(cur)
			if !r.OK || r.Cursor.Offset() == cur.Offset() {
				return Accept(cur, tokens...)
			}
			cur = r.Cursor
			tokens = append(tokens, r.Tokens...)
		}
	}
}

// Rune accepts a single code point satisfying pred.
func Rune(pred func(rune) bool) Construct {
	return func(c Cursor) Result {
		if c.EOF() || !pred(c.Peek()) {
			return Reject()
		}
		return Accept(c.Next())
	}
}

// Is accepts exactly the code point want.
func Is(want rune) Construct {
	return Rune(func(r rune) bool { return r == want })
}

// While consumes code points while pred holds and requires at least min of them.
func While(min int, pred func(rune) bool) Construct {
	return func(c Cursor) Result {
		cur := c
		n := 0
		for !cur.EOF() && pred(cur.Peek()) {
			cur = cur.Next()
			n++
		}
		if n < min {
			return Reject()
		}
		return Accept(cur)
	}
}

// LineEnd accepts at a line ending without consuming it, or at EOF.
func LineEnd(c Cursor) Result {
	if c.AtLineEnd() {
		return Accept(c)
	}
	return Reject()
}
