package scan_test

import (
	"testing"

	"github.com/alnah/go-bfm/internal/scan"
)

// ---------------------------------------------------------------------------
// TestCursor - Immutable code point cursor
// ---------------------------------------------------------------------------

func TestCursor(t *testing.T) {
	t.Parallel()

	c := scan.New([]byte("añb"))
	if c.Prev() != scan.EOF {
		t.Errorf("Prev() = %q, want EOF", c.Prev())
	}
	if c.Peek() != 'a' {
		t.Errorf("Peek() = %q, want %q", c.Peek(), 'a')
	}

	n := c.Next()
	if n.Peek() != 'ñ' {
		t.Errorf("Next().Peek() = %q, want %q", n.Peek(), 'ñ')
	}
	if c.Offset() != 0 {
		t.Errorf("original cursor moved to %d", c.Offset())
	}

	n = n.Next()
	if n.Offset() != 3 {
		t.Errorf("Offset() = %d, want 3 (multi-byte rune)", n.Offset())
	}
	if n.Prev() != 'ñ' {
		t.Errorf("Prev() = %q, want %q", n.Prev(), 'ñ')
	}
	if got := n.Since(c); got != "añ" {
		t.Errorf("Since() = %q, want %q", got, "añ")
	}

	end := n.Next()
	if !end.EOF() || end.Peek() != scan.EOF {
		t.Error("expected EOF after last rune")
	}
	if end.Next().Offset() != end.Offset() {
		t.Error("Next() at EOF should not move")
	}
}

func TestCursor_AtBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prev rune
		want bool
	}{
		{"start of input", scan.EOF, true},
		{"space", ' ', true},
		{"newline", '\n', true},
		{"punctuation", '(', true},
		{"letter", 'l', false},
		{"digit", '7', false},
		{"non-ascii letter", 'é', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := scan.NewAt([]byte("x@y"), 1, tt.prev)
			if got := c.AtBoundary(); got != tt.want {
				t.Errorf("AtBoundary() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAttempt / TestCheck - Speculative combinators
// ---------------------------------------------------------------------------

func TestAttempt(t *testing.T) {
	t.Parallel()

	c := scan.New([]byte("abc"))
	ab := scan.Span("ab", scan.Literal("ab"))
	abc := scan.Span("abc", scan.Literal("abc"))
	x := scan.Span("x", scan.Literal("x"))

	r := scan.Attempt(c, x, ab, abc)
	if !r.OK {
		t.Fatal("Attempt() rejected, want accept")
	}
	if r.Cursor.Offset() != 2 {
		t.Errorf("Cursor.Offset() = %d, want 2 (first acceptor wins)", r.Cursor.Offset())
	}
	if len(r.Tokens) != 1 || r.Tokens[0].Kind != "ab" {
		t.Errorf("Tokens = %+v, want one ab token", r.Tokens)
	}

	if r := scan.Attempt(c, x); r.OK {
		t.Error("Attempt() accepted with no matching alternative")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	c := scan.New([]byte("//a"))
	peek := scan.Seq(scan.Literal("//"), scan.Rune(scan.IsLower))

	if !scan.Check(c, peek) {
		t.Error("Check() = false, want true")
	}
	if c.Offset() != 0 {
		t.Error("Check() moved the cursor")
	}
	if scan.Check(scan.New([]byte("//A")), peek) {
		t.Error("Check() = true for uppercase key, want false")
	}
}

func TestSeqManyOptional(t *testing.T) {
	t.Parallel()

	word := scan.Span("w", scan.While(1, scan.IsLower))
	sep := scan.While(1, scan.IsSpace)
	list := scan.Seq(word, scan.Many(scan.Seq(sep, word)), scan.Optional(scan.Is('.')))

	r := list(scan.New([]byte("one two  three. tail")))
	if !r.OK {
		t.Fatal("rejected")
	}
	if got := len(r.All("w")); got != 3 {
		t.Errorf("len(All(w)) = %d, want 3", got)
	}
	if r.Cursor.Peek() != ' ' {
		t.Errorf("stopped at %q, want space after period", r.Cursor.Peek())
	}
}

// ---------------------------------------------------------------------------
// TestRun - State machine runner
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	// digits then a mandatory '!'
	var digits, bang scan.State
	digits = func(r rune) scan.Step {
		if r >= '0' && r <= '9' {
			return scan.Consume(digits)
		}
		if r == '!' {
			return scan.Consume(bang)
		}
		return scan.Fail()
	}
	bang = func(rune) scan.Step { return scan.Stop() }

	tests := []struct {
		input  string
		ok     bool
		offset int
	}{
		{"123!x", true, 4},
		{"!", true, 1},
		{"12a", false, 0},
		{"12", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			r := scan.Run(scan.New([]byte(tt.input)), digits)
			if r.OK != tt.ok {
				t.Fatalf("Run(%q).OK = %v, want %v", tt.input, r.OK, tt.ok)
			}
			if r.OK && r.Cursor.Offset() != tt.offset {
				t.Errorf("Run(%q) offset = %d, want %d", tt.input, r.Cursor.Offset(), tt.offset)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTrie - Data-driven literal tables
// ---------------------------------------------------------------------------

func TestTrie_Exact(t *testing.T) {
	t.Parallel()

	names := scan.NewTrie("tab", "tabs", "toc")

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"tab x", "tab", true},
		{"tabs\n", "tabs", true},
		{"toc", "toc", true},
		{"tabsx", "", false},
		{"ta ", "", false},
		{"foobar", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, _, ok := names.Exact(scan.New([]byte(tt.input)), scan.IsLower)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Exact(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTrie_With(t *testing.T) {
	t.Parallel()

	base := scan.NewTrie("a")
	ext := base.With("b")
	if base.Contains("b") {
		t.Error("With() mutated the receiver")
	}
	if !ext.Contains("a") || !ext.Contains("b") {
		t.Errorf("Words() = %v, want [a b]", ext.Words())
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lit    string
		input  string
		ok     bool
		offset int
	}{
		{"close fence", "@endtabs", "@endtabs\n", true, 8},
		{"close fence at EOF", "@endtabs", "@endtabs", true, 8},
		{"prefix of literal", "@endtabs", "@endtab\n", false, 0},
		{"longer word", "@endtab", "@endtabs", true, 7},
		{"footnote marker", "[^", "[^1]", true, 2},
		{"truncated input", "[^", "[", false, 0},
		{"multibyte", "ñb", "ñbc", true, 3},
		{"empty literal", "", "x", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := scan.Literal(tt.lit)(scan.New([]byte(tt.input)))
			if r.OK != tt.ok {
				t.Fatalf("Literal(%q) on %q OK = %v, want %v", tt.lit, tt.input, r.OK, tt.ok)
			}
			if r.OK && r.Cursor.Offset() != tt.offset {
				t.Errorf("Literal(%q) on %q offset = %d, want %d", tt.lit, tt.input, r.Cursor.Offset(), tt.offset)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLineRegistry - Lazy continuation ownership
// ---------------------------------------------------------------------------

func TestLineRegistry(t *testing.T) {
	t.Parallel()

	reg := scan.NewLineRegistry()
	outer := reg.NewOwner()
	inner := reg.NewOwner()

	if !reg.Claim(10, outer) {
		t.Fatal("Claim() on free line refused")
	}
	if !reg.Claim(10, outer) {
		t.Error("Claim() by same owner refused")
	}
	if reg.Claim(10, inner) {
		t.Error("Claim() stole a line held by another owner")
	}
	if !reg.Lazy(10, inner) {
		t.Error("Lazy() = false for foreign line")
	}

	reg.Release(outer)
	if _, ok := reg.Owner(10); ok {
		t.Error("Release() kept the line")
	}
	if !reg.Claim(10, inner) {
		t.Error("Claim() refused after release")
	}

	env := scan.Env{}
	if !env.Claim(1) {
		t.Error("Env without registry should accept every line")
	}
}
