package scan

import "sort"

type edge struct {
	state int
	r     rune
}

// Trie is an immutable transition table over code points. State 0 is the
// root; each word adds a path of (state, code point) -> state edges and
// marks its last state final.
type Trie struct {
	edges  map[edge]int
	final  map[int]string
	states int
}

// NewTrie builds a table accepting exactly words.
func NewTrie(words ...string) *Trie {
	t := &Trie{edges: map[edge]int{}, final: map[int]string{}, states: 1}
	for _, w := range words {
		t.add(w)
	}
	return t
}

// With returns a new table accepting the receiver's words plus words.
func (t *Trie) With(words ...string) *Trie {
	return NewTrie(append(t.Words(), words...)...)
}

func (t *Trie) add(word string) {
	s := 0
	for _, r := range word {
		e := edge{s, r}
		next, ok := t.edges[e]
		if !ok {
			next = t.states
			t.states++
			t.edges[e] = next
		}
		s = next
	}
	t.final[s] = word
}

// Contains reports whether word is in the table.
func (t *Trie) Contains(word string) bool {
	s := 0
	for _, r := range word {
		next, ok := t.edges[edge{s, r}]
		if !ok {
			return false
		}
		s = next
	}
	_, ok := t.final[s]
	return ok
}

// Words returns the accepted words in lexical order.
func (t *Trie) Words() []string {
	out := make([]string, 0, len(t.final))
	for _, w := range t.final {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Exact consumes every code point satisfying part and accepts only if the
// whole run is a word of the table. There is no retry on a shorter prefix.
func (t *Trie) Exact(c Cursor, part func(rune) bool) (string, Cursor, bool) {
	s := 0
	cur := c
	for !cur.EOF() && part(cur.Peek()) {
		next, ok := t.edges[edge{s, cur.Peek()}]
		if !ok {
			return "", c, false
		}
		s = next
		cur = cur.Next()
	}
	w, ok := t.final[s]
	if !ok {
		return "", c, false
	}
	return w, cur, true
}

// Longest follows edges as far as possible and accepts at the last final
// state passed.
func (t *Trie) Longest(c Cursor) (string, Cursor, bool) {
	s := 0
	cur := c
	word, end, found := "", c, false
	if w, ok := t.final[s]; ok {
		word, end, found = w, cur, true
	}
	for !cur.EOF() {
		next, ok := t.edges[edge{s, cur.Peek()}]
		if !ok {
			break
		}
		s = next
		cur = cur.Next()
		if w, ok := t.final[s]; ok {
			word, end, found = w, cur, true
		}
	}
	return word, end, found
}
