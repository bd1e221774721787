package scan

// Step is what a State decides for one code point.
type Step struct {
	next State
	stop bool
}

// State inspects the code point under the cursor (EOF at end of input).
type State func(r rune) Step

// Consume moves past the current code point into next.
func Consume(next State) Step { return Step{next: next} }

// Stop accepts without consuming the current code point.
func Stop() Step { return Step{stop: true} }

// Fail rejects the whole run.
func Fail() Step { return Step{} }

// Run drives the automaton from start until a state stops or fails.
// Consuming EOF is a failure.
func Run(c Cursor, start State) Result {
	cur := c
	s := start
	for {
		step := s(cur.Peek())
		switch {
		case step.stop:
			return Accept(cur)
		case step.next == nil || cur.EOF():
			return Reject()
		}
		cur = cur.Next()
		s = step.next
	}
}

// Machine turns a state function into a Construct.
func Machine(kind string, start func() State) Construct {
	con := func(c Cursor) Result { return Run(c, start()) }
	if kind == "" {
		return con
	}
	return Span(kind, con)
}

// Literal matches the exact text lit. It runs as a chain of states, one per
// code point, built once.
func Literal(lit string) Construct {
	runes := []rune(lit)
	states := make([]State, len(runes)+1)
	states[len(runes)] = func(rune) Step { return Stop() }
	for i := len(runes) - 1; i >= 0; i-- {
		want, next := runes[i], states[i+1]
		states[i] = func(r rune) Step {
			if r != want {
				return Fail()
			}
			return Consume(next)
		}
	}
	start := states[0]
	return Machine("", func() State { return start })
}
