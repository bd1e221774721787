package scan_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alnah/go-bfm/internal/scan"
)

// BenchmarkLiteral benchmarks the close fence literal, matched and missed.
func BenchmarkLiteral(b *testing.B) {
	fence := scan.Literal("@enddetails")
	inputs := []struct {
		name string
		src  []byte
	}{
		{"match", []byte("@enddetails\n")},
		{"miss_early", []byte("@endtabs\n")},
		{"miss_late", []byte("@enddetail\n")},
	}

	for _, in := range inputs {
		c := scan.New(in.src)
		b.Run(in.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = fence(c)
			}
		})
	}
}

// BenchmarkTrie_Exact benchmarks name lookup as the allow-list grows.
func BenchmarkTrie_Exact(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		words := make([]string, n)
		for i := range words {
			words[i] = "name" + strings.Repeat(string(rune('a'+i%26)), 1+i/26)
		}
		t := scan.NewTrie(words...)
		c := scan.New([]byte(words[n-1] + " x=1\n"))

		b.Run(fmt.Sprintf("words_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, _, ok := t.Exact(c, scan.IsLower); !ok {
					b.Fatal("Exact() rejected a known word")
				}
			}
		})
	}
}

// BenchmarkAttempt benchmarks alternatives that fail late before one
// accepts.
func BenchmarkAttempt(b *testing.B) {
	param := scan.Seq(
		scan.Span("key", scan.While(1, scan.IsASCIIAlpha)),
		scan.Is('='),
		scan.Span("value", scan.While(1, func(r rune) bool { return !scan.IsSpace(r) && !scan.IsLineEnding(r) })),
	)
	flag := scan.Span("flag", scan.While(1, scan.IsASCIIAlpha))
	c := scan.New([]byte("collapsible rest\n"))

	b.ReportAllocs()
	for b.Loop() {
		if r := scan.Attempt(c, param, flag); !r.OK {
			b.Fatal("Attempt() rejected")
		}
	}
}

// BenchmarkRun benchmarks the state runner over a long line.
func BenchmarkRun(b *testing.B) {
	var word scan.State
	word = func(r rune) scan.Step {
		if scan.IsLineEnding(r) || r == scan.EOF {
			return scan.Stop()
		}
		return scan.Consume(word)
	}

	for _, size := range []int{16, 256, 4096} {
		c := scan.New([]byte(strings.Repeat("a", size) + "\n"))
		b.Run(fmt.Sprintf("runes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(size))
			for b.Loop() {
				_ = scan.Run(c, word)
			}
		})
	}
}

// BenchmarkLineRegistry benchmarks claim and release of nested owners.
func BenchmarkLineRegistry(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		reg := scan.NewLineRegistry()
		outer := reg.NewOwner()
		inner := reg.NewOwner()
		for line := range 100 {
			reg.Claim(line, outer)
			reg.Lazy(line, inner)
		}
		reg.Release(inner)
		reg.Release(outer)
	}
}
