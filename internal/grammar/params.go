package grammar

import (
	"strings"

	"github.com/alnah/go-bfm/ast"
	"github.com/alnah/go-bfm/internal/scan"
)

func isParamKeyStart(r rune) bool { return scan.IsLower(r) }

func isParamKeyRest(r rune) bool {
	return scan.IsLower(r) || (r >= '0' && r <= '9') || r == '_'
}

func isValueRune(r rune) bool {
	return !scan.IsSpace(r) && !scan.IsLineEnding(r)
}

var paramKey = scan.Span(TokParamKey, scan.Seq(
	scan.Rune(isParamKeyStart),
	scan.While(0, isParamKeyRest),
))

// quotedValue matches "..." with backslash escapes. The token covers the
// text between the quotes, still escaped.
func quotedValue(c scan.Cursor) scan.Result {
	if c.Peek() != '"' {
		return scan.Reject()
	}
	start := c.Next()
	cur := start
	for {
		switch r := cur.Peek(); {
		case scan.IsLineEnding(r):
			return scan.Reject()
		case r == '\\':
			cur = cur.Next()
			if scan.IsLineEnding(cur.Peek()) {
				return scan.Reject()
			}
			cur = cur.Next()
		case r == '"':
			tok := scan.Token{Kind: TokParamQuoted, Start: start.Offset(), End: cur.Offset()}
			return scan.Accept(cur.Next(), tok)
		default:
			cur = cur.Next()
		}
	}
}

var bareValue = scan.Span(TokParamValue, scan.While(1, isValueRune))

func paramValue(c scan.Cursor) scan.Result {
	return scan.Attempt(c, quotedValue, bareValue)
}

// genericParam is key(=value|="quoted")?; a bare key is a flag.
var genericParam = scan.Span(TokParam, scan.Seq(
	paramKey,
	scan.Optional(scan.Seq(scan.Is('='), paramValue)),
))

// calloutParam requires a value.
var calloutParam = scan.Span(TokParam, scan.Seq(
	paramKey,
	scan.Is('='),
	paramValue,
))

// paramList scans space-separated params up to the line end. A chunk that
// is not a well-formed param is skipped up to the next space.
func paramList(param scan.Construct) scan.Construct {
	return func(c scan.Cursor) scan.Result {
		cur := c
		var tokens []scan.Token
		for {
			cur = cur.Skip(scan.IsSpace)
			if cur.AtLineEnd() {
				return scan.Accept(cur, tokens...)
			}
			r := param(cur)
			if r.OK && (r.Cursor.AtLineEnd() || scan.IsSpace(r.Cursor.Peek())) {
				tokens = append(tokens, r.Tokens...)
				cur = r.Cursor
				continue
			}
			cur = cur.Skip(isValueRune)
		}
	}
}

// compileParams turns param tokens into ordered params.
func compileParams(src []byte, tokens []scan.Token) ast.Params {
	var ps ast.Params
	var cur *ast.Param
	flush := func() {
		if cur != nil {
			ps.Set(*cur)
			cur = nil
		}
	}
	for _, t := range tokens {
		switch t.Kind {
		case TokParam:
			flush()
			cur = &ast.Param{Flag: true}
		case TokParamKey:
			if cur != nil {
				cur.Key = t.Text(src)
			}
		case TokParamValue:
			if cur != nil {
				cur.Value, cur.Flag = t.Text(src), false
			}
		case TokParamQuoted:
			if cur != nil {
				cur.Value, cur.Flag = Unescape(t.Text(src)), false
			}
		}
	}
	flush()
	return ps
}

// ParseParams parses a parameter string the way the generic dialect does.
func ParseParams(s string) ast.Params {
	src := []byte(s)
	r := paramList(genericParam)(scan.New(src))
	return compileParams(src, r.Tokens)
}

// Unescape removes backslash escapes from a quoted value.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// Escape quotes s for use as a param value, escaping quotes and backslashes.
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
