// Package params parses the key=value attribute list carried by a tag.
//
// Parsing is best-effort: a token that is not a well-formed key=value pair
// is dropped and never prevents the remaining tokens from being read.
package params

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Set maps parameter names to values. When a key is assigned more than
// once, the last assignment wins.
type Set map[string]string

// Get returns the value for key, or fallback when the key was not assigned.
func (s Set) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Has reports whether key was assigned.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// paramLexer splits a parameter string into separators, quoted runs and
// plain text. The rules cover every possible input byte, so lexing cannot fail
// on user content: an unbalanced quote falls through to the Quote rule.
var paramLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Quoted", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Text", Pattern: `[^,="']+`},
	{Name: "Quote", Pattern: `["']`},
})

var (
	commaToken  = paramLexer.Symbols()["Comma"]
	equalsToken = paramLexer.Symbols()["Equals"]
)

// Parse converts a raw parameter string such as
// `width=600, caption="Q1, Q2"` into a Set.
// Empty input yields an empty Set. Tokens without '=', with an empty key or
// with an empty value are skipped.
func Parse(raw string) Set {
	set := Set{}
	if strings.TrimSpace(raw) == "" {
		return set
	}

	lex, err := paramLexer.LexString("", raw)
	if err != nil {
		return set
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return set
	}

	var segment []lexer.Token
	flush := func() {
		if key, value, ok := pair(segment); ok {
			set[key] = value
		}
		segment = segment[:0]
	}

	for _, tok := range tokens {
		if tok.EOF() {
			break
		}
		if tok.Type == commaToken {
			flush()
			continue
		}
		segment = append(segment, tok)
	}
	flush()

	return set
}

// pair extracts key and value from the tokens of one comma-separated segment.
// The key ends at the first '='; everything after it, including further '='
// signs, is the value.
func pair(segment []lexer.Token) (key, value string, ok bool) {
	eq := -1
	for i, tok := range segment {
		if tok.Type == equalsToken {
			eq = i
			break
		}
	}
	if eq < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(joinTokens(segment[:eq]))
	value = unquote(strings.TrimSpace(joinTokens(segment[eq+1:])))
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

func joinTokens(tokens []lexer.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Value)
	}
	return b.String()
}

// unquote strips one leading and one trailing quote character independently.
func unquote(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`) {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) || strings.HasSuffix(s, `'`) {
		s = s[:len(s)-1]
	}
	return s
}
