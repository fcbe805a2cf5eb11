// Package tokens splits format strings such as "yyyy-MM-dd 'at' HH:mm" into
// literal text and run-length field tokens.
package tokens

import (
	"strings"
	"unicode"

	"github.com/cpuguy83/almanac/locale"
)

// Token is one run of a format string.
type Token struct {
	Literal bool
	Val     string
}

func isSpace(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// Parse tokenizes a format string. Text between single quotes is literal,
// as is any run of whitespace. Every other run of a repeated character is a
// token ("yyyy", "MM", "a").
func Parse(format string) []Token {
	var (
		splits    []Token
		current   rune = -1
		full      strings.Builder
		bracketed bool
	)

	flush := func() {
		if full.Len() > 0 {
			val := full.String()
			splits = append(splits, Token{Literal: bracketed || isSpace(val), Val: val})
		}
		full.Reset()
	}

	for _, c := range format {
		switch {
		case c == '\'':
			flush()
			current = -1
			bracketed = !bracketed
		case bracketed:
			full.WriteRune(c)
		case c == current:
			full.WriteRune(c)
		default:
			flush()
			full.WriteRune(c)
			current = c
		}
	}
	flush()

	return splits
}

var macros = map[string]locale.Preset{
	"D":    locale.DateShort,
	"DD":   locale.DateMed,
	"DDD":  locale.DateFull,
	"DDDD": locale.DateHuge,
	"t":    locale.TimeSimple,
	"tt":   locale.TimeWithSeconds,
	"ttt":  locale.TimeWithShortOffset,
	"tttt": locale.TimeWithLongOffset,
	"T":    locale.Time24Simple,
	"TT":   locale.Time24WithSeconds,
	"TTT":  locale.Time24WithShortOffset,
	"TTTT": locale.Time24WithLongOffset,
	"f":    locale.DateTimeShort,
	"ff":   locale.DateTimeMed,
	"fff":  locale.DateTimeFull,
	"ffff": locale.DateTimeHuge,
	"F":    locale.DateTimeShortWithSeconds,
	"FF":   locale.DateTimeMedWithSeconds,
	"FFF":  locale.DateTimeFullWithSeconds,
	"FFFF": locale.DateTimeHugeWithSeconds,
}

// Macro reports whether val expands to a whole locale preset.
func Macro(val string) (locale.Preset, bool) {
	p, ok := macros[val]
	return p, ok
}

// Expand replaces macro tokens with the token runs of their patterns. The
// pattern for a preset comes from resolve.
func Expand(toks []Token, resolve func(locale.Preset) string) []Token {
	var out []Token
	for _, t := range toks {
		if p, ok := Macro(t.Val); ok && !t.Literal {
			out = append(out, Parse(resolve(p))...)
			continue
		}
		out = append(out, t)
	}
	return out
}
