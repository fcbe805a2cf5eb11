package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cpuguy83/almanac/locale"
)

func TestParse(t *testing.T) {
	tests := []struct {
		format string
		want   []Token
	}{
		{
			format: "yyyy-MM-dd",
			want: []Token{
				{Val: "yyyy"}, {Val: "-"}, {Val: "MM"}, {Val: "-"}, {Val: "dd"},
			},
		},
		{
			format: "HH 'o''clock' a",
			want: []Token{
				{Val: "HH"}, {Literal: true, Val: " "}, {Literal: true, Val: "o"},
				{Literal: true, Val: "clock"}, {Literal: true, Val: " "}, {Val: "a"},
			},
		},
		{
			format: "kkkk-'W'WW-c",
			want: []Token{
				{Val: "kkkk"}, {Val: "-"}, {Literal: true, Val: "W"}, {Val: "WW"}, {Val: "-"}, {Val: "c"},
			},
		},
		{
			format: "'unterminated",
			want:   []Token{{Literal: true, Val: "unterminated"}},
		},
		{
			format: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.format))
		})
	}
}

func TestMacro(t *testing.T) {
	p, ok := Macro("DDD")
	assert.True(t, ok)
	assert.Equal(t, locale.DateFull, p)

	_, ok = Macro("DDDDD")
	assert.False(t, ok)
}

func TestExpand(t *testing.T) {
	got := Expand(Parse("D 'D'"), locale.EnglishPattern)
	assert.Equal(t, []Token{
		{Val: "M"}, {Val: "/"}, {Val: "d"}, {Val: "/"}, {Val: "yyyy"},
		{Literal: true, Val: " "}, {Literal: true, Val: "D"},
	}, got)
}
