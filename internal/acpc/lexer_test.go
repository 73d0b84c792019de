package acpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLex(t *testing.T) {
	got := Lex("b100k/x?b20c")
	want := []Token{
		{Kind: TokenRaise, Text: "r"},
		{Kind: TokenDigits, Text: "100"},
		{Kind: TokenCall, Text: "c"},
		{Kind: TokenStreet, Text: "/"},
		{Kind: TokenOther, Text: "x?"},
		{Kind: TokenRaise, Text: "r"},
		{Kind: TokenDigits, Text: "20"},
		{Kind: TokenCall, Text: "c"},
	}
	assert.Equal(t, want, got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"b100c/kb200", "r100c/cr200"},
		{"kk/kk/kk/kk", "cc/cc/cc/cc"},
		{"r100c", "r100c"},
		{"bf", "rf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"b100c/kb200", "kbkbk", "bxc/?/", "rcbk0123456789"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestLexRendersNormalizedInput(t *testing.T) {
	in := "kb100c/b2b?!k/"
	assert.Equal(t, Normalize(in), render(Lex(in)))
	assert.Equal(t, "cr100c/r2r?!c/", render(Lex(in)))
}
