package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(toks []*Token) []int {
	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestLexPunctuation(t *testing.T) {
	toks := Tokenize("a >>>= b >> c ... :: -> ++ /= / x")

	assert.Equal(t, []int{
		TOK_IDENT, TOK_URSHIFT_ASSIGN, TOK_IDENT, TOK_RSHIFT, TOK_IDENT,
		TOK_ELLIPSIS, TOK_DCOLON, TOK_ARROW, TOK_INC, TOK_DIV_ASSIGN, TOK_DIV,
		TOK_IDENT, TOK_EOF,
	}, kindsOf(toks))
}

func TestLexKeywords(t *testing.T) {
	toks := Tokenize("class boolean String native foo_1")

	assert.Equal(t, []int{TOK_CLASS, TOK_BOOL, TOK_STRING, TOK_NATIVE, TOK_IDENT, TOK_EOF}, kindsOf(toks))
	assert.Equal(t, "foo_1", toks[4].Value)
}

func TestLexComments(t *testing.T) {
	toks := Tokenize("a // line\n/* block\n * comment */ b")

	require.Equal(t, []int{TOK_IDENT, TOK_IDENT, TOK_EOF}, kindsOf(toks))
	assert.Equal(t, 2, toks[1].Span.StartLine)
}

func TestLexIntLiterals(t *testing.T) {
	tests := []struct {
		src    string
		value  uint64
		suffix rune
	}{
		{"42", 42, 0},
		{"1_000_000", 1000000, 0},
		{"0x1F", 31, 0},
		{"0b1010", 10, 0},
		{"0o17", 15, 0},
		{"10L", 10, 'L'},
		{"0xFFl", 255, 'l'},
		{"2147483648", 2147483648, 0},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			toks := Tokenize(test.src)
			require.Len(t, toks, 2)

			tok := toks[0]
			require.Equal(t, TOK_INTLIT, tok.Kind, tok.Message)
			assert.Equal(t, test.value, tok.IntValue)
			assert.Equal(t, test.suffix, tok.Suffix)
			assert.Equal(t, test.src, tok.Value)
		})
	}
}

func TestLexFloatLiterals(t *testing.T) {
	tests := []struct {
		src    string
		value  float64
		suffix rune
	}{
		{"1.5", 1.5, 0},
		{".25", 0.25, 0},
		{"1e3", 1000, 0},
		{"2.5E-1", 0.25, 0},
		{"3f", 3, 'f'},
		{"1_0.0_1", 10.01, 0},
		{"4.0D", 4, 'D'},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			toks := Tokenize(test.src)
			require.Len(t, toks, 2)

			tok := toks[0]
			require.Equal(t, TOK_FLOATLIT, tok.Kind, tok.Message)
			assert.InDelta(t, test.value, tok.FloatValue, 1e-9)
			assert.Equal(t, test.suffix, tok.Suffix)
		})
	}
}

func TestLexMalformedNumbers(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"0x", "incomplete numeric literal"},
		{"1e+", "missing digits in exponent of floating literal"},
		{"0x1.5", "floating literal must be written in base 10"},
		{"12abc", "malformed numeric literal `12abc`"},
		{"99999999999999999999", "integer literal `99999999999999999999` is too large"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			toks := Tokenize(test.src)
			require.Len(t, toks, 2)

			assert.Equal(t, TOK_ERROR, toks[0].Kind)
			assert.Equal(t, test.msg, toks[0].Message)
		})
	}
}

func TestLexStringAndCharLiterals(t *testing.T) {
	toks := Tokenize(`"a\tb\"cA" 'x' '\n' '\''`)
	require.Equal(t, []int{TOK_STRINGLIT, TOK_CHARLIT, TOK_CHARLIT, TOK_CHARLIT, TOK_EOF}, kindsOf(toks))

	assert.Equal(t, "a\tb\"cA", toks[0].Value)
	assert.Equal(t, uint64('x'), toks[1].IntValue)
	assert.Equal(t, uint64('\n'), toks[2].IntValue)
	assert.Equal(t, uint64('\''), toks[3].IntValue)
}

func TestLexLiteralErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{`"abc`, "unclosed string literal"},
		{`''`, "empty char literal"},
		{`'ab'`, "char literal cannot contain multiple characters"},
		{`"\q"`, "unknown escape sequence: `\\q`"},
		{`'\u12'`, "unicode escape sequence requires 4 hexadecimal digits"},
		{`/* open`, "unclosed block comment"},
		{"#", "unexpected character `#`"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			toks := Tokenize(test.src)

			require.NotEmpty(t, toks)
			assert.Equal(t, TOK_ERROR, toks[0].Kind)
			assert.Equal(t, test.msg, toks[0].Message)
			assert.Equal(t, TOK_EOF, toks[len(toks)-1].Kind)
		})
	}
}

func TestLexerRecoversAfterError(t *testing.T) {
	toks := Tokenize("'ab' x")

	assert.Equal(t, []int{TOK_ERROR, TOK_IDENT, TOK_EOF}, kindsOf(toks))
}

func TestLexerEOFIsSticky(t *testing.T) {
	l := NewLexer("x")

	assert.Equal(t, TOK_IDENT, l.NextToken().Kind)
	assert.Equal(t, TOK_EOF, l.NextToken().Kind)
	assert.Equal(t, TOK_EOF, l.NextToken().Kind)

	l.Reset()
	assert.Equal(t, TOK_IDENT, l.NextToken().Kind)
}

func TestTokenSpans(t *testing.T) {
	toks := Tokenize("int\n  x = 1;")
	require.Len(t, toks, 6)

	x := toks[1]
	assert.Equal(t, 1, x.Span.StartLine)
	assert.Equal(t, 2, x.Span.StartCol)
	assert.Equal(t, 3, x.Span.EndCol)
}
