package cinder

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.cinder.dev/internal/test"
)

// withoutLoc drops positions so token streams can be compared by value.
func withoutLoc(toks []Token) []Token {
	if toks == nil {
		return nil
	}

	out := make([]Token, len(toks))
	for i, tok := range toks {
		out[i] = Token{Typ: tok.Typ, Value: tok.Value}
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"int x = 5;",
			false,
			[]Token{
				{TokenInt, "int", Location{}},
				{TokenIdentifier, "x", Location{}},
				{TokenAssign, "=", Location{}},
				{TokenIntConstant, "5", Location{}},
				{TokenSemicolon, ";", Location{}},
			},
		},
		{
			"x - 1",
			false,
			[]Token{
				{TokenIdentifier, "x", Location{}},
				{TokenMinus, "-", Location{}},
				{TokenIntConstant, "1", Location{}},
			},
		},
		{
			"= -1",
			false,
			[]Token{
				{TokenAssign, "=", Location{}},
				{TokenNegate, "-", Location{}},
				{TokenIntConstant, "1", Location{}},
			},
		},
		{
			"-1",
			false,
			[]Token{
				{TokenNegate, "-", Location{}},
				{TokenIntConstant, "1", Location{}},
			},
		},
		{
			"(-1",
			false,
			[]Token{
				{TokenOpenParentheses, "(", Location{}},
				{TokenNegate, "-", Location{}},
				{TokenIntConstant, "1", Location{}},
			},
		},
		{
			"2.5-x",
			false,
			[]Token{
				{TokenFloatConstant, "2.5", Location{}},
				{TokenMinus, "-", Location{}},
				{TokenIdentifier, "x", Location{}},
			},
		},
		{
			"a==b!=c<=d>=e&&f||g<h>i",
			false,
			[]Token{
				{TokenIdentifier, "a", Location{}},
				{TokenEqual, "==", Location{}},
				{TokenIdentifier, "b", Location{}},
				{TokenNotEqual, "!=", Location{}},
				{TokenIdentifier, "c", Location{}},
				{TokenLessEqual, "<=", Location{}},
				{TokenIdentifier, "d", Location{}},
				{TokenGreaterEqual, ">=", Location{}},
				{TokenIdentifier, "e", Location{}},
				{TokenAnd, "&&", Location{}},
				{TokenIdentifier, "f", Location{}},
				{TokenOr, "||", Location{}},
				{TokenIdentifier, "g", Location{}},
				{TokenLess, "<", Location{}},
				{TokenIdentifier, "h", Location{}},
				{TokenGreater, ">", Location{}},
				{TokenIdentifier, "i", Location{}},
			},
		},
		{
			"!done",
			false,
			[]Token{
				{TokenNot, "!", Location{}},
				{TokenIdentifier, "done", Location{}},
			},
		},
		{
			"float f(int a_1) { return a_1 * 2.0 / 4; }",
			false,
			[]Token{
				{TokenFloat, "float", Location{}},
				{TokenIdentifier, "f", Location{}},
				{TokenOpenParentheses, "(", Location{}},
				{TokenInt, "int", Location{}},
				{TokenIdentifier, "a_1", Location{}},
				{TokenCloseParentheses, ")", Location{}},
				{TokenOpenCurly, "{", Location{}},
				{TokenReturn, "return", Location{}},
				{TokenIdentifier, "a_1", Location{}},
				{TokenMulti, "*", Location{}},
				{TokenFloatConstant, "2.0", Location{}},
				{TokenDiv, "/", Location{}},
				{TokenIntConstant, "4", Location{}},
				{TokenSemicolon, ";", Location{}},
				{TokenCloseCurly, "}", Location{}},
			},
		},
		{
			"void if else while for break continue",
			false,
			[]Token{
				{TokenVoid, "void", Location{}},
				{TokenIf, "if", Location{}},
				{TokenElse, "else", Location{}},
				{TokenWhile, "while", Location{}},
				{TokenFor, "for", Location{}},
				{TokenBreak, "break", Location{}},
				{TokenContinue, "continue", Location{}},
			},
		},
		{
			"v[i], w[]",
			false,
			[]Token{
				{TokenIdentifier, "v", Location{}},
				{TokenOpenBracket, "[", Location{}},
				{TokenIdentifier, "i", Location{}},
				{TokenCloseBracket, "]", Location{}},
				{TokenComma, ",", Location{}},
				{TokenIdentifier, "w", Location{}},
				{TokenOpenBracket, "[", Location{}},
				{TokenCloseBracket, "]", Location{}},
			},
		},
		{
			"únicódeShouldBeVàlid = 1",
			false,
			[]Token{
				{TokenIdentifier, "únicódeShouldBeVàlid", Location{}},
				{TokenAssign, "=", Location{}},
				{TokenIntConstant, "1", Location{}},
			},
		},
		{
			"",
			false,
			nil,
		},
		{"a & b", true, nil},
		{"a | b", true, nil},
		{"@", true, nil},
		{"1.2.3", true, nil},
		{"12ab", true, nil},
		{"a.b", true, nil},
		{"int x = 1;\x00 @@@", true, nil},
		{"\x00", true, nil},
		{"#define\nint x;", true, nil},
		{"#define N\nint x;", true, nil},
		{"#define 1N 2\nint x;", true, nil},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.data)
		if c.fail {
			var lexErr *LexError
			assert.True(t, errors.As(err, &lexErr), "expected a lex error for %q", c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, withoutLoc(toks), c.data)
	}
}

func TestLexerCommentsAreIgnored(t *testing.T) {
	cases := []struct {
		with    string
		without string
	}{
		{"int x; // trailing comment", "int x; "},
		{"// leading comment\nint x;", "\nint x;"},
		{"int /* inline */ x;", "int  x;"},
		{"int x /* spans\nseveral\nlines */ = 1;", "int x  = 1;"},
		{"int x; /* unterminated\n float y;", "int x; "},
		{"a/**/b", "ab"},
		{"int x = 1; /* a */ /* b */ // c", "int x = 1;   "},
	}

	for _, c := range cases {
		got, err := Tokenize(c.with)
		require.NoError(t, err, c.with)

		expect, err := Tokenize(c.without)
		require.NoError(t, err, c.without)

		assert.Equal(t, withoutLoc(expect), withoutLoc(got), c.with)
	}
}

func TestLexerMacros(t *testing.T) {
	cases := []struct {
		data   string
		expect string
	}{
		{
			"#define N 10\nint x = N;",
			"int x = 10;",
		},
		{
			"int a = N;\n#define N 3\nint b = N;",
			"int a = N; int b = 3;",
		},
		{
			"#define N 2\nint NN = N;",
			"int NN = 2;",
		},
		{
			"#define N 2\nint a = N + N;",
			"int a = 2 + N;",
		},
		{
			"#define ONE 1\n#define TWO 2\nint a = ONE + TWO;",
			"int a = 1 + 2;",
		},
		{
			"  #define LIMIT (4 * 8)\nint a = LIMIT;",
			"int a = (4 * 8);",
		},
		{
			"#define N 1\n#include <stdio.h>\n# pragma once\nint a = N;",
			"int a = 1;",
		},
	}

	for _, c := range cases {
		got, err := Tokenize(c.data)
		require.NoError(t, err, c.data)

		expect, err := Tokenize(c.expect)
		require.NoError(t, err, c.expect)

		assert.Equal(t, withoutLoc(expect), withoutLoc(got), c.data)
	}
}

func TestPreprocess(t *testing.T) {
	out, err := Preprocess("#define N 1\nint a = N; // one\n/* two\nlines */int b;")
	require.NoError(t, err)

	assert.Equal(t, "\nint a = 1; \n\nint b;", out)
}

func TestLexerLocations(t *testing.T) {
	toks, err := Tokenize("int x;\n  float y;")
	require.NoError(t, err)
	require.Len(t, toks, 6)

	assert.Equal(t, Location{Line: 1, Column: 1}, toks[0].Loc)
	assert.Equal(t, Location{Line: 1, Column: 5}, toks[1].Loc)
	assert.Equal(t, Location{Line: 2, Column: 3}, toks[3].Loc)

	// Directive and comment lines keep their line numbers
	toks, err = Tokenize("#define A 1\n/* c\n */ int x = A;")
	require.NoError(t, err)
	require.NotEmpty(t, toks)

	assert.Equal(t, 3, toks[0].Loc.Line)
}

func TestLexErrorLocation(t *testing.T) {
	_, err := Tokenize("int x;\nint y = a & b;")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, Location{Line: 2, Column: 11}, lexErr.Loc)
	assert.Contains(t, lexErr.Error(), "2:11")
}

func TestLexerNulByte(t *testing.T) {
	toks, err := Tokenize("int x;\x00")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Nil(t, toks)
	assert.Equal(t, Location{Line: 1, Column: 7}, lexErr.Loc)
	assert.Contains(t, lexErr.Error(), `'\x00'`)
}

func TestLexerReader(t *testing.T) {
	toks, err := NewLexer(strings.NewReader("void main() {}")).Run()
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{TokenVoid, "void", Location{}},
		{TokenIdentifier, "main", Location{}},
		{TokenOpenParentheses, "(", Location{}},
		{TokenCloseParentheses, ")", Location{}},
		{TokenOpenCurly, "{", Location{}},
		{TokenCloseCurly, "}", Location{}},
	}, withoutLoc(toks))
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "Identifier(x)", Token{Typ: TokenIdentifier, Value: "x"}.String())
	assert.Equal(t, "Negate(-)", Token{Typ: TokenNegate, Value: "-"}.String())
	assert.Equal(t, "Unknown", Token{}.String())
	assert.Equal(t, "TokenType(999)", TokenType(999).String())
	assert.Equal(t, "GreaterEqual", TokenGreaterEqual.String())
	assert.Equal(t, "Break", TokenBreak.String())
	assert.Equal(t, "TokenType(37)", (TokenBreak + 1).String())
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		l := NewLexer(strings.NewReader(data))

		var err error
		b.StartTimer()

		benchResult, err = l.Run()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
