package cinder

import "fmt"

//go:generate stringer -type=TokenType -trimprefix=Token
type TokenType uint64

const (
	TokenUnknown TokenType = iota

	TokenIdentifier
	TokenIntConstant
	TokenFloatConstant

	TokenVoid
	TokenInt
	TokenFloat

	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenBracket
	TokenCloseBracket
	TokenSemicolon
	TokenComma

	TokenIf
	TokenElse
	TokenWhile
	TokenFor

	TokenPlus
	TokenMinus
	TokenMulti
	TokenDiv
	TokenEqual
	TokenNotEqual
	TokenAnd
	TokenOr
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual

	TokenNegate
	TokenNot

	TokenAssign

	TokenReturn
	TokenContinue
	TokenBreak
)

var keywordTable = map[string]TokenType{
	"void":     TokenVoid,
	"int":      TokenInt,
	"float":    TokenFloat,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"return":   TokenReturn,
	"continue": TokenContinue,
	"break":    TokenBreak,
}

// Single rune punctuation and operators. Runes that may start a two rune
// operator are handled separately by the lexer.
var operatorTable = map[string]TokenType{
	"(": TokenOpenParentheses,
	")": TokenCloseParentheses,
	"{": TokenOpenCurly,
	"}": TokenCloseCurly,
	"[": TokenOpenBracket,
	"]": TokenCloseBracket,
	";": TokenSemicolon,
	",": TokenComma,
	"+": TokenPlus,
	"*": TokenMulti,
	"/": TokenDiv,
	"<": TokenLess,
	">": TokenGreater,
	"=": TokenAssign,
	"!": TokenNot,

	"==": TokenEqual,
	"!=": TokenNotEqual,
	"&&": TokenAnd,
	"||": TokenOr,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
}

// Location is a 1-based position in the preprocessed source.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   Location
}

func (t Token) String() string {
	if t.Value == "" {
		return t.Typ.String()
	}

	return fmt.Sprintf("%s(%s)", t.Typ, t.Value)
}

func (t Token) IsType() bool {
	return t.Typ == TokenVoid || t.Typ == TokenInt || t.Typ == TokenFloat
}

func (t Token) IsConstant() bool {
	return t.Typ == TokenIntConstant || t.Typ == TokenFloatConstant
}

func (t Token) IsBinaryOperator() bool {
	return TokenPlus <= t.Typ && t.Typ <= TokenGreaterEqual
}

func (t Token) IsUnaryOperator() bool {
	return t.Typ == TokenNegate || t.Typ == TokenNot
}
