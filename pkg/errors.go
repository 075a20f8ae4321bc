package cinder

import "fmt"

// LexError is returned by the preprocessor and the lexer.
type LexError struct {
	Loc Location
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s lex error: %s", e.Loc, e.Msg)
}

// ParseError is returned when the token stream does not match the grammar.
// Tok is the offending token; a zero Tok means the input ended early.
type ParseError struct {
	Tok Token
	Msg string
}

func (e *ParseError) Error() string {
	if e.Tok.Typ == TokenUnknown && e.Tok.Value == "" {
		return fmt.Sprintf("parse error: %s at end of input", e.Msg)
	}

	return fmt.Sprintf("%s parse error: %s, got %s", e.Tok.Loc, e.Msg, e.Tok)
}

// LowerError is returned for AST nodes the code generator cannot lower.
type LowerError struct {
	Node NodeID
	Desc string
	Msg  string
}

func (e *LowerError) Error() string {
	if e.Desc == "" {
		return fmt.Sprintf("lower error: %s", e.Msg)
	}

	return fmt.Sprintf("lower error: %s: %s (node %d)", e.Msg, e.Desc, e.Node)
}
