package cinder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type stateFunc func(l *Lexer) stateFunc

// EOF is returned by the reader at end of input. No decoded rune can equal it.
const EOF rune = -1

type Lexer struct {
	source io.Reader
	reader *bufio.Reader
	tokens []Token
	err    error

	// Word being accumulated, flushed by whitespace and punctuation.
	pending    strings.Builder
	pendingLoc Location

	line int
	col  int
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		source: reader,
	}
}

// Tokenize preprocesses and tokenizes src.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(strings.NewReader(src)).Run()
}

// Run reads the whole input, preprocesses it and returns its tokens in order.
func (l *Lexer) Run() ([]Token, error) {
	src, err := io.ReadAll(l.source)
	if err != nil {
		return nil, err
	}

	text, err := Preprocess(string(src))
	if err != nil {
		return nil, err
	}

	l.reader = bufio.NewReader(strings.NewReader(text))
	l.tokens = nil
	l.line, l.col = 1, 1

	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			l.flush()
			return nil
		case isWordRune(r):
			if l.pending.Len() == 0 {
				l.pendingLoc = l.loc()
			}

			l.pending.WriteRune(l.next())
		case unicode.IsSpace(r):
			if !l.flush() {
				return nil
			}

			l.next()
		default:
			if !l.flush() {
				return nil
			}

			return operatorState
		}
	}
}

func operatorState(l *Lexer) stateFunc {
	loc := l.loc()
	r := l.next()

	switch r {
	case '-':
		if l.afterOperand() {
			return l.emmitValue(TokenMinus, "-", loc)
		}

		return l.emmitValue(TokenNegate, "-", loc)
	case '=', '!', '<', '>':
		if l.peek() == '=' {
			l.next()
			op := string(r) + "="
			return l.emmitValue(operatorTable[op], op, loc)
		}
	case '&', '|':
		if l.peek() != r {
			return l.errorf(loc, "malformed operator '%c', expected '%c%c'", r, r, r)
		}

		l.next()
		op := string(r) + string(r)
		return l.emmitValue(operatorTable[op], op, loc)
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emmitValue(tok, string(r), loc)
	}

	if r == utf8.RuneError {
		return l.errorf(loc, "invalid UTF-8 input")
	}

	return l.errorf(loc, "invalid symbol %q", r)
}

// afterOperand reports whether the last emitted token ends an operand, which
// makes a following '-' a subtraction.
func (l *Lexer) afterOperand() bool {
	if len(l.tokens) == 0 {
		return false
	}

	last := l.tokens[len(l.tokens)-1]
	return last.Typ == TokenIdentifier || last.IsConstant()
}

// flush classifies and emits the pending word. It returns false if the word
// is not a valid token.
func (l *Lexer) flush() bool {
	if l.pending.Len() == 0 {
		return true
	}

	word := l.pending.String()
	loc := l.pendingLoc
	l.pending.Reset()

	if t, ok := keywordTable[word]; ok {
		l.emmitValue(t, word, loc)
		return true
	}

	first, _ := utf8.DecodeRuneInString(word)
	switch {
	case unicode.IsDigit(first) || first == '.':
		if strings.ContainsRune(word, '.') {
			if _, err := strconv.ParseFloat(word, 64); err != nil {
				l.errorf(loc, "malformed float constant '%s'", word)
				return false
			}

			l.emmitValue(TokenFloatConstant, word, loc)
			return true
		}

		if _, err := strconv.ParseInt(word, 10, 64); err != nil {
			l.errorf(loc, "malformed integer constant '%s'", word)
			return false
		}

		l.emmitValue(TokenIntConstant, word, loc)
	case strings.ContainsRune(word, '.'):
		l.errorf(loc, "invalid identifier '%s'", word)
		return false
	default:
		l.emmitValue(TokenIdentifier, word, loc)
	}

	return true
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) errorf(loc Location, format string, args ...interface{}) stateFunc {
	l.err = &LexError{
		Loc: loc,
		Msg: fmt.Sprintf(format, args...),
	}

	return nil
}

func (l *Lexer) emmitValue(t TokenType, val string, loc Location) stateFunc {
	l.tokens = append(l.tokens, Token{
		Typ:   t,
		Value: val,
		Loc:   loc,
	})

	return defaultState
}

func (l *Lexer) loc() Location {
	return Location{Line: l.line, Column: l.col}
}

func (l *Lexer) peek() rune {
	r := l.read()
	if r != EOF {
		_ = l.reader.UnreadRune()
	}

	return r
}

func (l *Lexer) next() rune {
	r := l.read()
	if r == '\n' {
		l.line++
		l.col = 1
	} else if r != EOF {
		l.col++
	}

	return r
}

func (l *Lexer) read() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	return r
}
