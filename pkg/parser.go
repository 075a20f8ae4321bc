package cinder

import "fmt"

type Parser struct {
	tokens []Token
	pos    int
	tree   *Tree
}

func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		tree:   NewTree(),
	}
}

// Parse builds the AST forest for a token sequence, one root per top-level
// declaration or function definition.
func Parse(tokens []Token) (*Tree, error) {
	return NewParser(tokens).Run()
}

// bailout carries a ParseError up to Run.
type bailout struct {
	err *ParseError
}

func (p *Parser) Run() (tree *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}

			tree, err = nil, b.err
		}
	}()

	for p.pos < len(p.tokens) {
		p.tree.Roots = append(p.tree.Roots, p.topLevel())
	}

	return p.tree, nil
}

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{}
	}

	return p.tokens[p.pos+n]
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return tok
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// expect consumes the next token and aborts unless it has the given type.
func (p *Parser) expect(typ TokenType, format string, args ...interface{}) Token {
	tok := p.next()
	if tok.Typ != typ {
		p.errorf(tok, format, args...)
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return !p.atEnd() && p.peek().Typ == typ
}

func (p *Parser) consume(typ TokenType) bool {
	if !p.check(typ) {
		return false
	}

	p.next()
	return true
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) {
	panic(bailout{&ParseError{
		Tok: tok,
		Msg: fmt.Sprintf(format, args...),
	}})
}

func (p *Parser) topLevel() NodeID {
	if p.peekAt(0).IsType() && p.peekAt(1).Typ == TokenIdentifier && p.peekAt(2).Typ == TokenOpenParentheses {
		return p.funcDef()
	}

	return p.declaration()
}

func (p *Parser) declaration() NodeID {
	typ := p.next()
	if !typ.IsType() {
		p.errorf(typ, "expected a type specifier")
	}

	name := p.expect(TokenIdentifier, "expected an identifier after '%s'", typ.Value)

	init := NoNode
	if p.consume(TokenAssign) {
		init = p.logicalOr()
	}

	p.expect(TokenSemicolon, "expected ';' after declaration of '%s'", name.Value)

	return p.tree.add(Declaration{
		Type: typ,
		Name: name,
		Init: init,
	}, NoNode, NoNode)
}

func (p *Parser) funcDef() NodeID {
	ret := p.next()
	name := p.next()
	p.next() // (

	params := p.params()

	return p.tree.add(FunctionDefinition{
		Name:       name,
		ReturnType: ret,
		Params:     params,
		Body:       p.blockStmt(),
	}, NoNode, NoNode)
}

func (p *Parser) params() []Param {
	if p.consume(TokenCloseParentheses) {
		return nil
	}

	if p.peek().Typ == TokenVoid && p.peekAt(1).Typ == TokenCloseParentheses {
		p.next()
		p.next()
		return nil
	}

	var params []Param
	for {
		typ := p.next()
		if !typ.IsType() || typ.Typ == TokenVoid {
			p.errorf(typ, "expected a parameter type")
		}

		params = append(params, Param{
			Type: typ,
			Name: p.expect(TokenIdentifier, "expected a parameter name"),
		})

		if !p.consume(TokenComma) {
			break
		}
	}

	p.expect(TokenCloseParentheses, "expected ')' after parameters")
	return params
}

func (p *Parser) blockStmt() []NodeID {
	p.expect(TokenOpenCurly, "expected '{' to open function body")

	var stmts []NodeID
	for !p.check(TokenCloseCurly) {
		if p.atEnd() {
			p.errorf(Token{}, "unclosed block statement")
		}

		stmts = append(stmts, p.statement())
	}

	p.next() // }
	return stmts
}

func (p *Parser) statement() NodeID {
	switch tok := p.peek(); tok.Typ {
	case TokenReturn:
		p.next()

		value := NoNode
		if !p.check(TokenSemicolon) {
			value = p.logicalOr()
		}

		p.expect(TokenSemicolon, "expected ';' after return")

		return p.tree.add(ReturnStatement{
			Keyword: tok,
			Value:   value,
		}, NoNode, NoNode)
	case TokenVoid, TokenInt, TokenFloat:
		return p.declaration()
	case TokenIf, TokenElse, TokenWhile, TokenFor, TokenBreak, TokenContinue:
		p.errorf(tok, "unsupported statement")
		return NoNode
	default:
		expr := p.logicalOr()
		p.expect(TokenSemicolon, "expected ';' after expression")
		return expr
	}
}

// binary parses operand and, if followed by one of ops, the right hand side
// through self. Recursing into self for the right operand groups chains to
// the right: 1 - 2 - 3 is 1 - (2 - 3).
func (p *Parser) binary(operand, self func() NodeID, ops ...TokenType) NodeID {
	lhs := operand()

	tok := p.peek()
	for _, op := range ops {
		if tok.Typ != op {
			continue
		}

		p.next()
		if tok.Typ == TokenNegate {
			// The lexer marks '-' after ')' or ']' as unary
			tok.Typ = TokenMinus
		}

		rhs := self()
		return p.tree.add(TokenLeaf{tok}, lhs, rhs)
	}

	return lhs
}

func (p *Parser) logicalOr() NodeID {
	return p.binary(p.logicalAnd, p.logicalOr, TokenOr)
}

func (p *Parser) logicalAnd() NodeID {
	return p.binary(p.equality, p.logicalAnd, TokenAnd)
}

func (p *Parser) equality() NodeID {
	return p.binary(p.relational, p.equality, TokenEqual, TokenNotEqual)
}

func (p *Parser) relational() NodeID {
	return p.binary(p.additive, p.relational, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual)
}

func (p *Parser) additive() NodeID {
	return p.binary(p.multiplicative, p.additive, TokenPlus, TokenMinus, TokenNegate)
}

func (p *Parser) multiplicative() NodeID {
	return p.binary(p.unary, p.multiplicative, TokenMulti, TokenDiv)
}

func (p *Parser) unary() NodeID {
	if tok := p.peek(); tok.IsUnaryOperator() {
		p.next()

		operand := p.unary()
		return p.tree.add(UnaryExpression{Op: tok}, operand, NoNode)
	}

	return p.postfix()
}

func (p *Parser) postfix() NodeID {
	if !p.check(TokenIdentifier) {
		return p.primary()
	}

	name := p.next()
	switch {
	case p.check(TokenOpenParentheses):
		return p.funcCall(name)
	case p.check(TokenOpenBracket):
		return p.arrayAccess(name)
	}

	return p.tree.add(TokenLeaf{name}, NoNode, NoNode)
}

func (p *Parser) funcCall(name Token) NodeID {
	p.next() // (

	var args []NodeID
	if !p.check(TokenCloseParentheses) {
		for {
			args = append(args, p.logicalOr())

			if !p.consume(TokenComma) {
				break
			}
		}
	}

	p.expect(TokenCloseParentheses, "expected ')' after arguments of '%s'", name.Value)

	return p.tree.add(FunctionCall{
		Name: name,
		Args: args,
	}, NoNode, NoNode)
}

func (p *Parser) arrayAccess(name Token) NodeID {
	p.next() // [

	index := NoNode
	if !p.check(TokenCloseBracket) {
		index = p.logicalOr()
	}

	p.expect(TokenCloseBracket, "expected ']' after index of '%s'", name.Value)

	return p.tree.add(ArrayAccess{
		Name:  name,
		Index: index,
	}, NoNode, NoNode)
}

func (p *Parser) primary() NodeID {
	tok := p.peek()
	switch {
	case p.atEnd():
		p.errorf(tok, "expected an expression")
	case tok.IsConstant():
		p.next()
		return p.tree.add(TokenLeaf{tok}, NoNode, NoNode)
	case tok.Typ == TokenOpenParentheses:
		p.next()
		inner := p.logicalOr()
		p.expect(TokenCloseParentheses, "expected closing parenthesis")
		return p.tree.add(NodeLeaf{inner}, NoNode, NoNode)
	}

	p.errorf(tok, "expected an expression")
	return NoNode
}
