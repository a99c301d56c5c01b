// Package parser implements dsasm's recursive-descent parser with
// precedence-climbing expression parsing (spec.md §4.2).
package parser

import (
	"fmt"

	"dsasm/ast"
	"dsasm/internal/ids"
	"dsasm/token"
)

// Parser walks a token stream built by lexer.Scan, tracking the
// variable and method environment visible at the parser's current
// position.
type Parser struct {
	tokens   []token.Token
	position int

	vars    []ast.Variable
	methods []ast.Method
}

// New initializes a Parser over the given token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// NewWithEnv initializes a Parser over the given token stream, seeded
// with a variable/method environment carried over from a previous
// parse — e.g. a REPL replaying a new line of input against names
// declared on earlier lines.
func NewWithEnv(tokens []token.Token, vars []ast.Variable, methods []ast.Method) *Parser {
	return &Parser{tokens: tokens, vars: vars, methods: methods}
}

// Env returns the variable/method environment visible at the parser's
// current position, for a caller that wants to seed a later Parser
// with it (see NewWithEnv).
func (p *Parser) Env() ([]ast.Variable, []ast.Method) {
	return p.vars, p.methods
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) isFinished() bool {
	return p.peek().TokenType == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) checkType(tt token.TokenType) bool {
	return p.peek().TokenType == tt
}

func (p *Parser) tryConsume(tt token.TokenType) bool {
	if p.checkType(tt) {
		p.advance()
		return true
	}
	return false
}

// consume advances past the current token if it matches tt, otherwise
// it surfaces a ParserError built from message.
func (p *Parser) consume(tt token.TokenType, message string) (token.Token, error) {
	if p.checkType(tt) {
		return p.advance(), nil
	}
	cur := p.peek()
	return token.CreateToken(token.INVALID, cur.Line, cur.Column), CreateParserError(cur.Line, cur.Column, message)
}

func (p *Parser) findVar(name string) *ast.Variable {
	for i := range p.vars {
		if p.vars[i].Name == name {
			return &p.vars[i]
		}
	}
	return nil
}

func (p *Parser) findMethod(name string) *ast.Method {
	for i := range p.methods {
		if p.methods[i].Name == name {
			return &p.methods[i]
		}
	}
	return nil
}

// ParseAll is the entry point: it parses a sequence of top-level
// method declarations and statements until the token stream is
// exhausted, per spec.md §4.2/§6.
func ParseAll(tokens []token.Token) ([]ast.Node, error) {
	return New(tokens).Parse()
}

// Parse runs the parser over its token stream from its current
// position, using (and extending) whatever variable/method
// environment it was created with.
func (p *Parser) Parse() ([]ast.Node, error) {
	var nodes []ast.Node
	for !p.isFinished() {
		if p.tryConsume(token.METHOD) {
			decl, err := p.parseMethodDecl()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, decl)
			continue
		}
		node, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *Parser) parseMethodDecl() (ast.Node, error) {
	nameTok, err := p.consume(token.IDENTIFIER, "expected a method name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPA, "expected '(' after method name"); err != nil {
		return nil, err
	}

	savedVars := p.vars
	var params []ast.Variable
	for !p.tryConsume(token.RPA) {
		if len(params) > 0 {
			if _, err := p.consume(token.COMMA, "expected ',' between parameters"); err != nil {
				return nil, err
			}
		}
		paramTok, err := p.consume(token.IDENTIFIER, "expected a parameter name")
		if err != nil {
			return nil, err
		}
		v := ast.Variable{Name: paramTok.Name, ID: ids.Vars.Next()}
		p.vars = append(p.vars, v)
		params = append(params, v)
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	p.vars = savedVars

	method := ast.Method{Name: nameTok.Name, ID: ids.Vars.Next(), Parameters: params, Body: body}
	p.methods = append(p.methods, method)
	return ast.MethodDecl{Method: method}, nil
}

// parseStmt parses a single statement, dispatching on the next token.
func (p *Parser) parseStmt() (ast.Node, error) {
	tok := p.advance()
	switch tok.TokenType {
	case token.LCUR:
		return p.parseScope()
	case token.LET:
		return p.parseVarDecl()
	case token.IDENTIFIER:
		return p.parseVarSet(tok)
	case token.FOR:
		return p.parseFor()
	case token.IF:
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return ast.If{Condition: cond, Body: body}, nil
	case token.WHILE:
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return ast.While{Condition: cond, Body: body}, nil
	case token.PUTCHAR:
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Putchar{Value: val}, nil
	case token.RETURN:
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Return{Value: val}, nil
	default:
		return nil, CreateParserError(tok.Line, tok.Column, fmt.Sprintf("unexpected token '%s'", tok))
	}
}

func (p *Parser) parseScope() (ast.Node, error) {
	savedVars := p.vars
	var statements []ast.Node
	for !p.tryConsume(token.RCUR) {
		if p.isFinished() {
			cur := p.peek()
			return nil, CreateParserError(cur.Line, cur.Column, "expected '}' to close scope")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	p.vars = savedVars
	return ast.Scope{Statements: statements}, nil
}

func (p *Parser) parseVarDecl() (ast.Node, error) {
	nameTok, err := p.consume(token.IDENTIFIER, "expected a variable name")
	if err != nil {
		return nil, err
	}
	if p.findVar(nameTok.Name) != nil {
		return nil, CreateParserError(nameTok.Line, nameTok.Column, fmt.Sprintf("Variable '%s' already exists", nameTok.Name))
	}
	v := ast.Variable{Name: nameTok.Name, ID: ids.Vars.Next()}
	p.vars = append(p.vars, v)
	if _, err := p.consume(token.ASSIGN, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.VarDecl{VarID: v.ID, Value: value}, nil
}

func (p *Parser) parseVarSet(nameTok token.Token) (ast.Node, error) {
	v := p.findVar(nameTok.Name)
	if v == nil {
		return nil, CreateParserError(nameTok.Line, nameTok.Column, fmt.Sprintf("Variable '%s' does not exist", nameTok.Name))
	}
	if _, err := p.consume(token.ASSIGN, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.VarSet{VarID: v.ID, Value: value}, nil
}

// parseFor parses "for" "(" ident "=" expr ";" expr ";" stmt ")" stmt.
// The "for(...)" header is the one place statements require the ";"
// separators the rest of the grammar omits — left intentionally
// inconsistent by the source language, per spec.md §9.
func (p *Parser) parseFor() (ast.Node, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'for'"); err != nil {
		return nil, err
	}
	nameTok, err := p.consume(token.IDENTIFIER, "expected a variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN, "expected '=' after variable name"); err != nil {
		return nil, err
	}

	savedVars := p.vars
	v := ast.Variable{Name: nameTok.Name, ID: ids.Vars.Next()}
	p.vars = append(p.vars, v)

	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop start"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}
	increment, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' to close for-loop header"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	p.vars = savedVars

	return ast.For{
		VarName:   nameTok.Name,
		VarID:     v.ID,
		Start:     start,
		Condition: cond,
		Increment: increment,
		Body:      body,
	}, nil
}

// parseOperator peeks at a binary operator, consuming and returning it
// on a match. It leaves the cursor untouched when there is no match.
func (p *Parser) parseOperator() (ast.BinaryOp, bool) {
	switch p.peek().TokenType {
	case token.ADD:
		p.advance()
		return ast.Add, true
	case token.SUB:
		p.advance()
		return ast.Sub, true
	case token.MULT:
		p.advance()
		return ast.Mult, true
	case token.DIV:
		p.advance()
		return ast.Div, true
	case token.PERCENT:
		p.advance()
		return ast.Modulus, true
	case token.LESS:
		p.advance()
		if p.tryConsume(token.LESS) {
			return ast.ShiftL, true
		}
		if p.tryConsume(token.ASSIGN) {
			return ast.LessEqual, true
		}
		return ast.Less, true
	case token.LARGER:
		p.advance()
		if p.tryConsume(token.LARGER) {
			return ast.ShiftR, true
		}
		if p.tryConsume(token.ASSIGN) {
			return ast.GreaterEqual, true
		}
		return ast.Greater, true
	case token.AMP:
		p.advance()
		if p.tryConsume(token.AMP) {
			return ast.And, true
		}
		return ast.BAnd, true
	case token.PIPE:
		p.advance()
		if p.tryConsume(token.PIPE) {
			return ast.Or, true
		}
		return ast.BOr, true
	case token.CARET:
		p.advance()
		return ast.BXor, true
	}

	// Equals and NotEquals each need a second character to disambiguate
	// from a lone '=' or '!' (which are not binary operators at all);
	// peek two tokens ahead without committing if it doesn't match.
	if p.checkType(token.ASSIGN) && p.tokens[p.position+1].TokenType == token.ASSIGN {
		p.advance()
		p.advance()
		return ast.Equals, true
	}
	if p.checkType(token.BANG) && p.tokens[p.position+1].TokenType == token.ASSIGN {
		p.advance()
		p.advance()
		return ast.NotEquals, true
	}
	return 0, false
}

// parseExpr parses one full expression: a primary, optionally followed
// by a binary operator and a right-hand expression. When the
// right-hand side is itself a Binary, the tree is rotated whenever the
// current operator's precedence is strictly greater than the RHS's
// operator, yielding left-associative trees with correct precedence
// (spec.md §4.2).
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	op, ok := p.parseOperator()
	if !ok {
		return left, nil
	}

	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if rb, isBinary := right.(ast.Binary); isBinary && op.Precedence() > rb.Operator.Precedence() {
		rotated := ast.Binary{Left: left, Right: rb.Left, Operator: op}
		return ast.Binary{Left: rotated, Right: rb.Right, Operator: rb.Operator}, nil
	}
	return ast.Binary{Left: left, Right: right, Operator: op}, nil
}

// parsePrimary parses a literal, a variable or method-call identifier,
// getchar, a prefix operator applied to a full expression, or a
// parenthesized expression. Per the grammar, "-", "!", "~", "&" and
// "*" each take a full expr as their operand (not just a primary), so
// a leading unary operator extends as far right as possible.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.advance()
	switch tok.TokenType {
	case token.LITERAL:
		return ast.Literal{Value: tok.Literal}, nil

	case token.IDENTIFIER:
		if p.tryConsume(token.LPA) {
			return p.parseMethodCall(tok)
		}
		v := p.findVar(tok.Name)
		if v == nil {
			return nil, CreateParserError(tok.Line, tok.Column, fmt.Sprintf("Variable '%s' does not exist", tok.Name))
		}
		return ast.VariableExpr{ID: v.ID}, nil

	case token.GETCHAR:
		return ast.UserInput{}, nil

	case token.AMP:
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Reference{Operand: operand}, nil

	case token.MULT:
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Dereference{Operand: operand}, nil

	case token.SUB:
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operand: operand, Operator: ast.Negate}, nil

	case token.BANG:
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operand: operand, Operator: ast.Not}, nil

	case token.TILDE:
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operand: operand, Operator: ast.BNot}, nil

	case token.LPA:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "missing ')'"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, CreateParserError(tok.Line, tok.Column, fmt.Sprintf("Invalid token '%s'", tok))
	}
}

func (p *Parser) parseMethodCall(nameTok token.Token) (ast.Expr, error) {
	method := p.findMethod(nameTok.Name)
	if method == nil {
		return nil, CreateParserError(nameTok.Line, nameTok.Column, fmt.Sprintf("Method '%s' does not exist", nameTok.Name))
	}

	var args []ast.Expr
	for !p.tryConsume(token.RPA) {
		if len(args) > 0 {
			if _, err := p.consume(token.COMMA, "expected ',' between arguments"); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return ast.MethodCall{MethodID: method.ID, Args: args}, nil
}
