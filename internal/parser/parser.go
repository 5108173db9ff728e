package parser

import (
	"fmt"
	"small/internal/ast"
	"small/internal/lexer"
	"small/internal/token"
	"small/internal/util"
	"strconv"
	"unicode/utf8"
)

var precedences = map[token.TokenType]int{
	token.LOGICAL_OR:  ast.LOGICAL_OR,
	token.LOGICAL_AND: ast.LOGICAL_AND,
	token.EQ:          ast.EQUALS,
	token.LT:          ast.COMPARISON,
	token.LT_EQ:       ast.COMPARISON,
	token.GT:          ast.COMPARISON,
	token.GT_EQ:       ast.COMPARISON,
	token.PLUS:        ast.SUM,
	token.MINUS:       ast.SUM,
	token.ASTERISK:    ast.PRODUCT,
	token.SLASH:       ast.PRODUCT,
	token.PERCENT:     ast.PRODUCT,
	token.LPAREN:      ast.CALL,
}

var binaryOperators = map[token.TokenType]ast.BinaryOperator{
	token.PLUS:        ast.Add,
	token.MINUS:       ast.Sub,
	token.ASTERISK:    ast.Mul,
	token.SLASH:       ast.Div,
	token.PERCENT:     ast.Mod,
	token.LOGICAL_AND: ast.And,
	token.LOGICAL_OR:  ast.Or,
	token.LT:          ast.Lt,
	token.LT_EQ:       ast.Lte,
	token.GT:          ast.Gt,
	token.GT_EQ:       ast.Gte,
	token.EQ:          ast.Eq,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	src    string // source code here
	errors []string
	// position of the first error, -1 while there is none
	firstErrorPos int

	// set when an error was caused by running out of input, the REPL then asks for more lines
	incomplete bool

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:             l,
		src:           source,
		errors:        []string{},
		firstErrorPos: -1,
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.BACKSLASH, p.parseLambdaExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tokenType := range binaryOperators {
		p.registerInfix(tokenType, p.parseBinaryExpression)
	}
	p.registerInfix(token.LPAREN, p.parseApplyExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse is a shorthand for lexing and parsing a whole program.
func Parse(source string) (ast.Statement, []string) {
	p := New(lexer.New(source), source)
	program := p.ParseProgram()
	return program, p.Errors()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) addError(message string, args ...interface{}) {
	p.addErrorAt(p.curToken, message, args...)
}

func (p *Parser) addErrorAt(tok token.Token, message string, args ...interface{}) {
	if tok.Type == token.EOF {
		p.incomplete = true
	}
	if p.firstErrorPos < 0 {
		p.firstErrorPos = tok.Position
	}
	line, col := util.GetLineAndColumn(p.src, tok.Position)
	m := fmt.Sprintf(message, args...)
	msg := fmt.Sprintf("[%3d:%2d] %s", line, col, m)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addErrorAt(p.peekToken, "expected next token to be %s, got %s instead", t, describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.illegalTokenError(tok)
		return
	}
	p.addError("unexpected %s, expected an expression", describe(tok))
}

func (p *Parser) illegalTokenError(tok token.Token) {
	// single runes are stray characters, anything longer is a message from the lexer
	if utf8.RuneCountInString(tok.Literal) == 1 {
		p.addErrorAt(tok, "unexpected character %q", tok.Literal)
		return
	}
	p.addErrorAt(tok, "%s", tok.Literal)
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.INT, token.FLOAT:
		return fmt.Sprintf("%s %s", tok.Type, tok.Literal)
	default:
		return string(tok.Type)
	}
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(token.ILLEGAL) {
		p.illegalTokenError(p.peekToken)
	} else {
		p.peekError(t)
	}
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

// ErrorContext shows the source lines around the first error with a caret under it.
func (p *Parser) ErrorContext() string {
	if p.firstErrorPos < 0 {
		return ""
	}
	line, col := util.GetLineAndColumn(p.src, p.firstErrorPos)
	return util.GetContextLines(p.src, line, col)
}

// Incomplete reports whether parsing failed only because the input ended early.
func (p *Parser) Incomplete() bool {
	return p.incomplete && len(p.errors) == 1
}

// ParseProgram parses statements up to EOF and folds them left into Sequence nodes.
func (p *Parser) ParseProgram() ast.Statement {
	var statements []ast.Statement

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return ast.Seq(statements...)
}

// synchronize skips to the end of the broken statement so one mistake reports one error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return &ast.NoOp{}
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignment()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() ast.Statement {
	var statements []ast.Statement

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError("expected }, got end of input instead")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		statements = append(statements, stmt)
		p.nextToken()
	}

	return ast.Seq(statements...)
}

func (p *Parser) parseAssignment() ast.Statement {
	name := p.curToken.Literal

	p.nextToken() // =
	p.nextToken()

	value := p.parseExpression(ast.LOWEST)
	if value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return &ast.Assignment{Name: name, Value: value}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	p.nextToken()

	value := p.parseExpression(ast.LOWEST)
	if value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return &ast.ReturnStatement{ReturnValue: value}
}

// a bare expression statement only sets the final value, the same as return
func (p *Parser) parseExpressionStatement() ast.Statement {
	value := p.parseExpression(ast.LOWEST)
	if value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return &ast.ReturnStatement{ReturnValue: value}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return ast.LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return ast.LOWEST
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return p.integerLiteral(p.curToken.Literal)
}

func (p *Parser) integerLiteral(literal string) ast.Expression {
	value, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		p.addError("integer literal %s does not fit in 32 bits", literal)
		return nil
	}

	return &ast.IntegerLiteral{Value: int32(value)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return p.floatLiteral(p.curToken.Literal)
}

func (p *Parser) floatLiteral(literal string) ast.Expression {
	value, err := strconv.ParseFloat(literal, 32)
	if err != nil {
		p.addError("could not parse %q as a 32 bit float", literal)
		return nil
	}

	return &ast.FloatLiteral{Value: float32(value)}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	r, _ := utf8.DecodeRuneInString(p.curToken.Literal)
	return &ast.CharLiteral{Value: r}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	operator := ast.Neg
	if p.curTokenIs(token.BANG) {
		operator = ast.Not
	}

	// a minus directly in front of a number is part of the literal, so -2147483648 is valid
	if operator == ast.Neg && p.peekToken.Position == p.curToken.Position+1 {
		switch p.peekToken.Type {
		case token.INT:
			p.nextToken()
			return p.integerLiteral("-" + p.curToken.Literal)
		case token.FLOAT:
			p.nextToken()
			return p.floatLiteral("-" + p.curToken.Literal)
		}
	}

	p.nextToken()

	operand := p.parseExpression(ast.PREFIX)
	if operand == nil {
		return nil
	}

	return &ast.UnaryExpression{Operator: operator, Operand: operand}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	operator := binaryOperators[p.curToken.Type]

	precedence := p.curPrecedence()
	p.nextToken()

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}

	return &ast.BinaryExpression{Operator: operator, Left: left, Right: right}
}

// parseGroupedExpression handles (), (e) and tuples; a trailing comma makes (e,) a 1-tuple.
func (p *Parser) parseGroupedExpression() ast.Expression {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Elements: []ast.Expression{}}
	}

	p.nextToken()

	exp := p.parseExpression(ast.LOWEST)
	if exp == nil {
		return nil
	}

	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return exp
	}

	elements := []ast.Expression{exp}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		el := p.parseExpression(ast.LOWEST)
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return &ast.TupleLiteral{Elements: elements}
}

func (p *Parser) parseListLiteral() ast.Expression {
	elements := p.parseExpressionList(token.RBRACKET)
	if elements == nil {
		return nil
	}
	return &ast.ListLiteral{Elements: elements}
}

func (p *Parser) parseIfExpression() ast.Expression {
	p.nextToken()
	condition := p.parseExpression(ast.LOWEST)
	if condition == nil || !p.expectPeek(token.THEN) {
		return nil
	}

	p.nextToken()
	consequence := p.parseExpression(ast.LOWEST)
	if consequence == nil || !p.expectPeek(token.ELSE) {
		return nil
	}

	p.nextToken()
	alternative := p.parseExpression(ast.LOWEST)
	if alternative == nil {
		return nil
	}

	return &ast.IfExpression{
		Condition:   condition,
		Consequence: consequence,
		Alternative: alternative,
	}
}

// parseLambdaExpression reads \ a b -> body where body is a block or an expression to return.
func (p *Parser) parseLambdaExpression() ast.Expression {
	parameters := []string{}
	for p.peekTokenIs(token.IDENT) {
		p.nextToken()
		parameters = append(parameters, p.curToken.Literal)
	}

	if !p.expectPeek(token.ARROW) {
		return nil
	}

	var body ast.Statement
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		body = p.parseBlockStatement()
	} else {
		p.nextToken()
		if value := p.parseExpression(ast.LOWEST); value != nil {
			body = &ast.ReturnStatement{ReturnValue: value}
		}
	}
	if body == nil {
		return nil
	}

	return &ast.LambdaExpression{Parameters: parameters, Body: body}
}

func (p *Parser) parseApplyExpression(function ast.Expression) ast.Expression {
	arguments := p.parseExpressionList(token.RPAREN)
	if arguments == nil {
		return nil
	}
	return &ast.ApplyExpression{Function: function, Arguments: arguments}
}

// parseExpressionList returns nil on error and an empty slice for an empty list.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	first := p.parseExpression(ast.LOWEST)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		el := p.parseExpression(ast.LOWEST)
		if el == nil {
			return nil
		}
		list = append(list, el)
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
