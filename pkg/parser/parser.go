// Package parser implements the Lox recursive-descent parser.
package parser

import (
	"fmt"

	"github.com/loxkit/golox/pkg/ast"
	"github.com/loxkit/golox/pkg/diagnostics"
	"github.com/loxkit/golox/pkg/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
	nextID ast.NodeID
	diags  []diagnostics.Diagnostic
}

// parseError aborts the current statement; the statement loop converts it to
// a diagnostic and synchronizes to the next statement boundary.
type parseError struct {
	token   lexer.Token
	message string
}

func (e *parseError) Error() string {
	return e.message
}

// Parse tokenizes source and parses it into a list of top-level statements,
// allocating NodeIDs from zero. On any scan or parse error it returns nil
// statements plus diagnostics.
func Parse(source string) ([]ast.Stmt, []diagnostics.Diagnostic) {
	stmts, _, diags := ParseFrom(source, 0)
	return stmts, diags
}

// ParseFrom is Parse with NodeID allocation starting at next; it also
// returns the first unallocated ID. A caller feeding several parses into one
// interpreter (a REPL session) must chain this cursor through every parse:
// the interpreter's resolution table is keyed by NodeID and merged
// additively, so two nodes from different parses must never share an ID.
func ParseFrom(source string, next ast.NodeID) ([]ast.Stmt, ast.NodeID, []diagnostics.Diagnostic) {
	tokens, diags := lexer.Scan(source)
	if len(diags) > 0 {
		return nil, next, diags
	}

	p := &parser{tokens: tokens, nextID: next}
	var stmts []ast.Stmt
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if len(p.diags) > 0 {
		// IDs handed to discarded nodes are still consumed; reusing them
		// could collide with entries from an earlier successful parse.
		return nil, p.nextID, p.diags
	}
	return stmts, p.nextID, nil
}

// ParseExpression tokenizes and parses a single expression with NodeIDs
// from zero. Used by the parse command and one-shot expression evaluation.
func ParseExpression(source string) (ast.Expr, []diagnostics.Diagnostic) {
	expr, _, diags := ParseExpressionFrom(source, 0)
	return expr, diags
}

// ParseExpressionFrom is ParseExpression with the same NodeID cursor
// contract as ParseFrom.
func ParseExpressionFrom(source string, next ast.NodeID) (ast.Expr, ast.NodeID, []diagnostics.Diagnostic) {
	tokens, diags := lexer.Scan(source)
	if len(diags) > 0 {
		return nil, next, diags
	}

	p := &parser{tokens: tokens, nextID: next}
	expr, err := p.expression()
	if err != nil {
		p.recordError(err)
		return nil, p.nextID, p.diags
	}
	return expr, p.nextID, nil
}

// --- token helpers ---

func (p *parser) current() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) previous() lexer.Token {
	return p.tokens[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.current().Type == lexer.TokEOF
}

func (p *parser) check(typ lexer.TokenType) bool {
	return p.current().Type == typ
}

func (p *parser) advance() lexer.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *parser) match(types ...lexer.TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) consume(typ lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return lexer.Token{}, &parseError{token: p.current(), message: message}
}

func (p *parser) newID() ast.NodeID {
	id := p.nextID
	p.nextID++
	return id
}

func (p *parser) recordError(err error) {
	pe, ok := err.(*parseError)
	if !ok {
		// Every error raised inside the parser is a *parseError; anything
		// else has no token to report a line from.
		panic(fmt.Sprintf("parser: unexpected error type %T", err))
	}
	where := fmt.Sprintf(" at '%s'", pe.token.Lexeme)
	if pe.token.Type == lexer.TokEOF {
		where = " at end"
	}
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse, pe.token.Line, where, pe.message))
}

// synchronize skips tokens until a likely statement boundary so one parse
// error does not cascade into spurious follow-on errors.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == lexer.TokSemicolon {
			return
		}
		switch p.current().Type {
		case lexer.TokClass, lexer.TokFun, lexer.TokVar, lexer.TokFor,
			lexer.TokIf, lexer.TokWhile, lexer.TokPrint, lexer.TokReturn:
			return
		}
		p.advance()
	}
}

// --- statements ---

func (p *parser) declaration() ast.Stmt {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.recordError(err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) parseDeclaration() (ast.Stmt, error) {
	switch {
	case p.match(lexer.TokClass):
		return p.classDeclaration()
	case p.match(lexer.TokFun):
		return p.function("function")
	case p.match(lexer.TokVar):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(lexer.TokIdentifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(lexer.TokLess) {
		superName, err := p.consume(lexer.TokIdentifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{ID: p.newID(), Name: superName}
	}

	if _, err := p.consume(lexer.TokLeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []*ast.Function
	for !p.check(lexer.TokRightBrace) && !p.atEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(*ast.Function))
	}

	if _, err := p.consume(lexer.TokRightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *parser) function(kind string) (ast.Stmt, error) {
	name, err := p.consume(lexer.TokIdentifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokLeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []lexer.Token
	if !p.check(lexer.TokRightParen) {
		for {
			if len(params) >= 255 {
				return nil, &parseError{token: p.current(), message: "Can't have more than 255 parameters."}
			}
			param, err := p.consume(lexer.TokIdentifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(lexer.TokComma) {
				break
			}
		}
	}
	if _, err := p.consume(lexer.TokRightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(lexer.TokLeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(lexer.TokIdentifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(lexer.TokEqual) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.TokSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Initializer: initializer}, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(lexer.TokFor):
		return p.forStatement()
	case p.match(lexer.TokIf):
		return p.ifStatement()
	case p.match(lexer.TokPrint):
		return p.printStatement()
	case p.match(lexer.TokReturn):
		return p.returnStatement()
	case p.match(lexer.TokWhile):
		return p.whileStatement()
	case p.match(lexer.TokLeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars the C-style for loop into while.
func (p *parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(lexer.TokLeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(lexer.TokSemicolon):
		initializer = nil
	case p.match(lexer.TokVar):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.check(lexer.TokSemicolon) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokSemicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(lexer.TokRightParen) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokRightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.BoolLiteral{Value: true}
	}
	body = &ast.While{Condition: condition, Body: body}
	if initializer != nil {
		body = &ast.Block{Statements: []ast.Stmt{initializer, body}}
	}
	return body, nil
}

func (p *parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(lexer.TokLeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokRightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(lexer.TokElse) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *parser) printStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.Print{Expression: value}, nil
}

func (p *parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var value ast.Expr
	var err error
	if !p.check(lexer.TokSemicolon) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokSemicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(lexer.TokLeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokRightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Condition: condition, Body: body}, nil
}

func (p *parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(lexer.TokRightBrace) && !p.atEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(lexer.TokRightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Expression{Expression: expr}, nil
}

// --- expressions, lowest to highest precedence ---

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(lexer.TokEqual) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{ID: p.newID(), Name: target.Name, Value: value}, nil
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		return nil, &parseError{token: equals, message: "Invalid assignment target."}
	}

	return expr, nil
}

func (p *parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokOr) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokAnd) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokBangEqual, lexer.TokEqualEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) comparison() (ast.Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokGreater, lexer.TokGreaterEqual, lexer.TokLess, lexer.TokLessEqual) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) term() (ast.Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokMinus, lexer.TokPlus) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) factor() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokSlash, lexer.TokStar) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) unary() (ast.Expr, error) {
	if p.match(lexer.TokBang, lexer.TokMinus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Right: right}, nil
	}
	return p.call()
}

func (p *parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(lexer.TokLeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(lexer.TokDot):
			name, err := p.consume(lexer.TokIdentifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(lexer.TokRightParen) {
		for {
			if len(args) >= 255 {
				return nil, &parseError{token: p.current(), message: "Can't have more than 255 arguments."}
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lexer.TokComma) {
				break
			}
		}
	}
	paren, err := p.consume(lexer.TokRightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *parser) primary() (ast.Expr, error) {
	switch {
	case p.match(lexer.TokFalse):
		return &ast.BoolLiteral{Value: false}, nil
	case p.match(lexer.TokTrue):
		return &ast.BoolLiteral{Value: true}, nil
	case p.match(lexer.TokNil):
		return &ast.NilLiteral{}, nil
	case p.match(lexer.TokNumber):
		return &ast.NumberLiteral{Value: p.previous().Literal.(float64)}, nil
	case p.match(lexer.TokString):
		return &ast.StringLiteral{Value: p.previous().Literal.(string)}, nil
	case p.match(lexer.TokSuper):
		keyword := p.previous()
		if _, err := p.consume(lexer.TokDot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(lexer.TokIdentifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &ast.Super{ID: p.newID(), Keyword: keyword, Method: method}, nil
	case p.match(lexer.TokThis):
		return &ast.This{ID: p.newID(), Keyword: p.previous()}, nil
	case p.match(lexer.TokIdentifier):
		return &ast.Variable{ID: p.newID(), Name: p.previous()}, nil
	case p.match(lexer.TokLeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokRightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expression: expr}, nil
	}
	return nil, &parseError{token: p.current(), message: "Expect expression."}
}
