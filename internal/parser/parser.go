// Package parser turns umo source text into an *ast.Program with dummy
// ids (ast.Resolve assigns real ones). Grounded on the teacher's
// cached-single-token recursive-descent structure
// (next_token/bump/parse_stmt/parse_expr/parse_expr_primary in
// original_source/src/parser.rs), generalized from that fragment's
// let/then/var/call/literal subset to the full grammar spec.md §6 lists:
// binary +/<, if/if-then-else, while, do-blocks, and assignment.
package parser

import (
	"fmt"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/lexer"
	"github.com/funvibe/umo/internal/token"
)

// ParseError reports a pinpointed syntax error.
type ParseError struct {
	Msg          string
	Line, Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parse tokenizes and parses source into a Program. The fixed preamble
// `use lang::"0.0.1";` is required and is not part of any statement.
func Parse(source string) (*ast.Program, error) {
	p := &Parser{lex: lexer.New(source)}
	if err := p.parsePreamble(); err != nil {
		return nil, err
	}
	var funcs []*ast.FuncDecl
	for p.peek().Kind == token.FN {
		fn, err := p.parseFuncDecl()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)
	}
	stmts, err := p.parseStmts(token.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Funcs: funcs, Stmts: stmts}, nil
}

type Parser struct {
	lex  *lexer.Lexer
	toks []token.Token
}

func (p *Parser) fill(n int) {
	for len(p.toks) <= n {
		p.toks = append(p.toks, p.lex.NextToken())
	}
}

func (p *Parser) peek() token.Token {
	p.fill(0)
	return p.toks[0]
}

func (p *Parser) peekAt(n int) token.Token {
	p.fill(n)
	return p.toks[n]
}

func (p *Parser) bump() token.Token {
	p.fill(0)
	t := p.toks[0]
	p.toks = p.toks[1:]
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return token.Token{}, &ParseError{
			Msg:    fmt.Sprintf("expected %s, got %s %q", k, t.Kind, t.Literal),
			Line:   t.Line,
			Column: t.Column,
		}
	}
	return p.bump(), nil
}

func (p *Parser) parsePreamble() error {
	if _, err := p.expect(token.USE); err != nil {
		return err
	}
	if _, err := p.expect(token.IDENT); err != nil {
		return err
	}
	if _, err := p.expect(token.COLONCOLON); err != nil {
		return err
	}
	if _, err := p.expect(token.STRING); err != nil {
		return err
	}
	_, err := p.expect(token.SEMICOLON)
	return err
}

func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	if _, err := p.expect(token.FN); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Ident
	for p.peek().Kind != token.RPAREN {
		pt, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.NewIdent(pt.Literal))
		if p.peek().Kind == token.COMMA {
			p.bump()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: ast.NewIdent(nameTok.Literal), Params: params, Body: body}, nil
}

// parseStmts parses statements until the next token is until or EOF.
func (p *Parser) parseStmts(until token.Kind) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for p.peek().Kind != until && p.peek().Kind != token.EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.LET:
		p.bump()
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Let{Lhs: ast.NewIdent(nameTok.Literal), Init: init}, nil

	case token.THEN:
		p.bump()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, UseValue: true}, nil

	default:
		expr, err := p.parseExprOrAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, UseValue: false}, nil
	}
}

// parseExprOrAssign handles the one place spec.md's grammar needs two
// tokens of lookahead: `NAME = EXPR` at statement head versus a plain
// expression that happens to start with an identifier.
func (p *Parser) parseExprOrAssign() (ast.Expr, error) {
	if p.peek().Kind == token.IDENT && p.peekAt(1).Kind == token.ASSIGN {
		nameTok := p.bump()
		p.bump() // '='
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Lhs: ast.NewIdent(nameTok.Literal), Rhs: rhs}, nil
	}
	return p.parseExpr()
}

// parseExpr parses the full EXPR grammar: comparison binds looser than
// addition, which binds looser than call application.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	lhs, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == token.LT {
		p.bump()
		rhs, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: ast.Lt, Lhs: lhs, Rhs: rhs}, nil
	}
	return lhs, nil
}

func (p *Parser) parseAddition() (ast.Expr, error) {
	lhs, err := p.parseCallChain()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.PLUS {
		p.bump()
		rhs, err := p.parseCallChain()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinOp{Op: ast.Add, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseCallChain() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.LPAREN {
		p.bump()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		e = &ast.Call{Callee: e, Args: args}
	}
	return e, nil
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	for p.peek().Kind != token.RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind == token.COMMA {
			p.bump()
		} else {
			break
		}
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case token.LPAREN:
		p.bump()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil

	case token.IDENT:
		p.bump()
		return &ast.Var{Ident: ast.NewIdent(t.Literal)}, nil

	case token.INT:
		p.bump()
		return &ast.IntegerLiteral{Value: parseInt32(t.Literal)}, nil

	case token.STRING:
		p.bump()
		return &ast.StringLiteral{Value: t.Literal}, nil

	case token.IF:
		return p.parseIf()

	case token.WHILE:
		return p.parseWhile()

	case token.DO:
		return p.parseDo()

	default:
		return nil, &ParseError{Msg: fmt.Sprintf("unexpected token %s %q", t.Kind, t.Literal), Line: t.Line, Column: t.Column}
	}
}

// parseIf parses both `if C { ... } else { ... }` and `if C then E else E`.
func (p *Parser) parseIf() (ast.Expr, error) {
	p.bump() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == token.THEN {
		p.bump()
		thenExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ELSE); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Branch{Cond: cond, Then: thenExpr, Else: elseExpr}, nil
	}
	thenBlock, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	elseBlock, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Branch{Cond: cond, Then: thenBlock, Else: elseBlock}, nil
}

func (p *Parser) parseWhile() (ast.Expr, error) {
	p.bump() // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseDo() (ast.Expr, error) {
	p.bump() // 'do'
	return p.parseBracedBlock()
}

// parseBracedBlock parses `{ STMT* }`, where the final statement may be a
// `then EXPR;` producing the block's value; if absent, the block's value
// is Unit (internal/lower's Block lowering handles the empty-tail case).
func (p *Parser) parseBracedBlock() (*ast.Block, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts}, nil
}

func parseInt32(s string) int32 {
	var v int32
	for _, r := range s {
		v = v*10 + int32(r-'0')
	}
	return v
}
