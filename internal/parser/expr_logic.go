package parser

import (
	"github.com/feel-lang/feel/internal/ast"
	"github.com/feel-lang/feel/internal/diagnostics"
	"github.com/feel-lang/feel/internal/token"
)

// parseExpr is the top of the expression grammar: spec.md §4.2 level 1
// (if, for, some/every, or-disjunction). Every recursive descent into a
// sub-expression in this file re-enters here, so `if`/`for`/`some`/`every`
// are legal anywhere an expression is legal, not just at the top.
func (p *Parser) parseExpr() ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.errorf(diagnostics.ErrP006, p.cur(), "expression too complex: recursion depth limit exceeded")
		return nil
	}

	switch p.cur().Type {
	case token.IF:
		return p.parseIfExpr()
	case token.FOR:
		return p.parseForExpr()
	case token.SOME:
		return p.parseQuantExpr(ast.QuantSome)
	case token.EVERY:
		return p.parseQuantExpr(ast.QuantEvery)
	default:
		return p.parseOrChain()
	}
}

func (p *Parser) parseOrChain() ast.Expression {
	left := p.parseAndChain()
	for p.curTokenIs(token.OR) {
		opTok := p.cur()
		p.nextToken()
		right := p.parseAndChain()
		left = &ast.BinaryOp{Base: ast.NewBase(opTok), Op: "or", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAndChain() ast.Expression {
	left := p.parseComparison()
	for p.curTokenIs(token.AND) {
		opTok := p.cur()
		p.nextToken()
		right := p.parseComparison()
		left = &ast.BinaryOp{Base: ast.NewBase(opTok), Op: "and", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseIfExpr() ast.Expression {
	tok := p.cur()
	p.nextToken() // consume 'if'
	cond := p.parseExpr()
	if !p.curTokenIs(token.THEN) {
		p.errorf(diagnostics.ErrP001, p.cur(), "expected 'then', got %s", p.cur().Lexeme)
		return &ast.IfExpr{Base: ast.NewBase(tok), Cond: cond}
	}
	p.nextToken() // consume 'then'
	thenExpr := p.parseExpr()
	if !p.curTokenIs(token.ELSE) {
		p.errorf(diagnostics.ErrP001, p.cur(), "expected 'else', got %s", p.cur().Lexeme)
		return &ast.IfExpr{Base: ast.NewBase(tok), Cond: cond, Then: thenExpr}
	}
	p.nextToken() // consume 'else'
	elseExpr := p.parseExpr()
	return &ast.IfExpr{Base: ast.NewBase(tok), Cond: cond, Then: thenExpr, Else: elseExpr}
}

// parseIterators parses the comma-separated `name in source` list shared by
// for/some/every (spec.md §4.3.3, §4.3.4).
func (p *Parser) parseIterators() []ast.Iterator {
	var its []ast.Iterator
	for {
		if !p.curTokenIs(token.IDENT) {
			p.errorf(diagnostics.ErrP008, p.cur(), "expected iterator name, got %s", p.cur().Lexeme)
			return its
		}
		name := p.cur().Lexeme
		if !p.expectPeek(token.IN) {
			return its
		}
		p.nextToken() // consume 'in'
		src := p.parseExpr()
		its = append(its, ast.Iterator{Name: name, Source: src})
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	return its
}

func (p *Parser) parseForExpr() ast.Expression {
	tok := p.cur()
	p.nextToken() // consume 'for'
	its := p.parseIterators()
	if !p.curTokenIs(token.RETURN) {
		p.errorf(diagnostics.ErrP008, p.cur(), "expected 'return', got %s", p.cur().Lexeme)
		return &ast.ForExpr{Base: ast.NewBase(tok), Iterators: its}
	}
	p.nextToken() // consume 'return'
	body := p.parseExpr()
	return &ast.ForExpr{Base: ast.NewBase(tok), Iterators: its, Body: body}
}

func (p *Parser) parseQuantExpr(kind ast.QuantKind) ast.Expression {
	tok := p.cur()
	p.nextToken() // consume 'some'/'every'
	its := p.parseIterators()
	if !p.curTokenIs(token.SATISFIES) {
		p.errorf(diagnostics.ErrP008, p.cur(), "expected 'satisfies', got %s", p.cur().Lexeme)
		return &ast.QuantExpr{Base: ast.NewBase(tok), Kind: kind, Iterators: its}
	}
	p.nextToken() // consume 'satisfies'
	cond := p.parseExpr()
	return &ast.QuantExpr{Base: ast.NewBase(tok), Kind: kind, Iterators: its, Satisfies: cond}
}
