package parser

import (
	"github.com/feel-lang/feel/internal/ast"
	"github.com/feel-lang/feel/internal/token"
)

// parseAdditive, parseMultiplicative and parsePower implement spec.md §4.2
// level 4: additive over multiplicative over exponentiation over unary
// minus, all left-associative.
func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.curTokenIs(token.PLUS) || p.curTokenIs(token.MINUS) {
		op := p.cur()
		p.nextToken()
		right := p.parseMultiplicative()
		left = &ast.BinaryOp{Base: ast.NewBase(op), Op: op.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parsePower()
	for p.curTokenIs(token.ASTERISK) || p.curTokenIs(token.SLASH) {
		op := p.cur()
		p.nextToken()
		right := p.parsePower()
		left = &ast.BinaryOp{Base: ast.NewBase(op), Op: op.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parsePower() ast.Expression {
	left := p.parseUnary()
	for p.curTokenIs(token.POWER) {
		op := p.cur()
		p.nextToken()
		right := p.parseUnary()
		left = &ast.BinaryOp{Base: ast.NewBase(op), Op: "**", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.curTokenIs(token.MINUS) {
		tok := p.cur()
		p.nextToken()
		operand := p.parseUnary()
		return &ast.UnaryMinus{Base: ast.NewBase(tok), Operand: operand}
	}
	return p.parsePostfix()
}
