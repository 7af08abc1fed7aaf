package parser

import (
	"github.com/feel-lang/feel/internal/ast"
	"github.com/feel-lang/feel/internal/diagnostics"
	"github.com/feel-lang/feel/internal/token"
)

var comparisonOps = map[token.Type]string{
	token.EQ:     "=",
	token.NOT_EQ: "!=",
	token.LT:     "<",
	token.LTE:    "<=",
	token.GT:     ">",
	token.GTE:    ">=",
}

// parseComparison implements spec.md §4.2 level 3: a single, non-chainable
// comparison over level-4 (additive) operands, plus `between`, `instance
// of`, and `in`. "Non-chainable" means we parse at most one operator here;
// `a < b < c` is not a comparison chain in this grammar.
func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()

	// A bare `a..b` (no enclosing brackets) is an implicitly closed range,
	// used e.g. as a `for` iterator source (spec.md §8 `for i in 0..4 ...`).
	if p.curTokenIs(token.DOTDOT) {
		tok := p.cur()
		p.nextToken()
		upper := p.parseAdditive()
		return &ast.RangeLiteral{Base: ast.NewBase(tok), Lower: left, Upper: upper, LowerClosed: true, UpperClosed: true}
	}

	if op, ok := comparisonOps[p.cur().Type]; ok {
		tok := p.cur()
		p.nextToken()
		right := p.parseAdditive()
		return &ast.BinaryOp{Base: ast.NewBase(tok), Op: op, Left: left, Right: right}
	}

	if p.curTokenIs(token.BETWEEN) {
		tok := p.cur()
		p.nextToken()
		lower := p.parseAdditive()
		if !p.curTokenIs(token.AND) {
			p.errorf(diagnostics.ErrP001, p.cur(), "expected 'and' in between expression, got %s", p.cur().Lexeme)
			return &ast.Between{Base: ast.NewBase(tok), Value: left, Lower: lower}
		}
		p.nextToken()
		upper := p.parseAdditive()
		return &ast.Between{Base: ast.NewBase(tok), Value: left, Lower: lower, Upper: upper}
	}

	if p.curTokenIs(token.INSTANCE) {
		tok := p.cur()
		p.nextToken()
		if !p.curTokenIs(token.OF) {
			p.errorf(diagnostics.ErrP001, p.cur(), "expected 'of' after 'instance', got %s", p.cur().Lexeme)
			return left
		}
		p.nextToken()
		typeName := p.cur().Lexeme
		p.nextToken()
		return &ast.InstanceOf{Base: ast.NewBase(tok), Value: left, TypeName: typeName}
	}

	if p.curTokenIs(token.IN) {
		tok := p.cur()
		p.nextToken()
		tests := p.parseInRHS()
		return &ast.InExpr{Base: ast.NewBase(tok), Value: left, Tests: tests}
	}

	return left
}

// parseInRHS parses the right-hand side of `in`: either a single positive
// test or a parenthesised, comma-separated disjunction of them (spec.md
// §4.3.7).
func (p *Parser) parseInRHS() []ast.Expression {
	if p.curTokenIs(token.LPAREN) {
		p.nextToken() // consume '('
		var tests []ast.Expression
		for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			tests = append(tests, p.parsePositiveTest())
			if p.curTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.curTokenIs(token.RPAREN) {
			p.errorf(diagnostics.ErrP004, p.cur(), "expected ')' to close 'in' test list, got %s", p.cur().Lexeme)
		} else {
			p.nextToken()
		}
		return tests
	}
	return []ast.Expression{p.parsePositiveTest()}
}
