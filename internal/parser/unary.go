package parser

import (
	"github.com/feel-lang/feel/internal/ast"
	"github.com/feel-lang/feel/internal/diagnostics"
	"github.com/feel-lang/feel/internal/token"
)

// parseUnaryTestsEntry implements the distinct "unaryTests" grammar entry
// of spec.md §4.2, used for DMN decision-table cell matching:
//
//	unaryTests := "-" | "not" "(" positiveTests ")" | positiveTests
//	positiveTests := positiveTest ("," positiveTest)*
func (p *Parser) parseUnaryTestsEntry() ast.Expression {
	if p.curTokenIs(token.MINUS) && p.peekTokenIs(token.EOF) {
		n := &ast.AnyTest{Base: ast.NewBase(p.cur())}
		p.nextToken()
		return n
	}

	if p.curTokenIs(token.NOT) {
		tok := p.cur()
		p.nextToken() // consume 'not'
		if !p.curTokenIs(token.LPAREN) {
			p.errorf(diagnostics.ErrP005, p.cur(), "expected '(' after 'not', got %s", p.cur().Lexeme)
			return &ast.Not{Base: ast.NewBase(tok)}
		}
		p.nextToken() // consume '('
		tests := p.parsePositiveTestList()
		if !p.curTokenIs(token.RPAREN) {
			p.errorf(diagnostics.ErrP005, p.cur(), "expected ')' to close 'not(...)', got %s", p.cur().Lexeme)
		} else {
			p.nextToken()
		}
		return &ast.Not{Base: ast.NewBase(tok), Tests: tests}
	}

	tests := p.parsePositiveTestList()
	if len(tests) == 0 {
		return nil
	}
	if len(tests) == 1 {
		return tests[0]
	}
	return &ast.AtLeastOne{Base: ast.NewBase(tests[0].GetToken()), Tests: tests}
}

func (p *Parser) parsePositiveTestList() []ast.Expression {
	var tests []ast.Expression
	tests = append(tests, p.parsePositiveTest())
	for p.curTokenIs(token.COMMA) {
		p.nextToken()
		tests = append(tests, p.parsePositiveTest())
	}
	return tests
}

// parsePositiveTest implements spec.md §4.3.10's positiveTest production:
//
//	positiveTest := simpleValue | ("<"|"<="|">"|">=") endpoint | rangeLiteral | expression
//
// where simpleValue/endpoint/expression all share the general-expression
// grammar (level 4 and below), and a bare comparison operator implicitly
// compares against `?` (spec.md §3.2).
func (p *Parser) parsePositiveTest() ast.Expression {
	switch p.cur().Type {
	case token.LT, token.LTE, token.GT, token.GTE:
		tok := p.cur()
		op := comparisonOps[tok.Type]
		p.nextToken()
		endpoint := p.parseAdditive()
		return &ast.InputCompare{Base: ast.NewBase(tok), Op: op, Value: endpoint}
	case token.LBRACKET, token.LPAREN:
		if p.looksLikeRange() {
			rng := p.parseRangeLiteral()
			return &ast.InputInRange{Base: ast.NewBase(rng.Token), Range: rng}
		}
	}

	tok := p.cur()
	expr := p.parseExpr()
	return &ast.UnaryTestExpression{Base: ast.NewBase(tok), Expr: expr}
}
