// Package parser implements the FEEL grammar of spec.md §4 as a layered,
// combinator-style recursive-descent parser: each precedence level is its
// own production (§9 "avoid left-recursion by layering level-N :=
// level-(N+1) (op level-(N+1))*"), and two distinct entry points exist for
// expression position versus unary-test position (§4.2).
package parser

import (
	"fmt"

	"github.com/feel-lang/feel/internal/ast"
	"github.com/feel-lang/feel/internal/diagnostics"
	"github.com/feel-lang/feel/internal/lexer"
	"github.com/feel-lang/feel/internal/token"
)

// MaxRecursionDepth guards against unbounded recursion on adversarial or
// accidentally-malformed input (deeply nested parens, etc).
const MaxRecursionDepth = 500

// Parser is single-use: construct one per ParseExpression/ParseUnaryTests
// call. It holds no state shared across calls (spec.md §5).
//
// tokens/pos is a growable lookahead buffer rather than a fixed cur/peek
// pair: disambiguating the fixed list of reserved-word-bearing built-in
// names (spec.md §4.2, e.g. "date and time", "get or else") needs more than
// one token of lookahead.
type Parser struct {
	l      *lexer.Lexer
	tokens []token.Token
	pos    int

	errors   []*diagnostics.Diagnostic
	depth    int
	maxDepth int
}

func newParser(input string) *Parser {
	return &Parser{l: lexer.New(input), maxDepth: MaxRecursionDepth}
}

// fill ensures tokens[pos+n] exists.
func (p *Parser) fill(n int) {
	for len(p.tokens) <= p.pos+n {
		p.tokens = append(p.tokens, p.l.NextToken())
	}
}

func (p *Parser) cur() token.Token {
	p.fill(0)
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	p.fill(n)
	return p.tokens[p.pos+n]
}

// advance moves the cursor one token forward; cur() and peekN() read the
// buffered tokens relative to it, lexing more on demand.
func (p *Parser) advance() { p.pos++ }

func (p *Parser) curTokenIs(tt token.Type) bool  { return p.cur().Type == tt }
func (p *Parser) peekTokenIs(tt token.Type) bool { return p.peekN(1).Type == tt }

// nextToken advances by one token; kept as the name used throughout the
// sibling files in this package.
func (p *Parser) nextToken() { p.advance() }

func (p *Parser) expectPeek(tt token.Type) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP002, p.peekN(1), "expected %s, got %s", tt, p.peekN(1).Type)
	return false
}

func (p *Parser) errorf(code diagnostics.Code, tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.New(code, tok, fmt.Sprintf(format, args...)))
}

// ParseExpression parses FEEL source text as a general expression (spec.md
// §4.2 entry "expression"). It returns the AST and any fatal parse errors;
// a non-empty error slice means the AST may be nil or partial.
func ParseExpression(input string) (ast.Expression, []*diagnostics.Diagnostic) {
	return ParseExpressionWithMaxDepth(input, MaxRecursionDepth)
}

// ParseExpressionWithMaxDepth is ParseExpression with the recursion-depth
// guard overridden, for hosts that configure it via pkg/feel.Options.
func ParseExpressionWithMaxDepth(input string, maxDepth int) (ast.Expression, []*diagnostics.Diagnostic) {
	p := newParser(input)
	p.maxDepth = maxDepth
	expr := p.parseExpr()
	if !p.curTokenIs(token.EOF) {
		p.errorf(diagnostics.ErrP001, p.cur(), "unexpected trailing token %s", p.cur().Lexeme)
	}
	p.errors = append(p.errors, p.l.Errors...)
	return expr, p.errors
}

// ParseUnaryTests parses FEEL source text as the distinct unary-test grammar
// entry (spec.md §4.2 "unaryTests"), used for decision-table cell matching.
func ParseUnaryTests(input string) (ast.Expression, []*diagnostics.Diagnostic) {
	return ParseUnaryTestsWithMaxDepth(input, MaxRecursionDepth)
}

// ParseUnaryTestsWithMaxDepth is ParseUnaryTests with the recursion-depth
// guard overridden, for hosts that configure it via pkg/feel.Options.
func ParseUnaryTestsWithMaxDepth(input string, maxDepth int) (ast.Expression, []*diagnostics.Diagnostic) {
	p := newParser(input)
	p.maxDepth = maxDepth
	expr := p.parseUnaryTestsEntry()
	if !p.curTokenIs(token.EOF) {
		p.errorf(diagnostics.ErrP001, p.cur(), "unexpected trailing token %s", p.cur().Lexeme)
	}
	p.errors = append(p.errors, p.l.Errors...)
	return expr, p.errors
}
