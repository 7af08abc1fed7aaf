package parser

import (
	"strings"

	"github.com/feel-lang/feel/internal/ast"
	"github.com/feel-lang/feel/internal/diagnostics"
	"github.com/feel-lang/feel/internal/token"
)

// multiWordBuiltins is the fixed list of built-in names containing reserved
// words that the grammar accepts as function identifiers (spec.md §4.2
// "Disambiguation rules"). Each entry is the reserved-word-bearing name
// split into its constituent token lexemes.
var multiWordBuiltins = [][]string{
	{"date", "and", "time"},
	{"years", "and", "months", "duration"},
	{"get", "or", "else"},
}

// tryMatchMultiWord reports whether, starting at the current token, the
// upcoming tokens spell one of multiWordBuiltins, returning the matched
// word count if so.
func (p *Parser) tryMatchMultiWord() (string, int) {
	for _, words := range multiWordBuiltins {
		matched := true
		for i, w := range words {
			if p.peekN(i).Lexeme != w {
				matched = false
				break
			}
		}
		if matched {
			name := words[0]
			for _, w := range words[1:] {
				name += " " + w
			}
			return name, len(words)
		}
	}
	return "", 0
}

// parsePostfix parses spec.md §4.2 level 5: a value production followed by
// a chain of `.name` path and `[expr]` filter operations.
func (p *Parser) parsePostfix() ast.Expression {
	left := p.parseValue()
	for {
		switch {
		case p.curTokenIs(token.DOT):
			tok := p.cur()
			p.nextToken()
			if !p.curTokenIs(token.IDENT) {
				p.errorf(diagnostics.ErrP001, p.cur(), "expected name after '.', got %s", p.cur().Lexeme)
				return left
			}
			name := p.cur().Lexeme
			p.nextToken()
			if p.curTokenIs(token.LPAREN) {
				args := p.parseArgList()
				left = &ast.QualifiedFunctionInvocation{Base: ast.NewBase(tok), Target: left, Name: name, Args: args}
				continue
			}
			left = &ast.PathExpression{Base: ast.NewBase(tok), Source: left, Name: name}
		case p.curTokenIs(token.LBRACKET):
			tok := p.cur()
			p.nextToken()
			pred := p.parseExpr()
			if !p.curTokenIs(token.RBRACKET) {
				p.errorf(diagnostics.ErrP001, p.cur(), "expected ']' to close filter, got %s", p.cur().Lexeme)
			} else {
				p.nextToken()
			}
			left = &ast.FilterExpression{Base: ast.NewBase(tok), Source: left, Predicate: pred}
		default:
			return left
		}
	}
}

func (p *Parser) parseValue() ast.Expression {
	switch p.cur().Type {
	case token.NULL:
		n := &ast.NullLiteral{Base: ast.NewBase(p.cur())}
		p.nextToken()
		return n
	case token.TRUE, token.FALSE:
		n := &ast.BoolLiteral{Base: ast.NewBase(p.cur()), Value: p.curTokenIs(token.TRUE)}
		p.nextToken()
		return n
	case token.NUMBER:
		n := &ast.NumberLiteral{Base: ast.NewBase(p.cur()), Value: p.cur().Literal}
		p.nextToken()
		return n
	case token.STRING:
		n := &ast.StringLiteral{Base: ast.NewBase(p.cur()), Value: p.cur().Literal}
		p.nextToken()
		return n
	case token.QUESTION:
		n := &ast.InputValue{Base: ast.NewBase(p.cur())}
		p.nextToken()
		return n
	case token.LPAREN:
		return p.parseParenOrRange()
	case token.LBRACKET:
		return p.parseListOrRangeLiteral()
	case token.LBRACE:
		return p.parseContextLiteral()
	case token.FUNCTION:
		return p.parseFunctionDefinition()
	case token.NOT:
		// `not` outside unary-test position has no expression-level meaning
		// in this grammar except as a possible (reserved-word-prefixed)
		// multi-word identifier; treat as an identifier reference.
		return p.parseIdentOrInvocation()
	case token.IDENT, token.AND, token.OR:
		return p.parseIdentOrInvocation()
	default:
		p.errorf(diagnostics.ErrP003, p.cur(), "no value production for token %s", p.cur().Type)
		p.nextToken()
		return nil
	}
}

// parseIdentOrInvocation parses a (possibly multi-word, possibly backtick
// quoted) identifier, recognising a function invocation when it is
// immediately followed by '(' (spec.md §4.2 disambiguation rules).
func (p *Parser) parseIdentOrInvocation() ast.Expression {
	tok := p.cur()

	if name, n := p.tryMatchMultiWord(); n > 0 {
		for i := 0; i < n; i++ {
			p.nextToken()
		}
		if p.curTokenIs(token.LPAREN) {
			args := p.parseArgList()
			return &ast.FunctionInvocation{Base: ast.NewBase(tok), Name: name, Args: args}
		}
		// A multi-word reserved-bearing name not followed by '(' is not a
		// valid free-standing reference (spec.md §4.2); report and recover
		// by treating it as a bare reference to the name anyway.
		p.errorf(diagnostics.ErrP001, tok, "%q is only valid as a function name followed by '('", name)
		return &ast.Ref{Base: ast.NewBase(tok), Name: name}
	}

	name := tok.Lexeme
	p.nextToken()
	if p.curTokenIs(token.LPAREN) {
		args := p.parseArgList()
		return &ast.FunctionInvocation{Base: ast.NewBase(tok), Name: name, Args: args}
	}
	return &ast.Ref{Base: ast.NewBase(tok), Name: name}
}

// parseArgList parses `(arg, arg, ...)` where each arg is either a bare
// expression (positional) or `name: expression` (named), per spec.md
// §4.3.9.
func (p *Parser) parseArgList() []ast.Arg {
	p.nextToken() // consume '('
	var args []ast.Arg
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			name := p.cur().Lexeme
			p.nextToken() // consume name
			p.nextToken() // consume ':'
			val := p.parseExpr()
			args = append(args, ast.Arg{Name: name, Value: val})
		} else {
			val := p.parseExpr()
			args = append(args, ast.Arg{Value: val})
		}
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP001, p.cur(), "expected ')' to close argument list, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	return args
}

func (p *Parser) parseFunctionDefinition() ast.Expression {
	tok := p.cur()
	p.nextToken() // consume 'function'
	if !p.curTokenIs(token.LPAREN) {
		p.errorf(diagnostics.ErrP007, p.cur(), "expected '(' after 'function', got %s", p.cur().Lexeme)
		return &ast.FunctionDefinition{Base: ast.NewBase(tok)}
	}
	p.nextToken() // consume '('
	var params []string
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		params = append(params, p.parseParamName())
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP007, p.cur(), "expected ')' to close parameter list, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	body := p.parseExpr()
	return &ast.FunctionDefinition{Base: ast.NewBase(tok), Params: params, Body: body}
}

// parseParamName reads a parameter name, fusing interior single-spaced
// identifier words as spec.md §4.1 permits for parameter names. The token
// stream doesn't carry inter-token spacing, so fusion is decided by peeking
// at the lexer's raw input directly: PeekIsSpaceThenIdentStart/
// ReadNextWordAfterSpace operate on raw lexer position rather than the
// parser's buffered tokens, which is safe here because nothing has looked
// ahead past the name yet.
func (p *Parser) parseParamName() string {
	name := p.cur().Lexeme
	p.nextToken()
	for p.l.PeekIsSpaceThenIdentStart() {
		name += " " + p.l.ReadNextWordAfterSpace().Lexeme
	}
	return name
}

func (p *Parser) parseParenOrRange() ast.Expression {
	// '(' here is either a parenthesised expression or the open-lower-bound
	// form of a range literal used inline (rare in expression position, but
	// the grammar in §4.2 permits ranges as level-5 values via the unary
	// test grammar reused for `in`). Disambiguate by scanning for '..'.
	if p.looksLikeRange() {
		return p.parseRangeLiteral()
	}
	p.nextToken() // consume '('
	inner := p.parseExpr()
	if !p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP001, p.cur(), "expected ')' to close parenthesised expression, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	return inner
}

// looksLikeRange performs a bounded lookahead scan for a top-level '..' at
// the current nesting depth, used to decide whether a leading '(' or '['
// opens a range literal rather than a parenthesised expression or list.
func (p *Parser) looksLikeRange() bool {
	depth := 0
	for n := 0; n < 256; n++ {
		tok := p.peekN(n)
		switch tok.Type {
		case token.LPAREN, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACKET:
			if depth == 0 {
				return false
			}
			depth--
		case token.DOTDOT:
			if depth == 0 {
				return true
			}
		case token.EOF, token.COMMA:
			if depth == 0 {
				return false
			}
		}
	}
	return false
}

func (p *Parser) parseListOrRangeLiteral() ast.Expression {
	if p.looksLikeRange() {
		return p.parseRangeLiteral()
	}
	tok := p.cur()
	p.nextToken() // consume '['
	var elems []ast.Expression
	for !p.curTokenIs(token.RBRACKET) && !p.curTokenIs(token.EOF) {
		elems = append(elems, p.parseExpr())
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(token.RBRACKET) {
		p.errorf(diagnostics.ErrP001, p.cur(), "expected ']' to close list literal, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	return &ast.ListLiteral{Base: ast.NewBase(tok), Elements: elems}
}

// parseRangeLiteral parses the ConstRange literal form
// ('['|'('|']') endpoint '..' endpoint (')'|'['|']') shared by expression
// position and the unary-test grammar (spec.md §4.2).
func (p *Parser) parseRangeLiteral() *ast.RangeLiteral {
	tok := p.cur()
	lowerClosed := p.curTokenIs(token.LBRACKET)
	p.nextToken() // consume opening bracket/paren
	lower := p.parseAdditive()
	if !p.curTokenIs(token.DOTDOT) {
		p.errorf(diagnostics.ErrP004, p.cur(), "expected '..' in range literal, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	upper := p.parseAdditive()
	upperClosed := p.curTokenIs(token.RBRACKET)
	if !p.curTokenIs(token.RBRACKET) && !p.curTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP004, p.cur(), "expected ']' or ')' to close range literal, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	return &ast.RangeLiteral{Base: ast.NewBase(tok), Lower: lower, Upper: upper, LowerClosed: lowerClosed, UpperClosed: upperClosed}
}

// parseContextLiteral parses `{key: value, ...}`. A key is either a plain
// identifier, a string literal, or any run of characters outside the
// reserved symbol set (spec.md §4.1 "Keys in contexts").
func (p *Parser) parseContextLiteral() ast.Expression {
	tok := p.cur()
	p.nextToken() // consume '{'
	var entries []ast.ContextEntry
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		key := p.parseContextKey()
		if !p.curTokenIs(token.COLON) {
			p.errorf(diagnostics.ErrP001, p.cur(), "expected ':' after context key, got %s", p.cur().Lexeme)
			break
		}
		p.nextToken() // consume ':'
		val := p.parseExpr()
		entries = append(entries, ast.ContextEntry{Key: key, Value: val})
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorf(diagnostics.ErrP001, p.cur(), "expected '}' to close context literal, got %s", p.cur().Lexeme)
	} else {
		p.nextToken()
	}
	return &ast.ContextLiteral{Base: ast.NewBase(tok), Entries: entries}
}

// parseContextKey reads a context key: either a string literal, or any run
// of characters outside the reserved symbol set, with interior whitespace
// preserved verbatim (spec.md §4.1 "Keys in contexts"). The latter case
// can't be reconstructed from the parser's already-tokenized word stream —
// a key like `a+b` or `a  b` doesn't lex as a clean run of IDENT tokens —
// so it drops down to the lexer's raw scanner, ReadContextKeyRaw, starting
// from the already-lexed current token and continuing from there. This is
// only safe because nothing has peeked past the current token yet; the
// lexer's raw cursor still sits exactly where the current token's text
// ended.
func (p *Parser) parseContextKey() string {
	if p.curTokenIs(token.STRING) {
		key := p.cur().Literal
		p.nextToken()
		return key
	}
	key := p.cur().Lexeme
	p.nextToken()
	rest, _, _ := p.l.ReadContextKeyRaw()
	return strings.TrimRight(key+rest, " \t")
}
