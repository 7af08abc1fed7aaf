// Package diagnostics holds the typed error codes used by the lexer and
// parser. A parse failure is always fatal (spec.md §7 tier 3); it is
// reported as a list of *Diagnostic rather than a bare error so the engine
// façade can show every problem found, not just the first.
package diagnostics

import "github.com/feel-lang/feel/internal/token"

// Code is a stable identifier for a class of syntax error, independent of
// the (possibly localized, possibly reworded) message text.
type Code string

const (
	ErrL001 Code = "ErrL001" // unterminated string literal
	ErrL002 Code = "ErrL002" // unterminated block comment
	ErrL003 Code = "ErrL003" // illegal character
	ErrL004 Code = "ErrL004" // unterminated backtick identifier

	ErrP001 Code = "ErrP001" // unexpected token
	ErrP002 Code = "ErrP002" // expected token, got something else
	ErrP003 Code = "ErrP003" // no prefix parse function for token
	ErrP004 Code = "ErrP004" // malformed range literal
	ErrP005 Code = "ErrP005" // malformed unary test
	ErrP006 Code = "ErrP006" // expression too complex (recursion depth)
	ErrP007 Code = "ErrP007" // malformed function definition
	ErrP008 Code = "ErrP008" // malformed for/some/every iterators
)

// Diagnostic is one reported syntax problem, anchored to a source position.
type Diagnostic struct {
	Code    Code
	Tok     token.Token
	Message string
}

func New(code Code, tok token.Token, message string) *Diagnostic {
	return &Diagnostic{Code: code, Tok: tok, Message: message}
}

func (d *Diagnostic) Error() string {
	return string(d.Code) + " at " + d.Tok.Lexeme + " (line " + itoa(d.Tok.Line) + "): " + d.Message
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
