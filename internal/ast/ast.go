// Package ast defines the FEEL abstract syntax tree, per spec.md §3.3. A
// single flat set of node structs stands in for a tagged-union type
// (spec.md §9 "a single tagged variant type is preferable to class
// hierarchies"); the interpreter and the pretty-printer both consume it via
// exhaustive type switches rather than a visitor interface.
package ast

import "github.com/feel-lang/feel/internal/token"

// Node is any AST node. GetToken anchors diagnostics and printer output to a
// source position.
type Node interface {
	GetToken() token.Token
}

// Expression is every node that can appear in expression position. FEEL has
// no statements; an expression is the whole language.
type Expression interface {
	Node
	expressionNode()
}

type Base struct {
	Token token.Token
}

func (b Base) GetToken() token.Token { return b.Token }

// ---- literals ----

type NullLiteral struct{ Base }
type BoolLiteral struct {
	Base
	Value bool
}
type NumberLiteral struct {
	Base
	Value string // decimal text, parsed lazily into Number by the evaluator
}
type StringLiteral struct {
	Base
	Value string // already unescaped by the lexer
}

// InputValue is the bare `?` reference (spec.md §3.2, §4.2).
type InputValue struct{ Base }

// Ref is a single-name variable or context-entry reference, e.g. `x` or
// `` `my var` ``; a dotted lookup chain such as `a.b` is instead modeled as
// nested PathExpression.
type Ref struct {
	Base
	Name string
}

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	Base
	Elements []Expression
}

// ContextEntry is one `key: value` pair of a ContextLiteral.
type ContextEntry struct {
	Key   string
	Value Expression
}

// ContextLiteral is `{k1: v1, k2: v2, ...}`.
type ContextLiteral struct {
	Base
	Entries []ContextEntry
}

// ---- operators ----

type UnaryMinus struct {
	Base
	Operand Expression
}

// BinaryOp covers + - * / ** and the comparison/logical operators = != < <=
// > >= and and or. Op is the token lexeme.
type BinaryOp struct {
	Base
	Op    string
	Left  Expression
	Right Expression
}

// Between is `x between a and b`, kept distinct from its desugaring so the
// pretty-printer can round-trip it (spec.md §4.2 desugars at evaluation
// time, not at parse time).
type Between struct {
	Base
	Value Expression
	Lower Expression
	Upper Expression
}

// InstanceOf is `x instance of T`.
type InstanceOf struct {
	Base
	Value    Expression
	TypeName string
}

// InExpr is `x in <tests>`, where Tests is the same positive-test list used
// by unary-test matching (spec.md §4.3.7).
type InExpr struct {
	Base
	Value Expression
	Tests []Expression // each a PositiveTest-shaped Expression (see below)
}

// ---- control flow ----

type IfExpr struct {
	Base
	Cond Expression
	Then Expression
	Else Expression
}

// Iterator is one `name in source` clause of a for/some/every expression.
type Iterator struct {
	Name   string
	Source Expression
}

type ForExpr struct {
	Base
	Iterators []Iterator
	Body      Expression
}

// QuantKind distinguishes `some` from `every`.
type QuantKind int

const (
	QuantSome QuantKind = iota
	QuantEvery
)

type QuantExpr struct {
	Base
	Kind      QuantKind
	Iterators []Iterator
	Satisfies Expression
}

// ---- functions ----

type FunctionDefinition struct {
	Base
	Params []string
	Body   Expression
}

// Arg is one invocation argument; Name is empty for positional arguments.
type Arg struct {
	Name  string
	Value Expression
}

type FunctionInvocation struct {
	Base
	Name string
	Args []Arg
}

// QualifiedFunctionInvocation is `target.name(args...)` where target
// resolves to a Context whose entry `name` is a Function (spec.md §4.3.9).
type QualifiedFunctionInvocation struct {
	Base
	Target Expression
	Name   string
	Args   []Arg
}

// ---- path / filter ----

// PathExpression is `base.name`.
type PathExpression struct {
	Base
	Source Expression
	Name   string
}

// FilterExpression is `base[predicate]`.
type FilterExpression struct {
	Base
	Source    Expression
	Predicate Expression
}

// ---- ranges ----

// RangeLiteral is `[a..b]`/`(a..b)`/`[a..b)`/etc, i.e. a ConstRange literal
// with explicit boundary kinds (spec.md §3.1, §4.2).
type RangeLiteral struct {
	Base
	Lower       Expression // nil means unbounded below
	Upper       Expression // nil means unbounded above
	LowerClosed bool
	UpperClosed bool
}

// ---- unary tests (spec.md §4.2, §4.3.10) ----
//
// These node kinds occur as the root of a parsed unary-test AST, nested
// under AtLeastOne/Not, or as the Tests of an InExpr.

// AnyTest is the bare `-` unary test: matches any input.
type AnyTest struct{ Base }

// InputCompare is `InputEqualTo`/`InputLessThan`/.../`InputGreaterEqual`
// collapsed into one node distinguished by Op ("=", "<", "<=", ">", ">=").
// A plain expression used as a positive test (spec.md grammar rule
// `positiveTest := expression`) is parsed to UnaryTestExpression instead,
// so the parser never builds Op "=".
type InputCompare struct {
	Base
	Op    string
	Value Expression
}

// InputInRange is a range literal used as a unary test.
type InputInRange struct {
	Base
	Range *RangeLiteral
}

// UnaryTestExpression wraps an arbitrary expression evaluated with `?`
// bound, per spec.md §4.3.10.
type UnaryTestExpression struct {
	Base
	Expr Expression
}

// AtLeastOne is the comma-separated disjunction of positive tests.
type AtLeastOne struct {
	Base
	Tests []Expression
}

// Not is `not(tests)`.
type Not struct {
	Base
	Tests []Expression
}

// markers
func (*NullLiteral) expressionNode()                 {}
func (*BoolLiteral) expressionNode()                  {}
func (*NumberLiteral) expressionNode()                {}
func (*StringLiteral) expressionNode()                {}
func (*InputValue) expressionNode()                   {}
func (*Ref) expressionNode()                          {}
func (*ListLiteral) expressionNode()                  {}
func (*ContextLiteral) expressionNode()                {}
func (*UnaryMinus) expressionNode()                   {}
func (*BinaryOp) expressionNode()                     {}
func (*Between) expressionNode()                      {}
func (*InstanceOf) expressionNode()                   {}
func (*InExpr) expressionNode()                       {}
func (*IfExpr) expressionNode()                       {}
func (*ForExpr) expressionNode()                      {}
func (*QuantExpr) expressionNode()                    {}
func (*FunctionDefinition) expressionNode()           {}
func (*FunctionInvocation) expressionNode()           {}
func (*QualifiedFunctionInvocation) expressionNode()  {}
func (*PathExpression) expressionNode()               {}
func (*FilterExpression) expressionNode()             {}
func (*RangeLiteral) expressionNode()                 {}
func (*AnyTest) expressionNode()                      {}
func (*InputCompare) expressionNode()                 {}
func (*InputInRange) expressionNode()                 {}
func (*UnaryTestExpression) expressionNode()          {}
func (*AtLeastOne) expressionNode()                   {}
func (*Not) expressionNode()                          {}

// NewBase constructs the embeddable Base from a token; exported so the
// parser package (which lives outside ast) can build nodes concisely.
func NewBase(tok token.Token) Base { return Base{Token: tok} }
