package evaluator

import (
	"github.com/feel-lang/feel/internal/ast"
)

// WarningKind enumerates the surfaced-failure categories of spec.md §6.
type WarningKind string

const (
	NoVariableFound           WarningKind = "NO_VARIABLE_FOUND"
	NoContextEntryFound       WarningKind = "NO_CONTEXT_ENTRY_FOUND"
	NoFunctionFound           WarningKind = "NO_FUNCTION_FOUND"
	FunctionInvocationFailure WarningKind = "FUNCTION_INVOCATION_FAILURE"
	AssertionFailure          WarningKind = "ASSERTION_FAILURE"
)

// Warning is one surfaced (tier 2, spec.md §7) evaluation problem: the
// sub-expression still evaluates to Null, but the problem is recorded for
// the engine façade to report alongside a successful result.
type Warning struct {
	Message string
	Kind    WarningKind
}

// Interpreter is a total function from (AST, environment) to value, per
// spec.md §4.3: "It never raises; failures produce either a Null value
// (silent) or a surfaced Error". One Interpreter is constructed per
// evaluation (mirroring the teacher's per-call Evaluator), except for the
// read-only Builtins registry (spec.md §5 "only shared state is the
// built-in function registry").
type Interpreter struct {
	Builtins map[string]*Function
	Warnings []Warning
}

// inputValueName is the name under which `?` is looked up.
const inputValueName = "?"
const partialName = "partial"
const itemName = "item"

func New() *Interpreter {
	return &Interpreter{Builtins: DefaultBuiltins()}
}

func (it *Interpreter) warn(kind WarningKind, format string, args ...interface{}) {
	it.Warnings = append(it.Warnings, Warning{Message: NewError(format, args...).Message, Kind: kind})
}

// NewGlobalEnv builds the bottom-to-top scope stack of spec.md §3.2:
// built-ins at the bottom, user-supplied variables above.
func (it *Interpreter) NewGlobalEnv(variables map[string]Value) *Environment {
	base := NewEnvironment()
	for name, fn := range it.Builtins {
		base.Set(name, fn)
	}
	env := NewEnclosedEnvironment(base)
	for name, val := range variables {
		env.Set(name, val)
	}
	return env
}

// Eval walks the AST in env, per spec.md §4.3.
func (it *Interpreter) Eval(node ast.Expression, env *Environment) Value {
	switch n := node.(type) {
	case *ast.NullLiteral:
		return NullValue
	case *ast.BoolLiteral:
		return BoolOf(n.Value)
	case *ast.NumberLiteral:
		num, ok := NumberFromString(n.Value)
		if !ok {
			return NullValue
		}
		return num
	case *ast.StringLiteral:
		return &String{Value: n.Value}
	case *ast.InputValue:
		if v, ok := env.Get(inputValueName); ok {
			return v
		}
		return NullValue
	case *ast.Ref:
		return it.evalRef(n, env)
	case *ast.ListLiteral:
		elems := make([]Value, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = it.Eval(e, env)
		}
		return &List{Elements: elems}
	case *ast.ContextLiteral:
		return it.evalContextLiteral(n, env)
	case *ast.UnaryMinus:
		return EvalUnaryMinus(it.Eval(n.Operand, env))
	case *ast.BinaryOp:
		return it.evalBinaryOp(n, env)
	case *ast.Between:
		return it.evalBetween(n, env)
	case *ast.InstanceOf:
		return it.evalInstanceOf(n, env)
	case *ast.InExpr:
		return it.evalIn(n, env)
	case *ast.IfExpr:
		return it.evalIf(n, env)
	case *ast.ForExpr:
		return it.evalFor(n, env)
	case *ast.QuantExpr:
		return it.evalQuant(n, env)
	case *ast.FunctionDefinition:
		return &Function{Params: n.Params, Body: n.Body, Env: env}
	case *ast.FunctionInvocation:
		return it.evalFunctionInvocation(n, env)
	case *ast.QualifiedFunctionInvocation:
		return it.evalQualifiedFunctionInvocation(n, env)
	case *ast.PathExpression:
		return it.evalPath(n, env)
	case *ast.FilterExpression:
		return it.evalFilter(n, env)
	case *ast.RangeLiteral:
		return it.evalRangeLiteral(n, env)
	default:
		return NullValue
	}
}

func (it *Interpreter) evalRef(n *ast.Ref, env *Environment) Value {
	if v, ok := env.Get(n.Name); ok {
		return v
	}
	it.warn(NoVariableFound, "no variable named %q found in context", n.Name)
	return NullValue
}

func (it *Interpreter) evalContextLiteral(n *ast.ContextLiteral, env *Environment) Value {
	entries := make([]ContextEntry, 0, len(n.Entries))
	// Each entry's value expression sees previously defined entries of the
	// same context literal, matching spec.md §8's example
	// `({foo: function(x) x + 5, bar: foo(5)}).bar`.
	scoped := NewEnclosedEnvironment(env)
	for _, e := range n.Entries {
		val := it.Eval(e.Value, scoped)
		entries = append(entries, ContextEntry{Name: e.Key, Value: val})
		scoped.Set(e.Key, val)
	}
	return NewContext(entries)
}

func (it *Interpreter) evalBinaryOp(n *ast.BinaryOp, env *Environment) Value {
	switch n.Op {
	case "and":
		left := it.Eval(n.Left, env)
		return EvalLogicalAnd(left, func() Value { return it.Eval(n.Right, env) })
	case "or":
		left := it.Eval(n.Left, env)
		return EvalLogicalOr(left, func() Value { return it.Eval(n.Right, env) })
	}

	left := it.Eval(n.Left, env)
	right := it.Eval(n.Right, env)

	switch n.Op {
	case "=":
		return EvalEquals(left, right)
	case "!=":
		return EvalNotEquals(left, right)
	case "<", "<=", ">", ">=":
		return EvalOrdering(n.Op, left, right)
	case "+", "-", "*", "/", "**":
		return EvalArithmetic(n.Op, left, right)
	}
	return NullValue
}

func (it *Interpreter) evalBetween(n *ast.Between, env *Environment) Value {
	v := it.Eval(n.Value, env)
	lower := it.Eval(n.Lower, env)
	upper := it.Eval(n.Upper, env)
	// `x between a and b` desugars to `x >= a and x <= b` (spec.md §4.2).
	ge := EvalOrdering(">=", v, lower)
	le := EvalOrdering("<=", v, upper)
	return EvalLogicalAnd(ge, func() Value { return le })
}

func (it *Interpreter) evalInstanceOf(n *ast.InstanceOf, env *Environment) Value {
	v := it.Eval(n.Value, env)
	return BoolOf(matchesTypeName(v, n.TypeName))
}

func matchesTypeName(v Value, typeName string) bool {
	switch typeName {
	case "number":
		_, ok := v.(*Number)
		return ok
	case "string":
		_, ok := v.(*String)
		return ok
	case "boolean":
		_, ok := v.(*Bool)
		return ok
	case "date":
		_, ok := v.(*Date)
		return ok
	case "time":
		_, ok := v.(*Time)
		return ok
	case "date and time":
		_, ok := v.(*DateTime)
		return ok
	case "days and time duration", "day time duration":
		_, ok := v.(*DayTimeDuration)
		return ok
	case "years and months duration":
		_, ok := v.(*YearMonthDuration)
		return ok
	case "list":
		_, ok := v.(*List)
		return ok
	case "context":
		_, ok := v.(*Context)
		return ok
	case "range":
		_, ok := v.(*Range)
		return ok
	case "function":
		_, ok := v.(*Function)
		return ok
	case "Any":
		return !isNull(v)
	default:
		return false
	}
}
