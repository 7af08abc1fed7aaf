package evaluator

import "github.com/feel-lang/feel/internal/ast"

// EvalUnaryTest implements spec.md §4.3.10: matching a parsed unary-test AST
// against an input value, with `?` bound to input in env for the duration of
// the test. This is the distinct evaluation entry point mirroring the
// parser package's separate unary-test grammar.
func (it *Interpreter) EvalUnaryTest(test ast.Expression, input Value, env *Environment) Value {
	scope := NewEnclosedEnvironment(env)
	scope.Set(inputValueName, input)

	switch n := test.(type) {
	case *ast.AnyTest:
		return True

	case *ast.InputCompare:
		rhs := it.Eval(n.Value, scope)
		switch n.Op {
		case "=":
			if isNull(input) {
				return BoolOf(isNull(rhs))
			}
			return EvalEquals(input, rhs)
		case "<", "<=", ">", ">=":
			if isNull(input) {
				return NullValue
			}
			return EvalOrdering(n.Op, input, rhs)
		}
		return NullValue

	case *ast.InputInRange:
		if isNull(input) {
			return NullValue
		}
		rng := it.Eval(n.Range, scope)
		r, ok := rng.(*Range)
		if !ok {
			return NullValue
		}
		return rangeContains(r, input)

	case *ast.UnaryTestExpression:
		res := it.Eval(n.Expr, scope)
		if b, ok := res.(*Bool); ok {
			return b
		}
		// A non-boolean result is compared against the input value
		// (spec.md §4.3.10: "treat a non-Bool result as `input = result`").
		if isNull(input) {
			return BoolOf(isNull(res))
		}
		return EvalEquals(input, res)

	case *ast.AtLeastOne:
		anyNull := false
		for _, t := range n.Tests {
			r := it.EvalUnaryTest(t, input, scope)
			switch boolValueOf(r) {
			case boolTrue:
				return True
			case boolNull:
				anyNull = true
			}
		}
		if anyNull {
			return NullValue
		}
		return False

	case *ast.Not:
		anyNull := false
		anyTrue := false
		for _, t := range n.Tests {
			r := it.EvalUnaryTest(t, input, scope)
			switch boolValueOf(r) {
			case boolTrue:
				anyTrue = true
			case boolNull:
				anyNull = true
			}
		}
		switch {
		case anyTrue:
			return False
		case anyNull:
			return False
		default:
			return True
		}
	}

	// Any other expression node behaves like an InputCompare with Op "=".
	// The parser wraps every plain positive test in UnaryTestExpression, so
	// only hand-built ASTs reach this path.
	rhs := it.Eval(test, scope)
	if isNull(input) {
		return BoolOf(isNull(rhs))
	}
	return EvalEquals(input, rhs)
}

func rangeContains(r *Range, v Value) Value {
	if isNull(v) {
		return NullValue
	}
	lowOK := true
	if !isNull(r.Lower) {
		c := compareOrdered(v, r.Lower)
		if c == cmpNone {
			return NullValue
		}
		if r.LowerClosed {
			lowOK = c == cmpEqual || c == cmpGreater
		} else {
			lowOK = c == cmpGreater
		}
	}
	highOK := true
	if !isNull(r.Upper) {
		c := compareOrdered(v, r.Upper)
		if c == cmpNone {
			return NullValue
		}
		if r.UpperClosed {
			highOK = c == cmpEqual || c == cmpLess
		} else {
			highOK = c == cmpLess
		}
	}
	return BoolOf(lowOK && highOK)
}
