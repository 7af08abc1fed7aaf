package evaluator

import "github.com/feel-lang/feel/internal/ast"

// evalPath implements spec.md §4.3.5: `base.name` looks up a Context entry,
// projects element-wise over a List of contexts, and yields Null for any
// other base (including Null itself).
func (it *Interpreter) evalPath(n *ast.PathExpression, env *Environment) Value {
	src := it.Eval(n.Source, env)
	return it.pathLookup(src, n.Name)
}

func (it *Interpreter) pathLookup(src Value, name string) Value {
	switch sv := src.(type) {
	case *Context:
		if v, ok := sv.Get(name); ok {
			return v
		}
		it.warn(NoContextEntryFound, "no context entry named %q found", name)
		return NullValue
	case *List:
		elems := make([]Value, len(sv.Elements))
		for i, e := range sv.Elements {
			elems[i] = it.pathLookup(e, name)
		}
		return &List{Elements: elems}
	default:
		return NullValue
	}
}

// evalFilter implements spec.md §4.3.6.
func (it *Interpreter) evalFilter(n *ast.FilterExpression, env *Environment) Value {
	src := it.Eval(n.Source, env)
	list, ok := src.(*List)
	if !ok {
		return NullValue
	}

	// A literal-boolean predicate (e.g. `list[true]`) short-circuits without
	// per-element evaluation.
	if lit, isLit := n.Predicate.(*ast.BoolLiteral); isLit {
		if lit.Value {
			return &List{Elements: list.Elements}
		}
		return &List{Elements: nil}
	}

	// A bare number literal predicate is an index and needs no per-element
	// evaluation. Any other predicate may reference `item` or context
	// fields, so it is evaluated per element below; a Number result there
	// (e.g. `list[-1]`, `partial[i]`) is likewise taken as an index.
	if numLit, isNum := n.Predicate.(*ast.NumberLiteral); isNum {
		idxVal, ok := NumberFromString(numLit.Value)
		if ok {
			return filterByIndex(list, idxVal)
		}
	}

	var out []Value
	for _, elem := range list.Elements {
		scope := NewEnclosedEnvironment(env)
		scope.Set(itemName, elem)
		if ctx, isCtx := elem.(*Context); isCtx {
			for _, e := range ctx.Entries {
				scope.Set(e.Name, e.Value)
			}
		}
		res := it.Eval(n.Predicate, scope)
		if idx, isNum := res.(*Number); isNum {
			return filterByIndex(list, idx)
		}
		if b, isBool := res.(*Bool); isBool && b.Value {
			out = append(out, elem)
		}
	}
	return &List{Elements: out}
}

func filterByIndex(list *List, idx *Number) Value {
	if !idx.Value.IsInt() {
		return NullValue
	}
	i := idx.Value.Num().Int64()
	n := int64(len(list.Elements))
	if i < 0 {
		i = n + i + 1
	}
	if i < 1 || i > n {
		return NullValue
	}
	return list.Elements[i-1]
}

// evalIn implements spec.md §4.3.7: `x in <tests>` mirrors unary-test
// matching with the left-hand value bound to `?`.
func (it *Interpreter) evalIn(n *ast.InExpr, env *Environment) Value {
	v := it.Eval(n.Value, env)
	scope := NewEnclosedEnvironment(env)
	scope.Set(inputValueName, v)

	anyNull := false
	for _, test := range n.Tests {
		res := it.EvalUnaryTest(test, v, scope)
		switch boolValueOf(res) {
		case boolTrue:
			return True
		case boolNull:
			// A bare `x in v` (a UnaryTestExpression, or an InputCompare with
			// Op "=") is `x = v` coerced to total: a Null equality result
			// contributes false, not Null (spec.md §4.3.7). Range/ordering
			// tests keep propagating Null.
			if _, isExpr := test.(*ast.UnaryTestExpression); isExpr {
				break
			}
			if ic, ok := test.(*ast.InputCompare); !ok || ic.Op != "=" {
				anyNull = true
			}
		}
	}
	if anyNull {
		return NullValue
	}
	return False
}

// evalRangeLiteral implements spec.md §4.3.8.
func (it *Interpreter) evalRangeLiteral(n *ast.RangeLiteral, env *Environment) Value {
	var lower, upper Value
	if n.Lower != nil {
		lower = it.Eval(n.Lower, env)
	}
	if n.Upper != nil {
		upper = it.Eval(n.Upper, env)
	}
	return &Range{
		Lower:       lower,
		Upper:       upper,
		LowerClosed: n.LowerClosed,
		UpperClosed: n.UpperClosed,
	}
}
