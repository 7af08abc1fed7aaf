package evaluator

import "github.com/feel-lang/feel/internal/ast"

// evalIf implements spec.md §4.3.2.
func (it *Interpreter) evalIf(n *ast.IfExpr, env *Environment) Value {
	cond := it.Eval(n.Cond, env)
	if b, ok := cond.(*Bool); ok && b.Value {
		return it.Eval(n.Then, env)
	}
	return it.Eval(n.Else, env)
}

// iterationSource materializes one `for`/`some`/`every` iterator source
// into a slice of values, per spec.md §4.3.3: a List as-is, a Range with
// integer endpoints expanded ascending or descending, or Null/non-list
// collapsing the whole expression.
func (it *Interpreter) iterationSource(v Value) ([]Value, bool) {
	switch sv := v.(type) {
	case *List:
		return sv.Elements, true
	case *Range:
		return rangeToIntList(sv)
	default:
		return nil, false
	}
}

func rangeToIntList(r *Range) ([]Value, bool) {
	lowerN, ok1 := r.Lower.(*Number)
	upperN, ok2 := r.Upper.(*Number)
	if !ok1 || !ok2 || !lowerN.Value.IsInt() || !upperN.Value.IsInt() {
		return nil, false
	}
	lo := lowerN.Value.Num().Int64()
	hi := upperN.Value.Num().Int64()
	var out []Value
	if lo <= hi {
		for i := lo; i <= hi; i++ {
			out = append(out, NumberFromInt64(i))
		}
	} else {
		for i := lo; i >= hi; i-- {
			out = append(out, NumberFromInt64(i))
		}
	}
	return out, true
}

// evalFor implements spec.md §4.3.3: iterators bound left-to-right, the
// rightmost iterating fastest, `partial` tracking results so far.
func (it *Interpreter) evalFor(n *ast.ForExpr, env *Environment) Value {
	results, _, ok := it.runIterators(n.Iterators, env, n.Body)
	if !ok {
		return NullValue
	}
	return &List{Elements: results}
}

// runIterators drives the cross product over iterators, evaluating body (when
// non-nil) for each combination with `partial` bound to the results so far,
// and returns those results. The second result is false only when there are
// no iterators; the third is false when an iterator source is not iterable.
func (it *Interpreter) runIterators(iterators []ast.Iterator, env *Environment, body ast.Expression) ([]Value, bool, bool) {
	if len(iterators) == 0 {
		return nil, false, true
	}

	var results []Value
	ok := true

	var recurse func(idx int, scope *Environment)
	recurse = func(idx int, scope *Environment) {
		if !ok {
			return
		}
		if idx == len(iterators) {
			if body != nil {
				partialList := &List{Elements: append([]Value(nil), results...)}
				iterEnv := NewEnclosedEnvironment(scope)
				iterEnv.Set(partialName, partialList)
				results = append(results, it.Eval(body, iterEnv))
			}
			return
		}
		src := it.Eval(iterators[idx].Source, scope)
		elems, isOK := it.iterationSource(src)
		if !isOK {
			ok = false
			return
		}
		for _, elem := range elems {
			next := NewEnclosedEnvironment(scope)
			next.Set(iterators[idx].Name, elem)
			recurse(idx+1, next)
			if !ok {
				return
			}
		}
	}
	recurse(0, env)
	return results, true, ok
}

// evalQuant implements spec.md §4.3.4.
func (it *Interpreter) evalQuant(n *ast.QuantExpr, env *Environment) Value {
	if len(n.Iterators) == 0 {
		return NullValue
	}

	var verdict Value = BoolOf(n.Kind == ast.QuantEvery)
	ok := true
	shortCircuit := false

	var recurse func(idx int, scope *Environment)
	recurse = func(idx int, scope *Environment) {
		if shortCircuit || !ok {
			return
		}
		if idx == len(n.Iterators) {
			res := it.Eval(n.Satisfies, scope)
			b, isBool := res.(*Bool)
			if n.Kind == ast.QuantEvery {
				if !isBool || !b.Value {
					verdict = False
					shortCircuit = true
				}
			} else {
				if isBool && b.Value {
					verdict = True
					shortCircuit = true
				}
			}
			return
		}
		src := it.Eval(n.Iterators[idx].Source, scope)
		elems, isOK := it.iterationSource(src)
		if !isOK {
			ok = false
			return
		}
		for _, elem := range elems {
			next := NewEnclosedEnvironment(scope)
			next.Set(n.Iterators[idx].Name, elem)
			recurse(idx+1, next)
			if shortCircuit || !ok {
				return
			}
		}
	}
	recurse(0, env)

	if !ok {
		return NullValue
	}
	return verdict
}
