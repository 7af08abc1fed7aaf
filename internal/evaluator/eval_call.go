package evaluator

import "github.com/feel-lang/feel/internal/ast"

// evalFunctionInvocation implements spec.md §4.3.9: the name is first
// looked up as an ordinary variable (built-ins live at the bottom of the
// scope chain, per spec.md §3.2), then applied.
func (it *Interpreter) evalFunctionInvocation(n *ast.FunctionInvocation, env *Environment) Value {
	fnVal, ok := env.Get(n.Name)
	if !ok {
		it.warn(NoFunctionFound, "no function named %q found", n.Name)
		return NullValue
	}
	return it.applyArgs(fnVal, n.Args, env)
}

// evalQualifiedFunctionInvocation implements `target.name(args...)`: target
// resolves to a Context, whose entry `name` must be a Function.
func (it *Interpreter) evalQualifiedFunctionInvocation(n *ast.QualifiedFunctionInvocation, env *Environment) Value {
	target := it.Eval(n.Target, env)
	ctx, ok := target.(*Context)
	if !ok {
		it.warn(NoFunctionFound, "no function named %q found", n.Name)
		return NullValue
	}
	fnVal, ok := ctx.Get(n.Name)
	if !ok {
		it.warn(NoFunctionFound, "no function named %q found", n.Name)
		return NullValue
	}
	return it.applyArgs(fnVal, n.Args, env)
}

func (it *Interpreter) applyArgs(fnVal Value, args []ast.Arg, env *Environment) Value {
	fn, ok := fnVal.(*Function)
	if !ok {
		it.warn(FunctionInvocationFailure, "cannot invoke a non-function value")
		return NullValue
	}

	if fn.VarArgs {
		posArgs := make([]Value, len(args))
		for i, a := range args {
			posArgs[i] = it.Eval(a.Value, env)
		}
		return fn.Native(posArgs)
	}

	named := false
	for _, a := range args {
		if a.Name != "" {
			named = true
			break
		}
	}

	if named {
		bindings := make(map[string]Value, len(args))
		for _, a := range args {
			bindings[a.Name] = it.Eval(a.Value, env)
		}
		for _, p := range fn.Params {
			if _, ok := bindings[p]; !ok {
				it.warn(FunctionInvocationFailure, "missing argument %q", p)
				return NullValue
			}
		}
		return it.Apply(fn, fn.Params, bindings)
	}

	if len(args) != len(fn.Params) {
		it.warn(FunctionInvocationFailure, "wrong number of arguments: expected %d, got %d", len(fn.Params), len(args))
		return NullValue
	}
	bindings := make(map[string]Value, len(args))
	for i, a := range args {
		bindings[fn.Params[i]] = it.Eval(a.Value, env)
	}
	return it.Apply(fn, fn.Params, bindings)
}

// Apply calls fn with bindings already evaluated, named by parameter name.
// Exported so built-ins implementing higher-order functions (filters,
// projections) can invoke user-defined FEEL functions.
func (it *Interpreter) Apply(fn *Function, order []string, bindings map[string]Value) Value {
	if fn.Native != nil {
		posArgs := make([]Value, len(order))
		for i, name := range order {
			posArgs[i] = bindings[name]
		}
		return fn.Native(posArgs)
	}

	callEnv := NewEnclosedEnvironment(fn.Env)
	for _, p := range fn.Params {
		if v, ok := bindings[p]; ok {
			callEnv.Set(p, v)
		} else {
			callEnv.Set(p, NullValue)
		}
	}
	return it.Eval(fn.Body, callEnv)
}
