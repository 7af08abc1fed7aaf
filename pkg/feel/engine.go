// Package feel is the engine façade of spec.md §6: parses then evaluates,
// exposing a success/failure Result that carries suppressed warnings.
// Grounded in the teacher's pkg/embed/vm.go "one VM, many Eval calls" shape,
// simplified to FEEL's stateless parse-then-walk model.
package feel

import (
	"github.com/google/uuid"

	"github.com/feel-lang/feel/internal/diagnostics"
	"github.com/feel-lang/feel/internal/evaluator"
	"github.com/feel-lang/feel/internal/parser"
)

// WarningKind re-exports evaluator.WarningKind so callers of this package
// never need to import internal/evaluator directly.
type WarningKind = evaluator.WarningKind

// Warning is one surfaced (tier 2) evaluation problem.
type Warning struct {
	Message string
	Kind    WarningKind
}

// Result is the outcome of one evaluateExpression/evaluateUnaryTests call
// (spec.md §6): exactly one of Value/Message is meaningful, discriminated
// by Success.
type Result struct {
	Success   bool
	Value     interface{}
	Message   string
	Warnings  []Warning
	RequestID string
}

// Engine hosts the read-only built-in registry (spec.md §5 "the only
// shared state is the built-in function registry... built once at engine
// construction") and an EngineOptions configuration.
type Engine struct {
	opts     Options
	builtins map[string]*evaluator.Function
}

// Options configures the engine (internal/config.EngineOptions projected
// onto this package's public surface).
type Options struct {
	// MaxRecursionDepth overrides the parser's recursion-depth guard
	// (internal/parser.MaxRecursionDepth) when positive; zero keeps the
	// parser's default.
	MaxRecursionDepth int
}

// New constructs an Engine with the default built-in registry.
func New(opts Options) *Engine {
	return &Engine{opts: opts, builtins: evaluator.DefaultBuiltins()}
}

func (e *Engine) maxRecursionDepth() int {
	if e.opts.MaxRecursionDepth > 0 {
		return e.opts.MaxRecursionDepth
	}
	return parser.MaxRecursionDepth
}

// RegisterFunction extends the engine's built-in registry, the hook spec.md
// §1 reserves for hosts needing built-ins beyond the handful implemented.
func (e *Engine) RegisterFunction(name string, params []string, fn evaluator.NativeFunc) {
	evaluator.RegisterFunction(e.builtins, name, params, fn)
}

func (e *Engine) newInterpreter() *evaluator.Interpreter {
	return &evaluator.Interpreter{Builtins: e.builtins}
}

// EvaluateExpression implements spec.md §6's `evaluateExpression(text,
// variables) → Result`.
func (e *Engine) EvaluateExpression(text string, variables map[string]evaluator.Value) Result {
	ast, diags := parser.ParseExpressionWithMaxDepth(text, e.maxRecursionDepth())
	if len(diags) > 0 {
		return failure(diags)
	}
	it := e.newInterpreter()
	env := it.NewGlobalEnv(variables)
	val := it.Eval(ast, env)
	return success(val, it.Warnings)
}

// EvaluateUnaryTests implements spec.md §6's `evaluateUnaryTests(text,
// input, variables) → Result`.
func (e *Engine) EvaluateUnaryTests(text string, input evaluator.Value, variables map[string]evaluator.Value) Result {
	testAST, diags := parser.ParseUnaryTestsWithMaxDepth(text, e.maxRecursionDepth())
	if len(diags) > 0 {
		return failure(diags)
	}
	it := e.newInterpreter()
	env := it.NewGlobalEnv(variables)
	val := it.EvalUnaryTest(testAST, input, env)
	return success(val, it.Warnings)
}

func failure(diags []*diagnostics.Diagnostic) Result {
	msg := diags[0].Error()
	for _, d := range diags[1:] {
		msg += "; " + d.Error()
	}
	return Result{Success: false, Message: msg, RequestID: uuid.NewString()}
}

func success(val evaluator.Value, warnings []evaluator.Warning) Result {
	out := make([]Warning, len(warnings))
	for i, w := range warnings {
		out[i] = Warning{Message: w.Message, Kind: w.Kind}
	}
	return Result{Success: true, Value: val, Warnings: out, RequestID: uuid.NewString()}
}
