package bindgen

import (
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
)

// FuncBinding is a single Go function resolved to a callable FEEL signature.
type FuncBinding struct {
	GoName   string
	FeelName string
	Params   []Param
	Result   Result
}

// Param describes one bound parameter; Kind names the FEEL value it maps
// to/from in the generated wrapper.
type Param struct {
	Name   string
	Kind   Kind
	GoType string // e.g. "int", "float64", "[]int"
}

// Result describes a bound function's return shape. HasError is true when
// the Go function's last return is `error` — the generated wrapper then
// returns evaluator.NullValue on a non-nil error rather than surfacing the
// unconvertible Go error value.
type Result struct {
	Kind     Kind
	GoType   string // e.g. "int", "float64"; only meaningful for KindNumber
	HasError bool
}

// Kind enumerates the Go types bindgen knows how to marshal, through type
// assertions and the bindgen* helpers that codegen.go emits. Anything else is a resolution error: FEEL's
// value model (spec.md §3.1) has no general object representation, so
// bindgen only reaches functions whose signature is entirely built from
// these primitives, unlike the teacher's ext package (which binds whole
// Go types/methods because Funxy objects can wrap arbitrary Go values).
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindString
	KindNumber // any Go integer or floating-point type
	KindStringList
	KindNumberList
	KindVoid // func with no (non-error) return value
)

// Inspect loads dep.Pkg via golang.org/x/tools/go/packages and resolves
// each named function to a FuncBinding, grounded on the teacher's
// Inspector.loadPackages/resolveFuncBinding (funvibe-funxy/internal/ext/inspector.go).
func Inspect(dep Dep) ([]*FuncBinding, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, dep.Pkg)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", dep.Pkg, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected exactly one package for %q, got %d", dep.Pkg, len(pkgs))
	}
	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		return nil, fmt.Errorf("%s: %s", pkg.PkgPath, e.Msg)
	}

	names := append([]string{}, dep.Funcs...)
	sort.Strings(names)

	scope := pkg.Types.Scope()
	var out []*FuncBinding
	for _, name := range names {
		obj := scope.Lookup(name)
		if obj == nil {
			return nil, fmt.Errorf("function %q not found in package %s", name, dep.Pkg)
		}
		fn, ok := obj.(*types.Func)
		if !ok {
			return nil, fmt.Errorf("%q is not a function in package %s", name, dep.Pkg)
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Variadic() {
			return nil, fmt.Errorf("%s.%s: variadic or non-function signatures are not supported", dep.Pkg, name)
		}
		fb, err := resolveFuncBinding(dep, name, sig)
		if err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, nil
}

func resolveFuncBinding(dep Dep, goName string, sig *types.Signature) (*FuncBinding, error) {
	fb := &FuncBinding{GoName: goName, FeelName: dep.As + goName}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		kind := kindOf(p.Type())
		if kind == KindInvalid {
			return nil, fmt.Errorf("%s.%s: parameter %d has unsupported type %s", dep.Pkg, goName, i, p.Type())
		}
		name := p.Name()
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		fb.Params = append(fb.Params, Param{Name: name, Kind: kind, GoType: types.TypeString(p.Type(), nil)})
	}

	results := sig.Results()
	switch results.Len() {
	case 0:
		fb.Result = Result{Kind: KindVoid}
	case 1:
		kind := kindOf(results.At(0).Type())
		if kind == KindInvalid {
			return nil, fmt.Errorf("%s.%s: result has unsupported type %s", dep.Pkg, goName, results.At(0).Type())
		}
		fb.Result = Result{Kind: kind, GoType: types.TypeString(results.At(0).Type(), nil)}
	case 2:
		if !isErrorType(results.At(1).Type()) {
			return nil, fmt.Errorf("%s.%s: second result must be error, got %s", dep.Pkg, goName, results.At(1).Type())
		}
		kind := kindOf(results.At(0).Type())
		if kind == KindInvalid {
			return nil, fmt.Errorf("%s.%s: result has unsupported type %s", dep.Pkg, goName, results.At(0).Type())
		}
		fb.Result = Result{Kind: kind, HasError: true, GoType: types.TypeString(results.At(0).Type(), nil)}
	default:
		return nil, fmt.Errorf("%s.%s: functions with more than two results are not supported", dep.Pkg, goName)
	}

	return fb, nil
}

func kindOf(t types.Type) Kind {
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch u.Info() & (types.IsBoolean | types.IsInteger | types.IsFloat | types.IsString) {
		case types.IsBoolean:
			return KindBool
		case types.IsString:
			return KindString
		}
		if u.Info()&(types.IsInteger|types.IsFloat) != 0 {
			return KindNumber
		}
	case *types.Slice:
		switch e := u.Elem().Underlying().(type) {
		case *types.Basic:
			if e.Info()&types.IsString != 0 {
				return KindStringList
			}
			if e.Info()&(types.IsInteger|types.IsFloat) != 0 {
				return KindNumberList
			}
		}
	}
	return KindInvalid
}

func isErrorType(t types.Type) bool {
	named, ok := t.(*types.Named)
	return ok && named.Obj().Pkg() == nil && named.Obj().Name() == "error"
}
