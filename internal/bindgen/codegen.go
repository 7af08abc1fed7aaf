package bindgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
)

// GeneratedFile is one Go source file bindgen emits, mirroring the
// teacher's ext.GeneratedFile (funvibe-funxy/internal/ext/codegen.go).
type GeneratedFile struct {
	Filename string
	Content  string
}

// Generate renders one bindings_<as>.go file per Dep plus a register.go
// that wires every generated Register func into a single entry point,
// following the teacher's CodeGenerator.Generate per-alias-file-plus-main
// shape.
func Generate(cfg Config, bindingsByDep map[string][]*FuncBinding) ([]GeneratedFile, error) {
	var files []GeneratedFile
	var aliases []string

	for _, dep := range cfg.Deps {
		bindings := bindingsByDep[dep.Pkg]
		src, err := renderDepFile(dep, bindings)
		if err != nil {
			return nil, fmt.Errorf("rendering bindings for %s: %w", dep.Pkg, err)
		}
		files = append(files, GeneratedFile{
			Filename: "bindings_" + dep.As + ".go",
			Content:  src,
		})
		aliases = append(aliases, dep.As)
	}

	regSrc, err := renderRegisterFile(aliases)
	if err != nil {
		return nil, fmt.Errorf("rendering register.go: %w", err)
	}
	files = append(files, GeneratedFile{Filename: "register.go", Content: regSrc})
	files = append(files, GeneratedFile{Filename: "runtime.go", Content: runtimeFileSource})
	return files, nil
}

// runtimeFileSource is emitted once per bindgen run; every bindings_*.go
// file calls into it to convert between FEEL Lists and Go slices.
const runtimeFileSource = `// Code generated by feel-bindgen. DO NOT EDIT.

package bindgen_generated

import (
	"math/big"

	"github.com/feel-lang/feel/internal/evaluator"
)

type bindgenNumeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func bindgenNumberFromFloat64(f float64) *evaluator.Number {
	r := new(big.Rat)
	r.SetFloat64(f)
	return &evaluator.Number{Value: r}
}

func bindgenStringsFromList(v evaluator.Value) []string {
	list, ok := v.(*evaluator.List)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list.Elements))
	for _, e := range list.Elements {
		if s, ok := e.(*evaluator.String); ok {
			out = append(out, s.Value)
		}
	}
	return out
}

func bindgenListFromStrings(ss []string) *evaluator.List {
	out := make([]evaluator.Value, len(ss))
	for i, s := range ss {
		out[i] = &evaluator.String{Value: s}
	}
	return &evaluator.List{Elements: out}
}

func bindgenNumbersFrom[T bindgenNumeric](v evaluator.Value) []T {
	list, ok := v.(*evaluator.List)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(list.Elements))
	for _, e := range list.Elements {
		if n, ok := e.(*evaluator.Number); ok {
			f, _ := n.Value.Float64()
			out = append(out, T(f))
		}
	}
	return out
}

func bindgenListFromNumbers[T bindgenNumeric](ns []T) *evaluator.List {
	out := make([]evaluator.Value, len(ns))
	for i, n := range ns {
		out[i] = bindgenNumberFromFloat64(float64(n))
	}
	return &evaluator.List{Elements: out}
}
`

type depFileContext struct {
	Package  string
	GoImport string
	GoAlias  string
	Bindings []*FuncBinding
}

var depFileTemplate = template.Must(template.New("dep").Funcs(template.FuncMap{
	"argExpr":    argExpr,
	"resultExpr": resultExpr,
	"isVoid":     func(r Result) bool { return r.Kind == KindVoid },
}).Parse(`// Code generated by feel-bindgen from {{.GoImport}}. DO NOT EDIT.

package bindgen_generated

import (
	{{.GoAlias}} "{{.GoImport}}"

	"github.com/feel-lang/feel/internal/evaluator"
)

{{range .Bindings}}
func native_{{.FeelName}}(args []evaluator.Value) evaluator.Value {
{{- range $i, $p := .Params}}
	{{argExpr $i $p}}
{{- end}}
{{- if .Result.HasError}}
	result, err := {{$.GoAlias}}.{{.GoName}}({{range $i, $p := .Params}}{{if $i}}, {{end}}arg{{$i}}{{end}})
	if err != nil {
		return evaluator.NullValue
	}
{{- else if isVoid .Result}}
	{{$.GoAlias}}.{{.GoName}}({{range $i, $p := .Params}}{{if $i}}, {{end}}arg{{$i}}{{end}})
	return evaluator.NullValue
{{- else}}
	result := {{$.GoAlias}}.{{.GoName}}({{range $i, $p := .Params}}{{if $i}}, {{end}}arg{{$i}}{{end}})
{{- end}}
{{- if not (isVoid .Result)}}
	return {{resultExpr .Result}}
{{- end}}
}
{{end}}

// RegisterFuncs registers every bound function of {{.GoImport}} into reg,
// under FEEL names prefixed "{{.Package}}".
func RegisterFuncs_{{.Package}}(reg map[string]*evaluator.Function) {
{{- range .Bindings}}
	evaluator.RegisterFunction(reg, {{printf "%q" .FeelName}}, []string{ {{range $i, $p := .Params}}{{if $i}}, {{end}}{{printf "%q" $p.Name}}{{end}} }, native_{{.FeelName}})
{{- end}}
}
`))

func renderDepFile(dep Dep, bindings []*FuncBinding) (string, error) {
	var buf bytes.Buffer
	err := depFileTemplate.Execute(&buf, depFileContext{
		Package:  dep.As,
		GoImport: dep.Pkg,
		GoAlias:  goAlias(dep.Pkg),
		Bindings: bindings,
	})
	if err != nil {
		return "", err
	}
	return gofmt(buf.String())
}

var registerFileTemplate = template.Must(template.New("register").Parse(`// Code generated by feel-bindgen. DO NOT EDIT.

package bindgen_generated

import "github.com/feel-lang/feel/internal/evaluator"

// RegisterAll wires every generated package's bound functions into reg.
func RegisterAll(reg map[string]*evaluator.Function) {
{{- range .}}
	RegisterFuncs_{{.}}(reg)
{{- end}}
}
`))

func renderRegisterFile(aliases []string) (string, error) {
	var buf bytes.Buffer
	if err := registerFileTemplate.Execute(&buf, aliases); err != nil {
		return "", err
	}
	return gofmt(buf.String())
}

func gofmt(src string) (string, error) {
	out, err := format.Source([]byte(src))
	if err != nil {
		return "", fmt.Errorf("%w\n%s", err, src)
	}
	return string(out), nil
}

func goAlias(pkgPath string) string {
	parts := strings.Split(pkgPath, "/")
	return strings.ReplaceAll(parts[len(parts)-1], "-", "_")
}

func argExpr(i int, p Param) string {
	v := fmt.Sprintf("args[%d]", i)
	switch p.Kind {
	case KindBool:
		return fmt.Sprintf("arg%d := %s.(*evaluator.Bool).Value", i, v)
	case KindString:
		return fmt.Sprintf("arg%d := %s.(*evaluator.String).Value", i, v)
	case KindNumber:
		return fmt.Sprintf("arg%dFloat, _ := %s.(*evaluator.Number).Value.Float64(); arg%d := %s(arg%dFloat)", i, v, i, p.GoType, i)
	case KindStringList:
		return fmt.Sprintf("arg%d := bindgenStringsFromList(%s)", i, v)
	case KindNumberList:
		return fmt.Sprintf("arg%d := bindgenNumbersFrom[%s](%s)", i, elemType(p.GoType), v)
	}
	return fmt.Sprintf("arg%d := %s", i, v)
}

func resultExpr(r Result) string {
	switch r.Kind {
	case KindBool:
		return "evaluator.BoolOf(result)"
	case KindString:
		return "&evaluator.String{Value: result}"
	case KindNumber:
		return "bindgenNumberFromFloat64(float64(result))"
	case KindStringList:
		return "bindgenListFromStrings(result)"
	case KindNumberList:
		return "bindgenListFromNumbers(result)"
	}
	return "evaluator.NullValue"
}

// elemType strips the leading "[]" off a Go slice type string.
func elemType(sliceType string) string {
	return strings.TrimPrefix(sliceType, "[]")
}
