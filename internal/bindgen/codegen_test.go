package bindgen_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-lang/feel/internal/bindgen"
)

func TestGenerateProducesValidGoSourcePerFunction(t *testing.T) {
	cfg := bindgen.Config{Deps: []bindgen.Dep{
		{Pkg: "strings", As: "strings", Funcs: []string{"ToUpper", "Contains"}},
	}}
	bindingsByDep := map[string][]*bindgen.FuncBinding{
		"strings": {
			{
				GoName:   "ToUpper",
				FeelName: "stringsToUpper",
				Params:   []bindgen.Param{{Name: "s", Kind: bindgen.KindString}},
				Result:   bindgen.Result{Kind: bindgen.KindString},
			},
			{
				GoName:   "Contains",
				FeelName: "stringsContains",
				Params: []bindgen.Param{
					{Name: "s", Kind: bindgen.KindString},
					{Name: "substr", Kind: bindgen.KindString},
				},
				Result: bindgen.Result{Kind: bindgen.KindBool},
			},
		},
	}

	files, err := bindgen.Generate(cfg, bindingsByDep)
	require.NoError(t, err)
	require.Len(t, files, 3) // bindings_strings.go, register.go, runtime.go

	var bindingsSrc, registerSrc string
	for _, f := range files {
		switch f.Filename {
		case "bindings_strings.go":
			bindingsSrc = f.Content
		case "register.go":
			registerSrc = f.Content
		}
	}
	require.NotEmpty(t, bindingsSrc)
	assert.Contains(t, bindingsSrc, `strings "strings"`)
	assert.Contains(t, bindingsSrc, "func native_stringsToUpper(")
	assert.Contains(t, bindingsSrc, "strings.ToUpper(arg0)")
	assert.Contains(t, bindingsSrc, "func native_stringsContains(")
	assert.Contains(t, bindingsSrc, "RegisterFuncs_strings(reg")

	assert.Contains(t, registerSrc, "RegisterFuncs_strings(reg)")
}

func TestGenerateNumberKind(t *testing.T) {
	cfg := bindgen.Config{Deps: []bindgen.Dep{
		{Pkg: "math", As: "math", Funcs: []string{"Sqrt"}},
	}}
	bindingsByDep := map[string][]*bindgen.FuncBinding{
		"math": {
			{
				GoName:   "Sqrt",
				FeelName: "mathSqrt",
				Params:   []bindgen.Param{{Name: "x", Kind: bindgen.KindNumber, GoType: "float64"}},
				Result:   bindgen.Result{Kind: bindgen.KindNumber, GoType: "float64"},
			},
		},
	}

	files, err := bindgen.Generate(cfg, bindingsByDep)
	require.NoError(t, err)

	var src string
	for _, f := range files {
		if f.Filename == "bindings_math.go" {
			src = f.Content
		}
	}
	require.NotEmpty(t, src)
	assert.True(t, strings.Contains(src, "float64(arg0Float)"))
	assert.True(t, strings.Contains(src, "bindgenNumberFromFloat64(float64(result))"))
}

func TestLoadConfigRejectsIncompleteDeps(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.yaml"
	require.NoError(t, os.WriteFile(path, []byte("deps:\n  - pkg: strings\n"), 0o644))

	_, err := bindgen.LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigAcceptsValidFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/good.yaml"
	require.NoError(t, os.WriteFile(path, []byte("deps:\n  - pkg: strings\n    as: strings\n    funcs: [ToUpper]\n"), 0o644))

	cfg, err := bindgen.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Deps, 1)
	assert.Equal(t, "strings", cfg.Deps[0].Pkg)
}
