// Command feel-bindgen reads a feel-bindgen.yaml (internal/bindgen.Config)
// and writes Go source binding the named Go package functions as FEEL
// native functions, grounded on the teacher's cmd for ext codegen
// (funvibe-funxy's `funxy ext generate`, driven by internal/ext).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/feel-lang/feel/internal/bindgen"
)

func main() {
	configPath := flag.String("config", "feel-bindgen.yaml", "path to the bindgen config")
	outDir := flag.String("out", "bindgen_generated", "output directory for generated Go source")
	flag.Parse()

	if err := run(*configPath, *outDir); err != nil {
		fmt.Fprintln(os.Stderr, "feel-bindgen:", err)
		os.Exit(1)
	}
}

func run(configPath, outDir string) error {
	cfg, err := bindgen.LoadConfig(configPath)
	if err != nil {
		return err
	}

	bindingsByDep := make(map[string][]*bindgen.FuncBinding, len(cfg.Deps))
	for _, dep := range cfg.Deps {
		bindings, err := bindgen.Inspect(dep)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", dep.Pkg, err)
		}
		bindingsByDep[dep.Pkg] = bindings
	}

	files, err := bindgen.Generate(cfg, bindingsByDep)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	for _, f := range files {
		path := filepath.Join(outDir, f.Filename)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("wrote", path)
	}
	return nil
}
