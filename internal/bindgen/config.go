// Package bindgen generates Go source that registers native FEEL functions
// wrapping exported functions of an arbitrary Go package (SPEC_FULL.md §2
// "golang.org/x/tools/go/packages -> internal/bindgen"). It is grounded on
// the teacher's internal/ext package (funvibe-funxy), which drives the same
// idea — introspect a dependency via go/packages, generate Go source that
// exposes it to the scripting language — narrowed from ext's full
// type/method/generics binding surface to plain functions only, since
// FEEL's value model (spec.md §3.1) has no notion of a bound Go object.
package bindgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a feel-bindgen.yaml file: a list of Go packages to bind,
// mirroring the shape of the teacher's funxy.yaml Deps list.
type Config struct {
	Deps []Dep `yaml:"deps"`
}

// Dep names one Go package and the functions to expose from it.
type Dep struct {
	// Pkg is the Go import path to load, e.g. "strings" or
	// "github.com/dustin/go-humanize".
	Pkg string `yaml:"pkg"`

	// As is the FEEL name prefix given to every bound function from this
	// package, e.g. "strings" turns Go's `Title` into FEEL's `stringsTitle`.
	As string `yaml:"as"`

	// Funcs lists the exported Go function names to bind. Every bound
	// function must have an all-basic-type signature (see inspect.go); a
	// function that doesn't satisfy that is reported as a config error
	// rather than silently skipped.
	Funcs []string `yaml:"funcs"`
}

// LoadConfig reads and validates a feel-bindgen.yaml file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, d := range cfg.Deps {
		if d.Pkg == "" {
			return Config{}, fmt.Errorf("deps[%d]: pkg is required", i)
		}
		if d.As == "" {
			return Config{}, fmt.Errorf("deps[%d]: as is required", i)
		}
		if len(d.Funcs) == 0 {
			return Config{}, fmt.Errorf("deps[%d] (%s): funcs is empty", i, d.Pkg)
		}
	}
	return cfg, nil
}
