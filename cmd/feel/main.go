// Command feel is the CLI collaborator of spec.md §6: it reads an
// expression from argv or a file, decodes a --context JSON blob to a host
// map, and prints the result or an error, exiting non-zero on failure.
// Grounded in the teacher's cmd/funxy/main.go flag-less argument handling,
// extended with a flag package (the teacher has no CLI flags to parse; FEEL
// does) and the isatty color-detection idiom from
// funvibe-funxy/internal/evaluator/builtins_term.go.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize/english"
	"github.com/mattn/go-isatty"

	"github.com/feel-lang/feel/internal/config"
	"github.com/feel-lang/feel/internal/evaluator"
	"github.com/feel-lang/feel/internal/store"
	"github.com/feel-lang/feel/pkg/embed"
	"github.com/feel-lang/feel/pkg/feel"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "save":
			return runSave(args[1:])
		case "run":
			return runSaved(args[1:])
		}
	}
	return runEvaluate(args)
}

func runEvaluate(args []string) int {
	fs := flag.NewFlagSet("feel", flag.ContinueOnError)
	contextJSON := fs.String("context", "", "JSON object of variables, e.g. '{\"age\": 30}'")
	configPath := fs.String("config", "", "path to a YAML EngineOptions file")
	colorMode := fs.String("color", "auto", "colorize output: auto, always, never")
	verbose := fs.Bool("v", false, "print the request id alongside the result")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: feel [flags] <expression | file.feel>")
		return 2
	}

	opts := config.Default()
	if *configPath != "" {
		var err error
		opts, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	vars, err := parseContext(*contextJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid --context:", err)
		return 2
	}

	engine := feel.New(feel.Options{MaxRecursionDepth: opts.MaxRecursionDepth})
	useColor := shouldColor(*colorMode)

	source := fs.Arg(0)
	if isFeelFile(source) {
		return runFile(engine, source, vars, useColor, *verbose)
	}
	return runOne(engine, source, vars, useColor, *verbose)
}

func isFeelFile(arg string) bool {
	if _, err := os.Stat(arg); err != nil {
		return false
	}
	return strings.HasSuffix(arg, ".feel") || strings.Contains(arg, "/") || strings.Contains(arg, string(os.PathSeparator))
}

// runFile evaluates one expression per non-comment, non-blank line (spec.md
// §6's CLI boundary: "a file (one per line, `#` starts comment)").
func runFile(engine *feel.Engine, path string, vars map[string]evaluator.Value, useColor, verbose bool) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer f.Close()

	status := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if code := evaluateAndPrint(engine, line, vars, useColor, verbose); code != 0 {
			status = code
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return status
}

func runOne(engine *feel.Engine, expr string, vars map[string]evaluator.Value, useColor, verbose bool) int {
	return evaluateAndPrint(engine, expr, vars, useColor, verbose)
}

func evaluateAndPrint(engine *feel.Engine, expr string, vars map[string]evaluator.Value, useColor, verbose bool) int {
	result := engine.EvaluateExpression(expr, vars)
	if !result.Success {
		fmt.Fprintln(os.Stderr, colorize(useColor, 31, result.Message))
		return 1
	}
	fmt.Println(formatValue(result.Value.(evaluator.Value), useColor))
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, colorize(useColor, 33, fmt.Sprintf("warning: %s (%s)", w.Message, w.Kind)))
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "request-id:", result.RequestID)
	}
	return 0
}

func formatValue(v evaluator.Value, useColor bool) string {
	switch d := v.(type) {
	case *evaluator.DayTimeDuration:
		return colorize(useColor, 36, humanizeDayTimeDuration(d))
	case *evaluator.YearMonthDuration:
		return colorize(useColor, 36, humanizeYearMonthDuration(d))
	default:
		return colorize(useColor, 32, v.Inspect())
	}
}

// humanizeDayTimeDuration renders e.g. "3 days, 4 hours" using
// humanize.Plural for each nonzero unit, kept alongside the canonical
// Inspect() ISO-8601 form which remains what evaluation/round-tripping use.
func humanizeDayTimeDuration(d *evaluator.DayTimeDuration) string {
	dur := d.Duration()
	neg := dur < 0
	if neg {
		dur = -dur
	}
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	mins := int(dur.Minutes()) % 60
	secs := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, humanize.Plural(days, "day", "days"))
	}
	if hours > 0 {
		parts = append(parts, humanize.Plural(hours, "hour", "hours"))
	}
	if mins > 0 {
		parts = append(parts, humanize.Plural(mins, "minute", "minutes"))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, humanize.Plural(secs, "second", "seconds"))
	}
	out := strings.Join(parts, ", ")
	if neg {
		out = "-" + out
	}
	return out + " (" + d.Inspect() + ")"
}

func humanizeYearMonthDuration(d *evaluator.YearMonthDuration) string {
	m := d.Months
	neg := m < 0
	if neg {
		m = -m
	}
	var parts []string
	if years := m / 12; years > 0 {
		parts = append(parts, humanize.Plural(int(years), "year", "years"))
	}
	if months := m % 12; months > 0 || len(parts) == 0 {
		parts = append(parts, humanize.Plural(int(months), "month", "months"))
	}
	out := strings.Join(parts, ", ")
	if neg {
		out = "-" + out
	}
	return out + " (" + d.Inspect() + ")"
}

func colorize(enabled bool, code int, s string) string {
	if !enabled {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, s)
}

func shouldColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

func parseContext(raw string) (map[string]evaluator.Value, error) {
	if raw == "" {
		return nil, nil
	}
	var host map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &host); err != nil {
		return nil, err
	}
	return embed.ToVariables(embed.DefaultMapper{}, host)
}

func defaultStorePath() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir + "/.feel/expressions.db"
	}
	return "feel-expressions.db"
}

func openStore() (*store.Library, int) {
	path := defaultStorePath()
	if err := os.MkdirAll(parentDir(path), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1
	}
	lib, err := store.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1
	}
	return lib, 0
}

func parentDir(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "."
	}
	return path[:i]
}

func runSave(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: feel save <name> <expression>")
		return 2
	}
	lib, code := openStore()
	if lib == nil {
		return code
	}
	defer lib.Close()

	if err := lib.Save(args[0], args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSaved(args []string) int {
	fs := flag.NewFlagSet("feel run", flag.ContinueOnError)
	contextJSON := fs.String("context", "", "JSON object of variables")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: feel run [--context json] <name>")
		return 2
	}

	lib, code := openStore()
	if lib == nil {
		return code
	}
	defer lib.Close()

	entry, err := lib.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	vars, err := parseContext(*contextJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid --context:", err)
		return 2
	}

	engine := feel.New(feel.Options{})
	return evaluateAndPrint(engine, entry.Text, vars, shouldColor("auto"), false)
}
