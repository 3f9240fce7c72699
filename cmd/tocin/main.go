package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/tocin-lang/tocin/internal/compiler"
	"github.com/tocin-lang/tocin/internal/diagnostics"
)

// cli is Kong's declarative description of spec.md §6's flag surface.
// Kong derives usage text and -h/--help straight from these tags, the
// same declarative approach the teacher's flag-based main.go achieved
// by hand with PrintDefaults.
type cli struct {
	File string `arg:"" optional:"" help:"Input source file." type:"existingfile"`

	Output  string `short:"o" help:"Output file path (default: input with .ll/.wat extension)."`
	OptCode int    `short:"O" enum:"0,1,2,3" default:"2" help:"Optimization level 0-3."`
	Target  string `help:"Code generation target." enum:"native,wasm" default:"native"`

	DumpAST bool `help:"Print the parsed AST."`
	DumpIR  bool `help:"Print the lowered LLVM IR to stdout."`
	Time    bool `help:"Print a per-phase timing summary."`
	REPL    bool `short:"r" help:"Start an interactive REPL."`
	Debug   bool `help:"Enable verbose internal logging."`

	NoFFI         bool `help:"Python FFI bridge toggle (accepted, has no effect)."`
	NoConcurrency bool `help:"Goroutine/channel lowering toggle (accepted, has no effect)."`
	NoAdvanced    bool `help:"Advanced type-system features toggle (accepted, has no effect)."`
	NoMacros      bool `help:"Macro pre-expansion toggle (accepted, has no effect)."`
	NoAsync       bool `help:"Async/await lowering toggle (accepted, has no effect)."`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code spec.md §6 specifies: 0 success, 1
// usage error or compilation failure, 2 internal compiler error. It is
// split out from main so tests can drive it without an os.Exit call
// tearing down the test binary.
func run(args []string) int {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("tocin"),
		kong.Description("Ahead-of-time compiler for the Tocin language."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if c.Debug || c.Time {
		// Per-phase timings are logged at debug level, so --time needs it.
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	if c.REPL {
		return runREPL(c)
	}

	if c.File == "" {
		fmt.Fprintln(os.Stderr, "tocin: a source file is required unless -r is given")
		return 1
	}

	return compileFile(c)
}

func compileFile(c cli) int {
	src, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tocin: %v\n", err)
		return 1
	}

	opts := compiler.Options{
		OutputPath:    c.Output,
		OptLevel:      c.OptCode,
		Target:        compiler.Target(c.Target),
		DumpAST:       c.DumpAST,
		DumpIR:        c.DumpIR,
		Time:          c.Time,
		Debug:         c.Debug,
		NoFFI:         c.NoFFI,
		NoConcurrency: c.NoConcurrency,
		NoAdvanced:    c.NoAdvanced,
		NoMacros:      c.NoMacros,
		NoAsync:       c.NoAsync,
		Concurrency:   1,
	}

	sess := compiler.NewSession(c.File, string(src), opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	compileErr := sess.Compile(ctx)

	if opts.DumpAST && sess.Module != nil {
		fmt.Printf("%#v\n", sess.Module)
	}

	printDiagnostics(sess.Sink)

	if compileErr != nil && sess.Sink.HasFatal() {
		return 2
	}
	if sess.Sink.HasErrors() {
		return 1
	}

	if opts.DumpIR && sess.IR != nil {
		fmt.Println(sess.IR.String())
	}

	if err := writeOutput(sess, opts); err != nil {
		fmt.Fprintf(os.Stderr, "tocin: %v\n", err)
		return 1
	}

	if opts.Time {
		fmt.Fprintf(os.Stderr, "tocin: total %s\n", time.Since(start))
	}

	return 0
}

func writeOutput(sess *compiler.CompilationSession, opts compiler.Options) error {
	if sess.IR == nil {
		return nil
	}
	out := opts.OutputPath
	if out == "" {
		ext := ".ll"
		if opts.Target == compiler.TargetWASM {
			ext = ".wat"
		}
		out = strings.TrimSuffix(sess.File, filepath.Ext(sess.File)) + ext
	}
	return os.WriteFile(out, []byte(sess.IR.String()), 0o644)
}

// printDiagnostics renders every record in sorted order as
// "file:line:col: severity: CODE: message", colorized by severity when
// stdout is a terminal, matching spec.md §7's wire format.
func printDiagnostics(sink *diagnostics.Sink) {
	records := sink.Records()
	for _, r := range records {
		fmt.Fprintln(os.Stderr, colorize(r.Severity, r.Format()))
	}
	if len(records) > 0 {
		fmt.Fprintf(os.Stderr, "%d diagnostic(s)\n", len(records))
	}
}

func colorize(sev diagnostics.Severity, s string) string {
	switch sev {
	case diagnostics.SeverityFatal, diagnostics.SeverityError:
		return color.RedString("%s", s)
	case diagnostics.SeverityWarning:
		return color.YellowString("%s", s)
	default:
		return s
	}
}

func runREPL(c cli) int {
	fmt.Fprintln(os.Stderr, "tocin: REPL mode is not implemented by this compiler (spec.md Non-goals)")
	return 1
}
