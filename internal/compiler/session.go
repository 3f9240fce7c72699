package compiler

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/irgen"
	"github.com/tocin-lang/tocin/internal/lexer"
	"github.com/tocin-lang/tocin/internal/modgraph"
	"github.com/tocin-lang/tocin/internal/parser"
	"github.com/tocin-lang/tocin/internal/sema"
	"github.com/tocin-lang/tocin/internal/types"

	irpkg "github.com/llir/llvm/ir"
)

// Target selects the code generation back end. spec.md §6 names "native"
// and "wasm"; there is no WASM back end, so both targets emit the same
// LLVM IR text and Target only picks the default output extension
// (.ll or .wat).
type Target string

const (
	TargetNative Target = "native"
	TargetWASM   Target = "wasm"
)

// Options mirrors the driver's flag surface from spec.md §6. Fields
// prefixed No* carry the five `--no-*` toggles; the compilation pipeline
// does not read them, so setting one changes nothing.
type Options struct {
	OutputPath string
	OptLevel   int
	Target     Target

	DumpAST bool
	DumpIR  bool
	Time    bool
	REPL    bool
	Debug   bool

	NoFFI         bool
	NoConcurrency bool
	NoAdvanced    bool
	NoMacros      bool
	NoAsync       bool

	Concurrency int
}

// DefaultOptions returns the flag defaults spec.md §6 specifies: -O2,
// native target, every --no-* toggle off.
func DefaultOptions() Options {
	return Options{
		OptLevel:    2,
		Target:      TargetNative,
		Concurrency: 1,
	}
}

// CompilationSession owns everything one source file's compilation
// needs: its own diagnostic sink, its own type table, and the lowered
// module it produces. Two Sessions compiling concurrently under
// CompileAll never share mutable state, replacing the global trait
// registry and global codegen context the source compiler used
// (spec.md §9 REDESIGN FLAGS).
type CompilationSession struct {
	ID     uuid.UUID
	File   string
	Source string
	Opts   Options

	Sink  *diagnostics.Sink
	Types *types.Table
	Graph *modgraph.Graph

	Module *ast.Module
	IR     *irpkg.Module

	log *logrus.Entry
}

// NewSession creates a CompilationSession for one source file, wiring a
// fresh Sink and type Table so it shares nothing mutable with any other
// session. ID distinguishes this session's log lines from a sibling
// session's when CompileAll runs several concurrently against the same
// file (e.g. a --watch loop recompiling after an edit).
func NewSession(file, source string, opts Options) *CompilationSession {
	sink := diagnostics.NewSink()
	id := uuid.New()
	return &CompilationSession{
		ID:     id,
		File:   file,
		Source: source,
		Opts:   opts,
		Sink:   sink,
		Types:  types.NewTable(),
		log:    logrus.WithFields(logrus.Fields{"file": file, "session_id": id.String()}),
	}
}

// phase times one pipeline stage when Opts.Time is set, logging through
// logrus the way the rest of the ambient stack does rather than writing
// to the diagnostic Sink, which is reserved for user-facing records.
func (s *CompilationSession) phase(name string, fn func() error) error {
	if !s.Opts.Time {
		return fn()
	}
	start := timeNow()
	err := fn()
	s.log.WithFields(logrus.Fields{
		"phase":       name,
		"duration_ms": timeNow().Sub(start).Milliseconds(),
	}).Debug("phase complete")
	return err
}

// timeNow is the single indirection point for wall-clock reads so tests
// never depend on real time passing; production always calls
// time.Now() through it.
var timeNow = func() time.Time { return time.Now() }

// Compile runs the lexer, parser, semantic analyzer, and IR lowerer in
// sequence, stopping as soon as ctx is cancelled or a phase reports an
// error. It recovers an internal panic into an internal-compiler-error
// diagnostic rather than letting one malformed input bring down a whole
// CompileAll batch (spec.md §7's "a compiler panic is always a bug;
// report it, never crash the process").
func (s *CompilationSession) Compile(ctx context.Context) (err error) {
	defer s.recoverICE(&err)

	if err := s.CheckOnly(ctx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.phase("irgen", func() error {
		lw := irgen.New(moduleName(s.File), s.File, s.Types, s.Sink)
		s.IR = lw.Lower(s.Module)
		return nil
	}); err != nil {
		return err
	}
	if s.Sink.HasErrors() {
		return errors.Newf("%s: codegen errors", s.File)
	}

	if problems := irgen.Verify(s.IR); len(problems) > 0 {
		for _, p := range problems {
			s.Sink.Reportf(diagnostics.SeverityFatal, "C001_MALFORMED_IR", s.File, 0, 0, "%s", p)
		}
		return errors.Newf("%s: %d structural IR problems", s.File, len(problems))
	}

	return nil
}

// CheckOnly runs the lexer, parser, and semantic analyzer, stopping
// short of IR lowering — the prefix pkg/tocin.Check exposes for callers
// that only need diagnostics.
func (s *CompilationSession) CheckOnly(ctx context.Context) (err error) {
	defer s.recoverICE(&err)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.ParseOnly(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.phase("sema", func() error {
		a := sema.New(s.File, s.Sink)
		a.Analyze(s.Module)
		s.Types = a.Types
		return nil
	}); err != nil {
		return err
	}
	if s.Sink.HasErrors() {
		return errors.Newf("%s: semantic analysis errors", s.File)
	}
	return nil
}

// ParseOnly runs the lexer and parser, stopping short of semantic
// analysis — the prefix pkg/tocin.Parse exposes for syntax-only tools.
func (s *CompilationSession) ParseOnly() (err error) {
	defer s.recoverICE(&err)

	if err := s.phase("lex+parse", func() error {
		l := lexer.New(s.File, s.Source, s.Sink)
		p := parser.New(s.File, l, s.Sink)
		s.Module = p.Parse()
		return nil
	}); err != nil {
		return err
	}
	if s.Sink.HasErrors() {
		return errors.Newf("%s: parse errors", s.File)
	}
	return nil
}

// recoverICE turns a panic anywhere inside the deferring method into an
// internal-compiler-error diagnostic and an error return, rather than
// letting one malformed input bring down a whole CompileAll batch
// (spec.md §7: "a compiler panic is always a bug; report it, never
// crash the process").
func (s *CompilationSession) recoverICE(err *error) {
	if r := recover(); r != nil {
		wrapped := errors.Newf("internal compiler error while compiling %s: %v", s.File, r)
		s.Sink.Reportf(diagnostics.SeverityFatal, "I001_INTERNAL_ERROR", s.File, 0, 0, "%s", wrapped.Error())
		*err = wrapped
	}
}

func moduleName(file string) string {
	name := file
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' || file[i] == '\\' {
			name = file[i+1:]
			break
		}
	}
	return name
}
