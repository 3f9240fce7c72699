package tocin

import (
	"context"
	"fmt"

	irpkg "github.com/llir/llvm/ir"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/compiler"
	"github.com/tocin-lang/tocin/internal/diagnostics"
)

// Result carries whatever stage of the pipeline a caller asked for,
// plus every diagnostic collected along the way. AST is always
// populated if parsing reached a Module at all, even when later stages
// failed; IR is nil unless Compile ran and succeeded.
type Result struct {
	AST         *ast.Module
	IR          *irpkg.Module
	Diagnostics []diagnostics.Record
}

// HasErrors reports whether any diagnostic at Error severity or above
// was recorded.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diagnostics.SeverityError {
			return true
		}
	}
	return false
}

// Parse runs only the lexer and parser, returning the raw AST before
// any semantic analysis. Use this for tooling that only needs syntax
// (formatters, outline views) and wants to tolerate semantic errors.
func Parse(source string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sess := compiler.NewSession(opts.FilePath, source, opts.toSessionOptions())
	err := sess.ParseOnly()
	result := &Result{AST: sess.Module, Diagnostics: sess.Sink.Records()}
	if err != nil {
		return result, fmt.Errorf("tocin: parse: %w", err)
	}
	return result, nil
}

// Check runs the lexer, parser, and semantic analyzer, stopping short
// of IR lowering. Use this for editor-integration diagnostics where the
// caller never needs a compiled artifact.
func Check(ctx context.Context, source string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sess := compiler.NewSession(opts.FilePath, source, opts.toSessionOptions())
	err := sess.CheckOnly(ctx)
	result := &Result{AST: sess.Module, Diagnostics: sess.Sink.Records()}
	if err != nil {
		return result, fmt.Errorf("tocin: check: %w", err)
	}
	return result, nil
}

// Compile runs the full pipeline — lexer, parser, semantic analyzer,
// and IR lowerer — returning the lowered LLVM module alongside every
// diagnostic recorded along the way.
func Compile(ctx context.Context, source string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sess := compiler.NewSession(opts.FilePath, source, opts.toSessionOptions())
	err := sess.Compile(ctx)
	result := &Result{AST: sess.Module, IR: sess.IR, Diagnostics: sess.Sink.Records()}
	if err != nil {
		return result, fmt.Errorf("tocin: compile: %w", err)
	}
	return result, nil
}
