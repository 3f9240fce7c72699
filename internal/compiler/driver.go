package compiler

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/lexer"
	"github.com/tocin-lang/tocin/internal/modgraph"
	"github.com/tocin-lang/tocin/internal/parser"
)

// CompileAll compiles every file independently and concurrently, each
// under its own CompilationSession, bounded by opts.Concurrency the way
// runN in the pack's flow package bounds a batch's goroutines with
// errgroup.SetLimit. Results preserve the input order regardless of
// which goroutine finishes first.
func CompileAll(ctx context.Context, files []string, opts Options) ([]*CompilationSession, error) {
	sessions := make([]*CompilationSession, len(files))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for i, file := range files {
		group.Go(func() error {
			src, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			sess := NewSession(file, string(src), opts)
			sessions[i] = sess
			return sess.Compile(groupCtx)
		})
	}

	err := group.Wait()
	return sessions, err
}

// CheckImportGraph resolves and walks the transitive import graph
// rooted at entryFile, reporting G001_IMPORT_CYCLE / G002_MODULE_NOT_FOUND
// through sink. It parses each module but skips semantic analysis, so a
// caller can run it ahead of the full pipeline and catch cycles before
// any CompilationSession spends time on semantic analysis;
// CompilationSession.Compile does not call it.
func CheckImportGraph(entryFile string, sink *diagnostics.Sink) error {
	resolver := modgraph.NewResolver(filepath.Dir(entryFile))
	load := func(absPath string) ([][]string, error) {
		return scanImports(absPath, sink)
	}
	graph := modgraph.NewGraph(resolver, sink, load)
	return graph.Walk(entryFile)
}

// scanImports lexes and parses absPath far enough to collect its
// `import` declarations without running semantic analysis, matching
// modgraph.Loader's contract.
func scanImports(absPath string, sink *diagnostics.Sink) ([][]string, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	// A per-file scratch sink keeps parse errors encountered while
	// collecting imports from leaking into the caller's diagnostic
	// stream; CheckImportGraph runs ahead of the real parse that will
	// surface them properly.
	scratch := diagnostics.NewSink()
	l := lexer.New(absPath, string(src), scratch)
	p := parser.New(absPath, l, scratch)
	mod := p.Parse()

	var imports [][]string
	for _, d := range mod.Decls {
		if imp, ok := d.(*ast.Import); ok {
			imports = append(imports, imp.Path)
		}
	}
	return imports, nil
}
