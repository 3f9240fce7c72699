// Package compiler wires the lexer, parser, semantic analyzer, and IR
// lowerer into the single-unit pipeline the driver runs once per input
// file, plus the errgroup-bounded fan-out that runs several units in
// parallel (spec.md §5: "each owns an independent LLVM context and
// diagnostic sink").
//
// CompilationSession replaces the source compiler's global trait
// registry and global LLVM initialization (spec.md §9's REDESIGN
// FLAGS): every registry that pipeline phase needs lives on the
// Session instead, so two Sessions compiling concurrently never touch
// each other's state except the read-only Options they were both
// constructed with.
package compiler
