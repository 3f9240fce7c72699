// Package sema implements Tocin's semantic analysis phase: name
// resolution, type inference and assignability, trait resolution,
// generic instantiation, null-safety flow narrowing, ownership/move
// checking, and Option/Result exhaustiveness (spec.md §4.3).
//
// Analyzer.resolve dispatches over the concrete internal/ast node types
// the way the teacher's internal/converter.ConvertNode dispatches over
// TypeScript node kinds, but rather than building a parallel tree it
// returns a resolved types.TypeID for the node and annotates
// ast.BaseNode.ResolvedType in place, accumulating diagnostics on a
// shared sink instead of returning errors.
package sema
