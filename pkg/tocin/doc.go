// Package tocin is the public API for embedding the Tocin compiler:
// parse source into an AST, type-check it, or lower it all the way to
// LLVM IR, without reaching into internal/ packages directly.
//
// Architecture mirrors the teacher's public-facing package
// (pkg/typescriptestree): a fluent OptionsBuilder constructs validated
// Options, and Parse/Check/Compile each wrap one prefix of
// internal/compiler's pipeline, returning a Result carrying whatever
// that prefix produced plus every diagnostic.Record the run collected.
package tocin
