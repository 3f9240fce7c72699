// Package parser implements Tocin's syntactic analysis phase.
//
// The parser consumes tokens from an internal/lexer.Lexer via a
// two-token lookahead (current/peek) and constructs the internal/ast
// tree through recursive descent, with precedence climbing for binary
// expressions (spec.md §4.2). A malformed statement is recovered from
// by synchronizing to the next statement-starter keyword so a single
// parse can surface more than one syntax error.
//
// This package is internal; external callers use pkg/tocin.
package parser
