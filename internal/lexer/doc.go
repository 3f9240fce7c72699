// Package lexer converts Tocin source bytes into a token stream.
//
// Scanning is greedy longest-match, with INDENT/DEDENT tokens synthesized
// from a stack of indentation-column widths the way Python's tokenizer
// does. Lexical errors are pushed to a diagnostics.Sink rather than
// returned, so a single pass can surface every problem in a file instead
// of stopping at the first one.
package lexer
