// Command tocin is the ahead-of-time Tocin compiler's CLI front end.
//
// # Usage
//
//	tocin [flags] <file>
//
// See spec.md §6 for the full flag surface; `tocin --help` lists it.
// Exit codes: 0 success, 1 usage error or compilation failure, 2
// internal compiler error.
package main
