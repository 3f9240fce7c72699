// Package ast defines the untyped-then-typed abstract syntax tree shared
// by the parser, semantic analyzer, and IR lowerer.
//
// Node kinds are expressed as a tagged sum (a Kind enum plus one concrete
// Go struct per node) rather than as a classic Visitor/accept hierarchy:
// this makes exhaustive handling statically checkable by `go vet`'s
// switch-completeness tooling and removes the null-polymorphism hazards
// of virtual dispatch over a shared base pointer. Every node embeds
// BaseNode, which carries the originating token and a mutable type
// annotation slot that the semantic analyzer fills in.
package ast
