// Package symbols implements name resolution: the Symbol table entries
// the semantic analyzer produces, and the explicit Scope stack it
// resolves names against.
//
// Per spec.md §9 REDESIGN FLAGS, scopes are an explicit stack of maps
// owned by the analyzer rather than Scope objects threaded through the
// AST; each Scope also links to the one below it on the stack, and
// lookups walk those links. Enter/Exit discipline replaces constructor/
// destructor-based RAII scope guards.
package symbols

import "github.com/tocin-lang/tocin/internal/types"

// Ownership describes the move-semantics state of a local binding
// (spec.md §4.3 O-rules).
type Ownership int

const (
	Owned Ownership = iota
	Borrowed
	Moved
)

// Kind discriminates what a Symbol names.
type Kind int

const (
	KindVar Kind = iota
	KindFunc
	KindParam
	KindClass
	KindTrait
	KindTypeParam
	KindField
	KindModule
)

// Symbol is one resolved name: a variable, function, type, or module.
type Symbol struct {
	Name      string
	Kind      Kind
	Type      types.TypeID
	Mut       bool
	Ownership Ownership

	// DeclLine/DeclColumn locate the declaration for diagnostics that
	// reference "declared at" (e.g. O002_USE_AFTER_MOVE).
	DeclLine   int
	DeclColumn int

	// NullGuarded records whether a flow-sensitive null check currently
	// narrows this symbol's nullable type to its non-null form
	// (spec.md's "flow-sensitive narrowing").
	NullGuarded bool
}
