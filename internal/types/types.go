// Package types implements Tocin's semantic type system: a structural,
// immutable Type value shared by reference once interned, plus the
// Table that performs the interning.
//
// Per spec.md §9 REDESIGN FLAGS, this replaces the source compiler's
// reference-counted, freely-aliased type nodes with an interned table
// keyed by a structural key and returning a stable TypeID; equality
// becomes identifier comparison instead of a deep structural walk once
// two types have been interned through the same Table.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the Type sum described in spec.md §3.
type Kind int

// Type kinds.
const (
	KindBasic Kind = iota
	KindNamed
	KindFunction
	KindTuple
	KindArray
	KindPointer
	KindReference
	KindNullable
	KindOption
	KindResult
	KindChannel
	KindTypeParameter
	KindTraitObject
)

// BasicKind enumerates the built-in scalar/void/unknown types.
type BasicKind int

// Basic kinds.
const (
	Void BasicKind = iota
	Bool
	Int
	Float
	Char
	String
	Unknown
)

func (b BasicKind) String() string {
	switch b {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Char:
		return "char"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// ChannelCap flags which operations a Channel type supports.
type ChannelCap int

// Channel capability flags, combinable with |.
const (
	CanSend ChannelCap = 1 << iota
	CanReceive
)

// TypeID is a stable identifier for an interned Type. Two types compare
// equal iff they have the same TypeID within the same Table.
type TypeID int

// Type is an immutable, structurally-comparable semantic type. Fields
// not relevant to Kind are zero. Types are never mutated after
// interning; Table.Intern returns the canonical instance for a given
// structural shape.
type Type struct {
	Kind Kind

	// Basic
	Basic BasicKind

	// Named: a class or trait name with optional type arguments.
	Name     string
	TypeArgs []TypeID

	// Function
	Params  []TypeID
	Result  TypeID
	IsAsync bool

	// Tuple / Array
	Elems  []TypeID
	Elem   TypeID
	Length int // element count; meaningful only when HasLen is set
	HasLen bool

	// Pointer / Reference
	Mut bool

	// TypeParameter
	Bounds []string // trait names, in declaration order

	// TraitObject
	Trait string

	// Result
	Ok  TypeID
	Err TypeID

	// Channel
	Cap ChannelCap
}

func (t Type) key() string {
	var b strings.Builder
	switch t.Kind {
	case KindBasic:
		fmt.Fprintf(&b, "basic:%d", t.Basic)
	case KindNamed:
		fmt.Fprintf(&b, "named:%s<%v>", t.Name, t.TypeArgs)
	case KindFunction:
		fmt.Fprintf(&b, "fn:%v->%d:async=%v", t.Params, t.Result, t.IsAsync)
	case KindTuple:
		fmt.Fprintf(&b, "tuple:%v", t.Elems)
	case KindArray:
		fmt.Fprintf(&b, "array:%d:%v:%d", t.Elem, t.HasLen, t.Length)
	case KindPointer:
		fmt.Fprintf(&b, "ptr:%d", t.Elem)
	case KindReference:
		fmt.Fprintf(&b, "ref:%d:mut=%v", t.Elem, t.Mut)
	case KindNullable:
		fmt.Fprintf(&b, "nullable:%d", t.Elem)
	case KindOption:
		fmt.Fprintf(&b, "option:%d", t.Elem)
	case KindResult:
		fmt.Fprintf(&b, "result:%d:%d", t.Ok, t.Err)
	case KindChannel:
		fmt.Fprintf(&b, "chan:%d:%d", t.Elem, t.Cap)
	case KindTypeParameter:
		fmt.Fprintf(&b, "typaram:%s:%v", t.Name, t.Bounds)
	case KindTraitObject:
		fmt.Fprintf(&b, "traitobj:%s<%v>", t.Trait, t.TypeArgs)
	}
	return b.String()
}

// Equals reports structural equality. Generic arguments are compared
// pointwise and invariantly (spec.md §4.3), as are function parameter
// lists and tuple/array element types.
func (t Type) Equals(o Type) bool {
	return t.key() == o.key()
}
