package types

import "sync"

// Table interns Types, handing out stable TypeIDs so that subsequent
// equality checks and generic-instantiation cache lookups are simple
// integer comparisons instead of deep structural walks.
type Table struct {
	mu      sync.Mutex
	byKey   map[string]TypeID
	byID    []Type
}

// NewTable creates an empty Table. Basic types are interned on first
// use, like any other type.
func NewTable() *Table {
	t := &Table{byKey: make(map[string]TypeID)}
	return t
}

// Intern returns the canonical TypeID for typ, interning it if this is
// the first time this structural shape has been seen.
func (t *Table) Intern(typ Type) TypeID {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := typ.key()
	if id, ok := t.byKey[k]; ok {
		return id
	}
	id := TypeID(len(t.byID))
	t.byID = append(t.byID, typ)
	t.byKey[k] = id
	return id
}

// Get resolves a TypeID back to its Type value.
func (t *Table) Get(id TypeID) Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byID[id]
}

// Equal reports whether two TypeIDs name the same interned type. Since
// Intern deduplicates by structural key, this is identifier equality.
func (t *Table) Equal(a, b TypeID) bool {
	return a == b
}

// Clone returns id unchanged: interned types are immutable, so cloning
// a Type is returning the same identifier (spec.md §3's "deep clone"
// requirement is satisfied trivially once types are interned by value).
func (t *Table) Clone(id TypeID) TypeID {
	return id
}

// String renders a TypeID using Tocin's surface syntax.
func (t *Table) String(id TypeID) string {
	return t.stringOf(t.Get(id))
}

func (t *Table) stringOf(typ Type) string {
	switch typ.Kind {
	case KindBasic:
		return typ.Basic.String()
	case KindNamed:
		if len(typ.TypeArgs) == 0 {
			return typ.Name
		}
		return typ.Name + "<" + joinTypeIDs(t, typ.TypeArgs) + ">"
	case KindFunction:
		prefix := ""
		if typ.IsAsync {
			prefix = "async "
		}
		return prefix + "(" + joinTypeIDs(t, typ.Params) + ") -> " + t.String(typ.Result)
	case KindTuple:
		return "(" + joinTypeIDs(t, typ.Elems) + ")"
	case KindArray:
		if typ.HasLen {
			return "[" + t.String(typ.Elem) + "; " + itoa(typ.Length) + "]"
		}
		return "[" + t.String(typ.Elem) + "]"
	case KindPointer:
		return "*" + t.String(typ.Elem)
	case KindReference:
		if typ.Mut {
			return "&mut " + t.String(typ.Elem)
		}
		return "&" + t.String(typ.Elem)
	case KindNullable:
		return t.String(typ.Elem) + "?"
	case KindOption:
		return "Option<" + t.String(typ.Elem) + ">"
	case KindResult:
		return "Result<" + t.String(typ.Ok) + ", " + t.String(typ.Err) + ">"
	case KindChannel:
		return "Channel<" + t.String(typ.Elem) + ">"
	case KindTypeParameter:
		return typ.Name
	case KindTraitObject:
		if len(typ.TypeArgs) == 0 {
			return "dyn " + typ.Trait
		}
		return "dyn " + typ.Trait + "<" + joinTypeIDs(t, typ.TypeArgs) + ">"
	default:
		return "?"
	}
}

func joinTypeIDs(t *Table, ids []TypeID) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ", "
		}
		s += t.String(id)
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Convenience constructors, mirroring the Type variant list in spec.md §3.

func (t *Table) NewBasic(b BasicKind) TypeID { return t.Intern(Type{Kind: KindBasic, Basic: b}) }

func (t *Table) NewNamed(name string, args []TypeID) TypeID {
	return t.Intern(Type{Kind: KindNamed, Name: name, TypeArgs: args})
}

func (t *Table) NewFunction(params []TypeID, result TypeID, async bool) TypeID {
	return t.Intern(Type{Kind: KindFunction, Params: params, Result: result, IsAsync: async})
}

func (t *Table) NewTuple(elems []TypeID) TypeID {
	return t.Intern(Type{Kind: KindTuple, Elems: elems})
}

func (t *Table) NewArray(elem TypeID, length int, hasLen bool) TypeID {
	return t.Intern(Type{Kind: KindArray, Elem: elem, Length: length, HasLen: hasLen})
}

func (t *Table) NewPointer(elem TypeID) TypeID {
	return t.Intern(Type{Kind: KindPointer, Elem: elem})
}

func (t *Table) NewReference(elem TypeID, mut bool) TypeID {
	return t.Intern(Type{Kind: KindReference, Elem: elem, Mut: mut})
}

func (t *Table) NewNullable(elem TypeID) TypeID {
	return t.Intern(Type{Kind: KindNullable, Elem: elem})
}

func (t *Table) NewOption(elem TypeID) TypeID {
	return t.Intern(Type{Kind: KindOption, Elem: elem})
}

func (t *Table) NewResult(ok, err TypeID) TypeID {
	return t.Intern(Type{Kind: KindResult, Ok: ok, Err: err})
}

func (t *Table) NewChannel(elem TypeID, cap ChannelCap) TypeID {
	return t.Intern(Type{Kind: KindChannel, Elem: elem, Cap: cap})
}

// NewFuture builds the external type of an async function: spec.md §4.3
// says "an async function with return type T is externally typed
// Future<T>". Future<T> has no dedicated Kind of its own — it is a
// Named type the way Option/Result's generic cousins are, so the
// existing KindNamed machinery (equality, cloning, irgen's opaque
// lowering) applies to it unchanged.
func (t *Table) NewFuture(elem TypeID) TypeID {
	return t.NewNamed("Future", []TypeID{elem})
}

func (t *Table) NewTypeParameter(name string, bounds []string) TypeID {
	return t.Intern(Type{Kind: KindTypeParameter, Name: name, Bounds: bounds})
}

func (t *Table) NewTraitObject(trait string, args []TypeID) TypeID {
	return t.Intern(Type{Kind: KindTraitObject, Trait: trait, TypeArgs: args})
}
