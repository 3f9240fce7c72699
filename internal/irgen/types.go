package irgen

import (
	"strings"

	irtypes "github.com/llir/llvm/ir/types"

	"github.com/tocin-lang/tocin/internal/types"
)

// stringRepr is the lowered representation of Tocin's string type: a
// raw byte pointer, matching the `i8*` the runtime ABI's
// int_to_string/float_to_string/string_concat take and return
// (spec.md §6) rather than a separate length-prefixed struct the
// runtime would need to unpack on every call.
var stringRepr = irtypes.NewPointer(irtypes.I8)

// mapType converts a semantic TypeID to its LLVM representation. Kinds
// that can't appear after a clean semantic pass (e.g. an unresolved
// KindTypeParameter reaching codegen because monomorphization skipped
// it) fall back to an opaque i8* rather than panicking, since a lowering
// bug should surface as a verify.go diagnostic, not a crash.
func (lw *Lowerer) mapType(id types.TypeID) irtypes.Type {
	if t, ok := lw.typeCache[id]; ok {
		return t
	}
	t := lw.mapTypeUncached(id)
	lw.typeCache[id] = t
	return t
}

func (lw *Lowerer) mapTypeUncached(id types.TypeID) irtypes.Type {
	typ := lw.Types.Get(id)
	switch typ.Kind {
	case types.KindBasic:
		return mapBasic(typ.Basic)
	case types.KindNamed:
		switch typ.Name {
		case "List":
			// A growable list lowers to the same {len, data} slice
			// shape as a fixed-size array without a compile-time
			// length, matching elementTypeOf's expectation in
			// stmt.go's for-in lowering.
			return lw.listStruct(typ.TypeArgs[0])
		case "Dict":
			// Parallel key/value arrays rather than a real hash table:
			// the runtime ABI for an actual hash map is out of scope
			// (no __tocin_dict_* entry exists in spec.md §6), so a
			// linear-scan layout is the simplest structurally-sound
			// stand-in that still type-checks field access.
			return lw.dictStruct(typ.TypeArgs[0], typ.TypeArgs[1])
		case "Future":
			// The runtime owns a Future's real layout; the compiler only
			// ever holds the opaque handle spec.md's table assigns it,
			// the same way a Channel lowers.
			return voidPtr
		default:
			return irtypes.NewPointer(lw.classStruct(typ.Name, typ.TypeArgs))
		}
	case types.KindFunction:
		params := make([]irtypes.Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = lw.mapType(p)
		}
		return irtypes.NewPointer(irtypes.NewFunc(lw.mapType(typ.Result), params...))
	case types.KindTuple:
		elems := make([]irtypes.Type, len(typ.Elems))
		for i, e := range typ.Elems {
			elems[i] = lw.mapType(e)
		}
		return irtypes.NewStruct(elems...)
	case types.KindArray:
		elem := lw.mapType(typ.Elem)
		if typ.HasLen {
			return irtypes.NewArray(uint64(typ.Length), elem)
		}
		return irtypes.NewStruct(irtypes.I64, irtypes.NewPointer(elem))
	case types.KindPointer:
		return irtypes.NewPointer(lw.mapType(typ.Elem))
	case types.KindReference:
		return irtypes.NewPointer(lw.mapType(typ.Elem))
	case types.KindNullable:
		return lw.optionLikeStruct("Nullable", []types.TypeID{typ.Elem})
	case types.KindOption:
		return lw.optionLikeStruct("Option", []types.TypeID{typ.Elem})
	case types.KindResult:
		return lw.optionLikeStruct("Result", []types.TypeID{typ.Ok, typ.Err})
	case types.KindChannel:
		// The runtime owns the channel's real layout; the compiler only
		// ever holds an opaque handle to it (spec.md's go/channel ABI).
		return irtypes.NewPointer(irtypes.I8)
	case types.KindTypeParameter:
		return irtypes.NewPointer(irtypes.I8)
	case types.KindTraitObject:
		// Fat pointer: {data, vtable}, the same shape Go gives an
		// interface value.
		return irtypes.NewStruct(irtypes.NewPointer(irtypes.I8), irtypes.NewPointer(irtypes.I8))
	default:
		return irtypes.NewPointer(irtypes.I8)
	}
}

func mapBasic(b types.BasicKind) irtypes.Type {
	switch b {
	case types.Void:
		return irtypes.Void
	case types.Bool:
		return irtypes.I1
	case types.Int:
		return irtypes.I64
	case types.Float:
		return irtypes.Double
	case types.Char:
		return irtypes.I32
	case types.String:
		return stringRepr
	default:
		return irtypes.NewPointer(irtypes.I8)
	}
}

// classStruct returns the (possibly generic-monomorphized) named LLVM
// struct type for a Tocin class, creating and caching it the first time
// it's requested. Fields are resolved lazily by defineClassBody once
// the class's own ClassDecl has been registered, so a class that
// references itself (a linked-list node holding a pointer to its own
// type) doesn't recurse infinitely while building the struct.
func (lw *Lowerer) classStruct(name string, typeArgs []types.TypeID) *irtypes.StructType {
	mangled := lw.mangleName(name, typeArgs)
	if st, ok := lw.classes[mangled]; ok {
		return st
	}
	st := irtypes.NewStruct()
	st.TypeName = mangled
	st.Opaque = true
	lw.classes[mangled] = st
	lw.Mod.NewTypeDef(mangled, st)
	lw.pendingClasses = append(lw.pendingClasses, pendingClass{mangled: mangled, name: name, typeArgs: typeArgs, st: st})
	if len(typeArgs) > 0 {
		// A generic instantiation is only requested once collectDecls has
		// registered every ClassDecl, often after Lower's pending-class
		// pass has already run, so its fields are laid out right away.
		lw.defineClassBody(lw.pendingClasses[len(lw.pendingClasses)-1])
	}
	return st
}

// listStruct returns the cached {i64 len, T* data} struct for a List<T>
// instantiation.
func (lw *Lowerer) listStruct(elem types.TypeID) *irtypes.StructType {
	mangled := lw.mangleName("List", []types.TypeID{elem})
	if st, ok := lw.tagged[mangled]; ok {
		return st
	}
	st := irtypes.NewStruct(irtypes.I64, irtypes.NewPointer(lw.mapType(elem)))
	st.TypeName = mangled
	lw.tagged[mangled] = st
	lw.Mod.NewTypeDef(mangled, st)
	return st
}

// dictStruct returns the cached {i64 len, K* keys, V* vals} struct for
// a Dict<K, V> instantiation.
func (lw *Lowerer) dictStruct(key, val types.TypeID) *irtypes.StructType {
	mangled := lw.mangleName("Dict", []types.TypeID{key, val})
	if st, ok := lw.tagged[mangled]; ok {
		return st
	}
	st := irtypes.NewStruct(irtypes.I64, irtypes.NewPointer(lw.mapType(key)), irtypes.NewPointer(lw.mapType(val)))
	st.TypeName = mangled
	lw.tagged[mangled] = st
	lw.Mod.NewTypeDef(mangled, st)
	return st
}

// optionLikeStruct builds the tagged-union representation shared by
// Nullable/Option/Result: a bool discriminant plus one payload field
// per case. Result's Err payload is only meaningful when the tag says
// so; this mirrors how the runtime's pattern-match intrinsics read the
// struct, not a tight C-style union, trading a few bytes of padding for
// lowering simplicity (spec.md leaves the exact byte layout
// unspecified, only the tag-switch lowering contract).
func (lw *Lowerer) optionLikeStruct(kind string, elems []types.TypeID) *irtypes.StructType {
	mangled := lw.mangleName(kind, elems)
	if st, ok := lw.tagged[mangled]; ok {
		return st
	}
	fields := []irtypes.Type{irtypes.I1}
	for _, e := range elems {
		fields = append(fields, lw.mapType(e))
	}
	st := irtypes.NewStruct(fields...)
	st.TypeName = mangled
	lw.tagged[mangled] = st
	lw.Mod.NewTypeDef(mangled, st)
	return st
}

// mangleName builds the `base_T1_T2` symbol a generic instantiation
// lowers to, per spec.md §4.4's monomorphization contract.
func (lw *Lowerer) mangleName(base string, args []types.TypeID) string {
	if len(args) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	for _, a := range args {
		b.WriteByte('_')
		b.WriteString(sanitizeForSymbol(lw.Types.String(a)))
	}
	return b.String()
}

func sanitizeForSymbol(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
