package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/types"
)

var (
	typesI64 = irtypes.I64
	typesI32 = irtypes.I32

	irSLT = enum.IPredSLT
	irSLE = enum.IPredSLE
)

// resolvedTyped is satisfied by every concrete ast.Expr through its
// embedded ast.BaseNode.
type resolvedTyped interface {
	GetResolvedType() types.TypeID
}

// typeIDOf reads the TypeID the semantic analyzer stamped onto e. A
// node that somehow reaches irgen unstamped (only possible from a bug
// earlier in the pipeline, since Analyze annotates every expression it
// visits) maps to Unknown rather than panicking.
func typeIDOf(e ast.Expr) types.TypeID {
	if rt, ok := e.(resolvedTyped); ok {
		return rt.GetResolvedType()
	}
	return 0
}

func (lw *Lowerer) elementTypeOf(e ast.Expr) types.TypeID {
	t := lw.Types.Get(typeIDOf(e))
	if t.Kind == types.KindNamed && len(t.TypeArgs) == 1 {
		return t.TypeArgs[0]
	}
	if t.Kind == types.KindChannel {
		return t.Elem
	}
	return lw.Types.NewBasic(types.Unknown)
}

// coerce bitcasts v to target when their LLVM types differ but are
// both pointers (e.g. a subclass value flowing into a superclass-typed
// slot); same-type values pass through unchanged.
func (lw *Lowerer) coerce(v value.Value, target irtypes.Type) value.Value {
	if v.Type().Equal(target) {
		return v
	}
	if _, ok := v.Type().(*irtypes.PointerType); ok {
		if _, ok := target.(*irtypes.PointerType); ok {
			return lw.curBlock.NewBitCast(v, target)
		}
	}
	return v
}

func (lw *Lowerer) castToFnPtr(f *ir.Func) value.Value {
	fnPtr := irtypes.NewPointer(irtypes.NewFunc(irtypes.Void, voidPtr))
	return lw.curBlock.NewBitCast(f, fnPtr)
}

// classOfExpr returns the mangled struct name backing e's resolved
// class type, or "" when e isn't a class-typed value.
func (lw *Lowerer) classOfExpr(e ast.Expr) string {
	t := lw.Types.Get(typeIDOf(e))
	if t.Kind != types.KindNamed {
		return ""
	}
	return lw.mangleName(t.Name, t.TypeArgs)
}

func intLit(v int64) *constant.Int { return constant.NewInt(typesI64, v) }
