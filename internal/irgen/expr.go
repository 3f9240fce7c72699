package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/token"
	"github.com/tocin-lang/tocin/internal/types"
)

func (lw *Lowerer) lowerExpr(e ast.Expr) value.Value {
	switch n := e.(type) {
	case *ast.Literal:
		return lw.lowerLiteral(n)
	case *ast.Identifier:
		if slot, ok := lw.locals[n.Name]; ok {
			return lw.curBlock.NewLoad(slot.ElemType, slot)
		}
		if f, ok := lw.funcs[n.Name]; ok {
			return f
		}
		return constant.NewNull(voidPtr)
	case *ast.SelfExpr:
		slot := lw.locals["self"]
		return lw.curBlock.NewLoad(slot.ElemType, slot)
	case *ast.Unary:
		return lw.lowerUnary(n)
	case *ast.Binary:
		return lw.lowerBinary(n)
	case *ast.Grouping:
		return lw.lowerExpr(n.Inner)
	case *ast.Assign:
		return lw.lowerAssign(n)
	case *ast.Call:
		return lw.lowerCall(n)
	case *ast.FieldGet:
		return lw.lowerFieldGet(n)
	case *ast.FieldSet:
		return lw.lowerFieldSet(n)
	case *ast.IndexGet:
		return lw.lowerIndexGet(n)
	case *ast.IndexSet:
		return lw.lowerIndexSet(n)
	case *ast.ListLiteral:
		return lw.lowerListLiteral(n)
	case *ast.DictLiteral:
		return lw.lowerDictLiteral(n)
	case *ast.Lambda:
		return lw.lowerLambda(n)
	case *ast.Await:
		return lw.lowerAwait(n)
	case *ast.StringInterp:
		return lw.lowerStringInterp(n)
	case *ast.New:
		return lw.lowerNew(n)
	case *ast.Move:
		return lw.lowerExpr(n.Operand)
	case *ast.Some:
		return lw.lowerTagged(typeIDOf(n), true, lw.lowerExpr(n.Value), nil)
	case *ast.NoneLit:
		return lw.lowerTagged(typeIDOf(n), false, nil, nil)
	case *ast.Ok:
		return lw.lowerTagged(typeIDOf(n), true, lw.lowerExpr(n.Value), nil)
	case *ast.ErrExpr:
		return lw.lowerTagged(typeIDOf(n), false, nil, lw.lowerExpr(n.Value))
	case *ast.ChanRecv:
		return lw.lowerChanRecv(n)
	case *ast.RangeExpr:
		// Only meaningful as a for-in iterable (lowered specially in
		// stmt.go); evaluated standalone it degrades to its start value.
		return lw.lowerExpr(n.Start)
	case *ast.Cast:
		return lw.lowerCast(n)
	}
	return constant.NewNull(voidPtr)
}

func (lw *Lowerer) lowerLiteral(n *ast.Literal) value.Value {
	switch v := n.Value.(type) {
	case nil:
		return constant.NewNull(voidPtr)
	case bool:
		return boolConst(v)
	case int64:
		return constant.NewInt(typesI64, v)
	case float64:
		return constant.NewFloat(irtypes.Double, v)
	case string:
		return lw.globalCString(v)
	default:
		return constant.NewNull(voidPtr)
	}
}

// globalCString interns a null-terminated byte-array global for a
// string literal and returns a pointer to its first byte.
func (lw *Lowerer) globalCString(s string) value.Value {
	if g, ok := lw.strings[s]; ok {
		return lw.curBlock.NewGetElementPtr(g.ContentType, g, intLit(0), intLit(0))
	}
	data := constant.NewCharArrayFromString(s + "\x00")
	g := lw.Mod.NewGlobalDef(lw.nextStringName(), data)
	g.Immutable = true
	lw.strings[s] = g
	return lw.curBlock.NewGetElementPtr(g.ContentType, g, intLit(0), intLit(0))
}

func (lw *Lowerer) nextStringName() string {
	lw.strSeq++
	return blockLabel(".str", lw.strSeq)
}

func (lw *Lowerer) lowerUnary(n *ast.Unary) value.Value {
	operandType := lw.Types.Get(typeIDOf(n.Operand))
	switch n.Op {
	case token.SUB:
		v := lw.lowerExpr(n.Operand)
		if operandType.Kind == types.KindBasic && operandType.Basic == types.Float {
			return lw.curBlock.NewFSub(constant.NewFloat(irtypes.Double, 0), v)
		}
		return lw.curBlock.NewSub(constant.NewInt(typesI64, 0), v)
	case token.LNOT, token.NOT:
		v := lw.lowerExpr(n.Operand)
		return lw.curBlock.NewXor(v, constant.True)
	case token.BNOT:
		v := lw.lowerExpr(n.Operand)
		return lw.curBlock.NewXor(v, constant.NewInt(typesI64, -1))
	case token.BAND:
		return lw.lowerAddr(n.Operand)
	case token.MUL:
		v := lw.lowerExpr(n.Operand)
		elem := lw.mapType(typeIDOf(n))
		return lw.curBlock.NewLoad(elem, v)
	case token.NOT_NULL:
		// `!!` asserts non-null at the sema level; the lowered value is
		// unchanged since Nullable and its inner type share no distinct
		// runtime representation for non-struct payloads in this
		// lowering (tag bit is simply ignored past this point).
		return lw.lowerExpr(n.Operand)
	default:
		return lw.lowerExpr(n.Operand)
	}
}

func (lw *Lowerer) lowerBinary(n *ast.Binary) value.Value {
	switch n.Op {
	case token.LAND, token.AND:
		return lw.lowerShortCircuit(n, true)
	case token.LOR, token.OR:
		return lw.lowerShortCircuit(n, false)
	}

	l := lw.lowerExpr(n.Left)
	r := lw.lowerExpr(n.Right)
	lt := lw.Types.Get(typeIDOf(n.Left))
	isFloat := lt.Kind == types.KindBasic && lt.Basic == types.Float
	isString := lt.Kind == types.KindBasic && lt.Basic == types.String

	switch n.Op {
	case token.ADD:
		if isString {
			return lw.curBlock.NewCall(lw.rt.stringConcat, l, r)
		}
		if isFloat {
			return lw.curBlock.NewFAdd(l, r)
		}
		return lw.curBlock.NewAdd(l, r)
	case token.SUB:
		if isFloat {
			return lw.curBlock.NewFSub(l, r)
		}
		return lw.curBlock.NewSub(l, r)
	case token.MUL:
		if isFloat {
			return lw.curBlock.NewFMul(l, r)
		}
		return lw.curBlock.NewMul(l, r)
	case token.QUO:
		if isFloat {
			return lw.curBlock.NewFDiv(l, r)
		}
		return lw.curBlock.NewSDiv(l, r)
	case token.REM:
		if isFloat {
			return lw.curBlock.NewFRem(l, r)
		}
		return lw.curBlock.NewSRem(l, r)
	case token.BAND:
		return lw.curBlock.NewAnd(l, r)
	case token.BOR:
		return lw.curBlock.NewOr(l, r)
	case token.BXOR:
		return lw.curBlock.NewXor(l, r)
	case token.SHL:
		return lw.curBlock.NewShl(l, r)
	case token.SHR:
		return lw.curBlock.NewAShr(l, r)
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return lw.lowerComparison(n.Op, l, r, isFloat)
	case token.ELVIS:
		return r
	default:
		return l
	}
}

func (lw *Lowerer) lowerComparison(op token.Kind, l, r value.Value, isFloat bool) value.Value {
	if isFloat {
		pred := map[token.Kind]enum.FPred{
			token.EQL: enum.FPredOEQ, token.NEQ: enum.FPredONE,
			token.LSS: enum.FPredOLT, token.LEQ: enum.FPredOLE,
			token.GTR: enum.FPredOGT, token.GEQ: enum.FPredOGE,
		}[op]
		return lw.curBlock.NewFCmp(pred, l, r)
	}
	pred := map[token.Kind]enum.IPred{
		token.EQL: enum.IPredEQ, token.NEQ: enum.IPredNE,
		token.LSS: enum.IPredSLT, token.LEQ: enum.IPredSLE,
		token.GTR: enum.IPredSGT, token.GEQ: enum.IPredSGE,
	}[op]
	return lw.curBlock.NewICmp(pred, l, r)
}

// lowerShortCircuit implements && / || with a branch rather than
// always evaluating both operands, joining with a phi the way a
// correct short-circuit lowering must (spec.md §4.4 "short-circuit
// φ-joins").
func (lw *Lowerer) lowerShortCircuit(n *ast.Binary, isAnd bool) value.Value {
	l := lw.lowerExpr(n.Left)
	lBlock := lw.curBlock

	rhsBlock := lw.newBlock("logic.rhs")
	join := lw.newBlock("logic.join")

	if isAnd {
		lw.curBlock.NewCondBr(l, rhsBlock, join)
	} else {
		lw.curBlock.NewCondBr(l, join, rhsBlock)
	}

	lw.curBlock = rhsBlock
	r := lw.lowerExpr(n.Right)
	rBlock := lw.curBlock
	rBlock.NewBr(join)

	lw.curBlock = join
	short := boolConst(!isAnd)
	return lw.curBlock.NewPhi(ir.NewIncoming(short, lBlock), ir.NewIncoming(r, rBlock))
}

// lowerAddr computes the pointer to an lvalue, used by Assign, &x, and
// compound-assignment read-modify-write sequences.
func (lw *Lowerer) lowerAddr(e ast.Expr) value.Value {
	switch n := e.(type) {
	case *ast.Identifier:
		if slot, ok := lw.locals[n.Name]; ok {
			return slot
		}
	case *ast.FieldGet:
		obj := lw.lowerExpr(n.Object)
		return lw.fieldAddr(obj, n.Object, n.Name)
	case *ast.IndexGet:
		container := lw.lowerExpr(n.Container)
		idx := lw.lowerExpr(n.Index)
		elem := lw.elementTypeOf(n.Container)
		data := lw.curBlock.NewExtractValue(container, 1)
		return lw.curBlock.NewGetElementPtr(lw.mapType(elem), data, idx)
	case *ast.Grouping:
		return lw.lowerAddr(n.Inner)
	}
	return constant.NewNull(voidPtr)
}

func (lw *Lowerer) fieldAddr(obj value.Value, objExpr ast.Expr, field string) value.Value {
	className := lw.classOfExpr(objExpr)
	path := lw.fieldIndex[className][field]
	st := lw.classes[className]
	indices := []value.Value{intLit(0)}
	for _, p := range path {
		indices = append(indices, constant.NewInt(typesI32, int64(p)))
	}
	return lw.curBlock.NewGetElementPtr(st, obj, indices...)
}

func (lw *Lowerer) lowerAssign(n *ast.Assign) value.Value {
	addr := lw.lowerAddr(n.Target)
	targetType := lw.mapType(typeIDOf(n.Target))
	if n.Op == token.ASSIGN {
		v := lw.lowerExpr(n.Value)
		lw.curBlock.NewStore(lw.coerce(v, targetType), addr)
		return v
	}
	opTok, _ := ast.AssignOpToken(n.Op)
	result := lw.lowerBinary(&ast.Binary{Op: opTok, Left: n.Target, Right: n.Value})
	lw.curBlock.NewStore(result, addr)
	return result
}

func (lw *Lowerer) lowerFieldGet(n *ast.FieldGet) value.Value {
	obj := lw.lowerExpr(n.Object)
	addr := lw.fieldAddr(obj, n.Object, n.Name)
	return lw.curBlock.NewLoad(lw.mapType(typeIDOf(n)), addr)
}

func (lw *Lowerer) lowerFieldSet(n *ast.FieldSet) value.Value {
	obj := lw.lowerExpr(n.Object)
	addr := lw.fieldAddr(obj, n.Object, n.Name)
	v := lw.lowerExpr(n.Value)
	llt := lw.mapType(typeIDOf(n.Value))
	lw.curBlock.NewStore(lw.coerce(v, llt), addr)
	return v
}

func (lw *Lowerer) lowerIndexGet(n *ast.IndexGet) value.Value {
	addr := lw.lowerAddr(n)
	elemID := lw.elementTypeOf(n.Container)
	return lw.curBlock.NewLoad(lw.mapType(elemID), addr)
}

func (lw *Lowerer) lowerIndexSet(n *ast.IndexSet) value.Value {
	container := lw.lowerExpr(n.Container)
	idx := lw.lowerExpr(n.Index)
	elemType := lw.mapType(lw.elementTypeOf(n.Container))
	data := lw.curBlock.NewExtractValue(container, 1)
	addr := lw.curBlock.NewGetElementPtr(elemType, data, idx)
	v := lw.lowerExpr(n.Value)
	lw.curBlock.NewStore(lw.coerce(v, elemType), addr)
	return v
}

// sizeofType computes sizeof(t) via the classic GEP-on-null-pointer
// trick, since llir/llvm exposes no direct DataLayout query.
func (lw *Lowerer) sizeofType(t irtypes.Type) value.Value {
	nullPtr := constant.NewNull(irtypes.NewPointer(t))
	sizePtr := lw.curBlock.NewGetElementPtr(t, nullPtr, intLit(1))
	return lw.curBlock.NewPtrToInt(sizePtr, typesI64)
}

func (lw *Lowerer) sizeofArray(t irtypes.Type, count int64) value.Value {
	return lw.curBlock.NewMul(lw.sizeofType(t), constant.NewInt(typesI64, count))
}

func (lw *Lowerer) lowerListLiteral(n *ast.ListLiteral) value.Value {
	elemID := lw.elementTypeOf(n)
	elemType := lw.mapType(elemID)
	count := int64(len(n.Elems))
	raw := lw.curBlock.NewCall(lw.rt.alloc, lw.sizeofArray(elemType, count))
	data := lw.curBlock.NewBitCast(raw, irtypes.NewPointer(elemType))
	for i, e := range n.Elems {
		v := lw.lowerExpr(e)
		ptr := lw.curBlock.NewGetElementPtr(elemType, data, intLit(int64(i)))
		lw.curBlock.NewStore(lw.coerce(v, elemType), ptr)
	}
	st := lw.listStruct(elemID)
	agg := lw.curBlock.NewInsertValue(constant.NewZeroInitializer(st), constant.NewInt(typesI64, count), 0)
	return lw.curBlock.NewInsertValue(agg, data, 1)
}

func (lw *Lowerer) lowerDictLiteral(n *ast.DictLiteral) value.Value {
	t := lw.Types.Get(typeIDOf(n))
	var keyID, valID types.TypeID
	if len(t.TypeArgs) == 2 {
		keyID, valID = t.TypeArgs[0], t.TypeArgs[1]
	}
	keyType := lw.mapType(keyID)
	valType := lw.mapType(valID)
	count := int64(len(n.Entries))
	keysRaw := lw.curBlock.NewCall(lw.rt.alloc, lw.sizeofArray(keyType, count))
	valsRaw := lw.curBlock.NewCall(lw.rt.alloc, lw.sizeofArray(valType, count))
	keys := lw.curBlock.NewBitCast(keysRaw, irtypes.NewPointer(keyType))
	vals := lw.curBlock.NewBitCast(valsRaw, irtypes.NewPointer(valType))
	for i, entry := range n.Entries {
		kv := lw.lowerExpr(entry.Key)
		vv := lw.lowerExpr(entry.Value)
		kp := lw.curBlock.NewGetElementPtr(keyType, keys, intLit(int64(i)))
		vp := lw.curBlock.NewGetElementPtr(valType, vals, intLit(int64(i)))
		lw.curBlock.NewStore(lw.coerce(kv, keyType), kp)
		lw.curBlock.NewStore(lw.coerce(vv, valType), vp)
	}
	st := lw.dictStruct(keyID, valID)
	agg := lw.curBlock.NewInsertValue(constant.NewZeroInitializer(st), constant.NewInt(typesI64, count), 0)
	agg = lw.curBlock.NewInsertValue(agg, keys, 1)
	return lw.curBlock.NewInsertValue(agg, vals, 2)
}

// lowerTagged builds a Some/None/Ok/Err value as the {tag, payload...}
// struct shared by Option/Result/Nullable (types.go's optionLikeStruct).
// okPayload fills slot 1 (Some's or Ok's value); errPayload fills slot 2
// (Err's value); either may be nil.
func (lw *Lowerer) lowerTagged(id types.TypeID, tag bool, okPayload, errPayload value.Value) value.Value {
	st, ok := lw.mapType(id).(*irtypes.StructType)
	if !ok {
		return constant.NewNull(voidPtr)
	}
	agg := value.Value(constant.NewZeroInitializer(st))
	agg = lw.curBlock.NewInsertValue(agg, boolConst(tag), 0)
	if okPayload != nil && len(st.Fields) > 1 {
		agg = lw.curBlock.NewInsertValue(agg, lw.coerce(okPayload, st.Fields[1]), 1)
	}
	if errPayload != nil && len(st.Fields) > 2 {
		agg = lw.curBlock.NewInsertValue(agg, lw.coerce(errPayload, st.Fields[2]), 2)
	}
	return agg
}

func (lw *Lowerer) lowerChanRecv(n *ast.ChanRecv) value.Value {
	ch := lw.lowerExpr(n.Channel)
	raw := lw.curBlock.NewCall(lw.rt.chanRecv, ch)
	elemType := lw.mapType(lw.elementTypeOf(n.Channel))
	ptr := lw.curBlock.NewBitCast(raw, irtypes.NewPointer(elemType))
	return lw.curBlock.NewLoad(elemType, ptr)
}

func (lw *Lowerer) lowerCast(n *ast.Cast) value.Value {
	v := lw.lowerExpr(n.Value)
	srcType := lw.Types.Get(typeIDOf(n.Value))
	targetID := lw.resolveTypeExpr(n.Target)
	dstType := lw.Types.Get(targetID)
	if srcType.Kind == types.KindBasic && dstType.Kind == types.KindBasic {
		switch {
		case srcType.Basic == types.Int && dstType.Basic == types.Float:
			return lw.curBlock.NewSIToFP(v, irtypes.Double)
		case srcType.Basic == types.Float && dstType.Basic == types.Int:
			return lw.curBlock.NewFPToSI(v, typesI64)
		}
	}
	return lw.coerce(v, lw.mapType(targetID))
}

func (lw *Lowerer) lowerAwait(n *ast.Await) value.Value {
	fut := lw.lowerExpr(n.Operand)
	raw := lw.curBlock.NewCall(lw.rt.futureGet, lw.coerce(fut, voidPtr))
	resultType := lw.mapType(typeIDOf(n))
	if resultType.Equal(irtypes.Void) {
		return raw
	}
	ptr := lw.curBlock.NewBitCast(raw, irtypes.NewPointer(resultType))
	return lw.curBlock.NewLoad(resultType, ptr)
}

func (lw *Lowerer) lowerStringInterp(n *ast.StringInterp) value.Value {
	result := lw.globalCString(n.Fragments[0])
	for i, e := range n.Exprs {
		result = lw.curBlock.NewCall(lw.rt.stringConcat, result, lw.stringify(e))
		if i+1 < len(n.Fragments) {
			result = lw.curBlock.NewCall(lw.rt.stringConcat, result, lw.globalCString(n.Fragments[i+1]))
		}
	}
	return result
}

// stringify renders e as an i8* for string interpolation, routing
// through the runtime's *_to_string helpers for non-string operands.
func (lw *Lowerer) stringify(e ast.Expr) value.Value {
	v := lw.lowerExpr(e)
	t := lw.Types.Get(typeIDOf(e))
	switch {
	case t.Kind == types.KindBasic && t.Basic == types.String:
		return v
	case t.Kind == types.KindBasic && t.Basic == types.Float:
		return lw.curBlock.NewCall(lw.rt.floatToStr, v)
	case t.Kind == types.KindBasic && t.Basic == types.Bool:
		return lw.curBlock.NewCall(lw.rt.boolToStr, v)
	default:
		return lw.curBlock.NewCall(lw.rt.intToStr, v)
	}
}

// lowerNew heap-allocates a class instance and, when the class declares
// a method literally named "init", invokes it with the constructor
// arguments — the convention this lowering assumes for constructor
// bodies (documented in DESIGN.md, since spec.md leaves constructor
// dispatch naming unspecified).
func (lw *Lowerer) lowerNew(n *ast.New) value.Value {
	var typeArgs []types.TypeID
	for _, ta := range n.TypeArgs {
		typeArgs = append(typeArgs, lw.resolveTypeExpr(ta))
	}
	st := lw.classStruct(n.ClassName, typeArgs)
	raw := lw.curBlock.NewCall(lw.rt.alloc, lw.sizeofType(st))
	ptr := lw.curBlock.NewBitCast(raw, irtypes.NewPointer(st))

	mangled := lw.mangleName(n.ClassName, typeArgs)
	if ctor, ok := lw.funcs[methodSymbol(mangled, "init")]; ok {
		args := []value.Value{ptr}
		for i, a := range n.Args {
			v := lw.lowerExpr(a)
			if i+1 < len(ctor.Params) {
				v = lw.coerce(v, ctor.Params[i+1].Typ)
			}
			args = append(args, v)
		}
		lw.curBlock.NewCall(ctor, args...)
	}
	return ptr
}

func (lw *Lowerer) lowerCall(n *ast.Call) value.Value {
	if fg, ok := n.Callee.(*ast.FieldGet); ok {
		return lw.lowerMethodCall(fg, n.Args)
	}
	if id, ok := n.Callee.(*ast.Identifier); ok {
		if f, ok := lw.funcs[id.Name]; ok {
			return lw.curBlock.NewCall(f, lw.lowerArgs(f.Params, n.Args)...)
		}
	}
	fnVal := lw.lowerExpr(n.Callee)
	var args []value.Value
	for _, a := range n.Args {
		args = append(args, lw.lowerExpr(a))
	}
	return lw.curBlock.NewCall(fnVal, args...)
}

func (lw *Lowerer) lowerArgs(params []*ir.Param, argExprs []ast.Expr) []value.Value {
	args := make([]value.Value, 0, len(argExprs))
	for i, a := range argExprs {
		v := lw.lowerExpr(a)
		if i < len(params) {
			v = lw.coerce(v, params[i].Typ)
		}
		args = append(args, v)
	}
	return args
}

// lowerMethodCall resolves fg.Name the same way sema's resolveMethod
// does: the receiver's own class first, then its trait impls, then its
// superclass chain, bitcasting the receiver pointer at each step up.
func (lw *Lowerer) lowerMethodCall(fg *ast.FieldGet, argExprs []ast.Expr) value.Value {
	recv := lw.lowerExpr(fg.Object)
	className := lw.classOfExpr(fg.Object)
	symbol, recvCast := lw.resolveMethod(className, fg.Name, recv)
	f, ok := lw.funcs[symbol]
	if !ok {
		return constant.NewNull(voidPtr)
	}
	args := append([]value.Value{recvCast}, lw.lowerArgs(f.Params[1:], argExprs)...)
	return lw.curBlock.NewCall(f, args...)
}

func (lw *Lowerer) resolveMethod(className, method string, recv value.Value) (string, value.Value) {
	cur := className
	curRecv := recv
	for cur != "" {
		if decl, ok := lw.classDecls[cur]; ok {
			for _, m := range decl.Methods {
				if m.Name == method {
					return methodSymbol(cur, method), curRecv
				}
			}
		}
		for _, impl := range lw.implsFor[cur] {
			for _, m := range impl.Methods {
				if m.Name == method {
					return methodSymbol(cur, method), curRecv
				}
			}
		}
		super, ok := lw.superOf[cur]
		if !ok {
			break
		}
		curRecv = lw.curBlock.NewBitCast(curRecv, irtypes.NewPointer(lw.classes[super]))
		cur = super
	}
	return methodSymbol(className, method), curRecv
}

func (lw *Lowerer) lowerLambda(n *ast.Lambda) value.Value {
	if f, ok := lw.lambdas[n]; ok {
		return f
	}
	lw.lambdaSeq++
	name := blockLabel("lambda", lw.lambdaSeq)

	ft := lw.Types.Get(typeIDOf(n))
	resultType := irtypes.Type(irtypes.Void)
	if ft.Kind == types.KindFunction {
		resultType = lw.mapType(ft.Result)
	}
	var params []*ir.Param
	for i, p := range n.Params {
		pt := irtypes.Type(voidPtr)
		if p.Annotation != nil {
			pt = lw.mapType(lw.resolveTypeExpr(p.Annotation))
		} else if ft.Kind == types.KindFunction && i < len(ft.Params) {
			pt = lw.mapType(ft.Params[i])
		}
		params = append(params, ir.NewParam(p.Name, pt))
	}
	f := lw.Mod.NewFunc(name, resultType, params...)
	lw.lambdas[n] = f

	prevBlock, prevFunc, prevLocals, prevResult := lw.curBlock, lw.curFunc, lw.locals, lw.curResult
	lw.curFunc = f
	lw.curBlock = f.NewBlock("entry")
	lw.locals = make(map[string]*ir.InstAlloca)
	if ft.Kind == types.KindFunction {
		lw.curResult = ft.Result
	}
	for _, p := range params {
		slot := lw.curBlock.NewAlloca(p.Typ)
		lw.curBlock.NewStore(p, slot)
		lw.locals[p.Name()] = slot
	}
	switch b := n.Body.(type) {
	case *ast.Block:
		lw.lowerBlock(b)
	case *ast.ExprStmt:
		v := lw.lowerExpr(b.X)
		if lw.curBlock.Term == nil {
			if resultType.Equal(irtypes.Void) {
				lw.curBlock.NewRet(nil)
			} else {
				lw.curBlock.NewRet(lw.coerce(v, resultType))
			}
		}
	default:
		lw.lowerStmt(n.Body)
	}
	if lw.curBlock.Term == nil {
		lw.terminateFallthrough()
	}

	lw.curBlock, lw.curFunc, lw.locals, lw.curResult = prevBlock, prevFunc, prevLocals, prevResult
	return f
}

func (lw *Lowerer) bindValue(name string, v value.Value, id types.TypeID) {
	llt := lw.mapType(id)
	slot := lw.curBlock.NewAlloca(llt)
	lw.curBlock.NewStore(lw.coerce(v, llt), slot)
	lw.locals[name] = slot
}

func (lw *Lowerer) payloadElem(id types.TypeID, slot int) types.TypeID {
	t := lw.Types.Get(id)
	switch t.Kind {
	case types.KindOption, types.KindNullable:
		return t.Elem
	case types.KindResult:
		if slot == 1 {
			return t.Ok
		}
		return t.Err
	}
	return lw.Types.NewBasic(types.Unknown)
}

// testPattern returns the boolean conditions that must all hold for p
// to match subject (of type subjectID), plus the bindings to run once
// they do. Evaluating it emits instructions into the current block, so
// callers must only call it from the block that will hold the test.
func (lw *Lowerer) testPattern(p ast.Pattern, subject value.Value, subjectID types.TypeID) ([]value.Value, []func()) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return nil, nil
	case *ast.BindingPattern:
		name := pt.Name
		return nil, []func(){func() { lw.bindValue(name, subject, subjectID) }}
	case *ast.LiteralPattern:
		lit := lw.lowerLiteral(pt.Value)
		t := lw.Types.Get(subjectID)
		var cond value.Value
		if t.Kind == types.KindBasic && t.Basic == types.Float {
			cond = lw.curBlock.NewFCmp(enum.FPredOEQ, subject, lit)
		} else {
			cond = lw.curBlock.NewICmp(enum.IPredEQ, subject, lit)
		}
		return []value.Value{cond}, nil
	case *ast.SomePattern:
		tag := lw.curBlock.NewExtractValue(subject, 0)
		payload := lw.curBlock.NewExtractValue(subject, 1)
		innerConds, innerBinds := lw.testPattern(pt.Inner, payload, lw.payloadElem(subjectID, 1))
		return append([]value.Value{tag}, innerConds...), innerBinds
	case *ast.NonePattern:
		tag := lw.curBlock.NewExtractValue(subject, 0)
		return []value.Value{lw.curBlock.NewXor(tag, constant.True)}, nil
	case *ast.OkPattern:
		tag := lw.curBlock.NewExtractValue(subject, 0)
		payload := lw.curBlock.NewExtractValue(subject, 1)
		innerConds, innerBinds := lw.testPattern(pt.Inner, payload, lw.payloadElem(subjectID, 1))
		return append([]value.Value{tag}, innerConds...), innerBinds
	case *ast.ErrPattern:
		tag := lw.curBlock.NewExtractValue(subject, 0)
		notTag := lw.curBlock.NewXor(tag, constant.True)
		payload := lw.curBlock.NewExtractValue(subject, 2)
		innerConds, innerBinds := lw.testPattern(pt.Inner, payload, lw.payloadElem(subjectID, 2))
		return append([]value.Value{notTag}, innerConds...), innerBinds
	}
	return nil, nil
}

// lowerMatch chains each arm as a test-then-branch: an arm's pattern
// conditions, nested ones included, are all computed in the test block
// and combined with `and`, and a guard is evaluated only once they hold.
// A residual unmatched path after the last arm is `unreachable`: the
// semantic analyzer's P001_NON_EXHAUSTIVE_PATTERNS check already
// guarantees every value is covered by the time irgen runs.
func (lw *Lowerer) lowerMatch(n *ast.Match) {
	subject := lw.lowerExpr(n.Subject)
	subjectID := typeIDOf(n.Subject)
	join := lw.newBlock("match.end")

	for _, arm := range n.Arms {
		conds, binds := lw.testPattern(arm.Pattern, subject, subjectID)
		var final value.Value
		for _, c := range conds {
			if final == nil {
				final = c
			} else {
				final = lw.curBlock.NewAnd(final, c)
			}
		}
		body := lw.newBlock("match.body")
		next := lw.newBlock("match.next")
		if final == nil {
			lw.curBlock.NewBr(body)
		} else {
			lw.curBlock.NewCondBr(final, body, next)
		}

		lw.curBlock = body
		for _, b := range binds {
			b()
		}
		if arm.Guard != nil {
			g := lw.lowerExpr(arm.Guard)
			guardBody := lw.newBlock("match.guard")
			lw.curBlock.NewCondBr(g, guardBody, next)
			lw.curBlock = guardBody
		}
		lw.lowerStmt(arm.Body)
		if lw.curBlock.Term == nil {
			lw.curBlock.NewBr(join)
		}

		lw.curBlock = next
	}
	lw.curBlock.NewUnreachable()
	lw.curBlock = join
}
