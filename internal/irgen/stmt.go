package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/types"
)

func (lw *Lowerer) lowerBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		if lw.curBlock.Term != nil {
			// A prior statement in this block already terminated it
			// (return/break/continue); anything lexically after it is
			// unreachable and must not be lowered into the same block.
			return
		}
		lw.lowerStmt(s)
	}
}

func (lw *Lowerer) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		lw.lowerExpr(n.X)
	case *ast.VarDecl:
		lw.lowerVarDecl(n)
	case *ast.Block:
		lw.lowerBlock(n)
	case *ast.If:
		lw.lowerIf(n)
	case *ast.While:
		lw.lowerWhile(n)
	case *ast.ForIn:
		lw.lowerForIn(n)
	case *ast.Return:
		lw.lowerReturn(n)
	case *ast.Break:
		if len(lw.breakStack) > 0 {
			lw.curBlock.NewBr(lw.breakStack[len(lw.breakStack)-1])
		}
	case *ast.Continue:
		if len(lw.contStack) > 0 {
			lw.curBlock.NewBr(lw.contStack[len(lw.contStack)-1])
		}
	case *ast.Match:
		lw.lowerMatch(n)
	case *ast.GoStmt:
		lw.lowerGo(n)
	case *ast.ChanSend:
		lw.lowerChanSend(n)
	case *ast.SelectStmt:
		lw.lowerSelect(n)
	case *ast.Import, *ast.Export, *ast.FuncDecl, *ast.ClassDecl, *ast.TraitDecl, *ast.ImplDecl:
		// Nested declarations inside a function body are not part of
		// spec.md's scope; top-level-only declarations are lowered by
		// Lower directly.
	}
}

func (lw *Lowerer) lowerVarDecl(n *ast.VarDecl) {
	var declType types.TypeID
	if n.Annotation != nil {
		declType = lw.resolveTypeExpr(n.Annotation)
	} else if n.Init != nil {
		declType = typeIDOf(n.Init)
	}
	llt := lw.mapType(declType)
	slot := lw.curBlock.NewAlloca(llt)
	lw.locals[n.Name] = slot
	if n.Init != nil {
		v := lw.lowerExpr(n.Init)
		lw.curBlock.NewStore(lw.coerce(v, llt), slot)
	}
}

func (lw *Lowerer) lowerIf(n *ast.If) {
	join := lw.newBlock("if.end")
	for i, c := range n.Clauses {
		if c.Cond == nil {
			lw.lowerBlock(c.Body)
			if lw.curBlock.Term == nil {
				lw.curBlock.NewBr(join)
			}
			continue
		}
		cond := lw.lowerExpr(c.Cond)
		then := lw.newBlock("if.then")
		var next *ir.Block
		isLast := i == len(n.Clauses)-1
		if isLast {
			next = join
		} else {
			next = lw.newBlock("if.next")
		}
		lw.curBlock.NewCondBr(cond, then, next)

		lw.curBlock = then
		lw.lowerBlock(c.Body)
		if lw.curBlock.Term == nil {
			lw.curBlock.NewBr(join)
		}

		lw.curBlock = next
	}
	if lw.curBlock.Term == nil {
		lw.curBlock.NewBr(join)
	}
	lw.curBlock = join
}

func (lw *Lowerer) lowerWhile(n *ast.While) {
	cond := lw.newBlock("while.cond")
	body := lw.newBlock("while.body")
	end := lw.newBlock("while.end")

	lw.curBlock.NewBr(cond)

	lw.curBlock = cond
	c := lw.lowerExpr(n.Cond)
	lw.curBlock.NewCondBr(c, body, end)

	lw.breakStack = append(lw.breakStack, end)
	lw.contStack = append(lw.contStack, cond)
	lw.curBlock = body
	lw.lowerBlock(n.Body)
	if lw.curBlock.Term == nil {
		lw.curBlock.NewBr(cond)
	}
	lw.breakStack = lw.breakStack[:len(lw.breakStack)-1]
	lw.contStack = lw.contStack[:len(lw.contStack)-1]

	lw.curBlock = end
}

// lowerForIn special-cases a RangeExpr iterable as a counted integer
// loop; any other iterable (a List value) walks its {len, data} slots.
func (lw *Lowerer) lowerForIn(n *ast.ForIn) {
	if rng, ok := n.Iterable.(*ast.RangeExpr); ok {
		lw.lowerRangeForIn(n, rng)
		return
	}

	listVal := lw.lowerExpr(n.Iterable)
	elemID := lw.elementTypeOf(n.Iterable)
	elemType := lw.mapType(elemID)

	lenField := lw.curBlock.NewExtractValue(listVal, 0)
	dataField := lw.curBlock.NewExtractValue(listVal, 1)

	idxSlot := lw.curBlock.NewAlloca(typesI64)
	lw.curBlock.NewStore(constant.NewInt(typesI64, 0), idxSlot)

	cond := lw.newBlock("forin.cond")
	body := lw.newBlock("forin.body")
	end := lw.newBlock("forin.end")
	lw.curBlock.NewBr(cond)

	lw.curBlock = cond
	idx := lw.curBlock.NewLoad(typesI64, idxSlot)
	test := lw.curBlock.NewICmp(irSLT, idx, lenField)
	lw.curBlock.NewCondBr(test, body, end)

	lw.curBlock = body
	elemPtr := lw.curBlock.NewGetElementPtr(elemType, dataField, idx)
	elemVal := lw.curBlock.NewLoad(elemType, elemPtr)
	slot := lw.curBlock.NewAlloca(elemType)
	lw.curBlock.NewStore(elemVal, slot)
	lw.locals[n.Name] = slot

	lw.breakStack = append(lw.breakStack, end)
	lw.contStack = append(lw.contStack, cond)
	lw.lowerBlock(n.Body)
	if lw.curBlock.Term == nil {
		next := lw.curBlock.NewAdd(idx, constant.NewInt(typesI64, 1))
		lw.curBlock.NewStore(next, idxSlot)
		lw.curBlock.NewBr(cond)
	}
	lw.breakStack = lw.breakStack[:len(lw.breakStack)-1]
	lw.contStack = lw.contStack[:len(lw.contStack)-1]

	lw.curBlock = end
}

func (lw *Lowerer) lowerRangeForIn(n *ast.ForIn, rng *ast.RangeExpr) {
	start := lw.lowerExpr(rng.Start)
	end := lw.lowerExpr(rng.End)

	idxSlot := lw.curBlock.NewAlloca(typesI64)
	lw.curBlock.NewStore(start, idxSlot)
	lw.locals[n.Name] = idxSlot

	cond := lw.newBlock("range.cond")
	body := lw.newBlock("range.body")
	endBlock := lw.newBlock("range.end")
	lw.curBlock.NewBr(cond)

	lw.curBlock = cond
	idx := lw.curBlock.NewLoad(typesI64, idxSlot)
	pred := irSLT
	if rng.Inclusive {
		pred = irSLE
	}
	test := lw.curBlock.NewICmp(pred, idx, end)
	lw.curBlock.NewCondBr(test, body, endBlock)

	lw.curBlock = body
	lw.breakStack = append(lw.breakStack, endBlock)
	lw.contStack = append(lw.contStack, cond)
	lw.lowerBlock(n.Body)
	if lw.curBlock.Term == nil {
		cur := lw.curBlock.NewLoad(typesI64, idxSlot)
		next := lw.curBlock.NewAdd(cur, constant.NewInt(typesI64, 1))
		lw.curBlock.NewStore(next, idxSlot)
		lw.curBlock.NewBr(cond)
	}
	lw.breakStack = lw.breakStack[:len(lw.breakStack)-1]
	lw.contStack = lw.contStack[:len(lw.contStack)-1]

	lw.curBlock = endBlock
}

func (lw *Lowerer) lowerReturn(n *ast.Return) {
	if n.Value == nil {
		lw.curBlock.NewRet(nil)
		return
	}
	v := lw.lowerExpr(n.Value)
	lw.curBlock.NewRet(lw.coerce(v, lw.mapType(lw.curResult)))
}

func (lw *Lowerer) lowerGo(n *ast.GoStmt) {
	// spec.md §4.4: `go expr` packages the call as a thunk and hands it
	// to __tocin_go_launch. Lowering a full argument-capturing closure
	// is out of scope here (see Lambda in expr.go); a zero-argument
	// call is launched by wrapping its existing symbol directly when
	// the callee is a plain function reference.
	if id, ok := n.Call.Callee.(*ast.Identifier); ok {
		if f, ok := lw.funcs[id.Name]; ok && len(n.Call.Args) == 0 {
			lw.curBlock.NewCall(lw.rt.goLaunch, lw.castToFnPtr(f), constant.NewNull(voidPtr))
			return
		}
	}
	// Fallback: evaluate synchronously. A real backend would reject a
	// `go` of an expression with arguments without an explicit thunk
	// step.
	lw.lowerExpr(n.Call)
}

func (lw *Lowerer) lowerChanSend(n *ast.ChanSend) {
	ch := lw.lowerExpr(n.Channel)
	val := lw.lowerExpr(n.Value)
	valType := typeIDOf(n.Value)
	slot := lw.curBlock.NewAlloca(lw.mapType(valType))
	lw.curBlock.NewStore(val, slot)
	lw.curBlock.NewCall(lw.rt.chanSend, ch, lw.curBlock.NewBitCast(slot, voidPtr))
}

// lowerSelect lowers only the default-or-first-ready shape used by
// spec.md's `__tocin_chan_select` contract: each case's channel is
// passed to the runtime, which reports the selected index, and the
// lowered form is a switch to per-case blocks. The full CaseDesc
// marshaling that `__tocin_chan_select` expects is runtime-defined and
// left to the runtime bridge (out of this compiler's scope per spec.md
// §1's Non-goals); the call is emitted with the case count and a null
// case array.
func (lw *Lowerer) lowerSelect(n *ast.SelectStmt) {
	sel := lw.curBlock.NewCall(lw.rt.chanSelect, constant.NewInt(typesI32, int64(len(n.Cases))), constant.NewNull(voidPtr))
	end := lw.newBlock("select.end")
	var blocks []*ir.Block
	for range n.Cases {
		blocks = append(blocks, lw.newBlock("select.case"))
	}
	var cases []*ir.Case
	for i, b := range blocks {
		cases = append(cases, ir.NewCase(constant.NewInt(typesI32, int64(i)), b))
	}
	lw.curBlock.NewSwitch(sel, end, cases...)
	for i, c := range n.Cases {
		lw.curBlock = blocks[i]
		switch {
		case c.Recv != nil:
			ch := lw.lowerExpr(c.Recv.Channel)
			raw := lw.curBlock.NewCall(lw.rt.chanRecv, ch)
			if c.RecvVar != "" {
				elemID := lw.elementTypeOf(c.Recv.Channel)
				elemType := lw.mapType(elemID)
				ptr := lw.curBlock.NewBitCast(raw, irtypes.NewPointer(elemType))
				v := lw.curBlock.NewLoad(elemType, ptr)
				slot := lw.curBlock.NewAlloca(elemType)
				lw.curBlock.NewStore(v, slot)
				lw.locals[c.RecvVar] = slot
			}
		case c.Send != nil:
			lw.lowerChanSend(c.Send)
		}
		lw.lowerBlock(c.Body)
		if lw.curBlock.Term == nil {
			lw.curBlock.NewBr(end)
		}
	}
	lw.curBlock = end
}
