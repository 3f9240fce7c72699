package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/types"
)

func (a *Analyzer) resolveBlock(b *ast.Block) {
	a.syms.Enter()
	defer a.syms.Exit()
	for _, s := range b.Stmts {
		a.resolveStmt(s)
	}
}

// resolveStmt dispatches over every concrete statement kind, the same
// shape as the expression dispatch in expr.go.
func (a *Analyzer) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		a.resolveExpr(n.X)
	case *ast.VarDecl:
		a.resolveVarDecl(n)
	case *ast.Block:
		a.resolveBlock(n)
	case *ast.If:
		a.resolveIf(n)
	case *ast.While:
		a.resolveWhile(n)
	case *ast.ForIn:
		a.resolveForIn(n)
	case *ast.Return:
		a.resolveReturn(n)
	case *ast.Break:
		if !a.inLoop {
			a.errorf(n, "T005_BREAK_OUTSIDE_LOOP", "'break' outside a loop")
		}
	case *ast.Continue:
		if !a.inLoop {
			a.errorf(n, "T005_BREAK_OUTSIDE_LOOP", "'continue' outside a loop")
		}
	case *ast.Match:
		a.resolveMatch(n)
	case *ast.GoStmt:
		a.resolveExpr(n.Call)
	case *ast.ChanSend:
		a.resolveChanSend(n)
	case *ast.SelectStmt:
		a.resolveSelect(n)
	case *ast.FuncDecl:
		a.analyzeFunc(n, "")
	case *ast.ClassDecl:
		a.analyzeClass(n)
	case *ast.TraitDecl:
		a.analyzeTraitDefaults(n)
	case *ast.ImplDecl:
		a.analyzeImpl(n)
	case *ast.Import, *ast.Export:
		// Cross-module resolution lives in internal/modgraph; a
		// single-file analysis pass has nothing further to check here.
	}
}

func (a *Analyzer) resolveVarDecl(n *ast.VarDecl) {
	var declared types.TypeID
	hasAnnotation := n.Annotation != nil
	if hasAnnotation {
		declared = a.resolveTypeExpr(n.Annotation)
	}

	var initType types.TypeID
	if n.Init != nil {
		initType = a.resolveExpr(n.Init)
		if hasAnnotation {
			a.checkAssignable(n, declared, initType)
		} else {
			declared = initType
		}
		a.markMovedIfOwnershipTransfer(n.Init)
	}

	n.ResolvedType = declared
	sym := &symbols.Symbol{Name: n.Name, Kind: symbols.KindVar, Type: declared, Mut: n.Mut, DeclLine: n.Line, DeclColumn: n.Column}
	if !a.syms.Declare(n.Name, sym) {
		a.errorf(n, "T003_DUPLICATE_DECL", "%q already declared in this scope", n.Name)
	}
}

func (a *Analyzer) resolveIf(n *ast.If) {
	for _, c := range n.Clauses {
		if c.Cond == nil {
			a.resolveBlock(c.Body)
			continue
		}
		condType := a.resolveExpr(c.Cond)
		a.checkBoolish(c.Cond, condType)

		a.syms.Enter()
		restores := a.applyNullNarrowing(c.Cond, true)
		a.resolveBlock(c.Body)
		for _, restore := range restores {
			restore()
		}
		a.syms.Exit()
	}
}

func (a *Analyzer) resolveWhile(n *ast.While) {
	condType := a.resolveExpr(n.Cond)
	a.checkBoolish(n.Cond, condType)

	a.syms.Enter()
	restores := a.applyNullNarrowing(n.Cond, true)
	prevLoop := a.inLoop
	a.inLoop = true
	a.resolveBlock(n.Body)
	a.inLoop = prevLoop
	for _, restore := range restores {
		restore()
	}
	a.syms.Exit()
}

func (a *Analyzer) resolveForIn(n *ast.ForIn) {
	iterType := a.resolveExpr(n.Iterable)
	elemType := a.elementTypeOf(n.Iterable, iterType)

	a.syms.Enter()
	a.syms.Declare(n.Name, &symbols.Symbol{Name: n.Name, Kind: symbols.KindVar, Type: elemType, DeclLine: n.Line, DeclColumn: n.Column})
	prevLoop := a.inLoop
	a.inLoop = true
	a.resolveBlock(n.Body)
	a.inLoop = prevLoop
	a.syms.Exit()
}

// elementTypeOf reports the per-iteration type of a for-in target: a
// Range's element is always int, a Named("List", [T]) yields T,
// anything else is Unknown (arrays-of-arbitrary-container iteration is
// a domain the standard library, not the compiler, defines).
func (a *Analyzer) elementTypeOf(site ast.Node, iterType types.TypeID) types.TypeID {
	if _, ok := site.(*ast.RangeExpr); ok {
		return a.Types.NewBasic(types.Int)
	}
	t := a.Types.Get(iterType)
	if t.Kind == types.KindNamed && len(t.TypeArgs) == 1 {
		return t.TypeArgs[0]
	}
	return a.Types.NewBasic(types.Unknown)
}

func (a *Analyzer) resolveReturn(n *ast.Return) {
	a.curHasRet = true
	if n.Value == nil {
		if a.curReturn != a.Types.NewBasic(types.Void) {
			a.errorf(n, "T006_MISSING_RETURN_VALUE", "missing return value")
		}
		return
	}
	vt := a.resolveExpr(n.Value)
	// A returned value is read directly by the caller, not stored into a
	// declared target, so an un-narrowed nullable return is the general
	// dereference-without-safe-call case (spec.md's null safety rule and
	// end-to-end scenario 3), not the assignment-specific N001.
	et, vv := a.Types.Get(a.curReturn), a.Types.Get(vt)
	if vv.Kind == types.KindNullable && et.Kind != types.KindNullable && !isUnknown(et) {
		a.errorf(n, "N003_NULLABLE_DEREFERENCE", "returning a possibly-null %s where non-nullable %s is required", a.Types.String(vt), a.Types.String(a.curReturn))
		return
	}
	a.checkAssignable(n, a.curReturn, vt)
}

func (a *Analyzer) resolveChanSend(n *ast.ChanSend) {
	chType := a.resolveExpr(n.Channel)
	valType := a.resolveExpr(n.Value)
	t := a.Types.Get(chType)
	if t.Kind != types.KindChannel {
		a.errorf(n, "T007_NOT_A_CHANNEL", "left-hand side of '<-' is not a channel")
		return
	}
	if t.Cap&types.CanSend == 0 {
		a.errorf(n, "T008_CHANNEL_CAP_MISMATCH", "channel does not support send")
	}
	a.checkAssignable(n, t.Elem, valType)
}

func (a *Analyzer) resolveSelect(n *ast.SelectStmt) {
	for i := range n.Cases {
		c := &n.Cases[i]
		a.syms.Enter()
		switch {
		case c.Recv != nil:
			chType := a.resolveExpr(c.Recv.Channel)
			t := a.Types.Get(chType)
			elem := a.Types.NewBasic(types.Unknown)
			if t.Kind == types.KindChannel {
				elem = t.Elem
				if t.Cap&types.CanReceive == 0 {
					a.errorf(n, "T008_CHANNEL_CAP_MISMATCH", "channel does not support receive")
				}
			} else {
				a.errorf(c.Recv, "T007_NOT_A_CHANNEL", "select case does not receive from a channel")
			}
			if c.RecvVar != "" {
				a.syms.Declare(c.RecvVar, &symbols.Symbol{Name: c.RecvVar, Kind: symbols.KindVar, Type: elem})
			}
		case c.Send != nil:
			a.resolveChanSend(c.Send)
		case c.IsDefault:
			// no channel operation to type-check
		}
		a.resolveBlock(c.Body)
		a.syms.Exit()
	}
}
