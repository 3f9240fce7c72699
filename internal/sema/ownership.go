package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/types"
)

// markMoved puts e's underlying binding into the moved-from state. Only
// a bare identifier carries a trackable ownership slot; moving a field,
// index, or call result has nothing further to invalidate.
func (a *Analyzer) markMoved(e ast.Expr) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return
	}
	sym, ok := a.syms.Resolve(id.Name)
	if !ok {
		return
	}
	sym.Ownership = symbols.Moved
}

// markMovedIfOwnershipTransfer handles the implicit-move case: binding
// a class instance to a new name with `let b = a` transfers ownership
// of a just as an explicit `move a` would (spec.md §4.3 O-rules); basic
// scalar types are Copy and never move. An explicit `move` expression
// already marks its operand via the *ast.Move case in resolveExpr, so
// this only needs to cover the plain-identifier initializer shape.
func (a *Analyzer) markMovedIfOwnershipTransfer(init ast.Expr) {
	id, ok := init.(*ast.Identifier)
	if !ok {
		return
	}
	sym, ok := a.syms.Resolve(id.Name)
	if !ok {
		return
	}
	if a.Types.Get(sym.Type).Kind != types.KindNamed {
		return
	}
	sym.Ownership = symbols.Moved
}
