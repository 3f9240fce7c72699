package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/token"
)

// applyNullNarrowing implements spec.md's flow-sensitive null-safety
// narrowing for the condition of an if/while: within the branch taken
// when cond evaluates to positive, any identifier cond proves non-null
// has its symbol's NullGuarded flag set. It returns the restore
// functions needed to undo every flag it touched, since a guard proven
// true for one branch must not leak into code after that branch exits
// (the same binding may be reassigned to nil before that point).
func (a *Analyzer) applyNullNarrowing(cond ast.Expr, positive bool) []func() {
	switch c := cond.(type) {
	case *ast.Binary:
		switch c.Op {
		case token.LAND, token.AND:
			if positive {
				return append(a.applyNullNarrowing(c.Left, true), a.applyNullNarrowing(c.Right, true)...)
			}
		case token.LOR, token.OR:
			if !positive {
				return append(a.applyNullNarrowing(c.Left, false), a.applyNullNarrowing(c.Right, false)...)
			}
		case token.NEQ:
			if isNilLiteral(c.Right) {
				return a.narrowIdentifier(c.Left, positive)
			} else if isNilLiteral(c.Left) {
				return a.narrowIdentifier(c.Right, positive)
			}
		case token.EQL:
			if isNilLiteral(c.Right) {
				return a.narrowIdentifier(c.Left, !positive)
			} else if isNilLiteral(c.Left) {
				return a.narrowIdentifier(c.Right, !positive)
			}
		}
	case *ast.Identifier:
		if positive {
			return a.narrowIdentifier(c, true)
		}
	case *ast.Unary:
		if c.Op == token.LNOT || c.Op == token.NOT {
			return a.applyNullNarrowing(c.Operand, !positive)
		}
	case *ast.Grouping:
		return a.applyNullNarrowing(c.Inner, positive)
	}
	return nil
}

func isNilLiteral(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Value == nil
}

func (a *Analyzer) narrowIdentifier(e ast.Expr, guard bool) []func() {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil
	}
	sym, ok := a.syms.Resolve(id.Name)
	if !ok {
		return nil
	}
	prev := sym.NullGuarded
	sym.NullGuarded = guard
	return []func(){func() { sym.NullGuarded = prev }}
}
