package sema

import (
	"github.com/tocin-lang/tocin/internal/token"
	"github.com/tocin-lang/tocin/internal/types"
)

// checkAssignable reports whether a value of type actual may be stored
// into a binding/field/parameter of type expected, emitting
// N001_NULLABLE_ASSIGNMENT for the null-safety-specific case and the
// generic T009_TYPE_MISMATCH otherwise. Unknown on either side
// suppresses the diagnostic so one earlier error does not cascade.
func (a *Analyzer) checkAssignable(site posNode, expected, actual types.TypeID) bool {
	if a.Types.Equal(expected, actual) {
		return true
	}
	et, at := a.Types.Get(expected), a.Types.Get(actual)
	if isUnknown(et) || isUnknown(at) {
		return true
	}

	if et.Kind == types.KindNullable {
		inner := et.Elem
		if a.Types.Equal(inner, actual) {
			return true
		}
		if at.Kind == types.KindNullable && a.Types.Equal(at.Elem, inner) {
			return true
		}
	}

	if at.Kind == types.KindNullable && et.Kind != types.KindNullable {
		a.errorf(site, "N001_NULLABLE_ASSIGNMENT", "cannot assign a possibly-null %s to non-nullable %s", a.Types.String(actual), a.Types.String(expected))
		return false
	}

	a.errorf(site, "T009_TYPE_MISMATCH", "cannot assign %s to %s", a.Types.String(actual), a.Types.String(expected))
	return false
}

func isUnknown(t types.Type) bool {
	return t.Kind == types.KindBasic && t.Basic == types.Unknown
}

func (a *Analyzer) checkBoolish(site posNode, t types.TypeID) {
	bt := a.Types.Get(t)
	if isUnknown(bt) {
		return
	}
	if bt.Kind != types.KindBasic || bt.Basic != types.Bool {
		a.errorf(site, "T010_NOT_BOOLEAN", "condition must be bool, found %s", a.Types.String(t))
	}
}

func (a *Analyzer) isNumeric(t types.Type) bool {
	return t.Kind == types.KindBasic && (t.Basic == types.Int || t.Basic == types.Float)
}

// binaryResultType computes (and type-checks) the result of applying
// op to two already-resolved operand types. Shared by resolveBinary and
// the compound-assignment path in resolveAssign.
func (a *Analyzer) binaryResultType(site posNode, op token.Kind, lt, rt types.TypeID) types.TypeID {
	lv, rv := a.Types.Get(lt), a.Types.Get(rt)
	boolT := a.Types.NewBasic(types.Bool)

	switch op {
	case token.LAND, token.AND, token.LOR, token.OR:
		a.checkBoolish(site, lt)
		a.checkBoolish(site, rt)
		return boolT
	case token.EQL, token.NEQ:
		return boolT
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		if !isUnknown(lv) && !a.isNumeric(lv) {
			a.errorf(site, "T020_NOT_NUMERIC", "comparison operand must be numeric, found %s", a.Types.String(lt))
		}
		if !isUnknown(rv) && !a.isNumeric(rv) {
			a.errorf(site, "T020_NOT_NUMERIC", "comparison operand must be numeric, found %s", a.Types.String(rt))
		}
		return boolT
	case token.ADD:
		if lv.Kind == types.KindBasic && lv.Basic == types.String {
			return a.Types.NewBasic(types.String)
		}
		fallthrough
	case token.SUB, token.MUL, token.QUO, token.REM:
		if isUnknown(lv) {
			return rt
		}
		if !a.isNumeric(lv) {
			a.errorf(site, "T020_NOT_NUMERIC", "arithmetic operand must be numeric, found %s", a.Types.String(lt))
			return a.Types.NewBasic(types.Unknown)
		}
		if !a.Types.Equal(lt, rt) && !isUnknown(rv) {
			a.errorf(site, "T009_TYPE_MISMATCH", "mismatched operand types %s and %s", a.Types.String(lt), a.Types.String(rt))
		}
		return lt
	case token.BAND, token.BOR, token.BXOR, token.SHL, token.SHR:
		return a.Types.NewBasic(types.Int)
	case token.ELVIS:
		if lv.Kind == types.KindNullable {
			return lv.Elem
		}
		return lt
	default:
		return a.Types.NewBasic(types.Unknown)
	}
}

func (a *Analyzer) classNameOf(t types.TypeID) string {
	tt := a.Types.Get(t)
	if tt.Kind == types.KindNamed {
		return tt.Name
	}
	return ""
}
