package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/types"
)

// resolveMatch type-checks a match statement's subject and every arm,
// then reports P001_NON_EXHAUSTIVE_PATTERNS if the arm set does not
// cover every constructor of an Option/Result subject (spec.md §4.3
// Open Question, resolved in DESIGN.md: general-purpose subjects get a
// softer "no catch-all" warning instead, since the analyzer has no
// enum-variant inventory to check against).
func (a *Analyzer) resolveMatch(n *ast.Match) {
	subjType := a.resolveExpr(n.Subject)

	for i := range n.Arms {
		arm := &n.Arms[i]
		a.syms.Enter()
		bound := a.bindPattern(arm.Pattern, subjType)
		if arm.Guard != nil {
			gt := a.resolveExpr(arm.Guard)
			a.checkBoolish(arm.Guard, gt)
		}
		a.resolveStmt(arm.Body)
		a.syms.Exit()
		_ = bound
	}

	a.checkExhaustive(n, subjType)
}

// bindPattern declares any names a pattern introduces against subjType
// and returns the TypeID it narrows the scrutinee to (only meaningful
// for the Some/Ok/Err inner-value patterns; other patterns return
// subjType unchanged since they bind nothing further).
func (a *Analyzer) bindPattern(p ast.Pattern, subjType types.TypeID) types.TypeID {
	st := a.Types.Get(subjType)
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return subjType
	case *ast.BindingPattern:
		a.syms.Declare(pat.Name, &symbols.Symbol{Name: pat.Name, Kind: symbols.KindVar, Type: subjType})
		return subjType
	case *ast.LiteralPattern:
		lt := a.resolveLiteral(pat.Value)
		a.checkAssignable(pat, subjType, lt)
		return subjType
	case *ast.SomePattern:
		inner := a.Types.NewBasic(types.Unknown)
		if st.Kind == types.KindOption {
			inner = st.Elem
		} else if !isUnknown(st) {
			a.errorf(pat, "T009_TYPE_MISMATCH", "'Some' pattern requires an Option subject, found %s", a.Types.String(subjType))
		}
		a.bindPattern(pat.Inner, inner)
		return inner
	case *ast.NonePattern:
		if st.Kind != types.KindOption && !isUnknown(st) {
			a.errorf(pat, "T009_TYPE_MISMATCH", "'None' pattern requires an Option subject, found %s", a.Types.String(subjType))
		}
		return subjType
	case *ast.OkPattern:
		inner := a.Types.NewBasic(types.Unknown)
		if st.Kind == types.KindResult {
			inner = st.Ok
		} else if !isUnknown(st) {
			a.errorf(pat, "T009_TYPE_MISMATCH", "'Ok' pattern requires a Result subject, found %s", a.Types.String(subjType))
		}
		a.bindPattern(pat.Inner, inner)
		return inner
	case *ast.ErrPattern:
		inner := a.Types.NewBasic(types.Unknown)
		if st.Kind == types.KindResult {
			inner = st.Err
		} else if !isUnknown(st) {
			a.errorf(pat, "T009_TYPE_MISMATCH", "'Err' pattern requires a Result subject, found %s", a.Types.String(subjType))
		}
		a.bindPattern(pat.Inner, inner)
		return inner
	default:
		return subjType
	}
}

func (a *Analyzer) checkExhaustive(n *ast.Match, subjType types.TypeID) {
	st := a.Types.Get(subjType)

	hasCatchAll := false
	for _, arm := range n.Arms {
		if arm.Guard != nil {
			continue // a guarded arm never covers its pattern unconditionally
		}
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.BindingPattern:
			hasCatchAll = true
		}
	}
	if hasCatchAll {
		return
	}

	switch st.Kind {
	case types.KindOption:
		var hasSome, hasNone bool
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				continue
			}
			switch arm.Pattern.(type) {
			case *ast.SomePattern:
				hasSome = true
			case *ast.NonePattern:
				hasNone = true
			}
		}
		if !hasSome || !hasNone {
			a.errorf(n, "P001_NON_EXHAUSTIVE_PATTERNS", "match over Option does not cover both 'Some' and 'None'")
		}
	case types.KindResult:
		var hasOk, hasErr bool
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				continue
			}
			switch arm.Pattern.(type) {
			case *ast.OkPattern:
				hasOk = true
			case *ast.ErrPattern:
				hasErr = true
			}
		}
		if !hasOk || !hasErr {
			a.errorf(n, "P001_NON_EXHAUSTIVE_PATTERNS", "match over Result does not cover both 'Ok' and 'Err'")
		}
	default:
		if !isUnknown(st) {
			a.warnf(n, "P001_NON_EXHAUSTIVE_PATTERNS", "match has no wildcard or binding arm to guarantee exhaustiveness")
		}
	}
}
