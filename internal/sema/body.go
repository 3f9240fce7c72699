package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/types"
)

// analyzeFunc resolves fn's parameter/result types, declares a fresh
// scope for its body, and walks the body if one is present (a trait
// method signature with no default has Body == nil and is skipped).
// receiverClass is "" for a free function, or the class/trait name that
// provides `self`'s type for a method.
func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl, receiverClass string) {
	a.withTypeParams(fn.TypeParams, func() {
		a.syms.Enter()
		defer a.syms.Exit()

		if receiverClass != "" {
			selfType := a.Types.NewNamed(receiverClass, nil)
			a.syms.Declare("self", &symbols.Symbol{Name: "self", Kind: symbols.KindParam, Type: selfType, Mut: true, DeclLine: fn.Line})
		}
		for _, p := range fn.Params {
			if p.Name == "self" {
				continue
			}
			pt := a.resolveTypeExpr(p.Annotation)
			if p.Default != nil {
				dt := a.resolveExpr(p.Default)
				a.checkAssignable(p, pt, dt)
			}
			a.syms.Declare(p.Name, &symbols.Symbol{Name: p.Name, Kind: symbols.KindParam, Type: pt, Mut: true, DeclLine: p.Line, DeclColumn: p.Column})
		}

		result := a.Types.NewBasic(types.Void)
		if fn.Result != nil {
			result = a.resolveTypeExpr(fn.Result)
		}

		prevReturn, prevHasRet := a.curReturn, a.curHasRet
		prevAsync, prevLoop := a.inAsync, a.inLoop
		a.curReturn, a.curHasRet = result, false
		a.inAsync, a.inLoop = fn.IsAsync, false

		if fn.Body != nil {
			a.resolveBlock(fn.Body)
			if !a.curHasRet && result != a.Types.NewBasic(types.Void) {
				a.warnf(fn, "T004_MISSING_RETURN", "function %q may fall through without returning a value", fn.Name)
			}
		}

		a.curReturn, a.curHasRet = prevReturn, prevHasRet
		a.inAsync, a.inLoop = prevAsync, prevLoop
	})
}

func (a *Analyzer) analyzeClass(cls *ast.ClassDecl) {
	prevSelf := a.selfClass
	a.selfClass = cls.Name
	defer func() { a.selfClass = prevSelf }()

	if cls.SuperClass != "" {
		if _, ok := a.classes[cls.SuperClass]; !ok {
			a.errorf(cls, "T002_UNKNOWN_TYPE", "class %q extends unknown class %q", cls.Name, cls.SuperClass)
		}
	}

	a.withTypeParams(cls.TypeParams, func() {
		seen := make(map[string]bool, len(cls.Fields))
		for _, f := range cls.Fields {
			if seen[f.Name] {
				a.errorf(f, "T003_DUPLICATE_DECL", "field %q already declared on class %q", f.Name, cls.Name)
				continue
			}
			seen[f.Name] = true
			ft := a.resolveTypeExpr(f.Annotation)
			f.ResolvedType = ft
			if f.Default != nil {
				a.syms.Enter()
				dt := a.resolveExpr(f.Default)
				a.syms.Exit()
				a.checkAssignable(f, ft, dt)
			}
		}
		for _, m := range cls.Methods {
			a.analyzeFunc(m, cls.Name)
		}
	})
}

// analyzeTraitDefaults resolves only the default (non-nil Body) methods
// of a trait; required methods have no body to analyze here, but their
// signatures were already validated when building the trait's Type in
// declareModuleSymbols.
func (a *Analyzer) analyzeTraitDefaults(tr *ast.TraitDecl) {
	a.withTypeParams(tr.TypeParams, func() {
		for _, m := range tr.Methods {
			if m.Body == nil {
				continue
			}
			a.analyzeFunc(m, tr.Name)
		}
	})
}

func (a *Analyzer) analyzeImpl(impl *ast.ImplDecl) {
	a.withTypeParams(impl.TypeParams, func() {
		for _, m := range impl.Methods {
			a.analyzeFunc(m, impl.TypeName)
		}
	})
}

// isObjectSafe applies Open Question 9b's resolution (spec.md §4.3,
// DESIGN.md): a trait is object-safe iff no required method has type
// parameters of its own. Self-position checks are limited to the
// parameter/result list naming "Self" literally, since the parser does
// not special-case the identifier. Called from resolveTypeExpr at the
// point a trait name is actually used as a dyn/trait-object type,
// rather than at the trait's own declaration: a trait that never gets
// used as a type never needs to be object-safe.
func (a *Analyzer) isObjectSafe(tr *ast.TraitDecl) bool {
	for _, m := range tr.Methods {
		if m.Body != nil {
			continue
		}
		if len(m.TypeParams) > 0 {
			return false
		}
		for _, p := range m.Params {
			if p.Name != "self" && mentionsSelf(p.Annotation) {
				return false
			}
		}
		if mentionsSelf(m.Result) {
			return false
		}
	}
	return true
}

func mentionsSelf(te *ast.TypeExpr) bool {
	if te == nil {
		return false
	}
	if te.Name == "Self" {
		return true
	}
	for _, a := range te.Args {
		if mentionsSelf(a) {
			return true
		}
	}
	for _, p := range te.Params {
		if mentionsSelf(p) {
			return true
		}
	}
	return mentionsSelf(te.Result)
}

// resolveMethod looks up methodName on className following inherent →
// trait → superclass order (spec.md's tie-break order for
// M001_AMBIGUOUS_METHOD). Returns the resolved method and true, or nil
// and false if no candidate exists; reports M001 itself when more than
// one trait impl supplies the same name and no inherent method wins.
func (a *Analyzer) resolveMethod(site ast.Node, className, methodName string) (*ast.FuncDecl, bool) {
	var inherent, fromTrait *ast.FuncDecl
	var traitHits int
	for _, impl := range a.impls[className] {
		for _, m := range impl.Methods {
			if m.Name != methodName {
				continue
			}
			if impl.TraitName == "" {
				inherent = m
			} else {
				traitHits++
				if fromTrait == nil {
					fromTrait = m
				}
			}
		}
	}
	if inherent != nil {
		return inherent, true
	}
	cls, isClass := a.classes[className]
	if isClass {
		for _, m := range cls.Methods {
			if m.Name == methodName {
				return m, true
			}
		}
	}
	if traitHits > 1 {
		a.errorf(site, "M001_AMBIGUOUS_METHOD", "call to %q on %q is ambiguous among %d trait implementations", methodName, className, traitHits)
	}
	if fromTrait != nil {
		return fromTrait, true
	}
	if isClass && cls.SuperClass != "" {
		return a.resolveMethod(site, cls.SuperClass, methodName)
	}
	return nil, false
}
