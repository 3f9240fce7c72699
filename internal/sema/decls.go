package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/types"
)

// collectDecls is semantic analysis pass one: register every top-level
// class/trait/impl/function before resolving any body, so a function
// may call one declared later in the same file.
func (a *Analyzer) collectDecls(mod *ast.Module) {
	for _, d := range mod.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			if prev, ok := a.funcs[n.Name]; ok {
				a.errorf(n, "T003_DUPLICATE_DECL", "function %q already declared at line %d", n.Name, prev.Line)
				continue
			}
			a.funcs[n.Name] = n
		case *ast.ClassDecl:
			if prev, ok := a.classes[n.Name]; ok {
				a.errorf(n, "T003_DUPLICATE_DECL", "class %q already declared at line %d", n.Name, prev.Line)
				continue
			}
			a.classes[n.Name] = n
		case *ast.TraitDecl:
			if prev, ok := a.traits[n.Name]; ok {
				a.errorf(n, "T003_DUPLICATE_DECL", "trait %q already declared at line %d", n.Name, prev.Line)
				continue
			}
			a.traits[n.Name] = n
		case *ast.ImplDecl:
			a.impls[n.TypeName] = append(a.impls[n.TypeName], n)
		}
	}
}

// declareModuleSymbols binds every top-level name into the module scope
// so free-function calls and class/trait name references resolve
// without re-walking the declaration maps.
func (a *Analyzer) declareModuleSymbols() {
	for name, fn := range a.funcs {
		a.withTypeParams(fn.TypeParams, func() {
			sig := a.funcSignature(fn)
			a.syms.Declare(name, &symbols.Symbol{
				Name: name, Kind: symbols.KindFunc, Type: sig,
				DeclLine: fn.Line, DeclColumn: fn.Column,
			})
		})
	}
	for name, cls := range a.classes {
		a.withTypeParams(cls.TypeParams, func() {
			args := typeParamArgs(cls.TypeParams, a.curTypeParams)
			a.syms.Declare(name, &symbols.Symbol{
				Name: name, Kind: symbols.KindClass, Type: a.Types.NewNamed(name, args),
				DeclLine: cls.Line, DeclColumn: cls.Column,
			})
		})
	}
	for name, tr := range a.traits {
		a.withTypeParams(tr.TypeParams, func() {
			args := typeParamArgs(tr.TypeParams, a.curTypeParams)
			a.syms.Declare(name, &symbols.Symbol{
				Name: name, Kind: symbols.KindTrait, Type: a.Types.NewTraitObject(name, args),
				DeclLine: tr.Line, DeclColumn: tr.Column,
			})
		})
	}
}

// checkImplTargets verifies every `impl` block names a real class and
// (if present) a real trait, and that the class satisfies every
// required trait method.
func (a *Analyzer) checkImplTargets() {
	for typeName, impls := range a.impls {
		cls, ok := a.classes[typeName]
		if !ok {
			for _, impl := range impls {
				a.errorf(impl, "T002_UNKNOWN_TYPE", "impl target %q is not a declared class", typeName)
			}
			continue
		}
		for _, impl := range impls {
			if impl.TraitName == "" {
				continue
			}
			tr, ok := a.traits[impl.TraitName]
			if !ok {
				a.errorf(impl, "T002_UNKNOWN_TYPE", "impl trait %q is not a declared trait", impl.TraitName)
				continue
			}
			a.checkConformance(cls, tr, impl)
		}
	}
}

func (a *Analyzer) checkConformance(cls *ast.ClassDecl, tr *ast.TraitDecl, impl *ast.ImplDecl) {
	provided := make(map[string]bool, len(impl.Methods))
	for _, m := range impl.Methods {
		provided[m.Name] = true
	}
	for _, req := range tr.Methods {
		if req.Body != nil {
			continue // default method, not required
		}
		if !provided[req.Name] {
			a.errorf(impl, "M003_INCOMPLETE_IMPL", "class %q does not implement required method %q of trait %q", cls.Name, req.Name, tr.Name)
		}
	}
}

// funcSignature builds a Function TypeID from fn's parameter and result
// annotations, assuming a.curTypeParams already binds fn's own type
// parameters (see withTypeParams).
func (a *Analyzer) funcSignature(fn *ast.FuncDecl) types.TypeID {
	params := make([]types.TypeID, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, a.resolveTypeExpr(p.Annotation))
	}
	result := a.Types.NewBasic(types.Void)
	if fn.Result != nil {
		result = a.resolveTypeExpr(fn.Result)
	}
	return a.Types.NewFunction(params, result, fn.IsAsync)
}

// withTypeParams binds params as abstract TypeParameter types for the
// duration of fn, restoring whatever binding (if any) was active
// before — nested generic scopes (e.g. a generic method on a generic
// class) shadow correctly because the outer map is restored afterward.
func (a *Analyzer) withTypeParams(params []*ast.TypeParamDecl, fn func()) {
	prev := a.curTypeParams
	merged := make(map[string]types.TypeID, len(prev)+len(params))
	for k, v := range prev {
		merged[k] = v
	}
	for _, tp := range params {
		merged[tp.Name] = a.Types.NewTypeParameter(tp.Name, tp.Bounds)
	}
	a.curTypeParams = merged
	fn()
	a.curTypeParams = prev
}

func typeParamArgs(params []*ast.TypeParamDecl, bound map[string]types.TypeID) []types.TypeID {
	out := make([]types.TypeID, len(params))
	for i, tp := range params {
		out[i] = bound[tp.Name]
	}
	return out
}
