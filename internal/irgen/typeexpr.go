package irgen

import "github.com/tocin-lang/tocin/internal/ast"
import "github.com/tocin-lang/tocin/internal/types"

// resolveTypeExpr mirrors sema.Analyzer.resolveTypeExpr closely enough
// that, run against the same shared *types.Table, it interns the exact
// same TypeID for a given annotation: Table.Intern dedups purely by
// structural key, so two independent resolvers produce identical IDs
// without needing to share any other state. Diagnostics are not
// re-reported here — a module only reaches irgen after a clean sema
// pass, so an unknown name at this point would be an irgen bug, not a
// user error.
func (lw *Lowerer) resolveTypeExpr(te *ast.TypeExpr) types.TypeID {
	if te == nil {
		return lw.Types.NewBasic(types.Void)
	}

	var id types.TypeID
	switch {
	case te.IsRef:
		inner := lw.resolveTypeExpr(te.Args[0])
		return lw.Types.NewReference(inner, te.RefMut)
	case te.Result != nil || te.Params != nil:
		params := make([]types.TypeID, len(te.Params))
		for i, p := range te.Params {
			params[i] = lw.resolveTypeExpr(p)
		}
		id = lw.Types.NewFunction(params, lw.resolveTypeExpr(te.Result), te.IsAsync)
	default:
		id = lw.resolveNamedTypeExpr(te)
	}

	if te.Nullable {
		id = lw.Types.NewNullable(id)
	}
	return id
}

func (lw *Lowerer) resolveNamedTypeExpr(te *ast.TypeExpr) types.TypeID {
	switch te.Name {
	case "bool":
		return lw.Types.NewBasic(types.Bool)
	case "int":
		return lw.Types.NewBasic(types.Int)
	case "float":
		return lw.Types.NewBasic(types.Float)
	case "char":
		return lw.Types.NewBasic(types.Char)
	case "string":
		return lw.Types.NewBasic(types.String)
	case "void":
		return lw.Types.NewBasic(types.Void)
	case "Option":
		if len(te.Args) != 1 {
			return lw.Types.NewBasic(types.Unknown)
		}
		return lw.Types.NewOption(lw.resolveTypeExpr(te.Args[0]))
	case "Result":
		if len(te.Args) != 2 {
			return lw.Types.NewBasic(types.Unknown)
		}
		return lw.Types.NewResult(lw.resolveTypeExpr(te.Args[0]), lw.resolveTypeExpr(te.Args[1]))
	case "Channel":
		if len(te.Args) != 1 {
			return lw.Types.NewBasic(types.Unknown)
		}
		return lw.Types.NewChannel(lw.resolveTypeExpr(te.Args[0]), types.CanSend|types.CanReceive)
	default:
		if id, ok := lw.curTypeParams[te.Name]; ok {
			return id
		}
		args := make([]types.TypeID, len(te.Args))
		for i, ar := range te.Args {
			args[i] = lw.resolveTypeExpr(ar)
		}
		if _, ok := lw.traitDecls[te.Name]; ok {
			return lw.Types.NewTraitObject(te.Name, args)
		}
		return lw.Types.NewNamed(te.Name, args)
	}
}
