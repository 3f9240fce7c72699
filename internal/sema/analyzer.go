package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/types"
)

// maxGenericRecursion bounds the depth of nested generic instantiation
// before T034_GENERIC_RECURSION_LIMIT fires (spec.md §4.3).
const maxGenericRecursion = 32

// Analyzer runs Tocin's semantic analysis over one parsed Module.
// Analyzer.resolve* methods dispatch over concrete ast node types the
// way the teacher's converter.ConvertNode type-switches over TypeScript
// nodes, annotating BaseNode.ResolvedType instead of building a
// parallel tree and reporting problems to sink instead of returning an
// error value.
type Analyzer struct {
	Types *types.Table
	syms  *symbols.Table
	sink  *diagnostics.Sink
	file  string

	classes map[string]*ast.ClassDecl
	traits  map[string]*ast.TraitDecl
	impls   map[string][]*ast.ImplDecl // keyed by implementing TypeName
	funcs   map[string]*ast.FuncDecl

	curTypeParams map[string]types.TypeID
	instStack     []string // active (name, args) instantiation keys; T034 guard

	curReturn  types.TypeID
	curHasRet  bool
	inAsync    bool
	inLoop     bool
	selfClass  string

	// lambdaBoundary is the scope depth of the innermost lambda body
	// currently being resolved, or 0 when not inside one. A name that
	// resolves to a variable/parameter binding declared at a shallower
	// depth is a free-variable capture; irgen's lambda lowering (a
	// standalone *ir.Func with no closure environment) cannot represent
	// one, so resolveIdentifier rejects it here instead (spec.md §9 Open
	// Question (a)).
	lambdaBoundary int
}

// New creates an Analyzer reporting to sink. file is used in diagnostic
// records.
func New(file string, sink *diagnostics.Sink) *Analyzer {
	return &Analyzer{
		Types:   types.NewTable(),
		syms:    symbols.NewTable(),
		sink:    sink,
		file:    file,
		classes: make(map[string]*ast.ClassDecl),
		traits:  make(map[string]*ast.TraitDecl),
		impls:   make(map[string][]*ast.ImplDecl),
		funcs:   make(map[string]*ast.FuncDecl),
	}
}

// Analyze runs the full two-pass analysis over mod: pass one collects
// every top-level declaration so forward references (a function
// calling one declared later in the file) resolve; pass two walks
// every body, inferring and checking types.
func (a *Analyzer) Analyze(mod *ast.Module) {
	a.collectDecls(mod)
	a.declareModuleSymbols()
	a.checkImplTargets()

	for _, d := range mod.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			a.analyzeFunc(n, "")
		case *ast.ClassDecl:
			a.analyzeClass(n)
		case *ast.TraitDecl:
			a.analyzeTraitDefaults(n)
		case *ast.ImplDecl:
			a.analyzeImpl(n)
		}
	}
}

// posNode is satisfied by both ast.Node and *ast.TypeExpr (which is not
// itself an ast.Node but still carries source position).
type posNode interface{ Pos() int }

func (a *Analyzer) errorf(n posNode, code, format string, args ...any) {
	line, col := a.posOf(n)
	a.sink.Reportf(diagnostics.SeverityError, code, a.file, line, col, format, args...)
}

func (a *Analyzer) warnf(n posNode, code, format string, args ...any) {
	line, col := a.posOf(n)
	a.sink.Reportf(diagnostics.SeverityWarning, code, a.file, line, col, format, args...)
}

// posOf recovers line/column from a node's BaseNode when possible; the
// parser stamps Line/Column on most but not all synthesized nodes, so
// this degrades to (0,0) rather than panicking.
func (a *Analyzer) posOf(n posNode) (int, int) {
	type positioner interface{ Position() (int, int) }
	if n == nil {
		return 0, 0
	}
	if p, ok := n.(positioner); ok {
		return p.Position()
	}
	return 0, 0
}

// resolveTypeExpr converts a parser-level TypeExpr into an interned
// TypeID, applying the nullable suffix last so `Option<int>?` wraps the
// whole Option in a nullable rather than its payload.
func (a *Analyzer) resolveTypeExpr(te *ast.TypeExpr) types.TypeID {
	if te == nil {
		return a.Types.NewBasic(types.Void)
	}

	var id types.TypeID
	switch {
	case te.IsRef:
		inner := a.resolveTypeExpr(te.Args[0])
		return a.Types.NewReference(inner, te.RefMut)
	case te.Result != nil || te.Params != nil:
		params := make([]types.TypeID, len(te.Params))
		for i, p := range te.Params {
			params[i] = a.resolveTypeExpr(p)
		}
		id = a.Types.NewFunction(params, a.resolveTypeExpr(te.Result), te.IsAsync)
	default:
		id = a.resolveNamedTypeExpr(te)
	}

	if te.Nullable {
		id = a.Types.NewNullable(id)
	}
	return id
}

func (a *Analyzer) resolveNamedTypeExpr(te *ast.TypeExpr) types.TypeID {
	switch te.Name {
	case "bool":
		return a.Types.NewBasic(types.Bool)
	case "int":
		return a.Types.NewBasic(types.Int)
	case "float":
		return a.Types.NewBasic(types.Float)
	case "char":
		return a.Types.NewBasic(types.Char)
	case "string":
		return a.Types.NewBasic(types.String)
	case "void":
		return a.Types.NewBasic(types.Void)
	case "Option":
		if len(te.Args) != 1 {
			a.errorf(te, "T001_BAD_GENERIC_ARITY", "Option takes exactly one type argument")
			return a.Types.NewBasic(types.Unknown)
		}
		return a.Types.NewOption(a.resolveTypeExpr(te.Args[0]))
	case "Result":
		if len(te.Args) != 2 {
			a.errorf(te, "T001_BAD_GENERIC_ARITY", "Result takes exactly two type arguments")
			return a.Types.NewBasic(types.Unknown)
		}
		return a.Types.NewResult(a.resolveTypeExpr(te.Args[0]), a.resolveTypeExpr(te.Args[1]))
	case "Channel":
		if len(te.Args) != 1 {
			a.errorf(te, "T001_BAD_GENERIC_ARITY", "Channel takes exactly one type argument")
			return a.Types.NewBasic(types.Unknown)
		}
		return a.Types.NewChannel(a.resolveTypeExpr(te.Args[0]), types.CanSend|types.CanReceive)
	default:
		if id, ok := a.curTypeParams[te.Name]; ok {
			return id
		}
		args := make([]types.TypeID, len(te.Args))
		for i, ar := range te.Args {
			args[i] = a.resolveTypeExpr(ar)
		}
		if tr, ok := a.traits[te.Name]; ok {
			if !a.isObjectSafe(tr) {
				a.warnf(te, "M002_TRAIT_NOT_OBJECT_SAFE", "trait %q is not object-safe and cannot be used as a dyn type", te.Name)
			}
			return a.Types.NewTraitObject(te.Name, args)
		}
		if te.Name != "" {
			if _, ok := a.classes[te.Name]; !ok {
				a.errorf(te, "T002_UNKNOWN_TYPE", "unknown type %q", te.Name)
			}
		}
		return a.Types.NewNamed(te.Name, args)
	}
}
