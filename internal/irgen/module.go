package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/types"
)

// pendingClass defers a class's field layout until every class name in
// the module has at least an opaque struct registered, so two classes
// that reference each other through pointer fields resolve regardless
// of declaration order.
type pendingClass struct {
	mangled  string
	name     string
	typeArgs []types.TypeID
	st       *irtypes.StructType
}

// Lowerer owns one LLVM module under construction plus every cache that
// keeps repeated lowering of the same class/function/generic
// instantiation cheap and structurally consistent.
type Lowerer struct {
	Mod   *ir.Module
	Types *types.Table
	Sink  *diagnostics.Sink
	file  string

	classes        map[string]*irtypes.StructType
	tagged         map[string]*irtypes.StructType
	typeCache      map[types.TypeID]irtypes.Type
	pendingClasses []pendingClass

	classDecls map[string]*ast.ClassDecl
	traitDecls map[string]*ast.TraitDecl
	implsFor   map[string][]*ast.ImplDecl
	funcDecls  map[string]*ast.FuncDecl
	fieldIndex map[string]map[string][]int
	superOf    map[string]string

	funcs map[string]*ir.Func

	curTypeParams map[string]types.TypeID

	rt *runtimeDecls

	locals map[string]*ir.InstAlloca

	curFunc    *ir.Func
	curBlock   *ir.Block
	curResult  types.TypeID
	curIsAsync bool
	blockSeq   int
	breakStack []*ir.Block
	contStack  []*ir.Block

	strings   map[string]*ir.Global
	strSeq    int
	lambdas   map[*ast.Lambda]*ir.Func
	lambdaSeq int
}

// New creates a Lowerer that appends to a freshly created LLVM module
// named name, sharing tbl with whatever semantic analysis pass produced
// the ResolvedType annotations it will read.
func New(name, file string, tbl *types.Table, sink *diagnostics.Sink) *Lowerer {
	mod := ir.NewModule()
	mod.SourceFilename = file
	lw := &Lowerer{
		Mod:           mod,
		Types:         tbl,
		Sink:          sink,
		file:          file,
		classes:       make(map[string]*irtypes.StructType),
		tagged:        make(map[string]*irtypes.StructType),
		typeCache:     make(map[types.TypeID]irtypes.Type),
		classDecls:    make(map[string]*ast.ClassDecl),
		traitDecls:    make(map[string]*ast.TraitDecl),
		implsFor:      make(map[string][]*ast.ImplDecl),
		funcDecls:     make(map[string]*ast.FuncDecl),
		fieldIndex:    make(map[string]map[string][]int),
		superOf:       make(map[string]string),
		funcs:         make(map[string]*ir.Func),
		curTypeParams: make(map[string]types.TypeID),
		strings:       make(map[string]*ir.Global),
		lambdas:       make(map[*ast.Lambda]*ir.Func),
	}
	lw.rt = declareRuntime(mod)
	_ = name
	return lw
}

// Lower walks mod's top-level declarations and emits every class
// struct, function body, and impl method into the Lowerer's module.
// It returns the finished *ir.Module; callers print it with m.String()
// or pipe it to an external `llc`/`opt` the way spec.md's driver does.
func (lw *Lowerer) Lower(mod *ast.Module) *ir.Module {
	lw.collectDecls(mod)

	for _, pc := range lw.pendingClasses {
		lw.defineClassBody(pc)
	}

	for _, d := range mod.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			if len(n.TypeParams) == 0 {
				lw.declareFunc(n.Name, n, "", nil)
			}
		case *ast.ClassDecl:
			for _, m := range n.Methods {
				if len(n.TypeParams) == 0 && len(m.TypeParams) == 0 {
					lw.declareFunc(methodSymbol(n.Name, m.Name), m, n.Name, nil)
				}
			}
		case *ast.ImplDecl:
			if len(n.TypeParams) == 0 {
				for _, m := range n.Methods {
					if len(m.TypeParams) == 0 {
						lw.declareFunc(methodSymbol(n.TypeName, m.Name), m, n.TypeName, nil)
					}
				}
			}
		}
	}

	for _, d := range mod.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			if len(n.TypeParams) == 0 && n.Body != nil {
				lw.lowerFuncBody(n.Name, n, "")
			}
		case *ast.ClassDecl:
			for _, m := range n.Methods {
				if len(n.TypeParams) == 0 && len(m.TypeParams) == 0 && m.Body != nil {
					lw.lowerFuncBody(methodSymbol(n.Name, m.Name), m, n.Name)
				}
			}
		case *ast.ImplDecl:
			if len(n.TypeParams) == 0 {
				for _, m := range n.Methods {
					if len(m.TypeParams) == 0 && m.Body != nil {
						lw.lowerFuncBody(methodSymbol(n.TypeName, m.Name), m, n.TypeName)
					}
				}
			}
		}
	}

	return lw.Mod
}

func methodSymbol(typeName, methodName string) string {
	return typeName + "_" + methodName
}

// collectDecls registers every class/trait/impl/func name before any
// body is lowered, the irgen analogue of the semantic analyzer's
// collectDecls pass — forward references between top-level
// declarations must resolve regardless of source order.
func (lw *Lowerer) collectDecls(mod *ast.Module) {
	for _, d := range mod.Decls {
		switch n := d.(type) {
		case *ast.ClassDecl:
			lw.classDecls[n.Name] = n
			if len(n.TypeParams) == 0 {
				lw.classStruct(n.Name, nil)
			}
		case *ast.TraitDecl:
			lw.traitDecls[n.Name] = n
		case *ast.ImplDecl:
			lw.implsFor[n.TypeName] = append(lw.implsFor[n.TypeName], n)
		case *ast.FuncDecl:
			lw.funcDecls[n.Name] = n
		}
	}
}

// defineClassBody fills in a previously-opaque class struct's field
// list once every class name in the module is at least registered,
// prepending the superclass's fields so a subclass pointer can be
// passed anywhere its superclass is expected by simple pointer-cast
// (single inheritance, field layout compatible by construction).
func (lw *Lowerer) defineClassBody(pc pendingClass) {
	decl, ok := lw.classDecls[pc.name]
	if !ok {
		return
	}

	prevParams := lw.curTypeParams
	lw.curTypeParams = make(map[string]types.TypeID)
	for i, tp := range decl.TypeParams {
		if i < len(pc.typeArgs) {
			lw.curTypeParams[tp.Name] = pc.typeArgs[i]
		}
	}
	defer func() { lw.curTypeParams = prevParams }()

	idx := make(map[string][]int)
	var fields []irtypes.Type
	if decl.SuperClass != "" {
		fields = append(fields, lw.classStruct(decl.SuperClass, nil))
		superMangled := lw.mangleName(decl.SuperClass, nil)
		lw.superOf[pc.mangled] = superMangled
		for name, path := range lw.fieldIndex[superMangled] {
			// Field is reached by first stepping into the embedded
			// superclass struct at index 0, then its own path.
			idx[name] = append([]int{0}, path...)
		}
	}
	base := len(fields)
	for i, f := range decl.Fields {
		fields = append(fields, lw.mapType(lw.resolveTypeExpr(f.Annotation)))
		idx[f.Name] = []int{base + i}
	}
	lw.fieldIndex[pc.mangled] = idx
	if len(fields) == 0 {
		// LLVM disallows a fully empty struct body in some consumers;
		// a single padding byte keeps every class instantiable.
		fields = []irtypes.Type{irtypes.I8}
	}
	pc.st.Fields = fields
	pc.st.Opaque = false
}

// declareFunc registers fn's LLVM signature (without a body) under
// symbol, so forward calls to it from an earlier-lowered function
// resolve to the same *ir.Func value that lowerFuncBody later attaches
// blocks to.
func (lw *Lowerer) declareFunc(symbol string, fn *ast.FuncDecl, receiverClass string, typeArgs []types.TypeID) *ir.Func {
	if f, ok := lw.funcs[symbol]; ok {
		return f
	}

	prevParams := lw.curTypeParams
	if typeArgs != nil {
		lw.curTypeParams = make(map[string]types.TypeID)
		for i, tp := range fn.TypeParams {
			if i < len(typeArgs) {
				lw.curTypeParams[tp.Name] = typeArgs[i]
			}
		}
	}

	var params []*ir.Param
	if receiverClass != "" {
		self := ir.NewParam("self", irtypes.NewPointer(lw.classStruct(receiverClass, nil)))
		params = append(params, self)
	}
	for _, p := range fn.Params {
		var pt irtypes.Type
		if p.Annotation != nil {
			pt = lw.mapType(lw.resolveTypeExpr(p.Annotation))
		} else {
			pt = irtypes.NewPointer(irtypes.I8)
		}
		params = append(params, ir.NewParam(p.Name, pt))
	}

	resultID := lw.resolveTypeExpr(fn.Result)
	result := lw.mapType(resultID)
	if fn.IsAsync {
		// spec.md §4.3: an async function is externally typed Future<T>,
		// so the symbol every call site resolves against must return the
		// opaque Future handle, not the unwrapped T. lowerAsyncFuncBody
		// attaches this wrapper's body and the private T-computing
		// function it delegates to.
		result = lw.mapType(lw.Types.NewFuture(resultID))
	}

	f := lw.Mod.NewFunc(symbol, result, params...)
	lw.funcs[symbol] = f
	lw.curTypeParams = prevParams
	return f
}
