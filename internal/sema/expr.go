package sema

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/symbols"
	"github.com/tocin-lang/tocin/internal/token"
	"github.com/tocin-lang/tocin/internal/types"
)

// typeSetter lets resolveExpr stamp the computed TypeID back onto the
// node it came from without a type switch at every call site.
type typeSetter interface {
	SetResolvedType(types.TypeID)
}

// resolveExpr dispatches over every concrete expression kind and
// returns its inferred/checked TypeID, mirroring the teacher's
// converter.ConvertNode type switch (see doc.go).
func (a *Analyzer) resolveExpr(e ast.Expr) types.TypeID {
	if e == nil {
		return a.Types.NewBasic(types.Void)
	}

	var result types.TypeID
	switch n := e.(type) {
	case *ast.Literal:
		result = a.resolveLiteral(n)
	case *ast.Identifier:
		result = a.resolveIdentifier(n)
	case *ast.SelfExpr:
		result = a.resolveSelf(n)
	case *ast.Unary:
		result = a.resolveUnary(n)
	case *ast.Binary:
		result = a.resolveBinaryExpr(n)
	case *ast.Grouping:
		result = a.resolveExpr(n.Inner)
	case *ast.Assign:
		result = a.resolveAssign(n)
	case *ast.Call:
		result = a.resolveCall(n)
	case *ast.FieldGet:
		result = a.resolveFieldGet(n)
	case *ast.FieldSet:
		objType := a.resolveExpr(n.Object)
		ft := a.fieldType(n, objType, n.Name)
		vt := a.resolveExpr(n.Value)
		a.checkAssignable(n, ft, vt)
		result = ft
	case *ast.IndexGet:
		result = a.resolveIndexGet(n)
	case *ast.IndexSet:
		ct := a.resolveExpr(n.Container)
		a.resolveExpr(n.Index)
		elem := a.elemOfIndexable(n, ct)
		vt := a.resolveExpr(n.Value)
		a.checkAssignable(n, elem, vt)
		result = elem
	case *ast.ListLiteral:
		result = a.resolveListLiteral(n)
	case *ast.DictLiteral:
		result = a.resolveDictLiteral(n)
	case *ast.Lambda:
		result = a.resolveLambda(n)
	case *ast.Await:
		result = a.resolveAwait(n)
	case *ast.StringInterp:
		for _, sub := range n.Exprs {
			a.resolveExpr(sub)
		}
		result = a.Types.NewBasic(types.String)
	case *ast.New:
		result = a.resolveNew(n)
	case *ast.Move:
		result = a.resolveExpr(n.Operand)
		a.markMoved(n.Operand)
	case *ast.Some:
		result = a.Types.NewOption(a.resolveExpr(n.Value))
	case *ast.NoneLit:
		result = a.Types.NewOption(a.Types.NewBasic(types.Unknown))
	case *ast.Ok:
		result = a.Types.NewResult(a.resolveExpr(n.Value), a.Types.NewBasic(types.Unknown))
	case *ast.ErrExpr:
		result = a.Types.NewResult(a.Types.NewBasic(types.Unknown), a.resolveExpr(n.Value))
	case *ast.ChanRecv:
		result = a.resolveChanRecv(n)
	case *ast.RangeExpr:
		a.resolveExpr(n.Start)
		a.resolveExpr(n.End)
		result = a.Types.NewNamed("Range", []types.TypeID{a.Types.NewBasic(types.Int)})
	case *ast.Cast:
		a.resolveExpr(n.Value)
		result = a.resolveTypeExpr(n.Target)
	default:
		result = a.Types.NewBasic(types.Unknown)
	}

	if ts, ok := e.(typeSetter); ok {
		ts.SetResolvedType(result)
	}
	return result
}

func (a *Analyzer) resolveLiteral(n *ast.Literal) types.TypeID {
	switch n.Value.(type) {
	case nil:
		return a.Types.NewNullable(a.Types.NewBasic(types.Unknown))
	case bool:
		return a.Types.NewBasic(types.Bool)
	case int64:
		return a.Types.NewBasic(types.Int)
	case float64:
		return a.Types.NewBasic(types.Float)
	case string:
		// The lexer does not distinguish a one-rune char literal from a
		// string literal at this layer (both produce a Go string Value);
		// both are typed `string` here, and no later phase narrows a
		// one-rune literal to `char`.
		return a.Types.NewBasic(types.String)
	default:
		return a.Types.NewBasic(types.Unknown)
	}
}

func (a *Analyzer) resolveIdentifier(n *ast.Identifier) types.TypeID {
	sym, depth, ok := a.syms.ResolveDepth(n.Name)
	if !ok {
		a.errorf(n, "T012_UNDEFINED_NAME", "undefined name %q", n.Name)
		return a.Types.NewBasic(types.Unknown)
	}
	if a.lambdaBoundary > 0 && depth < a.lambdaBoundary && (sym.Kind == symbols.KindVar || sym.Kind == symbols.KindParam) {
		a.errorf(n, "T036_LAMBDA_CAPTURE_NOT_SUPPORTED", "lambda cannot capture outer binding %q; pass it as a parameter instead", n.Name)
	}
	if sym.Ownership == symbols.Moved {
		a.errorf(n, "O002_USE_AFTER_MOVE", "use of %q after it was moved (declared at line %d)", n.Name, sym.DeclLine)
	}
	t := sym.Type
	if sym.NullGuarded {
		tt := a.Types.Get(t)
		if tt.Kind == types.KindNullable {
			t = tt.Elem
		}
	}
	return t
}

func (a *Analyzer) resolveSelf(n *ast.SelfExpr) types.TypeID {
	sym, ok := a.syms.Resolve("self")
	if !ok {
		a.errorf(n, "T011_SELF_OUTSIDE_METHOD", "'self' used outside a method body")
		return a.Types.NewBasic(types.Unknown)
	}
	return sym.Type
}

func (a *Analyzer) resolveUnary(n *ast.Unary) types.TypeID {
	ot := a.resolveExpr(n.Operand)
	ov := a.Types.Get(ot)
	switch n.Op {
	case token.SUB:
		if !isUnknown(ov) && !a.isNumeric(ov) {
			a.errorf(n, "T020_NOT_NUMERIC", "unary '-' requires a numeric operand")
		}
		return ot
	case token.LNOT, token.NOT:
		a.checkBoolish(n, ot)
		return a.Types.NewBasic(types.Bool)
	case token.BNOT:
		return a.Types.NewBasic(types.Int)
	case token.BAND:
		return a.Types.NewReference(ot, false)
	case token.MUL:
		if ov.Kind == types.KindPointer || ov.Kind == types.KindReference {
			return ov.Elem
		}
		if !isUnknown(ov) {
			a.errorf(n, "T021_NOT_A_POINTER", "cannot dereference a non-pointer value")
		}
		return a.Types.NewBasic(types.Unknown)
	case token.NOT_NULL:
		if ov.Kind == types.KindNullable {
			return ov.Elem
		}
		if !isUnknown(ov) {
			a.warnf(n, "N002_REDUNDANT_NOT_NULL", "'!!' on an already non-nullable value")
		}
		return ot
	default:
		return a.Types.NewBasic(types.Unknown)
	}
}

func (a *Analyzer) resolveBinaryExpr(n *ast.Binary) types.TypeID {
	lt := a.resolveExpr(n.Left)
	rt := a.resolveExpr(n.Right)
	return a.binaryResultType(n, n.Op, lt, rt)
}

func (a *Analyzer) resolveAssign(n *ast.Assign) types.TypeID {
	targetType := a.resolveTargetType(n.Target)
	valType := a.resolveExpr(n.Value)

	if n.Op == token.ASSIGN {
		a.checkAssignable(n, targetType, valType)
	} else {
		a.binaryResultType(n, n.Op, targetType, valType)
	}
	a.checkMutableTarget(n.Target)
	return targetType
}

// resolveTargetType resolves the type of an assignment target without
// re-deriving it through the generic expression path, since Identifier
// targets also need their ownership/narrowing state reset by a fresh
// assignment.
func (a *Analyzer) resolveTargetType(target ast.Expr) types.TypeID {
	switch t := target.(type) {
	case *ast.Identifier:
		sym, depth, ok := a.syms.ResolveDepth(t.Name)
		if !ok {
			a.errorf(t, "T012_UNDEFINED_NAME", "undefined name %q", t.Name)
			return a.Types.NewBasic(types.Unknown)
		}
		if a.lambdaBoundary > 0 && depth < a.lambdaBoundary && (sym.Kind == symbols.KindVar || sym.Kind == symbols.KindParam) {
			a.errorf(t, "T036_LAMBDA_CAPTURE_NOT_SUPPORTED", "lambda cannot capture outer binding %q; pass it as a parameter instead", t.Name)
		}
		sym.NullGuarded = false
		sym.Ownership = symbols.Owned
		return sym.Type
	case *ast.FieldGet:
		objType := a.resolveExpr(t.Object)
		return a.fieldType(t, objType, t.Name)
	case *ast.IndexGet:
		ct := a.resolveExpr(t.Container)
		a.resolveExpr(t.Index)
		return a.elemOfIndexable(t, ct)
	default:
		return a.resolveExpr(target)
	}
}

func (a *Analyzer) checkMutableTarget(target ast.Expr) {
	id, ok := target.(*ast.Identifier)
	if !ok {
		return
	}
	sym, ok := a.syms.Resolve(id.Name)
	if ok && !sym.Mut && sym.Kind == symbols.KindVar {
		a.errorf(id, "T013_ASSIGN_TO_IMMUTABLE", "cannot assign to immutable binding %q (declare with 'let mut')", id.Name)
	}
}

func (a *Analyzer) resolveFieldGet(n *ast.FieldGet) types.TypeID {
	objType := a.resolveExpr(n.Object)
	ft := a.fieldType(n, objType, n.Name)
	if n.Safe {
		fv := a.Types.Get(ft)
		if fv.Kind != types.KindNullable {
			ft = a.Types.NewNullable(ft)
		}
	}
	return ft
}

func (a *Analyzer) fieldType(site ast.Node, objType types.TypeID, name string) types.TypeID {
	t := a.Types.Get(objType)
	if t.Kind == types.KindNullable {
		a.errorf(site, "N003_NULLABLE_DEREFERENCE", "field access on a possibly-null value without '?.'")
		t = a.Types.Get(t.Elem)
	}
	if t.Kind != types.KindNamed {
		if !isUnknown(t) {
			a.errorf(site, "T016_NOT_A_CLASS", "value of type %s is not a class instance", a.Types.String(objType))
		}
		return a.Types.NewBasic(types.Unknown)
	}
	for c := a.classes[t.Name]; c != nil; {
		for _, f := range c.Fields {
			if f.Name == name {
				return a.resolveTypeExpr(f.Annotation)
			}
		}
		if c.SuperClass == "" {
			break
		}
		c = a.classes[c.SuperClass]
	}
	a.errorf(site, "T017_UNKNOWN_FIELD", "class %q has no field %q", t.Name, name)
	return a.Types.NewBasic(types.Unknown)
}

// resolveCall handles three callee shapes: a bare name naming a free
// function (or a class name, for implicit constructor call syntax), a
// FieldGet naming a method (`obj.method(...)`), and anything else
// (a call through a first-class function value).
func (a *Analyzer) resolveCall(n *ast.Call) types.TypeID {
	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		if sym, ok := a.syms.Resolve(callee.Name); ok {
			switch sym.Kind {
			case symbols.KindFunc:
				callee.SetResolvedType(sym.Type)
				return a.checkCallAgainstSignature(n, sym.Type)
			case symbols.KindClass:
				return a.resolveConstructorCall(n, callee.Name)
			}
		}
		if _, ok := a.classes[callee.Name]; ok {
			return a.resolveConstructorCall(n, callee.Name)
		}
		a.errorf(callee, "T012_UNDEFINED_NAME", "undefined name %q", callee.Name)
		for _, argExpr := range n.Args {
			a.resolveExpr(argExpr)
		}
		return a.Types.NewBasic(types.Unknown)
	case *ast.FieldGet:
		return a.resolveMethodCall(n, callee)
	default:
		ct := a.resolveExpr(n.Callee)
		return a.checkCallAgainstSignature(n, ct)
	}
}

func (a *Analyzer) resolveConstructorCall(n *ast.Call, className string) types.TypeID {
	cls := a.classes[className]
	for i, argExpr := range n.Args {
		at := a.resolveExpr(argExpr)
		if cls != nil && i < len(cls.Fields) {
			a.checkAssignable(argExpr, a.resolveTypeExpr(cls.Fields[i].Annotation), at)
		}
	}
	args := make([]types.TypeID, len(n.TypeArgs))
	for i, ta := range n.TypeArgs {
		args[i] = a.resolveTypeExpr(ta)
	}
	return a.Types.NewNamed(className, args)
}

func (a *Analyzer) resolveMethodCall(n *ast.Call, callee *ast.FieldGet) types.TypeID {
	objType := a.resolveExpr(callee.Object)
	className := a.classNameOf(objType)
	if className == "" {
		ov := a.Types.Get(objType)
		if ov.Kind == types.KindNullable {
			a.errorf(callee, "N003_NULLABLE_DEREFERENCE", "method call on a possibly-null value without '?.'")
			className = a.classNameOf(ov.Elem)
		}
	}
	if className == "" {
		for _, argExpr := range n.Args {
			a.resolveExpr(argExpr)
		}
		return a.Types.NewBasic(types.Unknown)
	}

	method, ok := a.resolveMethod(n, className, callee.Name)
	if !ok {
		a.errorf(callee, "T015_UNKNOWN_METHOD", "class %q has no method %q", className, callee.Name)
		for _, argExpr := range n.Args {
			a.resolveExpr(argExpr)
		}
		return a.Types.NewBasic(types.Unknown)
	}

	params := method.Params
	offset := 0
	if len(params) > 0 && params[0].Name == "self" {
		offset = 1
	}
	for i, argExpr := range n.Args {
		at := a.resolveExpr(argExpr)
		if pi := i + offset; pi < len(params) {
			a.checkAssignable(argExpr, a.resolveTypeExpr(params[pi].Annotation), at)
		}
	}
	result := a.Types.NewBasic(types.Void)
	if method.Result != nil {
		result = a.resolveTypeExpr(method.Result)
	}
	if method.IsAsync {
		result = a.Types.NewFuture(result)
	}
	if n.Optional {
		rv := a.Types.Get(result)
		if rv.Kind != types.KindNullable {
			result = a.Types.NewNullable(result)
		}
	}
	return result
}

// checkCallAgainstSignature type-checks n.Args against a Function
// TypeID and returns its result, degrading to Unknown (still resolving
// every argument so nested diagnostics still fire) when calleeType
// isn't actually callable.
func (a *Analyzer) checkCallAgainstSignature(n *ast.Call, calleeType types.TypeID) types.TypeID {
	t := a.Types.Get(calleeType)
	if t.Kind != types.KindFunction {
		if !isUnknown(t) {
			a.errorf(n, "T014_NOT_CALLABLE", "value of type %s is not callable", a.Types.String(calleeType))
		}
		for _, argExpr := range n.Args {
			a.resolveExpr(argExpr)
		}
		return a.Types.NewBasic(types.Unknown)
	}
	for i, argExpr := range n.Args {
		at := a.resolveExpr(argExpr)
		if i < len(t.Params) {
			a.checkAssignable(argExpr, t.Params[i], at)
		}
	}
	result := t.Result
	if t.IsAsync {
		result = a.Types.NewFuture(result)
	}
	if n.Optional {
		rv := a.Types.Get(result)
		if rv.Kind != types.KindNullable {
			result = a.Types.NewNullable(result)
		}
	}
	return result
}

func (a *Analyzer) resolveIndexGet(n *ast.IndexGet) types.TypeID {
	ct := a.resolveExpr(n.Container)
	a.resolveExpr(n.Index)
	return a.elemOfIndexable(n, ct)
}

func (a *Analyzer) elemOfIndexable(site ast.Node, ct types.TypeID) types.TypeID {
	t := a.Types.Get(ct)
	switch t.Kind {
	case types.KindArray:
		return t.Elem
	case types.KindNamed:
		if len(t.TypeArgs) >= 1 {
			return t.TypeArgs[len(t.TypeArgs)-1]
		}
	}
	if !isUnknown(t) {
		a.errorf(site, "T018_NOT_INDEXABLE", "value of type %s is not indexable", a.Types.String(ct))
	}
	return a.Types.NewBasic(types.Unknown)
}

func (a *Analyzer) resolveListLiteral(n *ast.ListLiteral) types.TypeID {
	if len(n.Elems) == 0 {
		return a.Types.NewNamed("List", []types.TypeID{a.Types.NewBasic(types.Unknown)})
	}
	elem := a.resolveExpr(n.Elems[0])
	for _, e := range n.Elems[1:] {
		a.checkAssignable(e, elem, a.resolveExpr(e))
	}
	return a.Types.NewNamed("List", []types.TypeID{elem})
}

func (a *Analyzer) resolveDictLiteral(n *ast.DictLiteral) types.TypeID {
	if len(n.Entries) == 0 {
		u := a.Types.NewBasic(types.Unknown)
		return a.Types.NewNamed("Dict", []types.TypeID{u, u})
	}
	kt := a.resolveExpr(n.Entries[0].Key)
	vt := a.resolveExpr(n.Entries[0].Value)
	for _, ent := range n.Entries[1:] {
		a.checkAssignable(ent.Key, kt, a.resolveExpr(ent.Key))
		a.checkAssignable(ent.Value, vt, a.resolveExpr(ent.Value))
	}
	return a.Types.NewNamed("Dict", []types.TypeID{kt, vt})
}

func (a *Analyzer) resolveLambda(n *ast.Lambda) types.TypeID {
	a.syms.Enter()
	defer a.syms.Exit()

	// irgen lowers a lambda to its own standalone *ir.Func with no
	// closure environment (spec.md §9 Open Question (a)), so any
	// reference to a binding declared outside this new scope must be
	// rejected here rather than silently lowered wrong.
	prevBoundary := a.lambdaBoundary
	a.lambdaBoundary = a.syms.Depth()
	defer func() { a.lambdaBoundary = prevBoundary }()

	params := make([]types.TypeID, len(n.Params))
	for i, p := range n.Params {
		pt := a.Types.NewBasic(types.Unknown)
		if p.Annotation != nil {
			pt = a.resolveTypeExpr(p.Annotation)
		}
		params[i] = pt
		a.syms.Declare(p.Name, &symbols.Symbol{Name: p.Name, Kind: symbols.KindParam, Type: pt, Mut: true})
	}

	prevReturn, prevHasRet, prevAsync := a.curReturn, a.curHasRet, a.inAsync
	a.inAsync = n.IsAsync

	var result types.TypeID
	switch body := n.Body.(type) {
	case *ast.ExprStmt:
		result = a.resolveExpr(body.X)
	case *ast.Block:
		a.curReturn, a.curHasRet = a.Types.NewBasic(types.Unknown), false
		a.resolveBlock(body)
		result = a.curReturn
	default:
		result = a.Types.NewBasic(types.Void)
	}

	a.curReturn, a.curHasRet, a.inAsync = prevReturn, prevHasRet, prevAsync
	return a.Types.NewFunction(params, result, n.IsAsync)
}

func (a *Analyzer) resolveAwait(n *ast.Await) types.TypeID {
	if !a.inAsync {
		a.errorf(n, "P006_AWAIT_OUTSIDE_ASYNC", "'await' used outside an async function")
	}
	ot := a.resolveExpr(n.Operand)
	t := a.Types.Get(ot)
	if t.Kind == types.KindNamed && t.Name == "Future" && len(t.TypeArgs) == 1 {
		return t.TypeArgs[0]
	}
	return ot
}

func (a *Analyzer) resolveChanRecv(n *ast.ChanRecv) types.TypeID {
	chType := a.resolveExpr(n.Channel)
	t := a.Types.Get(chType)
	if t.Kind != types.KindChannel {
		if !isUnknown(t) {
			a.errorf(n, "T007_NOT_A_CHANNEL", "'<-' operand is not a channel")
		}
		return a.Types.NewBasic(types.Unknown)
	}
	if t.Cap&types.CanReceive == 0 {
		a.errorf(n, "T008_CHANNEL_CAP_MISMATCH", "channel does not support receive")
	}
	return t.Elem
}

func (a *Analyzer) resolveNew(n *ast.New) types.TypeID {
	cls, ok := a.classes[n.ClassName]
	if !ok {
		a.errorf(n, "T002_UNKNOWN_TYPE", "unknown class %q", n.ClassName)
		for _, argExpr := range n.Args {
			a.resolveExpr(argExpr)
		}
		return a.Types.NewBasic(types.Unknown)
	}

	args := make([]types.TypeID, len(n.TypeArgs))
	for i, ta := range n.TypeArgs {
		args[i] = a.resolveTypeExpr(ta)
	}
	if len(args) > 0 {
		key := genericKey(n.ClassName, args)
		if !a.guardGenericRecursion(n, key) {
			return a.Types.NewBasic(types.Unknown)
		}
		defer a.popGenericRecursion()
	}

	for i, argExpr := range n.Args {
		at := a.resolveExpr(argExpr)
		if i < len(cls.Fields) {
			a.checkAssignable(argExpr, a.resolveTypeExpr(cls.Fields[i].Annotation), at)
		}
	}
	return a.Types.NewNamed(n.ClassName, args)
}
