package ast

// TypeParamDecl is one entry of a `<T: Bound1 + Bound2>` clause.
type TypeParamDecl struct {
	BaseNode
	Name   string
	Bounds []string // trait names the type argument must implement
}

func (n *TypeParamDecl) stmtNode() {}
func (n *TypeParamDecl) declNode() {}

// ParamDecl is one function or lambda parameter.
type ParamDecl struct {
	BaseNode
	Name       string
	Annotation *TypeExpr // nil when untyped (only legal in a lambda)
	Default    Expr      // nil when the parameter has no default
}

func (n *ParamDecl) stmtNode() {}
func (n *ParamDecl) declNode() {}

// FuncDecl is a top-level function or a method inside a class/trait/impl.
type FuncDecl struct {
	BaseNode
	Name       string
	TypeParams []*TypeParamDecl
	Params     []*ParamDecl
	Result     *TypeExpr // nil means inferred void
	Body       *Block    // nil for a trait method signature with no default body
	IsAsync    bool
}

func (n *FuncDecl) stmtNode() {}
func (n *FuncDecl) declNode() {}

// FieldDecl is one class field.
type FieldDecl struct {
	BaseNode
	Name       string
	Annotation *TypeExpr
	Mut        bool
	Default    Expr // nil when uninitialized at declaration
}

func (n *FieldDecl) stmtNode() {}
func (n *FieldDecl) declNode() {}

// ClassDecl declares a class: its fields, methods, and the traits it
// declares conformance to via `impl` blocks elsewhere in the module.
type ClassDecl struct {
	BaseNode
	Name       string
	TypeParams []*TypeParamDecl
	Fields     []*FieldDecl
	Methods    []*FuncDecl
	SuperClass string // "" when there is no base class
}

func (n *ClassDecl) stmtNode() {}
func (n *ClassDecl) declNode() {}

// TraitDecl declares a trait: required methods (Body == nil) and
// default methods (Body != nil).
type TraitDecl struct {
	BaseNode
	Name       string
	TypeParams []*TypeParamDecl
	Methods    []*FuncDecl
}

func (n *TraitDecl) stmtNode() {}
func (n *TraitDecl) declNode() {}

// ImplDecl is `impl TraitName for ClassName { ... }`, or `impl ClassName
// { ... }` for an inherent-method block when TraitName == "".
type ImplDecl struct {
	BaseNode
	TraitName  string
	TypeName   string
	TypeParams []*TypeParamDecl
	Methods    []*FuncDecl
}

func (n *ImplDecl) stmtNode() {}
func (n *ImplDecl) declNode() {}
