package ast

import "github.com/tocin-lang/tocin/internal/token"

// Literal is a bool, int, float, char, string, or null constant.
type Literal struct {
	BaseNode
	Value any // int64, float64, bool, rune, string, or nil
	Raw   string
}

func (n *Literal) exprNode() {}

// Identifier names a variable, function, type, class, or trait.
type Identifier struct {
	BaseNode
	Name string
}

func (n *Identifier) exprNode() {}

// SelfExpr is the receiver reference inside a method body.
type SelfExpr struct {
	BaseNode
}

func (n *SelfExpr) exprNode() {}

// Unary is a prefix operator: -x, !x, *p, &x, &mut x, x!!.
type Unary struct {
	BaseNode
	Op      token.Kind
	Operand Expr
}

func (n *Unary) exprNode() {}

// Binary is an infix operator, including comparison, logical, Elvis
// (?:), and null-coalescing combinations.
type Binary struct {
	BaseNode
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (n *Binary) exprNode() {}

// Grouping is a parenthesized expression, kept as its own node so the
// parser can distinguish `(a, b)` tuples from a single grouped value
// without losing source position information.
type Grouping struct {
	BaseNode
	Inner Expr
}

func (n *Grouping) exprNode() {}

// Assign is `target = value` or a compound form (`+=` etc, desugared
// by the parser into Op).
type Assign struct {
	BaseNode
	Target Expr
	Op     token.Kind // token.ASSIGN for plain `=`
	Value  Expr
}

func (n *Assign) exprNode() {}

// Call is a function or method invocation, including the implicit call
// a class constructor performs on `ClassName(...)`.
type Call struct {
	BaseNode
	Callee   Expr
	Args     []Expr
	TypeArgs []*TypeExpr // explicit generic instantiation, e.g. f::<int>()
	Optional bool        // true for a?.(...) safe-call-then-invoke
}

func (n *Call) exprNode() {}

// FieldGet is `obj.field` or the safe-call form `obj?.field`.
type FieldGet struct {
	BaseNode
	Object Expr
	Name   string
	Safe   bool
}

func (n *FieldGet) exprNode() {}

// FieldSet is `obj.field = value`.
type FieldSet struct {
	BaseNode
	Object Expr
	Name   string
	Value  Expr
}

func (n *FieldSet) exprNode() {}

// IndexGet is `container[index]`.
type IndexGet struct {
	BaseNode
	Container Expr
	Index     Expr
}

func (n *IndexGet) exprNode() {}

// IndexSet is `container[index] = value`.
type IndexSet struct {
	BaseNode
	Container Expr
	Index     Expr
	Value     Expr
}

func (n *IndexSet) exprNode() {}

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	BaseNode
	Elems []Expr
}

func (n *ListLiteral) exprNode() {}

// DictEntry is one key/value pair of a DictLiteral.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLiteral is `{k1: v1, k2: v2, ...}`.
type DictLiteral struct {
	BaseNode
	Entries []DictEntry
}

func (n *DictLiteral) exprNode() {}

// Lambda is an anonymous function expression: `|x, y| x + y` or the
// block-bodied `|x| { ... }` form.
type Lambda struct {
	BaseNode
	Params  []*ParamDecl
	Body    Stmt // *Block, or an ExprStmt wrapping a single expression
	IsAsync bool
}

func (n *Lambda) exprNode() {}

// Await suspends the enclosing async function until Operand resolves.
type Await struct {
	BaseNode
	Operand Expr
}

func (n *Await) exprNode() {}

// StringInterp is an f-string: Fragments and Exprs alternate literal
// fragments with embedded expressions, always starting and ending on a
// literal fragment (possibly empty).
type StringInterp struct {
	BaseNode
	Fragments []string
	Exprs     []Expr
}

func (n *StringInterp) exprNode() {}

// New is `new ClassName(args)`, allocating a heap-owned instance.
type New struct {
	BaseNode
	ClassName string
	TypeArgs  []*TypeExpr
	Args      []Expr
}

func (n *New) exprNode() {}

// Move transfers ownership of Operand out of its current binding,
// leaving that binding in the moved-from state (spec.md §4.3 O-rules).
type Move struct {
	BaseNode
	Operand Expr
}

func (n *Move) exprNode() {}

// Some constructs Option::Some(Value).
type Some struct {
	BaseNode
	Value Expr
}

func (n *Some) exprNode() {}

// NoneLit constructs Option::None. Named NoneLit to avoid colliding
// with the predeclared identifier convention used across the package.
type NoneLit struct {
	BaseNode
}

func (n *NoneLit) exprNode() {}

// Ok constructs Result::Ok(Value).
type Ok struct {
	BaseNode
	Value Expr
}

func (n *Ok) exprNode() {}

// ErrExpr constructs Result::Err(Value).
type ErrExpr struct {
	BaseNode
	Value Expr
}

func (n *ErrExpr) exprNode() {}

// ChanRecv is `<-ch`, receiving a value from a channel.
type ChanRecv struct {
	BaseNode
	Channel Expr
}

func (n *ChanRecv) exprNode() {}

// RangeExpr is `start..end` or `start..=end`, used by for-in loops and
// slice indexing.
type RangeExpr struct {
	BaseNode
	Start     Expr
	End       Expr
	Inclusive bool
}

func (n *RangeExpr) exprNode() {}

// Cast is an explicit `value as Type` conversion.
type Cast struct {
	BaseNode
	Value  Expr
	Target *TypeExpr
}

func (n *Cast) exprNode() {}

// TypeExpr is the parser's untyped representation of a type annotation
// in source syntax, resolved to a types.TypeID by the semantic
// analyzer. It is not itself an Expr/Stmt/Decl node.
type TypeExpr struct {
	Start, EndPos int
	Line, Column  int

	Name     string      // e.g. "int", "List", "MyClass"
	Args     []*TypeExpr // generic arguments
	Nullable bool        // trailing `?`
	IsRef    bool        // leading `&`
	RefMut   bool        // `&mut`
	Params   []*TypeExpr // function type parameter types
	Result   *TypeExpr   // function type result, nil for non-function
	IsAsync  bool
}

func (t *TypeExpr) Pos() int                 { return t.Start }
func (t *TypeExpr) End() int                 { return t.EndPos }
func (t *TypeExpr) Position() (int, int)     { return t.Line, t.Column }
