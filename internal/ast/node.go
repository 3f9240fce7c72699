package ast

import "github.com/tocin-lang/tocin/internal/types"

// Node is the interface implemented by every AST node.
type Node interface {
	Kind() Kind
	Pos() int
	End() int
}

// Expr is implemented by nodes that produce a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by nodes that perform an action.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is the subset of statements that introduce a name into a scope.
type Decl interface {
	Stmt
	declNode()
}

// BaseNode carries source position and the semantic analyzer's type
// annotation slot. Every concrete node embeds it.
//
//nolint:govet // field order grouped for readability, not alignment
type BaseNode struct {
	NodeKind Kind
	Start    int
	EndPos   int
	Line     int
	Column   int

	// ResolvedType is filled in by the semantic analyzer; zero value
	// (types.TypeID(0)) means "not yet resolved" only before analysis
	// runs — after a successful pass every expression has a real entry.
	ResolvedType types.TypeID
}

func (n *BaseNode) Kind() Kind { return n.NodeKind }
func (n *BaseNode) Pos() int   { return n.Start }
func (n *BaseNode) End() int   { return n.EndPos }

// Position returns the 1-based line and column the parser recorded for
// diagnostic reporting. Synthesized nodes that never went through the
// parser (e.g. a recovery placeholder) return (0, 0).
func (n *BaseNode) Position() (int, int) { return n.Line, n.Column }

// SetResolvedType stamps the semantic analyzer's inferred/checked type
// onto the node, so a later pass (irgen) can read ResolvedType directly
// instead of re-deriving it.
func (n *BaseNode) SetResolvedType(t types.TypeID) { n.ResolvedType = t }

// GetResolvedType returns the type the semantic analyzer stamped onto
// this node, read back by irgen through the resolvedTyped interface.
func (n *BaseNode) GetResolvedType() types.TypeID { return n.ResolvedType }
