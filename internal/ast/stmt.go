package ast

import "github.com/tocin-lang/tocin/internal/token"

// Module is the root node of a parsed source file.
type Module struct {
	BaseNode
	Path  string
	Decls []Stmt
}

func (n *Module) stmtNode() {}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	BaseNode
	X Expr
}

func (n *ExprStmt) stmtNode() {}

// VarDecl is `let name: Type = init` or `let mut name = init`.
type VarDecl struct {
	BaseNode
	Name       string
	Mut        bool
	Annotation *TypeExpr // nil when the type is inferred from Init
	Init       Expr      // nil for `let name: Type` with no initializer
}

func (n *VarDecl) stmtNode() {}
func (n *VarDecl) declNode() {}

// Block is a brace-free, indentation-delimited sequence of statements.
type Block struct {
	BaseNode
	Stmts []Stmt
}

func (n *Block) stmtNode() {}

// IfClause pairs a condition with the block to run when it holds; Cond
// is nil for the trailing `else` clause.
type IfClause struct {
	Cond Expr
	Body *Block
}

// If is `if cond: body elif cond: body else: body`, modeled as a list
// of clauses rather than a nested binary tree so the null-safety
// narrowing pass (spec.md §4.3 N-rules) can walk clauses in order.
type If struct {
	BaseNode
	Clauses []IfClause
}

func (n *If) stmtNode() {}

// While is `while cond: body`.
type While struct {
	BaseNode
	Cond Expr
	Body *Block
}

func (n *While) stmtNode() {}

// ForIn is `for name in iterable: body`.
type ForIn struct {
	BaseNode
	Name     string
	Iterable Expr
	Body     *Block
}

func (n *ForIn) stmtNode() {}

// Return is `return` or `return value`.
type Return struct {
	BaseNode
	Value Expr // nil for a bare return
}

func (n *Return) stmtNode() {}

// Break exits the innermost enclosing loop.
type Break struct {
	BaseNode
}

func (n *Break) stmtNode() {}

// Continue jumps to the next iteration of the innermost enclosing loop.
type Continue struct {
	BaseNode
}

func (n *Continue) stmtNode() {}

// MatchArm is one `pattern => body` arm of a Match.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional `if cond` guard, nil when absent
	Body    Stmt
}

// Match destructures an Option/Result/enum-like value; exhaustiveness
// (spec.md's P001_NON_EXHAUSTIVE_PATTERNS) is checked by the semantic
// analyzer, not the parser.
type Match struct {
	BaseNode
	Subject Expr
	Arms    []MatchArm
}

func (n *Match) stmtNode() {}

// Pattern is the sum of forms a match arm can destructure against.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`, matching unconditionally.
type WildcardPattern struct {
	BaseNode
}

func (p *WildcardPattern) patternNode() {}

// BindingPattern binds the matched value to a new name.
type BindingPattern struct {
	BaseNode
	Name string
}

func (p *BindingPattern) patternNode() {}

// LiteralPattern matches a constant value exactly.
type LiteralPattern struct {
	BaseNode
	Value *Literal
}

func (p *LiteralPattern) patternNode() {}

// SomePattern destructures `Some(inner)`.
type SomePattern struct {
	BaseNode
	Inner Pattern
}

func (p *SomePattern) patternNode() {}

// NonePattern matches `None`.
type NonePattern struct {
	BaseNode
}

func (p *NonePattern) patternNode() {}

// OkPattern destructures `Ok(inner)`.
type OkPattern struct {
	BaseNode
	Inner Pattern
}

func (p *OkPattern) patternNode() {}

// ErrPattern destructures `Err(inner)`.
type ErrPattern struct {
	BaseNode
	Inner Pattern
}

func (p *ErrPattern) patternNode() {}

// GoStmt launches Call on the lightweight scheduler: `go f(args)`.
type GoStmt struct {
	BaseNode
	Call *Call
}

func (n *GoStmt) stmtNode() {}

// ChanSend is `ch <- value`, used as a statement.
type ChanSend struct {
	BaseNode
	Channel Expr
	Value   Expr
}

func (n *ChanSend) stmtNode() {}

// SelectCase is one `case` of a SelectStmt: exactly one of Recv or
// Send is non-nil, unless IsDefault is set.
type SelectCase struct {
	Recv      *ChanRecv
	RecvVar   string // binding name for the received value, may be ""
	Send      *ChanSend
	Body      *Block
	IsDefault bool
}

// SelectStmt chooses the first ready channel operation among Cases.
type SelectStmt struct {
	BaseNode
	Cases []SelectCase
}

func (n *SelectStmt) stmtNode() {}

// Import is `import path::to::module` or `import path::to::module as alias`.
type Import struct {
	BaseNode
	Path  []string
	Alias string // "" when unaliased
}

func (n *Import) stmtNode() {}
func (n *Import) declNode() {}

// Export re-exposes a name declared earlier in the module.
type Export struct {
	BaseNode
	Name string
}

func (n *Export) stmtNode() {}
func (n *Export) declNode() {}

// AssignOpToken maps a compound-assignment source token to the binary
// operator the parser desugars it to, e.g. token.ADD_ASSIGN -> token.ADD.
func AssignOpToken(op token.Kind) (token.Kind, bool) {
	switch op {
	case token.ADD_ASSIGN:
		return token.ADD, true
	case token.SUB_ASSIGN:
		return token.SUB, true
	case token.MUL_ASSIGN:
		return token.MUL, true
	case token.QUO_ASSIGN:
		return token.QUO, true
	case token.REM_ASSIGN:
		return token.REM, true
	default:
		return token.ILLEGAL, false
	}
}
