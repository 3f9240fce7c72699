package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Module, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	l := lexer.New("test.to", src, sink)
	p := New("test.to", l, sink)
	return p.Parse(), sink
}

func TestParserVarDeclAndArithmetic(t *testing.T) {
	mod, sink := parseSource(t, "let mut x: int = 1 + 2 * 3\n")
	require.False(t, sink.HasErrors())
	require.Len(t, mod.Decls, 1)

	decl, ok := mod.Decls[0].(*ast.VarDecl)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name)
	require.True(t, decl.Mut)

	bin, ok := decl.Init.(*ast.Binary)
	require.True(t, ok, "1 + 2 * 3 parses to a Binary at the + operator")
	_, rightIsMul := bin.Right.(*ast.Binary)
	require.True(t, rightIsMul, "* binds tighter than + so it nests on the right")
}

func TestParserIfElifElse(t *testing.T) {
	src := "def f(x: int) -> int:\n    if x > 0:\n        return 1\n    elif x < 0:\n        return -1\n    else:\n        return 0\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	fn := mod.Decls[0].(*ast.FuncDecl)
	ifStmt := fn.Body.Stmts[0].(*ast.If)
	require.Len(t, ifStmt.Clauses, 3)
	require.Nil(t, ifStmt.Clauses[2].Cond, "else clause has no condition")
}

func TestParserClassWithFieldsAndMethods(t *testing.T) {
	src := "class Point:\n    x: int\n    y: int\n    def sum(self) -> int:\n        return self.x + self.y\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	cls := mod.Decls[0].(*ast.ClassDecl)
	require.Equal(t, "Point", cls.Name)
	require.Len(t, cls.Fields, 2)
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "sum", cls.Methods[0].Name)
}

func TestParserTraitAndImpl(t *testing.T) {
	src := "trait Shape:\n    def area(self) -> float\n\nimpl Shape for Circle:\n    def area(self) -> float:\n        return 0.0\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	trait := mod.Decls[0].(*ast.TraitDecl)
	require.Nil(t, trait.Methods[0].Body, "a required trait method has no body")

	impl := mod.Decls[1].(*ast.ImplDecl)
	require.Equal(t, "Shape", impl.TraitName)
	require.Equal(t, "Circle", impl.TypeName)
	require.NotNil(t, impl.Methods[0].Body)
}

func TestParserMatchOptionAndResult(t *testing.T) {
	src := "def f(x: Option<int>) -> int:\n    match x:\n        Some(v) => v\n        None => 0\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	fn := mod.Decls[0].(*ast.FuncDecl)
	m := fn.Body.Stmts[0].(*ast.Match)
	require.Len(t, m.Arms, 2)
	_, isSome := m.Arms[0].Pattern.(*ast.SomePattern)
	require.True(t, isSome)
	_, isNone := m.Arms[1].Pattern.(*ast.NonePattern)
	require.True(t, isNone)
}

func TestParserGoAndChannelOps(t *testing.T) {
	src := "def f(ch: Channel<int>):\n    go worker(ch)\n    ch <- 1\n    let v = <-ch\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	fn := mod.Decls[0].(*ast.FuncDecl)
	_, isGo := fn.Body.Stmts[0].(*ast.GoStmt)
	require.True(t, isGo)
	_, isSend := fn.Body.Stmts[1].(*ast.ChanSend)
	require.True(t, isSend)
	varDecl := fn.Body.Stmts[2].(*ast.VarDecl)
	_, isRecv := varDecl.Init.(*ast.ChanRecv)
	require.True(t, isRecv)
}

func TestParserSelectStatement(t *testing.T) {
	src := "def f(a: Channel<int>, b: Channel<int>):\n    select:\n        x = <-a:\n            return\n        default:\n            return\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	fn := mod.Decls[0].(*ast.FuncDecl)
	sel := fn.Body.Stmts[0].(*ast.SelectStmt)
	require.Len(t, sel.Cases, 2)
	require.Equal(t, "x", sel.Cases[0].RecvVar)
	require.True(t, sel.Cases[1].IsDefault)
}

func TestParserFStringExpression(t *testing.T) {
	src := `let s = f"hi {name}!"` + "\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	decl := mod.Decls[0].(*ast.VarDecl)
	interp, ok := decl.Init.(*ast.StringInterp)
	require.True(t, ok)
	require.Equal(t, []string{"hi ", "!"}, interp.Fragments)
	require.Len(t, interp.Exprs, 1)
}

func TestParserAsyncAwait(t *testing.T) {
	src := "async def f() -> int:\n    return await g()\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	fn := mod.Decls[0].(*ast.FuncDecl)
	require.True(t, fn.IsAsync)
	ret := fn.Body.Stmts[0].(*ast.Return)
	_, isAwait := ret.Value.(*ast.Await)
	require.True(t, isAwait)
}

func TestParserAwaitOutsideAsyncIsError(t *testing.T) {
	src := "def f() -> int:\n    return await g()\n"
	_, sink := parseSource(t, src)
	require.True(t, sink.HasErrors())
}

func TestParserMoveAndNullSafety(t *testing.T) {
	src := "let a = move b\nlet c = d?.e ?: 0\nlet f = g!!\n"
	mod, sink := parseSource(t, src)
	require.False(t, sink.HasErrors())
	a := mod.Decls[0].(*ast.VarDecl)
	_, isMove := a.Init.(*ast.Move)
	require.True(t, isMove)

	c := mod.Decls[1].(*ast.VarDecl)
	elvis, ok := c.Init.(*ast.Binary)
	require.True(t, ok)
	fieldGet, ok := elvis.Left.(*ast.FieldGet)
	require.True(t, ok)
	require.True(t, fieldGet.Safe)
}
