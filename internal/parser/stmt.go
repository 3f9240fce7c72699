package parser

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/token"
)

// parseTopLevel parses one module-level item: import, export, var decl,
// function, class, trait, or impl block.
func (p *Parser) parseTopLevel() ast.Stmt {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()

	switch p.current.Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.DEF, token.ASYNC:
		return p.parseFuncDecl()
	case token.CLASS:
		return p.parseClassDecl()
	case token.TRAIT:
		return p.parseTraitDecl()
	case token.IMPL:
		return p.parseImplDecl()
	case token.LET, token.CONST:
		s := p.parseVarDecl()
		p.consumeStmtEnd()
		return s
	default:
		s := p.parseStatement()
		return s
	}
}

// parseBlock parses an indentation-delimited statement sequence assumed
// to start right after a `:` header: NEWLINE INDENT stmt* DEDENT.
func (p *Parser) parseBlock() *ast.Block {
	start := p.current.Pos
	blk := &ast.Block{BaseNode: ast.BaseNode{NodeKind: ast.KindBlock, Start: start}}

	if !p.match(token.NEWLINE) {
		p.errorf("P002_EXPECTED_BLOCK", "expected a newline before an indented block")
		return blk
	}
	if !p.match(token.INDENT) {
		p.errorf("P002_EXPECTED_BLOCK", "expected an indented block")
		return blk
	}
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.DEDENT) || p.at(token.EOF) {
			break
		}
		blk.Stmts = append(blk.Stmts, p.parseStatement())
		p.skipNewlines()
	}
	blk.EndPos = p.current.End
	p.match(token.DEDENT)
	return blk
}

// consumeStmtEnd requires the statement to end at NEWLINE, EOF, or
// DEDENT (the latter two covering the last statement inside a block).
func (p *Parser) consumeStmtEnd() {
	if p.at(token.NEWLINE) {
		p.advance()
		return
	}
	if p.at(token.EOF) || p.at(token.DEDENT) {
		return
	}
	p.errorf("P003_EXPECTED_NEWLINE", "expected end of statement, found %q", p.current.Kind)
}

func (p *Parser) parseStatement() ast.Stmt {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()

	switch p.current.Kind {
	case token.LET, token.CONST:
		s := p.parseVarDecl()
		p.consumeStmtEnd()
		return s
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseForIn()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		start := p.current
		p.advance()
		p.consumeStmtEnd()
		return &ast.Break{BaseNode: ast.BaseNode{NodeKind: ast.KindBreak, Start: start.Pos, EndPos: start.End, Line: start.Line, Column: start.Column}}
	case token.CONTINUE:
		start := p.current
		p.advance()
		p.consumeStmtEnd()
		return &ast.Continue{BaseNode: ast.BaseNode{NodeKind: ast.KindContinue, Start: start.Pos, EndPos: start.End, Line: start.Line, Column: start.Column}}
	case token.MATCH:
		return p.parseMatch()
	case token.GO:
		return p.parseGoStmt()
	case token.SELECT:
		return p.parseSelect()
	case token.DEF, token.ASYNC:
		return p.parseFuncDecl()
	case token.CLASS:
		return p.parseClassDecl()
	case token.TRAIT:
		return p.parseTraitDecl()
	case token.IMPL:
		return p.parseImplDecl()
	case token.IMPORT:
		return p.parseImport()
	default:
		return p.parseExprOrAssignOrSend()
	}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.current
	p.advance() // let/const

	// Tocin spells "mut" as a contextual keyword, not a reserved token;
	// detect it by identifier text "mut" immediately after `let`.
	isMut := false
	if p.current.Kind == token.IDENT && p.current.Literal == "mut" {
		isMut = true
		p.advance()
	}
	name := p.expect(token.IDENT, "a variable name")

	decl := &ast.VarDecl{
		BaseNode: ast.BaseNode{NodeKind: ast.KindVarDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
		Name:     name.Literal,
		Mut:      isMut,
	}

	if p.match(token.COLON) {
		decl.Annotation = p.parseTypeExpr()
	}
	if p.match(token.ASSIGN) {
		decl.Init = p.parseExpression()
	}
	decl.EndPos = p.current.Pos
	return decl
}

func (p *Parser) parseIf() *ast.If {
	start := p.current
	n := &ast.If{BaseNode: ast.BaseNode{NodeKind: ast.KindIf, Start: start.Pos, Line: start.Line, Column: start.Column}}
	p.advance() // if
	cond := p.parseExpression()
	p.expect(token.COLON, "':'")
	body := p.parseBlock()
	n.Clauses = append(n.Clauses, ast.IfClause{Cond: cond, Body: body})

	for p.at(token.ELIF) {
		p.advance()
		c := p.parseExpression()
		p.expect(token.COLON, "':'")
		b := p.parseBlock()
		n.Clauses = append(n.Clauses, ast.IfClause{Cond: c, Body: b})
	}
	if p.at(token.ELSE) {
		p.advance()
		p.expect(token.COLON, "':'")
		b := p.parseBlock()
		n.Clauses = append(n.Clauses, ast.IfClause{Cond: nil, Body: b})
	}
	n.EndPos = p.current.Pos
	return n
}

func (p *Parser) parseWhile() *ast.While {
	start := p.current
	p.advance()
	cond := p.parseExpression()
	p.expect(token.COLON, "':'")
	wasLoop := p.inLoop
	p.inLoop = true
	body := p.parseBlock()
	p.inLoop = wasLoop
	return &ast.While{BaseNode: ast.BaseNode{NodeKind: ast.KindWhile, Start: start.Pos, EndPos: body.EndPos, Line: start.Line, Column: start.Column}, Cond: cond, Body: body}
}

func (p *Parser) parseForIn() *ast.ForIn {
	start := p.current
	p.advance()
	name := p.expect(token.IDENT, "a loop variable")
	p.expect(token.IN, "'in'")
	iterable := p.parseExpression()
	p.expect(token.COLON, "':'")
	wasLoop := p.inLoop
	p.inLoop = true
	body := p.parseBlock()
	p.inLoop = wasLoop
	return &ast.ForIn{BaseNode: ast.BaseNode{NodeKind: ast.KindForIn, Start: start.Pos, EndPos: body.EndPos, Line: start.Line, Column: start.Column}, Name: name.Literal, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturn() *ast.Return {
	start := p.current
	p.advance()
	n := &ast.Return{BaseNode: ast.BaseNode{NodeKind: ast.KindReturn, Start: start.Pos, Line: start.Line, Column: start.Column}}
	if !p.at(token.NEWLINE) && !p.at(token.EOF) && !p.at(token.DEDENT) {
		n.Value = p.parseExpression()
	}
	n.EndPos = p.current.Pos
	p.consumeStmtEnd()
	return n
}

func (p *Parser) parseGoStmt() *ast.GoStmt {
	start := p.current
	p.advance()
	expr := p.parseExpression()
	call, ok := expr.(*ast.Call)
	if !ok {
		p.errorf("P004_GO_REQUIRES_CALL", "'go' must be followed by a function call")
		call = &ast.Call{BaseNode: ast.BaseNode{NodeKind: ast.KindCall, Start: expr.Pos(), EndPos: expr.End()}, Callee: expr}
	}
	n := &ast.GoStmt{BaseNode: ast.BaseNode{NodeKind: ast.KindGoStmt, Start: start.Pos, EndPos: call.EndPos, Line: start.Line, Column: start.Column}, Call: call}
	p.consumeStmtEnd()
	return n
}

func (p *Parser) parseSelect() *ast.SelectStmt {
	start := p.current
	n := &ast.SelectStmt{BaseNode: ast.BaseNode{NodeKind: ast.KindSelectStmt, Start: start.Pos, Line: start.Line, Column: start.Column}}
	p.advance()
	p.expect(token.COLON, "':'")
	p.expect(token.NEWLINE, "a newline")
	p.expect(token.INDENT, "an indented select body")

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.DEDENT) {
			break
		}
		n.Cases = append(n.Cases, p.parseSelectCase())
		p.skipNewlines()
	}
	n.EndPos = p.current.End
	p.match(token.DEDENT)
	return n
}

func (p *Parser) parseSelectCase() ast.SelectCase {
	var c ast.SelectCase
	if p.current.Kind == token.IDENT && p.current.Literal == "default" {
		p.advance()
		c.IsDefault = true
	} else if p.current.Kind == token.IDENT && p.peek.Kind == token.ASSIGN {
		varName := p.current.Literal
		p.advance()
		p.advance() // =
		recvExpr := p.parseUnary()
		recv, ok := recvExpr.(*ast.ChanRecv)
		if !ok {
			p.errorf("P005_SELECT_EXPECTED_RECV", "expected a channel receive on the right of '='")
		}
		c.Recv = recv
		c.RecvVar = varName
	} else {
		expr := p.parseExpression()
		switch e := expr.(type) {
		case *ast.ChanRecv:
			c.Recv = e
		default:
			p.errorf("P005_SELECT_EXPECTED_RECV", "expected a channel send or receive")
		}
	}
	p.expect(token.COLON, "':'")
	c.Body = p.parseBlock()
	return c
}

func (p *Parser) parseImport() *ast.Import {
	start := p.current
	p.advance()
	n := &ast.Import{BaseNode: ast.BaseNode{NodeKind: ast.KindImport, Start: start.Pos, Line: start.Line, Column: start.Column}}
	n.Path = append(n.Path, p.expect(token.IDENT, "a module path segment").Literal)
	for p.match(token.DCOLON) {
		n.Path = append(n.Path, p.expect(token.IDENT, "a module path segment").Literal)
	}
	if p.match(token.AS) {
		n.Alias = p.expect(token.IDENT, "an import alias").Literal
	}
	n.EndPos = p.current.Pos
	p.consumeStmtEnd()
	return n
}

func (p *Parser) parseExport() *ast.Export {
	start := p.current
	p.advance()
	name := p.expect(token.IDENT, "an exported name")
	n := &ast.Export{BaseNode: ast.BaseNode{NodeKind: ast.KindExport, Start: start.Pos, EndPos: name.End, Line: start.Line, Column: start.Column}, Name: name.Literal}
	p.consumeStmtEnd()
	return n
}

// parseExprOrAssignOrSend parses an expression statement, an assignment
// (plain or compound), or a channel send `ch <- value`.
func (p *Parser) parseExprOrAssignOrSend() ast.Stmt {
	start := p.current
	expr := p.parseExpression()

	if p.at(token.CHAN_SEND) {
		p.advance()
		value := p.parseExpression()
		n := &ast.ChanSend{BaseNode: ast.BaseNode{NodeKind: ast.KindChanSend, Start: start.Pos, EndPos: value.End(), Line: start.Line, Column: start.Column}, Channel: expr, Value: value}
		p.consumeStmtEnd()
		return n
	}

	if op, ok := assignOpKind(p.current.Kind); ok {
		p.advance()
		value := p.parseExpression()
		assign := &ast.Assign{BaseNode: ast.BaseNode{NodeKind: ast.KindAssign, Start: start.Pos, EndPos: value.End(), Line: start.Line, Column: start.Column}, Target: expr, Op: op, Value: value}
		stmt := &ast.ExprStmt{BaseNode: ast.BaseNode{NodeKind: ast.KindExprStmt, Start: start.Pos, EndPos: value.End()}, X: assign}
		p.consumeStmtEnd()
		return stmt
	}

	stmt := &ast.ExprStmt{BaseNode: ast.BaseNode{NodeKind: ast.KindExprStmt, Start: start.Pos, EndPos: expr.End(), Line: start.Line, Column: start.Column}, X: expr}
	p.consumeStmtEnd()
	return stmt
}

// assignOpKind reports whether k is an assignment operator and, for a
// compound form, the binary operator it desugars to.
func assignOpKind(k token.Kind) (token.Kind, bool) {
	if k == token.ASSIGN {
		return token.ASSIGN, true
	}
	if op, ok := ast.AssignOpToken(k); ok {
		return op, true
	}
	return token.ILLEGAL, false
}
