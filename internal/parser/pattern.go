package parser

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/token"
)

func (p *Parser) parseMatch() *ast.Match {
	start := p.current
	p.advance()
	subject := p.parseExpression()
	n := &ast.Match{BaseNode: ast.BaseNode{NodeKind: ast.KindMatch, Start: start.Pos, Line: start.Line, Column: start.Column}, Subject: subject}

	p.expect(token.COLON, "':'")
	p.expect(token.NEWLINE, "a newline")
	p.expect(token.INDENT, "an indented match body")

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.DEDENT) {
			break
		}
		n.Arms = append(n.Arms, p.parseMatchArm())
		p.skipNewlines()
	}
	n.EndPos = p.current.End
	p.match(token.DEDENT)
	return n
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	pat := p.parsePattern()
	var guard ast.Expr
	if p.at(token.IF) {
		p.advance()
		guard = p.parseExpression()
	}
	p.expect(token.ARROW, "'=>'")
	var body ast.Stmt
	if p.at(token.NEWLINE) {
		body = p.parseBlock()
	} else {
		body = p.parseExprOrAssignOrSend()
	}
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: body}
}

func (p *Parser) parsePattern() ast.Pattern {
	t := p.current
	switch {
	case t.Kind == token.IDENT && t.Literal == "_":
		p.advance()
		return &ast.WildcardPattern{BaseNode: ast.BaseNode{NodeKind: ast.KindIdentifier, Start: t.Pos, EndPos: t.End}}
	case t.Kind == token.IDENT:
		p.advance()
		return &ast.BindingPattern{BaseNode: ast.BaseNode{NodeKind: ast.KindIdentifier, Start: t.Pos, EndPos: t.End}, Name: t.Literal}
	case t.Kind == token.SOME:
		p.advance()
		p.expect(token.LPAREN, "'('")
		inner := p.parsePattern()
		end := p.expect(token.RPAREN, "')'")
		return &ast.SomePattern{BaseNode: ast.BaseNode{NodeKind: ast.KindSome, Start: t.Pos, EndPos: end.End}, Inner: inner}
	case t.Kind == token.NONE:
		p.advance()
		return &ast.NonePattern{BaseNode: ast.BaseNode{NodeKind: ast.KindNone, Start: t.Pos, EndPos: t.End}}
	case t.Kind == token.OK:
		p.advance()
		p.expect(token.LPAREN, "'('")
		inner := p.parsePattern()
		end := p.expect(token.RPAREN, "')'")
		return &ast.OkPattern{BaseNode: ast.BaseNode{NodeKind: ast.KindOk, Start: t.Pos, EndPos: end.End}, Inner: inner}
	case t.Kind == token.ERR:
		p.advance()
		p.expect(token.LPAREN, "'('")
		inner := p.parsePattern()
		end := p.expect(token.RPAREN, "')'")
		return &ast.ErrPattern{BaseNode: ast.BaseNode{NodeKind: ast.KindErrExpr, Start: t.Pos, EndPos: end.End}, Inner: inner}
	case t.Kind == token.INT || t.Kind == token.FLOAT || t.Kind == token.STRING ||
		t.Kind == token.CHAR || t.Kind == token.TRUE || t.Kind == token.FALSE || t.Kind == token.NIL:
		lit := p.parsePrimary().(*ast.Literal)
		return &ast.LiteralPattern{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: lit.Start, EndPos: lit.EndPos}, Value: lit}
	default:
		p.errorf("P008_INVALID_PATTERN", "invalid match pattern starting with %q", t.Kind)
		p.advance()
		return &ast.WildcardPattern{BaseNode: ast.BaseNode{NodeKind: ast.KindIdentifier, Start: t.Pos, EndPos: t.End}}
	}
}
