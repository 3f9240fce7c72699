package parser

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/token"
)

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.current
	isAsync := p.match(token.ASYNC)
	p.expect(token.DEF, "'def'")
	name := p.expect(token.IDENT, "a function name")

	n := &ast.FuncDecl{
		BaseNode: ast.BaseNode{NodeKind: ast.KindFuncDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
		Name:     name.Literal,
		IsAsync:  isAsync,
	}
	if p.at(token.LSS) {
		n.TypeParams = p.parseTypeParams()
	}
	p.expect(token.LPAREN, "'('")
	n.Params = p.parseParams()
	p.expect(token.RPAREN, "')'")
	if p.match(token.ARROW) {
		n.Result = p.parseTypeExpr()
	}
	p.expect(token.COLON, "':'")

	wasAsync, wasFn := p.inAsync, p.inFunction
	p.inAsync, p.inFunction = isAsync, true
	n.Body = p.parseBlock()
	p.inAsync, p.inFunction = wasAsync, wasFn

	n.EndPos = n.Body.EndPos
	return n
}

// parseFuncSig parses a trait method signature, which may omit the body
// (a required method) or provide one (a default method).
func (p *Parser) parseFuncSig() *ast.FuncDecl {
	start := p.current
	isAsync := p.match(token.ASYNC)
	p.expect(token.DEF, "'def'")
	name := p.expect(token.IDENT, "a method name")

	n := &ast.FuncDecl{
		BaseNode: ast.BaseNode{NodeKind: ast.KindFuncDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
		Name:     name.Literal,
		IsAsync:  isAsync,
	}
	if p.at(token.LSS) {
		n.TypeParams = p.parseTypeParams()
	}
	p.expect(token.LPAREN, "'('")
	n.Params = p.parseParams()
	p.expect(token.RPAREN, "')'")
	if p.match(token.ARROW) {
		n.Result = p.parseTypeExpr()
	}

	if p.at(token.COLON) {
		p.advance()
		n.Body = p.parseBlock()
		n.EndPos = n.Body.EndPos
	} else {
		n.EndPos = p.current.Pos
		p.consumeStmtEnd()
	}
	return n
}

func (p *Parser) parseParams() []*ast.ParamDecl {
	var params []*ast.ParamDecl
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		start := p.current
		// `self` is written bare, without a type annotation.
		if start.Kind == token.IDENT && start.Literal == "self" {
			p.advance()
			params = append(params, &ast.ParamDecl{
				BaseNode: ast.BaseNode{NodeKind: ast.KindParamDecl, Start: start.Pos, EndPos: start.End, Line: start.Line, Column: start.Column},
				Name:     "self",
			})
		} else {
			name := p.expect(token.IDENT, "a parameter name")
			pd := &ast.ParamDecl{
				BaseNode: ast.BaseNode{NodeKind: ast.KindParamDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
				Name:     name.Literal,
			}
			if p.match(token.COLON) {
				pd.Annotation = p.parseTypeExpr()
			}
			if p.match(token.ASSIGN) {
				pd.Default = p.parseExpression()
			}
			pd.EndPos = p.current.Pos
			params = append(params, pd)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

func (p *Parser) parseTypeParams() []*ast.TypeParamDecl {
	p.expect(token.LSS, "'<'")
	var out []*ast.TypeParamDecl
	for !p.at(token.GTR) && !p.at(token.EOF) {
		start := p.expect(token.IDENT, "a type parameter name")
		tp := &ast.TypeParamDecl{
			BaseNode: ast.BaseNode{NodeKind: ast.KindTypeParamDecl, Start: start.Pos, EndPos: start.End, Line: start.Line, Column: start.Column},
			Name:     start.Literal,
		}
		if p.match(token.COLON) {
			tp.Bounds = append(tp.Bounds, p.expect(token.IDENT, "a trait bound").Literal)
			for p.match(token.ADD) {
				tp.Bounds = append(tp.Bounds, p.expect(token.IDENT, "a trait bound").Literal)
			}
		}
		out = append(out, tp)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GTR, "'>'")
	return out
}

func (p *Parser) parseClassDecl() *ast.ClassDecl {
	start := p.current
	p.advance() // class
	name := p.expect(token.IDENT, "a class name")
	n := &ast.ClassDecl{
		BaseNode: ast.BaseNode{NodeKind: ast.KindClassDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
		Name:     name.Literal,
	}
	if p.at(token.LSS) {
		n.TypeParams = p.parseTypeParams()
	}
	if p.match(token.LPAREN) {
		n.SuperClass = p.expect(token.IDENT, "a superclass name").Literal
		p.expect(token.RPAREN, "')'")
	}
	p.expect(token.COLON, "':'")
	p.expect(token.NEWLINE, "a newline")
	p.expect(token.INDENT, "an indented class body")

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.DEDENT) {
			break
		}
		if p.atAny(token.DEF, token.ASYNC) {
			n.Methods = append(n.Methods, p.parseFuncDecl())
		} else {
			n.Fields = append(n.Fields, p.parseFieldDecl())
		}
		p.skipNewlines()
	}
	n.EndPos = p.current.End
	p.match(token.DEDENT)
	return n
}

func (p *Parser) parseFieldDecl() *ast.FieldDecl {
	start := p.current
	isMut := false
	if p.current.Kind == token.IDENT && p.current.Literal == "mut" {
		isMut = true
		p.advance()
	}
	name := p.expect(token.IDENT, "a field name")
	fd := &ast.FieldDecl{
		BaseNode: ast.BaseNode{NodeKind: ast.KindFieldDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
		Name:     name.Literal,
		Mut:      isMut,
	}
	if p.match(token.COLON) {
		fd.Annotation = p.parseTypeExpr()
	}
	if p.match(token.ASSIGN) {
		fd.Default = p.parseExpression()
	}
	fd.EndPos = p.current.Pos
	p.consumeStmtEnd()
	return fd
}

func (p *Parser) parseTraitDecl() *ast.TraitDecl {
	start := p.current
	p.advance() // trait
	name := p.expect(token.IDENT, "a trait name")
	n := &ast.TraitDecl{
		BaseNode: ast.BaseNode{NodeKind: ast.KindTraitDecl, Start: start.Pos, Line: start.Line, Column: start.Column},
		Name:     name.Literal,
	}
	if p.at(token.LSS) {
		n.TypeParams = p.parseTypeParams()
	}
	p.expect(token.COLON, "':'")
	p.expect(token.NEWLINE, "a newline")
	p.expect(token.INDENT, "an indented trait body")

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.DEDENT) {
			break
		}
		n.Methods = append(n.Methods, p.parseFuncSig())
		p.skipNewlines()
	}
	n.EndPos = p.current.End
	p.match(token.DEDENT)
	return n
}

func (p *Parser) parseImplDecl() *ast.ImplDecl {
	start := p.current
	p.advance() // impl
	n := &ast.ImplDecl{BaseNode: ast.BaseNode{NodeKind: ast.KindImplDecl, Start: start.Pos, Line: start.Line, Column: start.Column}}

	if p.at(token.LSS) {
		n.TypeParams = p.parseTypeParams()
	}
	first := p.expect(token.IDENT, "a trait or type name").Literal
	if p.match(token.FOR) {
		n.TraitName = first
		n.TypeName = p.expect(token.IDENT, "a type name").Literal
	} else {
		n.TypeName = first
	}
	p.expect(token.COLON, "':'")
	p.expect(token.NEWLINE, "a newline")
	p.expect(token.INDENT, "an indented impl body")

	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.DEDENT) {
			break
		}
		n.Methods = append(n.Methods, p.parseFuncDecl())
		p.skipNewlines()
	}
	n.EndPos = p.current.End
	p.match(token.DEDENT)
	return n
}

// parseTypeExpr parses a type annotation: names, generics, nullable
// suffix, references, and function types.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.current

	if p.match(token.BAND) {
		isMut := false
		if p.current.Kind == token.IDENT && p.current.Literal == "mut" {
			isMut = true
			p.advance()
		}
		inner := p.parseTypeExpr()
		return &ast.TypeExpr{Start: start.Pos, EndPos: inner.EndPos, IsRef: true, RefMut: isMut, Args: []*ast.TypeExpr{inner}}
	}

	if p.match(token.LPAREN) {
		var params []*ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			params = append(params, p.parseTypeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN, "')'")
		p.expect(token.ARROW, "'->'")
		result := p.parseTypeExpr()
		te := &ast.TypeExpr{Start: start.Pos, EndPos: result.EndPos, Params: params, Result: result}
		if p.match(token.QUESTION) {
			te.Nullable = true
		}
		return te
	}

	name := p.expectTypeName()
	te := &ast.TypeExpr{Start: name.Pos, EndPos: name.End, Line: name.Line, Column: name.Column, Name: name.Literal}
	if p.at(token.LSS) {
		p.advance()
		for !p.at(token.GTR) && !p.at(token.EOF) {
			te.Args = append(te.Args, p.parseTypeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		te.EndPos = p.current.End
		p.expect(token.GTR, "'>'")
	}
	if p.match(token.QUESTION) {
		te.Nullable = true
		te.EndPos = p.current.Pos
	}
	return te
}
