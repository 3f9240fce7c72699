package parser

import (
	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/token"
)

// binaryPrecedence ranks infix operators from loosest to tightest
// binding, the precedence-climbing table for spec.md §4.2's grammar.
var binaryPrecedence = map[token.Kind]int{
	token.OR:    1,
	token.LAND:  2,
	token.AND:   2,
	token.LOR:   2,
	token.ELVIS: 3,
	token.EQL:   4,
	token.NEQ:   4,
	token.LSS:   5,
	token.LEQ:   5,
	token.GTR:   5,
	token.GEQ:   5,
	token.BOR:   6,
	token.BXOR:  7,
	token.BAND:  8,
	token.SHL:   9,
	token.SHR:   9,
	token.ADD:   10,
	token.SUB:   10,
	token.MUL:   11,
	token.QUO:   11,
	token.REM:   11,
}

// parseExpression parses a full expression, including `as` casts which
// bind looser than any binary operator but tighter than assignment
// (assignment itself is only legal in statement position; see stmt.go).
func (p *Parser) parseExpression() ast.Expr {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		if minPrec <= 10 && (p.at(token.RANGE) || p.at(token.RANGE_INCL)) {
			left = p.parseRangeSuffix(left)
			continue
		}
		prec, ok := binaryPrecedence[p.current.Kind]
		if !ok || prec < minPrec {
			break
		}
		op := p.current
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.Binary{
			BaseNode: ast.BaseNode{NodeKind: ast.KindBinary, Start: left.Pos(), EndPos: right.End(), Line: op.Line, Column: op.Column},
			Op:       op.Kind,
			Left:     left,
			Right:    right,
		}
	}
	if minPrec == 1 && p.match(token.AS) {
		target := p.parseTypeExpr()
		left = &ast.Cast{BaseNode: ast.BaseNode{NodeKind: ast.KindCast, Start: left.Pos(), EndPos: target.EndPos}, Value: left, Target: target}
	}
	return left
}

// parseRangeSuffix handles `start..end` / `start..=end`, which bind
// looser than any arithmetic operator (so `a+1..b-1` parses as
// `(a+1)..(b-1)`) but are not part of the precedence-climbing table
// since they are not left-recursive.
func (p *Parser) parseRangeSuffix(left ast.Expr) ast.Expr {
	inclusive := p.at(token.RANGE_INCL)
	if !p.at(token.RANGE) && !inclusive {
		return left
	}
	p.advance()
	right := p.parseBinary(10)
	return &ast.RangeExpr{
		BaseNode:  ast.BaseNode{NodeKind: ast.KindRangeExpr, Start: left.Pos(), EndPos: right.End()},
		Start:     left,
		End:       right,
		Inclusive: inclusive,
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.current.Kind {
	case token.SUB, token.LNOT, token.NOT, token.BNOT, token.BAND, token.MUL:
		op := p.current
		p.advance()
		operand := p.parseUnary()
		return &ast.Unary{BaseNode: ast.BaseNode{NodeKind: ast.KindUnary, Start: op.Pos, EndPos: operand.End(), Line: op.Line, Column: op.Column}, Op: op.Kind, Operand: operand}
	case token.CHAN_SEND:
		op := p.current
		p.advance()
		ch := p.parseUnary()
		return &ast.ChanRecv{BaseNode: ast.BaseNode{NodeKind: ast.KindChanRecv, Start: op.Pos, EndPos: ch.End()}, Channel: ch}
	case token.AWAIT:
		op := p.current
		if !p.inAsync {
			p.errorf("P006_AWAIT_OUTSIDE_ASYNC", "'await' is only valid inside an async function")
		}
		p.advance()
		operand := p.parseUnary()
		return &ast.Await{BaseNode: ast.BaseNode{NodeKind: ast.KindAwait, Start: op.Pos, EndPos: operand.End()}, Operand: operand}
	case token.MOVE:
		op := p.current
		p.advance()
		operand := p.parseUnary()
		return &ast.Move{BaseNode: ast.BaseNode{NodeKind: ast.KindMove, Start: op.Pos, EndPos: operand.End()}, Operand: operand}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.current.Kind {
		case token.PERIOD, token.SAFE_CALL:
			safe := p.current.Kind == token.SAFE_CALL
			p.advance()
			name := p.expect(token.IDENT, "a field or method name")
			if p.at(token.LPAREN) {
				call := p.parseCallArgs(&ast.FieldGet{
					BaseNode: ast.BaseNode{NodeKind: ast.KindFieldGet, Start: expr.Pos(), EndPos: name.End},
					Object:   expr, Name: name.Literal, Safe: safe,
				})
				call.Optional = safe
				expr = call
				continue
			}
			expr = &ast.FieldGet{BaseNode: ast.BaseNode{NodeKind: ast.KindFieldGet, Start: expr.Pos(), EndPos: name.End}, Object: expr, Name: name.Literal, Safe: safe}
		case token.LBRACK:
			p.advance()
			idx := p.parseExpression()
			end := p.expect(token.RBRACK, "']'")
			expr = &ast.IndexGet{BaseNode: ast.BaseNode{NodeKind: ast.KindIndexGet, Start: expr.Pos(), EndPos: end.End}, Container: expr, Index: idx}
		case token.LPAREN:
			expr = p.parseCallArgs(expr)
		case token.NOT_NULL:
			op := p.current
			p.advance()
			expr = &ast.Unary{BaseNode: ast.BaseNode{NodeKind: ast.KindUnary, Start: expr.Pos(), EndPos: op.End}, Op: token.NOT_NULL, Operand: expr}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expr) *ast.Call {
	p.expect(token.LPAREN, "'('")
	var args []ast.Expr
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RPAREN, "')'")
	return &ast.Call{BaseNode: ast.BaseNode{NodeKind: ast.KindCall, Start: callee.Pos(), EndPos: end.End}, Callee: callee, Args: args}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.current
	switch t.Kind {
	case token.INT:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Value: parseIntLiteral(t.Literal), Raw: t.Literal}
	case token.FLOAT:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Value: parseFloatLiteral(t.Literal), Raw: t.Literal}
	case token.STRING, token.CHAR:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Value: t.Literal, Raw: t.Literal}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Value: t.Kind == token.TRUE, Raw: t.Literal}
	case token.NIL:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Value: nil, Raw: "nil"}
	case token.FSTRING_BEGIN:
		return p.parseFString()
	case token.SUPER:
		p.advance()
		if p.current.Literal == "self" && p.current.Kind == token.IDENT {
			// `super` is only meaningful as `super.method(...)`; fall
			// through so the caller's postfix loop handles the rest.
		}
		return &ast.Identifier{BaseNode: ast.BaseNode{NodeKind: ast.KindIdentifier, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Name: "super"}
	case token.IDENT:
		if t.Literal == "self" {
			p.advance()
			return &ast.SelfExpr{BaseNode: ast.BaseNode{NodeKind: ast.KindSelfExpr, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}}
		}
		p.advance()
		return &ast.Identifier{BaseNode: ast.BaseNode{NodeKind: ast.KindIdentifier, Start: t.Pos, EndPos: t.End, Line: t.Line, Column: t.Column}, Name: t.Literal}
	case token.SOME:
		p.advance()
		p.expect(token.LPAREN, "'('")
		v := p.parseExpression()
		end := p.expect(token.RPAREN, "')'")
		return &ast.Some{BaseNode: ast.BaseNode{NodeKind: ast.KindSome, Start: t.Pos, EndPos: end.End}, Value: v}
	case token.NONE:
		p.advance()
		return &ast.NoneLit{BaseNode: ast.BaseNode{NodeKind: ast.KindNone, Start: t.Pos, EndPos: t.End}}
	case token.OK:
		p.advance()
		p.expect(token.LPAREN, "'('")
		v := p.parseExpression()
		end := p.expect(token.RPAREN, "')'")
		return &ast.Ok{BaseNode: ast.BaseNode{NodeKind: ast.KindOk, Start: t.Pos, EndPos: end.End}, Value: v}
	case token.ERR:
		p.advance()
		p.expect(token.LPAREN, "'('")
		v := p.parseExpression()
		end := p.expect(token.RPAREN, "')'")
		return &ast.ErrExpr{BaseNode: ast.BaseNode{NodeKind: ast.KindErrExpr, Start: t.Pos, EndPos: end.End}, Value: v}
	case token.NEW:
		p.advance()
		name := p.expect(token.IDENT, "a class name")
		n := &ast.New{BaseNode: ast.BaseNode{NodeKind: ast.KindNew, Start: t.Pos, Line: t.Line, Column: t.Column}, ClassName: name.Literal}
		if p.at(token.LSS) {
			p.advance()
			for !p.at(token.GTR) && !p.at(token.EOF) {
				n.TypeArgs = append(n.TypeArgs, p.parseTypeExpr())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.GTR, "'>'")
		}
		p.expect(token.LPAREN, "'('")
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			n.Args = append(n.Args, p.parseExpression())
			if !p.match(token.COMMA) {
				break
			}
		}
		end := p.expect(token.RPAREN, "')'")
		n.EndPos = end.End
		return n
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		end := p.expect(token.RPAREN, "')'")
		return &ast.Grouping{BaseNode: ast.BaseNode{NodeKind: ast.KindGrouping, Start: t.Pos, EndPos: end.End}, Inner: inner}
	case token.LBRACK:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	case token.BOR:
		return p.parseLambda()
	default:
		p.errorf("P001_UNEXPECTED_TOKEN", "unexpected token %q in expression", t.Kind)
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeKind: ast.KindLiteral, Start: t.Pos, EndPos: t.End}, Value: nil}
	}
}

func (p *Parser) parseListLiteral() *ast.ListLiteral {
	start := p.current
	p.advance()
	n := &ast.ListLiteral{BaseNode: ast.BaseNode{NodeKind: ast.KindListLiteral, Start: start.Pos}}
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		n.Elems = append(n.Elems, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RBRACK, "']'")
	n.EndPos = end.End
	return n
}

func (p *Parser) parseDictLiteral() *ast.DictLiteral {
	start := p.current
	p.advance()
	n := &ast.DictLiteral{BaseNode: ast.BaseNode{NodeKind: ast.KindDictLiteral, Start: start.Pos}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		key := p.parseExpression()
		p.expect(token.COLON, "':'")
		val := p.parseExpression()
		n.Entries = append(n.Entries, ast.DictEntry{Key: key, Value: val})
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.expect(token.RBRACE, "'}'")
	n.EndPos = end.End
	return n
}

// parseLambda parses `|params| expr` or `|params| { block }`.
func (p *Parser) parseLambda() *ast.Lambda {
	start := p.current
	p.advance() // opening |
	n := &ast.Lambda{BaseNode: ast.BaseNode{NodeKind: ast.KindLambda, Start: start.Pos}}
	for !p.at(token.BOR) && !p.at(token.EOF) {
		name := p.expect(token.IDENT, "a lambda parameter")
		pd := &ast.ParamDecl{BaseNode: ast.BaseNode{NodeKind: ast.KindParamDecl, Start: name.Pos, EndPos: name.End}, Name: name.Literal}
		if p.match(token.COLON) {
			pd.Annotation = p.parseTypeExpr()
		}
		n.Params = append(n.Params, pd)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.BOR, "'|'")

	if p.at(token.LBRACE) {
		// Block-bodied lambda written with braces rather than
		// indentation, since a lambda can appear mid-expression where
		// significant whitespace would be ambiguous.
		n.Body = p.parseBraceBlock()
	} else {
		expr := p.parseExpression()
		n.Body = &ast.ExprStmt{BaseNode: ast.BaseNode{NodeKind: ast.KindExprStmt, Start: expr.Pos(), EndPos: expr.End()}, X: expr}
	}
	n.EndPos = n.Body.End()
	return n
}

// parseBraceBlock parses `{ stmt; stmt; ... }`, the brace-delimited
// block form used only inside lambdas (spec.md's indentation rule
// governs every other block).
func (p *Parser) parseBraceBlock() *ast.Block {
	start := p.expect(token.LBRACE, "'{'")
	blk := &ast.Block{BaseNode: ast.BaseNode{NodeKind: ast.KindBlock, Start: start.Pos}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		p.skipNewlines()
		if p.at(token.RBRACE) {
			break
		}
		blk.Stmts = append(blk.Stmts, p.parseStatement())
		p.match(token.SEMICOLON)
		p.skipNewlines()
	}
	end := p.expect(token.RBRACE, "'}'")
	blk.EndPos = end.End
	return blk
}

// parseFString consumes the FSTRING_BEGIN/MID/END fragments and the
// embedded expressions between them, resuming the lexer on each `}`
// via ScanFStringContinuation as spec.md §4.1 describes.
func (p *Parser) parseFString() *ast.StringInterp {
	start := p.current
	n := &ast.StringInterp{BaseNode: ast.BaseNode{NodeKind: ast.KindStringInterp, Start: start.Pos}}
	n.Fragments = append(n.Fragments, start.Literal)
	p.advance()

	for {
		n.Exprs = append(n.Exprs, p.parseExpression())
		if p.current.Kind != token.FSTRING_MID && p.current.Kind != token.FSTRING_END {
			p.errorf("P007_MALFORMED_FSTRING", "expected '}' to close an f-string substitution")
			break
		}
		n.Fragments = append(n.Fragments, p.current.Literal)
		end := p.current
		isEnd := p.current.Kind == token.FSTRING_END
		p.advance()
		if isEnd {
			n.EndPos = end.End
			break
		}
	}
	return n
}
