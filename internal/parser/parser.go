// Package parser implements Tocin's syntactic analysis phase: recursive
// descent with precedence climbing for expressions, producing the
// internal/ast tree the semantic analyzer consumes.
//
// Errors are reported to a shared diagnostics.Sink rather than returned;
// the parser recovers from a malformed statement by synchronizing to
// the next statement-starter keyword (panic-mode recovery, spec.md §4.2)
// so a single run can surface more than one syntax error.
package parser

import (
	"strconv"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/lexer"
	"github.com/tocin-lang/tocin/internal/token"
)

// Parser consumes tokens from a lexer.Lexer and builds an *ast.Module.
type Parser struct {
	lex  *lexer.Lexer
	sink *diagnostics.Sink
	file string

	current token.Token
	peek    token.Token

	// inLoop/inAsync/inFunction gate break/continue/await so they are
	// rejected outside their enclosing construct.
	inLoop     bool
	inAsync    bool
	inFunction bool
}

// New creates a Parser reading from lex, reporting syntax diagnostics to
// sink. file is the source path used in diagnostic records.
func New(file string, lex *lexer.Lexer, sink *diagnostics.Sink) *Parser {
	p := &Parser{lex: lex, sink: sink, file: file}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.current = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) at(k token.Kind) bool {
	return p.current.Kind == k
}

func (p *Parser) atAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.current.Kind == k {
			return true
		}
	}
	return false
}

// match advances and returns true if the current token has kind k.
func (p *Parser) match(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect requires the current token to have kind k, reporting
// P001_UNEXPECTED_TOKEN and leaving the cursor in place otherwise.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.at(k) {
		t := p.current
		p.advance()
		return t
	}
	p.errorf("P001_UNEXPECTED_TOKEN", "expected %s, found %q", what, p.current.Kind)
	return p.current
}

func (p *Parser) errorf(code, format string, args ...any) {
	p.sink.Reportf(diagnostics.SeverityError, code, p.file, p.current.Line, p.current.Column, format, args...)
}

// expectTypeName requires the current token to name a type: either a
// user identifier or one of the reserved primitive-type keywords (int,
// float, bool, char, string, void), which lex as their own token kinds
// rather than IDENT.
func (p *Parser) expectTypeName() token.Token {
	switch p.current.Kind {
	case token.IDENT, token.BOOL, token.INT_TYPE, token.FLOAT_TYPE,
		token.CHAR_TYPE, token.STRING_TYPE, token.VOID_TYPE:
		t := p.current
		p.advance()
		return t
	}
	p.errorf("P001_UNEXPECTED_TOKEN", "expected a type name, found %q", p.current.Kind)
	return p.current
}

// skipNewlines consumes any run of NEWLINE tokens, used between
// statements where blank lines are insignificant.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

// Parse parses the entire token stream into a Module.
func (p *Parser) Parse() *ast.Module {
	mod := &ast.Module{BaseNode: ast.BaseNode{NodeKind: ast.KindModule, Start: p.current.Pos}, Path: p.file}
	p.skipNewlines()
	for !p.at(token.EOF) {
		decl := p.parseTopLevel()
		if decl != nil {
			mod.Decls = append(mod.Decls, decl)
		}
		p.skipNewlines()
	}
	mod.EndPos = p.current.End
	return mod
}

// synchronize discards tokens until a likely statement boundary, the
// panic-mode recovery strategy spec.md §4.2 requires.
func (p *Parser) synchronize() {
	p.advance()
	for !p.at(token.EOF) {
		if p.current.Kind == token.NEWLINE || p.current.Kind == token.DEDENT {
			return
		}
		switch p.current.Kind {
		case token.DEF, token.CLASS, token.TRAIT, token.IMPL, token.LET,
			token.IF, token.WHILE, token.FOR, token.RETURN, token.IMPORT,
			token.EXPORT, token.MATCH, token.GO, token.SELECT:
			return
		}
		p.advance()
	}
}

func parseIntLiteral(lit string) int64 {
	n, _ := strconv.ParseInt(lit, 0, 64)
	return n
}

func parseFloatLiteral(lit string) float64 {
	f, _ := strconv.ParseFloat(lit, 64)
	return f
}
