package lexer

import "github.com/tocin-lang/tocin/internal/token"

// Scan returns the next token from the source. INDENT/DEDENT/NEWLINE
// tokens are synthesized from column tracking; punctuation scanning is
// greedy longest-match so multi-character operators always win over their
// single-character prefixes.
//
//nolint:gocognit,gocyclo,cyclop,funlen // scanner dispatch is inherently a large switch
func (s *Scanner) Scan() token.Token {
	if len(s.queued) > 0 {
		t := s.queued[0]
		s.queued = s.queued[1:]
		s.current = t
		return t
	}

	for s.atLineStart {
		if t, ok := s.scanLineStart(); ok {
			s.current = t
			return t
		}
		if s.char() == -1 {
			break
		}
	}

	s.skipInlineWhitespace()

	for s.char() == '#' {
		s.skipComment()
		if s.char() == '\n' || s.char() == '\r' {
			return s.scanNewlineOrIndent()
		}
		s.skipInlineWhitespace()
	}

	s.offset = s.pos
	s.tokenLine, s.tokenColumn = s.line, s.column
	ch := s.char()

	if ch == -1 {
		return s.scanEOF()
	}

	if ch == '\n' || ch == '\r' {
		return s.scanNewlineOrIndent()
	}

	if isIdentifierStart(ch) {
		t := s.scanIdentifier()
		s.current = t
		return t
	}
	if isDigit(ch) {
		t := s.scanNumber()
		s.current = t
		return t
	}

	switch ch {
	case '"', '\'':
		t := s.scanString(ch)
		s.current = t
		return t
	case 'f':
		// handled by scanIdentifier unless followed immediately by a quote,
		// which scanIdentifier already special-cases below via lookahead.
	}

	if t, ok := s.scanPunctuation(); ok {
		s.current = t
		return t
	}

	s.next()
	s.errorf("L001_UNEXPECTED_CHARACTER", "unexpected character %q", ch)
	t := s.createToken(token.ILLEGAL, string(ch))
	s.current = t
	return t
}

// scanEOF flushes any remaining DEDENTs before emitting EOF.
func (s *Scanner) scanEOF() token.Token {
	s.offset, s.pos = s.pos, s.pos
	s.tokenLine, s.tokenColumn = s.line, s.column
	if len(s.indents) > 1 {
		for len(s.indents) > 1 {
			s.indents = s.indents[:len(s.indents)-1]
			s.queued = append(s.queued, s.createToken(token.DEDENT, ""))
		}
		t := s.queued[0]
		s.queued = s.queued[1:]
		s.current = t
		return t
	}
	t := s.createToken(token.EOF, "")
	s.current = t
	return t
}

func (s *Scanner) scanNewlineOrIndent() token.Token {
	s.offset = s.pos
	s.tokenLine, s.tokenColumn = s.line, s.column
	s.next() // consumes \n, \r, or \r\n (advancePosition coalesces the pair)
	s.atLineStart = true
	t := s.createToken(token.NEWLINE, "\n")
	s.current = t
	return t
}

// skipInlineWhitespace consumes spaces/tabs that are not significant
// leading indentation (i.e. mid-line whitespace).
func (s *Scanner) skipInlineWhitespace() {
	for s.char() == ' ' || s.char() == '\t' {
		s.next()
	}
}

func (s *Scanner) skipComment() {
	for s.char() != '\n' && s.char() != '\r' && s.char() != -1 {
		s.next()
	}
}

// scanLineStart measures leading indentation at the start of a logical
// line and queues INDENT/DEDENT tokens per spec.md §4.1. It returns
// ok=false when the line is blank or comment-only (which never affects
// indentation) so the caller falls through to ordinary scanning.
func (s *Scanner) scanLineStart() (token.Token, bool) {
	start := s.pos
	width := 0
	sawSpace, sawTab := false, false

	for {
		switch s.char() {
		case ' ':
			sawSpace = true
			width++
			s.next()
		case '\t':
			sawTab = true
			width += s.tabWidth
			s.next()
		default:
			goto doneMeasuring
		}
	}
doneMeasuring:

	if s.char() == '\n' || s.char() == '\r' {
		s.next()
		return token.Token{}, false
	}
	if s.char() == -1 {
		s.atLineStart = false
		return token.Token{}, false
	}
	if s.char() == '#' {
		s.skipComment()
		if s.char() == '\n' || s.char() == '\r' {
			s.next()
		}
		return token.Token{}, false
	}

	if sawSpace && sawTab {
		s.tokenLine, s.tokenColumn = s.line, 1
		s.errorf("L004_MIXED_TABS_SPACES", "mixed tabs and spaces in indentation")
	}

	s.atLineStart = false
	top := s.indents[len(s.indents)-1]

	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.offset = start
		s.tokenLine, s.tokenColumn = s.line, 1
		return s.createToken(token.INDENT, s.source[start:s.pos]), true

	case width < top:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
			s.queued = append(s.queued, tokenAt(token.DEDENT, s.line))
		}
		if s.indents[len(s.indents)-1] != width {
			s.tokenLine, s.tokenColumn = s.line, 1
			s.errorf("L005_BAD_DEDENT", "indentation does not match any outer level")
		}
		t := s.queued[0]
		s.queued = s.queued[1:]
		return t, true

	default:
		return token.Token{}, false
	}
}

func tokenAt(kind token.Kind, line int) token.Token {
	return token.Token{Kind: kind, Line: line, Column: 1}
}
