package lexer

import (
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/token"
)

// defaultTabWidth is the column width a leading tab expands to when no
// explicit width is configured.
const defaultTabWidth = 4

// Scanner is a stateful lexical scanner for Tocin source code. It uses
// rune-based scanning for Unicode identifiers and maintains detailed
// position tracking for diagnostics.
type Scanner struct {
	source string
	file   string
	length int
	sink   *diagnostics.Sink

	// Position tracking
	pos        int
	offset     int
	fullOffset int

	line        int
	column      int
	tokenLine   int
	tokenColumn int

	// Indentation state
	indents     []int
	tabWidth    int
	atLineStart bool
	queued      []token.Token // INDENT/DEDENT tokens already computed, awaiting delivery

	current token.Token

	// fstringQuotes/fstringDepth track nested f-string substitutions.
	// Entering a substitution (FSTRING_BEGIN/FSTRING_MID) pushes the
	// quote rune and a zero brace-depth counter; a `{` inside the
	// substitution increments the counter so that a dict literal's own
	// braces don't get mistaken for the substitution's closing `}`, and
	// the matching `}` at depth zero resumes fragment scanning instead
	// of emitting an ordinary RBRACE.
	fstringQuotes []rune
	fstringDepth  []int
}

// NewScanner creates a Scanner over source, reporting lexical errors to sink.
func NewScanner(file, source string, sink *diagnostics.Sink) *Scanner {
	source = stripBOM(source)
	return &Scanner{
		source:      source,
		file:        file,
		length:      len(source),
		sink:        sink,
		line:        1,
		column:      1,
		indents:     []int{0},
		tabWidth:    defaultTabWidth,
		atLineStart: true,
	}
}

// SetTabWidth configures the column width a leading tab expands to.
func (s *Scanner) SetTabWidth(w int) {
	if w > 0 {
		s.tabWidth = w
	}
}

// stripBOM tolerates and skips a leading UTF-8 byte order mark (spec.md
// §6: "BOM is tolerated and skipped"), using x/text's BOM-aware decoder
// rather than hand-rolling the 3-byte EF BB BF comparison.
func stripBOM(src string) string {
	out, _, err := transform.String(xunicode.UTF8BOM.NewDecoder(), src)
	if err != nil {
		return src
	}
	return out
}

func (s *Scanner) char() rune {
	if s.pos >= s.length {
		return -1
	}
	return rune(s.source[s.pos])
}

func (s *Scanner) peek(offset int) rune {
	p := s.pos + offset
	if p >= s.length {
		return -1
	}
	return rune(s.source[p])
}

// next advances by one byte, tracking line/column. Used for ASCII-only
// scanning paths; nextRune is used once multi-byte content is detected.
func (s *Scanner) next() rune {
	if s.pos >= s.length {
		return -1
	}
	ch := rune(s.source[s.pos])
	s.pos++
	s.advancePosition(ch)
	return ch
}

func (s *Scanner) nextRune() rune {
	if s.pos >= s.length {
		return -1
	}
	ch, size := utf8.DecodeRuneInString(s.source[s.pos:])
	if ch == utf8.RuneError && size == 1 {
		s.pos++
		s.column++
		return ch
	}
	s.pos += size
	s.advancePosition(ch)
	return ch
}

func (s *Scanner) advancePosition(ch rune) {
	switch ch {
	case '\n':
		s.line++
		s.column = 1
	case '\r':
		s.line++
		s.column = 1
		if s.char() == '\n' {
			s.pos++
		}
	default:
		s.column++
	}
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' ||
		(ch >= utf8.RuneSelf && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierStart(ch rune) bool { return isLetter(ch) }

func isIdentifierPart(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || (ch >= utf8.RuneSelf && unicode.IsDigit(ch))
}

func (s *Scanner) createToken(kind token.Kind, literal string) token.Token {
	return token.Token{
		Kind:    kind,
		Literal: literal,
		File:    s.file,
		Pos:     s.offset,
		End:     s.pos,
		Line:    s.tokenLine,
		Column:  s.tokenColumn,
	}
}

func (s *Scanner) errorf(code, format string, args ...any) {
	s.sink.Reportf(diagnostics.SeverityError, code, s.file, s.tokenLine, s.tokenColumn, format, args...)
}
