package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tocin-lang/tocin/internal/diagnostics"
	"github.com/tocin-lang/tocin/internal/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	l := New("test.to", src, sink)
	return l.Tokenize(), sink
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestScannerPunctuationAndOperators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Kind
	}{
		{
			name:     "punctuation",
			input:    "( ) { } [ ] ; , : .",
			expected: []token.Kind{token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACK, token.RBRACK, token.SEMICOLON, token.COMMA, token.COLON, token.PERIOD, token.EOF},
		},
		{
			name:     "arithmetic",
			input:    "+ - * / %",
			expected: []token.Kind{token.ADD, token.SUB, token.MUL, token.QUO, token.REM, token.EOF},
		},
		{
			name:     "comparison",
			input:    "< > <= >= == !=",
			expected: []token.Kind{token.LSS, token.GTR, token.LEQ, token.GEQ, token.EQL, token.NEQ, token.EOF},
		},
		{
			name:     "channel ops and arrow",
			input:    "<- ->",
			expected: []token.Kind{token.CHAN_SEND, token.ARROW, token.EOF},
		},
		{
			name:     "null-safety operators",
			input:    "? ?. ?: !!",
			expected: []token.Kind{token.QUESTION, token.SAFE_CALL, token.ELVIS, token.NOT_NULL, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, sink := scanAll(t, tt.input)
			require.False(t, sink.HasErrors())
			require.Equal(t, tt.expected, kinds(toks))
		})
	}
}

func TestScannerIndentation(t *testing.T) {
	src := "def f():\n    return 1\n"
	toks, sink := scanAll(t, src)
	require.False(t, sink.HasErrors())

	got := kinds(toks)
	require.Contains(t, got, token.INDENT)
	require.Contains(t, got, token.DEDENT)

	// INDENT count equals DEDENT count (spec.md §8 invariant).
	indents, dedents := 0, 0
	for _, k := range got {
		if k == token.INDENT {
			indents++
		}
		if k == token.DEDENT {
			dedents++
		}
	}
	require.Equal(t, indents, dedents)
	require.Equal(t, token.EOF, got[len(got)-1])
}

func TestScannerDedentToMultipleLevels(t *testing.T) {
	src := "if a:\n    if b:\n        return 1\nreturn 2\n"
	toks, sink := scanAll(t, src)
	require.False(t, sink.HasErrors())

	dedentRun := 0
	maxRun := 0
	for _, tk := range toks {
		if tk.Kind == token.DEDENT {
			dedentRun++
			if dedentRun > maxRun {
				maxRun = dedentRun
			}
		} else {
			dedentRun = 0
		}
	}
	require.Equal(t, 2, maxRun, "dropping two indent levels at once emits two consecutive DEDENTs")
}

func TestScannerMismatchedDedentIsError(t *testing.T) {
	src := "if a:\n   x\n  y\n"
	_, sink := scanAll(t, src)
	require.True(t, sink.HasErrors())
}

func TestScannerMixedTabsAndSpacesIsError(t *testing.T) {
	src := "if a:\n \tx\n"
	_, sink := scanAll(t, src)
	require.True(t, sink.HasErrors())
}

func TestScannerNumberLiterals(t *testing.T) {
	toks, sink := scanAll(t, "1 2.5 1e10 1.5e-3")
	require.False(t, sink.HasErrors())
	require.Equal(t, []token.Kind{token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.EOF}, kinds(toks))
}

func TestScannerMalformedExponent(t *testing.T) {
	_, sink := scanAll(t, "1e")
	require.True(t, sink.HasErrors())
	recs := sink.Records()
	require.Equal(t, "L003_INVALID_NUMBER_FORMAT", recs[0].Code)
}

func TestScannerStringEscapes(t *testing.T) {
	toks, sink := scanAll(t, `"a\nb\t\"c\""`)
	require.False(t, sink.HasErrors())
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "a\nb\t\"c\"", toks[0].Literal)
}

func TestScannerUnterminatedString(t *testing.T) {
	_, sink := scanAll(t, "\"abc\n")
	require.True(t, sink.HasErrors())
	recs := sink.Records()
	require.Equal(t, "L002_UNTERMINATED_STRING", recs[0].Code)
}

func TestScannerKeywordsVsIdentifiers(t *testing.T) {
	toks, sink := scanAll(t, "let mut def foobar")
	require.False(t, sink.HasErrors())
	require.Equal(t, []token.Kind{token.LET, token.IDENT, token.DEF, token.IDENT, token.EOF}, kinds(toks))
}

func TestScannerCommentsDoNotAffectIndentation(t *testing.T) {
	src := "def f():\n    # a comment\n    return 1\n"
	toks, sink := scanAll(t, src)
	require.False(t, sink.HasErrors())

	indents := 0
	for _, tk := range toks {
		if tk.Kind == token.INDENT {
			indents++
		}
	}
	require.Equal(t, 1, indents)
}

func TestScannerFStringInterpolation(t *testing.T) {
	toks, sink := scanAll(t, `f"hi {name}!"`)
	require.False(t, sink.HasErrors())
	require.Equal(t, token.FSTRING_BEGIN, toks[0].Kind)
	require.Equal(t, "hi ", toks[0].Literal)
}
