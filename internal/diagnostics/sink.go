// Package diagnostics implements the shared error/warning sink used by
// every compiler phase (lexer, parser, semantic analyzer, IR lowerer).
//
// Records accumulate in severity-annotated form; only a Fatal record
// forces the pipeline to abort immediately. Everything else is collected
// so a single run surfaces as many independent problems as possible, per
// spec.md §7.
package diagnostics

import (
	"fmt"
	"sort"
	"sync"
)

// Severity classifies a diagnostic record.
type Severity int

// Severity levels, lowest to highest.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String renders the severity the way the driver prints it.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Phase orders records from earlier pipeline stages before later ones,
// per the cross-phase ordering guarantee in spec.md §5.
type Phase int

// Pipeline phases, in pipeline order.
const (
	PhaseLexer Phase = iota
	PhaseParser
	PhaseSema
	PhaseCodegen
	PhaseGeneral
)

// Record is one diagnostic: a stable code, a severity, a message, and a
// source position. Secondary spans may annotate a related location (e.g.
// the original declaration of a name redefined elsewhere).
type Record struct {
	Code      string
	Severity  Severity
	Phase     Phase
	Message   string
	File      string
	Line      int
	Column    int
	Secondary []Span
}

// Span is a secondary source location attached to a Record.
type Span struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Sink is a thread-safe, append-only collection of diagnostic Records.
type Sink struct {
	mu      sync.Mutex
	records []Record
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends a fully formed Record.
func (s *Sink) Report(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Reportf builds a Record from a phase-prefixed code and a printf-style
// message and appends it. The phase is inferred from the code's leading
// letter (L/P/T/N/O/M/C/I/G), matching the registry in spec.md §4.5.
func (s *Sink) Reportf(sev Severity, code, file string, line, col int, format string, args ...any) {
	s.Report(Record{
		Code:     code,
		Severity: sev,
		Phase:    phaseForCode(code),
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Column:   col,
	})
}

func phaseForCode(code string) Phase {
	if code == "" {
		return PhaseGeneral
	}
	switch code[0] {
	case 'L':
		return PhaseLexer
	case 'P':
		return PhaseParser
	case 'T', 'N', 'O', 'M':
		return PhaseSema
	case 'C':
		return PhaseCodegen
	default:
		return PhaseGeneral
	}
}

// Records returns a copy of every record reported so far, sorted by
// phase then source position as the driver requires in spec.md §7.
func (s *Sink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// HasErrors reports whether any Error or Fatal record has been reported.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// HasFatal reports whether any Fatal record has been reported.
func (s *Sink) HasFatal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Clear empties the sink. Used between independent compilation units
// that share a sink instance in tests.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// Format renders a Record as "file:line:col: severity: CODE: message",
// the wire format the driver prints per spec.md §4.5/§7.
func (r Record) Format() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s: %s", r.File, r.Line, r.Column, r.Severity, r.Code, r.Message)
}
