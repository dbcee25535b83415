// Package errs implements the single error sink every evaluation phase
// reports into (spec §7): lex, parse, lookup, type, and runtime errors are
// all ordinary records with a message template, a source position, and a
// severity. Nothing in the core propagates an error by panicking.
package errs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c3d/elfe/pkg/tree"
	pkgerrors "github.com/pkg/errors"
)

// Severity classifies how serious a report is; only Error and above set
// Sink.HadErrors.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Fatal:
		return "fatal"
	default:
		return "error"
	}
}

// Phase identifies which pipeline stage produced a Record, per spec §7's
// error kinds.
type Phase int

const (
	Lex Phase = iota
	Parse
	Lookup
	Type
	Runtime
)

func (p Phase) String() string {
	switch p {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Lookup:
		return "lookup"
	case Type:
		return "type"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Record is a single reported error, mirroring original_source/src's
// Error/Errors pair: a message template with $1, $2, … placeholders, a list
// of tree arguments substituted into them, a source position, and a
// severity.
type Record struct {
	Phase    Phase
	Severity Severity
	Template string
	Args     []tree.Node
	Pos      tree.Pos
}

// Arg appends a substitution argument and returns the record, so reports can
// be built fluently: sink.Report(...).Arg(x).Arg(y).
func (r *Record) Arg(n tree.Node) *Record {
	r.Args = append(r.Args, n)
	return r
}

// Message expands the $1, $2, … placeholders in Template using Args,
// rendering each argument with tree.Sprint.
func (r *Record) Message() string {
	out := r.Template
	for i, a := range r.Args {
		placeholder := "$" + strconv.Itoa(i+1)
		out = strings.ReplaceAll(out, placeholder, tree.Sprint(a))
	}
	return out
}

func (r *Record) String() string {
	return fmt.Sprintf("[%s %s] %s", r.Phase, r.Severity, r.Message())
}

// Sink accumulates Records and lets the top-level driver check HadErrors
// after each phase, per spec §7: phases report and continue best-effort,
// nothing unwinds the Go call stack for a user-level error.
type Sink struct {
	records []*Record
	parent  *Sink // context sink, e.g. an outer Report() nested inside another
}

// NewSink creates an empty, parentless sink — one per session.Session.
func NewSink() *Sink { return &Sink{} }

// Nested returns a child sink whose records also count toward this sink's
// HadErrors, used when one phase wants to scope a batch of reports (e.g. one
// rewrite candidate's runtime-condition evaluation) without losing them.
func (s *Sink) Nested() *Sink { return &Sink{parent: s} }

// Report logs a new Record and returns it so the caller can chain Arg calls.
func (s *Sink) Report(phase Phase, severity Severity, pos tree.Pos, template string) *Record {
	r := &Record{Phase: phase, Severity: severity, Template: template, Pos: pos}
	s.records = append(s.records, r)
	if s.parent != nil {
		s.parent.records = append(s.parent.records, r)
	}
	return r
}

// Errorf reports an Error-severity record for phase, formatting the
// template the way spec §7 describes ($1, $2, … consumed by later Arg
// calls — this helper is for plain, argument-free messages built with
// fmt-style verbs instead).
func (s *Sink) Errorf(phase Phase, pos tree.Pos, format string, args ...any) *Record {
	return s.Report(phase, Error, pos, fmt.Sprintf(format, args...))
}

// Records returns every record reported so far, oldest first.
func (s *Sink) Records() []*Record { return s.records }

// HadErrors reports whether any Error- or Fatal-severity record was logged.
func (s *Sink) HadErrors() bool {
	for _, r := range s.records {
		if r.Severity >= Error {
			return true
		}
	}
	return false
}

// Count returns the total number of records, including warnings.
func (s *Sink) Count() int { return len(s.records) }

// Clear discards all accumulated records.
func (s *Sink) Clear() { s.records = nil }

// Wrap attaches phase/position context to a lower-level Go error (e.g. a
// malformed syntax file failing to open) without losing its cause, using
// github.com/pkg/errors so the wrapped error keeps a stack trace across
// phase boundaries; the core itself never panics on this path.
func Wrap(err error, phase Phase, context string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrapf(err, "%s: %s", phase, context)
}
