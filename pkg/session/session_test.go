package session

import (
	"strings"
	"testing"

	"github.com/c3d/elfe/pkg/backend"
	"github.com/c3d/elfe/pkg/tree"
)

func TestRunParsesDeclaresAndEvaluates(t *testing.T) {
	s := New(nil, DefaultOptions())
	src := "x is 3\n" + "x"

	got := s.Run("inline", strings.NewReader(src))
	if s.Sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", s.Sink.Records())
	}

	i, ok := tree.AsInteger(got)
	if !ok || i.Value != 3 {
		t.Fatalf("expected 3, got %s", tree.Sprint(got))
	}
}

func TestForceInterpretUsesNoneBackend(t *testing.T) {
	opt := DefaultOptions()
	opt.ForceInterpret = true
	s := New(nil, opt)

	if _, ok := s.Backend.(backend.None); !ok {
		t.Fatalf("expected backend.None with -interpret, got %T", s.Backend)
	}
}

func TestWithoutForceInterpretUsesDynamicBackend(t *testing.T) {
	s := New(nil, DefaultOptions())

	if _, ok := s.Backend.(*backend.Dynamic); !ok {
		t.Fatalf("expected *backend.Dynamic by default, got %T", s.Backend)
	}
}

func TestParseFileReportsUnreadableSourceAsLexError(t *testing.T) {
	s := New(nil, DefaultOptions())
	got := s.ParseFile("broken", errorReader{})

	if got != nil {
		t.Fatalf("expected nil tree on read failure, got %s", tree.Sprint(got))
	}
	if !s.Sink.HadErrors() {
		t.Fatal("expected a lex-phase error")
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errReadFailed }

var errReadFailed = readFailedErr("boom")

type readFailedErr string

func (e readFailedErr) Error() string { return string(e) }
