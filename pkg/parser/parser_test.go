package parser

import (
	"testing"

	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/scanner"
	"github.com/c3d/elfe/pkg/syntax"
	"github.com/c3d/elfe/pkg/tree"
)

func parse(t *testing.T, src string) (tree.Node, *errs.Sink) {
	t.Helper()
	table := syntax.Default()
	pos := tree.NewPositions("test.xl")
	sink := errs.NewSink()
	sc := scanner.New(src, table, pos, sink)
	p := New(sc, table, sink, DefaultOption)
	return p.Parse(""), sink
}

func TestParseSimpleInfix(t *testing.T) {
	n, sink := parse(t, "a+b")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	infix, ok := tree.AsInfix(n)
	if !ok {
		t.Fatalf("expected Infix, got %s", tree.Sprint(n))
	}
	if infix.Name != "+" {
		t.Errorf("got operator %q", infix.Name)
	}
	left, ok := tree.AsName(infix.Left)
	if !ok || left.Value != "a" {
		t.Errorf("left = %s", tree.Sprint(infix.Left))
	}
	right, ok := tree.AsName(infix.Right)
	if !ok || right.Value != "b" {
		t.Errorf("right = %s", tree.Sprint(infix.Right))
	}
}

func TestParsePrecedence(t *testing.T) {
	// a+b*c should parse as a+(b*c) since * binds tighter than +
	n, sink := parse(t, "a+b*c")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	top, ok := tree.AsInfix(n)
	if !ok || top.Name != "+" {
		t.Fatalf("expected top-level '+', got %s", tree.Sprint(n))
	}
	inner, ok := tree.AsInfix(top.Right)
	if !ok || inner.Name != "*" {
		t.Fatalf("expected right-hand '*', got %s", tree.Sprint(top.Right))
	}
}

func TestParseLeftAssociative(t *testing.T) {
	// a-b-c should parse as (a-b)-c
	n, _ := parse(t, "a-b-c")
	top, ok := tree.AsInfix(n)
	if !ok || top.Name != "-" {
		t.Fatalf("expected top-level '-', got %s", tree.Sprint(n))
	}
	if _, ok := tree.AsInfix(top.Left); !ok {
		t.Fatalf("expected left-nested '-', got %s", tree.Sprint(top.Left))
	}
	if _, ok := tree.AsName(top.Right); !ok {
		t.Fatalf("expected plain name on the right, got %s", tree.Sprint(top.Right))
	}
}

func TestParsePrefix(t *testing.T) {
	n, sink := parse(t, "not a")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	if _, ok := tree.AsPrefix(n); !ok {
		// "not" is declared both as an infix and as a prefix in the
		// default table; with no left operand it must come back as
		// Prefix(Name("not"), Name("a")).
		t.Fatalf("expected Prefix, got %s", tree.Sprint(n))
	}
}

func TestParseSignedConstantFolding(t *testing.T) {
	n, sink := parse(t, "-5")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	i, ok := tree.AsInteger(n)
	if !ok {
		t.Fatalf("expected folded Integer, got %s", tree.Sprint(n))
	}
	if i.Value != -5 {
		t.Errorf("got %d, want -5", i.Value)
	}
}

func TestParseParenthesizedBlock(t *testing.T) {
	n, sink := parse(t, "(a+b)")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	blk, ok := tree.AsBlock(n)
	if !ok {
		t.Fatalf("expected Block, got %s", tree.Sprint(n))
	}
	if blk.Opening != "(" || blk.Closing != ")" {
		t.Errorf("unexpected delimiters %q %q", blk.Opening, blk.Closing)
	}
	if _, ok := tree.AsInfix(blk.Child); !ok {
		t.Errorf("expected infix child, got %s", tree.Sprint(blk.Child))
	}
}

func TestParseEmptyParens(t *testing.T) {
	n, _ := parse(t, "()")
	blk, ok := tree.AsBlock(n)
	if !ok {
		t.Fatalf("expected Block, got %s", tree.Sprint(n))
	}
	name, ok := tree.AsName(blk.Child)
	if !ok || name.Value != "" {
		t.Errorf("expected empty Name child, got %s", tree.Sprint(blk.Child))
	}
}

func TestParseMismatchedParenReportsError(t *testing.T) {
	_, sink := parse(t, "(a+b")
	if !sink.HadErrors() {
		t.Fatal("expected an error for an unterminated paren block")
	}
}

func TestParseStatementSequence(t *testing.T) {
	n, sink := parse(t, "a\nb")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	top, ok := tree.AsInfix(n)
	if !ok || top.Name != "\n" {
		t.Fatalf("expected top-level newline infix, got %s", tree.Sprint(n))
	}
}

func TestParseDeclaration(t *testing.T) {
	n, sink := parse(t, "square x is x*x")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	top, ok := tree.AsInfix(n)
	if !ok || top.Name != "is" {
		t.Fatalf("expected top-level 'is', got %s", tree.Sprint(n))
	}
}

func TestParseCommentsAttachAsLeading(t *testing.T) {
	n, sink := parse(t, "// greet\na")
	if sink.HadErrors() {
		t.Fatalf("unexpected errors: %v", sink.Records())
	}
	name, ok := tree.AsName(n)
	if !ok || name.Value != "a" {
		t.Fatalf("expected Name(a), got %s", tree.Sprint(n))
	}
	ci, ok := name.Info(tree.CommentsInfoKind).(*tree.CommentsInfo)
	if !ok || len(ci.Before) == 0 {
		t.Fatalf("expected leading comment attached to 'a', got %#v", name.Info(tree.CommentsInfoKind))
	}
}
