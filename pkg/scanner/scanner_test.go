package scanner

import (
	"testing"

	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/syntax"
	"github.com/c3d/elfe/pkg/tree"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	table := syntax.Default()
	pos := tree.NewPositions("test.xl")
	sink := errs.NewSink()
	sc := New(src, table, pos, sink)

	var toks []Token
	for {
		tok := sc.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	if sink.HadErrors() {
		t.Fatalf("unexpected scan errors: %v", sink.Records())
	}
	return toks
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanNamesAndSymbols(t *testing.T) {
	toks := scanAll(t, "a+b")
	if len(toks) != 4 { // NAME SYMBOL NAME EOF
		t.Fatalf("got %d tokens: %v", len(toks), kinds(toks))
	}
	if toks[0].Kind != NAME || toks[0].Text != "a" {
		t.Errorf("tok0 = %v", toks[0])
	}
	if toks[1].Kind != SYMBOL || toks[1].Text != "+" {
		t.Errorf("tok1 = %v", toks[1])
	}
	if toks[2].Kind != NAME || toks[2].Text != "b" {
		t.Errorf("tok2 = %v", toks[2])
	}
}

func TestScanMultiCharSymbol(t *testing.T) {
	toks := scanAll(t, "a:=b")
	if toks[1].Text != ":=" {
		t.Errorf("expected maximal-munch ':=', got %q", toks[1].Text)
	}
}

func TestScanInteger(t *testing.T) {
	toks := scanAll(t, "42")
	if toks[0].Kind != INTEGER || toks[0].IntValue != 42 {
		t.Errorf("tok0 = %v", toks[0])
	}
}

func TestScanIntegerWithUnderscores(t *testing.T) {
	toks := scanAll(t, "1_000_000")
	if toks[0].Kind != INTEGER || toks[0].IntValue != 1000000 {
		t.Errorf("tok0 = %v", toks[0])
	}
}

func TestScanBasedInteger(t *testing.T) {
	toks := scanAll(t, "16#FF")
	if toks[0].Kind != INTEGER || toks[0].IntValue != 255 {
		t.Errorf("tok0 = %v", toks[0])
	}
}

func TestScanReal(t *testing.T) {
	toks := scanAll(t, "3.14")
	if toks[0].Kind != REAL || toks[0].RealValue != 3.14 {
		t.Errorf("tok0 = %v", toks[0])
	}
}

func TestScanScientificNotation(t *testing.T) {
	toks := scanAll(t, "1.5e10")
	if toks[0].Kind != REAL || toks[0].RealValue != 1.5e10 {
		t.Errorf("tok0 = %v", toks[0])
	}
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello"`)
	if toks[0].Kind != STRING || toks[0].Text != "hello" {
		t.Errorf("tok0 = %v", toks[0])
	}
}

func TestScanLineComment(t *testing.T) {
	toks := scanAll(t, "a // comment\nb")
	ks := kinds(toks)
	want := []Kind{NAME, NEWLINE, NAME, EOF}
	if len(ks) != len(want) {
		t.Fatalf("got %v, want shape %v", ks, want)
	}
	for i := range want {
		if ks[i] != want[i] {
			t.Errorf("tok %d = %v, want %v", i, ks[i], want[i])
		}
	}
}

func TestScanParenSuspendsIndentation(t *testing.T) {
	toks := scanAll(t, "(a\nb)")
	for _, tok := range toks {
		if tok.Kind == INDENT || tok.Kind == UNINDENT {
			t.Fatalf("expected no INDENT/UNINDENT inside parens, got %v", kinds(toks))
		}
	}
}

func TestScanIndentUnindent(t *testing.T) {
	src := "a\n  b\nc"
	toks := scanAll(t, src)
	ks := kinds(toks)
	foundIndent, foundUnindent := false, false
	for _, k := range ks {
		if k == INDENT {
			foundIndent = true
		}
		if k == UNINDENT {
			foundUnindent = true
		}
	}
	if !foundIndent || !foundUnindent {
		t.Fatalf("expected INDENT and UNINDENT, got %v", ks)
	}
}

func TestScanSpaceTracking(t *testing.T) {
	toks := scanAll(t, "a + b")
	// '+' should have space both before and after
	for _, tok := range toks {
		if tok.Kind == SYMBOL && tok.Text == "+" {
			if !tok.SpaceBefore || !tok.SpaceAfter {
				t.Errorf("expected '+' to have space before and after, got %+v", tok)
			}
		}
	}
}
