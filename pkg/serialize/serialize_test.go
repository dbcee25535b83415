package serialize

import (
	"bytes"
	"testing"

	"github.com/c3d/elfe/pkg/tree"
)

func roundTrip(t *testing.T, n tree.Node) tree.Node {
	t.Helper()
	var buf bytes.Buffer
	c := NewCodec()
	if err := c.Encode(&buf, n); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := c.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestRoundTripLiterals(t *testing.T) {
	cases := []tree.Node{
		tree.NewInteger(-42, tree.NoPos),
		tree.NewInteger(0, tree.NoPos),
		tree.NewReal(3.14159, tree.NoPos),
		tree.NewReal(-0.5, tree.NoPos),
		tree.NewQuotedText("hello, world", tree.NoPos),
		tree.NewName("square", tree.NoPos),
	}

	for _, want := range cases {
		got := roundTrip(t, want)
		if !tree.Equal(want, got) {
			t.Errorf("round trip mismatch: want %s, got %s", tree.Sprint(want), tree.Sprint(got))
		}
	}
}

func TestRoundTripCompoundTree(t *testing.T) {
	pattern := tree.NewPrefix(tree.NewName("square", tree.NoPos), tree.NewName("x", tree.NoPos), tree.NoPos)
	body := tree.NewInfix("*", tree.NewName("x", tree.NoPos), tree.NewName("x", tree.NoPos), tree.NoPos)
	rule := tree.NewInfix("is", pattern, body, tree.NoPos)
	block := tree.NewBlock(rule, "(", ")", tree.NoPos)

	got := roundTrip(t, block)
	if !tree.Equal(block, got) {
		t.Fatalf("round trip mismatch: want %s, got %s", tree.Sprint(block), tree.Sprint(got))
	}
}

func TestRoundTripPreservesTextDelimiters(t *testing.T) {
	text := tree.NewText("line", "<<", ">>", tree.NoPos)
	got := roundTrip(t, text)

	g, ok := tree.AsText(got)
	if !ok {
		t.Fatalf("expected *tree.Text, got %T", got)
	}
	if g.Value != "line" || g.Opening != "<<" || g.Closing != ">>" {
		t.Errorf("got %+v", g)
	}
}

func TestDecodeTruncatedStreamFails(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec()
	if err := c.Encode(&buf, tree.NewInfix("+", tree.NewInteger(1, tree.NoPos), tree.NewInteger(2, tree.NoPos), tree.NoPos)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-1])
	if _, err := c.Decode(truncated); err == nil {
		t.Fatal("expected an error decoding a truncated stream")
	}
}
