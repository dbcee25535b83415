package tree

import "testing"

func TestEqualLiterals(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"same integer", NewInteger(3, NoPos), NewInteger(3, NoPos), true},
		{"different integer", NewInteger(3, NoPos), NewInteger(4, NoPos), false},
		{"same name", NewName("foo", NoPos), NewName("foo", NoPos), true},
		{"different kind", NewInteger(3, NoPos), NewName("3", NoPos), false},
		{"same infix", NewInfix("+", NewInteger(1, NoPos), NewInteger(2, NoPos), NoPos),
			NewInfix("+", NewInteger(1, NoPos), NewInteger(2, NoPos), NoPos), true},
		{"different infix name", NewInfix("+", NewInteger(1, NoPos), NewInteger(2, NoPos), NoPos),
			NewInfix("-", NewInteger(1, NoPos), NewInteger(2, NoPos), NoPos), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", Sprint(tt.a), Sprint(tt.b), got, tt.want)
			}
		})
	}
}

func TestIdentityDistinctFromEquality(t *testing.T) {
	a := NewInteger(3, NoPos)
	b := NewInteger(3, NoPos)
	if a == Node(b) {
		t.Fatal("distinct nodes compared equal as interface values")
	}
	seen := map[Node]bool{a: true}
	if seen[b] {
		t.Fatal("structurally-equal but distinct nodes must be different map keys")
	}
}

func TestInfoChainReplaceAndRemove(t *testing.T) {
	n := NewName("x", NoPos)
	if n.Info(CommentsInfoKind) != nil {
		t.Fatal("fresh node should carry no annotations")
	}
	n.SetInfo(&CommentsInfo{Before: []string{"a"}})
	n.SetInfo(&ClosureInfo{Scope: NewName("scope", NoPos)})
	n.SetInfo(&CommentsInfo{Before: []string{"b"}})

	ci, ok := n.Info(CommentsInfoKind).(*CommentsInfo)
	if !ok || len(ci.Before) != 1 || ci.Before[0] != "b" {
		t.Fatalf("expected replaced CommentsInfo, got %#v", n.Info(CommentsInfoKind))
	}
	if n.Info(ClosureInfoKind) == nil {
		t.Fatal("ClosureInfo should still be present alongside CommentsInfo")
	}
	n.RemoveInfo(ClosureInfoKind)
	if n.Info(ClosureInfoKind) != nil {
		t.Fatal("ClosureInfo should have been removed")
	}
}

func TestBlockIndentSentinels(t *testing.T) {
	b := NewBlock(NewInteger(1, NoPos), Indent, Unindent, NoPos)
	if !b.IsIndentBlock() {
		t.Fatal("block with INDENT/UNINDENT delimiters should report IsIndentBlock")
	}
	p := NewBlock(NewInteger(1, NoPos), "(", ")", NoPos)
	if p.IsIndentBlock() {
		t.Fatal("parenthesized block should not report IsIndentBlock")
	}
}
