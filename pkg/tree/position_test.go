package tree

import "testing"

func TestPositionsLocate(t *testing.T) {
	src := "abc\ndef\nghi"
	p := NewPositions("test.xl")
	for i, c := range src {
		if c == '\n' {
			p.NewLine(i + 1)
		}
	}

	tests := []struct {
		pos  Pos
		line int
		col  int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{9, 3, 2},
	}
	for _, tt := range tests {
		loc := p.Locate(tt.pos)
		if loc.Line != tt.line || loc.Column != tt.col {
			t.Errorf("Locate(%d) = %d:%d, want %d:%d", tt.pos, loc.Line, loc.Column, tt.line, tt.col)
		}
	}
}
