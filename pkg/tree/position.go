package tree

// Pos is an offset into a Positions table; it carries no meaning on its own.
type Pos int32

// NoPos marks a node with no known source location (e.g. synthesized by a
// rewrite rule's body at evaluation time).
const NoPos Pos = -1

// Location is the human-readable place a Pos maps back to.
type Location struct {
	File   string
	Line   int
	Column int
}

// Positions accumulates one entry per scanned character so that any Pos can
// be mapped back to a file/line/column, mirroring original_source/src's
// Positions class referenced by errors.h and context.h.
type Positions struct {
	file   string
	starts []int // byte offset where each line starts, 0-indexed lines
}

// NewPositions begins a fresh table for a single source file.
func NewPositions(file string) *Positions {
	return &Positions{file: file, starts: []int{0}}
}

// OpenFile starts tracking a new file within the same table, returning the
// base offset subsequent Pos values for that file should be added to. Used
// when a child syntax or an imported module contributes additional source.
func (p *Positions) OpenFile(file string) int {
	p.file = file
	return p.starts[len(p.starts)-1]
}

// NewLine records that a line begins at the given absolute offset. The
// scanner calls this every time it consumes a '\n'.
func (p *Positions) NewLine(offset int) {
	p.starts = append(p.starts, offset)
}

// Locate maps pos back to a Location. Offsets past the end of the table
// clamp to the last known line.
func (p *Positions) Locate(pos Pos) Location {
	offset := int(pos)
	line := 0
	for i, start := range p.starts {
		if start > offset {
			break
		}
		line = i
	}
	col := offset - p.starts[line] + 1
	return Location{File: p.file, Line: line + 1, Column: col}
}
