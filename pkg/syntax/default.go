package syntax

import "github.com/c3d/elfe/pkg/tree"

// Default returns the built-in XL syntax table, equivalent to shipping an
// xl.syntax file baked into the binary: arithmetic and comparison
// operators, the usual comment/text/block delimiters, and the indentation
// pseudo-symbols the scanner emits as INDENT/UNINDENT.
func Default() *Table {
	t := New("xl")

	t.StatementPriority = 100
	t.FunctionPriority = 200
	t.DefaultPriority = 0

	infixes := []struct {
		name string
		prio int
	}{
		{"is", 9}, {"as", 200},
		{",", 10}, {";", 5},
		{"\n", 5},
		{":=", 110}, {"+=", 110}, {"-=", 110}, {"*=", 110}, {"/=", 110},
		{"or", 130}, {"and", 140}, {"xor", 140}, {"not", 150},
		{"=", 160}, {"<>", 160}, {"<", 160}, {">", 160}, {"<=", 160}, {">=", 160},
		{"+", 170}, {"-", 170},
		{"*", 180}, {"/", 180}, {"mod", 180}, {"rem", 180},
		{"^", 190},
		{".", 400},
		{"when", 120}, {":", 210},
	}
	for _, e := range infixes {
		t.DeclareInfix(e.name, e.prio)
	}

	prefixes := []struct {
		name string
		prio int
	}{
		{"-", 390}, {"+", 390}, {"not", 150}, {"data", 100}, {"extern", 100},
	}
	for _, e := range prefixes {
		t.DeclarePrefix(e.name, e.prio)
	}

	t.CommentDelimiter("//", "\n")
	t.CommentDelimiter("/*", "*/")

	t.TextDelimiter("\"", "\"")
	t.TextDelimiter("'", "'")
	t.TextDelimiter("<<", ">>")

	t.BlockDelimiter("(", ")", 0)
	t.BlockDelimiter("[", "]", 0)
	t.BlockDelimiter("{", "}", 0)
	t.BlockDelimiter(tree.Indent, tree.Unindent, 0)

	return t
}
