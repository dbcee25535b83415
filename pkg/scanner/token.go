// Package scanner turns source text into a token stream, driven entirely
// by a *syntax.Table: it knows nothing about any particular language's
// keywords, only about the generic shapes NAME, SYMBOL, INTEGER, REAL,
// STRING, LONGSTRING, and bracket/indentation structure (spec §4.1).
// Grounded on pkg/frontend's hand-written rune-by-rune Lexer (indentation
// stack, makeToken helper), generalized to consult a syntax.Table instead
// of a hard-coded keyword switch.
package scanner

// Kind enumerates the token shapes the scanner can produce.
type Kind int

const (
	EOF Kind = iota
	ERROR
	NAME
	SYMBOL
	INTEGER
	REAL
	STRING
	QUOTE
	LONGSTRING
	NEWLINE
	INDENT
	UNINDENT
	PAROPEN
	PARCLOSE
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case ERROR:
		return "ERROR"
	case NAME:
		return "NAME"
	case SYMBOL:
		return "SYMBOL"
	case INTEGER:
		return "INTEGER"
	case REAL:
		return "REAL"
	case STRING:
		return "STRING"
	case QUOTE:
		return "QUOTE"
	case LONGSTRING:
		return "LONGSTRING"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case UNINDENT:
		return "UNINDENT"
	case PAROPEN:
		return "PAROPEN"
	case PARCLOSE:
		return "PARCLOSE"
	default:
		return "?"
	}
}

// Token is one lexical unit. IntValue/RealValue are only meaningful when
// Kind is INTEGER/REAL respectively; Text carries the literal spelling
// (unescaped, for STRING/LONGSTRING) in every other case.
type Token struct {
	Kind  Kind
	Text  string
	Pos   int32
	Line  int
	IntValue  int64
	RealValue float64

	// SpaceBefore/SpaceAfter record whether whitespace separated this
	// token from its neighbours, used by the parser to disambiguate
	// infix from prefix/postfix (spec §4.3 step 2).
	SpaceBefore bool
	SpaceAfter  bool

	// Opening/Closing carry the matched delimiter text for PAROPEN and
	// PARCLOSE tokens (e.g. "(" / ")", or the syntax table's INDENT /
	// UNINDENT sentinels).
	Opening string
	Closing string

	// Comments holds the bodies of any comments skipped since the
	// previous token was returned, for the parser to attach as
	// tree.CommentsInfo.
	Comments []string
}
