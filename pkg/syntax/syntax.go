// Package syntax describes the operator table the scanner and parser are
// driven by: per-symbol prefix/infix/postfix priorities, comment/text/block
// delimiters, and the maximal-munch prefix set a scanner needs to recognize
// multi-character symbols. Grounded on original_source/src/syntax.cpp's
// Syntax class; generalized here so the scanner never hard-codes a single
// language's keyword set (spec §4.1/§4.2).
package syntax

// Table is the syntax-dependent part of parsing: every priority, delimiter,
// and child-syntax mapping the scanner and parser consult while reading a
// source file. Distinct Table values let a single binary parse several
// XL dialects (or nested syntaxes introduced by a SYNTAX block) side by
// side.
type Table struct {
	Name string

	StatementPriority int
	FunctionPriority  int
	DefaultPriority   int

	prefixPriority  map[string]int
	infixPriority   map[string]int
	postfixPriority map[string]int

	commentDelimiters map[string]string
	textDelimiters    map[string]string
	blockDelimiters   map[string]string
	closingDelimiters map[string]string

	knownTokens   map[string]bool
	knownPrefixes map[string]bool

	subsyntaxFile map[string]string
	subsyntax     map[string]*Table
}

// New returns an empty table with XL's usual statement/function/default
// priorities, matching the defaults original_source ships in xl.syntax.
func New(name string) *Table {
	return &Table{
		Name:              name,
		StatementPriority: 100,
		FunctionPriority:  200,
		DefaultPriority:   0,
		prefixPriority:    map[string]int{},
		infixPriority:     map[string]int{},
		postfixPriority:   map[string]int{},
		commentDelimiters: map[string]string{},
		textDelimiters:    map[string]string{},
		blockDelimiters:   map[string]string{},
		closingDelimiters: map[string]string{},
		knownTokens:       map[string]bool{},
		knownPrefixes:     map[string]bool{},
		subsyntaxFile:     map[string]string{},
		subsyntax:         map[string]*Table{},
	}
}

// InfixPriority returns the priority of infix operator n, or DefaultPriority
// if n has no declared priority (or was declared with priority 0, which
// the original treats the same as undeclared).
func (t *Table) InfixPriority(n string) int {
	if p, ok := t.infixPriority[n]; ok && p != 0 {
		return p
	}
	return t.DefaultPriority
}

// SetInfixPriority declares n as an infix operator at priority p. A zero
// priority is a no-op, matching Syntax::SetInfixPriority.
func (t *Table) SetInfixPriority(n string, p int) {
	if p != 0 {
		t.infixPriority[n] = p
	}
}

// PrefixPriority returns the priority of prefix operator n, or
// DefaultPriority.
func (t *Table) PrefixPriority(n string) int {
	if p, ok := t.prefixPriority[n]; ok && p != 0 {
		return p
	}
	return t.DefaultPriority
}

// SetPrefixPriority declares n as a prefix operator at priority p.
func (t *Table) SetPrefixPriority(n string, p int) {
	if p != 0 {
		t.prefixPriority[n] = p
	}
}

// PostfixPriority returns the priority of postfix operator n, or
// DefaultPriority.
func (t *Table) PostfixPriority(n string) int {
	if p, ok := t.postfixPriority[n]; ok && p != 0 {
		return p
	}
	return t.DefaultPriority
}

// SetPostfixPriority declares n as a postfix operator at priority p.
func (t *Table) SetPostfixPriority(n string, p int) {
	if p != 0 {
		t.postfixPriority[n] = p
	}
}

// KnownToken reports whether n was ever declared as a complete prefix,
// infix, or postfix symbol.
func (t *Table) KnownToken(n string) bool { return t.knownTokens[n] }

// KnownPrefix reports whether n is a strict prefix of some known symbol,
// letting the scanner's maximal-munch loop know it should keep reading
// more runes.
func (t *Table) KnownPrefix(n string) bool { return t.knownPrefixes[n] }

// declareSymbol records n as a known token and registers every one of its
// proper prefixes as a known prefix, mirroring ReadSyntaxFile's loop over
// each tokSYMBOL it reads.
func (t *Table) declareSymbol(n string) {
	for i := 1; i < len(n); i++ {
		t.knownPrefixes[n[:i]] = true
	}
	t.knownTokens[n] = true
}

// CommentDelimiter declares that begin starts a comment running until end.
func (t *Table) CommentDelimiter(begin, end string) { t.commentDelimiters[begin] = end }

// IsComment reports whether begin opens a declared comment, returning its
// matching end delimiter.
func (t *Table) IsComment(begin string) (end string, ok bool) {
	end, ok = t.commentDelimiters[begin]
	return
}

// TextDelimiter declares that begin starts a long-text literal running
// until end.
func (t *Table) TextDelimiter(begin, end string) { t.textDelimiters[begin] = end }

// IsTextDelimiter reports whether begin opens a declared long-text
// literal, returning its matching end delimiter.
func (t *Table) IsTextDelimiter(begin string) (end string, ok bool) {
	end, ok = t.textDelimiters[begin]
	return
}

// BlockDelimiter declares that begin opens a block closed by end, at the
// given infix priority shared by the pair (ReadSyntaxFile assigns the same
// priority to both delimiters of a BLOCK entry).
func (t *Table) BlockDelimiter(begin, end string, priority int) {
	t.blockDelimiters[begin] = end
	t.blockDelimiters[end] = ""
	t.closingDelimiters[end] = begin
	t.SetInfixPriority(begin, priority)
	t.SetInfixPriority(end, priority)
	t.declareSymbol(begin)
	t.declareSymbol(end)
}

// IsBlock reports whether begin opens a declared block, returning its
// matching close delimiter.
func (t *Table) IsBlock(begin string) (end string, ok bool) {
	end, ok = t.blockDelimiters[begin]
	return end, ok
}

// IsClosingBlock reports whether end closes some declared block, returning
// the opening delimiter it matches.
func (t *Table) IsClosingBlock(end string) (begin string, ok bool) {
	begin, ok = t.closingDelimiters[end]
	return
}

// ClosingDelimiters returns the closing→opening block delimiter map.
func (t *Table) ClosingDelimiters() map[string]string { return t.closingDelimiters }

// SubSyntax registers that begin switches scanning into child for the
// region ending at end. ReadFile does not call it, since it reads no
// SYNTAX section.
func (t *Table) SubSyntax(begin, end string, child *Table) {
	t.subsyntaxFile[begin] = child.Name
	if t.subsyntax == nil {
		t.subsyntax = map[string]*Table{}
	}
	t.subsyntax[child.Name] = child
	child.blockDelimiters[begin] = end
}

// ChildSyntax returns the child table that should take over scanning when
// begin is seen, if any was registered via SubSyntax.
func (t *Table) ChildSyntax(begin string) (*Table, bool) {
	name, ok := t.subsyntaxFile[begin]
	if !ok {
		return nil, false
	}
	child, ok := t.subsyntax[name]
	return child, ok
}

// DeclarePrefix is a convenience for callers building a table
// programmatically (tests, the default XL table): it sets the priority and
// registers the symbol as known in one call.
func (t *Table) DeclarePrefix(n string, p int) {
	t.SetPrefixPriority(n, p)
	t.declareSymbol(n)
}

// DeclareInfix is the infix analogue of DeclarePrefix.
func (t *Table) DeclareInfix(n string, p int) {
	t.SetInfixPriority(n, p)
	t.declareSymbol(n)
}

// DeclarePostfix is the postfix analogue of DeclarePrefix.
func (t *Table) DeclarePostfix(n string, p int) {
	t.SetPostfixPriority(n, p)
	t.declareSymbol(n)
}

// CommentDelimiters returns the opening→closing comment delimiter map, for
// a scanner doing longest-prefix matching against the source text.
func (t *Table) CommentDelimiters() map[string]string { return t.commentDelimiters }

// TextDelimiters returns the opening→closing long-text delimiter map.
func (t *Table) TextDelimiters() map[string]string { return t.textDelimiters }

// BlockDelimiters returns the opening→closing block delimiter map,
// including the indentation pseudo-delimiters.
func (t *Table) BlockDelimiters() map[string]string { return t.blockDelimiters }
