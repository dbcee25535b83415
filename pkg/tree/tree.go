// Package tree implements the ELFE universal tree algebra: the five node
// kinds every program and every value is made of, plus source positions and
// the per-node info chain.
//
// Design: a closed sum type expressed as an interface with a Kind() marker,
// the same pattern the teacher uses for its IR (pkg/ir) and AST (pkg/frontend)
// node hierarchies. Node identity is pointer identity, never structural
// equality — the info chain and the evaluator's caches key on it.
package tree

// Kind identifies which of the five tree variants a Node is.
type Kind int

const (
	IntegerKind Kind = iota
	RealKind
	TextKind
	NameKind
	BlockKind
	PrefixKind
	PostfixKind
	InfixKind
)

func (k Kind) String() string {
	switch k {
	case IntegerKind:
		return "integer"
	case RealKind:
		return "real"
	case TextKind:
		return "text"
	case NameKind:
		return "name"
	case BlockKind:
		return "block"
	case PrefixKind:
		return "prefix"
	case PostfixKind:
		return "postfix"
	case InfixKind:
		return "infix"
	default:
		return "unknown"
	}
}

// Node is implemented by every concrete tree variant. All implementations
// use pointer receivers so that Node equality in a Go map is pointer
// identity, matching the "node identity is meaningful" invariant.
type Node interface {
	Kind() Kind
	Position() Pos
	SetPosition(Pos)

	// Info returns the first annotation of the given kind on this node, or
	// nil if none is attached.
	Info(InfoKind) Info
	// SetInfo attaches i to the node, replacing any existing annotation of
	// the same InfoKind.
	SetInfo(Info)
	// RemoveInfo detaches the annotation of the given kind, if present.
	RemoveInfo(InfoKind)

	node() // unexported: closes the Node sum type to this package's types
}

// base is embedded by every concrete node and carries the parts common to
// all five variants: source position and the info chain.
type base struct {
	pos   Pos
	infos *infoEntry
}

func (b *base) node() {}

func (b *base) Position() Pos     { return b.pos }
func (b *base) SetPosition(p Pos) { b.pos = p }

type infoEntry struct {
	kind  InfoKind
	value Info
	next  *infoEntry
}

func (b *base) Info(kind InfoKind) Info {
	for e := b.infos; e != nil; e = e.next {
		if e.kind == kind {
			return e.value
		}
	}
	return nil
}

func (b *base) SetInfo(i Info) {
	kind := i.InfoKind()
	for e := b.infos; e != nil; e = e.next {
		if e.kind == kind {
			e.value = i
			return
		}
	}
	b.infos = &infoEntry{kind: kind, value: i, next: b.infos}
}

func (b *base) RemoveInfo(kind InfoKind) {
	var prev *infoEntry
	for e := b.infos; e != nil; e = e.next {
		if e.kind == kind {
			if prev == nil {
				b.infos = e.next
			} else {
				prev.next = e.next
			}
			return
		}
		prev = e
	}
}

// Integer is a literal i64.
type Integer struct {
	base
	Value int64
}

func NewInteger(v int64, pos Pos) *Integer { return &Integer{base{pos: pos}, v} }
func (*Integer) Kind() Kind                { return IntegerKind }

// Real is a literal f64.
type Real struct {
	base
	Value float64
}

func NewReal(v float64, pos Pos) *Real { return &Real{base{pos: pos}, v} }
func (*Real) Kind() Kind               { return RealKind }

// Text is a quoted literal; Opening/Closing preserve the original
// quoting/bracketing so the tree can be rendered back faithfully.
type Text struct {
	base
	Value, Opening, Closing string
}

func NewText(v, opening, closing string, pos Pos) *Text {
	return &Text{base{pos: pos}, v, opening, closing}
}
func (*Text) Kind() Kind { return TextKind }

// NewQuotedText builds a Text using the standard double-quote delimiters.
func NewQuotedText(v string, pos Pos) *Text { return NewText(v, "\"", "\"", pos) }

// Name is either an identifier or an operator symbol — the scanner and
// parser never distinguish the two at the tree level.
type Name struct {
	base
	Value string
}

func NewName(v string, pos Pos) *Name { return &Name{base{pos: pos}, v} }
func (*Name) Kind() Kind              { return NameKind }

// Block is a parenthesized/bracketed/indentation-delimited sub-expression.
// Opening/Closing are INDENT/UNINDENT for indentation blocks.
type Block struct {
	base
	Child            Node
	Opening, Closing string
}

func NewBlock(child Node, opening, closing string, pos Pos) *Block {
	return &Block{base{pos: pos}, child, opening, closing}
}
func (*Block) Kind() Kind { return BlockKind }

const (
	Indent   = "INDENT"
	Unindent = "UNINDENT"
)

// IsIndentBlock reports whether b is an indentation block rather than an
// explicit bracket pair.
func (b *Block) IsIndentBlock() bool { return b.Opening == Indent && b.Closing == Unindent }

// Prefix is `left right`, e.g. unary minus or a function-call head.
type Prefix struct {
	base
	Left, Right Node
}

func NewPrefix(left, right Node, pos Pos) *Prefix { return &Prefix{base{pos: pos}, left, right} }
func (*Prefix) Kind() Kind                        { return PrefixKind }

// Postfix is `left right`, e.g. `3%` or `N!`.
type Postfix struct {
	base
	Left, Right Node
}

func NewPostfix(left, right Node, pos Pos) *Postfix { return &Postfix{base{pos: pos}, left, right} }
func (*Postfix) Kind() Kind                         { return PostfixKind }

// Infix is `left name right`, e.g. `a+b` or a rewrite rule `Pattern is Body`.
type Infix struct {
	base
	Name        string
	Left, Right Node
}

func NewInfix(name string, left, right Node, pos Pos) *Infix {
	return &Infix{base{pos: pos}, name, left, right}
}
func (*Infix) Kind() Kind { return InfixKind }

// Type assertions, mirroring the original's Tree::AsXxx() helpers.

func AsInteger(n Node) (*Integer, bool) { v, ok := n.(*Integer); return v, ok }
func AsReal(n Node) (*Real, bool)       { v, ok := n.(*Real); return v, ok }
func AsText(n Node) (*Text, bool)       { v, ok := n.(*Text); return v, ok }
func AsName(n Node) (*Name, bool)       { v, ok := n.(*Name); return v, ok }
func AsBlock(n Node) (*Block, bool)     { v, ok := n.(*Block); return v, ok }
func AsPrefix(n Node) (*Prefix, bool)   { v, ok := n.(*Prefix); return v, ok }
func AsPostfix(n Node) (*Postfix, bool) { v, ok := n.(*Postfix); return v, ok }
func AsInfix(n Node) (*Infix, bool)     { v, ok := n.(*Infix); return v, ok }

// IsConstant reports whether n is a leaf literal (Integer, Real, or Text).
func IsConstant(n Node) bool {
	switch n.Kind() {
	case IntegerKind, RealKind, TextKind:
		return true
	default:
		return false
	}
}
