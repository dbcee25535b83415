package tree

// InfoKind tags an annotation in a node's info chain so it can be queried
// and replaced without a dedicated struct field per kind.
type InfoKind int

const (
	CommentsInfoKind InfoKind = iota
	ClosureInfoKind
	TypeInfoKind
	CompiledInfoKind
)

// Info is implemented by every annotation that can be attached to a Node's
// info chain.
type Info interface {
	InfoKind() InfoKind
}

// CommentsInfo carries the comments lexically adjacent to a node: Before is
// leading comments attached to the next token, After is trailing comments
// attached to the previous one.
type CommentsInfo struct {
	Before []string
	After  []string
}

func (*CommentsInfo) InfoKind() InfoKind { return CommentsInfoKind }

// ClosureInfo marks a Prefix(scope, value) node as denoting "evaluate value
// in scope" rather than an ordinary prefix application. Scope is opaque
// here (typically a *context.Scope) so this package does not need to
// depend on pkg/context.
type ClosureInfo struct {
	Scope any
}

func (*ClosureInfo) InfoKind() InfoKind { return ClosureInfoKind }

// TypeInfo caches the type inferred for a node, so repeated evaluation does
// not re-run unification.
type TypeInfo struct {
	Type Node
}

func (*TypeInfo) InfoKind() InfoKind { return TypeInfoKind }

// CompiledInfo caches whatever opaque handle a backend.Backend returned for
// this node the last time it was compiled.
type CompiledInfo struct {
	Handle any
}

func (*CompiledInfo) InfoKind() InfoKind { return CompiledInfoKind }
