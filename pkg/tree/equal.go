package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Equal reports whether a and b have the same structure, ignoring position
// and info-chain annotations. Used by the round-trip property tests and by
// the binder's literal-equality checks.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Real:
		return av.Value == b.(*Real).Value
	case *Text:
		bv := b.(*Text)
		return av.Value == bv.Value && av.Opening == bv.Opening && av.Closing == bv.Closing
	case *Name:
		return av.Value == b.(*Name).Value
	case *Block:
		bv := b.(*Block)
		return av.Opening == bv.Opening && av.Closing == bv.Closing && Equal(av.Child, bv.Child)
	case *Prefix:
		bv := b.(*Prefix)
		return Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *Postfix:
		bv := b.(*Postfix)
		return Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *Infix:
		bv := b.(*Infix)
		return av.Name == bv.Name && Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	default:
		return false
	}
}

// Sprint renders a compact, syntax-agnostic textual form of n, good enough
// for diagnostics and error messages. The real renderer (syntax-driven
// pretty-printer) is out of scope for the core; this is intentionally not
// it.
func Sprint(n Node) string {
	var b strings.Builder
	sprint(&b, n)
	return b.String()
}

func sprint(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	switch v := n.(type) {
	case *Integer:
		b.WriteString(strconv.FormatInt(v.Value, 10))
	case *Real:
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *Text:
		b.WriteString(v.Opening)
		b.WriteString(v.Value)
		b.WriteString(v.Closing)
	case *Name:
		b.WriteString(v.Value)
	case *Block:
		b.WriteString(v.Opening)
		sprint(b, v.Child)
		b.WriteString(v.Closing)
	case *Prefix:
		sprint(b, v.Left)
		b.WriteByte(' ')
		sprint(b, v.Right)
	case *Postfix:
		sprint(b, v.Left)
		b.WriteByte(' ')
		sprint(b, v.Right)
	case *Infix:
		sprint(b, v.Left)
		b.WriteByte(' ')
		b.WriteString(v.Name)
		b.WriteByte(' ')
		sprint(b, v.Right)
	default:
		fmt.Fprintf(b, "<%T>", v)
	}
}
