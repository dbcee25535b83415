// Package serialize implements the tagged binary wire format described in
// spec.md §6: one tag byte identifying a node's tree.Kind, followed by a
// kind-specific payload (an LEB128-encoded integer, an IEEE-754 double, a
// length-prefixed text, or recursive children for the four compound
// kinds). The format is self-describing and endian-neutral, so a decoder
// never needs to know what it is about to read beyond the stream itself.
//
// Grounded on spec.md §6's exact field list; since no example repo ships a
// tree-to-bytes codec that already matches this tag-byte-plus-LEB128
// layout, this uses encoding/binary's Uvarint/Varint (the standard
// library's own LEB128 implementation) and Float64bits directly rather
// than reaching for a general-purpose encoding like encoding/gob, whose
// wire format spec.md does not specify and would not reproduce.
package serialize

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/c3d/elfe/pkg/tree"
)

// tag is the one-byte discriminant written before every node, matching
// tree.Kind's ordering so decoding is a straight table dispatch.
type tag byte

const (
	tagInteger tag = iota
	tagReal
	tagText
	tagName
	tagBlock
	tagPrefix
	tagPostfix
	tagInfix
)

// Codec encodes and decodes tree.Node values using the wire format above.
// It carries no state; a single Codec value can serve concurrent callers
// since Go's io.Writer/io.Reader already serialize access to the
// underlying stream.
type Codec struct{}

// NewCodec returns a ready-to-use Codec.
func NewCodec() Codec { return Codec{} }

// Encode writes n, and recursively every child it has, to w.
func (Codec) Encode(w io.Writer, n tree.Node) error {
	return encodeNode(w, n)
}

// Decode reads one tree.Node (and, recursively, its children) from r.
func (Codec) Decode(r io.Reader) (tree.Node, error) {
	return decodeNode(r)
}

func encodeNode(w io.Writer, n tree.Node) error {
	switch v := n.(type) {
	case *tree.Integer:
		if err := writeTag(w, tagInteger); err != nil {
			return err
		}
		return writeVarint(w, v.Value)

	case *tree.Real:
		if err := writeTag(w, tagReal); err != nil {
			return err
		}
		return writeFloat(w, v.Value)

	case *tree.Text:
		if err := writeTag(w, tagText); err != nil {
			return err
		}
		if err := writeString(w, v.Value); err != nil {
			return err
		}
		if err := writeString(w, v.Opening); err != nil {
			return err
		}
		return writeString(w, v.Closing)

	case *tree.Name:
		if err := writeTag(w, tagName); err != nil {
			return err
		}
		return writeString(w, v.Value)

	case *tree.Block:
		if err := writeTag(w, tagBlock); err != nil {
			return err
		}
		if err := writeString(w, v.Opening); err != nil {
			return err
		}
		if err := writeString(w, v.Closing); err != nil {
			return err
		}
		return encodeNode(w, v.Child)

	case *tree.Prefix:
		if err := writeTag(w, tagPrefix); err != nil {
			return err
		}
		if err := encodeNode(w, v.Left); err != nil {
			return err
		}
		return encodeNode(w, v.Right)

	case *tree.Postfix:
		if err := writeTag(w, tagPostfix); err != nil {
			return err
		}
		if err := encodeNode(w, v.Left); err != nil {
			return err
		}
		return encodeNode(w, v.Right)

	case *tree.Infix:
		if err := writeTag(w, tagInfix); err != nil {
			return err
		}
		if err := writeString(w, v.Name); err != nil {
			return err
		}
		if err := encodeNode(w, v.Left); err != nil {
			return err
		}
		return encodeNode(w, v.Right)
	}
	return fmt.Errorf("serialize: unknown node type %T", n)
}

func decodeNode(r io.Reader) (tree.Node, error) {
	t, err := readTag(r)
	if err != nil {
		return nil, err
	}

	switch t {
	case tagInteger:
		v, err := readVarint(r)
		if err != nil {
			return nil, err
		}
		return tree.NewInteger(v, tree.NoPos), nil

	case tagReal:
		v, err := readFloat(r)
		if err != nil {
			return nil, err
		}
		return tree.NewReal(v, tree.NoPos), nil

	case tagText:
		value, err := readString(r)
		if err != nil {
			return nil, err
		}
		opening, err := readString(r)
		if err != nil {
			return nil, err
		}
		closing, err := readString(r)
		if err != nil {
			return nil, err
		}
		return tree.NewText(value, opening, closing, tree.NoPos), nil

	case tagName:
		value, err := readString(r)
		if err != nil {
			return nil, err
		}
		return tree.NewName(value, tree.NoPos), nil

	case tagBlock:
		opening, err := readString(r)
		if err != nil {
			return nil, err
		}
		closing, err := readString(r)
		if err != nil {
			return nil, err
		}
		child, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		return tree.NewBlock(child, opening, closing, tree.NoPos), nil

	case tagPrefix:
		left, right, err := decodePair(r)
		if err != nil {
			return nil, err
		}
		return tree.NewPrefix(left, right, tree.NoPos), nil

	case tagPostfix:
		left, right, err := decodePair(r)
		if err != nil {
			return nil, err
		}
		return tree.NewPostfix(left, right, tree.NoPos), nil

	case tagInfix:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		left, right, err := decodePair(r)
		if err != nil {
			return nil, err
		}
		return tree.NewInfix(name, left, right, tree.NoPos), nil
	}

	return nil, fmt.Errorf("serialize: unknown tag %d", t)
}

func decodePair(r io.Reader) (left, right tree.Node, err error) {
	left, err = decodeNode(r)
	if err != nil {
		return nil, nil, err
	}
	right, err = decodeNode(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func writeTag(w io.Writer, t tag) error {
	_, err := w.Write([]byte{byte(t)})
	return err
}

func readTag(r io.Reader) (tag, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return tag(buf[0]), nil
}

func writeVarint(w io.Writer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func readVarint(r io.Reader) (int64, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = singleByteReader{r}
	}
	return binary.ReadVarint(br)
}

func writeFloat(w io.Writer, v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

func readFloat(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeVarint(w, int64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readVarint(r)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("serialize: negative string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// singleByteReader adapts an io.Reader with no ReadByte method (e.g. a
// plain bytes.Buffer slice wrapped in io.LimitReader) to io.ByteReader, for
// binary.ReadVarint's sake.
type singleByteReader struct{ io.Reader }

func (s singleByteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(s, buf[:])
	return buf[0], err
}
