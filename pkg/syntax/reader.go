package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c3d/elfe/pkg/tree"
)

// ReadFile populates t from the textual syntax-description format read
// from r, following the section grammar of original_source/src/syntax.cpp's
// Syntax::ReadSyntaxFile: an uppercase keyword starts a section (PREFIX,
// INFIX, POSTFIX, BLOCK, COMMENT, TEXT), STATEMENT/FUNCTION/DEFAULT set
// the three special priorities to the current priority, and every other
// token in a section is either an integer (the priority for what follows)
// or a symbol entry for that section. There is no SYNTAX section: that
// word is read as an ordinary entry of the current section.
// Parenthesized groups let one line span several tokens;
// unlike the original, which reuses the full language scanner to read its
// own syntax files, this is a dedicated tokenizer scoped to that one
// grammar so pkg/syntax never needs to import pkg/scanner.
func (t *Table) ReadFile(r io.Reader) error {
	toks, err := tokenizeSyntaxFile(r)
	if err != nil {
		return err
	}

	const (
		stUnknown = iota
		stPrefix
		stInfix
		stPostfix
		stComment
		stCommentDef
		stText
		stTextDef
		stBlock
		stBlockDef
	)

	state := stUnknown
	priority := 0
	entry := ""

	for _, raw := range toks {
		if n, err := strconv.Atoi(raw); err == nil {
			priority = n
			continue
		}

		txt := raw
		switch txt {
		case "NEWLINE":
			txt = "\n"
		case "INDENT":
			txt = tree.Indent
		case "UNINDENT":
			txt = tree.Unindent
		}

		switch txt {
		case "PREFIX":
			state = stPrefix
			continue
		case "INFIX":
			state = stInfix
			continue
		case "POSTFIX":
			state = stPostfix
			continue
		case "BLOCK":
			state = stBlock
			continue
		case "COMMENT":
			state = stComment
			continue
		case "TEXT":
			state = stText
			continue
		case "STATEMENT":
			t.StatementPriority = priority
			continue
		case "FUNCTION":
			t.FunctionPriority = priority
			continue
		case "DEFAULT":
			t.DefaultPriority = priority
			continue
		}

		switch state {
		case stPrefix:
			t.DeclarePrefix(txt, priority)
		case stPostfix:
			t.DeclarePostfix(txt, priority)
		case stInfix:
			t.DeclareInfix(txt, priority)
		case stComment:
			entry = txt
			state = stCommentDef
		case stCommentDef:
			t.CommentDelimiter(entry, txt)
			state = stComment
		case stText:
			entry = txt
			state = stTextDef
		case stTextDef:
			t.TextDelimiter(entry, txt)
			state = stText
		case stBlock:
			entry = txt
			state = stBlockDef
		case stBlockDef:
			t.BlockDelimiter(entry, txt, priority)
			state = stBlock
		}
	}
	return nil
}

// ReadSyntax opens the named syntax file through open and reads it into a
// new Table. Nothing in this module calls it; a SYNTAX directive in
// source text is not handled.
func ReadSyntax(name string, open func(string) (io.ReadCloser, error)) (*Table, error) {
	f, err := open(name)
	if err != nil {
		return nil, fmt.Errorf("syntax: opening %s: %w", name, err)
	}
	defer f.Close()

	t := New(name)
	if err := t.ReadFile(f); err != nil {
		return nil, fmt.Errorf("syntax: reading %s: %w", name, err)
	}
	return t, nil
}

// tokenizeSyntaxFile splits r into whitespace-separated words, treating
// `//`-to-end-of-line as a comment and double-quoted runs as single
// tokens so delimiter entries like "//" or "/*" can be spelled literally.
func tokenizeSyntaxFile(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var toks []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}

	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
				flush()
				continue
			}
			cur.WriteRune(ch)
		case ch == '"':
			flush()
			inQuote = true
		case ch == '#':
			for {
				c, _, err := br.ReadRune()
				if err != nil || c == '\n' {
					break
				}
			}
			flush()
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			flush()
		default:
			cur.WriteRune(ch)
		}
	}
	flush()
	return toks, nil
}
