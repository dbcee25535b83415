package scanner

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/syntax"
	"github.com/c3d/elfe/pkg/tree"
)

// Scanner reads runes from a single source file and produces Tokens one at
// a time via Next. It owns no parsing logic: bracket and indentation
// *structure* (PAROPEN/PARCLOSE/INDENT/UNINDENT) is reported as tokens, but
// turning that structure into a tree.Block is the parser's job.
type Scanner struct {
	source []rune
	pos    int
	line   int
	col    int

	syntax    *syntax.Table
	positions *tree.Positions
	sink      *errs.Sink

	indents    []int   // column stack for indentation tracking
	parenStack []int   // depths at which indentation tracking is suspended
	pending    []Token // queued INDENT/UNINDENT tokens not yet returned
	comments   []string

	atLineStart bool
}

// New creates a Scanner over src, recording line starts into positions and
// reporting lexical errors into sink.
func New(src string, table *syntax.Table, positions *tree.Positions, sink *errs.Sink) *Scanner {
	return &Scanner{
		source:      []rune(src),
		line:        1,
		col:         1,
		syntax:      table,
		positions:   positions,
		sink:        sink,
		indents:     []int{1},
		atLineStart: true,
	}
}

func (s *Scanner) isAtEnd() bool { return s.pos >= len(s.source) }

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) peekAt(off int) rune {
	if s.pos+off >= len(s.source) {
		return 0
	}
	return s.source[s.pos+off]
}

func (s *Scanner) advance() rune {
	c := s.source[s.pos]
	s.pos++
	if c == '\n' {
		s.positions.NewLine(s.pos)
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *Scanner) bracketSuspended() bool { return len(s.parenStack) > 0 }

// Next returns the next token in the stream, or an EOF-kind token once the
// source is exhausted.
func (s *Scanner) Next() Token {
	if len(s.pending) > 0 {
		tok := s.pending[0]
		s.pending = s.pending[1:]
		return tok
	}

	spaceBefore := s.skipSpacesAndComments()

	if s.atLineStart && !s.bracketSuspended() {
		if tok, emitted := s.handleIndentation(); emitted {
			tok.SpaceBefore = spaceBefore
			return tok
		}
	}
	s.atLineStart = false

	if s.isAtEnd() {
		for len(s.indents) > 1 {
			s.indents = s.indents[:len(s.indents)-1]
			s.pending = append(s.pending, Token{Kind: UNINDENT, Pos: int32(s.pos), Line: s.line})
		}
		if len(s.pending) > 0 {
			tok := s.pending[0]
			s.pending = s.pending[1:]
			return tok
		}
		return Token{Kind: EOF, Pos: int32(s.pos), Line: s.line}
	}

	startPos := int32(s.pos)
	c := s.peek()

	var tok Token
	switch {
	case c == '\n':
		s.advance()
		s.atLineStart = true
		if s.bracketSuspended() {
			return s.Next() // newlines are whitespace inside an explicit bracket pair
		}
		tok = Token{Kind: NEWLINE, Text: "\n", Pos: startPos, Line: s.line - 1}
	case unicode.IsDigit(c):
		tok = s.number(startPos)
	case unicode.IsLetter(c) || c == '_':
		tok = s.name(startPos)
	default:
		if open, closeText, ok := s.matchDelimiter(s.syntax.TextDelimiters()); ok {
			tok = s.text(startPos, open, closeText)
		} else if open, closeText, ok := s.matchDelimiter(s.syntax.BlockDelimiters()); ok {
			tok = s.bracket(startPos, open, closeText)
		} else if closingSym, openingSym, ok := s.matchDelimiter(s.syntax.ClosingDelimiters()); ok {
			tok = s.closeBracket(startPos, openingSym, closingSym)
		} else {
			tok = s.symbol(startPos)
		}
	}

	tok.SpaceBefore = spaceBefore
	tok.SpaceAfter = s.peek() == ' ' || s.peek() == '\t' || s.peek() == '\n' || s.isAtEnd()
	if len(s.comments) > 0 && carriesComments(tok.Kind) {
		tok.Comments = s.comments
		s.comments = nil
	}
	return tok
}

// carriesComments reports whether a token of this kind becomes a tree leaf
// the parser can attach CommentsInfo to. Structural tokens (NEWLINE,
// INDENT/UNINDENT, brackets, EOF) pass comments through untouched so they
// land on the next real token instead of being silently dropped.
func carriesComments(k Kind) bool {
	switch k {
	case INTEGER, REAL, STRING, QUOTE, LONGSTRING, NAME, SYMBOL, PAROPEN:
		return true
	default:
		return false
	}
}

// skipSpacesAndComments consumes blanks, tabs, and any comment runs,
// returning whether anything at all was skipped.
func (s *Scanner) skipSpacesAndComments() bool {
	skipped := false
	for !s.isAtEnd() {
		c := s.peek()
		if (c == ' ' || c == '\t') && !s.atLineStart {
			s.advance()
			skipped = true
			continue
		}
		if open, closeText, ok := s.matchDelimiter(s.syntax.CommentDelimiters()); ok {
			s.skipComment(open, closeText)
			skipped = true
			continue
		}
		break
	}
	return skipped
}

func (s *Scanner) skipComment(open, closeText string) {
	for range open {
		s.advance()
	}
	start := s.pos
	if closeText == "\n" {
		for !s.isAtEnd() && s.peek() != '\n' {
			s.advance()
		}
		s.comments = append(s.comments, string(s.source[start:s.pos]))
		return
	}
	for !s.isAtEnd() && !s.lookingAt(closeText) {
		s.advance()
	}
	body := string(s.source[start:s.pos])
	for range closeText {
		if !s.isAtEnd() {
			s.advance()
		}
	}
	s.comments = append(s.comments, body)
}

// handleIndentation inspects the column of the first non-blank character on
// a new line and emits INDENT/UNINDENT tokens against the indent stack,
// following original_source's column-comparison rule (spec §4.1).
func (s *Scanner) handleIndentation() (Token, bool) {
	for s.peek() == ' ' || s.peek() == '\t' {
		s.advance()
	}
	if s.isAtEnd() || s.peek() == '\n' {
		return Token{}, false
	}
	if open, closeText, ok := s.matchDelimiter(s.syntax.CommentDelimiters()); ok {
		s.skipComment(open, closeText)
		s.atLineStart = true
		return s.Next(), true
	}

	column := s.col
	current := s.indents[len(s.indents)-1]
	s.atLineStart = false

	switch {
	case column > current:
		s.indents = append(s.indents, column)
		return Token{Kind: INDENT, Pos: int32(s.pos), Line: s.line, Opening: tree.Indent}, true
	case column < current:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > column {
			s.indents = s.indents[:len(s.indents)-1]
			s.pending = append(s.pending, Token{Kind: UNINDENT, Pos: int32(s.pos), Line: s.line, Opening: tree.Unindent})
		}
		tok := s.pending[0]
		s.pending = s.pending[1:]
		return tok, true
	default:
		return Token{}, false
	}
}

func (s *Scanner) name(startPos int32) Token {
	for unicode.IsLetter(s.peek()) || unicode.IsDigit(s.peek()) || s.peek() == '_' {
		s.advance()
	}
	text := string(s.source[startPos:s.pos])
	return Token{Kind: NAME, Text: text, Pos: startPos, Line: s.line}
}

// symbol performs maximal-munch matching against the syntax table's known
// token/prefix sets: keep extending the run of punctuation while the
// accumulated text is still a known prefix of some declared operator.
func (s *Scanner) symbol(startPos int32) Token {
	start := s.pos
	s.advance()
	for !s.isAtEnd() {
		candidate := string(s.source[start:s.pos]) + string(s.peek())
		if !s.syntax.KnownPrefix(candidate) && !s.syntax.KnownToken(candidate) {
			break
		}
		s.advance()
	}
	text := string(s.source[start:s.pos])
	return Token{Kind: SYMBOL, Text: text, Pos: startPos, Line: s.line}
}

func (s *Scanner) text(startPos int32, open, closeText string) Token {
	for range open {
		s.advance()
	}
	var b strings.Builder
	single := len(open) == 1 && open == closeText
	for !s.isAtEnd() {
		if s.lookingAt(closeText) {
			if single && s.peekAt(len(closeText)) == rune(closeText[0]) {
				for range closeText {
					s.advance()
				}
				b.WriteString(closeText)
				s.advance()
				continue
			}
			for range closeText {
				s.advance()
			}
			kind := STRING
			if len(open) > 1 {
				kind = LONGSTRING
			}
			return Token{Kind: kind, Text: b.String(), Pos: startPos, Line: s.line, Opening: open, Closing: closeText}
		}
		b.WriteRune(s.advance())
	}
	s.sink.Errorf(errs.Lex, tree.Pos(startPos), "unterminated text literal starting with %q", open)
	return Token{Kind: ERROR, Text: b.String(), Pos: startPos, Line: s.line}
}

func (s *Scanner) bracket(startPos int32, open, closeText string) Token {
	for range open {
		s.advance()
	}
	if open == tree.Indent || open == tree.Unindent {
		// Indentation pseudo-delimiters are only ever synthesized by
		// handleIndentation, never scanned from literal source text.
		return Token{Kind: SYMBOL, Text: open, Pos: startPos, Line: s.line}
	}
	s.parenStack = append(s.parenStack, len(s.indents))
	return Token{Kind: PAROPEN, Text: open, Pos: startPos, Line: s.line, Opening: open, Closing: closeText}
}

// closeBracket scans a closing delimiter and resumes indentation tracking
// if it matched the most recently opened explicit bracket.
func (s *Scanner) closeBracket(startPos int32, open, closeText string) Token {
	for range closeText {
		s.advance()
	}
	if len(s.parenStack) > 0 {
		s.parenStack = s.parenStack[:len(s.parenStack)-1]
	}
	return Token{Kind: PARCLOSE, Text: closeText, Pos: startPos, Line: s.line, Opening: open, Closing: closeText}
}

func (s *Scanner) lookingAt(text string) bool {
	for i, r := range text {
		if s.peekAt(i) != r {
			return false
		}
	}
	return true
}

// matchDelimiter returns the longest key of delims that matches the source
// at the current position.
func (s *Scanner) matchDelimiter(delims map[string]string) (open, closeText string, ok bool) {
	bestLen := -1
	for k, v := range delims {
		if k == "" || v == "" {
			continue
		}
		if s.lookingAt(k) && len(k) > bestLen {
			open, closeText, ok = k, v, true
			bestLen = len(k)
		}
	}
	return
}

// number scans an INTEGER or REAL literal: digits may contain '_'
// separators, an optional '#' introduces a base prefix (e.g. 16#FF),
// and a fractional part or exponent promotes the literal to REAL
// (spec §4.1).
func (s *Scanner) number(startPos int32) Token {
	start := s.pos
	digits := s.scanDigitRun()

	if s.peek() == '#' {
		baseText := strings.ReplaceAll(string(s.source[start:s.pos]), "_", "")
		base, err := strconv.ParseInt(baseText, 10, 64)
		if err != nil || base < 2 || base > 36 {
			base = 16
		}
		s.advance() // consume '#'
		digitsStart := s.pos
		for isBaseDigit(s.peek(), int(base)) || s.peek() == '_' {
			s.advance()
		}
		text := strings.ReplaceAll(string(s.source[digitsStart:s.pos]), "_", "")
		val, _ := strconv.ParseInt(text, int(base), 64)
		return Token{Kind: INTEGER, Text: string(s.source[startPos:s.pos]), IntValue: val, Pos: startPos, Line: s.line}
	}

	isReal := false
	if s.peek() == '.' && unicode.IsDigit(s.peekAt(1)) {
		isReal = true
		s.advance()
		s.scanDigitRun()
	}
	if s.peek() == 'e' || s.peek() == 'E' {
		save := s.pos
		s.advance()
		if s.peek() == '+' || s.peek() == '-' {
			s.advance()
		}
		if unicode.IsDigit(s.peek()) {
			isReal = true
			s.scanDigitRun()
		} else {
			s.pos = save
		}
	}

	raw := strings.ReplaceAll(string(s.source[startPos:s.pos]), "_", "")
	if isReal {
		val, _ := strconv.ParseFloat(raw, 64)
		return Token{Kind: REAL, Text: string(s.source[startPos:s.pos]), RealValue: val, Pos: startPos, Line: s.line}
	}
	val, _ := strconv.ParseInt(raw, 10, 64)
	_ = digits
	return Token{Kind: INTEGER, Text: string(s.source[startPos:s.pos]), IntValue: val, Pos: startPos, Line: s.line}
}

func (s *Scanner) scanDigitRun() string {
	start := s.pos
	for unicode.IsDigit(s.peek()) || s.peek() == '_' {
		s.advance()
	}
	return string(s.source[start:s.pos])
}

func isBaseDigit(r rune, base int) bool {
	var v int
	switch {
	case r >= '0' && r <= '9':
		v = int(r - '0')
	case r >= 'A' && r <= 'Z':
		v = int(r-'A') + 10
	case r >= 'a' && r <= 'z':
		v = int(r-'a') + 10
	default:
		return false
	}
	return v < base
}
