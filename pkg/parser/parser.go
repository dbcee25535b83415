// Package parser implements the operator-precedence parser described in
// spec §4.3: a single pass over the token stream, a work stack of pending
// prefix/infix operators, and priority-driven flushing that decides when a
// pending operator finally gets its right-hand operand. Grounded on
// original_source/src/parser.cpp's Parser::Parse, transliterated from its
// imperative state machine rather than rewritten as recursive descent,
// because the priority-flush loop is the one place the original's
// structure really is the clearest expression of the algorithm.
package parser

import (
	"github.com/c3d/elfe/pkg/errs"
	"github.com/c3d/elfe/pkg/scanner"
	"github.com/c3d/elfe/pkg/syntax"
	"github.com/c3d/elfe/pkg/tree"
)

// prefixOp is the sentinel pending.opcode used for a pushed prefix
// operator, distinguishing it from a pushed infix/postfix operator name
// (which is the operator's literal text and can never equal this
// sentinel because real operator text never contains NUL).
const prefixOp = "\x00prefix\x00"

// pending is one entry of the operator-precedence work stack: an operator
// (or the prefixOp sentinel) together with its left-hand argument, the
// priority it was pushed at, and the source position to report if it is
// never closed off.
type pending struct {
	opcode   string
	argument tree.Node
	priority int
	pos      tree.Pos
}

// Option configures a Parser's behavior for options spec.md leaves to the
// embedding program, mirroring original_source's Options singleton fields
// relevant to parsing.
type Option struct {
	// SignedConstants folds a prefix "-" applied directly to an integer
	// or real literal into a negative literal instead of leaving a
	// Prefix node, matching Options::signedConstants (on by default).
	SignedConstants bool
}

// DefaultOption is the option set a plain parser.New call uses.
var DefaultOption = Option{SignedConstants: true}

// Parser turns a token stream into a tree.Node, consulting a syntax.Table
// for priorities and delimiters and reporting malformed input through an
// errs.Sink instead of failing outright (spec §7: parsing is best-effort).
type Parser struct {
	scan   *scanner.Scanner
	syntax *syntax.Table
	sink   *errs.Sink
	opt    Option
}

// New creates a Parser reading from scan.
func New(scan *scanner.Scanner, table *syntax.Table, sink *errs.Sink, opt Option) *Parser {
	return &Parser{scan: scan, syntax: table, sink: sink, opt: opt}
}

// Parse reads tokens until it reaches closing (the empty string for a
// top-level file, or a bracket's close delimiter / tree.Unindent for a
// nested block) and returns the tree built from them.
func (p *Parser) Parse(closing string) tree.Node {
	var (
		result, left, right tree.Node
		infixOp             string
		stack               []pending
	)

	defaultPriority := p.syntax.DefaultPriority
	functionPriority := p.syntax.FunctionPriority
	statementPriority := p.syntax.StatementPriority
	resultPriority := defaultPriority

	parenPriority := defaultPriority
	if closing != "" {
		parenPriority = p.syntax.InfixPriority(closing)
	}
	isExpression := closing != "" && parenPriority > statementPriority
	newStatement := !isExpression

	done := false
	for !done {
		right = nil
		prefixPriority := defaultPriority
		infixPriority := defaultPriority
		postfixPriority := defaultPriority

		tok := p.scan.Next()
		pos := tree.Pos(tok.Pos)

		switch tok.Kind {
		case scanner.EOF, scanner.ERROR:
			done = true
			if closing != "" && closing != tree.Unindent {
				p.sink.Report(errs.Parse, errs.Error, pos, "unexpected end of text, expected $1").
					Arg(tree.NewName(closing, tree.NoPos))
			}

		case scanner.INTEGER:
			right = withComments(tree.NewInteger(tok.IntValue, pos), tok.Comments)
			prefixPriority = functionPriority

		case scanner.REAL:
			right = withComments(tree.NewReal(tok.RealValue, pos), tok.Comments)
			prefixPriority = functionPriority

		case scanner.STRING, scanner.QUOTE, scanner.LONGSTRING:
			right = withComments(tree.NewText(tok.Text, tok.Opening, tok.Closing, pos), tok.Comments)
			prefixPriority = functionPriority
			if result == nil && newStatement {
				isExpression = false
			}

		case scanner.NAME, scanner.SYMBOL:
			name := tok.Text
			child, hasChildSyntax := p.syntax.ChildSyntax(name)

			switch {
			case name == closing:
				done = true

			case hasChildSyntax:
				childEnd, _ := child.IsBlock(name)
				sub := New(p.scan, child, p.sink, p.opt)
				inner := sub.Parse(childEnd)
				right = tree.NewPrefix(tree.NewName(name, pos), inner, pos)

			case result == nil:
				prefixPriority = p.syntax.PrefixPriority(name)
				right = withComments(tree.NewName(name, pos), tok.Comments)
				if prefixPriority == defaultPriority {
					prefixPriority = functionPriority
				}
				if newStatement && tok.Kind == scanner.NAME {
					isExpression = false
				}

			case left != nil:
				prefixPriority = p.syntax.PrefixPriority(name)
				right = withComments(tree.NewName(name, pos), tok.Comments)
				if prefixPriority == defaultPriority {
					prefixPriority = functionPriority
				}

			default:
				infixPriority = p.syntax.InfixPriority(name)
				prefixVsInfix := p.syntax.PrefixPriority(name)
				if infixPriority != defaultPriority &&
					(prefixVsInfix == defaultPriority || !tok.SpaceBefore || tok.SpaceAfter) {
					left = result
					infixOp = name
				} else {
					postfixPriority = p.syntax.PostfixPriority(name)
					if postfixPriority != defaultPriority {
						right = tree.NewName(name, pos)
						for len(stack) > 0 {
							prev := stack[len(stack)-1]
							if !done && prev.priority != defaultPriority && postfixPriority > (prev.priority&^1) {
								break
							}
							result = p.reduce(prev, result)
							stack = stack[:len(stack)-1]
						}
						right = withComments(tree.NewPostfix(result, right, pos), tok.Comments)
						prefixPriority = postfixPriority
						result = nil
					} else {
						right = withComments(tree.NewName(name, pos), tok.Comments)
						prefixPriority = prefixVsInfix
						if prefixPriority == defaultPriority {
							prefixPriority = functionPriority
							if newStatement && tok.Kind == scanner.NAME {
								isExpression = false
							}
						}
					}
				}
			}

		case scanner.NEWLINE:
			infixOp = "\n"
			infixPriority = p.syntax.InfixPriority("\n")
			left = result

		case scanner.PARCLOSE:
			if tok.Closing != closing {
				p.sink.Report(errs.Parse, errs.Error, pos, "mismatched parentheses: got $1, expected $2").
					Arg(tree.NewName(tok.Closing, tree.NoPos)).Arg(tree.NewName(closing, tree.NoPos))
			}
			done = true

		case scanner.UNINDENT:
			if closing != tree.Unindent {
				p.sink.Report(errs.Parse, errs.Error, pos, "mismatched indentation, expected $1").
					Arg(tree.NewName(closing, tree.NoPos))
			}
			done = true

		case scanner.INDENT, scanner.PAROPEN:
			blkOpen := tok.Opening
			blkClose := tok.Closing
			if blkClose == "" {
				var ok bool
				blkClose, ok = p.syntax.IsBlock(blkOpen)
				if !ok {
					p.sink.Report(errs.Parse, errs.Error, pos, "unknown parenthesis type: $1").
						Arg(tree.NewName(blkOpen, tree.NoPos))
				}
			}
			parenPriority = p.syntax.InfixPriority(blkOpen)
			prefixPriority = parenPriority
			infixPriority = defaultPriority

			inner := p.Parse(blkClose)
			if inner == nil {
				inner = tree.NewName("", pos)
			}
			right = withComments(tree.NewBlock(inner, blkOpen, blkClose, pos), tok.Comments)

		default:
			p.sink.Report(errs.Parse, errs.Error, pos, "unexpected token $1").
				Arg(tree.NewName(tok.Text, tree.NoPos))
		}

		switch {
		case result == nil:
			result = right
			resultPriority = prefixPriority
			if result != nil && resultPriority >= statementPriority {
				newStatement = false
			}

		case left != nil:
			if infixPriority < statementPriority {
				newStatement = true
				isExpression = false
			}
			if prefixPriority != defaultPriority {
				stack = append(stack, pending{opcode: infixOp, argument: left, priority: infixPriority, pos: pos})
				left = nil
				result = right
				resultPriority = prefixPriority
			} else {
				for len(stack) > 0 {
					prev := stack[len(stack)-1]
					if !done && prev.priority != defaultPriority && infixPriority > (prev.priority&^1) {
						break
					}
					left = p.reduce(prev, left)
					stack = stack[:len(stack)-1]
				}
				if done {
					result = left
				} else {
					stack = append(stack, pending{opcode: infixOp, argument: left, priority: infixPriority, pos: pos})
					result = nil
				}
				left = nil
			}

		case right != nil:
			if prefixPriority < statementPriority {
				newStatement = true
				isExpression = false
			}
			if prefixPriority <= resultPriority {
				for len(stack) > 0 {
					prev := stack[len(stack)-1]
					if !done && prev.priority != defaultPriority && resultPriority > (prev.priority&^1) {
						break
					}
					result = p.reduce(prev, result)
					stack = stack[:len(stack)-1]
				}
			}
			if !isExpression && resultPriority > statementPriority {
				if len(stack) == 0 || stack[len(stack)-1].priority < statementPriority {
					resultPriority = statementPriority
				}
			}
			stack = append(stack, pending{opcode: prefixOp, argument: result, priority: resultPriority, pos: pos})
			result = right
			resultPriority = prefixPriority
		}
	}

	if len(stack) > 0 {
		if result == nil {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if last.opcode != "\n" {
				result = tree.NewPostfix(last.argument, tree.NewName(last.opcode, last.pos), last.pos)
			} else {
				result = last.argument
			}
		}
		for len(stack) > 0 {
			prev := stack[len(stack)-1]
			result = p.reduce(prev, result)
			stack = stack[:len(stack)-1]
		}
	}

	return result
}

// reduce turns one pending stack entry plus its now-known right-hand
// operand into a concrete tree node, folding a signed-literal prefix when
// enabled.
func (p *Parser) reduce(prev pending, right tree.Node) tree.Node {
	if prev.opcode == prefixOp {
		return p.createPrefix(prev.argument, right, prev.pos)
	}
	return tree.NewInfix(prev.opcode, prev.argument, right, prev.pos)
}

// createPrefix special-cases a prefix "-" applied to a numeric literal,
// folding it into a negative literal when SignedConstants is enabled
// (original_source's CreatePrefix, feature #1580).
func (p *Parser) createPrefix(left, right tree.Node, pos tree.Pos) tree.Node {
	if p.opt.SignedConstants {
		if name, ok := left.(*tree.Name); ok && name.Value == "-" {
			switch v := right.(type) {
			case *tree.Integer:
				v.Value = -v.Value
				return v
			case *tree.Real:
				v.Value = -v.Value
				return v
			}
		}
	}
	return tree.NewPrefix(left, right, pos)
}

func withComments(n tree.Node, comments []string) tree.Node {
	if len(comments) > 0 {
		n.SetInfo(&tree.CommentsInfo{Before: comments})
	}
	return n
}
