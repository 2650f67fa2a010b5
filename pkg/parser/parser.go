// Package parser implements the Cypher grammar: recursive descent with
// operator-precedence climbing for expressions, and panic-mode recovery
// on a production failure.
package parser

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
	"github.com/RedisGraph/libcypher-parser/pkg/utils"
)

// DefaultContextWidth is how much surrounding source a ParseError's
// snippet carries unless overridden (spec §3: "≈80 characters").
const DefaultContextWidth = 80

// ParseError is a single reported error: where, what, and enough context
// for a linter to draw a caret under the offending position.
type ParseError struct {
	Position       input.Position
	Message        string
	Snippet        string
	SnippetOffset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

// Parser consumes tokens from a lexer and builds AST nodes via a shared
// Builder, collecting errors and performing panic-mode recovery without
// ever panicking — "panic-mode" names the recovery strategy, not Go
// panic/recover.
type Parser struct {
	lex          *token.Lexer
	builder      *ast.Builder
	buf          []token.Token
	errors       []*ParseError
	contextWidth int

	// suppressing is true while skipping tokens during recovery; errors
	// raised in that window (beyond the first that triggered recovery)
	// are discarded to avoid cascades (spec §4.E "error suppression").
	suppressing bool
}

// New creates a Parser reading from lex and building nodes with builder.
func New(lex *token.Lexer, builder *ast.Builder) *Parser {
	return &Parser{lex: lex, builder: builder, contextWidth: DefaultContextWidth}
}

// Errors returns every error recorded so far, in the order they occurred.
func (p *Parser) Errors() []*ParseError { return p.errors }

// SetContextWidth overrides how much surrounding source a ParseError's
// snippet carries; width <= 0 is ignored.
func (p *Parser) SetContextWidth(width int) {
	if width > 0 {
		p.contextWidth = width
	}
}

// ----------------------------------------------------------------------------
// Token stream: a small pushback queue over the lexer, skipping (and
// reporting) lex errors transparently so grammar productions only ever
// see well-formed tokens.

func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		tok, err := p.lex.Next()
		if err != nil {
			if lexErr, ok := err.(*token.LexError); ok {
				p.reportAt(lexErr.Range.Start, lexErr.Message)
			} else {
				p.reportAt(p.lex.Buffer().Position(), err.Error())
			}
			continue
		}
		p.buf = append(p.buf, tok)
	}
}

// peek returns the next token without consuming it.
func (p *Parser) peek() token.Token {
	p.fill(1)
	return p.buf[0]
}

// peekAt returns the token n positions ahead (0 == peek()) without
// consuming anything.
func (p *Parser) peekAt(n int) token.Token {
	p.fill(n + 1)
	return p.buf[n]
}

// advance consumes and returns the next token.
func (p *Parser) advance() token.Token {
	p.fill(1)
	t := p.buf[0]
	p.buf = p.buf[1:]
	return t
}

// at reports whether the next token is a keyword/symbol with the given
// text (case already canonicalized by the lexer for keywords).
func (p *Parser) at(kind token.Kind, text string) bool {
	t := p.peek()
	return t.Kind == kind && t.Text == text
}

func (p *Parser) atKeyword(word string) bool { return p.at(token.Keyword, word) }
func (p *Parser) atSymbol(sym string) bool   { return p.at(token.Symbol, sym) }

// accept consumes and returns true if the next token matches; otherwise
// leaves the stream untouched and returns false.
func (p *Parser) accept(kind token.Kind, text string) bool {
	if p.at(kind, text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) acceptKeyword(word string) bool { return p.accept(token.Keyword, word) }
func (p *Parser) acceptSymbol(sym string) bool    { return p.accept(token.Symbol, sym) }

// expect consumes the next token if it matches, otherwise records an
// error at its position and returns ok=false without consuming it (the
// caller is expected to trigger recovery).
func (p *Parser) expect(kind token.Kind, text string) (token.Token, bool) {
	t := p.peek()
	if t.Kind == kind && t.Text == text {
		return p.advance(), true
	}
	p.reportAt(t.Range.Start, fmt.Sprintf("expected %q but found %s %q", text, t.Kind, t.Text))
	return t, false
}

func (p *Parser) expectKeyword(word string) bool {
	_, ok := p.expect(token.Keyword, word)
	return ok
}

func (p *Parser) expectSymbol(sym string) bool {
	_, ok := p.expect(token.Symbol, sym)
	return ok
}

// ----------------------------------------------------------------------------
// Error reporting and panic-mode recovery

func (p *Parser) reportAt(pos input.Position, message string) {
	if p.suppressing {
		return
	}
	snippet, offset := p.lex.Buffer().ContextSnippet(pos, p.contextWidth)
	p.errors = append(p.errors, &ParseError{
		Position:      pos,
		Message:       message,
		Snippet:       snippet,
		SnippetOffset: offset,
	})
}

// clauseKeywords are the top-level clause keywords that bound a recovery
// skip — reaching one means "stop skipping, the next clause can still be
// parsed cleanly".
var clauseKeywords = map[string]bool{
	"MATCH": true, "OPTIONAL": true, "CREATE": true, "MERGE": true,
	"DELETE": true, "DETACH": true, "SET": true, "REMOVE": true,
	"WITH": true, "RETURN": true, "UNWIND": true, "FOREACH": true,
	"LOAD": true, "START": true, "CALL": true, "UNION": true,
	"WHERE": true,
}

// closingBracket maps an opening bracket symbol to the one that closes it,
// so the recovery skip loop below can track nesting.
var closingBracket = map[string]string{"(": ")", "[": "]", "{": "}"}

// recover implements panic-mode recovery: skip tokens until a statement
// terminator, a top-level clause keyword, or EOF, then return an ERROR
// node spanning what was skipped. Errors raised while skipping (beyond
// the one that triggered this call) are suppressed.
//
// A ';' or clause keyword reached while still inside an unclosed
// "(", "[" or "{" doesn't end the skip — e.g. recovering from a broken
// predicate inside "MATCH (n WHERE n.x = )" must not stop at the WHERE
// it's already past, since that WHERE is part of the token run being
// discarded, not the next directive. open tracks the still-unclosed
// brackets seen so far in the skip.
func (p *Parser) recover(start input.Position, cause string) *ast.Node {
	p.reportAt(start, cause)

	p.suppressing = true
	last := start
	open := utils.NewBracketStack()
	for {
		t := p.peek()
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.Symbol {
			if want, ok := closingBracket[t.Text]; ok {
				open.Push(want)
			} else if open.Count() > 0 {
				if top, _ := open.Top(); top == t.Text {
					open.Pop()
				}
			}
		}
		if open.Count() == 0 {
			if t.Kind == token.Symbol && t.Text == ";" {
				break
			}
			if t.Kind == token.Keyword && clauseKeywords[t.Text] {
				break
			}
		}
		last = t.Range.End
		p.advance()
	}
	p.suppressing = false

	node, err := p.builder.NewError(cause, input.Range{Start: start, End: last})
	if err != nil {
		// Constructing the recovery node itself failed (e.g. start==end
		// and the range overlaps oddly) — fall back to a zero-width node
		// at start, which newNode always accepts since it has no children.
		node, _ = p.builder.NewError(cause, input.Range{Start: start, End: start})
	}
	return node
}

// operandOrRecover parses a binary/unary operator's right-hand operand via
// parse; if that fails, it substitutes a recovered ERROR node rooted at
// start instead of bubbling the failure past an operator the caller has
// already committed to. This is what keeps e.g. "RETURN 1 +" inside a
// RETURN clause with an ERROR operand under the '+', rather than losing
// the whole clause to the nearest enclosing recovery point.
func (p *Parser) operandOrRecover(start input.Position, parse func() (*ast.Node, error)) *ast.Node {
	nerrs := len(p.errors)
	node, err := parse()
	if err != nil {
		// The recovery below records the one error for this failure,
		// anchored at the operator, so drop what the operand recorded.
		p.errors = p.errors[:nerrs]
		return p.recover(start, err.Error())
	}
	return node
}

// parserMark is a speculative-parse checkpoint: the lookahead queue plus
// how many errors had been recorded, so a failed speculative attempt can
// be rolled back cleanly (used to disambiguate "(" into a parenthesized
// expression vs. the start of a pattern, and "[" into a pattern
// comprehension vs. a collection literal).
type parserMark struct {
	buf    []token.Token
	lex    token.Mark
	nerrs  int
}

func (p *Parser) mark() parserMark {
	return parserMark{buf: append([]token.Token(nil), p.buf...), lex: p.lex.Mark(), nerrs: len(p.errors)}
}

func (p *Parser) restore(m parserMark) {
	p.buf = m.buf
	p.lex.Restore(m.lex)
	p.errors = p.errors[:m.nerrs]
}

// AtEOF reports whether the next token is END, without consuming it.
func (p *Parser) AtEOF() bool { return p.peek().Kind == token.EOF }

// Position returns the position of the next unconsumed token, for the
// driver to know where a directive starts.
func (p *Parser) Position() input.Position { return p.peek().Range.Start }
