package parser

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

// AtDirectiveEnd reports whether the next token ends the current
// directive: a ';' separator or END. parseCommand uses this to stop
// collecting a client command's arguments.
func (p *Parser) AtDirectiveEnd() bool {
	t := p.peek()
	return t.Kind == token.EOF || (t.Kind == token.Symbol && t.Text == ";")
}

// ParseDirective parses one top-level unit: a client command (only when
// ':' is the directive's first token — Open Question (b) preserves the
// original's "first non-whitespace token" restriction, which the
// lookahead here implements for free since comments are side-channelled
// and whitespace is already skipped by the lexer) or a statement wrapping
// a query.
func (p *Parser) ParseDirective() (*ast.Node, error) {
	start := p.peek().Range.Start
	if p.atSymbol(":") {
		cmd, err := p.parseCommand(start)
		if err != nil {
			// A command production failed outside any operator context
			// that could absorb it (unlike expression operands, which
			// recover in place) — the whole directive becomes the
			// recovered ERROR node.
			return p.recover(start, err.Error()), nil
		}
		return cmd, nil
	}
	query, err := p.parseQuery()
	if err != nil {
		return p.recover(start, err.Error()), nil
	}
	return p.builder.NewStatement(query, input.Range{Start: start, End: query.Range.End})
}

// ConsumeDirectiveSeparator consumes one ';' directive separator if
// present, reporting whether it did. The driver calls this in a loop
// before each directive so that a bare ';' (or a run of them) is
// discarded as an empty directive rather than handed to the grammar.
func (p *Parser) ConsumeDirectiveSeparator() bool {
	return p.acceptSymbol(";")
}

// AtCommandStart reports whether the upcoming directive is a client
// command (leads with ':'), without consuming anything.
func (p *Parser) AtCommandStart() bool {
	return p.atSymbol(":")
}

// RejectCommand is used by the driver when the ONLY_STATEMENTS flag
// forbids a client command: it records a syntax error at the ':' and
// recovers to the next directive boundary, returning the ERROR node that
// becomes this directive.
func (p *Parser) RejectCommand() *ast.Node {
	start := p.peek().Range.Start
	return p.recover(start, "client commands are not permitted here")
}

// parseCommand parses a client-only command, e.g. ":help" or
// ":param x => 1". Arguments are plain expressions; a command with no
// arguments (the common case) is just a name.
func (p *Parser) parseCommand(start input.Position) (*ast.Node, error) {
	p.advance() // ':'
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	cmdName, err := p.builder.NewCommandName(name.text, name.rng)
	if err != nil {
		return nil, err
	}

	end := cmdName.Range.End
	var args []*ast.Node
	for !p.AtDirectiveEnd() {
		a, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		end = a.Range.End
		if !p.acceptSymbol(",") {
			break
		}
	}
	if !p.AtDirectiveEnd() {
		t := p.peek()
		return nil, fmt.Errorf("unexpected token %s %q in command", t.Kind, t.Text)
	}
	return p.builder.NewCommand(cmdName, args, input.Range{Start: start, End: end})
}
