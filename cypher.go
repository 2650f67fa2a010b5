// Package cypher is the public entry point for the parser library: it
// drives the lexer and grammar over either an in-memory buffer or a
// pull-based byte-source callback, assembling the resulting directives,
// errors and comments into a Result.
package cypher

import (
	"fmt"
	"io"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/parser"
	"github.com/RedisGraph/libcypher-parser/pkg/printer"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

// Version identifies this library's release, reported by cmd/cypher-lint
// alongside its own --version output.
const Version = "0.1.0"

// Position and Range are re-exported from pkg/input so callers of this
// package's public API never need to import it directly.
type Position = input.Position
type Range = input.Range

// ParseError is one recorded lex or syntax error, with enough context to
// draw a caret under the offending column.
type ParseError = parser.ParseError

// RangeCallback, if supplied to Parse/ParseStream, is invoked with the
// range of each directive as soon as it completes, before the next one
// starts — letting a streaming consumer observe directive boundaries.
type RangeCallback func(Range)

// Flags controls Parse/ParseStream behavior.
type Flags uint

const (
	// SINGLE stops the driver after the first directive.
	SINGLE Flags = 1 << iota
	// ONLY_STATEMENTS rejects client commands (leading ':' directives);
	// only statements wrapping a query are accepted.
	ONLY_STATEMENTS
)

// PrintFlags is passed through to pkg/printer.Fprint.
type PrintFlags = printer.Flags

// Config is an opaque options record controlling error context width and
// how a Result's errors are colorized when formatted (the colorization a
// printer applies to directives themselves is passed directly to
// Result.Fprint, not carried on Config).
type Config struct {
	errorColorization *printer.Colorization
	contextWidth      int
	defaultWidth      int
}

// NewConfig returns a Config with the library's defaults: no error
// colorization, and the spec's ~80-character error context width.
func NewConfig() *Config {
	return &Config{contextWidth: parser.DefaultContextWidth}
}

// SetErrorColorization installs the table used when formatting this
// config's parse errors via FormatError. A nil table disables it.
func (c *Config) SetErrorColorization(table *printer.Colorization) {
	c.errorColorization = table
}

// ErrorColorization returns the table installed by SetErrorColorization,
// or nil if none was set.
func (c *Config) ErrorColorization() *printer.Colorization {
	return c.errorColorization
}

// SetErrorContextWidth overrides how much surrounding source a
// ParseError's snippet carries; n <= 0 is ignored.
func (c *Config) SetErrorContextWidth(n int) {
	if n > 0 {
		c.contextWidth = n
	}
}

// SetDefaultWidth sets the width Fprint uses when a caller passes 0.
func (c *Config) SetDefaultWidth(n int) {
	c.defaultWidth = n
}

// Result aggregates one parse's directives, errors, comments and the
// final end-of-input position. It owns every node transitively
// reachable from its directives and comments.
type Result struct {
	directives   []*ast.Node
	errors       []*ParseError
	comments     []*ast.Node
	eof          Position
	defaultWidth int
}

// Directives returns the parsed top-level directives (statements and
// client commands), in source order.
func (r *Result) Directives() []*ast.Node { return r.directives }

// NDirectives returns len(Directives()).
func (r *Result) NDirectives() int { return len(r.directives) }

// Directive returns the i'th directive.
func (r *Result) Directive(i int) *ast.Node { return r.directives[i] }

// Errors returns every error recorded during the parse, in source order.
func (r *Result) Errors() []*ParseError { return r.errors }

// NErrors returns len(Errors()).
func (r *Result) NErrors() int { return len(r.errors) }

// Error returns the i'th error.
func (r *Result) Error(i int) *ParseError { return r.errors[i] }

// Comments returns every line/block comment encountered, in source order.
func (r *Result) Comments() []*ast.Node { return r.comments }

// EOF returns the position of the end of input.
func (r *Result) EOF() Position { return r.eof }

// Fprint renders the result's directives to w via pkg/printer. width <= 0
// falls back to the Config's default width if one was set via
// SetDefaultWidth, or renders unbounded otherwise.
func (r *Result) Fprint(w io.Writer, width int, color *printer.Colorization, flags PrintFlags) error {
	if width <= 0 {
		width = r.defaultWidth
	}
	return printer.Fprint(w, r.directives, width, color, flags)
}

// Parse parses src as a complete in-memory Cypher script. cb and cfg may
// both be nil.
func Parse(src []byte, cb RangeCallback, cfg *Config, flags Flags) (*Result, error) {
	return drive(input.FromBytes(src), cb, cfg, flags)
}

// ParseStream drives the parser from read, which supplies successive
// chunks into p until it reports eof=true (optionally together with a
// final n>0). cb and cfg may both be nil.
func ParseStream(read func(p []byte) (n int, eof bool, err error), cb RangeCallback, cfg *Config, flags Flags) (*Result, error) {
	return drive(adaptSource(read), cb, cfg, flags)
}

func adaptSource(read func(p []byte) (int, bool, error)) input.Source {
	done := false
	return func(p []byte) (int, error) {
		if done {
			return 0, io.EOF
		}
		n, eof, err := read(p)
		if err != nil {
			return n, err
		}
		if eof {
			done = true
			return n, io.EOF
		}
		return n, nil
	}
}

// drive runs the directive loop shared by Parse and ParseStream: discard
// bare ';' separators, stop at EOF or (if SINGLE) after one directive,
// honor ONLY_STATEMENTS by rejecting a leading ':' directive instead of
// parsing it, invoke cb after each directive completes, and compact the
// input buffer's retained window once a directive is committed.
func drive(src input.Source, cb RangeCallback, cfg *Config, flags Flags) (*Result, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	buf := input.NewBuffer(src)
	lex := token.NewLexer(buf)
	builder := ast.NewBuilder()
	p := parser.New(lex, builder)
	p.SetContextWidth(cfg.contextWidth)

	res := &Result{}
	for {
		for p.ConsumeDirectiveSeparator() {
			// bare ';' — an empty directive, discarded per spec §5.
		}
		if p.AtEOF() {
			break
		}

		var node *ast.Node
		if flags&ONLY_STATEMENTS != 0 && p.AtCommandStart() {
			node = p.RejectCommand()
		} else {
			var err error
			node, err = p.ParseDirective()
			if err != nil {
				return nil, fmt.Errorf("cypher: internal parser error: %w", err)
			}
		}

		res.directives = append(res.directives, node)
		if cb != nil {
			cb(node.Range)
		}
		buf.Compact(node.Range.End)

		if flags&SINGLE != 0 {
			break
		}
	}

	res.errors = p.Errors()
	res.comments = collectComments(lex.Comments(), builder)
	res.eof = p.Position()
	res.defaultWidth = cfg.defaultWidth
	return res, nil
}

func collectComments(tokens []token.Token, builder *ast.Builder) []*ast.Node {
	comments := make([]*ast.Node, 0, len(tokens))
	for _, t := range tokens {
		var n *ast.Node
		var err error
		switch t.Kind {
		case token.LineComment:
			n, err = builder.NewLineComment(t.Text, t.Range)
		case token.BlockComment:
			n, err = builder.NewBlockComment(t.Text, t.Range)
		default:
			continue
		}
		if err != nil {
			continue
		}
		comments = append(comments, n)
	}
	return comments
}
