package parser

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

// parsePattern parses a comma-separated list of pattern paths, as used by
// MATCH, CREATE and MERGE.
func (p *Parser) parsePattern() (*ast.Node, error) {
	start := p.peek().Range.Start
	first, err := p.parsePatternPath()
	if err != nil {
		return nil, err
	}
	paths := []*ast.Node{first}
	for p.acceptSymbol(",") {
		next, err := p.parsePatternPath()
		if err != nil {
			return nil, err
		}
		paths = append(paths, next)
	}
	return p.builder.NewPattern(paths, input.Range{Start: start, End: paths[len(paths)-1].Range.End})
}

func (p *Parser) parsePatternPath() (*ast.Node, error) {
	start := p.peek().Range.Start
	first, err := p.parseNodePattern()
	if err != nil {
		return nil, err
	}
	elements := []*ast.Node{first}
	for p.atSymbol("-") || p.atSymbol("--") || p.atSymbol("->") || p.atSymbol("<-") {
		rel, err := p.parseRelPattern()
		if err != nil {
			return nil, err
		}
		node, err := p.parseNodePattern()
		if err != nil {
			return nil, err
		}
		elements = append(elements, rel, node)
	}
	return p.builder.NewPatternPath(elements, input.Range{Start: start, End: elements[len(elements)-1].Range.End})
}

func (p *Parser) parseNodePattern() (*ast.Node, error) {
	start := p.peek().Range.Start
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' to start a node pattern")
	}

	var identifier *ast.Node
	if p.peek().Kind == token.Identifier {
		name, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		identifier, err = p.builder.NewIdentifier(name.text, name.rng)
		if err != nil {
			return nil, err
		}
	}

	labels, _, err := p.parseLabelList()
	if err != nil {
		return nil, err
	}

	var properties *ast.Node
	if p.atSymbol("{") || p.peek().Kind == token.Parameter {
		properties, err = p.parsePropertiesMapOrParam()
		if err != nil {
			return nil, err
		}
	}

	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')' to close a node pattern")
	}
	return p.builder.NewNodePattern(identifier, labels, properties, input.Range{Start: start, End: end})
}

// parseRelPattern parses a relationship pattern, bracketed ("-[r:KNOWS]->")
// or bare ("--", "->", "<-").
func (p *Parser) parseRelPattern() (*ast.Node, error) {
	start := p.peek().Range.Start

	switch {
	case p.atSymbol("--"):
		end := p.peek().Range.End
		p.advance()
		return p.builder.NewRelPattern(nil, nil, nil, nil, "", input.Range{Start: start, End: end})
	case p.atSymbol("->"):
		end := p.peek().Range.End
		p.advance()
		return p.builder.NewRelPattern(nil, nil, nil, nil, "->", input.Range{Start: start, End: end})
	case p.atSymbol("<-") && !p.nextIsBracketOpen():
		end := p.peek().Range.End
		p.advance()
		return p.builder.NewRelPattern(nil, nil, nil, nil, "<-", input.Range{Start: start, End: end})
	}

	leftArrow := false
	if p.atSymbol("<-") {
		leftArrow = true
		p.advance()
	} else if !p.expectSymbol("-") {
		return nil, fmt.Errorf("expected relationship pattern")
	}

	if !p.expectSymbol("[") {
		return nil, fmt.Errorf("expected '[' in relationship pattern")
	}

	var identifier *ast.Node
	if p.peek().Kind == token.Identifier {
		name, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		identifier, err = p.builder.NewIdentifier(name.text, name.rng)
		if err != nil {
			return nil, err
		}
	}

	var reltypes []*ast.Node
	if p.atSymbol(":") {
		p.advance()
		for {
			name, err := p.parseSymbolicName()
			if err != nil {
				return nil, err
			}
			rt, err := p.builder.NewRelType(name.text, name.rng)
			if err != nil {
				return nil, err
			}
			reltypes = append(reltypes, rt)
			if !p.acceptSymbol("|") {
				break
			}
		}
	}

	var rnge *ast.Node
	if p.atSymbol("*") {
		var err error
		rnge, err = p.parseVariableLengthRange()
		if err != nil {
			return nil, err
		}
	}

	var properties *ast.Node
	if p.atSymbol("{") || p.peek().Kind == token.Parameter {
		var err error
		properties, err = p.parsePropertiesMapOrParam()
		if err != nil {
			return nil, err
		}
	}

	if !p.expectSymbol("]") {
		return nil, fmt.Errorf("expected ']' to close relationship pattern")
	}

	direction := ""
	end := p.peek().Range.Start // placeholder, overwritten below
	if leftArrow {
		t := p.peek()
		end = t.Range.End
		if !p.expectSymbol("-") {
			return nil, fmt.Errorf("expected '-' to close a '<-[...]' relationship pattern")
		}
		direction = "<-"
	} else if p.atSymbol("->") {
		end = p.peek().Range.End
		p.advance()
		direction = "->"
	} else {
		t := p.peek()
		end = t.Range.End
		if !p.expectSymbol("-") {
			return nil, fmt.Errorf("expected '-' to close relationship pattern")
		}
	}

	return p.builder.NewRelPattern(identifier, reltypes, properties, rnge, direction, input.Range{Start: start, End: end})
}

func (p *Parser) nextIsBracketOpen() bool {
	return p.peekAt(1).Kind == token.Symbol && p.peekAt(1).Text == "["
}

func (p *Parser) parseVariableLengthRange() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // '*'

	var from, to *ast.Node
	var err error
	if p.peek().Kind == token.Integer {
		t := p.advance()
		from, err = p.builder.NewInteger(t.Text, t.Range)
		if err != nil {
			return nil, err
		}
	}

	if p.atSymbol("..") {
		p.advance()
		if p.peek().Kind == token.Integer {
			t := p.advance()
			to, err = p.builder.NewInteger(t.Text, t.Range)
			if err != nil {
				return nil, err
			}
		}
	} else {
		to = from // "*N" with no ".." means exactly N hops
	}

	end := start
	if to != nil {
		end = to.Range.End
	} else if from != nil {
		end = from.Range.End
	}
	return p.builder.NewRange(from, to, input.Range{Start: start, End: end})
}

func (p *Parser) parsePropertiesMapOrParam() (*ast.Node, error) {
	if p.peek().Kind == token.Parameter {
		t := p.advance()
		return p.builder.NewParameter(t.Text, t.Range)
	}
	return p.parseMapLiteral()
}
