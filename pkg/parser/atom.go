package parser

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

func (p *Parser) parseAtom() (*ast.Node, error) {
	t := p.peek()

	switch {
	case t.Kind == token.Integer:
		p.advance()
		return p.builder.NewInteger(t.Text, t.Range)
	case t.Kind == token.Float:
		p.advance()
		return p.builder.NewFloat(t.Text, t.Range)
	case t.Kind == token.String:
		p.advance()
		return p.builder.NewString(t.Text, t.Quote, t.Range)
	case t.Kind == token.Parameter:
		p.advance()
		return p.builder.NewParameter(t.Text, t.Range)
	case t.Kind == token.Keyword && t.Text == "TRUE":
		p.advance()
		return p.builder.NewTrue(t.Range)
	case t.Kind == token.Keyword && t.Text == "FALSE":
		p.advance()
		return p.builder.NewFalse(t.Range)
	case t.Kind == token.Keyword && t.Text == "NULL":
		p.advance()
		return p.builder.NewNull(t.Range)
	case t.Kind == token.Symbol && t.Text == "(":
		return p.parseParenthesizedOrPattern()
	case t.Kind == token.Symbol && t.Text == "{":
		return p.parseMapLiteral()
	case t.Kind == token.Symbol && t.Text == "[":
		return p.parseBracketedExpression()
	case t.Kind == token.Keyword && t.Text == "CASE":
		return p.parseCase()
	case t.Kind == token.Keyword && t.Text == "FILTER":
		return p.parsePredicateFunction("FILTER", p.builder.NewFilter)
	case t.Kind == token.Keyword && t.Text == "ANY":
		return p.parsePredicateFunction("ANY", p.builder.NewAny)
	case t.Kind == token.Keyword && t.Text == "ALL":
		return p.parsePredicateFunction("ALL", p.builder.NewAll)
	case t.Kind == token.Keyword && t.Text == "NONE":
		return p.parsePredicateFunction("NONE", p.builder.NewNone)
	case t.Kind == token.Keyword && t.Text == "SINGLE":
		return p.parsePredicateFunction("SINGLE", p.builder.NewSingle)
	case t.Kind == token.Keyword && t.Text == "EXTRACT":
		return p.parseExtract()
	case t.Kind == token.Keyword && t.Text == "REDUCE":
		return p.parseReduce()
	case t.Kind == token.Identifier, t.Kind == token.Keyword && token.IsContextualKeyword(t.Text):
		return p.parseIdentifierOrCall()
	default:
		p.reportAt(t.Range.Start, fmt.Sprintf("unexpected token %s %q", t.Kind, t.Text))
		return nil, fmt.Errorf("unexpected token %s %q", t.Kind, t.Text)
	}
}

func (p *Parser) parseIdentifierOrCall() (*ast.Node, error) {
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}

	if p.atSymbol("(") {
		return p.parseFunctionCall(name)
	}

	id, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}

	if p.atSymbol("{") {
		return p.parseMapProjection(id)
	}
	return id, nil
}

func (p *Parser) parseFunctionCall(name symbolicName) (*ast.Node, error) {
	fn, err := p.builder.NewFunctionName(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	p.advance() // '('

	if p.atSymbol("*") {
		p.advance()
		end := p.peek().Range.End
		if !p.expectSymbol(")") {
			return nil, fmt.Errorf("expected ')'")
		}
		return p.builder.NewApplyAllOperator(fn, input.Range{Start: name.rng.Start, End: end})
	}

	distinct := p.acceptKeyword("DISTINCT")
	var args []*ast.Node
	if !p.atSymbol(")") {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')'")
	}
	return p.builder.NewApplyOperator(fn, distinct, args, input.Range{Start: name.rng.Start, End: end})
}

func (p *Parser) parseMapProjection(subject *ast.Node) (*ast.Node, error) {
	start := subject.Range.Start
	p.advance() // '{'
	var items []*ast.Node
	if !p.atSymbol("}") {
		for {
			item, err := p.parseMapProjectionItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol("}") {
		return nil, fmt.Errorf("expected '}'")
	}
	return p.builder.NewMapProjection(subject, items, input.Range{Start: start, End: end})
}

func (p *Parser) parseMapProjectionItem() (*ast.Node, error) {
	start := p.peek().Range.Start
	if !p.expectSymbol(".") {
		return nil, fmt.Errorf("expected '.' in map projection item")
	}
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	var value *ast.Node
	if p.acceptSymbol(":") {
		value, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	end := name.rng.End
	if value != nil {
		end = value.Range.End
	}
	return p.builder.NewMapProjectionItem(name.text, value, input.Range{Start: start, End: end})
}

func (p *Parser) parseMapLiteral() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // '{'
	var keys []string
	var values []*ast.Node
	if !p.atSymbol("}") {
		for {
			name, err := p.parseSymbolicName()
			if err != nil {
				return nil, err
			}
			if !p.expectSymbol(":") {
				return nil, fmt.Errorf("expected ':' in map literal")
			}
			value, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			keys = append(keys, name.text)
			values = append(values, value)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol("}") {
		return nil, fmt.Errorf("expected '}'")
	}
	return p.builder.NewMap(keys, values, input.Range{Start: start, End: end})
}

// parseBracketedExpression disambiguates "[" into a pattern comprehension,
// a list comprehension, or a plain collection literal.
func (p *Parser) parseBracketedExpression() (*ast.Node, error) {
	start := p.peek().Range.Start

	if node, matched, err := p.tryParsePatternComprehension(); matched {
		return node, err
	}

	p.advance() // '['

	if p.peek().Kind == token.Identifier && p.peekAt(1).Kind == token.Keyword && p.peekAt(1).Text == "IN" {
		return p.parseListComprehension(start)
	}

	var elements []*ast.Node
	if !p.atSymbol("]") {
		for {
			e, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, e)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol("]") {
		return nil, fmt.Errorf("expected ']'")
	}
	return p.builder.NewCollection(elements, input.Range{Start: start, End: end})
}

func (p *Parser) parseListComprehension(start input.Position) (*ast.Node, error) {
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	identifier, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("IN") {
		return nil, fmt.Errorf("expected IN")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	var predicate *ast.Node
	if p.acceptKeyword("WHERE") {
		predicate, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	var eval *ast.Node
	if p.acceptSymbol("|") {
		eval, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol("]") {
		return nil, fmt.Errorf("expected ']'")
	}
	return p.builder.NewListComprehension(identifier, expr, predicate, eval, input.Range{Start: start, End: end})
}

func (p *Parser) tryParsePatternComprehension() (*ast.Node, bool, error) {
	if !p.atSymbol("[") {
		return nil, false, nil
	}
	m := p.mark()
	start := p.peek().Range.Start
	p.advance() // '['
	if !p.atSymbol("(") {
		p.restore(m)
		return nil, false, nil
	}

	path, err := p.parsePatternPath()
	if err != nil {
		p.restore(m)
		return nil, false, nil
	}
	if !p.atKeyword("WHERE") && !p.atSymbol("|") {
		p.restore(m)
		return nil, false, nil
	}

	var predicate *ast.Node
	if p.acceptKeyword("WHERE") {
		predicate, err = p.ParseExpression()
		if err != nil {
			return nil, true, err
		}
	}
	if !p.expectSymbol("|") {
		return nil, true, fmt.Errorf("expected '|'")
	}
	eval, err := p.ParseExpression()
	if err != nil {
		return nil, true, err
	}
	end := p.peek().Range.End
	if !p.expectSymbol("]") {
		return nil, true, fmt.Errorf("expected ']'")
	}
	node, err := p.builder.NewPatternComprehension(path, predicate, eval, input.Range{Start: start, End: end})
	return node, true, err
}

func (p *Parser) parseParenthesizedOrPattern() (*ast.Node, error) {
	if p.peekAt(1).Kind == token.Identifier || (p.peekAt(1).Kind == token.Symbol && (p.peekAt(1).Text == ":" || p.peekAt(1).Text == ")")) {
		m := p.mark()
		if path, err := p.parsePatternPath(); err == nil {
			return path, nil
		}
		p.restore(m)
	}

	p.advance() // '('
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')'")
	}
	return expr, nil
}

func (p *Parser) parseCase() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // CASE

	var expr *ast.Node
	if !p.atKeyword("WHEN") {
		var err error
		expr, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}

	var alternatives []*ast.Node
	for p.atKeyword("WHEN") {
		whenStart := p.peek().Range.Start
		p.advance()
		when, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if !p.expectKeyword("THEN") {
			return nil, fmt.Errorf("expected THEN")
		}
		then, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		alt, err := p.builder.NewCaseAlternative(when, then, input.Range{Start: whenStart, End: then.Range.End})
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	var deflt *ast.Node
	if p.acceptKeyword("ELSE") {
		var err error
		deflt, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}

	end := p.peek().Range.End
	if !p.expectKeyword("END") {
		return nil, fmt.Errorf("expected END")
	}
	return p.builder.NewCase(expr, alternatives, deflt, input.Range{Start: start, End: end})
}

type predicateCtor func(identifier, expr, predicate *ast.Node, rng input.Range) (*ast.Node, error)

func (p *Parser) parsePredicateFunction(keyword string, ctor predicateCtor) (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // keyword
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' after %s", keyword)
	}
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	identifier, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("IN") {
		return nil, fmt.Errorf("expected IN")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	var predicate *ast.Node
	if p.acceptKeyword("WHERE") {
		predicate, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')'")
	}
	return ctor(identifier, expr, predicate, input.Range{Start: start, End: end})
}

func (p *Parser) parseExtract() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // EXTRACT
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' after EXTRACT")
	}
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	identifier, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("IN") {
		return nil, fmt.Errorf("expected IN")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	var predicate *ast.Node
	if p.acceptKeyword("WHERE") {
		predicate, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	if !p.expectSymbol("|") {
		return nil, fmt.Errorf("expected '|'")
	}
	eval, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')'")
	}
	return p.builder.NewExtract(identifier, expr, predicate, eval, input.Range{Start: start, End: end})
}

func (p *Parser) parseReduce() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // REDUCE
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' after REDUCE")
	}
	accName, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	accumulator, err := p.builder.NewIdentifier(accName.text, accName.rng)
	if err != nil {
		return nil, err
	}
	if !p.expectSymbol("=") {
		return nil, fmt.Errorf("expected '=' in REDUCE")
	}
	init, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.expectSymbol(",") {
		return nil, fmt.Errorf("expected ',' in REDUCE")
	}
	idName, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	identifier, err := p.builder.NewIdentifier(idName.text, idName.rng)
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("IN") {
		return nil, fmt.Errorf("expected IN")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.expectSymbol("|") {
		return nil, fmt.Errorf("expected '|'")
	}
	eval, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')'")
	}
	return p.builder.NewReduce(accumulator, init, identifier, expr, eval, input.Range{Start: start, End: end})
}
