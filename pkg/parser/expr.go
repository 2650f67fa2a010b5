package parser

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

// ParseExpression parses a single expression and is exported for the
// expression-fragment test entries in spec §8 scenario 6, as well as for
// use by other packages embedding this grammar.
func (p *Parser) ParseExpression() (*ast.Node, error) {
	return p.parseOr()
}

// The ladder below matches spec §4.E's precedence list low-to-high: OR,
// XOR, AND, NOT, comparison, +/-, */%, exponentiation (right-assoc),
// unary minus, STARTS WITH/ENDS WITH/CONTAINS/IN, subscript/slice/
// property-access, atoms. Each level recurses into the next-higher level
// for its operands.

func (p *Parser) parseOr() (*ast.Node, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		start := left.Range.Start
		opStart := p.advance().Range.Start
		right := p.operandOrRecover(opStart, p.parseXor)
		left, err = p.builder.NewBinaryOperator("OR", left, right, input.Range{Start: start, End: right.Range.End})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseXor() (*ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("XOR") {
		start := left.Range.Start
		opStart := p.advance().Range.Start
		right := p.operandOrRecover(opStart, p.parseAnd)
		left, err = p.builder.NewBinaryOperator("XOR", left, right, input.Range{Start: start, End: right.Range.End})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseAnd() (*ast.Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		start := left.Range.Start
		opStart := p.advance().Range.Start
		right := p.operandOrRecover(opStart, p.parseNot)
		left, err = p.builder.NewBinaryOperator("AND", left, right, input.Range{Start: start, End: right.Range.End})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseNot() (*ast.Node, error) {
	if p.atKeyword("NOT") {
		opStart := p.advance().Range.Start
		operand := p.operandOrRecover(opStart, p.parseNot)
		return p.builder.NewUnaryOperator("NOT ", operand, input.Range{Start: opStart, End: operand.Range.End})
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{"=": true, "<>": true, "<": true, ">": true, "<=": true, ">=": true}

func (p *Parser) parseComparison() (*ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	var ops []string
	operands := []*ast.Node{left}
	for {
		if t := p.peek(); t.Kind == token.Symbol && comparisonOps[t.Text] {
			opStart := p.advance().Range.Start
			right := p.operandOrRecover(opStart, p.parseAdditive)
			ops = append(ops, t.Text)
			operands = append(operands, right)
			continue
		}
		// IS opens a null test only before NOT or NULL; "IS UNIQUE" is left
		// to the constraint productions.
		if p.atKeyword("IS") && p.peekAt(1).Kind == token.Keyword && (p.peekAt(1).Text == "NOT" || p.peekAt(1).Text == "NULL") {
			p.advance()
			negated := p.acceptKeyword("NOT")
			if !p.expectKeyword("NULL") {
				return nil, fmt.Errorf("expected NULL after IS%s", isNotSuffix(negated))
			}
			op := "IS NULL"
			if negated {
				op = "IS NOT NULL"
			}
			nullNode, err := p.builder.NewNull(operands[len(operands)-1].Range)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
			operands = append(operands, nullNode)
			continue
		}
		break
	}

	if len(ops) == 0 {
		return left, nil
	}
	rng := input.Range{Start: operands[0].Range.Start, End: operands[len(operands)-1].Range.End}
	return p.builder.NewComparison(ops, operands, rng)
}

func isNotSuffix(negated bool) string {
	if negated {
		return " NOT"
	}
	return ""
}

func (p *Parser) parseAdditive() (*ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("+") || p.atSymbol("-") {
		opTok := p.advance()
		op := opTok.Text
		right := p.operandOrRecover(opTok.Range.Start, p.parseMultiplicative)
		left, err = p.builder.NewBinaryOperator(op, left, right, input.Range{Start: left.Range.Start, End: right.Range.End})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (*ast.Node, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for p.atSymbol("*") || p.atSymbol("/") || p.atSymbol("%") {
		opTok := p.advance()
		op := opTok.Text
		right := p.operandOrRecover(opTok.Range.Start, p.parseExponent)
		left, err = p.builder.NewBinaryOperator(op, left, right, input.Range{Start: left.Range.Start, End: right.Range.End})
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseExponent() (*ast.Node, error) {
	left, err := p.parseUnaryMinus()
	if err != nil {
		return nil, err
	}
	if p.atSymbol("^") {
		opStart := p.advance().Range.Start
		right := p.operandOrRecover(opStart, p.parseExponent) // right-associative
		return p.builder.NewBinaryOperator("^", left, right, input.Range{Start: left.Range.Start, End: right.Range.End})
	}
	return left, nil
}

func (p *Parser) parseUnaryMinus() (*ast.Node, error) {
	if p.atSymbol("-") {
		opStart := p.advance().Range.Start
		operand := p.operandOrRecover(opStart, p.parseUnaryMinus)
		return p.builder.NewUnaryOperator("-", operand, input.Range{Start: opStart, End: operand.Range.End})
	}
	return p.parseStringListOp()
}

func (p *Parser) parseStringListOp() (*ast.Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.atKeyword("STARTS"):
			p.advance()
			if !p.expectKeyword("WITH") {
				return nil, fmt.Errorf("expected WITH after STARTS")
			}
			op = "STARTS WITH"
		case p.atKeyword("ENDS"):
			p.advance()
			if !p.expectKeyword("WITH") {
				return nil, fmt.Errorf("expected WITH after ENDS")
			}
			op = "ENDS WITH"
		case p.atKeyword("CONTAINS"):
			p.advance()
			op = "CONTAINS"
		case p.atKeyword("IN"):
			p.advance()
			op = "IN"
		default:
			return left, nil
		}
		opStart := p.peek().Range.Start
		right := p.operandOrRecover(opStart, p.parsePostfix)
		left, err = p.builder.NewStringMatch(op, left, right, input.Range{Start: left.Range.Start, End: right.Range.End})
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePostfix() (*ast.Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atSymbol("."):
			p.advance()
			name, err := p.parseSymbolicName()
			if err != nil {
				return nil, err
			}
			propName, err := p.builder.NewPropName(name.text, name.rng)
			if err != nil {
				return nil, err
			}
			left, err = p.builder.NewPropertyOperator(left, propName, input.Range{Start: left.Range.Start, End: propName.Range.End})
			if err != nil {
				return nil, err
			}
		case p.atSymbol("["):
			left, err = p.parseSubscriptOrSlice(left)
			if err != nil {
				return nil, err
			}
		case p.atSymbol(":"):
			labels, endRng, err := p.parseLabelList()
			if err != nil {
				return nil, err
			}
			left, err = p.builder.NewLabelsOperator(left, labels, input.Range{Start: left.Range.Start, End: endRng.End})
			if err != nil {
				return nil, err
			}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseSubscriptOrSlice(subject *ast.Node) (*ast.Node, error) {
	p.advance() // '['

	if p.atSymbol("..") {
		p.advance()
		var to *ast.Node
		if !p.atSymbol("]") {
			var err error
			to, err = p.ParseExpression()
			if err != nil {
				return nil, err
			}
		}
		end := p.peek().Range.End
		if !p.expectSymbol("]") {
			return nil, fmt.Errorf("expected ']'")
		}
		return p.builder.NewSlice(subject, nil, to, input.Range{Start: subject.Range.Start, End: end})
	}

	index, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if p.atSymbol("..") {
		p.advance()
		var to *ast.Node
		if !p.atSymbol("]") {
			to, err = p.ParseExpression()
			if err != nil {
				return nil, err
			}
		}
		end := p.peek().Range.End
		if !p.expectSymbol("]") {
			return nil, fmt.Errorf("expected ']'")
		}
		return p.builder.NewSlice(subject, index, to, input.Range{Start: subject.Range.Start, End: end})
	}

	end := p.peek().Range.End
	if !p.expectSymbol("]") {
		return nil, fmt.Errorf("expected ']'")
	}
	return p.builder.NewSubscript(subject, index, input.Range{Start: subject.Range.Start, End: end})
}

// parseLabelList parses one or more ":Label" runs (used both for node
// pattern labels and the postfix labels-operator).
func (p *Parser) parseLabelList() ([]*ast.Node, input.Range, error) {
	var labels []*ast.Node
	var last input.Range
	for p.atSymbol(":") {
		p.advance()
		name, err := p.parseSymbolicName()
		if err != nil {
			return nil, input.Range{}, err
		}
		label, err := p.builder.NewLabel(name.text, name.rng)
		if err != nil {
			return nil, input.Range{}, err
		}
		labels = append(labels, label)
		last = label.Range
	}
	return labels, last, nil
}

// symbolicName is a lexed name together with its range — shared shape for
// identifiers accepted via contextual-keyword downgrade.
type symbolicName struct {
	text string
	rng  input.Range
}

// parseSymbolicName accepts an IDENTIFIER, or a KEYWORD that the grammar
// allows as a plain name in this position (spec §4.E context sensitivity).
func (p *Parser) parseSymbolicName() (symbolicName, error) {
	t := p.peek()
	if t.Kind == token.Identifier {
		p.advance()
		return symbolicName{text: t.Text, rng: t.Range}, nil
	}
	if t.Kind == token.Keyword && token.IsContextualKeyword(t.Text) {
		p.advance()
		return symbolicName{text: t.Text, rng: t.Range}, nil
	}
	p.reportAt(t.Range.Start, fmt.Sprintf("expected identifier but found %s %q", t.Kind, t.Text))
	return symbolicName{}, fmt.Errorf("expected identifier")
}
