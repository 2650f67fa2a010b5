package parser

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

// clauseStartKeywords are the keywords that can open a clause inside a
// query body (UNION is handled by parseQuery directly, not here).
var clauseStartKeywords = map[string]bool{
	"MATCH": true, "OPTIONAL": true, "CREATE": true, "MERGE": true,
	"DELETE": true, "DETACH": true, "SET": true, "REMOVE": true,
	"WITH": true, "RETURN": true, "UNWIND": true, "FOREACH": true,
	"LOAD": true, "START": true, "CALL": true,
}

func (p *Parser) atClauseStart() bool {
	t := p.peek()
	return t.Kind == token.Keyword && clauseStartKeywords[t.Text]
}

// updatingClauseStartKeywords is the subset of clauseStartKeywords valid
// as the body of a FOREACH (spec §4.E: FOREACH only admits the updating
// clauses, not MATCH/WITH/RETURN).
var updatingClauseStartKeywords = map[string]bool{
	"CREATE": true, "MERGE": true, "DELETE": true, "DETACH": true,
	"SET": true, "REMOVE": true, "FOREACH": true,
}

func (p *Parser) atUpdatingClauseStart() bool {
	t := p.peek()
	return t.Kind == token.Keyword && updatingClauseStartKeywords[t.Text]
}

// parseQuery parses one or more UNION-joined single queries into one
// QUERY node whose children are the flattened clause (and UNION marker)
// sequence — the shape ast_query.c builds for a top-level query.
func (p *Parser) parseQuery() (*ast.Node, error) {
	start := p.peek().Range.Start
	clauses, err := p.parseClauseSequence()
	if err != nil {
		return nil, err
	}

	for p.atKeyword("UNION") {
		uTok := p.advance()
		uRange := uTok.Range
		all := false
		if p.atKeyword("ALL") {
			all = true
			uRange.End = p.advance().Range.End
		}
		union, err := p.builder.NewUnion(all, uRange)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, union)

		more, err := p.parseClauseSequence()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, more...)
	}

	end := clauses[len(clauses)-1].Range.End
	return p.builder.NewQuery(clauses, input.Range{Start: start, End: end})
}

func (p *Parser) parseClauseSequence() ([]*ast.Node, error) {
	var clauses []*ast.Node
	for {
		c, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
		if !p.atClauseStart() {
			break
		}
	}
	return clauses, nil
}

// parseClause dispatches on the leading keyword of a single clause.
func (p *Parser) parseClause() (*ast.Node, error) {
	t := p.peek()
	if t.Kind != token.Keyword {
		p.reportAt(t.Range.Start, fmt.Sprintf("expected a clause but found %s %q", t.Kind, t.Text))
		return nil, fmt.Errorf("expected a clause")
	}

	switch t.Text {
	case "MATCH", "OPTIONAL":
		return p.parseMatch()
	case "CREATE":
		return p.parseCreateOrSchema()
	case "DROP":
		return p.parseDropSchema()
	case "DELETE", "DETACH":
		return p.parseDelete()
	case "SET":
		return p.parseSet()
	case "REMOVE":
		return p.parseRemove()
	case "MERGE":
		return p.parseMerge()
	case "UNWIND":
		return p.parseUnwind()
	case "FOREACH":
		return p.parseForeach()
	case "WITH":
		return p.parseWith()
	case "RETURN":
		return p.parseReturn()
	case "LOAD":
		return p.parseLoadCSV()
	case "START":
		return p.parseStart()
	case "CALL":
		return p.parseCall()
	default:
		p.reportAt(t.Range.Start, fmt.Sprintf("unexpected clause keyword %q", t.Text))
		return nil, fmt.Errorf("unexpected clause keyword %q", t.Text)
	}
}

// parseUpdatingClause is the restricted dispatcher used inside FOREACH.
func (p *Parser) parseUpdatingClause() (*ast.Node, error) {
	t := p.peek()
	switch t.Text {
	case "CREATE":
		return p.parseCreateOrSchema()
	case "MERGE":
		return p.parseMerge()
	case "DELETE", "DETACH":
		return p.parseDelete()
	case "SET":
		return p.parseSet()
	case "REMOVE":
		return p.parseRemove()
	case "FOREACH":
		return p.parseForeach()
	default:
		p.reportAt(t.Range.Start, fmt.Sprintf("expected an updating clause but found %q", t.Text))
		return nil, fmt.Errorf("expected an updating clause")
	}
}

// ----------------------------------------------------------------------------
// MATCH

func (p *Parser) parseMatch() (*ast.Node, error) {
	start := p.peek().Range.Start
	optional := p.acceptKeyword("OPTIONAL")
	if !p.expectKeyword("MATCH") {
		return nil, fmt.Errorf("expected MATCH")
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}

	end := pattern.Range.End
	var hints []*ast.Node
	for p.atKeyword("USING") {
		h, err := p.parseMatchHint()
		if err != nil {
			return nil, err
		}
		hints = append(hints, h)
		end = h.Range.End
	}

	var where *ast.Node
	if p.atKeyword("WHERE") {
		where, err = p.parseWhere()
		if err != nil {
			return nil, err
		}
		end = where.Range.End
	}

	return p.builder.NewMatch(optional, pattern, hints, where, input.Range{Start: start, End: end})
}

// parseMatchHint parses one of the three query-planner hints. USING SCAN
// and USING INDEX share a shape (no dedicated AST kind distinguishes
// them), so both are folded into the same MatchHint "index" slot.
func (p *Parser) parseMatchHint() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // USING

	if p.acceptKeyword("JOIN") {
		if !p.expectKeyword("ON") {
			return nil, fmt.Errorf("expected ON after USING JOIN")
		}
		var ids []*ast.Node
		for {
			name, err := p.parseSymbolicName()
			if err != nil {
				return nil, err
			}
			id, err := p.builder.NewIdentifier(name.text, name.rng)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
			if !p.acceptSymbol(",") {
				break
			}
		}
		return p.builder.NewMatchHint(ids, nil, input.Range{Start: start, End: ids[len(ids)-1].Range.End})
	}

	if p.acceptKeyword("SCAN") || p.acceptKeyword("INDEX") {
		name, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		identifier, err := p.builder.NewIdentifier(name.text, name.rng)
		if err != nil {
			return nil, err
		}
		if !p.expectSymbol(":") {
			return nil, fmt.Errorf("expected ':' in hint")
		}
		labelName, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		index, err := p.builder.NewLabel(labelName.text, labelName.rng)
		if err != nil {
			return nil, err
		}
		if p.acceptSymbol("(") {
			propNameTok, err := p.parseSymbolicName()
			if err != nil {
				return nil, err
			}
			propName, err := p.builder.NewPropName(propNameTok.text, propNameTok.rng)
			if err != nil {
				return nil, err
			}
			if !p.expectSymbol(")") {
				return nil, fmt.Errorf("expected ')' in hint")
			}
			index = propName
		}
		return p.builder.NewMatchHint([]*ast.Node{identifier}, index, input.Range{Start: start, End: index.Range.End})
	}

	return nil, fmt.Errorf("expected JOIN, SCAN or INDEX after USING")
}

func (p *Parser) parseWhere() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // WHERE
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return p.builder.NewWhere(expr, input.Range{Start: start, End: expr.Range.End})
}

// ----------------------------------------------------------------------------
// CREATE / DROP, both the pattern clause and the schema commands

func (p *Parser) parseCreateOrSchema() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // CREATE
	if p.atKeyword("CONSTRAINT") {
		return p.parseCreateConstraint(start)
	}
	if p.atKeyword("INDEX") {
		return p.parseCreateIndex(start)
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	return p.builder.NewCreate(pattern, input.Range{Start: start, End: pattern.Range.End})
}

func (p *Parser) parseDropSchema() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // DROP
	if p.atKeyword("CONSTRAINT") {
		return p.parseDropConstraint(start)
	}
	if p.atKeyword("INDEX") {
		return p.parseDropIndex(start)
	}
	p.reportAt(p.peek().Range.Start, "expected CONSTRAINT or INDEX after DROP")
	return nil, fmt.Errorf("expected CONSTRAINT or INDEX after DROP")
}

// parseCreateIndex / parseDropIndex parse "[CREATE|DROP] INDEX ON
// :Label(prop)" — the legacy label index command, unbound to a variable.
func (p *Parser) parseCreateIndex(start input.Position) (*ast.Node, error) {
	label, propName, err := p.parseIndexTarget()
	if err != nil {
		return nil, err
	}
	return p.builder.NewCreateNodePropIndex(label, propName, input.Range{Start: start, End: propName.Range.End})
}

func (p *Parser) parseDropIndex(start input.Position) (*ast.Node, error) {
	label, propName, err := p.parseIndexTarget()
	if err != nil {
		return nil, err
	}
	return p.builder.NewDropNodePropIndex(label, propName, input.Range{Start: start, End: propName.Range.End})
}

func (p *Parser) parseIndexTarget() (label, propName *ast.Node, err error) {
	p.advance() // INDEX
	if !p.expectKeyword("ON") {
		return nil, nil, fmt.Errorf("expected ON after INDEX")
	}
	if !p.expectSymbol(":") {
		return nil, nil, fmt.Errorf("expected ':' after ON")
	}
	labelName, err := p.parseSymbolicName()
	if err != nil {
		return nil, nil, err
	}
	label, err = p.builder.NewLabel(labelName.text, labelName.rng)
	if err != nil {
		return nil, nil, err
	}
	if !p.expectSymbol("(") {
		return nil, nil, fmt.Errorf("expected '(' after label")
	}
	propNameTok, err := p.parseSymbolicName()
	if err != nil {
		return nil, nil, err
	}
	propName, err = p.builder.NewPropName(propNameTok.text, propNameTok.rng)
	if err != nil {
		return nil, nil, err
	}
	if !p.expectSymbol(")") {
		return nil, nil, fmt.Errorf("expected ')'")
	}
	return label, propName, nil
}

// parseCreateConstraint / parseDropConstraint parse both the node
// ("ON (n:Label) ASSERT ...") and relationship ("ON ()-[r:TYPE]-()
// ASSERT ...") constraint forms, and both the plain-existence and
// IS UNIQUE variants.
func (p *Parser) parseCreateConstraint(start input.Position) (*ast.Node, error) {
	p.advance() // CONSTRAINT
	if !p.expectKeyword("ON") {
		return nil, fmt.Errorf("expected ON after CONSTRAINT")
	}
	if p.atSymbol("(") {
		identifier, label, err := p.parseConstraintNodeTarget()
		if err != nil {
			return nil, err
		}
		if !p.expectKeyword("ASSERT") {
			return nil, fmt.Errorf("expected ASSERT")
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if p.atKeyword("IS") && p.peekAt(1).Kind == token.Keyword && p.peekAt(1).Text == "UNIQUE" {
			p.advance()
			p.advance()
			return p.builder.NewCreateUniqueNodePropConstraint(identifier, label, expr,
				input.Range{Start: start, End: expr.Range.End})
		}
		return p.builder.NewCreateNodePropConstraint(identifier, label, expr, input.Range{Start: start, End: expr.Range.End})
	}

	identifier, relType, err := p.parseConstraintRelTarget()
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("ASSERT") {
		return nil, fmt.Errorf("expected ASSERT")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return p.builder.NewCreateRelPropConstraint(identifier, relType, expr, input.Range{Start: start, End: expr.Range.End})
}

func (p *Parser) parseDropConstraint(start input.Position) (*ast.Node, error) {
	p.advance() // CONSTRAINT
	if !p.expectKeyword("ON") {
		return nil, fmt.Errorf("expected ON after CONSTRAINT")
	}
	if p.atSymbol("(") {
		identifier, label, err := p.parseConstraintNodeTarget()
		if err != nil {
			return nil, err
		}
		if !p.expectKeyword("ASSERT") {
			return nil, fmt.Errorf("expected ASSERT")
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if p.atKeyword("IS") && p.peekAt(1).Kind == token.Keyword && p.peekAt(1).Text == "UNIQUE" {
			p.advance()
			p.advance()
			return p.builder.NewDropUniqueNodePropConstraint(identifier, label, expr,
				input.Range{Start: start, End: expr.Range.End})
		}
		return p.builder.NewDropNodePropConstraint(identifier, label, expr, input.Range{Start: start, End: expr.Range.End})
	}

	identifier, relType, err := p.parseConstraintRelTarget()
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("ASSERT") {
		return nil, fmt.Errorf("expected ASSERT")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return p.builder.NewDropRelPropConstraint(identifier, relType, expr, input.Range{Start: start, End: expr.Range.End})
}

// parseConstraintNodeTarget parses "(identifier:Label)".
func (p *Parser) parseConstraintNodeTarget() (identifier, label *ast.Node, err error) {
	p.advance() // '('
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, nil, err
	}
	identifier, err = p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, nil, err
	}
	if !p.expectSymbol(":") {
		return nil, nil, fmt.Errorf("expected ':' in constraint target")
	}
	labelName, err := p.parseSymbolicName()
	if err != nil {
		return nil, nil, err
	}
	label, err = p.builder.NewLabel(labelName.text, labelName.rng)
	if err != nil {
		return nil, nil, err
	}
	if !p.expectSymbol(")") {
		return nil, nil, fmt.Errorf("expected ')' in constraint target")
	}
	return identifier, label, nil
}

// parseConstraintRelTarget parses "()-[identifier:TYPE]-()" or
// "()<-[identifier:TYPE]-()", accepting either direction — the lexer
// tokenizes "<-" and "->" as single multi-char symbols, so direction is
// read the same way parseRelPattern reads it.
func (p *Parser) parseConstraintRelTarget() (identifier, relType *ast.Node, err error) {
	if !p.expectSymbol("(") {
		return nil, nil, fmt.Errorf("expected '(' in relationship constraint target")
	}
	if !p.expectSymbol(")") {
		return nil, nil, fmt.Errorf("expected ')' in relationship constraint target")
	}
	if !p.acceptSymbol("<-") && !p.expectSymbol("-") {
		return nil, nil, fmt.Errorf("expected relationship arrow in constraint target")
	}
	if !p.expectSymbol("[") {
		return nil, nil, fmt.Errorf("expected '[' in relationship constraint target")
	}
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, nil, err
	}
	identifier, err = p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, nil, err
	}
	if !p.expectSymbol(":") {
		return nil, nil, fmt.Errorf("expected ':' before relationship type")
	}
	typeName, err := p.parseSymbolicName()
	if err != nil {
		return nil, nil, err
	}
	relType, err = p.builder.NewRelType(typeName.text, typeName.rng)
	if err != nil {
		return nil, nil, err
	}
	if !p.expectSymbol("]") {
		return nil, nil, fmt.Errorf("expected ']' in relationship constraint target")
	}
	if !p.acceptSymbol("->") && !p.expectSymbol("-") {
		return nil, nil, fmt.Errorf("expected relationship arrow in constraint target")
	}
	if !p.expectSymbol("(") {
		return nil, nil, fmt.Errorf("expected '(' in relationship constraint target")
	}
	if !p.expectSymbol(")") {
		return nil, nil, fmt.Errorf("expected ')' in relationship constraint target")
	}
	return identifier, relType, nil
}

// ----------------------------------------------------------------------------
// DELETE, SET, REMOVE, MERGE

func (p *Parser) parseDelete() (*ast.Node, error) {
	start := p.peek().Range.Start
	detach := p.acceptKeyword("DETACH")
	if !p.expectKeyword("DELETE") {
		return nil, fmt.Errorf("expected DELETE")
	}
	var exprs []*ast.Node
	for {
		e, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return p.builder.NewDelete(detach, exprs, input.Range{Start: start, End: exprs[len(exprs)-1].Range.End})
}

// parseSetItem handles "prop = expr", "prop += expr" and the "n:Label"
// add-labels form. The latter has no dedicated AST kind: the postfix
// labels operator already folds the labels into the parsed expression,
// so the item is recorded as a (target, target) pair with plusEquals
// false.
func (p *Parser) parseSetItem() (*ast.Node, error) {
	target, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.acceptSymbol("+=") {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		return p.builder.NewSetItem(target, value, true, input.Range{Start: target.Range.Start, End: value.Range.End})
	}
	if p.acceptSymbol("=") {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		return p.builder.NewSetItem(target, value, false, input.Range{Start: target.Range.Start, End: value.Range.End})
	}
	return p.builder.NewSetItem(target, target, false, target.Range)
}

func (p *Parser) parseSet() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // SET
	var items []*ast.Node
	for {
		item, err := p.parseSetItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return p.builder.NewSet(items, input.Range{Start: start, End: items[len(items)-1].Range.End})
}

func (p *Parser) parseRemove() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // REMOVE
	var items []*ast.Node
	for {
		target, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		item, err := p.builder.NewRemoveItem(target, target.Range)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return p.builder.NewRemove(items, input.Range{Start: start, End: items[len(items)-1].Range.End})
}

func (p *Parser) parseMerge() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // MERGE
	path, err := p.parsePatternPath()
	if err != nil {
		return nil, err
	}

	end := path.Range.End
	var actions []*ast.Node
	for p.atKeyword("ON") {
		a, err := p.parseMergeAction()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
		end = a.Range.End
	}
	return p.builder.NewMerge(path, actions, input.Range{Start: start, End: end})
}

func (p *Parser) parseMergeAction() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // ON
	onMatch := false
	if p.acceptKeyword("MATCH") {
		onMatch = true
	} else if !p.expectKeyword("CREATE") {
		return nil, fmt.Errorf("expected MATCH or CREATE after ON")
	}

	setStart := p.peek().Range.Start
	if !p.expectKeyword("SET") {
		return nil, fmt.Errorf("expected SET")
	}
	var items []*ast.Node
	for {
		item, err := p.parseSetItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.acceptSymbol(",") {
			break
		}
	}
	setEnd := items[len(items)-1].Range.End
	set, err := p.builder.NewSet(items, input.Range{Start: setStart, End: setEnd})
	if err != nil {
		return nil, err
	}
	return p.builder.NewMergeAction(onMatch, set, input.Range{Start: start, End: setEnd})
}

// ----------------------------------------------------------------------------
// UNWIND, FOREACH, LOAD CSV

func (p *Parser) parseUnwind() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // UNWIND
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("AS") {
		return nil, fmt.Errorf("expected AS")
	}
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	alias, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	return p.builder.NewUnwind(expr, alias, input.Range{Start: start, End: alias.Range.End})
}

func (p *Parser) parseForeach() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // FOREACH
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' after FOREACH")
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
	if !p.expectSymbol("|") {
		return nil, fmt.Errorf("expected '|'")
	}

	var clauses []*ast.Node
	for {
		c, err := p.parseUpdatingClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
		if !p.atUpdatingClauseStart() {
			break
		}
	}

	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')' to close FOREACH")
	}
	return p.builder.NewForeach(identifier, expr, clauses, input.Range{Start: start, End: end})
}

func (p *Parser) parseLoadCSV() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // LOAD
	if !p.expectKeyword("CSV") {
		return nil, fmt.Errorf("expected CSV after LOAD")
	}
	withHeaders := false
	if p.acceptKeyword("WITH") {
		if !p.expectKeyword("HEADERS") {
			return nil, fmt.Errorf("expected HEADERS")
		}
		withHeaders = true
	}
	if !p.expectKeyword("FROM") {
		return nil, fmt.Errorf("expected FROM")
	}
	url, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.expectKeyword("AS") {
		return nil, fmt.Errorf("expected AS")
	}
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	alias, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}

	end := alias.Range.End
	var fieldTerminator *ast.Node
	if p.acceptKeyword("FIELDTERMINATOR") {
		fieldTerminator, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
		end = fieldTerminator.Range.End
	}
	return p.builder.NewLoadCSV(withHeaders, url, alias, fieldTerminator, input.Range{Start: start, End: end})
}

// ----------------------------------------------------------------------------
// START (legacy start points), CALL...YIELD

func (p *Parser) parseStart() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // START
	var points []*ast.Node
	for {
		pt, err := p.parseStartPoint()
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
		if !p.acceptSymbol(",") {
			break
		}
	}

	end := points[len(points)-1].Range.End
	var where *ast.Node
	var err error
	if p.atKeyword("WHERE") {
		where, err = p.parseWhere()
		if err != nil {
			return nil, err
		}
		end = where.Range.End
	}
	return p.builder.NewStart(points, where, input.Range{Start: start, End: end})
}

// parseStartPoint parses "identifier = description(args...)", e.g.
// "n = node(1)" or "r = rel:index(key = 'value')".
func (p *Parser) parseStartPoint() (*ast.Node, error) {
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	identifier, err := p.builder.NewIdentifier(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	if !p.expectSymbol("=") {
		return nil, fmt.Errorf("expected '=' in start point")
	}
	descName, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	description := descName.text
	for p.acceptSymbol(":") {
		next, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		description += ":" + next.text
	}
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' in start point")
	}
	var args []*ast.Node
	if !p.atSymbol(")") {
		for {
			a, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')' in start point")
	}
	return p.builder.NewStartPoint(identifier, description, args, input.Range{Start: identifier.Range.Start, End: end})
}

func (p *Parser) parseCall() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // CALL
	name, err := p.parseSymbolicName()
	if err != nil {
		return nil, err
	}
	procName, err := p.builder.NewFunctionName(name.text, name.rng)
	if err != nil {
		return nil, err
	}
	for p.acceptSymbol(".") {
		next, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		procName, err = p.builder.NewFunctionName(procName.Detail+"."+next.text, input.Range{Start: name.rng.Start, End: next.rng.End})
		if err != nil {
			return nil, err
		}
	}
	if !p.expectSymbol("(") {
		return nil, fmt.Errorf("expected '(' after procedure name")
	}
	var args []*ast.Node
	if !p.atSymbol(")") {
		for {
			a, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	end := p.peek().Range.End
	if !p.expectSymbol(")") {
		return nil, fmt.Errorf("expected ')' to close CALL")
	}

	var yield *ast.Node
	if p.acceptKeyword("YIELD") {
		var items []*ast.Node
		for {
			projName, err := p.parseSymbolicName()
			if err != nil {
				return nil, err
			}
			id, err := p.builder.NewIdentifier(projName.text, projName.rng)
			if err != nil {
				return nil, err
			}
			items = append(items, id)
			if !p.acceptSymbol(",") {
				break
			}
		}
		yield, err = p.builder.NewYield(items, input.Range{Start: items[0].Range.Start, End: items[len(items)-1].Range.End})
		if err != nil {
			return nil, err
		}
		end = yield.Range.End
	}
	return p.builder.NewCall(procName, args, yield, input.Range{Start: start, End: end})
}

// ----------------------------------------------------------------------------
// WITH, RETURN and their shared ORDER BY / SKIP / LIMIT tail

func (p *Parser) parseProjection() (*ast.Node, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	var alias *ast.Node
	end := expr.Range.End
	if p.acceptKeyword("AS") {
		name, err := p.parseSymbolicName()
		if err != nil {
			return nil, err
		}
		alias, err = p.builder.NewIdentifier(name.text, name.rng)
		if err != nil {
			return nil, err
		}
		end = alias.Range.End
	}
	return p.builder.NewProjection(expr, alias, input.Range{Start: expr.Range.Start, End: end})
}

func (p *Parser) parseSortItem() (*ast.Node, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	descending := false
	end := expr.Range.End
	if t := p.peek(); t.Kind == token.Keyword {
		switch t.Text {
		case "ASC", "ASCENDING":
			p.advance()
			end = t.Range.End
		case "DESC", "DESCENDING":
			p.advance()
			descending = true
			end = t.Range.End
		}
	}
	return p.builder.NewSortItem(expr, descending, input.Range{Start: expr.Range.Start, End: end})
}

func (p *Parser) parseOrderBy() (*ast.Node, error) {
	p.advance() // ORDER
	if !p.expectKeyword("BY") {
		return nil, fmt.Errorf("expected BY after ORDER")
	}
	var items []*ast.Node
	for {
		it, err := p.parseSortItem()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return p.builder.NewOrderBy(items, input.Range{Start: items[0].Range.Start, End: items[len(items)-1].Range.End})
}

func (p *Parser) parseSkip() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // SKIP
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return p.builder.NewSkip(expr, input.Range{Start: start, End: expr.Range.End})
}

func (p *Parser) parseLimit() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // LIMIT
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return p.builder.NewLimit(expr, input.Range{Start: start, End: expr.Range.End})
}

// parseProjectionTail parses the ORDER BY / SKIP / LIMIT trio shared by
// WITH and RETURN, in the order the grammar fixes them. ok reports
// whether any of the three were present, since a fresh input.Position
// zero value is indistinguishable from a real offset-0 position.
func (p *Parser) parseProjectionTail() (orderBy, skip, limit *ast.Node, end input.Position, ok bool, err error) {
	if p.atKeyword("ORDER") {
		orderBy, err = p.parseOrderBy()
		if err != nil {
			return nil, nil, nil, end, false, err
		}
		end, ok = orderBy.Range.End, true
	}
	if p.atKeyword("SKIP") {
		skip, err = p.parseSkip()
		if err != nil {
			return nil, nil, nil, end, false, err
		}
		end, ok = skip.Range.End, true
	}
	if p.atKeyword("LIMIT") {
		limit, err = p.parseLimit()
		if err != nil {
			return nil, nil, nil, end, false, err
		}
		end, ok = limit.Range.End, true
	}
	return orderBy, skip, limit, end, ok, nil
}

func (p *Parser) parseWith() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // WITH
	distinct := p.acceptKeyword("DISTINCT")

	star := false
	var projections []*ast.Node
	end := start
	if t := p.peek(); t.Kind == token.Symbol && t.Text == "*" {
		p.advance()
		star = true
		end = t.Range.End
		if p.acceptSymbol(",") {
			for {
				pr, err := p.parseProjection()
				if err != nil {
					return nil, err
				}
				projections = append(projections, pr)
				end = pr.Range.End
				if !p.acceptSymbol(",") {
					break
				}
			}
		}
	} else {
		for {
			pr, err := p.parseProjection()
			if err != nil {
				return nil, err
			}
			projections = append(projections, pr)
			end = pr.Range.End
			if !p.acceptSymbol(",") {
				break
			}
		}
	}

	var where *ast.Node
	orderBy, skip, limit, tailEnd, tailOK, err := p.parseProjectionTail()
	if err != nil {
		return nil, err
	}
	if tailOK {
		end = tailEnd
	}
	if p.atKeyword("WHERE") {
		where, err = p.parseWhere()
		if err != nil {
			return nil, err
		}
		end = where.Range.End
	}

	return p.builder.NewWith(distinct, star, projections, orderBy, skip, limit, where, input.Range{Start: start, End: end})
}

func (p *Parser) parseReturn() (*ast.Node, error) {
	start := p.peek().Range.Start
	p.advance() // RETURN
	distinct := p.acceptKeyword("DISTINCT")

	star := false
	var projections []*ast.Node
	end := start
	if t := p.peek(); t.Kind == token.Symbol && t.Text == "*" {
		p.advance()
		star = true
		end = t.Range.End
		if p.acceptSymbol(",") {
			for {
				pr, err := p.parseProjection()
				if err != nil {
					return nil, err
				}
				projections = append(projections, pr)
				end = pr.Range.End
				if !p.acceptSymbol(",") {
					break
				}
			}
		}
	} else {
		for {
			pr, err := p.parseProjection()
			if err != nil {
				return nil, err
			}
			projections = append(projections, pr)
			end = pr.Range.End
			if !p.acceptSymbol(",") {
				break
			}
		}
	}

	orderBy, skip, limit, tailEnd, tailOK, err := p.parseProjectionTail()
	if err != nil {
		return nil, err
	}
	if tailOK {
		end = tailEnd
	}

	return p.builder.NewReturn(distinct, star, projections, orderBy, skip, limit, input.Range{Start: start, End: end})
}
