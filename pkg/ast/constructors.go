package ast

import (
	"fmt"
	"strings"

	"github.com/RedisGraph/libcypher-parser/pkg/input"
)

// ----------------------------------------------------------------------------
// Literals and comments — detail string is a verbatim passthrough of the
// unescaped source payload. None of these take reference arguments, so
// there is nothing for checkKinds to validate.

func (b *Builder) NewInteger(text string, rng input.Range) (*Node, error) {
	return b.newNode(KindInteger, nil, nil, rng, text)
}

func (b *Builder) NewFloat(text string, rng input.Range) (*Node, error) {
	return b.newNode(KindFloat, nil, nil, rng, text)
}

func (b *Builder) NewString(text string, quote byte, rng input.Range) (*Node, error) {
	return b.newNode(KindString, nil, nil, rng, text)
}

func (b *Builder) NewTrue(rng input.Range) (*Node, error) {
	return b.newNode(KindTrue, nil, nil, rng, "true")
}

func (b *Builder) NewFalse(rng input.Range) (*Node, error) {
	return b.newNode(KindFalse, nil, nil, rng, "false")
}

func (b *Builder) NewNull(rng input.Range) (*Node, error) {
	return b.newNode(KindNull, nil, nil, rng, "null")
}

func (b *Builder) NewIdentifier(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindIdentifier, nil, nil, rng, name)
}

func (b *Builder) NewParameter(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindParameter, nil, nil, rng, "$"+name)
}

func (b *Builder) NewLabel(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindLabel, nil, nil, rng, ":"+name)
}

func (b *Builder) NewRelType(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindRelType, nil, nil, rng, ":"+name)
}

func (b *Builder) NewPropName(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindPropName, nil, nil, rng, name)
}

func (b *Builder) NewFunctionName(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindFunctionName, nil, nil, rng, name)
}

func (b *Builder) NewLineComment(text string, rng input.Range) (*Node, error) {
	return b.newNode(KindLineComment, nil, nil, rng, "//"+text)
}

func (b *Builder) NewBlockComment(text string, rng input.Range) (*Node, error) {
	return b.newNode(KindBlockComment, nil, nil, rng, "/*"+text+"*/")
}

func (b *Builder) NewError(message string, rng input.Range) (*Node, error) {
	return b.newNode(KindError, nil, nil, rng, message)
}

// ----------------------------------------------------------------------------
// Composite expressions

func (b *Builder) NewMap(keys []string, values []*Node, rng input.Range) (*Node, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("ast: map: %d keys but %d values", len(keys), len(values))
	}
	if err := checkEachKind("MAP", "value", values, kindExpression); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: @%d", k, values[i].Ordinal)
	}
	return b.newNode(KindMap, values, values, rng, "{"+sb.String()+"}")
}

func (b *Builder) NewMapProjectionItem(propertyName string, value *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("MAP_PROJECTION_ITEM", wantKind(value, "value", kindExpression)); err != nil {
		return nil, err
	}
	var children []*Node
	var detail string
	if value != nil {
		children = []*Node{value}
		detail = fmt.Sprintf(".%s: @%d", propertyName, value.Ordinal)
	} else {
		detail = "." + propertyName
	}
	return b.newNode(KindMapProjectionItem, children, children, rng, detail)
}

func (b *Builder) NewMapProjection(subject *Node, items []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("MAP_PROJECTION", wantKind(subject, "subject", kindExpression)); err != nil {
		return nil, err
	}
	if err := checkEachKind("MAP_PROJECTION", "item", items, KindMapProjectionItem); err != nil {
		return nil, err
	}
	children := append([]*Node{subject}, items...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d{", subject.Ordinal)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", item.Ordinal)
	}
	sb.WriteString("}")
	return b.newNode(KindMapProjection, children, children, rng, sb.String())
}

func (b *Builder) NewCollection(elements []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("COLLECTION", "element", elements, kindExpression); err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", e.Ordinal)
	}
	sb.WriteString("]")
	return b.newNode(KindCollection, elements, elements, rng, sb.String())
}

func (b *Builder) NewListComprehension(identifier, expr *Node, predicate, eval *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("LIST_COMPREHENSION",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(expr, "expr", kindExpression),
		wantKind(predicate, "predicate", kindExpression),
		wantKind(eval, "eval", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, expr}
	if predicate != nil {
		children = append(children, predicate)
	}
	if eval != nil {
		children = append(children, eval)
	}
	detail := fmt.Sprintf("@%d IN @%d", identifier.Ordinal, expr.Ordinal)
	if predicate != nil {
		detail += fmt.Sprintf(" WHERE @%d", predicate.Ordinal)
	}
	if eval != nil {
		detail += fmt.Sprintf(" | @%d", eval.Ordinal)
	}
	return b.newNode(KindListComprehension, children, children, rng, detail)
}

func (b *Builder) NewPatternComprehension(path *Node, predicate, eval *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("PATTERN_COMPREHENSION",
		wantKind(path, "path", KindPatternPath),
		wantKind(predicate, "predicate", kindExpression),
		wantKind(eval, "eval", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{path}
	if predicate != nil {
		children = append(children, predicate)
	}
	children = append(children, eval)
	detail := fmt.Sprintf("@%d", path.Ordinal)
	if predicate != nil {
		detail += fmt.Sprintf(" WHERE @%d", predicate.Ordinal)
	}
	detail += fmt.Sprintf(" | @%d", eval.Ordinal)
	return b.newNode(KindPatternComprehension, children, children, rng, detail)
}

func (b *Builder) NewCaseAlternative(when, then *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CASE_ALTERNATIVE",
		wantKind(when, "when", kindExpression),
		wantKind(then, "then", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{when, then}
	return b.newNode(KindCaseAlternative, children, children, rng,
		fmt.Sprintf("WHEN @%d THEN @%d", when.Ordinal, then.Ordinal))
}

func (b *Builder) NewCase(expr *Node, alternatives []*Node, deflt *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CASE",
		wantKind(expr, "expr", kindExpression),
		wantKind(deflt, "default", kindExpression),
	); err != nil {
		return nil, err
	}
	if err := checkEachKind("CASE", "alternative", alternatives, KindCaseAlternative); err != nil {
		return nil, err
	}
	var children []*Node
	var sb strings.Builder
	if expr != nil {
		children = append(children, expr)
		fmt.Fprintf(&sb, "@%d ", expr.Ordinal)
	}
	for _, alt := range alternatives {
		children = append(children, alt)
		fmt.Fprintf(&sb, "@%d ", alt.Ordinal)
	}
	if deflt != nil {
		children = append(children, deflt)
		fmt.Fprintf(&sb, "ELSE @%d", deflt.Ordinal)
	}
	return b.newNode(KindCase, children, children, rng, strings.TrimRight(sb.String(), " "))
}

func (b *Builder) newWithPredicate(kind Kind, ctor string, identifier, expr, predicate *Node, rng input.Range) (*Node, error) {
	if err := checkKinds(ctor,
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(expr, "expr", kindExpression),
		wantKind(predicate, "predicate", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, expr}
	detail := fmt.Sprintf("@%d IN @%d", identifier.Ordinal, expr.Ordinal)
	if predicate != nil {
		children = append(children, predicate)
		detail += fmt.Sprintf(" WHERE @%d", predicate.Ordinal)
	}
	return b.newNode(kind, children, children, rng, detail)
}

func (b *Builder) NewAll(identifier, expr, predicate *Node, rng input.Range) (*Node, error) {
	return b.newWithPredicate(KindAll, "ALL", identifier, expr, predicate, rng)
}

func (b *Builder) NewAny(identifier, expr, predicate *Node, rng input.Range) (*Node, error) {
	return b.newWithPredicate(KindAny, "ANY", identifier, expr, predicate, rng)
}

func (b *Builder) NewSingle(identifier, expr, predicate *Node, rng input.Range) (*Node, error) {
	return b.newWithPredicate(KindSingle, "SINGLE", identifier, expr, predicate, rng)
}

func (b *Builder) NewNone(identifier, expr, predicate *Node, rng input.Range) (*Node, error) {
	return b.newWithPredicate(KindNone, "NONE", identifier, expr, predicate, rng)
}

func (b *Builder) NewFilter(identifier, expr, predicate *Node, rng input.Range) (*Node, error) {
	return b.newWithPredicate(KindFilter, "FILTER", identifier, expr, predicate, rng)
}

func (b *Builder) NewExtract(identifier, expr, predicate, eval *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("EXTRACT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(expr, "expr", kindExpression),
		wantKind(predicate, "predicate", kindExpression),
		wantKind(eval, "eval", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, expr}
	detail := fmt.Sprintf("@%d IN @%d", identifier.Ordinal, expr.Ordinal)
	if predicate != nil {
		children = append(children, predicate)
		detail += fmt.Sprintf(" WHERE @%d", predicate.Ordinal)
	}
	children = append(children, eval)
	detail += fmt.Sprintf(" | @%d", eval.Ordinal)
	return b.newNode(KindExtract, children, children, rng, detail)
}

func (b *Builder) NewReduce(accumulator, init, identifier, expr, eval *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("REDUCE",
		wantKind(accumulator, "accumulator", KindIdentifier),
		wantKind(init, "init", kindExpression),
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(expr, "expr", kindExpression),
		wantKind(eval, "eval", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{accumulator, init, identifier, expr, eval}
	detail := fmt.Sprintf("@%d = @%d, @%d IN @%d | @%d",
		accumulator.Ordinal, init.Ordinal, identifier.Ordinal, expr.Ordinal, eval.Ordinal)
	return b.newNode(KindReduce, children, children, rng, detail)
}

// ----------------------------------------------------------------------------
// Operators

func (b *Builder) NewUnaryOperator(op string, operand *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("UNARY_OPERATOR", wantKind(operand, "operand", kindExpression)); err != nil {
		return nil, err
	}
	children := []*Node{operand}
	return b.newNode(KindUnaryOperator, children, children, rng,
		fmt.Sprintf("%s@%d", op, operand.Ordinal))
}

func (b *Builder) NewBinaryOperator(op string, lhs, rhs *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("BINARY_OPERATOR",
		wantKind(lhs, "lhs", kindExpression),
		wantKind(rhs, "rhs", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{lhs, rhs}
	return b.newNode(KindBinaryOperator, children, children, rng,
		fmt.Sprintf("@%d %s @%d", lhs.Ordinal, op, rhs.Ordinal))
}

func (b *Builder) NewComparison(ops []string, operands []*Node, rng input.Range) (*Node, error) {
	if len(operands) != len(ops)+1 {
		return nil, fmt.Errorf("ast: comparison: %d operands for %d operators", len(operands), len(ops))
	}
	if err := checkEachKind("COMPARISON", "operand", operands, kindExpression); err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d", operands[0].Ordinal)
	for i, op := range ops {
		fmt.Fprintf(&sb, " %s @%d", op, operands[i+1].Ordinal)
	}
	return b.newNode(KindComparison, operands, operands, rng, sb.String())
}

func (b *Builder) NewStringMatch(op string, lhs, rhs *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("STRING_MATCH",
		wantKind(lhs, "lhs", kindExpression),
		wantKind(rhs, "rhs", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{lhs, rhs}
	return b.newNode(KindStringMatch, children, children, rng,
		fmt.Sprintf("@%d %s @%d", lhs.Ordinal, op, rhs.Ordinal))
}

func (b *Builder) NewSubscript(subject, index *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("SUBSCRIPT",
		wantKind(subject, "subject", kindExpression),
		wantKind(index, "index", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{subject, index}
	return b.newNode(KindSubscript, children, children, rng,
		fmt.Sprintf("@%d[@%d]", subject.Ordinal, index.Ordinal))
}

func (b *Builder) NewSlice(subject, from, to *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("SLICE",
		wantKind(subject, "subject", kindExpression),
		wantKind(from, "from", kindExpression),
		wantKind(to, "to", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{subject}
	detail := fmt.Sprintf("@%d[", subject.Ordinal)
	if from != nil {
		children = append(children, from)
		detail += fmt.Sprintf("@%d", from.Ordinal)
	}
	detail += ".."
	if to != nil {
		children = append(children, to)
		detail += fmt.Sprintf("@%d", to.Ordinal)
	}
	detail += "]"
	return b.newNode(KindSlice, children, children, rng, detail)
}

func (b *Builder) NewApplyOperator(funcName *Node, distinct bool, args []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("APPLY_OPERATOR", wantKind(funcName, "funcName", KindFunctionName)); err != nil {
		return nil, err
	}
	if err := checkEachKind("APPLY_OPERATOR", "arg", args, kindExpression); err != nil {
		return nil, err
	}
	children := append([]*Node{funcName}, args...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d(", funcName.Ordinal)
	if distinct {
		sb.WriteString("DISTINCT ")
	}
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", a.Ordinal)
	}
	sb.WriteString(")")
	return b.newNode(KindApplyOperator, children, children, rng, sb.String())
}

func (b *Builder) NewApplyAllOperator(funcName *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("APPLY_ALL_OPERATOR", wantKind(funcName, "funcName", KindFunctionName)); err != nil {
		return nil, err
	}
	children := []*Node{funcName}
	return b.newNode(KindApplyAllOperator, children, children, rng,
		fmt.Sprintf("@%d(*)", funcName.Ordinal))
}

func (b *Builder) NewPropertyOperator(subject, propName *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("PROPERTY_OPERATOR",
		wantKind(subject, "subject", kindExpression),
		wantKind(propName, "propName", KindPropName),
	); err != nil {
		return nil, err
	}
	children := []*Node{subject, propName}
	return b.newNode(KindPropertyOperator, children, children, rng,
		fmt.Sprintf("@%d.@%d", subject.Ordinal, propName.Ordinal))
}

func (b *Builder) NewLabelsOperator(subject *Node, labels []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("LABELS_OPERATOR", wantKind(subject, "subject", kindExpression)); err != nil {
		return nil, err
	}
	if err := checkEachKind("LABELS_OPERATOR", "label", labels, KindLabel); err != nil {
		return nil, err
	}
	children := append([]*Node{subject}, labels...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d", subject.Ordinal)
	for _, l := range labels {
		fmt.Fprintf(&sb, ":@%d", l.Ordinal)
	}
	return b.newNode(KindLabelsOperator, children, children, rng, sb.String())
}

// ----------------------------------------------------------------------------
// Patterns

func (b *Builder) NewRange(from, to *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("RANGE",
		wantKind(from, "from", KindInteger),
		wantKind(to, "to", KindInteger),
	); err != nil {
		return nil, err
	}
	var children []*Node
	detail := "*"
	if from != nil {
		children = append(children, from)
		detail += fmt.Sprintf("@%d", from.Ordinal)
	}
	detail += ".."
	if to != nil {
		children = append(children, to)
		detail += fmt.Sprintf("@%d", to.Ordinal)
	}
	return b.newNode(KindRange, children, children, rng, detail)
}

func (b *Builder) NewNodePattern(identifier *Node, labels []*Node, properties *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("NODE_PATTERN",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(properties, "properties", kindExpression),
	); err != nil {
		return nil, err
	}
	if err := checkEachKind("NODE_PATTERN", "label", labels, KindLabel); err != nil {
		return nil, err
	}
	var children []*Node
	var sb strings.Builder
	sb.WriteString("(")
	if identifier != nil {
		children = append(children, identifier)
		fmt.Fprintf(&sb, "@%d", identifier.Ordinal)
	}
	for _, l := range labels {
		children = append(children, l)
		fmt.Fprintf(&sb, ":@%d", l.Ordinal)
	}
	if properties != nil {
		children = append(children, properties)
		fmt.Fprintf(&sb, " @%d", properties.Ordinal)
	}
	sb.WriteString(")")
	return b.newNode(KindNodePattern, children, children, rng, sb.String())
}

func (b *Builder) NewRelPattern(identifier *Node, reltypes []*Node, properties, rnge *Node, direction string, rng input.Range) (*Node, error) {
	if err := checkKinds("REL_PATTERN",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(properties, "properties", kindExpression),
		wantKind(rnge, "range", KindRange),
	); err != nil {
		return nil, err
	}
	if err := checkEachKind("REL_PATTERN", "reltype", reltypes, KindRelType); err != nil {
		return nil, err
	}
	var children []*Node
	var sb strings.Builder
	sb.WriteString("[")
	if identifier != nil {
		children = append(children, identifier)
		fmt.Fprintf(&sb, "@%d", identifier.Ordinal)
	}
	for i, rt := range reltypes {
		children = append(children, rt)
		if i == 0 {
			fmt.Fprintf(&sb, ":@%d", rt.Ordinal)
		} else {
			fmt.Fprintf(&sb, "|@%d", rt.Ordinal)
		}
	}
	if rnge != nil {
		children = append(children, rnge)
		fmt.Fprintf(&sb, "@%d", rnge.Ordinal)
	}
	if properties != nil {
		children = append(children, properties)
		fmt.Fprintf(&sb, " @%d", properties.Ordinal)
	}
	sb.WriteString("]")
	sb.WriteString(direction)
	return b.newNode(KindRelPattern, children, children, rng, sb.String())
}

func (b *Builder) NewPatternPath(elements []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("PATTERN_PATH", "element", elements, KindNodePattern, KindRelPattern); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, e := range elements {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "@%d", e.Ordinal)
	}
	return b.newNode(KindPatternPath, elements, elements, rng, sb.String())
}

func (b *Builder) NewPattern(paths []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("PATTERN", "path", paths, KindPatternPath); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, p := range paths {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", p.Ordinal)
	}
	return b.newNode(KindPattern, paths, paths, rng, sb.String())
}

// ----------------------------------------------------------------------------
// Clauses

// updatingClauseKinds are the statement kinds FOREACH admits in its body
// (mirroring parser.updatingClauseStartKeywords).
var updatingClauseKinds = []Kind{KindCreate, KindMerge, KindDelete, KindSet, KindRemove, KindForeach}

// queryBodyKinds are every clause kind parseClause can produce, plus the
// UNION marker parseQuery splices between single queries.
var queryBodyKinds = []Kind{
	KindMatch, KindCreate, KindCreateNodePropIndex, KindDropNodePropIndex,
	KindCreateNodePropConstraint, KindDropNodePropConstraint,
	KindCreateUniqueNodePropConstraint, KindDropUniqueNodePropConstraint,
	KindCreateRelPropConstraint, KindDropRelPropConstraint,
	KindDelete, KindSet, KindRemove, KindMerge, KindLoadCSV, KindStart,
	KindCall, KindReturn, KindUnwind, KindForeach, KindWith, KindUnion,
}

func (b *Builder) NewMatch(optional bool, pattern *Node, hints []*Node, where *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("MATCH",
		wantKind(pattern, "pattern", KindPattern),
		wantKind(where, "where", KindWhere),
	); err != nil {
		return nil, err
	}
	if err := checkEachKind("MATCH", "hint", hints, KindMatchHint); err != nil {
		return nil, err
	}
	children := []*Node{pattern}
	children = append(children, hints...)
	var sb strings.Builder
	if optional {
		sb.WriteString("OPTIONAL ")
	}
	fmt.Fprintf(&sb, "@%d", pattern.Ordinal)
	for _, h := range hints {
		fmt.Fprintf(&sb, " @%d", h.Ordinal)
	}
	if where != nil {
		children = append(children, where)
		fmt.Fprintf(&sb, " WHERE @%d", where.Ordinal)
	}
	return b.newNode(KindMatch, children, children, rng, sb.String())
}

// NewMatchHint's index slot is USING SCAN/INDEX's target: a bare label
// (USING SCAN n:Label) or a property name once "(prop)" narrows it to an
// index lookup (USING INDEX n:Label(prop)) — see parseMatchHint.
func (b *Builder) NewMatchHint(identifiers []*Node, index *Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("MATCH_HINT", "identifier", identifiers, KindIdentifier); err != nil {
		return nil, err
	}
	if err := checkKinds("MATCH_HINT", wantKind(index, "index", KindLabel, KindPropName)); err != nil {
		return nil, err
	}
	children := append([]*Node(nil), identifiers...)
	var sb strings.Builder
	sb.WriteString("USING JOIN ON ")
	for i, id := range identifiers {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", id.Ordinal)
	}
	if index != nil {
		children = append(children, index)
		fmt.Fprintf(&sb, " USING INDEX @%d", index.Ordinal)
	}
	return b.newNode(KindMatchHint, children, children, rng, sb.String())
}

func (b *Builder) NewWhere(expr *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("WHERE", wantKind(expr, "expr", kindExpression)); err != nil {
		return nil, err
	}
	children := []*Node{expr}
	return b.newNode(KindWhere, children, children, rng, fmt.Sprintf("@%d", expr.Ordinal))
}

func (b *Builder) NewCreate(pattern *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CREATE", wantKind(pattern, "pattern", KindPattern)); err != nil {
		return nil, err
	}
	children := []*Node{pattern}
	return b.newNode(KindCreate, children, children, rng, fmt.Sprintf("@%d", pattern.Ordinal))
}

func (b *Builder) NewSetItem(target, value *Node, plusEquals bool, rng input.Range) (*Node, error) {
	if err := checkKinds("SET_ITEM",
		wantKind(target, "target", kindExpression),
		wantKind(value, "value", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{target, value}
	op := "="
	if plusEquals {
		op = "+="
	}
	return b.newNode(KindSetItem, children, children, rng,
		fmt.Sprintf("@%d %s @%d", target.Ordinal, op, value.Ordinal))
}

func (b *Builder) NewSet(items []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("SET", "item", items, KindSetItem); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", it.Ordinal)
	}
	return b.newNode(KindSet, items, items, rng, sb.String())
}

func (b *Builder) NewDelete(detach bool, expressions []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("DELETE", "expression", expressions, kindExpression); err != nil {
		return nil, err
	}
	var sb strings.Builder
	if detach {
		sb.WriteString("DETACH ")
	}
	for i, e := range expressions {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", e.Ordinal)
	}
	return b.newNode(KindDelete, expressions, expressions, rng, sb.String())
}

func (b *Builder) NewRemoveItem(target *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("REMOVE_ITEM", wantKind(target, "target", kindExpression)); err != nil {
		return nil, err
	}
	children := []*Node{target}
	return b.newNode(KindRemoveItem, children, children, rng, fmt.Sprintf("@%d", target.Ordinal))
}

func (b *Builder) NewRemove(items []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("REMOVE", "item", items, KindRemoveItem); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", it.Ordinal)
	}
	return b.newNode(KindRemove, items, items, rng, sb.String())
}

func (b *Builder) NewMergeAction(onMatch bool, set *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("MERGE_ACTION", wantKind(set, "set", KindSet)); err != nil {
		return nil, err
	}
	children := []*Node{set}
	verb := "ON CREATE"
	if onMatch {
		verb = "ON MATCH"
	}
	return b.newNode(KindMergeAction, children, children, rng, fmt.Sprintf("%s @%d", verb, set.Ordinal))
}

func (b *Builder) NewMerge(path *Node, actions []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("MERGE", wantKind(path, "path", KindPatternPath)); err != nil {
		return nil, err
	}
	if err := checkEachKind("MERGE", "action", actions, KindMergeAction); err != nil {
		return nil, err
	}
	children := append([]*Node{path}, actions...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d", path.Ordinal)
	for _, a := range actions {
		fmt.Fprintf(&sb, " @%d", a.Ordinal)
	}
	return b.newNode(KindMerge, children, children, rng, sb.String())
}

func (b *Builder) NewUnwind(expr, alias *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("UNWIND",
		wantKind(expr, "expr", kindExpression),
		wantKind(alias, "alias", KindIdentifier),
	); err != nil {
		return nil, err
	}
	children := []*Node{expr, alias}
	return b.newNode(KindUnwind, children, children, rng,
		fmt.Sprintf("@%d AS @%d", expr.Ordinal, alias.Ordinal))
}

func (b *Builder) NewForeach(identifier, expr *Node, clauses []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("FOREACH",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(expr, "expr", kindExpression),
	); err != nil {
		return nil, err
	}
	if err := checkEachKind("FOREACH", "clause", clauses, updatingClauseKinds...); err != nil {
		return nil, err
	}
	children := append([]*Node{identifier, expr}, clauses...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d IN @%d |", identifier.Ordinal, expr.Ordinal)
	for _, c := range clauses {
		fmt.Fprintf(&sb, " @%d", c.Ordinal)
	}
	return b.newNode(KindForeach, children, children, rng, sb.String())
}

func (b *Builder) NewLoadCSV(withHeaders bool, url, alias *Node, fieldTerminator *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("LOAD_CSV",
		wantKind(url, "url", kindExpression),
		wantKind(alias, "alias", KindIdentifier),
		wantKind(fieldTerminator, "fieldTerminator", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{url, alias}
	var sb strings.Builder
	if withHeaders {
		sb.WriteString("WITH HEADERS ")
	}
	fmt.Fprintf(&sb, "FROM @%d AS @%d", url.Ordinal, alias.Ordinal)
	if fieldTerminator != nil {
		children = append(children, fieldTerminator)
		fmt.Fprintf(&sb, " FIELDTERMINATOR @%d", fieldTerminator.Ordinal)
	}
	return b.newNode(KindLoadCSV, children, children, rng, sb.String())
}

func (b *Builder) NewStartPoint(identifier *Node, description string, args []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("START_POINT", wantKind(identifier, "identifier", KindIdentifier)); err != nil {
		return nil, err
	}
	if err := checkEachKind("START_POINT", "arg", args, kindExpression); err != nil {
		return nil, err
	}
	children := append([]*Node{identifier}, args...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d = %s(", identifier.Ordinal, description)
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", a.Ordinal)
	}
	sb.WriteString(")")
	return b.newNode(KindStartPoint, children, children, rng, sb.String())
}

func (b *Builder) NewStart(points []*Node, where *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("START", wantKind(where, "where", KindWhere)); err != nil {
		return nil, err
	}
	if err := checkEachKind("START", "point", points, KindStartPoint); err != nil {
		return nil, err
	}
	children := append([]*Node(nil), points...)
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", p.Ordinal)
	}
	if where != nil {
		children = append(children, where)
		fmt.Fprintf(&sb, " WHERE @%d", where.Ordinal)
	}
	return b.newNode(KindStart, children, children, rng, sb.String())
}

func (b *Builder) NewYield(items []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("YIELD", "item", items, KindIdentifier); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", it.Ordinal)
	}
	return b.newNode(KindYield, items, items, rng, sb.String())
}

func (b *Builder) NewCall(procName *Node, args []*Node, yield *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CALL",
		wantKind(procName, "procName", KindFunctionName),
		wantKind(yield, "yield", KindYield),
	); err != nil {
		return nil, err
	}
	if err := checkEachKind("CALL", "arg", args, kindExpression); err != nil {
		return nil, err
	}
	children := append([]*Node{procName}, args...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d(", procName.Ordinal)
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", a.Ordinal)
	}
	sb.WriteString(")")
	if yield != nil {
		children = append(children, yield)
		fmt.Fprintf(&sb, " YIELD @%d", yield.Ordinal)
	}
	return b.newNode(KindCall, children, children, rng, sb.String())
}

func (b *Builder) NewSortItem(expr *Node, descending bool, rng input.Range) (*Node, error) {
	if err := checkKinds("SORT_ITEM", wantKind(expr, "expr", kindExpression)); err != nil {
		return nil, err
	}
	children := []*Node{expr}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	return b.newNode(KindSortItem, children, children, rng, fmt.Sprintf("@%d %s", expr.Ordinal, dir))
}

func (b *Builder) NewOrderBy(items []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("ORDER_BY", "item", items, KindSortItem); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", it.Ordinal)
	}
	return b.newNode(KindOrderBy, items, items, rng, sb.String())
}

func (b *Builder) NewSkip(expr *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("SKIP", wantKind(expr, "expr", kindExpression)); err != nil {
		return nil, err
	}
	children := []*Node{expr}
	return b.newNode(KindSkip, children, children, rng, fmt.Sprintf("@%d", expr.Ordinal))
}

func (b *Builder) NewLimit(expr *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("LIMIT", wantKind(expr, "expr", kindExpression)); err != nil {
		return nil, err
	}
	children := []*Node{expr}
	return b.newNode(KindLimit, children, children, rng, fmt.Sprintf("@%d", expr.Ordinal))
}

func (b *Builder) NewProjection(expr, alias *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("PROJECTION",
		wantKind(expr, "expr", kindExpression),
		wantKind(alias, "alias", KindIdentifier),
	); err != nil {
		return nil, err
	}
	children := []*Node{expr}
	detail := fmt.Sprintf("@%d", expr.Ordinal)
	if alias != nil {
		children = append(children, alias)
		detail += fmt.Sprintf(" AS @%d", alias.Ordinal)
	}
	return b.newNode(KindProjection, children, children, rng, detail)
}

// checkProjectionTail holds the checks shared by NewWith and NewReturn's
// ORDER BY / SKIP / LIMIT (/ WHERE) tail.
func checkProjectionTail(ctor string, projections []*Node, orderBy, skip, limit, where *Node) error {
	if err := checkEachKind(ctor, "projection", projections, KindProjection); err != nil {
		return err
	}
	return checkKinds(ctor,
		wantKind(orderBy, "orderBy", KindOrderBy),
		wantKind(skip, "skip", KindSkip),
		wantKind(limit, "limit", KindLimit),
		wantKind(where, "where", KindWhere),
	)
}

func (b *Builder) NewWith(distinct, star bool, projections []*Node, orderBy, skip, limit, where *Node, rng input.Range) (*Node, error) {
	if err := checkProjectionTail("WITH", projections, orderBy, skip, limit, where); err != nil {
		return nil, err
	}
	var children []*Node
	var sb strings.Builder
	if distinct {
		sb.WriteString("DISTINCT ")
	}
	if star {
		sb.WriteString("*")
		if len(projections) > 0 {
			sb.WriteString(", ")
		}
	}
	for i, p := range projections {
		children = append(children, p)
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", p.Ordinal)
	}
	for _, extra := range []*Node{orderBy, skip, limit, where} {
		if extra != nil {
			children = append(children, extra)
			fmt.Fprintf(&sb, " @%d", extra.Ordinal)
		}
	}
	return b.newNode(KindWith, children, children, rng, sb.String())
}

func (b *Builder) NewReturn(distinct, star bool, projections []*Node, orderBy, skip, limit *Node, rng input.Range) (*Node, error) {
	if err := checkProjectionTail("RETURN", projections, orderBy, skip, limit, nil); err != nil {
		return nil, err
	}
	var children []*Node
	var sb strings.Builder
	if distinct {
		sb.WriteString("DISTINCT ")
	}
	if star {
		sb.WriteString("*")
		if len(projections) > 0 {
			sb.WriteString(", ")
		}
	}
	for i, p := range projections {
		children = append(children, p)
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "@%d", p.Ordinal)
	}
	for _, extra := range []*Node{orderBy, skip, limit} {
		if extra != nil {
			children = append(children, extra)
			fmt.Fprintf(&sb, " @%d", extra.Ordinal)
		}
	}
	return b.newNode(KindReturn, children, children, rng, sb.String())
}

func (b *Builder) NewUnion(all bool, rng input.Range) (*Node, error) {
	detail := "UNION"
	if all {
		detail += " ALL"
	}
	return b.newNode(KindUnion, nil, nil, rng, detail)
}

func (b *Builder) NewQuery(clauses []*Node, rng input.Range) (*Node, error) {
	if err := checkEachKind("QUERY", "clause", clauses, queryBodyKinds...); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, c := range clauses {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "@%d", c.Ordinal)
	}
	return b.newNode(KindQuery, clauses, clauses, rng, sb.String())
}

func (b *Builder) NewCommandName(name string, rng input.Range) (*Node, error) {
	return b.newNode(KindCommandName, nil, nil, rng, name)
}

func (b *Builder) NewCommand(name *Node, args []*Node, rng input.Range) (*Node, error) {
	if err := checkKinds("COMMAND", wantKind(name, "name", KindCommandName)); err != nil {
		return nil, err
	}
	if err := checkEachKind("COMMAND", "arg", args, kindExpression); err != nil {
		return nil, err
	}
	children := append([]*Node{name}, args...)
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%d", name.Ordinal)
	for _, a := range args {
		fmt.Fprintf(&sb, " @%d", a.Ordinal)
	}
	return b.newNode(KindCommand, children, children, rng, sb.String())
}

func (b *Builder) NewStatement(body *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("STATEMENT", wantKind(body, "body", KindQuery, KindCommand)); err != nil {
		return nil, err
	}
	children := []*Node{body}
	return b.newNode(KindStatement, children, children, rng, fmt.Sprintf("@%d", body.Ordinal))
}

// ----------------------------------------------------------------------------
// Schema commands — detailstr formats for the constraint kinds are
// grounded verbatim (unique-node case) or by structural analogy (the
// other five) on ast_create_unique_constraint.c's
// "ON=(@%u:@%u), IS UNIQUE=(@%u)".

// NewCreateNodePropIndex models "CREATE INDEX ON :Label(prop)", which
// (unlike the constraint commands) binds no variable.
func (b *Builder) NewCreateNodePropIndex(label, propName *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CREATE_NODE_PROP_INDEX",
		wantKind(label, "label", KindLabel),
		wantKind(propName, "propName", KindPropName),
	); err != nil {
		return nil, err
	}
	children := []*Node{label, propName}
	return b.newNode(KindCreateNodePropIndex, children, children, rng,
		fmt.Sprintf("ON=(:@%d), (@%d)", label.Ordinal, propName.Ordinal))
}

func (b *Builder) NewDropNodePropIndex(label, propName *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("DROP_NODE_PROP_INDEX",
		wantKind(label, "label", KindLabel),
		wantKind(propName, "propName", KindPropName),
	); err != nil {
		return nil, err
	}
	children := []*Node{label, propName}
	return b.newNode(KindDropNodePropIndex, children, children, rng,
		fmt.Sprintf("ON=(:@%d), (@%d)", label.Ordinal, propName.Ordinal))
}

func (b *Builder) NewCreateNodePropConstraint(identifier, label, expression *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CREATE_NODE_PROP_CONSTRAINT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(label, "label", KindLabel),
		wantKind(expression, "expression", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, label, expression}
	return b.newNode(KindCreateNodePropConstraint, children, children, rng,
		fmt.Sprintf("ON=(@%d:@%d), ASSERT=(@%d)", identifier.Ordinal, label.Ordinal, expression.Ordinal))
}

func (b *Builder) NewDropNodePropConstraint(identifier, label, expression *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("DROP_NODE_PROP_CONSTRAINT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(label, "label", KindLabel),
		wantKind(expression, "expression", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, label, expression}
	return b.newNode(KindDropNodePropConstraint, children, children, rng,
		fmt.Sprintf("ON=(@%d:@%d), ASSERT=(@%d)", identifier.Ordinal, label.Ordinal, expression.Ordinal))
}

func (b *Builder) NewCreateUniqueNodePropConstraint(identifier, label, expression *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CREATE_UNIQUE_NODE_PROP_CONSTRAINT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(label, "label", KindLabel),
		wantKind(expression, "expression", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, label, expression}
	return b.newNode(KindCreateUniqueNodePropConstraint, children, children, rng,
		fmt.Sprintf("ON=(@%d:@%d), IS UNIQUE=(@%d)", identifier.Ordinal, label.Ordinal, expression.Ordinal))
}

func (b *Builder) NewDropUniqueNodePropConstraint(identifier, label, expression *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("DROP_UNIQUE_NODE_PROP_CONSTRAINT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(label, "label", KindLabel),
		wantKind(expression, "expression", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, label, expression}
	return b.newNode(KindDropUniqueNodePropConstraint, children, children, rng,
		fmt.Sprintf("ON=(@%d:@%d), IS UNIQUE=(@%d)", identifier.Ordinal, label.Ordinal, expression.Ordinal))
}

func (b *Builder) NewCreateRelPropConstraint(identifier, relType, expression *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("CREATE_REL_PROP_CONSTRAINT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(relType, "relType", KindRelType),
		wantKind(expression, "expression", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, relType, expression}
	return b.newNode(KindCreateRelPropConstraint, children, children, rng,
		fmt.Sprintf("ON=()-[@%d:@%d]-(), ASSERT=(@%d)", identifier.Ordinal, relType.Ordinal, expression.Ordinal))
}

func (b *Builder) NewDropRelPropConstraint(identifier, relType, expression *Node, rng input.Range) (*Node, error) {
	if err := checkKinds("DROP_REL_PROP_CONSTRAINT",
		wantKind(identifier, "identifier", KindIdentifier),
		wantKind(relType, "relType", KindRelType),
		wantKind(expression, "expression", kindExpression),
	); err != nil {
		return nil, err
	}
	children := []*Node{identifier, relType, expression}
	return b.newNode(KindDropRelPropConstraint, children, children, rng,
		fmt.Sprintf("ON=()-[@%d:@%d]-(), ASSERT=(@%d)", identifier.Ordinal, relType.Ordinal, expression.Ordinal))
}
