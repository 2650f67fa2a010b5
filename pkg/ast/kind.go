// Package ast defines the Cypher AST node model: a closed set of node
// kinds arranged in a kind-parent hierarchy, a Node type carrying a
// precomputed detail string and ordinal, and one constructor per grammar
// production.
package ast

// Kind tags the variant an AST Node holds. The set is closed and static;
// new productions get a new Kind plus a constructor, never a reuse of an
// existing one with a different payload shape.
type Kind int

const (
	KindError Kind = iota

	// Directives
	KindStatement
	KindCommand
	KindCommandName

	// Query structure
	KindQuery
	KindUnion
	KindWith
	KindMatch
	KindMatchHint
	KindCreate
	KindDelete
	KindSet
	KindSetItem
	KindRemove
	KindRemoveItem
	KindMerge
	KindMergeAction
	KindLoadCSV
	KindStart
	KindStartPoint
	KindCall
	KindReturn
	KindProjection
	KindOrderBy
	KindSortItem
	KindSkip
	KindLimit
	KindUnwind
	KindForeach
	KindWhere
	KindYield

	// Patterns
	KindPattern
	KindPatternPath
	KindNodePattern
	KindRelPattern
	KindRange
	KindLabelsOperator
	KindPropertyOperator
	KindLabel
	KindRelType
	KindPropName
	KindFunctionName

	// Leaf expressions
	KindIdentifier
	KindParameter
	KindInteger
	KindFloat
	KindString
	KindBoolean
	KindTrue
	KindFalse
	KindNull

	// Composite expressions
	KindMap
	KindMapProjection
	KindMapProjectionItem
	KindCollection
	KindListComprehension
	KindPatternComprehension
	KindCase
	KindCaseAlternative
	KindFilter
	KindExtract
	KindReduce
	KindAll
	KindAny
	KindSingle
	KindNone
	KindBinaryOperator
	KindUnaryOperator
	KindComparison
	KindStringMatch
	KindSubscript
	KindSlice
	KindApplyOperator
	KindApplyAllOperator

	// Comments
	KindLineComment
	KindBlockComment

	// Schema / index / constraint commands
	KindCreateNodePropIndex
	KindDropNodePropIndex
	KindCreateNodePropConstraint
	KindDropNodePropConstraint
	KindCreateUniqueNodePropConstraint
	KindDropUniqueNodePropConstraint
	KindCreateRelPropConstraint
	KindDropRelPropConstraint

	numKinds
)

var kindNames = [numKinds]string{
	KindError:                           "ERROR",
	KindStatement:                       "STATEMENT",
	KindCommand:                         "COMMAND",
	KindCommandName:                     "COMMAND_NAME",
	KindQuery:                           "QUERY",
	KindUnion:                           "UNION",
	KindWith:                            "WITH",
	KindMatch:                           "MATCH",
	KindMatchHint:                       "MATCH_HINT",
	KindCreate:                          "CREATE",
	KindDelete:                          "DELETE",
	KindSet:                             "SET",
	KindSetItem:                         "SET_ITEM",
	KindRemove:                          "REMOVE",
	KindRemoveItem:                      "REMOVE_ITEM",
	KindMerge:                           "MERGE",
	KindMergeAction:                     "MERGE_ACTION",
	KindLoadCSV:                         "LOAD_CSV",
	KindStart:                           "START",
	KindStartPoint:                      "START_POINT",
	KindCall:                            "CALL",
	KindReturn:                          "RETURN",
	KindProjection:                      "PROJECTION",
	KindOrderBy:                         "ORDER_BY",
	KindSortItem:                        "SORT_ITEM",
	KindSkip:                            "SKIP",
	KindLimit:                           "LIMIT",
	KindUnwind:                          "UNWIND",
	KindForeach:                         "FOREACH",
	KindWhere:                           "WHERE",
	KindYield:                           "YIELD",
	KindPattern:                         "PATTERN",
	KindPatternPath:                     "PATTERN_PATH",
	KindNodePattern:                     "NODE_PATTERN",
	KindRelPattern:                      "REL_PATTERN",
	KindRange:                           "RANGE",
	KindLabelsOperator:                  "LABELS_OPERATOR",
	KindPropertyOperator:                "PROPERTY_OPERATOR",
	KindLabel:                           "LABEL",
	KindRelType:                         "RELTYPE",
	KindPropName:                        "PROP_NAME",
	KindFunctionName:                    "FUNCTION_NAME",
	KindIdentifier:                      "IDENTIFIER",
	KindParameter:                       "PARAMETER",
	KindInteger:                         "INTEGER",
	KindFloat:                           "FLOAT",
	KindString:                          "STRING",
	KindBoolean:                         "BOOLEAN",
	KindTrue:                            "TRUE",
	KindFalse:                           "FALSE",
	KindNull:                            "NULL",
	KindMap:                             "MAP",
	KindMapProjection:                   "MAP_PROJECTION",
	KindMapProjectionItem:               "MAP_PROJECTION_ITEM",
	KindCollection:                      "COLLECTION",
	KindListComprehension:               "LIST_COMPREHENSION",
	KindPatternComprehension:            "PATTERN_COMPREHENSION",
	KindCase:                            "CASE",
	KindCaseAlternative:                 "CASE_ALTERNATIVE",
	KindFilter:                          "FILTER",
	KindExtract:                         "EXTRACT",
	KindReduce:                          "REDUCE",
	KindAll:                             "ALL",
	KindAny:                             "ANY",
	KindSingle:                          "SINGLE",
	KindNone:                            "NONE",
	KindBinaryOperator:                  "BINARY_OPERATOR",
	KindUnaryOperator:                   "UNARY_OPERATOR",
	KindComparison:                      "COMPARISON",
	KindStringMatch:                     "STRING_MATCH",
	KindSubscript:                       "SUBSCRIPT",
	KindSlice:                           "SLICE",
	KindApplyOperator:                   "APPLY_OPERATOR",
	KindApplyAllOperator:                "APPLY_ALL_OPERATOR",
	KindLineComment:                     "LINE_COMMENT",
	KindBlockComment:                    "BLOCK_COMMENT",
	KindCreateNodePropIndex:             "CREATE_NODE_PROP_INDEX",
	KindDropNodePropIndex:               "DROP_NODE_PROP_INDEX",
	KindCreateNodePropConstraint:        "CREATE_NODE_PROP_CONSTRAINT",
	KindDropNodePropConstraint:          "DROP_NODE_PROP_CONSTRAINT",
	KindCreateUniqueNodePropConstraint:  "CREATE_UNIQUE_NODE_PROP_CONSTRAINT",
	KindDropUniqueNodePropConstraint:    "DROP_UNIQUE_NODE_PROP_CONSTRAINT",
	KindCreateRelPropConstraint:         "CREATE_REL_PROP_CONSTRAINT",
	KindDropRelPropConstraint:           "DROP_REL_PROP_CONSTRAINT",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// kindExpression is the synthetic parent every expression-producing kind
// reports, letting callers ask IsInstanceOf(node, kindExpression) instead
// of enumerating every leaf/operator kind by hand. It is not itself a
// usable node Kind (no constructor produces it).
const kindExpression Kind = -2

// kindParents records each kind's declared parent kinds (spec §3's
// "kind-parent table"), used only for IsInstanceOf queries.
var kindParents = map[Kind][]Kind{
	KindIdentifier:           {kindExpression},
	KindParameter:            {kindExpression},
	KindInteger:              {kindExpression},
	KindFloat:                {kindExpression},
	KindString:               {kindExpression},
	KindTrue:                 {KindBoolean, kindExpression},
	KindFalse:                {KindBoolean, kindExpression},
	KindBoolean:              {kindExpression},
	KindNull:                 {kindExpression},
	KindMap:                  {kindExpression},
	KindMapProjection:        {kindExpression},
	KindCollection:           {kindExpression},
	KindListComprehension:    {kindExpression},
	KindPatternComprehension: {kindExpression},
	KindCase:                 {kindExpression},
	KindFilter:               {kindExpression},
	KindExtract:              {kindExpression},
	KindReduce:               {kindExpression},
	KindAll:                  {kindExpression},
	KindAny:                  {kindExpression},
	KindSingle:               {kindExpression},
	KindNone:                 {kindExpression},
	KindBinaryOperator:       {kindExpression},
	KindUnaryOperator:        {kindExpression},
	KindComparison:           {kindExpression},
	KindStringMatch:          {kindExpression},
	KindSubscript:            {kindExpression},
	KindSlice:                {kindExpression},
	KindApplyOperator:        {kindExpression},
	KindApplyAllOperator:     {kindExpression},
	KindLabelsOperator:       {kindExpression},
	KindPropertyOperator:     {kindExpression},
	KindPatternPath:          {kindExpression},

	KindCommand: {KindStatement},

	KindCreateNodePropIndex:            {KindCommand},
	KindDropNodePropIndex:              {KindCommand},
	KindCreateNodePropConstraint:       {KindCommand},
	KindDropNodePropConstraint:         {KindCommand},
	KindCreateUniqueNodePropConstraint: {KindCommand},
	KindDropUniqueNodePropConstraint:   {KindCommand},
	KindCreateRelPropConstraint:        {KindCommand},
	KindDropRelPropConstraint:          {KindCommand},

	// An ERROR node stands in for whatever production panic-mode recovery
	// abandoned. The only place one is ever handed to a constructor as a
	// reference argument is an operator's operand slot (operandOrRecover
	// substitutes it for a failed right-hand side), so it must satisfy
	// kindExpression the same way a real operand would.
	KindError: {kindExpression},
}

// IsInstanceOf reports whether node's kind equals want, or transitively
// declares want as a parent kind.
func IsInstanceOf(n *Node, want Kind) bool {
	if n == nil {
		return false
	}
	return kindIsA(n.Kind, want)
}

func kindIsA(k, want Kind) bool {
	if k == want {
		return true
	}
	for _, parent := range kindParents[k] {
		if kindIsA(parent, want) {
			return true
		}
	}
	return false
}

// IsExpression reports whether node's kind is one of the expression
// kinds, per the synthetic expression parent above.
func IsExpression(n *Node) bool {
	return IsInstanceOf(n, kindExpression)
}
