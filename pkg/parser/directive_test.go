package parser_test

import (
	"testing"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/parser"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

func newParser(src string) *parser.Parser {
	buf := input.NewBuffer(input.FromBytes([]byte(src)))
	return parser.New(token.NewLexer(buf), ast.NewBuilder())
}

// find returns the first descendant of root (root included) of the given
// kind, in pre-order, or nil.
func find(root *ast.Node, kind ast.Kind) *ast.Node {
	var found *ast.Node
	ast.Walk(root, func(n *ast.Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func countKind(root *ast.Node, kind ast.Kind) int {
	n := 0
	ast.Walk(root, func(node *ast.Node, _ int) bool {
		if node.Kind == kind {
			n++
		}
		return true
	})
	return n
}

func TestReturnLiteral(t *testing.T) {
	p := newParser("RETURN 1;")
	directive, err := p.ParseDirective()
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if directive.Kind != ast.KindStatement {
		t.Fatalf("expected STATEMENT, got %s", directive.Kind)
	}
	if find(directive, ast.KindQuery) == nil {
		t.Fatalf("expected a QUERY child: %+v", directive)
	}
	ret := find(directive, ast.KindReturn)
	if ret == nil {
		t.Fatalf("expected a RETURN clause: %+v", directive)
	}
	if countKind(ret, ast.KindProjection) != 1 {
		t.Fatalf("expected exactly one projection")
	}
	if countKind(ret, ast.KindInteger) != 1 {
		t.Fatalf("expected exactly one integer literal")
	}
	if len(p.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", p.Errors())
	}
}

func TestMatchWhereComparison(t *testing.T) {
	p := newParser("MATCH (n:Person) WHERE n.age > 30 RETURN n.name")
	directive, err := p.ParseDirective()
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	where := find(directive, ast.KindWhere)
	if where == nil {
		t.Fatalf("expected a WHERE clause: %+v", directive)
	}
	cmp := find(where, ast.KindComparison)
	if cmp == nil {
		t.Fatalf("expected a COMPARISON under WHERE")
	}
	if find(where, ast.KindPropertyOperator) == nil {
		t.Fatalf("expected n.age lowered to a PROPERTY_OPERATOR")
	}
	if find(where, ast.KindInteger).Detail != "30" {
		t.Fatalf("expected literal 30 in the WHERE comparison")
	}
	if len(p.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", p.Errors())
	}
}

func TestCreateUniqueNodePropConstraint(t *testing.T) {
	p := newParser("CREATE CONSTRAINT ON (n:Person) ASSERT n.email IS UNIQUE;")
	directive, err := p.ParseDirective()
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	constraint := find(directive, ast.KindCreateUniqueNodePropConstraint)
	if constraint == nil {
		t.Fatalf("expected a CREATE_UNIQUE_NODE_PROP_CONSTRAINT: %+v", directive)
	}
	if find(constraint, ast.KindLabel) == nil {
		t.Fatalf("expected label Person on the constraint")
	}
	if find(constraint, ast.KindPropertyOperator) == nil {
		t.Fatalf("expected n.email lowered to a PROPERTY_OPERATOR")
	}
	if len(p.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", p.Errors())
	}
}

func TestRecoveryOverDanglingOperator(t *testing.T) {
	p := newParser("RETURN 1 +")
	directive, err := p.ParseDirective()
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	ret := find(directive, ast.KindReturn)
	if ret == nil {
		t.Fatalf("expected the RETURN clause to survive the dangling '+': %+v", directive)
	}
	if countKind(ret, ast.KindError) != 1 {
		t.Fatalf("expected exactly one recovered ERROR node under RETURN")
	}

	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one syntax error, got %d: %v", len(errs), errs)
	}
	if errs[0].Position.Column != 10 {
		t.Fatalf("expected the error anchored at column 10 (the '+'), got column %d", errs[0].Position.Column)
	}
}

func TestLineCommentRecordedWithLeadingSpace(t *testing.T) {
	buf := input.NewBuffer(input.FromBytes([]byte("// hi\nRETURN 1;")))
	lex := token.NewLexer(buf)
	p := parser.New(lex, ast.NewBuilder())

	directive, err := p.ParseDirective()
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if find(directive, ast.KindReturn) == nil {
		t.Fatalf("expected the RETURN clause after the leading comment")
	}

	comments := lex.Comments()
	if len(comments) != 1 || comments[0].Text != " hi" {
		t.Fatalf("expected one side-channeled comment with text %q, got %+v", " hi", comments)
	}
}

func TestEmptyDirectiveIsDiscarded(t *testing.T) {
	p := newParser(";")
	if !p.ConsumeDirectiveSeparator() {
		t.Fatalf("expected the bare ';' to be consumed as an empty directive")
	}
	if !p.AtEOF() {
		t.Fatalf("expected nothing left to parse after the bare ';'")
	}
}

func TestUnterminatedBlockCommentReportsOneLexError(t *testing.T) {
	p := newParser("/* never closes")
	if !p.AtEOF() {
		t.Fatalf("expected the unterminated comment to consume the rest of the input")
	}
	if len(p.Errors()) != 1 {
		t.Fatalf("expected exactly one lex error, got %v", p.Errors())
	}
}
