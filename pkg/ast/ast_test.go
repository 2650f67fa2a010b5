package ast_test

import (
	"testing"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
)

func rng(a, b int) input.Range {
	return input.Range{Start: input.Position{Offset: a, Line: 1, Column: a + 1}, End: input.Position{Offset: b, Line: 1, Column: b + 1}}
}

func TestOrdinalsAssignedInConstructionOrder(t *testing.T) {
	b := ast.NewBuilder()
	n1, err := b.NewIdentifier("n", rng(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	lit, err := b.NewInteger("1", rng(2, 3))
	if err != nil {
		t.Fatal(err)
	}
	op, err := b.NewBinaryOperator("+", n1, lit, rng(0, 3))
	if err != nil {
		t.Fatal(err)
	}
	if n1.Ordinal != 0 || lit.Ordinal != 1 || op.Ordinal != 2 {
		t.Fatalf("expected sequential ordinals 0,1,2; got %d,%d,%d", n1.Ordinal, lit.Ordinal, op.Ordinal)
	}
	if op.Detail != "@0 + @1" {
		t.Fatalf("unexpected detail string: %q", op.Detail)
	}
}

func TestConstructorRejectsChildRangeOutsideNodeRange(t *testing.T) {
	b := ast.NewBuilder()
	a, _ := b.NewIdentifier("a", rng(0, 1))
	outsider, _ := b.NewPropName("z", rng(10, 11))
	_, err := b.NewPropertyOperator(a, outsider, rng(0, 1))
	if err == nil {
		t.Fatalf("expected error: propName child's range escapes the node range")
	}
}

func TestNodeRangeMustContainChildren(t *testing.T) {
	b := ast.NewBuilder()
	a, _ := b.NewIdentifier("a", rng(5, 6))
	_, err := b.NewWhere(a, rng(0, 2))
	if err == nil {
		t.Fatalf("expected error: child range escapes parent range")
	}
}

func TestIsInstanceOf(t *testing.T) {
	b := ast.NewBuilder()
	id, _ := b.NewIdentifier("n", rng(0, 1))
	if !ast.IsInstanceOf(id, ast.KindIdentifier) {
		t.Fatalf("identifier should be instance of itself")
	}
	if !ast.IsExpression(id) {
		t.Fatalf("identifier should be an expression")
	}
	label, _ := b.NewLabel("L", rng(0, 1))
	prop, _ := b.NewPropName("p", rng(0, 1))
	idx, err := b.NewCreateNodePropIndex(label, prop, rng(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if ast.IsExpression(idx) {
		t.Fatalf("a schema command is not an expression")
	}
}

func TestWalkPreOrder(t *testing.T) {
	b := ast.NewBuilder()
	lhs, _ := b.NewInteger("1", rng(0, 1))
	rhs, _ := b.NewInteger("2", rng(2, 3))
	op, _ := b.NewBinaryOperator("+", lhs, rhs, rng(0, 3))

	var visited []ast.Kind
	ast.Walk(op, func(n *ast.Node, depth int) bool {
		visited = append(visited, n.Kind)
		return true
	})
	if len(visited) != 3 || visited[0] != ast.KindBinaryOperator {
		t.Fatalf("expected pre-order [BINARY_OPERATOR, INTEGER, INTEGER], got %v", visited)
	}
}

func TestFloatAndLineCommentDetailArePassthroughs(t *testing.T) {
	b := ast.NewBuilder()
	f, _ := b.NewFloat("3.14", rng(0, 4))
	if f.Detail != "3.14" {
		t.Fatalf("expected float detailstr to passthrough raw text, got %q", f.Detail)
	}
	c, _ := b.NewLineComment(" hello", rng(0, 8))
	if c.Detail != "// hello" {
		t.Fatalf("expected line comment detailstr '//...': got %q", c.Detail)
	}
}
