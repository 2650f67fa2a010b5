package printer_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/printer"
)

func rng(a, b int) input.Range {
	return input.Range{Start: input.Position{Offset: a, Line: 1, Column: a + 1}, End: input.Position{Offset: b, Line: 1, Column: b + 1}}
}

var lineShape = regexp.MustCompile(`^@\d+ \S+ @\d+\.\.\d+  .*$`)

func TestFprintLineShapeMatchesColumnarFormat(t *testing.T) {
	b := ast.NewBuilder()
	lhs, _ := b.NewInteger("1", rng(0, 1))
	rhs, _ := b.NewInteger("2", rng(2, 3))
	op, _ := b.NewBinaryOperator("+", lhs, rhs, rng(0, 3))

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, []*ast.Node{op}, 0, nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (2 operands + 1 operator), got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !lineShape.MatchString(line) {
			t.Fatalf("line %q does not match the expected @N KIND @a..b  DETAIL shape", line)
		}
	}
}

func TestFprintOrdersByOrdinalNotTreeOrder(t *testing.T) {
	b := ast.NewBuilder()
	lhs, _ := b.NewInteger("1", rng(0, 1))
	rhs, _ := b.NewInteger("2", rng(2, 3))
	op, _ := b.NewBinaryOperator("+", lhs, rhs, rng(0, 3))

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, []*ast.Node{op}, 0, nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "@0 ") || !strings.HasPrefix(lines[2], "@2 ") {
		t.Fatalf("expected lines in ordinal order @0,@1,@2, got %q", lines)
	}
}

func TestFprintChildrenColumnListsOrdinals(t *testing.T) {
	b := ast.NewBuilder()
	lhs, _ := b.NewInteger("1", rng(0, 1))
	rhs, _ := b.NewInteger("2", rng(2, 3))
	op, _ := b.NewBinaryOperator("+", lhs, rhs, rng(0, 3))

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, []*ast.Node{op}, 0, nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	opLine := lines[2]
	if !strings.Contains(opLine, "@0, @1") {
		t.Fatalf("expected the BINARY_OPERATOR line to list its children's ordinals, got %q", opLine)
	}
}

func TestFprintNoColorizationLeavesPlainText(t *testing.T) {
	b := ast.NewBuilder()
	n, _ := b.NewInteger("1", rng(0, 1))

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, []*ast.Node{n}, 0, &printer.NoColorization, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes with NoColorization, got %q", buf.String())
	}
}

func TestFprintDefaultColorizationWrapsEachColumn(t *testing.T) {
	b := ast.NewBuilder()
	n, _ := b.NewInteger("1", rng(0, 1))

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, []*ast.Node{n}, 0, printer.DefaultColorization(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with DefaultColorization, got %q", buf.String())
	}
}

func TestFormatErrorReproducesOriginalLayout(t *testing.T) {
	var buf bytes.Buffer
	pos := input.Position{Offset: 9, Line: 1, Column: 10}
	err := printer.FormatError(&buf, pos, "invalid input '+'", "RETURN 1 +", 9, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected message + snippet + caret lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "invalid input '+' (line 1, column 10, offset 9):" {
		t.Fatalf("unexpected message line: %q", lines[0])
	}
	if lines[1] != "RETURN 1 +" {
		t.Fatalf("unexpected snippet line: %q", lines[1])
	}
	if lines[2] != "         ^" {
		t.Fatalf("expected the caret under column 10, got %q", lines[2])
	}
}

func TestFormatErrorWithoutSnippetOmitsTrailingColonAndCaret(t *testing.T) {
	var buf bytes.Buffer
	pos := input.Position{Offset: 0, Line: 1, Column: 1}
	if err := printer.FormatError(&buf, pos, "unexpected end of input", "", 0, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, ":") {
		t.Fatalf("expected no trailing ':' when there is no snippet, got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected a single message line with no snippet/caret, got %q", out)
	}
}
