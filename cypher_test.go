package cypher_test

import (
	"io"
	"strings"
	"testing"

	cypher "github.com/RedisGraph/libcypher-parser"
	"github.com/RedisGraph/libcypher-parser/pkg/ast"
)

func TestParseSingleStatement(t *testing.T) {
	result, err := cypher.Parse([]byte("RETURN 1;"), nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 1 {
		t.Fatalf("expected 1 directive, got %d", result.NDirectives())
	}
	if result.NErrors() != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors())
	}
	if result.Directive(0).Kind != ast.KindStatement {
		t.Fatalf("expected a STATEMENT directive, got %s", result.Directive(0).Kind)
	}
}

func TestParseEmptyInput(t *testing.T) {
	result, err := cypher.Parse([]byte(""), nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 0 {
		t.Fatalf("expected 0 directives, got %d", result.NDirectives())
	}
	if result.NErrors() != 0 {
		t.Fatalf("expected 0 errors, got %v", result.Errors())
	}
	eof := result.EOF()
	if eof.Offset != 0 || eof.Line != 1 || eof.Column != 1 {
		t.Fatalf("expected eof at (0,1,1), got %+v", eof)
	}
}

func TestParseCommentOnlyInputRecordsNoDirectives(t *testing.T) {
	result, err := cypher.Parse([]byte("// just a note\n"), nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 0 {
		t.Fatalf("expected 0 directives, got %d", result.NDirectives())
	}
	if len(result.Comments()) != 1 {
		t.Fatalf("expected 1 comment, got %v", result.Comments())
	}
}

func TestParseBareSeparatorYieldsNoDirectives(t *testing.T) {
	result, err := cypher.Parse([]byte(";"), nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 0 {
		t.Fatalf("expected the bare ';' to produce no directives, got %d", result.NDirectives())
	}
}

func TestParseMultipleDirectivesInvokesCallbackEachTime(t *testing.T) {
	var seen int
	_, err := cypher.Parse([]byte("RETURN 1; RETURN 2;"), func(cypher.Range) { seen++ }, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if seen != 2 {
		t.Fatalf("expected the range callback to fire twice, got %d", seen)
	}
}

func TestSingleFlagStopsAfterFirstDirective(t *testing.T) {
	result, err := cypher.Parse([]byte("RETURN 1; RETURN 2;"), nil, nil, cypher.SINGLE)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 1 {
		t.Fatalf("expected SINGLE to stop after one directive, got %d", result.NDirectives())
	}
}

func TestOnlyStatementsRejectsClientCommands(t *testing.T) {
	result, err := cypher.Parse([]byte(":help"), nil, nil, cypher.ONLY_STATEMENTS)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 1 {
		t.Fatalf("expected one (error) directive, got %d", result.NDirectives())
	}
	if result.Directive(0).Kind != ast.KindError {
		t.Fatalf("expected the rejected command to surface as an ERROR directive, got %s", result.Directive(0).Kind)
	}
	if result.NErrors() != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors())
	}
}

func TestParseStreamDrivesFromChunkedReader(t *testing.T) {
	chunks := []string{"RETURN ", "1", ";"}
	i := 0
	read := func(p []byte) (int, bool, error) {
		if i >= len(chunks) {
			return 0, true, nil
		}
		n := copy(p, chunks[i])
		i++
		return n, false, nil
	}

	result, err := cypher.ParseStream(read, nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result.NDirectives() != 1 {
		t.Fatalf("expected 1 directive from the chunked source, got %d", result.NDirectives())
	}
}

func TestResultFprintWritesOneLinePerNode(t *testing.T) {
	result, err := cypher.Parse([]byte("RETURN 1;"), nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}

	r, w := io.Pipe()
	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()
	if err := result.Fprint(w, 0, nil, 0); err != nil {
		t.Fatalf("unexpected Fprint error: %v", err)
	}
	w.Close()

	out := <-done
	if out == "" {
		t.Fatalf("expected non-empty AST dump")
	}
	nodes := 0
	for _, d := range result.Directives() {
		ast.Walk(d, func(*ast.Node, int) bool { nodes++; return true })
	}
	if got := strings.Count(out, "\n"); got != nodes {
		t.Fatalf("expected one line per node (%d), got %d lines: %q", nodes, got, out)
	}
}
