package input_test

import (
	"testing"

	"github.com/RedisGraph/libcypher-parser/pkg/input"
)

func TestAdvancePosition(t *testing.T) {
	test := func(src string, consume int, expected input.Position) {
		buf := input.NewBuffer(input.FromBytes([]byte(src)))
		buf.Advance(consume)
		if got := buf.Position(); got != expected {
			t.Errorf("Advance(%d) over %q: expected %+v, got %+v", consume, src, expected, got)
		}
	}

	t.Run("plain ASCII", func(t *testing.T) {
		test("hello", 5, input.Position{Offset: 5, Line: 1, Column: 6})
	})

	t.Run("LF newline", func(t *testing.T) {
		test("ab\ncd", 4, input.Position{Offset: 4, Line: 2, Column: 2})
	})

	t.Run("CRLF counts as one line break, two offset units", func(t *testing.T) {
		test("ab\r\ncd", 5, input.Position{Offset: 5, Line: 2, Column: 2})
	})

	t.Run("CR-only newline", func(t *testing.T) {
		test("ab\rcd", 4, input.Position{Offset: 4, Line: 2, Column: 2})
	})

	t.Run("tabs advance one column", func(t *testing.T) {
		test("a\tb", 3, input.Position{Offset: 3, Line: 1, Column: 4})
	})

	t.Run("multi-byte UTF-8 counts one column per code point", func(t *testing.T) {
		// "café" - 'é' is 2 bytes but one code point/column.
		test("café", 4, input.Position{Offset: 5, Line: 1, Column: 5})
	})
}

func TestMarkRestore(t *testing.T) {
	buf := input.NewBuffer(input.FromBytes([]byte("MATCH (n)")))
	buf.Advance(6) // consume "MATCH "
	mark := buf.Mark()
	buf.Advance(3) // consume "(n)"

	rng := buf.RangeFrom(mark)
	if rng.Start.Offset != 6 || rng.End.Offset != 9 {
		t.Fatalf("unexpected range: %+v", rng)
	}

	buf.Restore(mark)
	if buf.Position().Offset != 6 {
		t.Fatalf("expected restored offset 6, got %d", buf.Position().Offset)
	}
	if got := buf.Peek(3); got != "(n)" {
		t.Fatalf("expected to re-read '(n)' after restore, got %q", got)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	buf := input.NewBuffer(input.FromBytes([]byte("RETURN 1")))
	if got := buf.Peek(6); got != "RETURN" {
		t.Fatalf("expected peek 'RETURN', got %q", got)
	}
	if buf.Position().Offset != 0 {
		t.Fatalf("Peek must not advance the cursor, offset=%d", buf.Position().Offset)
	}
}

func TestAtEOF(t *testing.T) {
	buf := input.NewBuffer(input.FromBytes([]byte("ab")))
	if buf.AtEOF() {
		t.Fatalf("should not be at eof before consuming input")
	}
	buf.Advance(2)
	if !buf.AtEOF() {
		t.Fatalf("expected eof after consuming all input")
	}
}

func TestEmptyInputStartsAtOneOne(t *testing.T) {
	buf := input.NewBuffer(input.FromBytes(nil))
	pos := buf.Position()
	if pos != (input.Position{Offset: 0, Line: 1, Column: 1}) {
		t.Fatalf("expected (0,1,1) for empty input, got %+v", pos)
	}
	if !buf.AtEOF() {
		t.Fatalf("empty input should be immediately at eof")
	}
}
