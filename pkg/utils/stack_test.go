package utils_test

import (
	"testing"

	"github.com/RedisGraph/libcypher-parser/pkg/utils"
)

func TestBracketStackPushPopOrder(t *testing.T) {
	s := utils.NewBracketStack()
	s.Push(")")
	s.Push("]")
	s.Push("}")

	for _, want := range []string{"}", "]", ")"} {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if got != want {
			t.Fatalf("Pop = %q, want %q", got, want)
		}
	}
}

func TestBracketStackTopDoesNotRemove(t *testing.T) {
	s := utils.NewBracketStack()
	s.Push(")")
	if top, err := s.Top(); err != nil || top != ")" {
		t.Fatalf("Top = %q, %v", top, err)
	}
	if s.Count() != 1 {
		t.Fatalf("Count after Top = %d, want 1", s.Count())
	}
}

func TestBracketStackEmptyPopErrors(t *testing.T) {
	s := utils.NewBracketStack()
	if _, err := s.Pop(); err == nil {
		t.Fatalf("Pop on empty stack should error")
	}
	if _, err := s.Top(); err == nil {
		t.Fatalf("Top on empty stack should error")
	}
}

func TestBracketStackSeededOpen(t *testing.T) {
	s := utils.NewBracketStack(")", "}")
	if s.Count() != 2 {
		t.Fatalf("Count = %d, want 2", s.Count())
	}
	var seen []string
	s.Iterator()(func(b string) bool {
		seen = append(seen, b)
		return true
	})
	if len(seen) != 2 || seen[0] != "}" || seen[1] != ")" {
		t.Fatalf("Iterator order = %v, want [} )]", seen)
	}
}
