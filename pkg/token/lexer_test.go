package token_test

import (
	"testing"

	"github.com/RedisGraph/libcypher-parser/pkg/input"
	"github.com/RedisGraph/libcypher-parser/pkg/token"
)

func lex(src string) *token.Lexer {
	return token.NewLexer(input.NewBuffer(input.FromBytes([]byte(src))))
}

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lex(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lexing %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, src := range []string{"match", "Match", "MATCH", "mAtCh"} {
		toks := collect(t, src)
		if len(toks) != 2 || toks[0].Kind != token.Keyword || toks[0].Text != "MATCH" {
			t.Fatalf("%q: expected single canonical MATCH keyword, got %+v", src, toks)
		}
	}
}

func TestBackQuotedIdentifierNeverReclassified(t *testing.T) {
	toks := collect(t, "`match`")
	if len(toks) != 2 || toks[0].Kind != token.Identifier || !toks[0].BackQuoted || toks[0].Text != "match" {
		t.Fatalf("expected back-quoted identifier 'match', got %+v", toks)
	}
}

func TestPlainIdentifier(t *testing.T) {
	toks := collect(t, "n")
	if toks[0].Kind != token.Identifier || toks[0].Text != "n" {
		t.Fatalf("expected identifier 'n', got %+v", toks[0])
	}
}

func TestIntegerLiterals(t *testing.T) {
	cases := []struct{ src, text string }{
		{"123", "123"},
		{"0x1F", "0x1F"},
		{"0X1f", "0X1f"},
		{"017", "017"},
		{"0", "0"},
	}
	for _, c := range cases {
		toks := collect(t, c.src)
		if toks[0].Kind != token.Integer || toks[0].Text != c.text {
			t.Fatalf("%q: expected INTEGER %q, got %+v", c.src, c.text, toks[0])
		}
	}
}

func TestFloatLiterals(t *testing.T) {
	cases := []string{"1.5", "0.5", "1e10", "1E-10", "1.5e+3"}
	for _, src := range cases {
		toks := collect(t, src)
		if toks[0].Kind != token.Float || toks[0].Text != src {
			t.Fatalf("%q: expected FLOAT %q, got %+v", src, src, toks[0])
		}
	}
}

func TestTrailingDotIsNotPartOfNumber(t *testing.T) {
	toks := collect(t, "1.")
	if toks[0].Kind != token.Integer || toks[0].Text != "1" {
		t.Fatalf("expected INTEGER '1', got %+v", toks[0])
	}
	if toks[1].Kind != token.Symbol || toks[1].Text != "." {
		t.Fatalf("expected SYMBOL '.', got %+v", toks[1])
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := collect(t, `'a\nb\tcA'`)
	if toks[0].Kind != token.String || toks[0].Text != "a\nb\tc\x41" {
		t.Fatalf("unexpected unescape result: %+v", toks[0])
	}
	if toks[0].Quote != '\'' {
		t.Fatalf("expected single-quote marker, got %q", toks[0].Quote)
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := lex("'abc\nRETURN 1")
	_, err := l.Next()
	if err == nil {
		t.Fatalf("expected unterminated string error")
	}
	next, err := l.Next()
	if err != nil || next.Kind != token.Keyword || next.Text != "RETURN" {
		t.Fatalf("expected lexer to recover at next line, got %+v, err=%v", next, err)
	}
}

func TestUnterminatedBlockCommentIsFatal(t *testing.T) {
	l := lex("/* never closes")
	_, err := l.Next()
	if err == nil {
		t.Fatalf("expected unterminated block comment error")
	}
}

func TestLineCommentSideChanneled(t *testing.T) {
	l := lex("RETURN 1 // trailing note\n")
	var kinds []token.Kind
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	for _, k := range kinds {
		if k == token.LineComment {
			t.Fatalf("line comment leaked into the significant token stream: %v", kinds)
		}
	}
	comments := l.Comments()
	if len(comments) != 1 || comments[0].Text != " trailing note" {
		t.Fatalf("expected one side-channeled comment, got %+v", comments)
	}
}

func TestParameterForms(t *testing.T) {
	cases := []string{"$name", "$123", "{legacy}"}
	for _, src := range cases {
		toks := collect(t, src)
		if toks[0].Kind != token.Parameter {
			t.Fatalf("%q: expected PARAMETER, got %+v", src, toks[0])
		}
	}
}

func TestBraceNotFollowedByIdentIsSymbol(t *testing.T) {
	toks := collect(t, "{a: 1}")
	if toks[0].Kind != token.Symbol || toks[0].Text != "{" {
		t.Fatalf("expected SYMBOL '{' for a map literal, got %+v", toks[0])
	}
}

func TestMultiCharSymbols(t *testing.T) {
	toks := collect(t, "<= >= <> =~ -> <-")
	want := []string{"<=", ">=", "<>", "=~", "->", "<-"}
	for i, w := range want {
		if toks[i].Kind != token.Symbol || toks[i].Text != w {
			t.Fatalf("token %d: expected SYMBOL %q, got %+v", i, w, toks[i])
		}
	}
}

func TestStraySymbolIsTokenizedNotRejectedByLexer(t *testing.T) {
	toks := collect(t, "@")
	if toks[0].Kind != token.Symbol || toks[0].Text != "@" {
		t.Fatalf("expected stray '@' to lex as SYMBOL, got %+v", toks[0])
	}
}
