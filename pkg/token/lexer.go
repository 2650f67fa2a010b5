package token

import (
	"strings"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"github.com/RedisGraph/libcypher-parser/pkg/input"
)

// multiCharSymbols lists the multi-rune punctuation runs the lexer
// recognizes, longest first so the greedy match never leaves a prefix
// unconsumed.
var multiCharSymbols = []string{"<=", ">=", "<>", "=~", "..", "->", "<-", "--"}

// Lexer pulls tokens from a pkg/input.Buffer. It never hands a comment
// token back to Next's caller — comments are accumulated on the side so
// the parse driver can attach them to the result (spec §4.B).
type Lexer struct {
	buf      *input.Buffer
	comments []Token
}

// NewLexer wraps buf in a Lexer.
func NewLexer(buf *input.Buffer) *Lexer {
	return &Lexer{buf: buf}
}

// Comments returns every comment token seen so far, in source order.
func (l *Lexer) Comments() []Token { return l.comments }

// Buffer exposes the underlying input buffer, so callers above the lexer
// (the parser, building a parse error) can render a context snippet
// around a position without the lexer needing to know about errors.
func (l *Lexer) Buffer() *input.Buffer { return l.buf }

// Mark is a lexer-level backtracking point: the underlying buffer mark
// plus how many comments had been accumulated, so Restore can also roll
// back any comments scanned past the mark.
type Mark struct {
	buf       input.Mark
	ncomments int
}

func (l *Lexer) Mark() Mark {
	return Mark{buf: l.buf.Mark(), ncomments: len(l.comments)}
}

func (l *Lexer) Restore(m Mark) {
	l.buf.Restore(m.buf)
	l.comments = l.comments[:m.ncomments]
}

// Next returns the next significant token, or an EOF token once the input
// is exhausted. Line and block comments are consumed and appended to
// Comments instead of being returned.
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipWhitespace()

		if l.buf.AtEOF() {
			pos := l.buf.Position()
			return Token{Kind: EOF, Range: input.Range{Start: pos, End: pos}}, nil
		}

		switch l.buf.Peek(2) {
		case "//":
			l.comments = append(l.comments, l.scanLineComment())
			continue
		case "/*":
			tok, err := l.scanBlockComment()
			if err != nil {
				return tok, err
			}
			l.comments = append(l.comments, tok)
			continue
		}

		b := l.buf.PeekByte()
		switch {
		case b >= '0' && b <= '9':
			return l.scanNumber(), nil
		case b == '\'' || b == '"':
			return l.scanString(b)
		case b == '`':
			return l.scanBackQuotedIdentifier()
		case b == '$':
			return l.scanParameter()
		case b == '{':
			if tok, ok := l.tryLegacyParameter(); ok {
				return tok, nil
			}
			return l.scanSymbol(), nil
		default:
			if r, _ := utf8.DecodeRuneInString(l.buf.Peek(1)); isIdentStart(r) {
				return l.scanIdentifierOrKeyword(), nil
			}
			return l.scanSymbol(), nil
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
		switch r {
		case ' ', '\t', '\n', '\r':
			l.buf.Advance(1)
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool    { return xid.Start(r) || r == '_' }
func isIdentContinue(r rune) bool { return xid.Continue(r) || r == '_' }

func isOctalDigit(r rune) bool { return r >= '0' && r <= '7' }
func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) unterminated(start input.Mark, msg string) (Token, error) {
	rng := l.buf.RangeFrom(start)
	return Token{Kind: Error, Text: msg, Range: rng}, &LexError{Message: msg, Range: rng}
}

// LexError reports a fatal lexical failure (unterminated string/quoted
// identifier/block comment) at a specific range.
type LexError struct {
	Message string
	Range   input.Range
}

func (e *LexError) Error() string { return e.Message }

// ----------------------------------------------------------------------------
// Identifiers and keywords

func (l *Lexer) scanIdentifierOrKeyword() Token {
	start := l.buf.Mark()
	var sb strings.Builder
	sb.WriteString(l.buf.Advance(1))

	for {
		r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
		if !isIdentContinue(r) {
			break
		}
		sb.WriteString(l.buf.Advance(1))
	}

	text := sb.String()
	rng := l.buf.RangeFrom(start)

	if canon, ok := canonicalKeyword(text); ok {
		return Token{Kind: Keyword, Text: canon, Range: rng}
	}
	return Token{Kind: Identifier, Text: text, Range: rng}
}

func (l *Lexer) scanBackQuotedIdentifier() (Token, error) {
	start := l.buf.Mark()
	l.buf.Advance(1) // opening '`'

	var sb strings.Builder
	for {
		if l.buf.AtEOF() {
			return l.unterminated(start, "unterminated quoted identifier")
		}
		r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
		if r == '`' {
			l.buf.Advance(1)
			break
		}
		sb.WriteString(l.buf.Advance(1))
	}

	return Token{Kind: Identifier, Text: sb.String(), BackQuoted: true, Range: l.buf.RangeFrom(start)}, nil
}

// ----------------------------------------------------------------------------
// Numeric literals
//
// INTEGER is decimal ("123"), hex ("0x1F"), or octal ("0[0-7]+"). FLOAT is
// "[0-9]+.[0-9]+([eE][-+]?[0-9]+)?" or "[0-9]+[eE][-+]?[0-9]+" — a trailing
// '.' with no following digit is not part of the number.

func (l *Lexer) scanNumber() Token {
	start := l.buf.Mark()
	var sb strings.Builder

	if l.buf.Peek(2) == "0x" || l.buf.Peek(2) == "0X" {
		sb.WriteString(l.buf.Advance(2))
		for {
			r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
			if !isHexDigit(r) {
				break
			}
			sb.WriteString(l.buf.Advance(1))
		}
		return Token{Kind: Integer, Text: sb.String(), Range: l.buf.RangeFrom(start)}
	}

	for {
		r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
		if r < '0' || r > '9' {
			break
		}
		sb.WriteString(l.buf.Advance(1))
	}

	kind := Integer

	if two := l.buf.Peek(2); len(two) == 2 && two[0] == '.' {
		if r, _ := utf8.DecodeRuneInString(two[1:]); r >= '0' && r <= '9' {
			sb.WriteString(l.buf.Advance(1)) // '.'
			for {
				r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
				if r < '0' || r > '9' {
					break
				}
				sb.WriteString(l.buf.Advance(1))
			}
			kind = Float
		}
	}

	if r, _ := utf8.DecodeRuneInString(l.buf.Peek(1)); r == 'e' || r == 'E' {
		m := l.buf.Mark()
		var exp strings.Builder
		exp.WriteString(l.buf.Advance(1))
		if r2, _ := utf8.DecodeRuneInString(l.buf.Peek(1)); r2 == '+' || r2 == '-' {
			exp.WriteString(l.buf.Advance(1))
		}
		digits := 0
		for {
			r3, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
			if r3 < '0' || r3 > '9' {
				break
			}
			exp.WriteString(l.buf.Advance(1))
			digits++
		}
		if digits == 0 {
			l.buf.Restore(m) // e.g. "1e" with nothing after — not an exponent
		} else {
			sb.WriteString(exp.String())
			kind = Float
		}
	}

	return Token{Kind: kind, Text: sb.String(), Range: l.buf.RangeFrom(start)}
}

// ----------------------------------------------------------------------------
// String literals

func (l *Lexer) scanString(quote byte) (Token, error) {
	start := l.buf.Mark()
	l.buf.Advance(1) // opening quote

	var sb strings.Builder
	for {
		if l.buf.AtEOF() {
			l.recoverToLineEnd()
			return l.unterminated(start, "unterminated string literal")
		}
		r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
		if r == utf8.RuneError && l.buf.PeekByte() >= 0x80 {
			l.recoverToLineEnd()
			return l.unterminated(start, "invalid UTF-8 in string literal")
		}
		if byte(r) == quote && r < 0x80 {
			l.buf.Advance(1)
			break
		}
		if r == '\n' {
			l.recoverToLineEnd()
			return l.unterminated(start, "unterminated string literal")
		}
		if r == '\\' {
			l.buf.Advance(1)
			esc, ok := l.scanEscape()
			if !ok {
				l.recoverToLineEnd()
				return l.unterminated(start, "invalid escape sequence in string literal")
			}
			sb.WriteString(esc)
			continue
		}
		sb.WriteString(l.buf.Advance(1))
	}

	return Token{Kind: String, Text: sb.String(), Quote: quote, Range: l.buf.RangeFrom(start)}, nil
}

func (l *Lexer) scanEscape() (string, bool) {
	r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
	switch r {
	case 'n':
		l.buf.Advance(1)
		return "\n", true
	case 'r':
		l.buf.Advance(1)
		return "\r", true
	case 't':
		l.buf.Advance(1)
		return "\t", true
	case 'b':
		l.buf.Advance(1)
		return "\b", true
	case 'f':
		l.buf.Advance(1)
		return "\f", true
	case '\\':
		l.buf.Advance(1)
		return "\\", true
	case '\'':
		l.buf.Advance(1)
		return "'", true
	case '"':
		l.buf.Advance(1)
		return "\"", true
	case 'u':
		l.buf.Advance(1)
		return l.scanUnicodeEscape()
	default:
		return "", false
	}
}

func (l *Lexer) scanUnicodeEscape() (string, bool) {
	n := 4
	if peek := l.buf.Peek(8); len(peek) == 8 && allHex(peek) {
		n = 8
	}
	digits := l.buf.Peek(n)
	if len(digits) < n || !allHex(digits) {
		return "", false
	}
	l.buf.Advance(n)
	var code rune
	for _, c := range digits {
		code = code*16 + rune(hexVal(c))
	}
	if code > utf8.MaxRune {
		return "", false
	}
	return string(code), true
}

func allHex(s string) bool {
	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

func hexVal(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}

// recoverToLineEnd skips to just before the next newline (or eof), the
// panic-mode recovery point for a broken string literal, so the lexer can
// keep producing tokens on the following line.
func (l *Lexer) recoverToLineEnd() {
	for {
		peek := l.buf.Peek(1)
		if peek == "" || peek == "\n" {
			return
		}
		l.buf.Advance(1)
	}
}

// ----------------------------------------------------------------------------
// Parameters: "$name", "$123", or the legacy "{name}" form.

func (l *Lexer) scanParameter() (Token, error) {
	start := l.buf.Mark()
	l.buf.Advance(1) // '$'

	var sb strings.Builder
	r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
	switch {
	case r >= '0' && r <= '9':
		for {
			r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
			if r < '0' || r > '9' {
				break
			}
			sb.WriteString(l.buf.Advance(1))
		}
	case isIdentStart(r):
		sb.WriteString(l.buf.Advance(1))
		for {
			r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
			if !isIdentContinue(r) {
				break
			}
			sb.WriteString(l.buf.Advance(1))
		}
	default:
		return l.unterminated(start, "expected parameter name after '$'")
	}

	return Token{Kind: Parameter, Text: sb.String(), Range: l.buf.RangeFrom(start)}, nil
}

// tryLegacyParameter speculatively parses "{" ident "}" as a legacy
// parameter. If the lookahead doesn't match exactly (e.g. it's a map
// literal or node pattern property list), the buffer is restored and the
// caller falls back to emitting a plain '{' symbol.
func (l *Lexer) tryLegacyParameter() (Token, bool) {
	start := l.buf.Mark()
	l.buf.Advance(1) // '{'

	r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
	if !isIdentStart(r) {
		l.buf.Restore(start)
		return Token{}, false
	}

	var sb strings.Builder
	sb.WriteString(l.buf.Advance(1))
	for {
		r, _ := utf8.DecodeRuneInString(l.buf.Peek(1))
		if !isIdentContinue(r) {
			break
		}
		sb.WriteString(l.buf.Advance(1))
	}

	if l.buf.PeekByte() != '}' {
		l.buf.Restore(start)
		return Token{}, false
	}
	l.buf.Advance(1) // '}'

	return Token{Kind: Parameter, Text: sb.String(), Range: l.buf.RangeFrom(start)}, true
}

// ----------------------------------------------------------------------------
// Comments

func (l *Lexer) scanLineComment() Token {
	start := l.buf.Mark()
	l.buf.Advance(2) // "//"

	var sb strings.Builder
	for {
		peek := l.buf.Peek(1)
		if peek == "" || peek == "\n" || peek == "\r" {
			break
		}
		sb.WriteString(l.buf.Advance(1))
	}

	return Token{Kind: LineComment, Text: sb.String(), Range: l.buf.RangeFrom(start)}
}

func (l *Lexer) scanBlockComment() (Token, error) {
	start := l.buf.Mark()
	l.buf.Advance(2) // "/*"

	var sb strings.Builder
	for {
		if l.buf.AtEOF() {
			return l.unterminated(start, "unterminated block comment")
		}
		if l.buf.Peek(2) == "*/" {
			l.buf.Advance(2)
			break
		}
		sb.WriteString(l.buf.Advance(1))
	}

	return Token{Kind: BlockComment, Text: sb.String(), Range: l.buf.RangeFrom(start)}, nil
}

// ----------------------------------------------------------------------------
// Symbols
//
// Any punctuation rune the grammar doesn't expect is still tokenized here
// as a SYMBOL — it is the parser's job to reject it with a syntax error at
// the point it's unexpected, not the lexer's (see Open Question (a)).

func (l *Lexer) scanSymbol() Token {
	start := l.buf.Mark()

	for _, sym := range multiCharSymbols {
		if l.buf.Peek(len(sym)) == sym {
			l.buf.Advance(utf8.RuneCountInString(sym))
			return Token{Kind: Symbol, Text: sym, Range: l.buf.RangeFrom(start)}
		}
	}

	text := l.buf.Advance(1)
	if text == "" {
		// Truly exhausted input reaching here means AtEOF lied; treat as EOF.
		pos := l.buf.Position()
		return Token{Kind: EOF, Range: input.Range{Start: pos, End: pos}}
	}
	return Token{Kind: Symbol, Text: text, Range: l.buf.RangeFrom(start)}
}
