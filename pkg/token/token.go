// Package token implements the Cypher lexer: a lazy sequence of tokens
// pulled from a pkg/input.Buffer. It understands Cypher's case-insensitive
// keywords, back-quoted identifiers, numeric and string literal syntax,
// parameters, and comments.
package token

import "github.com/RedisGraph/libcypher-parser/pkg/input"

// Kind tags the variant a Token holds.
type Kind int

const (
	EOF Kind = iota
	Keyword
	Identifier
	Integer
	Float
	String
	Symbol
	Parameter
	LineComment
	BlockComment
	Error
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Keyword:
		return "KEYWORD"
	case Identifier:
		return "IDENTIFIER"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case String:
		return "STRING"
	case Symbol:
		return "SYMBOL"
	case Parameter:
		return "PARAMETER"
	case LineComment:
		return "LINE_COMMENT"
	case BlockComment:
		return "BLOCK_COMMENT"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Token is a single lexical unit. Text carries the kind-specific payload:
// the canonical upper-cased spelling for a Keyword, the original-case text
// for an Identifier, the digits for Integer/Float, the unescaped payload
// for a String, the punctuation run for a Symbol, the name (without '$' or
// the legacy '{'/'}') for a Parameter, and the body text (without the
// comment marker) for either comment kind.
type Token struct {
	Kind       Kind
	Text       string
	Quote      byte // '\'' or '"', only meaningful when Kind == String
	BackQuoted bool // true for `back-quoted` identifiers; never reclassified as a keyword
	Range      input.Range
}
