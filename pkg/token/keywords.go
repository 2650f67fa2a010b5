package token

import "strings"

// keywords maps a case-folded spelling to its canonical upper-case form.
// An identifier-like run is reclassified from Identifier to Keyword when
// its folded spelling appears here (unless it was back-quoted).
var keywords = buildKeywords(
	"MATCH", "OPTIONAL", "UNWIND", "MERGE", "CREATE", "SET", "DELETE",
	"DETACH", "REMOVE", "FOREACH", "WITH", "WHERE", "RETURN", "ORDER",
	"BY", "SKIP", "LIMIT", "ASC", "ASCENDING", "DESC", "DESCENDING",
	"UNION", "ALL", "DISTINCT", "AS", "CASE", "WHEN", "THEN", "ELSE",
	"END", "FILTER", "EXTRACT", "REDUCE", "ANY", "NONE", "SINGLE",
	"STARTS", "ENDS", "CONTAINS", "IN", "IS", "NOT", "AND", "OR", "XOR",
	"NULL", "TRUE", "FALSE", "START", "CALL", "YIELD", "LOAD", "CSV",
	"FROM", "HEADERS", "FIELDTERMINATOR", "USING", "JOIN", "SCAN",
	"INDEX", "ON", "DROP", "CONSTRAINT", "ASSERT", "UNIQUE", "EXISTS",
)

func buildKeywords(words ...string) map[string]string {
	m := make(map[string]string, len(words))
	for _, w := range words {
		m[strings.ToUpper(w)] = strings.ToUpper(w)
	}
	return m
}

// canonicalKeyword returns the canonical spelling and true if word
// case-insensitively names a Cypher keyword.
func canonicalKeyword(word string) (string, bool) {
	canon, ok := keywords[strings.ToUpper(word)]
	return canon, ok
}

// IsContextualKeyword reports whether word is one of the keywords that
// the grammar also accepts as a plain identifier in certain positions
// (spec §4.E: "BY", "ON", "WHERE" are keywords only in context — the
// lexer always classifies them as KEYWORD; it's the parser that may
// downgrade one back to an identifier at a specific grammar point).
func IsContextualKeyword(canonicalWord string) bool {
	switch canonicalWord {
	case "BY", "ON", "WHERE", "ALL", "ASC", "DESC", "EXISTS":
		return true
	default:
		return false
	}
}
