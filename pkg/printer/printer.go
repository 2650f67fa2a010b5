// Package printer renders a parsed AST as columnar text and formats parse
// errors with a caret pointing at the offending column, both optionally
// wrapped in ANSI escape sequences drawn from a pluggable colorization
// table (spec §4.G).
package printer

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/RedisGraph/libcypher-parser/pkg/ast"
	"github.com/RedisGraph/libcypher-parser/pkg/input"
)

// Colorization maps a span category to a (prefix, suffix) escape-sequence
// pair. NoColorization (the zero value) renders every span unadorned —
// "the no colorization table yields empty strings everywhere".
type Colorization struct {
	Ordinal      [2]string
	Kind         [2]string
	Range        [2]string
	Detail       [2]string
	ErrorMessage [2]string
}

// NoColorization is the explicit zero-value table, named for callers that
// want to pass it rather than a nil *Colorization.
var NoColorization = Colorization{}

// DefaultColorization returns the ANSI table cypher-lint's --colorize
// flag installs: bold ordinals, cyan bold kind names, faint ranges, green
// detail strings, red bold error parentheticals.
func DefaultColorization() *Colorization {
	return &Colorization{
		Ordinal:      ansiPair(color.Bold),
		Kind:         ansiPair(color.FgCyan, color.Bold),
		Range:        ansiPair(color.Faint),
		Detail:       ansiPair(color.FgGreen),
		ErrorMessage: ansiPair(color.FgRed, color.Bold),
	}
}

func ansiPair(attrs ...color.Attribute) [2]string {
	codes := make([]string, len(attrs))
	for i, a := range attrs {
		codes[i] = strconv.Itoa(int(a))
	}
	prefix := "\x1b[" + strings.Join(codes, ";") + "m"
	suffix := "\x1b[" + strconv.Itoa(int(color.Reset)) + "m"
	return [2]string{prefix, suffix}
}

func wrap(pair [2]string, text string) string {
	if pair[0] == "" && pair[1] == "" {
		return text
	}
	return pair[0] + text + pair[1]
}

// Flags reserves room for future pretty-print options; cypher-lint always
// passes the zero value today, mirroring cypher_parse_result_fprint's
// unused trailing flags argument in the original C API.
type Flags uint

// Fprint renders roots (a parse result's directives) to w: one line per
// node, walked in ordinal order (construction order, not tree order,
// since a node's ordinal is always higher than its children's), each line
// "@ORDINAL KIND RANGE  DETAIL  CHILDREN". Lines are soft-wrapped to
// width by moving the children column to an indented continuation line;
// the detail string itself is never split.
func Fprint(w io.Writer, roots []*ast.Node, width int, c *Colorization, _ Flags) error {
	if c == nil {
		c = &NoColorization
	}
	for _, n := range orderedNodes(roots) {
		if _, err := fmt.Fprintln(w, formatLine(n, width, c)); err != nil {
			return err
		}
	}
	return nil
}

// orderedNodes collects every node reachable from roots, deduplicated and
// sorted by ordinal ascending.
func orderedNodes(roots []*ast.Node) []*ast.Node {
	var all []*ast.Node
	seen := make(map[*ast.Node]bool)
	for _, r := range roots {
		ast.Walk(r, func(n *ast.Node, _ int) bool {
			if !seen[n] {
				seen[n] = true
				all = append(all, n)
			}
			return true
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Ordinal < all[j].Ordinal })
	return all
}

func formatLine(n *ast.Node, width int, c *Colorization) string {
	ordinalText := fmt.Sprintf("@%d", n.Ordinal)
	kindText := n.Kind.String()
	rangeText := fmt.Sprintf("@%d..%d", n.Range.Start.Offset, n.Range.End.Offset)
	detailText := n.Detail
	childrenText := childrenColumn(n)

	plain := ordinalText + " " + kindText + " " + rangeText + "  " + detailText
	if childrenText != "" {
		plain += "  " + childrenText
	}

	head := wrap(c.Ordinal, ordinalText) + " " + wrap(c.Kind, kindText) + " " +
		wrap(c.Range, rangeText) + "  " + wrap(c.Detail, detailText)

	if childrenText == "" {
		return head
	}
	if width <= 0 || len(plain) <= width {
		return head + "  " + childrenText
	}

	indent := strings.Repeat(" ", len(ordinalText)+1+len(kindText)+1+len(rangeText)+2)
	return head + "\n" + indent + childrenText
}

func childrenColumn(n *ast.Node) string {
	if len(n.Children) == 0 {
		return ""
	}
	parts := make([]string, len(n.Children))
	for i, child := range n.Children {
		parts[i] = fmt.Sprintf("@%d", child.Ordinal)
	}
	return strings.Join(parts, ", ")
}

// FormatError renders one parse error the way cypher-lint's process()
// does: "message (line L, column C, offset O):", colorized only around
// the parenthetical, followed by the context snippet and a caret line
// built from the snippet offset — reproduced verbatim from
// original_source/src/bin/cypher-lint.c's
// "%s %s(line %u, column %u, offset %zu)%s%s\n" / "%s\n%*.*s^\n" pair.
func FormatError(w io.Writer, pos input.Position, message, snippet string, snippetOffset int, c *Colorization) error {
	if c == nil {
		c = &NoColorization
	}
	suffix := ""
	if snippet != "" {
		suffix = ":"
	}
	paren := fmt.Sprintf("(line %d, column %d, offset %d)", pos.Line, pos.Column, pos.Offset)
	if _, err := fmt.Fprintf(w, "%s %s%s\n", message, wrap(c.ErrorMessage, paren), suffix); err != nil {
		return err
	}
	if snippet == "" {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s\n%s^\n", snippet, strings.Repeat(" ", snippetOffset)); err != nil {
		return err
	}
	return nil
}
