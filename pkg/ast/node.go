package ast

import (
	"fmt"

	"github.com/RedisGraph/libcypher-parser/pkg/input"
)

// Node is a single AST node: a kind tag, the source range it covers, an
// ordinal assigned at construction time, its owned children, and a
// precomputed detail string (spec §4.D: "the pretty-printer needs no
// kind-specific knowledge beyond kind.name and detailstr").
type Node struct {
	Kind     Kind
	Range    input.Range
	Ordinal  int
	Children []*Node
	Detail   string
}

// Visitor is called for each node during Walk. Returning false stops
// descent into that node's children (but sibling traversal continues).
type Visitor func(n *Node, depth int) (descend bool)

// Walk performs a pre-order traversal of n, invoking visit for every node
// including n itself.
func Walk(n *Node, visit Visitor) {
	walk(n, 0, visit)
}

func walk(n *Node, depth int, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, visit)
	}
}

// Builder assigns ordinals to nodes as they are constructed. A parse
// result owns exactly one Builder: ordinals must be unique within a
// result and are handed out in construction order, which — because
// recursive-descent productions build every child before the parent that
// references it — is also the order in which `@N` back-references in a
// detail string resolve to an already-numbered node.
type Builder struct {
	next int
}

// NewBuilder returns a Builder with no nodes constructed yet.
func NewBuilder() *Builder { return &Builder{} }

// Count returns how many nodes this Builder has constructed.
func (b *Builder) Count() int { return b.next }

// want pairs a reference argument with the kind(s) a constructor accepts
// for it, for use with checkKinds. A nil node is always accepted here —
// optional arguments are nil-checked by their own callers, not by kind.
type want struct {
	node  *Node
	label string
	kinds []Kind
}

func wantKind(node *Node, label string, kinds ...Kind) want {
	return want{node: node, label: label, kinds: kinds}
}

// checkKinds validates a constructor's reference arguments against the
// kind-parent table (I5: "a node constructed with the wrong kind of
// argument yields a nil node"). Every typed New* constructor below calls
// this before handing its arguments to newNode.
func checkKinds(ctor string, wants ...want) error {
	for _, w := range wants {
		if w.node == nil {
			continue
		}
		ok := false
		for _, k := range w.kinds {
			if IsInstanceOf(w.node, k) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("ast: %s: %s has kind %s, want %s", ctor, w.label, w.node.Kind, w.kinds[0])
		}
	}
	return nil
}

// checkEachKind applies checkKinds to every node in a slice sharing the
// same label and acceptable kinds (e.g. a labels list, where every
// element must be KindLabel).
func checkEachKind(ctor, label string, nodes []*Node, kinds ...Kind) error {
	for _, n := range nodes {
		if err := checkKinds(ctor, wantKind(n, label, kinds...)); err != nil {
			return err
		}
	}
	return nil
}

// newNode is the shared low-level constructor every typed New* function in
// this package funnels through. It enforces I1 (every ref argument appears
// in children) and I2 (the range contains every child's range), and
// assigns the next ordinal (I3). Kind-specific argument validation (I5)
// happens in the caller via checkKinds/checkEachKind, before this is
// reached. A validation failure returns (nil, err) — the caller must
// handle this, never dereference blindly.
func (b *Builder) newNode(kind Kind, refs []*Node, children []*Node, rng input.Range, detail string) (*Node, error) {
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if !containsPointer(children, ref) {
			return nil, fmt.Errorf("ast: %s: reference node (ordinal %d) is not among children", kind, ref.Ordinal)
		}
	}
	for _, c := range children {
		if c == nil {
			return nil, fmt.Errorf("ast: %s: nil child", kind)
		}
		if !rng.Contains(c.Range) {
			return nil, fmt.Errorf("ast: %s: child range %s escapes node range %s", kind, c.Range, rng)
		}
	}

	n := &Node{Kind: kind, Range: rng, Children: children, Detail: detail, Ordinal: b.next}
	b.next++
	return n, nil
}

func containsPointer(haystack []*Node, needle *Node) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}

// joinRanges returns the range spanning every node in nodes, in order.
// Constructors use it when the grammar production's own range isn't
// otherwise available (e.g. a synthetic wrapper with no separate
// open/close token of its own).
func joinRanges(nodes ...*Node) input.Range {
	var rng input.Range
	first := true
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if first {
			rng = n.Range
			first = false
			continue
		}
		rng = rng.Join(n.Range)
	}
	return rng
}
