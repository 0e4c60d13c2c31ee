// Package valuetree models the generic ordered tag/value tree that the
// external data-loader front-end hands to the simulation core (spec.md
// §6). The core never parses the game's hierarchical text format itself;
// it only walks trees already built by that collaborator, so Node is
// deliberately shape-agnostic: a scalar, an ordered list of Nodes, or an
// ordered map of key to Node.
package valuetree

import "fmt"

// Kind discriminates a Node's payload.
type Kind int

const (
	Scalar Kind = iota
	List
	Map
)

// Node is one entry of an ordered tag/value tree. Only one of Value,
// Items, or Pairs is populated, matching Kind.
type Node struct {
	Kind Kind

	Value string // Kind == Scalar

	Items []Node // Kind == List

	// Pairs preserves insertion order, unlike a Go map, because
	// spec.md requires "duplicate keys within one block are errors" —
	// callers need to see keys in source order to report the first
	// duplicate rather than an arbitrary one.
	Pairs []Pair // Kind == Map
}

// Pair is one key/value entry of a Map-kind Node.
type Pair struct {
	Key   string
	Value Node
}

// NewScalar builds a scalar Node.
func NewScalar(v string) Node { return Node{Kind: Scalar, Value: v} }

// NewList builds a List Node.
func NewList(items ...Node) Node { return Node{Kind: List, Items: items} }

// NewMap builds a Map Node from ordered pairs.
func NewMap(pairs ...Pair) Node { return Node{Kind: Map, Pairs: pairs} }

// Get returns the first value registered under key in a Map node, and
// whether it was found.
func (n Node) Get(key string) (Node, bool) {
	if n.Kind != Map {
		return Node{}, false
	}
	for _, p := range n.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Node{}, false
}

// DuplicateKeys returns every key in a Map node that appears more than
// once, in the order of each key's second occurrence — used by
// modifier-block parsing to
// reject duplicate keys (spec.md §4.4).
func (n Node) DuplicateKeys() []string {
	if n.Kind != Map {
		return nil
	}
	seen := map[string]int{}
	var dups []string
	for _, p := range n.Pairs {
		seen[p.Key]++
		if seen[p.Key] == 2 {
			dups = append(dups, p.Key)
		}
	}
	return dups
}

func (n Node) String() string {
	switch n.Kind {
	case Scalar:
		return n.Value
	case List:
		return fmt.Sprintf("list(%d items)", len(n.Items))
	case Map:
		return fmt.Sprintf("map(%d pairs)", len(n.Pairs))
	default:
		return "invalid"
	}
}
