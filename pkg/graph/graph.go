package graph

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned when an edge's source is not a node
	// of the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned when an edge's target is not a node
	// of the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Graph is an attributed graph derived from a scene. It is either directed or
// undirected, and either a multigraph (parallel edges identified by key) or a
// simple graph (at most one edge per node pair, carrying a weight).
//
// A Graph is populated once by [Build] or [ReadGraph] and is read-only
// afterwards: every accessor returns copies. It is safe for concurrent reads.
type Graph struct {
	directed   bool
	multigraph bool

	nodes map[string]*Node
	order []string // node ids in first-insertion order

	edges []*Edge
	pairs map[pairKey][]*Edge // node pair -> edges between them
	keyed map[keyedKey]*Edge  // multigraph only

	meta Attrs
}

type pairKey struct{ u, v string }

type keyedKey struct {
	pair pairKey
	key  string
}

func newGraph(directed, multigraph bool) *Graph {
	return &Graph{
		directed:   directed,
		multigraph: multigraph,
		nodes:      make(map[string]*Node),
		pairs:      make(map[pairKey][]*Edge),
		keyed:      make(map[keyedKey]*Edge),
		meta:       Attrs{},
	}
}

// pair returns the index key for u and v. Undirected graphs do not
// distinguish (u, v) from (v, u).
func (g *Graph) pair(u, v string) pairKey {
	if !g.directed && v < u {
		u, v = v, u
	}
	return pairKey{u, v}
}

// addNode inserts a node or replaces the attributes of an existing one.
// A replaced node keeps its original position. It reports whether the id
// was already present.
func (g *Graph) addNode(id string, attrs Attrs) bool {
	if n, ok := g.nodes[id]; ok {
		n.Attrs = attrs
		return true
	}
	g.nodes[id] = &Node{ID: id, Attrs: attrs}
	g.order = append(g.order, id)
	return false
}

// addEdge inserts an edge between two existing nodes.
//
// In a multigraph the edge is identified by (source, target, key); adding
// an existing identity replaces its attributes. In a simple graph a second
// edge between the same pair increments the weight of the first and leaves
// its attributes untouched. It reports whether an existing edge absorbed the
// insertion.
func (g *Graph) addEdge(source, target, key string, attrs Attrs) (bool, error) {
	if _, ok := g.nodes[source]; !ok {
		return false, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[target]; !ok {
		return false, ErrUnknownTargetNode
	}

	p := g.pair(source, target)
	if g.multigraph {
		k := keyedKey{p, key}
		if e, ok := g.keyed[k]; ok {
			e.Attrs = attrs
			return true, nil
		}
		e := &Edge{Source: source, Target: target, Key: key, Attrs: attrs}
		g.keyed[k] = e
		g.insertEdge(p, e)
		return false, nil
	}

	if existing := g.pairs[p]; len(existing) > 0 {
		existing[0].Weight++
		return true, nil
	}
	g.insertEdge(p, &Edge{Source: source, Target: target, Weight: 1, Attrs: attrs})
	return false, nil
}

func (g *Graph) insertEdge(p pairKey, e *Edge) {
	g.edges = append(g.edges, e)
	g.pairs[p] = append(g.pairs[p], e)
}

// Directed reports whether edges have a direction.
func (g *Graph) Directed() bool { return g.directed }

// Multigraph reports whether parallel edges are kept as distinct keyed edges.
func (g *Graph) Multigraph() bool { return g.multigraph }

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].clone())
	}
	return out
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edges returns copies of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.clone()
	}
	return out
}

// EdgesBetween returns copies of the edges from u to v (in either direction
// for undirected graphs), in insertion order.
func (g *Graph) EdgesBetween(u, v string) []Edge {
	edges := g.pairs[g.pair(u, v)]
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.clone()
	}
	return out
}

// HasEdge reports whether at least one edge connects u to v.
func (g *Graph) HasEdge(u, v string) bool { return len(g.pairs[g.pair(u, v)]) > 0 }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges. In a simple graph coalesced arrows
// count once.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Meta returns a copy of the graph-level metadata.
func (g *Graph) Meta() Attrs { return g.meta.Clone() }

// Summary returns the node and edge counts recorded when the graph was built.
func (g *Graph) Summary() Summary {
	if s, ok := g.meta[MetaSummary].(Summary); ok {
		return s
	}
	return Summary{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()}
}

// Degree returns the number of edge endpoints at id, counting parallel edges
// but not weights. A self-loop counts twice.
func (g *Graph) Degree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.Source == id {
			n++
		}
		if e.Target == id {
			n++
		}
	}
	return n
}

// Isolated returns the ids of nodes without any incident edge, in insertion
// order.
func (g *Graph) Isolated() []string {
	touched := make(map[string]bool, len(g.nodes))
	for _, e := range g.edges {
		touched[e.Source] = true
		touched[e.Target] = true
	}
	return slices.DeleteFunc(slices.Clone(g.order), func(id string) bool { return touched[id] })
}

// setSummary records the summary metadata from the final collections.
func (g *Graph) setSummary() {
	g.meta[MetaSummary] = Summary{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()}
}
