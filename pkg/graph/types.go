package graph

// Attribute keys added by the builder.
const (
	// KindAttr tags every node and edge record with its origin.
	KindAttr = "_kind"

	KindNode = "node"
	KindEdge = "edge"
)

// MetaSummary is the graph metadata key holding the [Summary].
const MetaSummary = "summary"

// Attrs is an attribute mapping for nodes, edges, and the graph itself.
// Values are JSON-shaped: string, float64, bool, nil, []any, or
// map[string]any, plus [Summary] in graph metadata.
type Attrs map[string]any

// Clone returns a deep copy of the mapping.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// String returns the attribute as a string, if it is one.
func (a Attrs) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Float returns the attribute as a number, if it is one.
func (a Attrs) Float(key string) (float64, bool) {
	f, ok := a[key].(float64)
	return f, ok
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = cloneValue(x)
		}
		return out
	case Attrs:
		return t.Clone()
	default:
		return v
	}
}

// Node is a graph vertex keyed by the originating element id.
type Node struct {
	ID    string
	Attrs Attrs
}

func (n *Node) clone() Node { return Node{ID: n.ID, Attrs: n.Attrs.Clone()} }

// Kind returns the builder's kind tag, or "" for nodes read from elsewhere.
func (n Node) Kind() string {
	s, _ := n.Attrs.String(KindAttr)
	return s
}

// Label returns the node's text if it has one, otherwise its id.
func (n Node) Label() string {
	if s, ok := n.Attrs.String("text"); ok && s != "" {
		return s
	}
	return n.ID
}

// Edge is a connection between two nodes.
//
// In a multigraph, Key is the originating arrow id and Weight is zero. In a
// simple graph, Key is empty and Weight counts the arrows coalesced into the
// edge; Attrs come from the first of them.
type Edge struct {
	Source string
	Target string
	Key    string
	Weight int
	Attrs  Attrs
}

func (e *Edge) clone() Edge {
	out := *e
	out.Attrs = e.Attrs.Clone()
	return out
}

// Summary is the graph-level count record.
type Summary struct {
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
}
