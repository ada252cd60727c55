package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Reserved keys of node-link records. Attributes with these names are not
// written, since the structural value takes their place.
const (
	linkID     = "id"
	linkSource = "source"
	linkTarget = "target"
	linkKey    = "key"
	linkWeight = "weight"
)

// Record is one node or edge entry of the node-link format, with keys in
// output order.
type Record = orderedmap.OrderedMap[string, any]

// NodeLink is the wire format for graphs:
//
//	{
//	  "directed": true,
//	  "multigraph": true,
//	  "graph": {"summary": {"nodeCount": 2, "edgeCount": 1}},
//	  "nodes": [{"id": "a", "_kind": "node", ...}, ...],
//	  "edges": [{"source": "a", "target": "b", "key": "arrow-1", ...}, ...]
//	}
//
// Node records lead with "id"; edge records lead with "source", "target",
// and either "key" (multigraph) or "weight" (simple graph). The remaining
// attributes follow in name order.
type NodeLink struct {
	Directed   bool           `json:"directed"`
	Multigraph bool           `json:"multigraph"`
	Graph      map[string]any `json:"graph"`
	Nodes      []*Record      `json:"nodes"`
	Edges      []*Record      `json:"edges"`
}

// ToNodeLink converts g to its wire representation.
func ToNodeLink(g *Graph) NodeLink {
	out := NodeLink{
		Directed:   g.directed,
		Multigraph: g.multigraph,
		Graph:      map[string]any(g.meta.Clone()),
		Nodes:      make([]*Record, 0, len(g.order)),
		Edges:      make([]*Record, 0, len(g.edges)),
	}
	for _, id := range g.order {
		n := g.nodes[id]
		rec := orderedmap.New[string, any]()
		rec.Set(linkID, n.ID)
		appendAttrs(rec, n.Attrs, linkID)
		out.Nodes = append(out.Nodes, rec)
	}
	for _, e := range g.edges {
		rec := orderedmap.New[string, any]()
		rec.Set(linkSource, e.Source)
		rec.Set(linkTarget, e.Target)
		if g.multigraph {
			rec.Set(linkKey, e.Key)
		} else {
			rec.Set(linkWeight, e.Weight)
		}
		appendAttrs(rec, e.Attrs, linkSource, linkTarget, linkKey, linkWeight)
		out.Edges = append(out.Edges, rec)
	}
	return out
}

func appendAttrs(rec *Record, attrs Attrs, reserved ...string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if !slices.Contains(reserved, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec.Set(k, cloneValue(attrs[k]))
	}
}

// FromNodeLink rebuilds a graph from its wire representation. Edges must
// reference listed nodes. Node records keep "id" among their attributes, the
// way [Build] projects it by default.
func FromNodeLink(nl NodeLink) (*Graph, error) {
	g := newGraph(nl.Directed, nl.Multigraph)

	for i, rec := range nl.Nodes {
		id, err := stringField(rec, linkID)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		g.addNode(id, recordAttrs(rec))
	}

	for i, rec := range nl.Edges {
		source, err := stringField(rec, linkSource)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		target, err := stringField(rec, linkTarget)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		var key string
		if nl.Multigraph {
			if key, err = stringField(rec, linkKey); err != nil {
				return nil, fmt.Errorf("edge %d: %w", i, err)
			}
		}
		attrs := recordAttrs(rec, linkSource, linkTarget, linkKey, linkWeight)
		if _, err := g.addEdge(source, target, key, attrs); err != nil {
			return nil, fmt.Errorf("edge %d (%s -> %s): %w", i, source, target, err)
		}
		if !nl.Multigraph {
			// addEdge counted this record as one arrow; apply the recorded weight.
			if w, ok := rec.Get(linkWeight); ok {
				if f, ok := w.(float64); ok && f >= 1 {
					g.pairs[g.pair(source, target)][0].Weight += int(f) - 1
				}
			}
		}
	}

	for k, v := range nl.Graph {
		g.meta[k] = cloneValue(v)
	}
	// The recorded summary may be stale, so it is always recounted.
	g.setSummary()
	return g, nil
}

func stringField(rec *Record, key string) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("record is null")
	}
	v, ok := rec.Get(key)
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string, got %T", key, v)
	}
	return s, nil
}

func recordAttrs(rec *Record, reserved ...string) Attrs {
	attrs := Attrs{}
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		if !slices.Contains(reserved, pair.Key) {
			attrs[pair.Key] = pair.Value
		}
	}
	return attrs
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented node-link JSON.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as node-link JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// WriteGraphFile writes a graph as node-link JSON to a file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// UnmarshalGraph decodes node-link JSON into the wire type without building
// a graph, for inspection.
func UnmarshalGraph(data []byte) (NodeLink, error) {
	var nl NodeLink
	if err := json.Unmarshal(data, &nl); err != nil {
		return NodeLink{}, err
	}
	return nl, nil
}

// ReadGraph decodes node-link JSON from r into a graph.
func ReadGraph(r io.Reader) (*Graph, error) {
	var nl NodeLink
	if err := json.NewDecoder(r).Decode(&nl); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromNodeLink(nl)
}

// ReadGraphFile reads a node-link JSON file into a graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

func writeGraphTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToNodeLink(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
