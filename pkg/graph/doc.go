// Package graph derives attributed graphs from scene documents.
//
// Shapes, text, and other non-arrow elements become nodes keyed by element
// id. Arrows become edges, resolved through their start and end bindings.
// The document is only read: building a graph never changes it, so the
// lossless round trip of [scene.Reconstruct] is unaffected.
//
// # Modes
//
// [Options] selects one of four graph kinds:
//
//	Undirected  CoalesceParallelEdges  Result
//	false       false                  directed multigraph (zero value)
//	true        false                  undirected multigraph
//	false       true                   directed simple graph
//	true        true                   undirected simple graph
//
// In a multigraph every arrow is its own edge, keyed by the arrow id. In a
// simple graph arrows between the same pair coalesce into one edge whose
// Weight counts them; the first arrow supplies the attributes. Undirected
// simple graphs treat (a, b) and (b, a) as the same pair.
//
// # Dropped Arrows
//
// An arrow is left out when either binding is missing, or when a binding
// names an element that is not a node (unknown id, another arrow, or a
// soft-deleted element that was filtered out). [BuildWithReport] lists every
// dropped arrow with its [DropReason]; nothing here is an error.
//
// # Attribute Projection
//
// Nodes and edges carry only the whitelisted fields that are present on the
// element, plus "_kind" ("node" or "edge"). Values are JSON-shaped, so
// nested records such as roundness or points arrive as map[string]any and
// []any. Nil whitelists select [DefaultNodeFields] and [DefaultEdgeFields].
//
// # Duplicate Ids
//
// Element ids are expected to be unique. When they are not, the later
// element's attributes replace the earlier ones and the node keeps its
// first position; the Report lists each repeated id.
//
// # Serialization
//
// Graphs are written in node-link JSON:
//
//	{
//	  "directed": true,
//	  "multigraph": true,
//	  "graph": {"summary": {"nodeCount": 2, "edgeCount": 1}},
//	  "nodes": [{"id": "a", "_kind": "node", "x": 0, ...}],
//	  "edges": [{"source": "a", "target": "b", "key": "arrow-1", ...}]
//	}
//
// Common operations:
//
//	g := graph.Build(doc, graph.DefaultOptions())  // Document → Graph
//	graph.WriteGraphFile(g, "graph.json")         // Graph → File
//	data, _ := graph.MarshalGraph(g)              // Graph → []byte
//	nl, _ := graph.UnmarshalGraph(data)           // []byte → NodeLink
//	g2, _ := graph.ReadGraphFile("graph.json")    // File → Graph
//
// # Concurrency
//
// A built Graph is read-only and safe for concurrent reads.
package graph
