package graph

import (
	"encoding/json"
	"errors"

	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// DropReason explains why an arrow is not represented in the graph.
type DropReason string

const (
	DropMissingStart  DropReason = "missing_start_binding"
	DropMissingEnd    DropReason = "missing_end_binding"
	DropUnknownSource DropReason = "unknown_source"
	DropUnknownTarget DropReason = "unknown_target"
)

// DroppedEdge records an arrow left out of the graph.
type DroppedEdge struct {
	ArrowID  string     `json:"arrowId"`
	Reason   DropReason `json:"reason"`
	Endpoint string     `json:"endpoint,omitempty"` // the unregistered element id, if any
}

// Report lists what the builder tolerated while building a graph. None of
// it is an error.
type Report struct {
	// Dropped arrows, in document order.
	Dropped []DroppedEdge `json:"dropped,omitempty"`
	// DuplicateNodes lists node ids seen more than once, in the order the
	// repeat was found. The last element with the id supplied the attributes.
	DuplicateNodes []string `json:"duplicateNodes,omitempty"`
	// SkippedDeleted counts soft-deleted elements (nodes and arrows) that
	// were filtered out.
	SkippedDeleted int `json:"skippedDeleted"`
	// Merged counts arrows absorbed by an existing edge: a weight increment
	// in a simple graph, or a repeated key in a multigraph.
	Merged int `json:"merged"`
}

// Build derives a graph from doc. See [BuildWithReport].
func Build(doc *scene.Document, opts Options) *Graph {
	g, _ := BuildWithReport(doc, opts)
	return g
}

// BuildWithReport derives a graph from doc and reports the arrows and
// elements it had to leave out.
//
// Every non-arrow element becomes a node keyed by its id, carrying the
// fields named in opts.NodeAttributeFields that are present on the element.
// Every arrow whose start and end bindings both name a registered node
// becomes an edge from start to end. Arrows with a missing or dangling
// binding are dropped. Soft-deleted elements are skipped on both passes
// unless opts.IncludeDeleted is set.
//
// When two elements share an id, the later one's attributes replace the
// earlier one's and the node keeps its first position. In a simple graph,
// the first arrow between a pair supplies the edge attributes and later
// arrows only add to the weight.
//
// doc is not modified.
func BuildWithReport(doc *scene.Document, opts Options) (*Graph, Report) {
	g := newGraph(opts.Directed(), opts.AllowParallelEdges())
	var report Report
	duplicates := make(map[string]bool)

	nodeFields := opts.nodeFields()
	for _, n := range doc.Nodes() {
		if n.Deleted() && !opts.IncludeDeleted {
			report.SkippedDeleted++
			continue
		}
		attrs := project(n.Fields(), nodeFields)
		attrs[KindAttr] = KindNode
		if g.addNode(n.ID, attrs) && !duplicates[n.ID] {
			duplicates[n.ID] = true
			report.DuplicateNodes = append(report.DuplicateNodes, n.ID)
		}
	}

	edgeFields := opts.edgeFields()
	for _, e := range doc.Edges() {
		if e.Deleted() && !opts.IncludeDeleted {
			report.SkippedDeleted++
			continue
		}
		source, ok := e.SourceID()
		if !ok {
			report.Dropped = append(report.Dropped, DroppedEdge{ArrowID: e.ID, Reason: DropMissingStart})
			continue
		}
		target, ok := e.TargetID()
		if !ok {
			report.Dropped = append(report.Dropped, DroppedEdge{ArrowID: e.ID, Reason: DropMissingEnd})
			continue
		}

		attrs := project(e.Fields(), edgeFields)
		attrs[KindAttr] = KindEdge
		merged, err := g.addEdge(source, target, e.ID, attrs)
		switch {
		case errors.Is(err, ErrUnknownSourceNode):
			report.Dropped = append(report.Dropped, DroppedEdge{ArrowID: e.ID, Reason: DropUnknownSource, Endpoint: source})
		case errors.Is(err, ErrUnknownTargetNode):
			report.Dropped = append(report.Dropped, DroppedEdge{ArrowID: e.ID, Reason: DropUnknownTarget, Endpoint: target})
		case merged:
			report.Merged++
		}
	}

	g.setSummary()
	return g, report
}

// project copies the whitelisted fields that are present in fields. Values
// are normalized to their JSON shape so the graph holds no references into
// the document.
func project(fields *scene.Fields, names []string) Attrs {
	attrs := make(Attrs, len(names)+1)
	for _, name := range names {
		v, ok := fields.Get(name)
		if !ok {
			continue
		}
		attrs[name] = plainValue(v)
	}
	return attrs
}

// plainValue converts typed scene values (Roundness, Binding, points,
// raw JSON) into string/float64/bool/nil/[]any/map[string]any.
func plainValue(v any) any {
	switch t := v.(type) {
	case string, float64, bool, nil:
		return t
	case int64:
		return float64(t)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// Empty reports whether nothing was dropped and no id was repeated.
func (r Report) Empty() bool { return len(r.Dropped) == 0 && len(r.DuplicateNodes) == 0 }
