package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// DefaultNodeFields is the node projection used when Options leaves it nil:
// position, size, rotation, text, grouping, frame, and styling.
var DefaultNodeFields = []string{
	"id", "type", "x", "y", "width", "height", "angle",
	"text", "fontSize", "groupIds", "frameId",
	"backgroundColor", "strokeColor", "opacity", "roundness",
}

// DefaultEdgeFields is the edge projection used when Options leaves it nil:
// geometry, arrowheads, styling, and routing.
var DefaultEdgeFields = []string{
	"id", "type", "points", "startArrowhead", "endArrowhead",
	"strokeColor", "strokeWidth", "elbowed", "opacity",
}

// Options configures [Build].
//
// The zero value builds a directed multigraph that skips deleted elements
// and uses the default projections.
type Options struct {
	// Undirected drops arrow direction. By default arrows point from the
	// start binding to the end binding.
	Undirected bool
	// CoalesceParallelEdges merges arrows between the same pair into one
	// weighted edge. By default each arrow is its own keyed edge.
	CoalesceParallelEdges bool
	// IncludeDeleted keeps soft-deleted elements as nodes and edges.
	IncludeDeleted bool

	// NodeAttributeFields whitelists element fields copied onto nodes.
	// nil selects DefaultNodeFields; an empty slice copies nothing.
	NodeAttributeFields []string
	// EdgeAttributeFields whitelists arrow fields copied onto edges.
	// nil selects DefaultEdgeFields; an empty slice copies nothing.
	EdgeAttributeFields []string
}

// DefaultOptions returns the zero Options: a directed multigraph that skips
// deleted elements and uses the default projections.
func DefaultOptions() Options {
	return Options{}
}

// Directed reports whether the built graph keeps arrow direction.
func (o Options) Directed() bool { return !o.Undirected }

// AllowParallelEdges reports whether each arrow becomes its own edge.
func (o Options) AllowParallelEdges() bool { return !o.CoalesceParallelEdges }

// Validate rejects projection lists with names that can never match a field.
func (o Options) Validate() error {
	if err := errors.ValidateFieldNames(o.NodeAttributeFields); err != nil {
		return fmt.Errorf("node attribute fields: %w", err)
	}
	if err := errors.ValidateFieldNames(o.EdgeAttributeFields); err != nil {
		return fmt.Errorf("edge attribute fields: %w", err)
	}
	return nil
}

func (o Options) nodeFields() []string {
	if o.NodeAttributeFields == nil {
		return DefaultNodeFields
	}
	return o.NodeAttributeFields
}

func (o Options) edgeFields() []string {
	if o.EdgeAttributeFields == nil {
		return DefaultEdgeFields
	}
	return o.EdgeAttributeFields
}

// Clone returns a copy that shares no slices with o.
func (o Options) Clone() Options {
	out := o
	out.NodeAttributeFields = slices.Clone(o.NodeAttributeFields)
	out.EdgeAttributeFields = slices.Clone(o.EdgeAttributeFields)
	return out
}
