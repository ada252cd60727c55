// Package nodelink renders scene graphs as node-link diagrams.
//
// # Overview
//
// This package turns a [graph.Graph] built from a scene into Graphviz DOT
// source and, optionally, SVG. Nodes keep the positions their elements had
// in the drawing: each one is pinned at the centre of its bounding box and
// the neato engine honours the pins instead of computing a layout.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Appearance
//
//   - Directed graphs become a digraph, undirected ones a graph.
//   - Node shape follows the element type (rectangle, ellipse, diamond).
//   - strokeColor and backgroundColor become the outline and fill colours.
//   - Labels use the element text and fall back to the id.
//   - Multigraph edges carry their arrow id as a tooltip. Coalesced edges in
//     a simple graph are labelled with their weight.
//
// Only projected attributes are visible here, so a node whose field
// whitelist drops x or y is drawn at the origin.
//
// # Dependencies
//
// SVG rendering runs in process through [github.com/goccy/go-graphviz].
package nodelink
