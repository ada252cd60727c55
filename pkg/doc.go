// Package pkg provides the libraries behind sketchgraph.
//
// # Overview
//
// sketchgraph reads whiteboard scenes (Excalidraw-style JSON) and derives a
// graph from them: shapes become nodes and arrows bound to two shapes become
// edges. The pkg directory is organized into three areas:
//
//  1. Core: [scene] holds a scene losslessly and [graph] builds the graph.
//  2. Boundary: [io] reads and writes scene files, and [render/nodelink]
//     turns a graph into DOT and SVG.
//  3. Infrastructure: [pipeline] runs parse → build → render with artifact
//     caching in [cache], hooks from [observability], defaults from
//     [config], and coded errors from [errors].
//
// # Data Flow
//
//	scene file
//	     ↓
//	[scene] Parse (lossless Document)
//	     ↓
//	[graph] Build (nodes, edges, Report of dropped arrows)
//	     ↓
//	node-link JSON, DOT, SVG, or the reconstructed scene
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/sketchgraph/pkg/graph"
//	    "github.com/matzehuels/sketchgraph/pkg/io"
//	)
//
//	doc, err := io.ImportScene("flow.excalidraw")
//	if err != nil {
//	    return err
//	}
//	g, report := graph.BuildWithReport(doc, graph.DefaultOptions())
//	for _, d := range report.Dropped {
//	    log.Printf("arrow %s dropped: %s", d.ArrowID, d.Reason)
//	}
//	return graph.WriteGraphFile(g, "flow.graph.json")
//
// The Document keeps every field it does not interpret, so
// [scene.Reconstruct] yields JSON equal to the input apart from dropped
// nulls.
package pkg
