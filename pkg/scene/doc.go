// Package scene provides a lossless model of diagram-editor scene files.
//
// A scene is a JSON document of positioned shapes, text, and arrows, as
// exported by Excalidraw-style editors. Scenes carry many optional and
// editor-specific fields, and new editor versions add more. This package
// models the fields it needs and carries the rest along untouched, so that a
// parsed scene can be written back without loss.
//
// # Core Types
//
//   - [Document]: the element list plus every other top-level key
//   - [Element]: the common record behind every shape, text, and arrow
//   - [Node]: typed view of a non-arrow element (adds text attributes)
//   - [Edge]: typed view of an arrow (adds points, bindings, arrowheads)
//   - [Binding], [Roundness], [BoundElement]: nested records
//
// # Round Trip
//
// Both input forms are accepted:
//
//	[ {"id": "a", "type": "rectangle", ...}, ... ]
//	{"type": "excalidraw", "version": 2, "elements": [...], "appState": {...}}
//
// For any well-formed scene object S:
//
//	doc, _ := scene.Parse(S)
//	out, _ := scene.Reconstruct(doc)
//	// out is deep-equal to S, except that fields written as null in S
//	// are omitted from out.
//
// A bare array is reconstructed as {"elements": [...]}.
//
// # Views
//
// [Document.Nodes] and [Document.Edges] split elements by the "type"
// discriminator: "arrow" elements are edges, everything else is a node. The
// views point at the same Element; they are recomputed on each call and never
// modify the document.
//
// # Field Access
//
// Every record exposes Fields, an ordered map keyed by native field name
// ("strokeColor", "groupIds", ...). Known fields hold typed Go values;
// unknown fields hold their raw JSON. The graph builder projects attributes
// through this map.
//
// # Concurrency
//
// A Document is not modified after Parse returns and is safe for concurrent
// reads.
package scene
