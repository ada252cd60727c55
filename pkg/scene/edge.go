package scene

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Point is a polyline vertex relative to the element origin.
type Point = [2]float64

// Edge is the typed view of an arrow element. The arrow's own id identifies
// it; the bindings name the elements it connects.
type Edge struct {
	*Element

	Points       []Point
	StartBinding *Binding
	EndBinding   *Binding

	StartArrowhead *string // arrow | bar | dot | triangle | ...
	EndArrowhead   *string

	Elbowed            *bool
	FixedSegments      json.RawMessage
	LastCommittedPoint json.RawMessage
	StartIsSpecial     *bool
	EndIsSpecial       *bool

	rest *RawFields
}

var edgeFields = newFieldTable(
	list("points", func(e *Edge) *[]Point { return &e.Points }),
	optional("startBinding", func(e *Edge) **Binding { return &e.StartBinding }),
	optional("endBinding", func(e *Edge) **Binding { return &e.EndBinding }),
	optional("startArrowhead", func(e *Edge) **string { return &e.StartArrowhead }),
	optional("endArrowhead", func(e *Edge) **string { return &e.EndArrowhead }),
	optional("elbowed", func(e *Edge) **bool { return &e.Elbowed }),
	opaque("fixedSegments", func(e *Edge) *json.RawMessage { return &e.FixedSegments }),
	opaque("lastCommittedPoint", func(e *Edge) *json.RawMessage { return &e.LastCommittedPoint }),
	optional("startIsSpecial", func(e *Edge) **bool { return &e.StartIsSpecial }),
	optional("endIsSpecial", func(e *Edge) **bool { return &e.EndIsSpecial }),
)

// EdgeFieldNames returns the arrow-specific field names the Edge view adds.
func EdgeFieldNames() []string { return edgeFields.names() }

// AsEdge returns the Edge view of e. A binding that fails to decode is left
// unresolved, and its raw value is kept for output.
func AsEdge(e *Element) Edge {
	v := Edge{Element: e}
	v.rest = project(e.extra, edgeFields, &v)
	return v
}

// SourceID returns the element id the arrow starts at.
func (e Edge) SourceID() (string, bool) {
	if !e.StartBinding.Resolved() {
		return "", false
	}
	return e.StartBinding.ElementID, true
}

// TargetID returns the element id the arrow ends at.
func (e Edge) TargetID() (string, bool) {
	if !e.EndBinding.Resolved() {
		return "", false
	}
	return e.EndBinding.ElementID, true
}

// Fields returns the element's fields with the arrow attributes typed.
func (e Edge) Fields() *Fields {
	out := orderedmap.New[string, any]()
	elementFields.encodeInto(e.Element, out)
	edgeFields.encodeInto(&e, out)
	mergeExtras(out, e.rest)
	return out
}

// Field returns a single field by native name.
func (e Edge) Field(name string) (any, bool) {
	if f, ok := edgeFields.lookup(name); ok {
		if v, ok := f.encode(&e); ok {
			return v, true
		}
	}
	return e.Element.Field(name)
}

// MarshalJSON writes the arrow as its element would be written. Points that
// are not pairs stay raw, so they are written back unchanged.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields())
}
