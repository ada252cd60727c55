package scene

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TypeArrow is the discriminator value that marks an element as an edge.
const TypeArrow = "arrow"

// BoundElement references an element attached to another one, such as the
// label inside a container or an arrow glued to a shape. Unknown entry
// fields are kept.
type BoundElement struct {
	Type string
	ID   string

	extra *RawFields
}

var boundElementFields = newFieldTable(
	required("type", func(b *BoundElement) *string { return &b.Type }),
	required("id", func(b *BoundElement) *string { return &b.ID }),
)

// UnmarshalJSON decodes a bound element entry. type and id are required.
func (b *BoundElement) UnmarshalJSON(data []byte) error {
	var out BoundElement
	extra, seen, err := decodeRecord(data, boundElementFields, &out)
	if err != nil {
		return err
	}
	for _, name := range []string{"type", "id"} {
		if !seen[name] {
			return fmt.Errorf("bound element: missing required field %q", name)
		}
	}
	out.extra = extra
	*b = out
	return nil
}

// MarshalJSON writes the entry with its unknown fields.
func (b BoundElement) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, any]()
	boundElementFields.encodeInto(&b, out)
	mergeExtras(out, b.extra)
	return json.Marshal(out)
}

// Element is the common record behind every shape, text, and arrow in a scene.
//
// Optional attributes are pointers (or nil slices) so that a field missing
// from the source stays missing on output. Fields the model does not know are
// kept in an ordered sidecar and written back verbatim.
//
// An Element decoded by [Parse] is not modified afterwards; the typed views
// [Node] and [Edge] read from it without copying ownership.
type Element struct {
	// Identity and geometry. These are required.
	ID     string
	Type   string
	X      float64
	Y      float64
	Width  float64
	Height float64

	Angle *float64

	StrokeColor     *string
	BackgroundColor *string
	FillStyle       *string
	StrokeWidth     *float64
	StrokeStyle     *string
	Roughness       *int64
	Opacity         *int64 // 0..100

	GroupIDs  []string
	FrameID   *string
	Roundness *Roundness

	Seed         *int64
	Version      *int64
	VersionNonce *int64
	IsDeleted    *bool
	Updated      *int64 // epoch milliseconds

	BoundElements []BoundElement
	Link          *string
	Locked        *bool
	Index         *string // fractional z-order key

	extra *RawFields
}

var elementFields = newFieldTable(
	required("id", func(e *Element) *string { return &e.ID }),
	required("type", func(e *Element) *string { return &e.Type }),
	required("x", func(e *Element) *float64 { return &e.X }),
	required("y", func(e *Element) *float64 { return &e.Y }),
	required("width", func(e *Element) *float64 { return &e.Width }),
	required("height", func(e *Element) *float64 { return &e.Height }),
	optional("angle", func(e *Element) **float64 { return &e.Angle }),
	optional("strokeColor", func(e *Element) **string { return &e.StrokeColor }),
	optional("backgroundColor", func(e *Element) **string { return &e.BackgroundColor }),
	optional("fillStyle", func(e *Element) **string { return &e.FillStyle }),
	optional("strokeWidth", func(e *Element) **float64 { return &e.StrokeWidth }),
	optional("strokeStyle", func(e *Element) **string { return &e.StrokeStyle }),
	optional("roughness", func(e *Element) **int64 { return &e.Roughness }),
	optional("opacity", func(e *Element) **int64 { return &e.Opacity }),
	list("groupIds", func(e *Element) *[]string { return &e.GroupIDs }),
	optional("frameId", func(e *Element) **string { return &e.FrameID }),
	optional("roundness", func(e *Element) **Roundness { return &e.Roundness }),
	optional("seed", func(e *Element) **int64 { return &e.Seed }),
	optional("version", func(e *Element) **int64 { return &e.Version }),
	optional("versionNonce", func(e *Element) **int64 { return &e.VersionNonce }),
	optional("isDeleted", func(e *Element) **bool { return &e.IsDeleted }),
	optional("updated", func(e *Element) **int64 { return &e.Updated }),
	list("boundElements", func(e *Element) *[]BoundElement { return &e.BoundElements }),
	optional("link", func(e *Element) **string { return &e.Link }),
	optional("locked", func(e *Element) **bool { return &e.Locked }),
	optional("index", func(e *Element) **string { return &e.Index }),
)

// requiredElementFields must be present (and non-null) on every element.
var requiredElementFields = []string{"id", "type", "x", "y", "width", "height"}

// ElementFieldNames returns the names of the fields Element models directly,
// in output order.
func ElementFieldNames() []string { return elementFields.names() }

// decodeElement decodes a single element record and checks required fields.
func decodeElement(data []byte) (*Element, error) {
	e := &Element{}
	extra, seen, err := decodeRecord(data, elementFields, e)
	if err != nil {
		return nil, err
	}
	for _, name := range requiredElementFields {
		if !seen[name] {
			return nil, fmt.Errorf("missing required field %q", name)
		}
	}
	e.extra = extra
	return e, nil
}

// UnmarshalJSON decodes an element record. Unknown fields are retained.
func (e *Element) UnmarshalJSON(data []byte) error {
	decoded, err := decodeElement(data)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// MarshalJSON re-emits the element: known fields first, then the sidecar in
// source order. Absent fields are omitted.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields())
}

// Fields returns every present field of the element keyed by its native
// name. Known fields come first as typed values; unknown fields follow as
// json.RawMessage. The returned map is a fresh copy.
func (e *Element) Fields() *Fields {
	out := orderedmap.New[string, any]()
	elementFields.encodeInto(e, out)
	mergeExtras(out, e.extra)
	return out
}

// Field returns the value of a single field by native name.
func (e *Element) Field(name string) (any, bool) {
	if f, ok := elementFields.lookup(name); ok {
		return f.encode(e)
	}
	if e.extra == nil {
		return nil, false
	}
	raw, ok := e.extra.Get(name)
	if !ok {
		return nil, false
	}
	return json.RawMessage(bytes.Clone([]byte(raw))), true
}

// Extra returns the raw value of a field the model does not know.
func (e *Element) Extra(name string) (json.RawMessage, bool) {
	if e.extra == nil {
		return nil, false
	}
	raw, ok := e.extra.Get(name)
	if !ok {
		return nil, false
	}
	return bytes.Clone([]byte(raw)), true
}

// ExtraKeys lists the unknown fields in source order.
func (e *Element) ExtraKeys() []string { return rawKeys(e.extra) }

// IsArrow reports whether the element is a connection.
func (e *Element) IsArrow() bool { return e.Type == TypeArrow }

// Deleted reports whether the soft-delete flag is set.
func (e *Element) Deleted() bool { return e.IsDeleted != nil && *e.IsDeleted }

// Rotation returns the angle in radians, or 0 when absent.
func (e *Element) Rotation() float64 {
	if e.Angle == nil {
		return 0
	}
	return *e.Angle
}
