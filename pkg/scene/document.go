package scene

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// elementsKey is the top-level key that holds the element list.
const elementsKey = "elements"

// Document is a parsed scene: the ordered element list plus every other
// top-level key, kept verbatim and in source order.
type Document struct {
	Elements []*Element
	Metadata *RawFields
}

// Parse decodes a scene. raw is either a bare JSON array of elements or an
// object with an "elements" array and arbitrary sibling keys (appState,
// files, version, source, ...). Sibling keys are stored uninterpreted.
//
// Parse fails with [errors.ErrCodeMalformedInput] when the top-level value is
// neither an object nor an array, or when any element lacks id, type, x, y,
// width, or height, or carries a known field of the wrong type. No partial
// document is returned.
func Parse(raw []byte) (*Document, error) {
	if !json.Valid(raw) {
		return nil, errors.New(errors.ErrCodeMalformedInput, "scene is not valid JSON")
	}

	switch {
	case isArray(raw):
		elements, err := decodeElements(raw)
		if err != nil {
			return nil, err
		}
		return &Document{Elements: elements, Metadata: orderedmap.New[string, json.RawMessage]()}, nil

	case isObject(raw):
		top := orderedmap.New[string, json.RawMessage]()
		if err := top.UnmarshalJSON(raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode scene")
		}
		var elements []*Element
		if list, ok := top.Delete(elementsKey); ok && !isNull(list) {
			if !isArray(list) {
				return nil, errors.New(errors.ErrCodeMalformedInput, "%q must be an array", elementsKey)
			}
			var err error
			if elements, err = decodeElements(list); err != nil {
				return nil, err
			}
		}
		if elements == nil {
			elements = []*Element{}
		}
		return &Document{Elements: elements, Metadata: top}, nil

	default:
		return nil, errors.New(errors.ErrCodeMalformedInput, "scene must be a JSON object or array")
	}
}

func decodeElements(raw []byte) ([]*Element, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode elements")
	}
	out := make([]*Element, 0, len(items))
	for i, item := range items {
		e, err := decodeElement(item)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "element %d", i)
		}
		out = append(out, e)
	}
	return out, nil
}

// Reconstruct encodes the document back into a scene object: metadata keys
// first in their original order, then "elements". Element fields that are
// absent are omitted rather than written as null.
func Reconstruct(doc *Document) ([]byte, error) {
	out := orderedmap.New[string, any]()
	if doc.Metadata != nil {
		for pair := doc.Metadata.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	}
	elements := doc.Elements
	if elements == nil {
		elements = []*Element{}
	}
	out.Set(elementsKey, elements)
	return json.Marshal(out)
}

// MarshalJSON is equivalent to [Reconstruct].
func (d *Document) MarshalJSON() ([]byte, error) { return Reconstruct(d) }

// UnmarshalJSON is equivalent to [Parse].
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// Nodes returns the Node view of every non-arrow element, in document order.
func (d *Document) Nodes() []Node {
	var out []Node
	for _, e := range d.Elements {
		if !e.IsArrow() {
			out = append(out, AsNode(e))
		}
	}
	return out
}

// Edges returns the Edge view of every arrow element, in document order.
func (d *Document) Edges() []Edge {
	var out []Edge
	for _, e := range d.Elements {
		if e.IsArrow() {
			out = append(out, AsEdge(e))
		}
	}
	return out
}

// Element returns the element with the given id. With duplicate ids the
// last one in document order is returned.
func (d *Document) Element(id string) (*Element, bool) {
	for i := len(d.Elements) - 1; i >= 0; i-- {
		if d.Elements[i].ID == id {
			return d.Elements[i], true
		}
	}
	return nil, false
}

// MetadataValue returns the raw value of a top-level key.
func (d *Document) MetadataValue(key string) (json.RawMessage, bool) {
	if d.Metadata == nil {
		return nil, false
	}
	return d.Metadata.Get(key)
}

// MetadataKeys lists the top-level keys other than "elements", in order.
func (d *Document) MetadataKeys() []string { return rawKeys(d.Metadata) }
