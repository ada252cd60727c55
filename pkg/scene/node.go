package scene

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Node is the typed view of a non-arrow element: shapes, text, images, frames.
// It shares identity with the underlying Element and adds the text attributes
// that labels and text elements carry.
type Node struct {
	*Element

	Text          *string
	FontSize      *float64
	FontFamily    *int64
	TextAlign     *string // left | center | right
	VerticalAlign *string // top | middle | bottom
	ContainerID   *string
	OriginalText  *string
	AutoResize    *bool
	LineHeight    *float64

	rest *RawFields
}

var nodeFields = newFieldTable(
	optional("text", func(n *Node) **string { return &n.Text }),
	optional("fontSize", func(n *Node) **float64 { return &n.FontSize }),
	optional("fontFamily", func(n *Node) **int64 { return &n.FontFamily }),
	optional("textAlign", func(n *Node) **string { return &n.TextAlign }),
	optional("verticalAlign", func(n *Node) **string { return &n.VerticalAlign }),
	optional("containerId", func(n *Node) **string { return &n.ContainerID }),
	optional("originalText", func(n *Node) **string { return &n.OriginalText }),
	optional("autoResize", func(n *Node) **bool { return &n.AutoResize }),
	optional("lineHeight", func(n *Node) **float64 { return &n.LineHeight }),
)

// NodeFieldNames returns the text-related field names the Node view adds.
func NodeFieldNames() []string { return nodeFields.names() }

// AsNode returns the Node view of e.
func AsNode(e *Element) Node {
	n := Node{Element: e}
	n.rest = project(e.extra, nodeFields, &n)
	return n
}

// Fields returns the element's fields with the text attributes typed.
func (n Node) Fields() *Fields {
	out := orderedmap.New[string, any]()
	elementFields.encodeInto(n.Element, out)
	nodeFields.encodeInto(&n, out)
	mergeExtras(out, n.rest)
	return out
}

// Field returns a single field by native name.
func (n Node) Field(name string) (any, bool) {
	if f, ok := nodeFields.lookup(name); ok {
		if v, ok := f.encode(&n); ok {
			return v, true
		}
	}
	// A value the view could not type is still in the element's sidecar.
	return n.Element.Field(name)
}

// MarshalJSON writes the node exactly as its element would be written.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Fields())
}

// project decodes the view fields named in table out of an element sidecar.
// A value that does not coerce stays in the returned remainder untouched, so
// the view never loses data.
func project[T any](extra *RawFields, table fieldTable[T], view *T) *RawFields {
	rest := orderedmap.New[string, json.RawMessage]()
	if extra == nil {
		return rest
	}
	for pair := extra.Oldest(); pair != nil; pair = pair.Next() {
		if f, ok := table.lookup(pair.Key); ok {
			if err := f.decode(view, pair.Value); err == nil {
				continue
			}
		}
		rest.Set(pair.Key, pair.Value)
	}
	return rest
}
