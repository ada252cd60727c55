package scene

import (
	"encoding/json"
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Binding attaches one end of an arrow to another element.
// Unknown binding fields (e.g. "mode" in newer editor versions) are kept.
type Binding struct {
	ElementID  string
	Focus      *float64
	Gap        *float64
	FixedPoint []float64 // ratios within the target, usually a pair

	extra *RawFields
}

var bindingFields = newFieldTable(
	required("elementId", func(b *Binding) *string { return &b.ElementID }),
	optional("focus", func(b *Binding) **float64 { return &b.Focus }),
	optional("gap", func(b *Binding) **float64 { return &b.Gap }),
	list("fixedPoint", func(b *Binding) *[]float64 { return &b.FixedPoint }),
)

// UnmarshalJSON decodes a binding. elementId is required.
func (b *Binding) UnmarshalJSON(data []byte) error {
	var out Binding
	extra, seen, err := decodeRecord(data, bindingFields, &out)
	if err != nil {
		return err
	}
	if !seen["elementId"] {
		return fmt.Errorf("binding: missing required field %q", "elementId")
	}
	out.extra = extra
	*b = out
	return nil
}

// MarshalJSON writes the binding with its unknown fields.
func (b Binding) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.fields())
}

func (b *Binding) fields() *Fields {
	out := orderedmap.New[string, any]()
	bindingFields.encodeInto(b, out)
	mergeExtras(out, b.extra)
	return out
}

// Resolved reports whether the binding names a target element.
func (b *Binding) Resolved() bool { return b != nil && b.ElementID != "" }

func (b Binding) clone() Binding {
	out := b
	if b.Focus != nil {
		v := *b.Focus
		out.Focus = &v
	}
	if b.Gap != nil {
		v := *b.Gap
		out.Gap = &v
	}
	out.FixedPoint = slices.Clone(b.FixedPoint)
	if b.extra != nil {
		out.extra = cloneRaw(b.extra)
	}
	return out
}
