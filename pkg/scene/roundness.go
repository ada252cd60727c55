package scene

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Roundness describes rounded corners. Older scenes store a bare numeric
// style id; newer ones store a record such as {"type": 3}. Exactly one of
// Preset and Record is set.
type Roundness struct {
	Preset *int64
	Record *RawFields
}

// NewRoundnessPreset returns a numeric roundness.
func NewRoundnessPreset(style int64) Roundness {
	return Roundness{Preset: &style}
}

// IsRecord reports whether the roundness uses the structured form.
func (r Roundness) IsRecord() bool { return r.Record != nil }

// Type returns the roundness style id from either form.
func (r Roundness) Type() (int64, bool) {
	if r.Preset != nil {
		return *r.Preset, true
	}
	if r.Record == nil {
		return 0, false
	}
	raw, ok := r.Record.Get("type")
	if !ok {
		return 0, false
	}
	n, err := decodeInt(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON accepts either an integer or an object.
func (r *Roundness) UnmarshalJSON(data []byte) error {
	if isObject(data) {
		rec := orderedmap.New[string, json.RawMessage]()
		if err := rec.UnmarshalJSON(data); err != nil {
			return err
		}
		*r = Roundness{Record: rec}
		return nil
	}
	n, err := decodeInt(data)
	if err != nil {
		return fmt.Errorf("roundness: %w", err)
	}
	*r = Roundness{Preset: &n}
	return nil
}

// MarshalJSON writes back whichever form was decoded.
func (r Roundness) MarshalJSON() ([]byte, error) {
	switch {
	case r.Preset != nil:
		return json.Marshal(*r.Preset)
	case r.Record != nil:
		return json.Marshal(r.Record)
	default:
		return []byte("null"), nil
	}
}

func (r Roundness) clone() Roundness {
	out := Roundness{}
	if r.Preset != nil {
		n := *r.Preset
		out.Preset = &n
	}
	if r.Record != nil {
		out.Record = cloneRaw(r.Record)
	}
	return out
}
