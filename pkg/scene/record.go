package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RawFields is an insertion-ordered map of field name to raw JSON value.
// It holds everything a record does not model explicitly.
type RawFields = orderedmap.OrderedMap[string, json.RawMessage]

// Fields is an insertion-ordered map of field name to value, as produced by
// the Fields methods. Known fields carry typed Go values; unknown fields carry
// their json.RawMessage verbatim.
type Fields = orderedmap.OrderedMap[string, any]

// field binds a native field name to a typed slot on a record T.
// decode is only called with non-null input; encode reports false when the
// slot is absent.
type field[T any] struct {
	name   string
	decode func(*T, json.RawMessage) error
	encode func(*T) (any, bool)
}

// fieldTable is an ordered set of fields with name lookup.
type fieldTable[T any] struct {
	fields []field[T]
	index  map[string]int
}

func newFieldTable[T any](fields ...field[T]) fieldTable[T] {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.name] = i
	}
	return fieldTable[T]{fields: fields, index: index}
}

func (t fieldTable[T]) lookup(name string) (field[T], bool) {
	i, ok := t.index[name]
	if !ok {
		return field[T]{}, false
	}
	return t.fields[i], true
}

// names returns the field names in declaration order.
func (t fieldTable[T]) names() []string {
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.name
	}
	return out
}

// encodeInto appends every present field of rec to out, in table order.
func (t fieldTable[T]) encodeInto(rec *T, out *Fields) {
	for _, f := range t.fields {
		if v, ok := f.encode(rec); ok {
			out.Set(f.name, v)
		}
	}
}

// decodeRecord reads a JSON object into rec. Known fields are decoded through
// the table; everything else is returned as extras in source order. Null
// values are dropped so that "null" and "absent" read the same. The returned
// set lists the known fields that were present.
func decodeRecord[T any](data []byte, table fieldTable[T], rec *T) (*RawFields, map[string]bool, error) {
	if !isObject(data) {
		return nil, nil, fmt.Errorf("expected a JSON object")
	}
	all := orderedmap.New[string, json.RawMessage]()
	if err := all.UnmarshalJSON(data); err != nil {
		return nil, nil, err
	}

	extra := orderedmap.New[string, json.RawMessage]()
	seen := make(map[string]bool)
	for pair := all.Oldest(); pair != nil; pair = pair.Next() {
		if isNull(pair.Value) {
			continue
		}
		f, ok := table.lookup(pair.Key)
		if !ok {
			extra.Set(pair.Key, pair.Value)
			continue
		}
		if err := f.decode(rec, pair.Value); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", pair.Key, err)
		}
		seen[pair.Key] = true
	}
	return extra, seen, nil
}

// mergeExtras appends extras to out. Keys already present in out are kept,
// so known fields win over sidecar entries of the same name.
func mergeExtras(out *Fields, extra *RawFields) {
	if extra == nil {
		return
	}
	for pair := extra.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := out.Get(pair.Key); exists {
			continue
		}
		out.Set(pair.Key, json.RawMessage(bytes.Clone([]byte(pair.Value))))
	}
}

func cloneRaw(m *RawFields) *RawFields {
	out := orderedmap.New[string, json.RawMessage]()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, bytes.Clone([]byte(pair.Value)))
	}
	return out
}

func rawKeys(m *RawFields) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// =============================================================================
// Field constructors
// =============================================================================

// optional binds a pointer slot: nil means absent.
func optional[T, V any](name string, slot func(*T) **V) field[T] {
	return field[T]{
		name: name,
		decode: func(rec *T, raw json.RawMessage) error {
			v, err := decodeValue[V](raw)
			if err != nil {
				return err
			}
			*slot(rec) = &v
			return nil
		},
		encode: func(rec *T) (any, bool) {
			p := *slot(rec)
			if p == nil {
				return nil, false
			}
			if c, ok := any(*p).(cloner[V]); ok {
				return c.clone(), true
			}
			return *p, true
		},
	}
}

// cloner is implemented by values that hold references, so that Fields never
// hands out memory shared with the record.
type cloner[V any] interface {
	clone() V
}

// required binds a value slot that must be present in the source.
func required[T, V any](name string, slot func(*T) *V) field[T] {
	return field[T]{
		name: name,
		decode: func(rec *T, raw json.RawMessage) error {
			v, err := decodeValue[V](raw)
			if err != nil {
				return err
			}
			*slot(rec) = v
			return nil
		},
		encode: func(rec *T) (any, bool) { return *slot(rec), true },
	}
}

// list binds a slice slot: nil means absent, empty means present and empty.
// Null items are rejected since they cannot be written back as they came.
func list[T, V any](name string, slot func(*T) *[]V) field[T] {
	return field[T]{
		name: name,
		decode: func(rec *T, raw json.RawMessage) error {
			if !isArray(raw) {
				return fmt.Errorf("expected an array")
			}
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return err
			}
			v := make([]V, len(items))
			for i, item := range items {
				if isNull(item) {
					return fmt.Errorf("item %d is null", i)
				}
				x, err := decodeValue[V](item)
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				v[i] = x
			}
			*slot(rec) = v
			return nil
		},
		encode: func(rec *T) (any, bool) {
			v := *slot(rec)
			if v == nil {
				return nil, false
			}
			return slices.Clone(v), true
		},
	}
}

// opaque binds a raw slot that is kept verbatim, for fields whose shape the
// editor does not pin down.
func opaque[T any](name string, slot func(*T) *json.RawMessage) field[T] {
	return field[T]{
		name: name,
		decode: func(rec *T, raw json.RawMessage) error {
			*slot(rec) = bytes.Clone([]byte(raw))
			return nil
		},
		encode: func(rec *T) (any, bool) {
			v := *slot(rec)
			if v == nil {
				return nil, false
			}
			return json.RawMessage(bytes.Clone([]byte(v))), true
		},
	}
}

// =============================================================================
// Value coercion
// =============================================================================

// decodeValue decodes raw into V. Integer slots accept any integral JSON
// number, including ones written with a fractional part or exponent. Pair
// slots require exactly two numbers.
func decodeValue[V any](raw json.RawMessage) (V, error) {
	var v V
	switch p := any(&v).(type) {
	case *[2]float64:
		var nums []float64
		if err := json.Unmarshal(raw, &nums); err != nil {
			return v, err
		}
		if len(nums) != 2 {
			return v, fmt.Errorf("expected 2 numbers, got %d", len(nums))
		}
		*p = [2]float64{nums[0], nums[1]}
	case *int64:
		n, err := decodeInt(raw)
		if err != nil {
			return v, err
		}
		*p = n
	case *int:
		n, err := decodeInt(raw)
		if err != nil {
			return v, err
		}
		*p = int(n)
	default:
		if err := json.Unmarshal(raw, &v); err != nil {
			return v, err
		}
	}
	return v, nil
}

func decodeInt(raw json.RawMessage) (int64, error) {
	if firstByte(raw) == '"' {
		return 0, fmt.Errorf("expected a number, got a string")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return 0, fmt.Errorf("expected a number: %w", err)
	}
	if n, err := num.Int64(); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %s", num)
	}
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("expected an integer, got %s", num)
	}
	return int64(f), nil
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isObject(data []byte) bool { return firstByte(data) == '{' }

func isArray(data []byte) bool { return firstByte(data) == '[' }

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
