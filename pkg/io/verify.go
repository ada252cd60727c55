package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// Mismatch describes the first difference found by [VerifyRoundTrip].
type Mismatch struct {
	Path   string // JSON path of the differing value, e.g. $.elements[2].x
	Input  any
	Output any
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("round trip differs at %s: input %s, output %s", m.Path, describe(m.Input), describe(m.Output))
}

// VerifyRoundTrip parses raw, reconstructs it, and compares the two as JSON
// values. Null-valued element fields are dropped from the input first, since
// reconstruction omits absent fields rather than writing null. A bare array
// input is compared against the elements of the reconstructed object.
//
// It returns the reconstructed bytes. When the values differ the error has
// code [errors.ErrCodeRoundTripMismatch] and wraps a *Mismatch.
func VerifyRoundTrip(raw []byte) ([]byte, error) {
	doc, err := scene.Parse(raw)
	if err != nil {
		return nil, err
	}
	out, err := scene.Reconstruct(doc)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}

	in, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}
	got, err := decodeValue(out)
	if err != nil {
		return nil, err
	}

	if arr, ok := in.([]any); ok {
		in = map[string]any{"elements": arr}
	}
	if obj, ok := in.(map[string]any); ok {
		if elements, ok := obj["elements"].([]any); ok {
			dropNullFields(elements)
		}
		if v, ok := obj["elements"]; ok && v == nil {
			obj["elements"] = []any{}
		}
		if _, ok := obj["elements"]; !ok {
			obj["elements"] = []any{}
		}
	}

	if m := compare("$", in, got); m != nil {
		return out, errors.Wrap(errors.ErrCodeRoundTripMismatch, m, "verify round trip")
	}
	return out, nil
}

func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

func dropNullFields(elements []any) {
	for _, el := range elements {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range m {
			if v == nil {
				delete(m, k)
			}
		}
	}
}

// compare walks a and b in parallel. Numbers compare by value so that 1.0
// and 1 are equal.
func compare(path string, a, b any) *Mismatch {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return &Mismatch{Path: path, Input: a, Output: b}
		}
		keys := make([]string, 0, len(av)+len(bv))
		for k := range av {
			keys = append(keys, k)
		}
		for k := range bv {
			if _, ok := av[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			x, inA := av[k]
			y, inB := bv[k]
			if !inA || !inB {
				return &Mismatch{Path: path + "." + k, Input: x, Output: y}
			}
			if m := compare(path+"."+k, x, y); m != nil {
				return m
			}
		}
		return nil
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return &Mismatch{Path: path, Input: a, Output: b}
		}
		for i := range av {
			if m := compare(fmt.Sprintf("%s[%d]", path, i), av[i], bv[i]); m != nil {
				return m
			}
		}
		return nil
	case json.Number:
		bv, ok := b.(json.Number)
		if !ok {
			return &Mismatch{Path: path, Input: a, Output: b}
		}
		x, errA := av.Float64()
		y, errB := bv.Float64()
		if errA != nil || errB != nil || x != y {
			return &Mismatch{Path: path, Input: a, Output: b}
		}
		return nil
	default:
		if !reflect.DeepEqual(a, b) {
			return &Mismatch{Path: path, Input: a, Output: b}
		}
		return nil
	}
}

func describe(v any) string {
	if v == nil {
		return "absent"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	if len(data) > 60 {
		return string(data[:57]) + "..."
	}
	return string(data)
}
