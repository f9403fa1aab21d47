// Package docmap holds the schemaless document model shared by the
// document store adapters: field filters, ordering, update transforms and
// the struct codec.
package docmap

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// FieldID addresses the document ID in filters and ordering.
const FieldID = "__id__"

// Document is one stored record. Data holds JSON-native values only.
type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Decode copies the document data into out, which must be a pointer to a
// struct with json tags. The document ID is written to the "id" field.
func (d Document) Decode(out any) error {
	data := make(map[string]any, len(d.Data)+1)
	for k, v := range d.Data {
		data[k] = v
	}
	data["id"] = d.ID
	return Decode(data, out)
}

type Op string

const (
	OpEqual         Op = "=="
	OpNotEqual      Op = "!="
	OpLess          Op = "<"
	OpGreater       Op = ">"
	OpArrayContains Op = "array-contains"
)

type Filter struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value any    `json:"value"`
}

func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

type Order struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// Increment adds to a numeric field on update. Missing fields count as zero.
type Increment float64

// ArrayUnion appends the values not already present in an array field.
type ArrayUnion []any

// Delete removes a field on update.
type Delete struct{}

// Encode converts a struct into JSON-native document data.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(out, "id")
	return out, nil
}

// Decode maps document data onto a struct using its json tags.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Normalize round-trips data through JSON so that every value is
// JSON-native (float64 numbers, []any arrays, map[string]any objects).
func Normalize(data map[string]any) (map[string]any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// Apply merges update fields into data, resolving Increment, ArrayUnion and
// Delete. Nested fields may be addressed with dotted paths. data is modified
// in place and returned.
func Apply(data map[string]any, fields map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, path := range keys {
		parent, leaf := walk(data, path)
		switch v := fields[path].(type) {
		case Delete:
			delete(parent, leaf)
		case Increment:
			cur, _ := toFloat(parent[leaf])
			parent[leaf] = cur + float64(v)
		case ArrayUnion:
			arr, _ := parent[leaf].([]any)
			for _, item := range v {
				item = normalizeValue(item)
				if !containsValue(arr, item) {
					arr = append(arr, item)
				}
			}
			parent[leaf] = arr
		default:
			parent[leaf] = normalizeValue(v)
		}
	}
	return data
}

func walk(data map[string]any, path string) (map[string]any, string) {
	parts := strings.Split(path, ".")
	cur := data
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[p] = next
		}
		cur = next
	}
	return cur, parts[len(parts)-1]
}

func lookup(d Document, path string) (any, bool) {
	if path == FieldID {
		return d.ID, true
	}
	var cur any = d.Data
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Match reports whether the document satisfies every filter.
func Match(d Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := lookup(d, f.Field)
		want := normalizeValue(f.Value)
		switch f.Op {
		case OpEqual:
			if !ok || !reflect.DeepEqual(v, want) {
				return false
			}
		case OpNotEqual:
			if ok && reflect.DeepEqual(v, want) {
				return false
			}
		case OpLess, OpGreater:
			if !ok {
				return false
			}
			c, comparable := compare(v, want)
			if !comparable || (f.Op == OpLess && c >= 0) || (f.Op == OpGreater && c <= 0) {
				return false
			}
		case OpArrayContains:
			arr, isArr := v.([]any)
			if !ok || !isArr || !containsValue(arr, want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Sort orders docs in place. Documents missing the field sort first;
// ties fall back to the document ID.
func Sort(docs []Document, order *Order) {
	sort.SliceStable(docs, func(i, j int) bool {
		if order == nil {
			return docs[i].ID < docs[j].ID
		}
		a, _ := lookup(docs[i], order.Field)
		b, _ := lookup(docs[j], order.Field)
		c, ok := compare(a, b)
		if !ok || c == 0 {
			return docs[i].ID < docs[j].ID
		}
		if order.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b any) (int, bool) {
	if a == nil && b == nil {
		return 0, true
	}
	if a == nil {
		return -1, true
	}
	if b == nil {
		return 1, true
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if !okA || !okB {
		return 0, false
	}
	// timestamps are stored as RFC 3339 strings with a variable fraction
	if ta, err := time.Parse(time.RFC3339Nano, sa); err == nil {
		if tb, err := time.Parse(time.RFC3339Nano, sb); err == nil {
			return ta.Compare(tb), true
		}
	}
	return strings.Compare(sa, sb), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func containsValue(arr []any, v any) bool {
	for _, item := range arr {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}
