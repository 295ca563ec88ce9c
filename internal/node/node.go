// Package node provides the ordered JSON value model shared by every search
// and extraction operation, together with its canonical JSON writer.
package node

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
)

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

// Kind identifies which variant a Node holds.
type Kind uint8

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Member is one key/value pair of a mapping.
type Member struct {
	Key   string
	Value Node
}

// Node is a JSON value. The zero Node is null.
type Node struct {
	kind    Kind
	boolean bool
	number  float64
	str     string
	members []Member
	items   []Node
}

func Null() Node { return Node{} }

func Bool(v bool) Node { return Node{kind: KindBool, boolean: v} }

func Number(v float64) Node { return Node{kind: KindNumber, number: v} }

func String(v string) Node { return Node{kind: KindString, str: v} }

// M builds a mapping member.
func M(key string, value Node) Member {
	return Member{Key: key, Value: value}
}

// Map builds a mapping in the given order. A repeated key keeps the position
// of its first occurrence and the value of its last.
func Map(members ...Member) Node {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if i := indexOfKey(out, m.Key); i >= 0 {
			out[i].Value = m.Value
			continue
		}
		out = append(out, m)
	}
	return Node{kind: KindMapping, members: out}
}

// Seq builds a sequence.
func Seq(items ...Node) Node {
	return Node{kind: KindSequence, items: append([]Node{}, items...)}
}

func (n Node) Kind() Kind { return n.kind }

// IsContainer reports whether n is a mapping or a sequence.
func (n Node) IsContainer() bool {
	return n.kind == KindMapping || n.kind == KindSequence
}

// Len returns the number of members or items, and 0 for scalars.
func (n Node) Len() int {
	switch n.kind {
	case KindMapping:
		return len(n.members)
	case KindSequence:
		return len(n.items)
	}
	return 0
}

// Members returns the mapping members in insertion order.
func (n Node) Members() []Member { return slices.Clone(n.members) }

// Items returns the sequence items.
func (n Node) Items() []Node { return slices.Clone(n.items) }

// MemberAt returns the i-th mapping member. It panics when i is out of range.
func (n Node) MemberAt(i int) Member { return n.members[i] }

// Get looks up a mapping key. It reports false for missing keys and non-mappings.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindMapping {
		return Node{}, false
	}
	if i := indexOfKey(n.members, key); i >= 0 {
		return n.members[i].Value, true
	}
	return Node{}, false
}

// Index returns the i-th sequence item. It reports false when out of range
// or when n is not a sequence.
func (n Node) Index(i int) (Node, bool) {
	if n.kind != KindSequence || i < 0 || i >= len(n.items) {
		return Node{}, false
	}
	return n.items[i], true
}

func (n Node) Str() string { return n.str }

func (n Node) Num() float64 { return n.number }

func (n Node) Bool() bool { return n.boolean }

// StrictEqual compares two nodes the way a strict equality operator compares
// primitives: same scalar kind and same value. Containers are never equal.
func StrictEqual(a, b Node) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return a.number == b.number
	case KindString:
		return a.str == b.str
	}
	return false
}

// Interface converts n into plain decoded Go values: map[string]any, []any,
// float64, string, bool and nil.
func (n Node) Interface() any {
	switch n.kind {
	case KindBool:
		return n.boolean
	case KindNumber:
		return n.number
	case KindString:
		return n.str
	case KindMapping:
		out := make(map[string]any, len(n.members))
		for _, m := range n.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	case KindSequence:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Interface()
		}
		return out
	}
	return nil
}

// FromAny converts a Go value into a Node. Keys of Go maps are sorted because
// their iteration order is unspecified.
func FromAny(v any) (Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Node:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Node{}, fmt.Errorf("%w: number %q: %v", ErrUnsupportedValue, x, err)
		}
		return checkedNumber(f)
	case float64:
		return checkedNumber(x)
	case float32:
		return checkedNumber(float64(x))
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case []any:
		items := make([]Node, 0, len(x))
		for i, item := range x {
			child, err := FromAny(item)
			if err != nil {
				return Node{}, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, child)
		}
		return Node{kind: KindSequence, items: items}, nil
	case []Member:
		return Map(x...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			child, err := FromAny(x[k])
			if err != nil {
				return Node{}, fmt.Errorf("key %q: %w", k, err)
			}
			members = append(members, M(k, child))
		}
		return Node{kind: KindMapping, members: members}, nil
	}
	return Node{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, reflect.TypeOf(v))
}

func checkedNumber(f float64) (Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Node{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	return Number(f), nil
}

func indexOfKey(members []Member, key string) int {
	for i, m := range members {
		if m.Key == key {
			return i
		}
	}
	return -1
}
