// Package digger reads values out of a source document by locating a marker
// in a structurally parallel target template.
package digger

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jacoelho/dig/internal/keypath"
	"github.com/jacoelho/dig/internal/node"
)

// ErrMarkerNotFound indicates the marker does not occur in the target template.
var ErrMarkerNotFound = errors.New("digger: marker not found in target")

// Dig finds the marker in target and returns the value found at the same
// path in source. It reports false when the marker is absent from target or
// when source diverges from target along the path.
func Dig(source, target, marker node.Node) (node.Node, bool) {
	path, ok := keypath.Find(target, marker)
	if !ok {
		return node.Node{}, false
	}
	return keypath.Resolve(source, path)
}

// DigBytes is Dig over raw JSON source text. The source is not decoded; each
// step is checked with gjson so that an index only applies to an array and a
// name only to an object. The value carries its raw text and byte offset.
func DigBytes(source []byte, target, marker node.Node) (gjson.Result, bool) {
	path, ok := keypath.Find(target, marker)
	if !ok {
		return gjson.Result{}, false
	}
	if len(path) == 0 {
		result := gjson.ParseBytes(source)
		return result, result.Exists()
	}

	current := gjson.ParseBytes(source)
	for _, key := range path {
		if (key.IsIndex() && !current.IsArray()) || (!key.IsIndex() && !current.IsObject()) {
			return gjson.Result{}, false
		}
		step, err := keypath.Path{key}.GJSON()
		if err != nil {
			return gjson.Result{}, false
		}
		if current = current.Get(step); !current.Exists() {
			return gjson.Result{}, false
		}
	}

	expr, err := path.GJSON()
	if err != nil {
		return gjson.Result{}, false
	}

	result := gjson.GetBytes(source, expr)
	return result, result.Exists()
}

// Graft writes value into raw JSON source at the path where target holds the
// marker, creating missing members along the way. Nodes are written with the
// canonical writer so mapping order is kept.
func Graft(source []byte, target, marker node.Node, value any) ([]byte, error) {
	path, ok := keypath.Find(target, marker)
	if !ok {
		return nil, ErrMarkerNotFound
	}

	expr, err := path.GJSON()
	if err != nil {
		return nil, err
	}

	if n, ok := value.(node.Node); ok {
		raw, err := node.Marshal(n)
		if err != nil {
			return nil, err
		}
		out, err := sjson.SetRawBytes(source, expr, raw)
		if err != nil {
			return nil, fmt.Errorf("graft %s: %w", path, err)
		}
		return out, nil
	}

	out, err := sjson.SetBytes(source, expr, value)
	if err != nil {
		return nil, fmt.Errorf("graft %s: %w", path, err)
	}
	return out, nil
}

// DigExpr returns the first match of a JSONPath expression in source.
func DigExpr(source node.Node, expr string) (any, bool, error) {
	results, err := keypath.Select(source, expr)
	if err != nil {
		return nil, false, err
	}
	if len(results) == 0 {
		return nil, false, nil
	}
	return results[0], true, nil
}
