// Package dig locates a marker value inside nested JSON-like documents.
//
// Callers embed a sentinel marker (conventionally "***") into a document or
// into a template that mirrors the shape of real data. The package then
// reports where the marker sits:
//
//   - FindPath returns the route of keys and indices from the root to the
//     first marker in depth-first order.
//   - LocateNearestContainer returns the character span, in the canonical
//     compact JSON text of the document, of the innermost container holding
//     the marker.
//   - Dig follows the marker's route through a second, structurally parallel
//     document and returns the value found there.
//
// When a marker occurs more than once, the first occurrence in depth-first,
// left-to-right order is used; later occurrences are ignored.
//
// All functions are pure and safe for concurrent use.
package dig

import (
	"github.com/jacoelho/dig/internal/digger"
	"github.com/jacoelho/dig/internal/keypath"
	"github.com/jacoelho/dig/internal/node"
	"github.com/jacoelho/dig/internal/span"
)

type (
	// Node is an ordered JSON value: a mapping, a sequence or a scalar.
	Node = node.Node
	// Key is a mapping key or a sequence index.
	Key = keypath.Key
	// Path is a route of keys from a root node.
	Path = keypath.Path
	// Location is the key and span of the container that directly holds a marker.
	Location = span.Location
)

// DefaultMarker is the conventional marker string.
const DefaultMarker = node.DefaultMarker

// ErrInvariantViolation is returned by LocateNearestContainer when the
// canonical writer and the traversal disagree. It indicates a bug.
var ErrInvariantViolation = span.ErrInvariantViolation

// Parse decodes JSON text keeping object key order.
func Parse(data []byte) (Node, error) { return node.Parse(data) }

// ParseYAML decodes a YAML document keeping mapping key order.
func ParseYAML(data []byte) (Node, error) { return node.ParseYAML(data) }

// FromAny converts decoded Go values. Keys of Go maps are sorted.
func FromAny(v any) (Node, error) { return node.FromAny(v) }

// Marker returns a string marker node.
func Marker(s string) Node { return node.String(s) }

// Marshal renders n as canonical compact JSON, the text spans refer to.
func Marshal(n Node) ([]byte, error) { return node.Marshal(n) }

// CountOccurrences counts non-overlapping occurrences of needle in haystack.
func CountOccurrences(needle, haystack string) int {
	return span.Count(needle, haystack)
}

// FindPath returns the path to the first value strictly equal to marker.
// It reports false when the marker does not occur.
func FindPath(n, marker Node) (Path, bool) {
	return keypath.Find(n, marker)
}

// LocateNearestContainer returns the key under which the marker sits and the
// inclusive character span of its enclosing container in the canonical text
// of n. Location also carries the same span as byte offsets.
// It reports false when the marker does not occur inside a container.
func LocateNearestContainer(n, marker Node) (Location, bool, error) {
	return span.Locate(n, marker)
}

// Dig finds marker in target and returns the value at the same path in
// source. It reports false when the marker is absent or source diverges
// from target along the path.
func Dig(source, target, marker Node) (Node, bool) {
	return digger.Dig(source, target, marker)
}
