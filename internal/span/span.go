// Package span locates, within the canonical JSON text of a document, the
// container that directly holds a marker value.
package span

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/dig/internal/keypath"
	"github.com/jacoelho/dig/internal/node"
)

// ErrInvariantViolation reports that the canonical text of the enclosing
// container could not be found inside the canonical text of the document.
// It indicates a bug and must not be treated as an absent marker.
var ErrInvariantViolation = errors.New("span: invariant violation")

// Location is where the container enclosing a marker sits in canonical text.
// Start and End count characters (Unicode code points); ByteStart and ByteEnd
// index the UTF-8 text returned by node.Marshal.
type Location struct {
	Key   keypath.Key // key or index of the marker inside the container
	Start int         // offset of the opening '{' or '['
	End   int         // offset of the matching '}' or ']', inclusive

	ByteStart int
	ByteEnd   int

	// Ambiguous is set when the container text occurs more than once in the
	// document text. Start and End always refer to the first occurrence.
	Ambiguous bool
}

// Len returns the length in characters of the container text.
func (l Location) Len() int { return l.End - l.Start + 1 }

// Count returns the number of non-overlapping occurrences of needle in
// haystack, scanning left to right. An empty needle counts as zero.
func Count(needle, haystack string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(haystack, needle)
}

// Locate finds the first marker in depth-first order and returns the key it
// sits under together with the span of its innermost enclosing container in
// the canonical text of root. It reports false when the marker is absent or
// when root itself is the marker, since then nothing encloses it.
func Locate(root, marker node.Node) (Location, bool, error) {
	text, err := node.Marshal(root)
	if err != nil {
		return Location{}, false, fmt.Errorf("serialize document: %w", err)
	}

	path, ok := keypath.Find(root, marker)
	if !ok || len(path) == 0 {
		return Location{}, false, nil
	}

	parent, key, ok := keypath.Parent(root, path)
	if !ok {
		return Location{}, false, fmt.Errorf("%w: parent of %s does not resolve", ErrInvariantViolation, path)
	}

	if len(path) == 1 {
		return Location{
			Key:     key,
			End:     utf8.RuneCount(text) - 1,
			ByteEnd: len(text) - 1,
		}, true, nil
	}

	parentText, err := node.Marshal(parent)
	if err != nil {
		return Location{}, false, fmt.Errorf("serialize container: %w", err)
	}

	start := bytes.Index(text, parentText)
	if start < 0 {
		return Location{}, false, fmt.Errorf("%w: container of %s not found in document text", ErrInvariantViolation, path)
	}

	chars := utf8.RuneCount(text[:start])
	return Location{
		Key:       key,
		Start:     chars,
		End:       chars + utf8.RuneCount(parentText) - 1,
		ByteStart: start,
		ByteEnd:   start + len(parentText) - 1,
		Ambiguous: Count(string(parentText), string(text)) > 1,
	}, true, nil
}
