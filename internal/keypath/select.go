package keypath

import (
	"fmt"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/dig/internal/node"
)

// Select evaluates a JSONPath expression against root and returns every
// match. Any RFC 9535 query is accepted, including the output of
// Path.Normalized. Wildcards over mappings match in unspecified order.
func Select(root node.Node, expr string) ([]any, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSONPath %s: %v", ErrSyntax, expr, err)
	}

	results := path.Select(root.Interface())

	out := make([]any, 0, len(results))
	for _, r := range results {
		out = append(out, r)
	}
	return out, nil
}
