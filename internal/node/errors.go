package node

import "errors"

var (
	// ErrMalformed indicates the input document is not a well-formed JSON or YAML value.
	ErrMalformed = errors.New("node: malformed document")

	// ErrUnsupportedValue indicates a value with no JSON representation, such
	// as NaN, an infinity, a YAML alias or a Go type FromAny does not know.
	ErrUnsupportedValue = errors.New("node: unsupported value")
)
