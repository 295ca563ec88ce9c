package keypath

import "errors"

var (
	// ErrSyntax indicates a path expression that cannot be parsed.
	ErrSyntax = errors.New("keypath: syntax error")

	// ErrPathNotFound indicates a path that does not resolve in a document.
	ErrPathNotFound = errors.New("keypath: path not found")

	// ErrUnsupportedPath indicates a path that has no representation in the
	// requested syntax.
	ErrUnsupportedPath = errors.New("keypath: path not representable")
)
