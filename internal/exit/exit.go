package exit

import (
	"fmt"
	"io"
	"os"
)

// Process exit codes.
const (
	CodeOK       = 0
	CodeError    = 1
	CodeNotFound = 2 // the marker or the value it points to is absent
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a result that outputs to stdout with CodeOK.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Errorf creates a result that outputs to stderr with CodeError.
func Errorf(format string, a ...any) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  fmt.Sprintf(format, a...),
	}
}

// NotFoundf creates a result that outputs to stderr with CodeNotFound.
func NotFoundf(format string, a ...any) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeNotFound,
		Message:  fmt.Sprintf(format, a...),
	}
}
