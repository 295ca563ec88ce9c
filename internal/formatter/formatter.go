// Package formatter renders command reports as text, JSON or YAML.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	yaml "github.com/goccy/go-yaml"
	"github.com/tidwall/pretty"

	"github.com/jacoelho/dig/internal/node"
)

// Formatter writes one report per command invocation.
type Formatter interface {
	Format(r Report) error
}

// Span is the serialized form of a container location.
type Span struct {
	Key       any  `json:"key" yaml:"key"`
	Start     int  `json:"start" yaml:"start"`
	End       int  `json:"end" yaml:"end"`
	Ambiguous bool `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
}

// Report is the outcome of a command. Only the fields the command produces are set.
type Report struct {
	Command string     `json:"command" yaml:"command"`
	Marker  string     `json:"marker,omitempty" yaml:"marker,omitempty"`
	Path    []any      `json:"path,omitempty" yaml:"path,omitempty"`
	Expr    string     `json:"expr,omitempty" yaml:"expr,omitempty"`
	Span    *Span      `json:"span,omitempty" yaml:"span,omitempty"`
	Count   *int       `json:"count,omitempty" yaml:"count,omitempty"`
	Value   *node.Node `json:"value,omitempty" yaml:"value,omitempty"`
}

// New returns the formatter for an output format name.
func New(format string, w io.Writer, indent bool) (Formatter, error) {
	switch format {
	case "text":
		return &Text{writer: w, indent: indent}, nil
	case "json":
		return &JSON{writer: w, indent: indent}, nil
	case "yaml":
		return &YAML{writer: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Text prints the single most relevant field of a report.
type Text struct {
	writer io.Writer
	indent bool
}

func (f *Text) Format(r Report) error {
	switch {
	case r.Span != nil:
		_, err := fmt.Fprintf(f.writer, "%v\t%d\t%d\n", r.Span.Key, r.Span.Start, r.Span.End)
		return err
	case r.Count != nil:
		_, err := fmt.Fprintln(f.writer, strconv.Itoa(*r.Count))
		return err
	case r.Value != nil:
		text, err := node.Marshal(*r.Value)
		if err != nil {
			return err
		}
		if f.indent {
			text = pretty.Pretty(text)
		} else {
			text = append(text, '\n')
		}
		_, err = f.writer.Write(text)
		return err
	case r.Expr != "":
		_, err := fmt.Fprintln(f.writer, r.Expr)
		return err
	}
	return nil
}

// JSON prints the whole report as one JSON document.
type JSON struct {
	writer io.Writer
	indent bool
}

func (f *JSON) Format(r Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	if f.indent {
		b = pretty.Pretty(b)
	} else {
		b = append(b, '\n')
	}
	_, err = f.writer.Write(b)
	return err
}

// YAML prints the whole report as one YAML document.
type YAML struct {
	writer io.Writer
}

func (f *YAML) Format(r Report) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode YAML report: %w", err)
	}
	_, err = f.writer.Write(b)
	return err
}
