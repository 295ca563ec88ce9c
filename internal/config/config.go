package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jacoelho/dig/internal/exit"
	"github.com/jacoelho/dig/internal/node"
)

// Commands understood by the CLI.
const (
	CommandFind   = "find"
	CommandLocate = "locate"
	CommandDig    = "dig"
	CommandCount  = "count"
	CommandMark   = "mark"
	CommandSelect = "select"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var (
	ErrNoArguments         = errors.New("no arguments provided")
	ErrNoCommand           = errors.New("no command specified")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrWrongFileCount      = errors.New("wrong number of input files")
	ErrPathRequired        = errors.New("-path is required")
	ErrEmptyMarker         = errors.New("marker cannot be empty")
	ErrMarkerConflict      = errors.New("-marker and -unique-marker are mutually exclusive")
	ErrUniqueMarkerCommand = errors.New("-unique-marker only applies to mark")
	ErrUnknownOutput       = errors.New("unknown output format")
)

// fileCounts is the number of input files each command takes.
var fileCounts = map[string]int{
	CommandFind:   1,
	CommandLocate: 1,
	CommandDig:    2,
	CommandCount:  1,
	CommandMark:   1,
	CommandSelect: 1,
}

// Config represents the complete configuration for the dig tool.
type Config struct {
	Command string
	Files   []string

	Marker       string
	UniqueMarker bool
	Path         string // path expression for mark and select

	Output string
	Pretty bool
	Debug  bool
}

// Validate checks the command, its arity and that every input file exists.
func (c *Config) Validate() error {
	want, ok := fileCounts[c.Command]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Command)
	}
	if len(c.Files) != want {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrWrongFileCount, c.Command, want, len(c.Files))
	}
	if (c.Command == CommandMark || c.Command == CommandSelect) && strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("%w for %s", ErrPathRequired, c.Command)
	}
	if c.Marker == "" {
		return ErrEmptyMarker
	}
	if c.UniqueMarker && c.Command != CommandMark {
		return fmt.Errorf("%w, got %s", ErrUniqueMarkerCommand, c.Command)
	}
	if !slices.Contains([]string{OutputText, OutputJSON, OutputYAML}, c.Output) {
		return fmt.Errorf("%w: %q", ErrUnknownOutput, c.Output)
	}

	for _, file := range c.Files {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("input file %s not found: %w", file, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		marker       = fs.String("marker", node.DefaultMarker, "Marker value embedded in target templates")
		uniqueMarker = fs.Bool("unique-marker", false, "Use a freshly generated marker (mark only)")
		path         = fs.String("path", "", "Path expression for mark and select")
		output       = fs.String("output", OutputText, "Output format: text, json or yaml")
		pretty       = fs.Bool("pretty", false, "Indent JSON output")
		debug        = fs.Bool("debug", false, "Enable debug logging")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoCommand, Usage())
	}

	markerSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "marker" {
			markerSet = true
		}
	})
	if markerSet && *uniqueMarker {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrMarkerConflict, Usage())
	}

	cfg := &Config{
		Command:      rest[0],
		Files:        rest[1:],
		Marker:       *marker,
		UniqueMarker: *uniqueMarker,
		Path:         *path,
		Output:       strings.ToLower(*output),
		Pretty:       *pretty,
		Debug:        *debug,
	}
	if cfg.UniqueMarker {
		cfg.Marker = node.UniqueMarker()
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `dig - locate marker values in JSON and YAML documents

Usage: dig [options] <command> <file> [file]

Commands:
  find <target>            Print the path to the marker
  locate <target>          Print the key and span of the container holding the marker
  dig <source> <target>    Print the source value at the marker's position in target
  count <file>             Count marker occurrences in the canonical JSON text
  mark <source>            Print source with the value at -path replaced by the marker
  select <source>          Print the first match of the JSONPath expression -path

Options:
  -marker string           Marker value (default "***")
  -unique-marker           Generate a unique marker (mark only)
  -path string             Path expression, e.g. $.animal.moles[1].name
  -output string           Output format: text, json or yaml (default "text")
  -pretty                  Indent JSON output
  -debug                   Enable debug logging
  -h, -help                Show this help message

Files ending in .yaml or .yml are read as YAML, everything else as JSON.

Exit codes:
  0  success
  1  error
  2  marker or value not found
`
}
