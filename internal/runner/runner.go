// Package runner executes one dig command against input files.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jacoelho/dig/internal/config"
	"github.com/jacoelho/dig/internal/digger"
	"github.com/jacoelho/dig/internal/exit"
	"github.com/jacoelho/dig/internal/formatter"
	"github.com/jacoelho/dig/internal/keypath"
	"github.com/jacoelho/dig/internal/node"
	"github.com/jacoelho/dig/internal/span"
)

// errNotFound marks outcomes that map to exit.CodeNotFound.
var errNotFound = errors.New("not found")

// Runner executes a configured command.
type Runner struct {
	config    *config.Config
	formatter formatter.Formatter
	stderr    io.Writer
	logger    *zap.Logger
}

// New creates a runner writing reports to stdout and diagnostics to stderr.
func New(cfg *config.Config, stdout, stderr io.Writer, logger *zap.Logger) (*Runner, *exit.Result) {
	f, err := formatter.New(cfg.Output, stdout, cfg.Pretty)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		config:    cfg,
		formatter: f,
		stderr:    stderr,
		logger:    logger,
	}, nil
}

// Run executes the command and returns the process exit code.
func (r *Runner) Run() int {
	log := r.logger.With(zap.String("command", r.config.Command), zap.String("marker", r.config.Marker))
	log.Debug("running", zap.Strings("files", r.config.Files))

	report, err := r.execute()
	if err != nil {
		log.Debug("command failed", zap.Error(err))
		return r.fail(err)
	}

	if report.Span != nil && report.Span.Ambiguous {
		log.Warn("container text occurs more than once; span refers to the first occurrence",
			zap.Int("start", report.Span.Start), zap.Int("end", report.Span.End))
	}

	if err := r.formatter.Format(report); err != nil {
		return r.fail(err)
	}
	return exit.CodeOK
}

// fail reports err on stderr and returns its exit code.
func (r *Runner) fail(err error) int {
	result := exit.Errorf("Error: %v\n", err)
	if errors.Is(err, errNotFound) {
		result = exit.NotFoundf("%v\n", err)
	}
	result.Output = r.stderr
	result.Print()
	return result.ExitCode
}

func (r *Runner) execute() (formatter.Report, error) {
	marker := node.String(r.config.Marker)

	switch r.config.Command {
	case config.CommandFind:
		return r.find(marker)
	case config.CommandLocate:
		return r.locate(marker)
	case config.CommandDig:
		return r.dig(marker)
	case config.CommandCount:
		return r.count()
	case config.CommandMark:
		return r.mark(marker)
	case config.CommandSelect:
		return r.selectExpr()
	}
	return formatter.Report{}, fmt.Errorf("%w: %q", config.ErrUnknownCommand, r.config.Command)
}

func (r *Runner) find(marker node.Node) (formatter.Report, error) {
	target, err := r.load(r.config.Files[0])
	if err != nil {
		return formatter.Report{}, err
	}

	path, ok := keypath.Find(target, marker)
	if !ok {
		return formatter.Report{}, r.markerNotFound(r.config.Files[0])
	}

	return formatter.Report{
		Command: r.config.Command,
		Marker:  r.config.Marker,
		Path:    path.Values(),
		Expr:    path.String(),
	}, nil
}

func (r *Runner) locate(marker node.Node) (formatter.Report, error) {
	target, err := r.load(r.config.Files[0])
	if err != nil {
		return formatter.Report{}, err
	}

	loc, ok, err := span.Locate(target, marker)
	if err != nil {
		return formatter.Report{}, err
	}
	if !ok {
		return formatter.Report{}, r.markerNotFound(r.config.Files[0])
	}

	return formatter.Report{
		Command: r.config.Command,
		Marker:  r.config.Marker,
		Span: &formatter.Span{
			Key:       loc.Key.Value(),
			Start:     loc.Start,
			End:       loc.End,
			Ambiguous: loc.Ambiguous,
		},
	}, nil
}

func (r *Runner) dig(marker node.Node) (formatter.Report, error) {
	source, err := r.load(r.config.Files[0])
	if err != nil {
		return formatter.Report{}, err
	}
	target, err := r.load(r.config.Files[1])
	if err != nil {
		return formatter.Report{}, err
	}

	path, ok := keypath.Find(target, marker)
	if !ok {
		return formatter.Report{}, r.markerNotFound(r.config.Files[1])
	}
	r.logger.Debug("marker located in target", zap.String("path", path.String()))

	value, ok := keypath.Resolve(source, path)
	if !ok {
		return formatter.Report{}, fmt.Errorf("%w: %s has no value at %s", errNotFound, r.config.Files[0], path)
	}

	return formatter.Report{
		Command: r.config.Command,
		Marker:  r.config.Marker,
		Path:    path.Values(),
		Expr:    path.String(),
		Value:   &value,
	}, nil
}

func (r *Runner) count() (formatter.Report, error) {
	doc, err := r.load(r.config.Files[0])
	if err != nil {
		return formatter.Report{}, err
	}

	text, err := node.Text(doc)
	if err != nil {
		return formatter.Report{}, err
	}

	n := span.Count(r.config.Marker, text)
	return formatter.Report{
		Command: r.config.Command,
		Marker:  r.config.Marker,
		Count:   &n,
	}, nil
}

func (r *Runner) mark(marker node.Node) (formatter.Report, error) {
	source, err := r.load(r.config.Files[0])
	if err != nil {
		return formatter.Report{}, err
	}

	path, err := keypath.Parse(r.config.Path)
	if err != nil {
		return formatter.Report{}, err
	}

	if existing, ok := keypath.Find(source, marker); ok {
		r.logger.Warn("marker already present in source; digging with this template resolves the first occurrence",
			zap.String("path", existing.String()))
	}

	template, err := keypath.Mark(source, path, marker)
	if errors.Is(err, keypath.ErrPathNotFound) {
		return formatter.Report{}, fmt.Errorf("%w: %s has no value at %s", errNotFound, r.config.Files[0], path)
	}
	if err != nil {
		return formatter.Report{}, err
	}

	return formatter.Report{
		Command: r.config.Command,
		Marker:  r.config.Marker,
		Path:    path.Values(),
		Expr:    path.String(),
		Value:   &template,
	}, nil
}

func (r *Runner) selectExpr() (formatter.Report, error) {
	source, err := r.load(r.config.Files[0])
	if err != nil {
		return formatter.Report{}, err
	}

	result, ok, err := digger.DigExpr(source, r.config.Path)
	if err != nil {
		return formatter.Report{}, err
	}
	if !ok {
		return formatter.Report{}, fmt.Errorf("%w: %s matches nothing in %s", errNotFound, r.config.Path, r.config.Files[0])
	}

	value, err := node.FromAny(result)
	if err != nil {
		return formatter.Report{}, err
	}

	return formatter.Report{
		Command: r.config.Command,
		Expr:    r.config.Path,
		Value:   &value,
	}, nil
}

// load reads a JSON or YAML document, choosing the decoder by file extension.
func (r *Runner) load(file string) (node.Node, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return node.Node{}, fmt.Errorf("failed to read file %s: %w", file, err)
	}

	var doc node.Node
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		doc, err = node.ParseYAML(data)
	default:
		doc, err = node.Parse(data)
	}
	if err != nil {
		return node.Node{}, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	r.logger.Debug("loaded document", zap.String("file", file), zap.Int("bytes", len(data)), zap.Stringer("kind", doc.Kind()))
	return doc, nil
}

func (r *Runner) markerNotFound(file string) error {
	return fmt.Errorf("%w: marker %q does not occur in %s", errNotFound, r.config.Marker, file)
}
