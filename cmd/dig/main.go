package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jacoelho/dig/internal/config"
	"github.com/jacoelho/dig/internal/exit"
	"github.com/jacoelho/dig/internal/runner"
)

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return exit.CodeError
	}
	defer func() { _ = logger.Sync() }()

	r, exitResult := runner.New(cfg, os.Stdout, os.Stderr, logger)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	return r.Run()
}

// newLogger logs to stderr at debug level when enabled and otherwise only
// surfaces warnings.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
