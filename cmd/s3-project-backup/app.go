package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"s3backup/internal/awscli"
	"s3backup/internal/config"
	"s3backup/internal/logger"
	"s3backup/internal/ui/prompt"
)

// appContainer holds the shared dependencies for the application
// This includes the resolved project directory, config store, prompter,
// command runner, and the logger
type appContainer struct {
	Dir      string
	Store    *config.Store
	Prompter prompt.Prompter
	Runner   awscli.Runner
	Logger   *slog.Logger
	Stdout   io.Writer
	Stderr   io.Writer
}

// Creates and initializes a new application container rooted at the process
// working directory. The --dir flag can re-root it before any command runs.
func newApp() (*appContainer, error) {
	log := logger.New(false)

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error resolving working directory: %w", err)
	}

	return &appContainer{
		Dir:      dir,
		Store:    config.NewStore(dir),
		Prompter: prompt.New(os.Stdin, os.Stdout),
		Runner:   awscli.NewExecRunner(log),
		Logger:   log,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

// setDir re-roots the container onto an explicitly requested directory.
func (a *appContainer) setDir(dir string) {
	a.Dir = dir
	a.Store = config.NewStore(dir)
}
