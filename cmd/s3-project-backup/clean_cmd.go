package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"s3backup/internal/config"
)

func newCleanCmd(app *appContainer, cmdFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete local project content, keeping only tool files",
		Long: `Removes every file, directory, and symlink in the project directory except
the configuration file, .gitignore, and README.md. Meant for reclaiming disk
space after an upload. Combine with --dryrun to preview.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(app, cmdFlags.dryRun)
		},
	}
}

func runClean(app *appContainer, dryRun bool) error {
	// Guard against wiping a directory this tool was never set up for.
	exists, err := app.Store.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return config.ErrNotFound
	}

	keep := make(map[string]struct{}, len(config.SyncExcludes)+1)
	for _, name := range config.SyncExcludes {
		keep[name] = struct{}{}
	}
	keep["README.md"] = struct{}{}

	entries, err := os.ReadDir(app.Dir)
	if err != nil {
		return fmt.Errorf("error reading project directory: %w", err)
	}

	for _, entry := range entries {
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		path := filepath.Join(app.Dir, entry.Name())
		fmt.Fprintln(app.Stdout, path)
		if dryRun {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("error removing %s: %w", path, err)
		}
	}
	return nil
}
