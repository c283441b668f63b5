package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"s3backup/internal/awscli"
)

func newUploadCmd(app *appContainer, cmdFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Sync the project directory up to its S3 prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), app, awscli.DirectionUpload, cmdFlags.dryRun)
		},
	}
}

func newDownloadCmd(app *appContainer, cmdFlags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Sync the S3 prefix down into the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), app, awscli.DirectionDownload, cmdFlags.dryRun)
		},
	}
}

// runSync loads the config, builds the aws invocation for the resolved
// direction, and hands it to the runner. Config failures abort before any
// process is spawned.
func runSync(ctx context.Context, app *appContainer, direction awscli.Direction, dryRun bool) error {
	cfg, err := app.Store.Load()
	if err != nil {
		return err
	}

	switch direction {
	case awscli.DirectionUpload:
		fmt.Fprintf(app.Stdout, "upload from local directory to %s\n", cfg.S3URL())
	case awscli.DirectionDownload:
		fmt.Fprintf(app.Stdout, "download from %s to local directory\n", cfg.S3URL())
	}

	argv := awscli.BuildSync(direction, cfg, app.Dir, dryRun)
	_, err = app.Runner.Run(ctx, argv)
	return err
}
