package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"s3backup/internal/awscli"
	"s3backup/internal/config"
	"s3backup/internal/flags"
	"s3backup/internal/logger"
	"s3backup/internal/probe"
)

type rootFlags struct {
	dir    string
	dryRun bool
	debug  bool
}

func newRootCmd(app *appContainer) *cobra.Command {
	cmdFlags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "s3-project-backup",
		Short: "Back up a project directory to an S3 prefix via the aws CLI",
		Long: `Synchronizes a project directory with s3://{bucket}/{prefix}/ by shelling
out to the aws CLI. Run 'init' once to create s3-project-backup.json, then
'upload' or 'download' to sync explicitly. With no subcommand the direction
is inferred: an empty directory downloads, a non-empty one uploads.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmdFlags.debug {
				app.Logger = logger.New(true)
			}
			if cmdFlags.dir != "" {
				app.setDir(cmdFlags.dir)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			hasFiles, err := probe.HasFiles(app.Dir)
			if err != nil {
				return err
			}

			// Empty directory means there is nothing to push yet, so pull.
			direction := awscli.DirectionDownload
			if hasFiles {
				direction = awscli.DirectionUpload
			}
			app.Logger.Debug("inferred sync direction", "direction", direction.String(), "hasFiles", hasFiles)

			return runSync(cmd.Context(), app, direction, cmdFlags.dryRun)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cmdFlags.dir, flags.Dir, flags.DirShort, "", "Project directory to operate on (defaults to the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&cmdFlags.dryRun, flags.DryRun, flags.DryRunShort, false, "Pass --dryrun to the aws CLI; show transfers without performing them")
	rootCmd.PersistentFlags().BoolVar(&cmdFlags.debug, flags.Debug, false, "Enable verbose logging")

	rootCmd.AddCommand(
		newInitCmd(app),
		newUploadCmd(app, cmdFlags),
		newDownloadCmd(app, cmdFlags),
		newCleanCmd(app, cmdFlags),
	)
	return rootCmd
}

// Execute runs the CLI and maps the outcome to a process exit code.
func Execute(app *appContainer) int {
	return run(app, newRootCmd(app))
}

func run(app *appContainer, rootCmd *cobra.Command) int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(app.Stderr, "Error:", err)
		return exitCodeFor(err)
	}
	return 0
}

// exitCodeFor keeps the child's exit code intact and reserves 2 for
// configuration problems so callers can tell the two apart.
func exitCodeFor(err error) int {
	var extErr *awscli.ExternalError
	if errors.As(err, &extErr) {
		return extErr.ExitCode
	}

	var invErr *config.InvalidError
	if errors.Is(err, config.ErrNotFound) || errors.As(err, &invErr) {
		return 2
	}
	return 1
}
