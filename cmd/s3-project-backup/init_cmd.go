package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"s3backup/internal/awsmeta"
	"s3backup/internal/config"
)

func newInitCmd(app *appContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or complete the project configuration file",
		Long: `Ensures s3-project-backup.json exists with all required keys. Values already
present are kept; only missing ones are asked for, with defaults taken from
~/.config/s3-project-backup/ when available. Also maintains the companion
.gitignore and README.md.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), app)
		},
	}
}

func runInit(ctx context.Context, app *appContainer) error {
	cfg, err := app.Store.LoadPartial()
	if err != nil {
		return err
	}

	if globalPath, err := config.GlobalPath(); err == nil {
		defaults, err := config.LoadDefaults(globalPath)
		if err != nil {
			app.Logger.Debug("skipping unreadable global defaults", "path", globalPath, "error", err)
		} else {
			cfg.Merge(defaults)
		}
	}

	if cfg.AWSProfile == "" {
		value, err := app.Prompter.Input("aws profile", "")
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("aws profile must not be empty")
		}
		cfg.AWSProfile = value
	}
	if !awsmeta.ProfileExists(ctx, cfg.AWSProfile) {
		fmt.Fprintf(app.Stderr, "warning: profile %q not found in the AWS shared config\n", cfg.AWSProfile)
	}

	if cfg.S3Bucket == "" {
		value, err := app.Prompter.Input("s3 bucket name", "")
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("s3 bucket name must not be empty")
		}
		cfg.S3Bucket = value
	}

	if cfg.S3PathPrefix == "" {
		abs, err := filepath.Abs(app.Dir)
		if err != nil {
			return fmt.Errorf("error resolving project directory: %w", err)
		}
		value, err := app.Prompter.Input("s3 path prefix", filepath.Base(abs))
		if err != nil {
			return err
		}
		cfg.S3PathPrefix = value
	}

	if cfg.S3StorageClass == "" {
		value, err := app.Prompter.Input("s3 storage class", awsmeta.DefaultStorageClass)
		if err != nil {
			return err
		}
		value = strings.ToUpper(value)
		if !awsmeta.IsStorageClass(value) {
			return fmt.Errorf("unknown storage class %q, expected one of: %s", value, strings.Join(awsmeta.StorageClasses(), ", "))
		}
		cfg.S3StorageClass = value
	}

	if err := app.Store.Write(cfg); err != nil {
		return err
	}
	if err := config.WriteScaffold(app.Dir, cfg); err != nil {
		return err
	}

	fmt.Fprintf(app.Stdout, "created %s\n", app.Store.Path())
	return nil
}
