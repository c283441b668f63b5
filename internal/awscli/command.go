// Package awscli builds and executes aws-CLI invocations for project syncs.
package awscli

import (
	"fmt"

	"s3backup/internal/config"
)

// Direction selects which side of the sync is the source.
type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionUpload
	DirectionDownload
)

func (d Direction) String() string {
	switch d {
	case DirectionUpload:
		return "upload"
	case DirectionDownload:
		return "download"
	default:
		return "unspecified"
	}
}

// BuildSync returns the full argument vector for a recursive sync between dir
// and the configured S3 prefix. Uploads carry the storage class; downloads do
// not. The function is pure: it touches neither the filesystem nor the
// environment.
func BuildSync(direction Direction, cfg *config.Config, dir string, dryRun bool) []string {
	remote := cfg.S3URL()

	argv := []string{"aws", fmt.Sprintf("--profile=%s", cfg.AWSProfile), "s3", "sync"}
	switch direction {
	case DirectionUpload:
		argv = append(argv, dir, remote, fmt.Sprintf("--storage-class=%s", cfg.S3StorageClass))
	case DirectionDownload:
		argv = append(argv, remote, dir)
	}
	argv = append(argv, "--delete")
	for _, name := range config.SyncExcludes {
		argv = append(argv, fmt.Sprintf("--exclude=%s", name))
	}
	if dryRun {
		argv = append(argv, "--dryrun")
	}
	return argv
}
