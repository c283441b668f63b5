package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3backup/internal/awscli"
	"s3backup/internal/config"
	"s3backup/internal/ui/prompt"
)

type fakeRunner struct {
	calls int
	argv  []string
	code  int
}

func (f *fakeRunner) Run(ctx context.Context, argv []string) (int, error) {
	f.calls++
	f.argv = argv
	if f.code != 0 {
		return f.code, &awscli.ExternalError{ExitCode: f.code}
	}
	return 0, nil
}

func newTestApp(t *testing.T, dir, stdin string) (*appContainer, *fakeRunner, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	runner := &fakeRunner{}
	out := &bytes.Buffer{}
	app := &appContainer{
		Dir:      dir,
		Store:    config.NewStore(dir),
		Prompter: prompt.NewReaderPrompter(strings.NewReader(stdin), io.Discard),
		Runner:   runner,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout:   out,
		Stderr:   out,
	}
	return app, runner, out
}

func execute(app *appContainer, args ...string) int {
	rootCmd := newRootCmd(app)
	// never nil: cobra would fall back to os.Args and pick up test flags
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return run(app, rootCmd)
}

func writeValidConfig(t *testing.T, dir string) {
	t.Helper()
	body := `{"aws_profile":"backup","s3_bucket":"bkt","s3_path_prefix":"proj","s3_storage_class":"STANDARD"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
}

func TestNoArgsEmptyDirDownloads(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	app, runner, out := newTestApp(t, dir, "")

	code := execute(app)
	assert.Equal(t, 0, code)
	require.Equal(t, 1, runner.calls)
	// download: remote is the source, local directory the destination
	assert.Equal(t, "s3://bkt/proj/", runner.argv[4])
	assert.Equal(t, dir, runner.argv[5])
	assert.Contains(t, out.String(), "download from s3://bkt/proj/")
}

func TestNoArgsNonEmptyDirUploads(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0644))
	app, runner, out := newTestApp(t, dir, "")

	code := execute(app)
	assert.Equal(t, 0, code)
	require.Equal(t, 1, runner.calls)
	assert.Equal(t, dir, runner.argv[4])
	assert.Equal(t, "s3://bkt/proj/", runner.argv[5])
	assert.Contains(t, runner.argv, "--storage-class=STANDARD")
	assert.Contains(t, out.String(), "upload from local directory")
}

func TestExplicitDirections(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	// report.pdf would make inference pick upload; explicit download wins
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0644))

	app, runner, _ := newTestApp(t, dir, "")
	assert.Equal(t, 0, execute(app, "download"))
	assert.Equal(t, "s3://bkt/proj/", runner.argv[4])

	app, runner, _ = newTestApp(t, dir, "")
	assert.Equal(t, 0, execute(app, "upload"))
	assert.Equal(t, dir, runner.argv[4])
}

func TestDryRunFlag(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	app, runner, _ := newTestApp(t, dir, "")

	assert.Equal(t, 0, execute(app, "upload", "--dryrun"))
	assert.Equal(t, "--dryrun", runner.argv[len(runner.argv)-1])
}

func TestUploadWithoutConfig(t *testing.T) {
	app, runner, out := newTestApp(t, t.TempDir(), "")

	code := execute(app, "upload")
	assert.Equal(t, 2, code)
	assert.Equal(t, 0, runner.calls, "no process may be spawned without config")
	assert.Contains(t, out.String(), "init")
}

func TestInvalidConfigExitCode(t *testing.T) {
	dir := t.TempDir()
	body := `{"aws_profile":"backup","s3_bucket":"bkt"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
	app, runner, out := newTestApp(t, dir, "")

	code := execute(app, "download")
	assert.Equal(t, 2, code)
	assert.Equal(t, 0, runner.calls)
	assert.Contains(t, out.String(), "s3_path_prefix")
	assert.Contains(t, out.String(), "s3_storage_class")
}

func TestExternalFailurePropagatesExitCode(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	app, runner, _ := newTestApp(t, dir, "")
	runner.code = 7

	assert.Equal(t, 7, execute(app, "upload"))
}

func TestDirFlag(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	// app starts rooted elsewhere; --dir must re-root it
	app, runner, _ := newTestApp(t, t.TempDir(), "")

	assert.Equal(t, 0, execute(app, "upload", "--dir", dir))
	require.Equal(t, 1, runner.calls)
	assert.Equal(t, dir, runner.argv[4])
}

func TestInitCreatesConfig(t *testing.T) {
	dir := t.TempDir()
	app, runner, _ := newTestApp(t, dir, "backup\nmy-bucket\n\n\n")

	code := execute(app, "init")
	assert.Equal(t, 0, code)
	assert.Equal(t, 0, runner.calls, "init must not sync")

	cfg, err := config.NewStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "backup", cfg.AWSProfile)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, filepath.Base(dir), cfg.S3PathPrefix, "prefix defaults to the directory name")
	assert.Equal(t, "STANDARD", cfg.S3StorageClass)

	assert.FileExists(t, filepath.Join(dir, ".gitignore"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestInitKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	// complete config: nothing to prompt for
	app, _, _ := newTestApp(t, dir, "")

	assert.Equal(t, 0, execute(app, "init"))

	cfg, err := config.NewStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "backup", cfg.AWSProfile)
	assert.Equal(t, "bkt", cfg.S3Bucket)
	assert.Equal(t, "proj", cfg.S3PathPrefix)
	assert.Equal(t, "STANDARD", cfg.S3StorageClass)
}

func TestInitFillsMissingKeysOnly(t *testing.T) {
	dir := t.TempDir()
	body := `{"aws_profile":"backup","s3_bucket":"bkt","s3_path_prefix":"proj"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
	app, _, _ := newTestApp(t, dir, "glacier\n")

	assert.Equal(t, 0, execute(app, "init"))

	cfg, err := config.NewStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "proj", cfg.S3PathPrefix)
	assert.Equal(t, "GLACIER", cfg.S3StorageClass)
}

func TestInitUsesGlobalDefaults(t *testing.T) {
	dir := t.TempDir()
	app, _, _ := newTestApp(t, dir, "\n\n")

	home := os.Getenv("HOME")
	globalDir := filepath.Join(home, ".config", "s3-project-backup")
	require.NoError(t, os.MkdirAll(globalDir, 0755))
	body := `{"aws_profile":"global-profile","s3_bucket":"global-bucket"}`
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, config.FileName), []byte(body), 0644))

	assert.Equal(t, 0, execute(app, "init"))

	cfg, err := config.NewStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "global-profile", cfg.AWSProfile)
	assert.Equal(t, "global-bucket", cfg.S3Bucket)
}

func TestInitRejectsUnknownStorageClass(t *testing.T) {
	dir := t.TempDir()
	app, _, _ := newTestApp(t, dir, "backup\nmy-bucket\n\nSHINY\n")

	code := execute(app, "init")
	assert.Equal(t, 1, code)
}

func TestCleanRemovesProjectContent(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data", "raw"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("#"), 0644))
	app, _, _ := newTestApp(t, dir, "")

	assert.Equal(t, 0, execute(app, "clean"))

	assert.NoFileExists(t, filepath.Join(dir, "report.pdf"))
	assert.NoDirExists(t, filepath.Join(dir, "data"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.FileExists(t, filepath.Join(dir, config.FileName))
}

func TestCleanDryRun(t *testing.T) {
	dir := t.TempDir()
	writeValidConfig(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0644))
	app, _, out := newTestApp(t, dir, "")

	assert.Equal(t, 0, execute(app, "clean", "--dryrun"))

	assert.FileExists(t, filepath.Join(dir, "report.pdf"))
	assert.Contains(t, out.String(), "report.pdf")
}

func TestCleanWithoutConfig(t *testing.T) {
	app, _, _ := newTestApp(t, t.TempDir(), "")
	assert.Equal(t, 2, execute(app, "clean"))
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 7, exitCodeFor(&awscli.ExternalError{ExitCode: 7}))
	assert.Equal(t, 2, exitCodeFor(config.ErrNotFound))
	assert.Equal(t, 2, exitCodeFor(&config.InvalidError{MissingFields: []string{"s3_bucket"}}))
	assert.Equal(t, 1, exitCodeFor(os.ErrPermission))
}
