package awscli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// Runner executes an assembled command line and reports the child's exit
// code. The seam exists so the dispatcher can be tested without spawning
// processes.
type Runner interface {
	Run(ctx context.Context, argv []string) (int, error)
}

// ExternalError marks a child process that ran but exited non-zero. The
// child's own diagnostics have already been streamed through.
type ExternalError struct {
	ExitCode int
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("external command exited with code %d", e.ExitCode)
}

// ExecRunner spawns the real process, streaming its output through while it
// runs and forwarding interrupts so the child can shut down on its own terms.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

func (r *ExecRunner) Run(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command line")
	}

	fmt.Fprintln(r.Stdout, "$", strings.Join(argv, " "))
	r.Logger.Debug("running external command", "command", argv[0], "args", argv[1:])

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("error opening stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("error opening stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("error starting %s: %w", argv[0], err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigc:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()
	defer func() {
		signal.Stop(sigc)
		close(done)
	}()

	var pumps errgroup.Group
	pumps.Go(func() error {
		_, err := io.Copy(r.Stdout, stdout)
		return err
	})
	pumps.Go(func() error {
		_, err := io.Copy(r.Stderr, stderr)
		return err
	})
	pumpErr := pumps.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return code, &ExternalError{ExitCode: code}
		}
		return 0, fmt.Errorf("error waiting for %s: %w", argv[0], err)
	}
	if pumpErr != nil {
		return 0, fmt.Errorf("error streaming command output: %w", pumpErr)
	}
	return 0, nil
}
