package backupservice

import (
	"context"
	stderrors "errors"
	"io"
	"os/exec"

	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
)

// Runner executes the external sync process. The indirection keeps process
// side effects behind an interface, so tests can record invocations
// instead of running rsync.
type Runner interface {
	Run(ctx context.Context, name string, args []string, output io.Writer) error
}

// execRunner runs the process for real. Cancelling the context kills it.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string, output io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = output
	cmd.Stderr = output

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return apperrors.ExecutionError{ExitCode: exitErr.ExitCode(), Err: err}
	}
	return apperrors.WithContext(err, "run "+name)
}
