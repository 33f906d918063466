// Package errors defines the failure classes shared across the CLI.
// Every error here is terminal: the command layer maps any of them to a
// non-zero exit code, there is no recoverable tier.
package errors

import (
	stderrors "errors"
	"fmt"
)

// New returns a plain error. Re-exported so most callers only need this
// package.
func New(msg string) error { return stderrors.New(msg) }

// WithContext wraps err with a short description of the operation that
// failed.
func WithContext(err error, context string) error {
	return fmt.Errorf("%s: %w", context, err)
}

// ConfigMissingError is returned when no configuration file could be
// discovered next to the executable.
type ConfigMissingError struct {
	Dir string
}

func (err ConfigMissingError) Error() string {
	return fmt.Sprintf("no configuration file found in %q", err.Dir)
}

// FileNotFound represents when we were unable to access a file because the
// path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// WrongFileType is returned when a path exists but is the wrong kind of
// filesystem entry, e.g. a file where a directory is required.
type WrongFileType struct {
	Path string
	Want string
}

func (err WrongFileType) Error() string {
	return fmt.Sprintf("%q is not a %s", err.Path, err.Want)
}

// MissingFieldError represents a missing required configuration field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// UnknownKeyError is returned for configuration keys this program does not
// recognize. Unknown keys are rejected rather than ignored so typos fail
// loudly.
type UnknownKeyError struct {
	Key string
}

func (err UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown configuration key: %s", err.Key)
}

// CommandNotFound is returned when a required executable is not on PATH.
type CommandNotFound struct {
	Name string
}

func (err CommandNotFound) Error() string {
	return fmt.Sprintf("required command %q was not found in PATH", err.Name)
}

// ExecutionError is returned when the delegated sync process exits
// non-zero. The destination tree is left exactly as the process left it.
type ExecutionError struct {
	ExitCode int
	Err      error
}

func (err ExecutionError) Error() string {
	return fmt.Sprintf("sync process failed with exit code %d", err.ExitCode)
}

func (err ExecutionError) Unwrap() error { return err.Err }

// logged marks an error that has already been written to the session log,
// so the entry point doesn't print it a second time.
type logged struct {
	err error
}

func (l logged) Error() string { return l.err.Error() }
func (l logged) Unwrap() error { return l.err }

// MarkLogged tags err as already reported through the session logger.
func MarkLogged(err error) error {
	if err == nil {
		return nil
	}
	return logged{err: err}
}

// IsLogged reports whether err was tagged by MarkLogged.
func IsLogged(err error) bool {
	var l logged
	return stderrors.As(err, &l)
}
