package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `no configuration file found in "/opt/backup"`,
		ConfigMissingError{Dir: "/opt/backup"}.Error())
	assert.Equal(t, `"/home/user" does not exist`,
		FileNotFound{Path: "/home/user"}.Error())
	assert.Equal(t, `"/tmp/x" is not a directory`,
		WrongFileType{Path: "/tmp/x", Want: "directory"}.Error())
	assert.Equal(t, "missing required field: backup_dir",
		MissingFieldError{Field: "backup_dir"}.Error())
	assert.Equal(t, "unknown configuration key: compress",
		UnknownKeyError{Key: "compress"}.Error())
	assert.Equal(t, `required command "rsync" was not found in PATH`,
		CommandNotFound{Name: "rsync"}.Error())
	assert.Equal(t, "sync process failed with exit code 23",
		ExecutionError{ExitCode: 23}.Error())
}

func TestExecutionErrorUnwraps(t *testing.T) {
	cause := New("exit status 23")
	err := ExecutionError{ExitCode: 23, Err: cause}
	assert.True(t, stderrors.Is(err, cause))
}

func TestMarkLogged(t *testing.T) {
	assert.Nil(t, MarkLogged(nil))

	cause := FileNotFound{Path: "/gone"}
	err := MarkLogged(cause)
	require.Error(t, err)

	assert.True(t, IsLogged(err))
	assert.False(t, IsLogged(cause))
	assert.Equal(t, cause.Error(), err.Error())

	var notFound FileNotFound
	assert.True(t, stderrors.As(err, &notFound), "marking must not hide the original type")
}

func TestWithContext(t *testing.T) {
	cause := New("permission denied")
	err := WithContext(cause, "create backup directory")
	assert.Equal(t, "create backup directory: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}
