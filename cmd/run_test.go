package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
)

// stubRsync puts a fake rsync first on PATH. It appends its argv to
// argsFile and exits with the given code.
func stubRsync(t *testing.T, exitCode int) (argsFile string) {
	t.Helper()
	binDir := t.TempDir()
	argsFile = filepath.Join(binDir, "argv")

	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" >> %q\nexit %d\n", argsFile, exitCode)
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "rsync"), []byte(script), 0o755))

	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile
}

// writeRunFixture lays out a source tree, exclude file and config, and
// returns the config path plus the log dir.
func writeRunFixture(t *testing.T) (cfgPath, logDir string) {
	t.Helper()
	root := t.TempDir()

	srcDir := filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "b", "secret.log"), []byte("s"), 0o644))

	excludeFile := filepath.Join(root, "exclude.txt")
	require.NoError(t, os.WriteFile(excludeFile, []byte("*.log\n"), 0o644))

	logDir = filepath.Join(root, "logs")
	cfgPath = filepath.Join(root, "backup.yaml")
	cfg := fmt.Sprintf("source_dir: %s\nbackup_dir: %s\nexclude_file: %s\nlog_dir: %s\n",
		srcDir, filepath.Join(root, "mirror"), excludeFile, logDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return cfgPath, logDir
}

func TestRunInvokesRsyncAndWritesSessionLog(t *testing.T) {
	argsFile := stubRsync(t, 0)
	cfgPath, logDir := writeRunFixture(t)

	_, err := execute("--config", cfgPath)
	require.NoError(t, err)

	argv, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(argv)), "\n")
	assert.Contains(t, args, "--delete")
	assert.Contains(t, args, "--delete-excluded")
	assert.NotContains(t, args, "--dry-run")
	assert.True(t, strings.HasSuffix(args[len(args)-1], "/"), "destination keeps a trailing separator")

	logs, err := filepath.Glob(filepath.Join(logDir, "*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	content, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "session started")
	assert.Contains(t, string(content), "backup of")
}

func TestRunDryRunPassesSimulateFlag(t *testing.T) {
	argsFile := stubRsync(t, 0)
	cfgPath, _ := writeRunFixture(t)

	_, err := execute("--config", cfgPath, "-d")
	require.NoError(t, err)

	argv, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(argv), "--dry-run")
}

func TestRunSyncFailureIsFatalAndLogged(t *testing.T) {
	stubRsync(t, 2)
	cfgPath, logDir := writeRunFixture(t)

	_, err := execute("--config", cfgPath)
	require.Error(t, err)
	assert.True(t, apperrors.IsLogged(err), "sync failures are reported through the session log")

	logs, err := filepath.Glob(filepath.Join(logDir, "*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	content, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "exit code 2")
}

func TestRunCreatesMissingBackupDir(t *testing.T) {
	stubRsync(t, 0)
	cfgPath, _ := writeRunFixture(t)

	_, err := execute("--config", cfgPath)
	require.NoError(t, err)

	mirror := filepath.Join(filepath.Dir(cfgPath), "mirror")
	info, statErr := os.Stat(mirror)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}
