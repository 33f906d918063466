// Package logging provides the per-run session logger: a timestamped log
// file plus a colorized mirror on stderr for interactive runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/version"
)

const timestampLayout = "2006-01-02_15-04-05"

// Session is a logger bound to a single run's log file. The level is fixed
// at Debug: diagnostic lines are always recorded, the --verbose flag only
// changes what rsync itself reports.
type Session struct {
	*logrus.Logger

	id   string
	path string
	file *os.File
}

// NewSession creates the session log file in dir, named after the program
// and the run's start time, and returns a logger writing plain records to
// it. Every record is mirrored to stderr with colors.
func NewSession(dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.WithContext(err, "create log directory")
	}

	name := fmt.Sprintf("%s_%s.log", version.Package, time.Now().Format(timestampLayout))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, apperrors.WithContext(err, "create session log file")
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	logger.AddHook(&consoleHook{
		out: os.Stderr,
		formatter: &logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		},
	})

	s := &Session{
		Logger: logger,
		id:     uuid.NewString(),
		path:   f.Name(),
		file:   f,
	}
	s.WithFields(logrus.Fields{
		"run_id":  s.id,
		"version": version.Version,
	}).Info("session started")

	return s, nil
}

// Path returns the session log file's location.
func (s *Session) Path() string { return s.path }

// FileWriter exposes the raw log file, used to capture the sync process's
// stdout and stderr alongside the log records.
func (s *Session) FileWriter() io.Writer { return s.file }

// Close flushes and closes the session log file.
func (s *Session) Close() error { return s.file.Close() }

// DefaultDir returns the executable's directory, where session logs live
// unless the configuration says otherwise.
func DefaultDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", apperrors.WithContext(err, "locate executable")
	}
	return filepath.Dir(exe), nil
}

// Console returns a stderr-only colorized logger for commands that don't
// keep a session file, like check.
func Console() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	return logger
}

// consoleHook mirrors every record to an interactive stream using a second
// formatter, so the file stays plain while the console gets colors.
type consoleHook struct {
	out       io.Writer
	formatter logrus.Formatter
}

func (h *consoleHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}
