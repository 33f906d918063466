// Package backupservice orchestrates a mirrored backup run: validate the
// environment, then delegate the actual file comparison, transfer and
// deletion to an rsync subprocess.
package backupservice

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mateusz-piotrowski/user-profile-backup/internal/config"
)

// syncTool is the external collaborator everything is delegated to.
const syncTool = "rsync"

// Service runs one backup. There is no retry and no rollback: a failed
// sync leaves the destination in whatever state rsync left it.
type Service struct {
	cfg    config.BackupConfig
	opts   RunOptions
	log    *logrus.Logger
	output io.Writer

	fs       afero.Fs
	runner   Runner
	lookPath func(string) (string, error)
}

// New returns a Service wired against the real filesystem and rsync.
// output receives the sync process's combined stdout and stderr, normally
// the session log file.
func New(cfg config.BackupConfig, opts RunOptions, log *logrus.Logger, output io.Writer) *Service {
	return &Service{
		cfg:      cfg,
		opts:     opts,
		log:      log,
		output:   output,
		fs:       afero.NewOsFs(),
		runner:   execRunner{},
		lookPath: exec.LookPath,
	}
}

// Execute runs the whole sequence: validation, an advisory free-space
// check, then the sync itself.
func (s *Service) Execute(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.checkFreeSpace()
	return s.Run(ctx)
}

// Run invokes rsync with the assembled options and propagates any failure
// as-is.
func (s *Service) Run(ctx context.Context) error {
	args := BuildArgs(s.cfg, s.opts)
	s.log.Debugf("invoking %s %s", syncTool, strings.Join(args, " "))

	if err := s.runner.Run(ctx, syncTool, args, s.output); err != nil {
		return err
	}

	if s.opts.DryRun {
		s.log.Info("dry run finished, destination was not modified")
	} else {
		s.log.Infof("backup of %s finished", s.cfg.SourceDir)
	}
	return nil
}

// checkFreeSpace warns when the source tree looks larger than the free
// space on the destination. Advisory only: rsync transfers deltas, so a
// full-size fit is usually pessimistic, and any error here is swallowed.
func (s *Service) checkFreeSpace() {
	usage, err := disk.Usage(s.cfg.BackupDir)
	if err != nil {
		s.log.WithError(err).Debug("skipping free space check")
		return
	}

	var total uint64
	afero.Walk(s.fs, s.cfg.SourceDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.Mode().IsRegular() {
			total += uint64(info.Size())
		}
		return nil
	})

	if total > usage.Free {
		s.log.Warnf("source tree (%s) is larger than the free space on the destination (%s)",
			humanBytes(total), humanBytes(usage.Free))
		return
	}
	s.log.Debugf("destination has %s free for a %s source tree",
		humanBytes(usage.Free), humanBytes(total))
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
