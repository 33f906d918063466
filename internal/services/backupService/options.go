package backupservice

import (
	"strings"

	"github.com/mateusz-piotrowski/user-profile-backup/internal/config"
)

// RunOptions are the per-invocation flags. They are set during argument
// parsing and immutable afterward; they never live in the config file.
type RunOptions struct {
	// Verbose passes per-file progress reporting through to rsync.
	Verbose bool
	// DryRun makes rsync simulate the transfer without touching the
	// destination.
	DryRun bool
}

// BuildArgs assembles the rsync argument list for a run. The fixed options
// mirror the source tree: archive copy keeping a backup of overwritten
// files, pruning entries that vanished from the source or match the
// exclude list.
func BuildArgs(cfg config.BackupConfig, opts RunOptions) []string {
	args := []string{
		"--archive",
		"--backup",
		"--verbose",
		"--human-readable",
		"--recursive",
		"--delete",
		"--delete-excluded",
		"--exclude-from=" + cfg.ExcludeFile,
	}
	if opts.Verbose {
		args = append(args, "--progress")
	}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	// Trailing separators make rsync copy directory contents rather than
	// the directory itself.
	return append(args, trailingSep(cfg.SourceDir), trailingSep(cfg.BackupDir))
}

func trailingSep(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
