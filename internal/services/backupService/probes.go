package backupservice

import (
	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
)

// CheckResult is the outcome of a single environment probe, reported by
// the check subcommand.
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

type probe struct {
	name string
	run  func() (string, error)
}

// Probe order matters: the sync tool first, then the paths in the order
// the backup touches them.
func (s *Service) probes() []probe {
	return []probe{
		{"sync tool", s.probeSyncTool},
		{"source directory", s.probeSourceDir},
		{"backup directory", s.probeBackupDir},
		{"exclude file", s.probeExcludeFile},
	}
}

// Validate checks the environment and returns the first failure. The sync
// process is never started from here. A missing backup directory is not a
// failure: it is created, with a warning.
func (s *Service) Validate() error {
	for _, p := range s.probes() {
		detail, err := p.run()
		if err != nil {
			return err
		}
		s.log.Debugf("%s: %s", p.name, detail)
	}
	return nil
}

// Inspect runs every probe and reports all outcomes instead of stopping at
// the first failure.
func (s *Service) Inspect() []CheckResult {
	results := make([]CheckResult, 0, 4)
	for _, p := range s.probes() {
		detail, err := p.run()
		r := CheckResult{Name: p.name, OK: err == nil, Detail: detail}
		if err != nil {
			r.Detail = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func (s *Service) probeSyncTool() (string, error) {
	path, err := s.lookPath(syncTool)
	if err != nil {
		return "", apperrors.CommandNotFound{Name: syncTool}
	}
	return path, nil
}

func (s *Service) probeSourceDir() (string, error) {
	info, err := s.fs.Stat(s.cfg.SourceDir)
	if err != nil {
		return "", apperrors.FileNotFound{Path: s.cfg.SourceDir}
	}
	if !info.IsDir() {
		return "", apperrors.WrongFileType{Path: s.cfg.SourceDir, Want: "directory"}
	}
	return s.cfg.SourceDir, nil
}

func (s *Service) probeBackupDir() (string, error) {
	info, err := s.fs.Stat(s.cfg.BackupDir)
	if err != nil {
		s.log.Warnf("backup directory %s does not exist, creating it", s.cfg.BackupDir)
		if err := s.fs.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
			return "", apperrors.WithContext(err, "create backup directory")
		}
		return s.cfg.BackupDir + " (created)", nil
	}
	if !info.IsDir() {
		return "", apperrors.WrongFileType{Path: s.cfg.BackupDir, Want: "directory"}
	}
	return s.cfg.BackupDir, nil
}

func (s *Service) probeExcludeFile() (string, error) {
	info, err := s.fs.Stat(s.cfg.ExcludeFile)
	if err != nil {
		return "", apperrors.FileNotFound{Path: s.cfg.ExcludeFile}
	}
	if info.IsDir() {
		return "", apperrors.WrongFileType{Path: s.cfg.ExcludeFile, Want: "regular file"}
	}
	return s.cfg.ExcludeFile, nil
}
