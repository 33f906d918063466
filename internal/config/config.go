// Package config loads the backup configuration from a declarative
// key/value file. The file is discovered next to the executable unless an
// explicit path is given, and environment variables with the
// PROFILE_BACKUP_ prefix override it.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	homedir "github.com/mitchellh/go-homedir"

	apperrors "github.com/mateusz-piotrowski/user-profile-backup/internal/errors"
	"github.com/mateusz-piotrowski/user-profile-backup/internal/version"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// PROFILE_BACKUP_SOURCE_DIR maps to the source_dir key.
const EnvPrefix = "PROFILE_BACKUP_"

// BackupConfig holds the paths that drive a backup run. It is loaded once
// at startup and passed around by value afterward; nothing mutates it.
type BackupConfig struct {
	// SourceDir is the tree being backed up, usually the user's home.
	SourceDir string `koanf:"source_dir"`
	// BackupDir is the mirror destination. Created if absent.
	BackupDir string `koanf:"backup_dir"`
	// ExcludeFile lists rsync exclude patterns, one per line.
	ExcludeFile string `koanf:"exclude_file"`
	// LogDir receives session log files. Defaults to the executable's
	// directory when empty.
	LogDir string `koanf:"log_dir"`
}

// Unrecognized keys are rejected rather than ignored.
var knownKeys = map[string]bool{
	"source_dir":   true,
	"backup_dir":   true,
	"exclude_file": true,
	"log_dir":      true,
}

var supportedExtensions = []string{".yaml", ".yml", ".json", ".toml", ".env"}

// Discover returns the path of the configuration file colocated with the
// executable, trying each supported extension in order.
func Discover(dir string) (string, error) {
	for _, ext := range supportedExtensions {
		candidate := filepath.Join(dir, version.Package+ext)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", apperrors.ConfigMissingError{Dir: dir}
}

// Load reads, validates and expands the configuration at path. An empty
// path triggers discovery next to the executable.
func Load(path string) (*BackupConfig, error) {
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, apperrors.WithContext(err, "locate executable")
		}
		if path, err = Discover(filepath.Dir(exe)); err != nil {
			return nil, err
		}
	}

	parser, err := parserForFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.FileNotFound{Path: path}
		}
		return nil, apperrors.WithContext(err, "read configuration file")
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, apperrors.WithContext(err, "parse configuration file")
	}

	// Environment overrides, highest precedence.
	k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)

	for _, key := range k.Keys() {
		if !knownKeys[key] {
			return nil, apperrors.UnknownKeyError{Key: key}
		}
	}

	var cfg BackupConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperrors.WithContext(err, "decode configuration")
	}

	for _, req := range []struct {
		key   string
		value string
	}{
		{"source_dir", cfg.SourceDir},
		{"backup_dir", cfg.BackupDir},
		{"exclude_file", cfg.ExcludeFile},
	} {
		if req.value == "" {
			return nil, apperrors.MissingFieldError{Field: req.key}
		}
	}

	if err := expandPaths(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandPaths resolves a leading ~ in every configured path.
func expandPaths(cfg *BackupConfig) error {
	for _, p := range []*string{&cfg.SourceDir, &cfg.BackupDir, &cfg.ExcludeFile, &cfg.LogDir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return apperrors.WithContext(err, "expand path "+*p)
		}
		*p = expanded
	}
	return nil
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, apperrors.New("unknown file extension: " + ext)
	}
}
