package version

var (
	// Populated at build time via -ldflags.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Package is the program identity. Config files and session logs are
	// named after it.
	Package = "user-profile-backup"
)
