package version

// Build information. Populated at build time via -ldflags.
//
//nolint:gochecknoglobals
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// GetVersion returns the semantic version of the build.
func GetVersion() string {
	return Version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return Commit
}

// GetDate returns the build timestamp.
func GetDate() string {
	return Date
}
