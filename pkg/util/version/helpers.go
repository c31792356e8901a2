package version

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// IsVersionAtLeast checks if the given version is at least the specified
// major.minor version. Patch version is ignored in the comparison.
// Returns false if version is nil.
func IsVersionAtLeast(
	version *semver.Version,
	major uint64,
	minor uint64,
) bool {
	if version == nil {
		return false
	}

	if version.Major > major {
		return true
	}

	return version.Major == major && version.Minor >= minor
}

// SameMajorMinor reports whether two versions share the same major.minor.
// Returns false if either version is nil.
func SameMajorMinor(a *semver.Version, b *semver.Version) bool {
	if a == nil || b == nil {
		return false
	}

	return a.Major == b.Major && a.Minor == b.Minor
}

// MajorMinorLabel renders a version as "major.minor", the granularity used
// for platform compatibility gates.
func MajorMinorLabel(v *semver.Version) string {
	if v == nil {
		return ""
	}

	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
