package common

import "strconv"

const (
	major = 0
	minor = 1
	patch = 0

	// Version is the contract version in a single integer form, it is
	// reported by the version method.
	Version = major*1_000_000 + minor*1_000 + patch
)

// VersionString returns Version in 'major.minor.patch' form.
func VersionString() string {
	return strconv.Itoa(major) + "." + strconv.Itoa(minor) + "." + strconv.Itoa(patch)
}
