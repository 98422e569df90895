// Package version holds the release version, set at release time.
package version

const Version = "0.1.0"
