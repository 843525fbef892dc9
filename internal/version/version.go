// Package version carries the build version, overridable with
// -ldflags "-X github.com/aoineco/openclaw-sec/internal/version.Version=...".
package version

// Version is the openclaw-sec release.
var Version = "0.1.6"
