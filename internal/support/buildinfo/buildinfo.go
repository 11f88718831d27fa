// Package buildinfo exposes version information stamped at build time.
package buildinfo

// Version is the release version, overridden with
// -ldflags "-X veripack/internal/support/buildinfo.Version=...".
var Version = "dev"
