// Package version reports build information for the seqctl binary.
//
// Version, git commit and build time can be set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/collection/version.Version=1.0.0"
//
// Without them the module version and VCS stamp embedded by the Go
// toolchain are used.
package version
