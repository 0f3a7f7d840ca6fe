// Package version reports the build of the reactivity binaries.
//
// Version, commit, branch and build time are set with -ldflags:
//
//	go build -ldflags "-X github.com/reactivity-io/reactivity-go/version.Version=0.2.0" ./cmd/reactivity
//
// Unset values fall back to the VCS stamp in the binary's build info.
package version
