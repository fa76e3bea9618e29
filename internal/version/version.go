// Package version reports the binary's build identity.
package version

import (
	"fmt"
	"runtime/debug"
)

// Stamped at release build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// GetVersion returns the release version. Unstamped binaries fall back to
// the module version recorded by go install, then to "dev".
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetFullVersion returns the version with the commit hash appended when
// one was stamped.
func GetFullVersion() string {
	if GitCommit != "unknown" {
		return fmt.Sprintf("%s (commit: %s)", GetVersion(), GitCommit)
	}
	return GetVersion()
}
