package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetVersionStamped tests that a stamped version wins over fallbacks
func TestGetVersionStamped(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", GetVersion())
}

// TestGetVersionUnstamped tests the final fallback for dev builds
func TestGetVersionUnstamped(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "dev"
	assert.Equal(t, "dev", GetVersion(), "test binaries carry no module version")
}

// TestGetFullVersion tests commit-hash suffixing
func TestGetFullVersion(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "v1.2.3"
	GitCommit = "abc1234"
	assert.Equal(t, "v1.2.3 (commit: abc1234)", GetFullVersion())

	GitCommit = "unknown"
	assert.Equal(t, "v1.2.3", GetFullVersion())
}
