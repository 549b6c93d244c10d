package version

import (
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version = ""
	if got := GetVersion(); got != "dev" {
		t.Errorf("Expected dev for empty version, got %s", got)
	}

	Version = "1.2.3"
	Commit = "abc123"
	if got := GetFullVersion(); !strings.HasPrefix(got, "1.2.3 (commit: abc123") {
		t.Errorf("Unexpected full version %q", got)
	}
}
