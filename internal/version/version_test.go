package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldV, oldC, oldT := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldT })

	Version, GitCommit, BuildTime = "v1.2.3", "abc123", "2026-01-02"
	assert.Equal(t, "sitekiln v1.2.3 (commit abc123, built 2026-01-02)", String())
}

func TestDefaultsAreSet(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}
