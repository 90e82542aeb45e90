package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Norgate-AV/wizql/internal/version"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	v := version.GetVersion()
	assert.NotEmpty(t, v, "Version should not be empty")

	if v != "dev" {
		assert.Regexp(t, `^v?\d+\.\d+\.\d+`, v, "Version should match semver pattern")
	}
}

func TestBuildMetadataPresent(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, version.GetCommit())
	assert.NotEmpty(t, version.GetDate())
}

func TestGetFullVersion(t *testing.T) {
	t.Parallel()

	full := version.GetFullVersion()
	expected := version.GetVersion() + " (commit: " + version.GetCommit() + ", built: " + version.GetDate() + ")"
	assert.Equal(t, expected, full)
}
