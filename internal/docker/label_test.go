package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// sampleEnv returns a fully populated SandboxEnv for label tests.
func sampleEnv() *model.SandboxEnv {
	return &model.SandboxEnv{
		Name:          "python-algos",
		RepoURL:       "https://github.com/michvong/Python.git",
		WorkspacePath: "/home/user/work/Python",
		Image:         "python:3.12-slim",
		CreatedAt:     time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	}
}

// TestBuildLabels verifies every label key is populated and the
// timestamp is RFC3339 in UTC.
func TestBuildLabels(t *testing.T) {
	labels := BuildLabels(sampleEnv())

	assert.Equal(t, "mutant", labels[LabelManagedBy])
	assert.Equal(t, "python-algos", labels[LabelName])
	assert.Equal(t, "https://github.com/michvong/Python.git", labels[LabelRepoURL])
	assert.Equal(t, "/home/user/work/Python", labels[LabelWorkspacePath])
	assert.Equal(t, "python:3.12-slim", labels[LabelImage])
	assert.Equal(t, "2026-08-26T10:00:00Z", labels[LabelCreatedAt])
}

// TestParseLabels_RoundTrip verifies ParseLabels is the inverse of
// BuildLabels for the statically persisted fields.
func TestParseLabels_RoundTrip(t *testing.T) {
	env := sampleEnv()

	parsed, err := ParseLabels(BuildLabels(env))
	require.NoError(t, err)

	assert.Equal(t, env.Name, parsed.Name)
	assert.Equal(t, env.RepoURL, parsed.RepoURL)
	assert.Equal(t, env.WorkspacePath, parsed.WorkspacePath)
	assert.Equal(t, env.Image, parsed.Image)
	assert.True(t, env.CreatedAt.Equal(parsed.CreatedAt))
}

// TestParseLabels_MissingRequired verifies all missing labels are listed
// in one error.
func TestParseLabels_MissingRequired(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelName:      "x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelWorkspacePath)
	assert.Contains(t, err.Error(), LabelImage)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabels_WrongManager verifies containers labeled by another
// tool are rejected.
func TestParseLabels_WrongManager(t *testing.T) {
	labels := BuildLabels(sampleEnv())
	labels[LabelManagedBy] = "someone-else"

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected value")
}

// TestParseLabels_BadTimestamp verifies a malformed created-at label is
// rejected.
func TestParseLabels_BadTimestamp(t *testing.T) {
	labels := BuildLabels(sampleEnv())
	labels[LabelCreatedAt] = "yesterday"

	_, err := ParseLabels(labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabels_EmptyRepoURL verifies repo-url may be empty — an
// environment can be created over a pre-existing directory.
func TestParseLabels_EmptyRepoURL(t *testing.T) {
	env := sampleEnv()
	env.RepoURL = ""

	parsed, err := ParseLabels(BuildLabels(env))
	require.NoError(t, err)
	assert.Empty(t, parsed.RepoURL)
}
