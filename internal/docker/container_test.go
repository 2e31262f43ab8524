package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// envContainer fabricates a ContainerInfo carrying valid sandbox labels
// for the given workspace path and container state.
func envContainer(workspacePath, state string) model.ContainerInfo {
	env := sampleEnv()
	env.WorkspacePath = workspacePath
	return model.ContainerInfo{
		ContainerID:   "abc123",
		ContainerName: ContainerName(env.Name),
		Status:        state,
		Labels:        BuildLabels(env),
	}
}

// TestContainerName verifies the fixed naming scheme.
func TestContainerName(t *testing.T) {
	assert.Equal(t, "mutant-python-algos", ContainerName("python-algos"))
}

// TestBuildSandboxEnv_Running verifies a running container in an
// existing workspace yields a running environment.
func TestBuildSandboxEnv_Running(t *testing.T) {
	ws := t.TempDir()

	env, err := BuildSandboxEnv("python-algos", []model.ContainerInfo{envContainer(ws, "running")})
	require.NoError(t, err)

	assert.Equal(t, model.StatusRunning, env.Status)
	assert.Len(t, env.Containers, 1)
	assert.Equal(t, ws, env.WorkspacePath)
}

// TestBuildSandboxEnv_Stopped verifies an exited container maps to a
// stopped environment.
func TestBuildSandboxEnv_Stopped(t *testing.T) {
	ws := t.TempDir()

	env, err := BuildSandboxEnv("python-algos", []model.ContainerInfo{envContainer(ws, "exited")})
	require.NoError(t, err)

	assert.Equal(t, model.StatusStopped, env.Status)
}

// TestBuildSandboxEnv_Orphaned verifies that a missing workspace
// directory takes priority over container state.
func TestBuildSandboxEnv_Orphaned(t *testing.T) {
	env, err := BuildSandboxEnv("python-algos", []model.ContainerInfo{
		envContainer("/nonexistent/path/to/workspace", "running"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusOrphaned, env.Status)
}

// TestBuildSandboxEnv_NoContainers verifies the guard against an empty
// container group.
func TestBuildSandboxEnv_NoContainers(t *testing.T) {
	_, err := BuildSandboxEnv("python-algos", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no containers")
}

// TestBuildSandboxEnv_BadLabels verifies label parse failures are
// surfaced with the environment name.
func TestBuildSandboxEnv_BadLabels(t *testing.T) {
	_, err := BuildSandboxEnv("python-algos", []model.ContainerInfo{
		{ContainerID: "abc", Labels: map[string]string{"unrelated": "label"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "python-algos")
}
