package docker

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// Label key constants define the Docker label keys used to persist
// sandbox environment metadata on containers. These labels are the sole
// persistence mechanism — there is no external state file.
//
// All keys share the "mutant." prefix to namespace them and avoid
// collisions with labels set by other tools.
const (
	// LabelPrefix is the common prefix for all mutant labels.
	LabelPrefix = "mutant."

	// LabelManagedBy identifies containers managed by this tool.
	// Key: "mutant.managed-by", Value: always "mutant".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelName stores the sandbox environment's unique identifier.
	// Key: "mutant.name".
	LabelName = LabelPrefix + "name"

	// LabelRepoURL stores the clone URL of the target repository.
	// Key: "mutant.repo-url". May be empty when the environment was
	// created over a pre-existing directory.
	LabelRepoURL = LabelPrefix + "repo-url"

	// LabelWorkspacePath stores the absolute host path of the workspace
	// directory bind-mounted into the container.
	// Key: "mutant.workspace-path".
	LabelWorkspacePath = LabelPrefix + "workspace-path"

	// LabelImage stores the pinned container image the sandbox runs.
	// Key: "mutant.image".
	LabelImage = LabelPrefix + "image"

	// LabelCreatedAt stores the RFC3339 timestamp of environment creation.
	// Key: "mutant.created-at".
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
// All containers created by this CLI are tagged with this value,
// enabling discovery via Docker API label filters.
const ManagedByValue = "mutant"

// BuildLabels constructs a Docker label map from a SandboxEnv. Applying
// these labels to the sandbox container allows full reconstruction of
// the SandboxEnv from container inspection alone.
func BuildLabels(env *model.SandboxEnv) map[string]string {
	return map[string]string{
		LabelManagedBy:     ManagedByValue,
		LabelName:          env.Name,
		LabelRepoURL:       env.RepoURL,
		LabelWorkspacePath: env.WorkspacePath,
		LabelImage:         env.Image,
		// UTC keeps the stored timestamp independent of the host timezone.
		LabelCreatedAt: env.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs a SandboxEnv from Docker container labels.
// This is the inverse of BuildLabels and is used when listing or
// inspecting containers to rebuild the domain model.
//
// Required labels: managed-by, name, workspace-path, image, created-at
// (repo-url may legitimately be empty). Missing required labels cause an
// error listing all of them at once, for easier debugging.
//
// Status and Containers are NOT reconstructed from labels — they are
// determined at runtime from Docker container state.
func ParseLabels(labels map[string]string) (*model.SandboxEnv, error) {
	requiredKeys := []string{
		LabelManagedBy,
		LabelName,
		LabelWorkspacePath,
		LabelImage,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &model.SandboxEnv{
		Name:          labels[LabelName],
		RepoURL:       labels[LabelRepoURL],
		WorkspacePath: labels[LabelWorkspacePath],
		Image:         labels[LabelImage],
		CreatedAt:     createdAt,
	}, nil
}
