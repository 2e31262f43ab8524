package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// WorkspaceMountPath is the fixed path inside the sandbox container
// where the workspace directory is bind-mounted. It is also the
// container's working directory, so relative paths in exec'd commands
// resolve against the workspace root.
const WorkspaceMountPath = "/workspace"

// ContainerName returns the Docker container name for a sandbox
// environment. One environment owns exactly one container.
func ContainerName(envName string) string {
	return "mutant-" + envName
}

// ListManagedContainers queries the Docker daemon for all containers
// carrying the "mutant.managed-by=mutant" label, including stopped ones.
// This is the primary entry point for discovering what sandbox
// environments exist — all state is derived from Docker labels.
func ListManagedContainers(ctx context.Context, cli *Client) ([]model.ContainerInfo, error) {
	// Server-side label filtering avoids listing unrelated containers.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	return result, nil
}

// containerToInfo converts a Docker API Container struct to the domain
// ContainerInfo. Docker returns names with a leading "/" that is an
// artifact of the API, so it is stripped for display.
func containerToInfo(c types.Container) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Status:        c.State,
		Labels:        c.Labels,
	}
}

// FindEnv locates the sandbox environment with the given name and
// reconstructs it from container labels. Returns a CLIError with
// ExitEnvNotFound if no managed container carries the name.
func FindEnv(ctx context.Context, cli *Client, envName string) (*model.SandboxEnv, error) {
	containers, err := ListManagedContainers(ctx, cli)
	if err != nil {
		return nil, err
	}

	for _, c := range containers {
		if c.Labels[LabelName] != envName {
			continue
		}
		return BuildSandboxEnv(envName, []model.ContainerInfo{c})
	}

	return nil, model.NewCLIError(
		model.ExitEnvNotFound,
		fmt.Sprintf("sandbox environment %q not found", envName),
	)
}

// BuildSandboxEnv constructs a SandboxEnv domain object from the
// containers belonging to one environment. Labels supply the static
// metadata; status is derived from container state plus whether the
// workspace directory still exists on disk.
func BuildSandboxEnv(envName string, containers []model.ContainerInfo) (*model.SandboxEnv, error) {
	if len(containers) == 0 {
		return nil, fmt.Errorf("cannot build environment %q: no containers provided", envName)
	}

	env, err := ParseLabels(containers[0].Labels)
	if err != nil {
		return nil, fmt.Errorf("failed to parse labels for environment %q: %w", envName, err)
	}

	env.Containers = containers
	env.Status = determineStatus(containers, env.WorkspacePath)

	return env, nil
}

// determineStatus calculates the aggregate status of a sandbox
// environment. Priority order:
//  1. Orphaned: the workspace directory no longer exists
//  2. Running: at least one container is running
//  3. Stopped: otherwise
func determineStatus(containers []model.ContainerInfo, workspacePath string) model.EnvStatus {
	if _, err := os.Stat(workspacePath); os.IsNotExist(err) {
		return model.StatusOrphaned
	}

	for _, c := range containers {
		if c.Status == "running" {
			return model.StatusRunning
		}
	}

	return model.StatusStopped
}

// CreateSandbox creates and starts the sandbox container for an
// environment: the pinned image, the workspace bind-mounted at
// /workspace, the mutant.* labels applied, and an idle entrypoint so the
// container stays up between exec invocations.
//
// The image is pulled first if not present locally. Returns the
// container ID.
func CreateSandbox(ctx context.Context, cli *Client, env *model.SandboxEnv) (string, error) {
	if err := ensureImage(ctx, cli, env.Image); err != nil {
		return "", err
	}

	config := &container.Config{
		Image: env.Image,
		// The container idles so a single create supports many execs:
		// provisioning, plain test runs, and one exec per mutant.
		Cmd:        []string{"sleep", "infinity"},
		WorkingDir: WorkspaceMountPath,
		Labels:     BuildLabels(env),
	}

	hostConfig := &container.HostConfig{
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: env.WorkspacePath,
				Target: WorkspaceMountPath,
			},
		},
	}

	resp, err := cli.Inner().ContainerCreate(ctx, config, hostConfig, nil, nil, ContainerName(env.Name))
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create container for environment %q", env.Name),
			err,
		)
	}

	if err := cli.Inner().ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container for environment %q", env.Name),
			err,
		)
	}

	return resp.ID, nil
}

// ensureImage pulls the image unless it is already present locally.
// The pull progress stream is drained (not rendered) — the caller logs
// a single "pulling image" line instead of a progress bar.
func ensureImage(ctx context.Context, cli *Client, imageRef string) error {
	filterArgs := filters.NewArgs(filters.Arg("reference", imageRef))
	images, err := cli.Inner().ImageList(ctx, image.ListOptions{Filters: filterArgs})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to query local images for %q", imageRef),
			err,
		)
	}
	if len(images) > 0 {
		return nil
	}

	reader, err := cli.Inner().ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", imageRef),
			err,
		)
	}
	defer func() { _ = reader.Close() }()

	// The pull only completes once the progress stream is consumed.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed while pulling image %q", imageRef),
			err,
		)
	}

	return nil
}

// StartContainer starts a stopped container by its ID.
func StartContainer(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container %q", containerID),
			err,
		)
	}
	return nil
}

// StopContainer stops a running container by its ID. The container's
// main process receives SIGTERM and, after the daemon's default timeout,
// SIGKILL.
func StopContainer(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerStop(ctx, containerID, container.StopOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}

// RemoveContainer removes a container by its ID. When force is true,
// Docker kills the container first, so a running sandbox can be removed
// in one step.
func RemoveContainer(ctx context.Context, cli *Client, containerID string, force bool) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: force,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}
