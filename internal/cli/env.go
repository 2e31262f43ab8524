// Package cli — env.go holds the environment-resolution helper shared
// by the commands that execute inside a sandbox container (provision,
// test, run).
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// runDurationPrecision is the rounding applied to durations shown to
// the user. Sub-100ms precision is noise for suite runs.
const runDurationPrecision = 100 * time.Millisecond

// envSession bundles everything a container-backed command needs:
// the Docker client, the resolved environment, its configuration, and
// the ID of the (running) sandbox container.
type envSession struct {
	cli         *docker.Client
	env         *model.SandboxEnv
	cfg         *workspace.Config
	containerID string
}

// close releases the Docker client.
func (s *envSession) close() {
	_ = s.cli.Close()
}

// openEnvSession resolves a sandbox environment by name and prepares it
// for command execution: the container is started if stopped, and the
// workspace configuration is loaded. Orphaned environments are refused,
// since there is no workspace left to operate on.
func openEnvSession(ctx context.Context, envName string) (*envSession, error) {
	cli, err := docker.NewClient()
	if err != nil {
		return nil, err
	}

	env, err := docker.FindEnv(ctx, cli, envName)
	if err != nil {
		_ = cli.Close()
		return nil, err
	}

	if env.Status == model.StatusOrphaned {
		_ = cli.Close()
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("environment %q is orphaned: workspace %s no longer exists (use `mutant remove %s`)",
				envName, env.WorkspacePath, envName))
	}

	initWorkspaceLogging(env.WorkspacePath)

	containerID := env.Containers[0].ContainerID
	if env.Status == model.StatusStopped {
		logger.Log.Debug().Str("env", envName).Msg("starting stopped sandbox container")
		if err := docker.StartContainer(ctx, cli, containerID); err != nil {
			_ = cli.Close()
			return nil, err
		}
		env.Status = model.StatusRunning
	}

	cfg, err := workspace.LoadConfig(env.WorkspacePath)
	if err != nil {
		_ = cli.Close()
		return nil, err
	}

	return &envSession{
		cli:         cli,
		env:         env,
		cfg:         cfg,
		containerID: containerID,
	}, nil
}
