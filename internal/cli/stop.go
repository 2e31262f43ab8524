// Package cli — stop.go implements the "mutant stop" command.
//
// Stop halts the sandbox container without removing it. The container
// filesystem (including the provisioned virtual environment) is kept,
// so `mutant start` brings the environment back without re-installing
// anything.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/model"
)

// NewStopCommand creates the "stop" cobra command.
func NewStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop <name>",
		Short: "Stop a running sandbox environment",
		Long: `Stop the container of a running sandbox environment.

The container and its provisioned virtual environment are preserved;
use "mutant start" to resume or "mutant remove" to delete.

Examples:
  mutant stop python-algos`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runStop locates the environment and stops its container.
func runStop(ctx context.Context, envName string) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	env, err := docker.FindEnv(ctx, cli, envName)
	if err != nil {
		return err
	}

	if env.Status != model.StatusRunning {
		if IsJSONOutput() {
			printJSON(map[string]string{"name": envName, "status": env.Status.String()})
		} else {
			fmt.Printf("Environment %q is not running (status: %s).\n", envName, env.Status)
		}
		return nil
	}

	if err := docker.StopContainer(ctx, cli, env.Containers[0].ContainerID); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]string{"name": envName, "status": model.StatusStopped.String()})
		return nil
	}
	fmt.Printf("Stopped environment %q\n", envName)
	return nil
}
