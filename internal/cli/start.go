// Package cli — start.go implements the "mutant start" command.
//
// Start resumes a stopped sandbox environment. The container keeps its
// filesystem between stop and start, so the virtual environment and
// installed dependencies survive and no re-provisioning is needed.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/model"
)

// NewStartCommand creates the "start" cobra command.
func NewStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <name>",
		Short: "Start a stopped sandbox environment",
		Long: `Start the container of a stopped sandbox environment.

The virtual environment inside the container is preserved across
stop/start, so the environment is immediately usable again.

Examples:
  mutant start python-algos`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runStart locates the environment and starts its container.
func runStart(ctx context.Context, envName string) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	env, err := docker.FindEnv(ctx, cli, envName)
	if err != nil {
		return err
	}

	if env.Status == model.StatusRunning {
		if IsJSONOutput() {
			printJSON(map[string]string{"name": envName, "status": model.StatusRunning.String()})
		} else {
			fmt.Printf("Environment %q is already running.\n", envName)
		}
		return nil
	}

	if err := docker.StartContainer(ctx, cli, env.Containers[0].ContainerID); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]string{"name": envName, "status": model.StatusRunning.String()})
		return nil
	}
	fmt.Printf("Started environment %q\n", envName)
	return nil
}
