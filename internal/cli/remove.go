// Package cli — remove.go implements the "mutant remove" command.
//
// Remove deletes the sandbox container. The workspace directory is kept
// by default — it is the user's checkout, possibly with local changes —
// and only deleted when --delete-workspace is passed explicitly.
// Removing the container is also how an orphaned environment (workspace
// already gone) is cleaned up.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	force           bool // --force: remove even while running
	deleteWorkspace bool // --delete-workspace: also delete the workspace directory
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a sandbox environment",
		Long: `Remove the container of a sandbox environment.

A running environment is refused unless --force is given. The workspace
directory is never touched unless --delete-workspace is passed.

Examples:
  mutant remove python-algos
  mutant remove --force python-algos
  mutant remove --force --delete-workspace python-algos`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove even if the environment is running")
	cmd.Flags().BoolVar(&flags.deleteWorkspace, "delete-workspace", false, "Also delete the workspace directory")

	return cmd
}

// runRemove locates the environment and removes its container, and
// optionally the workspace directory.
func runRemove(ctx context.Context, envName string, flags *removeFlags) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	env, err := docker.FindEnv(ctx, cli, envName)
	if err != nil {
		return err
	}

	if env.Status == model.StatusRunning && !flags.force {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("environment %q is running; stop it first or use --force", envName))
	}

	for _, c := range env.Containers {
		if err := docker.RemoveContainer(ctx, cli, c.ContainerID, flags.force); err != nil {
			return err
		}
		logger.Log.Debug().Str("container", c.ContainerName).Msg("container removed")
	}

	workspaceDeleted := false
	if flags.deleteWorkspace && env.Status != model.StatusOrphaned {
		if err := os.RemoveAll(env.WorkspacePath); err != nil {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("container removed, but deleting workspace %s failed", env.WorkspacePath), err)
		}
		workspaceDeleted = true
	}

	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"name":             envName,
			"removed":          true,
			"workspaceDeleted": workspaceDeleted,
		})
		return nil
	}

	fmt.Printf("Removed environment %q\n", envName)
	if workspaceDeleted {
		fmt.Printf("Deleted workspace %s\n", env.WorkspacePath)
	}
	return nil
}
