// Package cli — create.go implements the "mutant create" command.
//
// The create command builds a sandbox environment over a cloned
// workspace: it pulls the pinned image if needed, creates a container
// with the workspace bind-mounted at /workspace, applies the mutant.*
// labels that serve as the environment's persistent state, and (unless
// --no-provision) installs the locked dependencies into a fresh
// virtual environment inside the container.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/runner"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	workspacePath string // --workspace: workspace directory (default: cwd)
	repoURL       string // --repo-url: clone URL recorded in labels
	image         string // --image: override the configured image
	noProvision   bool   // --no-provision: skip dependency installation
}

// NewCreateCommand creates the "create" cobra command.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a sandbox environment for a workspace",
		Long: `Create a sandbox environment: a container running the pinned image with
the workspace bind-mounted at /workspace.

The workspace defaults to the current directory. Configuration is read
from .mutant/config.json inside the workspace (defaults apply when the
file is absent). Unless --no-provision is given, the virtual environment
is created and the lock file installed immediately.

Examples:
  mutant create python-algos
  mutant create --workspace ~/src/python-algos --repo-url https://github.com/example/python-algos.git python-algos
  mutant create --image python:3.12-slim --no-provision python-algos`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateEnv(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.workspacePath, "workspace", "", "Workspace directory (default: current directory)")
	cmd.Flags().StringVar(&flags.repoURL, "repo-url", "", "Clone URL recorded on the environment")
	cmd.Flags().StringVar(&flags.image, "image", "", "Container image (default: from config)")
	cmd.Flags().BoolVar(&flags.noProvision, "no-provision", false, "Create the container only, don't install dependencies")

	return cmd
}

// runCreateEnv is the main orchestration function for the create command.
func runCreateEnv(ctx context.Context, envName string, flags *createFlags) error {
	// Step 1: Validate the environment name. It becomes part of the
	// container name, so it must be Docker-name safe.
	if err := model.ValidateName(envName); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid environment name", err)
	}

	// Step 2: Resolve the workspace directory.
	workspacePath := flags.workspacePath
	if workspacePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		workspacePath = cwd
	}
	workspacePath, err := filepath.Abs(workspacePath)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve workspace path", err)
	}
	if info, err := os.Stat(workspacePath); err != nil || !info.IsDir() {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("workspace directory %s does not exist", workspacePath))
	}
	initWorkspaceLogging(workspacePath)

	// Step 3: Load the project configuration.
	cfg, err := workspace.LoadConfig(workspacePath)
	if err != nil {
		return err
	}
	image := cfg.Image
	if flags.image != "" {
		image = flags.image
	}
	logger.Log.Debug().Str("workspace", workspacePath).Str("image", image).Msg("creating environment")

	// Step 4: Connect to Docker and refuse duplicate names.
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if _, err := docker.FindEnv(ctx, cli, envName); err == nil {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("sandbox environment %q already exists", envName))
	}

	// Step 5: Create and start the sandbox container.
	env := &model.SandboxEnv{
		Name:          envName,
		RepoURL:       flags.repoURL,
		WorkspacePath: workspacePath,
		Image:         image,
		Status:        model.StatusRunning,
		CreatedAt:     time.Now().UTC(),
	}

	logger.Log.Info().Str("env", envName).Str("image", image).Msg("creating sandbox container")
	containerID, err := docker.CreateSandbox(ctx, cli, env)
	if err != nil {
		return err
	}
	logger.Log.Debug().Str("containerId", containerID).Msg("sandbox container started")

	// Step 6: Provision unless told otherwise.
	if !flags.noProvision {
		logger.Log.Info().Str("lockFile", cfg.LockFile).Msg("provisioning environment")
		r := runner.New(cli, containerID, cfg)
		if err := r.Provision(ctx); err != nil {
			return err
		}
	} else {
		env.Status = model.StatusRunning
		logger.Log.Debug().Msg("skipping provisioning (--no-provision)")
	}

	printCreateResult(env, containerID, !flags.noProvision)
	return nil
}

// printCreateResult outputs the create command results in text or JSON format.
func printCreateResult(env *model.SandboxEnv, containerID string, provisioned bool) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"name":          env.Name,
			"workspacePath": env.WorkspacePath,
			"image":         env.Image,
			"containerId":   containerID,
			"provisioned":   provisioned,
		})
		return
	}

	fmt.Printf("Created sandbox environment %q\n", env.Name)
	fmt.Printf("  Workspace: %s\n", env.WorkspacePath)
	fmt.Printf("  Image:     %s\n", env.Image)
	fmt.Printf("  Container: %s\n", docker.ContainerName(env.Name))
	if provisioned {
		fmt.Println("  Dependencies installed.")
	} else {
		fmt.Println()
		fmt.Printf("Run `mutant provision %s` to install dependencies.\n", env.Name)
	}
}
