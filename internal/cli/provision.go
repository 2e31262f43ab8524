// Package cli — provision.go implements the "mutant provision" command.
//
// Provisioning creates the virtual environment inside the sandbox
// container and installs the pinned dependencies from the lock file.
// It is idempotent and re-runnable: `python -m venv` over an existing
// venv is a no-op, and pip reinstalls only what changed, so a broken
// install can simply be retried.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/runner"
)

// NewProvisionCommand creates the "provision" cobra command.
func NewProvisionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision <name>",
		Short: "Install pinned dependencies into a sandbox environment",
		Long: `Create the virtual environment inside the sandbox container and install
the dependencies from the lock file.

The sequence is the documented setup recipe, executed in the container:

  python -m venv <venvDir>
  <venvDir>/bin/pip install -U pip
  <venvDir>/bin/pip install -r <lockFile>

Re-running is safe: the venv is reused and pip is idempotent.

Examples:
  mutant provision python-algos`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runProvision resolves the environment and runs the provisioning steps.
func runProvision(ctx context.Context, envName string) error {
	session, err := openEnvSession(ctx, envName)
	if err != nil {
		return err
	}
	defer session.close()

	logger.Log.Info().
		Str("env", envName).
		Str("lockFile", session.cfg.LockFile).
		Str("venvDir", session.cfg.VenvDir).
		Msg("provisioning environment")

	r := runner.New(session.cli, session.containerID, session.cfg)
	if err := r.Provision(ctx); err != nil {
		return err
	}

	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"name":        envName,
			"provisioned": true,
			"lockFile":    session.cfg.LockFile,
			"venvDir":     session.cfg.VenvDir,
		})
		return nil
	}

	fmt.Printf("Provisioned environment %q (%s from %s)\n",
		envName, session.cfg.VenvDir, session.cfg.LockFile)
	return nil
}
