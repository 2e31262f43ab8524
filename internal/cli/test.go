// Package cli — test.go implements the "mutant test" command.
//
// The test command runs the target's suite once, unmutated, inside the
// sandbox. It verifies the baseline: mutation analysis is only
// meaningful against a suite that passes on clean sources.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/runner"
)

// NewTestCommand creates the "test" cobra command.
func NewTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <name> [pytest-args...]",
		Short: "Run the test suite once in a sandbox environment",
		Long: `Run the target's test suite on clean sources inside the sandbox.

Arguments after the environment name are appended to the configured
pytest arguments, so a path or keyword filter can be passed through.
The command exits non-zero when the suite fails or times out.

Examples:
  mutant test python-algos
  mutant test python-algos sorting/
  mutant test python-algos -k quick_sort`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd.Context(), args[0], args[1:])
		},
	}

	// Unknown flags after the environment name belong to pytest, not to
	// this command.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// runTest executes one suite run and reports the result.
func runTest(ctx context.Context, envName string, extraArgs []string) error {
	session, err := openEnvSession(ctx, envName)
	if err != nil {
		return err
	}
	defer session.close()

	logger.Log.Info().Str("env", envName).Strs("extraArgs", extraArgs).Msg("running test suite")

	r := runner.New(session.cli, session.containerID, session.cfg)
	run, err := r.RunTests(ctx, extraArgs...)
	if err != nil {
		return err
	}

	printTestResult(envName, run)

	// For a plain (unmutated) run, only a passing suite is success.
	// The runner's scoring vocabulary maps "suite passed" to survived.
	switch run.Outcome {
	case model.OutcomeSurvived:
		return nil
	case model.OutcomeTimeout:
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("test suite timed out after %s", run.Duration.Round(runDurationPrecision)))
	default:
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("test suite failed (pytest exit code %d)", run.ExitCode))
	}
}

// printTestResult outputs one suite run in text or JSON format.
func printTestResult(envName string, run *runner.TestRun) {
	passed := run.Outcome == model.OutcomeSurvived

	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"name":       envName,
			"passed":     passed,
			"exitCode":   run.ExitCode,
			"durationMs": run.Duration.Milliseconds(),
		})
		return
	}

	if passed {
		fmt.Printf("Test suite passed in %s\n", run.Duration.Round(runDurationPrecision))
		return
	}

	// On failure, the output tail is the fastest way to see what broke.
	if run.OutputTail != "" {
		fmt.Println(run.OutputTail)
	}
	fmt.Printf("Test suite failed in %s\n", run.Duration.Round(runDurationPrecision))
}
