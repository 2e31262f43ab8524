// Package cli — run.go implements the "mutant run" command.
//
// Run is the core operation: it executes the test suite against each
// sampled mutation candidate inside the sandbox and scores how many
// mutants the suite detects.
//
// Orchestration steps:
//  1. Resolve the environment and load the workspace configuration
//  2. Discover targets and collect mutation candidates
//  3. Run the suite once on clean sources (baseline must pass)
//  4. Drive the mutate → test → restore loop over the sampled candidates
//  5. Persist results.csv and run.yaml under .mutant/runs/<run-id>/
//  6. Print the summary and enforce --min-score
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/mutant/internal/analysis"
	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/runner"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	seed         int64   // --seed: sampling seed
	sample       int     // --sample: max mutants to execute (0 = all)
	minScore     float64 // --min-score: fail below this score (0 = disabled)
	diffs        bool    // --diffs: save a unified diff per mutant
	skipBaseline bool    // --skip-baseline: skip the clean-source suite run
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Execute a mutation-adequacy run",
		Long: `Run the test suite against sampled mutation candidates and score how
many mutants the suite detects.

Each mutant is applied to the workspace, judged by one suite run inside
the sandbox, and reverted. The same --seed over the same workspace
reproduces the same sample. Results are saved under
.mutant/runs/<run-id>/ in the workspace.

The suite is first run once on clean sources: a failing baseline would
make every mutant look detected, so it aborts the run.

Examples:
  mutant run python-algos
  mutant run --sample 50 --seed 7 python-algos
  mutant run --min-score 0.8 python-algos
  mutant run --diffs python-algos`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().Int64Var(&flags.seed, "seed", 42, "Sampling seed for reproducible mutant selection")
	cmd.Flags().IntVar(&flags.sample, "sample", 0, "Maximum number of mutants to execute (0 = all)")
	cmd.Flags().Float64Var(&flags.minScore, "min-score", 0, "Fail when the mutation score is below this threshold (0 = disabled)")
	cmd.Flags().BoolVar(&flags.diffs, "diffs", false, "Save a unified diff per executed mutant")
	cmd.Flags().BoolVar(&flags.skipBaseline, "skip-baseline", false, "Skip the clean-source baseline suite run")

	return cmd
}

// runRun orchestrates a full mutation run.
func runRun(ctx context.Context, envName string, flags *runFlags) error {
	if flags.minScore < 0 || flags.minScore > 1 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("--min-score must be between 0 and 1, got %g", flags.minScore))
	}

	// Step 1: Resolve the environment.
	session, err := openEnvSession(ctx, envName)
	if err != nil {
		return err
	}
	defer session.close()

	// Step 2: Discover targets and collect candidates.
	targets, err := workspace.DiscoverTargets(session.env.WorkspacePath, session.cfg)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "target discovery failed", err)
	}
	candidates, err := analysis.CollectCandidates(session.env.WorkspacePath, targets)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "candidate collection failed", err)
	}
	if len(candidates) == 0 {
		return model.NewCLIError(model.ExitGeneralError,
			"no mutation candidates found in workspace")
	}
	logger.Log.Info().
		Int("targets", len(targets)).
		Int("candidates", len(candidates)).
		Msg("candidates collected")

	suite := runner.New(session.cli, session.containerID, session.cfg)

	// Step 3: Baseline. A suite that fails on clean sources cannot judge
	// mutants — every run would "fail" regardless of the mutation.
	if !flags.skipBaseline {
		logger.Log.Info().Msg("running baseline suite on clean sources")
		baseline, err := suite.RunTests(ctx)
		if err != nil {
			return err
		}
		if baseline.Outcome != model.OutcomeSurvived {
			if baseline.OutputTail != "" {
				fmt.Fprintln(os.Stderr, baseline.OutputTail)
			}
			return model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("baseline suite did not pass (outcome: %s); fix the suite or provisioning first", baseline.Outcome))
		}
		logger.Log.Info().Dur("duration", baseline.Duration).Msg("baseline suite passed")
	}

	// Step 4 + 5: Drive the mutation loop; the driver persists results.
	driver := analysis.NewDriver(session.env.WorkspacePath, suite, analysis.Options{
		Seed:               flags.seed,
		Sample:             flags.sample,
		WriteDiffs:         flags.diffs,
		Image:              session.env.Image,
		TestTimeoutSeconds: session.cfg.TestTimeoutSeconds,
	})

	result, err := driver.Run(ctx, candidates)
	if err != nil {
		return err
	}

	// Step 6: Output and threshold.
	printRunResult(result, len(candidates))

	if flags.minScore > 0 && result.Summary.Score < flags.minScore {
		return model.NewCLIError(model.ExitScoreBelowThreshold,
			fmt.Sprintf("mutation score %.1f%% is below the required %.1f%%",
				result.Summary.Score*100, flags.minScore*100))
	}
	return nil
}

// printRunResult outputs the run summary in text or JSON format.
func printRunResult(result *analysis.Result, candidateCount int) {
	if IsJSONOutput() {
		printJSON(map[string]interface{}{
			"runId":          result.RunID,
			"dir":            result.Dir,
			"candidateCount": candidateCount,
			"summary":        result.Summary,
		})
		return
	}

	fmt.Printf("Run %s: %d of %d candidate(s) executed\n",
		result.RunID, result.Summary.Total, candidateCount)
	fmt.Println()
	renderSummary(os.Stdout, result.Summary)
	fmt.Println()
	fmt.Printf("Results saved to %s\n", result.Dir)
}
