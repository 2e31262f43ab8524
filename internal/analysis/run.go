package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/mutation"
	"github.com/mmr-tortoise/mutant/internal/report"
	"github.com/mmr-tortoise/mutant/internal/runner"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// SuiteRunner executes the target's test suite once and classifies the
// result. *runner.Runner is the production implementation; tests use a
// fake to avoid needing a Docker daemon.
type SuiteRunner interface {
	RunTests(ctx context.Context, extraArgs ...string) (*runner.TestRun, error)
}

// Options configures a mutation run.
type Options struct {
	// Seed drives candidate sampling. The same seed over the same
	// workspace reproduces the same sample.
	Seed int64

	// Sample bounds how many candidates are executed. Zero means all.
	Sample int

	// WriteDiffs controls whether a unified diff is saved per executed
	// mutant under <run-dir>/diffs/.
	WriteDiffs bool

	// Image and TestTimeoutSeconds are recorded in the run manifest.
	Image              string
	TestTimeoutSeconds int
}

// Result is the outcome of a completed mutation run.
type Result struct {
	// RunID is the UUID assigned to this run.
	RunID string

	// Dir is the run directory (.mutant/runs/<run-id>).
	Dir string

	// Results holds one entry per executed mutant.
	Results []model.MutantResult

	// Summary is the aggregate over Results.
	Summary *report.Summary
}

// Driver owns one mutation run against a provisioned sandbox.
type Driver struct {
	workspacePath string
	suite         SuiteRunner
	opts          Options
}

// NewDriver creates a Driver for the workspace.
func NewDriver(workspacePath string, suite SuiteRunner, opts Options) *Driver {
	return &Driver{workspacePath: workspacePath, suite: suite, opts: opts}
}

// newRand builds the sampling source. Split out so sampling is
// reproducible in tests without going through a full Driver.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Run executes the mutation loop over the given candidates and persists
// results.csv and run.yaml under a fresh run directory.
//
// Each mutant follows the same sequence: apply the mutation to the real
// file in the workspace, run the suite in the container (the workspace
// is bind-mounted, so the container sees the edit immediately), restore
// the original bytes, record the verdict. Restoration is deferred per
// mutant so the workspace is intact even when the suite runner fails or
// the context is cancelled mid-run.
func (d *Driver) Run(ctx context.Context, candidates []Candidate) (*Result, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(d.workspacePath, workspace.MetaDir, workspace.RunsDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	if d.opts.WriteDiffs {
		if err := os.MkdirAll(filepath.Join(runDir, "diffs"), 0o755); err != nil {
			return nil, fmt.Errorf("creating diffs directory: %w", err)
		}
	}

	selected := SampleCandidates(candidates, d.opts.Sample, d.opts.Seed)

	logger.Log.Info().
		Str("runId", runID).
		Int("candidates", len(candidates)).
		Int("selected", len(selected)).
		Int64("seed", d.opts.Seed).
		Msg("mutation run started")

	startedAt := time.Now().UTC()
	results := make([]model.MutantResult, 0, len(selected))

	for i, cand := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := d.runOne(ctx, i, runDir, cand)
		if err != nil {
			return nil, err
		}
		results = append(results, res)

		logger.Log.Debug().
			Int("mutant", i+1).
			Int("of", len(selected)).
			Str("target", cand.Describe()).
			Str("outcome", res.Outcome.String()).
			Msg("mutant executed")
	}
	finishedAt := time.Now().UTC()

	summary := report.Summarize(results)

	if err := d.persist(runDir, runID, len(candidates), results, summary, startedAt, finishedAt); err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("runId", runID).
		Float64("score", summary.Score).
		Int("killed", summary.Killed).
		Int("survived", summary.Survived).
		Int("timeout", summary.Timeout).
		Int("errors", summary.Errors).
		Msg("mutation run finished")

	return &Result{
		RunID:   runID,
		Dir:     runDir,
		Results: results,
		Summary: summary,
	}, nil
}

// runOne executes a single mutant: apply, test, restore.
func (d *Driver) runOne(ctx context.Context, idx int, runDir string, cand Candidate) (model.MutantResult, error) {
	full := filepath.Join(d.workspacePath, filepath.FromSlash(cand.File))

	info, err := os.Stat(full)
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("stat target %s: %w", cand.File, err)
	}
	original, err := os.ReadFile(full)
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("reading target %s: %w", cand.File, err)
	}

	lines := mutation.SplitLines(string(original))
	mutated, err := mutation.Apply(lines, cand.Mutation)
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("applying %s: %w", cand.Describe(), err)
	}

	if d.opts.WriteDiffs {
		diff := mutation.UnifiedDiff(lines, mutated, cand.File)
		diffName := fmt.Sprintf("%04d_%s_L%d.diff", idx, cand.Mutation.Operator, cand.Mutation.LineNo)
		if err := os.WriteFile(filepath.Join(runDir, "diffs", diffName), []byte(diff), 0o644); err != nil {
			return model.MutantResult{}, fmt.Errorf("writing diff: %w", err)
		}
	}

	if err := os.WriteFile(full, []byte(mutation.Join(mutated)), info.Mode()); err != nil {
		return model.MutantResult{}, fmt.Errorf("writing mutant to %s: %w", cand.File, err)
	}

	// Restore the original bytes no matter how the test run ends.
	// A restore failure overrides the run verdict: a workspace stuck in
	// a mutated state is worse than a lost result.
	var restoreErr error
	restore := func() {
		if err := os.WriteFile(full, original, info.Mode()); err != nil {
			restoreErr = fmt.Errorf("restoring %s: %w", cand.File, err)
		}
	}

	run, testErr := d.suite.RunTests(ctx)
	restore()

	if restoreErr != nil {
		return model.MutantResult{}, restoreErr
	}
	if testErr != nil {
		return model.MutantResult{}, testErr
	}

	return model.MutantResult{
		File:     cand.File,
		Mutation: cand.Mutation,
		Outcome:  run.Outcome,
		Duration: run.Duration,
	}, nil
}

// persist writes results.csv and run.yaml into the run directory.
func (d *Driver) persist(runDir, runID string, candidateCount int, results []model.MutantResult, summary *report.Summary, startedAt, finishedAt time.Time) error {
	csvFile, err := os.Create(filepath.Join(runDir, ResultsFile))
	if err != nil {
		return fmt.Errorf("creating results.csv: %w", err)
	}
	if err := report.WriteResults(csvFile, results); err != nil {
		_ = csvFile.Close()
		return err
	}
	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("closing results.csv: %w", err)
	}

	manifest := &Manifest{
		RunID:              runID,
		Seed:               d.opts.Seed,
		SampleSize:         len(results),
		CandidateCount:     candidateCount,
		Image:              d.opts.Image,
		TestTimeoutSeconds: d.opts.TestTimeoutSeconds,
		StartedAt:          startedAt,
		FinishedAt:         finishedAt,
		Score:              summary.Score,
		Killed:             summary.Killed,
		Survived:           summary.Survived,
		Timeout:            summary.Timeout,
		Errors:             summary.Errors,
	}
	return WriteManifest(filepath.Join(runDir, ManifestFile), manifest)
}
