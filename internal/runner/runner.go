// Package runner provisions the Python environment inside the sandbox
// container and executes the target's test suite in it.
//
// Provisioning reproduces the documented setup sequence exactly:
//
//	python -m venv <venvDir>
//	<venvDir>/bin/pip install -U pip
//	<venvDir>/bin/pip install -r <lockFile>
//
// Test runs invoke pytest through the venv's interpreter in quiet mode.
// The per-run deadline and the pytest exit code together classify the
// run for mutation scoring.
package runner

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/mmr-tortoise/mutant/internal/docker"
	"github.com/mmr-tortoise/mutant/internal/logger"
	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// outputTailLimit bounds how much suite output is retained per run.
// Mutation runs execute the suite hundreds of times; keeping full output
// for each would dwarf the results themselves.
const outputTailLimit = 4096

// Runner executes provisioning and test commands inside one sandbox
// container.
type Runner struct {
	cli         *docker.Client
	containerID string
	cfg         *workspace.Config
}

// New creates a Runner bound to a sandbox container.
func New(cli *docker.Client, containerID string, cfg *workspace.Config) *Runner {
	return &Runner{cli: cli, containerID: containerID, cfg: cfg}
}

// TestRun is the classified result of one test suite invocation.
type TestRun struct {
	// Outcome is the mutation-scoring verdict for this run.
	Outcome model.Outcome

	// ExitCode is the pytest exit code (meaningless on timeout).
	ExitCode int

	// Duration is how long the suite ran.
	Duration time.Duration

	// OutputTail is the trailing portion of the combined output,
	// bounded to keep per-mutant records small.
	OutputTail string
}

// Provision creates the virtual environment and installs the pinned
// dependencies inside the container. Each step's combined output is
// surfaced in the error when it fails, so a broken lock file is
// diagnosable from the CLI error alone.
//
// Each step runs under its own deadline (provisionTimeout) so a wedged
// pip install — a stalled index, a hung resolver — fails the command
// instead of hanging it forever.
func (r *Runner) Provision(ctx context.Context) error {
	steps := [][]string{
		{"python", "-m", "venv", r.cfg.VenvDir},
		{r.pipPath(), "install", "-U", "pip"},
		{r.pipPath(), "install", "-r", r.cfg.LockFile},
	}

	for _, cmd := range steps {
		logger.Log.Debug().Strs("cmd", cmd).Msg("provision step")

		stepCtx, cancel := context.WithTimeout(ctx, r.provisionTimeout())
		res, err := docker.Exec(stepCtx, r.cli, r.containerID, cmd)
		cancel()
		if err != nil {
			return err
		}
		if res.TimedOut {
			return model.NewCLIError(
				model.ExitProvisionFailed,
				fmt.Sprintf("provisioning step timed out: %s", strings.Join(cmd, " ")),
			)
		}
		if res.ExitCode != 0 {
			return model.NewCLIError(
				model.ExitProvisionFailed,
				fmt.Sprintf("provisioning step failed (%s): %s",
					strings.Join(cmd, " "), strings.TrimSpace(res.Output)),
			)
		}
	}

	return nil
}

// RunTests executes the test suite once with the configured per-run
// deadline and classifies the result. extraArgs are appended after the
// configured pytest arguments (e.g. a path filter).
func (r *Runner) RunTests(ctx context.Context, extraArgs ...string) (*TestRun, error) {
	cmd := []string{r.pythonPath(), "-m", "pytest"}
	cmd = append(cmd, r.cfg.TestArgs...)
	cmd = append(cmd, extraArgs...)

	timeout := time.Duration(r.cfg.TestTimeoutSeconds) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := docker.Exec(runCtx, r.cli, r.containerID, cmd)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	run := &TestRun{
		ExitCode:   res.ExitCode,
		Duration:   elapsed,
		OutputTail: tail(res.Output, outputTailLimit),
	}
	if res.TimedOut {
		run.Outcome = model.OutcomeTimeout
	} else {
		run.Outcome = ClassifyExit(res.ExitCode)
	}

	logger.Log.Debug().
		Str("outcome", run.Outcome.String()).
		Int("exitCode", run.ExitCode).
		Dur("duration", run.Duration).
		Msg("test run finished")

	return run, nil
}

// ClassifyExit maps a pytest exit code to a mutation-scoring outcome:
//
//	0 → survived (suite passed, mutant undetected)
//	1 → killed   (test failures, mutant detected)
//	other → error (interrupted, internal error, usage error, or no
//	               tests collected — the suite never judged the mutant)
func ClassifyExit(exitCode int) model.Outcome {
	switch exitCode {
	case 0:
		return model.OutcomeSurvived
	case 1:
		return model.OutcomeKilled
	default:
		return model.OutcomeError
	}
}

// provisionTimeout returns the per-step provisioning deadline.
func (r *Runner) provisionTimeout() time.Duration {
	return time.Duration(r.cfg.ProvisionTimeoutSeconds) * time.Second
}

// pythonPath returns the venv interpreter path inside the container.
// Container paths are always POSIX, hence path instead of filepath.
func (r *Runner) pythonPath() string {
	return path.Join(r.cfg.VenvDir, "bin", "python")
}

// pipPath returns the venv pip path inside the container.
func (r *Runner) pipPath() string {
	return path.Join(r.cfg.VenvDir, "bin", "pip")
}

// tail returns the last n bytes of s, trimmed to a line boundary where
// possible.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[len(s)-n:]
	if idx := strings.IndexByte(cut, '\n'); idx != -1 && idx+1 < len(cut) {
		cut = cut[idx+1:]
	}
	return cut
}
