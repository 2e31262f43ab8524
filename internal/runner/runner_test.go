package runner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/workspace"
)

// TestClassifyExit covers the pytest exit code table: 0 passes, 1 means
// test failures, everything else (interrupted, internal error, usage
// error, nothing collected) is an error outcome.
func TestClassifyExit(t *testing.T) {
	assert.Equal(t, model.OutcomeSurvived, ClassifyExit(0))
	assert.Equal(t, model.OutcomeKilled, ClassifyExit(1))
	assert.Equal(t, model.OutcomeError, ClassifyExit(2))
	assert.Equal(t, model.OutcomeError, ClassifyExit(3))
	assert.Equal(t, model.OutcomeError, ClassifyExit(4))
	assert.Equal(t, model.OutcomeError, ClassifyExit(5))
	assert.Equal(t, model.OutcomeError, ClassifyExit(137))
}

// TestVenvPaths verifies the container-side interpreter and pip paths
// are POSIX joins of the configured venv directory.
func TestVenvPaths(t *testing.T) {
	cfg := workspace.DefaultConfig()
	r := New(nil, "cid", cfg)

	assert.Equal(t, ".venv/bin/python", r.pythonPath())
	assert.Equal(t, ".venv/bin/pip", r.pipPath())

	cfg.VenvDir = "env"
	assert.Equal(t, "env/bin/python", r.pythonPath())
}

// TestProvisionTimeout verifies the per-step provisioning deadline
// follows the config, so a wedged pip install is bounded rather than
// hanging the command forever.
func TestProvisionTimeout(t *testing.T) {
	cfg := workspace.DefaultConfig()
	r := New(nil, "cid", cfg)

	assert.Equal(t, 900*time.Second, r.provisionTimeout())

	cfg.ProvisionTimeoutSeconds = 120
	assert.Equal(t, 2*time.Minute, r.provisionTimeout())
}

// TestTail verifies output trimming: short output passes through, long
// output keeps the trailing bytes and drops the partial first line.
func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 100))

	long := strings.Repeat("line of output\n", 1000)
	trimmed := tail(long, 100)
	assert.LessOrEqual(t, len(trimmed), 100)
	assert.True(t, strings.HasPrefix(trimmed, "line of output"), "partial leading line is dropped")
}
