package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// writeTarget writes a workspace-relative file and returns the
// workspace root.
func writeTarget(t *testing.T, files map[string]string) string {
	t.Helper()
	ws := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(ws, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return ws
}

// TestCollectCandidates verifies candidates come out grouped by target
// in target order, with file paths kept workspace-relative.
func TestCollectCandidates(t *testing.T) {
	ws := writeTarget(t, map[string]string{
		"sorting/quick_sort.py": "if a == b:\n    return x - 1\n",
		"graphs/bfs.py":         "while q and not seen:\n    pass\n",
	})

	candidates, err := CollectCandidates(ws, []string{"graphs/bfs.py", "sorting/quick_sort.py"})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	// All bfs.py candidates precede all quick_sort.py candidates.
	var files []string
	for _, c := range candidates {
		if len(files) == 0 || files[len(files)-1] != c.File {
			files = append(files, c.File)
		}
	}
	assert.Equal(t, []string{"graphs/bfs.py", "sorting/quick_sort.py"}, files)

	ops := make(map[model.Operator]bool)
	for _, c := range candidates {
		ops[c.Mutation.Operator] = true
	}
	assert.True(t, ops[model.OpROR], "== in quick_sort.py")
	assert.True(t, ops[model.OpLCR], "and in bfs.py")
	assert.True(t, ops[model.OpAOR], "- 1 in quick_sort.py")
}

// TestCollectCandidates_MissingTarget verifies a missing file fails the
// whole collection instead of being skipped silently.
func TestCollectCandidates_MissingTarget(t *testing.T) {
	ws := t.TempDir()

	_, err := CollectCandidates(ws, []string{"gone.py"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.py")
}

// TestCandidate_Describe spot-checks the one-line summary format.
func TestCandidate_Describe(t *testing.T) {
	c := Candidate{
		File: "sorting/quick_sort.py",
		Mutation: model.Mutation{
			Operator: model.OpROR,
			LineNo:   10,
			Before:   " == ",
			After:    " != ",
		},
	}
	assert.Contains(t, c.Describe(), "sorting/quick_sort.py")
	assert.Contains(t, c.Describe(), "ROR")
	assert.Contains(t, c.Describe(), "L10")
}

// makeCandidates builds n distinct candidates for sampling tests.
func makeCandidates(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			File:     "f.py",
			Mutation: model.Mutation{Operator: model.OpROR, LineNo: i + 1, Before: " == ", After: " != "},
		}
	}
	return out
}

// TestSampleCandidates_All verifies sample <= 0 and sample >= len both
// return the full list untouched.
func TestSampleCandidates_All(t *testing.T) {
	candidates := makeCandidates(5)

	assert.Equal(t, candidates, SampleCandidates(candidates, 0, 1))
	assert.Equal(t, candidates, SampleCandidates(candidates, 5, 1))
	assert.Equal(t, candidates, SampleCandidates(candidates, 100, 1))
}

// TestSampleCandidates_Deterministic verifies the same seed always
// selects the same subset.
func TestSampleCandidates_Deterministic(t *testing.T) {
	candidates := makeCandidates(50)

	a := SampleCandidates(candidates, 10, 42)
	b := SampleCandidates(candidates, 10, 42)
	require.Len(t, a, 10)
	assert.Equal(t, a, b)

	c := SampleCandidates(candidates, 10, 43)
	require.Len(t, c, 10)
	assert.NotEqual(t, a, c, "different seeds should diverge on 50 choose 10")
}

// TestSampleCandidates_KeepsOrder verifies the selection preserves the
// original line-major candidate order.
func TestSampleCandidates_KeepsOrder(t *testing.T) {
	candidates := makeCandidates(30)

	selected := SampleCandidates(candidates, 12, 7)
	require.Len(t, selected, 12)

	prev := 0
	for _, c := range selected {
		assert.Greater(t, c.Mutation.LineNo, prev)
		prev = c.Mutation.LineNo
	}
}
