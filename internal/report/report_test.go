package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// result builds a MutantResult for summary and CSV tests.
func result(file string, op model.Operator, line int, outcome model.Outcome) model.MutantResult {
	return model.MutantResult{
		File: file,
		Mutation: model.Mutation{
			Operator: op,
			LineNo:   line,
			ColStart: 2,
			ColEnd:   6,
			Before:   " == ",
			After:    " != ",
		},
		Outcome:  outcome,
		Duration: 1500 * time.Millisecond,
	}
}

// TestWriteReadResults_RoundTrip verifies the CSV round-trips the full
// result set, including commas and quotes in mutation text.
func TestWriteReadResults_RoundTrip(t *testing.T) {
	results := []model.MutantResult{
		result("sorting/quick_sort.py", model.OpROR, 10, model.OutcomeKilled),
		result("graphs/dijkstra.py", model.OpCRP, 42, model.OutcomeSurvived),
		{
			File: "strings/parser.py",
			Mutation: model.Mutation{
				Operator: model.OpLCR,
				LineNo:   7,
				ColStart: 3,
				ColEnd:   8,
				Before:   ` and `,
				After:    ` or `,
			},
			Outcome:  model.OutcomeTimeout,
			Duration: 60 * time.Second,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, results))

	parsed, err := ReadResults(&buf)
	require.NoError(t, err)
	assert.Equal(t, results, parsed)
}

// TestWriteResults_Header verifies the column layout stays fixed — it is
// the exchange format between run and report.
func TestWriteResults_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, nil))

	assert.Equal(t,
		"file,operator,line,col_start,col_end,before,after,outcome,duration_ms",
		strings.TrimSpace(buf.String()))
}

// TestReadResults_RejectsForeignCSV verifies a CSV with a different
// header is refused.
func TestReadResults_RejectsForeignCSV(t *testing.T) {
	_, err := ReadResults(strings.NewReader("name,value\na,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected CSV header")
}

// TestReadResults_RejectsBadOutcome verifies unknown outcome values are
// refused rather than silently skewing the summary.
func TestReadResults_RejectsBadOutcome(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, []model.MutantResult{
		result("f.py", model.OpROR, 1, model.OutcomeKilled),
	}))
	broken := strings.Replace(buf.String(), "killed", "maimed", 1)

	_, err := ReadResults(strings.NewReader(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid outcome")
}

// TestSummarize_Score verifies the scoring rule: timeouts count as
// detections, errors leave the denominator.
func TestSummarize_Score(t *testing.T) {
	results := []model.MutantResult{
		result("a.py", model.OpROR, 1, model.OutcomeKilled),
		result("a.py", model.OpROR, 2, model.OutcomeKilled),
		result("a.py", model.OpLCR, 3, model.OutcomeTimeout),
		result("a.py", model.OpCRP, 4, model.OutcomeSurvived),
		result("a.py", model.OpCRP, 5, model.OutcomeError),
	}

	s := Summarize(results)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Killed)
	assert.Equal(t, 1, s.Timeout)
	assert.Equal(t, 1, s.Survived)
	assert.Equal(t, 1, s.Errors)
	// (2 killed + 1 timeout) / (2 + 1 + 1 survived) = 0.75
	assert.InDelta(t, 0.75, s.Score, 1e-9)
}

// TestSummarize_PerOperator verifies per-operator rows appear in
// canonical operator order with their own scores.
func TestSummarize_PerOperator(t *testing.T) {
	results := []model.MutantResult{
		result("a.py", model.OpCRP, 1, model.OutcomeSurvived),
		result("a.py", model.OpROR, 2, model.OutcomeKilled),
		result("a.py", model.OpROR, 3, model.OutcomeSurvived),
	}

	s := Summarize(results)
	require.Len(t, s.PerOperator, 2)

	assert.Equal(t, model.OpROR, s.PerOperator[0].Operator, "ROR precedes CRP in canonical order")
	assert.InDelta(t, 0.5, s.PerOperator[0].Score, 1e-9)
	assert.Equal(t, model.OpCRP, s.PerOperator[1].Operator)
	assert.InDelta(t, 0.0, s.PerOperator[1].Score, 1e-9)
}

// TestSummarize_Empty verifies an empty result set scores zero without
// dividing by zero.
func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.Score)
	assert.Empty(t, s.PerOperator)
}
