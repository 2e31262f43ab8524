package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/report"
)

// TestFormatAge verifies the single-unit age rendering across the unit
// boundaries.
func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		created  time.Time
		expected string
	}{
		{"zero time", time.Time{}, "-"},
		{"seconds", now.Add(-45 * time.Second), "45s"},
		{"minutes", now.Add(-12 * time.Minute), "12m"},
		{"hours", now.Add(-3 * time.Hour), "3h"},
		{"days", now.Add(-5 * 24 * time.Hour), "5d"},
		{"clock skew", now.Add(30 * time.Second), "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAge(tt.created, now))
		})
	}
}

// TestRenderSummary verifies the score table layout: an overall row
// first, then one row per operator, with percentages.
func TestRenderSummary(t *testing.T) {
	s := &report.Summary{
		Total:    10,
		Killed:   6,
		Survived: 2,
		Timeout:  1,
		Errors:   1,
		Score:    7.0 / 9.0,
		PerOperator: []report.OperatorSummary{
			{Operator: model.OpROR, Total: 6, Killed: 4, Survived: 2, Score: 4.0 / 6.0},
			{Operator: model.OpCRP, Total: 4, Killed: 2, Timeout: 1, Errors: 1, Score: 1.0},
		},
	}

	var buf bytes.Buffer
	renderSummary(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "overall")
	assert.Contains(t, out, "77.8%")
	assert.Contains(t, out, "ROR")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "CRP")
	assert.Contains(t, out, "100.0%")
}
