package mutation

import (
	"fmt"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// Apply applies a single mutation to the source lines and returns a new
// line slice with exactly one modification. The input slice is never
// modified.
//
// Apply verifies that the recorded Before text is still present at the
// recorded span. A mismatch means the candidate is stale (the file
// changed since the scan) and applying it would corrupt the source, so
// the edit is refused.
func Apply(lines []string, m model.Mutation) ([]string, error) {
	idx := m.LineNo - 1
	if idx < 0 || idx >= len(lines) {
		return nil, fmt.Errorf("mutation line %d out of range (file has %d lines)", m.LineNo, len(lines))
	}

	line := lines[idx]
	if m.ColStart < 0 || m.ColEnd > len(line) || m.ColStart > m.ColEnd {
		return nil, fmt.Errorf("mutation span [%d:%d) out of range on line %d", m.ColStart, m.ColEnd, m.LineNo)
	}
	if line[m.ColStart:m.ColEnd] != m.Before {
		return nil, fmt.Errorf("mutation %q not found at line %d span [%d:%d): file changed since scan",
			m.Before, m.LineNo, m.ColStart, m.ColEnd)
	}

	mutated := make([]string, len(lines))
	copy(mutated, lines)
	mutated[idx] = line[:m.ColStart] + m.After + line[m.ColEnd:]

	return mutated, nil
}
