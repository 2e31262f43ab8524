package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/mutant/internal/model"
	"github.com/mmr-tortoise/mutant/internal/mutation"
)

// Candidate pairs a mutation with the workspace-relative file it
// applies to.
type Candidate struct {
	// File is the workspace-relative path (slash-separated).
	File string `json:"file"`

	// Mutation is the candidate edit.
	Mutation model.Mutation `json:"mutation"`
}

// Describe returns a short human-readable summary, e.g.
// `sorting/quick_sort.py ROR L10: " == " → " != "`.
func (c Candidate) Describe() string {
	return fmt.Sprintf("%s %s", c.File, c.Mutation.Describe())
}

// CollectCandidates generates mutation candidates for the given
// workspace-relative target files, in target order. The per-file
// candidate order is the engine's deterministic line-major order, so
// the full list is reproducible for a fixed target list.
func CollectCandidates(workspacePath string, targets []string) ([]Candidate, error) {
	var candidates []Candidate

	for _, target := range targets {
		full := filepath.Join(workspacePath, filepath.FromSlash(target))
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("reading target %s: %w", target, err)
		}

		lines := mutation.SplitLines(string(data))
		for _, m := range mutation.Generate(lines) {
			candidates = append(candidates, Candidate{File: target, Mutation: m})
		}
	}

	return candidates, nil
}

// SampleCandidates selects up to sample candidates with a seeded
// pseudo-random permutation. The selection is returned in the original
// candidate order so execution stays file- and line-major, which makes
// logs easier to follow. sample <= 0 or >= len means all candidates.
func SampleCandidates(candidates []Candidate, sample int, seed int64) []Candidate {
	if sample <= 0 || sample >= len(candidates) {
		return candidates
	}

	perm := newRand(seed).Perm(len(candidates))
	picked := make([]bool, len(candidates))
	for _, idx := range perm[:sample] {
		picked[idx] = true
	}

	selected := make([]Candidate, 0, sample)
	for i, c := range candidates {
		if picked[i] {
			selected = append(selected, c)
		}
	}
	return selected
}
