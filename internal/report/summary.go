package report

import (
	"github.com/mmr-tortoise/mutant/internal/model"
)

// Summary aggregates a result set into totals and a mutation score.
type Summary struct {
	// Total is the number of executed mutants, errors included.
	Total int `json:"total"`

	// Killed, Survived, Timeout, and Errors count outcomes.
	Killed   int `json:"killed"`
	Survived int `json:"survived"`
	Timeout  int `json:"timeout"`
	Errors   int `json:"errors"`

	// Score is the mutation-adequacy score:
	//
	//	(killed + timeout) / (killed + timeout + survived)
	//
	// Errors are excluded from the denominator because the suite never
	// judged those mutants. Zero when no mutant was scored.
	Score float64 `json:"score"`

	// PerOperator breaks the totals down by operator, in canonical
	// operator order. Operators with no executed mutants are omitted.
	PerOperator []OperatorSummary `json:"perOperator,omitempty"`
}

// OperatorSummary is the per-operator slice of a Summary.
type OperatorSummary struct {
	Operator model.Operator `json:"operator"`
	Total    int            `json:"total"`
	Killed   int            `json:"killed"`
	Survived int            `json:"survived"`
	Timeout  int            `json:"timeout"`
	Errors   int            `json:"errors"`
	Score    float64        `json:"score"`
}

// Summarize computes the Summary for a result set.
func Summarize(results []model.MutantResult) *Summary {
	s := &Summary{}
	perOp := make(map[model.Operator]*OperatorSummary)

	for _, r := range results {
		s.Total++
		os, ok := perOp[r.Mutation.Operator]
		if !ok {
			os = &OperatorSummary{Operator: r.Mutation.Operator}
			perOp[r.Mutation.Operator] = os
		}
		os.Total++

		switch r.Outcome {
		case model.OutcomeKilled:
			s.Killed++
			os.Killed++
		case model.OutcomeSurvived:
			s.Survived++
			os.Survived++
		case model.OutcomeTimeout:
			s.Timeout++
			os.Timeout++
		default:
			s.Errors++
			os.Errors++
		}
	}

	s.Score = score(s.Killed, s.Timeout, s.Survived)

	// Emit per-operator rows in canonical order for stable output.
	for _, op := range model.AllOperators() {
		os, ok := perOp[op]
		if !ok {
			continue
		}
		os.Score = score(os.Killed, os.Timeout, os.Survived)
		s.PerOperator = append(s.PerOperator, *os)
	}

	return s
}

// score computes (killed + timeout) / (killed + timeout + survived),
// returning 0 when nothing was scored.
func score(killed, timeout, survived int) float64 {
	scored := killed + timeout + survived
	if scored == 0 {
		return 0
	}
	return float64(killed+timeout) / float64(scored)
}
