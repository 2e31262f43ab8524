package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// csvHeader is the fixed column layout of results.csv. Durations are
// stored as integer milliseconds so the file stays trivially consumable
// by spreadsheet tools.
var csvHeader = []string{
	"file", "operator", "line", "col_start", "col_end",
	"before", "after", "outcome", "duration_ms",
}

// WriteResults writes the full result set, header included, to w.
func WriteResults(w io.Writer, results []model.MutantResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.File,
			r.Mutation.Operator.String(),
			strconv.Itoa(r.Mutation.LineNo),
			strconv.Itoa(r.Mutation.ColStart),
			strconv.Itoa(r.Mutation.ColEnd),
			r.Mutation.Before,
			r.Mutation.After,
			r.Outcome.String(),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadResults parses a results.csv stream back into MutantResults.
// The header row is validated so a stale or foreign CSV fails loudly
// instead of producing garbage summaries.
func ReadResults(r io.Reader) ([]model.MutantResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected CSV header: %v", header)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected CSV column %d: got %q, want %q", i, header[i], col)
		}
	}

	var results []model.MutantResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}

		result, err := parseRecord(record)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// parseRecord converts one CSV row into a MutantResult.
func parseRecord(record []string) (model.MutantResult, error) {
	op, err := model.ParseOperator(record[1])
	if err != nil {
		return model.MutantResult{}, err
	}

	lineNo, err := strconv.Atoi(record[2])
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("invalid line number %q: %w", record[2], err)
	}
	colStart, err := strconv.Atoi(record[3])
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("invalid col_start %q: %w", record[3], err)
	}
	colEnd, err := strconv.Atoi(record[4])
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("invalid col_end %q: %w", record[4], err)
	}

	outcome, err := model.ParseOutcome(record[7])
	if err != nil {
		return model.MutantResult{}, err
	}

	durationMS, err := strconv.ParseInt(record[8], 10, 64)
	if err != nil {
		return model.MutantResult{}, fmt.Errorf("invalid duration_ms %q: %w", record[8], err)
	}

	return model.MutantResult{
		File: record[0],
		Mutation: model.Mutation{
			Operator: op,
			LineNo:   lineNo,
			ColStart: colStart,
			ColEnd:   colEnd,
			Before:   record[5],
			After:    record[6],
		},
		Outcome:  outcome,
		Duration: time.Duration(durationMS) * time.Millisecond,
	}, nil
}
