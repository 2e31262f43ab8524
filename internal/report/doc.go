// Package report persists and summarizes mutation run results.
//
// Each run's per-mutant verdicts are stored as one CSV file
// (results.csv) inside the run directory. The CSV is the exchange
// format between `mutant run` (writer) and `mutant report` (reader);
// the summary — totals and mutation score, overall and per operator —
// is recomputed from it on demand rather than persisted.
package report
