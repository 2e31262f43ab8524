// Package mutation implements the mutation engine: candidate generation,
// mutation application, and unified diff rendering for Python source files.
//
// Five mutation operators are supported:
//
//	ROR (Relational Operator Replacement): == ↔ !=, < ↔ <=, > ↔ >=
//	LCR (Logical Connector Replacement):   and ↔ or
//	NMC (None-Check Mutation):             is None ↔ is not None
//	AOR (Arithmetic Operator Replacement): - 1 ↔ + 1
//	CRP (Constant Replacement):            0 ↔ 1, -1 → 0
//
// Generation is purely textual and line-oriented: every occurrence of an
// operator pattern on every line yields one candidate. This deliberately
// over-approximates (a pattern inside a string literal is still a
// candidate); mutants that fail to import are classified as errors by the
// runner rather than filtered here.
//
// Generation never modifies the source. Apply performs a single verified
// edit and returns a new line slice, so the caller can restore the
// original bytes after the test run.
package mutation
