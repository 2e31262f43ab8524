package mutation

import (
	"strings"

	"github.com/mmr-tortoise/mutant/internal/model"
)

// replacement is a single before → after rewrite rule belonging to an
// operator table. Tables are ordered slices (not maps) so that candidate
// generation scans rules in a fixed order and produces deterministic
// output for a given input file.
type replacement struct {
	before string
	after  string
}

// Operator tables. The surrounding spaces in the patterns restrict
// matches to operator usage (e.g. " < " does not match "<=" because the
// longer pattern " <= " is handled by its own rule and the space
// requirement keeps the two from overlapping at the same span).
var (
	rorTable = []replacement{
		{" == ", " != "},
		{" != ", " == "},
		{" <= ", " < "},
		{" < ", " <= "},
		{" >= ", " > "},
		{" > ", " >= "},
	}

	lcrTable = []replacement{
		{" and ", " or "},
		{" or ", " and "},
	}

	nmcTable = []replacement{
		{" is None", " is not None"},
		{" is not None", " is None"},
	}

	aorTable = []replacement{
		{" - 1", " + 1"},
		{" + 1", " - 1"},
	}
)

// operatorTables pairs each operator with its rewrite table, in the
// canonical scan order (model.AllOperators minus CRP, which uses a
// token scan instead of fixed substrings).
var operatorTables = []struct {
	op    model.Operator
	table []replacement
}{
	{model.OpROR, rorTable},
	{model.OpLCR, lcrTable},
	{model.OpNMC, nmcTable},
	{model.OpAOR, aorTable},
}

// SplitLines splits source text into lines, keeping line terminators
// attached (like Python's splitlines(keepends=True)). Keeping the
// terminators lets Join reproduce the file byte-for-byte, which matters
// because the analysis loop restores originals after each mutant run.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		// Final line without a trailing newline.
		lines = append(lines, text[start:])
	}
	return lines
}

// Join reassembles lines produced by SplitLines into file content.
func Join(lines []string) string {
	return strings.Join(lines, "")
}

// Generate scans the source lines and returns all mutation candidates.
// It does NOT apply any mutation.
//
// Candidates are emitted line-major: for each line, the substring
// operators (ROR, LCR, NMC, AOR) in table order, then the CRP constant
// scan. Duplicate candidates (same operator, span, and edit) are removed
// preserving first-seen order, so the result is deterministic and a
// seeded sample over it is reproducible.
func Generate(lines []string) []model.Mutation {
	var muts []model.Mutation

	for i, line := range lines {
		lineNo := i + 1

		for _, ot := range operatorTables {
			for _, r := range ot.table {
				for _, span := range findAllSubstrings(line, r.before) {
					muts = append(muts, model.Mutation{
						Operator: ot.op,
						LineNo:   lineNo,
						ColStart: span[0],
						ColEnd:   span[1],
						Before:   r.before,
						After:    r.after,
					})
				}
			}
		}

		muts = append(muts, scanConstants(line, lineNo)...)
	}

	return dedupe(muts)
}

// findAllSubstrings returns the [start, end) spans of every occurrence of
// before in line. Occurrences may overlap (the search resumes one byte
// after each match start), matching the original candidate scan.
func findAllSubstrings(line, before string) [][2]int {
	var spans [][2]int
	start := 0
	for {
		idx := strings.Index(line[start:], before)
		if idx == -1 {
			return spans
		}
		s := start + idx
		spans = append(spans, [2]int{s, s + len(before)})
		start = s + 1
	}
}

// crpReplacement maps a matched integer token to its CRP replacement.
// Tokens other than 0, 1, and -1 are never matched by scanConstants.
func crpReplacement(tok string) (string, bool) {
	switch tok {
	case "0":
		return "1", true
	case "1":
		return "0", true
	case "-1":
		return "0", true
	default:
		return "", false
	}
}

// scanConstants finds standalone 0, 1, and -1 integer literals on the
// line and emits CRP candidates for them.
//
// A token is standalone when the byte before and the byte after are not
// word characters or dots, so "x0", "10", "1.5" and "v2.1" produce no
// candidates. RE2 has no lookbehind, so the boundary checks are explicit
// byte tests rather than regex assertions. The scan is non-overlapping
// and resumes one byte forward after a rejected match, so in "a-1" the
// "-1" token is rejected (preceded by a word byte) but the bare "1" is
// still found.
func scanConstants(line string, lineNo int) []model.Mutation {
	var muts []model.Mutation

	pos := 0
	for pos < len(line) {
		s, e, ok := matchConstantAt(line, pos)
		if !ok {
			pos++
			continue
		}
		if boundedAt(line, s, e) {
			tok := line[s:e]
			rep, _ := crpReplacement(tok)
			muts = append(muts, model.Mutation{
				Operator: model.OpCRP,
				LineNo:   lineNo,
				ColStart: s,
				ColEnd:   e,
				Before:   tok,
				After:    rep,
			})
			pos = e
			continue
		}
		pos++
	}

	return muts
}

// matchConstantAt attempts to match "-1", "0", or "1" starting exactly at
// pos. The longer "-1" form is preferred when it fits.
func matchConstantAt(line string, pos int) (start, end int, ok bool) {
	if line[pos] == '-' && pos+1 < len(line) && line[pos+1] == '1' {
		return pos, pos + 2, true
	}
	if line[pos] == '0' || line[pos] == '1' {
		return pos, pos + 1, true
	}
	return 0, 0, false
}

// boundedAt reports whether the token span [s, e) is not adjacent to a
// word character or dot on either side.
func boundedAt(line string, s, e int) bool {
	if s > 0 && isWordOrDot(line[s-1]) {
		return false
	}
	if e < len(line) && isWordOrDot(line[e]) {
		return false
	}
	return true
}

// isWordOrDot reports whether b is a word byte ([A-Za-z0-9_]) or a dot.
func isWordOrDot(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.':
		return true
	default:
		return false
	}
}

// dedupe removes duplicate candidates, preserving first-seen order.
func dedupe(muts []model.Mutation) []model.Mutation {
	seen := make(map[string]struct{}, len(muts))
	out := muts[:0]
	for _, m := range muts {
		key := m.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
