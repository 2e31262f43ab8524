package mutation

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change in
// unified diff output, matching `diff -u` defaults.
const contextLines = 3

// UnifiedDiff renders a unified diff between the original and mutated
// line slices with 3 lines of context and git-style headers:
//
//	--- a/<relpath>
//	+++ b/<relpath>
//	@@ -42,7 +42,7 @@
//
// Lines are expected to carry their terminators (SplitLines output);
// terminators are stripped in the rendered diff body. The two inputs
// differ by at most one contiguous replaced region in practice (Apply
// changes exactly one line), and the implementation exploits that: it
// trims the common prefix and suffix and emits a single hunk for
// whatever remains. Identical inputs produce an empty string.
func UnifiedDiff(original, mutated []string, relpath string) string {
	// Trim the common prefix.
	prefix := 0
	for prefix < len(original) && prefix < len(mutated) && original[prefix] == mutated[prefix] {
		prefix++
	}

	if prefix == len(original) && prefix == len(mutated) {
		return ""
	}

	// Trim the common suffix, without crossing the prefix.
	suffix := 0
	for suffix < len(original)-prefix && suffix < len(mutated)-prefix &&
		original[len(original)-1-suffix] == mutated[len(mutated)-1-suffix] {
		suffix++
	}

	// The changed region in each file, plus surrounding context.
	ctxStart := prefix - contextLines
	if ctxStart < 0 {
		ctxStart = 0
	}
	origEnd := len(original) - suffix
	mutEnd := len(mutated) - suffix

	origCtxEnd := origEnd + contextLines
	if origCtxEnd > len(original) {
		origCtxEnd = len(original)
	}
	mutCtxEnd := mutEnd + contextLines
	if mutCtxEnd > len(mutated) {
		mutCtxEnd = len(mutated)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", relpath)
	fmt.Fprintf(&b, "+++ b/%s\n", relpath)

	origCount := origCtxEnd - ctxStart
	mutCount := mutCtxEnd - ctxStart
	b.WriteString(hunkHeader(ctxStart+1, origCount, ctxStart+1, mutCount))
	b.WriteByte('\n')

	// Leading context.
	for _, line := range original[ctxStart:prefix] {
		writeDiffLine(&b, ' ', line)
	}
	// Removed lines.
	for _, line := range original[prefix:origEnd] {
		writeDiffLine(&b, '-', line)
	}
	// Added lines.
	for _, line := range mutated[prefix:mutEnd] {
		writeDiffLine(&b, '+', line)
	}
	// Trailing context.
	for _, line := range original[origEnd:origCtxEnd] {
		writeDiffLine(&b, ' ', line)
	}

	return b.String()
}

// hunkHeader formats a "@@ -start,count +start,count @@" header.
// A count of 1 omits the ",count" part, matching diff -u output.
func hunkHeader(origStart, origCount, mutStart, mutCount int) string {
	return fmt.Sprintf("@@ -%s +%s @@", hunkRange(origStart, origCount), hunkRange(mutStart, mutCount))
}

// hunkRange formats one side of a hunk header.
func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// writeDiffLine writes one diff body line with the given prefix marker,
// stripping the line terminator.
func writeDiffLine(b *strings.Builder, marker byte, line string) {
	b.WriteByte(marker)
	b.WriteString(strings.TrimRight(line, "\r\n"))
	b.WriteByte('\n')
}
