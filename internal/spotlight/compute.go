package spotlight

import "sort"

// Range is a closed interval of 0-based line indices. Every line in
// [Start, End] inclusive receives reduced emphasis.
type Range struct {
	Start int
	End   int
}

// Len returns the number of lines the range covers.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Contains reports whether the line falls inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// ComputeDimmedRanges returns the maximal set of disjoint closed intervals
// covering [0, totalLines-1] minus the cursor lines, ordered ascending by
// start.
//
// cursorLines must be sorted ascending and free of duplicates; use
// NormalizeCarets for raw caret input. Adjacent cursor lines merge with no
// empty interval emitted between them.
func ComputeDimmedRanges(cursorLines []int, totalLines int) []Range {
	if totalLines <= 0 {
		return nil
	}

	ranges := make([]Range, 0, len(cursorLines)+1)
	nextStart := 0
	for _, c := range cursorLines {
		if c >= totalLines {
			break
		}
		if c > nextStart {
			ranges = append(ranges, Range{Start: nextStart, End: c - 1})
		}
		if c+1 > nextStart {
			nextStart = c + 1
		}
	}
	if nextStart < totalLines {
		ranges = append(ranges, Range{Start: nextStart, End: totalLines - 1})
	}

	return ranges
}

// NormalizeCarets collapses raw caret lines into the sorted unique cursor
// set ComputeDimmedRanges expects. Negative lines are dropped.
func NormalizeCarets(caretLines []int) []int {
	if len(caretLines) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(caretLines))
	out := make([]int, 0, len(caretLines))
	for _, line := range caretLines {
		if line < 0 {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}

	sort.Ints(out)
	return out
}

// EqualRanges reports whether two range sequences are identical.
func EqualRanges(a, b []Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
