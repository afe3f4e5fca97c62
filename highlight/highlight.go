package highlight

import (
	"sort"
	"strings"

	"github.com/jsphweid/intervaldex/model"
	"github.com/pkg/errors"
)

const (
	OpenTag  = "<em>"
	CloseTag = "</em>"
)

// Range is an inclusive span of 0-based measure positions.
type Range struct {
	Start int
	End   int
}

// ExtractSegments returns the literal text between each OpenTag and the
// following CloseTag. Repeated segments are returned once, in order of first
// appearance.
func ExtractSegments(text string) []string {
	var res []string
	seen := make(map[string]bool)
	for {
		start := strings.Index(text, OpenTag)
		if start == -1 {
			break
		}
		text = text[start+len(OpenTag):]
		end := strings.Index(text, CloseTag)
		if end == -1 {
			break
		}
		segment := text[:end]
		text = text[end+len(CloseTag):]
		if !seen[segment] {
			seen[segment] = true
			res = append(res, segment)
		}
	}
	return res
}

// ExtractPatterns reads each distinct highlighted segment as an interval
// sequence. Blank segments are ignored.
func ExtractPatterns(text string) ([][]int, error) {
	var res [][]int
	seen := make(map[string]bool)
	for _, segment := range ExtractSegments(text) {
		pattern, err := model.ParseInts(segment)
		if err != nil {
			return nil, errors.Wrapf(err, "highlight %q is not an interval sequence", segment)
		}
		if len(pattern) == 0 {
			continue
		}
		// "1  2" and "1 2" are the same pattern
		key := model.FormatInts(pattern)
		if seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, pattern)
	}
	return res, nil
}

// FindPositions returns every index at which pattern occurs in intervals. The
// scan runs over the space-separated text form, so a match has to start and
// end on a token boundary: "3 4" does not match inside "13 4" or "3 45".
func FindPositions(intervals []int, pattern []int) []int {
	if len(pattern) == 0 {
		return nil
	}
	text := model.FormatInts(intervals)
	needle := model.FormatInts(pattern)

	var positions []int
	for from := 0; from <= len(text)-len(needle); {
		idx := strings.Index(text[from:], needle)
		if idx == -1 {
			break
		}
		idx += from
		from = idx + 1

		if idx != 0 && text[idx-1] != ' ' {
			continue
		}
		if end := idx + len(needle); end != len(text) && text[end] != ' ' {
			continue
		}
		positions = append(positions, strings.Count(text[:idx], " "))
	}
	return positions
}

// Merge sorts ranges by start and joins any that overlap or are separated by
// at most one measure.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var merged []Range
	current := sorted[0]
	for _, next := range sorted[1:] {
		if current.End >= next.Start-1 {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// MeasureRanges maps every occurrence of every pattern to the measures it
// spans and merges the result. A match at i covers measureMap[i] through
// measureMap[i+len(pattern)], the measure of the note that ends the last
// interval. No matches give an empty result.
func MeasureRanges(intervals []int, measureMap []int, patterns [][]int) ([]Range, error) {
	var ranges []Range
	for _, pattern := range patterns {
		for _, i := range FindPositions(intervals, pattern) {
			last := i + len(pattern)
			if last >= len(measureMap) {
				return nil, errors.Errorf("match at %d of length %d runs past a measure map of %d entries", i, len(pattern), len(measureMap))
			}
			ranges = append(ranges, Range{Start: measureMap[i], End: measureMap[last]})
		}
	}
	return Merge(ranges), nil
}

// Emphasize renders intervals as text with every match of the given length
// wrapped in OpenTag/CloseTag. Overlapping matches share one tag pair.
func Emphasize(intervals []int, positions []int, length int) string {
	if length <= 0 || len(positions) == 0 {
		return model.FormatInts(intervals)
	}

	spans := make([]Range, 0, len(positions))
	for _, p := range positions {
		spans = append(spans, Range{Start: p, End: p + length - 1})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var joined []Range
	for _, s := range spans {
		if n := len(joined); n > 0 && joined[n-1].End >= s.Start {
			if s.End > joined[n-1].End {
				joined[n-1].End = s.End
			}
			continue
		}
		joined = append(joined, s)
	}

	var b strings.Builder
	span := 0
	for i, v := range intervals {
		if i > 0 {
			b.WriteByte(' ')
		}
		open := span < len(joined) && i == joined[span].Start
		if open {
			b.WriteString(OpenTag)
		}
		b.WriteString(model.FormatInts([]int{v}))
		if span < len(joined) && i == joined[span].End {
			b.WriteString(CloseTag)
			span++
		}
	}
	return b.String()
}
