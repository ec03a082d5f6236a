package schedule

import (
	"sort"
	"time"
)

// TimeRange is a half-open interval [Start, End). Ranges that merely touch
// (a.End == b.Start) do not overlap, so back-to-back lessons never conflict.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r TimeRange) IsZero() bool {
	return !r.End.After(r.Start)
}

func (r TimeRange) Duration() time.Duration {
	if r.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Overlaps reports whether two half-open ranges intersect:
// r.Start < o.End && r.End > o.Start. Empty ranges overlap nothing.
func (r TimeRange) Overlaps(o TimeRange) bool {
	if r.IsZero() || o.IsZero() {
		return false
	}
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Contains reports whether o lies entirely inside r.
func (r TimeRange) Contains(o TimeRange) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

// SortRanges orders ranges by start time, then end time.
func SortRanges(ranges []TimeRange) {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start.Equal(ranges[j].Start) {
			return ranges[i].End.Before(ranges[j].End)
		}
		return ranges[i].Start.Before(ranges[j].Start)
	})
}

// MergeRanges unions overlapping or touching ranges into a sorted,
// non-overlapping set. Empty ranges are dropped. The input is not modified.
func MergeRanges(ranges []TimeRange) []TimeRange {
	in := make([]TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if !r.IsZero() {
			in = append(in, r)
		}
	}
	if len(in) == 0 {
		return nil
	}

	SortRanges(in)

	merged := []TimeRange{in[0]}
	for _, r := range in[1:] {
		last := &merged[len(merged)-1]
		// Touching blocks collapse too: a gap of zero width is not a slot.
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	return merged
}

// SubtractRanges removes busy from window and returns the remaining gaps in
// order. busy must not be empty-filtered or pre-sorted by the caller; it is
// merged here first so overlapping busy blocks cannot fragment a gap.
func SubtractRanges(window TimeRange, busy []TimeRange) []TimeRange {
	if window.IsZero() {
		return nil
	}

	var gaps []TimeRange
	cursor := window.Start

	for _, b := range MergeRanges(busy) {
		if !b.Overlaps(window) {
			continue
		}
		if b.Start.After(cursor) {
			gaps = append(gaps, TimeRange{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if cursor.Before(window.End) {
		gaps = append(gaps, TimeRange{Start: cursor, End: window.End})
	}

	return gaps
}

// FilterMinDuration drops gaps shorter than min. A zero or negative min keeps
// everything.
func FilterMinDuration(ranges []TimeRange, min time.Duration) []TimeRange {
	if min <= 0 {
		return ranges
	}
	out := ranges[:0:0]
	for _, r := range ranges {
		if r.Duration() >= min {
			out = append(out, r)
		}
	}
	return out
}
