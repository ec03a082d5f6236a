package schedule

import (
	"testing"
	"time"
)

func at(t *testing.T, hm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hm)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", hm, err)
	}
	return time.Date(2026, 3, 2, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func rng(t *testing.T, start, end string) TimeRange {
	t.Helper()
	return TimeRange{Start: at(t, start), End: at(t, end)}
}

func TestOverlaps_Symmetry(t *testing.T) {
	cases := []struct {
		a, b TimeRange
		want bool
	}{
		{rng(t, "08:00", "09:00"), rng(t, "08:30", "09:30"), true},
		{rng(t, "08:00", "09:00"), rng(t, "09:00", "10:00"), false}, // touching
		{rng(t, "08:00", "12:00"), rng(t, "09:00", "09:45"), true},
		{rng(t, "08:00", "09:00"), rng(t, "10:00", "11:00"), false},
	}

	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Fatalf("symmetry broken for %v / %v", tc.a, tc.b)
		}
	}
}

func TestOverlaps_Self(t *testing.T) {
	r := rng(t, "08:00", "09:00")
	if !r.Overlaps(r) {
		t.Fatal("non-empty range must overlap itself")
	}

	empty := rng(t, "08:00", "08:00")
	if empty.Overlaps(empty) {
		t.Fatal("empty range must not overlap anything")
	}
}

func TestMergeRanges_OverlappingBlocks(t *testing.T) {
	// Two overlapping external blocks must collapse into one, so subtraction
	// cannot produce a phantom gap between them.
	busy := []TimeRange{
		rng(t, "08:20", "09:00"),
		rng(t, "08:00", "08:30"),
	}

	merged := MergeRanges(busy)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged block, got %d: %v", len(merged), merged)
	}
	if !merged[0].Start.Equal(at(t, "08:00")) || !merged[0].End.Equal(at(t, "09:00")) {
		t.Fatalf("expected [08:00,09:00), got %v", merged[0])
	}
}

func TestMergeRanges_DropsEmptyAndKeepsDisjoint(t *testing.T) {
	busy := []TimeRange{
		rng(t, "10:00", "10:00"),
		rng(t, "11:00", "12:00"),
		rng(t, "08:00", "09:00"),
	}

	merged := MergeRanges(busy)
	if len(merged) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %v", len(merged), merged)
	}
	if !merged[0].Start.Equal(at(t, "08:00")) {
		t.Fatalf("expected sorted output, got %v", merged)
	}
}

func TestSubtractRanges_MiddleBusyBlock(t *testing.T) {
	window := rng(t, "08:00", "12:00")
	busy := []TimeRange{rng(t, "09:00", "09:45")}

	gaps := SubtractRanges(window, busy)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d: %v", len(gaps), gaps)
	}
	if !gaps[0].End.Equal(at(t, "09:00")) || !gaps[1].Start.Equal(at(t, "09:45")) {
		t.Fatalf("unexpected gaps: %v", gaps)
	}
}

func TestSubtractRanges_FullyCovered(t *testing.T) {
	window := rng(t, "08:00", "10:00")
	busy := []TimeRange{rng(t, "07:00", "11:00")}

	if gaps := SubtractRanges(window, busy); len(gaps) != 0 {
		t.Fatalf("expected no gaps, got %v", gaps)
	}
}

func TestSubtractRanges_NoOverlapInvariant(t *testing.T) {
	window := rng(t, "08:00", "18:00")
	busy := []TimeRange{
		rng(t, "08:30", "09:15"),
		rng(t, "09:00", "10:00"),
		rng(t, "12:00", "13:00"),
		rng(t, "17:45", "18:30"),
	}

	for _, gap := range SubtractRanges(window, busy) {
		for _, b := range busy {
			if gap.Overlaps(b) {
				t.Fatalf("gap %v overlaps busy %v", gap, b)
			}
		}
	}
}

func TestSubtractRanges_ConservationLaw(t *testing.T) {
	window := rng(t, "08:00", "18:00")
	busy := []TimeRange{
		rng(t, "08:30", "09:15"),
		rng(t, "09:00", "10:00"), // overlaps previous; merged busy is 08:30-10:00
		rng(t, "12:00", "13:00"),
	}

	var gapTotal time.Duration
	for _, gap := range SubtractRanges(window, busy) {
		gapTotal += gap.Duration()
	}

	var busyWithin time.Duration
	for _, b := range MergeRanges(busy) {
		clipped := b
		if clipped.Start.Before(window.Start) {
			clipped.Start = window.Start
		}
		if clipped.End.After(window.End) {
			clipped.End = window.End
		}
		busyWithin += clipped.Duration()
	}

	if gapTotal+busyWithin != window.Duration() {
		t.Fatalf("conservation broken: gaps %v + busy %v != window %v",
			gapTotal, busyWithin, window.Duration())
	}
}

func TestFilterMinDuration(t *testing.T) {
	gaps := []TimeRange{
		rng(t, "08:00", "08:30"),
		rng(t, "09:00", "10:00"),
	}

	kept := FilterMinDuration(gaps, 45*time.Minute)
	if len(kept) != 1 {
		t.Fatalf("expected 1 slot, got %d: %v", len(kept), kept)
	}
	if !kept[0].Start.Equal(at(t, "09:00")) {
		t.Fatalf("wrong slot kept: %v", kept[0])
	}
}
