package schedule

import (
	"context"
	"time"

	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// ======================================================
// WORKING-HOURS RESOLVER
// ======================================================

// Resolver turns stored working-hours rows into concrete time windows on a
// calendar day.
type Resolver struct {
	repo coresched.Repository
}

func NewResolver(repo coresched.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ActiveWindows returns the instructor's working windows on the given day,
// sorted by start and with malformed rows (start >= end) dropped. An empty
// result means "not working that day" and is not an error.
func (r *Resolver) ActiveWindows(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	day time.Time,
) ([]coresched.TimeRange, error) {

	weekday := int(day.Weekday())

	rows, err := r.repo.ListActiveWorkingHours(ctx, tenantID, staffID, weekday)
	if err != nil {
		return nil, err
	}

	loc := day.Location()
	windows := make([]coresched.TimeRange, 0, len(rows))

	for _, row := range rows {
		start, okStart := parseHMOn(day, row.StartTime, loc)
		end, okEnd := parseHMOn(day, row.EndTime, loc)
		if !okStart || !okEnd || !end.After(start) {
			continue
		}
		windows = append(windows, coresched.TimeRange{Start: start, End: end})
	}

	coresched.SortRanges(windows)
	return windows, nil
}

func parseHMOn(day time.Time, hm string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	), true
}
