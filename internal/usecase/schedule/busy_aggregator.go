package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// ======================================================
// BUSY-TIME AGGREGATOR
// ======================================================

// CollectOptions controls one aggregation run.
type CollectOptions struct {
	// ExcludeAppointmentID omits one appointment from the busy set, so an
	// edit-in-progress does not conflict with itself.
	ExcludeAppointmentID *uint

	// Degraded lets a source failure pass as "no data from this source"
	// (logged as a warning). Off by default: a failed read would otherwise
	// make an instructor look free when they are not. Only callers that can
	// tolerate stale output (the recalc worker) opt in; the synchronous
	// conflict path never does.
	Degraded bool
}

type BusyAggregator struct {
	repo coresched.Repository
	log  *zap.Logger
}

func NewBusyAggregator(repo coresched.Repository, log *zap.Logger) *BusyAggregator {
	return &BusyAggregator{
		repo: repo,
		log:  log.Named("busy_aggregator"),
	}
}

// Collect unions appointment and external-calendar busy blocks for one
// instructor over [from, to), sorted by start time. Intervals are half-open;
// blocks touching the range boundary are not included.
func (a *BusyAggregator) Collect(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
	opts CollectOptions,
) ([]coresched.BusyInterval, error) {

	busy := make([]coresched.BusyInterval, 0)

	appointments, err := a.CollectAppointments(ctx, tenantID, staffID, from, to, opts.ExcludeAppointmentID)
	if err != nil {
		if !opts.Degraded {
			return nil, fmt.Errorf("aggregate appointments: %w", err)
		}
		a.log.Warn("appointment source failed, continuing degraded",
			zap.Uint("staffId", staffID),
			zap.Error(err),
		)
	} else {
		busy = append(busy, appointments...)
	}

	external, err := a.collectExternal(ctx, tenantID, staffID, from, to)
	if err != nil {
		if !opts.Degraded {
			return nil, fmt.Errorf("aggregate external busy times: %w", err)
		}
		a.log.Warn("external calendar source failed, continuing degraded",
			zap.Uint("staffId", staffID),
			zap.Error(err),
		)
	} else {
		busy = append(busy, external...)
	}

	sortBusy(busy)
	return busy, nil
}

// CollectAppointments returns only the appointment-backed busy set. The
// conflict checker uses this directly: an out-of-hours booking is a staff
// decision, not a hard conflict, so working hours and external blocks stay
// out of the verdict.
func (a *BusyAggregator) CollectAppointments(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID *uint,
) ([]coresched.BusyInterval, error) {

	rows, err := a.repo.ListOccupyingAppointments(ctx, tenantID, staffID, from, to, excludeAppointmentID)
	if err != nil {
		return nil, err
	}

	busy := make([]coresched.BusyInterval, 0, len(rows))
	for _, ap := range rows {
		busy = append(busy, coresched.BusyInterval{
			TimeRange: coresched.TimeRange{Start: ap.StartTime, End: ap.EndTime},
			Source:    coresched.SourceAppointment,
			SourceID:  ap.ID,
			Title:     ap.Notes,
		})
	}

	return busy, nil
}

func (a *BusyAggregator) collectExternal(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]coresched.BusyInterval, error) {

	rows, err := a.repo.ListExternalBusyTimes(ctx, tenantID, staffID, from, to)
	if err != nil {
		return nil, err
	}

	busy := make([]coresched.BusyInterval, 0, len(rows))
	for _, ev := range rows {
		busy = append(busy, coresched.BusyInterval{
			TimeRange: coresched.TimeRange{Start: ev.StartTime, End: ev.EndTime},
			Source:    coresched.SourceExternalCalendar,
			SourceID:  ev.ID,
			Title:     ev.EventTitle,
		})
	}

	return busy, nil
}

func sortBusy(busy []coresched.BusyInterval) {
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})
}
