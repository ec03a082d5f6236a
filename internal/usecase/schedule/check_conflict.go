package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// ======================================================
// CONFLICT CHECKER
// ======================================================

type Conflict struct {
	ID    uint      `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}

type ConflictResult struct {
	Available bool       `json:"isAvailable"`
	Conflicts []Conflict `json:"conflicts"`
}

type ConflictChecker struct {
	aggregator *BusyAggregator
	log        *zap.Logger
}

func NewConflictChecker(aggregator *BusyAggregator, log *zap.Logger) *ConflictChecker {
	return &ConflictChecker{
		aggregator: aggregator,
		log:        log.Named("conflict_checker"),
	}
}

// Check tests a proposed window [start, end) against the instructor's
// occupying appointments. Working hours and external calendar blocks are
// deliberately not part of the verdict: booking outside hours is the staff
// member's call. An error means "could not determine availability" and must
// never be read as free.
func (c *ConflictChecker) Check(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeAppointmentID *uint,
) (*ConflictResult, error) {

	proposed := coresched.TimeRange{Start: start, End: end}

	busy, err := c.aggregator.CollectAppointments(ctx, tenantID, staffID, start, end, excludeAppointmentID)
	if err != nil {
		c.log.Error("conflict check failed",
			zap.Uint("staffId", staffID),
			zap.Error(err),
		)
		return nil, err
	}

	conflicts := make([]Conflict, 0)
	for _, b := range busy {
		if proposed.Overlaps(b.TimeRange) {
			conflicts = append(conflicts, Conflict{
				ID:    b.SourceID,
				Start: b.Start,
				End:   b.End,
				Title: b.Title,
			})
		}
	}

	return &ConflictResult{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}
