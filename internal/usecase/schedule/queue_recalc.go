package schedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/cache"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// ======================================================
// QUEUE RECALC
// ======================================================

type QueueRecalc struct {
	queue coresched.Queue
	cache cache.SlotCache
	log   *zap.Logger
}

func NewQueueRecalc(queue coresched.Queue, slotCache cache.SlotCache, log *zap.Logger) *QueueRecalc {
	return &QueueRecalc{
		queue: queue,
		cache: slotCache,
		log:   log.Named("queue_recalc"),
	}
}

// Execute upserts a recalculation request for the instructor and drops their
// cached slots so the booking UI stops serving stale windows immediately.
func (u *QueueRecalc) Execute(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	trigger coresched.Trigger,
) (*models.RecalcQueueEntry, error) {

	entry, err := u.queue.Enqueue(ctx, tenantID, staffID, trigger)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.InvalidateStaff(ctx, tenantID, staffID)
	}

	return entry, nil
}

// ExecuteBestEffort is the hook used by mutations (appointment delete,
// working-hours update): an enqueue failure is logged and swallowed so the
// triggering operation still succeeds. Slot staleness after a swallowed
// failure is repaired by the next successful enqueue for the same key.
func (u *QueueRecalc) ExecuteBestEffort(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	trigger coresched.Trigger,
) {
	if _, err := u.Execute(ctx, tenantID, staffID, trigger); err != nil {
		u.log.Warn("failed to enqueue recalculation",
			zap.Uint("tenantId", tenantID),
			zap.Uint("staffId", staffID),
			zap.String("trigger", string(trigger)),
			zap.Error(err),
		)
	}
}
