package queue

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// GormQueue stores recalculation requests in the recalc_queue_entries table.
// The unique index on (tenant_id, staff_id) makes Enqueue an upsert: the same
// instructor is never queued twice, a newer trigger just refreshes the entry.
type GormQueue struct {
	db *gorm.DB
}

func NewGormQueue(db *gorm.DB) *GormQueue {
	return &GormQueue{db: db}
}

func (q *GormQueue) Enqueue(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	trigger schedule.Trigger,
) (*models.RecalcQueueEntry, error) {

	entry := models.RecalcQueueEntry{
		TenantID:  tenantID,
		StaffID:   staffID,
		Trigger:   string(trigger),
		QueuedAt:  time.Now(),
		Processed: false,
	}

	// Reopens a processed entry as well: processed goes back to false no
	// matter the previous state.
	if err := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "staff_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"trigger":   string(trigger),
				"queued_at": entry.QueuedAt,
				"processed": false,
			}),
		}).
		Create(&entry).Error; err != nil {
		return nil, err
	}

	// The upsert path does not populate the existing row's id; read it back.
	var stored models.RecalcQueueEntry
	if err := q.db.WithContext(ctx).
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		First(&stored).Error; err != nil {
		return nil, err
	}

	return &stored, nil
}

func (q *GormQueue) DequeueBatch(
	ctx context.Context,
	limit int,
) ([]models.RecalcQueueEntry, error) {

	var entries []models.RecalcQueueEntry
	if err := q.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("queued_at ASC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (q *GormQueue) MarkProcessed(
	ctx context.Context,
	entryID uint,
) error {
	return q.db.WithContext(ctx).
		Model(&models.RecalcQueueEntry{}).
		Where("id = ?", entryID).
		Update("processed", true).Error
}

// Compile-time check
var _ schedule.Queue = (*GormQueue)(nil)
