package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// ScheduleGormRepository backs the scheduling engine. Every query carries the
// tenant id; no method can observe another tenant's rows.
type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *ScheduleGormRepository) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ScheduleGormRepository) ListActiveWorkingHours(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	weekday int,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND staff_id = ? AND weekday = ? AND active = ?",
			tenantID, staffID, weekday, true,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// --------------------------------------------------
// Busy sources
// --------------------------------------------------

// Half-open range intersection: a row [s, e) intersects [from, to) iff
// s < to AND e > from.
func (r *ScheduleGormRepository) ListOccupyingAppointments(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID *uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND staff_id = ? AND deleted_at IS NULL AND status IN ? AND start_time < ? AND end_time > ?",
			tenantID, staffID, schedule.OccupyingStatuses(), to, from,
		)

	if excludeAppointmentID != nil {
		q = q.Where("id <> ?", *excludeAppointmentID)
	}

	var rows []models.Appointment
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *ScheduleGormRepository) ListExternalBusyTimes(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.ExternalBusyTime, error) {

	var rows []models.ExternalBusyTime
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND staff_id = ? AND start_time < ? AND end_time > ?",
			tenantID, staffID, to, from,
		).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// --------------------------------------------------
// Materialized output
// --------------------------------------------------

func (r *ScheduleGormRepository) UpsertAvailabilityDay(
	ctx context.Context,
	day *models.AvailabilityDay,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "staff_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"slots":        day.Slots,
				"generated_at": day.GeneratedAt,
			}),
		}).
		Create(day).Error
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
