package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/fahrwerk/driveschool-scheduler/internal/domain/appointment"
	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetTenantByID(
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
// Student
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateStudent(
	ctx context.Context,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.Student, error) {

	var student models.Student
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&student).Error

	if err == nil {
		return &student, nil
	}

	student = models.Student{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, err
	}

	return &student, nil
}

// --------------------------------------------------
// Appointment (create)
// --------------------------------------------------

// advisoryDayKey spreads the per-staff lock over calendar days so two
// bookings for different days never serialize against each other.
func advisoryDayKey(start time.Time) int32 {
	return int32(start.Unix() / 86400)
}

// CreateScheduled serializes the check-and-insert for one (staff, day):
// pg_advisory_xact_lock holds until commit, so two concurrent bookings for
// overlapping windows cannot both pass the conflict re-check. The exclusion
// constraint on appointments is the backstop if anything bypasses this path.
func (r *AppointmentGormRepository) CreateScheduled(
	ctx context.Context,
	ap *models.Appointment,
) (domain.AssignOutcome, error) {

	var outcome domain.AssignOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(?, ?)",
			int32(ap.StaffID), advisoryDayKey(ap.StartTime),
		).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"tenant_id = ? AND staff_id = ? AND deleted_at IS NULL AND status IN ? AND start_time < ? AND end_time > ?",
				ap.TenantID, ap.StaffID, schedule.OccupyingStatuses(), ap.EndTime, ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		if err := tx.Create(ap).Error; err != nil {
			return err
		}

		var err error
		outcome, err = r.resolveAssignment(tx, ap)
		return err
	})

	if err != nil {
		return "", err
	}

	return outcome, nil
}

// resolveAssignment runs inside the creating transaction, so the "exactly one
// appointment" test cannot race a concurrent booking for the same pair.
func (r *AppointmentGormRepository) resolveAssignment(
	tx *gorm.DB,
	ap *models.Appointment,
) (domain.AssignOutcome, error) {

	var assigned int64
	if err := tx.
		Model(&models.StaffAssignment{}).
		Where(
			"tenant_id = ? AND student_id = ? AND staff_id = ?",
			ap.TenantID, ap.StudentID, ap.StaffID,
		).
		Count(&assigned).Error; err != nil {
		return "", err
	}

	if assigned > 0 {
		return domain.AssignOutcomeAlreadyAssigned, nil
	}

	var appointments int64
	if err := tx.
		Model(&models.Appointment{}).
		Where(
			"tenant_id = ? AND student_id = ? AND staff_id = ? AND deleted_at IS NULL",
			ap.TenantID, ap.StudentID, ap.StaffID,
		).
		Count(&appointments).Error; err != nil {
		return "", err
	}

	if appointments != 1 {
		return domain.AssignOutcomeNotFirst, nil
	}

	assignment := models.StaffAssignment{
		TenantID:   ap.TenantID,
		StudentID:  ap.StudentID,
		StaffID:    ap.StaffID,
		AssignedAt: time.Now(),
	}
	if err := tx.Create(&assignment).Error; err != nil {
		return "", err
	}

	return domain.AssignOutcomeAssigned, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetForStaff(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"id = ? AND tenant_id = ? AND staff_id = ? AND deleted_at IS NULL",
			appointmentID, tenantID, staffID,
		).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForPeriod(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Student").
		Where(
			"tenant_id = ? AND staff_id = ? AND deleted_at IS NULL AND start_time >= ? AND start_time < ?",
			tenantID, staffID, start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
