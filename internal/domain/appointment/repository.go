package appointment

import (
	"context"
	"time"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
)

type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	// -------- Student --------
	GetOrCreateStudent(
		ctx context.Context,
		tenantID uint,
		name string,
		phone string,
		email string,
	) (*models.Student, error)

	// -------- Appointment (create) --------
	// CreateScheduled runs the serialized check-and-insert: inside one
	// transaction it takes an advisory lock on (staff, day), re-checks for
	// overlapping occupying appointments, inserts, and resolves the
	// auto-assignment outcome for the student/staff pair.
	CreateScheduled(
		ctx context.Context,
		ap *models.Appointment,
	) (AssignOutcome, error)

	// -------- Appointment (state change) --------
	GetForStaff(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
		staffID uint,
	) (*models.Appointment, error)

	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (read) --------
	ListForPeriod(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
