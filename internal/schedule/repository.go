package schedule

import (
	"context"
	"time"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
)

// Repository is the engine's read/write port. Every method is tenant-scoped;
// an implementation must never return rows belonging to another tenant.
type Repository interface {
	// -------- Tenant --------
	GetTenantByID(
		ctx context.Context,
		id uint,
	) (*models.Tenant, error)

	// -------- Working hours --------
	ListActiveWorkingHours(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		weekday int,
	) ([]models.WorkingHours, error)

	// -------- Busy sources --------
	ListOccupyingAppointments(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		from time.Time,
		to time.Time,
		excludeAppointmentID *uint,
	) ([]models.Appointment, error)

	ListExternalBusyTimes(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.ExternalBusyTime, error)

	// -------- Materialized output --------
	UpsertAvailabilityDay(
		ctx context.Context,
		day *models.AvailabilityDay,
	) error
}

// Trigger names the mutation that caused a recalculation request.
type Trigger string

const (
	TriggerWorkingHours  Trigger = "working_hours"
	TriggerExternalEvent Trigger = "external_event"
	TriggerAppointment   Trigger = "appointment"
)

// Queue is the recalculation work list, deduplicated by (staff, tenant).
// Enqueue upserts: a second call for the same key refreshes the trigger and
// queued_at and reopens a processed entry rather than adding a row.
type Queue interface {
	Enqueue(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		trigger Trigger,
	) (*models.RecalcQueueEntry, error)

	DequeueBatch(
		ctx context.Context,
		limit int,
	) ([]models.RecalcQueueEntry, error)

	MarkProcessed(
		ctx context.Context,
		entryID uint,
	) error
}
