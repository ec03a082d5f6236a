package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fahrwerk/driveschool-scheduler/internal/audit"
	domain "github.com/fahrwerk/driveschool-scheduler/internal/domain/appointment"
	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	"github.com/fahrwerk/driveschool-scheduler/internal/timezone"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID uint
	StaffID  uint

	StudentName  string
	StudentPhone string
	StudentEmail string

	Date      string
	StartTime string
	EndTime   string
	Notes     string
}

type CreateAppointmentResult struct {
	Appointment *models.Appointment
	Assignment  domain.AssignOutcome
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	recalc *ucschedule.QueueRecalc
	audit  *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	recalc *ucschedule.QueueRecalc,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		recalc: recalc,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentResult, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(tenant.Timezone)

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.StartTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	end, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.EndTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if !end.After(start) {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}

	// Staff may book outside working hours — that is their call — but never
	// in the past.
	now := timezone.NowIn(tenant.Timezone)
	if start.Before(now) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	student, err := uc.repo.GetOrCreateStudent(
		ctx,
		in.TenantID,
		in.StudentName,
		in.StudentPhone,
		in.StudentEmail,
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		PublicRef: uuid.New(),
		TenantID:  in.TenantID,
		StaffID:   in.StaffID,
		StudentID: student.ID,
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	outcome, err := uc.repo.CreateScheduled(ctx, ap)
	if err != nil {
		return nil, err
	}

	// The new lesson invalidates the instructor's generated slots; a failed
	// enqueue must not fail the booking.
	uc.recalc.ExecuteBestEffort(ctx, in.TenantID, in.StaffID, schedule.TriggerAppointment)

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.StaffID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return &CreateAppointmentResult{
		Appointment: ap,
		Assignment:  outcome,
	}, nil
}
