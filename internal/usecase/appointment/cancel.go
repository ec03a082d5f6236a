package appointment

import (
	"context"

	"github.com/fahrwerk/driveschool-scheduler/internal/audit"
	domain "github.com/fahrwerk/driveschool-scheduler/internal/domain/appointment"
	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	"github.com/fahrwerk/driveschool-scheduler/internal/timezone"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

type CancelAppointment struct {
	repo   domain.Repository
	recalc *ucschedule.QueueRecalc
	audit  *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	recalc *ucschedule.QueueRecalc,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		recalc: recalc,
		audit:  audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetForStaff(ctx, tenantID, appointmentID, staffID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(tenant.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	// A cancelled lesson frees its window; regenerate slots.
	uc.recalc.ExecuteBestEffort(ctx, tenantID, staffID, schedule.TriggerAppointment)

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &staffID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
