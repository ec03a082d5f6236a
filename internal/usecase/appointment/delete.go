package appointment

import (
	"context"

	"github.com/fahrwerk/driveschool-scheduler/internal/audit"
	domain "github.com/fahrwerk/driveschool-scheduler/internal/domain/appointment"
	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	"github.com/fahrwerk/driveschool-scheduler/internal/timezone"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

type DeleteAppointment struct {
	repo   domain.Repository
	recalc *ucschedule.QueueRecalc
	audit  *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	recalc *ucschedule.QueueRecalc,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:   repo,
		recalc: recalc,
		audit:  audit,
	}
}

// Execute soft-deletes: the row stays, every busy-time query skips it.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	appointmentID uint,
) error {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return err
	}

	ap, err := uc.repo.GetForStaff(ctx, tenantID, appointmentID, staffID)
	if err != nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(tenant.Timezone)
	if err := domain.SoftDelete(ap, now); err != nil {
		return err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return err
	}

	uc.recalc.ExecuteBestEffort(ctx, tenantID, staffID, schedule.TriggerAppointment)

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   &staffID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return nil
}
