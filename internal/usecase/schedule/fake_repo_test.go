package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
)

// fakeRepo is an in-memory Repository with per-source error injection. Busy
// queries apply the same half-open overlap filter as the real SQL.
type fakeRepo struct {
	tenant       *models.Tenant
	workingHours []models.WorkingHours
	appointments []models.Appointment
	external     []models.ExternalBusyTime

	appointmentsErr error
	externalErr     error
	workingHoursErr error

	upserted []models.AvailabilityDay
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenant: &models.Tenant{
			Timezone:           "UTC",
			SlotMinDurationMin: 45,
		},
	}
}

func (f *fakeRepo) GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error) {
	if f.tenant == nil {
		return nil, errors.New("tenant not found")
	}
	return f.tenant, nil
}

func (f *fakeRepo) ListActiveWorkingHours(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	weekday int,
) ([]models.WorkingHours, error) {
	if f.workingHoursErr != nil {
		return nil, f.workingHoursErr
	}
	var out []models.WorkingHours
	for _, wh := range f.workingHours {
		if wh.Weekday == weekday && wh.Active {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOccupyingAppointments(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
	excludeAppointmentID *uint,
) ([]models.Appointment, error) {
	if f.appointmentsErr != nil {
		return nil, f.appointmentsErr
	}
	var out []models.Appointment
	for _, ap := range f.appointments {
		if excludeAppointmentID != nil && ap.ID == *excludeAppointmentID {
			continue
		}
		if ap.StartTime.Before(to) && ap.EndTime.After(from) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListExternalBusyTimes(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.ExternalBusyTime, error) {
	if f.externalErr != nil {
		return nil, f.externalErr
	}
	var out []models.ExternalBusyTime
	for _, ev := range f.external {
		if ev.StartTime.Before(to) && ev.EndTime.After(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpsertAvailabilityDay(ctx context.Context, day *models.AvailabilityDay) error {
	for i, existing := range f.upserted {
		if existing.StaffID == day.StaffID && existing.Date == day.Date {
			f.upserted[i] = *day
			return nil
		}
	}
	f.upserted = append(f.upserted, *day)
	return nil
}

var _ coresched.Repository = (*fakeRepo)(nil)

// fakeSlotCache records StoreDay calls.
type fakeSlotCache struct {
	stored map[string]string
}

func newFakeSlotCache() *fakeSlotCache {
	return &fakeSlotCache{stored: make(map[string]string)}
}

func (f *fakeSlotCache) GetDay(ctx context.Context, tenantID, staffID uint, date string) (string, bool) {
	v, ok := f.stored[date]
	return v, ok
}

func (f *fakeSlotCache) StoreDay(ctx context.Context, tenantID, staffID uint, date string, slotsJSON string) {
	f.stored[date] = slotsJSON
}

func (f *fakeSlotCache) InvalidateStaff(ctx context.Context, tenantID, staffID uint) {
	f.stored = make(map[string]string)
}
