package handlers

import (
	"time"

	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/timezone"
)

// All request parsing happens in the tenant's timezone: "09:00" means 09:00
// on the school's wall clock, wherever the server runs.

func locationFromTenant(t *models.Tenant) *time.Location {
	if t != nil {
		return timezone.Location(t.Timezone)
	}
	return timezone.Location("")
}

func parseDateInTenant(t *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(t),
	)
}

func parseDateTimeInTenant(
	t *models.Tenant,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromTenant(t),
	)
}
