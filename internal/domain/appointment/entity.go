package appointment

import (
	"time"

	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// SoftDelete hides the appointment from every busy-time query without
// removing the row.
func SoftDelete(ap *models.Appointment, now time.Time) error {
	if ap.DeletedAt != nil {
		return httperr.ErrBusiness("already_deleted")
	}

	ap.DeletedAt = &now
	return nil
}
