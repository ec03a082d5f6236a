package appointment

import "github.com/fahrwerk/driveschool-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled           Status = "scheduled"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
	StatusOverdue             Status = "overdue"
	StatusAborted             Status = "aborted"
)

// Occupies reports whether an appointment in this status blocks the
// instructor's calendar. Cancelled and aborted lessons free their window.
func (s Status) Occupies() bool {
	switch s {
	case StatusCancelled, StatusAborted:
		return false
	}
	return true
}

// ===============================
// Validations
// ===============================

// CanCancel defines whether an appointment may still be cancelled.
func CanCancel(current Status) error {
	switch current {
	case StatusScheduled, StatusPendingConfirmation, StatusOverdue:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

// CanComplete defines whether an appointment may be marked completed.
func CanComplete(current Status) error {
	switch current {
	case StatusScheduled, StatusOverdue:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

func InitialStatus() Status {
	return StatusScheduled
}
