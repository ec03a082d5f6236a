package schedule

// BusySource identifies where a busy interval came from.
type BusySource string

const (
	SourceAppointment      BusySource = "appointment"
	SourceExternalCalendar BusySource = "external_calendar"
)

// BusyInterval is a derived, never-persisted block of time during which an
// instructor cannot take new bookings.
type BusyInterval struct {
	TimeRange
	Source   BusySource `json:"source"`
	SourceID uint       `json:"source_id"`
	Title    string     `json:"title"`
}

// Occupying statuses: an appointment in any of these states blocks its time
// window. Cancelled and aborted appointments (and soft-deleted rows) do not.
var occupyingStatuses = []string{
	"scheduled",
	"pending_confirmation",
	"overdue",
	"completed",
}

// OccupyingStatuses returns the appointment statuses that count as busy.
func OccupyingStatuses() []string {
	out := make([]string, len(occupyingStatuses))
	copy(out, occupyingStatuses)
	return out
}

// Ranges projects busy intervals down to their plain time ranges.
func Ranges(busy []BusyInterval) []TimeRange {
	ranges := make([]TimeRange, 0, len(busy))
	for _, b := range busy {
		ranges = append(ranges, b.TimeRange)
	}
	return ranges
}
