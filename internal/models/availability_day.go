package models

import "time"

// AvailabilityDay is the materialized output of the slot generator: the
// bookable windows for one instructor on one calendar day. The public booking
// flow reads these (through the redis cache) instead of recomputing.
type AvailabilityDay struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`
	StaffID  uint `gorm:"uniqueIndex:idx_slots_staff_date" json:"staff_id"`

	// "2006-01-02" in the tenant's timezone.
	Date string `gorm:"size:10;uniqueIndex:idx_slots_staff_date" json:"date"`

	// JSON-encoded [{"start":"08:00","end":"12:00"}, ...].
	Slots string `gorm:"type:text" json:"slots"`

	GeneratedAt time.Time `json:"generated_at"`
}
