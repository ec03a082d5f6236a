package models

import "time"

// ExternalBusyTime is a block imported from an instructor's external calendar
// by the sync jobs. Every row counts as busy; there is no status column.
type ExternalBusyTime struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`
	StaffID  uint `gorm:"index" json:"staff_id"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	EventTitle string `gorm:"size:255" json:"event_title"`
	SyncSource string `gorm:"size:50" json:"sync_source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
