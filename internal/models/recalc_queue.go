package models

import "time"

// RecalcQueueEntry marks an instructor whose availability slots need
// regenerating. One row per (staff, tenant): a new trigger upserts onto the
// existing row, refreshing queued_at and reopening processed.
type RecalcQueueEntry struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"uniqueIndex:idx_recalc_staff_tenant" json:"tenant_id"`
	StaffID  uint `gorm:"uniqueIndex:idx_recalc_staff_tenant" json:"staff_id"`

	Trigger   string    `gorm:"size:30" json:"trigger"`
	QueuedAt  time.Time `json:"queued_at"`
	Processed bool      `gorm:"default:false;index" json:"processed"`
}
