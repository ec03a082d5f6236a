package models

import "time"

type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`
	StaffID  uint `gorm:"index:idx_wh_staff_weekday" json:"staff_id"`

	Weekday int `gorm:"index:idx_wh_staff_weekday" json:"weekday"`

	// "15:04" wall-clock strings in the tenant's timezone.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
