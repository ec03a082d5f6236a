package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PublicRef uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"public_ref"`

	TenantID uint   `gorm:"index" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"tenant"`

	StaffID uint `gorm:"index" json:"staff_id"`
	Staff   User `gorm:"foreignKey:StaffID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	StudentID uint    `json:"student_id"`
	Student   Student `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"student"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:30;default:'scheduled'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
