package models

import "time"

// StaffAssignment binds a student to an instructor. Created automatically on
// the student's first appointment with that instructor.
type StaffAssignment struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"index" json:"tenant_id"`

	StudentID uint `gorm:"uniqueIndex:idx_student_staff" json:"student_id"`
	StaffID   uint `gorm:"uniqueIndex:idx_student_staff" json:"staff_id"`

	AssignedAt time.Time `json:"assigned_at"`
}
