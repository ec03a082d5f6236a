package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	PublicRef   uuid.UUID `json:"public_ref"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	StudentName string    `json:"student_name"`
}
