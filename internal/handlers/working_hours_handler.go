package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fahrwerk/driveschool-scheduler/internal/middleware"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

type WorkingHoursHandler struct {
	db     *gorm.DB
	recalc *ucschedule.QueueRecalc
}

func NewWorkingHoursHandler(db *gorm.DB, recalc *ucschedule.QueueRecalc) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, recalc: recalc}
}

type WorkingWindowConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkingHoursUpdateRequest struct {
	Windows []WorkingWindowConfig `json:"windows" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var hours []models.WorkingHours
	if err := h.db.
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		Order("weekday ASC, start_time ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if code := validateWindows(req.Windows); code != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": code})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		var toCreate []models.WorkingHours
		for _, w := range req.Windows {
			toCreate = append(toCreate, models.WorkingHours{
				TenantID:  tenantID,
				StaffID:   staffID,
				Weekday:   w.Weekday,
				Active:    w.Active,
				StartTime: w.StartTime,
				EndTime:   w.EndTime,
			})
		}

		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
		return
	}

	// New hours invalidate every generated slot for this instructor.
	h.recalc.ExecuteBestEffort(c.Request.Context(), tenantID, staffID, schedule.TriggerWorkingHours)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validateWindows enforces the working-hours invariants before anything is
// written: parseable times, start < end, and no overlapping active windows
// within a weekday. Returns an error code, or "" when valid.
func validateWindows(windows []WorkingWindowConfig) string {
	perDay := make(map[int][]schedule.TimeRange)

	for _, w := range windows {
		if !w.Active {
			continue
		}

		start, err1 := time.Parse("15:04", w.StartTime)
		end, err2 := time.Parse("15:04", w.EndTime)
		if err1 != nil || err2 != nil {
			return "invalid_time_format"
		}
		if !end.After(start) {
			return "start_must_precede_end"
		}

		r := schedule.TimeRange{Start: start, End: end}
		for _, existing := range perDay[w.Weekday] {
			if r.Overlaps(existing) {
				return "overlapping_windows"
			}
		}
		perDay[w.Weekday] = append(perDay[w.Weekday], r)
	}

	return ""
}
