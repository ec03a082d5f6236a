package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/httpresp"
	"github.com/fahrwerk/driveschool-scheduler/internal/middleware"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

// ExternalBusyHandler is the surface the calendar sync jobs write through.
// The scheduling core only ever reads these rows.
type ExternalBusyHandler struct {
	db     *gorm.DB
	recalc *ucschedule.QueueRecalc
}

func NewExternalBusyHandler(db *gorm.DB, recalc *ucschedule.QueueRecalc) *ExternalBusyHandler {
	return &ExternalBusyHandler{db: db, recalc: recalc}
}

func (h *ExternalBusyHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "staff_id is required.")
		return
	}

	var rows []models.ExternalBusyTime
	q := h.db.
		Where("tenant_id = ? AND staff_id = ?", tenantID, uint(staffID)).
		Order("start_time ASC")

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("end_time > ?", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("start_time < ?", to.AddDate(0, 0, 1))
		}
	}

	if err := q.Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_busy_times", "Could not list busy times.")
		return
	}

	httpresp.List(c, rows)
}

type CreateExternalBusyRequest struct {
	StaffID    uint      `json:"staff_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	EventTitle string    `json:"event_title"`
	SyncSource string    `json:"sync_source" binding:"required"`
}

func (h *ExternalBusyHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateExternalBusyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if !req.EndTime.After(req.StartTime) {
		httperr.BadRequest(c, "invalid_time_range", "start_time must precede end_time.")
		return
	}

	row := models.ExternalBusyTime{
		TenantID:   tenantID,
		StaffID:    req.StaffID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		EventTitle: req.EventTitle,
		SyncSource: req.SyncSource,
	}

	if err := h.db.Create(&row).Error; err != nil {
		httperr.Internal(c, "failed_to_create_busy_time", "Could not store busy time.")
		return
	}

	h.recalc.ExecuteBestEffort(c.Request.Context(), tenantID, req.StaffID, schedule.TriggerExternalEvent)

	c.JSON(http.StatusCreated, row)
}

func (h *ExternalBusyHandler) Delete(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)
	id := c.Param("id")

	var row models.ExternalBusyTime
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&row).Error; err != nil {
		httperr.NotFound(c, "busy_time_not_found", "Busy time not found.")
		return
	}

	if err := h.db.Delete(&row).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_busy_time", "Could not delete busy time.")
		return
	}

	h.recalc.ExecuteBestEffort(c.Request.Context(), tenantID, row.StaffID, schedule.TriggerExternalEvent)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
