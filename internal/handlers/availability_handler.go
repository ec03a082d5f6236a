package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fahrwerk/driveschool-scheduler/internal/cache"
	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/middleware"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	ucschedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

// ======================================================
// AVAILABILITY
// ======================================================

type AvailabilityHandler struct {
	db        *gorm.DB
	generator *ucschedule.SlotGenerator
	checker   *ucschedule.ConflictChecker
	recalc    *ucschedule.QueueRecalc
	cache     cache.SlotCache
}

func NewAvailabilityHandler(
	db *gorm.DB,
	generator *ucschedule.SlotGenerator,
	checker *ucschedule.ConflictChecker,
	recalc *ucschedule.QueueRecalc,
	slotCache cache.SlotCache,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:        db,
		generator: generator,
		checker:   checker,
		recalc:    recalc,
		cache:     slotCache,
	}
}

// GetAvailability computes slots on demand for an instructor over a date
// range. Nothing is persisted; this is the staff-facing preview, always
// fresh.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "staff_id is required.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "School not found.")
		return
	}

	from, err := parseDateInTenant(&tenant, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
		return
	}

	to := from
	if toStr := c.Query("to"); toStr != "" {
		to, err = parseDateInTenant(&tenant, toStr)
		if err != nil || to.Before(from) {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD, not before from.")
			return
		}
	}

	// The tenant is already loaded; passing its minimum explicitly means any
	// ForRange failure is a genuine busy-source failure, so 502 stays honest.
	days, err := h.generator.ForRange(
		c.Request.Context(),
		tenantID,
		uint(staffID),
		from,
		to,
		ucschedule.GenerateOptions{
			MinDuration: time.Duration(tenant.SlotMinDurationMin) * time.Minute,
		},
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "not_found", "Unknown school or instructor.")
			return
		}
		httperr.Unavailable(c, "availability_unknown", "Could not compute availability.")
		return
	}

	loc := locationFromTenant(&tenant)
	out := make(map[string][]ucschedule.SlotPair, len(days))
	for date, slots := range days {
		pairs := make([]ucschedule.SlotPair, 0, len(slots))
		for _, s := range slots {
			pairs = append(pairs, ucschedule.SlotPair{
				Start: s.Start.In(loc).Format("15:04"),
				End:   s.End.In(loc).Format("15:04"),
			})
		}
		out[date] = pairs
	}

	c.JSON(http.StatusOK, gin.H{"days": out})
}

type CheckConflictsRequest struct {
	StaffID              uint   `json:"staff_id" binding:"required"`
	Date                 string `json:"date" binding:"required"`
	StartTime            string `json:"start_time" binding:"required"`
	EndTime              string `json:"end_time" binding:"required"`
	ExcludeAppointmentID *uint  `json:"exclude_appointment_id"`
}

// CheckConflicts answers "is this window free" against occupying
// appointments. A failed check reports 502, never a false "free".
func (h *AvailabilityHandler) CheckConflicts(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "School not found.")
		return
	}

	start, err1 := parseDateTimeInTenant(&tenant, req.Date, req.StartTime)
	end, err2 := parseDateTimeInTenant(&tenant, req.Date, req.EndTime)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_time_format", "Times must be HH:MM on a YYYY-MM-DD date.")
		return
	}
	if !end.After(start) {
		httperr.BadRequest(c, "invalid_time_range", "start_time must precede end_time.")
		return
	}

	result, err := h.checker.Check(
		c.Request.Context(),
		tenantID,
		req.StaffID,
		start,
		end,
		req.ExcludeAppointmentID,
	)
	if err != nil {
		httperr.Unavailable(c, "availability_unknown", "Could not verify availability, try again.")
		return
	}

	c.JSON(http.StatusOK, result)
}

type QueueRecalcRequest struct {
	StaffID uint   `json:"staff_id" binding:"required"`
	Trigger string `json:"trigger"`
}

func (h *AvailabilityHandler) QueueRecalc(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req QueueRecalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	trigger := schedule.Trigger(req.Trigger)
	switch trigger {
	case schedule.TriggerWorkingHours, schedule.TriggerExternalEvent, schedule.TriggerAppointment:
	case "":
		trigger = schedule.TriggerAppointment
	default:
		httperr.BadRequest(c, "invalid_trigger", "Unknown trigger.")
		return
	}

	entry, err := h.recalc.Execute(c.Request.Context(), tenantID, req.StaffID, trigger)
	if err != nil {
		httperr.Internal(c, "failed_to_queue_recalc", "Could not queue recalculation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"queued": entry})
}

// GetPublicAvailability serves the precomputed slots for the public booking
// page: redis first, then the durable availability_days row. It never
// computes; a day the worker has not generated yet reads as empty.
func (h *AvailabilityHandler) GetPublicAvailability(c *gin.Context) {
	slug := c.Param("slug")

	var tenant models.Tenant
	if err := h.db.Where("slug = ?", slug).First(&tenant).Error; err != nil {
		httperr.NotFound(c, "school_not_found", "School not found.")
		return
	}

	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "staff_id is required.")
		return
	}

	date := c.Query("date")
	if _, err := parseDateInTenant(&tenant, date); err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	slotsJSON, ok := h.cache.GetDay(c.Request.Context(), tenant.ID, uint(staffID), date)
	if !ok {
		var day models.AvailabilityDay
		err := h.db.
			Where("tenant_id = ? AND staff_id = ? AND date = ?", tenant.ID, uint(staffID), date).
			First(&day).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			slotsJSON = "[]"
		case err != nil:
			httperr.Internal(c, "failed_to_get_availability", "Could not read availability.")
			return
		default:
			slotsJSON = day.Slots
			h.cache.StoreDay(c.Request.Context(), tenant.ID, uint(staffID), date, slotsJSON)
		}
	}

	var pairs []ucschedule.SlotPair
	if err := json.Unmarshal([]byte(slotsJSON), &pairs); err != nil {
		httperr.Internal(c, "corrupt_availability", "Stored availability is unreadable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": pairs,
	})
}
