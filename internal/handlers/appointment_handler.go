package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/httpresp"
	"github.com/fahrwerk/driveschool-scheduler/internal/middleware"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	ucappointment "github.com/fahrwerk/driveschool-scheduler/internal/usecase/appointment"
)

// ======================================================
// APPOINTMENTS
// ======================================================

type AppointmentHandler struct {
	db          *gorm.DB
	createUC    *ucappointment.CreateAppointment
	cancelUC    *ucappointment.CancelAppointment
	completeUC  *ucappointment.CompleteAppointment
	deleteUC    *ucappointment.DeleteAppointment
	listDayUC   *ucappointment.ListAppointmentsByDate
	listMonthUC *ucappointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucappointment.CreateAppointment,
	cancelUC *ucappointment.CancelAppointment,
	completeUC *ucappointment.CompleteAppointment,
	deleteUC *ucappointment.DeleteAppointment,
	listDayUC *ucappointment.ListAppointmentsByDate,
	listMonthUC *ucappointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:          db,
		createUC:    createUC,
		cancelUC:    cancelUC,
		completeUC:  completeUC,
		deleteUC:    deleteUC,
		listDayUC:   listDayUC,
		listMonthUC: listMonthUC,
	}
}

type CreateAppointmentRequest struct {
	StudentName  string `json:"student_name" binding:"required"`
	StudentPhone string `json:"student_phone"`
	StudentEmail string `json:"student_email"`
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Notes        string `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), ucappointment.CreateAppointmentInput{
		TenantID:     tenantID,
		StaffID:      staffID,
		StudentName:  req.StudentName,
		StudentPhone: req.StudentPhone,
		StudentEmail: req.StudentEmail,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment": result.Appointment,
		"assignment":  result.Assignment,
	})
}

func (h *AppointmentHandler) writeCreateError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "time_conflict"):
		httperr.Write(c, http.StatusConflict, "time_conflict", "The instructor already has a lesson in that window.")
	case httperr.IsExclusionConflict(err):
		// Two transactions raced past the advisory lock on different day
		// keys; the exclusion constraint caught the overlap.
		httperr.Write(c, http.StatusConflict, "time_conflict", "The instructor already has a lesson in that window.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Times must be HH:MM on a YYYY-MM-DD date.")
	case httperr.IsBusiness(err, "invalid_time_range"):
		httperr.BadRequest(c, "invalid_time_range", "start_time must precede end_time.")
	case httperr.IsBusiness(err, "in_the_past"):
		httperr.BadRequest(c, "in_the_past", "Lessons cannot start in the past.")
	default:
		httperr.Internal(c, "failed_to_create_appointment", "Could not create the lesson.")
	}
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), tenantID, staffID, uint(id))
	if err != nil {
		h.writeLifecycleError(c, err, "failed_to_cancel_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), tenantID, staffID, uint(id))
	if err != nil {
		h.writeLifecycleError(c, err, "failed_to_complete_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), tenantID, staffID, uint(id)); err != nil {
		h.writeLifecycleError(c, err, "failed_to_delete_appointment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AppointmentHandler) writeLifecycleError(c *gin.Context, err error, fallback string) {
	switch {
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Lesson not found.")
	case httperr.IsBusiness(err, "cannot_cancel"):
		httperr.BadRequest(c, "cannot_cancel", "This lesson can no longer be cancelled.")
	case httperr.IsBusiness(err, "cannot_complete"):
		httperr.BadRequest(c, "cannot_complete", "This lesson cannot be marked completed.")
	default:
		httperr.Internal(c, fallback, "Operation failed.")
	}
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "School not found.")
		return
	}

	date, err := parseDateInTenant(&tenant, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	list, err := h.listDayUC.Execute(c.Request.Context(), tenantID, staffID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list lessons.")
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "year and month are required.")
		return
	}

	list, err := h.listMonthUC.Execute(
		c.Request.Context(),
		tenantID,
		staffID,
		year,
		month,
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list lessons.")
		return
	}

	httpresp.List(c, list)
}
