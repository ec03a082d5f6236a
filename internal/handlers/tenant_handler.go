package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fahrwerk/driveschool-scheduler/internal/httperr"
	"github.com/fahrwerk/driveschool-scheduler/internal/middleware"
	"github.com/fahrwerk/driveschool-scheduler/internal/models"
	"github.com/fahrwerk/driveschool-scheduler/internal/timezone"
)

type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

func (h *TenantHandler) GetMyTenant(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "School not found.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

type UpdateTenantRequest struct {
	Name               *string `json:"name"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	Timezone           *string `json:"timezone"`
	MinAdvanceMinutes  *int    `json:"min_advance_minutes"`
	SlotMinDurationMin *int    `json:"slot_min_duration_min"`
}

func (h *TenantHandler) UpdateMyTenant(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "School not found.")
		return
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil && *req.MinAdvanceMinutes >= 0 {
		tenant.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}
	if req.SlotMinDurationMin != nil && *req.SlotMinDurationMin > 0 {
		tenant.SlotMinDurationMin = *req.SlotMinDurationMin
	}

	if err := h.db.Save(&tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Could not save school settings.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}
