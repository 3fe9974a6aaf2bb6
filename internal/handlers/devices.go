package handlers

import (
	"net/http"

	"battery_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTO for registering a device.
type deviceRequest struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type" binding:"required"` // e.g. BATTERY, INVERTER, METER
	Model string `json:"model,omitempty"`
}

// @Summary      Register device
// @Description  Upserts a device for the authenticated user; re-registering an ID refreshes last_seen.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body   deviceRequest  true  "Device payload"
// @Success      200   {object}  models.Device
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/devices [post]
// @Security     BearerAuth
func (h *Handler) registerDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	userID := c.GetInt(userIDKey)
	device, err := h.services.Devices.Register(c.Request.Context(), userID, service.DeviceParams{
		ID:    req.ID,
		Type:  req.Type,
		Model: req.Model,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to register device", "device_register_failed", err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	devices, err := h.services.Devices.List(c.Request.Context(), userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load devices", "device_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(devices),
		"devices": devices,
	})
}
