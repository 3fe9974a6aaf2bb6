package handlers

import (
	"errors"
	"net/http"

	"battery_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errDecisionFailed = "failed to produce a decision"
	errUpstreamData   = "forecast data currently unavailable"
)

// Query parameters for a decision request. SoC is a pointer so that a
// legitimate 0% reading binds instead of failing "required". Lat/lon are
// optional and fall back to the configured site location.
type decisionQuery struct {
	SoC *float64 `form:"soc" binding:"required"`
	Lat *float64 `form:"lat"`
	Lon *float64 `form:"lon"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Description  Reports whether the generative-model fallback is available; does not invoke the model.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          statusOK,
		"model_available": h.services.Advisor.ModelAvailable(),
	})
}

// @Summary      Get battery decision
// @Description  Decides what the battery should do right now based on spot prices, solar forecast, and SoC.
// @Tags         decision
// @Produce      json
// @Param        soc  query   number  true   "State of charge in percent [0,100]"
// @Param        lat  query   number  false  "Latitude (defaults to configured site)"
// @Param        lon  query   number  false  "Longitude (defaults to configured site)"
// @Success      200  {object}  service.DecisionResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/decision [get]
// @Security     BearerAuth
func (h *Handler) getDecision(c *gin.Context) {
	var q decisionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	resp, err := h.services.Advisor.Decide(c.Request.Context(), service.DecideParams{
		SoC: *q.SoC,
		Lat: q.Lat,
		Lon: q.Lon,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSoC):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUpstreamUnavailable):
			h.logAndJSONError(c, http.StatusServiceUnavailable, errUpstreamData, "decision_upstream_failed", err)
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errDecisionFailed, "decision_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
