package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"battery_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List decisions
// @Description  Filter the decision history by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         decisions
// @Produce      json
// @Param        from    query   string  false  "Start of range"  example(2026-08-01)
// @Param        to      query   string  false  "End of range. Date-only treated as end of day."  example(2026-08-31)
// @Param        action  query   string  false  "Action filter"  Enums(CHARGE_FROM_GRID,DISCHARGE_TO_HOUSE,WAIT_FOR_SOLAR,DO_NOTHING)
// @Success      200   {object}  map[string]interface{}  "count, decisions"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/decisions [get]
// @Security     BearerAuth
func (h *Handler) getDecisions(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from   time.Time
		to     time.Time
		action = strings.ToUpper(strings.TrimSpace(c.Query("action")))
		err    error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		// Date-only "to" means the whole day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	decisions, err := h.services.DecisionLog.List(ctx, service.LogFilter{
		From:   from,
		To:     to,
		Action: action,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load decisions", "decisions_list_failed", err,
			"from", from, "to", to, "action", action)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(decisions),
		"decisions": decisions,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
