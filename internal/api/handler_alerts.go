package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medtrack-backend/internal/model"
	"medtrack-backend/internal/monitor"
	"medtrack-backend/internal/parse"
)

// ListAlerts handles GET /api/alerts?status=.
func (h *Handler) ListAlerts(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	switch model.AlertStatus(status) {
	case "", parse.StatusAll, model.AlertActive, model.AlertAcknowledged, model.AlertResolved:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("unknown alert status filter: %q", status),
			"field": "status",
			"rule":  "oneof",
		})
		return
	}

	alerts, ok := list(h, c, h.store.Alerts())
	if !ok {
		return
	}
	out := make([]model.Alert, 0, len(alerts))
	for _, a := range alerts {
		if status == "" || status == parse.StatusAll || a.Status == model.AlertStatus(status) {
			out = append(out, a)
		}
	}
	c.JSON(http.StatusOK, out)
}

// AcknowledgeAlert handles POST /api/alerts/:id/acknowledge.
func (h *Handler) AcknowledgeAlert(c *gin.Context) {
	alert, err := monitor.Acknowledge(c.Request.Context(), h.store, c.Param("id"), h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// ResolveAlert handles POST /api/alerts/:id/resolve.
func (h *Handler) ResolveAlert(c *gin.Context) {
	alert, err := monitor.Resolve(c.Request.Context(), h.store, c.Param("id"), h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
