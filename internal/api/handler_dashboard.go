package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-backend/internal/derive"
)

// GetStats handles GET /api/dashboard/stats.
func (h *Handler) GetStats(c *gin.Context) {
	devices, ok := list(h, c, h.store.Devices())
	if !ok {
		return
	}
	installations, ok := list(h, c, h.store.Installations())
	if !ok {
		return
	}
	contracts, ok := list(h, c, h.store.Contracts())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, derive.ComputeStats(devices, installations, contracts))
}

// GetContractSummary handles GET /api/dashboard/contracts.
func (h *Handler) GetContractSummary(c *gin.Context) {
	contracts, ok := list(h, c, h.store.Contracts())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, derive.SummarizeContracts(contracts))
}

// GetAlertSummary handles GET /api/dashboard/alerts.
func (h *Handler) GetAlertSummary(c *gin.Context) {
	alerts, ok := list(h, c, h.store.Alerts())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, derive.SummarizeAlerts(alerts, h.now(), h.loc))
}

// GetAMCDrift handles GET /api/dashboard/amc-drift.
func (h *Handler) GetAMCDrift(c *gin.Context) {
	devices, ok := list(h, c, h.store.Devices())
	if !ok {
		return
	}
	contracts, ok := list(h, c, h.store.Contracts())
	if !ok {
		return
	}
	drift := derive.AMCDrift(devices, contracts)
	if drift == nil {
		drift = []derive.Drift{}
	}
	c.JSON(http.StatusOK, drift)
}
