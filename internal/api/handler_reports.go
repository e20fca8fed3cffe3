package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/report"
)

// GetInventoryReport handles GET /api/reports/inventory.xlsx.
func (h *Handler) GetInventoryReport(c *gin.Context) {
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

	now := h.today()
	raw, err := report.BuildInventoryXLSX(report.Inventory{
		Devices:       devices,
		Installations: installations,
		Contracts:     contracts,
		GeneratedAt:   now,
	})
	if err != nil {
		metrics.IncReportExport("xlsx", metrics.ResultError)
		h.writeError(c, fmt.Errorf("failed to build inventory report: %w", err))
		return
	}
	metrics.IncReportExport("xlsx", metrics.ResultSuccess)
	attachment(c, fmt.Sprintf("inventory-%s.xlsx", now.Format("2006-01-02")), report.ContentTypeXLSX, raw)
}

// GetContractsReport handles GET /api/reports/contracts.pdf.
func (h *Handler) GetContractsReport(c *gin.Context) {
	contracts, ok := list(h, c, h.store.Contracts())
	if !ok {
		return
	}

	now := h.today()
	raw, err := report.BuildContractsPDF(contracts, now)
	if err != nil {
		metrics.IncReportExport("pdf", metrics.ResultError)
		h.writeError(c, fmt.Errorf("failed to build contracts report: %w", err))
		return
	}
	metrics.IncReportExport("pdf", metrics.ResultSuccess)
	attachment(c, fmt.Sprintf("contracts-%s.pdf", now.Format("2006-01-02")), report.ContentTypePDF, raw)
}

func attachment(c *gin.Context, filename, contentType string, raw []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, raw)
}
