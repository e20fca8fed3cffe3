package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medtrack-backend/internal/derive"
	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/store"
)

const installationsCollection = "installations"

type installationView struct {
	model.Installation
	Progress int `json:"progress"`
}

func newInstallationView(i model.Installation) installationView {
	return installationView{Installation: i, Progress: derive.ChecklistProgress(i.Checklist)}
}

type installationDetail struct {
	installationView
	// Device is nil when the referenced device no longer exists.
	Device *model.Device `json:"device"`
}

// ListInstallations handles GET /api/installations.
func (h *Handler) ListInstallations(c *gin.Context) {
	installations, ok := list(h, c, h.store.Installations())
	if !ok {
		return
	}
	views := make([]installationView, 0, len(installations))
	for _, i := range installations {
		views = append(views, newInstallationView(i))
	}
	c.JSON(http.StatusOK, views)
}

// GetInstallation handles GET /api/installations/:id and resolves its device.
func (h *Handler) GetInstallation(c *gin.Context) {
	inst, ok := getOne(h, c, h.store.Installations())
	if !ok {
		return
	}

	detail := installationDetail{installationView: newInstallationView(inst)}
	d, err := h.store.Devices().Get(c.Request.Context(), inst.DeviceID)
	switch {
	case err == nil:
		detail.Device = &d
	case errors.Is(err, store.ErrNotFound):
	default:
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ScheduleInstallation handles POST /api/installations.
func (h *Handler) ScheduleInstallation(c *gin.Context) {
	var draft model.InstallationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := store.ScheduleInstallation(c.Request.Context(), h.store, draft, h.now())
	if err != nil {
		metrics.IncMutation(installationsCollection, "add", "rejected")
		h.writeError(c, err)
		return
	}
	metrics.IncMutation(installationsCollection, "add", store.OutcomeApplied.String())
	h.log.Info("installation scheduled", zap.String("id", inst.ID), zap.String("device_id", inst.DeviceID))
	c.JSON(http.StatusCreated, newInstallationView(inst))
}

func (h *Handler) UpdateInstallation(c *gin.Context) {
	replace(h, c, installationsCollection, h.store.Installations(), func(i *model.Installation, id string) { i.ID = id })
}

func (h *Handler) DeleteInstallation(c *gin.Context) {
	remove(h, c, installationsCollection, h.store.Installations())
}
