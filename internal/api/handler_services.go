package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-backend/internal/model"
)

const servicesCollection = "service_visits"

// ListServiceVisits handles GET /api/services. An optional deviceId query
// narrows the history to one device.
func (h *Handler) ListServiceVisits(c *gin.Context) {
	visits, ok := list(h, c, h.store.ServiceVisits())
	if !ok {
		return
	}
	if deviceID := c.Query("deviceId"); deviceID != "" {
		filtered := make([]model.ServiceVisit, 0, len(visits))
		for _, v := range visits {
			if v.DeviceID == deviceID {
				filtered = append(filtered, v)
			}
		}
		visits = filtered
	}
	c.JSON(http.StatusOK, visits)
}

func (h *Handler) GetServiceVisit(c *gin.Context) {
	v, ok := getOne(h, c, h.store.ServiceVisits())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateServiceVisit(c *gin.Context) {
	create(h, c, servicesCollection, h.store.ServiceVisits())
}

func (h *Handler) UpdateServiceVisit(c *gin.Context) {
	replace(h, c, servicesCollection, h.store.ServiceVisits(), func(v *model.ServiceVisit, id string) { v.ID = id })
}

func (h *Handler) DeleteServiceVisit(c *gin.Context) {
	remove(h, c, servicesCollection, h.store.ServiceVisits())
}
