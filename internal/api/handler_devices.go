package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-backend/internal/derive"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/parse"
)

const devicesCollection = "devices"

type deviceView struct {
	model.Device
	BatteryBand derive.Band `json:"batteryBand"`
}

func newDeviceView(d model.Device) deviceView {
	return deviceView{Device: d, BatteryBand: derive.BatteryBand(d.BatteryLevel)}
}

type deviceListResponse struct {
	Devices []deviceView `json:"devices"`
	Total   int          `json:"total"`
	Loading bool         `json:"loading"`
}

// ListDevices handles GET /api/devices?search=&status=.
func (h *Handler) ListDevices(c *gin.Context) {
	status, err := parse.StatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "status", "rule": "oneof"})
		return
	}

	devices, ok := list(h, c, h.store.Devices())
	if !ok {
		return
	}
	filtered := derive.FilterDevices(devices, c.Query("search"), status)

	views := make([]deviceView, 0, len(filtered))
	for _, d := range filtered {
		views = append(views, newDeviceView(d))
	}
	c.JSON(http.StatusOK, deviceListResponse{
		Devices: views,
		Total:   len(devices),
		Loading: h.store.DevicesLoading(),
	})
}

// GetDevice handles GET /api/devices/:id.
func (h *Handler) GetDevice(c *gin.Context) {
	d, ok := getOne(h, c, h.store.Devices())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newDeviceView(d))
}

func (h *Handler) CreateDevice(c *gin.Context) {
	create(h, c, devicesCollection, h.store.Devices())
}

func (h *Handler) UpdateDevice(c *gin.Context) {
	replace(h, c, devicesCollection, h.store.Devices(), func(d *model.Device, id string) { d.ID = id })
}

func (h *Handler) DeleteDevice(c *gin.Context) {
	remove(h, c, devicesCollection, h.store.Devices())
}

type loadingRequest struct {
	Loading *bool `json:"loading" binding:"required"`
}

// GetDevicesLoading handles GET /api/loading/devices.
func (h *Handler) GetDevicesLoading(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loading": h.store.DevicesLoading()})
}

// PutDevicesLoading handles PUT /api/loading/devices.
func (h *Handler) PutDevicesLoading(c *gin.Context) {
	var req loadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.SetDevicesLoading(*req.Loading)
	c.JSON(http.StatusOK, gin.H{"loading": *req.Loading})
}
