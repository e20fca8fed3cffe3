package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"medtrack-backend/config"
	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/mw"
	"medtrack-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, log *zap.Logger) *gin.Engine {
	return newRouter(NewHandler(s, log, cfg.Location), cfg, log)
}

func newRouter(handler *Handler, cfg *config.Config, log *zap.Logger) *gin.Engine {
	metrics.Init()

	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "revision": handler.store.Revision()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Reports are the only expensive reads. The cache key includes the store
	// revision, so the TTL only bounds memory.
	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl, handler.store.Revision)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/devices", handler.ListDevices)
		api.POST("/devices", handler.CreateDevice)
		api.GET("/devices/:id", handler.GetDevice)
		api.PUT("/devices/:id", handler.UpdateDevice)
		api.DELETE("/devices/:id", handler.DeleteDevice)

		api.GET("/loading/devices", handler.GetDevicesLoading)
		api.PUT("/loading/devices", handler.PutDevicesLoading)

		api.GET("/installations", handler.ListInstallations)
		api.POST("/installations", handler.ScheduleInstallation)
		api.GET("/installations/:id", handler.GetInstallation)
		api.PUT("/installations/:id", handler.UpdateInstallation)
		api.DELETE("/installations/:id", handler.DeleteInstallation)

		api.GET("/services", handler.ListServiceVisits)
		api.POST("/services", handler.CreateServiceVisit)
		api.GET("/services/:id", handler.GetServiceVisit)
		api.PUT("/services/:id", handler.UpdateServiceVisit)
		api.DELETE("/services/:id", handler.DeleteServiceVisit)

		api.GET("/contracts", handler.ListContracts)
		api.POST("/contracts", handler.CreateContract)
		api.GET("/contracts/:id", handler.GetContract)
		api.PUT("/contracts/:id", handler.UpdateContract)
		api.DELETE("/contracts/:id", handler.DeleteContract)

		api.GET("/dashboard/stats", handler.GetStats)
		api.GET("/dashboard/contracts", handler.GetContractSummary)
		api.GET("/dashboard/alerts", handler.GetAlertSummary)
		api.GET("/dashboard/amc-drift", handler.GetAMCDrift)

		api.GET("/alerts", handler.ListAlerts)
		api.POST("/alerts/:id/acknowledge", handler.AcknowledgeAlert)
		api.POST("/alerts/:id/resolve", handler.ResolveAlert)

		api.GET("/reports/inventory.xlsx", caching, handler.GetInventoryReport)
		api.GET("/reports/contracts.pdf", caching, handler.GetContractsReport)
	}

	return r
}
