package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medtrack-backend/config"
	"medtrack-backend/internal/api"
	"medtrack-backend/internal/db"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/monitor"
	"medtrack-backend/internal/store"
)

// TestDeviceLifecycle drives the HTTP API over the sqlite-backed store: a
// device with a weak battery is added, the monitor raises an alert for it,
// the alert is worked through its states and the device is retired.
func TestDeviceLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	// --- Test Setup ---
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	testDB, err := db.Open(&cfg.Database, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	appStore := store.NewGormStore(testDB)
	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	_, err = store.Seed(ctx, appStore, seed)
	require.NoError(t, err)

	router := api.NewRouter(appStore, cfg, zap.NewNop())
	call := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// --- Step 1: add a device through the API ---
	w := call(http.MethodPost, "/api/devices", model.Device{
		ID: "DEV004", Type: "Infusion Pump", FacilityName: "City Hospital", Status: model.DeviceOnline,
		BatteryLevel: 12, LastServiceDate: "2099-01-01", InstallationDate: "2024-05-02", AMCStatus: model.ContractActive,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(http.MethodGet, "/api/devices?search=pump", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Devices []model.Device `json:"devices"`
		Total   int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Devices, 1)
	assert.Equal(t, "DEV004", listed.Devices[0].ID)
	assert.Equal(t, 4, listed.Total)

	// --- Step 2: the monitor raises a battery alert ---
	monitorSvc := monitor.NewService(cfg, appStore, zap.NewNop())
	_, err = monitorSvc.ScanOnce(ctx)
	require.NoError(t, err)

	alerts, err := appStore.Alerts().List(ctx)
	require.NoError(t, err)
	var battery *model.Alert
	for i := range alerts {
		if alerts[i].Type == model.AlertBatteryLow {
			battery = &alerts[i]
		}
	}
	require.NotNil(t, battery, "a Battery Low alert should be raised for DEV004")
	assert.Equal(t, "DEV004", battery.DeviceID)
	assert.Equal(t, model.SeverityHigh, battery.Severity)

	// --- Step 3: acknowledge and resolve it ---
	w = call(http.MethodPost, "/api/alerts/"+battery.ID+"/acknowledge", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = call(http.MethodPost, "/api/alerts/"+battery.ID+"/resolve", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = call(http.MethodPost, "/api/alerts/"+battery.ID+"/acknowledge", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	stored, err := appStore.Alerts().Get(ctx, battery.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AlertResolved, stored.Status)
	require.NotNil(t, stored.AcknowledgedAt)
	require.NotNil(t, stored.ResolvedAt)

	// --- Step 4: schedule an installation and read back its progress ---
	w = call(http.MethodPost, "/api/installations", map[string]any{
		"deviceId":         "DEV004",
		"facilityName":     "City Hospital",
		"installationDate": "2024-05-02",
		"technician":       "John Smith",
		"checklist":        map[string]bool{"unboxingPhotos": true, "functionalTest": true, "trainingCompleted": true},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var scheduled struct {
		ID       string `json:"id"`
		Progress int    `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scheduled))
	assert.Equal(t, 75, scheduled.Progress)

	w = call(http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalDevices":4,"onlineDevices":3,"maintenanceDevices":1,"pendingInstallations":1,"expiringContracts":1}`, w.Body.String())

	// --- Step 5: retire the device; the installation keeps a dangling reference ---
	w = call(http.MethodDelete, "/api/devices/DEV004", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = call(http.MethodDelete, "/api/devices/DEV004", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(http.MethodGet, "/api/installations/"+scheduled.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Nil(t, detail["device"])
}
