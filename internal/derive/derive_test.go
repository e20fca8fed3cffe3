package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medtrack-backend/internal/model"
)

func sampleDevices() []model.Device {
	return []model.Device{
		{ID: "DEV001", Type: "ECG Monitor", FacilityName: "City Hospital", Status: model.DeviceOnline, AMCStatus: model.ContractActive},
		{ID: "DEV002", Type: "Ventilator", FacilityName: "Metro Medical Center", Status: model.DeviceMaintenance, AMCStatus: model.ContractExpiringSoon},
		{ID: "DEV003", Type: "Defibrillator", FacilityName: "General Hospital", Status: model.DeviceOnline, AMCStatus: model.ContractActive},
	}
}

func deviceIDs(devices []model.Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.ID)
	}
	return out
}

func TestFilterDevices(t *testing.T) {
	testCases := []struct {
		name     string
		search   string
		status   string
		expected []string
	}{
		{name: "Empty search with all returns everything in order", search: "", status: "all", expected: []string{"DEV001", "DEV002", "DEV003"}},
		{name: "Search matches type case-insensitively", search: "ecg", status: "all", expected: []string{"DEV001"}},
		{name: "Search matches facility name", search: "HOSPITAL", status: "all", expected: []string{"DEV001", "DEV003"}},
		{name: "Search matches id", search: "dev002", status: "all", expected: []string{"DEV002"}},
		{name: "Status filter is exact", search: "", status: "Online", expected: []string{"DEV001", "DEV003"}},
		{name: "Search and status combine", search: "general", status: "Online", expected: []string{"DEV003"}},
		{name: "No match gives an empty result", search: "mri", status: "all", expected: []string{}},
		{name: "Status filter does not lower-case", search: "", status: "online", expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterDevices(sampleDevices(), tc.search, tc.status)
			assert.NotNil(t, got)
			assert.Equal(t, tc.expected, deviceIDs(got))
		})
	}
}

func TestComputeStats(t *testing.T) {
	installations := []model.Installation{
		{ID: "INST001", Status: model.WorkCompleted},
		{ID: "INST002", Status: model.WorkScheduled},
	}
	contracts := []model.AMCContract{
		{ID: "AMC001", Status: model.ContractActive},
		{ID: "AMC002", Status: model.ContractExpiringSoon},
	}

	got := ComputeStats(sampleDevices(), installations, contracts)
	assert.Equal(t, Stats{
		TotalDevices:         3,
		OnlineDevices:        2,
		MaintenanceDevices:   1,
		PendingInstallations: 1,
		ExpiringContracts:    1,
	}, got)

	assert.Equal(t, Stats{}, ComputeStats(nil, nil, nil))
}

func TestChecklistProgress(t *testing.T) {
	testCases := []struct {
		name      string
		checklist model.Checklist
		expected  int
	}{
		{name: "Nothing done", checklist: model.Checklist{}, expected: 0},
		{name: "One of four", checklist: model.Checklist{UnboxingPhotos: true}, expected: 25},
		{name: "Half done", checklist: model.Checklist{UnboxingPhotos: true, FunctionalTest: true}, expected: 50},
		{name: "Three of four", checklist: model.Checklist{UnboxingPhotos: true, FunctionalTest: true, DocumentationSigned: true}, expected: 75},
		{name: "All done", checklist: model.Checklist{UnboxingPhotos: true, FunctionalTest: true, TrainingCompleted: true, DocumentationSigned: true}, expected: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ChecklistProgress(tc.checklist))
		})
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2024, 7, 1, 18, 30, 0, 0, time.UTC)
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	testCases := []struct {
		name     string
		end      time.Time
		now      time.Time
		expected int
	}{
		{name: "Fifteen days ahead", end: date(2024, 7, 16), now: now, expected: 15},
		{name: "Ten days ago is negative", end: date(2024, 6, 21), now: now, expected: -10},
		{name: "Same day is zero", end: date(2024, 7, 1), now: now, expected: 0},
		{name: "Crosses a year boundary", end: date(2025, 1, 15), now: now, expected: 198},
		{name: "Perpetual end date", end: date(9999, 12, 31), now: now, expected: 2912991},
		{name: "Earliest representable date", end: date(1, 1, 1), now: now, expected: -739067},
		{
			name:     "Now is reduced to its own local date",
			end:      date(2024, 7, 2),
			now:      time.Date(2024, 7, 1, 23, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DaysUntilExpiry(tc.end, tc.now))
		})
	}
}

func TestContractStatusAt(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	testCases := []struct {
		name     string
		end      time.Time
		expected model.ContractStatus
	}{
		{name: "Past end date", end: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), expected: model.ContractExpired},
		{name: "Ends today", end: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), expected: model.ContractExpiringSoon},
		{name: "Edge of the window", end: time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), expected: model.ContractExpiringSoon},
		{name: "Beyond the window", end: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), expected: model.ContractActive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ContractStatusAt(tc.end, now, 30))
		})
	}
}

func TestSummarizeContracts(t *testing.T) {
	contracts := []model.AMCContract{
		{ID: "AMC001", Status: model.ContractActive, ContractValue: 15000},
		{ID: "AMC002", Status: model.ContractExpiringSoon, ContractValue: 8000},
		{ID: "AMC003", Status: model.ContractExpired, ContractValue: 1234567.5},
	}

	got := SummarizeContracts(contracts)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Active)
	assert.Equal(t, 1, got.ExpiringSoon)
	assert.Equal(t, 1, got.Expired)
	assert.Equal(t, 1257567.5, got.TotalValue)
	assert.Equal(t, "1,257,567.5", got.FormattedValue)

	assert.Equal(t, "23,000", FormatAmount(TotalContractValue(contracts[:2])))
	assert.Equal(t, "0", FormatAmount(TotalContractValue(nil)))
}

func TestBatteryBand(t *testing.T) {
	testCases := []struct {
		level    int
		expected Band
	}{
		{level: 100, expected: BandGood},
		{level: 61, expected: BandGood},
		{level: 60, expected: BandFair},
		{level: 31, expected: BandFair},
		{level: 30, expected: BandLow},
		{level: 0, expected: BandLow},
	}

	for _, tc := range testCases {
		t.Run(string(tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, BatteryBand(tc.level))
		})
	}
}

func TestAMCDrift(t *testing.T) {
	contracts := []model.AMCContract{
		{ID: "AMC001", DeviceID: "DEV001", EndDate: "2025-01-15", Status: model.ContractActive},
		{ID: "AMC002", DeviceID: "DEV002", EndDate: "2024-08-10", Status: model.ContractExpiringSoon},
		{ID: "AMC000", DeviceID: "DEV003", EndDate: "2023-03-01", Status: model.ContractActive},
		{ID: "AMC003", DeviceID: "DEV003", EndDate: "2024-03-01", Status: model.ContractExpired},
	}

	got := AMCDrift(sampleDevices(), contracts)
	assert.Equal(t, []Drift{{
		DeviceID:       "DEV003",
		DeviceStatus:   model.ContractActive,
		ContractID:     "AMC003",
		ContractStatus: model.ContractExpired,
	}}, got)

	assert.Empty(t, AMCDrift(sampleDevices(), nil))
}

func TestSummarizeAlerts(t *testing.T) {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	today := now.Add(-2 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	alerts := []model.Alert{
		{ID: "a1", Severity: model.SeverityHigh, Status: model.AlertActive},
		{ID: "a2", Severity: model.SeverityHigh, Status: model.AlertAcknowledged},
		{ID: "a3", Severity: model.SeverityMedium, Status: model.AlertActive},
		{ID: "a4", Severity: model.SeverityLow, Status: model.AlertResolved, ResolvedAt: &today},
		{ID: "a5", Severity: model.SeverityHigh, Status: model.AlertResolved, ResolvedAt: &yesterday},
	}

	assert.Equal(t, AlertSummary{
		ActiveHigh:    1,
		ActiveMedium:  1,
		Low:           1,
		ResolvedToday: 1,
	}, SummarizeAlerts(alerts, now, time.UTC))
}
