// Package derive computes the read-only views the dashboard shows on top of the
// store collections. Every function is pure: inputs are snapshots, nothing is
// cached, and the result is recomputed on each call.
package derive

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"medtrack-backend/internal/model"
	"medtrack-backend/internal/parse"
)

// FilterDevices returns the devices whose type, facility name or id contains
// searchTerm (case-insensitive) and whose status matches statusFilter. The
// filter "all" matches every status. Input order is preserved.
func FilterDevices(devices []model.Device, searchTerm, statusFilter string) []model.Device {
	term := strings.ToLower(searchTerm)
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if statusFilter != parse.StatusAll && string(d.Status) != statusFilter {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(d.Type), term) &&
			!strings.Contains(strings.ToLower(d.FacilityName), term) &&
			!strings.Contains(strings.ToLower(d.ID), term) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Stats are the counters shown on the dashboard cards.
type Stats struct {
	TotalDevices         int `json:"totalDevices"`
	OnlineDevices        int `json:"onlineDevices"`
	MaintenanceDevices   int `json:"maintenanceDevices"`
	PendingInstallations int `json:"pendingInstallations"`
	ExpiringContracts    int `json:"expiringContracts"`
}

func ComputeStats(devices []model.Device, installations []model.Installation, contracts []model.AMCContract) Stats {
	s := Stats{TotalDevices: len(devices)}
	for _, d := range devices {
		switch d.Status {
		case model.DeviceOnline:
			s.OnlineDevices++
		case model.DeviceMaintenance:
			s.MaintenanceDevices++
		}
	}
	for _, i := range installations {
		if i.Status == model.WorkScheduled {
			s.PendingInstallations++
		}
	}
	for _, c := range contracts {
		if c.Status == model.ContractExpiringSoon {
			s.ExpiringContracts++
		}
	}
	return s
}

// ChecklistProgress is the share of completed checklist items as a whole
// percentage, rounded half up.
func ChecklistProgress(c model.Checklist) int {
	flags := c.Flags()
	done := 0
	for _, f := range flags {
		if f {
			done++
		}
	}
	return int(math.Floor(100*float64(done)/float64(len(flags)) + 0.5))
}

const secondsPerDay = 24 * 60 * 60

// DaysUntilExpiry counts calendar days from now to end. Time of day is ignored
// on both sides: end is taken as a date, and now is reduced to its date in its
// own location. Past dates give negative values.
func DaysUntilExpiry(end, now time.Time) int {
	ey, em, ed := end.Date()
	ny, nm, nd := now.Date()
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int((e.Unix() - n.Unix()) / secondsPerDay)
}

// ContractStatusAt classifies a contract end date relative to now. A contract
// within windowDays of its end is Expiring Soon.
func ContractStatusAt(end, now time.Time, windowDays int) model.ContractStatus {
	days := DaysUntilExpiry(end, now)
	switch {
	case days < 0:
		return model.ContractExpired
	case days <= windowDays:
		return model.ContractExpiringSoon
	default:
		return model.ContractActive
	}
}

func TotalContractValue(contracts []model.AMCContract) float64 {
	var total float64
	for _, c := range contracts {
		total += c.ContractValue
	}
	return total
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders v with thousands separators, e.g. 23000 -> "23,000".
func FormatAmount(v float64) string {
	return amountPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// ContractSummary backs the contracts overview cards.
type ContractSummary struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	ExpiringSoon   int     `json:"expiringSoon"`
	Expired        int     `json:"expired"`
	TotalValue     float64 `json:"totalValue"`
	FormattedValue string  `json:"formattedValue"`
}

func SummarizeContracts(contracts []model.AMCContract) ContractSummary {
	s := ContractSummary{Total: len(contracts)}
	for _, c := range contracts {
		switch c.Status {
		case model.ContractActive:
			s.Active++
		case model.ContractExpiringSoon:
			s.ExpiringSoon++
		case model.ContractExpired:
			s.Expired++
		}
	}
	s.TotalValue = TotalContractValue(contracts)
	s.FormattedValue = FormatAmount(s.TotalValue)
	return s
}

// Band is a coarse battery health bucket.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandLow  Band = "low"
)

func BatteryBand(level int) Band {
	switch {
	case level > 60:
		return BandGood
	case level > 30:
		return BandFair
	default:
		return BandLow
	}
}

// Drift is a device whose amcStatus disagrees with its contract.
type Drift struct {
	DeviceID       string               `json:"deviceId"`
	DeviceStatus   model.ContractStatus `json:"deviceAmcStatus"`
	ContractID     string               `json:"contractId"`
	ContractStatus model.ContractStatus `json:"contractStatus"`
}

// AMCDrift compares each device's amcStatus with the status of its contract.
// When a device has several contracts the one ending last wins. Devices
// without a contract are not reported.
func AMCDrift(devices []model.Device, contracts []model.AMCContract) []Drift {
	latest := make(map[string]model.AMCContract, len(contracts))
	for _, c := range contracts {
		if cur, ok := latest[c.DeviceID]; !ok || c.EndDate >= cur.EndDate {
			latest[c.DeviceID] = c
		}
	}
	var out []Drift
	for _, d := range devices {
		c, ok := latest[d.ID]
		if !ok || c.Status == d.AMCStatus {
			continue
		}
		out = append(out, Drift{
			DeviceID:       d.ID,
			DeviceStatus:   d.AMCStatus,
			ContractID:     c.ID,
			ContractStatus: c.Status,
		})
	}
	return out
}

// AlertSummary backs the alert overview cards.
type AlertSummary struct {
	ActiveHigh    int `json:"activeHigh"`
	ActiveMedium  int `json:"activeMedium"`
	Low           int `json:"low"`
	ResolvedToday int `json:"resolvedToday"`
}

// SummarizeAlerts counts alerts for the overview. "Today" is the calendar day
// of now in loc.
func SummarizeAlerts(alerts []model.Alert, now time.Time, loc *time.Location) AlertSummary {
	var s AlertSummary
	ty, tm, td := now.In(loc).Date()
	for _, a := range alerts {
		if a.Status == model.AlertActive {
			switch a.Severity {
			case model.SeverityHigh:
				s.ActiveHigh++
			case model.SeverityMedium:
				s.ActiveMedium++
			}
		}
		if a.Severity == model.SeverityLow {
			s.Low++
		}
		if a.Status == model.AlertResolved && a.ResolvedAt != nil {
			y, m, d := a.ResolvedAt.In(loc).Date()
			if y == ty && m == tm && d == td {
				s.ResolvedToday++
			}
		}
	}
	return s
}
