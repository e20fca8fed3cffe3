// Package monitor periodically checks the store against the alert rules and
// records an Alert for every new finding.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medtrack-backend/config"
	"medtrack-backend/internal/derive"
	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/parse"
	"medtrack-backend/internal/store"
)

// Service runs the alert rules against a store.
type Service struct {
	cfg   config.MonitorConfig
	loc   *time.Location
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a monitor for the given store.
func NewService(cfg *config.Config, s store.Store, log *zap.Logger) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		cfg:   cfg.Monitor,
		loc:   loc,
		store: s,
		log:   log.Named("monitor"),
		now:   time.Now,
	}
}

// Run scans once immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("monitor is disabled, not starting")
		return
	}
	s.log.Info("starting monitor", zap.Duration("interval", s.cfg.Interval))

	s.scan(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("monitor shutting down")
			return
		case <-timer.C:
			s.scan(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) scan(ctx context.Context) {
	raised, err := s.ScanOnce(ctx)
	if err != nil {
		s.log.Error("scan failed", zap.Error(err))
		return
	}
	s.log.Info("scan finished", zap.Int("raised", raised))
}

// ScanOnce evaluates every rule and stores the alerts that are not already
// open for the same device and type. It returns the number of alerts raised.
func (s *Service) ScanOnce(ctx context.Context) (int, error) {
	start := time.Now()
	raised, err := s.scanOnce(ctx)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveScan(result, time.Since(start))
	return raised, err
}

func (s *Service) scanOnce(ctx context.Context) (int, error) {
	devices, err := s.store.Devices().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list devices: %w", err)
	}
	contracts, err := s.store.Contracts().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list contracts: %w", err)
	}
	visits, err := s.store.ServiceVisits().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list service visits: %w", err)
	}
	existing, err := s.store.Alerts().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	open := make(map[findingKey]bool)
	for _, a := range existing {
		if a.Open() {
			open[findingKey{a.Type, a.DeviceID}] = true
		}
	}

	now := s.now()
	raised := 0
	for _, f := range s.Evaluate(devices, contracts, visits, now) {
		key := findingKey{f.Type, f.DeviceID}
		if open[key] {
			continue
		}
		alert := model.Alert{
			ID:        uuid.NewString(),
			Type:      f.Type,
			DeviceID:  f.DeviceID,
			Message:   f.Message,
			Severity:  f.Severity,
			Timestamp: now.UTC(),
			Status:    model.AlertActive,
		}
		if err := s.store.Alerts().Add(ctx, alert); err != nil {
			return raised, fmt.Errorf("failed to store %s alert for %s: %w", f.Type, f.DeviceID, err)
		}
		open[key] = true
		raised++
		metrics.IncAlertEvent(string(f.Type), "raised")
		s.log.Info("alert raised",
			zap.String("type", string(f.Type)),
			zap.String("device_id", f.DeviceID),
			zap.String("severity", string(f.Severity)))
	}
	return raised, nil
}

type findingKey struct {
	Type     model.AlertType
	DeviceID string
}

// Finding is a rule match before it is stored as an alert.
type Finding struct {
	Type     model.AlertType
	DeviceID string
	Severity model.AlertSeverity
	Message  string
}

// Evaluate applies the alert rules to a snapshot of the store.
func (s *Service) Evaluate(devices []model.Device, contracts []model.AMCContract, visits []model.ServiceVisit, now time.Time) []Finding {
	now = now.In(s.loc)
	var out []Finding

	lastVisit := make(map[string]string)
	for _, v := range visits {
		if v.Status == model.WorkCompleted && v.Date > lastVisit[v.DeviceID] {
			lastVisit[v.DeviceID] = v.Date
		}
	}

	for _, d := range devices {
		if d.BatteryLevel < s.cfg.BatteryLowPercent {
			out = append(out, Finding{
				Type:     model.AlertBatteryLow,
				DeviceID: d.ID,
				Severity: model.SeverityHigh,
				Message:  fmt.Sprintf("Battery level at %d%%, below %d%% - requires immediate attention", d.BatteryLevel, s.cfg.BatteryLowPercent),
			})
		}

		// The most recent of the device's own record and its completed visits.
		last := d.LastServiceDate
		if v := lastVisit[d.ID]; v > last {
			last = v
		}
		if last == "" {
			last = d.InstallationDate
		}
		serviced, err := parse.Date(last)
		if err != nil {
			s.log.Warn("skipping maintenance rule", zap.String("device_id", d.ID), zap.Error(err))
			continue
		}
		due := serviced.AddDate(0, 0, s.cfg.ServiceIntervalDays)
		if derive.DaysUntilExpiry(due, now) <= 0 {
			out = append(out, Finding{
				Type:     model.AlertMaintenanceDue,
				DeviceID: d.ID,
				Severity: model.SeverityLow,
				Message:  fmt.Sprintf("Scheduled maintenance due since %s (last service %s)", due.Format(parse.DateLayout), last),
			})
		}
	}

	for _, c := range contracts {
		end, err := parse.Date(c.EndDate)
		if err != nil {
			s.log.Warn("skipping contract rule", zap.String("contract_id", c.ID), zap.Error(err))
			continue
		}
		days := derive.DaysUntilExpiry(end, now)
		switch derive.ContractStatusAt(end, now, s.cfg.ExpiringWindowDays) {
		case model.ContractExpired:
			out = append(out, Finding{
				Type:     model.AlertContractExpired,
				DeviceID: c.DeviceID,
				Severity: model.SeverityHigh,
				Message:  fmt.Sprintf("%s contract %s expired %d days ago", c.ContractType, c.ID, -days),
			})
		case model.ContractExpiringSoon:
			out = append(out, Finding{
				Type:     model.AlertContractExpiring,
				DeviceID: c.DeviceID,
				Severity: model.SeverityMedium,
				Message:  fmt.Sprintf("%s contract %s expires in %d days", c.ContractType, c.ID, days),
			})
		}
	}

	for _, d := range derive.AMCDrift(devices, contracts) {
		out = append(out, Finding{
			Type:     model.AlertAMCStatusMismatch,
			DeviceID: d.DeviceID,
			Severity: model.SeverityLow,
			Message:  fmt.Sprintf("Device AMC status %q does not match contract %s status %q", d.DeviceStatus, d.ContractID, d.ContractStatus),
		})
	}
	return out
}
