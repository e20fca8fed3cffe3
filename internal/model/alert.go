package model

import (
	"errors"
	"time"
)

// AlertSeverity ranks how urgently an alert needs attention.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "High"
	SeverityMedium AlertSeverity = "Medium"
	SeverityLow    AlertSeverity = "Low"
)

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "Active"
	AlertAcknowledged AlertStatus = "Acknowledged"
	AlertResolved     AlertStatus = "Resolved"
)

// AlertType names the rule that raised an alert.
type AlertType string

const (
	AlertBatteryLow        AlertType = "Battery Low"
	AlertContractExpiring  AlertType = "Contract Expiring"
	AlertContractExpired   AlertType = "Contract Expired"
	AlertMaintenanceDue    AlertType = "Maintenance Due"
	AlertAMCStatusMismatch AlertType = "AMC Status Mismatch"
)

// ErrInvalidTransition is returned when an alert cannot move to the requested status.
var ErrInvalidTransition = errors.New("invalid alert status transition")

// Alert is a device issue raised by the monitor.
type Alert struct {
	ID             string        `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Type           AlertType     `gorm:"size:64;not null;index" json:"type" validate:"required"`
	DeviceID       string        `gorm:"size:64;index" json:"deviceId" validate:"required"`
	Message        string        `json:"message"`
	Severity       AlertSeverity `gorm:"size:16;not null" json:"severity" validate:"required,oneof=High Medium Low"`
	Timestamp      time.Time     `gorm:"not null" json:"timestamp"`
	Status         AlertStatus   `gorm:"size:16;not null" json:"status" validate:"required,oneof=Active Acknowledged Resolved"`
	AcknowledgedAt *time.Time    `json:"acknowledgedAt,omitempty"`
	ResolvedAt     *time.Time    `json:"resolvedAt,omitempty"`

	Seq int64 `gorm:"autoCreateTime:nano;index" json:"-"`
}

func (Alert) TableName() string { return "alerts" }

func (a Alert) Key() string { return a.ID }

func (a Alert) Clone() Alert {
	if a.AcknowledgedAt != nil {
		t := *a.AcknowledgedAt
		a.AcknowledgedAt = &t
	}
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		a.ResolvedAt = &t
	}
	return a
}

// Open reports whether the alert still needs handling.
func (a Alert) Open() bool {
	return a.Status != AlertResolved
}

// Acknowledge moves an active alert to Acknowledged.
func (a *Alert) Acknowledge(at time.Time) error {
	if a.Status != AlertActive {
		return ErrInvalidTransition
	}
	a.Status = AlertAcknowledged
	a.AcknowledgedAt = &at
	return nil
}

// Resolve closes an active or acknowledged alert.
func (a *Alert) Resolve(at time.Time) error {
	if a.Status == AlertResolved {
		return ErrInvalidTransition
	}
	a.Status = AlertResolved
	a.ResolvedAt = &at
	return nil
}
