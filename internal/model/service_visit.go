package model

import (
	"slices"

	"gorm.io/datatypes"
)

// VisitPurpose classifies why an engineer visited a device.
type VisitPurpose string

const (
	PurposePreventive   VisitPurpose = "Preventive"
	PurposeBreakdown    VisitPurpose = "Breakdown"
	PurposeInstallation VisitPurpose = "Installation"
	PurposeTraining     VisitPurpose = "Training"
)

// ServiceVisit is a single engineer visit to a device.
type ServiceVisit struct {
	ID          string                      `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required"`
	DeviceID    string                      `gorm:"size:64;index" json:"deviceId" yaml:"deviceId" validate:"required"`
	Date        string                      `gorm:"size:10" json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Engineer    string                      `gorm:"size:128" json:"engineer" yaml:"engineer" validate:"required"`
	Purpose     VisitPurpose                `gorm:"size:32;not null" json:"purpose" yaml:"purpose" validate:"required,oneof=Preventive Breakdown Installation Training"`
	Notes       string                      `json:"notes" yaml:"notes"`
	Attachments datatypes.JSONSlice[string] `json:"attachments" yaml:"attachments"`
	Status      WorkStatus                  `gorm:"size:32;not null" json:"status" yaml:"status" validate:"required,oneof=Scheduled 'In Progress' Completed"`
	Duration    float64                     `json:"duration" yaml:"duration" validate:"gte=0"` // hours

	Seq int64 `gorm:"autoCreateTime:nano;index" json:"-" yaml:"-"`
}

func (ServiceVisit) TableName() string { return "service_visits" }

func (v ServiceVisit) Key() string { return v.ID }

func (v ServiceVisit) Clone() ServiceVisit {
	v.Attachments = slices.Clone(v.Attachments)
	return v
}
