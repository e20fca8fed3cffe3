package model

import (
	"slices"

	"gorm.io/datatypes"
)

// WorkStatus is shared by installations and service visits.
type WorkStatus string

const (
	WorkScheduled  WorkStatus = "Scheduled"
	WorkInProgress WorkStatus = "In Progress"
	WorkCompleted  WorkStatus = "Completed"
)

// Checklist holds the four fixed completion flags of an installation.
type Checklist struct {
	UnboxingPhotos      bool `json:"unboxingPhotos" yaml:"unboxingPhotos"`
	FunctionalTest      bool `json:"functionalTest" yaml:"functionalTest"`
	TrainingCompleted   bool `json:"trainingCompleted" yaml:"trainingCompleted"`
	DocumentationSigned bool `json:"documentationSigned" yaml:"documentationSigned"`
}

// Flags returns the checklist values in a fixed order.
func (c Checklist) Flags() []bool {
	return []bool{c.UnboxingPhotos, c.FunctionalTest, c.TrainingCompleted, c.DocumentationSigned}
}

// Installation tracks the on-site setup of a device.
type Installation struct {
	ID               string                      `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required"`
	DeviceID         string                      `gorm:"size:64;index" json:"deviceId" yaml:"deviceId" validate:"required"`
	FacilityName     string                      `gorm:"size:256;not null" json:"facilityName" yaml:"facilityName" validate:"required"`
	InstallationDate string                      `gorm:"size:10" json:"installationDate" yaml:"installationDate" validate:"required,datetime=2006-01-02"`
	Technician       string                      `gorm:"size:128" json:"technician" yaml:"technician" validate:"required"`
	Status           WorkStatus                  `gorm:"size:32;not null" json:"status" yaml:"status" validate:"required,oneof=Scheduled 'In Progress' Completed"`
	Checklist        Checklist                   `gorm:"embedded;embeddedPrefix:checklist_" json:"checklist" yaml:"checklist"`
	Photos           datatypes.JSONSlice[string] `json:"photos" yaml:"photos"`
	Notes            string                      `json:"notes" yaml:"notes"`

	Seq int64 `gorm:"autoCreateTime:nano;index" json:"-" yaml:"-"`
}

func (Installation) TableName() string { return "installations" }

func (i Installation) Key() string { return i.ID }

func (i Installation) Clone() Installation {
	i.Photos = slices.Clone(i.Photos)
	return i
}

// InstallationDraft carries the fields entered when scheduling a new installation.
type InstallationDraft struct {
	DeviceID         string    `json:"deviceId" binding:"required"`
	FacilityName     string    `json:"facilityName" binding:"required"`
	InstallationDate string    `json:"installationDate" binding:"required"`
	Technician       string    `json:"technician" binding:"required"`
	Notes            string    `json:"notes"`
	Checklist        Checklist `json:"checklist"`
}
