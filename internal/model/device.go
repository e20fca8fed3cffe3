package model

// DeviceStatus is the operational state of a device.
type DeviceStatus string

const (
	DeviceOnline      DeviceStatus = "Online"
	DeviceOffline     DeviceStatus = "Offline"
	DeviceMaintenance DeviceStatus = "Maintenance"
)

// Device is a tracked piece of medical equipment.
//
// AMCStatus mirrors the status of the device's maintenance contract. It is
// written by whoever edits the device and is never synchronised with the
// contract record; see derive.AMCDrift for detecting divergence.
type Device struct {
	ID               string         `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required"`
	Type             string         `gorm:"size:128;not null" json:"type" yaml:"type" validate:"required"`
	FacilityName     string         `gorm:"size:256;not null" json:"facilityName" yaml:"facilityName" validate:"required"`
	Status           DeviceStatus   `gorm:"size:32;not null" json:"status" yaml:"status" validate:"required,oneof=Online Offline Maintenance"`
	BatteryLevel     int            `gorm:"not null" json:"batteryLevel" yaml:"batteryLevel" validate:"min=0,max=100"`
	LastServiceDate  string         `gorm:"size:10" json:"lastServiceDate" yaml:"lastServiceDate" validate:"omitempty,datetime=2006-01-02"`
	InstallationDate string         `gorm:"size:10" json:"installationDate" yaml:"installationDate" validate:"required,datetime=2006-01-02"`
	AMCStatus        ContractStatus `gorm:"column:amc_status;size:32" json:"amcStatus" yaml:"amcStatus" validate:"required,oneof=Active Expired 'Expiring Soon'"`
	Location         string         `gorm:"size:256" json:"location" yaml:"location"`
	SerialNumber     string         `gorm:"size:128" json:"serialNumber" yaml:"serialNumber"`

	Seq int64 `gorm:"autoCreateTime:nano;index" json:"-" yaml:"-"`
}

func (Device) TableName() string { return "devices" }

func (d Device) Key() string { return d.ID }

func (d Device) Clone() Device { return d }
