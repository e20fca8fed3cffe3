package model

// ContractType distinguishes annual from comprehensive maintenance contracts.
type ContractType string

const (
	ContractAMC ContractType = "AMC"
	ContractCMC ContractType = "CMC"
)

// ContractStatus is used both by contracts and by Device.AMCStatus.
type ContractStatus string

const (
	ContractActive       ContractStatus = "Active"
	ContractExpired      ContractStatus = "Expired"
	ContractExpiringSoon ContractStatus = "Expiring Soon"
)

// AMCContract is a maintenance agreement for a device.
type AMCContract struct {
	ID              string         `gorm:"primaryKey;size:64" json:"id" yaml:"id" validate:"required"`
	DeviceID        string         `gorm:"size:64;index" json:"deviceId" yaml:"deviceId" validate:"required"`
	ContractType    ContractType   `gorm:"size:8;not null" json:"contractType" yaml:"contractType" validate:"required,oneof=AMC CMC"`
	StartDate       string         `gorm:"size:10" json:"startDate" yaml:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate         string         `gorm:"size:10" json:"endDate" yaml:"endDate" validate:"required,datetime=2006-01-02"`
	Status          ContractStatus `gorm:"size:32;not null" json:"status" yaml:"status" validate:"required,oneof=Active Expired 'Expiring Soon'"`
	ContractValue   float64        `json:"contractValue" yaml:"contractValue" validate:"gte=0"`
	Vendor          string         `gorm:"size:256" json:"vendor" yaml:"vendor"`
	CoverageDetails string         `json:"coverageDetails" yaml:"coverageDetails"`

	Seq int64 `gorm:"autoCreateTime:nano;index" json:"-" yaml:"-"`
}

func (AMCContract) TableName() string { return "amc_contracts" }

func (c AMCContract) Key() string { return c.ID }

func (c AMCContract) Clone() AMCContract { return c }
