package models

import "time"

// Reference table names.
const (
	ReferenceOrg           = "org_structure"
	ReferenceDevices       = "devices"
	ReferenceCommissioning = "commissioning"
)

// Reference table headers.
const (
	ColumnUnit           = "НГДУ"
	ColumnSubUnit        = "ЦДНГ"
	ColumnGroup          = "Бригада"
	ColumnDeviceName     = "name"
	ColumnControllerID   = "controller_id"
	ColumnSensorID       = "sensor_id"
	ColumnCommissionedAt = "Дата ввода в эксплуатацию"
	ColumnInactiveSince  = "Дата перевода в ДФ"
)

// OrgUnit maps a well to its administrative grouping.
type OrgUnit struct {
	WellID  string `json:"wellId"`
	Unit    string `json:"unit"`
	SubUnit string `json:"subUnit"`
	Group   string `json:"group"`
}

// DeviceMapping maps a well to its controller and sensor identifiers.
type DeviceMapping struct {
	WellID       string `json:"wellId"`
	ControllerID string `json:"controllerId"`
	SensorID     string `json:"sensorId"`
}

// Commissioning holds the raw date cells for a well; they are parsed when the report is built.
type Commissioning struct {
	WellID         string `json:"wellId"`
	CommissionedAt string `json:"commissionedAt"`
	InactiveSince  string `json:"inactiveSince"`
}

// ReferenceSet is an immutable, deduplicated bundle of the three reference tables.
type ReferenceSet struct {
	Org           map[string]OrgUnit
	Devices       map[string]DeviceMapping
	Commissioning map[string]Commissioning
	Version       string
	LoadedAt      time.Time
}

// ReferenceStatus summarises the loaded reference tables.
type ReferenceStatus struct {
	Loaded    bool           `json:"loaded"`
	Version   string         `json:"version,omitempty"`
	LoadedAt  *time.Time     `json:"loadedAt,omitempty"`
	Rows      map[string]int `json:"rows,omitempty"`
	Policy    string         `json:"policy"`
	LastError string         `json:"lastError,omitempty"`
}
