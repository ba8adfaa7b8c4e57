package domain

import "time"

// Service record enumerations.
const (
	ServiceTypeInternal = "internal"
	ServiceTypeExternal = "external"

	ServiceNatureMaintenance  = "maintenance"
	ServiceNatureRepair       = "repair"
	ServiceNatureCalibration  = "calibration"
	ServiceNatureInstallation = "installation"

	ServiceStatusPending    = "pending"
	ServiceStatusInProgress = "in_progress"
	ServiceStatusCompleted  = "completed"
)

// ServiceRecord logs a maintenance/service event against a piece of
// equipment. EquipmentID may dangle after the item is deleted.
type ServiceRecord struct {
	ID                   int64     `json:"id,string" form:"id"`
	EquipmentID          int64     `gorm:"index" json:"equipment_id,string" form:"equipment_id"`
	Department           string    `gorm:"index;size:32" json:"department" form:"department"`
	ServiceType          string    `gorm:"size:16" json:"service_type" form:"service_type"`
	NatureOfService      string    `gorm:"size:32" json:"nature_of_service" form:"nature_of_service"`
	ServiceDate          time.Time `json:"service_date" form:"service_date"`
	Status               string    `gorm:"size:16;index" json:"status" form:"status"`
	TechnicianVendorName string    `json:"technician_vendor_name" form:"technician_vendor_name"`
	Cost                 *float64  `json:"cost" form:"cost"`
	Remarks              string    `json:"remarks" form:"remarks"`
	BillPhotoUrl         string    `gorm:"size:1024" json:"bill_photo_url" form:"bill_photo_url"`
	CreatedBy            int64     `json:"created_by,string" form:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName Specify table name
func (ServiceRecord) TableName() string {
	return "services"
}
