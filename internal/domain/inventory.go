package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Departments is the closed set of organizational units that scope
// inventory ownership and staff permissions.
var Departments = []string{
	"IT",
	"AI&DS",
	"CSE",
	"Physics",
	"Chemistry",
	"Bio-tech",
	"Chemical",
	"Mechanical",
}

// CabinDepartments are the departments whose items carry a cabin number in
// the UI. Other departments may still store one; it is not structurally
// forbidden.
var CabinDepartments = []string{"IT", "AI&DS", "CSE"}

func IsValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// DefaultLowStockThreshold is applied when an item carries no threshold.
const DefaultLowStockThreshold = 5

// InventoryItem is a single physical unit or batch of a catalog entry.
// Multiple rows may share the same (department, name) pair; reporting sums
// their quantities.
type InventoryItem struct {
	ID                int64          `json:"id,string" form:"id"`
	Name              string         `gorm:"index" json:"name" form:"name"`
	Category          string         `json:"category" form:"category"`
	Model             string         `json:"model" form:"model"`
	SerialNumber      string         `json:"serial_number" form:"serial_number"`
	Quantity          int            `json:"quantity" form:"quantity"`
	Department        string         `gorm:"index;size:32" json:"department" form:"department"`
	Location          string         `json:"location" form:"location"`
	CabinNumber       string         `json:"cabin_number" form:"cabin_number"`
	LowStockThreshold int            `json:"low_stock_threshold" form:"low_stock_threshold"`
	Status            string         `json:"status" form:"status"`
	UnitPrice         float64        `json:"unit_price" form:"unit_price"`
	ImageUrl          string         `gorm:"size:1024" json:"image_url" form:"image_url"`
	Specifications    datatypes.JSON `json:"specifications" form:"specifications"`
	CreatedBy         int64          `json:"created_by,string" form:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// Alert severity levels and types.
const (
	AlertSeverityHigh   = "high"
	AlertSeverityMedium = "medium"
	AlertSeverityLow    = "low"

	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// Alert is raised when a stock summary crosses into low or out-of-stock.
// ItemID is nullable: the referenced item may have been deleted since.
type Alert struct {
	ID         int64      `json:"id,string" form:"id"`
	ItemID     *int64     `gorm:"index" json:"item_id,string" form:"item_id"`
	AlertType  string     `gorm:"size:32;index" json:"alert_type" form:"alert_type"`
	Message    string     `json:"message" form:"message"`
	Severity   string     `gorm:"size:16" json:"severity" form:"severity"`
	IsResolved bool       `gorm:"index" json:"is_resolved" form:"is_resolved"`
	ResolvedBy *int64     `json:"resolved_by,string" form:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName Specify table name
func (Alert) TableName() string {
	return "alerts"
}
