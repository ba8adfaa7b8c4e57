package inventory

// Status is the three-way stock classification of a summary.
type Status string

const (
	StatusOutOfStock Status = "out_of_stock"
	StatusLowStock   Status = "low_stock"
	StatusInStock    Status = "in_stock"
)

// Classify returns exactly one status for a summary:
//
//	out_of_stock  total == 0
//	low_stock     0 < total <= threshold
//	in_stock      total > threshold
func Classify(s *Summary) Status {
	switch {
	case s.TotalQuantity <= 0:
		return StatusOutOfStock
	case s.TotalQuantity <= s.LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
