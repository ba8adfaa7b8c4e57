// Package inventory implements the stock aggregation engine and the
// stock-status classifier shared by the dashboard, department and admin
// views. Everything here is pure: no database access, no mutation of the
// input slice.
package inventory

import (
	"fmt"

	"github.com/stocknexus/stocknexus/internal/domain"
)

// Summary is the derived aggregate of all inventory rows sharing a
// (department, name) key.
type Summary struct {
	Department        string                 `json:"department"`
	Name              string                 `json:"name"`
	TotalQuantity     int                    `json:"total_quantity"`
	LowStockThreshold int                    `json:"low_stock_threshold"`
	Items             []domain.InventoryItem `json:"items"`
}

// Key returns the aggregation key of the summary.
func (s *Summary) Key() string {
	return summaryKey(s.Department, s.Name)
}

func summaryKey(department, name string) string {
	return fmt.Sprintf("%s|%s", department, name)
}

// SummarySet is an ordered collection of summaries keyed by
// (department, name). Iteration order is first-occurrence order of the
// input rows; callers that need a different order sort the Summaries()
// slice themselves.
type SummarySet struct {
	order []string
	byKey map[string]*Summary
}

// Aggregate groups inventory rows by (department, name) and sums their
// quantities. The low-stock threshold of a group is taken from the first
// row encountered; if constituent rows genuinely diverge the result is
// order dependent (tolerated, see Summary docs). A row without a threshold
// defaults to domain.DefaultLowStockThreshold.
func Aggregate(items []domain.InventoryItem) *SummarySet {
	set := &SummarySet{byKey: make(map[string]*Summary, len(items))}
	for _, item := range items {
		key := summaryKey(item.Department, item.Name)
		s, found := set.byKey[key]
		if !found {
			threshold := item.LowStockThreshold
			if threshold <= 0 {
				threshold = domain.DefaultLowStockThreshold
			}
			s = &Summary{
				Department:        item.Department,
				Name:              item.Name,
				LowStockThreshold: threshold,
			}
			set.byKey[key] = s
			set.order = append(set.order, key)
		}
		s.TotalQuantity += item.Quantity
		s.Items = append(s.Items, item)
	}
	return set
}

// Len returns the number of distinct (department, name) aggregates.
func (s *SummarySet) Len() int {
	return len(s.order)
}

// Get looks up the summary for a department and item name.
func (s *SummarySet) Get(department, name string) (*Summary, bool) {
	sum, found := s.byKey[summaryKey(department, name)]
	return sum, found
}

// Summaries returns the aggregates in first-occurrence order.
func (s *SummarySet) Summaries() []*Summary {
	out := make([]*Summary, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

// TotalQuantity sums the quantities of all aggregates.
func (s *SummarySet) TotalQuantity() int {
	total := 0
	for _, key := range s.order {
		total += s.byKey[key].TotalQuantity
	}
	return total
}

// LowStockCount counts the distinct aggregates classified low-stock.
// Out-of-stock aggregates are not included; see OutOfStockCount.
func (s *SummarySet) LowStockCount() int {
	count := 0
	for _, key := range s.order {
		if Classify(s.byKey[key]) == StatusLowStock {
			count++
		}
	}
	return count
}

// OutOfStockCount counts the distinct aggregates with zero total quantity.
func (s *SummarySet) OutOfStockCount() int {
	count := 0
	for _, key := range s.order {
		if Classify(s.byKey[key]) == StatusOutOfStock {
			count++
		}
	}
	return count
}
