package inventory

import (
	"reflect"
	"testing"

	"github.com/stocknexus/stocknexus/internal/domain"
)

func item(dept, name string, qty, threshold int) domain.InventoryItem {
	return domain.InventoryItem{
		Name:              name,
		Department:        dept,
		Quantity:          qty,
		LowStockThreshold: threshold,
	}
}

func TestAggregateExample(t *testing.T) {
	items := []domain.InventoryItem{
		item("IT", "Laptop", 3, 5),
		item("IT", "Laptop", 4, 5),
		item("IT", "Monitor", 0, 5),
	}

	set := Aggregate(items)
	if set.Len() != 2 {
		t.Fatalf("expected 2 aggregates, got %d", set.Len())
	}

	laptop, found := set.Get("IT", "Laptop")
	if !found {
		t.Fatal("Laptop aggregate missing")
	}
	if laptop.TotalQuantity != 7 {
		t.Errorf("Laptop total = %d, want 7", laptop.TotalQuantity)
	}
	if got := Classify(laptop); got != StatusInStock {
		t.Errorf("Classify(Laptop) = %q, want in_stock", got)
	}
	if len(laptop.Items) != 2 {
		t.Errorf("Laptop constituents = %d, want 2", len(laptop.Items))
	}

	monitor, _ := set.Get("IT", "Monitor")
	if monitor.TotalQuantity != 0 {
		t.Errorf("Monitor total = %d, want 0", monitor.TotalQuantity)
	}
	if got := Classify(monitor); got != StatusOutOfStock {
		t.Errorf("Classify(Monitor) = %q, want out_of_stock", got)
	}

	if got := set.LowStockCount(); got != 0 {
		t.Errorf("LowStockCount = %d, want 0", got)
	}
	if got := set.OutOfStockCount(); got != 1 {
		t.Errorf("OutOfStockCount = %d, want 1", got)
	}
}

func TestAggregateConservesTotalQuantity(t *testing.T) {
	items := []domain.InventoryItem{
		item("IT", "Laptop", 3, 5),
		item("CSE", "Laptop", 9, 5),
		item("IT", "Laptop", 4, 5),
		item("Physics", "Oscilloscope", 2, 3),
		item("IT", "Monitor", 0, 5),
		item("Physics", "Oscilloscope", 1, 3),
	}

	want := 0
	for _, it := range items {
		want += it.Quantity
	}
	if got := Aggregate(items).TotalQuantity(); got != want {
		t.Errorf("aggregated total = %d, want %d", got, want)
	}
}

func TestAggregateDoesNotMergeAcrossDepartments(t *testing.T) {
	set := Aggregate([]domain.InventoryItem{
		item("IT", "Laptop", 3, 5),
		item("CSE", "Laptop", 9, 5),
	})
	if set.Len() != 2 {
		t.Fatalf("expected 2 aggregates, got %d", set.Len())
	}
	itSum, _ := set.Get("IT", "Laptop")
	cseSum, _ := set.Get("CSE", "Laptop")
	if itSum.TotalQuantity != 3 || cseSum.TotalQuantity != 9 {
		t.Errorf("totals = %d/%d, want 3/9", itSum.TotalQuantity, cseSum.TotalQuantity)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	set := Aggregate(nil)
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d aggregates", set.Len())
	}
	if got := set.Summaries(); len(got) != 0 {
		t.Errorf("Summaries() = %v, want empty", got)
	}
}

func TestAggregateDefaultThreshold(t *testing.T) {
	set := Aggregate([]domain.InventoryItem{item("IT", "Cable", 2, 0)})
	s, _ := set.Get("IT", "Cable")
	if s.LowStockThreshold != domain.DefaultLowStockThreshold {
		t.Errorf("threshold = %d, want default %d", s.LowStockThreshold, domain.DefaultLowStockThreshold)
	}
	if got := Classify(s); got != StatusLowStock {
		t.Errorf("Classify = %q, want low_stock", got)
	}
}

func TestAggregateFirstSeenThresholdWins(t *testing.T) {
	set := Aggregate([]domain.InventoryItem{
		item("IT", "Laptop", 3, 10),
		item("IT", "Laptop", 4, 2),
	})
	s, _ := set.Get("IT", "Laptop")
	if s.LowStockThreshold != 10 {
		t.Errorf("threshold = %d, want first-seen 10", s.LowStockThreshold)
	}
}

func TestAggregatePreservesInsertionOrder(t *testing.T) {
	set := Aggregate([]domain.InventoryItem{
		item("IT", "Monitor", 1, 5),
		item("IT", "Laptop", 3, 5),
		item("IT", "Monitor", 2, 5),
		item("CSE", "Router", 4, 5),
	})
	var names []string
	for _, s := range set.Summaries() {
		names = append(names, s.Name)
	}
	want := []string{"Monitor", "Laptop", "Router"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestAggregateIsPure(t *testing.T) {
	items := []domain.InventoryItem{
		item("IT", "Laptop", 3, 5),
		item("IT", "Monitor", 0, 5),
	}
	snapshot := make([]domain.InventoryItem, len(items))
	copy(snapshot, items)

	first := Aggregate(items)
	second := Aggregate(items)

	if !reflect.DeepEqual(items, snapshot) {
		t.Error("Aggregate mutated its input slice")
	}
	if !reflect.DeepEqual(first.Summaries(), second.Summaries()) {
		t.Error("repeated aggregation produced different results")
	}
}

func TestClassifyTrichotomy(t *testing.T) {
	cases := []struct {
		total, threshold int
		want             Status
	}{
		{0, 5, StatusOutOfStock},
		{1, 5, StatusLowStock},
		{5, 5, StatusLowStock},
		{6, 5, StatusInStock},
		{100, 5, StatusInStock},
		{0, 0, StatusOutOfStock},
	}
	for _, tc := range cases {
		s := &Summary{TotalQuantity: tc.total, LowStockThreshold: tc.threshold}
		if got := Classify(s); got != tc.want {
			t.Errorf("Classify(total=%d threshold=%d) = %q, want %q",
				tc.total, tc.threshold, got, tc.want)
		}
	}
}
