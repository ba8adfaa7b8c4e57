package app

import (
	"testing"
	"time"

	"github.com/stocknexus/stocknexus/config"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/testdb"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	a := NewApplication(config.DefaultAppConfig)
	a.OverrideDB(testdb.New(t))
	return a
}

func seedItem(t *testing.T, a *Application, name, dept string, qty, threshold int) domain.InventoryItem {
	t.Helper()
	item := domain.InventoryItem{
		Name:              name,
		Department:        dept,
		Quantity:          qty,
		LowStockThreshold: threshold,
	}
	if err := a.DB().Create(&item).Error; err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return item
}

func TestRunLowStockScanCreatesAlerts(t *testing.T) {
	a := newTestApp(t)

	seedItem(t, a, "Beaker", "Chemistry", 2, 5)
	seedItem(t, a, "Monitor", "IT", 0, 5)
	seedItem(t, a, "Laptop", "IT", 12, 5)

	created, err := a.RunLowStockScan()
	if err != nil {
		t.Fatalf("RunLowStockScan: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}

	var alerts []domain.Alert
	if err := a.DB().Order("id ASC").Find(&alerts).Error; err != nil {
		t.Fatalf("querying alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}

	byType := map[string]domain.Alert{}
	for _, al := range alerts {
		byType[al.AlertType] = al
	}
	if al, found := byType[domain.AlertTypeLowStock]; !found {
		t.Error("missing low_stock alert")
	} else if al.Severity != domain.AlertSeverityMedium {
		t.Errorf("low_stock severity = %q, want %q", al.Severity, domain.AlertSeverityMedium)
	}
	if al, found := byType[domain.AlertTypeOutOfStock]; !found {
		t.Error("missing out_of_stock alert")
	} else if al.Severity != domain.AlertSeverityHigh {
		t.Errorf("out_of_stock severity = %q, want %q", al.Severity, domain.AlertSeverityHigh)
	}
}

func TestRunLowStockScanIsIdempotent(t *testing.T) {
	a := newTestApp(t)

	seedItem(t, a, "Beaker", "Chemistry", 2, 5)

	if _, err := a.RunLowStockScan(); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	created, err := a.RunLowStockScan()
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if created != 0 {
		t.Fatalf("second scan created = %d, want 0", created)
	}

	var count int64
	a.DB().Model(&domain.Alert{}).Count(&count)
	if count != 1 {
		t.Fatalf("alert count = %d, want 1", count)
	}
}

func TestRunLowStockScanRecreatesAfterResolve(t *testing.T) {
	a := newTestApp(t)

	seedItem(t, a, "Beaker", "Chemistry", 2, 5)

	if _, err := a.RunLowStockScan(); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	now := time.Now()
	if err := a.DB().Model(&domain.Alert{}).
		Where("is_resolved = ?", false).
		Updates(map[string]interface{}{"is_resolved": true, "resolved_at": now}).Error; err != nil {
		t.Fatalf("resolving alert: %v", err)
	}

	created, err := a.RunLowStockScan()
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if created != 1 {
		t.Fatalf("created after resolve = %d, want 1", created)
	}
}

func TestRunLowStockScanAggregatesAcrossRows(t *testing.T) {
	a := newTestApp(t)

	// two rows summing above the threshold must not alert
	seedItem(t, a, "Laptop", "IT", 3, 5)
	seedItem(t, a, "Laptop", "IT", 4, 5)

	created, err := a.RunLowStockScan()
	if err != nil {
		t.Fatalf("RunLowStockScan: %v", err)
	}
	if created != 0 {
		t.Fatalf("created = %d, want 0", created)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	a := newTestApp(t)

	if err := a.SetSettingsValue(ConfigSystem, ConfigAuditHistoryDays, "90"); err != nil {
		t.Fatalf("SetSettingsValue: %v", err)
	}
	if got := a.GetSettingsInt64Value(ConfigSystem, ConfigAuditHistoryDays); got != 90 {
		t.Fatalf("GetSettingsInt64Value = %d, want 90", got)
	}

	if err := a.SetSettingsValue(ConfigSystem, ConfigAuditHistoryDays, "30"); err != nil {
		t.Fatalf("SetSettingsValue update: %v", err)
	}
	if got := a.GetSettingsInt64Value(ConfigSystem, ConfigAuditHistoryDays); got != 30 {
		t.Fatalf("GetSettingsInt64Value after update = %d, want 30", got)
	}
}

func TestSchedulerIntervalHonorsRuntimeSetting(t *testing.T) {
	a := newTestApp(t)

	sched := domain.SysScheduler{
		Name:     "Low Stock Scan",
		TaskType: domain.TaskLowStockScan,
		Interval: 300,
		Status:   "enabled",
	}
	if err := a.DB().Create(&sched).Error; err != nil {
		t.Fatalf("seeding scheduler: %v", err)
	}

	if got := a.schedulerInterval(&sched); got != 300 {
		t.Fatalf("interval without setting = %d, want 300", got)
	}

	if err := a.SetSettingsValue(ConfigSystem, ConfigLowStockScanInterval, "600"); err != nil {
		t.Fatalf("SetSettingsValue: %v", err)
	}
	if got := a.schedulerInterval(&sched); got != 600 {
		t.Fatalf("interval with setting = %d, want 600", got)
	}

	// only the low stock scan is retuned through sys_config
	cleanup := domain.SysScheduler{TaskType: domain.TaskAuditCleanup, Interval: 86400}
	if got := a.schedulerInterval(&cleanup); got != 86400 {
		t.Fatalf("cleanup interval = %d, want 86400", got)
	}

	before := time.Now()
	a.runSchedulers()

	var got domain.SysScheduler
	if err := a.DB().Where("id = ?", sched.ID).First(&got).Error; err != nil {
		t.Fatalf("querying scheduler: %v", err)
	}
	if got.NextRunAt.Before(before.Add(550 * time.Second)) {
		t.Fatalf("next_run_at = %v, want at least %v", got.NextRunAt, before.Add(550*time.Second))
	}
}

func TestCheckSchedulersSeedsDefaults(t *testing.T) {
	a := newTestApp(t)

	a.checkSchedulers()
	a.checkSchedulers() // seeding twice must not duplicate

	var count int64
	a.DB().Model(&domain.SysScheduler{}).Count(&count)
	if count != 2 {
		t.Fatalf("scheduler count = %d, want 2", count)
	}

	var sched domain.SysScheduler
	if err := a.DB().Where("task_type = ?", domain.TaskLowStockScan).First(&sched).Error; err != nil {
		t.Fatalf("low stock scheduler missing: %v", err)
	}
	if sched.Interval != 300 {
		t.Errorf("interval = %d, want 300", sched.Interval)
	}
}
