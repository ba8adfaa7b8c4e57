package app

import (
	"context"
	"fmt"
	"time"

	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/inventory"
	"github.com/stocknexus/stocknexus/pkg/metrics"
	"go.uber.org/zap"
)

// SchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers()
			}
		}
	}()
}

// runSchedulers executes enabled schedulers
func (a *Application) runSchedulers() {
	var schedulers []domain.SysScheduler
	a.gormDB.Where("status = ?", "enabled").Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		// Only run if now >= next_run_at
		if sched.NextRunAt.IsZero() || now.After(sched.NextRunAt) || now.Equal(sched.NextRunAt) {
			switch sched.TaskType {
			case domain.TaskLowStockScan:
				a.runLowStockScanScheduler(&sched)
			case domain.TaskAuditCleanup:
				a.runAuditCleanupScheduler(&sched)
			// Add more task types here
			}
			// Update next_run_at
			a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).
				Update("next_run_at", now.Add(time.Duration(a.schedulerInterval(&sched))*time.Second))
		}
	}
}

// schedulerInterval returns the effective cadence of a task in seconds.
// The low-stock scan can be retuned at runtime through sys_config without
// touching the scheduler row.
func (a *Application) schedulerInterval(sched *domain.SysScheduler) int {
	if sched.TaskType == domain.TaskLowStockScan {
		if v := a.configManager.GetInt(ConfigSystem, ConfigLowStockScanInterval); v > 0 {
			return v
		}
	}
	return sched.Interval
}

// runLowStockScanScheduler raises stock alerts and records the outcome.
func (a *Application) runLowStockScanScheduler(sched *domain.SysScheduler) {
	created, err := a.RunLowStockScan()
	result, message := "success", fmt.Sprintf("%d alerts created", created)
	if err != nil {
		result, message = "failed", err.Error()
		zap.L().Error("low stock scan failed", zap.Error(err))
	}
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})
}

// RunLowStockScan aggregates all inventory rows by (department, name) and
// creates an alert for every summary that sits at or below its threshold
// and has no unresolved alert of the same type yet. Returns the number of
// alerts created.
func (a *Application) RunLowStockScan() (int, error) {
	var items []domain.InventoryItem
	if err := a.gormDB.Find(&items).Error; err != nil {
		return 0, err
	}

	created := 0
	for _, summary := range inventory.Aggregate(items).Summaries() {
		var alertType, severity, message string
		switch inventory.Classify(summary) {
		case inventory.StatusOutOfStock:
			alertType = domain.AlertTypeOutOfStock
			severity = domain.AlertSeverityHigh
			message = fmt.Sprintf("%q in %s is out of stock", summary.Name, summary.Department)
		case inventory.StatusLowStock:
			alertType = domain.AlertTypeLowStock
			severity = domain.AlertSeverityMedium
			message = fmt.Sprintf("%q in %s is low on stock (%d left, threshold %d)",
				summary.Name, summary.Department, summary.TotalQuantity, summary.LowStockThreshold)
		default:
			continue
		}

		// the alert references the first constituent row of the summary
		itemID := summary.Items[0].ID

		var existing int64
		a.gormDB.Model(&domain.Alert{}).
			Where("item_id = ? AND alert_type = ? AND is_resolved = ?", itemID, alertType, false).
			Count(&existing)
		if existing > 0 {
			continue
		}

		alert := domain.Alert{
			ItemID:    &itemID,
			AlertType: alertType,
			Message:   message,
			Severity:  severity,
		}
		if err := a.gormDB.Create(&alert).Error; err != nil {
			zap.L().Error("failed to create stock alert",
				zap.String("item", summary.Name),
				zap.String("department", summary.Department),
				zap.Error(err))
			continue
		}
		created++
	}

	if created > 0 {
		metrics.IncrCounter(metrics.AlertsCreated, int64(created))
		zap.L().Info("stock alerts created", zap.Int("count", created))
	}
	return created, nil
}

// runAuditCleanupScheduler prunes old operator audit entries.
func (a *Application) runAuditCleanupScheduler(sched *domain.SysScheduler) {
	idays := a.configManager.GetInt(ConfigSystem, ConfigAuditHistoryDays)
	if idays == 0 {
		idays = 365
	}
	res := a.gormDB.
		Where("opt_time < ?", time.Now().Add(-time.Hour*24*time.Duration(idays))).
		Delete(&domain.SysOprLog{})

	result, message := "success", fmt.Sprintf("%d audit rows pruned", res.RowsAffected)
	if res.Error != nil {
		result, message = "failed", res.Error.Error()
	}
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})
}
