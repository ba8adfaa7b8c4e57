package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/inventory"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"github.com/stocknexus/stocknexus/pkg/metrics"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", dashboardStats)
	webserver.ApiGET("/dashboard/metrics/:name", dashboardMetrics)
}

// dashboardStats returns the headline numbers for the landing page.
func dashboardStats(c echo.Context) error {
	db := GetDB(c)

	var items []domain.InventoryItem
	if err := scopeDepartment(c, db.Model(&domain.InventoryItem{})).
		Order("id ASC").Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}
	set := inventory.Aggregate(items)

	var activeAlerts int64
	db.Model(&domain.Alert{}).Where("is_resolved = ?", false).Count(&activeAlerts)

	var pendingRegistrations int64
	db.Model(&domain.RegistrationRequest{}).
		Where("status = ?", domain.RequestStatusPending).Count(&pendingRegistrations)

	var pendingServices int64
	scopeDepartment(c, db.Model(&domain.ServiceRecord{})).
		Where("status <> ?", domain.ServiceStatusCompleted).Count(&pendingServices)

	return ok(c, map[string]interface{}{
		"total_quantity":        set.TotalQuantity(),
		"distinct_items":        set.Len(),
		"low_stock_count":       set.LowStockCount(),
		"out_of_stock_count":    set.OutOfStockCount(),
		"department_count":      len(domain.Departments),
		"active_alerts":         activeAlerts,
		"pending_registrations": pendingRegistrations,
		"pending_services":      pendingServices,
		"reports_rendered":      metrics.CounterValue(metrics.ReportsRendered),
	})
}

// dashboardMetrics returns the datapoints of a system metric for charting.
func dashboardMetrics(c echo.Context) error {
	name := c.Param("name")
	switch name {
	case metrics.SystemCpuuse, metrics.SystemMemuse,
		metrics.ProcessCpuuse, metrics.ProcessMemuse,
		metrics.AlertsCreated, metrics.ReportsRendered, metrics.UsersApproved:
	default:
		return fail(c, http.StatusBadRequest, "INVALID_METRIC", "Unknown metric name", nil)
	}

	hours, _ := strconv.Atoi(c.QueryParam("hours"))
	if hours < 1 || hours > 24*30 {
		hours = 24
	}
	end := time.Now().Unix()
	start := end - int64(hours)*3600

	points, err := metrics.Select(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metrics", err.Error())
	}

	return ok(c, map[string]interface{}{"name": name, "datapoints": points})
}
