package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/policy"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"gorm.io/gorm"
)

func registerAlertRoutes() {
	webserver.ApiGET("/inventory/alerts", listAlerts)
	webserver.ApiPOST("/inventory/alerts/:id/resolve", resolveAlert)
	webserver.ApiPOST("/inventory/alerts/scan", triggerStockScan)
}

func listAlerts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Alert{})
	switch strings.TrimSpace(c.QueryParam("resolved")) {
	case "true":
		db = db.Where("is_resolved = ?", true)
	case "false":
		db = db.Where("is_resolved = ?", false)
	}
	if severity := strings.TrimSpace(c.QueryParam("severity")); severity != "" {
		db = db.Where("severity = ?", severity)
	}
	if alertType := strings.TrimSpace(c.QueryParam("alert_type")); alertType != "" {
		db = db.Where("alert_type = ?", alertType)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query alerts", err.Error())
	}

	var alerts []domain.Alert
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&alerts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query alerts", err.Error())
	}

	return paged(c, alerts, total, page, pageSize)
}

func resolveAlert(c echo.Context) error {
	sess := session(c)
	if !policy.CanResolveAlerts(sess.Role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may resolve alerts", nil)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid alert ID", nil)
	}

	var alert domain.Alert
	if err := GetDB(c).Where("id = ?", id).First(&alert).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ALERT_NOT_FOUND", "Alert not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query alert", err.Error())
	}
	if alert.IsResolved {
		return ok(c, alert)
	}

	now := time.Now()
	err = GetDB(c).Model(&domain.Alert{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_by": sess.UserID,
			"resolved_at": now,
		}).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to resolve alert", err.Error())
	}

	GetDB(c).First(&alert, id)
	audit(c, "resolve_alert", "resolved stock alert "+alert.Message)
	return ok(c, alert)
}

// triggerStockScan runs the low-stock scan immediately instead of waiting
// for the scheduler.
func triggerStockScan(c echo.Context) error {
	sess := session(c)
	if sess.Role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may trigger a scan", nil)
	}

	created, err := GetAppContext(c).RunLowStockScan()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SCAN_FAILED", "Stock scan failed", err.Error())
	}

	audit(c, "trigger_stock_scan", "manually triggered stock alert scan")
	return ok(c, map[string]interface{}{"alerts_created": created})
}
