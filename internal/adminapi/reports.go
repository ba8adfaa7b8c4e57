package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/inventory"
	"github.com/stocknexus/stocknexus/internal/report"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"github.com/stocknexus/stocknexus/pkg/metrics"
)

func registerReportRoutes() {
	webserver.ApiGET("/reports/inventory", exportInventoryReport)
	webserver.ApiGET("/reports/low-stock", exportLowStockReport)
	webserver.ApiGET("/reports/alerts", exportAlertsReport)
	webserver.ApiGET("/reports/services", exportServicesReport)
}

func parseFormat(c echo.Context) (report.Format, error) {
	f := report.Format(strings.ToLower(strings.TrimSpace(c.QueryParam("format"))))
	switch f {
	case report.FormatCSV, report.FormatXLSX, report.FormatPDF:
		return f, nil
	case "":
		return report.FormatCSV, nil
	default:
		return "", errors.Errorf("unsupported format %q", f)
	}
}

// serveReport renders and streams the document, mapping an empty record
// list to a NO_DATA response.
func serveReport(c echo.Context, req report.Request) error {
	doc, err := report.Render(req)
	if errors.Is(err, report.ErrNoData) {
		return fail(c, http.StatusNotFound, "NO_DATA", "No records match the report criteria", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render report", err.Error())
	}

	metrics.IncrCounter(metrics.ReportsRendered, 1)
	audit(c, "export_report", "exported "+doc.Filename)

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.Filename))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

type summaryRow struct {
	summary *inventory.Summary
	status  inventory.Status
}

func summaryColumns() []report.Column {
	return []report.Column{
		{Header: "Department", Width: 18, Value: func(r interface{}) string {
			return r.(summaryRow).summary.Department
		}},
		{Header: "Item Name", Width: 32, Value: func(r interface{}) string {
			return r.(summaryRow).summary.Name
		}},
		{Header: "Total Quantity", Width: 14, Value: func(r interface{}) string {
			return strconv.Itoa(r.(summaryRow).summary.TotalQuantity)
		}},
		{Header: "Low Stock Threshold", Width: 18, Value: func(r interface{}) string {
			return strconv.Itoa(r.(summaryRow).summary.LowStockThreshold)
		}},
		{Header: "Status", Width: 14, Value: func(r interface{}) string {
			return string(r.(summaryRow).status)
		}},
	}
}

func loadSummaryRows(c echo.Context) ([]summaryRow, error) {
	var items []domain.InventoryItem
	db := scopeDepartment(c, GetDB(c).Model(&domain.InventoryItem{}))
	if err := db.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	set := inventory.Aggregate(items)
	rows := make([]summaryRow, 0, set.Len())
	for _, s := range set.Summaries() {
		rows = append(rows, summaryRow{summary: s, status: inventory.Classify(s)})
	}
	return rows, nil
}

func exportInventoryReport(c echo.Context) error {
	format, err := parseFormat(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error(), nil)
	}

	rows, err := loadSummaryRows(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}

	records := make([]interface{}, len(rows))
	for i, r := range rows {
		records[i] = r
	}

	return serveReport(c, report.Request{
		Title:    "Inventory Stock Report",
		Sheet:    "Inventory",
		BaseName: "inventory-report",
		Format:   format,
		Columns:  summaryColumns(),
		Records:  records,
	})
}

func exportLowStockReport(c echo.Context) error {
	format, err := parseFormat(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error(), nil)
	}

	rows, err := loadSummaryRows(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}

	// renderer gets pre-filtered records
	records := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		if r.status == inventory.StatusLowStock || r.status == inventory.StatusOutOfStock {
			records = append(records, r)
		}
	}

	return serveReport(c, report.Request{
		Title:    "Low Stock Report",
		Sheet:    "Low Stock",
		BaseName: "low-stock-report",
		Format:   format,
		Columns:  summaryColumns(),
		Records:  records,
	})
}

func exportAlertsReport(c echo.Context) error {
	format, err := parseFormat(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error(), nil)
	}

	db := GetDB(c).Model(&domain.Alert{})
	if c.QueryParam("resolved") == "false" {
		db = db.Where("is_resolved = ?", false)
	}

	var alerts []domain.Alert
	if err := db.Order("id DESC").Find(&alerts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query alerts", err.Error())
	}

	records := make([]interface{}, len(alerts))
	for i, a := range alerts {
		records[i] = a
	}

	columns := []report.Column{
		{Header: "Type", Width: 16, Value: func(r interface{}) string {
			return r.(domain.Alert).AlertType
		}},
		{Header: "Message", Width: 52, Value: func(r interface{}) string {
			return r.(domain.Alert).Message
		}},
		{Header: "Severity", Width: 12, Value: func(r interface{}) string {
			return r.(domain.Alert).Severity
		}},
		{Header: "Resolved", Width: 10, Value: func(r interface{}) string {
			if r.(domain.Alert).IsResolved {
				return "yes"
			}
			return "no"
		}},
		{Header: "Created At", Width: 20, Value: func(r interface{}) string {
			return r.(domain.Alert).CreatedAt.Format("2006-01-02 15:04")
		}},
	}

	return serveReport(c, report.Request{
		Title:     "Stock Alerts Report",
		Sheet:     "Alerts",
		BaseName:  "alerts-report",
		Format:    format,
		Landscape: true,
		Columns:   columns,
		Records:   records,
	})
}

func exportServicesReport(c echo.Context) error {
	format, err := parseFormat(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error(), nil)
	}

	db := scopeDepartment(c, GetDB(c).Model(&domain.ServiceRecord{}))
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var services []domain.ServiceRecord
	if err := db.Order("service_date DESC").Find(&services).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query services", err.Error())
	}

	records := make([]interface{}, len(services))
	for i, s := range services {
		records[i] = s
	}

	columns := []report.Column{
		{Header: "Department", Width: 16, Value: func(r interface{}) string {
			return r.(domain.ServiceRecord).Department
		}},
		{Header: "Equipment ID", Width: 20, Value: func(r interface{}) string {
			return strconv.FormatInt(r.(domain.ServiceRecord).EquipmentID, 10)
		}},
		{Header: "Service Type", Width: 14, Value: func(r interface{}) string {
			return r.(domain.ServiceRecord).ServiceType
		}},
		{Header: "Nature", Width: 16, Value: func(r interface{}) string {
			return r.(domain.ServiceRecord).NatureOfService
		}},
		{Header: "Service Date", Width: 14, Value: func(r interface{}) string {
			return r.(domain.ServiceRecord).ServiceDate.Format("2006-01-02")
		}},
		{Header: "Status", Width: 14, Value: func(r interface{}) string {
			return r.(domain.ServiceRecord).Status
		}},
		{Header: "Technician / Vendor", Width: 24, Value: func(r interface{}) string {
			return r.(domain.ServiceRecord).TechnicianVendorName
		}},
		{Header: "Cost", Width: 12, Value: func(r interface{}) string {
			if cost := r.(domain.ServiceRecord).Cost; cost != nil {
				return strconv.FormatFloat(*cost, 'f', 2, 64)
			}
			return ""
		}},
	}

	return serveReport(c, report.Request{
		Title:     "Service Records Report",
		Sheet:     "Services",
		BaseName:  "services-report",
		Format:    format,
		Landscape: true,
		Columns:   columns,
		Records:   records,
	})
}
