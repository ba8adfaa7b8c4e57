package adminapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/inventory"
	"github.com/stocknexus/stocknexus/internal/policy"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"github.com/stocknexus/stocknexus/pkg/common"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type itemPayload struct {
	Name              string  `json:"name" validate:"required,min=1,max=200"`
	Category          string  `json:"category" validate:"omitempty,max=100"`
	Model             string  `json:"model" validate:"omitempty,max=200"`
	SerialNumber      string  `json:"serial_number" validate:"omitempty,max=200"`
	Quantity          int     `json:"quantity" validate:"min=0"`
	Department        string  `json:"department" validate:"required"`
	Location          string  `json:"location" validate:"omitempty,max=200"`
	CabinNumber       string  `json:"cabin_number" validate:"omitempty,max=50"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"min=0"`
	Status            string  `json:"status" validate:"omitempty,max=50"`
	UnitPrice         float64 `json:"unit_price" validate:"min=0"`
	ImageUrl          string  `json:"image_url" validate:"omitempty,max=1024"`
	Specifications    string  `json:"specifications" validate:"omitempty,max=4000"`
}

// itemImportRow maps one line of a bulk import CSV.
type itemImportRow struct {
	Name              string  `csv:"name"`
	Category          string  `csv:"category"`
	Model             string  `csv:"model"`
	SerialNumber      string  `csv:"serial_number"`
	Quantity          int     `csv:"quantity"`
	Department        string  `csv:"department"`
	Location          string  `csv:"location"`
	CabinNumber       string  `csv:"cabin_number"`
	LowStockThreshold int     `csv:"low_stock_threshold"`
	Status            string  `csv:"status"`
	UnitPrice         float64 `csv:"unit_price"`
}

func registerItemRoutes() {
	webserver.ApiGET("/inventory/items", listItems)
	webserver.ApiGET("/inventory/items/:id", getItem)
	webserver.ApiPOST("/inventory/items", createItem)
	webserver.ApiPUT("/inventory/items/:id", updateItem)
	webserver.ApiDELETE("/inventory/items/:id", deleteItem)
	webserver.ApiGET("/inventory/summaries", listSummaries)
	webserver.ApiPOST("/inventory/import", importItems)
	webserver.ApiGET("/inventory/departments", listDepartments)
}

// scopeDepartment restricts non-admin queries to the caller's department.
func scopeDepartment(c echo.Context, db *gorm.DB) *gorm.DB {
	sess := session(c)
	if sess.Role == domain.RoleAdmin {
		if dept := strings.TrimSpace(c.QueryParam("department")); dept != "" {
			return db.Where("department = ?", dept)
		}
		return db
	}
	return db.Where("department = ?", sess.Department)
}

func listItems(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := scopeDepartment(c, GetDB(c).Model(&domain.InventoryItem{}))
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(GetDB(c).Name(), "postgres") {
			db = db.Where("name ILIKE ? OR model ILIKE ? OR serial_number ILIKE ? OR cabin_number ILIKE ?",
				"%"+q+"%", "%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(model) LIKE ? OR LOWER(serial_number) LIKE ? OR LOWER(cabin_number) LIKE ?",
				lq, lq, lq, lq)
		}
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}

	var items []domain.InventoryItem
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}

	return paged(c, items, total, page, pageSize)
}

func getItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query item", err.Error())
	}

	return ok(c, item)
}

func createItem(c echo.Context) error {
	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.IsValidDepartment(payload.Department) {
		return fail(c, http.StatusBadRequest, "INVALID_DEPARTMENT", "Unknown department", nil)
	}

	sess := session(c)
	if !policy.CanManage(sess.Role, sess.Department, payload.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this department", nil)
	}

	item := domain.InventoryItem{
		ID:                common.UUIDint64(),
		Name:              strings.TrimSpace(payload.Name),
		Category:          payload.Category,
		Model:             payload.Model,
		SerialNumber:      payload.SerialNumber,
		Quantity:          payload.Quantity,
		Department:        payload.Department,
		Location:          payload.Location,
		CabinNumber:       payload.CabinNumber,
		LowStockThreshold: payload.LowStockThreshold,
		Status:            payload.Status,
		UnitPrice:         payload.UnitPrice,
		ImageUrl:          payload.ImageUrl,
		CreatedBy:         sess.UserID,
	}
	if payload.Specifications != "" {
		item.Specifications = datatypes.JSON(payload.Specifications)
	}

	if err := GetDB(c).Create(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create item", err.Error())
	}

	audit(c, "create_item", "created inventory item "+item.Name)
	return ok(c, item)
}

func updateItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query item", err.Error())
	}

	sess := session(c)
	if !policy.CanManage(sess.Role, sess.Department, item.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this department", nil)
	}

	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.IsValidDepartment(payload.Department) {
		return fail(c, http.StatusBadRequest, "INVALID_DEPARTMENT", "Unknown department", nil)
	}
	// moving an item between departments needs manage rights on both
	if payload.Department != item.Department && !policy.CanManage(sess.Role, sess.Department, payload.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to move item to this department", nil)
	}

	item.Name = strings.TrimSpace(payload.Name)
	item.Category = payload.Category
	item.Model = payload.Model
	item.SerialNumber = payload.SerialNumber
	item.Quantity = payload.Quantity
	item.Department = payload.Department
	item.Location = payload.Location
	item.CabinNumber = payload.CabinNumber
	item.LowStockThreshold = payload.LowStockThreshold
	item.Status = payload.Status
	item.UnitPrice = payload.UnitPrice
	item.ImageUrl = payload.ImageUrl
	if payload.Specifications != "" {
		item.Specifications = datatypes.JSON(payload.Specifications)
	}

	if err := GetDB(c).Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update item", err.Error())
	}

	audit(c, "update_item", "updated inventory item "+item.Name)
	return ok(c, item)
}

func deleteItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	var item domain.InventoryItem
	if err := GetDB(c).Where("id = ?", id).First(&item).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query item", err.Error())
	}

	sess := session(c)
	if !policy.CanManage(sess.Role, sess.Department, item.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this department", nil)
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.InventoryItem{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete item", err.Error())
	}

	audit(c, "delete_item", "deleted inventory item "+item.Name)
	return ok(c, map[string]interface{}{"id": id})
}

// listSummaries returns the stock aggregates grouped by (department, name)
// with their classification.
func listSummaries(c echo.Context) error {
	db := scopeDepartment(c, GetDB(c).Model(&domain.InventoryItem{}))

	var items []domain.InventoryItem
	if err := db.Order("id ASC").Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query items", err.Error())
	}

	set := inventory.Aggregate(items)
	status := strings.TrimSpace(c.QueryParam("status"))

	type summaryView struct {
		*inventory.Summary
		Status inventory.Status `json:"status"`
	}

	views := make([]summaryView, 0, set.Len())
	for _, s := range set.Summaries() {
		st := inventory.Classify(s)
		if status != "" && string(st) != status {
			continue
		}
		views = append(views, summaryView{Summary: s, Status: st})
	}

	return ok(c, map[string]interface{}{
		"summaries":          views,
		"total_quantity":     set.TotalQuantity(),
		"low_stock_count":    set.LowStockCount(),
		"out_of_stock_count": set.OutOfStockCount(),
	})
}

// importItems bulk-creates inventory rows from an uploaded CSV file.
func importItems(c echo.Context) error {
	sess := session(c)

	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing import file", nil)
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open import file", err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read import file", err.Error())
	}

	var rows []*itemImportRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV", err.Error())
	}
	if len(rows) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CSV", "Import file contains no rows", nil)
	}

	items := make([]domain.InventoryItem, 0, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return fail(c, http.StatusBadRequest, "INVALID_ROW", "Row missing item name",
				map[string]interface{}{"row": i + 1})
		}
		if !domain.IsValidDepartment(row.Department) {
			return fail(c, http.StatusBadRequest, "INVALID_ROW", "Row has unknown department",
				map[string]interface{}{"row": i + 1, "department": row.Department})
		}
		if row.Quantity < 0 || row.LowStockThreshold < 0 || row.UnitPrice < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_ROW", "Row has a negative quantity, threshold or price",
				map[string]interface{}{"row": i + 1})
		}
		if !policy.CanManage(sess.Role, sess.Department, row.Department) {
			return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to import into this department",
				map[string]interface{}{"row": i + 1, "department": row.Department})
		}
		items = append(items, domain.InventoryItem{
			ID:                common.UUIDint64(),
			Name:              name,
			Category:          row.Category,
			Model:             row.Model,
			SerialNumber:      row.SerialNumber,
			Quantity:          row.Quantity,
			Department:        row.Department,
			Location:          row.Location,
			CabinNumber:       row.CabinNumber,
			LowStockThreshold: row.LowStockThreshold,
			Status:            row.Status,
			UnitPrice:         row.UnitPrice,
			CreatedBy:         sess.UserID,
		})
	}

	if err := GetDB(c).CreateInBatches(items, 100).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to import items", err.Error())
	}

	audit(c, "import_items", "bulk imported inventory items")
	return ok(c, map[string]interface{}{"imported": len(items)})
}

func listDepartments(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"departments":       domain.Departments,
		"cabin_departments": domain.CabinDepartments,
	})
}
