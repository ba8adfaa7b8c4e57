package adminapi

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/policy"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"github.com/stocknexus/stocknexus/pkg/common"
	"gorm.io/gorm"
)

type servicePayload struct {
	EquipmentID          int64    `json:"equipment_id,string" validate:"required"`
	Department           string   `json:"department" validate:"required"`
	ServiceType          string   `json:"service_type" validate:"required,oneof=internal external"`
	NatureOfService      string   `json:"nature_of_service" validate:"required,oneof=maintenance repair calibration installation"`
	ServiceDate          string   `json:"service_date" validate:"required"`
	Status               string   `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	TechnicianVendorName string   `json:"technician_vendor_name" validate:"omitempty,max=200"`
	Cost                 *float64 `json:"cost" validate:"omitempty,min=0"`
	Remarks              string   `json:"remarks" validate:"omitempty,max=2000"`
}

func registerServiceRoutes() {
	webserver.ApiGET("/services", listServiceRecords)
	webserver.ApiGET("/services/:id", getServiceRecord)
	webserver.ApiPOST("/services", createServiceRecord)
	webserver.ApiPUT("/services/:id", updateServiceRecord)
	webserver.ApiDELETE("/services/:id", deleteServiceRecord)
	webserver.ApiPOST("/services/:id/bill", uploadBillPhoto)
}

func listServiceRecords(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := scopeDepartment(c, GetDB(c).Model(&domain.ServiceRecord{}))
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(GetDB(c).Name(), "postgres") {
			db = db.Where("technician_vendor_name ILIKE ? OR remarks ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(technician_vendor_name) LIKE ? OR LOWER(remarks) LIKE ?", lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query services", err.Error())
	}

	var records []domain.ServiceRecord
	if err := db.Order("service_date DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&records).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query services", err.Error())
	}

	return paged(c, records, total, page, pageSize)
}

func getServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}

	var record domain.ServiceRecord
	if err := GetDB(c).Where("id = ?", id).First(&record).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service record not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query service", err.Error())
	}

	return ok(c, record)
}

func createServiceRecord(c echo.Context) error {
	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service parameters", nil)
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

	serviceDate, err := time.Parse("2006-01-02", payload.ServiceDate)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Service date must be YYYY-MM-DD", nil)
	}

	if payload.Status == "" {
		payload.Status = domain.ServiceStatusPending
	}

	record := domain.ServiceRecord{
		ID:                   common.UUIDint64(),
		EquipmentID:          payload.EquipmentID,
		Department:           payload.Department,
		ServiceType:          payload.ServiceType,
		NatureOfService:      payload.NatureOfService,
		ServiceDate:          serviceDate,
		Status:               payload.Status,
		TechnicianVendorName: payload.TechnicianVendorName,
		Cost:                 payload.Cost,
		Remarks:              payload.Remarks,
		CreatedBy:            sess.UserID,
	}

	if err := GetDB(c).Create(&record).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create service record", err.Error())
	}

	audit(c, "create_service", "created service record")
	return ok(c, record)
}

func updateServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}

	var record domain.ServiceRecord
	if err := GetDB(c).Where("id = ?", id).First(&record).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service record not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query service", err.Error())
	}

	sess := session(c)
	if !policy.CanManage(sess.Role, sess.Department, record.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this department", nil)
	}

	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse service parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.IsValidDepartment(payload.Department) {
		return fail(c, http.StatusBadRequest, "INVALID_DEPARTMENT", "Unknown department", nil)
	}
	if payload.Department != record.Department && !policy.CanManage(sess.Role, sess.Department, payload.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to move record to this department", nil)
	}

	serviceDate, err := time.Parse("2006-01-02", payload.ServiceDate)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Service date must be YYYY-MM-DD", nil)
	}

	record.EquipmentID = payload.EquipmentID
	record.Department = payload.Department
	record.ServiceType = payload.ServiceType
	record.NatureOfService = payload.NatureOfService
	record.ServiceDate = serviceDate
	if payload.Status != "" {
		record.Status = payload.Status
	}
	record.TechnicianVendorName = payload.TechnicianVendorName
	record.Cost = payload.Cost
	record.Remarks = payload.Remarks

	if err := GetDB(c).Save(&record).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update service record", err.Error())
	}

	audit(c, "update_service", "updated service record")
	return ok(c, record)
}

func deleteServiceRecord(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}

	var record domain.ServiceRecord
	if err := GetDB(c).Where("id = ?", id).First(&record).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service record not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query service", err.Error())
	}

	sess := session(c)
	if !policy.CanManage(sess.Role, sess.Department, record.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this department", nil)
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ServiceRecord{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete service record", err.Error())
	}

	audit(c, "delete_service", "deleted service record")
	return ok(c, map[string]interface{}{"id": id})
}

// uploadBillPhoto stores the bill image for a service record and saves its
// public URL on the record.
func uploadBillPhoto(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID", nil)
	}

	var record domain.ServiceRecord
	if err := GetDB(c).Where("id = ?", id).First(&record).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service record not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query service", err.Error())
	}

	sess := session(c)
	if !policy.CanManage(sess.Role, sess.Department, record.Department) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this department", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing bill photo", nil)
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open bill photo", err.Error())
	}
	defer src.Close()

	url, err := objectStore.Put(sess.UserID, filepath.Ext(file.Filename), src)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store bill photo", err.Error())
	}

	err = GetDB(c).Model(&domain.ServiceRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{"bill_photo_url": url, "updated_at": time.Now()}).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save bill photo URL", err.Error())
	}

	audit(c, "upload_bill", "uploaded service bill photo")
	return ok(c, map[string]interface{}{"bill_photo_url": url})
}
