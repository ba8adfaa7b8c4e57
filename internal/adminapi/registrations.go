package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stocknexus/stocknexus/internal/approval"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/policy"
	"github.com/stocknexus/stocknexus/internal/webserver"
)

func registerRegistrationRoutes() {
	webserver.ApiGET("/registrations", listRegistrations)
	webserver.ApiPOST("/registrations/:id/approve", approveRegistration)
	webserver.ApiPOST("/registrations/:id/reject", rejectRegistration)
	webserver.ApiDELETE("/registrations/:id", deleteRegistration)
}

func requireReviewer(c echo.Context) error {
	if !policy.CanReviewRegistrations(session(c).Role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may review registrations", nil)
	}
	return nil
}

func listRegistrations(c echo.Context) error {
	if err := requireReviewer(c); err != nil {
		return err
	}

	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.RegistrationRequest{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query registrations", err.Error())
	}

	var requests []domain.RegistrationRequest
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&requests).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query registrations", err.Error())
	}

	return paged(c, requests, total, page, pageSize)
}

func approveRegistration(c echo.Context) error {
	if err := requireReviewer(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID", nil)
	}

	result, err := approvalService.Approve(c.Request().Context(), id, session(c).UserID)
	switch {
	case errors.Is(err, approval.ErrRequestNotFound):
		return fail(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Registration request not found", nil)
	case errors.Is(err, approval.ErrRequestRejected):
		return fail(c, http.StatusConflict, "ALREADY_REJECTED", "Request was already rejected", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "APPROVE_FAILED", "Failed to approve request", err.Error())
	}

	audit(c, "approve_registration", "approved registration request")
	return ok(c, result)
}

func rejectRegistration(c echo.Context) error {
	if err := requireReviewer(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID", nil)
	}

	err = approvalService.Reject(c.Request().Context(), id, session(c).UserID)
	switch {
	case errors.Is(err, approval.ErrRequestNotFound):
		return fail(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Registration request not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "REJECT_FAILED", "Failed to reject request", err.Error())
	}

	audit(c, "reject_registration", "rejected registration request")
	return ok(c, map[string]interface{}{"id": id, "status": domain.RequestStatusRejected})
}

func deleteRegistration(c echo.Context) error {
	if err := requireReviewer(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID", nil)
	}

	err = approvalService.Delete(c.Request().Context(), id)
	switch {
	case errors.Is(err, approval.ErrRequestNotFound):
		return fail(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Registration request not found", nil)
	case errors.Is(err, approval.ErrNotRejected):
		return fail(c, http.StatusConflict, "NOT_REJECTED", "Only rejected requests can be deleted", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete request", err.Error())
	}

	audit(c, "delete_registration", "deleted rejected registration request")
	return ok(c, map[string]interface{}{"id": id})
}
