package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"gorm.io/gorm"
)

// schedulerUpdatePayload relaxes validation rules for partial updates
type schedulerUpdatePayload struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=100"`
	Interval int    `json:"interval" validate:"omitempty,min=10"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=500"`
}

func registerSchedulerRoutes() {
	webserver.ApiGET("/system/schedulers", listSchedulers)
	webserver.ApiGET("/system/schedulers/:id", getScheduler)
	webserver.ApiPUT("/system/schedulers/:id", updateScheduler)
	webserver.ApiPOST("/system/schedulers/:id/run", triggerScheduler)
}

func requireAdmin(c echo.Context) error {
	if session(c).Role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	return nil
}

func listSchedulers(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	db := GetDB(c).Model(&domain.SysScheduler{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var schedulers []domain.SysScheduler
	if err := db.Order("id ASC").Find(&schedulers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query schedulers", err.Error())
	}

	return ok(c, schedulers)
}

func getScheduler(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	var sched domain.SysScheduler
	if err := GetDB(c).Where("id = ?", id).First(&sched).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query scheduler", err.Error())
	}

	return ok(c, sched)
}

func updateScheduler(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	var sched domain.SysScheduler
	if err := GetDB(c).Where("id = ?", id).First(&sched).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query scheduler", err.Error())
	}

	var payload schedulerUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	updates := make(map[string]interface{})
	if payload.Name != "" {
		updates["name"] = payload.Name
	}
	if payload.Interval > 0 {
		updates["interval"] = payload.Interval
		updates["next_run_at"] = time.Now().Add(time.Duration(payload.Interval) * time.Second)
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}

	if len(updates) > 0 {
		if err := GetDB(c).Model(&sched).Updates(updates).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update scheduler", err.Error())
		}
	}

	GetDB(c).First(&sched, id)
	audit(c, "update_scheduler", "updated scheduler "+sched.Name)
	return ok(c, sched)
}

// triggerScheduler makes the task due immediately; the next scheduler tick
// picks it up.
func triggerScheduler(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	res := GetDB(c).Model(&domain.SysScheduler{}).Where("id = ?", id).
		Update("next_run_at", time.Now().Add(-time.Second))
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "RUN_FAILED", "Failed to trigger scheduler", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	}

	audit(c, "trigger_scheduler", "manually triggered scheduler")
	return c.NoContent(http.StatusNoContent)
}
