package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/webserver"
)

type settingPayload struct {
	Type  string `json:"type" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=64"`
	Value string `json:"value" validate:"required,max=1024"`
}

func registerSettingsRoutes() {
	webserver.ApiGET("/system/settings", listSettings)
	webserver.ApiPUT("/system/settings", updateSetting)
}

func listSettings(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var settings []domain.SysConfig
	if err := GetDB(c).Order("sort ASC, id ASC").Find(&settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}

	return ok(c, settings)
}

func updateSetting(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	if err := GetAppContext(c).SetSettingsValue(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update setting", err.Error())
	}

	audit(c, "update_setting", "updated setting "+payload.Type+"."+payload.Name)
	return ok(c, map[string]interface{}{
		"type":  payload.Type,
		"name":  payload.Name,
		"value": payload.Value,
	})
}
