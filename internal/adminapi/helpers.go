// Package adminapi exposes the management REST API consumed by the web
// frontend. Handlers enforce the same role/department rules the pages
// mirror for UX.
package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stocknexus/stocknexus/internal/app"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"gorm.io/gorm"
)

// GetDB extracts the database handle injected by the web server.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get("db").(*gorm.DB)
}

// GetAppContext extracts the application context injected by the web server.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get("appCtx").(app.AppContext)
}

// ok wraps a successful response.
func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

// fail wraps an error response with a machine-readable code.
func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":   code,
		"msg":    msg,
		"detail": detail,
	})
}

// paged wraps a paginated list response.
func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      0,
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// handleValidationError converts validator failures into a field-level
// error response.
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", fields)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
}

// session returns the verified claims of the current request.
func session(c echo.Context) *webserver.SessionClaims {
	return webserver.CurrentSession(c)
}

// audit records a mutating operator action in the audit trail.
func audit(c echo.Context, action, desc string) {
	oprName := ""
	if s := session(c); s != nil {
		oprName = s.Email
	}
	GetDB(c).Create(&domain.SysOprLog{
		OprName:   oprName,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
