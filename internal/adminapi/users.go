package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/approval"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"gorm.io/gorm"
)

type rolePayload struct {
	Role       string `json:"role" validate:"required"`
	Department string `json:"department" validate:"omitempty"`
}

type passwordResetPayload struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// userView joins a profile with its role assignment.
type userView struct {
	domain.Profile
	Role           string `json:"role"`
	RoleDepartment string `json:"role_department"`
}

func registerUserRoutes() {
	webserver.ApiGET("/users", listUsers)
	webserver.ApiPUT("/users/:id/role", updateUserRole)
	webserver.ApiPOST("/users/:id/deactivate", deactivateUser)
	webserver.ApiPOST("/users/:id/reactivate", reactivateUser)
	webserver.ApiPOST("/users/:id/password", resetUserPassword)
}

func listUsers(c echo.Context) error {
	sess := session(c)
	if sess.Role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may list users", nil)
	}

	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Profile{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(GetDB(c).Name(), "postgres") {
			db = db.Where("email ILIKE ? OR full_name ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", lq, lq)
		}
	}
	if dept := strings.TrimSpace(c.QueryParam("department")); dept != "" {
		db = db.Where("department = ?", dept)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}

	var profiles []domain.Profile
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&profiles).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}

	views := make([]userView, 0, len(profiles))
	for _, p := range profiles {
		view := userView{Profile: p}
		var role domain.UserRole
		if err := GetDB(c).Where("user_id = ?", p.ID).First(&role).Error; err == nil {
			view.Role = role.Role
			view.RoleDepartment = role.Department
		}
		views = append(views, view)
	}

	return paged(c, views, total, page, pageSize)
}

func updateUserRole(c echo.Context) error {
	sess := session(c)
	if sess.Role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may change roles", nil)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}

	var payload rolePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse role parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.IsValidRole(payload.Role) {
		return fail(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role", nil)
	}
	if payload.Department != "" && !domain.IsValidDepartment(payload.Department) {
		return fail(c, http.StatusBadRequest, "INVALID_DEPARTMENT", "Unknown department", nil)
	}

	var role domain.UserRole
	if err := GetDB(c).Where("user_id = ?", id).First(&role).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ROLE_NOT_FOUND", "User has no role assignment", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query role", err.Error())
	}

	err = GetDB(c).Model(&domain.UserRole{}).Where("id = ?", role.ID).
		Updates(map[string]interface{}{
			"role":       payload.Role,
			"department": payload.Department,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update role", err.Error())
	}

	audit(c, "update_role", "changed user role to "+payload.Role)
	return ok(c, map[string]interface{}{"user_id": id, "role": payload.Role, "department": payload.Department})
}

// deactivateUser clears the approved flag; the role assignment survives so
// reactivation restores the previous permissions.
func deactivateUser(c echo.Context) error {
	return setUserApproved(c, false, "deactivate_user", "deactivated user account")
}

func reactivateUser(c echo.Context) error {
	return setUserApproved(c, true, "reactivate_user", "reactivated user account")
}

// resetUserPassword sets a user's password out-of-band. This is the
// recovery path for accounts created during approval with a random,
// never-communicated password.
func resetUserPassword(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}

	var payload passwordResetPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse password parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var account domain.Account
	if err := GetDB(c).Where("id = ?", id).First(&account).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	identity := approval.NewGormIdentity(GetDB(c))
	if err := identity.UpdatePassword(c.Request().Context(), id, payload.Password); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update password", err.Error())
	}

	audit(c, "reset_password", "reset password for "+account.Email)
	return ok(c, map[string]interface{}{"user_id": id, "updated": true})
}

func setUserApproved(c echo.Context, approved bool, action, desc string) error {
	sess := session(c)
	if sess.Role != domain.RoleAdmin {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators may change account status", nil)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if id == sess.UserID && !approved {
		return fail(c, http.StatusConflict, "SELF_DEACTIVATE", "Cannot deactivate your own account", nil)
	}

	res := GetDB(c).Model(&domain.Profile{}).Where("id = ?", id).
		Updates(map[string]interface{}{"approved": approved, "updated_at": time.Now()})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update account status", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	}

	audit(c, action, desc)
	return ok(c, map[string]interface{}{"user_id": id, "approved": approved})
}
