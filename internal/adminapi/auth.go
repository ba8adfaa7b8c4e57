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
	"github.com/stocknexus/stocknexus/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerPayload struct {
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"full_name" validate:"required,min=2,max=200"`
	Department    string `json:"department" validate:"required"`
	RequestedRole string `json:"requested_role" validate:"required,oneof=hod staff"`
	Justification string `json:"justification" validate:"omitempty,max=1000"`
}

type passwordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
	webserver.PubPOST("/auth/register", register)
	webserver.ApiPOST("/auth/password", changePassword)
	webserver.ApiGET("/auth/me", currentUser)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)

	var account domain.Account
	err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(payload.Email))).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	if account.Password != common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}

	var role domain.UserRole
	if err := db.Where("user_id = ?", account.ID).First(&role).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusForbidden, "NOT_APPROVED", "Account has no role assignment yet", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query role", err.Error())
	}

	var profile domain.Profile
	_ = db.Where("id = ?", account.ID).First(&profile).Error

	if !policy.CanLogin(role.Role, profile.Approved) {
		return fail(c, http.StatusForbidden, "NOT_APPROVED", "Account is awaiting approval", nil)
	}

	db.Model(&domain.Account{}).Where("id = ?", account.ID).
		Update("last_login", time.Now())

	token, err := webserver.NewToken(GetAppContext(c).Config().Web.Secret, &webserver.SessionClaims{
		UserID:     account.ID,
		Email:      account.Email,
		Role:       role.Role,
		Department: role.Department,
		Approved:   profile.Approved,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token", err.Error())
	}

	zap.L().Info("operator login",
		zap.String("email", account.Email),
		zap.String("role", role.Role))

	return ok(c, map[string]interface{}{
		"token":      token,
		"user_id":    account.ID,
		"email":      account.Email,
		"full_name":  profile.FullName,
		"role":       role.Role,
		"department": role.Department,
	})
}

// register files a registration request for admin review. It never
// creates an account by itself.
func register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.IsValidDepartment(payload.Department) {
		return fail(c, http.StatusBadRequest, "INVALID_DEPARTMENT", "Unknown department", nil)
	}

	db := GetDB(c)
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var pending int64
	db.Model(&domain.RegistrationRequest{}).
		Where("LOWER(email) = ? AND status = ?", email, domain.RequestStatusPending).
		Count(&pending)
	if pending > 0 {
		return fail(c, http.StatusConflict, "REQUEST_EXISTS", "A pending request already exists for this email", nil)
	}

	req := domain.RegistrationRequest{
		ID:            common.UUIDint64(),
		Email:         strings.TrimSpace(payload.Email),
		FullName:      strings.TrimSpace(payload.FullName),
		Department:    payload.Department,
		RequestedRole: payload.RequestedRole,
		Justification: payload.Justification,
		Status:        domain.RequestStatusPending,
	}
	if err := db.Create(&req).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to file registration request", err.Error())
	}

	return ok(c, map[string]interface{}{"id": req.ID, "status": req.Status})
}

func changePassword(c echo.Context) error {
	var payload passwordPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse password parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	sess := session(c)
	db := GetDB(c)

	var account domain.Account
	if err := db.Where("id = ?", sess.UserID).First(&account).Error; err != nil {
		return fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", nil)
	}
	if account.Password != common.Sha256HashWithSalt(payload.OldPassword, common.GetSecretSalt()) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is incorrect", nil)
	}

	err := db.Model(&domain.Account{}).Where("id = ?", sess.UserID).
		Updates(map[string]interface{}{
			"password":   common.Sha256HashWithSalt(payload.NewPassword, common.GetSecretSalt()),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update password", err.Error())
	}

	audit(c, "change_password", "operator changed own password")
	return ok(c, map[string]interface{}{"updated": true})
}

func currentUser(c echo.Context) error {
	sess := session(c)

	var profile domain.Profile
	_ = GetDB(c).Where("id = ?", sess.UserID).First(&profile).Error

	return ok(c, map[string]interface{}{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"full_name":  profile.FullName,
		"role":       sess.Role,
		"department": sess.Department,
		"approved":   profile.Approved,
	})
}
