package adminapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/pkg/common"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestResetUserPassword(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/users/1/password", `{"password":"newsecret123"}`)
	c, rec, appCtx := newSessionContext(t, req, adminClaims())

	id := seedUser(t, appCtx, "staff@example.org", "oldsecret1", domain.RoleStaff, true)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(id, 10))

	if err := resetUserPassword(c); err != nil {
		t.Fatalf("resetUserPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var account domain.Account
	if err := appCtx.DB().Where("id = ?", id).First(&account).Error; err != nil {
		t.Fatalf("querying account: %v", err)
	}
	if account.Password != common.Sha256HashWithSalt("newsecret123", common.GetSecretSalt()) {
		t.Fatal("password was not updated to the new value")
	}
}

func TestResetUserPasswordRejectsShortPassword(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/users/1/password", `{"password":"short"}`)
	c, rec, appCtx := newSessionContext(t, req, adminClaims())

	id := seedUser(t, appCtx, "staff@example.org", "oldsecret1", domain.RoleStaff, true)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(id, 10))

	if err := resetUserPassword(c); err != nil {
		t.Fatalf("resetUserPassword: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestResetUserPasswordUnknownAccount(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/users/999/password", `{"password":"newsecret123"}`)
	c, rec, _ := newSessionContext(t, req, adminClaims())
	c.SetParamNames("id")
	c.SetParamValues("999")

	if err := resetUserPassword(c); err != nil {
		t.Fatalf("resetUserPassword: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	req := jsonRequest(http.MethodPut, "/users/1/role", `{"role":"superuser"}`)
	c, rec, appCtx := newSessionContext(t, req, adminClaims())

	id := seedUser(t, appCtx, "staff@example.org", "secret123", domain.RoleStaff, true)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(id, 10))

	if err := updateUserRole(c); err != nil {
		t.Fatalf("updateUserRole: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "INVALID_ROLE") {
		t.Fatalf("response missing INVALID_ROLE: %s", rec.Body.String())
	}

	var role domain.UserRole
	if err := appCtx.DB().Where("user_id = ?", id).First(&role).Error; err != nil {
		t.Fatalf("querying role: %v", err)
	}
	if role.Role != domain.RoleStaff {
		t.Fatalf("role = %q, want unchanged %q", role.Role, domain.RoleStaff)
	}
}
