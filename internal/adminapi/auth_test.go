package adminapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/config"
	"github.com/stocknexus/stocknexus/internal/app"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/testdb"
	"github.com/stocknexus/stocknexus/internal/webserver"
	"github.com/stocknexus/stocknexus/pkg/common"
)

func newLoginContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder, app.AppContext) {
	t.Helper()

	application := app.NewApplication(config.DefaultAppConfig)
	application.OverrideDB(testdb.New(t))

	e := echo.New()
	e.Validator = webserver.NewValidator()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("db", application.DB())
	c.Set("appCtx", app.AppContext(application))
	return c, rec, application
}

func seedUser(t *testing.T, appCtx app.AppContext, email, password, role string, approved bool) int64 {
	t.Helper()

	now := time.Now()
	account := domain.Account{
		ID:               common.UUIDint64(),
		Email:            email,
		Password:         common.Sha256HashWithSalt(password, common.GetSecretSalt()),
		EmailConfirmedAt: &now,
	}
	if err := appCtx.DB().Create(&account).Error; err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	if err := appCtx.DB().Create(&domain.Profile{
		ID:       account.ID,
		Email:    email,
		FullName: "Test User",
		Approved: approved,
	}).Error; err != nil {
		t.Fatalf("seeding profile: %v", err)
	}
	if err := appCtx.DB().Create(&domain.UserRole{
		ID:     common.UUIDint64(),
		UserID: account.ID,
		Role:   role,
	}).Error; err != nil {
		t.Fatalf("seeding role: %v", err)
	}
	return account.ID
}

func TestLoginApprovedUser(t *testing.T) {
	c, rec, appCtx := newLoginContext(t,
		`{"email":"hod@example.org","password":"secret123"}`)
	seedUser(t, appCtx, "hod@example.org", "secret123", domain.RoleHod, true)

	if err := login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("response missing token: %s", rec.Body.String())
	}
}

func TestLoginUnapprovedUserDenied(t *testing.T) {
	c, rec, appCtx := newLoginContext(t,
		`{"email":"staff@example.org","password":"secret123"}`)
	seedUser(t, appCtx, "staff@example.org", "secret123", domain.RoleStaff, false)

	if err := login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginUnapprovedAdminBypassesGate(t *testing.T) {
	c, rec, appCtx := newLoginContext(t,
		`{"email":"admin@example.org","password":"secret123"}`)
	seedUser(t, appCtx, "admin@example.org", "secret123", domain.RoleAdmin, false)

	if err := login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	c, rec, appCtx := newLoginContext(t,
		`{"email":"hod@example.org","password":"wrongpass"}`)
	seedUser(t, appCtx, "hod@example.org", "secret123", domain.RoleHod, true)

	if err := login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterValidationReportsFields(t *testing.T) {
	c, rec, _ := newLoginContext(t,
		`{"email":"not-an-email","full_name":"Test User","department":"IT","requested_role":"staff"}`)

	if err := register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Code   string            `json:"code"`
		Detail map[string]string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp.Code != "VALIDATION_FAILED" {
		t.Fatalf("code = %q, want VALIDATION_FAILED", resp.Code)
	}
	if resp.Detail["Email"] != "email" {
		t.Fatalf("detail = %v, want field map with Email=email", resp.Detail)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	c, rec, appCtx := newLoginContext(t,
		`{"email":"HOD@Example.ORG","password":"secret123"}`)
	seedUser(t, appCtx, "hod@example.org", "secret123", domain.RoleHod, true)

	if err := login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}
