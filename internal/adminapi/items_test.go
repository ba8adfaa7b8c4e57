package adminapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/config"
	"github.com/stocknexus/stocknexus/internal/app"
	"github.com/stocknexus/stocknexus/internal/domain"
	"github.com/stocknexus/stocknexus/internal/testdb"
	"github.com/stocknexus/stocknexus/internal/webserver"
)

// newSessionContext builds a request context carrying verified claims, the
// way the JWT middleware does on authenticated routes.
func newSessionContext(t *testing.T, req *http.Request, claims *webserver.SessionClaims) (echo.Context, *httptest.ResponseRecorder, app.AppContext) {
	t.Helper()

	application := app.NewApplication(config.DefaultAppConfig)
	application.OverrideDB(testdb.New(t))

	e := echo.New()
	e.Validator = webserver.NewValidator()

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("db", application.DB())
	c.Set("appCtx", app.AppContext(application))
	c.Set("user", &jwt.Token{Claims: claims})
	return c, rec, application
}

func adminClaims() *webserver.SessionClaims {
	return &webserver.SessionClaims{
		UserID: 1,
		Email:  "admin@example.org",
		Role:   domain.RoleAdmin,
	}
}

func csvImportRequest(t *testing.T, csv string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "items.csv")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("writing csv: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/inventory/import", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestImportItemsCreatesRows(t *testing.T) {
	req := csvImportRequest(t,
		"name,department,quantity,low_stock_threshold\n"+
			"Laptop,IT,7,5\n"+
			"Beaker,Chemistry,3,5\n")
	c, rec, appCtx := newSessionContext(t, req, adminClaims())

	if err := importItems(c); err != nil {
		t.Fatalf("importItems: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"imported":2`) {
		t.Fatalf("response missing imported count: %s", rec.Body.String())
	}

	var item domain.InventoryItem
	if err := appCtx.DB().Where("name = ?", "Laptop").First(&item).Error; err != nil {
		t.Fatalf("imported item missing: %v", err)
	}
	if item.Quantity != 7 || item.Department != "IT" {
		t.Fatalf("item = %+v, want quantity 7 in IT", item)
	}
}

func TestImportItemsRejectsNegativeValues(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"negative quantity", "Laptop,IT,-5,5"},
		{"negative threshold", "Laptop,IT,5,-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := csvImportRequest(t,
				"name,department,quantity,low_stock_threshold\n"+tc.row+"\n")
			c, rec, appCtx := newSessionContext(t, req, adminClaims())

			if err := importItems(c); err != nil {
				t.Fatalf("importItems: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), "INVALID_ROW") {
				t.Fatalf("response missing INVALID_ROW: %s", rec.Body.String())
			}

			var count int64
			appCtx.DB().Model(&domain.InventoryItem{}).Count(&count)
			if count != 0 {
				t.Fatalf("items persisted = %d, want 0", count)
			}
		})
	}
}

func TestImportItemsRejectsUnknownDepartment(t *testing.T) {
	req := csvImportRequest(t,
		"name,department,quantity,low_stock_threshold\nLaptop,Astrology,5,5\n")
	c, rec, appCtx := newSessionContext(t, req, adminClaims())

	if err := importItems(c); err != nil {
		t.Fatalf("importItems: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	var count int64
	appCtx.DB().Model(&domain.InventoryItem{}).Count(&count)
	if count != 0 {
		t.Fatalf("items persisted = %d, want 0", count)
	}
}
