package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/stocknexus/stocknexus/internal/app"
	"github.com/stocknexus/stocknexus/internal/approval"
	"github.com/stocknexus/stocknexus/internal/mailer"
	"github.com/stocknexus/stocknexus/internal/storage"
	"github.com/stocknexus/stocknexus/internal/webserver"
)

var (
	approvalService *approval.Service
	objectStore     storage.Store
)

// InitRouter wires service dependencies and registers every API route on
// the web server. Call after webserver.Init.
func InitRouter(appCtx app.AppContext) {
	cfg := appCtx.Config()

	var notifier approval.Mailer
	if cfg.Smtp.Enabled {
		notifier = mailer.NewSMTPMailer(cfg.Smtp)
	}

	db := appCtx.DB()
	appURL := appCtx.GetSettingsStringValue(app.ConfigSystem, app.ConfigAppURL)
	if appURL == "" {
		appURL = cfg.Web.AppURL
	}
	approvalService = approval.NewService(db, approval.NewGormIdentity(db), notifier, appURL)
	objectStore = storage.NewFileStore(cfg.Storage.Dir, cfg.Storage.PublicURL)

	webserver.PubGET("/health", healthCheck)

	registerAuthRoutes()
	registerItemRoutes()
	registerAlertRoutes()
	registerServiceRoutes()
	registerReportRoutes()
	registerUserRoutes()
	registerRegistrationRoutes()
	registerDashboardRoutes()
	registerSchedulerRoutes()
	registerSettingsRoutes()
}

func healthCheck(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"status": "up",
		"appid":  GetAppContext(c).Config().System.Appid,
	})
}
