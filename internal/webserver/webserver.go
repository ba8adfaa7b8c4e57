package webserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stocknexus/stocknexus/internal/app"
	"go.uber.org/zap"
)

// WebServer hosts the admin API and the public object files.
type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	appCtx app.AppContext
}

var server *WebServer

func Init(appCtx app.AppContext) {
	server = NewWebServer(appCtx)
}

func Listen() error {
	return server.Start()
}

func NewWebServer(appCtx app.AppContext) *WebServer {
	s := &WebServer{appCtx: appCtx, root: echo.New()}
	s.root.Pre(middleware.RemoveTrailingSlash())
	s.root.Use(ServerRecover(appCtx.Config().System.Debug))
	s.root.Use(injectContext(appCtx))
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.Debug = appCtx.Config().System.Debug
	s.root.Validator = NewValidator()

	// uploaded object files
	s.root.Static(appCtx.Config().Storage.PublicURL, appCtx.Config().Storage.Dir)

	s.api = s.root.Group("/api")
	s.api.Use(sessionMiddleware(appCtx.Config().Web.Secret))
	return s
}

// injectContext makes the application context and database handle
// available to every handler.
func injectContext(appCtx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("appCtx", appCtx)
			c.Set("db", appCtx.DB())
			return next(c)
		}
	}
}

// ServerRecover converts handler panics into a json error response.
func ServerRecover(debug bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					if debug {
						zap.S().Errorf("handler panic: %+v", err)
					}
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"code": http.StatusInternalServerError,
						"msg":  err.Error(),
					})
				}
			}()
			return next(c)
		}
	}
}

func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	zap.S().Infof("starting web server on %s:%d", cfg.Host, cfg.Port)
	return s.root.Start(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
}

// PubGET registers a route that requires no session.
func PubGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

// PubPOST registers a route that requires no session.
func PubPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

// ApiGET registers an authenticated GET route under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /api.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /api.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /api.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
