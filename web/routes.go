package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"trackifyr/activity"
	"trackifyr/auth"
	"trackifyr/config"
)

// New builds the echo server with every route of the dashboard.
func New(cfg config.ServerConfig, am *auth.AuthManager, trackers *activity.Registry) (*echo.Echo, error) {
	tmpl, err := NewTemplates()
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.Renderer = tmpl
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if cfg.CSRF {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper: func(c echo.Context) bool {
				// browsers cannot send cross-site JSON without a preflight
				return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
			},
			TokenLookup:    "form:csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
	e.Use(am.GateMiddleware)
	Routes(e, am, NewPages(trackers), trackers)
	return e, nil
}

func Routes(e *echo.Echo, am *auth.AuthManager, p *Pages, trackers *activity.Registry) {
	e.GET("/signup", am.SignupHandler, auth.RequireNoSession)
	e.POST("/signup", am.SignupPostHandler, auth.RequireNoSession)
	e.GET("/signin", am.SigninHandler, auth.RequireNoSession)
	e.POST("/signin", am.SigninPostHandler, auth.RequireNoSession)
	e.GET("/signout", am.SignoutHandler)
	e.POST("/signout", am.SignoutHandler)

	e.GET("/dashboard", p.DashboardHandler, auth.RequireSession)
	e.GET("/reports", p.ReportsHandler, auth.RequireSession)
	e.GET("/profile", p.ProfileHandler, auth.RequireSession)
	e.POST("/profile", p.ProfilePostHandler, auth.RequireSession)

	a := e.Group("/api/auth")
	a.POST("/signup", am.ApiSignupHandler)
	a.POST("/signin", am.ApiSigninHandler)
	a.POST("/signout", am.ApiSignoutHandler)
	a.GET("/me", am.ApiMeHandler, auth.RequireSessionAPI)

	api := e.Group("/api", auth.RequireSessionAPI)
	api.GET("/metrics", p.ApiMetricsHandler)
	api.GET("/activity", trackers.HistoryHandler)
	api.POST("/activity", trackers.IngestHandler, middleware.BodyLimit(activity.MaxBatchBytes))

	toSignin := func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/signin")
	}
	e.GET("/", toSignin)
	e.RouteNotFound("/*", toSignin)
}
