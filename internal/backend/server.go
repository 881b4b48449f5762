package backend

import (
	"log/slog"

	"github.com/jo-hoe/similarity-game/internal/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer builds the echo instance with middleware, validator, error
// rendering and all routes of the API service.
func NewServer(apiService *APIService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apiService.errorHandler

	// Configure request logger to skip probe and metrics scrapes
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe" || c.Path() == "/metrics"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		LogUserAgent: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remoteIP", v.RemoteIP,
				"userAgent", v.UserAgent,
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, "error", v.Error)...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		},
	}))

	e.Use(apiService.metrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(apiService.corsMiddleware())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &common.GenericEchoValidator{}

	apiService.SetRoutes(e)
	return e
}

// corsMiddleware applies the configured cross-origin policy. Empty lists
// fall back to allowing everything.
func (s *APIService) corsMiddleware() echo.MiddlewareFunc {
	cors := s.config.CORS
	config := middleware.CORSConfig{
		AllowOrigins:     cors.AllowOrigins,
		AllowMethods:     cors.AllowMethods,
		AllowHeaders:     cors.AllowHeaders,
		AllowCredentials: cors.AllowCredentials,
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = middleware.DefaultCORSConfig.AllowMethods
	}
	return middleware.CORSWithConfig(config)
}
