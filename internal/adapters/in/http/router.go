package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type RouterConfig struct {
	// ValidateRequests checks /api requests against the OpenAPI document before
	// they reach a handler.
	ValidateRequests bool
}

// NewRouter builds the echo instance serving the API, the OpenAPI document at
// /openapi.json, the swagger UI at /swagger/ and the health check.
func NewRouter(server ServerInterface, spec *Spec, cfg RouterConfig, logger *slog.Logger) *echo.Echo {
	logger = logger.With("component", "HTTPServer")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	if cfg.ValidateRequests {
		e.Use(spec.ValidateRequests())
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", spec.serveJSON)

	registerDoc(spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, server)
	return e
}
