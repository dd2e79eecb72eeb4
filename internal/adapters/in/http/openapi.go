package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// Spec is the API description served to clients and used to validate requests.
type Spec struct {
	doc    *openapi3.T
	raw    []byte
	router routers.Router
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*Spec, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI spec: %w", err)
	}

	return &Spec{doc: doc, raw: raw, router: router}, nil
}

func (s *Spec) Document() *openapi3.T {
	return s.doc
}

// ReadDoc makes Spec a swag documentation provider.
func (s *Spec) ReadDoc() string {
	return string(s.raw)
}

func (s *Spec) serveJSON(ctx echo.Context) error {
	return ctx.JSONBlob(http.StatusOK, s.raw)
}

// ValidateRequests rejects /api requests that do not match the document. Requests
// for unknown routes are passed on so echo answers them.
func (s *Spec) ValidateRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if !strings.HasPrefix(req.URL.Path, "/api/") {
				return next(ctx)
			}

			route, pathParams, err := s.router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

var registerDocOnce sync.Once

// registerDoc publishes the spec to the swagger UI. Only the first spec is kept.
func registerDoc(spec *Spec) {
	registerDocOnce.Do(func() {
		if swag.GetSwagger(swag.Name) == nil {
			swag.Register(swag.Name, spec)
		}
	})
}
