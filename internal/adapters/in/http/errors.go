package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/resilience"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// bindBody decodes the JSON body into dest and runs the struct validation tags.
func bindBody(ctx echo.Context, dest any) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, dest); err != nil {
		return errs.NewBadRequestWithCause(err, "Invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewBadRequestWithCause(err, "Invalid request body")
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fe.Field()+" "+validationMessage(fe))
	}
	return errs.NewBadRequestWithCause(err, "Validation failed: %s", strings.Join(problems, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "numeric":
		return "must be numeric"
	}
	return "is invalid"
}

// ErrorHandler renders every error returned by a route as an Error body. Domain
// messages are passed through for 4xx; anything unclassified is logged and hidden.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status, message := classify(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(ctx.Request().Context(), "request failed",
				"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		}

		if writeErr := ctx.JSON(status, Error{Code: status, Message: message}); writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "failed to write error response", "error", writeErr)
		}
	}
}

func classify(err error) (int, string) {
	switch {
	case errs.IsNotFound(err), errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errs.IsBadRequest(err),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable, "Carrier is temporarily unavailable"
	}

	var requestErr *openapi3filter.RequestError
	if errors.As(err, &requestErr) {
		return http.StatusBadRequest, requestErr.Error()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	return http.StatusInternalServerError, "Internal server error"
}
