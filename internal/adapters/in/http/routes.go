package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"fulfillment/internal/pkg/errs"
)

const (
	clientIDHeader = "X-Client-Id"
	userIDHeader   = "X-User-Id"
)

// RequestParams carries the caller identity taken from request headers. ActorID is
// zero when X-User-Id is absent.
type RequestParams struct {
	ClientID int64
	ActorID  int64
}

// ServerInterface is implemented by Server. Path parameters and headers are bound
// before a method is called.
type ServerInterface interface {
	ApprovePayment(ctx echo.Context, purchaseOrderID int64, params RequestParams) error
	GetOrderShipments(ctx echo.Context, purchaseOrderID int64, params RequestParams) error
	GetShipment(ctx echo.Context, shipmentID int64, params RequestParams) error
	CancelShipment(ctx echo.Context, shipmentID int64, params RequestParams) error
	CreateReturn(ctx echo.Context, shipmentID int64, params RequestParams) error
	CancelReturn(ctx echo.Context, returnShipmentID int64, params RequestParams) error
	CalculateShipping(ctx echo.Context, params RequestParams) error
	OptimizeOrder(ctx echo.Context, params RequestParams) error
	GetWalletBalance(ctx echo.Context, params RequestParams) error
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// ServerInterfaceWrapper converts echo contexts to typed parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// RegisterHandlers adds every API route to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/purchase-orders/:purchaseOrderId/payments", w.ApprovePayment)
	router.GET("/api/v1/purchase-orders/:purchaseOrderId/shipments", w.GetOrderShipments)
	router.GET("/api/v1/shipments/:shipmentId", w.GetShipment)
	router.POST("/api/v1/shipments/:shipmentId/cancel", w.CancelShipment)
	router.POST("/api/v1/shipments/:shipmentId/returns", w.CreateReturn)
	router.POST("/api/v1/returns/:returnShipmentId/cancel", w.CancelReturn)
	router.POST("/api/v1/shipping/calculate", w.CalculateShipping)
	router.POST("/api/v1/shipping/optimize", w.OptimizeOrder)
	router.GET("/api/v1/wallet/balance", w.GetWalletBalance)
}

func (w *ServerInterfaceWrapper) ApprovePayment(ctx echo.Context) error {
	id, params, err := bindPathAndParams(ctx, "purchaseOrderId")
	if err != nil {
		return err
	}
	return w.Handler.ApprovePayment(ctx, id, params)
}

func (w *ServerInterfaceWrapper) GetOrderShipments(ctx echo.Context) error {
	id, params, err := bindPathAndParams(ctx, "purchaseOrderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderShipments(ctx, id, params)
}

func (w *ServerInterfaceWrapper) GetShipment(ctx echo.Context) error {
	id, params, err := bindPathAndParams(ctx, "shipmentId")
	if err != nil {
		return err
	}
	return w.Handler.GetShipment(ctx, id, params)
}

func (w *ServerInterfaceWrapper) CancelShipment(ctx echo.Context) error {
	id, params, err := bindPathAndParams(ctx, "shipmentId")
	if err != nil {
		return err
	}
	return w.Handler.CancelShipment(ctx, id, params)
}

func (w *ServerInterfaceWrapper) CreateReturn(ctx echo.Context) error {
	id, params, err := bindPathAndParams(ctx, "shipmentId")
	if err != nil {
		return err
	}
	return w.Handler.CreateReturn(ctx, id, params)
}

func (w *ServerInterfaceWrapper) CancelReturn(ctx echo.Context) error {
	id, params, err := bindPathAndParams(ctx, "returnShipmentId")
	if err != nil {
		return err
	}
	return w.Handler.CancelReturn(ctx, id, params)
}

func (w *ServerInterfaceWrapper) CalculateShipping(ctx echo.Context) error {
	params, err := bindParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CalculateShipping(ctx, params)
}

func (w *ServerInterfaceWrapper) OptimizeOrder(ctx echo.Context) error {
	params, err := bindParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.OptimizeOrder(ctx, params)
}

func (w *ServerInterfaceWrapper) GetWalletBalance(ctx echo.Context) error {
	params, err := bindParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetWalletBalance(ctx, params)
}

func bindPathAndParams(ctx echo.Context, name string) (int64, RequestParams, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, RequestParams{}, errs.NewBadRequestWithCause(err, "Invalid format for parameter %s", name)
	}

	params, err := bindParams(ctx)
	return id, params, err
}

func bindParams(ctx echo.Context) (RequestParams, error) {
	var params RequestParams

	clientID, found, err := bindHeader(ctx, clientIDHeader, true)
	if err != nil {
		return params, err
	}
	if !found {
		return params, errs.NewBadRequest("Header parameter %s is required, but not found", clientIDHeader)
	}
	params.ClientID = clientID

	actorID, _, err := bindHeader(ctx, userIDHeader, false)
	if err != nil {
		return params, err
	}
	params.ActorID = actorID

	return params, nil
}

func bindHeader(ctx echo.Context, name string, required bool) (int64, bool, error) {
	values, found := ctx.Request().Header[http.CanonicalHeaderKey(name)]
	if !found {
		return 0, false, nil
	}
	if n := len(values); n != 1 {
		return 0, true, errs.NewBadRequest("Expected one value for %s, got %d", name, n)
	}

	var value int64
	err := runtime.BindStyledParameterWithOptions("simple", name, values[0], &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: required})
	if err != nil {
		return 0, true, errs.NewBadRequestWithCause(err, "Invalid format for parameter %s", name)
	}
	return value, true, nil
}
