package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/returns"
)

type PaymentApprovalHandler interface {
	Handle(ctx context.Context, command commands.ProcessPaymentApprovalCommand) (payment.VerificationResult, error)
}

type CancelShipmentHandler interface {
	Handle(ctx context.Context, command commands.CancelShipmentCommand) error
}

type CreateReturnHandler interface {
	Handle(ctx context.Context, command commands.CreateReturnCommand) (*returns.ReturnShipment, error)
}

type CancelReturnHandler interface {
	Handle(ctx context.Context, command commands.CancelReturnShipmentCommand) error
}

type GetShipmentHandler interface {
	Handle(ctx context.Context, query queries.GetShipmentQuery) (*queries.GetShipmentQueryResponse, error)
}

type GetOrderShipmentsHandler interface {
	Handle(ctx context.Context, query queries.GetOrderShipmentsQuery) ([]queries.OrderShipmentView, error)
}

type CalculateShippingHandler interface {
	Handle(ctx context.Context, query queries.CalculateShippingQuery) (queries.CalculateShippingResult, error)
}

type OptimizeOrderHandler interface {
	Handle(ctx context.Context, query queries.OptimizeOrderQuery) queries.OptimizeOrderResult
}

type WalletBalanceHandler interface {
	Handle(ctx context.Context, query queries.GetWalletBalanceQuery) (decimal.Decimal, error)
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	PaymentApproval   PaymentApprovalHandler
	CancelShipment    CancelShipmentHandler
	CreateReturn      CreateReturnHandler
	CancelReturn      CancelReturnHandler
	GetShipment       GetShipmentHandler
	GetOrderShipments GetOrderShipmentsHandler
	CalculateShipping CalculateShippingHandler
	OptimizeOrder     OptimizeOrderHandler
	WalletBalance     WalletBalanceHandler
}

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	handlers Handlers
}

var _ ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// ApprovePayment handles POST /api/v1/purchase-orders/{purchaseOrderId}/payments.
// A rejected payment comes back from the use case as a BadRequest and is answered with 400.
func (s *Server) ApprovePayment(ctx echo.Context, purchaseOrderID int64, params RequestParams) error {
	var request PaymentRequest
	if err := bindBody(ctx, &request); err != nil {
		return err
	}

	cmd, err := commands.NewProcessPaymentApprovalCommand(params.ClientID, params.ActorID, request.toMethod(purchaseOrderID))
	if err != nil {
		return err
	}

	result, err := s.handlers.PaymentApproval.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, PaymentResult{
		Success:       result.Success,
		Message:       result.FailureReason,
		TransactionID: result.TransactionID,
	})
}

// GetOrderShipments handles GET /api/v1/purchase-orders/{purchaseOrderId}/shipments.
func (s *Server) GetOrderShipments(ctx echo.Context, purchaseOrderID int64, params RequestParams) error {
	query := queries.NewGetOrderShipmentsQuery(params.ClientID, purchaseOrderID)

	views, err := s.handlers.GetOrderShipments.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrderShipmentsResponse(views))
}

// GetShipment handles GET /api/v1/shipments/{shipmentId}.
func (s *Server) GetShipment(ctx echo.Context, shipmentID int64, params RequestParams) error {
	query := queries.NewGetShipmentQuery(params.ClientID, shipmentID)

	view, err := s.handlers.GetShipment.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toShipmentResponse(view))
}

// CancelShipment handles POST /api/v1/shipments/{shipmentId}/cancel.
func (s *Server) CancelShipment(ctx echo.Context, shipmentID int64, params RequestParams) error {
	cmd, err := commands.NewCancelShipmentCommand(params.ClientID, shipmentID)
	if err != nil {
		return err
	}

	if err := s.handlers.CancelShipment.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateReturn handles POST /api/v1/shipments/{shipmentId}/returns.
func (s *Server) CreateReturn(ctx echo.Context, shipmentID int64, params RequestParams) error {
	var request ReturnRequest
	if err := bindBody(ctx, &request); err != nil {
		return err
	}

	parcel, err := request.toParcel()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateReturnCommand(params.ClientID, shipmentID, request.toItems(), parcel)
	if err != nil {
		return err
	}

	created, err := s.handlers.CreateReturn.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, toReturnShipmentResponse(created))
}

// CancelReturn handles POST /api/v1/returns/{returnShipmentId}/cancel.
func (s *Server) CancelReturn(ctx echo.Context, returnShipmentID int64, params RequestParams) error {
	cmd, err := commands.NewCancelReturnShipmentCommand(params.ClientID, returnShipmentID)
	if err != nil {
		return err
	}

	if err := s.handlers.CancelReturn.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CalculateShipping handles POST /api/v1/shipping/calculate.
func (s *Server) CalculateShipping(ctx echo.Context, params RequestParams) error {
	var request CalculateShippingRequest
	if err := bindBody(ctx, &request); err != nil {
		return err
	}

	locations, err := request.toLocations()
	if err != nil {
		return err
	}

	query := queries.NewCalculateShippingQuery(params.ClientID, request.DeliveryPostcode, request.COD, locations)
	result, err := s.handlers.CalculateShipping.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toCalculateShippingResponse(result))
}

// OptimizeOrder handles POST /api/v1/shipping/optimize. The plan is returned with 200
// even when optimization fails; success and errorMessage carry the outcome.
func (s *Server) OptimizeOrder(ctx echo.Context, params RequestParams) error {
	var request OptimizeOrderRequest
	if err := bindBody(ctx, &request); err != nil {
		return err
	}

	query := queries.NewOptimizeOrderQuery(
		params.ClientID,
		request.Quantities,
		request.DeliveryPostcode,
		request.COD,
		request.CustomAllocation,
	)
	result := s.handlers.OptimizeOrder.Handle(ctx.Request().Context(), query)

	return ctx.JSON(http.StatusOK, toOptimizeOrderResponse(result))
}

// GetWalletBalance handles GET /api/v1/wallet/balance.
func (s *Server) GetWalletBalance(ctx echo.Context, params RequestParams) error {
	query := queries.NewGetWalletBalanceQuery(params.ClientID)

	balance, err := s.handlers.WalletBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, WalletBalanceResponse{Balance: balance})
}
