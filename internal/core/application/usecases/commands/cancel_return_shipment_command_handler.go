package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"fulfillment/internal/core/application/carrierflow"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelReturnShipmentCommandHandler cancels a scheduled return with the carrier and
// marks it RETURN_CANCELLED. The shipment it belongs to keeps its status.
type CancelReturnShipmentCommandHandler struct {
	uowFactory ReturnUoWFactory
	carriers   ports.CarrierClientFactory
	logger     *slog.Logger
}

func NewCancelReturnShipmentCommandHandler(
	uowFactory ReturnUoWFactory,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) CancelReturnShipmentCommandHandler {
	return CancelReturnShipmentCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		logger:     logger.With("component", "CancelReturnShipment"),
	}
}

func (h CancelReturnShipmentCommandHandler) Handle(ctx context.Context, command CancelReturnShipmentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.ReturnShipmentRepository().Get(ctx, command.ReturnShipmentID())
	if errors.Is(err, errs.ErrObjectNotFound) || (err == nil && r.ClientID() != command.ClientID()) {
		return errs.NewNotFound("Return shipment not found with ID: %d", command.ReturnShipmentID())
	}
	if err != nil {
		return err
	}
	if err = r.ValidateCancel(); err != nil {
		return err
	}

	carrierOrderID, err := strconv.ParseInt(strings.TrimSpace(r.CarrierOrderID()), 10, 64)
	if err != nil {
		return errs.NewBadRequestWithCause(err, "Invalid return shipment Id. Format error: %s", r.CarrierOrderID())
	}

	client, err := uow.ClientRepository().Get(ctx, r.ClientID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if !client.Credentials.IsComplete() {
		return errs.NewBadRequest("Shiprocket credentials not configured for this client.")
	}

	carrier := h.carriers.ForClient(client.Credentials)
	_, err = carrierflow.MustSucceed(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, carrier.CancelOrders(ctx, []int64{carrierOrderID})
	}, "Failed to cancel return shipment in ShipRocket: %s")
	if err != nil {
		return err
	}

	if err = r.Cancel(); err != nil {
		return err
	}
	if err = uow.ReturnShipmentRepository().Update(ctx, r); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "return shipment cancelled",
		"return_shipment_id", r.ID(),
		"carrier_order_id", carrierOrderID)
	return nil
}
