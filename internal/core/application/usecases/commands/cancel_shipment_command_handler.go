package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"fulfillment/internal/core/application/carrierflow"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelShipmentCommandHandler cancels the carrier order of a shipment and marks the
// shipment CANCELLED. The carrier is never called for a shipment that is already
// cancelled or delivered.
type CancelShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	carriers   ports.CarrierClientFactory
	logger     *slog.Logger
}

func NewCancelShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		logger:     logger.With("component", "CancelShipment"),
	}
}

func (h CancelShipmentCommandHandler) Handle(ctx context.Context, command CancelShipmentCommand) error {
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

	s, err := uow.ShipmentRepository().Get(ctx, command.ShipmentID())
	if errors.Is(err, errs.ErrObjectNotFound) || (err == nil && s.ClientID() != command.ClientID()) {
		return errs.NewNotFound("Shipment not found with ID: %d", command.ShipmentID())
	}
	if err != nil {
		return err
	}

	if s.Status() == shipment.Cancelled {
		return errs.NewBadRequest("Shipment is already cancelled.")
	}
	if !s.HasCarrierOrder() {
		return errs.NewBadRequest("Shipment does not have a ShipRocket order ID. Cannot cancel.")
	}
	carrierOrderID, err := strconv.ParseInt(s.CarrierOrderID(), 10, 64)
	if err != nil {
		return errs.NewBadRequestWithCause(err, "Invalid shipment Id. Format error: %s", s.CarrierOrderID())
	}
	if err = s.Cancel(); err != nil {
		return err
	}

	client, err := uow.ClientRepository().Get(ctx, s.ClientID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if !client.Credentials.IsComplete() {
		return errs.NewBadRequest("Shiprocket credentials not configured for this client.")
	}

	carrier := h.carriers.ForClient(client.Credentials)
	_, err = carrierflow.MustSucceed(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, carrier.CancelOrders(ctx, []int64{carrierOrderID})
	}, "Invalid shipment Id. %s")
	if err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "shipment cancelled",
		"shipment_id", s.ID(),
		"carrier_order_id", carrierOrderID)
	return nil
}
