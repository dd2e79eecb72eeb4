package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"fulfillment/internal/core/application/carrierflow"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateReturnCommandHandler opens a return against a delivered shipment.
//
// The return record is the source of truth. Once the request passes the policy checks
// the record is saved and the shipment moves to FULL_RETURN_INITIATED or
// PARTIAL_RETURN_INITIATED, even when the carrier cannot schedule the pickup. In that
// case the return stays RETURN_PENDING without carrier ids.
type CreateReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
	carriers   ports.CarrierClientFactory
	logger     *slog.Logger
	now        func() time.Time
}

func NewCreateReturnCommandHandler(
	uowFactory ReturnUoWFactory,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) CreateReturnCommandHandler {
	return CreateReturnCommandHandler{
		uowFactory: uowFactory,
		carriers:   carriers,
		logger:     logger.With("component", "CreateReturn"),
		now:        time.Now,
	}
}

// Handle returns the persisted return shipment.
func (h CreateReturnCommandHandler) Handle(ctx context.Context, command CreateReturnCommand) (*returns.ReturnShipment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().Get(ctx, command.ShipmentID())
	if errors.Is(err, errs.ErrObjectNotFound) || (err == nil && s.ClientID() != command.ClientID()) {
		return nil, errs.NewNotFound("Shipment not found with ID: %d", command.ShipmentID())
	}
	if err != nil {
		return nil, err
	}
	if s.Status() != shipment.Delivered {
		return nil, errs.NewBadRequest("Can only create return for delivered shipments. Current status: %s", s.Status())
	}

	alreadyReturned, err := uow.ReturnShipmentRepository().ReturnedQuantities(ctx, s.ID())
	if err != nil {
		return nil, err
	}

	now := h.now()
	lines, products, err := h.checkItems(ctx, uow.CatalogRepository(), s, command.Items(), alreadyReturned, now)
	if err != nil {
		return nil, err
	}

	returnedUnits := 0
	for _, units := range alreadyReturned {
		returnedUnits += units
	}
	for _, line := range lines {
		returnedUnits += line.Quantity
	}
	returnType := returns.TypeFor(returnedUnits, s.AllocatedUnits())

	customer, warehouse, err := h.endpoints(ctx, uow, s)
	if err != nil {
		return nil, err
	}

	reference := carrierflow.NewReturnReference(s.ID())
	r, err := returns.NewReturnShipment(s.ID(), s.ClientID(), reference, returnType, command.Parcel(), lines)
	if err != nil {
		return nil, err
	}
	if err = s.InitiateReturn(returnType == returns.FullReturn); err != nil {
		return nil, err
	}
	if err = uow.ReturnShipmentRepository().Add(ctx, r); err != nil {
		return nil, err
	}
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}

	h.scheduleReturn(ctx, uow, s, r, carrierflow.ReturnInput{
		Shipment:  s,
		Customer:  customer,
		Warehouse: warehouse,
		Products:  products,
		Lines:     lines,
		Parcel:    command.Parcel(),
		Now:       now,
	})

	if err = uow.ReturnShipmentRepository().Update(ctx, r); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "return created",
		"shipment_id", s.ID(),
		"return_shipment_id", r.ID(),
		"reference", reference,
		"type", returnType.String(),
		"carrier_order_id", r.CarrierOrderID())
	return r, nil
}

// checkItems applies the return policy to every item. Repeated items for the same
// product are checked against their running total.
func (h CreateReturnCommandHandler) checkItems(
	ctx context.Context,
	catalogRepo ports.CatalogRepository,
	s *shipment.Shipment,
	items []ReturnItem,
	alreadyReturned map[int64]int,
	now time.Time,
) ([]returns.Line, map[int64]catalog.Product, error) {
	products := make(map[int64]catalog.Product, len(items))
	requested := make(map[int64]int, len(items))
	lines := make([]returns.Line, 0, len(items))

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			var err error
			product, err = catalogRepo.Product(ctx, item.ProductID)
			if errors.Is(err, errs.ErrObjectNotFound) {
				return nil, nil, errs.NewNotFound("Product not found with ID: %d", item.ProductID)
			}
			if err != nil {
				return nil, nil, err
			}
			products[item.ProductID] = product
		}

		allocated, ok := s.ProductLine(item.ProductID)
		if !ok {
			return nil, nil, errs.NewBadRequest("Product ID %d is not part of this shipment.", item.ProductID)
		}

		requested[item.ProductID] += item.Quantity
		if err := returns.CheckQuantity(item.ProductID, requested[item.ProductID], allocated.Quantity(),
			alreadyReturned[item.ProductID]); err != nil {
			return nil, nil, err
		}
		if err := returns.CheckWindow(product, s.DeliveredAt(), now); err != nil {
			return nil, nil, err
		}

		lines = append(lines, returns.Line{ProductID: item.ProductID, Quantity: item.Quantity, Reason: item.Reason})
	}
	return lines, products, nil
}

// endpoints resolves where the carrier collects the return and where it delivers it.
func (h CreateReturnCommandHandler) endpoints(
	ctx context.Context,
	uow ReturnUoW,
	s *shipment.Shipment,
) (order.Address, catalog.PickupLocation, error) {
	summary, err := uow.PurchaseOrderRepository().Summary(ctx, s.OrderSummaryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Address{}, catalog.PickupLocation{}, errs.NewNotFound("Order summary not found with ID: %d", s.OrderSummaryID())
	}
	if err != nil {
		return order.Address{}, catalog.PickupLocation{}, err
	}
	if !summary.HasDeliveryAddress() {
		return order.Address{}, catalog.PickupLocation{}, errs.NewBadRequest("Delivery address not found in order summary.")
	}

	warehouse, err := uow.CatalogRepository().PickupLocation(ctx, s.PickupLocationID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Address{}, catalog.PickupLocation{}, errs.NewNotFound("Pickup location not found with ID: %d", s.PickupLocationID())
	}
	if err != nil {
		return order.Address{}, catalog.PickupLocation{}, err
	}
	return *summary.DeliveryAddress, warehouse, nil
}

// scheduleReturn asks the carrier for a return order and its waybill. Every failure
// here is logged and leaves the return pending.
func (h CreateReturnCommandHandler) scheduleReturn(
	ctx context.Context,
	uow ReturnUoW,
	s *shipment.Shipment,
	r *returns.ReturnShipment,
	in carrierflow.ReturnInput,
) {
	client, err := uow.ClientRepository().Get(ctx, s.ClientID())
	if err != nil || !client.Credentials.IsComplete() {
		h.logger.WarnContext(ctx, "return not scheduled with the carrier: credentials unavailable",
			"shipment_id", s.ID(), "return_shipment_id", r.ID(), "error", err)
		return
	}
	carrier := h.carriers.ForClient(client.Credentials)
	carrierCtx := context.WithoutCancel(ctx)

	request := carrierflow.BuildReturnRequest(r.Reference(), in)
	created, ok := carrierflow.BestEffort(carrierCtx, h.logger, func(ctx context.Context) (*ports.CarrierOrderResponse, error) {
		return carrier.CreateReturnOrder(ctx, request)
	}, "Failed to create ShipRocket return order for return shipment ID: %d. Error: %s", r.ID())
	if !ok {
		return
	}
	if created == nil || created.OrderID == 0 || created.ShipmentID == 0 {
		h.logger.WarnContext(ctx, "carrier accepted the return without identifiers",
			"return_shipment_id", r.ID(), "message", messageOf(created))
		return
	}
	r.RecordCarrierOrder(strconv.FormatInt(created.OrderID, 10), strconv.FormatInt(created.ShipmentID, 10), created.Raw)
	r.AssignAWB(created.AWBCode)

	awb, ok := carrierflow.BestEffort(carrierCtx, h.logger, func(ctx context.Context) (*ports.AWBResponse, error) {
		return carrier.AssignReturnAWB(ctx, created.ShipmentID)
	}, "Failed to assign AWB for return shipment ID: %d. Error: %s", r.ID())
	if ok && awb != nil {
		r.AssignAWB(awb.AWBCode)
	}
}

func messageOf(resp *ports.CarrierOrderResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Message
}
