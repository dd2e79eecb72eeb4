package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/carrierflow"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keylock"
)

const paymentApprovalRoute = "ShipmentProcessing/processShipmentsAfterPaymentApproval"

// ProcessPaymentApprovalCommandHandler turns a paid purchase order into carrier orders.
//
// The order of work is fixed:
//  1. purchase order, ownership, status, summary and shipments are checked
//  2. every product and package line is checked against its stock ledger, under a
//     lock on every ledger row the order touches
//  3. the payment is verified
//  4. the ledgers are decremented with a conditional update that fails instead of
//     going negative
//  5. a carrier order is created for each shipment and follow-on steps are attempted
//
// Nothing reaches the carrier before steps 2 and 3 pass. Any failure up to and
// including order creation rolls back the transaction. Follow-on step failures are
// logged only.
type ProcessPaymentApprovalCommandHandler struct {
	uowFactory PaymentApprovalUoWFactory
	locker     keylock.Locker
	verifier   ports.PaymentVerifier
	carriers   ports.CarrierClientFactory
	audit      ports.AuditLog
	logger     *slog.Logger
	now        func() time.Time
}

func NewProcessPaymentApprovalCommandHandler(
	uowFactory PaymentApprovalUoWFactory,
	locker keylock.Locker,
	verifier ports.PaymentVerifier,
	carriers ports.CarrierClientFactory,
	audit ports.AuditLog,
	logger *slog.Logger,
) ProcessPaymentApprovalCommandHandler {
	return ProcessPaymentApprovalCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		verifier:   verifier,
		carriers:   carriers,
		audit:      audit,
		logger:     logger.With("component", "ProcessPaymentApproval"),
		now:        time.Now,
	}
}

// Handle returns the verifier's result when every shipment reached the carrier.
func (h ProcessPaymentApprovalCommandHandler) Handle(
	ctx context.Context,
	command ProcessPaymentApprovalCommand,
) (payment.VerificationResult, error) {
	if err := command.Validate(); err != nil {
		return payment.VerificationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return payment.VerificationResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	po, summary, shipments, err := h.loadOrder(ctx, uow, command)
	if err != nil {
		return payment.VerificationResult{}, err
	}

	demands := demandsOf(shipments)
	release, err := h.locker.Lock(ctx, lockKeys(demands))
	if err != nil {
		return payment.VerificationResult{}, err
	}
	defer release()

	validator := services.NewStockAllocationValidator(uow.InventoryRepository())
	for _, s := range shipments {
		if err = validator.ValidateShipment(ctx, s); err != nil {
			return payment.VerificationResult{}, err
		}
	}

	result, err := h.verifier.Verify(ctx, command.Method())
	if err != nil {
		return payment.VerificationResult{}, errs.NewBadRequestWithCause(err,
			"Operation failed due to an unexpected error. %s", err.Error())
	}
	if !result.Success {
		return result, errs.NewBadRequest("Operation failed due to an unexpected error. %s", result.FailureReason)
	}

	if err = po.Approve(); err != nil {
		return payment.VerificationResult{}, err
	}
	if err = uow.PurchaseOrderRepository().Update(ctx, po); err != nil {
		return payment.VerificationResult{}, err
	}

	if err = consume(ctx, uow.InventoryRepository(), demands); err != nil {
		return payment.VerificationResult{}, err
	}

	if err = h.createCarrierOrders(ctx, uow, po, summary, shipments); err != nil {
		return payment.VerificationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return payment.VerificationResult{}, err
	}

	message := fmt.Sprintf("Shipments processed successfully for PO #%d (%s). Status: %s",
		po.ID(), po.VendorNumber(), po.Status())
	if auditErr := h.audit.LogData(ctx, command.ActorID(), message, paymentApprovalRoute); auditErr != nil {
		h.logger.ErrorContext(ctx, "failed to write audit entry", "purchase_order_id", po.ID(), "error", auditErr)
	}

	h.logger.InfoContext(ctx, "payment approved",
		"purchase_order_id", po.ID(),
		"shipments", len(shipments),
		"method", command.Method().Kind())

	return result, nil
}

func (h ProcessPaymentApprovalCommandHandler) loadOrder(
	ctx context.Context,
	uow PaymentApprovalUoW,
	command ProcessPaymentApprovalCommand,
) (*order.PurchaseOrder, *order.Summary, []*shipment.Shipment, error) {
	orders := uow.PurchaseOrderRepository()

	po, err := orders.Get(ctx, command.PurchaseOrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, nil, errs.NewNotFound("Invalid purchase order Id.")
	}
	if err != nil {
		return nil, nil, nil, err
	}
	if err = po.ValidateAccess(command.ClientID()); err != nil {
		return nil, nil, nil, err
	}
	if err = po.ValidateCanBePaid(); err != nil {
		return nil, nil, nil, err
	}

	summary, err := orders.Summary(ctx, po.OrderSummaryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, nil, errs.NewNotFound("Order summary not found for purchase order.")
	}
	if err != nil {
		return nil, nil, nil, err
	}

	shipments, err := uow.ShipmentRepository().ListByOrderSummary(ctx, summary.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(shipments) == 0 {
		return nil, nil, nil, errs.NewBadRequest("No shipments found for this purchase order.")
	}

	return po, summary, shipments, nil
}

func (h ProcessPaymentApprovalCommandHandler) createCarrierOrders(
	ctx context.Context,
	uow PaymentApprovalUoW,
	po *order.PurchaseOrder,
	summary *order.Summary,
	shipments []*shipment.Shipment,
) error {
	client, err := uow.ClientRepository().Get(ctx, po.ClientID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if !client.Credentials.IsComplete() {
		return errs.NewBadRequest("Shiprocket credentials not configured for this client.")
	}
	if !summary.HasDeliveryAddress() {
		return errs.NewBadRequest("Delivery address not found in order summary.")
	}

	catalogRepo := uow.CatalogRepository()
	locations := make(map[int64]catalog.PickupLocation, len(shipments))
	for _, s := range shipments {
		if _, seen := locations[s.PickupLocationID()]; seen {
			continue
		}
		loc, locErr := catalogRepo.PickupLocation(ctx, s.PickupLocationID())
		if errors.Is(locErr, errs.ErrObjectNotFound) {
			return errs.NewNotFound("Pickup location not found with ID: %d", s.PickupLocationID())
		}
		if locErr != nil {
			return locErr
		}
		locations[s.PickupLocationID()] = loc
	}

	productIDs, packageIDs := lineIDs(shipments)
	products, err := catalogRepo.Products(ctx, productIDs)
	if err != nil {
		return err
	}
	packageTypes, err := catalogRepo.PackageTypes(ctx, packageIDs)
	if err != nil {
		return err
	}

	carrier := h.carriers.ForClient(client.Credentials)
	for _, s := range shipments {
		request, buildErr := carrierflow.BuildOrderRequest(carrierflow.OrderInput{
			PurchaseOrder:  po,
			Summary:        summary,
			Shipment:       s,
			PickupLocation: locations[s.PickupLocationID()],
			CompanyName:    client.CompanyName,
			Products:       products,
			PackageTypes:   packageTypes,
			Now:            h.now(),
		})
		if buildErr != nil {
			return buildErr
		}

		if err = h.createCarrierOrder(ctx, uow, carrier, s, request); err != nil {
			h.reportOrphanedCarrierOrders(ctx, po, s, shipments)
			return err
		}
	}
	return nil
}

// reportOrphanedCarrierOrders logs the carrier orders that exist at the carrier but
// are lost with the rollback, so they can be cancelled by hand.
func (h ProcessPaymentApprovalCommandHandler) reportOrphanedCarrierOrders(
	ctx context.Context,
	po *order.PurchaseOrder,
	failed *shipment.Shipment,
	shipments []*shipment.Shipment,
) {
	var orphaned []string
	for _, s := range shipments {
		if s.HasCarrierOrder() {
			orphaned = append(orphaned, fmt.Sprintf("shipment %d: carrier order %s", s.ID(), s.CarrierOrderID()))
		}
	}
	if len(orphaned) == 0 {
		return
	}
	h.logger.ErrorContext(ctx, "carrier orders created before approval failed",
		"purchase_order_id", po.ID(),
		"failed_shipment_id", failed.ID(),
		"carrier_orders", orphaned)
}

func (h ProcessPaymentApprovalCommandHandler) createCarrierOrder(
	ctx context.Context,
	uow PaymentApprovalUoW,
	carrier ports.CarrierClient,
	s *shipment.Shipment,
	request ports.CarrierOrderRequest,
) error {
	// a carrier order that has been started is seen through even if the caller goes away
	carrierCtx := context.WithoutCancel(ctx)

	created, err := carrierflow.MustSucceed(carrierCtx, func(ctx context.Context) (*ports.CarrierOrderResponse, error) {
		return carrier.CreateOrder(ctx, request)
	}, "Failed to create ShipRocket order for shipment ID: %d. Error: %s", s.ID())
	if err != nil {
		return err
	}

	accepted, err := carrierflow.ValidateOrderResponse(s.ID(), created)
	if err != nil {
		return err
	}
	if err = s.RecordCarrierOrder(accepted.OrderID, accepted.ShipmentID, accepted.Status); err != nil {
		return err
	}

	carrierflow.RunFollowUps(carrierCtx, carrier, h.logger, s, created)

	h.logger.InfoContext(ctx, "carrier order created",
		"shipment_id", s.ID(),
		"carrier_order_id", accepted.OrderID,
		"carrier_shipment_id", accepted.ShipmentID,
		"awb", s.AWBCode())

	return uow.ShipmentRepository().Update(ctx, s)
}

func demandsOf(shipments []*shipment.Shipment) []inventory.Demand {
	var demands []inventory.Demand
	for _, s := range shipments {
		for _, p := range s.Products() {
			demands = append(demands, inventory.Demand{
				Key:      inventory.Key{Subject: inventory.ProductLedger, ItemID: p.ProductID(), PickupLocationID: s.PickupLocationID()},
				Quantity: p.Quantity(),
			})
		}
		for _, p := range s.Packages() {
			demands = append(demands, inventory.Demand{
				Key:      inventory.Key{Subject: inventory.PackageLedger, ItemID: p.PackageID(), PickupLocationID: s.PickupLocationID()},
				Quantity: p.Quantity(),
			})
		}
	}
	return inventory.Merge(demands)
}

func lockKeys(demands []inventory.Demand) []string {
	keys := make([]string, 0, len(demands))
	for _, d := range demands {
		keys = append(keys, d.Key.String())
	}
	return keys
}

func consume(ctx context.Context, ledger ports.InventoryRepository, demands []inventory.Demand) error {
	for _, d := range demands {
		var err error
		if d.Subject == inventory.PackageLedger {
			err = ledger.ConsumePackage(ctx, d.ItemID, d.PickupLocationID, d.Quantity)
		} else {
			err = ledger.ConsumeProduct(ctx, d.ItemID, d.PickupLocationID, d.Quantity)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func lineIDs(shipments []*shipment.Shipment) (productIDs, packageIDs []int64) {
	seenProducts := make(map[int64]bool)
	seenPackages := make(map[int64]bool)
	for _, s := range shipments {
		for _, p := range s.Products() {
			if !seenProducts[p.ProductID()] {
				seenProducts[p.ProductID()] = true
				productIDs = append(productIDs, p.ProductID())
			}
		}
		for _, p := range s.Packages() {
			if !seenPackages[p.PackageID()] {
				seenPackages[p.PackageID()] = true
				packageIDs = append(packageIDs, p.PackageID())
			}
		}
	}
	return productIDs, packageIDs
}
