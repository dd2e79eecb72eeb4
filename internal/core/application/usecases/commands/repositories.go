// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	ReturnShipmentRepoFactory interface {
		ReturnShipmentRepository() ports.ReturnShipmentRepository
	}

	PurchaseOrderRepoFactory interface {
		PurchaseOrderRepository() ports.PurchaseOrderRepository
	}

	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	ClientRepoFactory interface {
		ClientRepository() ports.ClientRepository
	}

	// PaymentApprovalUoW spans the purchase order, its shipments and the stock ledgers
	// they consume.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   po, err := uow.PurchaseOrderRepository().Get(ctx, id)
	//   // ... validate, pay, create carrier orders
	//   err = uow.InventoryRepository().ConsumeProduct(ctx, productID, locationID, qty)
	//
	//   err = uow.Commit(ctx)
	PaymentApprovalUoW interface {
		TxManager
		PurchaseOrderRepoFactory
		ShipmentRepoFactory
		InventoryRepoFactory
		CatalogRepoFactory
		ClientRepoFactory
	}

	PaymentApprovalUoWFactory interface {
		Create() PaymentApprovalUoW
	}

	// ShipmentUoW is used by cancellation, which touches one shipment and reads the
	// client's carrier credentials.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
		ClientRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// ReturnUoW covers return creation and cancellation.
	ReturnUoW interface {
		TxManager
		ShipmentRepoFactory
		ReturnShipmentRepoFactory
		PurchaseOrderRepoFactory
		CatalogRepoFactory
		ClientRepoFactory
	}

	ReturnUoWFactory interface {
		Create() ReturnUoW
	}
)
