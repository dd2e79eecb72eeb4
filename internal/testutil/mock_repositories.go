package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
)

type ShipmentRepositoryMock struct{ mock.Mock }

func (m *ShipmentRepositoryMock) Add(ctx context.Context, s *shipment.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *ShipmentRepositoryMock) Update(ctx context.Context, s *shipment.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *ShipmentRepositoryMock) Get(ctx context.Context, id int64) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *ShipmentRepositoryMock) ListByOrderSummary(ctx context.Context, orderSummaryID int64) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, orderSummaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *ShipmentRepositoryMock) ListInFlight(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

type ReturnShipmentRepositoryMock struct{ mock.Mock }

func (m *ReturnShipmentRepositoryMock) Add(ctx context.Context, r *returns.ReturnShipment) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReturnShipmentRepositoryMock) Update(ctx context.Context, r *returns.ReturnShipment) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReturnShipmentRepositoryMock) Get(ctx context.Context, id int64) (*returns.ReturnShipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ReturnShipment), args.Error(1)
}

func (m *ReturnShipmentRepositoryMock) ReturnedQuantities(ctx context.Context, shipmentID int64) (map[int64]int, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

type PurchaseOrderRepositoryMock struct{ mock.Mock }

func (m *PurchaseOrderRepositoryMock) Get(ctx context.Context, id int64) (*order.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.PurchaseOrder), args.Error(1)
}

func (m *PurchaseOrderRepositoryMock) Update(ctx context.Context, po *order.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *PurchaseOrderRepositoryMock) Summary(ctx context.Context, summaryID int64) (*order.Summary, error) {
	args := m.Called(ctx, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Summary), args.Error(1)
}

type InventoryRepositoryMock struct{ mock.Mock }

func (m *InventoryRepositoryMock) ProductStock(ctx context.Context, productID, pickupLocationID int64) (int, bool, error) {
	args := m.Called(ctx, productID, pickupLocationID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *InventoryRepositoryMock) PackageStock(ctx context.Context, packageID, pickupLocationID int64) (int, bool, error) {
	args := m.Called(ctx, packageID, pickupLocationID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *InventoryRepositoryMock) ConsumeProduct(ctx context.Context, productID, pickupLocationID int64, quantity int) error {
	return m.Called(ctx, productID, pickupLocationID, quantity).Error(0)
}

func (m *InventoryRepositoryMock) ConsumePackage(ctx context.Context, packageID, pickupLocationID int64, quantity int) error {
	return m.Called(ctx, packageID, pickupLocationID, quantity).Error(0)
}

func (m *InventoryRepositoryMock) ProductLocations(ctx context.Context, productIDs []int64) ([]inventory.ProductStock, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ProductStock), args.Error(1)
}

func (m *InventoryRepositoryMock) LocationPackages(ctx context.Context, pickupLocationIDs []int64) ([]inventory.PackageStock, error) {
	args := m.Called(ctx, pickupLocationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.PackageStock), args.Error(1)
}

type CatalogRepositoryMock struct{ mock.Mock }

func (m *CatalogRepositoryMock) Product(ctx context.Context, id int64) (catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return catalog.Product{}, args.Error(1)
	}
	return args.Get(0).(catalog.Product), args.Error(1)
}

func (m *CatalogRepositoryMock) Products(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]catalog.Product), args.Error(1)
}

func (m *CatalogRepositoryMock) PickupLocation(ctx context.Context, id int64) (catalog.PickupLocation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.PickupLocation), args.Error(1)
}

func (m *CatalogRepositoryMock) PackageTypes(ctx context.Context, ids []int64) (map[int64]catalog.PackageType, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]catalog.PackageType), args.Error(1)
}

type ClientRepositoryMock struct{ mock.Mock }

func (m *ClientRepositoryMock) Get(ctx context.Context, id int64) (ports.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Client), args.Error(1)
}

// UnitOfWorkMock satisfies ports.UnitOfWork and every narrower unit of work the
// command handlers ask for. Repository getters return the embedded mocks, and
// Begin/Commit/Rollback are recorded as testify calls.
type UnitOfWorkMock struct {
	mock.Mock

	Shipments       *ShipmentRepositoryMock
	ReturnShipments *ReturnShipmentRepositoryMock
	PurchaseOrders  *PurchaseOrderRepositoryMock
	Inventory       *InventoryRepositoryMock
	Catalog         *CatalogRepositoryMock
	Clients         *ClientRepositoryMock
}

var _ ports.UnitOfWork = (*UnitOfWorkMock)(nil)

func NewUnitOfWorkMock() *UnitOfWorkMock {
	return &UnitOfWorkMock{
		Shipments:       new(ShipmentRepositoryMock),
		ReturnShipments: new(ReturnShipmentRepositoryMock),
		PurchaseOrders:  new(PurchaseOrderRepositoryMock),
		Inventory:       new(InventoryRepositoryMock),
		Catalog:         new(CatalogRepositoryMock),
		Clients:         new(ClientRepositoryMock),
	}
}

// ExpectTransaction registers Begin and Rollback, and Commit when committed is true.
func (m *UnitOfWorkMock) ExpectTransaction(committed bool) {
	m.On("Begin", mock.Anything).Return(nil).Once()
	if committed {
		m.On("Commit", mock.Anything).Return(nil).Once()
	}
	m.On("Rollback", mock.Anything).Return(nil).Maybe()
}

func (m *UnitOfWorkMock) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *UnitOfWorkMock) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *UnitOfWorkMock) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *UnitOfWorkMock) ShipmentRepository() ports.ShipmentRepository { return m.Shipments }
func (m *UnitOfWorkMock) ReturnShipmentRepository() ports.ReturnShipmentRepository {
	return m.ReturnShipments
}
func (m *UnitOfWorkMock) PurchaseOrderRepository() ports.PurchaseOrderRepository {
	return m.PurchaseOrders
}
func (m *UnitOfWorkMock) InventoryRepository() ports.InventoryRepository { return m.Inventory }
func (m *UnitOfWorkMock) CatalogRepository() ports.CatalogRepository     { return m.Catalog }
func (m *UnitOfWorkMock) ClientRepository() ports.ClientRepository       { return m.Clients }

// AssertRepositories asserts expectations on every repository mock.
func (m *UnitOfWorkMock) AssertRepositories(t mock.TestingT) {
	m.Shipments.AssertExpectations(t)
	m.ReturnShipments.AssertExpectations(t)
	m.PurchaseOrders.AssertExpectations(t)
	m.Inventory.AssertExpectations(t)
	m.Catalog.AssertExpectations(t)
	m.Clients.AssertExpectations(t)
}
