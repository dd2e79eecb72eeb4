package shipment_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

func newProduct(t *testing.T, id int64, qty int) shipment.Product {
	t.Helper()
	p, err := shipment.NewProduct(id, qty, decimal.NewFromInt(100))
	require.NoError(t, err)
	return p
}

func newShipment(t *testing.T) *shipment.Shipment {
	t.Helper()
	pkg, err := shipment.NewPackage(7, 1)
	require.NoError(t, err)

	s, err := shipment.NewShipment(1, 2, 3, 4, kernel.MustWeight("1.2"), decimal.NewFromInt(15), decimal.NewFromInt(80),
		[]shipment.Product{newProduct(t, 10, 2), newProduct(t, 11, 1)},
		[]shipment.Package{pkg})
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	t.Run("should create shipment in status NEW without carrier ids", func(t *testing.T) {
		s := newShipment(t)

		require.NoError(t, s.Validate())
		assert.Equal(t, shipment.New, s.Status())
		assert.False(t, s.HasCarrierOrder())
		assert.Equal(t, 3, s.AllocatedUnits())
		assert.Len(t, s.Packages(), 1)
	})

	t.Run("should join every validation error", func(t *testing.T) {
		s, err := shipment.NewShipment(0, 0, 3, 0, kernel.ZeroWeight, decimal.Zero, decimal.Zero, nil, nil)

		require.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "client id")
		assert.Contains(t, err.Error(), "order summary id")
		assert.Contains(t, err.Error(), "products")
	})
}

func TestNewProduct_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := shipment.NewProduct(1, 0, decimal.Zero)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestShipment_ZeroValueIsNotConstructed(t *testing.T) {
	var s shipment.Shipment
	require.ErrorIs(t, s.Validate(), shipment.ErrShipmentIsNotConstructed)
}

func TestShipment_RecordCarrierOrder(t *testing.T) {
	s := newShipment(t)

	require.NoError(t, s.RecordCarrierOrder("1001", "2001", shipment.New))
	assert.Equal(t, "1001", s.CarrierOrderID())
	assert.Equal(t, "2001", s.CarrierShipmentID())

	err := s.RecordCarrierOrder("1002", "2002", shipment.New)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "1001", s.CarrierOrderID())
}

func TestShipment_RecordCarrierOrder_RequiresBothIDs(t *testing.T) {
	s := newShipment(t)

	require.ErrorIs(t, s.RecordCarrierOrder("", "2001", shipment.New), errs.ErrValueIsRequired)
	require.ErrorIs(t, s.RecordCarrierOrder("1001", "", shipment.New), errs.ErrValueIsRequired)
	assert.False(t, s.HasCarrierOrder())
}

func TestRestoreShipment_RejectsHalfCarrierIDs(t *testing.T) {
	_, err := shipment.RestoreShipment(shipment.Snapshot{
		ID: 1, ClientID: 1, OrderSummaryID: 1, PickupLocationID: 1,
		Status:         shipment.New,
		CarrierOrderID: "1001",
		Products:       []shipment.Product{newProduct(t, 1, 1)},
	})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestShipment_ApplyCarrierStatus_SetsDeliveredOnce(t *testing.T) {
	s := newShipment(t)
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, s.ApplyCarrierStatus(shipment.InTransit, first))
	assert.Nil(t, s.DeliveredAt())

	assert.True(t, s.ApplyCarrierStatus(shipment.Delivered, first))
	require.NotNil(t, s.DeliveredAt())
	assert.Equal(t, first, *s.DeliveredAt())

	assert.False(t, s.ApplyCarrierStatus(shipment.Delivered, first.Add(time.Hour)))
	assert.Equal(t, first, *s.DeliveredAt())
}

func TestShipment_ProductLine(t *testing.T) {
	s := newShipment(t)

	line, ok := s.ProductLine(10)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity())
	assert.True(t, decimal.NewFromInt(200).Equal(line.Subtotal()))

	_, ok = s.ProductLine(99)
	assert.False(t, ok)
}

func TestShipment_AssignAWB_IgnoresEmptyCode(t *testing.T) {
	s := newShipment(t)

	s.AssignAWB("", "Delhivery")
	assert.Empty(t, s.AWBCode())

	s.AssignAWB("AWB123", "Delhivery")
	assert.Equal(t, "AWB123", s.AWBCode())
	assert.Equal(t, "Delhivery", s.CourierName())
}
