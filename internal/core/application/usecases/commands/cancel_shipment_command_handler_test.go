package commands_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

func newCancelShipmentHandler() (commands.CancelShipmentCommandHandler, *testutil.UnitOfWorkMock, *testutil.CarrierClientFactoryMock, *testutil.CarrierClientMock) {
	uow := testutil.NewUnitOfWorkMock()
	carriers := new(testutil.CarrierClientFactoryMock)
	carrier := new(testutil.CarrierClientMock)
	h := commands.NewCancelShipmentCommandHandler(shipmentUoWFactory{uow: uow}, carriers, discardLogger())
	return h, uow, carriers, carrier
}

func cancelCommand(t *testing.T, clientID int64) commands.CancelShipmentCommand {
	t.Helper()
	cmd, err := commands.NewCancelShipmentCommand(clientID, testutil.ShipmentID)
	require.NoError(t, err)
	return cmd
}

func TestCancelShipmentCommandHandler_Handle(t *testing.T) {
	t.Run("should cancel the carrier order and the shipment", func(t *testing.T) {
		// Given
		ctx := t.Context()
		h, uow, carriers, carrier := newCancelShipmentHandler()
		s := testutil.RestoreTestShipment(shipment.ReadyToShip, nil)

		uow.ExpectTransaction(true)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).Return(s, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", testutil.NewTestClient().Credentials).Return(carrier).Once()
		carrier.On("CancelOrders", mock.Anything, []int64{1001}).Return(nil).Once()
		uow.Shipments.On("Update", mock.Anything, s).Return(nil).Once()

		// When
		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		// Then
		require.NoError(t, err)
		assert.Equal(t, shipment.Cancelled, s.Status())
		uow.AssertExpectations(t)
		uow.AssertRepositories(t)
		carrier.AssertExpectations(t)
	})

	t.Run("should never call the carrier for a cancelled shipment", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).
			Return(testutil.RestoreTestShipment(shipment.Cancelled, nil), nil).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Shipment is already cancelled.", err.Error())
		carriers.AssertNotCalled(t, "ForClient", mock.Anything)
	})

	t.Run("should reject delivered shipments before the carrier", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).
			Return(testutil.RestoreTestShipment(shipment.Delivered, nil), nil).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.Equal(t, "Shipment cannot be cancelled in status DELIVERED.", err.Error())
		carriers.AssertNotCalled(t, "ForClient", mock.Anything)
	})

	t.Run("should hide shipments of other clients", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).
			Return(testutil.RestoreTestShipment(shipment.ReadyToShip, nil), nil).Once()

		err := h.Handle(ctx, cancelCommand(t, 99))

		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
		assert.Equal(t, "Shipment not found with ID: 31", err.Error())
	})

	t.Run("should report missing shipments", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).
			Return(nil, errs.NewObjectNotFoundError("shipment", testutil.ShipmentID)).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("should require a carrier order", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).Return(testutil.NewTestShipment(), nil).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.Equal(t, "Shipment does not have a ShipRocket order ID. Cannot cancel.", err.Error())
	})

	t.Run("should reject non-numeric carrier order ids", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).Return(shipmentWithCarrierOrder(t, "SR-1001"), nil).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Invalid shipment Id. Format error: SR-1001", err.Error())
	})

	t.Run("should require carrier credentials", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, _ := newCancelShipmentHandler()

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).
			Return(testutil.RestoreTestShipment(shipment.ReadyToShip, nil), nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(ports.Client{ID: testutil.ClientID}, nil).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.Equal(t, "Shiprocket credentials not configured for this client.", err.Error())
		carriers.AssertNotCalled(t, "ForClient", mock.Anything)
	})

	t.Run("should wrap carrier failures and keep the shipment", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, carrier := newCancelShipmentHandler()
		s := testutil.RestoreTestShipment(shipment.ReadyToShip, nil)

		uow.ExpectTransaction(false)
		uow.Shipments.On("Get", mock.Anything, testutil.ShipmentID).Return(s, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", mock.Anything).Return(carrier).Once()
		carrier.On("CancelOrders", mock.Anything, []int64{1001}).Return(errors.New("order already shipped")).Once()

		err := h.Handle(ctx, cancelCommand(t, testutil.ClientID))

		require.Error(t, err)
		assert.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Invalid shipment Id. order already shipped", err.Error())
		uow.Shipments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func shipmentWithCarrierOrder(t *testing.T, carrierOrderID string) *shipment.Shipment {
	t.Helper()
	product, err := shipment.NewProduct(testutil.ProductID, 1, decimal.NewFromInt(250))
	require.NoError(t, err)

	s, err := shipment.RestoreShipment(shipment.Snapshot{
		ID:                testutil.ShipmentID,
		ClientID:          testutil.ClientID,
		OrderSummaryID:    testutil.OrderSummaryID,
		PickupLocationID:  testutil.PickupLocationID,
		CourierID:         testutil.CourierCompanyID,
		Status:            shipment.ReadyToShip,
		CarrierOrderID:    carrierOrderID,
		CarrierShipmentID: "2001",
		TotalWeight:       kernel.MustWeight("0.5"),
		Products:          []shipment.Product{product},
	})
	require.NoError(t, err)
	return s
}

func TestNewCancelShipmentCommand(t *testing.T) {
	_, err := commands.NewCancelShipmentCommand(7, 0)
	require.Error(t, err)

	var zero commands.CancelShipmentCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrCancelShipmentCommandIsNotConstructed)
}
