package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

const returnShipmentID int64 = 501

func scheduledReturn(t *testing.T, status returns.Status, carrierOrderID string) *returns.ReturnShipment {
	t.Helper()
	carrierShipmentID := ""
	if carrierOrderID != "" {
		carrierShipmentID = "8001"
	}
	r, err := returns.RestoreReturnShipment(returns.Snapshot{
		ID:                returnShipmentID,
		ShipmentID:        testutil.ShipmentID,
		ClientID:          testutil.ClientID,
		Reference:         "RET-31-abc",
		Type:              returns.PartialReturn,
		Status:            status,
		Parcel:            returns.DefaultParcel(),
		Lines:             []returns.Line{{ProductID: testutil.ProductID, Quantity: 1, Reason: "Damaged"}},
		CarrierOrderID:    carrierOrderID,
		CarrierShipmentID: carrierShipmentID,
	})
	require.NoError(t, err)
	return r
}

func TestCancelReturnShipmentCommandHandler_Handle(t *testing.T) {
	newHandler := func() (commands.CancelReturnShipmentCommandHandler, *testutil.UnitOfWorkMock, *testutil.CarrierClientFactoryMock, *testutil.CarrierClientMock) {
		uow := testutil.NewUnitOfWorkMock()
		carriers := new(testutil.CarrierClientFactoryMock)
		h := commands.NewCancelReturnShipmentCommandHandler(returnUoWFactory{uow: uow}, carriers, discardLogger())
		return h, uow, carriers, new(testutil.CarrierClientMock)
	}
	command := func(t *testing.T) commands.CancelReturnShipmentCommand {
		cmd, err := commands.NewCancelReturnShipmentCommand(testutil.ClientID, returnShipmentID)
		require.NoError(t, err)
		return cmd
	}

	t.Run("should cancel with the carrier", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, carrier := newHandler()
		r := scheduledReturn(t, returns.Pending, "7001")

		uow.ExpectTransaction(true)
		uow.ReturnShipments.On("Get", mock.Anything, returnShipmentID).Return(r, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", mock.Anything).Return(carrier).Once()
		carrier.On("CancelOrders", mock.Anything, []int64{7001}).Return(nil).Once()
		uow.ReturnShipments.On("Update", mock.Anything, r).Return(nil).Once()

		err := h.Handle(ctx, command(t))

		require.NoError(t, err)
		assert.Equal(t, returns.Cancelled, r.Status())
		uow.AssertExpectations(t)
		uow.AssertRepositories(t)
	})

	t.Run("should reject returns that are already cancelled", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, _ := newHandler()

		uow.ExpectTransaction(false)
		uow.ReturnShipments.On("Get", mock.Anything, returnShipmentID).
			Return(scheduledReturn(t, returns.Cancelled, "7001"), nil).Once()

		err := h.Handle(ctx, command(t))

		require.Error(t, err)
		assert.Equal(t, "Return shipment is already cancelled.", err.Error())
		carriers.AssertNotCalled(t, "ForClient", mock.Anything)
	})

	t.Run("should require a carrier return order", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newHandler()

		uow.ExpectTransaction(false)
		uow.ReturnShipments.On("Get", mock.Anything, returnShipmentID).
			Return(scheduledReturn(t, returns.Pending, ""), nil).Once()

		err := h.Handle(ctx, command(t))

		require.Error(t, err)
		assert.Equal(t, "Cannot cancel return shipment: ShipRocket return order ID not found.", err.Error())
	})

	t.Run("should reject non-numeric carrier ids", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newHandler()

		uow.ExpectTransaction(false)
		uow.ReturnShipments.On("Get", mock.Anything, returnShipmentID).
			Return(scheduledReturn(t, returns.Pending, "R-7001"), nil).Once()

		err := h.Handle(ctx, command(t))

		require.Error(t, err)
		assert.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Invalid return shipment Id. Format error: R-7001", err.Error())
	})

	t.Run("should report unknown returns", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newHandler()

		uow.ExpectTransaction(false)
		uow.ReturnShipments.On("Get", mock.Anything, returnShipmentID).
			Return(nil, errs.NewObjectNotFoundError("return shipment", returnShipmentID)).Once()

		err := h.Handle(ctx, command(t))

		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
		assert.Equal(t, "Return shipment not found with ID: 501", err.Error())
	})

	t.Run("should wrap carrier failures", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, carrier := newHandler()
		r := scheduledReturn(t, returns.Pending, "7001")

		uow.ExpectTransaction(false)
		uow.ReturnShipments.On("Get", mock.Anything, returnShipmentID).Return(r, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", mock.Anything).Return(carrier).Once()
		carrier.On("CancelOrders", mock.Anything, []int64{7001}).Return(errors.New("pickup already done")).Once()

		err := h.Handle(ctx, command(t))

		require.Error(t, err)
		assert.Equal(t, "Failed to cancel return shipment in ShipRocket: pickup already done", err.Error())
		assert.Equal(t, returns.Pending, r.Status())
	})
}
