package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

func newRefreshTrackingHandler() (commands.RefreshTrackingCommandHandler, *testutil.UnitOfWorkMock, *testutil.CarrierClientFactoryMock, *testutil.CarrierClientMock) {
	uow := testutil.NewUnitOfWorkMock()
	carriers := new(testutil.CarrierClientFactoryMock)
	carrier := new(testutil.CarrierClientMock)
	h := commands.NewRefreshTrackingCommandHandler(shipmentUoWFactory{uow: uow}, carriers, discardLogger())
	return h, uow, carriers, carrier
}

func refreshCommand(t *testing.T) commands.RefreshTrackingCommand {
	t.Helper()
	cmd, err := commands.NewRefreshTrackingCommand(commands.DefaultTrackingBatchSize)
	require.NoError(t, err)
	return cmd
}

func TestRefreshTrackingCommandHandler_Handle(t *testing.T) {
	t.Run("should advance shipments and record the delivery time", func(t *testing.T) {
		// Given
		ctx := t.Context()
		h, uow, carriers, carrier := newRefreshTrackingHandler()
		s := testutil.RestoreTestShipment(shipment.OutForDelivery, nil)
		deliveredAt := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)

		uow.ExpectTransaction(true)
		uow.Shipments.On("ListInFlight", mock.Anything, commands.DefaultTrackingBatchSize).
			Return([]*shipment.Shipment{s}, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", testutil.NewTestClient().Credentials).Return(carrier).Once()
		carrier.On("Tracking", mock.Anything, "AWB1001").Return(&ports.TrackingInfo{
			Status:      "Delivered",
			DeliveredAt: &deliveredAt,
			Raw:         `{"current_status":"Delivered"}`,
		}, nil).Once()
		uow.Shipments.On("Update", mock.Anything, s).Return(nil).Once()

		// When
		result, err := h.Handle(ctx, refreshCommand(t))

		// Then
		require.NoError(t, err)
		assert.Equal(t, commands.RefreshTrackingResult{Checked: 1, Updated: 1}, result)
		assert.Equal(t, shipment.Delivered, s.Status())
		require.NotNil(t, s.DeliveredAt())
		assert.True(t, deliveredAt.Equal(*s.DeliveredAt()))
		assert.JSONEq(t, `{"current_status":"Delivered"}`, s.TrackingDetails())
		uow.AssertExpectations(t)
		uow.AssertRepositories(t)
		carrier.AssertExpectations(t)
	})

	t.Run("should keep tracking details when the status moves backwards", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, carrier := newRefreshTrackingHandler()
		s := testutil.RestoreTestShipment(shipment.InTransit, nil)

		uow.ExpectTransaction(true)
		uow.Shipments.On("ListInFlight", mock.Anything, mock.Anything).Return([]*shipment.Shipment{s}, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", mock.Anything).Return(carrier).Once()
		carrier.On("Tracking", mock.Anything, "AWB1001").
			Return(&ports.TrackingInfo{Status: "PICKED UP", Raw: `{"current_status":"PICKED UP"}`}, nil).Once()
		uow.Shipments.On("Update", mock.Anything, s).Return(nil).Once()

		result, err := h.Handle(ctx, refreshCommand(t))

		require.NoError(t, err)
		assert.Equal(t, commands.RefreshTrackingResult{Checked: 1}, result)
		assert.Equal(t, shipment.InTransit, s.Status())
		assert.Contains(t, s.TrackingDetails(), "PICKED UP")
	})

	t.Run("should skip shipments with unknown or unavailable tracking", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, carrier := newRefreshTrackingHandler()
		unknown := testutil.RestoreTestShipment(shipment.InTransit, nil)
		unavailable := testutil.RestoreTestShipment(shipment.PickedUp, nil)

		uow.ExpectTransaction(true)
		uow.Shipments.On("ListInFlight", mock.Anything, mock.Anything).
			Return([]*shipment.Shipment{unknown, unavailable}, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).Return(testutil.NewTestClient(), nil).Once()
		carriers.On("ForClient", mock.Anything).Return(carrier).Once()
		carrier.On("Tracking", mock.Anything, "AWB1001").
			Return(&ports.TrackingInfo{Status: "LOST AT SEA"}, nil).Once()
		carrier.On("Tracking", mock.Anything, "AWB1001").
			Return(nil, errors.New("carrier timeout")).Once()

		result, err := h.Handle(ctx, refreshCommand(t))

		require.NoError(t, err)
		assert.Equal(t, commands.RefreshTrackingResult{Checked: 2, Failed: 2}, result)
		assert.Equal(t, shipment.InTransit, unknown.Status())
		assert.Equal(t, shipment.PickedUp, unavailable.Status())
		uow.Shipments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		carriers.AssertNumberOfCalls(t, "ForClient", 1)
	})

	t.Run("should skip clients without carrier credentials", func(t *testing.T) {
		ctx := t.Context()
		h, uow, carriers, _ := newRefreshTrackingHandler()

		uow.ExpectTransaction(true)
		uow.Shipments.On("ListInFlight", mock.Anything, mock.Anything).
			Return([]*shipment.Shipment{testutil.RestoreTestShipment(shipment.InTransit, nil)}, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).
			Return(ports.Client{ID: testutil.ClientID}, nil).Once()

		result, err := h.Handle(ctx, refreshCommand(t))

		require.NoError(t, err)
		assert.Equal(t, commands.RefreshTrackingResult{Checked: 1, Failed: 1}, result)
		carriers.AssertNotCalled(t, "ForClient", mock.Anything)
	})

	t.Run("should fail the batch on repository errors", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newRefreshTrackingHandler()
		dbErr := errors.New("connection reset")

		uow.ExpectTransaction(false)
		uow.Shipments.On("ListInFlight", mock.Anything, mock.Anything).Return(nil, dbErr).Once()

		_, err := h.Handle(ctx, refreshCommand(t))

		require.ErrorIs(t, err, dbErr)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should treat a missing client as missing credentials", func(t *testing.T) {
		ctx := t.Context()
		h, uow, _, _ := newRefreshTrackingHandler()

		uow.ExpectTransaction(true)
		uow.Shipments.On("ListInFlight", mock.Anything, mock.Anything).
			Return([]*shipment.Shipment{testutil.RestoreTestShipment(shipment.InTransit, nil)}, nil).Once()
		uow.Clients.On("Get", mock.Anything, testutil.ClientID).
			Return(ports.Client{}, errs.NewObjectNotFoundError("client", testutil.ClientID)).Once()

		result, err := h.Handle(ctx, refreshCommand(t))

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("should reject a command that was not constructed", func(t *testing.T) {
		ctx := t.Context()
		h, _, _, _ := newRefreshTrackingHandler()

		_, err := h.Handle(ctx, commands.RefreshTrackingCommand{})

		require.ErrorIs(t, err, commands.ErrRefreshTrackingCommandIsNotConstructed)
	})
}
