package shipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

func TestValidStatusList(t *testing.T) {
	assert.Equal(t,
		"NEW, READY_TO_SHIP, PICKUP_SCHEDULED, PICKED_UP, IN_TRANSIT, OUT_FOR_DELIVERY, DELIVERED, "+
			"RTO_INITIATED, RTO_DELIVERED, CANCELLED, PENDING, FAILED",
		shipment.ValidStatusList())
}

func TestParseCarrierStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected shipment.Status
	}{
		{"NEW", shipment.New},
		{"new", shipment.New},
		{"  Out for delivery ", shipment.OutForDelivery},
		{"PICKUP_SCHEDULED", shipment.PickupScheduled},
		{"rto delivered", shipment.RTODelivered},
		{"FAILED", shipment.Failed},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			status, err := shipment.ParseCarrierStatus(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestParseCarrierStatus_UnknownValueFails(t *testing.T) {
	for _, raw := range []string{"INVALID", "", "FULL_RETURN_INITIATED"} {
		t.Run(raw, func(t *testing.T) {
			status, err := shipment.ParseCarrierStatus(raw)

			require.Error(t, err)
			assert.Equal(t, shipment.Unknown, status)
			assert.Contains(t, err.Error(), "'"+raw+"'")
			assert.Contains(t, err.Error(), shipment.ValidStatusList())

			var invalid *shipment.InvalidStatusError
			require.ErrorAs(t, err, &invalid)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestParseStatus_AcceptsReturnStatuses(t *testing.T) {
	status, err := shipment.ParseStatus("PARTIAL_RETURN_INITIATED")
	require.NoError(t, err)
	assert.Equal(t, shipment.PartialReturnInitiated, status)

	_, err = shipment.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		from    shipment.Status
		wantErr string
	}{
		{name: "new", from: shipment.New},
		{name: "in transit", from: shipment.InTransit},
		{name: "pending", from: shipment.Pending},
		{name: "already cancelled", from: shipment.Cancelled, wantErr: "Shipment is already cancelled."},
		{name: "delivered", from: shipment.Delivered, wantErr: "Shipment cannot be cancelled in status DELIVERED."},
		{
			name:    "in return flow",
			from:    shipment.FullReturnInitiated,
			wantErr: "Shipment cannot be cancelled in status FULL_RETURN_INITIATED.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.from.Cancel()
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				assert.True(t, errs.IsBadRequest(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, shipment.Cancelled, next)
		})
	}
}

func TestStatus_Advance(t *testing.T) {
	tests := []struct {
		name     string
		from     shipment.Status
		reported shipment.Status
		expected shipment.Status
		changed  bool
	}{
		{"forward", shipment.New, shipment.PickedUp, shipment.PickedUp, true},
		{"skip ahead to delivered", shipment.InTransit, shipment.Delivered, shipment.Delivered, true},
		{"backwards ignored", shipment.InTransit, shipment.PickupScheduled, shipment.InTransit, false},
		{"same status", shipment.InTransit, shipment.InTransit, shipment.InTransit, false},
		{"side state", shipment.InTransit, shipment.Pending, shipment.Pending, true},
		{"leave side state", shipment.Pending, shipment.PickedUp, shipment.PickedUp, true},
		{"carrier cancellation", shipment.PickedUp, shipment.Cancelled, shipment.Cancelled, true},
		{"terminal delivered", shipment.Delivered, shipment.RTOInitiated, shipment.Delivered, false},
		{"terminal cancelled", shipment.Cancelled, shipment.New, shipment.Cancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := tt.from.Advance(tt.reported)
			assert.Equal(t, tt.expected, next)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestStatus_InitiateReturn(t *testing.T) {
	next, err := shipment.Delivered.InitiateReturn(true)
	require.NoError(t, err)
	assert.Equal(t, shipment.FullReturnInitiated, next)

	next, err = shipment.Delivered.InitiateReturn(false)
	require.NoError(t, err)
	assert.Equal(t, shipment.PartialReturnInitiated, next)

	_, err = shipment.InTransit.InitiateReturn(true)
	require.EqualError(t, err, "Can only create return for delivered shipments. Current status: IN_TRANSIT")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "READY_TO_SHIP", shipment.ReadyToShip.String())
	assert.Equal(t, "UNKNOWN", shipment.Status(99).String())
	require.Error(t, shipment.Status(99).Validate())
	require.Error(t, shipment.Unknown.Validate())
}
