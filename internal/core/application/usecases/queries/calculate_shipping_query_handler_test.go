package queries_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

func TestCalculateShippingQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()

	newHandler := func() (queries.CalculateShippingQueryHandler, *testutil.ClientRepositoryMock, *testutil.CarrierClientMock) {
		clients := &testutil.ClientRepositoryMock{}
		factory := &testutil.CarrierClientFactoryMock{}
		carrier := &testutil.CarrierClientMock{}
		client := testutil.NewTestClient()
		clients.On("Get", mock.Anything, testutil.ClientID).Return(client, nil).Maybe()
		factory.On("ForClient", client.Credentials).Return(carrier).Maybe()
		return queries.NewCalculateShippingQueryHandler(clients, factory, discardLogger()), clients, carrier
	}

	mainWarehouse := queries.LocationShipment{
		PickupLocationID: testutil.PickupLocationID,
		LocationName:     "Main Warehouse",
		PickupPostcode:   "560034",
		TotalWeight:      kernel.MustWeight("0.2"),
		TotalQuantity:    1,
		ProductIDs:       []int64{testutil.ProductID},
	}
	north := queries.LocationShipment{
		PickupLocationID: northHubID,
		LocationName:     "North Hub",
		PickupPostcode:   "110020",
		TotalWeight:      kernel.MustWeight("3"),
		TotalQuantity:    4,
	}

	t.Run("should return an empty result without locations", func(t *testing.T) {
		handler, clients, _ := newHandler()

		result, err := handler.Handle(ctx, queries.NewCalculateShippingQuery(testutil.ClientID, deliveryPostcode, false, nil))

		require.NoError(t, err)
		assert.Empty(t, result.Locations)
		assert.True(t, result.TotalShippingCost.IsZero())
		clients.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("should sum the cheapest courier of every location", func(t *testing.T) {
		// Given
		handler, _, carrier := newHandler()
		carrier.On("AvailableShippingOptions", mock.Anything, fromPickup("560034")).
			Return([]courier.Option{quote(1, "A", "30"), quote(2, "B", "10")}, nil)
		carrier.On("AvailableShippingOptions", mock.Anything, fromPickup("110020")).
			Return([]courier.Option{quote(3, "C", "10")}, nil)

		// When
		result, err := handler.Handle(ctx, queries.NewCalculateShippingQuery(testutil.ClientID, deliveryPostcode, false,
			[]queries.LocationShipment{mainWarehouse, north}))

		// Then
		require.NoError(t, err)
		require.Len(t, result.Locations, 2)
		assert.Equal(t, int64(2), result.Locations[0].SelectedCourier.CourierCompanyID)
		assert.Equal(t, "B", result.Locations[0].Couriers[0].CourierName)
		assert.Equal(t, int64(3), result.Locations[1].SelectedCourier.CourierCompanyID)
		assert.True(t, decimal.NewFromInt(20).Equal(result.TotalShippingCost))
		carrier.AssertExpectations(t)
	})

	t.Run("should quote light parcels at the minimum chargeable weight", func(t *testing.T) {
		// Given
		handler, _, carrier := newHandler()
		carrier.On("AvailableShippingOptions", mock.Anything, mock.MatchedBy(func(q courier.RateQuery) bool {
			return q.Weight.String() == "0.5"
		})).Return([]courier.Option{quote(1, "A", "40")}, nil)

		// When
		result, err := handler.Handle(ctx, queries.NewCalculateShippingQuery(testutil.ClientID, deliveryPostcode, true,
			[]queries.LocationShipment{mainWarehouse}))

		// Then
		require.NoError(t, err)
		require.NotNil(t, result.Locations[0].SelectedCourier)
		carrier.AssertExpectations(t)
	})

	t.Run("should isolate a failing location", func(t *testing.T) {
		// Given
		handler, _, carrier := newHandler()
		carrier.On("AvailableShippingOptions", mock.Anything, fromPickup("560034")).
			Return(nil, errors.New("connection reset"))
		carrier.On("AvailableShippingOptions", mock.Anything, fromPickup("110020")).
			Return([]courier.Option{quote(3, "C", "10")}, nil)

		// When
		result, err := handler.Handle(ctx, queries.NewCalculateShippingQuery(testutil.ClientID, deliveryPostcode, false,
			[]queries.LocationShipment{mainWarehouse, north}))

		// Then
		require.NoError(t, err)
		assert.Nil(t, result.Locations[0].SelectedCourier)
		assert.NotNil(t, result.Locations[1].SelectedCourier)
		assert.True(t, decimal.NewFromInt(10).Equal(result.TotalShippingCost))
	})

	t.Run("should require carrier credentials", func(t *testing.T) {
		// Given
		clients := &testutil.ClientRepositoryMock{}
		clients.On("Get", mock.Anything, testutil.ClientID).Return(ports.Client{ID: testutil.ClientID}, nil)
		handler := queries.NewCalculateShippingQueryHandler(clients, &testutil.CarrierClientFactoryMock{}, discardLogger())

		// When
		_, err := handler.Handle(ctx, queries.NewCalculateShippingQuery(testutil.ClientID, deliveryPostcode, false,
			[]queries.LocationShipment{mainWarehouse}))

		// Then
		require.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Shiprocket credentials not configured for this client.", err.Error())
	})

	t.Run("should reject an unconstructed query", func(t *testing.T) {
		handler, _, _ := newHandler()

		_, err := handler.Handle(ctx, queries.CalculateShippingQuery{})

		require.ErrorIs(t, err, queries.ErrCalculateShippingQueryIsNotConstructed)
	})
}
