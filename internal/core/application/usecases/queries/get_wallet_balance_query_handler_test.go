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
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

func TestGetWalletBalanceQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()
	client := testutil.NewTestClient()

	t.Run("should return the carrier balance", func(t *testing.T) {
		// Given
		clients := &testutil.ClientRepositoryMock{}
		factory := &testutil.CarrierClientFactoryMock{}
		carrier := &testutil.CarrierClientMock{}
		clients.On("Get", mock.Anything, testutil.ClientID).Return(client, nil)
		factory.On("ForClient", client.Credentials).Return(carrier)
		carrier.On("WalletBalance", mock.Anything).Return(decimal.RequireFromString("1520.75"), nil)
		handler := queries.NewGetWalletBalanceQueryHandler(clients, factory, discardLogger())

		// When
		balance, err := handler.Handle(ctx, queries.NewGetWalletBalanceQuery(testutil.ClientID))

		// Then
		require.NoError(t, err)
		assert.Equal(t, "1520.75", balance.String())
	})

	t.Run("should classify carrier failures as bad requests", func(t *testing.T) {
		// Given
		clients := &testutil.ClientRepositoryMock{}
		factory := &testutil.CarrierClientFactoryMock{}
		carrier := &testutil.CarrierClientMock{}
		clients.On("Get", mock.Anything, testutil.ClientID).Return(client, nil)
		factory.On("ForClient", client.Credentials).Return(carrier)
		carrier.On("WalletBalance", mock.Anything).Return(decimal.Zero, errors.New("token expired"))
		handler := queries.NewGetWalletBalanceQueryHandler(clients, factory, discardLogger())

		// When
		_, err := handler.Handle(ctx, queries.NewGetWalletBalanceQuery(testutil.ClientID))

		// Then
		require.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Failed to fetch wallet balance: token expired", err.Error())
	})

	t.Run("should pass through an unknown client", func(t *testing.T) {
		clients := &testutil.ClientRepositoryMock{}
		clients.On("Get", mock.Anything, testutil.ClientID).
			Return(client, errs.NewObjectNotFoundError("client", testutil.ClientID))
		handler := queries.NewGetWalletBalanceQueryHandler(clients, &testutil.CarrierClientFactoryMock{}, discardLogger())

		_, err := handler.Handle(ctx, queries.NewGetWalletBalanceQuery(testutil.ClientID))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
