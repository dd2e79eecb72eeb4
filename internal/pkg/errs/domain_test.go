package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	t.Run("not found keeps formatted message", func(t *testing.T) {
		err := errs.NewNotFound("Shipment not found with ID: %d", 42)

		assert.Equal(t, "Shipment not found with ID: 42", err.Error())
		assert.True(t, errs.IsNotFound(err))
		assert.False(t, errs.IsBadRequest(err))
	})

	t.Run("bad request with cause unwraps to both", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewBadRequestWithCause(cause, "Invalid shipment Id. %s", cause.Error())

		assert.Equal(t, "Invalid shipment Id. connection reset", err.Error())
		require.ErrorIs(t, err, errs.ErrBadRequest)
		require.ErrorIs(t, err, cause)
	})

	t.Run("wrapped domain error is still classified", func(t *testing.T) {
		err := errs.NewBadRequest("Shipment is already cancelled.")
		wrapped := errors.Join(errors.New("context"), err)

		assert.True(t, errs.IsBadRequest(wrapped))
	})
}

func TestStockShortfallError(t *testing.T) {
	tests := []struct {
		name     string
		err      *errs.StockShortfallError
		expected string
	}{
		{
			name:     "product",
			err:      errs.NewStockShortfallError(errs.ProductStock, 7, 3, 99, 10),
			expected: "Insufficient stock for product ID 7 at pickup location ID 3. Available: 10, Requested: 99",
		},
		{
			name:     "package",
			err:      errs.NewStockShortfallError(errs.PackageStock, 5, 3, 4, 1),
			expected: "Insufficient packages for package ID 5 at pickup location ID 3. Available: 1, Requested: 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, errs.IsBadRequest(tt.err))

			var shortfall *errs.StockShortfallError
			require.ErrorAs(t, tt.err, &shortfall)
			assert.Equal(t, tt.err.Requested, shortfall.Requested)
		})
	}
}
