package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

type ledgerRow struct {
	available int
	err       error
}

// fakeLedger keys rows by item id and location.
type fakeLedger struct {
	products map[[2]int64]ledgerRow
	packages map[[2]int64]ledgerRow
	reads    int
}

func (l *fakeLedger) ProductStock(_ context.Context, productID, locationID int64) (int, bool, error) {
	l.reads++
	row, ok := l.products[[2]int64{productID, locationID}]
	return row.available, ok, row.err
}

func (l *fakeLedger) PackageStock(_ context.Context, packageID, locationID int64) (int, bool, error) {
	l.reads++
	row, ok := l.packages[[2]int64{packageID, locationID}]
	return row.available, ok, row.err
}

func TestStockAllocationValidator_ValidateProduct(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{products: map[[2]int64]ledgerRow{{1, 10}: {available: 5}}}
	validator := services.NewStockAllocationValidator(ledger)

	tests := []struct {
		name      string
		productID int64
		quantity  int
		check     func(t *testing.T, err error)
	}{
		{
			name: "should accept quantity within stock", productID: 1, quantity: 5,
			check: func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name: "should report shortfall", productID: 1, quantity: 6,
			check: func(t *testing.T, err error) {
				var shortfall *errs.StockShortfallError
				require.ErrorAs(t, err, &shortfall)
				assert.Equal(t, 6, shortfall.Requested)
				assert.Equal(t, 5, shortfall.Available)
				assert.True(t, errs.IsBadRequest(err))
				assert.Equal(t, "Insufficient stock for product ID 1 at pickup location ID 10. Available: 5, Requested: 6", err.Error())
			},
		},
		{
			name: "should report missing mapping as not found", productID: 2, quantity: 1,
			check: func(t *testing.T, err error) {
				require.True(t, errs.IsNotFound(err))
				assert.Equal(t, "Product ID 2 is not available at pickup location ID 10", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, validator.ValidateProduct(ctx, tt.productID, 10, tt.quantity))
		})
	}
}

func TestStockAllocationValidator_ValidatePackage(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{packages: map[[2]int64]ledgerRow{{3, 10}: {available: 10}}}
	validator := services.NewStockAllocationValidator(ledger)

	t.Run("should accept one of ten packages", func(t *testing.T) {
		require.NoError(t, validator.ValidatePackage(ctx, 3, 10, 1))
	})

	t.Run("should reject ninety nine of ten packages", func(t *testing.T) {
		err := validator.ValidatePackage(ctx, 3, 10, 99)

		var shortfall *errs.StockShortfallError
		require.ErrorAs(t, err, &shortfall)
		assert.Equal(t, errs.PackageStock, shortfall.Subject)
		assert.Equal(t, int64(3), shortfall.ID)
		assert.Equal(t, int64(10), shortfall.PickupLocationID)
		assert.Equal(t, "Insufficient packages for package ID 3 at pickup location ID 10. Available: 10, Requested: 99", err.Error())
	})

	t.Run("should report missing package mapping", func(t *testing.T) {
		err := validator.ValidatePackage(ctx, 4, 10, 1)

		require.True(t, errs.IsNotFound(err))
		assert.Equal(t, "Package ID 4 is not available at pickup location ID 10", err.Error())
	})

	t.Run("should return ledger errors unchanged", func(t *testing.T) {
		boom := errors.New("db down")
		failing := &fakeLedger{packages: map[[2]int64]ledgerRow{{3, 10}: {err: boom}}}

		err := services.NewStockAllocationValidator(failing).ValidatePackage(ctx, 3, 10, 1)

		require.ErrorIs(t, err, boom)
	})
}

func TestStockAllocationValidator_ValidateShipment(t *testing.T) {
	ctx := context.Background()

	newShipment := func(t *testing.T) *shipment.Shipment {
		t.Helper()
		p1, err := shipment.NewProduct(1, 2, decimal.NewFromInt(100))
		require.NoError(t, err)
		p2, err := shipment.NewProduct(2, 1, decimal.NewFromInt(50))
		require.NoError(t, err)
		box, err := shipment.NewPackage(3, 1)
		require.NoError(t, err)

		s, err := shipment.NewShipment(1, 1, 10, 5, kernel.MustWeight("1"), decimal.Zero, decimal.Zero,
			[]shipment.Product{p1, p2}, []shipment.Package{box})
		require.NoError(t, err)
		return s
	}

	t.Run("should pass when every line is covered", func(t *testing.T) {
		ledger := &fakeLedger{
			products: map[[2]int64]ledgerRow{{1, 10}: {available: 2}, {2, 10}: {available: 1}},
			packages: map[[2]int64]ledgerRow{{3, 10}: {available: 1}},
		}

		require.NoError(t, services.NewStockAllocationValidator(ledger).ValidateShipment(ctx, newShipment(t)))
		assert.Equal(t, 3, ledger.reads)
	})

	t.Run("should stop at the first failing line", func(t *testing.T) {
		ledger := &fakeLedger{
			products: map[[2]int64]ledgerRow{{1, 10}: {available: 1}, {2, 10}: {available: 1}},
			packages: map[[2]int64]ledgerRow{{3, 10}: {available: 1}},
		}

		err := services.NewStockAllocationValidator(ledger).ValidateShipment(ctx, newShipment(t))

		var shortfall *errs.StockShortfallError
		require.ErrorAs(t, err, &shortfall)
		assert.Equal(t, int64(1), shortfall.ID)
		assert.Equal(t, 1, ledger.reads)
	})

	t.Run("should check packages after products", func(t *testing.T) {
		ledger := &fakeLedger{
			products: map[[2]int64]ledgerRow{{1, 10}: {available: 2}, {2, 10}: {available: 1}},
		}

		err := services.NewStockAllocationValidator(ledger).ValidateShipment(ctx, newShipment(t))

		require.True(t, errs.IsNotFound(err))
		assert.Equal(t, "Package ID 3 is not available at pickup location ID 10", err.Error())
	})
}
