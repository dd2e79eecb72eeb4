package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

func intPtr(v int) *int { return &v }

func TestNewProduct(t *testing.T) {
	dims, err := kernel.NewDimensions(10, 10, 10)
	require.NoError(t, err)

	t.Run("should create product", func(t *testing.T) {
		p, err := catalog.NewProduct(5, "Mug", "MUG-1", decimal.NewFromInt(300), dims, kernel.MustWeight("0.4"), intPtr(7))

		require.NoError(t, err)
		assert.Equal(t, "MUG-1", p.SKU())
		assert.True(t, p.IsReturnable())
	})

	t.Run("should fall back to generated sku", func(t *testing.T) {
		p, err := catalog.NewProduct(5, "Mug", " ", decimal.Zero, dims, kernel.ZeroWeight, nil)

		require.NoError(t, err)
		assert.Equal(t, "SKU-5", p.SKU())
	})

	t.Run("should reject zero value dimensions", func(t *testing.T) {
		_, err := catalog.NewProduct(5, "Mug", "", decimal.Zero, kernel.Dimensions{}, kernel.ZeroWeight, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should join errors", func(t *testing.T) {
		_, err := catalog.NewProduct(0, "", "", decimal.Zero, dims, kernel.ZeroWeight, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product id")
		assert.Contains(t, err.Error(), "title")
	})
}

func TestProduct_IsReturnable(t *testing.T) {
	tests := []struct {
		name   string
		window *int
		want   bool
	}{
		{"no window", nil, false},
		{"zero window", intPtr(0), false},
		{"seven days", intPtr(7), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := catalog.NewProduct(1, "Mug", "", decimal.Zero, kernel.UnknownDimensions(), kernel.ZeroWeight, tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.IsReturnable())
		})
	}
}

func TestNewPackageType(t *testing.T) {
	dims, _ := kernel.NewDimensions(30, 20, 10)

	pt, err := catalog.NewPackageType(3, "Small box", "BOX", dims, kernel.MustWeight("5"), decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Equal(t, "Small box", pt.Name())
	assert.InDelta(t, 6000, pt.Dimensions().Volume(), 1e-9)

	_, err = catalog.NewPackageType(3, "Small box", "BOX", dims, kernel.ZeroWeight, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
