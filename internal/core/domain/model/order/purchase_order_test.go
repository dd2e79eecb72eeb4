package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("should create purchase order pending approval", func(t *testing.T) {
		po, err := order.NewPurchaseOrder(10, 1, 5, "VN-7")

		require.NoError(t, err)
		require.NoError(t, po.Validate())
		assert.Equal(t, int64(10), po.ID())
		assert.Equal(t, int64(1), po.ClientID())
		assert.Equal(t, int64(5), po.OrderSummaryID())
		assert.Equal(t, "VN-7", po.VendorNumber())
		assert.Equal(t, order.PendingApproval, po.Status())
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		po, err := order.NewPurchaseOrder(0, -1, 0, "")

		require.Error(t, err)
		assert.Nil(t, po)
		assert.Contains(t, err.Error(), "id is invalid")
		assert.Contains(t, err.Error(), "client id is invalid")
		assert.Contains(t, err.Error(), "order summary id is invalid")
	})

	t.Run("should reject unknown status on restore", func(t *testing.T) {
		po, err := order.RestorePurchaseOrder(1, 1, 1, "", "", order.Unknown)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, po)
	})
}

func TestPurchaseOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil purchase order", func(t *testing.T) {
		var po *order.PurchaseOrder
		assert.Equal(t, order.ErrPurchaseOrderIsNotConstructed, po.Validate())
	})

	t.Run("should fail validation for zero value purchase order", func(t *testing.T) {
		var po order.PurchaseOrder
		assert.Equal(t, order.ErrPurchaseOrderIsNotConstructed, po.Validate())
	})
}

func TestPurchaseOrder_ValidateAccess(t *testing.T) {
	po, err := order.NewPurchaseOrder(10, 1, 5, "VN-7")
	require.NoError(t, err)

	require.NoError(t, po.ValidateAccess(1))

	err = po.ValidateAccess(2)
	require.EqualError(t, err, "Access denied to this purchase order.")
	assert.True(t, errs.IsBadRequest(err))
}

func TestPurchaseOrder_ValidateCanBePaid(t *testing.T) {
	tests := []struct {
		status  order.Status
		wantErr bool
	}{
		{order.PendingApproval, false},
		{order.Approved, true},
		{order.ApprovedWithPartialPayment, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			po, err := order.RestorePurchaseOrder(10, 1, 5, "", "", tt.status)
			require.NoError(t, err)

			err = po.ValidateCanBePaid()
			if tt.wantErr {
				require.EqualError(t, err, "Only orders with PENDING_APPROVAL status can be paid.")
				assert.True(t, errs.IsBadRequest(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPurchaseOrder_Approve(t *testing.T) {
	t.Run("should approve pending order", func(t *testing.T) {
		po, _ := order.NewPurchaseOrder(10, 1, 5, "VN-7")

		require.NoError(t, po.Approve())
		assert.Equal(t, order.Approved, po.Status())
	})

	t.Run("should not approve twice", func(t *testing.T) {
		po, _ := order.NewPurchaseOrder(10, 1, 5, "VN-7")
		require.NoError(t, po.Approve())

		err := po.Approve()
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "APPROVED is not a valid status to approve")
	})
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("PENDING_APPROVAL")
	require.NoError(t, err)
	assert.Equal(t, order.PendingApproval, s)

	_, err = order.ParseStatus("pending")
	require.Error(t, err)
}

func TestSummary_HasDeliveryAddress(t *testing.T) {
	var nilSummary *order.Summary
	assert.False(t, nilSummary.HasDeliveryAddress())
	assert.False(t, (&order.Summary{}).HasDeliveryAddress())
	assert.False(t, (&order.Summary{DeliveryAddress: &order.Address{Name: "Asha"}}).HasDeliveryAddress())
	assert.True(t, (&order.Summary{DeliveryAddress: &order.Address{PostalCode: "560001"}}).HasDeliveryAddress())
}

func TestAddress_NameParts(t *testing.T) {
	a := order.Address{Name: " Asha  Rao Kumar "}
	assert.Equal(t, "Asha", a.FirstName())
	assert.Equal(t, "Rao Kumar", a.LastName())

	single := order.Address{Name: "Asha"}
	assert.Equal(t, "Asha", single.FirstName())
	assert.Empty(t, single.LastName())
}
