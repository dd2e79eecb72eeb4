package carrierflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/carrierflow"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMustSucceed(t *testing.T) {
	ctx := context.Background()

	t.Run("should re-classify transport errors as bad request", func(t *testing.T) {
		transport := errors.New("connection refused")

		_, err := carrierflow.MustSucceed(ctx, func(context.Context) (int, error) {
			return 0, transport
		}, "Invalid shipment Id. %s")

		require.Error(t, err)
		assert.True(t, errs.IsBadRequest(err))
		assert.ErrorIs(t, err, transport)
		assert.Equal(t, "Invalid shipment Id. connection refused", err.Error())
	})

	t.Run("should pass classified errors through", func(t *testing.T) {
		notFound := errs.NewNotFound("Shipment not found with ID: %d", 3)

		_, err := carrierflow.MustSucceed(ctx, func(context.Context) (int, error) {
			return 0, notFound
		}, "Invalid shipment Id. %s")

		assert.Same(t, notFound, err)
	})

	t.Run("should return the result on success", func(t *testing.T) {
		got, err := carrierflow.MustSucceed(ctx, func(context.Context) (string, error) {
			return "ok", nil
		}, "unused %s")

		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})
}

func TestBestEffort(t *testing.T) {
	got, ok := carrierflow.BestEffort(context.Background(), discard, func(context.Context) (string, error) {
		return "partial", errors.New("timeout")
	}, "Failed to generate label for ShipRocket shipment ID: %d. Error: %s", int64(2001))

	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestValidateOrderResponse(t *testing.T) {
	const shipmentID int64 = 31
	valid := func() *ports.CarrierOrderResponse {
		return &ports.CarrierOrderResponse{OrderID: 1001, ShipmentID: 2001, Status: "NEW"}
	}

	tests := []struct {
		name    string
		resp    *ports.CarrierOrderResponse
		wantErr string
	}{
		{
			name:    "null response",
			resp:    nil,
			wantErr: "ShipRocket API returned null response for shipment ID: 31",
		},
		{
			name: "carrier message",
			resp: func() *ports.CarrierOrderResponse {
				r := valid()
				r.Message = "Pickup location is inactive"
				return r
			}(),
			wantErr: "Failed to create ShipRocket order for shipment ID: 31. Error: Pickup location is inactive",
		},
		{
			name:    "missing order id",
			resp:    &ports.CarrierOrderResponse{ShipmentID: 2001, Status: "NEW"},
			wantErr: "Failed to create ShipRocket order for shipment ID: 31. Error: order_id is missing from response",
		},
		{
			name:    "missing shipment id",
			resp:    &ports.CarrierOrderResponse{OrderID: 1001, Status: "NEW"},
			wantErr: "Failed to create ShipRocket order for shipment ID: 31. Error: shipment_id is missing from response",
		},
		{
			name:    "blank status",
			resp:    &ports.CarrierOrderResponse{OrderID: 1001, ShipmentID: 2001, Status: "  "},
			wantErr: "Failed to create ShipRocket order for shipment ID: 31. Error: status is missing from response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := carrierflow.ValidateOrderResponse(shipmentID, tt.resp)

			require.Error(t, err)
			assert.True(t, errs.IsBadRequest(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}

	t.Run("should name the invalid status and every valid one", func(t *testing.T) {
		resp := valid()
		resp.Status = "INVALID"

		_, err := carrierflow.ValidateOrderResponse(shipmentID, resp)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID")
		assert.Contains(t, err.Error(), shipment.ValidStatusList())
	})

	t.Run("should accept a normalized status", func(t *testing.T) {
		resp := valid()
		resp.Status = "ready to ship"

		got, err := carrierflow.ValidateOrderResponse(shipmentID, resp)

		require.NoError(t, err)
		assert.Equal(t, carrierflow.CarrierOrder{OrderID: "1001", ShipmentID: "2001", Status: shipment.ReadyToShip}, got)
	})
}

func orderInput() carrierflow.OrderInput {
	return carrierflow.OrderInput{
		PurchaseOrder:  testutil.NewTestPurchaseOrder(),
		Summary:        testutil.NewTestSummary(),
		Shipment:       testutil.NewTestShipment(),
		PickupLocation: testutil.NewTestPickupLocation(),
		CompanyName:    " Acme Traders ",
		Products:       map[int64]catalog.Product{testutil.ProductID: testutil.NewTestProduct(nil)},
		PackageTypes:   map[int64]catalog.PackageType{testutil.PackageID: testutil.NewTestPackageType()},
		Now:            time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildOrderRequest(t *testing.T) {
	t.Run("should map the shipment onto a prepaid order", func(t *testing.T) {
		// Given
		in := orderInput()

		// When
		req, err := carrierflow.BuildOrderRequest(in)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "PO_11", req.OrderID)
		assert.Equal(t, "Main Warehouse", req.PickupLocation)
		assert.Equal(t, "Acme Traders", req.CompanyName)
		assert.Equal(t, "prepaid", req.PaymentMethod)
		assert.Equal(t, "9876543210", req.Billing.Phone)
		assert.Equal(t, "Vendor: VN-42", req.Comment)
		assert.Equal(t, "INV-11", req.InvoiceNumber)
		assert.Equal(t, testutil.CourierCompanyID, req.CourierCompanyID)
		assert.Equal(t, "60", req.ShippingCharges.String())
		require.Len(t, req.Items, 1)
		assert.Equal(t, "MUG-01", req.Items[0].SKU)
		assert.Equal(t, testutil.AllocatedQuantity, req.Items[0].Units)
		assert.Equal(t, ports.Parcel{Length: 20, Breadth: 20, Height: 20, Weight: in.Shipment.TotalWeight()}, req.Parcel)
	})

	t.Run("should fall back to 10 cm when no box dimensions are known", func(t *testing.T) {
		in := orderInput()
		in.PackageTypes = nil

		req, err := carrierflow.BuildOrderRequest(in)

		require.NoError(t, err)
		assert.InDelta(t, 10.0, req.Parcel.Length, 0.0001)
		assert.InDelta(t, 10.0, req.Parcel.Breadth, 0.0001)
		assert.InDelta(t, 10.0, req.Parcel.Height, 0.0001)
	})

	t.Run("should require a pickup location nickname", func(t *testing.T) {
		in := orderInput()
		in.PickupLocation.Nickname = " "

		_, err := carrierflow.BuildOrderRequest(in)

		require.Error(t, err)
		assert.Equal(t, "Pickup location name (addressNickName) is not configured for pickup location ID: 41", err.Error())
	})

	t.Run("should reject a short phone number", func(t *testing.T) {
		in := orderInput()
		address := *in.Summary.DeliveryAddress
		address.Phone = "12345"
		in.Summary.DeliveryAddress = &address

		_, err := carrierflow.BuildOrderRequest(in)

		require.Error(t, err)
		assert.True(t, errs.IsBadRequest(err))
		assert.Equal(t, "Billing phone number must be exactly 10 digits. Provided value: 12345", err.Error())
	})
}

func TestBuildReturnRequest(t *testing.T) {
	product := testutil.NewTestProduct(testutil.IntPtr(7))
	reference := carrierflow.NewReturnReference(testutil.ShipmentID)

	req := carrierflow.BuildReturnRequest(reference, carrierflow.ReturnInput{
		Shipment:  testutil.RestoreTestShipment(shipment.Delivered, nil),
		Customer:  testutil.NewTestAddress(),
		Warehouse: testutil.NewTestPickupLocation(),
		Products:  map[int64]catalog.Product{product.ID(): product},
		Lines:     []returns.Line{{ProductID: product.ID(), Quantity: 2, Reason: "Damaged"}},
		Parcel:    returns.DefaultParcel(),
	})

	assert.True(t, strings.HasPrefix(req.OrderID, "RET-31-"))
	assert.Equal(t, "500", req.SubTotal.String())
	assert.Equal(t, "PREPAID", req.PaymentMode)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 2, req.Items[0].Units)
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "9876543210", carrierflow.CleanPhone("+91 98765-43210"))
	assert.Equal(t, "12345", carrierflow.CleanPhone("(12) 345"))
	assert.Empty(t, carrierflow.CleanPhone(""))
}

func TestRunFollowUps(t *testing.T) {
	created := &ports.CarrierOrderResponse{
		OrderID: 1001, ShipmentID: 2001, Status: "NEW",
		AWBCode: "AWB-FROM-ORDER", CourierName: "Delhivery", Raw: `{"order_id":1001}`,
	}

	t.Run("should store every payload when all steps succeed", func(t *testing.T) {
		// Given
		s := testutil.NewTestShipment()
		client := new(testutil.CarrierClientMock)
		client.On("AssignAWB", mock.Anything, int64(2001), testutil.CourierCompanyID).
			Return(&ports.AWBResponse{AWBCode: "AWB-1", CourierName: "Blue Dart", Raw: `{"awb":"AWB-1"}`}, nil)
		client.On("GeneratePickup", mock.Anything, int64(2001)).Return(`{"pickup":true}`, nil)
		client.On("GenerateManifest", mock.Anything, int64(2001)).Return("https://m", nil)
		client.On("GenerateLabel", mock.Anything, int64(2001)).Return("https://l", nil)
		client.On("GenerateInvoice", mock.Anything, int64(1001)).Return("https://i", nil)
		client.On("Tracking", mock.Anything, "AWB-1").Return(&ports.TrackingInfo{Raw: `{"track":1}`}, nil)
		client.On("OrderDetails", mock.Anything, int64(1001)).Return(`{"details":1}`, nil)

		// When
		carrierflow.RunFollowUps(context.Background(), client, discard, s, created)

		// Then
		client.AssertExpectations(t)
		assert.Equal(t, "AWB-1", s.AWBCode())
		assert.Equal(t, "Blue Dart", s.CourierName())
		assert.Equal(t, `{"awb":"AWB-1"}`, s.AWBDetails())
		assert.Equal(t, `{"pickup":true}`, s.PickupDetails())
		assert.Equal(t, "https://m", s.ManifestURL())
		assert.Equal(t, "https://l", s.LabelURL())
		assert.Equal(t, "https://i", s.InvoiceURL())
		assert.Equal(t, `{"track":1}`, s.TrackingDetails())
		assert.Equal(t, `{"details":1}`, s.OrderDetails())
	})

	t.Run("should keep going when steps fail", func(t *testing.T) {
		// Given
		s := testutil.NewTestShipment()
		failure := errors.New("carrier timeout")
		client := new(testutil.CarrierClientMock)
		client.On("AssignAWB", mock.Anything, mock.Anything, mock.Anything).Return(nil, failure)
		client.On("GeneratePickup", mock.Anything, mock.Anything).Return("", failure)
		client.On("GenerateManifest", mock.Anything, mock.Anything).Return("", failure)
		client.On("GenerateLabel", mock.Anything, mock.Anything).Return("https://l", nil)
		client.On("GenerateInvoice", mock.Anything, mock.Anything).Return("", failure)
		client.On("Tracking", mock.Anything, "AWB-FROM-ORDER").Return(nil, failure)
		client.On("OrderDetails", mock.Anything, mock.Anything).Return("", failure)

		// When
		carrierflow.RunFollowUps(context.Background(), client, discard, s, created)

		// Then
		client.AssertExpectations(t)
		assert.Equal(t, "AWB-FROM-ORDER", s.AWBCode())
		assert.Equal(t, "https://l", s.LabelURL())
		assert.Empty(t, s.ManifestURL())
		assert.Equal(t, created.Raw, s.OrderDetails())
	})
}
