// Package testutil holds testify mocks of the ports and fixtures shared by the
// use case and job tests.
package testutil

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

type CarrierClientMock struct{ mock.Mock }

var _ ports.CarrierClient = (*CarrierClientMock)(nil)

func (m *CarrierClientMock) AvailableShippingOptions(ctx context.Context, query courier.RateQuery) ([]courier.Option, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Option), args.Error(1)
}

func (m *CarrierClientMock) CreateOrder(ctx context.Context, request ports.CarrierOrderRequest) (*ports.CarrierOrderResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CarrierOrderResponse), args.Error(1)
}

func (m *CarrierClientMock) AssignAWB(ctx context.Context, carrierShipmentID, courierCompanyID int64) (*ports.AWBResponse, error) {
	args := m.Called(ctx, carrierShipmentID, courierCompanyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AWBResponse), args.Error(1)
}

func (m *CarrierClientMock) GeneratePickup(ctx context.Context, carrierShipmentID int64) (string, error) {
	args := m.Called(ctx, carrierShipmentID)
	return args.String(0), args.Error(1)
}

func (m *CarrierClientMock) GenerateManifest(ctx context.Context, carrierShipmentID int64) (string, error) {
	args := m.Called(ctx, carrierShipmentID)
	return args.String(0), args.Error(1)
}

func (m *CarrierClientMock) GenerateLabel(ctx context.Context, carrierShipmentID int64) (string, error) {
	args := m.Called(ctx, carrierShipmentID)
	return args.String(0), args.Error(1)
}

func (m *CarrierClientMock) GenerateInvoice(ctx context.Context, carrierOrderID int64) (string, error) {
	args := m.Called(ctx, carrierOrderID)
	return args.String(0), args.Error(1)
}

func (m *CarrierClientMock) Tracking(ctx context.Context, awbCode string) (*ports.TrackingInfo, error) {
	args := m.Called(ctx, awbCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TrackingInfo), args.Error(1)
}

func (m *CarrierClientMock) OrderDetails(ctx context.Context, carrierOrderID int64) (string, error) {
	args := m.Called(ctx, carrierOrderID)
	return args.String(0), args.Error(1)
}

func (m *CarrierClientMock) CancelOrders(ctx context.Context, carrierOrderIDs []int64) error {
	args := m.Called(ctx, carrierOrderIDs)
	return args.Error(0)
}

func (m *CarrierClientMock) CreateReturnOrder(ctx context.Context, request ports.ReturnOrderRequest) (*ports.CarrierOrderResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CarrierOrderResponse), args.Error(1)
}

func (m *CarrierClientMock) AssignReturnAWB(ctx context.Context, carrierShipmentID int64) (*ports.AWBResponse, error) {
	args := m.Called(ctx, carrierShipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AWBResponse), args.Error(1)
}

func (m *CarrierClientMock) WalletBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// StubFollowUps makes every follow-on step after order creation succeed with empty
// payloads. Tests that care about a step register their own expectation first.
func (m *CarrierClientMock) StubFollowUps() {
	m.On("AssignAWB", mock.Anything, mock.Anything, mock.Anything).Return(&ports.AWBResponse{}, nil).Maybe()
	m.On("GeneratePickup", mock.Anything, mock.Anything).Return("", nil).Maybe()
	m.On("GenerateManifest", mock.Anything, mock.Anything).Return("", nil).Maybe()
	m.On("GenerateLabel", mock.Anything, mock.Anything).Return("", nil).Maybe()
	m.On("GenerateInvoice", mock.Anything, mock.Anything).Return("", nil).Maybe()
	m.On("Tracking", mock.Anything, mock.Anything).Return(&ports.TrackingInfo{}, nil).Maybe()
	m.On("OrderDetails", mock.Anything, mock.Anything).Return("", nil).Maybe()
}

type CarrierClientFactoryMock struct{ mock.Mock }

func (m *CarrierClientFactoryMock) ForClient(credentials ports.CarrierCredentials) ports.CarrierClient {
	args := m.Called(credentials)
	return args.Get(0).(ports.CarrierClient)
}

type PaymentVerifierMock struct{ mock.Mock }

func (m *PaymentVerifierMock) Verify(ctx context.Context, method payment.Method) (payment.VerificationResult, error) {
	args := m.Called(ctx, method)
	return args.Get(0).(payment.VerificationResult), args.Error(1)
}

type AuditLogMock struct{ mock.Mock }

func (m *AuditLogMock) LogData(ctx context.Context, actorID int64, message, route string) error {
	args := m.Called(ctx, actorID, message, route)
	return args.Error(0)
}
