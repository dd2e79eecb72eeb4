package orderrepo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id int64, aggregate any) {
	m.Called(id, aggregate)
}

// PurchaseOrderRepositoryIntegrationTestSuite verifies purchase order and summary
// persistence against PostgreSQL.
type PurchaseOrderRepositoryIntegrationTestSuite struct {
	pgtest.Suite
	repository *orderrepo.GormPurchaseOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Suite.SetupTest()
	suite.SeedOrder()

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormPurchaseOrderRepository(suite.DB, suite.tracker)
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	po, err := suite.repository.Get(context.Background(), testutil.PurchaseOrderID)

	suite.Require().NoError(err)
	suite.Equal(testutil.ClientID, po.ClientID())
	suite.Equal(testutil.OrderSummaryID, po.OrderSummaryID())
	suite.Equal("VN-42", po.VendorNumber())
	suite.Equal(order.PendingApproval, po.Status())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	po, err := suite.repository.Get(context.Background(), 404)

	suite.Nil(po)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestUpdate_PersistsApproval() {
	ctx := context.Background()
	po, err := suite.repository.Get(ctx, testutil.PurchaseOrderID)
	suite.Require().NoError(err)
	suite.Require().NoError(po.Approve())

	suite.tracker.On("TrackAggregate", po.ID(), po).Once()
	suite.Require().NoError(suite.repository.Update(ctx, po))

	stored, err := suite.repository.Get(ctx, testutil.PurchaseOrderID)
	suite.Require().NoError(err)
	suite.Equal(order.Approved, stored.Status())
	suite.Equal("INV-11", stored.Receipt())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	po, err := order.NewPurchaseOrder(404, testutil.ClientID, 999, "")
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), po)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestSummary_WithAddress() {
	summary, err := suite.repository.Summary(context.Background(), testutil.OrderSummaryID)

	suite.Require().NoError(err)
	suite.Require().True(summary.HasDeliveryAddress())
	suite.Equal(testutil.NewTestAddress(), *summary.DeliveryAddress)
	suite.True(decimal.RequireFromString("500").Equal(summary.Subtotal))
	suite.Nil(summary.GSTPercentage)
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestSummary_WithoutAddress() {
	suite.Create(&orderrepo.OrderSummaryDTO{ID: 22, PurchaseOrderID: 12})

	summary, err := suite.repository.Summary(context.Background(), 22)

	suite.Require().NoError(err)
	suite.False(summary.HasDeliveryAddress())
	suite.Nil(summary.DeliveryAddress)
}

func (suite *PurchaseOrderRepositoryIntegrationTestSuite) TestSummary_NonExistent_ReturnsNotFoundError() {
	_, err := suite.repository.Summary(context.Background(), 404)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func TestPurchaseOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseOrderRepositoryIntegrationTestSuite))
}
