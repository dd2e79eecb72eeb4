package inventoryrepo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

type InventoryRepositoryIntegrationTestSuite struct {
	pgtest.Suite
	repository *inventoryrepo.GormInventoryRepository
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Suite.SetupTest()
	suite.SeedCatalog(10, 3)
	suite.repository = inventoryrepo.NewGormInventoryRepository(suite.DB)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestProductStock() {
	ctx := context.Background()

	available, found, err := suite.repository.ProductStock(ctx, testutil.ProductID, testutil.PickupLocationID)
	suite.Require().NoError(err)
	suite.True(found)
	suite.Equal(10, available)

	_, found, err = suite.repository.ProductStock(ctx, testutil.ProductID, 999)
	suite.Require().NoError(err)
	suite.False(found)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestConsumeProduct_Decrements() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.ConsumeProduct(ctx, testutil.ProductID, testutil.PickupLocationID, 4))
	suite.Require().NoError(suite.repository.ConsumeProduct(ctx, testutil.ProductID, testutil.PickupLocationID, 6))

	available, _, err := suite.repository.ProductStock(ctx, testutil.ProductID, testutil.PickupLocationID)
	suite.Require().NoError(err)
	suite.Equal(0, available)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestConsumeProduct_ShortfallLeavesRowUntouched() {
	ctx := context.Background()

	err := suite.repository.ConsumeProduct(ctx, testutil.ProductID, testutil.PickupLocationID, 11)

	var shortfall *errs.StockShortfallError
	suite.Require().ErrorAs(err, &shortfall)
	suite.Equal(11, shortfall.Requested)
	suite.Equal(10, shortfall.Available)

	available, _, err := suite.repository.ProductStock(ctx, testutil.ProductID, testutil.PickupLocationID)
	suite.Require().NoError(err)
	suite.Equal(10, available)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestConsumePackage_UnmappedLocationIsNotFound() {
	err := suite.repository.ConsumePackage(context.Background(), testutil.PackageID, 999, 1)

	suite.True(errs.IsNotFound(err))
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestConsumePackage_ConcurrentCallersNeverOversell() {
	ctx := context.Background()
	var wg sync.WaitGroup
	results := make(chan error, 5)

	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.repository.ConsumePackage(ctx, testutil.PackageID, testutil.PickupLocationID, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var shortfall *errs.StockShortfallError
		suite.ErrorAs(err, &shortfall)
	}
	suite.Equal(3, succeeded)

	available, _, err := suite.repository.PackageStock(ctx, testutil.PackageID, testutil.PickupLocationID)
	suite.Require().NoError(err)
	suite.Equal(0, available)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestProductLocations_ResolvesProductAndLocation() {
	stocks, err := suite.repository.ProductLocations(context.Background(), []int64{testutil.ProductID, 999})
	suite.Require().NoError(err)

	suite.Require().Len(stocks, 1)
	suite.Equal("Ceramic Mug", stocks[0].Product.Title())
	suite.Equal("Main Warehouse", stocks[0].Location.Nickname)
	suite.Equal(10, stocks[0].Available)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestLocationPackages() {
	stocks, err := suite.repository.LocationPackages(context.Background(), []int64{testutil.PickupLocationID})
	suite.Require().NoError(err)

	suite.Require().Len(stocks, 1)
	suite.Equal(testutil.PackageID, stocks[0].Package.ID())
	suite.Equal(3, stocks[0].Available)

	none, err := suite.repository.LocationPackages(context.Background(), nil)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestInventoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRepositoryIntegrationTestSuite))
}
