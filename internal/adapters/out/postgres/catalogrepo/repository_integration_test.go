package catalogrepo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"
)

type CatalogRepositoryIntegrationTestSuite struct {
	pgtest.Suite
	repository *catalogrepo.GormCatalogRepository
}

func (suite *CatalogRepositoryIntegrationTestSuite) SetupTest() {
	suite.Suite.SetupTest()
	suite.SeedCatalog(10, 10)
	suite.repository = catalogrepo.NewGormCatalogRepository(suite.DB)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestProduct_RoundTrip() {
	p, err := suite.repository.Product(context.Background(), testutil.ProductID)

	suite.Require().NoError(err)
	suite.Equal("Ceramic Mug", p.Title())
	suite.Equal("MUG-01", p.SKU())
	suite.True(decimal.RequireFromString("250").Equal(p.Price()))
	suite.Equal("0.4", p.Weight().String())
	suite.True(p.Dimensions().IsKnown())
	suite.Require().NotNil(p.ReturnWindowDays())
	suite.Equal(7, *p.ReturnWindowDays())
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestProduct_MissingDimensionsAreUnknown() {
	suite.Create(&catalogrepo.ProductDTO{ID: 102, ClientID: testutil.ClientID, Title: "Poster", WeightKg: decimal.RequireFromString("0.1")})

	p, err := suite.repository.Product(context.Background(), 102)

	suite.Require().NoError(err)
	suite.False(p.Dimensions().IsKnown())
	suite.Nil(p.ReturnWindowDays())
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestProduct_NonExistent_ReturnsNotFound() {
	_, err := suite.repository.Product(context.Background(), 404)

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestProducts_SkipsUnknownIDs() {
	products, err := suite.repository.Products(context.Background(), []int64{testutil.ProductID, 404})

	suite.Require().NoError(err)
	suite.Len(products, 1)
	suite.Contains(products, testutil.ProductID)
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestPackageTypes() {
	types, err := suite.repository.PackageTypes(context.Background(), []int64{testutil.PackageID})

	suite.Require().NoError(err)
	suite.Require().Contains(types, testutil.PackageID)
	suite.Equal("Small Box", types[testutil.PackageID].Name())
	suite.Equal("5", types[testutil.PackageID].MaxWeight().String())
}

func (suite *CatalogRepositoryIntegrationTestSuite) TestPickupLocation() {
	loc, err := suite.repository.PickupLocation(context.Background(), testutil.PickupLocationID)
	suite.Require().NoError(err)
	suite.Equal(testutil.NewTestPickupLocation(), loc)

	_, err = suite.repository.PickupLocation(context.Background(), 404)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestCatalogRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogRepositoryIntegrationTestSuite))
}
