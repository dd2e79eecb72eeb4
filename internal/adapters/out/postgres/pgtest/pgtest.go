// Package pgtest starts a disposable PostgreSQL container for repository integration
// suites and seeds it with the testutil fixtures.
package pgtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pgadapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/clientrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/testutil"
)

// Suite is embedded by integration suites. It migrates every table once and empties
// them before each test.
type Suite struct {
	suite.Suite
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

func (s *Suite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("integration suite needs docker")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.Container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.DB = db

	s.Require().NoError(pgadapter.Migrate(db))
}

func (s *Suite) SetupTest() {
	tables := make([]string, 0, len(pgadapter.Models()))
	for _, model := range pgadapter.Models() {
		stmt := &gorm.Statement{DB: s.DB}
		s.Require().NoError(stmt.Parse(model))
		tables = append(tables, stmt.Schema.Table)
	}
	s.Require().NoError(s.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))).Error)
}

func (s *Suite) TearDownSuite() {
	if s.Container != nil {
		s.Require().NoError(s.Container.Terminate(context.Background()))
	}
}

// SeedCatalog inserts the fixture client, product, package type and pickup location,
// and maps both items to the location with the given stock.
func (s *Suite) SeedCatalog(productStock, packageStock int) {
	client := testutil.NewTestClient()
	s.Create(&clientrepo.ClientDTO{
		ID:                 client.ID,
		CompanyName:        client.CompanyName,
		ShiprocketEmail:    client.Credentials.Email,
		ShiprocketPassword: client.Credentials.Password,
	})

	product := catalogrepo.FromProduct(testutil.ClientID, testutil.NewTestProduct(testutil.IntPtr(7)))
	packageType := catalogrepo.FromPackageType(testutil.ClientID, testutil.NewTestPackageType())
	location := catalogrepo.FromPickupLocation(testutil.NewTestPickupLocation())
	s.Create(&product)
	s.Create(&packageType)
	s.Create(&location)

	s.Create(&inventoryrepo.ProductStockDTO{
		ProductID:        testutil.ProductID,
		PickupLocationID: testutil.PickupLocationID,
		Available:        productStock,
	})
	s.Create(&inventoryrepo.PackageStockDTO{
		PackageID:        testutil.PackageID,
		PickupLocationID: testutil.PickupLocationID,
		Available:        packageStock,
	})
}

// SeedOrder inserts the fixture purchase order and its summary.
func (s *Suite) SeedOrder() {
	summary := orderrepo.FromSummary(testutil.NewTestSummary())
	s.Create(&summary)

	po := testutil.NewTestPurchaseOrder()
	s.Create(&orderrepo.PurchaseOrderDTO{
		ID:             po.ID(),
		ClientID:       po.ClientID(),
		OrderSummaryID: po.OrderSummaryID(),
		VendorNumber:   po.VendorNumber(),
		Receipt:        po.Receipt(),
		Status:         po.Status().String(),
	})
}

func (s *Suite) Create(row any) {
	s.Require().NoError(s.DB.Create(row).Error)
}
