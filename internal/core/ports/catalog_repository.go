package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
)

// CatalogRepository reads products and pickup locations.
type CatalogRepository interface {
	// Product returns *errs.ObjectNotFoundError when no product exists.
	Product(ctx context.Context, id int64) (catalog.Product, error)

	// Products returns the products found among ids. Missing ids are simply absent
	// from the map.
	Products(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)

	// PickupLocation returns *errs.ObjectNotFoundError when no location exists.
	PickupLocation(ctx context.Context, id int64) (catalog.PickupLocation, error)

	// PackageTypes returns the package types found among ids.
	PackageTypes(ctx context.Context, ids []int64) (map[int64]catalog.PackageType, error)
}

// CarrierCredentials authenticate one client against the carrier.
type CarrierCredentials struct {
	Email    string
	Password string
}

// IsComplete is false when either value is blank.
func (c CarrierCredentials) IsComplete() bool {
	return c.Email != "" && c.Password != ""
}

// Client is the account a purchase order belongs to.
type Client struct {
	ID          int64
	CompanyName string
	Credentials CarrierCredentials
}

// ClientRepository reads client accounts.
type ClientRepository interface {
	// Get returns *errs.ObjectNotFoundError when no client exists.
	Get(ctx context.Context, id int64) (Client, error)
}
