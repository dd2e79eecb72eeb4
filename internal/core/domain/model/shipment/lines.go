package shipment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/errs"
)

// Product is a product line of a shipment: how many units were allocated from the
// shipment's pickup location and at which unit price.
type Product struct {
	productID      int64
	quantity       int
	allocatedPrice decimal.Decimal
}

func NewProduct(productID int64, quantity int, allocatedPrice decimal.Decimal) (Product, error) {
	p := Product{allocatedPrice: allocatedPrice}
	if err := errors.Join(
		setPositiveID("product id", &p.productID, productID),
		setPositiveQuantity(&p.quantity, quantity),
	); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) ProductID() int64                { return p.productID }
func (p Product) Quantity() int                   { return p.quantity }
func (p Product) AllocatedPrice() decimal.Decimal { return p.allocatedPrice }

// Subtotal is quantity times the allocated unit price.
func (p Product) Subtotal() decimal.Decimal {
	return p.allocatedPrice.Mul(decimal.NewFromInt(int64(p.quantity)))
}

// Package is a package line of a shipment: how many boxes of one type are used.
type Package struct {
	packageID int64
	quantity  int
}

func NewPackage(packageID int64, quantity int) (Package, error) {
	p := Package{}
	if err := errors.Join(
		setPositiveID("package id", &p.packageID, packageID),
		setPositiveQuantity(&p.quantity, quantity),
	); err != nil {
		return Package{}, err
	}
	return p, nil
}

func (p Package) PackageID() int64 { return p.packageID }
func (p Package) Quantity() int    { return p.quantity }

func setPositiveID(name string, target *int64, id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is not greater than 0", id))
	}
	*target = id
	return nil
}

func setPositiveQuantity(target *int, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	*target = quantity
	return nil
}
