// Package catalog holds the read-mostly reference data fulfillment works with:
// products with their physical attributes and return policy, package types (boxes),
// and pickup locations (warehouses).
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Product is a sellable item.
type Product struct {
	id               int64
	title            string
	sku              string
	price            decimal.Decimal
	dimensions       kernel.Dimensions
	weight           kernel.Weight
	returnWindowDays *int
}

// NewProduct validates identity and title. A nil returnWindowDays means the product was
// never given a return policy.
func NewProduct(
	id int64,
	title, sku string,
	price decimal.Decimal,
	dimensions kernel.Dimensions,
	weight kernel.Weight,
	returnWindowDays *int,
) (Product, error) {
	p := Product{
		sku:              sku,
		price:            price,
		weight:           weight,
		returnWindowDays: returnWindowDays,
	}

	if err := errors.Join(
		setID("product id", &p.id, id),
		setTitle(&p.title, title),
		validateDimensions(&p.dimensions, dimensions),
	); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (p Product) ID() int64                     { return p.id }
func (p Product) Title() string                 { return p.title }
func (p Product) Price() decimal.Decimal        { return p.price }
func (p Product) Dimensions() kernel.Dimensions { return p.dimensions }
func (p Product) Weight() kernel.Weight         { return p.weight }
func (p Product) ReturnWindowDays() *int        { return p.returnWindowDays }

// SKU falls back to SKU-<id> for products created without one.
func (p Product) SKU() string {
	if strings.TrimSpace(p.sku) == "" {
		return fmt.Sprintf("SKU-%d", p.id)
	}
	return p.sku
}

// IsReturnable is false when the return window is missing or zero.
func (p Product) IsReturnable() bool {
	return p.returnWindowDays != nil && *p.returnWindowDays > 0
}

// PackageType is a box that can be stocked at a pickup location.
type PackageType struct {
	id         int64
	name       string
	kind       string
	dimensions kernel.Dimensions
	maxWeight  kernel.Weight
	price      decimal.Decimal
}

// NewPackageType validates the box. A zero maxWeight means the box has no weight limit.
func NewPackageType(
	id int64,
	name, kind string,
	dimensions kernel.Dimensions,
	maxWeight kernel.Weight,
	price decimal.Decimal,
) (PackageType, error) {
	pt := PackageType{kind: kind, maxWeight: maxWeight}

	if err := errors.Join(
		setID("package id", &pt.id, id),
		setTitle(&pt.name, name),
		validateDimensions(&pt.dimensions, dimensions),
		setPrice(&pt.price, price),
	); err != nil {
		return PackageType{}, err
	}
	return pt, nil
}

func (pt PackageType) ID() int64                     { return pt.id }
func (pt PackageType) Name() string                  { return pt.name }
func (pt PackageType) Kind() string                  { return pt.kind }
func (pt PackageType) Dimensions() kernel.Dimensions { return pt.dimensions }
func (pt PackageType) MaxWeight() kernel.Weight      { return pt.maxWeight }
func (pt PackageType) Price() decimal.Decimal        { return pt.price }

// PickupLocation is a warehouse registered with the carrier under Nickname.
type PickupLocation struct {
	ID         int64
	ClientID   int64
	Nickname   string
	PostalCode string
	Address    string
	City       string
	State      string
	Phone      string
}

func setID(name string, target *int64, id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is not greater than 0", id))
	}
	*target = id
	return nil
}

func setTitle(target *string, title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.NewValueIsRequiredError("title")
	}
	*target = title
	return nil
}

func setPrice(target *decimal.Decimal, price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsOutOfRangeError("price", price.String(), 0, "unbounded")
	}
	*target = price
	return nil
}

func validateDimensions(target *kernel.Dimensions, d kernel.Dimensions) error {
	if err := d.Validate(); err != nil {
		return err
	}
	*target = d
	return nil
}
