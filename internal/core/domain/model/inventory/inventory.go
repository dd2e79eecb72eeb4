// Package inventory models the per-location stock ledgers for products and package
// types. The counters are owned by the inventory side of the business; fulfillment
// reads them to validate allocations and decrements them after payment.
package inventory

import (
	"cmp"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/catalog"
)

// Subject tells which ledger a row belongs to.
type Subject string

const (
	ProductLedger Subject = "product"
	PackageLedger Subject = "package"
)

// StockLevel is the available counter of one item at one pickup location.
type StockLevel struct {
	ItemID           int64
	PickupLocationID int64
	Available        int
}

// Covers reports whether quantity units can be taken.
func (s StockLevel) Covers(quantity int) bool {
	return quantity <= s.Available
}

// ProductStock is a product stocked at a pickup location, as used by the optimizer.
type ProductStock struct {
	Product  catalog.Product
	Location catalog.PickupLocation
	StockLevel
}

// PackageStock is a package type stocked at a pickup location.
type PackageStock struct {
	Package catalog.PackageType
	StockLevel
}

// Key identifies a ledger row. Product and package ids share a number space, so the
// subject is part of the key.
type Key struct {
	Subject          Subject
	ItemID           int64
	PickupLocationID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d@%d", k.Subject, k.ItemID, k.PickupLocationID)
}

// Demand is the quantity taken from one ledger row.
type Demand struct {
	Key
	Quantity int
}

// Merge sums demands on the same row and orders the result by key, which is also the
// order locks are taken in.
func Merge(demands []Demand) []Demand {
	totals := make(map[Key]int, len(demands))
	for _, d := range demands {
		totals[d.Key] += d.Quantity
	}

	merged := make([]Demand, 0, len(totals))
	for k, q := range totals {
		merged = append(merged, Demand{Key: k, Quantity: q})
	}
	slices.SortFunc(merged, func(a, b Demand) int {
		return cmp.Or(
			cmp.Compare(a.Subject, b.Subject),
			cmp.Compare(a.PickupLocationID, b.PickupLocationID),
			cmp.Compare(a.ItemID, b.ItemID),
		)
	})
	return merged
}
