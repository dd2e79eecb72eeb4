// Package packaging holds the inputs and results of the packaging optimizer. The types
// are plain values: they are computed per request and never persisted.
package packaging

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
)

// Item is a product to pack: its physical attributes and the number of units requested.
type Item struct {
	ProductID  int64
	Name       string
	Dimensions kernel.Dimensions
	Weight     kernel.Weight
	Quantity   int
}

// Box is a package type available at a location, with the number of boxes in stock.
type Box struct {
	PackageID  int64
	Name       string
	Kind       string
	Dimensions kernel.Dimensions
	MaxWeight  kernel.Weight
	UnitPrice  decimal.Decimal
	Available  int
}

// Usage is how many boxes of one package type a plan opens and what goes into them.
type Usage struct {
	PackageID int64
	Name      string
	Kind      string
	Count     int
	UnitPrice decimal.Decimal
	// Contents maps product id to units packed in boxes of this type.
	Contents map[int64]int
}

// Cost is Count times UnitPrice.
func (u Usage) Cost() decimal.Decimal {
	return u.UnitPrice.Mul(decimal.NewFromInt(int64(u.Count)))
}

// EstimateResult is the packing plan for one product.
type EstimateResult struct {
	Packages  []Usage
	Requested int
	Packed    int
}

// IsComplete is false when some requested units did not fit in any available box.
func (r EstimateResult) IsComplete() bool {
	return r.Packed >= r.Requested
}

func (r EstimateResult) TotalCost() decimal.Decimal {
	return totalCost(r.Packages)
}

func (r EstimateResult) BoxCount() int {
	return boxCount(r.Packages)
}

// MultiProductResult is the packing plan for several products sharing boxes.
type MultiProductResult struct {
	Packages  []Usage
	Requested map[int64]int
	Packed    map[int64]int
}

// IsComplete reports whether every product was packed in full.
func (r MultiProductResult) IsComplete() bool {
	return len(r.Shortfalls()) == 0
}

// Shortfalls maps product id to the number of units left unpacked.
func (r MultiProductResult) Shortfalls() map[int64]int {
	short := make(map[int64]int)
	for id, requested := range r.Requested {
		if missing := requested - r.Packed[id]; missing > 0 {
			short[id] = missing
		}
	}
	return short
}

// FailureMessage describes an incomplete plan. It is empty for a complete one.
func (r MultiProductResult) FailureMessage() string {
	if r.IsComplete() {
		return ""
	}
	requested, packed := 0, 0
	for id, q := range r.Requested {
		requested += q
		packed += min(r.Packed[id], q)
	}
	return fmt.Sprintf("Not enough packages to pack all items. Can only pack %d of %d items.", packed, requested)
}

func (r MultiProductResult) TotalCost() decimal.Decimal {
	return totalCost(r.Packages)
}

func (r MultiProductResult) BoxCount() int {
	return boxCount(r.Packages)
}

// SortUsages orders usages by package name, then id.
func SortUsages(usages []Usage) {
	slices.SortFunc(usages, func(a, b Usage) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.PackageID, b.PackageID))
	})
}

func totalCost(usages []Usage) decimal.Decimal {
	total := decimal.Zero
	for _, u := range usages {
		total = total.Add(u.Cost())
	}
	return total
}

func boxCount(usages []Usage) int {
	n := 0
	for _, u := range usages {
		n += u.Count
	}
	return n
}
