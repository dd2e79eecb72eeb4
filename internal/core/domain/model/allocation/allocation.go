// Package allocation describes how an order's units are spread across pickup locations
// before any shipment exists. It is the working set of order optimization: per-product
// supply at each location, the boxes stocked there, and candidate plans.
package allocation

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
)

// Stock is a product's supply at one pickup location.
type Stock struct {
	// Available is the ledger counter.
	Available int
	// Packable is how many of the available units the location's boxes can hold.
	Packable int
	// PackagingError explains a zero Packable, when known.
	PackagingError string
}

// Usable is the number of units a plan may take from the location.
func (s Stock) Usable() int {
	return min(s.Available, s.Packable)
}

// Location is a pickup location taking part in optimization.
type Location struct {
	ID         int64
	Name       string
	PostalCode string
	Pickup     catalog.PickupLocation
	Boxes      []packaging.Box
}

// HasBoxes reports whether any package type is mapped to the location.
func (l *Location) HasBoxes() bool {
	return l != nil && len(l.Boxes) > 0
}

// HasBoxesInStock reports whether at least one mapped package type has stock.
func (l *Location) HasBoxesInStock() bool {
	if l == nil {
		return false
	}
	return slices.ContainsFunc(l.Boxes, func(b packaging.Box) bool { return b.Available > 0 })
}

// Product is a requested product with its supply per location id.
type Product struct {
	ID         int64
	Title      string
	Dimensions kernel.Dimensions
	Weight     kernel.Weight
	Catalog    *catalog.Product
	Stock      map[int64]Stock
}

// Item converts the product into a packing input for qty units.
func (p *Product) Item(qty int) packaging.Item {
	return packaging.Item{
		ProductID:  p.ID,
		Name:       p.Title,
		Dimensions: p.Dimensions,
		Weight:     p.Weight,
		Quantity:   qty,
	}
}

func (p *Product) TotalAvailable() int {
	total := 0
	for _, s := range p.Stock {
		total += s.Available
	}
	return total
}

func (p *Product) TotalUsable() int {
	total := 0
	for _, s := range p.Stock {
		total += s.Usable()
	}
	return total
}

// Usable returns the usable units at a location, zero when the product is not mapped there.
func (p *Product) Usable(locationID int64) int {
	s, ok := p.Stock[locationID]
	if !ok {
		return 0
	}
	return s.Usable()
}

// FirstPackagingError returns the packaging error of the lowest location id that has one.
func (p *Product) FirstPackagingError() string {
	for _, id := range slices.Sorted(maps.Keys(p.Stock)) {
		if msg := p.Stock[id].PackagingError; msg != "" {
			return msg
		}
	}
	return ""
}

// Plan assigns units to locations: location id, then product id, to quantity.
type Plan map[int64]map[int64]int

// Add puts qty more units of product at location. Non-positive quantities are ignored.
func (p Plan) Add(locationID, productID int64, qty int) {
	if qty <= 0 {
		return
	}
	if p[locationID] == nil {
		p[locationID] = make(map[int64]int)
	}
	p[locationID][productID] += qty
}

// Locations returns the location ids in ascending order.
func (p Plan) Locations() []int64 {
	return slices.Sorted(maps.Keys(p))
}

// Units is the total quantity across locations.
func (p Plan) Units() int {
	total := 0
	for _, lines := range p {
		for _, q := range lines {
			total += q
		}
	}
	return total
}

// Key is a canonical rendering used to drop duplicate plans.
func (p Plan) Key() string {
	var b strings.Builder
	for _, loc := range p.Locations() {
		fmt.Fprintf(&b, "%d{", loc)
		lines := p[loc]
		for _, prod := range slices.Sorted(maps.Keys(lines)) {
			fmt.Fprintf(&b, "%d:%d,", prod, lines[prod])
		}
		b.WriteString("}")
	}
	return b.String()
}

// Candidate is a plan together with whether it covers the whole order.
type Candidate struct {
	Plan        Plan
	CanFulfill  bool
	Shortfall   int
	Description string
}

// Dedupe keeps the first candidate of each distinct plan.
func Dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		k := c.Plan.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
