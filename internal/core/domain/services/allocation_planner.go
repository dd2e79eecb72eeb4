package services

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/pkg/errs"
)

const packagesOutOfStock = "Product fits in package types but no packages available (all have 0 quantity)"
const exceedsPackageLimits = "Product dimensions/weight exceed all available package limits"

// AllocationPlanner decides which pickup locations supply an order. It works on data
// already loaded by the caller and never talks to the carrier.
//
// Strategies, in the order they are proposed:
//   - every single location that can supply the whole order on its own
//   - greedy consolidation: locations carrying the most requested products first
//   - greedy stock: per product, the location with the most usable units first
//
// Duplicate plans are dropped. A caller-supplied allocation replaces all strategies.
type AllocationPlanner struct {
	packer PackagingOptimizer
}

func NewAllocationPlanner(packer PackagingOptimizer) AllocationPlanner {
	return AllocationPlanner{packer: packer}
}

// MeasureSupply fills Stock.Packable and Stock.PackagingError for every product at every
// location it is stocked at.
func (p AllocationPlanner) MeasureSupply(products map[int64]*allocation.Product, locations map[int64]*allocation.Location) {
	for _, prod := range products {
		for locID, stock := range prod.Stock {
			loc := locations[locID]
			stock.Packable = 0
			stock.PackagingError = ""

			if !loc.HasBoxes() {
				prod.Stock[locID] = stock
				continue
			}

			if !p.fitsAnyBox(prod, loc) {
				stock.PackagingError = exceedsPackageLimits
				prod.Stock[locID] = stock
				continue
			}

			estimate := p.packer.Estimate(prod.Item(stock.Available), loc.Boxes)
			stock.Packable = estimate.Packed
			if stock.Packable == 0 && stock.Available > 0 && !loc.HasBoxesInStock() {
				stock.PackagingError = packagesOutOfStock
			}
			prod.Stock[locID] = stock
		}
	}
}

func (p AllocationPlanner) fitsAnyBox(prod *allocation.Product, loc *allocation.Location) bool {
	if !prod.Dimensions.IsKnown() {
		return true
	}
	item := prod.Item(1)
	for _, b := range loc.Boxes {
		if unitsPerBox(item, b) >= 1 {
			return true
		}
	}
	return false
}

// CheckFeasibility returns the first product, by id, whose requested quantity exceeds
// the units its locations can both supply and pack. The error is a
// *allocation.FeasibilityError, or a NotFound for an unknown product.
func (p AllocationPlanner) CheckFeasibility(
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	requested map[int64]int,
) error {
	for _, id := range slices.Sorted(maps.Keys(requested)) {
		qty := requested[id]
		prod, ok := products[id]
		if !ok {
			return errs.NewNotFound("Product ID %d not found", id)
		}

		packable := prod.TotalUsable()
		if packable >= qty {
			continue
		}

		stocked := p.stockedLocations(prod, locations)
		configured, inStock, fits := false, false, !prod.Dimensions.IsKnown()
		for _, loc := range stocked {
			configured = configured || loc.HasBoxes()
			inStock = inStock || loc.HasBoxesInStock()
			fits = fits || (loc.HasBoxes() && p.fitsAnyBox(prod, loc))
		}

		ferr := &allocation.FeasibilityError{
			ProductID: id,
			Title:     prod.Title,
			Requested: qty,
			Stock:     prod.TotalAvailable(),
			Packable:  packable,
		}
		switch {
		case ferr.Stock == 0:
			ferr.Reason = allocation.ReasonInsufficientStockZero
		case !configured:
			ferr.Reason = allocation.ReasonNoPackagesConfigured
			ferr.NoPackages = &allocation.NoPackagesConfigured{
				ProductTitle:       prod.Title,
				Requested:          qty,
				LocationsEvaluated: locationNames(stocked),
			}
		case !inStock:
			ferr.Reason = allocation.ReasonNoPackagesAvailable
		case !fits:
			ferr.Reason = allocation.ReasonExceedsPackageLimits
		case ferr.Stock >= qty && packable == 0:
			ferr.Reason = allocation.ReasonCannotPackage
			ferr.Detail = prod.FirstPackagingError()
		default:
			ferr.Reason = allocation.ReasonInsufficientStockPackaging
		}
		return ferr
	}
	return nil
}

// Candidates proposes every strategy that supplies the full order, without duplicates.
func (p AllocationPlanner) Candidates(
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	requested map[int64]int,
) []allocation.Candidate {
	var candidates []allocation.Candidate

	for _, locID := range slices.Sorted(maps.Keys(locations)) {
		if p.canSupplyAll(locID, products, locations, requested) {
			plan := allocation.Plan{}
			for prodID, qty := range requested {
				plan.Add(locID, prodID, qty)
			}
			candidates = append(candidates, allocation.Candidate{Plan: plan, CanFulfill: true})
		}
	}

	if c := p.greedyConsolidation(products, locations, requested); c.CanFulfill {
		candidates = append(candidates, c)
	}
	if c := p.greedyStock(products, locations, requested); c.CanFulfill {
		candidates = append(candidates, c)
	}

	return allocation.Dedupe(candidates)
}

func (p AllocationPlanner) canSupplyAll(
	locID int64,
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	requested map[int64]int,
) bool {
	if !locations[locID].HasBoxes() {
		return false
	}
	for prodID, qty := range requested {
		prod, ok := products[prodID]
		if !ok {
			return false
		}
		if _, mapped := prod.Stock[locID]; !mapped || prod.Usable(locID) < qty {
			return false
		}
	}
	return true
}

func (p AllocationPlanner) greedyConsolidation(
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	requested map[int64]int,
) allocation.Candidate {
	coverage := func(locID int64) int {
		n := 0
		for _, prod := range products {
			if prod.Usable(locID) > 0 {
				n++
			}
		}
		return n
	}

	var ordered []int64
	for _, locID := range slices.Sorted(maps.Keys(locations)) {
		if locations[locID].HasBoxes() {
			ordered = append(ordered, locID)
		}
	}
	slices.SortStableFunc(ordered, func(a, b int64) int {
		return cmp.Compare(coverage(b), coverage(a))
	})

	remaining := maps.Clone(requested)
	plan := allocation.Plan{}
	productIDs := slices.Sorted(maps.Keys(requested))
	for _, locID := range ordered {
		for _, prodID := range productIDs {
			prod, ok := products[prodID]
			if !ok || remaining[prodID] <= 0 {
				continue
			}
			take := min(remaining[prodID], prod.Usable(locID))
			if take > 0 {
				plan.Add(locID, prodID, take)
				remaining[prodID] -= take
			}
		}
	}

	return finish(plan, remaining)
}

func (p AllocationPlanner) greedyStock(
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	requested map[int64]int,
) allocation.Candidate {
	remaining := maps.Clone(requested)
	plan := allocation.Plan{}

	for _, prodID := range slices.Sorted(maps.Keys(requested)) {
		prod, ok := products[prodID]
		if !ok {
			continue
		}

		var ordered []int64
		for _, locID := range slices.Sorted(maps.Keys(prod.Stock)) {
			if locations[locID].HasBoxes() {
				ordered = append(ordered, locID)
			}
		}
		slices.SortStableFunc(ordered, func(a, b int64) int {
			return cmp.Compare(prod.Usable(b), prod.Usable(a))
		})

		for _, locID := range ordered {
			if remaining[prodID] <= 0 {
				break
			}
			take := min(remaining[prodID], prod.Usable(locID))
			if take > 0 {
				plan.Add(locID, prodID, take)
				remaining[prodID] -= take
			}
		}
	}

	return finish(plan, remaining)
}

func finish(plan allocation.Plan, remaining map[int64]int) allocation.Candidate {
	short := 0
	for _, q := range remaining {
		short += max(q, 0)
	}
	return allocation.Candidate{Plan: plan, CanFulfill: short == 0, Shortfall: short}
}

// CustomPlan validates a caller-supplied allocation, given as product id, then location
// id, to quantity. Every rejected line is reported in one *allocation.CustomAllocationError.
func (p AllocationPlanner) CustomPlan(
	custom map[int64]map[int64]int,
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
) (allocation.Candidate, error) {
	var problems []string
	plan := allocation.Plan{}

	for _, prodID := range slices.Sorted(maps.Keys(custom)) {
		prod, ok := products[prodID]
		if !ok {
			problems = append(problems, fmt.Sprintf("Product ID %d not found", prodID))
			continue
		}

		lines := custom[prodID]
		for _, locID := range slices.Sorted(maps.Keys(lines)) {
			qty := lines[locID]
			if qty <= 0 {
				continue
			}

			loc, ok := locations[locID]
			if !ok {
				problems = append(problems, fmt.Sprintf("Product '%s': Location ID %d not found", prod.Title, locID))
				continue
			}
			stock, mapped := prod.Stock[locID]
			switch {
			case !mapped:
				problems = append(problems, fmt.Sprintf("Product '%s': Not available at location '%s' (no stock mapping exists)",
					prod.Title, loc.Name))
			case stock.Available < qty:
				problems = append(problems, fmt.Sprintf("Product '%s': Insufficient stock at '%s'. Requested: %d, Available: %d",
					prod.Title, loc.Name, qty, stock.Available))
			case !loc.HasBoxes():
				problems = append(problems, fmt.Sprintf("Product '%s': No packages available at '%s'", prod.Title, loc.Name))
			case stock.Usable() < qty:
				msg := fmt.Sprintf("Product '%s': Cannot package %d units at '%s'. Max packable: %d",
					prod.Title, qty, loc.Name, stock.Usable())
				if stock.PackagingError != "" {
					msg += " (" + stock.PackagingError + ")"
				}
				problems = append(problems, msg)
			default:
				plan.Add(locID, prodID, qty)
			}
		}
	}

	if len(problems) > 0 || len(plan) == 0 {
		return allocation.Candidate{}, &allocation.CustomAllocationError{Problems: problems}
	}
	return allocation.Candidate{Plan: plan, CanFulfill: true}, nil
}

// Reallocate moves units planned at unserviceable locations to serviceable ones with
// spare usable stock, largest first. Units that find no home become shortfall.
func (p AllocationPlanner) Reallocate(
	c *allocation.Candidate,
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	serviceable map[int64]bool,
) {
	moving := make(map[int64]int)
	for _, locID := range c.Plan.Locations() {
		if serviceable[locID] {
			continue
		}
		for prodID, qty := range c.Plan[locID] {
			moving[prodID] += qty
		}
		delete(c.Plan, locID)
	}

	for _, prodID := range slices.Sorted(maps.Keys(moving)) {
		prod, ok := products[prodID]
		if !ok {
			continue
		}
		left := moving[prodID]

		var targets []int64
		for _, locID := range slices.Sorted(maps.Keys(prod.Stock)) {
			if serviceable[locID] && locations[locID].HasBoxes() && prod.Usable(locID) > 0 {
				targets = append(targets, locID)
			}
		}
		slices.SortStableFunc(targets, func(a, b int64) int {
			return cmp.Compare(prod.Usable(b), prod.Usable(a))
		})

		for _, locID := range targets {
			if left <= 0 {
				break
			}
			spare := prod.Usable(locID) - c.Plan[locID][prodID]
			if take := min(left, spare); take > 0 {
				c.Plan.Add(locID, prodID, take)
				left -= take
			}
		}

		if left > 0 {
			c.CanFulfill = false
			c.Shortfall += left
		}
	}
}

func (p AllocationPlanner) stockedLocations(prod *allocation.Product, locations map[int64]*allocation.Location) []*allocation.Location {
	var stocked []*allocation.Location
	for _, locID := range slices.Sorted(maps.Keys(prod.Stock)) {
		if loc, ok := locations[locID]; ok {
			stocked = append(stocked, loc)
		}
	}
	return stocked
}

func locationNames(locs []*allocation.Location) []string {
	names := make([]string, 0, len(locs))
	for _, l := range locs {
		names = append(names, l.Name)
	}
	return names
}
