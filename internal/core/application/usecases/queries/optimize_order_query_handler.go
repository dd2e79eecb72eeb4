package queries

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/allocation"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// NoShippingOptionsForAnyStrategy is reported when every candidate plan has at least
// one shipment group no courier will carry.
const NoShippingOptionsForAnyStrategy = "No shipping options available for any fulfillment strategy. " +
	"This may be due to weight limits or route restrictions."

const (
	noProductsSpecified       = "No products specified"
	deliveryPostcodeRequired  = "Delivery postcode is required"
	noValidStrategies         = "No valid allocation strategies found"
	noValidShipments          = "No valid shipments - all locations lack suitable packaging"
	credentialsNotConfigured  = "Shiprocket credentials not configured for this client."
	noAlternativeLocations    = " (no alternative locations available)"
	optimizationFailedMessage = "Optimization failed: %v"
)

// OptimizeOrderQueryHandler plans how an order would ship: which pickup locations
// supply which units, how they are boxed, and which courier carries each box group.
//
// Nothing is reserved or written. The handler never returns an error; every outcome,
// including an unexpected panic, is reported through OptimizeOrderResult.
type OptimizeOrderQueryHandler struct {
	catalog   ports.CatalogRepository
	inventory ports.InventoryRepository
	clients   ports.ClientRepository
	carriers  ports.CarrierClientFactory
	planner   services.AllocationPlanner
	packer    services.PackagingOptimizer
	logger    *slog.Logger
}

func NewOptimizeOrderQueryHandler(
	catalogRepository ports.CatalogRepository,
	inventoryRepository ports.InventoryRepository,
	clientRepository ports.ClientRepository,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) OptimizeOrderQueryHandler {
	packer := services.NewPackagingOptimizer()
	return OptimizeOrderQueryHandler{
		catalog:   catalogRepository,
		inventory: inventoryRepository,
		clients:   clientRepository,
		carriers:  carriers,
		planner:   services.NewAllocationPlanner(packer),
		packer:    packer,
		logger:    logger.With("component", "OptimizeOrderQueryHandler"),
	}
}

// evaluation is one candidate plan priced out.
type evaluation struct {
	result OptimizeOrderResult
	// valid is true when every group has a courier.
	valid bool
}

func (h OptimizeOrderQueryHandler) Handle(ctx context.Context, query OptimizeOrderQuery) (result OptimizeOrderResult) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "order optimization panicked", "client_id", query.ClientID(), "panic", r)
			result = failedOptimization(fmt.Sprintf(optimizationFailedMessage, r))
		}
	}()

	if err := query.Validate(); err != nil {
		return failedOptimization(fmt.Sprintf(optimizationFailedMessage, err))
	}

	requested := make(map[int64]int)
	for id, qty := range query.Quantities() {
		if qty > 0 {
			requested[id] = qty
		}
	}
	if len(requested) == 0 && !query.IsCustom() {
		return failedOptimization(noProductsSpecified)
	}
	if strings.TrimSpace(query.DeliveryPostcode()) == "" {
		return failedOptimization(deliveryPostcodeRequired)
	}

	products, locations, message, err := h.loadSupply(ctx, requested, query.CustomAllocation())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load supply", "client_id", query.ClientID(), "error", err)
		return failedOptimization(fmt.Sprintf(optimizationFailedMessage, err))
	}
	if message != "" {
		return failedOptimization(message)
	}

	h.planner.MeasureSupply(products, locations)

	var candidates []allocation.Candidate
	if query.IsCustom() {
		c, err := h.planner.CustomPlan(query.CustomAllocation(), products, locations)
		if err != nil {
			return failedOptimization(err.Error())
		}
		candidates = []allocation.Candidate{c}
	} else {
		if err := h.planner.CheckFeasibility(products, locations, requested); err != nil {
			return infeasible(err)
		}
		candidates = h.planner.Candidates(products, locations, requested)
	}
	if len(candidates) == 0 {
		return failedOptimization(noValidStrategies)
	}

	selector, err := rateSelectorFor(ctx, h.clients, h.carriers, query.ClientID(), h.logger)
	if errs.IsBadRequest(err) {
		return failedOptimization(err.Error())
	}
	if err != nil {
		return failedOptimization(fmt.Sprintf(optimizationFailedMessage, err))
	}

	var serviceable map[int64]bool
	if !query.IsCustom() {
		serviceable = h.serviceability(ctx, selector, locations, query)
	}

	evaluations := make([]evaluation, 0, len(candidates))
	for _, c := range candidates {
		var reasons []string
		if !query.IsCustom() {
			reasons = h.reallocate(&c, products, locations, serviceable, query.DeliveryPostcode())
		}
		evaluations = append(evaluations, h.evaluate(ctx, selector, c, products, locations, query, reasons))
	}

	result = choose(evaluations)
	result.TotalProductCount = len(query.Quantities())
	for _, qty := range query.Quantities() {
		result.TotalQuantity += qty
	}

	h.logger.InfoContext(ctx, "order optimized",
		"client_id", query.ClientID(),
		"candidates", len(candidates),
		"success", result.Success,
		"shipments", result.ShipmentCount,
		"total_cost", result.TotalCost.String())

	return result
}

// loadSupply resolves the requested products and every location stocking them. A
// non-empty message is a validation failure to report as is.
func (h OptimizeOrderQueryHandler) loadSupply(
	ctx context.Context,
	requested map[int64]int,
	custom map[int64]map[int64]int,
) (map[int64]*allocation.Product, map[int64]*allocation.Location, string, error) {
	wanted := maps.Clone(requested)
	for id := range custom {
		wanted[id] = max(wanted[id], 0)
	}
	ids := slices.Sorted(maps.Keys(wanted))

	found, err := h.catalog.Products(ctx, ids)
	if err != nil {
		return nil, nil, "", err
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, fmt.Sprintf("Product ID %d not found", id))
		}
	}
	if len(missing) > 0 {
		return nil, nil, strings.Join(missing, "; "), nil
	}

	products := make(map[int64]*allocation.Product, len(found))
	for id, p := range found {
		products[id] = &allocation.Product{
			ID:         id,
			Title:      p.Title(),
			Dimensions: p.Dimensions(),
			Weight:     p.Weight(),
			Catalog:    &p,
			Stock:      make(map[int64]allocation.Stock),
		}
	}

	stocks, err := h.inventory.ProductLocations(ctx, ids)
	if err != nil {
		return nil, nil, "", err
	}

	locations := make(map[int64]*allocation.Location)
	for _, s := range stocks {
		prod, ok := products[s.ItemID]
		if !ok {
			continue
		}
		prod.Stock[s.PickupLocationID] = allocation.Stock{Available: s.Available}
		if _, ok := locations[s.PickupLocationID]; !ok {
			locations[s.PickupLocationID] = newLocation(s.PickupLocationID, s.Location)
		}
	}

	boxes, err := h.inventory.LocationPackages(ctx, slices.Sorted(maps.Keys(locations)))
	if err != nil {
		return nil, nil, "", err
	}
	for _, b := range boxes {
		loc, ok := locations[b.PickupLocationID]
		if !ok {
			continue
		}
		loc.Boxes = append(loc.Boxes, packaging.Box{
			PackageID:  b.Package.ID(),
			Name:       b.Package.Name(),
			Kind:       b.Package.Kind(),
			Dimensions: b.Package.Dimensions(),
			MaxWeight:  b.Package.MaxWeight(),
			UnitPrice:  b.Package.Price(),
			Available:  b.Available,
		})
	}

	return products, locations, "", nil
}

func newLocation(id int64, pickup catalog.PickupLocation) *allocation.Location {
	name := pickup.Nickname
	if name == "" {
		name = fmt.Sprintf("Location %d", id)
	}
	return &allocation.Location{
		ID:         id,
		Name:       name,
		PostalCode: pickup.PostalCode,
		Pickup:     pickup,
	}
}

func infeasible(err error) OptimizeOrderResult {
	result := failedOptimization(err.Error())
	var ferr *allocation.FeasibilityError
	if errors.As(err, &ferr) && ferr.NoPackages != nil {
		result.NoPackages = &NoPackagesDetail{
			ProductTitle:       ferr.NoPackages.ProductTitle,
			Requested:          ferr.NoPackages.Requested,
			LocationsEvaluated: ferr.NoPackages.LocationsEvaluated,
		}
	}
	return result
}

// serviceability reports, per location with boxes, whether any courier quotes the
// route at the minimum chargeable weight.
func (h OptimizeOrderQueryHandler) serviceability(
	ctx context.Context,
	selector services.RateSelector,
	locations map[int64]*allocation.Location,
	query OptimizeOrderQuery,
) map[int64]bool {
	serviceable := make(map[int64]bool, len(locations))
	for _, id := range slices.Sorted(maps.Keys(locations)) {
		loc := locations[id]
		if !loc.HasBoxes() {
			continue
		}
		q, err := courier.NewRateQuery(loc.PostalCode, query.DeliveryPostcode(), query.COD(), kernel.ZeroWeight)
		if err != nil {
			continue
		}
		_, serviceable[id] = selector.SelectCheapest(ctx, q)
	}
	return serviceable
}

// reallocate moves units away from unserviceable locations and explains the units that
// could not be moved.
func (h OptimizeOrderQueryHandler) reallocate(
	c *allocation.Candidate,
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	serviceable map[int64]bool,
	deliveryPostcode string,
) []string {
	var blocked []int64
	for _, id := range c.Plan.Locations() {
		if !serviceable[id] {
			blocked = append(blocked, id)
		}
	}
	if len(blocked) == 0 {
		return nil
	}

	before := c.Shortfall
	h.planner.Reallocate(c, products, locations, serviceable)
	if c.Shortfall == before {
		return nil
	}

	reasons := make([]string, 0, len(blocked))
	for _, id := range blocked {
		reasons = append(reasons, noRouteReason(locations[id], deliveryPostcode)+noAlternativeLocations)
	}
	return reasons
}

func noRouteReason(loc *allocation.Location, deliveryPostcode string) string {
	return fmt.Sprintf("No courier options available between pickup location %s [%s] and delivery postcode [%s]",
		loc.Name, loc.PostalCode, deliveryPostcode)
}

func (h OptimizeOrderQueryHandler) evaluate(
	ctx context.Context,
	selector services.RateSelector,
	c allocation.Candidate,
	products map[int64]*allocation.Product,
	locations map[int64]*allocation.Location,
	query OptimizeOrderQuery,
	reasons []string,
) evaluation {
	allCouriers := len(reasons) == 0
	shortfall := c.Shortfall
	groups := make([]ShipmentGroup, 0, len(c.Plan))

	for _, locID := range c.Plan.Locations() {
		loc := locations[locID]
		lines := c.Plan[locID]

		items := make([]packaging.Item, 0, len(lines))
		allocations := make([]ProductAllocation, 0, len(lines))
		weight := kernel.ZeroWeight
		quantity := 0
		for _, prodID := range slices.Sorted(maps.Keys(lines)) {
			prod := products[prodID]
			qty := lines[prodID]
			items = append(items, prod.Item(qty))
			allocations = append(allocations, ProductAllocation{
				ProductID:   prodID,
				Title:       prod.Title,
				Quantity:    qty,
				TotalWeight: prod.Weight.Times(qty),
			})
			weight = weight.Add(prod.Weight.Times(qty))
			quantity += qty
		}

		packed := h.packer.EstimateMultiProduct(items, loc.Boxes)
		if len(packed.Packages) == 0 {
			reasons = append(reasons, fmt.Sprintf("No packages available at %s to fit products (skipped)", loc.Name))
			continue
		}
		for _, missing := range packed.Shortfalls() {
			shortfall += missing
		}

		group := ShipmentGroup{
			PickupLocationID: locID,
			LocationName:     loc.Name,
			PickupPostcode:   loc.PostalCode,
			Products:         allocations,
			Packages:         packed.Packages,
			TotalQuantity:    quantity,
			TotalWeight:      weight,
			PackagingCost:    packed.TotalCost(),
			ShippingCost:     decimal.Zero,
		}

		if q, err := courier.NewRateQuery(loc.PostalCode, query.DeliveryPostcode(), query.COD(), weight); err == nil {
			group.Couriers = selector.Options(ctx, q)
		}
		if len(group.Couriers) > 0 {
			selected := group.Couriers[0]
			group.SelectedCourier = &selected
			group.ShippingCost = selected.Rate
		} else {
			allCouriers = false
			reasons = append(reasons, noRouteReason(loc, query.DeliveryPostcode()))
		}
		group.TotalCost = group.PackagingCost.Add(group.ShippingCost)
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		message := noValidShipments
		if len(c.Plan) == 0 {
			message = NoShippingOptionsForAnyStrategy
		}
		result := failedOptimization(message)
		result.UnavailabilityReason = strings.Join(reasons, "; ")
		return evaluation{result: result}
	}

	slices.SortStableFunc(groups, func(a, b ShipmentGroup) int {
		return b.TotalCost.Cmp(a.TotalCost)
	})

	result := OptimizeOrderResult{
		Success:              true,
		Description:          describe(groups),
		TotalPackagingCost:   decimal.Zero,
		TotalShippingCost:    decimal.Zero,
		ShipmentCount:        len(groups),
		Shipments:            groups,
		CanFulfillOrder:      c.CanFulfill && shortfall == 0,
		Shortfall:            shortfall,
		AllCouriersAvailable: allCouriers,
		UnavailabilityReason: strings.Join(reasons, "; "),
	}
	for _, g := range groups {
		result.TotalPackagingCost = result.TotalPackagingCost.Add(g.PackagingCost)
		result.TotalShippingCost = result.TotalShippingCost.Add(g.ShippingCost)
	}
	result.TotalCost = result.TotalPackagingCost.Add(result.TotalShippingCost)

	return evaluation{result: result, valid: allCouriers}
}

// choose returns the cheapest fully served plan. Without one, the cheapest plan that
// produced any shipment is returned with the reason couriers are missing.
func choose(evaluations []evaluation) OptimizeOrderResult {
	cheapest := func(keep func(evaluation) bool) (OptimizeOrderResult, bool) {
		var best *OptimizeOrderResult
		for i := range evaluations {
			e := &evaluations[i]
			if !keep(*e) {
				continue
			}
			if best == nil || e.result.TotalCost.LessThan(best.TotalCost) {
				best = &e.result
			}
		}
		if best == nil {
			return OptimizeOrderResult{}, false
		}
		return *best, true
	}

	if best, ok := cheapest(func(e evaluation) bool { return e.valid }); ok {
		return best
	}
	if best, ok := cheapest(func(e evaluation) bool { return e.result.Success }); ok {
		best.ErrorMessage = NoShippingOptionsForAnyStrategy
		return best
	}
	return evaluations[0].result
}

// describe summarizes a plan for people: "All from Main (2 shipments)" or
// "Split: Main (3 items) + North (1 items, 2 shipments)".
func describe(groups []ShipmentGroup) string {
	ordered := slices.Clone(groups)
	slices.SortStableFunc(ordered, func(a, b ShipmentGroup) int {
		return cmp.Compare(a.PickupLocationID, b.PickupLocationID)
	})

	if len(ordered) == 1 {
		g := ordered[0]
		if boxes := boxCount(g.Packages); boxes > 1 {
			return fmt.Sprintf("All from %s (%d shipments)", g.LocationName, boxes)
		}
		return "All from " + g.LocationName
	}

	parts := make([]string, 0, len(ordered))
	for _, g := range ordered {
		if boxes := boxCount(g.Packages); boxes > 1 {
			parts = append(parts, fmt.Sprintf("%s (%d items, %d shipments)", g.LocationName, g.TotalQuantity, boxes))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d items)", g.LocationName, g.TotalQuantity))
	}
	return "Split: " + strings.Join(parts, " + ")
}

func boxCount(usages []packaging.Usage) int {
	n := 0
	for _, u := range usages {
		n += u.Count
	}
	return n
}
