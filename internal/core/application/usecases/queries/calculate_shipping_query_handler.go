package queries

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CalculateShippingQueryHandler quotes every location independently. A location whose
// quote fails is returned without a selected courier and contributes nothing to the
// total; the other locations are unaffected.
type CalculateShippingQueryHandler struct {
	clients  ports.ClientRepository
	carriers ports.CarrierClientFactory
	logger   *slog.Logger
}

func NewCalculateShippingQueryHandler(
	clients ports.ClientRepository,
	carriers ports.CarrierClientFactory,
	logger *slog.Logger,
) CalculateShippingQueryHandler {
	return CalculateShippingQueryHandler{
		clients:  clients,
		carriers: carriers,
		logger:   logger.With("component", "CalculateShippingQueryHandler"),
	}
}

func (h CalculateShippingQueryHandler) Handle(
	ctx context.Context,
	query CalculateShippingQuery,
) (CalculateShippingResult, error) {
	if err := query.Validate(); err != nil {
		return CalculateShippingResult{}, err
	}

	result := CalculateShippingResult{
		Locations:         make([]LocationShippingOption, 0, len(query.Locations())),
		TotalShippingCost: decimal.Zero,
	}
	if len(query.Locations()) == 0 {
		return result, nil
	}

	if strings.TrimSpace(query.DeliveryPostcode()) == "" {
		return CalculateShippingResult{}, errs.NewBadRequest("Delivery postcode is required.")
	}

	selector, err := rateSelectorFor(ctx, h.clients, h.carriers, query.ClientID(), h.logger)
	if err != nil {
		return CalculateShippingResult{}, err
	}

	for _, loc := range query.Locations() {
		option := LocationShippingOption{LocationShipment: loc}

		q, err := courier.NewRateQuery(loc.PickupPostcode, query.DeliveryPostcode(), query.COD(), loc.TotalWeight)
		if err != nil {
			h.logger.WarnContext(ctx, "skipping location without a usable route",
				"pickup_location_id", loc.PickupLocationID,
				"error", err)
		} else {
			option.Couriers = selector.Options(ctx, q)
		}

		if len(option.Couriers) > 0 {
			selected := option.Couriers[0]
			option.SelectedCourier = &selected
			result.TotalShippingCost = result.TotalShippingCost.Add(selected.Rate)
		}
		result.Locations = append(result.Locations, option)
	}

	return result, nil
}

// rateSelectorFor returns a selector quoting with the client's carrier account.
func rateSelectorFor(
	ctx context.Context,
	clients ports.ClientRepository,
	carriers ports.CarrierClientFactory,
	clientID int64,
	logger *slog.Logger,
) (services.RateSelector, error) {
	client, err := clients.Get(ctx, clientID)
	if err != nil {
		return services.RateSelector{}, err
	}
	if !client.Credentials.IsComplete() {
		return services.RateSelector{}, errs.NewBadRequest(credentialsNotConfigured)
	}
	return services.NewRateSelector(carriers.ForClient(client.Credentials), logger), nil
}
