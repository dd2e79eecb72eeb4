package courier

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// RateQuery asks the carrier for quotes between two postcodes.
type RateQuery struct {
	PickupPostcode   string
	DeliveryPostcode string
	COD              bool
	Weight           kernel.Weight
}

// NewRateQuery validates both postcodes and clamps the weight to the chargeable minimum.
// Weights are never rejected for being too small.
func NewRateQuery(pickupPostcode, deliveryPostcode string, cod bool, weight kernel.Weight) (RateQuery, error) {
	var err error
	if strings.TrimSpace(pickupPostcode) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("pickup postcode"))
	}
	if strings.TrimSpace(deliveryPostcode) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("delivery postcode"))
	}
	if err != nil {
		return RateQuery{}, err
	}

	return RateQuery{
		PickupPostcode:   strings.TrimSpace(pickupPostcode),
		DeliveryPostcode: strings.TrimSpace(deliveryPostcode),
		COD:              cod,
		Weight:           weight.Chargeable(),
	}, nil
}

// Option is one courier company's quote for a RateQuery.
type Option struct {
	CourierCompanyID      int64
	CourierName           string
	Rate                  decimal.Decimal
	EstimatedDeliveryDays string
	ETD                   string
	Rating                float64
	MinWeight             kernel.Weight
	COD                   bool
}

// Cheapest returns the option with the lowest rate. Ties go to the option listed first.
func Cheapest(options []Option) (*Option, bool) {
	if len(options) == 0 {
		return nil, false
	}

	best := 0
	for i := 1; i < len(options); i++ {
		if options[i].Rate.LessThan(options[best].Rate) {
			best = i
		}
	}

	selected := options[best]
	return &selected, true
}
