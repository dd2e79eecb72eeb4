package kernel

import (
	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/errs"
)

// MinimumChargeableWeight is the lowest weight, in kilograms, the carrier quotes for.
// Lighter parcels are billed as if they weighed exactly this much.
var MinimumChargeableWeight = decimal.RequireFromString("0.5")

// Weight is a non-negative mass in kilograms.
type Weight struct {
	kg decimal.Decimal
}

var ZeroWeight = Weight{kg: decimal.Zero}

func NewWeight(kg decimal.Decimal) (Weight, error) {
	if kg.IsNegative() {
		return Weight{}, errs.NewValueIsOutOfRangeError("weight", kg.String(), 0, "unbounded")
	}
	return Weight{kg: kg}, nil
}

// MustWeight is NewWeight for literals known to be valid.
func MustWeight(kg string) Weight {
	w, err := NewWeight(decimal.RequireFromString(kg))
	if err != nil {
		panic(err)
	}
	return w
}

func (w Weight) Kilograms() decimal.Decimal {
	return w.kg
}

func (w Weight) Float64() float64 {
	return w.kg.InexactFloat64()
}

func (w Weight) Add(other Weight) Weight {
	return Weight{kg: w.kg.Add(other.kg)}
}

func (w Weight) Times(units int) Weight {
	return Weight{kg: w.kg.Mul(decimal.NewFromInt(int64(units)))}
}

func (w Weight) IsZero() bool {
	return w.kg.IsZero()
}

// Chargeable raises w to MinimumChargeableWeight. Heavier values pass unchanged.
func (w Weight) Chargeable() Weight {
	if w.kg.LessThan(MinimumChargeableWeight) {
		return Weight{kg: MinimumChargeableWeight}
	}
	return w
}

func (w Weight) String() string {
	return w.kg.String()
}
