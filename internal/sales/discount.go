package sales

import "math"

// Volume discount tiers. Quantities of 4 to 9 units earn 10%, 10 to 20 units
// earn 20%; anything above MaxItemQuantity is rejected outright rather than
// capped.
const (
	discountTierLow      = 4
	discountTierHigh     = 10
	discountRateLow      = 0.10
	discountRateHigh     = 0.20
)

// CalculateDiscount returns the volume discount for a quantity at the given
// unit price. It is pure: same inputs always produce the same discount.
func CalculateDiscount(quantity int, unitPrice float64) (float64, error) {
	if quantity > MaxItemQuantity {
		return 0, ErrQuantityExceeded
	}
	if quantity < discountTierLow {
		return 0, nil
	}
	rate := discountRateLow
	if quantity >= discountTierHigh {
		rate = discountRateHigh
	}
	return round2(float64(quantity) * unitPrice * rate), nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
