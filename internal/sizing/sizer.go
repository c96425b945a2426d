package sizing

import (
	"github.com/shopspring/decimal"

	"pairs_engine/internal/models"
)

// AllocationCeilingMult bounds each leg's notional above its allocation.
// Lot quantization can push a leg roughly 11% past its allocation in the
// worst observed case, so 15% headroom.
var AllocationCeilingMult = decimal.RequireFromString("1.15")

var one = decimal.NewFromInt(1)
var two = decimal.NewFromInt(2)

// Leg is one side of the pair to size.
type Leg struct {
	Symbol     string
	Price      decimal.Decimal
	Constraint models.AssetConstraint
}

// SizedLeg is a quantized, validated order size.
type SizedLeg struct {
	Symbol   string
	Quantity decimal.Decimal
	Notional decimal.Decimal
}

// TargetQuantity quantizes allocation/price to the instrument's lot grid.
// Fractional lot steps round up to the next lot multiple; steps ≥ 1 are
// treated as a step of exactly 1 and round to nearest, ties to even.
func TargetQuantity(allocation, price, minLotSize decimal.Decimal) (decimal.Decimal, error) {
	if price.Sign() <= 0 {
		return decimal.Zero, models.ConstraintViolationf("price must be positive, got %s", price)
	}

	raw := allocation.Div(price)
	if minLotSize.LessThan(one) {
		if minLotSize.Sign() <= 0 {
			return decimal.Zero, models.ConstraintViolationf("lot size must be positive, got %s", minLotSize)
		}
		return raw.RoundUp(-minLotSize.Exponent()), nil
	}
	return raw.RoundBank(0), nil
}

// SizeLegs splits the total allocation evenly across both legs, quantizes
// each quantity and validates the resulting notionals against the allocation
// ceiling and the exchange minimum. Any violation disqualifies the pair.
func SizeLegs(totalAllocation decimal.Decimal, legs [2]Leg) ([2]SizedLeg, error) {
	var sized [2]SizedLeg

	legAllocation := totalAllocation.Div(two)
	ceiling := legAllocation.Mul(AllocationCeilingMult).RoundBank(2)

	for i, leg := range legs {
		qty, err := TargetQuantity(legAllocation, leg.Price, leg.Constraint.MinLotSize)
		if err != nil {
			return sized, err
		}

		notional := qty.Mul(leg.Price)
		if notional.GreaterThan(ceiling) {
			return sized, models.ConstraintViolationf(
				"%s notional %s exceeds allocation ceiling %s", leg.Symbol, notional, ceiling)
		}
		if notional.LessThan(leg.Constraint.MinNotional) {
			return sized, models.ConstraintViolationf(
				"%s notional %s below min notional %s", leg.Symbol, notional, leg.Constraint.MinNotional)
		}

		sized[i] = SizedLeg{Symbol: leg.Symbol, Quantity: qty, Notional: notional}
	}
	return sized, nil
}
