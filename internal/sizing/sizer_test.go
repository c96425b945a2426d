package sizing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairs_engine/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTargetQuantity_FractionalLotRoundsUp(t *testing.T) {
	// allocation/price = 1.2345, lot 0.001 -> up to 1.235
	qty, err := TargetQuantity(d("1.2345"), d("1"), d("0.001"))
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("1.235")), "got %s", qty)

	qty, err = TargetQuantity(d("123.45"), d("10"), d("0.01"))
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("12.35")), "got %s", qty)
}

func TestTargetQuantity_WholeLotRoundsHalfEven(t *testing.T) {
	// lot >= 1 is treated as a step of exactly 1: 2.5 -> 2 (ties to even)
	qty, err := TargetQuantity(d("2.5"), d("1"), d("1"))
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("2")), "got %s", qty)

	qty, err = TargetQuantity(d("3.5"), d("1"), d("5"))
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("4")), "got %s", qty)

	qty, err = TargetQuantity(d("2.4"), d("1"), d("1"))
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("2")), "got %s", qty)
}

func TestTargetQuantity_BadInputs(t *testing.T) {
	_, err := TargetQuantity(d("100"), d("0"), d("0.001"))
	assert.ErrorIs(t, err, models.ErrConstraintViolation)

	_, err = TargetQuantity(d("100"), d("10"), d("0"))
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestSizeLegs_AllocationCeiling(t *testing.T) {
	// per-leg allocation 100, ceiling 115; a leg landing at 120 disqualifies
	// the pair and no order may be sized off it
	legs := [2]Leg{
		{
			Symbol: "AAAUSDT",
			Price:  d("120"),
			Constraint: models.AssetConstraint{
				Symbol: "AAAUSDT", MinLotSize: d("1"), MinNotional: d("5"),
			},
		},
		{
			Symbol: "BBBUSDT",
			Price:  d("10"),
			Constraint: models.AssetConstraint{
				Symbol: "BBBUSDT", MinLotSize: d("1"), MinNotional: d("5"),
			},
		},
	}

	// 100/120 = 0.833 -> rounds to 1 -> notional 120 > 115
	_, err := SizeLegs(d("200"), legs)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "ceiling")
}

func TestSizeLegs_MinNotional(t *testing.T) {
	legs := [2]Leg{
		{
			Symbol: "AAAUSDT",
			Price:  d("10"),
			Constraint: models.AssetConstraint{
				Symbol: "AAAUSDT", MinLotSize: d("0.001"), MinNotional: d("500"),
			},
		},
		{
			Symbol: "BBBUSDT",
			Price:  d("10"),
			Constraint: models.AssetConstraint{
				Symbol: "BBBUSDT", MinLotSize: d("0.001"), MinNotional: d("5"),
			},
		},
	}

	_, err := SizeLegs(d("200"), legs)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "min notional")
}

func TestSizeLegs_OK(t *testing.T) {
	legs := [2]Leg{
		{
			Symbol: "AAAUSDT",
			Price:  d("25"),
			Constraint: models.AssetConstraint{
				Symbol: "AAAUSDT", MinLotSize: d("0.001"), MinNotional: d("5"),
			},
		},
		{
			Symbol: "BBBUSDT",
			Price:  d("4"),
			Constraint: models.AssetConstraint{
				Symbol: "BBBUSDT", MinLotSize: d("1"), MinNotional: d("5"),
			},
		},
	}

	sized, err := SizeLegs(d("200"), legs)
	require.NoError(t, err)

	// leg 1: 100/25 = 4 exactly
	assert.True(t, sized[0].Quantity.Equal(d("4")), "got %s", sized[0].Quantity)
	assert.True(t, sized[0].Notional.Equal(d("100")), "got %s", sized[0].Notional)

	// leg 2: 100/4 = 25 on the whole-lot grid
	assert.True(t, sized[1].Quantity.Equal(d("25")), "got %s", sized[1].Quantity)
	assert.True(t, sized[1].Notional.Equal(d("100")), "got %s", sized[1].Notional)
}
