package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTierForSpend(t *testing.T) {
	cases := []struct {
		spend int64
		want  TierType
	}{
		{0, TierBase},
		{999_999, TierBase},
		{1_000_000, TierSilver},
		{2_999_999, TierSilver},
		{3_000_000, TierGold},
		{4_999_999, TierGold},
		{5_000_000, TierDiamond},
		{50_000_000, TierDiamond},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TierForSpend(decimal.NewFromInt(c.spend)), "spend %d", c.spend)
	}
}

func TestTierDiscountPct(t *testing.T) {
	assert.EqualValues(t, 0, TierBase.DiscountPct())
	assert.EqualValues(t, 3, TierSilver.DiscountPct())
	assert.EqualValues(t, 5, TierGold.DiscountPct())
	assert.EqualValues(t, 10, TierDiamond.DiscountPct())
	assert.EqualValues(t, 0, TierType("unknown").DiscountPct())
}

func TestTierNext(t *testing.T) {
	next, threshold, ok := TierBase.Next()
	assert.True(t, ok)
	assert.Equal(t, TierSilver, next)
	assert.True(t, threshold.Equal(decimal.NewFromInt(1_000_000)))

	next, threshold, ok = TierGold.Next()
	assert.True(t, ok)
	assert.Equal(t, TierDiamond, next)
	assert.True(t, threshold.Equal(decimal.NewFromInt(5_000_000)))

	_, _, ok = TierDiamond.Next()
	assert.False(t, ok)
}
