package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRatioPercent(t *testing.T) {
	assert.True(t, d("50").Equal(ratioPercent(d("50"), d("100"))))
	assert.True(t, d("120").Equal(ratioPercent(d("600"), d("500"))))
	assert.True(t, d("33.33").Equal(ratioPercent(d("1"), d("3"))))
	assert.True(t, decimal.Zero.Equal(ratioPercent(d("100"), decimal.Zero)))
}

func TestGrowthPercent(t *testing.T) {
	assert.True(t, d("25").Equal(growthPercent(d("125"), d("100"))))
	assert.True(t, d("-50").Equal(growthPercent(d("50"), d("100"))))
	assert.True(t, decimal.Zero.Equal(growthPercent(d("100"), d("100"))))

	// No history at all: zero denominator always reports zero growth
	assert.True(t, decimal.Zero.Equal(growthPercent(d("40"), decimal.Zero)))
	assert.True(t, decimal.Zero.Equal(growthPercent(decimal.Zero, decimal.Zero)))
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(2026, time.March, time.UTC)

	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthBoundsDecemberRollsOver(t *testing.T) {
	start, end := monthBounds(2025, time.December, time.UTC)

	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}
