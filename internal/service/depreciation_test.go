package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/asset-service/internal/domain"
)

func dec(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func TestComputeDepreciationLaptopSchedule(t *testing.T) {
	purchase := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule := ComputeDepreciation(15_000_000, purchase, domain.CategoryLaptop, asOf)

	require.Equal(t, 4, schedule.UsefulLifeYears)
	require.Len(t, schedule.Years, 4)
	assert.True(t, schedule.SalvageValue.Equal(dec(1_500_000)), "salvage = %s", schedule.SalvageValue)

	// DDB at 50% dominates until the final year, where the expense is
	// clamped so the book value lands exactly on salvage.
	expectedExpenses := []int64{7_500_000, 3_750_000, 1_875_000, 375_000}
	for i, want := range expectedExpenses {
		assert.True(t, schedule.Years[i].Expense.Equal(dec(want)),
			"year %d expense = %s, want %d", i+1, schedule.Years[i].Expense, want)
	}
	assert.False(t, schedule.Years[0].StraightLine)
	assert.True(t, schedule.Years[3].StraightLine)
	assert.True(t, schedule.Years[3].ClosingBookValue.Equal(dec(1_500_000)))
}

func TestComputeDepreciationProratesCurrentYear(t *testing.T) {
	purchase := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) // 18 months in

	schedule := ComputeDepreciation(15_000_000, purchase, domain.CategoryLaptop, asOf)

	require.Equal(t, 18, schedule.AgeMonths)
	assert.False(t, schedule.IsFullyDepreciated)

	// Year 1 in full plus half of year 2: 7.5M + 3.75M/2.
	assert.True(t, schedule.AccumulatedDepreciation.Equal(dec(9_375_000)),
		"accumulated = %s", schedule.AccumulatedDepreciation)
	assert.True(t, schedule.CurrentBookValue.Equal(dec(5_625_000)),
		"book = %s", schedule.CurrentBookValue)

	percent, _ := schedule.DepreciationPercent.Float64()
	assert.InDelta(t, 69.44, percent, 0.01)
}

func TestComputeDepreciationFullyDepreciated(t *testing.T) {
	purchase := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	schedule := ComputeDepreciation(15_000_000, purchase, domain.CategoryLaptop, asOf)

	assert.True(t, schedule.IsFullyDepreciated)
	assert.True(t, schedule.CurrentBookValue.Equal(dec(1_500_000)))
	assert.True(t, schedule.AccumulatedDepreciation.Equal(dec(13_500_000)))
	assert.True(t, schedule.DepreciationPercent.Equal(dec(100)))
}

func TestComputeDepreciationBookValueNeverBelowSalvage(t *testing.T) {
	purchase := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, category := range []domain.AssetCategory{
		domain.CategoryLaptop,
		domain.CategoryPhone,
		domain.CategoryServer,
		domain.CategoryFurniture,
	} {
		schedule := ComputeDepreciation(9_999_999, purchase, category, purchase)
		for _, year := range schedule.Years {
			assert.False(t, year.ClosingBookValue.LessThan(schedule.SalvageValue),
				"%s year %d closes below salvage", category, year.Year)
		}
		final := schedule.Years[len(schedule.Years)-1]
		assert.True(t, final.ClosingBookValue.Equal(schedule.SalvageValue),
			"%s final book = %s, salvage = %s", category, final.ClosingBookValue, schedule.SalvageValue)
	}
}

func TestUsefulLifeFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 4, UsefulLife(domain.CategoryLaptop))
	assert.Equal(t, 4, UsefulLife(domain.AssetCategory("laptop")))
	assert.Equal(t, defaultUsefulLifeYears, UsefulLife(domain.AssetCategory("WHITEBOARD")))
}

func TestMonthsBetween(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, monthsBetween(start, start))
	assert.Equal(t, 0, monthsBetween(start, start.AddDate(0, 0, -1)))
	assert.Equal(t, 1, monthsBetween(start, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	// Day-of-month not reached yet: still 17 whole months.
	assert.Equal(t, 17, monthsBetween(start, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)))
}
