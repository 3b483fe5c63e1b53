package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/asset-service/internal/domain"
)

// salvageRate is the fraction of purchase price retained as salvage value.
var salvageRate = decimal.NewFromFloat(0.10)

var usefulLifeYears = map[domain.AssetCategory]int{
	domain.CategoryLaptop:     4,
	domain.CategoryComputer:   5,
	domain.CategoryDesktop:    5,
	domain.CategoryMonitor:    6,
	domain.CategoryPrinter:    5,
	domain.CategoryNetworking: 7,
	domain.CategoryServer:     7,
	domain.CategoryPhone:      3,
	domain.CategoryTablet:     3,
	domain.CategoryFurniture:  10,
	domain.CategoryVehicle:    8,
}

const defaultUsefulLifeYears = 5

// UsefulLife returns the depreciation life in years for a category.
func UsefulLife(category domain.AssetCategory) int {
	if life, ok := usefulLifeYears[domain.AssetCategory(strings.ToUpper(string(category)))]; ok {
		return life
	}
	return defaultUsefulLifeYears
}

// ComputeDepreciation builds the double-declining-balance schedule with
// straight-line switchover for an asset, plus its current book value as of
// asOf. Pure; used only for display.
//
// Per year the larger of the DDB expense (bookValue * 2/life) and the
// straight-line expense ((bookValue - salvage) / yearsRemaining) is taken,
// and the final year is clamped so book value never falls below salvage.
func ComputeDepreciation(purchasePrice int64, purchaseDate time.Time, category domain.AssetCategory, asOf time.Time) domain.DepreciationSchedule {
	life := UsefulLife(category)
	price := decimal.NewFromInt(purchasePrice)
	salvage := price.Mul(salvageRate)
	ddbRate := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(life)))

	schedule := domain.DepreciationSchedule{
		UsefulLifeYears: life,
		SalvageValue:    salvage,
		Years:           make([]domain.DepreciationYear, 0, life),
	}

	book := price
	for year := 1; year <= life; year++ {
		remaining := int64(life - year + 1)
		ddbExpense := book.Mul(ddbRate)
		slExpense := book.Sub(salvage).Div(decimal.NewFromInt(remaining))

		expense := ddbExpense
		straightLine := false
		if slExpense.GreaterThan(ddbExpense) {
			expense = slExpense
			straightLine = true
		}
		if book.Sub(expense).LessThan(salvage) {
			expense = book.Sub(salvage)
			straightLine = true
		}

		closing := book.Sub(expense)
		schedule.Years = append(schedule.Years, domain.DepreciationYear{
			Year:             year,
			OpeningBookValue: book,
			Expense:          expense,
			ClosingBookValue: closing,
			StraightLine:     straightLine,
		})
		book = closing
	}

	ageMonths := monthsBetween(purchaseDate, asOf)
	schedule.AgeMonths = ageMonths

	if ageMonths >= life*12 {
		schedule.IsFullyDepreciated = true
		schedule.AccumulatedDepreciation = price.Sub(salvage)
		schedule.CurrentBookValue = salvage
		schedule.DepreciationPercent = decimal.NewFromInt(100)
		return schedule
	}

	fullYears := ageMonths / 12
	monthsInto := ageMonths % 12

	accumulated := decimal.Zero
	for i := 0; i < fullYears; i++ {
		accumulated = accumulated.Add(schedule.Years[i].Expense)
	}
	if fullYears < life && monthsInto > 0 {
		proration := decimal.NewFromInt(int64(monthsInto)).Div(decimal.NewFromInt(12))
		accumulated = accumulated.Add(schedule.Years[fullYears].Expense.Mul(proration))
	}

	schedule.AccumulatedDepreciation = accumulated
	schedule.CurrentBookValue = price.Sub(accumulated)

	depreciable := price.Sub(salvage)
	if depreciable.IsPositive() {
		schedule.DepreciationPercent = accumulated.Div(depreciable).Mul(decimal.NewFromInt(100))
	}
	return schedule
}

// monthsBetween counts whole calendar months elapsed from start to end.
func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
