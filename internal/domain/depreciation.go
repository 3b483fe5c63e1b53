package domain

import "github.com/shopspring/decimal"

// DepreciationYear is one row of a depreciation schedule.
type DepreciationYear struct {
	Year             int             `json:"year"`
	OpeningBookValue decimal.Decimal `json:"opening_book_value"`
	Expense          decimal.Decimal `json:"expense"`
	ClosingBookValue decimal.Decimal `json:"closing_book_value"`
	StraightLine     bool            `json:"straight_line"`
}

// DepreciationSchedule is the full double-declining-balance schedule for
// an asset plus its derived current state. Display-only.
type DepreciationSchedule struct {
	UsefulLifeYears         int                `json:"useful_life_years"`
	SalvageValue            decimal.Decimal    `json:"salvage_value"`
	Years                   []DepreciationYear `json:"years"`
	AgeMonths               int                `json:"age_months"`
	AccumulatedDepreciation decimal.Decimal    `json:"accumulated_depreciation"`
	CurrentBookValue        decimal.Decimal    `json:"current_book_value"`
	DepreciationPercent     decimal.Decimal    `json:"depreciation_percent"`
	IsFullyDepreciated      bool               `json:"is_fully_depreciated"`
}
