package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
)

const hoursPerDay = 24

// Quote is the priced breakdown for a stay.
type Quote struct {
	Days      int             `json:"days"`
	DailyRate decimal.Decimal `json:"dailyRate"`
	Total     decimal.Decimal `json:"total"`
}

// Days returns the stay length in whole days, rounding any partial day up.
func Days(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (hoursPerDay * time.Hour))
	if d%(hoursPerDay*time.Hour) != 0 {
		days++
	}
	return days
}

// Compute prices a stay: whole days (partial rounds up) times the daily
// rate, with an optional per-day cap replacing the rate when the rate
// exceeds it. Money stays on decimals and is rounded to 2 places at each
// step boundary.
func Compute(start, end time.Time, dailyRate decimal.Decimal, dailyMax *decimal.Decimal) (Quote, error) {
	if !start.Before(end) {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "start date must be before end date")
	}
	if dailyRate.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "daily rate cannot be negative")
	}

	rate := dailyRate.Round(2)
	if dailyMax != nil && !dailyMax.IsNegative() && rate.GreaterThan(*dailyMax) {
		rate = dailyMax.Round(2)
	}

	days := Days(start, end)
	total := rate.Mul(decimal.NewFromInt(int64(days))).Round(2)

	return Quote{
		Days:      days,
		DailyRate: rate,
		Total:     total,
	}, nil
}

// BookingTotal recomputes a booking's price from its base quote plus the
// attached add-on prices. Called inside the same transaction that
// mutates the add-ons.
func BookingTotal(base decimal.Decimal, addonPrices []decimal.Decimal) decimal.Decimal {
	total := base.Round(2)
	for _, price := range addonPrices {
		total = total.Add(price.Round(2))
	}
	return total.Round(2)
}
