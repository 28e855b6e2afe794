package usecase

import (
	"fmt"
	"time"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
)

// ComputePeriod returns the billing period starting at start: one calendar
// month for monthly plans, twelve for yearly. Calendar rule: when the start
// day does not exist in the target month, the end date is clamped to the
// last valid day of that month (Jan 31 + 1 month = Feb 29 in a leap year,
// Feb 28 otherwise), never overflowed into the following month.
func ComputePeriod(start time.Time, interval model.BillingInterval) (time.Time, time.Time, error) {
	if !interval.Valid() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: interval must be %q or %q", domain.ErrValidation, model.IntervalMonth, model.IntervalYear)
	}
	months := 1
	if interval == model.IntervalYear {
		months = 12
	}
	return start, addMonthsClamped(start, months), nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	// time.Date normalizes month overflow (month 13 -> January next year).
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
