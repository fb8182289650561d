// Package core holds the activity-aggregation and invoice-computation
// rules. It is pure: no I/O, no clocks, no floats in the money path.
package core

import (
	"fmt"
)

// HoursPerDay is the conversion ratio between declared hours and
// standard working days.
const HoursPerDay = 8

// Days is a day quantity in thousandths of a day. Mirrors the
// cents-for-money idiom: all arithmetic stays integral and the
// 3-decimal rounding contract is exact.
type Days struct {
	Millis int64
}

// HoursToDays converts integer hours to days at HoursPerDay, rounded
// half-up to three decimals. Negative input is rejected; zero hours is
// zero days.
func HoursToDays(hours int) (Days, error) {
	if hours < 0 {
		return Days{}, ErrInvalidQuantity
	}
	// round-half-up of hours*1000/ratio in integer arithmetic
	millis := (int64(hours)*1000*2 + HoursPerDay) / (2 * HoursPerDay)
	return Days{Millis: millis}, nil
}

// Add returns the sum of two day quantities.
func (d Days) Add(other Days) Days {
	return Days{Millis: d.Millis + other.Millis}
}

// IsZero reports whether the quantity is exactly 0.000.
func (d Days) IsZero() bool {
	return d.Millis == 0
}

// Float returns the day count as a float64 for display and report
// parameters. Calculations stay on Millis.
func (d Days) Float() float64 {
	return float64(d.Millis) / 1000.0
}

// String renders the quantity with exactly three decimals, e.g. "1.000".
func (d Days) String() string {
	sign := ""
	millis := d.Millis
	if millis < 0 {
		sign = "-"
		millis = -millis
	}
	return fmt.Sprintf("%s%d.%03d", sign, millis/1000, millis%1000)
}

// Money is an amount in cents.
type Money struct {
	Cents int64
}

// MulDays computes days × unit price with half-up rounding on the
// thousandths carried by Days.
func (m Money) MulDays(d Days) Money {
	product := m.Cents * d.Millis
	rounded := (product*2 + 1000) / 2000
	return Money{Cents: rounded}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Euros returns the amount as a float64 for display purposes.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount with two decimals, e.g. "100.00".
func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
