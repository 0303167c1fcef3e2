// Package datetime provides date utility functions for labeling schedule
// periods with calendar months.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-schedule/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthsPerPeriod maps a repayment cadence, expressed as periods per year,
// onto whole calendar months. Cadences finer than monthly do not land on
// month boundaries and report false.
func MonthsPerPeriod(periodsPerYear int) (int, bool) {
	switch periodsPerYear {
	case 1:
		return constants.MonthsPerYear, true
	case 4:
		return 3, true
	case 12:
		return 1, true
	}
	return 0, false
}

// PeriodDate returns the calendar month of the given period, counting from a
// start date at period zero. The cadence must map onto whole months.
func PeriodDate(startDate string, periodsPerYear, period int) (string, error) {
	months, ok := MonthsPerPeriod(periodsPerYear)
	if !ok {
		return "", fmt.Errorf("cadence of %d periods per year does not map onto calendar months", periodsPerYear)
	}
	return OffsetDate(startDate, DateTimeLayout, months*period)
}
