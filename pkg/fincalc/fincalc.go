// Package fincalc provides the financial primitives used to normalize loan
// inputs and compute amortizing repayments. Rates are decimal fractions per
// period (0.005 for 0.5%), never percentages.
package fincalc

import "math"

// EffectiveRate converts a nominal rate quoted at from occurrences per year
// into the equivalent rate at to occurrences per year. A 0.06 annual rate
// becomes 0.005 monthly.
func EffectiveRate(rate, from, to float64) float64 {
	return rate * from / to
}

// EffectiveTerm converts a term quoted at from occurrences per year into the
// equivalent number of periods at to occurrences per year. A 10 year term
// becomes 120 monthly periods.
func EffectiveTerm(term, from, to float64) float64 {
	return term * to / from
}

// Pmt calculates the periodic payment that fully amortizes presentValue at
// the given periodic rate over the given number of periods using the
// standard amortization formula. An infinite number of periods yields the
// perpetuity payment presentValue * rate.
func Pmt(presentValue, rate, periods float64) float64 {
	if rate == 0 {
		// For zero interest, simply divide the principal by the term
		return presentValue / periods
	}
	if math.IsInf(periods, 1) {
		return presentValue * rate
	}

	power := math.Pow(1.00+rate, periods)
	discountFactor := (power - 1.00) / power
	return presentValue * rate / discountFactor
}

// Nper calculates the number of periods required to amortize presentValue at
// the given periodic rate with the given payment. Returns +Inf when the
// payment does not exceed the interest accruing each period, since such a
// loan never amortizes.
func Nper(presentValue, rate, payment float64) float64 {
	if rate == 0 {
		return presentValue / payment
	}

	if payment <= presentValue*rate {
		return math.Inf(1)
	}
	return math.Log(payment/(payment-presentValue*rate)) / math.Log(1.00+rate)
}
