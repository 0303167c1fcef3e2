package schedule

import "github.com/iwvelando/loan-schedule/pkg/fincalc"

// Kind identifies an adjustment handler type.
type Kind string

// Supported adjustment kinds.
const (
	KindFee            Kind = "fee"
	KindOffset         Kind = "offset"
	KindLumpSum        Kind = "lumpSum"
	KindRateChange     Kind = "rateChange"
	KindExtraRepayment Kind = "extraRepayment"
)

// Adjustment mutates the period context before settlement. Handlers run in
// registration order each period; when two handlers write the same context
// field the later registration wins.
type Adjustment interface {
	Kind() Kind
	AppliesTo(period int) bool
	Apply(ctx *Context)
}

// Span scopes an adjustment to an inclusive period range, with an optional
// cadence: Every n applies the adjustment on every nth period of the range,
// counted from StartPeriod. Every 0 or 1 means every period in the range.
type Span struct {
	StartPeriod int
	EndPeriod   int
	Every       int
}

// AppliesTo reports whether the period falls on the span.
func (s Span) AppliesTo(period int) bool {
	if period < s.StartPeriod || period > s.EndPeriod {
		return false
	}
	if s.Every > 1 {
		return (period-s.StartPeriod)%s.Every == 0
	}
	return true
}

// Fee adds a periodic account fee to the reported repayment. Fees are pure
// cash flow; interest, principal, and balance are settled before the fee is
// added.
type Fee struct {
	Span
	Amount float64
}

// Kind returns KindFee.
func (f Fee) Kind() Kind { return KindFee }

// Apply sets the period's fee.
func (f Fee) Apply(ctx *Context) { ctx.Fee = f.Amount }

// Offset shields part of the balance from interest accrual, the way an
// offset account reduces interest without reducing principal.
type Offset struct {
	Span
	Amount float64
}

// Kind returns KindOffset.
func (o Offset) Kind() Kind { return KindOffset }

// Apply sets the period's offset amount.
func (o Offset) Apply(ctx *Context) { ctx.Offset = o.Amount }

// LumpSum pays an additional one-off amount in the periods it covers.
type LumpSum struct {
	Span
	Amount float64
}

// Kind returns KindLumpSum.
func (l LumpSum) Kind() Kind { return KindLumpSum }

// Apply sets the period's lump sum.
func (l LumpSum) Apply(ctx *Context) { ctx.LumpSum = l.Amount }

// ExtraRepayment adds a recurring amount on top of the base repayment.
type ExtraRepayment struct {
	Span
	Amount float64
}

// Kind returns KindExtraRepayment.
func (e ExtraRepayment) Kind() Kind { return KindExtraRepayment }

// Apply sets the period's extra repayment.
func (e ExtraRepayment) Apply(ctx *Context) { ctx.ExtraRepayment = e.Amount }

// RateChange replaces the effective interest rate for the periods it covers.
// The rate is normalized to the repayment frequency with the same rule the
// base context uses.
type RateChange struct {
	Span
	Rate          float64
	RateFrequency Frequency
}

// Kind returns KindRateChange.
func (r RateChange) Kind() Kind { return KindRateChange }

// Apply overwrites the period's effective interest rate.
func (r RateChange) Apply(ctx *Context) {
	ctx.EffInterestRate = fincalc.EffectiveRate(r.Rate, r.RateFrequency.PerYear(), ctx.RepaymentFrequency.PerYear())
}
