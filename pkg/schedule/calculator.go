// Package schedule generates loan amortization schedules. A Calculator
// normalizes loan parameters into a period context, applies registered
// adjustments period by period, and settles each period into an ordered
// schedule with running totals.
package schedule

import (
	"fmt"

	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/fincalc"
	"github.com/iwvelando/loan-schedule/pkg/mathutil"
	"go.uber.org/zap"
)

// Amortization holds the settled money movements of one period.
type Amortization struct {
	Repayment     float64 `json:"repayment"`
	InterestPaid  float64 `json:"interestPaid"`
	PrincipalPaid float64 `json:"principalPaid"`
	FutureValue   float64 `json:"futureValue"`
}

// Entry is one row of the schedule: the period number, the context the
// period settled under, and the resulting money movements. Period 0 records
// the starting state and moves no money. Amortization is embedded so row
// consumers can reach the money fields directly.
type Entry struct {
	Period       int     `json:"period"`
	Context      Context `json:"-"`
	Amortization `json:"amortization"`
}

// Totals aggregates the running periods of a schedule. The initial entry is
// excluded.
type Totals struct {
	Repayment    float64 `json:"repayment"`
	InterestPaid float64 `json:"interestPaid"`
}

// Result is one complete schedule run.
type Result struct {
	Entries []Entry `json:"entries"`
	Totals  Totals  `json:"totals"`
}

// PayoffPeriod returns the period of the final schedule entry; when the loan
// paid off early this is the payoff period, otherwise the exhausted term.
func (r *Result) PayoffPeriod() int {
	if len(r.Entries) == 0 {
		return 0
	}
	return r.Entries[len(r.Entries)-1].Period
}

// PaidOff reports whether the schedule ended with a zero balance.
func (r *Result) PaidOff() bool {
	if len(r.Entries) == 0 {
		return false
	}
	return r.Entries[len(r.Entries)-1].Amortization.FutureValue <= 0
}

// Calculator drives the period loop for one loan.
type Calculator struct {
	logger     *zap.Logger
	engine     *Engine
	maxPeriods int
}

// NewCalculator validates and normalizes the parameters and prepares a
// calculator. Invalid parameters are rejected here, never clamped.
func NewCalculator(logger *zap.Logger, params Parameters) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := NewContext(params)
	if err != nil {
		return nil, err
	}

	return &Calculator{
		logger:     logger,
		engine:     NewEngine(base),
		maxPeriods: constants.MaxSchedulePeriods,
	}, nil
}

// Engine exposes the underlying engine for context access and inspection.
func (c *Calculator) Engine() *Engine {
	return c.engine
}

// Use registers adjustments on the underlying engine.
func (c *Calculator) Use(adjustments ...Adjustment) {
	c.engine.Use(adjustments...)
}

// SetParameters replaces the loan under calculation. The next Calculate call
// runs against the freshly normalized context; registered adjustments stay
// in place.
func (c *Calculator) SetParameters(params Parameters) error {
	base, err := NewContext(params)
	if err != nil {
		return err
	}
	c.engine.SetContext(base)
	return nil
}

// Calculate runs the schedule from scratch and returns the entries and
// totals. Entry 0 is always emitted and records the starting state; running
// periods follow until the balance reaches zero or the term is exhausted.
// A loop that reaches the iteration ceiling without paying down returns
// ErrNonConvergent.
func (c *Calculator) Calculate() (*Result, error) {
	base := c.engine.Context()

	c.logger.Debug(fmt.Sprintf("starting schedule: principal %.2f, rate %.6f, term %.0f periods",
		base.PresentValue, base.EffInterestRate, base.EffTerm),
		zap.String("op", "schedule.Calculate"),
	)

	entries := []Entry{{
		Period:       0,
		Context:      base,
		Amortization: Amortization{FutureValue: base.PresentValue},
	}}

	balance := base.PresentValue
	previous := base
	for period := 1; balance > 0 && float64(period) <= base.EffTerm; period++ {
		if period > c.maxPeriods {
			return nil, fmt.Errorf("%w: %d periods elapsed with balance %.2f remaining",
				ErrNonConvergent, c.maxPeriods, balance)
		}

		ctx := c.engine.Context()
		ctx.Period = period
		ctx.PresentValue = balance
		for _, adjustment := range c.engine.AdjustmentsAt(period) {
			adjustment.Apply(&ctx)
		}

		ctx.Repayment = c.decideRepayment(period, ctx, previous)

		entry := Entry{Period: period, Context: ctx, Amortization: settle(ctx)}
		entries = append(entries, entry)

		balance = entry.Amortization.FutureValue
		previous = ctx
	}

	if balance <= 0 && len(entries) > 1 {
		c.logger.Debug(fmt.Sprintf("schedule paid off at period %d", entries[len(entries)-1].Period),
			zap.String("op", "schedule.Calculate"),
		)
	}

	return &Result{Entries: entries, Totals: sumTotals(entries)}, nil
}

// decideRepayment applies the repayment policy: the base repayment is
// computed on the first period and again whenever the effective rate changed
// since the previous period; otherwise the previous period's decided amount
// carries forward unchanged. The rate comparison is exact, so overwriting
// the rate with the identical float is not a change.
func (c *Calculator) decideRepayment(period int, ctx Context, previous Context) float64 {
	if period > 1 && ctx.EffInterestRate == previous.EffInterestRate {
		return previous.Repayment
	}

	if period > 1 {
		c.logger.Debug(fmt.Sprintf("period %d: effective rate changed from %.6f to %.6f, recomputing repayment",
			period, previous.EffInterestRate, ctx.EffInterestRate),
			zap.String("op", "schedule.decideRepayment"),
		)
	}

	if ctx.RepaymentType == InterestOnly {
		return ctx.PresentValue * ctx.EffInterestRate
	}
	return fincalc.Pmt(ctx.PresentValue, ctx.EffInterestRate, ctx.EffTermRemaining())
}

// settle performs the period settlement in its fixed order: cash additions
// first, then interest on the offset-reduced balance, the overpayment cap,
// the principal split and new balance, and the fee last so it never enters
// the balance math.
func settle(ctx Context) Amortization {
	repayment := ctx.Repayment + ctx.ExtraRepayment + ctx.LumpSum

	consideredPrincipal := ctx.PresentValue - ctx.Offset
	interestPaid := mathutil.Max(0, consideredPrincipal*ctx.EffInterestRate)

	// Cap the repayment so the balance can never be driven below zero.
	if repayment > ctx.PresentValue {
		repayment = ctx.PresentValue + interestPaid
	}

	principalPaid := repayment - interestPaid
	futureValue := ctx.PresentValue - principalPaid
	if mathutil.IsPaidOff(futureValue) {
		// We will get machine error otherwise so just set to 0.
		futureValue = 0
	}

	return Amortization{
		Repayment:     repayment + ctx.Fee,
		InterestPaid:  interestPaid,
		PrincipalPaid: principalPaid,
		FutureValue:   futureValue,
	}
}

// sumTotals aggregates the running periods. A schedule that never ran a
// period, e.g. for a zero principal, reports zero totals rather than failing
// the reduction.
func sumTotals(entries []Entry) Totals {
	var totals Totals
	for _, entry := range entries {
		if entry.Period == 0 {
			continue
		}
		totals.Repayment += entry.Amortization.Repayment
		totals.InterestPaid += entry.Amortization.InterestPaid
	}
	return totals
}
