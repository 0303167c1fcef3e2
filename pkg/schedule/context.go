package schedule

import (
	"math"

	"github.com/iwvelando/loan-schedule/pkg/fincalc"
)

// Context is the per-period view of a loan: the normalized base inputs plus
// whatever the period's adjustments contribute. It is a value type; the
// driver hands each period a fresh copy of the base context so one period's
// adjustments never leak into the next.
type Context struct {
	Period             int
	PresentValue       float64
	EffInterestRate    float64
	EffTerm            float64
	Repayment          float64
	RepaymentType      RepaymentType
	RepaymentFrequency Frequency

	// Adjustment-contributed fields. Zero means absent this period.
	ExtraRepayment float64
	LumpSum        float64
	Offset         float64
	Fee            float64
}

// EffTermRemaining returns the number of periods left, counting the current
// one.
func (c Context) EffTermRemaining() float64 {
	return c.EffTerm - float64(c.Period) + 1
}

// NewContext normalizes loan parameters into a base context. Rate and term
// are converted to the repayment frequency exactly once here; nothing
// downstream renormalizes except an explicit rate-change adjustment, which
// uses the same rule. When the term is absent it is derived from the fixed
// repayment and rounded half away from zero to a whole period.
func NewContext(params Parameters) (Context, error) {
	if err := params.Validate(); err != nil {
		return Context{}, err
	}

	repaymentType, err := ParseRepaymentType(string(params.RepaymentType))
	if err != nil {
		return Context{}, err
	}

	perYear := params.RepaymentFrequency.PerYear()
	effRate := fincalc.EffectiveRate(params.InterestRate, params.RateFrequency.PerYear(), perYear)

	var effTerm float64
	if params.Term == 0 {
		effTerm = math.Round(fincalc.Nper(params.Principal, effRate, params.Repayment))
	} else {
		effTerm = fincalc.EffectiveTerm(params.Term, params.TermFrequency.PerYear(), perYear)
	}

	return Context{
		PresentValue:       params.Principal,
		EffInterestRate:    effRate,
		EffTerm:            effTerm,
		RepaymentType:      repaymentType,
		RepaymentFrequency: params.RepaymentFrequency,
	}, nil
}
