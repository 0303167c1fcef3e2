package schedule

import (
	"fmt"
	"math"
	"strings"
)

// RepaymentType selects how the base repayment is computed.
type RepaymentType string

// Supported repayment types.
const (
	PrincipalAndInterest RepaymentType = "principalAndInterest"
	InterestOnly         RepaymentType = "interestOnly"
)

// ParseRepaymentType maps a configuration string onto a RepaymentType. An
// empty string defaults to principal-and-interest.
func ParseRepaymentType(value string) (RepaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "principalandinterest":
		return PrincipalAndInterest, nil
	case "interestonly":
		return InterestOnly, nil
	}
	return "", fmt.Errorf("unknown repayment type %q", value)
}

// Parameters describes a loan before normalization. Principal, rate, and
// term may each be quoted at their own frequency. Term may be omitted when a
// fixed repayment is given; the term is then derived from the repayment.
type Parameters struct {
	Principal          float64
	InterestRate       float64
	RateFrequency      Frequency
	Term               float64
	TermFrequency      Frequency
	Repayment          float64
	RepaymentType      RepaymentType
	RepaymentFrequency Frequency
}

// Validate rejects out-of-range or inconsistent parameters.
func (p Parameters) Validate() error {
	if math.IsNaN(p.Principal) || math.IsInf(p.Principal, 0) {
		return &InvalidParameterError{Name: "principal", Reason: fmt.Sprintf("must be a finite number, got %v", p.Principal)}
	}
	if p.Principal < 0 {
		return &InvalidParameterError{Name: "principal", Reason: fmt.Sprintf("must not be negative, got %v", p.Principal)}
	}
	if math.IsNaN(p.InterestRate) || math.IsInf(p.InterestRate, 0) {
		return &InvalidParameterError{Name: "interestRate", Reason: fmt.Sprintf("must be a finite number, got %v", p.InterestRate)}
	}
	if p.InterestRate < 0 {
		return &InvalidParameterError{Name: "interestRate", Reason: fmt.Sprintf("must not be negative, got %v", p.InterestRate)}
	}
	if !p.RateFrequency.Valid() {
		return &InvalidParameterError{Name: "rateFrequency", Reason: fmt.Sprintf("unsupported frequency %d", int(p.RateFrequency))}
	}
	if !p.RepaymentFrequency.Valid() {
		return &InvalidParameterError{Name: "repaymentFrequency", Reason: fmt.Sprintf("unsupported frequency %d", int(p.RepaymentFrequency))}
	}
	if math.IsNaN(p.Term) || math.IsInf(p.Term, 0) {
		return &InvalidParameterError{Name: "term", Reason: fmt.Sprintf("must be a finite number, got %v", p.Term)}
	}
	if p.Term < 0 {
		return &InvalidParameterError{Name: "term", Reason: fmt.Sprintf("must not be negative, got %v", p.Term)}
	}
	if p.Repayment < 0 {
		return &InvalidParameterError{Name: "repayment", Reason: fmt.Sprintf("must not be negative, got %v", p.Repayment)}
	}
	if p.Term == 0 && p.Repayment == 0 {
		return &InvalidParameterError{Name: "term", Reason: "either term or repayment must be provided"}
	}
	if p.Term > 0 && !p.TermFrequency.Valid() {
		return &InvalidParameterError{Name: "termFrequency", Reason: fmt.Sprintf("unsupported frequency %d", int(p.TermFrequency))}
	}
	if _, err := ParseRepaymentType(string(p.RepaymentType)); err != nil {
		return &InvalidParameterError{Name: "repaymentType", Reason: err.Error()}
	}
	return nil
}
