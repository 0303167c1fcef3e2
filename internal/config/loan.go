// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/iwvelando/loan-schedule/pkg/schedule"
)

// Frequency defaults applied when a loan omits the optional frequency keys.
const (
	defaultRateFrequency      = "annually"
	defaultTermFrequency      = "annually"
	defaultRepaymentFrequency = "monthly"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	Principal          float64 `yaml:"principal"`
	InterestRate       float64 `yaml:"interestRate" mapstructure:"interestRate"`
	RateFrequency      string  `yaml:"rateFrequency,omitempty" mapstructure:"rateFrequency"`
	Term               float64 `yaml:"term,omitempty"`
	TermFrequency      string  `yaml:"termFrequency,omitempty" mapstructure:"termFrequency"`
	Repayment          float64 `yaml:"repayment,omitempty"`
	RepaymentType      string  `yaml:"repaymentType,omitempty" mapstructure:"repaymentType"`
	RepaymentFrequency string  `yaml:"repaymentFrequency,omitempty" mapstructure:"repaymentFrequency"`
}

// ToParameters converts the loan config into schedule parameters, applying
// the documented frequency defaults for omitted keys.
func (loan *Loan) ToParameters() (schedule.Parameters, error) {
	rateFrequency, err := schedule.ParseFrequency(orDefault(loan.RateFrequency, defaultRateFrequency))
	if err != nil {
		return schedule.Parameters{}, fmt.Errorf("rateFrequency: %w", err)
	}

	termFrequency, err := schedule.ParseFrequency(orDefault(loan.TermFrequency, defaultTermFrequency))
	if err != nil {
		return schedule.Parameters{}, fmt.Errorf("termFrequency: %w", err)
	}

	repaymentFrequency, err := schedule.ParseFrequency(orDefault(loan.RepaymentFrequency, defaultRepaymentFrequency))
	if err != nil {
		return schedule.Parameters{}, fmt.Errorf("repaymentFrequency: %w", err)
	}

	repaymentType, err := schedule.ParseRepaymentType(loan.RepaymentType)
	if err != nil {
		return schedule.Parameters{}, fmt.Errorf("repaymentType: %w", err)
	}

	return schedule.Parameters{
		Principal:          loan.Principal,
		InterestRate:       loan.InterestRate,
		RateFrequency:      rateFrequency,
		Term:               loan.Term,
		TermFrequency:      termFrequency,
		Repayment:          loan.Repayment,
		RepaymentType:      repaymentType,
		RepaymentFrequency: repaymentFrequency,
	}, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
