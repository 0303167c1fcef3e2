// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/fincalc"
	"github.com/iwvelando/loan-schedule/pkg/schedule"
)

// ValidateAdjustmentSpan checks if an adjustment's span extends past the
// loan's effective term
func ValidateAdjustmentSpan(name, kind string, endPeriod, effectiveTerm int) string {
	if endPeriod > effectiveTerm {
		return fmt.Sprintf("%s adjustment '%s' ends after the loan term (%d > %d) - trailing periods will never apply",
			name, kind, endPeriod, effectiveTerm)
	}
	return ""
}

// ValidateTermInputs checks whether a loan specifies both a term and a fixed
// repayment; the term takes precedence when both are present
func ValidateTermInputs(name string, term, repayment float64) string {
	if term > 0 && repayment > 0 {
		return fmt.Sprintf("Scenario '%s' sets both term and repayment - the term takes precedence and the repayment is ignored", name)
	}
	return ""
}

// ValidateStartDate checks whether a scenario's startDate can label its
// repayment cadence with calendar months
func ValidateStartDate(name, startDate string, periodsPerYear int) []string {
	var warnings []string

	if startDate == "" {
		return warnings
	}

	if _, err := time.Parse(constants.DateTimeLayout, startDate); err != nil {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' startDate %q is not in %s format - period dates will be omitted",
			name, startDate, constants.DateTimeLayout))
		return warnings
	}

	if _, ok := datetime.MonthsPerPeriod(periodsPerYear); !ok {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' startDate cannot label a cadence of %d periods per year - period dates will be omitted",
			name, periodsPerYear))
	}

	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Common    CommonInfo
	Scenarios []ScenarioInfo
}

type CommonInfo struct {
	Adjustments []AdjustmentInfo
}

type ScenarioInfo struct {
	Name        string
	Active      bool
	StartDate   string
	Loan        LoanInfo
	Adjustments []AdjustmentInfo
}

type LoanInfo struct {
	Principal          float64
	InterestRate       float64
	RateFrequency      string
	Term               float64
	TermFrequency      string
	Repayment          float64
	RepaymentFrequency string
}

type AdjustmentInfo struct {
	Kind        string
	StartPeriod int
	EndPeriod   int
	Every       int
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	anyActive := false
	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		anyActive = true

		warning := ValidateTermInputs(scenario.Name, scenario.Loan.Term, scenario.Loan.Repayment)
		if warning != "" {
			warnings = append(warnings, warning)
		}

		periodsPerYear, ok := periodsPerYear(scenario.Loan.RepaymentFrequency, schedule.Monthly)
		if ok {
			warnings = append(warnings, ValidateStartDate(scenario.Name, scenario.StartDate, periodsPerYear)...)
		}

		// The span check needs the loan term in repayment periods, which is
		// only known up front when the term is configured directly.
		effectiveTerm, ok := effectiveTermPeriods(scenario.Loan)
		if !ok {
			continue
		}
		for _, adjustment := range cv.Common.Adjustments {
			warning := ValidateAdjustmentSpan(fmt.Sprintf("Scenario '%s' common", scenario.Name), adjustment.Kind, adjustment.EndPeriod, effectiveTerm)
			if warning != "" {
				warnings = append(warnings, warning)
			}
		}
		for _, adjustment := range scenario.Adjustments {
			warning := ValidateAdjustmentSpan(fmt.Sprintf("Scenario '%s'", scenario.Name), adjustment.Kind, adjustment.EndPeriod, effectiveTerm)
			if warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	if len(cv.Scenarios) > 0 && !anyActive {
		warnings = append(warnings, "No scenarios are marked active - nothing will be computed")
	}

	return warnings
}

func effectiveTermPeriods(loan LoanInfo) (int, bool) {
	if loan.Term <= 0 {
		return 0, false
	}
	termFrequency, ok := periodsPerYear(loan.TermFrequency, schedule.Annually)
	if !ok {
		return 0, false
	}
	repaymentFrequency, ok := periodsPerYear(loan.RepaymentFrequency, schedule.Monthly)
	if !ok {
		return 0, false
	}
	return int(fincalc.EffectiveTerm(loan.Term, float64(termFrequency), float64(repaymentFrequency))), true
}

func periodsPerYear(value string, fallback schedule.Frequency) (int, bool) {
	if value == "" {
		return int(fallback), true
	}
	frequency, err := schedule.ParseFrequency(value)
	if err != nil {
		return 0, false
	}
	return int(frequency), true
}
