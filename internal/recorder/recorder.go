// Package recorder persists computed schedule runs for later analysis.
package recorder

import (
	"github.com/iwvelando/loan-schedule/internal/schedules"
)

// RunRecord holds the persisted facts of one scenario calculation.
type RunRecord struct {
	ID              string
	Timestamp       int64
	Source          string // "api", "snapshot", or "cli"
	Scenario        string
	Principal       float64
	InterestRate    float64
	EffectiveTerm   float64
	PeriodsComputed int
	PayoffPeriod    int
	TotalRepayment  float64
	TotalInterest   float64
}

// Recorder persists schedule runs.
type Recorder interface {
	RecordRun(record *RunRecord) error
	Close() error
}

// FromSchedule builds the run record for one computed scenario. The rate and
// term are the normalized per-period values the schedule actually ran under,
// not the configured nominal ones.
func FromSchedule(source string, result schedules.ScenarioSchedule) *RunRecord {
	record := &RunRecord{
		Source:   source,
		Scenario: result.Name,
	}
	if result.Result == nil || len(result.Result.Entries) == 0 {
		return record
	}

	initial := result.Result.Entries[0].Context
	record.Principal = initial.PresentValue
	record.InterestRate = initial.EffInterestRate
	record.EffectiveTerm = initial.EffTerm
	record.PeriodsComputed = len(result.Result.Entries) - 1
	record.PayoffPeriod = result.Result.PayoffPeriod()
	record.TotalRepayment = result.Result.Totals.Repayment
	record.TotalInterest = result.Result.Totals.InterestPaid
	return record
}
