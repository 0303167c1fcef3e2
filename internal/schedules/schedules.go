// Package schedules computes the amortization schedule for every configured
// scenario.
package schedules

import (
	"fmt"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/pkg/optimization"
	"github.com/iwvelando/loan-schedule/pkg/schedule"
	"go.uber.org/zap"
)

// ScenarioSchedule pairs a scenario with its computed schedule.
type ScenarioSchedule struct {
	Name         string                `json:"name"`
	StartDate    string                `json:"startDate,omitempty"`
	Frequency    schedule.Frequency    `json:"periodsPerYear"`
	Result       *schedule.Result      `json:"result"`
	Optimization *optimization.Summary `json:"optimization,omitempty"`
}

// Generate processes the schedules for all active Scenarios.
func Generate(logger *zap.Logger, conf config.Configuration) ([]ScenarioSchedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []ScenarioSchedule
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "schedules.Generate"),
			)
			continue
		}

		result, err := GenerateScenario(logger, conf, scenario)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// GenerateScenario computes the schedule for a single scenario, applying the
// shared adjustments ahead of the scenario's own.
func GenerateScenario(logger *zap.Logger, conf config.Configuration, scenario config.Scenario) (ScenarioSchedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	parameters, err := scenario.Loan.ToParameters()
	if err != nil {
		return ScenarioSchedule{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	adjustments, err := config.BuildAdjustments(conf.Common.Adjustments, scenario.Adjustments)
	if err != nil {
		return ScenarioSchedule{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	calculator, err := schedule.NewCalculator(logger, parameters)
	if err != nil {
		return ScenarioSchedule{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	calculator.Use(adjustments...)

	result, err := calculator.Calculate()
	if err != nil {
		return ScenarioSchedule{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return ScenarioSchedule{
		Name:      scenario.Name,
		StartDate: scenario.StartDate,
		Frequency: parameters.RepaymentFrequency,
		Result:    result,
	}, nil
}
