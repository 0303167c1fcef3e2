// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/loan-schedule/internal/schedules"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the schedule if found, nil otherwise.
func FindScenario(results []schedules.ScenarioSchedule, name string) *schedules.ScenarioSchedule {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
