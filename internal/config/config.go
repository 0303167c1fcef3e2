// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected for startDate values in config files
// and is also the output date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for loan-schedule.
type Configuration struct {
	Common    Common        `yaml:"common,omitempty"`
	Scenarios []Scenario    `yaml:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Common holds the adjustments shared between all scenarios. Shared
// adjustments are registered ahead of each scenario's own, so a scenario
// adjustment targeting the same period wins.
type Common struct {
	Adjustments []Adjustment `yaml:"adjustments,omitempty"`
}

// Scenario holds one loan and its adjustments.
type Scenario struct {
	Name        string           `yaml:"name"`
	Active      bool             `yaml:"active"`
	StartDate   string           `yaml:"startDate,omitempty" mapstructure:"startDate"`
	Loan        Loan             `yaml:"loan"`
	Adjustments []Adjustment     `yaml:"adjustments,omitempty"`
	Optimize    *OptimizerConfig `yaml:"optimize,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory source, such as an uploaded file. It uses a dedicated viper
// instance so it never disturbs the process-wide configuration.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	// Convert config structs to validation format
	validator := validation.ConfigValidator{
		Common: validation.CommonInfo{
			Adjustments: adjustmentInfos(c.Common.Adjustments),
		},
	}

	for _, scenario := range c.Scenarios {
		validator.Scenarios = append(validator.Scenarios, validation.ScenarioInfo{
			Name:      scenario.Name,
			Active:    scenario.Active,
			StartDate: scenario.StartDate,
			Loan: validation.LoanInfo{
				Principal:          scenario.Loan.Principal,
				InterestRate:       scenario.Loan.InterestRate,
				RateFrequency:      scenario.Loan.RateFrequency,
				Term:               scenario.Loan.Term,
				TermFrequency:      scenario.Loan.TermFrequency,
				Repayment:          scenario.Loan.Repayment,
				RepaymentFrequency: scenario.Loan.RepaymentFrequency,
			},
			Adjustments: adjustmentInfos(scenario.Adjustments),
		})
	}

	return validator.ValidateAll()
}

func adjustmentInfos(adjustments []Adjustment) []validation.AdjustmentInfo {
	var infos []validation.AdjustmentInfo
	for _, adjustment := range adjustments {
		infos = append(infos, validation.AdjustmentInfo{
			Kind:        adjustment.Kind,
			StartPeriod: adjustment.StartPeriod,
			EndPeriod:   adjustment.EndPeriod,
			Every:       adjustment.Every,
		})
	}
	return infos
}

// ActiveScenarios returns the scenarios flagged active, preserving their
// configured order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}
