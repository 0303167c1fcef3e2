package config

import (
	"fmt"
)

const (
	defaultOptimizerTolerance = 0.01
	defaultMaxIterations      = 50
)

// OptimizerConfig defines an extra-repayment search directive: find the
// smallest recurring extra repayment that pays the scenario's loan off by
// the target period.
type OptimizerConfig struct {
	TargetPayoffPeriod int     `yaml:"targetPayoffPeriod" mapstructure:"targetPayoffPeriod"`
	MaxExtraRepayment  float64 `yaml:"maxExtraRepayment" mapstructure:"maxExtraRepayment"`
	Tolerance          float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations      int     `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// Normalize ensures defaults are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultOptimizerTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if o.TargetPayoffPeriod < 1 {
		return fmt.Errorf("optimizer target payoff period %d must be at least 1", o.TargetPayoffPeriod)
	}
	if o.MaxExtraRepayment <= 0 {
		return fmt.Errorf("optimizer maximum extra repayment %.2f must be positive", o.MaxExtraRepayment)
	}

	return nil
}
