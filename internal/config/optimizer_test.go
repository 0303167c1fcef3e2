package config

import (
	"testing"
)

func TestOptimizerConfigNormalize(t *testing.T) {
	optimizer := &OptimizerConfig{
		TargetPayoffPeriod: 96,
		MaxExtraRepayment:  2000,
	}

	optimizer.Normalize()

	if optimizer.Tolerance != defaultOptimizerTolerance {
		t.Errorf("Tolerance = %v, want %v", optimizer.Tolerance, defaultOptimizerTolerance)
	}
	if optimizer.MaxIterations != defaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", optimizer.MaxIterations, defaultMaxIterations)
	}

	optimizer.Tolerance = 0.5
	optimizer.MaxIterations = 10
	optimizer.Normalize()

	if optimizer.Tolerance != 0.5 {
		t.Errorf("Normalize() overwrote explicit tolerance, got %v", optimizer.Tolerance)
	}
	if optimizer.MaxIterations != 10 {
		t.Errorf("Normalize() overwrote explicit max iterations, got %d", optimizer.MaxIterations)
	}
}

func TestOptimizerConfigNormalizeNil(t *testing.T) {
	var optimizer *OptimizerConfig
	optimizer.Normalize()
}

func TestOptimizerConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		optimizer *OptimizerConfig
		wantError bool
	}{
		{
			name:      "Valid directive",
			optimizer: &OptimizerConfig{TargetPayoffPeriod: 96, MaxExtraRepayment: 2000},
		},
		{
			name:      "Nil directive",
			optimizer: nil,
			wantError: true,
		},
		{
			name:      "Target payoff period below one",
			optimizer: &OptimizerConfig{TargetPayoffPeriod: 0, MaxExtraRepayment: 2000},
			wantError: true,
		},
		{
			name:      "Non-positive extra repayment bound",
			optimizer: &OptimizerConfig{TargetPayoffPeriod: 96, MaxExtraRepayment: 0},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.optimizer.Validate()
			if tt.wantError {
				if err == nil {
					t.Errorf("Validate() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
