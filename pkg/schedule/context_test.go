package schedule

import (
	"errors"
	"math"
	"testing"
)

func TestNewContextNormalization(t *testing.T) {
	tests := []struct {
		name         string
		params       Parameters
		expectedRate float64
		expectedTerm float64
	}{
		{
			name:         "Annual quotes to monthly repayments",
			params:       standardParams(),
			expectedRate: 0.005,
			expectedTerm: 120,
		},
		{
			name: "Annual quotes to weekly repayments",
			params: Parameters{
				Principal: 25000, InterestRate: 0.052, RateFrequency: Annually,
				Term: 2, TermFrequency: Annually,
				RepaymentType: PrincipalAndInterest, RepaymentFrequency: Weekly,
			},
			expectedRate: 0.001,
			expectedTerm: 104,
		},
		{
			name: "Monthly quotes unchanged",
			params: Parameters{
				Principal: 100000, InterestRate: 0.005, RateFrequency: Monthly,
				Term: 120, TermFrequency: Monthly,
				RepaymentType: PrincipalAndInterest, RepaymentFrequency: Monthly,
			},
			expectedRate: 0.005,
			expectedTerm: 120,
		},
		{
			name: "Quarterly rate to fortnightly repayments",
			params: Parameters{
				Principal: 50000, InterestRate: 0.013, RateFrequency: Quarterly,
				Term: 3, TermFrequency: Annually,
				RepaymentType: PrincipalAndInterest, RepaymentFrequency: Fortnightly,
			},
			expectedRate: 0.013 * 4 / 26,
			expectedTerm: 78,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := NewContext(tt.params)
			if err != nil {
				t.Fatalf("NewContext() error = %v", err)
			}
			if math.Abs(ctx.EffInterestRate-tt.expectedRate) > 1e-12 {
				t.Errorf("EffInterestRate = %v, expected %v", ctx.EffInterestRate, tt.expectedRate)
			}
			if math.Abs(ctx.EffTerm-tt.expectedTerm) > 1e-9 {
				t.Errorf("EffTerm = %v, expected %v", ctx.EffTerm, tt.expectedTerm)
			}
			if ctx.PresentValue != tt.params.Principal {
				t.Errorf("PresentValue = %v, expected %v", ctx.PresentValue, tt.params.Principal)
			}
		})
	}
}

func TestNewContextDerivedTerm(t *testing.T) {
	tests := []struct {
		name         string
		repayment    float64
		expectedTerm float64
	}{
		{"Rounds down from 108.07", 1200, 108},
		{"Rounds up to the full term", 1110.21, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := NewContext(Parameters{
				Principal:          100000,
				InterestRate:       0.06,
				RateFrequency:      Annually,
				Repayment:          tt.repayment,
				RepaymentType:      PrincipalAndInterest,
				RepaymentFrequency: Monthly,
			})
			if err != nil {
				t.Fatalf("NewContext() error = %v", err)
			}
			if ctx.EffTerm != tt.expectedTerm {
				t.Errorf("EffTerm = %v, expected %v", ctx.EffTerm, tt.expectedTerm)
			}
		})
	}
}

func TestEffTermRemaining(t *testing.T) {
	ctx := Context{EffTerm: 120, Period: 61}
	if got := ctx.EffTermRemaining(); got != 60 {
		t.Errorf("EffTermRemaining() = %v, expected 60", got)
	}
}

func TestNewContextRejectsInvalidParameters(t *testing.T) {
	valid := standardParams()

	tests := []struct {
		name     string
		mutate   func(p *Parameters)
		wantName string
	}{
		{"Negative principal", func(p *Parameters) { p.Principal = -1 }, "principal"},
		{"NaN principal", func(p *Parameters) { p.Principal = math.NaN() }, "principal"},
		{"Negative rate", func(p *Parameters) { p.InterestRate = -0.01 }, "interestRate"},
		{"Negative term", func(p *Parameters) { p.Term = -10 }, "term"},
		{"Negative repayment", func(p *Parameters) { p.Repayment = -100 }, "repayment"},
		{"Missing term and repayment", func(p *Parameters) { p.Term = 0; p.Repayment = 0 }, "term"},
		{"Bad rate frequency", func(p *Parameters) { p.RateFrequency = 0 }, "rateFrequency"},
		{"Bad term frequency", func(p *Parameters) { p.TermFrequency = 7 }, "termFrequency"},
		{"Bad repayment frequency", func(p *Parameters) { p.RepaymentFrequency = 365 }, "repaymentFrequency"},
		{"Bad repayment type", func(p *Parameters) { p.RepaymentType = "balloon" }, "repaymentType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)

			_, err := NewContext(params)
			if err == nil {
				t.Fatalf("NewContext() accepted invalid parameters %+v", params)
			}

			var invalid *InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("NewContext() error = %v, expected InvalidParameterError", err)
			}
			if invalid.Name != tt.wantName {
				t.Errorf("InvalidParameterError.Name = %q, expected %q", invalid.Name, tt.wantName)
			}
		})
	}
}

func TestParseRepaymentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RepaymentType
		wantErr  bool
	}{
		{"Principal and interest", "principalAndInterest", PrincipalAndInterest, false},
		{"Interest only", "interestOnly", InterestOnly, false},
		{"Case insensitive", "INTERESTONLY", InterestOnly, false},
		{"Empty defaults", "", PrincipalAndInterest, false},
		{"Unknown", "balloon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRepaymentType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepaymentType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("ParseRepaymentType(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}
