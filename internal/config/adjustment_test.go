package config

import (
	"testing"

	"github.com/iwvelando/loan-schedule/pkg/schedule"
)

func TestAdjustmentToAdjustment(t *testing.T) {
	tests := []struct {
		name       string
		adjustment Adjustment
		wantKind   schedule.Kind
		wantError  bool
	}{
		{
			name:       "Fee",
			adjustment: Adjustment{Kind: "fee", Amount: 10, StartPeriod: 1, EndPeriod: 120},
			wantKind:   schedule.KindFee,
		},
		{
			name:       "Offset",
			adjustment: Adjustment{Kind: "offset", Amount: 20000, StartPeriod: 1, EndPeriod: 120},
			wantKind:   schedule.KindOffset,
		},
		{
			name:       "Lump sum with mixed case kind",
			adjustment: Adjustment{Kind: "LumpSum", Amount: 10000, StartPeriod: 24, EndPeriod: 24},
			wantKind:   schedule.KindLumpSum,
		},
		{
			name:       "Extra repayment",
			adjustment: Adjustment{Kind: "extraRepayment", Amount: 150, StartPeriod: 13, EndPeriod: 120},
			wantKind:   schedule.KindExtraRepayment,
		},
		{
			name:       "Rate change",
			adjustment: Adjustment{Kind: "rateChange", Rate: 0.07, RateFrequency: "annually", StartPeriod: 61, EndPeriod: 120},
			wantKind:   schedule.KindRateChange,
		},
		{
			name:       "Rate change defaults to an annual quote",
			adjustment: Adjustment{Kind: "rateChange", Rate: 0.07, StartPeriod: 61, EndPeriod: 120},
			wantKind:   schedule.KindRateChange,
		},
		{
			name:       "Unknown kind",
			adjustment: Adjustment{Kind: "cashback", Amount: 100, StartPeriod: 1, EndPeriod: 12},
			wantError:  true,
		},
		{
			name:       "Start period below one",
			adjustment: Adjustment{Kind: "fee", Amount: 10, StartPeriod: 0, EndPeriod: 12},
			wantError:  true,
		},
		{
			name:       "End period before start period",
			adjustment: Adjustment{Kind: "fee", Amount: 10, StartPeriod: 12, EndPeriod: 1},
			wantError:  true,
		},
		{
			name:       "Rate change with unknown rate frequency",
			adjustment: Adjustment{Kind: "rateChange", Rate: 0.07, RateFrequency: "daily", StartPeriod: 1, EndPeriod: 12},
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := tt.adjustment.ToAdjustment()
			if tt.wantError {
				if err == nil {
					t.Errorf("ToAdjustment() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("ToAdjustment() error = %v", err)
				return
			}
			if handler.Kind() != tt.wantKind {
				t.Errorf("ToAdjustment() kind = %v, want %v", handler.Kind(), tt.wantKind)
			}
			if !handler.AppliesTo(tt.adjustment.StartPeriod) {
				t.Errorf("ToAdjustment() handler does not apply to its own start period %d", tt.adjustment.StartPeriod)
			}
		})
	}
}

func TestAdjustmentSpanCarriesCadence(t *testing.T) {
	adjustment := Adjustment{Kind: "extraRepayment", Amount: 150, StartPeriod: 13, EndPeriod: 24, Every: 3}

	handler, err := adjustment.ToAdjustment()
	if err != nil {
		t.Fatalf("ToAdjustment() error = %v", err)
	}

	applied := []int{}
	for period := 13; period <= 24; period++ {
		if handler.AppliesTo(period) {
			applied = append(applied, period)
		}
	}

	want := []int{13, 16, 19, 22}
	if len(applied) != len(want) {
		t.Fatalf("applied periods = %v, want %v", applied, want)
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Errorf("applied periods = %v, want %v", applied, want)
			break
		}
	}
}

func TestBuildAdjustments(t *testing.T) {
	common := []Adjustment{
		{Kind: "fee", Amount: 10, StartPeriod: 1, EndPeriod: 120},
	}
	scenario := []Adjustment{
		{Kind: "offset", Amount: 20000, StartPeriod: 1, EndPeriod: 120},
		{Kind: "lumpSum", Amount: 10000, StartPeriod: 24, EndPeriod: 24},
	}

	handlers, err := BuildAdjustments(common, scenario)
	if err != nil {
		t.Fatalf("BuildAdjustments() error = %v", err)
	}

	wantKinds := []schedule.Kind{schedule.KindFee, schedule.KindOffset, schedule.KindLumpSum}
	if len(handlers) != len(wantKinds) {
		t.Fatalf("BuildAdjustments() length = %d, want %d", len(handlers), len(wantKinds))
	}
	for i, want := range wantKinds {
		if handlers[i].Kind() != want {
			t.Errorf("BuildAdjustments()[%d] kind = %v, want %v", i, handlers[i].Kind(), want)
		}
	}
}

func TestBuildAdjustmentsPropagatesErrors(t *testing.T) {
	common := []Adjustment{
		{Kind: "mystery", Amount: 10, StartPeriod: 1, EndPeriod: 12},
	}

	if _, err := BuildAdjustments(common, nil); err == nil {
		t.Errorf("BuildAdjustments() expected error for unknown common kind")
	}

	scenario := []Adjustment{
		{Kind: "fee", Amount: 10, StartPeriod: 5, EndPeriod: 1},
	}

	if _, err := BuildAdjustments(nil, scenario); err == nil {
		t.Errorf("BuildAdjustments() expected error for inverted scenario span")
	}
}
