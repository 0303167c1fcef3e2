// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-schedule/pkg/schedule"
)

// Adjustment describes one schedule adjustment in the configuration. Kind
// selects the handler; the remaining fields carry that handler's inputs.
type Adjustment struct {
	Kind          string  `yaml:"kind"`
	Amount        float64 `yaml:"amount,omitempty"`
	Rate          float64 `yaml:"rate,omitempty"`
	RateFrequency string  `yaml:"rateFrequency,omitempty" mapstructure:"rateFrequency"`
	StartPeriod   int     `yaml:"startPeriod" mapstructure:"startPeriod"`
	EndPeriod     int     `yaml:"endPeriod" mapstructure:"endPeriod"`
	Every         int     `yaml:"every,omitempty"`
}

// ToAdjustment converts the config entry into a schedule adjustment handler.
func (adjustment *Adjustment) ToAdjustment() (schedule.Adjustment, error) {
	span := schedule.Span{
		StartPeriod: adjustment.StartPeriod,
		EndPeriod:   adjustment.EndPeriod,
		Every:       adjustment.Every,
	}
	if span.StartPeriod < 1 {
		return nil, fmt.Errorf("adjustment %q: startPeriod must be at least 1, got %d", adjustment.Kind, span.StartPeriod)
	}
	if span.EndPeriod < span.StartPeriod {
		return nil, fmt.Errorf("adjustment %q: endPeriod %d precedes startPeriod %d", adjustment.Kind, span.EndPeriod, span.StartPeriod)
	}

	switch strings.ToLower(strings.TrimSpace(adjustment.Kind)) {
	case "fee":
		return schedule.Fee{Span: span, Amount: adjustment.Amount}, nil
	case "offset":
		return schedule.Offset{Span: span, Amount: adjustment.Amount}, nil
	case "lumpsum":
		return schedule.LumpSum{Span: span, Amount: adjustment.Amount}, nil
	case "extrarepayment":
		return schedule.ExtraRepayment{Span: span, Amount: adjustment.Amount}, nil
	case "ratechange":
		rateFrequency, err := schedule.ParseFrequency(orDefault(adjustment.RateFrequency, defaultRateFrequency))
		if err != nil {
			return nil, fmt.Errorf("adjustment %q: rateFrequency: %w", adjustment.Kind, err)
		}
		return schedule.RateChange{Span: span, Rate: adjustment.Rate, RateFrequency: rateFrequency}, nil
	}
	return nil, fmt.Errorf("unknown adjustment kind %q", adjustment.Kind)
}

// BuildAdjustments converts the shared and scenario adjustments into handlers,
// shared first so a scenario adjustment on the same period wins the tie-break.
func BuildAdjustments(common, scenario []Adjustment) ([]schedule.Adjustment, error) {
	handlers := make([]schedule.Adjustment, 0, len(common)+len(scenario))
	for i := range common {
		handler, err := common[i].ToAdjustment()
		if err != nil {
			return nil, fmt.Errorf("common adjustments[%d]: %w", i, err)
		}
		handlers = append(handlers, handler)
	}
	for i := range scenario {
		handler, err := scenario[i].ToAdjustment()
		if err != nil {
			return nil, fmt.Errorf("adjustments[%d]: %w", i, err)
		}
		handlers = append(handlers, handler)
	}
	return handlers, nil
}
