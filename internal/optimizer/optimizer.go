// Package optimizer searches scenario inputs to satisfy payoff targets.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/schedules"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/format"
	"github.com/iwvelando/loan-schedule/pkg/mathutil"
	"github.com/iwvelando/loan-schedule/pkg/optimization"
	"github.com/iwvelando/loan-schedule/pkg/schedule"
	"go.uber.org/zap"
)

// Runner executes the optimizer directives of a configuration, mutating the
// configuration in place so a subsequent schedule run reflects the outcome.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
}

type scenarioTarget struct {
	scenarioIndex int
	scenarioName  string
	directive     *config.OptimizerConfig
}

type evaluation struct {
	value        float64
	payoffPeriod int
	paidOff      bool
	target       int
}

func (e evaluation) feasible() bool {
	return e.paidOff && e.payoffPeriod <= e.target
}

func (e evaluation) headroom() int {
	return e.target - e.payoffPeriod
}

// Result summarizes optimizer adjustments keyed by scenario name.
type Result struct {
	Summaries map[string]optimization.Summary
}

// Empty indicates whether any optimizer adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the provided scenario schedules.
func (r Result) Apply(results []schedules.ScenarioSchedule) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range results {
		summary, ok := r.Summaries[results[i].Name]
		if !ok {
			continue
		}
		attached := summary
		results[i].Optimization = &attached
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Run executes all optimizer directives and mutates the configuration in place.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return &Result{Summaries: make(map[string]optimization.Summary)}, nil
	}

	summaries := make(map[string]optimization.Summary)

	for _, target := range targets {
		summary, err := r.optimizeScenario(target)
		if err != nil {
			return nil, err
		}
		summaries[target.scenarioName] = summary

		r.logger.Info("optimizer adjusted extra repayment",
			zap.String("scenario", target.scenarioName),
			zap.Int("targetPayoffPeriod", summary.TargetPayoffPeriod),
			zap.Float64("extraRepayment", summary.Value),
			zap.String("extraRepaymentDisplay", summary.ValueDisplay),
			zap.Int("payoffPeriod", summary.PayoffPeriod),
			zap.Int("headroom", summary.Headroom),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]scenarioTarget, error) {
	var targets []scenarioTarget

	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.Optimize == nil {
			continue
		}
		if err := scenario.Optimize.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		targets = append(targets, scenarioTarget{
			scenarioIndex: i,
			scenarioName:  scenario.Name,
			directive:     scenario.Optimize,
		})
	}

	return targets, nil
}

// optimizeScenario finds the smallest recurring extra repayment that pays the
// scenario off by the target period. Payoff moves monotonically with the
// extra repayment, so the bounded search bisects on the amount.
func (r *Runner) optimizeScenario(target scenarioTarget) (optimization.Summary, error) {
	directive := target.directive

	lowerEval, err := r.evaluate(target, 0)
	if err != nil {
		return optimization.Summary{}, err
	}
	if lowerEval.feasible() {
		return r.buildSummary(target, lowerEval, 0, true, nil), nil
	}

	upperEval, err := r.evaluate(target, directive.MaxExtraRepayment)
	if err != nil {
		return optimization.Summary{}, err
	}
	if !upperEval.feasible() {
		note := fmt.Sprintf("unable to reach payoff by period %d within an extra repayment of %s",
			directive.TargetPayoffPeriod, format.Currency(directive.MaxExtraRepayment))
		r.applyExtraRepayment(target, upperEval.value)
		return r.buildSummary(target, upperEval, 0, false, []string{note}), nil
	}

	lower := lowerEval.value
	upper := upperEval.value
	finalEval := upperEval
	iterations := 0
	for iterations < directive.MaxIterations && math.Abs(upper-lower) > directive.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(target, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			finalEval = evalMid
			if evalMid.value == upper {
				break
			}
			upper = evalMid.value
		} else {
			if evalMid.value == lower {
				break
			}
			lower = evalMid.value
		}
	}

	// Snap the amount to cents before it lands in the configuration; snapping
	// up front would hide amounts the tolerance can still distinguish.
	applied := mathutil.Round(finalEval.value)
	appliedEval, err := r.evaluate(target, applied)
	if err != nil {
		return optimization.Summary{}, err
	}
	if !appliedEval.feasible() {
		applied = mathutil.Round(finalEval.value + 0.005)
		appliedEval, err = r.evaluate(target, applied)
		if err != nil {
			return optimization.Summary{}, err
		}
		if !appliedEval.feasible() {
			appliedEval = finalEval
			applied = finalEval.value
		}
	}

	r.applyExtraRepayment(target, applied)
	return r.buildSummary(target, appliedEval, iterations, true, nil), nil
}

// evaluate computes the scenario's payoff with a candidate extra repayment
// layered over its configured adjustments. A schedule that fails to converge
// counts as infeasible rather than an error; a larger candidate can still
// rescue a loan whose base repayment does not cover interest.
func (r *Runner) evaluate(target scenarioTarget, amount float64) (evaluation, error) {
	scenario := r.conf.Scenarios[target.scenarioIndex]
	if amount > 0 {
		adjustments := make([]config.Adjustment, 0, len(scenario.Adjustments)+1)
		adjustments = append(adjustments, scenario.Adjustments...)
		adjustments = append(adjustments, extraRepaymentAdjustment(amount))
		scenario.Adjustments = adjustments
	}

	result, err := schedules.GenerateScenario(r.logger, *r.conf, scenario)
	if err != nil {
		if errors.Is(err, schedule.ErrNonConvergent) {
			return evaluation{
				value:        amount,
				payoffPeriod: constants.MaxSchedulePeriods,
				paidOff:      false,
				target:       target.directive.TargetPayoffPeriod,
			}, nil
		}
		return evaluation{}, err
	}

	return evaluation{
		value:        amount,
		payoffPeriod: result.Result.PayoffPeriod(),
		paidOff:      result.Result.PaidOff(),
		target:       target.directive.TargetPayoffPeriod,
	}, nil
}

func (r *Runner) applyExtraRepayment(target scenarioTarget, amount float64) {
	if amount <= 0 {
		return
	}
	scenario := &r.conf.Scenarios[target.scenarioIndex]
	scenario.Adjustments = append(scenario.Adjustments, extraRepaymentAdjustment(amount))
}

func (r *Runner) buildSummary(target scenarioTarget, eval evaluation, iterations int, converged bool, notes []string) optimization.Summary {
	return optimization.Summary{
		Scope:              "scenario",
		TargetName:         target.scenarioName,
		TargetPayoffPeriod: target.directive.TargetPayoffPeriod,
		Original:           0,
		OriginalDisplay:    format.Currency(0),
		Value:              eval.value,
		ValueDisplay:       format.Currency(eval.value),
		PayoffPeriod:       eval.payoffPeriod,
		Headroom:           eval.headroom(),
		Iterations:         iterations,
		Converged:          converged,
		Notes:              notes,
	}
}

// extraRepaymentAdjustment spans every period so the chosen amount keeps
// applying however long the schedule runs.
func extraRepaymentAdjustment(amount float64) config.Adjustment {
	return config.Adjustment{
		Kind:        "extraRepayment",
		Amount:      amount,
		StartPeriod: 1,
		EndPeriod:   constants.MaxSchedulePeriods,
	}
}
