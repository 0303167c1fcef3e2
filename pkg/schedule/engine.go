package schedule

// Engine owns the normalized base context and the ordered adjustment
// pipeline for one loan.
type Engine struct {
	config      Config
	base        Context
	adjustments []Adjustment
}

// NewEngine builds an engine around a normalized base context.
func NewEngine(base Context) *Engine {
	return &Engine{config: DefaultConfig(), base: base}
}

// Config returns the frequency constants.
func (e *Engine) Config() Config {
	return e.config
}

// Context returns a fresh copy of the base context. Each period starts from
// this copy, so adjustments applied in one period never leak into another.
func (e *Engine) Context() Context {
	return e.base
}

// SetContext replaces the base context ahead of a fresh calculation.
func (e *Engine) SetContext(base Context) {
	e.base = base
}

// Use appends adjustments to the pipeline. Registration order is
// significant: handlers run in that order each period, and when two handlers
// write the same context field the later registration wins.
func (e *Engine) Use(adjustments ...Adjustment) {
	e.adjustments = append(e.adjustments, adjustments...)
}

// AdjustmentsAt returns the adjustments applying to the given period, in
// registration order.
func (e *Engine) AdjustmentsAt(period int) []Adjustment {
	var active []Adjustment
	for _, adjustment := range e.adjustments {
		if adjustment.AppliesTo(period) {
			active = append(active, adjustment)
		}
	}
	return active
}
