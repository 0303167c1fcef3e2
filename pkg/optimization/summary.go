// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single optimization directive.
type Summary struct {
	Scope              string   `json:"scope"`
	TargetName         string   `json:"targetName"`
	TargetPayoffPeriod int      `json:"targetPayoffPeriod"`
	Original           float64  `json:"original"`
	Value              float64  `json:"value"`
	PayoffPeriod       int      `json:"payoffPeriod"`
	Headroom           int      `json:"headroom"`
	Iterations         int      `json:"iterations"`
	Converged          bool     `json:"converged"`
	Notes              []string `json:"notes,omitempty"`
	OriginalDisplay    string   `json:"originalDisplay,omitempty"`
	ValueDisplay       string   `json:"valueDisplay,omitempty"`
}
