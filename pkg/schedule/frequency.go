package schedule

import (
	"fmt"
	"strings"
)

// Frequency is the number of times a quantity occurs per year. Rates, terms,
// and repayments may each be quoted at their own frequency; everything is
// normalized to the repayment frequency before a schedule runs.
type Frequency int

// Supported frequencies.
const (
	Annually    Frequency = 1
	Quarterly   Frequency = 4
	Monthly     Frequency = 12
	Fortnightly Frequency = 26
	Weekly      Frequency = 52
)

// ParseFrequency maps a configuration string onto a Frequency.
func ParseFrequency(value string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "annually", "yearly", "annual":
		return Annually, nil
	case "quarterly":
		return Quarterly, nil
	case "monthly":
		return Monthly, nil
	case "fortnightly":
		return Fortnightly, nil
	case "weekly":
		return Weekly, nil
	}
	return 0, fmt.Errorf("unknown frequency %q", value)
}

// String returns the configuration name of the frequency.
func (f Frequency) String() string {
	switch f {
	case Annually:
		return "annually"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	case Fortnightly:
		return "fortnightly"
	case Weekly:
		return "weekly"
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// PerYear returns the occurrences per year as a float for rate and term
// conversions.
func (f Frequency) PerYear() float64 {
	return float64(f)
}

// Valid reports whether the frequency is a supported cadence.
func (f Frequency) Valid() bool {
	switch f {
	case Annually, Quarterly, Monthly, Fortnightly, Weekly:
		return true
	}
	return false
}

// Config carries the frequency constants the engine exposes to callers.
type Config struct {
	Year      Frequency
	Quarter   Frequency
	Month     Frequency
	Fortnight Frequency
	Week      Frequency
}

// DefaultConfig returns the standard frequency set.
func DefaultConfig() Config {
	return Config{
		Year:      Annually,
		Quarter:   Quarterly,
		Month:     Monthly,
		Fortnight: Fortnightly,
		Week:      Weekly,
	}
}
