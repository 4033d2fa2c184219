package datemath

import "time"

// Kind classifies the outcome of resolving an expression.
type Kind int

const (
	// Concrete means the expression maps to exactly one value.
	Concrete Kind = iota
	// Ambiguous means the expression maps to several plausible values.
	Ambiguous
	// Invalid means the expression is unknown or names an impossible value.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case Ambiguous:
		return "ambiguous"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// DateResolution is the result of ResolveDate. Dates are civil dates at 00:00 UTC.
type DateResolution struct {
	Kind       Kind
	Date       time.Time
	Candidates []time.Time
	Reason     string
}

// TimeResolution is the result of ResolveTime. Values are minutes since midnight.
type TimeResolution struct {
	Kind       Kind
	Minutes    int
	Candidates []int
	Reason     string
}
