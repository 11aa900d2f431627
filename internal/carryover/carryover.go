// Package carryover derives per-category carryover flags from the sequence of
// monthly overspending-handling modes.
package carryover

// Mode is a month's overspending-handling mode for one category.
type Mode int

const (
	// ModeNone leaves the current carryover state alone.
	ModeNone Mode = iota
	// ModeAffectsBuffer stops carrying overspending forward.
	ModeAffectsBuffer
	// ModeConfined carries overspending forward.
	ModeConfined
)

// ParseMode maps a YNAB4 overspendingHandling value to a Mode.
func ParseMode(s string) Mode {
	switch s {
	case "AffectsBuffer":
		return ModeAffectsBuffer
	case "Confined":
		return ModeConfined
	default:
		return ModeNone
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAffectsBuffer:
		return "affects-buffer"
	case ModeConfined:
		return "confined"
	default:
		return "none"
	}
}

// State is a category's carryover flag.
type State int

const (
	Unset State = iota
	On
	Off
)

func (s State) String() string {
	switch s {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unset"
	}
}

// Decision is the outcome of applying one month's mode.
type Decision struct {
	State State
	// SetCarryover asks the target to set the carryover flag for the month.
	SetCarryover bool
}

// Calculator tracks carryover state across months. Months must be applied in
// ascending order; the calculator is not safe for concurrent use.
type Calculator struct {
	flags map[string]State
}

// NewCalculator returns a Calculator with every category unset.
func NewCalculator() *Calculator {
	return &Calculator{flags: make(map[string]State)}
}

// Apply records the mode for category in the next month and returns the
// resulting decision.
func (c *Calculator) Apply(category string, mode Mode) Decision {
	current := c.flags[category]
	switch {
	case mode == ModeAffectsBuffer:
		c.flags[category] = Off
		return Decision{State: Off}
	case mode == ModeConfined || current == On:
		c.flags[category] = On
		return Decision{State: On, SetCarryover: true}
	default:
		return Decision{State: current}
	}
}
