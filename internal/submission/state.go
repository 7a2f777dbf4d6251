package submission

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Status is the lifecycle phase of the most recent submission.
type Status int

const (
	StatusIdle      Status = iota // Nothing submitted yet
	StatusPending                 // Latest submission awaiting its response
	StatusSucceeded               // Latest submission produced a prediction
	StatusFailed                  // Latest submission failed or was rejected
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// State is a snapshot of the controller.
type State struct {
	// Status is the phase of the latest submission.
	Status Status

	// Seq is the sequence number of the latest issued submission.
	Seq uint64

	// Result is the last accepted prediction. Only meaningful when
	// HasResult is true; a failure leaves it untouched.
	Result    float64
	HasResult bool

	// Err is the reason of the latest failure, nil unless Failed.
	Err error

	// InFlight counts submissions whose outcome has not been resolved.
	InFlight int
}

// Display returns the formatted result, or "" before the first success.
func (s State) Display() string {
	if !s.HasResult {
		return ""
	}
	return FormatYield(s.Result)
}

// YieldUnit is the unit of predicted yields.
const YieldUnit = "kg/hectare"

// exactPrec is enough mantissa for any float64 below 2^53, scaled by 100
// with a half added, to be represented without rounding.
const exactPrec = 1200

// FormatYield renders a predicted yield with two decimal places. Exact
// ties round away from zero, so 0.125 renders as "0.13".
func FormatYield(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1<<53 {
		// Non-finite or integral; there is no fraction to round.
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	x := new(big.Float).SetPrec(exactPrec).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Float).SetPrec(exactPrec).SetInt64(100))
	x.Add(x, new(big.Float).SetPrec(exactPrec).SetFloat64(0.5))
	cents, _ := x.Int(nil)

	digits := cents.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if v < 0 {
		out = "-" + out
	}
	return out
}
