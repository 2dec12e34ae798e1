// Package validate provides the pure numeric checks applied to simulation
// parameters before they are accepted or submitted.
//
// Checks never touch any UI state. A caller receives a Verdict and decides
// how to surface it (inline message, field colour, disabled run trigger).
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which rule produced a failing verdict
type Kind int

const (
	KindNone Kind = iota
	KindEmpty
	KindNotNumeric
	KindBelowMin
	KindAboveMax
	KindNotInteger
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindEmpty:
		return "Empty"
	case KindNotNumeric:
		return "NotNumeric"
	case KindBelowMin:
		return "BelowMin"
	case KindAboveMax:
		return "AboveMax"
	case KindNotInteger:
		return "NotInteger"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Verdict is the outcome of checking one raw value
type Verdict struct {
	OK      bool
	Kind    Kind
	Message string
	// Advisory is set on passing verdicts that still carry a warning message.
	Advisory bool
	// Value holds the parsed number when the raw value was numeric.
	Value float64
}

// Pass returns a passing verdict for value
func Pass(value float64) Verdict {
	return Verdict{OK: true, Kind: KindNone, Value: value}
}

// Check validates a raw value against the closed interval [min, max] and an
// optional integer constraint.
//
// The rules run independently and the last failing rule decides the message.
// Range and integer rules are only evaluated for values that parse.
func Check(name, raw string, min, max float64, integerRequired bool) Verdict {
	v := Verdict{OK: true, Kind: KindNone}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.fail(KindEmpty, fmt.Sprintf("%s value is empty.", name))
		return v
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		v.fail(KindNotNumeric, fmt.Sprintf("%s value is not numeric.", name))
		return v
	}
	v.Value = value

	if value < min {
		v.fail(KindBelowMin, fmt.Sprintf("%s value must not be less than %s.", name, FormatNumber(min)))
	}
	if value > max {
		v.fail(KindAboveMax, fmt.Sprintf("%s value must not be greater than %s.", name, FormatNumber(max)))
	}
	if integerRequired && value != math.Trunc(value) {
		v.fail(KindNotInteger, fmt.Sprintf("%s value should be an integer.", name))
	}

	return v
}

func (v *Verdict) fail(kind Kind, message string) {
	v.OK = false
	v.Kind = kind
	v.Message = message
}

// FormatNumber renders a float the shortest way that round-trips, so bounds
// read "0.1" and "50" rather than "0.100000".
func FormatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "∞"
	}
	if math.IsInf(f, -1) {
		return "-∞"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
