package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind classifies request-level lookup and validation failures.
type Kind uint8

const (
	KindUnknownDimension Kind = iota + 1
	KindUnknownUnit
	KindInvalidValue
)

func (k Kind) String() string {
	switch k {
	case KindUnknownDimension:
		return "UnknownDimension"
	case KindUnknownUnit:
		return "UnknownUnit"
	case KindInvalidValue:
		return "InvalidValue"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrInvalidValue     = errors.New("invalid value")
)

// Registration errors. These only surface while a Registry is built.
var (
	ErrEmptyKey           = errors.New("empty identifier")
	ErrEmptyDimension     = errors.New("dimension has no units")
	ErrDuplicateDimension = errors.New("duplicate dimension")
	ErrDuplicateUnit      = errors.New("duplicate unit")
	ErrBaseUnit           = errors.New("invalid base unit")
	ErrInvalidRule        = errors.New("invalid conversion rule")
)

// Error is a structured, request-local failure. Dimension holds the
// canonical key once the dimension resolved, otherwise the requested key.
type Error struct {
	Kind      Kind
	Dimension string
	Unit      string
	Value     float64
	Valid     []string // unit ids of the dimension, for KindUnknownUnit
	// OutOfRange marks a finite input whose converted result is not
	// representable as a float64.
	OutOfRange bool
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknownDimension:
		return fmt.Sprintf("unknown dimension %q", e.Dimension)
	case KindUnknownUnit:
		if len(e.Valid) == 0 {
			return fmt.Sprintf("unknown unit %q for %s", e.Unit, e.Dimension)
		}
		return fmt.Sprintf("unknown unit %q for %s (valid units: %s)",
			e.Unit, e.Dimension, strings.Join(e.Valid, ", "))
	case KindInvalidValue:
		if e.OutOfRange {
			return fmt.Sprintf("invalid value %v: result out of range for %s", e.Value, e.Dimension)
		}
		return fmt.Sprintf("invalid value %v: must be a finite number", e.Value)
	default:
		return "conversion error"
	}
}

// Unwrap exposes the sentinel for e.Kind so errors.Is works.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindUnknownDimension:
		return ErrUnknownDimension
	case KindUnknownUnit:
		return ErrUnknownUnit
	case KindInvalidValue:
		return ErrInvalidValue
	default:
		return nil
	}
}

// KindOf returns the Kind carried by err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return 0
}

// CheckValue returns a KindInvalidValue error for NaN and infinities.
func CheckValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &Error{Kind: KindInvalidValue, Value: v}
	}
	return nil
}
