package units

import (
	"fmt"
	"math"
)

// RuleKind tags the shape of a conversion rule.
type RuleKind uint8

const (
	// Linear rules convert with a single multiplicative factor against the base unit.
	Linear RuleKind = iota + 1
	// Affine rules carry explicit forward and backward functions (temperature scales).
	Affine
)

func (k RuleKind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Affine:
		return "affine"
	default:
		return fmt.Sprintf("RuleKind(%d)", uint8(k))
	}
}

// Rule converts values of one unit to and from its dimension's base unit.
//
// The zero Rule is invalid; build rules with LinearRule or AffineRule.
type Rule struct {
	Kind RuleKind

	// Factor is set for Linear rules: base = value * Factor.
	Factor float64

	toBase   func(float64) float64
	fromBase func(float64) float64

	// Formulas are shown verbatim in explanations of Affine conversions,
	// e.g. "°C = (°F - 32) × 5/9".
	ToBaseFormula   string
	FromBaseFormula string
}

// LinearRule returns a rule with base = value * factor.
func LinearRule(factor float64) Rule {
	return Rule{Kind: Linear, Factor: factor}
}

// AffineRule returns a rule backed by explicit conversion functions. The
// formula strings describe toBase and fromBase for explanations.
func AffineRule(toBase, fromBase func(float64) float64, toBaseFormula, fromBaseFormula string) Rule {
	return Rule{
		Kind:            Affine,
		toBase:          toBase,
		fromBase:        fromBase,
		ToBaseFormula:   toBaseFormula,
		FromBaseFormula: fromBaseFormula,
	}
}

// ToBase converts v from this rule's unit to the base unit.
func (r Rule) ToBase(v float64) float64 {
	if r.Kind == Affine {
		return r.toBase(v)
	}
	return v * r.Factor
}

// FromBase converts v from the base unit to this rule's unit.
func (r Rule) FromBase(v float64) float64 {
	if r.Kind == Affine {
		return r.fromBase(v)
	}
	return v / r.Factor
}

// IsIdentity reports whether the rule leaves values untouched.
func (r Rule) IsIdentity() bool {
	return r.Kind == Linear && r.Factor == 1
}

func (r Rule) validate() error {
	switch r.Kind {
	case Linear:
		if math.IsNaN(r.Factor) || math.IsInf(r.Factor, 0) || r.Factor <= 0 {
			return fmt.Errorf("%w: linear factor %v must be finite and positive", ErrInvalidRule, r.Factor)
		}
	case Affine:
		if r.toBase == nil || r.fromBase == nil {
			return fmt.Errorf("%w: affine rule needs both toBase and fromBase", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidRule, r.Kind)
	}
	return nil
}
