// Package convert performs dimensionally safe conversions against a units.Registry.
//
// The Engine is a pure function of its four inputs: it reads the registry,
// does the arithmetic in float64 and never rounds. Display rounding is the
// caller's business.
package convert

import (
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
)

// Result is a successful conversion. From and To are the canonical unit ids
// after alias resolution.
type Result struct {
	Dimension   string  `json:"dimension"`
	From        string  `json:"fromUnit"`
	To          string  `json:"toUnit"`
	Input       float64 `json:"value"`
	Value       float64 `json:"result"`
	Explanation string  `json:"explanation"`
}

// Engine converts values between units of the same dimension.
type Engine struct {
	reg *units.Registry
}

// NewEngine creates an engine over reg. A nil reg uses the builtin catalog.
func NewEngine(reg *units.Registry) *Engine {
	if reg == nil {
		reg = units.Default()
	}
	return &Engine{reg: reg}
}

// Registry returns the registry the engine reads from.
func (e *Engine) Registry() *units.Registry {
	return e.reg
}

// Convert converts value from one unit to another within a dimension.
//
// Lookup errors are reported before value validation: UnknownDimension,
// then UnknownUnit for the source, then for the target, then InvalidValue.
// A finite value whose result overflows float64 is also InvalidValue.
func (e *Engine) Convert(dimension, from, to string, value float64) (Result, error) {
	d, err := e.reg.Dimension(dimension)
	if err != nil {
		return Result{}, err
	}
	fu, err := d.Resolve(from)
	if err != nil {
		return Result{}, err
	}
	tu, err := d.Resolve(to)
	if err != nil {
		return Result{}, err
	}
	if units.CheckValue(value) != nil {
		return Result{}, &units.Error{Kind: units.KindInvalidValue, Dimension: d.Key(), Value: value}
	}

	res := Result{
		Dimension: d.Key(),
		From:      fu.ID,
		To:        tu.ID,
		Input:     value,
	}

	if fu.ID == tu.ID {
		res.Value = value
		res.Explanation = sameUnitExplanation
		return res, nil
	}

	res.Value = tu.Rule.FromBase(fu.Rule.ToBase(value))
	if units.CheckValue(res.Value) != nil {
		return Result{}, &units.Error{Kind: units.KindInvalidValue, Dimension: d.Key(), Value: value, OutOfRange: true}
	}
	res.Explanation = explain(d, fu, tu)
	return res, nil
}
