package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
)

const sameUnitExplanation = "No conversion needed: units are the same."

// explain describes the conversion from -> to. Two linear units collapse to
// a single factor; anything involving an affine unit lists the formula steps
// that were applied, since no single factor exists.
func explain(d *units.Dimension, from, to units.Unit) string {
	if from.Rule.Kind == units.Linear && to.Rule.Kind == units.Linear {
		return factorExplanation(from, to)
	}

	base := d.Base()
	var steps []string
	if !d.IsBase(from) {
		steps = append(steps, toBaseFormula(base, from))
	}
	if !d.IsBase(to) {
		steps = append(steps, fromBaseFormula(base, to))
	}
	return "Formula: " + strings.Join(steps, ", then ")
}

func factorExplanation(from, to units.Unit) string {
	k := from.Rule.Factor / to.Rule.Factor
	unitEq := fmt.Sprintf("1 %s = %s %s", from.Sym(), FormatNumber(k), to.Sym())

	switch {
	case k == 1:
		return fmt.Sprintf("Units are equivalent: %s", unitEq)
	case k > 1:
		return fmt.Sprintf("Conversion factor: multiply by %s (%s)", FormatNumber(k), unitEq)
	default:
		return fmt.Sprintf("Conversion factor: divide by %s (%s)", FormatNumber(1/k), unitEq)
	}
}

func toBaseFormula(base, u units.Unit) string {
	if u.Rule.Kind == units.Affine {
		return u.Rule.ToBaseFormula
	}
	return fmt.Sprintf("%s = %s × %s", base.Sym(), u.Sym(), FormatNumber(u.Rule.Factor))
}

func fromBaseFormula(base, u units.Unit) string {
	if u.Rule.Kind == units.Affine {
		return u.Rule.FromBaseFormula
	}
	return fmt.Sprintf("%s = %s ÷ %s", u.Sym(), base.Sym(), FormatNumber(u.Rule.Factor))
}

// FormatNumber renders f with at most 10 significant digits, in plain
// decimal notation for magnitudes in [1e-6, 1e15) and exponent form otherwise.
func FormatNumber(f float64) string {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	a := math.Abs(f)
	if a < 1e-6 || a >= 1e15 {
		return strconv.FormatFloat(f, 'g', 10, 64)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', 10, 64), 64)
	if err != nil {
		r = f
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
