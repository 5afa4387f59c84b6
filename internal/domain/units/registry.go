// Package units holds the catalog of physical dimensions and their units.
//
// A Registry is built once from static definitions and is never mutated
// afterwards, so it can be shared by any number of goroutines without
// locking. Every dimension has exactly one base unit with an identity rule;
// every other unit converts through that base.
package units

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Unit is one measurable representation within a dimension.
type Unit struct {
	ID      string   // stable identifier, e.g. "km"
	Name    string   // display name, e.g. "kilometer"
	Symbol  string   // formula symbol, defaults to ID (e.g. "°C")
	Aliases []string // alternative spellings accepted by lookup, never listed
	Rule    Rule
}

// Sym returns the symbol used in formulas.
func (u Unit) Sym() string {
	if u.Symbol != "" {
		return u.Symbol
	}
	return u.ID
}

func (u Unit) clone() Unit {
	u.Aliases = slices.Clone(u.Aliases)
	return u
}

// DimensionDef is the static definition a Dimension is built from.
// Units are listed in selector order.
type DimensionDef struct {
	Key   string
	Base  string
	Units []Unit
}

// Dimension is an immutable, registered category of physical quantity.
type Dimension struct {
	key   string
	base  int
	units []Unit
	exact map[string]int // unit id -> position
	fold  map[string]int // lower-cased id or alias -> position
}

// Key returns the dimension's stable key, e.g. "Length".
func (d *Dimension) Key() string { return d.key }

// Base returns the dimension's base unit.
func (d *Dimension) Base() Unit { return d.units[d.base].clone() }

// Len returns the number of units.
func (d *Dimension) Len() int { return len(d.units) }

// Units returns the unit ids in registration order.
func (d *Dimension) Units() []string {
	ids := make([]string, len(d.units))
	for i, u := range d.units {
		ids[i] = u.ID
	}
	return ids
}

// All returns copies of every unit in registration order.
func (d *Dimension) All() []Unit {
	out := make([]Unit, len(d.units))
	for i, u := range d.units {
		out[i] = u.clone()
	}
	return out
}

// Resolve looks up a unit by exact id, falling back to a case-insensitive
// match on ids and aliases.
func (d *Dimension) Resolve(id string) (Unit, error) {
	if i, ok := d.exact[id]; ok {
		return d.units[i].clone(), nil
	}
	if i, ok := d.fold[foldKey(id)]; ok {
		return d.units[i].clone(), nil
	}
	return Unit{}, &Error{Kind: KindUnknownUnit, Dimension: d.key, Unit: id, Valid: d.Units()}
}

// IsBase reports whether u is this dimension's base unit.
func (d *Dimension) IsBase(u Unit) bool {
	return u.ID == d.units[d.base].ID
}

// Listing pairs a dimension key with its ordered unit ids.
type Listing struct {
	Dimension string
	Units     []string
}

// Registry is the read-only catalog of dimensions.
type Registry struct {
	order []string
	dims  map[string]*Dimension
	fold  map[string]string // lower-cased key -> key
}

// NewRegistry validates defs and builds a Registry. Dimension order follows defs.
func NewRegistry(defs ...DimensionDef) (*Registry, error) {
	r := &Registry{
		dims: make(map[string]*Dimension, len(defs)),
		fold: make(map[string]string, len(defs)),
	}
	for _, def := range defs {
		d, err := buildDimension(def)
		if err != nil {
			return nil, err
		}
		fk := foldKey(def.Key)
		if _, dup := r.fold[fk]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDimension, def.Key)
		}
		r.fold[fk] = def.Key
		r.dims[def.Key] = d
		r.order = append(r.order, def.Key)
	}
	return r, nil
}

func buildDimension(def DimensionDef) (*Dimension, error) {
	if strings.TrimSpace(def.Key) == "" {
		return nil, fmt.Errorf("%w: dimension key", ErrEmptyKey)
	}
	if len(def.Units) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyDimension, def.Key)
	}

	d := &Dimension{
		key:   def.Key,
		base:  -1,
		units: make([]Unit, 0, len(def.Units)),
		exact: make(map[string]int, len(def.Units)),
		fold:  make(map[string]int, len(def.Units)),
	}

	for i, u := range def.Units {
		if strings.TrimSpace(u.ID) == "" {
			return nil, fmt.Errorf("%w: unit id in %q", ErrEmptyKey, def.Key)
		}
		if err := u.Rule.validate(); err != nil {
			return nil, fmt.Errorf("%s/%s: %w", def.Key, u.ID, err)
		}
		if _, dup := d.exact[u.ID]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateUnit, def.Key, u.ID)
		}
		d.exact[u.ID] = i

		for _, name := range append([]string{u.ID}, u.Aliases...) {
			fk := foldKey(name)
			if j, dup := d.fold[fk]; dup && j != i {
				return nil, fmt.Errorf("%w: %s/%q collides with %q", ErrDuplicateUnit, def.Key, name, def.Units[j].ID)
			}
			d.fold[fk] = i
		}

		if u.ID == def.Base {
			if !u.Rule.IsIdentity() {
				return nil, fmt.Errorf("%w: %s/%s must have an identity rule", ErrBaseUnit, def.Key, u.ID)
			}
			d.base = i
		}
		d.units = append(d.units, u.clone())
	}

	if d.base < 0 {
		return nil, fmt.Errorf("%w: %q is not a unit of %s", ErrBaseUnit, def.Base, def.Key)
	}
	return d, nil
}

// Dimensions returns the dimension keys in registration order.
func (r *Registry) Dimensions() []string {
	return slices.Clone(r.order)
}

// Dimension looks up a dimension by exact key, falling back to a
// case-insensitive match.
func (r *Registry) Dimension(key string) (*Dimension, error) {
	if d, ok := r.dims[key]; ok {
		return d, nil
	}
	if k, ok := r.fold[foldKey(key)]; ok {
		return r.dims[k], nil
	}
	return nil, &Error{Kind: KindUnknownDimension, Dimension: key}
}

// Units returns the ordered unit ids of a dimension.
func (r *Registry) Units(key string) ([]string, error) {
	d, err := r.Dimension(key)
	if err != nil {
		return nil, err
	}
	return d.Units(), nil
}

// Resolve returns the unit (and its conversion rule) for a dimension/unit pair.
func (r *Registry) Resolve(key, unit string) (Unit, error) {
	d, err := r.Dimension(key)
	if err != nil {
		return Unit{}, err
	}
	return d.Resolve(unit)
}

// Catalog returns every dimension with its unit ids, in registration order.
func (r *Registry) Catalog() []Listing {
	out := make([]Listing, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, Listing{Dimension: k, Units: r.dims[k].Units()})
	}
	return out
}

// UnitCount returns the total number of units across all dimensions.
func (r *Registry) UnitCount() int {
	n := 0
	for _, d := range r.dims {
		n += d.Len()
	}
	return n
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Default returns the registry built from the compiled-in catalog.
// It panics if the catalog is inconsistent, which is a programming error.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(fmt.Sprintf("units: builtin catalog: %v", err))
	}
	return r
})
