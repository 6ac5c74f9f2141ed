// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"strings"
)

const (
	// DefaultMpl is the multiplier of a record that does not set one.
	DefaultMpl = 1.0
	// DefaultPow is the exponent of a record that does not set one.
	DefaultPow = 1
)

// Unit is a catalog record. The same type is used for the components listed in
// Base, which may themselves carry an inline Base.
type Unit struct {
	// Tag is the unit symbol and the catalog key.
	Tag string `json:"tag"`
	// Name is an optional human-readable name.
	Name string `json:"name,omitempty"`
	// Mpl is the local multiplier.
	Mpl float64 `json:"mpl"`
	// Pow is the exponent; 1 at rest.
	Pow int `json:"pow"`
	// Base lists the components of a composite unit; empty for atomic units.
	Base []Unit `json:"base,omitempty"`
}

// NewUnit returns an atomic unit with default multiplier and exponent.
func NewUnit(tag string, base ...Unit) Unit {
	return Unit{Tag: tag, Mpl: DefaultMpl, Pow: DefaultPow, Base: base}
}

// IsAtomic reports whether the record carries no inline decomposition.
func (u Unit) IsAtomic() bool {
	return len(u.Base) == 0
}

// Clone returns a deep copy of u.
func (u Unit) Clone() Unit {
	c := u
	if u.Base != nil {
		c.Base = make([]Unit, len(u.Base))
		for i, b := range u.Base {
			c.Base[i] = b.Clone()
		}
	}
	return c
}

// String renders the record as "tag^pow" with its multiplier and
// decomposition when they differ from the defaults.
func (u Unit) String() string {
	var sb strings.Builder
	if u.Mpl != DefaultMpl {
		fmt.Fprintf(&sb, "%g·", u.Mpl)
	}
	sb.WriteString(u.Tag)
	if u.Pow != DefaultPow {
		fmt.Fprintf(&sb, "^%d", u.Pow)
	}
	if len(u.Base) > 0 {
		parts := make([]string, len(u.Base))
		for i, b := range u.Base {
			parts[i] = b.String()
		}
		sb.WriteString(" = ")
		sb.WriteString(strings.Join(parts, " * "))
	}
	return sb.String()
}

// withDefaults fills zero multipliers and exponents, recursively. Records
// built in Go code rarely spell out mpl: 1, pow: 1.
func (u Unit) withDefaults() Unit {
	c := u.Clone()
	if c.Mpl == 0 {
		c.Mpl = DefaultMpl
	}
	if c.Pow == 0 {
		c.Pow = DefaultPow
	}
	for i := range c.Base {
		c.Base[i] = c.Base[i].withDefaults()
	}
	return c
}
