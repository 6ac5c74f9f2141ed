// SPDX-License-Identifier: MPL-2.0

package units

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/unitfold/unitfold/pkg/catalog"
)

type (
	// Catalog is the read side of the unit catalog the algebra consumes.
	Catalog interface {
		Resolve(tag string) (catalog.Unit, bool)
		Prefix(symbol string) (int, bool)
	}

	// ParsedUnit is one unit occurrence as written in an expression.
	ParsedUnit struct {
		Prefix string
		Tag    string
		Pow    int
		Den    bool
	}

	// BaseUnits is a unit signature: exponents of units plus a scale factor.
	BaseUnits struct {
		// V is the quantity carried through a conversion.
		V float64
		// Units holds one entry per tag with accumulated pow and mpl.
		Units map[string]catalog.Unit
		// Mpl is the accumulated scale factor.
		Mpl float64
	}
)

// New returns an empty signature with V and Mpl set to 1.
func New() *BaseUnits {
	return &BaseUnits{
		V:     1,
		Units: make(map[string]catalog.Unit),
		Mpl:   1,
	}
}

// AddParsedUnit resolves pu against cat and merges it into the signature.
// A prefix contributes 10^(exp*pow) to the entry's local multiplier; a
// denominator inverts that multiplier and negates pow.
func (b *BaseUnits) AddParsedUnit(cat Catalog, pu ParsedUnit) error {
	proto, ok := cat.Resolve(pu.Tag)
	if !ok {
		return &NoUnitError{Tag: pu.Tag}
	}

	mpl := 1.0
	pow := pu.Pow
	if pu.Prefix != "" {
		exp, ok := cat.Prefix(pu.Prefix)
		if !ok {
			return &NoUnitPrefixError{Prefix: pu.Prefix}
		}
		mpl = math.Pow(10, float64(exp*pow))
	}
	if pu.Den {
		mpl = 1 / mpl
		pow = -pow
	}

	proto.Mpl = mpl
	proto.Pow = pow
	b.merge(proto)
	return nil
}

// MergeOne folds other's entry for tag into b. It reports false when other
// has no such entry.
func (b *BaseUnits) MergeOne(other *BaseUnits, tag string) bool {
	u, ok := other.Units[tag]
	if !ok {
		return false
	}
	b.merge(u.Clone())
	return true
}

func (b *BaseUnits) merge(u catalog.Unit) {
	if ex, ok := b.Units[u.Tag]; ok {
		ex.Mpl *= u.Mpl
		ex.Pow += u.Pow
		b.Units[u.Tag] = ex
		return
	}
	b.Units[u.Tag] = u
}

// Reduce rewrites the signature in atomic units. Entries with a zero
// exponent contribute only their multiplier. Afterwards every entry is an
// atom with mpl 1 and a non-zero pow, and Mpl holds the whole scale.
// Reduce is idempotent.
func (b *BaseUnits) Reduce(cat Catalog) {
	factor := 1.0
	var atoms []catalog.Unit
	for _, tag := range slices.Sorted(maps.Keys(b.Units)) {
		u := b.Units[tag]
		if u.Pow == 0 {
			factor *= u.Mpl
			continue
		}
		m, a := ToBases(cat, u)
		factor *= m
		atoms = append(atoms, a...)
	}

	b.Units = make(map[string]catalog.Unit, len(atoms))
	b.Mpl *= factor
	for _, a := range atoms {
		b.merge(a)
	}
	maps.DeleteFunc(b.Units, func(_ string, u catalog.Unit) bool {
		return u.Pow == 0
	})
}

// IsCoherent reports whether b and other have the same tags with equal
// exponents and no decomposable entries. Multipliers are not compared.
func (b *BaseUnits) IsCoherent(other *BaseUnits) bool {
	if len(b.Units) != len(other.Units) {
		return false
	}
	for tag, u := range b.Units {
		o, ok := other.Units[tag]
		if !ok || u.Pow != o.Pow || !u.IsAtomic() || !o.IsAtomic() {
			return false
		}
	}
	return true
}

// Value returns the converted quantity V*Mpl.
func (b *BaseUnits) Value() float64 {
	return b.V * b.Mpl
}

// Terms returns the entries sorted by tag, then pow, then mpl.
func (b *BaseUnits) Terms() []catalog.Unit {
	terms := slices.Collect(maps.Values(b.Units))
	slices.SortFunc(terms, func(x, y catalog.Unit) int {
		if c := strings.Compare(x.Tag, y.Tag); c != 0 {
			return c
		}
		if x.Pow != y.Pow {
			return x.Pow - y.Pow
		}
		switch {
		case x.Mpl < y.Mpl:
			return -1
		case x.Mpl > y.Mpl:
			return 1
		}
		return 0
	})
	return terms
}

// Readable renders the signature as "[tag^pow*tag^pow]".
func (b *BaseUnits) Readable() string {
	return "[" + b.joinTerms("*") + "]"
}

// Format renders the signature as "<mpl> [tag^pow * tag^pow]" with mpl at
// the given number of decimals. A non-zero mpl that would round to zero is
// printed in shortest scientific form instead.
func (b *BaseUnits) Format(precision int) string {
	mpl := strconv.FormatFloat(b.Mpl, 'f', precision, 64)
	if b.Mpl != 0 && math.Round(math.Abs(b.Mpl)*math.Pow(10, float64(precision))) == 0 {
		mpl = strconv.FormatFloat(b.Mpl, 'e', -1, 64)
	}
	return mpl + " [" + b.joinTerms(" * ") + "]"
}

func (b *BaseUnits) joinTerms(sep string) string {
	terms := b.Terms()
	parts := make([]string, len(terms))
	for i, u := range terms {
		parts[i] = u.Tag + "^" + strconv.Itoa(u.Pow)
	}
	return strings.Join(parts, sep)
}

// Clone returns a deep copy of b.
func (b *BaseUnits) Clone() *BaseUnits {
	c := &BaseUnits{V: b.V, Mpl: b.Mpl, Units: make(map[string]catalog.Unit, len(b.Units))}
	for tag, u := range b.Units {
		c.Units[tag] = u.Clone()
	}
	return c
}
