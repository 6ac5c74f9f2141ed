// SPDX-License-Identifier: MPL-2.0

package units

import (
	"math"

	"github.com/unitfold/unitfold/pkg/catalog"
)

// ToBases expands u into atomic units. It returns the multiplier m and the
// atoms such that a quantity q in u^pow equals q*m in the product of atoms.
//
// Each round replaces every pending unit that has a decomposition (its
// inline base, else its catalog definition) by its components, raising each
// component's pow and mpl to the parent's pow. Every pending unit folds its
// own mpl into m. A unit without a decomposition is an atom; atoms are
// returned with mpl 1 and no base.
//
// The catalog must be acyclic; the loader guarantees it.
func ToBases(cat Catalog, u catalog.Unit) (float64, []catalog.Unit) {
	mpl := 1.0
	var atoms []catalog.Unit

	pending := []catalog.Unit{u}
	for len(pending) > 0 {
		var next []catalog.Unit
		for _, p := range pending {
			mpl *= p.Mpl

			base := decomposition(cat, p)
			if len(base) == 0 {
				atoms = append(atoms, catalog.Unit{Tag: p.Tag, Mpl: 1, Pow: p.Pow})
				continue
			}
			for _, c := range base {
				next = append(next, catalog.Unit{
					Tag:  c.Tag,
					Name: c.Name,
					Mpl:  math.Pow(c.Mpl, float64(p.Pow)),
					Pow:  c.Pow * p.Pow,
					Base: c.Base,
				})
			}
		}
		pending = next
	}
	return mpl, atoms
}

// IsDecomposable reports whether u expands into other units.
func IsDecomposable(cat Catalog, u catalog.Unit) bool {
	return len(decomposition(cat, u)) > 0
}

func decomposition(cat Catalog, u catalog.Unit) []catalog.Unit {
	if len(u.Base) > 0 {
		return u.Base
	}
	if def, ok := cat.Resolve(u.Tag); ok {
		return def.Base
	}
	return nil
}
