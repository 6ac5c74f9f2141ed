// SPDX-License-Identifier: MPL-2.0

// Package units implements the unit algebra: the BaseUnits signature, its
// merge rule, the expansion of a unit into its atomic closure, and the
// coherence test used by conversions.
//
// A signature maps unit tags to entries carrying an accumulated exponent and
// a local multiplier, plus one scale factor for the whole signature. Every
// local multiplier is stored already raised to its exponent: "к_м^2" is the
// entry {м, pow 2, mpl 1e6}. Reduce rewrites a signature in atomic units,
// moving every local multiplier into the scale factor.
//
// The catalog is never owned by a signature; operations that need it take a
// Catalog handle.
package units
