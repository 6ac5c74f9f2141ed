// SPDX-License-Identifier: MPL-2.0

package interpreter

import (
	"math"
	"strconv"

	"github.com/unitfold/unitfold/pkg/units"
)

const (
	// DefaultPrecision is the number of decimals in fixed-point output.
	DefaultPrecision = 3
	// DefaultScientificThreshold is the magnitude from which values are
	// printed in scientific notation.
	DefaultScientificThreshold = 1000.0
)

// Formatter renders numeric results.
type Formatter struct {
	Precision           int
	ScientificThreshold float64
}

// DefaultFormatter returns a Formatter with DefaultPrecision and
// DefaultScientificThreshold.
func DefaultFormatter() Formatter {
	return Formatter{Precision: DefaultPrecision, ScientificThreshold: DefaultScientificThreshold}
}

// FormatValue prints v at fixed precision when its magnitude is below the
// threshold and would not round to zero, and in shortest scientific form
// otherwise.
func (f Formatter) FormatValue(v float64) string {
	abs := math.Abs(v)
	if abs < f.ScientificThreshold && (v == 0 || abs >= math.Pow(10, -float64(f.Precision))) {
		return strconv.FormatFloat(v, 'f', f.Precision, 64)
	}
	return strconv.FormatFloat(v, 'e', -1, 64)
}

// FormatDecomposition prints "<mpl> [tag^pow * tag^pow]" with mpl at fixed
// precision and terms sorted by tag, pow and mpl. A multiplier that would
// round to zero keeps its scale in scientific form.
func (f Formatter) FormatDecomposition(b *units.BaseUnits) string {
	return b.Format(f.Precision)
}
