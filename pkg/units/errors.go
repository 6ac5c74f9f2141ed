// SPDX-License-Identifier: MPL-2.0

package units

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUnit is the sentinel error wrapped by NoUnitError.
	ErrNoUnit = errors.New("unit not found")
	// ErrNoUnitPrefix is the sentinel error wrapped by NoUnitPrefixError.
	ErrNoUnitPrefix = errors.New("unit prefix not found")
	// ErrNotCoherent is the sentinel error wrapped by NotCoherentError.
	ErrNotCoherent = errors.New("units not coherent")
)

type (
	// NoUnitError is returned when a tag is not in the catalog, or when an
	// expression node that must be a unit is something else.
	NoUnitError struct {
		Tag string
	}

	// NoUnitPrefixError is returned for an unknown prefix symbol.
	NoUnitPrefixError struct {
		Prefix string
	}

	// NotCoherentError is returned when the two sides of a conversion reduce
	// to different atomic signatures. Src and Dst are Readable renderings.
	NotCoherentError struct {
		Src string
		Dst string
	}
)

func (e *NoUnitError) Error() string {
	return fmt.Sprintf("unit %s not found", e.Tag)
}

func (e *NoUnitError) Unwrap() error { return ErrNoUnit }

func (e *NoUnitPrefixError) Error() string {
	return fmt.Sprintf("unit prefix %s not found", e.Prefix)
}

func (e *NoUnitPrefixError) Unwrap() error { return ErrNoUnitPrefix }

func (e *NotCoherentError) Error() string {
	return fmt.Sprintf("units not coherent:\n%s\n<=>\n%s", e.Src, e.Dst)
}

func (e *NotCoherentError) Unwrap() error { return ErrNotCoherent }
