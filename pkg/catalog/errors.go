// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTag is returned when a record (at any depth) has no tag.
	ErrEmptyTag = errors.New("unit tag is empty")
	// ErrCompositeMultiplier is the sentinel error wrapped by CompositeMultiplierError.
	ErrCompositeMultiplier = errors.New("composite unit carries a multiplier")
	// ErrDuplicateTag is the sentinel error wrapped by DuplicateTagError.
	ErrDuplicateTag = errors.New("duplicate unit tag")
	// ErrUndefinedReference is the sentinel error wrapped by UndefinedReferenceError.
	ErrUndefinedReference = errors.New("undefined unit reference")
	// ErrDefinitionCycle is the sentinel error wrapped by DefinitionCycleError.
	ErrDefinitionCycle = errors.New("unit definition cycle")
	// ErrInvalidPrefix is the sentinel error wrapped by InvalidPrefixError.
	ErrInvalidPrefix = errors.New("invalid prefix")
	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

type (
	// CompositeMultiplierError is returned when a record with a non-empty base
	// sets mpl to anything but 1. Scale factors belong on the components.
	CompositeMultiplierError struct {
		Tag string
		Mpl float64
	}

	// DuplicateTagError is returned when one source defines a tag twice.
	DuplicateTagError struct {
		Tag    string
		Source string
	}

	// UndefinedReferenceError is returned when a component names a tag that
	// has neither an inline base nor a catalog definition.
	UndefinedReferenceError struct {
		Tag  string
		From string
	}

	// DefinitionCycleError is returned when a unit is defined, directly or
	// transitively, in terms of itself.
	DefinitionCycleError struct {
		Cycle []string
	}

	// InvalidPrefixError is returned for a prefix symbol that is empty or
	// maps to an exponent outside [MinPrefixExp, MaxPrefixExp].
	InvalidPrefixError struct {
		Symbol string
		Exp    int
	}

	// UnsupportedFormatError is returned for a catalog file whose extension
	// matches no known format.
	UnsupportedFormatError struct {
		Path string
	}
)

func (e *CompositeMultiplierError) Error() string {
	return fmt.Sprintf("composite unit %q has mpl %g (must be 1)", e.Tag, e.Mpl)
}

func (e *CompositeMultiplierError) Unwrap() error { return ErrCompositeMultiplier }

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("unit %q defined more than once in %s", e.Tag, e.Source)
}

func (e *DuplicateTagError) Unwrap() error { return ErrDuplicateTag }

func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("unit %q references undefined unit %q", e.From, e.Tag)
}

func (e *UndefinedReferenceError) Unwrap() error { return ErrUndefinedReference }

func (e *DefinitionCycleError) Error() string {
	return "unit definition cycle: " + strings.Join(e.Cycle, " -> ")
}

func (e *DefinitionCycleError) Unwrap() error { return ErrDefinitionCycle }

func (e *InvalidPrefixError) Error() string {
	if e.Symbol == "" {
		return "prefix symbol is empty"
	}
	return fmt.Sprintf("prefix %q has exponent %d (allowed %d..%d)", e.Symbol, e.Exp, MinPrefixExp, MaxPrefixExp)
}

func (e *InvalidPrefixError) Unwrap() error { return ErrInvalidPrefix }

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported catalog format (want .cue, .json, .toml, .yaml or .yml)", e.Path)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
