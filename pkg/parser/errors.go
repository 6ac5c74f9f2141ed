// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManySpaces is the sentinel error wrapped by TooManySpacesError.
	ErrTooManySpaces = errors.New("too many spaces")
	// ErrWrongUnit is the sentinel error wrapped by WrongUnitError.
	ErrWrongUnit = errors.New("wrong unit entry")
	// ErrValueWrongBegin is the sentinel error wrapped by ValueWrongBeginError.
	ErrValueWrongBegin = errors.New("wrong leading value")
	// ErrExactlyOneSeparator is returned when a conversion has zero or several "=>".
	ErrExactlyOneSeparator = errors.New("conversion allows exactly one '=>' occurrence")
	// ErrWrongPow is the sentinel error wrapped by WrongPowError.
	ErrWrongPow = errors.New("wrong pow")
)

type (
	// TooManySpacesError is returned when the input holds more than one space.
	TooManySpacesError struct {
		Count int
	}

	// WrongUnitError is returned for a malformed unit or unit expression.
	WrongUnitError struct {
		Input string
	}

	// ValueWrongBeginError is returned when a conversion does not start with
	// a finite number.
	ValueWrongBeginError struct {
		Input string
	}

	// WrongPowError is returned when an exponent is not a signed 8-bit integer.
	WrongPowError struct {
		Input string
	}
)

func (e *TooManySpacesError) Error() string {
	return fmt.Sprintf("input cannot contain %d spaces, 0 or 1 is allowed", e.Count)
}

func (e *TooManySpacesError) Unwrap() error { return ErrTooManySpaces }

func (e *WrongUnitError) Error() string {
	return fmt.Sprintf("unit entry is wrong: %q", e.Input)
}

func (e *WrongUnitError) Unwrap() error { return ErrWrongUnit }

func (e *ValueWrongBeginError) Error() string {
	return fmt.Sprintf("float input wrong: %q", e.Input)
}

func (e *ValueWrongBeginError) Unwrap() error { return ErrValueWrongBegin }

func (e *WrongPowError) Error() string {
	return fmt.Sprintf("pow cannot be parsed as a valid int8: %q", e.Input)
}

func (e *WrongPowError) Unwrap() error { return ErrWrongPow }

// IsSyntaxError reports whether err originates from the parser.
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrTooManySpaces) ||
		errors.Is(err, ErrWrongUnit) ||
		errors.Is(err, ErrValueWrongBegin) ||
		errors.Is(err, ErrExactlyOneSeparator) ||
		errors.Is(err, ErrWrongPow)
}
