// SPDX-License-Identifier: MPL-2.0

package catalog

import "maps"

const (
	// MinPrefixExp is the smallest power of ten a prefix may denote (yocto).
	MinPrefixExp = -24
	// MaxPrefixExp is the largest power of ten a prefix may denote (yotta).
	MaxPrefixExp = 24
)

// standardPrefixes are the metric prefixes every catalog starts with.
var standardPrefixes = map[string]int{
	"Т":  12,
	"Г":  9,
	"М":  6,
	"к":  3,
	"г":  2,
	"да": 1,
	"д":  -1,
	"с":  -2,
	"м":  -3,
	"мк": -6,
	"н":  -9,
	"п":  -12,
}

// StandardPrefixes returns a copy of the metric prefix table.
func StandardPrefixes() map[string]int {
	return maps.Clone(standardPrefixes)
}

func validatePrefix(symbol string, exp int) error {
	if symbol == "" || exp < MinPrefixExp || exp > MaxPrefixExp {
		return &InvalidPrefixError{Symbol: symbol, Exp: exp}
	}
	return nil
}
