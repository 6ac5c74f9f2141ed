// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"maps"
	"slices"
	"sync"
)

// Catalog is a concurrency-safe table of unit definitions and prefixes.
type Catalog struct {
	mu       sync.RWMutex
	units    map[string]Unit
	prefixes map[string]int
}

// New returns a catalog holding the standard prefix table and the given units.
// Records are validated individually as by Insert; cross-references are not
// checked (see Validate).
func New(units ...Unit) (*Catalog, error) {
	c := &Catalog{
		units:    make(map[string]Unit, len(units)),
		prefixes: StandardPrefixes(),
	}
	for _, u := range units {
		if err := c.Insert(u); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Resolve returns a deep copy of the definition for tag.
func (c *Catalog) Resolve(tag string) (Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.units[tag]
	if !ok {
		return Unit{}, false
	}
	return u.Clone(), true
}

// Insert adds or replaces the definition of u.Tag. Zero multipliers and
// exponents are read as their defaults.
func (c *Catalog) Insert(u Unit) error {
	u = u.withDefaults()
	if err := checkRecord(u); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.units[u.Tag] = u
	return nil
}

// Tags returns every catalog tag in sorted order.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.units))
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.units)
}

// Prefix returns the power-of-ten exponent of a prefix symbol.
func (c *Catalog) Prefix(symbol string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	exp, ok := c.prefixes[symbol]
	return exp, ok
}

// SetPrefix adds or replaces a prefix.
func (c *Catalog) SetPrefix(symbol string, exp int) error {
	if err := validatePrefix(symbol, exp); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes[symbol] = exp
	return nil
}

// Prefixes returns a copy of the prefix table.
func (c *Catalog) Prefixes() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.prefixes)
}

// checkRecord enforces the per-record rules: tags are non-empty at every
// depth and composite records carry no multiplier.
func checkRecord(u Unit) error {
	if u.Tag == "" {
		return ErrEmptyTag
	}
	if len(u.Base) > 0 && u.Mpl != DefaultMpl {
		return &CompositeMultiplierError{Tag: u.Tag, Mpl: u.Mpl}
	}
	for _, b := range u.Base {
		if err := checkRecord(b); err != nil {
			return err
		}
	}
	return nil
}
