// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/unitfold/unitfold/internal/dag"
)

// Validate checks the catalog as a whole: every component without an inline
// base names a catalog unit, no unit depends on itself, and every prefix is
// in range. Per-record rules are enforced by Insert.
func Validate(c *Catalog) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for symbol, exp := range c.prefixes {
		if err := validatePrefix(symbol, exp); err != nil {
			errs = append(errs, err)
		}
	}

	g := dag.New()
	for _, tag := range slices.Sorted(maps.Keys(c.units)) {
		g.AddNode(tag)
		errs = append(errs, c.linkComponents(g, c.units[tag])...)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if _, err := g.TopologicalSort(); err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return &DefinitionCycleError{Cycle: cycleErr.Cycle}
		}
		return err
	}
	slog.Debug("catalog references resolved", "nodes", g.Len())
	return nil
}

// linkComponents adds an edge from every component to the unit it defines,
// descending into inline bases. Caller holds the read lock.
func (c *Catalog) linkComponents(g *dag.Graph, u Unit) []error {
	var errs []error
	for _, b := range u.Base {
		g.AddEdge(b.Tag, u.Tag)
		if len(b.Base) > 0 {
			errs = append(errs, c.linkComponents(g, b)...)
			continue
		}
		if _, ok := c.units[b.Tag]; !ok {
			errs = append(errs, &UndefinedReferenceError{Tag: b.Tag, From: u.Tag})
		}
	}
	return errs
}
