// SPDX-License-Identifier: MPL-2.0

// Package folder evaluates an expression tree into a unit signature.
//
// Unit nodes resolve against the catalog, fractions merge their units by tag
// and reduce to atomic units, and a conversion checks that both sides reduce
// to the same signature before taking the ratio of their scale factors.
// Folding stops at the first error.
package folder

import (
	"fmt"

	"github.com/unitfold/unitfold/pkg/ast"
	"github.com/unitfold/unitfold/pkg/units"
)

// Folder walks expression trees against one catalog.
type Folder struct {
	cat units.Catalog
}

// New returns a Folder over cat.
func New(cat units.Catalog) *Folder {
	return &Folder{cat: cat}
}

// FoldStatement folds the statement's expression. A decomposition of a bare
// unit is folded as a one-element fraction so the result is reduced.
func (f *Folder) FoldStatement(s ast.Statement) (*units.BaseUnits, error) {
	switch s.Kind {
	case ast.Conversion:
		return f.FoldExpr(s.Expr)
	case ast.Decomposition:
		if u, ok := s.Expr.(ast.Unit); ok {
			return f.FoldExpr(ast.Fraction{Up: []ast.Expr{u}})
		}
		return f.FoldExpr(s.Expr)
	default:
		return nil, fmt.Errorf("unknown statement kind %v", s.Kind)
	}
}

// FoldExpr folds one node.
func (f *Folder) FoldExpr(e ast.Expr) (*units.BaseUnits, error) {
	switch e := e.(type) {
	case ast.Convert:
		return f.foldConvert(e)
	case ast.Fraction:
		return f.foldFraction(e)
	case ast.Unit:
		return f.foldUnit(e)
	default:
		return nil, fmt.Errorf("unknown expression node %T", e)
	}
}

func (f *Folder) foldConvert(c ast.Convert) (*units.BaseUnits, error) {
	src, err := f.FoldExpr(c.Src)
	if err != nil {
		return nil, err
	}
	dst, err := f.FoldExpr(c.Dst)
	if err != nil {
		return nil, err
	}
	if !src.IsCoherent(dst) {
		return nil, &units.NotCoherentError{Src: src.Readable(), Dst: dst.Readable()}
	}

	result := units.New()
	result.V = c.Value
	result.Units = src.Units
	result.Mpl = src.Mpl / dst.Mpl
	return result, nil
}

func (f *Folder) foldFraction(fr ast.Fraction) (*units.BaseUnits, error) {
	result := units.New()
	for _, part := range [][]ast.Expr{fr.Up, fr.Down} {
		for _, e := range part {
			u, ok := e.(ast.Unit)
			if !ok {
				return nil, &units.NoUnitError{Tag: exprLabel(e)}
			}
			folded, err := f.foldUnit(u)
			if err != nil {
				return nil, err
			}
			if !result.MergeOne(folded, u.Tag) {
				return nil, &units.NoUnitError{Tag: u.Tag}
			}
		}
	}
	result.Reduce(f.cat)
	return result, nil
}

func (f *Folder) foldUnit(u ast.Unit) (*units.BaseUnits, error) {
	result := units.New()
	err := result.AddParsedUnit(f.cat, units.ParsedUnit{
		Prefix: u.Prefix,
		Tag:    u.Tag,
		Pow:    int(u.Pow),
		Den:    u.Den,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func exprLabel(e ast.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
