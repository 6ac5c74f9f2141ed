// SPDX-License-Identifier: MPL-2.0

// Package interpreter parses and folds statements and keeps the last
// decomposition as state.
//
// An Interpreter is bound to one catalog and is not safe for concurrent use;
// give every caller (CLI invocation, server session) its own.
package interpreter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/unitfold/unitfold/pkg/ast"
	"github.com/unitfold/unitfold/pkg/folder"
	"github.com/unitfold/unitfold/pkg/parser"
	"github.com/unitfold/unitfold/pkg/units"
)

// ErrStatementKind is the sentinel error wrapped by StatementKindError.
var ErrStatementKind = errors.New("wrong statement kind")

type (
	// StatementKindError is returned when Convert receives a decomposition or
	// Decompose receives a conversion.
	StatementKindError struct {
		Want ast.Kind
		Got  ast.Kind
	}

	// Interpreter evaluates statements against a catalog.
	Interpreter struct {
		folder    *folder.Folder
		formatter Formatter
		state     *units.BaseUnits
	}

	// Option configures an Interpreter.
	Option func(*Interpreter)

	// Result is the outcome of Eval.
	Result struct {
		Statement ast.Statement
		// Units is the folded signature; for conversions its V and Mpl
		// give Value.
		Units *units.BaseUnits
		// Value is the converted quantity. Zero for decompositions.
		Value float64

		formatter Formatter
	}
)

func (e *StatementKindError) Error() string {
	return fmt.Sprintf("expected a %s statement, got a %s", e.Want, e.Got)
}

func (e *StatementKindError) Unwrap() error { return ErrStatementKind }

// WithFormatter sets how results are rendered. Default is DefaultFormatter.
func WithFormatter(f Formatter) Option {
	return func(i *Interpreter) {
		i.formatter = f
	}
}

// New returns an Interpreter over cat.
func New(cat units.Catalog, opts ...Option) *Interpreter {
	i := &Interpreter{
		folder:    folder.New(cat),
		formatter: DefaultFormatter(),
		state:     units.New(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Convert evaluates a conversion statement and returns the quantity in the
// destination units.
func (i *Interpreter) Convert(input string) (float64, error) {
	b, err := i.fold(input, ast.Conversion)
	if err != nil {
		return 0, err
	}
	return b.Value(), nil
}

// Decompose evaluates a unit expression into atomic units and stores the
// result as the interpreter state.
func (i *Interpreter) Decompose(input string) (*units.BaseUnits, error) {
	b, err := i.fold(input, ast.Decomposition)
	if err != nil {
		return nil, err
	}
	i.state = b.Clone()
	return b, nil
}

// State returns a copy of the last successful decomposition.
func (i *Interpreter) State() *units.BaseUnits {
	return i.state.Clone()
}

// Formatter returns the formatter results are rendered with.
func (i *Interpreter) Formatter() Formatter {
	return i.formatter
}

// Eval evaluates either statement kind. Decompositions update the state.
func (i *Interpreter) Eval(input string) (Result, error) {
	stmt, err := parser.ParseStatement(input)
	if err != nil {
		return Result{}, err
	}
	b, err := i.folder.FoldStatement(stmt)
	if err != nil {
		return Result{}, err
	}

	res := Result{Statement: stmt, Units: b, formatter: i.formatter}
	if stmt.Kind == ast.Conversion {
		res.Value = b.Value()
	} else {
		i.state = b.Clone()
	}
	return res, nil
}

func (i *Interpreter) fold(input string, want ast.Kind) (*units.BaseUnits, error) {
	stmt, err := parser.ParseStatement(input)
	if err != nil {
		return nil, err
	}
	if stmt.Kind != want {
		return nil, &StatementKindError{Want: want, Got: stmt.Kind}
	}
	return i.folder.FoldStatement(stmt)
}

// String renders a conversion as "<value> <src> = <result> <dst>" and a
// decomposition as "<mpl> [tag^pow * ...]".
func (r Result) String() string {
	if conv, ok := r.Statement.Expr.(ast.Convert); ok {
		return fmt.Sprintf("%s %s = %s %s",
			strconv.FormatFloat(conv.Value, 'g', -1, 64), conv.Src, r.formatter.FormatValue(r.Value), conv.Dst)
	}
	if r.Units == nil {
		return ""
	}
	return r.formatter.FormatDecomposition(r.Units)
}
