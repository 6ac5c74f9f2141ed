// SPDX-License-Identifier: MPL-2.0

// Package ast defines the expression tree produced by the parser and walked
// by the folder.
//
// A statement is either a conversion ("1.5 к_Па=>Н/м^2") or a decomposition
// ("Н*м/с^2"). Both are built from three node kinds: Convert, Fraction and
// Unit. Nodes are plain values; the tree owns no catalog state.
package ast

import (
	"strconv"
	"strings"
)

const (
	// Conversion is a statement of the form "<value> <src>=><dst>".
	Conversion Kind = iota + 1
	// Decomposition is a bare unit expression.
	Decomposition
)

type (
	// Kind distinguishes the two statement forms.
	Kind uint8

	// Expr is a node of the expression tree: Convert, Fraction or Unit.
	Expr interface {
		String() string
		expr()
	}

	// Statement is the root of a parsed line.
	Statement struct {
		Kind Kind
		Expr Expr
	}

	// Convert converts Value expressed in Src into Dst.
	Convert struct {
		Value float64
		Src   Expr
		Dst   Expr
	}

	// Fraction is a product of units over a product of units. Down holds
	// units with Den set.
	Fraction struct {
		Up   []Expr
		Down []Expr
	}

	// Unit is a single optionally prefixed unit raised to an integer power.
	Unit struct {
		Prefix string
		Tag    string
		Pow    int8
		// Den marks a unit written after the "/".
		Den bool
	}
)

func (Convert) expr()  {}
func (Fraction) expr() {}
func (Unit) expr()     {}

// String returns "conversion" or "decomposition".
func (k Kind) String() string {
	switch k {
	case Conversion:
		return "conversion"
	case Decomposition:
		return "decomposition"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// String renders the statement in input syntax.
func (s Statement) String() string {
	if s.Expr == nil {
		return ""
	}
	return s.Expr.String()
}

// String renders "<value> <src>=><dst>".
func (c Convert) String() string {
	return strconv.FormatFloat(c.Value, 'g', -1, 64) + " " + exprString(c.Src) + "=>" + exprString(c.Dst)
}

// String renders "a*b/c*d".
func (f Fraction) String() string {
	var sb strings.Builder
	joinExprs(&sb, f.Up)
	if len(f.Down) > 0 {
		sb.WriteByte('/')
		joinExprs(&sb, f.Down)
	}
	return sb.String()
}

// String renders "[prefix_]tag[^pow]". Den is implied by position and is not
// rendered.
func (u Unit) String() string {
	var sb strings.Builder
	if u.Prefix != "" {
		sb.WriteString(u.Prefix)
		sb.WriteByte('_')
	}
	sb.WriteString(u.Tag)
	if u.Pow != 1 {
		sb.WriteByte('^')
		sb.WriteString(strconv.Itoa(int(u.Pow)))
	}
	return sb.String()
}

func joinExprs(sb *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(exprString(e))
	}
}

func exprString(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}
