// SPDX-License-Identifier: MPL-2.0

// Package parser turns statement text into an ast.Statement.
//
// The grammar has fixed delimiters and no precedence:
//
//	statement  = value " " unit_expr "=>" unit_expr | unit_expr
//	unit_expr  = unit { "*" unit } [ "/" unit { "*" unit } ]
//	unit       = [ prefix "_" ] tag [ "^" pow ]
//
// value is a finite float, pow a signed 8-bit integer. Exactly one space
// separates the value from the source expression; a decomposition has none.
package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/unitfold/unitfold/pkg/ast"
)

const (
	convSep   = "=>"
	mulSep    = "*"
	divSep    = "/"
	spaceSep  = " "
	prefixSep = "_"
	powSep    = "^"
)

// Validate checks the statement-level shape of input: the number of spaces,
// the leading value of a conversion and its single "=>".
func Validate(input string) error {
	spaces := strings.Count(input, spaceSep)
	if spaces > 1 {
		return &TooManySpacesError{Count: spaces}
	}

	if spaces == 0 {
		if strings.Contains(input, convSep) {
			return &ValueWrongBeginError{Input: input}
		}
		return nil
	}

	value, rest, _ := strings.Cut(input, spaceSep)
	if _, err := parseValue(value); err != nil {
		return &ValueWrongBeginError{Input: input}
	}
	if strings.Count(rest, convSep) != 1 {
		return ErrExactlyOneSeparator
	}
	return nil
}

// ParseStatement validates input and parses it as a conversion when it holds
// a space, or as a decomposition otherwise.
func ParseStatement(input string) (ast.Statement, error) {
	if err := Validate(input); err != nil {
		return ast.Statement{}, err
	}

	value, rest, isConv := strings.Cut(input, spaceSep)
	if !isConv {
		expr, err := ParseExpr(input)
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.Statement{Kind: ast.Decomposition, Expr: expr}, nil
	}

	v, _ := parseValue(value)
	lhs, rhs, _ := strings.Cut(rest, convSep)
	src, err := ParseExpr(lhs)
	if err != nil {
		return ast.Statement{}, err
	}
	dst, err := ParseExpr(rhs)
	if err != nil {
		return ast.Statement{}, err
	}
	return ast.Statement{Kind: ast.Conversion, Expr: ast.Convert{Value: v, Src: src, Dst: dst}}, nil
}

// ParseExpr parses a unit expression into a Fraction. Units after the "/"
// are marked as denominators.
func ParseExpr(input string) (ast.Expr, error) {
	up, down, hasDiv := strings.Cut(input, divSep)
	if strings.Contains(down, divSep) {
		return nil, &WrongUnitError{Input: input}
	}

	var frac ast.Fraction
	for part := range strings.SplitSeq(up, mulSep) {
		u, err := ParseUnit(part, false)
		if err != nil {
			return nil, err
		}
		frac.Up = append(frac.Up, u)
	}
	if hasDiv {
		for part := range strings.SplitSeq(down, mulSep) {
			u, err := ParseUnit(part, true)
			if err != nil {
				return nil, err
			}
			frac.Down = append(frac.Down, u)
		}
	}
	return frac, nil
}

// ParseUnit parses "[prefix_]tag[^pow]". den marks a unit that appears in a
// denominator; its pow is stored as written.
func ParseUnit(input string, den bool) (ast.Unit, error) {
	if !utf8.ValidString(input) || strings.Count(input, prefixSep) > 1 || strings.Count(input, powSep) > 1 {
		return ast.Unit{}, &WrongUnitError{Input: input}
	}

	u := ast.Unit{Pow: 1, Den: den}
	rest := input
	if prefix, tag, ok := strings.Cut(rest, prefixSep); ok {
		if prefix == "" {
			return ast.Unit{}, &WrongUnitError{Input: input}
		}
		u.Prefix, rest = prefix, tag
	}
	if tag, pow, ok := strings.Cut(rest, powSep); ok {
		p, err := strconv.ParseInt(pow, 10, 8)
		if err != nil {
			return ast.Unit{}, &WrongPowError{Input: input}
		}
		u.Pow, rest = int8(p), tag
	}

	if !validTag(rest) {
		return ast.Unit{}, &WrongUnitError{Input: input}
	}
	u.Tag = rest
	return u, nil
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if unicode.IsSpace(r) || strings.ContainsRune("=>*/_^", r) {
			return false
		}
	}
	return true
}
