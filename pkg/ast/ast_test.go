// SPDX-License-Identifier: MPL-2.0

package ast

import "testing"

func TestString(t *testing.T) {
	t.Parallel()

	frac := Fraction{
		Up:   []Expr{Unit{Prefix: "к", Tag: "м", Pow: 2}, Unit{Tag: "Н", Pow: 1}},
		Down: []Expr{Unit{Tag: "с", Pow: 2, Den: true}},
	}

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"plain unit", Unit{Tag: "м", Pow: 1}, "м"},
		{"prefixed unit", Unit{Prefix: "мк", Tag: "м", Pow: -3}, "мк_м^-3"},
		{"fraction", frac, "к_м^2*Н/с^2"},
		{"numerator only", Fraction{Up: []Expr{Unit{Tag: "м", Pow: 1}}}, "м"},
		{"convert", Convert{Value: 1.5, Src: Unit{Tag: "атм", Pow: 1}, Dst: frac}, "1.5 атм=>к_м^2*Н/с^2"},
		{"scientific value", Convert{Value: 1.12e30, Src: Unit{Tag: "м", Pow: 1}, Dst: Unit{Tag: "км", Pow: 1}}, "1.12e+30 м=>км"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if Conversion.String() != "conversion" || Decomposition.String() != "decomposition" {
		t.Errorf("Kind strings = %q, %q", Conversion, Decomposition)
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}
