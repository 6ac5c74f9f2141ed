// SPDX-License-Identifier: MPL-2.0

package folder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitfold/unitfold/pkg/ast"
	"github.com/unitfold/unitfold/pkg/catalog"
	"github.com/unitfold/unitfold/pkg/parser"
	"github.com/unitfold/unitfold/pkg/units"
)

func newFolder(t *testing.T) *Folder {
	t.Helper()
	cat, err := catalog.Builtin()
	require.NoError(t, err)
	return New(cat)
}

func fold(t *testing.T, f *Folder, input string) (*units.BaseUnits, error) {
	t.Helper()
	stmt, err := parser.ParseStatement(input)
	require.NoError(t, err)
	return f.FoldStatement(stmt)
}

func TestFoldConversion(t *testing.T) {
	t.Parallel()
	f := newFolder(t)

	tests := []struct {
		input string
		want  float64
	}{
		{"1 Па=>Н/м^2", 1},
		{"1 к_Па=>Н/м^2", 1000},
		{"1 сут=>с", 86400},
		{"1 км/ч=>м/с", 1000.0 / 3600},
		{"1 к_м/ч=>м/с", 1000.0 / 3600},
		{"1 атм=>Па", 101325},
		{"2.5 т=>к_г", 2500},
		{"1 л=>д_м^3", 1},
		{"1 га=>к_м^2", 0.01},
		{"1 Вт*ч=>Дж", 3600},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			b, err := fold(t, f, tt.input)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, b.Value(), 1e-9)
		})
	}
}

func TestFoldConversionKeepsValueAndSourceUnits(t *testing.T) {
	t.Parallel()
	f := newFolder(t)

	b, err := fold(t, f, "3 к_м=>м")
	require.NoError(t, err)
	assert.Equal(t, 3.0, b.V)
	assert.InEpsilon(t, 1000.0, b.Mpl, 1e-12)
	assert.Equal(t, "[м^1]", b.Readable())
}

func TestFoldNotCoherent(t *testing.T) {
	t.Parallel()
	f := newFolder(t)

	b, err := fold(t, f, "1 м=>кг")
	require.ErrorIs(t, err, units.ErrNotCoherent)
	assert.Nil(t, b)

	var nc *units.NotCoherentError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "[м^1]", nc.Src)
	assert.Equal(t, "[кг^1]", nc.Dst)
}

func TestFoldDecomposition(t *testing.T) {
	t.Parallel()
	f := newFolder(t)

	b, err := fold(t, f, "мк_м^3*с_м^2*к_м^-1/н_м^2*д_м^3")
	require.NoError(t, err)
	require.Len(t, b.Units, 1)
	assert.Equal(t, -1, b.Units["м"].Pow)
	assert.InEpsilon(t, 1e-4, b.Mpl, 1e-9)
}

func TestFoldBareUnitIsReduced(t *testing.T) {
	t.Parallel()
	f := newFolder(t)

	b, err := f.FoldStatement(ast.Statement{Kind: ast.Decomposition, Expr: ast.Unit{Tag: "Н", Pow: 1}})
	require.NoError(t, err)
	assert.Equal(t, "[кг^1*м^1*с^-2]", b.Readable())
}

func TestFoldErrors(t *testing.T) {
	t.Parallel()
	f := newFolder(t)

	_, err := fold(t, f, "1 парсек=>м")
	assert.ErrorIs(t, err, units.ErrNoUnit)

	_, err = fold(t, f, "Э_м")
	assert.ErrorIs(t, err, units.ErrNoUnitPrefix)

	_, err = f.FoldExpr(ast.Fraction{Up: []ast.Expr{ast.Fraction{}}})
	assert.ErrorIs(t, err, units.ErrNoUnit)

	_, err = f.FoldStatement(ast.Statement{})
	assert.Error(t, err)
}
