// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airscript-lang/airscript-core/pkg/agraph"
	"github.com/airscript-lang/airscript-core/pkg/ast"
	"github.com/airscript-lang/airscript-core/pkg/errors"
	"github.com/airscript-lang/airscript-core/pkg/ir"
	"github.com/airscript-lang/airscript-core/pkg/symtab"
)

func newFixture(t *testing.T) (*symtab.SymbolTable, *agraph.Graph) {
	t.Helper()

	st := symtab.New()
	g := agraph.New()

	return st, g
}

// TestDedupOfRepeatedAdd exercises spec §8 S1: `a + a` where a resolves to
// column 0 of the main segment lowers to one TraceElement node and one Add
// node referencing it twice.
func TestDedupOfRepeatedAdd(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "a", 1)
	require.NoError(t, err)
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)
	expr := ast.Add{Lhs: ast.Elem{Name: "a"}, Rhs: ast.Elem{Name: "a"}}

	details, err := lw.Lower(expr, ir.EveryRow())
	require.NoError(t, err)

	add, ok := g.Node(details.Root).(ir.Add)
	require.True(t, ok)
	assert.Equal(t, add.Lhs, add.Rhs)

	traceCount := 0
	addCount := 0

	for _, op := range g.Nodes() {
		switch op.(type) {
		case ir.TraceElement:
			traceCount++
		case ir.Add:
			addCount++
		}
	}

	assert.Equal(t, 1, traceCount)
	assert.Equal(t, 1, addCount)
}

// TestRandomValuePromotesSegment exercises spec §8 S4: `x' - x * $rand[0]`
// with x a main column has overall segment 1 (auxiliary).
func TestRandomValuePromotesSegment(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "x", 1)
	require.NoError(t, err)
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)

	expr := ast.Sub{
		Lhs: ast.NamedTraceAccess{Name: "x", Index: 0, Offset: 1},
		Rhs: ast.Mul{Lhs: ast.Elem{Name: "x"}, Rhs: ast.Rand{Index: 0}},
	}

	details, err := lw.Lower(expr, ir.EveryRow())
	require.NoError(t, err)
	assert.Equal(t, ir.AuxSegment, details.Segment)
}

// TestListComprehensionOverTraceGroup exercises spec §8 S5: with main: [g[4]]
// and `terms[0] + terms[1] + terms[2] + terms[3]` where `terms` is a `let`
// bound list comprehension `[gi for gi in g]`, lowering produces four
// distinct TraceElement nodes combined by three Add nodes and exactly one
// root.
func TestListComprehensionOverTraceGroup(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "g", 4)
	require.NoError(t, err)
	st.Freeze()

	st.BeginScope(symtab.IntegrityScope)
	defer st.EndScope()

	comprehension := ast.VariableType{
		Shape: ast.ListComprehensionVariable,
		Comprehension: ast.ListComprehension{
			Bindings: []ast.Binding{{Variable: "gi", Iterable: ast.IdentifierIterable{Name: "g"}}},
			Body:     ast.Elem{Name: "gi"},
		},
	}
	require.NoError(t, st.DeclareVariable(symtab.IntegrityScope, "terms", comprehension))

	lw := New(st, g, symtab.IntegrityScope)

	sum := ast.Expression(ast.VectorAccess{Name: "terms", Index: 0})
	for i := uint(1); i < 4; i++ {
		sum = ast.Add{Lhs: sum, Rhs: ast.VectorAccess{Name: "terms", Index: i}}
	}

	details, err := lw.Lower(sum, ir.EveryRow())
	require.NoError(t, err)

	traceCols := map[uint]bool{}
	addCount := 0

	for _, op := range g.Nodes() {
		switch o := op.(type) {
		case ir.TraceElement:
			traceCols[o.Access.Column] = true
		case ir.Add:
			addCount++
		}
	}

	assert.Len(t, traceCols, 4)
	assert.Equal(t, 3, addCount)
	assert.Less(t, int(details.Root), g.Len())
}

// TestVariableMemoisationSharesSubgraph exercises spec §8 S6: `let v = a * a
// + b` referenced three times produces exactly one Mul(a,a) node, one
// Add(Mul,b) node, and that Add is shared across all three references.
func TestVariableMemoisationSharesSubgraph(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "a", 1)
	require.NoError(t, err)
	_, err = st.DeclareTraceColumnGroup(ir.MainSegment, "b", 1)
	require.NoError(t, err)
	st.Freeze()

	st.BeginScope(symtab.IntegrityScope)
	defer st.EndScope()

	vType := ast.VariableType{
		Shape: ast.ScalarVariable,
		Scalar: ast.Add{
			Lhs: ast.Mul{Lhs: ast.Elem{Name: "a"}, Rhs: ast.Elem{Name: "a"}},
			Rhs: ast.Elem{Name: "b"},
		},
	}
	require.NoError(t, st.DeclareVariable(symtab.IntegrityScope, "v", vType))

	lw := New(st, g, symtab.IntegrityScope)

	first, err := lw.Lower(ast.Elem{Name: "v"}, ir.EveryRow())
	require.NoError(t, err)
	second, err := lw.Lower(ast.Elem{Name: "v"}, ir.EveryRow())
	require.NoError(t, err)
	third, err := lw.Lower(ast.Add{Lhs: ast.Elem{Name: "v"}, Rhs: ast.Const{Value: 0}}, ir.EveryRow())
	require.NoError(t, err)

	assert.Equal(t, first.Root, second.Root)

	mulCount := 0
	addCount := 0

	for _, op := range g.Nodes() {
		switch op.(type) {
		case ir.Mul:
			mulCount++
		case ir.Add:
			addCount++
		}
	}

	assert.Equal(t, 1, mulCount)
	// One Add(Mul,b) node plus the wrapping Add(v,0) from the third reference.
	assert.Equal(t, 2, addCount)

	addOp, ok := g.Node(third.Root).(ir.Add)
	require.True(t, ok)
	assert.Equal(t, first.Root, addOp.Lhs)
}

func TestExpRequiresConstantExponent(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "a", 1)
	require.NoError(t, err)
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)

	_, err = lw.Lower(ast.Exp{Base: ast.Elem{Name: "a"}, Exponent: ast.Elem{Name: "a"}}, ir.EveryRow())
	require.Error(t, err)
	assert.Equal(t, errors.Unsupported, err.(*errors.SemanticError).Kind())
}

func TestExpWithConstantExponentCarriesInline(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "a", 1)
	require.NoError(t, err)
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)

	details, err := lw.Lower(ast.Exp{Base: ast.Elem{Name: "a"}, Exponent: ast.Const{Value: 3}}, ir.EveryRow())
	require.NoError(t, err)
	assert.True(t, details.HasInline)
	assert.Equal(t, uint64(3), details.InlineConstant)

	exp, ok := g.Node(details.Root).(ir.Exp)
	require.True(t, ok)
	assert.Equal(t, uint64(3), exp.Power)
}

func TestPublicInputExpressionAccessIsUnsupported(t *testing.T) {
	st, g := newFixture(t)
	require.NoError(t, st.DeclarePublicInput("stack", 16))
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)

	_, err := lw.Lower(ast.VectorAccess{Name: "stack", Index: 0}, ir.EveryRow())
	require.Error(t, err)
	assert.Equal(t, errors.Unsupported, err.(*errors.SemanticError).Kind())
}

func TestListFoldingIsUnsupported(t *testing.T) {
	st, g := newFixture(t)
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)

	_, err := lw.Lower(ast.ListFolding{Operator: "sum", List: ast.Const{Value: 0}}, ir.EveryRow())
	require.Error(t, err)
	assert.Equal(t, errors.Unsupported, err.(*errors.SemanticError).Kind())
}

func TestNestedComprehensionsAreUnsupported(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "g", 2)
	require.NoError(t, err)
	st.Freeze()

	st.BeginScope(symtab.IntegrityScope)
	defer st.EndScope()

	inner := ast.VariableType{
		Shape: ast.ListComprehensionVariable,
		Comprehension: ast.ListComprehension{
			Bindings: []ast.Binding{{Variable: "gi", Iterable: ast.IdentifierIterable{Name: "g"}}},
			Body: ast.VectorAccess{Name: "outer", Index: 0},
		},
	}
	outer := ast.VariableType{
		Shape: ast.ListComprehensionVariable,
		Comprehension: ast.ListComprehension{
			Bindings: []ast.Binding{{Variable: "gj", Iterable: ast.IdentifierIterable{Name: "g"}}},
			Body:     ast.Elem{Name: "gj"},
		},
	}
	require.NoError(t, st.DeclareVariable(symtab.IntegrityScope, "outer", outer))
	require.NoError(t, st.DeclareVariable(symtab.IntegrityScope, "inner", inner))

	lw := New(st, g, symtab.IntegrityScope)

	_, err = lw.Lower(ast.VectorAccess{Name: "inner", Index: 0}, ir.EveryRow())
	require.Error(t, err)
	assert.Equal(t, errors.Unsupported, err.(*errors.SemanticError).Kind())
}

func TestIndexedTraceAccessOutOfRange(t *testing.T) {
	st, g := newFixture(t)
	_, err := st.DeclareTraceColumnGroup(ir.MainSegment, "a", 2)
	require.NoError(t, err)
	st.Freeze()

	lw := New(st, g, symtab.IntegrityScope)

	_, err = lw.Lower(ast.IndexedTraceAccess{Segment: 0, Column: 5, Offset: 0}, ir.EveryRow())
	require.Error(t, err)
	assert.Equal(t, errors.IndexOutOfRange, err.(*errors.SemanticError).Kind())
}
