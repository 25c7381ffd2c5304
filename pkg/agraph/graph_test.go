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
package agraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airscript-lang/airscript-core/pkg/ir"
)

func TestInsertOpDeduplicates(t *testing.T) {
	g := New()

	a := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 0, Offset: 0}})
	assert.Equal(t, 1, g.Len())

	b := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 0, Offset: 0}})
	assert.Equal(t, a, b)
	assert.Equal(t, 1, g.Len(), "node count must not grow on a structurally-equal re-insertion")

	c := g.InsertOp(ir.Add{Lhs: a, Rhs: a})
	d := g.InsertOp(ir.Add{Lhs: a, Rhs: a})
	assert.Equal(t, c, d)
	assert.Equal(t, 2, g.Len())
}

// TestAddIsNotCommutativelyCanonicalised exercises spec §4.5: Add{a,b} and
// Add{b,a} are distinct nodes.
func TestAddIsNotCommutativelyCanonicalised(t *testing.T) {
	g := New()

	a := g.InsertOp(ir.Constant{Value: ir.InlineConstant(1)})
	b := g.InsertOp(ir.Constant{Value: ir.InlineConstant(2)})

	ab := g.InsertOp(ir.Add{Lhs: a, Rhs: b})
	ba := g.InsertOp(ir.Add{Lhs: b, Rhs: a})

	assert.NotEqual(t, ab, ba)
}

func TestAcyclicityChildIndicesPrecedeParent(t *testing.T) {
	g := New()

	a := g.InsertOp(ir.Constant{Value: ir.InlineConstant(1)})
	b := g.InsertOp(ir.Constant{Value: ir.InlineConstant(2)})
	sum := g.InsertOp(ir.Add{Lhs: a, Rhs: b})

	for i, op := range g.Nodes() {
		for _, child := range op.Children() {
			assert.Less(t, uint32(child), uint32(ir.NodeIndex(i)), "child index must precede its parent")
		}
	}

	assert.Equal(t, ir.NodeIndex(2), sum)
}

// TestProductDegree exercises spec §8 S2: (a * b * c) * p, with a,b,c trace
// cells and p a periodic column of cycle 8, has degree (base=3, cycles={idx(p):8}).
func TestProductDegree(t *testing.T) {
	g := New()

	a := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 0, Offset: 0}})
	b := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 1, Offset: 0}})
	c := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 2, Offset: 0}})
	p := g.InsertOp(ir.PeriodicColumn{Index: 0, CycleLen: 8})

	ab := g.InsertOp(ir.Mul{Lhs: a, Rhs: b})
	abc := g.InsertOp(ir.Mul{Lhs: ab, Rhs: c})
	root := g.InsertOp(ir.Mul{Lhs: abc, Rhs: p})

	d := g.Degree(root)
	assert.Equal(t, uint(3), d.Base)
	require.Len(t, d.Cycles, 1)
	assert.Equal(t, uint(8), d.Cycles[0])
}

// TestPeriodicCycleMultiplicitySetLike exercises the documented quirk of
// spec §4.2/§9: multiplying the same periodic column against itself
// contributes its cycle length once, not twice.
func TestPeriodicCycleMultiplicitySetLike(t *testing.T) {
	g := New()

	p := g.InsertOp(ir.PeriodicColumn{Index: 0, CycleLen: 4})
	root := g.InsertOp(ir.Mul{Lhs: p, Rhs: p})

	d := g.Degree(root)
	assert.Equal(t, uint(0), d.Base)
	require.Len(t, d.Cycles, 1)
	assert.Equal(t, uint(4), d.Cycles[0])
}

// TestExpDegreeScalesBaseNotCycles exercises spec §9's open question: Exp's
// base scales by the power, but its cycles multiset is carried unscaled.
func TestExpDegreeScalesBaseNotCycles(t *testing.T) {
	g := New()

	trace := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 0, Offset: 0}})
	p := g.InsertOp(ir.PeriodicColumn{Index: 2, CycleLen: 16})
	prod := g.InsertOp(ir.Mul{Lhs: trace, Rhs: p})
	root := g.InsertOp(ir.Exp{Arg: prod, Power: 3})

	d := g.Degree(root)
	assert.Equal(t, uint(3), d.Base)
	assert.Equal(t, uint(16), d.Cycles[2])
}

func TestMergeEqualExprsIncompatibleDomains(t *testing.T) {
	g := New()

	a := g.InsertOp(ir.Constant{Value: ir.InlineConstant(1)})
	b := g.InsertOp(ir.Constant{Value: ir.InlineConstant(2)})

	lhs := ir.NewExprDetails(a, ir.MainSegment, ir.FirstRow())
	rhs := ir.NewExprDetails(b, ir.MainSegment, ir.LastRow())

	_, ok := g.MergeEqualExprs(lhs, rhs)
	assert.False(t, ok)
}

func TestMergeEqualExprsTakesMaxSegment(t *testing.T) {
	g := New()

	a := g.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: ir.MainSegment, Column: 0, Offset: 0}})
	b := g.InsertOp(ir.RandomValue{Index: 0})

	lhs := ir.NewExprDetails(a, ir.MainSegment, ir.EveryRow())
	rhs := ir.NewExprDetails(b, ir.AuxSegment, ir.EveryRow())

	details, ok := g.MergeEqualExprs(lhs, rhs)
	require.True(t, ok)
	assert.Equal(t, ir.AuxSegment, details.Segment)

	sub, ok := g.Node(details.Root).(ir.Sub)
	require.True(t, ok)
	assert.Equal(t, a, sub.Lhs)
	assert.Equal(t, b, sub.Rhs)
}
