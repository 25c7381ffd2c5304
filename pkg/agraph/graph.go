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

// Package agraph implements the Algebraic Graph (spec §4.2): a
// hash-consed, append-only DAG of ir.Operation nodes addressed by dense
// ir.NodeIndex values, plus the degree calculator that walks it.
package agraph

import (
	"github.com/airscript-lang/airscript-core/pkg/ir"
	"github.com/airscript-lang/airscript-core/pkg/util/collection/hash"
)

// Graph is a hash-consed DAG of Operation nodes. The zero value is not
// usable; construct with New. Insertion is the only mutation this type
// supports — nodes are never removed or rewritten, which is what lets
// insertion order double as a topological order (spec §3 "Invariant
// (acyclicity)").
type Graph struct {
	nodes []ir.Operation
	index *hash.Map[ir.Operation, ir.NodeIndex]
}

// New constructs an empty graph.
func New() *Graph {
	return &Graph{
		index: hash.NewMap[ir.Operation, ir.NodeIndex](0),
	}
}

// InsertOp inserts op into the graph, returning the index of an existing
// structurally-equal node if one exists, or appending a new one otherwise
// (spec §4.2 "insert_op", the hash-consing invariant of spec §3). Running
// time is O(1) expected: the dedup check is a single hash.Map lookup keyed
// on op's own Hash()/Equals(), not a linear scan of nodes.
func (g *Graph) InsertOp(op ir.Operation) ir.NodeIndex {
	if existing, ok := g.index.Get(op); ok {
		return existing
	}

	idx := ir.NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, op)
	g.index.Insert(op, idx)

	return idx
}

// Node returns the operation stored at index i. Panics on an out-of-range
// index: every NodeIndex handed to a caller was returned by this same
// graph's InsertOp, so an out-of-range index means the caller mixed indices
// from two different graphs (spec §3 "Equal indices from different graphs
// are unrelated").
func (g *Graph) Node(i ir.NodeIndex) ir.Operation {
	return g.nodes[i]
}

// Len returns the number of distinct nodes currently in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns every node in insertion (and therefore topological) order,
// for backends that need to enumerate the whole graph (spec §6 "Exposed to
// the backend": read-only access to Graph by index).
func (g *Graph) Nodes() []ir.Operation {
	out := make([]ir.Operation, len(g.nodes))
	copy(out, g.nodes)

	return out
}

// MergeEqualExprs builds the `lhs - rhs = 0` root used by both boundary and
// integrity constraint lowering (spec §4.2 "merge_equal_exprs"): a Sub node
// over the two given roots, carrying the max of their trace segments and
// the merge of their constraint domains.
func (g *Graph) MergeEqualExprs(lhs, rhs ir.ExprDetails) (ir.ExprDetails, bool) {
	domain, ok := ir.Merge(lhs.Domain, rhs.Domain)
	if !ok {
		return ir.ExprDetails{}, false
	}

	root := g.InsertOp(ir.Sub{Lhs: lhs.Root, Rhs: rhs.Root})
	segment := ir.MaxSegment(lhs.Segment, rhs.Segment)

	return ir.NewExprDetails(root, segment, domain), true
}

// InsertBinOp inserts the Operation produced by ctor over the two already-
// lowered operand roots, combining their segment (max) and domain (merge)
// per spec §4.3 "insert_bin_op". ok is false when the two domains are
// incompatible.
func (g *Graph) InsertBinOp(
	ctor func(lhs, rhs ir.NodeIndex) ir.Operation,
	lhs, rhs ir.ExprDetails,
) (ir.ExprDetails, bool) {
	domain, ok := ir.Merge(lhs.Domain, rhs.Domain)
	if !ok {
		return ir.ExprDetails{}, false
	}

	root := g.InsertOp(ctor(lhs.Root, rhs.Root))
	segment := ir.MaxSegment(lhs.Segment, rhs.Segment)

	return ir.NewExprDetails(root, segment, domain), true
}

// Degree computes the IntegrityConstraintDegree of the subgraph rooted at
// i, by the recurrences of spec §4.2's degree table. Each node is visited
// once: results are memoised in a scratch map keyed by NodeIndex, which is
// safe because the graph is a DAG addressed by strictly-increasing child
// indices (spec §3 "Invariant (acyclicity)") — no node is ever revisited
// through a cycle.
func (g *Graph) Degree(i ir.NodeIndex) ir.IntegrityConstraintDegree {
	memo := make(map[ir.NodeIndex]ir.IntegrityConstraintDegree, len(g.nodes))

	return g.degree(i, memo)
}

func (g *Graph) degree(i ir.NodeIndex, memo map[ir.NodeIndex]ir.IntegrityConstraintDegree) ir.IntegrityConstraintDegree {
	if d, ok := memo[i]; ok {
		return d
	}

	var d ir.IntegrityConstraintDegree

	switch op := g.nodes[i].(type) {
	case ir.Constant:
		d = ir.NewIntegrityConstraintDegree(0)
	case ir.RandomValue:
		d = ir.NewIntegrityConstraintDegree(0)
	case ir.TraceElement:
		d = ir.NewIntegrityConstraintDegree(1)
	case ir.PeriodicColumn:
		d = ir.NewIntegrityConstraintDegree(0)
		d.Cycles[op.Index] = op.CycleLen
	case ir.Neg:
		d = g.degree(op.Arg, memo).Clone()
	case ir.Add:
		d = combineDegrees(g.degree(op.Lhs, memo), g.degree(op.Rhs, memo), maxUint)
	case ir.Sub:
		d = combineDegrees(g.degree(op.Lhs, memo), g.degree(op.Rhs, memo), maxUint)
	case ir.Mul:
		d = combineDegrees(g.degree(op.Lhs, memo), g.degree(op.Rhs, memo), sumUint)
	case ir.Exp:
		base := g.degree(op.Arg, memo)
		d = ir.IntegrityConstraintDegree{Base: base.Base * uint(op.Power), Cycles: base.Clone().Cycles}
	default:
		panic("agraph: unreachable operation variant in degree computation")
	}

	memo[i] = d

	return d
}

func maxUint(a, b uint) uint {
	if a > b {
		return a
	}

	return b
}

func sumUint(a, b uint) uint { return a + b }

// combineDegrees merges two child degrees: base is combined with combineBase
// (max for Add/Sub, sum for Mul); cycles always union (spec §4.2's table —
// every binary op unions its children's periodic-column sets, only the base
// combinator differs).
func combineDegrees(a, b ir.IntegrityConstraintDegree, combineBase func(uint, uint) uint) ir.IntegrityConstraintDegree {
	cycles := make(map[uint]uint, len(a.Cycles)+len(b.Cycles))
	for k, v := range a.Cycles {
		cycles[k] = v
	}

	for k, v := range b.Cycles {
		cycles[k] = v
	}

	return ir.IntegrityConstraintDegree{Base: combineBase(a.Base, b.Base), Cycles: cycles}
}
