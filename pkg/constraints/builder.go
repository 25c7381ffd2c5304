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

// Package constraints implements the Constraint Builder (spec §4.4): it
// lowers boundary and integrity constraint statements into pairs of graph
// roots (`lhs - rhs = 0`), groups the resulting roots by (trace segment,
// constraint category), and tracks each root's polynomial-degree metadata.
package constraints

import (
	"github.com/airscript-lang/airscript-core/pkg/agraph"
	"github.com/airscript-lang/airscript-core/pkg/ast"
	"github.com/airscript-lang/airscript-core/pkg/errors"
	"github.com/airscript-lang/airscript-core/pkg/ir"
	"github.com/airscript-lang/airscript-core/pkg/lower"
	"github.com/airscript-lang/airscript-core/pkg/symtab"
)

// Category distinguishes the boundary/integrity axis of a constraint bin,
// independent of which specific domain (FirstRow vs LastRow, EveryRow vs
// EveryFrame) a given root's constraint used (spec §4.4: "appends each
// resulting ExprDetails.root to one of four bins indexed by (segment,
// domain)" — domain here meaning this boundary/integrity category, not the
// full ConstraintDomain value).
type Category uint8

// The two constraint categories.
const (
	BoundaryCategory Category = iota
	IntegrityCategory
)

// binKey addresses one of the four root lists spec §4.4 describes.
type binKey struct {
	segment  ir.TraceSegment
	category Category
}

// Builder accumulates constraint roots across every boundary and integrity
// section of one compilation unit, in source order (spec §5 "Ordering").
type Builder struct {
	symtab  *symtab.SymbolTable
	graph   *agraph.Graph
	bins    map[binKey][]ir.NodeIndex
	degrees map[ir.NodeIndex]ir.IntegrityConstraintDegree
}

// New constructs an empty Builder over the given symbol table and graph.
func New(st *symtab.SymbolTable, g *agraph.Graph) *Builder {
	return &Builder{
		symtab:  st,
		graph:   g,
		bins:    make(map[binKey][]ir.NodeIndex),
		degrees: make(map[ir.NodeIndex]ir.IntegrityConstraintDegree),
	}
}

// Roots returns the ordered root list for one (segment, category) bin (spec
// §6 "For each bin (segment, domain), an ordered list of root NodeIndex
// values"). The returned slice is a defensive copy.
func (b *Builder) Roots(segment ir.TraceSegment, category Category) []ir.NodeIndex {
	src := b.bins[binKey{segment, category}]
	out := make([]ir.NodeIndex, len(src))
	copy(out, src)

	return out
}

// Degree returns the previously-computed IntegrityConstraintDegree for a
// constraint root (spec §6 "For each root, its IntegrityConstraintDegree").
func (b *Builder) Degree(root ir.NodeIndex) (ir.IntegrityConstraintDegree, bool) {
	d, ok := b.degrees[root]
	return d, ok
}

// ProcessBoundarySection lowers every statement of one `boundary_constraints`
// block, in source order, opening and guaranteeing the closure of its `let`
// scope even on an error path (spec §5 "Scoped variables"; spec §4.1 "are
// dropped at the end of that scope").
func (b *Builder) ProcessBoundarySection(section ast.BoundarySection) error {
	b.symtab.BeginScope(symtab.BoundaryScope)
	defer b.symtab.EndScope()

	for _, decl := range section.Lets {
		if err := b.symtab.DeclareVariable(symtab.BoundaryScope, decl.Name, decl.Type); err != nil {
			return err
		}
	}

	lw := lower.New(b.symtab, b.graph, symtab.BoundaryScope)

	for _, stmt := range section.Statements {
		if err := b.processBoundaryStmt(lw, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) processBoundaryStmt(lw *lower.Lowerer, stmt ast.BoundaryStmt) error {
	colType, err := b.symtab.GetType(stmt.Column.Name)
	if err != nil {
		return err
	}

	tc, ok := colType.(symtab.TraceColumnsType)
	if !ok {
		return errors.InvalidUsagef("%s is not a trace-column group", stmt.Column.Name)
	}

	domain := ir.FirstRow()
	if stmt.Edge == ast.LastRowEdge {
		domain = ir.LastRow()
	}

	colExpr := ast.NamedTraceAccess{Name: stmt.Column.Name, Index: stmt.Column.Index, Offset: 0}

	lhs, err := lw.Lower(colExpr, domain)
	if err != nil {
		return err
	}

	rhs, err := lw.Lower(stmt.Value, domain)
	if err != nil {
		return err
	}

	combined, ok := b.graph.MergeEqualExprs(lhs, rhs)
	if !ok {
		return errors.IncompatibleDomainsf(lhs.Domain, rhs.Domain)
	}

	// A main-segment boundary constraint may reference only main-segment
	// material; the merged segment climbing to auxiliary means the value
	// side pulled in a random value or auxiliary column (spec §4.4
	// "Trace-segment rules").
	if tc.Segment == ir.MainSegment && combined.Segment == ir.AuxSegment {
		return errors.CrossSegmentf("boundary constraint on main column %s references auxiliary-segment material", stmt.Column.Name)
	}

	b.record(tc.Segment, BoundaryCategory, combined.Root)

	return nil
}

// ProcessIntegritySection lowers every statement of one
// `integrity_constraints` block, in source order.
func (b *Builder) ProcessIntegritySection(section ast.IntegritySection) error {
	b.symtab.BeginScope(symtab.IntegrityScope)
	defer b.symtab.EndScope()

	for _, decl := range section.Lets {
		if err := b.symtab.DeclareVariable(symtab.IntegrityScope, decl.Name, decl.Type); err != nil {
			return err
		}
	}

	lw := lower.New(b.symtab, b.graph, symtab.IntegrityScope)

	for _, stmt := range section.Statements {
		if err := b.processIntegrityStmt(lw, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) processIntegrityStmt(lw *lower.Lowerer, stmt ast.IntegrityStmt) error {
	domain := ir.EveryRow()

	lhs, err := lw.Lower(stmt.Lhs, domain)
	if err != nil {
		return err
	}

	rhs, err := lw.Lower(stmt.Rhs, domain)
	if err != nil {
		return err
	}

	combined, ok := b.graph.MergeEqualExprs(lhs, rhs)
	if !ok {
		return errors.IncompatibleDomainsf(lhs.Domain, rhs.Domain)
	}

	// An integrity constraint's segment is the maximum of referenced
	// cells; an auxiliary-segment constraint may read from the main
	// segment, so no cross-segment check is needed here (spec §4.4).
	b.record(combined.Segment, IntegrityCategory, combined.Root)

	return nil
}

// record appends root to its (segment, category) bin, every time it is
// called, and computes its degree the first time this root is recorded in
// any bin; a root recorded again keeps its earlier degree entry.
func (b *Builder) record(segment ir.TraceSegment, category Category, root ir.NodeIndex) {
	key := binKey{segment, category}
	b.bins[key] = append(b.bins[key], root)

	if _, ok := b.degrees[root]; !ok {
		b.degrees[root] = b.graph.Degree(root)
	}
}
