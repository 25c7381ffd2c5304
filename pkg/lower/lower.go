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

// Package lower implements the Expression Lowerer (spec §4.3): it
// recursively translates ast.Expression trees into subtrees of an
// agraph.Graph, consulting a symtab.SymbolTable to resolve identifiers and
// memoising variable accesses via VariableRoots so repeated references
// share one subgraph root.
package lower

import (
	"github.com/airscript-lang/airscript-core/pkg/agraph"
	"github.com/airscript-lang/airscript-core/pkg/ast"
	"github.com/airscript-lang/airscript-core/pkg/errors"
	"github.com/airscript-lang/airscript-core/pkg/ir"
	"github.com/airscript-lang/airscript-core/pkg/symtab"
)

// variableKey is the structural memoisation key described by spec §3
// "VariableRoots": a scalar name, a vector/matrix access, or a
// list-comprehension slot. Memoisation is keyed on the *syntactic* access
// form, not the resolved value (spec §4.5): `v[0]` read twice shares a root,
// but `v[0]` and a scalar binding `w` holding the same value do not.
type variableKey struct {
	shape ast.VariableShape
	scope symtab.Scope
	name  string
	row   uint
	col   uint
}

// comprehensionFrame is the single binding frame an Expression Lowerer may
// have active while expanding a list comprehension (spec §3 "ExprContext
// holding an optional list-comprehension binding frame"). Nesting is not
// supported (spec §9): beginning a second frame while one is active is an
// Unsupported error.
type comprehensionFrame struct {
	bindings []ast.Binding
	index    uint
}

// Lowerer translates one constraint section's expressions into graph
// subtrees. Its VariableRoots memo is owned for the lifetime of a single
// constraint-section traversal (spec §3 "Lifecycle"): construct a fresh
// Lowerer per section rather than reusing one across sections.
type Lowerer struct {
	symtab *symtab.SymbolTable
	graph  *agraph.Graph
	scope  symtab.Scope
	roots  map[variableKey]ir.ExprDetails
	frame  *comprehensionFrame
}

// New constructs a Lowerer bound to the given symbol table and graph, for
// lowering expressions declared within the given scope (Boundary or
// Integrity — spec §4.1 "declare_variable").
func New(st *symtab.SymbolTable, g *agraph.Graph, scope symtab.Scope) *Lowerer {
	return &Lowerer{
		symtab: st,
		graph:  g,
		scope:  scope,
		roots:  make(map[variableKey]ir.ExprDetails),
	}
}

// Lower translates expr into a graph subtree under the given default
// constraint domain, returning the resulting ExprDetails or the first
// SemanticError encountered (spec §7: "the first error encountered
// terminates lowering").
func (l *Lowerer) Lower(expr ast.Expression, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	switch e := expr.(type) {
	case ast.Const:
		root := l.graph.InsertOp(ir.Constant{Value: ir.InlineConstant(e.Value)})
		return ir.NewExprDetails(root, ir.MainSegment, defaultDomain), nil
	case ast.Elem:
		return l.lowerElem(e, defaultDomain)
	case ast.VectorAccess:
		return l.lowerVectorAccess(e, defaultDomain)
	case ast.MatrixAccess:
		return l.lowerMatrixAccess(e, defaultDomain)
	case ast.Rand:
		root := l.graph.InsertOp(ir.RandomValue{Index: e.Index})
		return ir.NewExprDetails(root, ir.AuxSegment, defaultDomain), nil
	case ast.IndexedTraceAccess:
		return l.lowerIndexedTraceAccess(e, defaultDomain)
	case ast.NamedTraceAccess:
		return l.lowerNamedTraceAccess(e, defaultDomain)
	case ast.BoundaryTraceAccess:
		return l.lowerBoundaryTraceAccess(e)
	case ast.Add:
		return l.lowerBinOp(e.Lhs, e.Rhs, defaultDomain, func(lhs, rhs ir.NodeIndex) ir.Operation {
			return ir.Add{Lhs: lhs, Rhs: rhs}
		})
	case ast.Sub:
		return l.lowerBinOp(e.Lhs, e.Rhs, defaultDomain, func(lhs, rhs ir.NodeIndex) ir.Operation {
			return ir.Sub{Lhs: lhs, Rhs: rhs}
		})
	case ast.Mul:
		return l.lowerBinOp(e.Lhs, e.Rhs, defaultDomain, func(lhs, rhs ir.NodeIndex) ir.Operation {
			return ir.Mul{Lhs: lhs, Rhs: rhs}
		})
	case ast.Exp:
		return l.lowerExp(e, defaultDomain)
	case ast.ListFolding:
		return ir.ExprDetails{}, errors.Unsupportedf("list folding operator %q is not implemented", e.Operator)
	default:
		return ir.ExprDetails{}, errors.Unsupportedf("unrecognised expression variant %T", expr)
	}
}

func (l *Lowerer) lowerElem(e ast.Elem, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	if l.frame != nil {
		if details, handled, err := l.lowerFrameIdentifier(e.Name, defaultDomain); handled {
			return details, err
		}
	}

	typ, err := l.symtab.GetType(e.Name)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	switch t := typ.(type) {
	case symtab.ConstantScalarType:
		root := l.graph.InsertOp(ir.Constant{Value: ir.ScalarConstant(e.Name)})
		return ir.NewExprDetails(root, ir.MainSegment, defaultDomain), nil
	case symtab.PeriodicColumnType:
		root := l.graph.InsertOp(ir.PeriodicColumn{Index: t.Index, CycleLen: t.CycleLen})
		return ir.NewExprDetails(root, ir.MainSegment, defaultDomain), nil
	case symtab.TraceColumnsType:
		if t.Width != 1 {
			return ir.ExprDetails{}, errors.InvalidUsagef("%s is a %d-wide trace-column group, not a single column", e.Name, t.Width)
		}

		root := l.graph.InsertOp(ir.TraceElement{Access: ir.IndexedTraceAccess{Segment: t.Segment, Column: t.Offset, Offset: 0}})

		return ir.NewExprDetails(root, t.Segment, defaultDomain), nil
	case symtab.IntegrityVariableType:
		return l.lowerScalarVariable(symtab.IntegrityScope, e.Name, t.Type, defaultDomain)
	case symtab.BoundaryVariableType:
		return l.lowerScalarVariable(symtab.BoundaryScope, e.Name, t.Type, defaultDomain)
	default:
		return ir.ExprDetails{}, errors.InvalidUsagef("%s cannot be used as a scalar expression", e.Name)
	}
}

// lowerFrameIdentifier handles an Elem reference that shadows the active
// comprehension's loop variable (spec §4.3 Elem rule, "otherwise, if a
// list-comprehension binding in ExprContext shadows id..."). handled is
// false when name does not match any binding in the active frame, in which
// case the caller falls through to ordinary global resolution.
func (l *Lowerer) lowerFrameIdentifier(name string, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, bool, error) {
	for _, b := range l.frame.bindings {
		if b.Variable != name {
			continue
		}

		switch it := b.Iterable.(type) {
		case ast.IdentifierIterable:
			typ, err := l.symtab.GetType(it.Name)
			if err != nil {
				return ir.ExprDetails{}, true, err
			}

			tc, ok := typ.(symtab.TraceColumnsType)
			if !ok {
				return ir.ExprDetails{}, true, errors.Unsupportedf("comprehension iterable %q is not a trace-column group", it.Name)
			}

			if l.frame.index >= tc.Width {
				return ir.ExprDetails{}, true, errors.IndexOutOfRangef(
					"%s[%d]: group has width %d", it.Name, l.frame.index, tc.Width)
			}

			access := ir.IndexedTraceAccess{Segment: tc.Segment, Column: tc.Offset + l.frame.index, Offset: 0}
			root := l.graph.InsertOp(ir.TraceElement{Access: access})

			return ir.NewExprDetails(root, tc.Segment, defaultDomain), true, nil
		default:
			return ir.ExprDetails{}, true, errors.Unsupportedf("comprehension iterable %q is not a plain identifier", name)
		}
	}

	return ir.ExprDetails{}, false, nil
}

// lowerScalarVariable memoises the lowering of a scalar `let` binding,
// keyed on the variable's name within its scope (spec §4.3 "memoised via
// VariableRoots keyed on Scalar(id); on miss, lower expr and store").
func (l *Lowerer) lowerScalarVariable(
	scope symtab.Scope, name string, vt ast.VariableType, defaultDomain ir.ConstraintDomain,
) (ir.ExprDetails, error) {
	if vt.Shape != ast.ScalarVariable {
		return ir.ExprDetails{}, errors.InvalidUsagef("%s is not a scalar-valued variable", name)
	}

	key := variableKey{shape: ast.ScalarVariable, scope: scope, name: name}
	if details, ok := l.roots[key]; ok {
		return details, nil
	}

	details, err := l.Lower(vt.Scalar, defaultDomain)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	l.roots[key] = details

	return details, nil
}

func (l *Lowerer) lowerVectorAccess(e ast.VectorAccess, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	typ, err := l.symtab.GetType(e.Name)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	switch t := typ.(type) {
	case symtab.ConstantVectorType:
		if e.Index >= t.Length {
			return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d]: vector has length %d", e.Name, e.Index, t.Length)
		}

		root := l.graph.InsertOp(ir.Constant{Value: ir.VectorElementConstant(e.Name, e.Index)})

		return ir.NewExprDetails(root, ir.MainSegment, defaultDomain), nil
	case symtab.TraceColumnsType:
		if e.Index >= t.Width {
			return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d]: group has width %d", e.Name, e.Index, t.Width)
		}

		access := ir.IndexedTraceAccess{Segment: t.Segment, Column: t.Offset + e.Index, Offset: 0}
		root := l.graph.InsertOp(ir.TraceElement{Access: access})

		return ir.NewExprDetails(root, t.Segment, defaultDomain), nil
	case symtab.RandomValuesBindingType:
		if e.Index >= t.Length {
			return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d]: random-value binding has length %d", e.Name, e.Index, t.Length)
		}

		root := l.graph.InsertOp(ir.RandomValue{Index: t.Offset + e.Index})

		return ir.NewExprDetails(root, ir.AuxSegment, defaultDomain), nil
	case symtab.PublicInputType:
		return ir.ExprDetails{}, errors.Unsupportedf("public input %q cannot be read from an expression", e.Name)
	case symtab.IntegrityVariableType:
		return l.lowerIndexedVariable(symtab.IntegrityScope, e.Name, t.Type, e.Index, defaultDomain)
	case symtab.BoundaryVariableType:
		return l.lowerIndexedVariable(symtab.BoundaryScope, e.Name, t.Type, e.Index, defaultDomain)
	default:
		return ir.ExprDetails{}, errors.InvalidUsagef("%s cannot be indexed as a vector", e.Name)
	}
}

// lowerIndexedVariable handles `v[i]` where v is a `let`-bound vector or
// list comprehension (spec §4.3 VectorAccess rule, IntegrityVariable cases).
func (l *Lowerer) lowerIndexedVariable(
	scope symtab.Scope, name string, vt ast.VariableType, index uint, defaultDomain ir.ConstraintDomain,
) (ir.ExprDetails, error) {
	switch vt.Shape {
	case ast.VectorVariable:
		if index >= uint(len(vt.Vector)) {
			return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d]: vector variable has %d elements", name, index, len(vt.Vector))
		}

		key := variableKey{shape: ast.VectorVariable, scope: scope, name: name, row: index}
		if details, ok := l.roots[key]; ok {
			return details, nil
		}

		details, err := l.Lower(vt.Vector[index], defaultDomain)
		if err != nil {
			return ir.ExprDetails{}, err
		}

		l.roots[key] = details

		return details, nil
	case ast.ListComprehensionVariable:
		return l.lowerComprehensionSlot(scope, name, vt.Comprehension, index, defaultDomain)
	default:
		return ir.ExprDetails{}, errors.InvalidUsagef("%s is not a vector or list-comprehension variable", name)
	}
}

// lowerComprehensionSlot expands one element of an eagerly-unrolled list
// comprehension (spec §4.3 "set ExprContext.comprehension = (lc.bindings,
// i), memoised-lower lc.expression, restore context"; spec §4.5 "Comprehension
// expansion is eager: a comprehension of length n produces n independent
// subgraphs").
func (l *Lowerer) lowerComprehensionSlot(
	scope symtab.Scope, name string, lc ast.ListComprehension, index uint, defaultDomain ir.ConstraintDomain,
) (ir.ExprDetails, error) {
	key := variableKey{shape: ast.ListComprehensionVariable, scope: scope, name: name, row: index}
	if details, ok := l.roots[key]; ok {
		return details, nil
	}

	if l.frame != nil {
		return ir.ExprDetails{}, errors.Unsupportedf("nested list comprehensions are not supported (%s)", name)
	}

	l.frame = &comprehensionFrame{bindings: lc.Bindings, index: index}
	details, err := l.Lower(lc.Body, defaultDomain)
	l.frame = nil

	if err != nil {
		return ir.ExprDetails{}, err
	}

	l.roots[key] = details

	return details, nil
}

func (l *Lowerer) lowerMatrixAccess(e ast.MatrixAccess, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	typ, err := l.symtab.GetType(e.Name)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	switch t := typ.(type) {
	case symtab.ConstantMatrixType:
		if e.Row >= t.Rows || e.Col >= t.Cols {
			return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d][%d]: matrix is %dx%d", e.Name, e.Row, e.Col, t.Rows, t.Cols)
		}

		root := l.graph.InsertOp(ir.Constant{Value: ir.MatrixElementConstant(e.Name, e.Row, e.Col)})

		return ir.NewExprDetails(root, ir.MainSegment, defaultDomain), nil
	case symtab.IntegrityVariableType:
		return l.lowerMatrixVariable(symtab.IntegrityScope, e.Name, t.Type, e.Row, e.Col, defaultDomain)
	case symtab.BoundaryVariableType:
		return l.lowerMatrixVariable(symtab.BoundaryScope, e.Name, t.Type, e.Row, e.Col, defaultDomain)
	default:
		return ir.ExprDetails{}, errors.InvalidUsagef("%s cannot be indexed as a matrix", e.Name)
	}
}

func (l *Lowerer) lowerMatrixVariable(
	scope symtab.Scope, name string, vt ast.VariableType, row, col uint, defaultDomain ir.ConstraintDomain,
) (ir.ExprDetails, error) {
	if vt.Shape != ast.MatrixVariable {
		return ir.ExprDetails{}, errors.InvalidUsagef("%s is not a matrix-valued variable", name)
	}

	if row >= uint(len(vt.Matrix)) || col >= uint(len(vt.Matrix[row])) {
		return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d][%d]: out of range", name, row, col)
	}

	key := variableKey{shape: ast.MatrixVariable, scope: scope, name: name, row: row, col: col}
	if details, ok := l.roots[key]; ok {
		return details, nil
	}

	details, err := l.Lower(vt.Matrix[row][col], defaultDomain)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	l.roots[key] = details

	return details, nil
}

func (l *Lowerer) lowerIndexedTraceAccess(e ast.IndexedTraceAccess, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	widths := l.symtab.SegmentWidths()

	if uint(e.Segment) >= uint(len(widths)) {
		return ir.ExprDetails{}, errors.IndexOutOfRangef("trace segment %d does not exist", e.Segment)
	}

	if e.Column >= widths[e.Segment] {
		return ir.ExprDetails{}, errors.IndexOutOfRangef("column %d exceeds segment %d width %d", e.Column, e.Segment, widths[e.Segment])
	}

	if e.Offset != 0 && e.Offset != 1 {
		return ir.ExprDetails{}, errors.InvalidUsagef("row offset %d is not 0 (current) or 1 (next)", e.Offset)
	}

	segment := ir.TraceSegment(e.Segment)
	access := ir.IndexedTraceAccess{Segment: segment, Column: e.Column, Offset: e.Offset}
	root := l.graph.InsertOp(ir.TraceElement{Access: access})

	return ir.NewExprDetails(root, segment, defaultDomain), nil
}

func (l *Lowerer) lowerNamedTraceAccess(e ast.NamedTraceAccess, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	typ, err := l.symtab.GetType(e.Name)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	tc, ok := typ.(symtab.TraceColumnsType)
	if !ok {
		return ir.ExprDetails{}, errors.InvalidUsagef("%s is not a trace-column group", e.Name)
	}

	if e.Index >= tc.Width {
		return ir.ExprDetails{}, errors.IndexOutOfRangef("%s[%d]: group has width %d", e.Name, e.Index, tc.Width)
	}

	return l.lowerIndexedTraceAccess(ast.IndexedTraceAccess{
		Segment: uint8(tc.Segment),
		Column:  tc.Offset + e.Index,
		Offset:  e.Offset,
	}, defaultDomain)
}

// lowerBoundaryTraceAccess handles a `.first`/`.last` reference occurring
// inside a boundary Value expression. Its domain is fixed by its own edge,
// not by the caller's defaultDomain, so that e.g. `b.last` referenced inside
// an `a.first = ...` statement surfaces as an IncompatibleConstraintDomains
// merge conflict rather than silently inheriting `a`'s edge.
func (l *Lowerer) lowerBoundaryTraceAccess(e ast.BoundaryTraceAccess) (ir.ExprDetails, error) {
	var domain ir.ConstraintDomain
	switch e.Edge {
	case ast.FirstRowEdge:
		domain = ir.FirstRow()
	case ast.LastRowEdge:
		domain = ir.LastRow()
	default:
		return ir.ExprDetails{}, errors.InvalidUsagef("unrecognised boundary edge %d", e.Edge)
	}

	return l.lowerNamedTraceAccess(ast.NamedTraceAccess{Name: e.Name, Index: e.Index}, domain)
}

func (l *Lowerer) lowerBinOp(
	lhsExpr, rhsExpr ast.Expression, defaultDomain ir.ConstraintDomain, ctor func(lhs, rhs ir.NodeIndex) ir.Operation,
) (ir.ExprDetails, error) {
	lhs, err := l.Lower(lhsExpr, defaultDomain)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	rhs, err := l.Lower(rhsExpr, defaultDomain)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	details, ok := l.graph.InsertBinOp(ctor, lhs, rhs)
	if !ok {
		return ir.ExprDetails{}, errors.IncompatibleDomainsf(lhs.Domain, rhs.Domain)
	}

	return details, nil
}

func (l *Lowerer) lowerExp(e ast.Exp, defaultDomain ir.ConstraintDomain) (ir.ExprDetails, error) {
	base, err := l.Lower(e.Base, defaultDomain)
	if err != nil {
		return ir.ExprDetails{}, err
	}

	k, ok := e.Exponent.(ast.Const)
	if !ok {
		return ir.ExprDetails{}, errors.Unsupportedf("Exp exponent must be a constant, got %T", e.Exponent)
	}

	root := l.graph.InsertOp(ir.Exp{Arg: base.Root, Power: k.Value})

	return ir.NewExprDetails(root, base.Segment, base.Domain).WithInline(k.Value), nil
}
