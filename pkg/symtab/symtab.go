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
package symtab

import (
	"github.com/airscript-lang/airscript-core/pkg/ast"
	"github.com/airscript-lang/airscript-core/pkg/errors"
	"github.com/airscript-lang/airscript-core/pkg/ir"
)

// Scope identifies which kind of scoped variable binding a `let` belongs to
// (spec §4.1 "declare_variable": scope is Boundary or Integrity).
type Scope uint8

// The two constraint-section scopes.
const (
	BoundaryScope Scope = iota
	IntegrityScope
)

// PeriodicColumnInfo is one entry of the declaration-ordered periodic-column
// list exposed to the backend (spec §6).
type PeriodicColumnInfo struct {
	Name     string
	Index    uint
	CycleLen uint
}

// PublicInputInfo is one entry of the declaration-ordered public-input list
// exposed to the backend (spec §6).
type PublicInputInfo struct {
	Name   string
	Length uint
}

// SymbolTable is the single flat namespace of declarations described in
// spec §4.1. Global declarations are made during AST intake and the table
// is then frozen (spec §3 "Lifecycle"); scoped variables are declared and
// dropped once per constraint-section traversal.
type SymbolTable struct {
	globals     map[string]IdentifierType
	periodics   []PeriodicColumnInfo
	publics     []PublicInputInfo
	segmentW    [2]uint
	scopeVars   map[string]ast.VariableType
	activeScope Scope
	scopeOpen   bool
	frozen      bool
}

// New constructs an empty, unfrozen symbol table.
func New() *SymbolTable {
	return &SymbolTable{
		globals:   make(map[string]IdentifierType),
		scopeVars: make(map[string]ast.VariableType),
	}
}

// Freeze marks global declaration complete; subsequent calls to the
// Declare* family return an error. Scoped variable binding remains
// available after freezing (it happens entirely during constraint
// lowering, which only ever runs post-freeze).
func (t *SymbolTable) Freeze() { t.frozen = true }

// Frozen reports whether Freeze has been called.
func (t *SymbolTable) Frozen() bool { return t.frozen }

func (t *SymbolTable) checkMutable() error {
	if t.frozen {
		return errors.InvalidUsagef("symbol table is frozen")
	}

	return nil
}

// declareGlobal registers a new global identifier, failing with
// DuplicateIdentifier if the name is already declared as a global (spec
// §4.1: "no shadowing is permitted across global declarations").
func (t *SymbolTable) declareGlobal(name string, typ IdentifierType) error {
	if err := t.checkMutable(); err != nil {
		return err
	}

	if _, ok := t.globals[name]; ok {
		return errors.Duplicatef(name)
	}

	t.globals[name] = typ

	return nil
}

// DeclareConstantScalar declares a named scalar constant.
func (t *SymbolTable) DeclareConstantScalar(name string) error {
	return t.declareGlobal(name, ConstantScalarType{})
}

// DeclareConstantVector declares a named vector constant of a fixed length.
func (t *SymbolTable) DeclareConstantVector(name string, length uint) error {
	return t.declareGlobal(name, ConstantVectorType{Length: length})
}

// DeclareConstantMatrix declares a named matrix constant of fixed
// dimensions.
func (t *SymbolTable) DeclareConstantMatrix(name string, rows, cols uint) error {
	return t.declareGlobal(name, ConstantMatrixType{Rows: rows, Cols: cols})
}

// DeclarePublicInput declares a named public input of a fixed length.
func (t *SymbolTable) DeclarePublicInput(name string, length uint) error {
	if err := t.declareGlobal(name, PublicInputType{Length: length}); err != nil {
		return err
	}

	t.publics = append(t.publics, PublicInputInfo{Name: name, Length: length})

	return nil
}

// DeclarePeriodicColumn declares a named periodic column, assigning it the
// next declaration-order index.
func (t *SymbolTable) DeclarePeriodicColumn(name string, cycleLen uint) error {
	index := uint(len(t.periodics))
	if err := t.declareGlobal(name, PeriodicColumnType{Index: index, CycleLen: cycleLen}); err != nil {
		return err
	}

	t.periodics = append(t.periodics, PeriodicColumnInfo{Name: name, Index: index, CycleLen: cycleLen})

	return nil
}

// DeclareRandomValues declares the verifier-supplied random challenges bound
// to a name.
func (t *SymbolTable) DeclareRandomValues(name string, length uint) error {
	return t.declareGlobal(name, RandomValuesBindingType{Offset: 0, Length: length})
}

// DeclareTraceColumnGroup declares one group of a trace segment (e.g. `a[4]`
// or `b`), consuming the next `width` columns of that segment (spec §4.1
// "Key contracts"). It returns the offset assigned to the group's first
// column.
func (t *SymbolTable) DeclareTraceColumnGroup(segment ir.TraceSegment, name string, width uint) (uint, error) {
	offset := t.segmentW[segment]
	if err := t.declareGlobal(name, TraceColumnsType{Segment: segment, Offset: offset, Width: width}); err != nil {
		return 0, err
	}

	t.segmentW[segment] += width

	return offset, nil
}

// SegmentWidths returns the declared width of each trace segment;
// SegmentWidths()[0] is main, [1] is auxiliary (spec §4.1).
func (t *SymbolTable) SegmentWidths() []uint {
	return []uint{t.segmentW[ir.MainSegment], t.segmentW[ir.AuxSegment]}
}

// PeriodicColumns returns the declared periodic columns in declaration
// order (spec §6).
func (t *SymbolTable) PeriodicColumns() []PeriodicColumnInfo { return t.periodics }

// PublicInputs returns the declared public inputs in declaration order
// (spec §6).
func (t *SymbolTable) PublicInputs() []PublicInputInfo { return t.publics }

// ---------------------------------------------------------------------------
// Scoped variables
// ---------------------------------------------------------------------------

// BeginScope opens a fresh variable-binding scope for one constraint
// section. Only one scope may be open at a time; callers must pair this
// with EndScope (typically via defer, so it fires on error paths too — spec
// §5 "guaranteed pop on all exit paths").
func (t *SymbolTable) BeginScope(scope Scope) {
	t.activeScope = scope
	t.scopeOpen = true
	t.scopeVars = make(map[string]ast.VariableType)
}

// EndScope drops every variable bound during the current scope.
func (t *SymbolTable) EndScope() {
	t.scopeOpen = false
	t.scopeVars = make(map[string]ast.VariableType)
}

// DeclareVariable binds `name` within the currently open scope to the given
// VariableType. Variables may shadow a global declaration of the same name,
// but two variables of the same name within one scope collide with
// DuplicateIdentifier (spec §4.1 "variables may shadow only within their
// own scope").
func (t *SymbolTable) DeclareVariable(scope Scope, name string, vt ast.VariableType) error {
	if !t.scopeOpen || scope != t.activeScope {
		return errors.InvalidUsagef("no %v scope is currently open", scopeName(scope))
	}

	if _, ok := t.scopeVars[name]; ok {
		return errors.Duplicatef(name)
	}

	t.scopeVars[name] = vt

	return nil
}

func scopeName(s Scope) string {
	if s == BoundaryScope {
		return "boundary"
	}

	return "integrity"
}

// GetType resolves an identifier, preferring a scoped variable binding over
// a global declaration, and fails with Undeclared if neither exists (spec
// §4.1 "get_type").
func (t *SymbolTable) GetType(name string) (IdentifierType, error) {
	if t.scopeOpen {
		if vt, ok := t.scopeVars[name]; ok {
			if t.activeScope == BoundaryScope {
				return BoundaryVariableType{Type: vt}, nil
			}

			return IntegrityVariableType{Type: vt}, nil
		}
	}

	if typ, ok := t.globals[name]; ok {
		return typ, nil
	}

	return nil, errors.Undeclaredf(name)
}

// ---------------------------------------------------------------------------
// Indexed access
// ---------------------------------------------------------------------------

// AccessVectorElement resolves `name[index]` where `name` is a declared
// vector constant or trace-column group, validating bounds and returning
// the resolved IdentifierType for the element: a scalar constant for
// constant indexing, or the narrowed single-column group for named trace
// access (spec §4.1 "access_vector_element"). Variable-bound vectors and
// list comprehensions are resolved directly by the lowerer against the
// VariableType it already holds, not through this method.
func (t *SymbolTable) AccessVectorElement(name string, index uint) (IdentifierType, error) {
	base, err := t.GetType(name)
	if err != nil {
		return nil, err
	}

	switch b := base.(type) {
	case ConstantVectorType:
		if index >= b.Length {
			return nil, errors.IndexOutOfRangef("%s[%d]: vector has length %d", name, index, b.Length)
		}

		return ConstantScalarType{}, nil
	case TraceColumnsType:
		if index >= b.Width {
			return nil, errors.IndexOutOfRangef("%s[%d]: group has width %d", name, index, b.Width)
		}

		return TraceColumnsType{Segment: b.Segment, Offset: b.Offset + index, Width: 1}, nil
	default:
		return nil, errors.InvalidUsagef("%s is not a vector or trace-column group", name)
	}
}

// AccessMatrixElement resolves `name[row][col]` where `name` is a declared
// matrix constant, validating bounds (spec §4.1 "access_matrix_element").
func (t *SymbolTable) AccessMatrixElement(name string, row, col uint) (IdentifierType, error) {
	base, err := t.GetType(name)
	if err != nil {
		return nil, err
	}

	m, ok := base.(ConstantMatrixType)
	if !ok {
		return nil, errors.InvalidUsagef("%s is not a matrix", name)
	}

	if row >= m.Rows || col >= m.Cols {
		return nil, errors.IndexOutOfRangef("%s[%d][%d]: matrix is %dx%d", name, row, col, m.Rows, m.Cols)
	}

	return ConstantScalarType{}, nil
}
