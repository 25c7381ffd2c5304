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

// Package symtab implements the flat-namespace Symbol Table of spec §4.1:
// declaration of named constants, public inputs, periodic columns,
// trace-column groups and scoped variables, and resolution of identifiers
// and indexed accesses against them.
package symtab

import (
	"github.com/airscript-lang/airscript-core/pkg/ast"
	"github.com/airscript-lang/airscript-core/pkg/ir"
)

// IdentifierType is what a declared name resolves to (spec §3
// "IdentifierType"). Every declaration (global or scoped variable) is
// exactly one of the variants below.
type IdentifierType interface {
	isIdentifierType()
}

// ConstantScalarType marks a name as a scalar constant.
type ConstantScalarType struct{}

func (ConstantScalarType) isIdentifierType() {}

// ConstantVectorType marks a name as a vector constant of a fixed length.
type ConstantVectorType struct{ Length uint }

func (ConstantVectorType) isIdentifierType() {}

// ConstantMatrixType marks a name as a matrix constant of fixed dimensions.
type ConstantMatrixType struct{ Rows, Cols uint }

func (ConstantMatrixType) isIdentifierType() {}

// PublicInputType marks a name as a public input of a fixed length.
type PublicInputType struct{ Length uint }

func (PublicInputType) isIdentifierType() {}

// PeriodicColumnType marks a name as a periodic column, carrying its
// declaration-order index and its cycle length.
type PeriodicColumnType struct {
	Index    uint
	CycleLen uint
}

func (PeriodicColumnType) isIdentifierType() {}

// TraceColumnsType marks a name as a trace-column group (or, after
// AccessVectorElement narrows it, a single resolved column within one):
// which segment it lives in, its starting offset within that segment, and
// its width.
type TraceColumnsType struct {
	Segment ir.TraceSegment
	Offset  uint
	Width   uint
}

func (TraceColumnsType) isIdentifierType() {}

// BoundaryVariableType marks a name as a `let` binding local to a boundary
// constraints section.
type BoundaryVariableType struct{ Type ast.VariableType }

func (BoundaryVariableType) isIdentifierType() {}

// IntegrityVariableType marks a name as a `let` binding local to an
// integrity constraints section.
type IntegrityVariableType struct{ Type ast.VariableType }

func (IntegrityVariableType) isIdentifierType() {}

// RandomValuesBindingType marks a name as a binding to a block of
// verifier-supplied random challenges.
type RandomValuesBindingType struct {
	Offset uint
	Length uint
}

func (RandomValuesBindingType) isIdentifierType() {}
