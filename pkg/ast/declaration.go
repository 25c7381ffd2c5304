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
package ast

// ConstantShape distinguishes the three shapes a named constant declaration
// can take.
type ConstantShape uint8

// The three constant shapes (spec §3 "IdentifierType", Constant(Scalar |
// Vector | Matrix)).
const (
	ScalarConstant ConstantShape = iota
	VectorConstant
	MatrixConstant
)

// ConstantDecl declares a named constant. Length is meaningful only for
// VectorConstant; Rows/Cols only for MatrixConstant.
type ConstantDecl struct {
	Name   string
	Shape  ConstantShape
	Length uint
	Rows   uint
	Cols   uint
}

// PublicInputDecl declares a named public input of a fixed length.
type PublicInputDecl struct {
	Name   string
	Length uint
}

// PeriodicColumnDecl declares a named periodic column. CycleLen must be a
// power of two >= 2 (enforced upstream by the parser; spec §3).
type PeriodicColumnDecl struct {
	Name     string
	CycleLen uint
}

// TraceColumnGroupDecl declares one group within a `main:` or `aux:` trace
// block, e.g. `a[4]` (Width 4) or `b` (Width 1).
type TraceColumnGroupDecl struct {
	Name  string
	Width uint
}

// RandomValuesDecl declares the verifier-supplied random challenges bound
// to a name, e.g. `random_values: rand: [16]`.
type RandomValuesDecl struct {
	Name   string
	Length uint
}

// VariableDecl is a `let name = ...` binding local to one constraint
// section (spec §4.1 "declare_variable").
type VariableDecl struct {
	Name string
	Type VariableType
}

// VariableShape distinguishes the four shapes a VariableType can take.
type VariableShape uint8

// The four variable shapes (spec §3 "VariableType").
const (
	ScalarVariable VariableShape = iota
	VectorVariable
	MatrixVariable
	ListComprehensionVariable
)

// VariableType is the right-hand side of a `let` binding: a scalar
// expression, a vector or matrix of expressions, or a list comprehension.
type VariableType struct {
	Shape         VariableShape
	Scalar        Expression
	Vector        []Expression
	Matrix        [][]Expression
	Comprehension ListComprehension
}

// BoundaryEdge identifies whether a boundary statement constrains the first
// or last row of a segment.
type BoundaryEdge uint8

// The two boundary edges.
const (
	FirstRowEdge BoundaryEdge = iota
	LastRowEdge
)

// BoundaryStmt is one `column.first = value` / `column.last = value`
// statement.
type BoundaryStmt struct {
	Column NamedTraceAccess
	Edge   BoundaryEdge
	Value  Expression
}

// BoundarySection is one `boundary_constraints { ... }` block: zero or more
// local variable bindings, scoped to this section, followed by its
// statements.
type BoundarySection struct {
	Lets       []VariableDecl
	Statements []BoundaryStmt
}

// IntegrityStmt is one `lhs = rhs` integrity equality.
type IntegrityStmt struct {
	Lhs, Rhs Expression
}

// IntegritySection is one `integrity_constraints { ... }` block.
type IntegritySection struct {
	Lets       []VariableDecl
	Statements []IntegrityStmt
}

// EvaluatorFunctionDecl declares a reusable integrity-constraint evaluator
// parameterised over trace-column groups (spec §6 lists this among the
// declaration kinds consumed from the parser). Invocation/expansion of
// evaluator calls is not defined by spec §4.3's lowering rules and is
// therefore not processed by this module; the shape is kept so a driver can
// still construct and inspect a complete parsed circuit.
type EvaluatorFunctionDecl struct {
	Name           string
	MainTrace      []TraceColumnGroupDecl
	AuxTrace       []TraceColumnGroupDecl
	IntegrityStmts []IntegrityStmt
}

// Circuit is the root of one parsed AirScript source program.
type Circuit struct {
	Constants            []ConstantDecl
	PublicInputs         []PublicInputDecl
	PeriodicColumns      []PeriodicColumnDecl
	MainTraceColumns     []TraceColumnGroupDecl
	AuxTraceColumns      []TraceColumnGroupDecl
	RandomValues         *RandomValuesDecl
	BoundaryConstraints  []BoundarySection
	IntegrityConstraints []IntegritySection
	EvaluatorFunctions   []EvaluatorFunctionDecl
}
