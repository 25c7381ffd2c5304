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

// Package ast defines the input data model consumed from the (out-of-scope)
// parser: expression trees and the declarations that make up an AirScript
// source program. The grammar that produces this shape, the lexer, and
// syntactic validation are external collaborators (spec §1); this package
// only fixes the Go representation of their output.
package ast

// Expression is an AirScript expression tree node. The concrete variants
// below mirror spec §4.3's lowering rules one-to-one: Const, Elem,
// VectorAccess, MatrixAccess, Rand, IndexedTraceAccess, NamedTraceAccess,
// Add, Sub, Mul, Exp and ListFolding. BoundaryTraceAccess is one further
// variant, for `.first`/`.last` references inside boundary values.
type Expression interface {
	isExpression()
}

// Const is an inline u64 literal.
type Const struct{ Value uint64 }

func (Const) isExpression() {}

// Elem is a bare identifier reference (a constant, variable, periodic
// column, trace-column group, or comprehension-bound loop variable,
// disambiguated at lowering time by consulting the symbol table).
type Elem struct{ Name string }

func (Elem) isExpression() {}

// VectorAccess is `name[index]`.
type VectorAccess struct {
	Name  string
	Index uint
}

func (VectorAccess) isExpression() {}

// MatrixAccess is `name[row][col]`.
type MatrixAccess struct {
	Name     string
	Row, Col uint
}

func (MatrixAccess) isExpression() {}

// Rand is `$rand[index]`, a verifier-supplied random challenge.
type Rand struct{ Index uint }

func (Rand) isExpression() {}

// IndexedTraceAccess is a fully-resolved `(segment, column, row_offset)`
// trace cell access, as produced by rewriting a NamedTraceAccess.
type IndexedTraceAccess struct {
	Segment uint8
	Column  uint
	Offset  uint8
}

func (IndexedTraceAccess) isExpression() {}

// NamedTraceAccess is `name[index]'` (trailing `'` denotes the next row),
// referencing a declared trace-column group by name.
type NamedTraceAccess struct {
	Name   string
	Index  uint
	Offset uint8
}

func (NamedTraceAccess) isExpression() {}

// BoundaryTraceAccess is `name[index].first` / `name[index].last`: a
// boundary-row reference to a trace-column group that appears inside a
// boundary statement's Value expression rather than as its Column (spec §4.1
// boundary grammar allows `.first`/`.last` on either side of the equality,
// e.g. `a.first = b.first + c`). Unlike NamedTraceAccess, the edge here fixes
// the expression's own ConstraintDomain independent of whatever domain the
// enclosing statement passes down.
type BoundaryTraceAccess struct {
	Name  string
	Index uint
	Edge  BoundaryEdge
}

func (BoundaryTraceAccess) isExpression() {}

// Add is `lhs + rhs`.
type Add struct{ Lhs, Rhs Expression }

func (Add) isExpression() {}

// Sub is `lhs - rhs`.
type Sub struct{ Lhs, Rhs Expression }

func (Sub) isExpression() {}

// Mul is `lhs * rhs`.
type Mul struct{ Lhs, Rhs Expression }

func (Mul) isExpression() {}

// Exp is `base^exponent`. Per spec §4.3, the exponent must itself be a
// Const node; anything else (including a named constant) is an Unsupported
// error.
type Exp struct{ Base, Exponent Expression }

func (Exp) isExpression() {}

// ListFolding is a fold over a list expression (e.g. `sum(...)` /
// `prod(...)` applied to a comprehension or vector). Spec §4.3 and §9 mark
// this reserved/unimplemented; it is kept as a named AST shape so callers
// can construct it, but lowering always reports Unsupported for it.
type ListFolding struct {
	Operator string
	List     Expression
}

func (ListFolding) isExpression() {}

// ---------------------------------------------------------------------------
// List comprehensions
// ---------------------------------------------------------------------------

// Binding binds one loop variable of a list comprehension to an iterable.
type Binding struct {
	Variable string
	Iterable Iterable
}

// Iterable is the source a comprehension binding iterates over.
type Iterable interface {
	isIterable()
}

// IdentifierIterable iterates over a declared identifier (spec §4.3: "For
// iterable Identifier(g) resolving to a TraceColumns group..."). This is the
// only iterable form spec §4.3 gives lowering semantics for.
type IdentifierIterable struct{ Name string }

func (IdentifierIterable) isIterable() {}

// OtherIterable stands in for any iterable shape besides a bare identifier
// (e.g. a nested slice literal). Spec §4.3 reserves these as Unsupported;
// this variant exists so the AST can represent them without guessing at
// lowering semantics spec.md does not define.
type OtherIterable struct{ Description string }

func (OtherIterable) isIterable() {}

// ListComprehension is `[body for (bindings) in (iterables)]`.
type ListComprehension struct {
	Bindings []Binding
	Body     Expression
}
