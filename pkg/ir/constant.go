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
package ir

import (
	"fmt"
	"hash/fnv"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// ConstantKind distinguishes the four shapes a ConstantValue can take.
type ConstantKind uint8

const (
	// InlineConstantKind is a literal u64 appearing directly in source.
	InlineConstantKind ConstantKind = iota
	// ScalarConstantKind references a named scalar constant declaration.
	ScalarConstantKind
	// VectorElementConstantKind references one element of a named vector
	// constant declaration.
	VectorElementConstantKind
	// MatrixElementConstantKind references one element of a named matrix
	// constant declaration.
	MatrixElementConstantKind
)

// ConstantValue is the payload of a Constant operation: either an inline u64
// literal, or a reference to a named scalar/vector-element/matrix-element
// constant declaration (spec §3, Operation.Constant). Inline literals are
// stored as a field element rather than a bare machine integer, matching how
// the teacher's HIR/MIR/AIR layers represent every constant (pkg/hir/expr.go
// `NewConst64`: `fr.NewElement(val)`) — so an inline literal and a later
// field-arithmetic result can be compared/folded without a conversion step.
type ConstantValue struct {
	kind   ConstantKind
	inline fr.Element
	name   string
	row    uint
	col    uint
}

// InlineConstant constructs the constant value for a literal u64, lifting it
// into the field immediately (spec §3 "inline u64").
func InlineConstant(value uint64) ConstantValue {
	return ConstantValue{kind: InlineConstantKind, inline: fr.NewElement(value)}
}

// ScalarConstant constructs the constant value referencing a named scalar
// constant.
func ScalarConstant(name string) ConstantValue {
	return ConstantValue{kind: ScalarConstantKind, name: name}
}

// VectorElementConstant constructs the constant value referencing element
// `index` of a named vector constant.
func VectorElementConstant(name string, index uint) ConstantValue {
	return ConstantValue{kind: VectorElementConstantKind, name: name, row: index}
}

// MatrixElementConstant constructs the constant value referencing element
// (row, col) of a named matrix constant.
func MatrixElementConstant(name string, row, col uint) ConstantValue {
	return ConstantValue{kind: MatrixElementConstantKind, name: name, row: row, col: col}
}

// Kind returns which of the four constant shapes this is.
func (c ConstantValue) Kind() ConstantKind { return c.kind }

// Inline returns the literal value as a field element; only meaningful when
// Kind() == InlineConstantKind.
func (c ConstantValue) Inline() fr.Element { return c.inline }

// Name returns the referenced declaration's name; only meaningful for the
// three reference kinds.
func (c ConstantValue) Name() string { return c.name }

// Row returns the vector index, or the matrix row; only meaningful for the
// two element-reference kinds.
func (c ConstantValue) Row() uint { return c.row }

// Col returns the matrix column; only meaningful for
// MatrixElementConstantKind.
func (c ConstantValue) Col() uint { return c.col }

// Equals implements hash.Hasher for use as an Operation payload.
func (c ConstantValue) Equals(other ConstantValue) bool {
	return c.kind == other.kind && c.inline.Equal(&other.inline) && c.name == other.name &&
		c.row == other.row && c.col == other.col
}

// Hash implements hash.Hasher.
func (c ConstantValue) Hash() uint64 {
	bytes := c.inline.Bytes()
	h := fnv.New64a()
	h.Write(bytes[:])
	fmt.Fprintf(h, "|%d|%s|%d|%d", c.kind, c.name, c.row, c.col)

	return h.Sum64()
}

// String renders this constant for diagnostics.
func (c ConstantValue) String() string {
	switch c.kind {
	case InlineConstantKind:
		return c.inline.String()
	case ScalarConstantKind:
		return c.name
	case VectorElementConstantKind:
		return fmt.Sprintf("%s[%d]", c.name, c.row)
	case MatrixElementConstantKind:
		return fmt.Sprintf("%s[%d][%d]", c.name, c.row, c.col)
	default:
		return "?"
	}
}
