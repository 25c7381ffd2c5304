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

	"github.com/airscript-lang/airscript-core/pkg/util/collection/hash"
)

// Operation is a node in the Algebraic Graph: exactly one of the variants
// below (spec §3 "Operation"). Concrete implementations are value types so
// that structural equality (required for hash-consing) is ordinary Go
// equality of fields, never pointer identity.
type Operation interface {
	hash.Hasher[Operation]
	// Children returns the child node indices this operation references, in
	// evaluation order. Leaf operations (Constant, TraceElement,
	// PeriodicColumn, RandomValue) return nil.
	Children() []NodeIndex
	// String renders this operation for diagnostics.
	String() string
	// tag is unexported so Operation cannot be implemented outside this
	// package; every variant is enumerated here.
	tag() opTag
}

type opTag uint8

const (
	tagConstant opTag = iota
	tagTraceElement
	tagPeriodicColumn
	tagRandomValue
	tagNeg
	tagAdd
	tagSub
	tagMul
	tagExp
)

// ---------------------------------------------------------------------------
// Constant
// ---------------------------------------------------------------------------

// Constant is an inline literal or a reference to a named scalar, vector
// element or matrix element constant.
type Constant struct{ Value ConstantValue }

func (Constant) tag() opTag             { return tagConstant }
func (o Constant) Children() []NodeIndex { return nil }
func (o Constant) String() string        { return o.Value.String() }

// Equals implements hash.Hasher.
func (o Constant) Equals(other Operation) bool {
	t, ok := other.(Constant)
	return ok && o.Value.Equals(t.Value)
}

// Hash implements hash.Hasher.
func (o Constant) Hash() uint64 {
	return mix(uint64(tagConstant), o.Value.Hash())
}

// ---------------------------------------------------------------------------
// TraceElement
// ---------------------------------------------------------------------------

// TraceElement reads a single trace cell: (segment, column, row_offset).
type TraceElement struct{ Access IndexedTraceAccess }

func (TraceElement) tag() opTag              { return tagTraceElement }
func (o TraceElement) Children() []NodeIndex { return nil }

func (o TraceElement) String() string {
	return fmt.Sprintf("Trace(%d,%d,+%d)", o.Access.Segment, o.Access.Column, o.Access.Offset)
}

// Equals implements hash.Hasher.
func (o TraceElement) Equals(other Operation) bool {
	t, ok := other.(TraceElement)
	return ok && o.Access.Equals(t.Access)
}

// Hash implements hash.Hasher.
func (o TraceElement) Hash() uint64 {
	return mix(uint64(tagTraceElement), uint64(o.Access.Segment), uint64(o.Access.Column), uint64(o.Access.Offset))
}

// ---------------------------------------------------------------------------
// PeriodicColumn
// ---------------------------------------------------------------------------

// PeriodicColumn references a declared periodic column by index, carrying
// its cycle length (a power of two >= 2) for degree accounting.
type PeriodicColumn struct {
	Index    uint
	CycleLen uint
}

func (PeriodicColumn) tag() opTag              { return tagPeriodicColumn }
func (o PeriodicColumn) Children() []NodeIndex { return nil }
func (o PeriodicColumn) String() string        { return fmt.Sprintf("Periodic(%d,len=%d)", o.Index, o.CycleLen) }

// Equals implements hash.Hasher.
func (o PeriodicColumn) Equals(other Operation) bool {
	t, ok := other.(PeriodicColumn)
	return ok && o.Index == t.Index && o.CycleLen == t.CycleLen
}

// Hash implements hash.Hasher.
func (o PeriodicColumn) Hash() uint64 {
	return mix(uint64(tagPeriodicColumn), uint64(o.Index), uint64(o.CycleLen))
}

// ---------------------------------------------------------------------------
// RandomValue
// ---------------------------------------------------------------------------

// RandomValue references a verifier-supplied random challenge by index.
// Implies the auxiliary segment.
type RandomValue struct{ Index uint }

func (RandomValue) tag() opTag              { return tagRandomValue }
func (o RandomValue) Children() []NodeIndex { return nil }
func (o RandomValue) String() string        { return fmt.Sprintf("Rand(%d)", o.Index) }

// Equals implements hash.Hasher.
func (o RandomValue) Equals(other Operation) bool {
	t, ok := other.(RandomValue)
	return ok && o.Index == t.Index
}

// Hash implements hash.Hasher.
func (o RandomValue) Hash() uint64 { return mix(uint64(tagRandomValue), uint64(o.Index)) }

// ---------------------------------------------------------------------------
// Neg
// ---------------------------------------------------------------------------

// Neg negates its single child.
type Neg struct{ Arg NodeIndex }

func (Neg) tag() opTag              { return tagNeg }
func (o Neg) Children() []NodeIndex { return []NodeIndex{o.Arg} }
func (o Neg) String() string        { return fmt.Sprintf("Neg(%d)", o.Arg) }

// Equals implements hash.Hasher.
func (o Neg) Equals(other Operation) bool {
	t, ok := other.(Neg)
	return ok && o.Arg == t.Arg
}

// Hash implements hash.Hasher.
func (o Neg) Hash() uint64 { return mix(uint64(tagNeg), uint64(o.Arg)) }

// ---------------------------------------------------------------------------
// Add / Sub / Mul
// ---------------------------------------------------------------------------

// Add is the sum of two children. Operand order is significant: Add{a,b}
// and Add{b,a} are distinct nodes (spec §4.5, deliberate non-canonicalisation
// to preserve source correspondence).
type Add struct{ Lhs, Rhs NodeIndex }

func (Add) tag() opTag              { return tagAdd }
func (o Add) Children() []NodeIndex { return []NodeIndex{o.Lhs, o.Rhs} }
func (o Add) String() string        { return fmt.Sprintf("Add(%d,%d)", o.Lhs, o.Rhs) }

// Equals implements hash.Hasher.
func (o Add) Equals(other Operation) bool {
	t, ok := other.(Add)
	return ok && o.Lhs == t.Lhs && o.Rhs == t.Rhs
}

// Hash implements hash.Hasher.
func (o Add) Hash() uint64 { return mix(uint64(tagAdd), uint64(o.Lhs), uint64(o.Rhs)) }

// Sub is the difference of two children (lhs - rhs).
type Sub struct{ Lhs, Rhs NodeIndex }

func (Sub) tag() opTag              { return tagSub }
func (o Sub) Children() []NodeIndex { return []NodeIndex{o.Lhs, o.Rhs} }
func (o Sub) String() string        { return fmt.Sprintf("Sub(%d,%d)", o.Lhs, o.Rhs) }

// Equals implements hash.Hasher.
func (o Sub) Equals(other Operation) bool {
	t, ok := other.(Sub)
	return ok && o.Lhs == t.Lhs && o.Rhs == t.Rhs
}

// Hash implements hash.Hasher.
func (o Sub) Hash() uint64 { return mix(uint64(tagSub), uint64(o.Lhs), uint64(o.Rhs)) }

// Mul is the product of two children. Like Add, operand order is
// significant and not canonicalised.
type Mul struct{ Lhs, Rhs NodeIndex }

func (Mul) tag() opTag              { return tagMul }
func (o Mul) Children() []NodeIndex { return []NodeIndex{o.Lhs, o.Rhs} }
func (o Mul) String() string        { return fmt.Sprintf("Mul(%d,%d)", o.Lhs, o.Rhs) }

// Equals implements hash.Hasher.
func (o Mul) Equals(other Operation) bool {
	t, ok := other.(Mul)
	return ok && o.Lhs == t.Lhs && o.Rhs == t.Rhs
}

// Hash implements hash.Hasher.
func (o Mul) Hash() uint64 { return mix(uint64(tagMul), uint64(o.Lhs), uint64(o.Rhs)) }

// ---------------------------------------------------------------------------
// Exp
// ---------------------------------------------------------------------------

// Exp raises its child to a non-negative constant power.
type Exp struct {
	Arg   NodeIndex
	Power uint64
}

func (Exp) tag() opTag              { return tagExp }
func (o Exp) Children() []NodeIndex { return []NodeIndex{o.Arg} }
func (o Exp) String() string        { return fmt.Sprintf("Exp(%d,%d)", o.Arg, o.Power) }

// Equals implements hash.Hasher.
func (o Exp) Equals(other Operation) bool {
	t, ok := other.(Exp)
	return ok && o.Arg == t.Arg && o.Power == t.Power
}

// Hash implements hash.Hasher.
func (o Exp) Hash() uint64 { return mix(uint64(tagExp), uint64(o.Arg), uint64(o.Power)) }

// ---------------------------------------------------------------------------
// hashing helper
// ---------------------------------------------------------------------------

// mix combines a handful of uint64s into a single FNV-1a-style hashcode.
// Collisions are fine (the Map used for hash-consing handles them
// explicitly); this only needs to distribute keys across buckets well.
func mix(words ...uint64) uint64 {
	const (
		offset64 uint64 = 14695981039346656037
		prime64  uint64 = 1099511628211
	)

	h := offset64
	for _, w := range words {
		h ^= w
		h *= prime64
	}

	return h
}
