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

// ExprDetails packages the result of lowering one Expression into the
// graph: the root node, the trace segment it was found to belong to, and
// the constraint domain of the terms it references (spec §3 "ExprDetails").
type ExprDetails struct {
	Root    NodeIndex
	Segment TraceSegment
	Domain  ConstraintDomain
	// InlineConstant carries an inline exponent value discovered while
	// lowering an Exp node's power argument; zero/unused otherwise. This is
	// the "optional inline-constant carry used by Exp lowering" of spec §3.
	InlineConstant uint64
	HasInline      bool
}

// NewExprDetails constructs an ExprDetails with no inline-constant carry.
func NewExprDetails(root NodeIndex, segment TraceSegment, domain ConstraintDomain) ExprDetails {
	return ExprDetails{Root: root, Segment: segment, Domain: domain}
}

// WithInline attaches an inline-constant carry to an existing ExprDetails,
// for use when lowering Exp's exponent argument.
func (e ExprDetails) WithInline(value uint64) ExprDetails {
	e.InlineConstant = value
	e.HasInline = true

	return e
}

// IntegrityConstraintDegree is the polynomial degree of an integrity
// constraint, kept as a base degree plus a set of periodic-column cycle
// lengths rather than collapsed into one integer, because STARK machinery
// treats periodic factors separately (spec §2 "Degree Calculator").
//
// Cycles is a set keyed by periodic-column index: referencing the same
// periodic column twice within one subgraph contributes only one cycle
// factor at each multiplicative site (spec §4.2 "Known quirk", preserved
// per spec §9 open question — do not "fix" this to a multiset).
type IntegrityConstraintDegree struct {
	Base   uint
	Cycles map[uint]uint
}

// NewIntegrityConstraintDegree constructs a degree with no periodic factors.
func NewIntegrityConstraintDegree(base uint) IntegrityConstraintDegree {
	return IntegrityConstraintDegree{Base: base, Cycles: map[uint]uint{}}
}

// Clone returns a deep copy, so callers can combine degrees without aliasing
// the Cycles map of an input.
func (d IntegrityConstraintDegree) Clone() IntegrityConstraintDegree {
	cycles := make(map[uint]uint, len(d.Cycles))
	for k, v := range d.Cycles {
		cycles[k] = v
	}

	return IntegrityConstraintDegree{Base: d.Base, Cycles: cycles}
}
