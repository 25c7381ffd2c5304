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

// Package errors defines the single closed error enumeration surfaced by
// every stage of semantic analysis (spec §7). There is no retry and no
// partial recovery: the first error encountered terminates lowering and is
// returned to the caller.
package errors

import "fmt"

// Kind identifies which of the seven error categories a SemanticError
// belongs to (spec §7).
type Kind uint8

const (
	// DuplicateIdentifier: a declaration collides with an existing one.
	DuplicateIdentifier Kind = iota
	// Undeclared: identifier not in the symbol table.
	Undeclared
	// InvalidUsage: identifier used in a role forbidden by its declared
	// type (e.g. treating a matrix as a scalar).
	InvalidUsage
	// IndexOutOfRange: vector/matrix/trace column index exceeds the
	// declared extent.
	IndexOutOfRange
	// IncompatibleConstraintDomains: attempted merge of incompatible
	// domains.
	IncompatibleConstraintDomains
	// CrossSegmentReference: a main-segment boundary constraint references
	// auxiliary-segment material.
	CrossSegmentReference
	// Unsupported: construct recognised but not yet implemented.
	Unsupported
)

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	DuplicateIdentifier:           "DuplicateIdentifier",
	Undeclared:                    "Undeclared",
	InvalidUsage:                  "InvalidUsage",
	IndexOutOfRange:               "IndexOutOfRange",
	IncompatibleConstraintDomains: "IncompatibleConstraintDomains",
	CrossSegmentReference:         "CrossSegmentReference",
	Unsupported:                   "Unsupported",
}

// String renders the error kind's name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "UnknownError"
}

// SemanticError is the single error type returned by every public operation
// in this module. It carries a Kind plus whatever detail string identifies
// the offending construct (an identifier name, a domain pair, an index and
// its bound, and so on).
type SemanticError struct {
	kind   Kind
	detail string
}

// New constructs a SemanticError of the given kind with a detail message.
func New(kind Kind, detail string) *SemanticError {
	return &SemanticError{kind: kind, detail: detail}
}

// Duplicatef constructs a DuplicateIdentifier error for the given name.
func Duplicatef(name string) *SemanticError {
	return New(DuplicateIdentifier, name)
}

// Undeclaredf constructs an Undeclared error for the given name.
func Undeclaredf(name string) *SemanticError {
	return New(Undeclared, name)
}

// InvalidUsagef constructs an InvalidUsage error with a formatted detail.
func InvalidUsagef(format string, args ...any) *SemanticError {
	return New(InvalidUsage, fmt.Sprintf(format, args...))
}

// IndexOutOfRangef constructs an IndexOutOfRange error with a formatted
// detail.
func IndexOutOfRangef(format string, args ...any) *SemanticError {
	return New(IndexOutOfRange, fmt.Sprintf(format, args...))
}

// IncompatibleDomainsf constructs an IncompatibleConstraintDomains error
// naming the two domains that failed to merge.
func IncompatibleDomainsf(a, b fmt.Stringer) *SemanticError {
	return New(IncompatibleConstraintDomains, fmt.Sprintf("%s vs %s", a, b))
}

// CrossSegmentf constructs a CrossSegmentReference error with a formatted
// detail.
func CrossSegmentf(format string, args ...any) *SemanticError {
	return New(CrossSegmentReference, fmt.Sprintf(format, args...))
}

// Unsupportedf constructs an Unsupported error with a formatted detail.
func Unsupportedf(format string, args ...any) *SemanticError {
	return New(Unsupported, fmt.Sprintf(format, args...))
}

// Kind returns which of the seven categories this error belongs to.
func (e *SemanticError) Kind() Kind { return e.kind }

// Detail returns the human-readable detail attached to this error.
func (e *SemanticError) Detail() string { return e.detail }

// Error implements the error interface.
func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.detail)
}
