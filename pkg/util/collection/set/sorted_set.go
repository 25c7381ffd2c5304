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

// Package set provides an ordered set helper whose iteration order is
// deterministic, unlike a plain Go map's (spec §6 "Stability": two
// invocations on the same AST must produce identical orderings). SortedSet
// is adapted from the teacher's pkg/util/collection/set.SortedSet; no other
// package of this module imports it.
package set

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
)

// SortedSet is a slice of unique, ascending-sorted values.
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns an empty sorted set.
func NewSortedSet[T cmp.Ordered]() *SortedSet[T] {
	return &SortedSet[T]{}
}

// Contains returns true if element is present.
func (p *SortedSet[T]) Contains(element T) bool {
	data := *p
	i := sort.Search(len(data), func(i int) bool { return element <= data[i] })

	return i < len(data) && data[i] == element
}

// Insert adds element to the set, preserving sort order; a no-op if already
// present.
func (p *SortedSet[T]) Insert(element T) {
	data := *p
	i := sort.Search(len(data), func(i int) bool { return element <= data[i] })

	if i < len(data) && data[i] == element {
		return
	}

	ndata := make([]T, len(data)+1)
	copy(ndata, data[:i])
	ndata[i] = element
	copy(ndata[i+1:], data[i:])
	*p = ndata
}

// Slice returns the elements in ascending order.
func (p *SortedSet[T]) Slice() []T {
	out := make([]T, len(*p))
	copy(out, *p)

	return out
}

// String renders the set for diagnostics.
func (p *SortedSet[T]) String() string {
	var b strings.Builder

	b.WriteString("{")

	for i, v := range *p {
		if i > 0 {
			b.WriteString(",")
		}

		b.WriteString(fmt.Sprintf("%v", any(v)))
	}

	b.WriteString("}")

	return b.String()
}
