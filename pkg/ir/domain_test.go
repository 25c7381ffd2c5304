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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeTable(t *testing.T) {
	tests := []struct {
		name       string
		a, b       ConstraintDomain
		wantOK     bool
		wantDomain ConstraintDomain
	}{
		{"FirstRow/FirstRow", FirstRow(), FirstRow(), true, FirstRow()},
		{"FirstRow/LastRow", FirstRow(), LastRow(), false, ConstraintDomain{}},
		{"FirstRow/EveryRow", FirstRow(), EveryRow(), true, FirstRow()},
		{"FirstRow/EveryFrame", FirstRow(), EveryFrame(4), false, ConstraintDomain{}},
		{"LastRow/LastRow", LastRow(), LastRow(), true, LastRow()},
		{"LastRow/EveryRow", LastRow(), EveryRow(), true, LastRow()},
		{"EveryRow/EveryRow", EveryRow(), EveryRow(), true, EveryRow()},
		{"EveryRow/EveryFrame", EveryRow(), EveryFrame(4), true, EveryFrame(4)},
		{"EveryFrame/EveryFrame same k", EveryFrame(4), EveryFrame(4), true, EveryFrame(4)},
		{"EveryFrame/EveryFrame different k", EveryFrame(4), EveryFrame(8), false, ConstraintDomain{}},
		{"EveryFrame/LastRow", EveryFrame(4), LastRow(), false, ConstraintDomain{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Merge(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.True(t, tt.wantDomain.Equals(got))
			}

			// Merge is commutative.
			got2, ok2 := Merge(tt.b, tt.a)
			assert.Equal(t, ok, ok2)

			if ok {
				assert.True(t, got.Equals(got2))
			}
		})
	}
}

func TestMergeIsAssociative(t *testing.T) {
	domains := []ConstraintDomain{FirstRow(), EveryRow(), EveryRow(), FirstRow()}

	left, ok := Merge(domains[0], domains[1])
	require := assert.New(t)
	require.True(ok)
	left, ok = Merge(left, domains[2])
	require.True(ok)
	left, ok = Merge(left, domains[3])
	require.True(ok)

	right, ok := Merge(domains[1], domains[2])
	require.True(ok)
	right, ok = Merge(right, domains[3])
	require.True(ok)
	right, ok = Merge(domains[0], right)
	require.True(ok)

	assert.True(t, left.Equals(right))
}

// TestIncompatibleMergeIsAbsorbing: Merge has no error domain value to carry
// into a further merge; an incompatible pair is reported as ok=false, and
// the lowerer and constraint builder stop at the first false. This test
// checks that report for FirstRow with LastRow.
func TestIncompatibleMergeIsAbsorbing(t *testing.T) {
	_, ok := Merge(FirstRow(), LastRow())
	assert.False(t, ok)
}
