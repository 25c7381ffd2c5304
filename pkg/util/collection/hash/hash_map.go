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
package hash

import (
	"fmt"
	"strings"
)

// Map defines a generic map implementation backed by a hashtable.  This is a
// true hashtable in that collisions are handled gracefully using buckets,
// rather than simply being discarded or assumed not to happen.  The
// algebraic graph relies on this never silently dropping a colliding
// Operation.
type Map[K Hasher[K], V any] struct {
	// buckets maps hashcodes to *buckets* of items.
	buckets map[uint64]hashMapBucket[K, V]
}

// NewMap creates a new empty Map with a given underlying capacity hint.
func NewMap[K Hasher[K], V any](size uint) *Map[K, V] {
	items := make(map[uint64]hashMapBucket[K, V], size)
	return &Map[K, V]{items}
}

// Size returns the number of unique items stored in this Map.
//
//nolint:revive
func (p *Map[K, V]) Size() uint {
	count := uint(0)
	for _, b := range p.buckets {
		count += b.size()
	}

	return count
}

// Insert a new item into this map, returning the previous value (if any) and
// true when the key was already present, or the zero value and false
// otherwise.
//
//nolint:revive
func (p *Map[K, V]) Insert(key K, value V) (V, bool) {
	hash := key.Hash()
	bucket := p.buckets[hash]
	old, existed := bucket.insert(key, value)
	p.buckets[hash] = bucket

	return old, existed
}

// Get looks up the item associated with a given key, returning false when no
// such key is present.
//
//nolint:revive
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V

	if bucket, ok := p.buckets[key.Hash()]; ok {
		return bucket.get(key)
	}

	return empty, false
}

//nolint:revive
func (p *Map[K, V]) String() string {
	var r strings.Builder

	first := true

	r.WriteString("{")

	for _, b := range p.buckets {
		for i, k := range b.keys {
			if !first {
				r.WriteString(",")
			}

			first = false

			r.WriteString(fmt.Sprintf("%v:=%v", any(k), any(b.values[i])))
		}
	}

	r.WriteString("}")

	return r.String()
}

// ============================================================================
// Bucket
// ============================================================================

type hashMapBucket[K Hasher[K], V any] struct {
	keys   []K
	values []V
}

func (b *hashMapBucket[K, V]) size() uint {
	return uint(len(b.keys))
}

// insert a new item into this bucket, returning the replaced value (if any).
func (b *hashMapBucket[K, V]) insert(key K, value V) (V, bool) {
	for i, k := range b.keys {
		if key.Equals(k) {
			old := b.values[i]
			b.values[i] = value

			return old, true
		}
	}

	var empty V

	b.keys = append(b.keys, key)
	b.values = append(b.values, value)

	return empty, false
}

// get an item from this bucket, or return false otherwise.
func (b *hashMapBucket[K, V]) get(key K) (V, bool) {
	var empty V

	for i, k := range b.keys {
		if key.Equals(k) {
			return b.values[i], true
		}
	}

	return empty, false
}
