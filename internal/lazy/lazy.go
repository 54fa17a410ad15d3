/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package lazy provides a derived-value cell: a cached result, the function
// that recomputes it, and the dependency stamps that decide when the cache
// is stale. Surfaces, selections and handle controllers share it instead of
// each keeping their own dirty flags.
package lazy

// Value caches the result of compute until it is invalidated or one of its
// dependency stamps changes. It is not safe for concurrent use.
type Value[T any] struct {
	compute func() T
	deps    []func() uint64
	stamps  []uint64
	val     T
	valid   bool
	builds  int
}

// New returns a cell that derives its value from compute.
func New[T any](compute func() T) *Value[T] {
	return &Value[T]{compute: compute}
}

// DependsOn registers stamp functions; the cell recomputes on the next Get
// after any of them reports a different number.
func (v *Value[T]) DependsOn(stamps ...func() uint64) *Value[T] {
	v.deps = append(v.deps, stamps...)
	v.valid = false
	return v
}

// Invalidate clears the validity flag.
func (v *Value[T]) Invalidate() { v.valid = false }

// Valid reports whether the next Get is served from cache.
func (v *Value[T]) Valid() bool { return v.valid && !v.depsChanged() }

// Builds returns how many times the value was recomputed.
func (v *Value[T]) Builds() int { return v.builds }

// Get returns the cached value, recomputing it first when stale.
func (v *Value[T]) Get() T {
	if v.Valid() {
		return v.val
	}
	v.val = v.compute()
	v.stamps = v.stamps[:0]
	for _, d := range v.deps {
		v.stamps = append(v.stamps, d())
	}
	v.valid = true
	v.builds++
	return v.val
}

func (v *Value[T]) depsChanged() bool {
	if len(v.stamps) != len(v.deps) {
		return true
	}
	for i, d := range v.deps {
		if d() != v.stamps[i] {
			return true
		}
	}
	return false
}
