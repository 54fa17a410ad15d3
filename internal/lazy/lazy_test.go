/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package lazy

import "testing"

func TestValueCachesUntilInvalidated(t *testing.T) {
	n := 0
	v := New(func() int { n++; return n * 10 })
	if v.Valid() {
		t.Fatalf("new cell should be invalid")
	}
	if got := v.Get(); got != 10 {
		t.Fatalf("first Get = %d", got)
	}
	if got := v.Get(); got != 10 || v.Builds() != 1 {
		t.Fatalf("second Get recomputed: %d builds=%d", got, v.Builds())
	}
	v.Invalidate()
	if got := v.Get(); got != 20 {
		t.Fatalf("after Invalidate Get = %d", got)
	}
}

func TestValueFollowsDependencyStamp(t *testing.T) {
	var rev uint64
	base := 1
	v := New(func() int { return base * 2 }).DependsOn(func() uint64 { return rev })
	if v.Get() != 2 {
		t.Fatalf("unexpected initial value")
	}
	base = 5
	if v.Get() != 2 {
		t.Fatalf("value changed without stamp change")
	}
	rev++
	if !(!v.Valid() && v.Get() == 10) {
		t.Fatalf("stamp change did not trigger recompute")
	}
}
