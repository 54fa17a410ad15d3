/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package selection

import (
	"image/color"
	"testing"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

var fill = &render.Brush{Color: color.NRGBA{A: 255}}

func rect(x, y float64) *shape.Shape { return shape.NewRect("r", geom.R(x, y, 10, 10), fill, nil) }

func TestAddRemoveNoDuplicates(t *testing.T) {
	s := New()
	a, b := rect(0, 0), rect(20, 0)
	if !s.Add(a) || s.Add(a) || s.Add(nil) {
		t.Fatalf("Add result wrong")
	}
	s.Add(b)
	if s.Len() != 2 || s.Shapes()[0] != a || s.Shapes()[1] != b {
		t.Fatalf("order wrong: %v", s.Shapes())
	}
	if !s.Remove(a) || s.Remove(a) || s.Contains(a) || !s.Contains(b) {
		t.Fatalf("Remove wrong")
	}
	s.Add(a)
	if s.Shapes()[1] != a || !s.Remove(b) || !s.Contains(a) {
		t.Fatalf("index not maintained")
	}
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	s := New()
	a, b := rect(0, 0), rect(20, 0)
	s.Add(a)
	s.Toggle(b)
	if !s.Contains(b) {
		t.Fatalf("toggle did not add")
	}
	s.Toggle(b)
	if s.Contains(b) || s.Len() != 1 {
		t.Fatalf("toggle pair not identity")
	}
	s.Toggle(a)
	if s.Contains(a) {
		t.Fatalf("toggle did not remove member")
	}
	s.Toggle(nil)
	if !s.IsEmpty() {
		t.Fatalf("toggle nil changed set")
	}
}

func TestBoundsFollowMembershipAndMoves(t *testing.T) {
	s := New()
	if _, ok := s.Bounds(); ok {
		t.Fatalf("empty selection has bounds")
	}
	a, b := rect(0, 0), rect(20, 0)
	s.Replace(a, b, a)
	if s.Len() != 2 {
		t.Fatalf("Replace kept duplicate")
	}
	if r, _ := s.Bounds(); r != geom.R(0, 0, 30, 10) {
		t.Fatalf("bounds = %+v", r)
	}
	b.MoveBy(geom.Pt(0, 10))
	if r, _ := s.Bounds(); r != geom.R(0, 0, 30, 20) {
		t.Fatalf("bounds after move = %+v", r)
	}
	s.Remove(b)
	if r, _ := s.Bounds(); r != geom.R(0, 0, 10, 10) {
		t.Fatalf("bounds after remove = %+v", r)
	}
}

func TestOnChangeFires(t *testing.T) {
	s := New()
	n := 0
	s.OnChange(func(*Set) { n++ })
	a := rect(0, 0)
	s.Add(a)
	s.Add(a)
	s.Clear()
	s.Clear()
	if n != 2 {
		t.Fatalf("changes = %d", n)
	}
}

func TestRenderHooks(t *testing.T) {
	s := New()
	s.Add(rect(0, 0))
	rec := render.NewRecorder()
	s.RenderPre(rec, geom.Scale(2, 2))
	s.RenderPost(rec, geom.Scale(2, 2))
	if rec.Count("path") != 2 || rec.Depth() != 0 {
		t.Fatalf("commands = %+v depth = %d", rec.Commands, rec.Depth())
	}
	if got := rec.Commands[1].Bounds; got != geom.R(0, 0, 20, 20) || !rec.Commands[1].Dashed {
		t.Fatalf("outline = %+v", rec.Commands[1])
	}
}
