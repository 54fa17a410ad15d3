/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection keeps the set of selected shapes and draws its outline.
package selection

import (
	"image/color"

	"drawsurface/internal/geom"
	"drawsurface/internal/lazy"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

type bounds struct {
	r  geom.Rect
	ok bool
}

// Set is an insertion-ordered set of shapes with memoized document-space
// bounds. Bounds are recomputed after a membership change or after any
// member's revision moves.
type Set struct {
	items    []*shape.Shape
	index    map[*shape.Shape]int
	bounds   *lazy.Value[bounds]
	onChange []func(*Set)

	Halo    render.Pen
	Outline render.Pen
}

func New() *Set {
	s := &Set{
		index:   make(map[*shape.Shape]int),
		Halo:    render.Pen{Color: color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 0x60}, Width: 5},
		Outline: render.Pen{Color: color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff}, Width: 1, Dash: []float64{4, 3}},
	}
	s.bounds = lazy.New(s.computeBounds).DependsOn(s.revSum)
	return s
}

func (s *Set) revSum() uint64 {
	var n uint64
	for _, it := range s.items {
		n += it.Rev()
	}
	return n
}

func (s *Set) computeBounds() bounds {
	var b bounds
	for _, it := range s.items {
		if !b.ok {
			b = bounds{r: it.Bounds(), ok: true}
			continue
		}
		b.r = b.r.Union(it.Bounds())
	}
	return b
}

// OnChange registers fn to run after every membership change.
func (s *Set) OnChange(fn func(*Set)) { s.onChange = append(s.onChange, fn) }

func (s *Set) changed() {
	s.bounds.Invalidate()
	for _, fn := range s.onChange {
		fn(s)
	}
}

func (s *Set) Len() int                      { return len(s.items) }
func (s *Set) IsEmpty() bool                 { return len(s.items) == 0 }
func (s *Set) Contains(sh *shape.Shape) bool { _, ok := s.index[sh]; return ok }

// Shapes returns the members in insertion order. The slice is a copy.
func (s *Set) Shapes() []*shape.Shape { return append([]*shape.Shape(nil), s.items...) }

// Add inserts sh; adding a member or nil is a no-op. It reports whether the
// set changed.
func (s *Set) Add(sh *shape.Shape) bool {
	if sh == nil || s.Contains(sh) {
		return false
	}
	s.index[sh] = len(s.items)
	s.items = append(s.items, sh)
	s.changed()
	return true
}

// Remove drops sh and reports whether it was a member.
func (s *Set) Remove(sh *shape.Shape) bool {
	i, ok := s.index[sh]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, sh)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	s.changed()
	return true
}

// Toggle flips membership of sh; nil is ignored.
func (s *Set) Toggle(sh *shape.Shape) {
	if sh == nil {
		return
	}
	if !s.Remove(sh) {
		s.Add(sh)
	}
}

func (s *Set) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = s.items[:0]
	clear(s.index)
	s.changed()
}

// Replace makes shapes the whole selection, firing a single change.
func (s *Set) Replace(shapes ...*shape.Shape) {
	s.items = s.items[:0]
	clear(s.index)
	for _, sh := range shapes {
		if sh == nil {
			continue
		}
		if _, dup := s.index[sh]; dup {
			continue
		}
		s.index[sh] = len(s.items)
		s.items = append(s.items, sh)
	}
	s.changed()
}

// Invalidate forces the bounds to be recomputed on the next read.
func (s *Set) Invalidate() { s.bounds.Invalidate() }

// Cached reports whether the next Bounds call is served without
// recomputing.
func (s *Set) Cached() bool { return s.bounds.Valid() }

// Bounds is the union of member bounds in document space; ok is false for
// an empty selection.
func (s *Set) Bounds() (geom.Rect, bool) {
	b := s.bounds.Get()
	return b.r, b.ok
}

// RenderPre draws a soft halo under each member. toDisplay maps document
// to display coordinates; b is expected to draw in display space.
func (s *Set) RenderPre(b render.Backend, toDisplay geom.Matrix) {
	for _, it := range s.items {
		halo := s.Halo
		render.WithTransform(b, toDisplay.Mul(it.World()), func() {
			for _, p := range it.Paths() {
				b.DrawPath(p.Path, nil, &halo)
			}
		})
	}
}

// RenderPost outlines the selection bounds over the drawing.
func (s *Set) RenderPost(b render.Backend, toDisplay geom.Matrix) {
	r, ok := s.Bounds()
	if !ok {
		return
	}
	out := s.Outline
	b.DrawPath(render.QuadPath(r, toDisplay), nil, &out)
}
