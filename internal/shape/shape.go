/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shape is the document model the surface manipulates: a tree of
// shapes positioned by Pin, LocPin and Angle, grouped into layers and sheets.
package shape

import (
	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"drawsurface/internal/geom"
	"drawsurface/internal/lazy"
	"drawsurface/internal/render"
)

// DrawingPath is one rendered outline of a shape in its local space.
type DrawingPath struct {
	Path   *gg.Path
	Fill   *render.Brush
	Stroke *render.Pen
}

func (d DrawingPath) Filled() bool { return d.Fill != nil }

func (d DrawingPath) clone() DrawingPath {
	c := d
	if d.Path != nil {
		c.Path = d.Path.Clone()
	}
	if d.Fill != nil {
		f := *d.Fill
		c.Fill = &f
	}
	if d.Stroke != nil {
		s := *d.Stroke
		s.Dash = append([]float64(nil), d.Stroke.Dash...)
		c.Stroke = &s
	}
	return c
}

// Shape is a node in the shape tree. A parent owns its children; a shape
// belongs to at most one parent at a time.
//
// The local transform is T(Pin)·R(Angle)·T(-LocPin): LocPin is the pivot in
// local coordinates and Pin is where that pivot sits in the parent.
type Shape struct {
	ID   uuid.UUID
	Name string

	pin    geom.Point
	locPin geom.Point
	angle  geom.Angle
	paths  []DrawingPath

	parent   *Shape
	children []*Shape

	rev    uint64
	world  *lazy.Value[geom.Matrix]
	inv    *lazy.Value[geom.Matrix]
	bounds *lazy.Value[geom.Rect]
}

// New creates a shape whose local pivot is locPin, placed so the pivot sits
// at pin.
func New(name string, pin, locPin geom.Point, paths ...DrawingPath) *Shape {
	s := &Shape{ID: uuid.New(), Name: name, pin: pin, locPin: locPin, paths: paths}
	s.world = lazy.New(s.computeWorld)
	s.inv = lazy.New(func() geom.Matrix {
		m, _ := s.World().Invert()
		return m
	})
	s.bounds = lazy.New(s.computeBounds)
	return s
}

func (s *Shape) computeWorld() geom.Matrix {
	local := s.Local()
	if s.parent == nil {
		return local
	}
	return s.parent.World().Mul(local)
}

func (s *Shape) computeBounds() geom.Rect {
	w := s.World()
	var out geom.Rect
	have := false
	for _, p := range s.paths {
		b, ok := render.PathBounds(p.Path, w)
		if !ok {
			continue
		}
		if p.Stroke != nil && p.Stroke.Width > 0 {
			half := p.Stroke.Width * w.ScaleFactor() / 2
			b = b.Inset(-half, -half)
		}
		if have {
			out = out.Union(b)
		} else {
			out, have = b, true
		}
	}
	for _, c := range s.children {
		if have {
			out = out.Union(c.Bounds())
		} else {
			out, have = c.Bounds(), true
		}
	}
	if !have {
		p := w.Apply(s.locPin)
		return geom.R(p.X, p.Y, 0, 0)
	}
	return out
}

// Rev increases whenever the shape's document geometry may have changed,
// including changes inherited from ancestors or caused by children.
func (s *Shape) Rev() uint64 { return s.rev }

// touch marks s and its subtree as moved and its ancestors' bounds stale.
func (s *Shape) touch() {
	s.invalidateDown()
	for p := s.parent; p != nil; p = p.parent {
		p.rev++
		p.bounds.Invalidate()
	}
}

func (s *Shape) invalidateDown() {
	s.rev++
	s.world.Invalidate()
	s.inv.Invalidate()
	s.bounds.Invalidate()
	for _, c := range s.children {
		c.invalidateDown()
	}
}

func (s *Shape) Pin() geom.Point    { return s.pin }
func (s *Shape) LocPin() geom.Point { return s.locPin }
func (s *Shape) Angle() geom.Angle  { return s.angle }

func (s *Shape) SetPin(p geom.Point) {
	if p != s.pin {
		s.pin = p
		s.touch()
	}
}

// MoveBy shifts the pin by d in parent space.
func (s *Shape) MoveBy(d geom.Point) {
	if !d.IsZero() {
		s.SetPin(s.pin.Add(d))
	}
}

func (s *Shape) SetAngle(a geom.Angle) {
	if a != s.angle {
		s.angle = a
		s.touch()
	}
}

// SetLocPin moves the pivot. The shape moves with it because Pin stays put.
func (s *Shape) SetLocPin(p geom.Point) {
	if p != s.locPin {
		s.locPin = p
		s.touch()
	}
}

// SetLocPinInPlace moves the pivot and compensates Pin so the shape keeps
// its position on the page.
func (s *Shape) SetLocPinInPlace(p geom.Point) {
	if p == s.locPin {
		return
	}
	shift := geom.Rotate(s.angle).ApplyVector(p.Sub(s.locPin))
	s.locPin = p
	s.pin = s.pin.Add(shift)
	s.touch()
}

// Paths returns the shape's drawing paths; callers must not mutate them.
func (s *Shape) Paths() []DrawingPath { return s.paths }

func (s *Shape) SetPaths(paths []DrawingPath) {
	s.paths = paths
	s.touch()
}

// Filled reports whether any drawing path is filled.
func (s *Shape) Filled() bool {
	for _, p := range s.paths {
		if p.Filled() {
			return true
		}
	}
	return false
}

// Local is T(Pin)·R(Angle)·T(-LocPin).
func (s *Shape) Local() geom.Matrix {
	return geom.Translate(s.pin.X, s.pin.Y).
		Mul(geom.Rotate(s.angle)).
		Mul(geom.Translate(-s.locPin.X, -s.locPin.Y))
}

// World maps local coordinates to document coordinates.
func (s *Shape) World() geom.Matrix { return s.world.Get() }

// InverseWorld maps document coordinates to local coordinates.
func (s *Shape) InverseWorld() geom.Matrix { return s.inv.Get() }

// Bounds is the document-space bounding box of the shape and its children.
func (s *Shape) Bounds() geom.Rect { return s.bounds.Get() }

// DocPin is the pivot position in document space.
func (s *Shape) DocPin() geom.Point { return s.World().Apply(s.locPin) }

func (s *Shape) Parent() *Shape     { return s.parent }
func (s *Shape) Children() []*Shape { return s.children }

// Root returns the top-most ancestor, or s itself.
func (s *Shape) Root() *Shape {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddChild appends c, detaching it from any previous parent.
func (s *Shape) AddChild(c *Shape) {
	if c == nil || c == s || c.parent == s {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = s
	s.children = append(s.children, c)
	c.touch()
}

// RemoveChild detaches c; it reports false if c was not a child of s.
func (s *Shape) RemoveChild(c *Shape) bool {
	for i, ch := range s.children {
		if ch == c {
			s.children = append(s.children[:i], s.children[i+1:]...)
			c.parent = nil
			c.invalidateDown()
			s.rev++
			s.bounds.Invalidate()
			for p := s.parent; p != nil; p = p.parent {
				p.rev++
				p.bounds.Invalidate()
			}
			return true
		}
	}
	return false
}

// Walk visits s and its descendants depth-first in draw order.
func (s *Shape) Walk(fn func(*Shape)) {
	fn(s)
	for _, c := range s.children {
		c.Walk(fn)
	}
}

// Clone deep-copies s and its subtree. Copies get fresh IDs and no parent.
func (s *Shape) Clone() *Shape {
	paths := make([]DrawingPath, len(s.paths))
	for i, p := range s.paths {
		paths[i] = p.clone()
	}
	c := New(s.Name, s.pin, s.locPin, paths...)
	c.angle = s.angle
	for _, ch := range s.children {
		c.AddChild(ch.Clone())
	}
	return c
}

// State is a restorable copy of a shape's own geometry.
type State struct {
	Pin    geom.Point
	LocPin geom.Point
	Angle  geom.Angle
	Paths  []*gg.Path
}

// State captures the shape's geometry.
func (s *Shape) State() State {
	st := State{Pin: s.pin, LocPin: s.locPin, Angle: s.angle, Paths: make([]*gg.Path, len(s.paths))}
	for i, p := range s.paths {
		if p.Path != nil {
			st.Paths[i] = p.Path.Clone()
		}
	}
	return st
}

// Restore applies a state captured with State. Path geometry is restored
// only when the path count still matches.
func (s *Shape) Restore(st State) {
	s.pin, s.locPin, s.angle = st.Pin, st.LocPin, st.Angle
	if len(st.Paths) == len(s.paths) {
		for i, p := range st.Paths {
			if p != nil {
				s.paths[i].Path = p.Clone()
			}
		}
	}
	s.touch()
}
