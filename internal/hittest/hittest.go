/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package hittest decides which shapes lie under a point or inside a
// rectangle.
//
// A shape with any filled path is hit by fill containment (non-zero
// winding over its filled paths). A shape without fills is hit when the
// point lies within half the stroke tolerance of one of its outlines.
package hittest

import (
	"math"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

// Policy selects how range selection matches shape bounds.
type Policy int

const (
	// Full requires the shape bounds to lie inside the rectangle.
	Full Policy = iota
	// Partial accepts any overlap.
	Partial
)

func (p Policy) String() string {
	if p == Partial {
		return "partial"
	}
	return "full"
}

// ParsePolicy maps "partial" to Partial and anything else to Full.
func ParsePolicy(s string) Policy {
	if s == "partial" {
		return Partial
	}
	return Full
}

const (
	DefaultTolerance = 4.0
	DefaultFlatness  = 0.25
)

// Tester holds the tolerances used for stroke proximity, in document units.
type Tester struct {
	// StrokeTolerance is the full width of the band around an outline that
	// counts as a hit.
	StrokeTolerance float64
	// Flatness is the curve flattening tolerance.
	Flatness float64
}

func New(tolerance float64) Tester {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return Tester{StrokeTolerance: tolerance, Flatness: DefaultFlatness}
}

// HitShape reports whether doc (document space) hits s or one of its
// children.
func (t Tester) HitShape(s *shape.Shape, doc geom.Point) bool {
	return t.Deepest(s, doc) != nil
}

// Deepest returns the front-most shape in s's subtree under doc, or nil.
// Children are tested front to back before s itself.
func (t Tester) Deepest(s *shape.Shape, doc geom.Point) *shape.Shape {
	kids := s.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		if h := t.Deepest(kids[i], doc); h != nil {
			return h
		}
	}
	if t.hitOwn(s, doc) {
		return s
	}
	return nil
}

func (t Tester) hitOwn(s *shape.Shape, doc geom.Point) bool {
	paths := s.Paths()
	if len(paths) == 0 {
		return false
	}
	inv := s.InverseWorld()
	local := render.GGPoint(inv.Apply(doc))
	if s.Filled() {
		// The fill is the union of the filled paths; orientation of one
		// path never cancels another.
		for _, p := range paths {
			if p.Filled() && p.Path != nil && p.Path.Contains(local) {
				return true
			}
		}
		return false
	}
	// Tolerance is in document units; bring it into local units.
	half := t.StrokeTolerance / 2 * inv.ScaleFactor()
	for _, p := range paths {
		w := half
		if p.Stroke != nil {
			w = math.Max(half, p.Stroke.Width/2)
		}
		if nearOutline(p.Path, local, w, t.flatness()) {
			return true
		}
	}
	return false
}

func (t Tester) flatness() float64 {
	if t.Flatness <= 0 {
		return DefaultFlatness
	}
	return t.Flatness
}

// nearOutline checks every sub-path separately so the jump between
// sub-paths never counts as an edge.
func nearOutline(p *gg.Path, pt gg.Point, tol, flat float64) bool {
	if p == nil {
		return false
	}
	for _, sub := range subPaths(p) {
		pts := sub.Flatten(flat)
		if len(pts) == 1 && pts[0].Sub(pt).Length() <= tol {
			return true
		}
		for i := 1; i < len(pts); i++ {
			if segDist(pts[i-1], pts[i], pt) <= tol {
				return true
			}
		}
	}
	return false
}

func subPaths(p *gg.Path) []*gg.Path {
	var out []*gg.Path
	var cur *gg.Path
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			cur = gg.NewPath()
			out = append(out, cur)
			cur.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			if cur != nil {
				cur.LineTo(e.Point.X, e.Point.Y)
			}
		case gg.QuadTo:
			if cur != nil {
				cur.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
			}
		case gg.CubicTo:
			if cur != nil {
				cur.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
			}
		case gg.Close:
			if cur != nil {
				cur.Close()
			}
		}
	}
	return out
}

func segDist(a, b, p gg.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	u := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	u = math.Max(0, math.Min(1, u))
	return p.Sub(a.Add(ab.Mul(u))).Length()
}

// TopShape returns the front-most top-level shape of l under doc. Hidden and
// locked layers hit nothing.
func (t Tester) TopShape(l *shape.Layer, doc geom.Point) *shape.Shape {
	if l == nil || !l.Editable() {
		return nil
	}
	shapes := l.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		if t.HitShape(shapes[i], doc) {
			return shapes[i]
		}
	}
	return nil
}

// InRect returns the top-level shapes of l matching r under policy, in draw
// order. It is empty for a layer that is not editable.
func InRect(l *shape.Layer, r geom.Rect, policy Policy) []*shape.Shape {
	if l == nil || !l.Editable() {
		return nil
	}
	var out []*shape.Shape
	for _, s := range l.Shapes() {
		if Matches(s.Bounds(), r, policy) {
			out = append(out, s)
		}
	}
	return out
}

// Matches applies policy to a single bounds rectangle.
func Matches(bounds, r geom.Rect, policy Policy) bool {
	if policy == Partial {
		return r.Intersects(bounds)
	}
	return r.ContainsRect(bounds)
}
