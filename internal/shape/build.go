/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
)

// NewRect returns a rectangle covering r in its parent's space, pivoting
// around its centre.
func NewRect(name string, r geom.Rect, fill *render.Brush, stroke *render.Pen) *Shape {
	p := gg.NewPath()
	p.Rectangle(0, 0, r.W, r.H)
	return New(name, r.Center(), geom.Pt(r.W/2, r.H/2), DrawingPath{Path: p, Fill: fill, Stroke: stroke})
}

// NewEllipse returns an ellipse inscribed in r.
func NewEllipse(name string, r geom.Rect, fill *render.Brush, stroke *render.Pen) *Shape {
	p := gg.NewPath()
	p.Ellipse(r.W/2, r.H/2, r.W/2, r.H/2)
	return New(name, r.Center(), geom.Pt(r.W/2, r.H/2), DrawingPath{Path: p, Fill: fill, Stroke: stroke})
}

// NewPolyline returns a shape through pts, given in parent space. A closed
// polyline is a polygon and can be filled.
func NewPolyline(name string, pts []geom.Point, closed bool, fill *render.Brush, stroke *render.Pen) *Shape {
	b, ok := geom.BoundsOf(pts...)
	if !ok {
		return New(name, geom.Point{}, geom.Point{})
	}
	p := gg.NewPath()
	for i, pt := range pts {
		l := pt.Sub(b.Min())
		if i == 0 {
			p.MoveTo(l.X, l.Y)
		} else {
			p.LineTo(l.X, l.Y)
		}
	}
	if closed {
		p.Close()
	} else {
		fill = nil
	}
	return New(name, b.Center(), geom.Pt(b.W/2, b.H/2), DrawingPath{Path: p, Fill: fill, Stroke: stroke})
}

// NewGroup returns an empty shape meant to hold children. Its pivot is at
// pin.
func NewGroup(name string, pin geom.Point) *Shape {
	return New(name, pin, geom.Point{})
}
