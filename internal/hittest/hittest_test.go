/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package hittest

import (
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

var (
	fill = &render.Brush{Color: color.NRGBA{R: 200, A: 255}}
	pen  = &render.Pen{Color: color.NRGBA{A: 255}, Width: 1}
)

func TestFilledShapeContainment(t *testing.T) {
	s := shape.NewRect("a", geom.R(0, 0, 10, 10), fill, nil)
	ht := New(4)
	if !ht.HitShape(s, geom.Pt(5, 5)) {
		t.Fatalf("inside point missed")
	}
	if ht.HitShape(s, geom.Pt(15, 5)) || ht.HitShape(s, geom.Pt(-3, -3)) {
		t.Fatalf("outside point hit")
	}
}

func square(pts ...gg.Point) *gg.Path {
	p := gg.NewPath()
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()
	return p
}

func TestOppositelyWoundFillsAreUnited(t *testing.T) {
	cw := square(gg.Pt(0, 0), gg.Pt(10, 0), gg.Pt(10, 10), gg.Pt(0, 10))
	ccw := square(gg.Pt(0, 0), gg.Pt(0, 10), gg.Pt(10, 10), gg.Pt(10, 0))
	s := shape.New("pair", geom.Point{}, geom.Point{},
		shape.DrawingPath{Path: cw, Fill: fill},
		shape.DrawingPath{Path: ccw, Fill: fill})
	ht := New(1)
	if !ht.HitShape(s, geom.Pt(5, 5)) {
		t.Fatalf("point inside both fills missed")
	}
	if ht.HitShape(s, geom.Pt(15, 5)) {
		t.Fatalf("outside point hit")
	}
}

func TestFilledEllipseExcludesCorners(t *testing.T) {
	s := shape.NewEllipse("e", geom.R(0, 0, 20, 20), fill, nil)
	ht := New(1)
	if !ht.HitShape(s, geom.Pt(10, 10)) || ht.HitShape(s, geom.Pt(1, 1)) {
		t.Fatalf("ellipse containment wrong")
	}
}

func TestStrokeProximity(t *testing.T) {
	s := shape.NewPolyline("l", []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, false, nil, pen)
	ht := New(4)
	if !ht.HitShape(s, geom.Pt(50, 1.5)) {
		t.Fatalf("point within band missed")
	}
	if ht.HitShape(s, geom.Pt(50, 3)) {
		t.Fatalf("point outside band hit")
	}
	if ht.HitShape(s, geom.Pt(104, 0)) {
		t.Fatalf("point past the end hit")
	}
}

func TestOpenOutlineInteriorIsNotHit(t *testing.T) {
	s := shape.NewRect("r", geom.R(0, 0, 40, 40), nil, pen)
	ht := New(2)
	if ht.HitShape(s, geom.Pt(20, 20)) {
		t.Fatalf("stroke-only shape hit in its interior")
	}
	if !ht.HitShape(s, geom.Pt(40.5, 20)) {
		t.Fatalf("edge missed")
	}
}

func TestRotatedShapeUsesInverseWorld(t *testing.T) {
	s := shape.NewRect("r", geom.R(0, 0, 40, 4), fill, nil)
	s.SetAngle(geom.Degrees(90))
	ht := New(1)
	if !ht.HitShape(s, geom.Pt(20, 15)) {
		t.Fatalf("rotated interior missed")
	}
	if ht.HitShape(s, geom.Pt(35, 2)) {
		t.Fatalf("unrotated footprint still hit")
	}
}

func TestTopShapeFrontWins(t *testing.T) {
	l := shape.NewLayer("l")
	back := shape.NewRect("back", geom.R(0, 0, 10, 10), fill, nil)
	front := shape.NewRect("front", geom.R(5, 5, 10, 10), fill, nil)
	l.Add(back, front)
	ht := New(1)
	if got := ht.TopShape(l, geom.Pt(7, 7)); got != front {
		t.Fatalf("got %v", got)
	}
	if got := ht.TopShape(l, geom.Pt(2, 2)); got != back {
		t.Fatalf("got %v", got)
	}
	if ht.TopShape(l, geom.Pt(50, 50)) != nil {
		t.Fatalf("empty space hit")
	}
	l.Visible = false
	if ht.TopShape(l, geom.Pt(7, 7)) != nil || ht.TopShape(nil, geom.Pt(7, 7)) != nil {
		t.Fatalf("hidden or nil layer hit")
	}
}

func TestDeepestPrefersChildren(t *testing.T) {
	g := shape.NewGroup("g", geom.Point{})
	c := shape.NewRect("c", geom.R(0, 0, 5, 5), fill, nil)
	g.AddChild(c)
	ht := New(1)
	if ht.Deepest(g, geom.Pt(2, 2)) != c || !ht.HitShape(g, geom.Pt(2, 2)) {
		t.Fatalf("child not found through group")
	}
}

func TestInRectPolicies(t *testing.T) {
	l := shape.NewLayer("l")
	inside := shape.NewRect("in", geom.R(10, 10, 5, 5), fill, nil)
	overlap := shape.NewRect("ov", geom.R(25, 25, 10, 10), fill, nil)
	outside := shape.NewRect("out", geom.R(100, 100, 5, 5), fill, nil)
	l.Add(inside, overlap, outside)
	r := geom.R(0, 0, 30, 30)
	full := InRect(l, r, Full)
	if len(full) != 1 || full[0] != inside {
		t.Fatalf("full = %v", full)
	}
	part := InRect(l, r, Partial)
	if len(part) != 2 || part[0] != inside || part[1] != overlap {
		t.Fatalf("partial = %v", part)
	}
	l.Locked = true
	if got := InRect(l, r, Partial); len(got) != 0 {
		t.Fatalf("locked layer matched %d shapes", len(got))
	}
	if New(1).TopShape(l, geom.Pt(12, 12)) != nil {
		t.Fatalf("locked layer hit")
	}
}
