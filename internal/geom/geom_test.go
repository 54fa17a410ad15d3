/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRectFromCornersAnyOrder(t *testing.T) {
	a := RectFromCorners(Pt(10, 2), Pt(0, 8))
	b := RectFromCorners(Pt(0, 8), Pt(10, 2))
	if a != b || a != R(0, 2, 10, 6) {
		t.Fatalf("unexpected rects %+v %+v", a, b)
	}
}

func TestRectContainmentAndIntersection(t *testing.T) {
	r := R(0, 0, 10, 10)
	if !r.Contains(Pt(10, 10)) || r.Contains(Pt(10.1, 5)) {
		t.Fatalf("Contains edge handling wrong")
	}
	if !r.ContainsRect(R(1, 1, 8, 8)) || r.ContainsRect(R(5, 5, 8, 8)) {
		t.Fatalf("ContainsRect wrong")
	}
	if !r.Intersects(R(5, 5, 8, 8)) || r.Intersects(R(20, 20, 1, 1)) {
		t.Fatalf("Intersects wrong")
	}
	if u := r.Union(R(20, -5, 5, 5)); u != R(0, -5, 25, 15) {
		t.Fatalf("Union = %+v", u)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Scale(2.5, 2.5).Mul(Rotate(Degrees(33))).Mul(Translate(-7, 12))
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible")
	}
	for _, p := range []Point{{0, 0}, {3, -4}, {123.5, 77.25}} {
		q := inv.Apply(m.Apply(p))
		if !near(p.X, q.X) || !near(p.Y, q.Y) {
			t.Fatalf("round trip %v -> %v", p, q)
		}
	}
	if id := m.Mul(inv); !near(id.A, 1) || !near(id.D, 1) || !near(id.E, 0) || !near(id.B, 0) {
		t.Fatalf("m*inv not identity: %+v", id)
	}
}

func TestMatrixSingular(t *testing.T) {
	if inv, ok := Scale(0, 1).Invert(); ok || inv != Identity() {
		t.Fatalf("singular matrix should not invert")
	}
}

func TestMulOrderAppliesRightFirst(t *testing.T) {
	m := Translate(10, 0).Mul(Scale(2, 2))
	if p := m.Apply(Pt(1, 1)); p != Pt(12, 2) {
		t.Fatalf("got %v", p)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	p := Rotate(Degrees(90)).Apply(Pt(1, 0))
	if !near(p.X, 0) || !near(p.Y, 1) {
		t.Fatalf("got %v", p)
	}
	q := RotateAbout(Degrees(180), Pt(5, 5)).Apply(Pt(10, 5))
	if !near(q.X, 0) || !near(q.Y, 5) {
		t.Fatalf("got %v", q)
	}
}

func TestTransformRect(t *testing.T) {
	r := Rotate(Degrees(90)).TransformRect(R(0, 0, 4, 2))
	if !near(r.X, -2) || !near(r.Y, 0) || !near(r.W, 2) || !near(r.H, 4) {
		t.Fatalf("got %+v", r)
	}
}

func TestDistanceUnits(t *testing.T) {
	if px := (Distance{Value: 1, Unit: Inch}).Pixels(); px != 96 {
		t.Fatalf("inch = %v px", px)
	}
	if px := Mm(25.4).Pixels(); !near(px, 96) {
		t.Fatalf("25.4mm = %v px", px)
	}
	if pt := Px(96).In(Point72); !near(pt.Value, 72) {
		t.Fatalf("96px = %v pt", pt.Value)
	}
	if s := Px(10).Add(Mm(25.4)); !near(s.Value, 106) || s.Unit != Pixel {
		t.Fatalf("sum = %+v", s)
	}
}
