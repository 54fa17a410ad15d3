/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package xform

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"drawsurface/internal/geom"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func same(a, b geom.Point) bool { return a.Near(b, 1e-9) }

func TestRoundTripForAnyInputs(t *testing.T) {
	cases := []struct {
		scale float64
		deg   float64
		off   geom.Point
		sheet float64
	}{
		{1, 0, geom.Pt(0, 0), 1},
		{2.5, 30, geom.Pt(-40, 12), 1},
		{0.3, -135, geom.Pt(1000, -3), 2},
		{7, 359, geom.Pt(0.5, 0.25), 0.5},
	}
	pts := []geom.Point{{X: 0, Y: 0}, {X: 13, Y: -7}, {X: -250.5, Y: 640.125}}
	for _, c := range cases {
		v := NewView(geom.Size{W: 800, H: 600}, quiet())
		v.SetScale(c.scale)
		v.SetRotation(geom.Degrees(c.deg))
		v.SetOffset(c.off)
		v.SetSheet(c.sheet, geom.Pt(3, 4))
		for _, p := range pts {
			if q := v.ToDocument(v.ToDisplay(p)); !same(p, q) {
				t.Fatalf("case %+v: %v -> %v", c, p, q)
			}
			if q := v.ToDisplay(v.ToDocument(p)); !same(p, q) {
				t.Fatalf("case %+v reverse: %v -> %v", c, p, q)
			}
		}
	}
}

func TestForwardComposition(t *testing.T) {
	v := NewView(geom.Size{W: 100, H: 100}, quiet())
	v.SetScale(2)
	v.SetOffset(geom.Pt(10, 0))
	if p := v.ToDisplay(geom.Pt(15, 5)); !same(p, geom.Pt(10, 10)) {
		t.Fatalf("got %v", p)
	}
	v.SetRotation(geom.Degrees(90))
	if p := v.ToDisplay(geom.Pt(11, 0)); !same(p, geom.Pt(0, 2)) {
		t.Fatalf("rotated got %v", p)
	}
}

func TestZeroScaleIsCoerced(t *testing.T) {
	v := NewView(geom.Size{W: 10, H: 10}, quiet())
	for _, bad := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		v.SetScale(bad)
		if v.Scale() != 1 {
			t.Fatalf("scale %v not coerced: %v", bad, v.Scale())
		}
		inv := v.Inverse()
		if math.IsNaN(inv.A) || math.IsInf(inv.A, 0) {
			t.Fatalf("inverse blew up for %v", bad)
		}
	}
	v.SetSheet(0, geom.Point{})
	if v.EffectiveScale() != 1 {
		t.Fatalf("sheet scale not coerced")
	}
}

func TestSettersInvalidateCache(t *testing.T) {
	v := NewView(geom.Size{W: 10, H: 10}, quiet())
	_ = v.Forward()
	e := v.Epoch()
	v.SetScale(3)
	if v.Epoch() == e {
		t.Fatalf("epoch not bumped")
	}
	if v.Forward().A != 3 {
		t.Fatalf("stale forward matrix: %+v", v.Forward())
	}
	e = v.Epoch()
	v.SetScale(3)
	if v.Epoch() != e {
		t.Fatalf("no-op setter bumped epoch")
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := NewView(geom.Size{W: 400, H: 300}, quiet())
	v.SetOffset(geom.Pt(20, 30))
	v.SetRotation(geom.Degrees(15))
	at := geom.Pt(123, 45)
	before := v.ToDocument(at)
	v.ZoomAt(at, 2)
	if v.Scale() != 2 {
		t.Fatalf("scale = %v", v.Scale())
	}
	if after := v.ToDocument(at); !same(before, after) {
		t.Fatalf("anchor moved %v -> %v", before, after)
	}
}

func TestScrollByMovesViewport(t *testing.T) {
	v := NewView(geom.Size{W: 100, H: 100}, quiet())
	v.SetScale(2)
	v.ScrollBy(geom.Pt(20, 0))
	if !same(v.Offset(), geom.Pt(10, 0)) {
		t.Fatalf("offset = %v", v.Offset())
	}
	if r := v.VisibleDocumentRect(); !same(r.Min(), geom.Pt(10, 0)) || math.Abs(r.W-50) > 1e-9 {
		t.Fatalf("visible = %+v", r)
	}
}
