/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package knob

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
	"drawsurface/internal/xform"
)

func view(scale float64) *xform.View {
	v := xform.NewView(geom.Size{W: 200, H: 200}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.SetScale(scale)
	return v
}

func TestNilViewRejected(t *testing.T) {
	if c, err := NewController(nil, 8); !errors.Is(err, ErrNilView) || c != nil {
		t.Fatalf("expected ErrNilView, got %v", err)
	}
}

func TestHandlesFollowViewAndModel(t *testing.T) {
	v := view(2)
	c, err := NewController(v, 8)
	if err != nil {
		t.Fatal(err)
	}
	s := shape.NewRect("a", geom.R(0, 0, 10, 10), &render.Brush{Color: color.NRGBA{A: 255}}, nil)
	c.Bind([]*shape.Shape{s})
	hs := c.Handles()
	if len(hs) != 2+4 || hs[0].Display != geom.Pt(10, 10) {
		t.Fatalf("handles = %+v", hs)
	}
	s.MoveBy(geom.Pt(5, 0))
	if got := c.Handles()[0].Display; got != geom.Pt(20, 10) {
		t.Fatalf("handle did not follow model: %v", got)
	}
	v.SetScale(1)
	if got := c.Handles()[0].Display; got != geom.Pt(10, 5) {
		t.Fatalf("handle did not follow view: %v", got)
	}
	if h, ok := c.At(geom.Pt(12, 7)); !ok || h.Point.Kind() != shape.KnobLocPin {
		t.Fatalf("At picked %+v %v", h, ok)
	}
	if _, ok := c.At(geom.Pt(100, 100)); ok {
		t.Fatalf("At hit empty space")
	}
}

func TestDragByConvertsDeltaAndUsesAcceptedValue(t *testing.T) {
	v := view(2)
	c, _ := NewController(v, 8)
	s := shape.NewRect("a", geom.R(0, 0, 10, 10), nil, &render.Pen{Width: 1})
	c.Bind([]*shape.Shape{s})
	var pin, loc Handle
	for _, h := range c.Handles() {
		switch h.Point.Kind() {
		case shape.KnobPin:
			pin = h
		case shape.KnobLocPin:
			loc = h
		}
	}
	moved := c.DragBy(pin, geom.Pt(20, 0))
	if s.Pin() != geom.Pt(15, 5) || moved.Display != geom.Pt(30, 10) {
		t.Fatalf("pin drag: pin=%v display=%v", s.Pin(), moved.Display)
	}
	// the pivot is clamped to the shape, so a far drag stops at its edge
	got := c.DragBy(loc, geom.Pt(400, 0))
	if !s.LocPin().Near(geom.Pt(10, 5), 1e-9) {
		t.Fatalf("locpin = %v", s.LocPin())
	}
	if !got.Display.Near(geom.Pt(40, 10), 1e-9) {
		t.Fatalf("handle shows raw target instead of accepted value: %v", got.Display)
	}
}

func TestRenderDrawsEveryHandle(t *testing.T) {
	c, _ := NewController(view(1), 6)
	s := shape.NewRect("a", geom.R(0, 0, 10, 10), nil, &render.Pen{Width: 1})
	c.Bind([]*shape.Shape{s})
	rec := render.NewRecorder()
	c.Render(rec)
	if rec.Count("ellipse") != 1 || rec.Count("rect") != 5 {
		t.Fatalf("commands = %+v", rec.Commands)
	}
	c.Bind(nil)
	rec.Reset()
	c.Render(rec)
	if len(rec.Commands) != 0 {
		t.Fatalf("unbound controller drew handles")
	}
}
