/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"errors"
	"image/color"
	"testing"

	"drawsurface/internal/behavior"
	"drawsurface/internal/config"
	"drawsurface/internal/dnd"
	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	applog "drawsurface/internal/log"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

var black = &render.Brush{Color: color.NRGBA{A: 0xff}}

// gridOnly keeps the grid responder and disables the others so snaps are
// easy to predict.
func gridOnly(c *config.AppConfig) {
	c.Glue.SnapToEdges = false
	c.Glue.SnapToCenters = false
	c.Glue.SnapToPins = false
}

func newSurface(t *testing.T, mut func(*config.AppConfig)) (*Surface, *ManualTimers, *shape.Layer) {
	t.Helper()
	cfg := config.Defaults()
	if mut != nil {
		mut(&cfg)
	}
	timers := &ManualTimers{}
	sheet := shape.NewSheet("sheet-1", geom.Size{W: 1000, H: 1000})
	s, err := New(Options{Size: geom.Size{W: 400, H: 300}, Sheet: sheet, Config: &cfg, Logger: applog.Discard(), Timers: timers})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, timers, sheet.ActiveLayer()
}

func addRect(l *shape.Layer, r geom.Rect) *shape.Shape {
	sh := shape.NewRect("r", r, black, nil)
	l.Add(sh)
	return sh
}

func press(x, y float64) Input { return Input{At: geom.Pt(x, y), Buttons: behavior.ButtonPrimary} }
func lift(x, y float64) Input  { return Input{At: geom.Pt(x, y)} }

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// dragTo presses at (5,5), off every knob of a 20x20 rect at the origin,
// and drags to (x,y) without releasing.
func dragTo(t *testing.T, s *Surface, x, y float64) {
	t.Helper()
	must(t, s.PointerDown(press(5, 5)))
	must(t, s.PointerMove(press(x, y)))
}

func TestInertWithoutSheet(t *testing.T) {
	s, err := New(Options{Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	must(t, s.PointerDown(press(5, 5)))
	must(t, s.PointerMove(press(50, 50)))
	must(t, s.PointerUp(lift(50, 50)))
	if s.Stack().Len() != 1 || s.Captured() {
		t.Fatalf("events on an empty surface changed state")
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrNoLayer) {
		t.Fatalf("expected ErrNoLayer, got %v", err)
	}
	rec := render.NewRecorder()
	s.Render(rec)
	if len(rec.Commands) != 0 {
		t.Fatalf("rendered %d commands without a sheet", len(rec.Commands))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Interaction.RangePolicy = "lasso"
	if _, err := New(Options{Config: &cfg, Logger: applog.Discard()}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDragSnapsToGridAndUndoes(t *testing.T) {
	s, _, l := newSurface(t, gridOnly)
	r := addRect(l, geom.R(0, 0, 20, 20))

	dragTo(t, s, 18, 7)
	if !s.Captured() {
		t.Fatalf("drag did not capture the pointer")
	}
	must(t, s.PointerUp(lift(18, 7)))
	if r.Pin() != geom.Pt(20, 10) {
		t.Fatalf("pin = %v, want grid point (20,10)", r.Pin())
	}
	if s.Captured() || s.Stack().Len() != 1 {
		t.Fatalf("drag did not finish")
	}

	if !s.Undo() || r.Pin() != geom.Pt(10, 10) {
		t.Fatalf("undo left pin at %v", r.Pin())
	}
	if !s.Redo() || r.Pin() != geom.Pt(20, 10) {
		t.Fatalf("redo left pin at %v", r.Pin())
	}
}

func TestGlueDisabledAndIgnoreModifier(t *testing.T) {
	s, _, l := newSurface(t, func(c *config.AppConfig) { gridOnly(c); c.Glue.Enabled = false })
	r := addRect(l, geom.R(0, 0, 20, 20))
	dragTo(t, s, 18, 7)
	must(t, s.PointerUp(lift(18, 7)))
	if r.Pin() != geom.Pt(23, 12) {
		t.Fatalf("glue disabled: pin = %v", r.Pin())
	}

	s2, _, l2 := newSurface(t, gridOnly)
	r2 := addRect(l2, geom.R(0, 0, 20, 20))
	must(t, s2.PointerDown(press(5, 5)))
	alt := press(18, 7)
	alt.Mods = behavior.ModAlt
	must(t, s2.PointerMove(alt))
	if r2.Pin() != geom.Pt(23, 12) {
		t.Fatalf("ignore-glue modifier: pin = %v", r2.Pin())
	}
}

func TestOnGlueQuery(t *testing.T) {
	s, _, l := newSurface(t, gridOnly)
	r := addRect(l, geom.R(0, 0, 20, 20))
	h := s.OnGlueQuery(func(q *glue.Query) { q.AcceptPin(geom.Pt(50, 50), 0.1, "test") })

	dragTo(t, s, 18, 7)
	must(t, s.PointerUp(lift(18, 7)))
	if r.Pin() != geom.Pt(50, 50) {
		t.Fatalf("closer custom proposal lost: pin = %v", r.Pin())
	}

	h.Remove()
	must(t, s.PointerDown(press(45, 45)))
	must(t, s.PointerMove(press(58, 47)))
	must(t, s.PointerUp(lift(58, 47)))
	if r.Pin() != geom.Pt(60, 50) {
		t.Fatalf("after Remove: pin = %v, want grid (60,50)", r.Pin())
	}
}

func TestHitToleranceFollowsZoom(t *testing.T) {
	s, _, l := newSurface(t, nil)
	line := shape.NewPolyline("line", []geom.Point{geom.Pt(0, 50), geom.Pt(100, 50)}, false, nil, &render.Pen{Color: color.NRGBA{A: 0xff}, Width: 0.5})
	l.Add(line)

	// 1.5 document units off the line: inside 4px/2 at zoom 1, outside at zoom 4.
	if s.ShapeAt(geom.Pt(50, 51.5)) != line {
		t.Fatalf("miss at zoom 1")
	}
	s.View().SetScale(4)
	if s.ShapeAt(geom.Pt(50, 51.5)) != nil {
		t.Fatalf("hit at zoom 4")
	}
}

func TestAutoscroll(t *testing.T) {
	s, timers, l := newSurface(t, gridOnly)
	r := addRect(l, geom.R(0, 0, 20, 20))
	dragTo(t, s, 18, 7)

	must(t, s.PointerMove(press(450, 7)))
	if !s.Autoscrolling() || timers.Live() != 1 {
		t.Fatalf("autoscroll did not start outside the viewport")
	}
	before := r.Pin()
	if n := timers.Tick(); n != 1 {
		t.Fatalf("expected one tick, got %d", n)
	}
	if s.View().Offset().X != 16 {
		t.Fatalf("view offset = %v", s.View().Offset())
	}
	if r.Pin().X <= before.X {
		t.Fatalf("drag did not follow the scroll: %v -> %v", before, r.Pin())
	}

	must(t, s.PointerMove(press(100, 7)))
	if s.Autoscrolling() || timers.Live() != 0 {
		t.Fatalf("autoscroll kept running inside the viewport")
	}

	must(t, s.PointerMove(press(100, -20)))
	must(t, s.PointerUp(lift(100, -20)))
	if s.Autoscrolling() || timers.Live() != 0 {
		t.Fatalf("autoscroll survived the end of the drag")
	}
}

func TestAutoscrollStopsOnReleasedButtonAndClose(t *testing.T) {
	s, timers, l := newSurface(t, gridOnly)
	addRect(l, geom.R(0, 0, 20, 20))
	dragTo(t, s, 18, 7)
	must(t, s.PointerMove(press(-30, 7)))
	if !s.Autoscrolling() {
		t.Fatalf("autoscroll did not start")
	}
	// The button came up outside the window; the next move reports it.
	must(t, s.PointerMove(lift(-30, 7)))
	if s.Autoscrolling() || s.Captured() {
		t.Fatalf("released button did not end the drag")
	}

	dragTo(t, s, 18, 7)
	must(t, s.PointerMove(press(-30, 7)))
	s.Close()
	if timers.Live() != 0 || timers.Tick() != 0 {
		t.Fatalf("timer fired after Close")
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestDragOutCopyAndMove(t *testing.T) {
	src, _, srcLayer := newSurface(t, gridOnly)
	r := addRect(srcLayer, geom.R(0, 0, 20, 20))
	dst, _, dstLayer := newSurface(t, gridOnly)

	dragTo(t, src, 18, 7)
	data, allowed, err := src.BeginDragOut()
	must(t, err)
	if src.Stack().Len() != 1 || r.Pin() != geom.Pt(10, 10) {
		t.Fatalf("internal drag not cancelled: stack %d pin %v", src.Stack().Len(), r.Pin())
	}

	if eff := dst.DragEnter(data, press(100, 100), allowed); eff != dnd.EffectMove {
		t.Fatalf("enter effect = %v", eff)
	}
	ctrl := press(100, 100)
	ctrl.Mods = behavior.ModCtrl
	if eff := dst.DragOver(ctrl, allowed); eff != dnd.EffectCopy {
		t.Fatalf("over effect with ctrl = %v", eff)
	}
	if !dst.Preview().Active() {
		t.Fatalf("no preview during drag")
	}
	if dstLayer.Len() != 0 {
		t.Fatalf("copy created before drop")
	}
	ctrl.Buttons = 0
	eff, err := dst.Drop(ctrl, allowed)
	must(t, err)
	if eff != dnd.EffectCopy || dstLayer.Len() != 1 {
		t.Fatalf("drop: effect %v, %d shapes", eff, dstLayer.Len())
	}
	// Grabbed at (8,7) relative to the original, dropped at (100,100).
	if got := dstLayer.Shapes()[0].Pin(); !got.Near(geom.Pt(102, 103), 1e-9) {
		t.Fatalf("dropped pin = %v", got)
	}
	if dst.Preview().Active() || dst.Selection().Len() != 1 {
		t.Fatalf("drop left preview or selection wrong")
	}

	src.EndDragOut(dnd.EffectCopy)
	if srcLayer.Len() != 1 {
		t.Fatalf("copy removed the original")
	}

	_, _, err = src.BeginDragOut()
	must(t, err)
	src.EndDragOut(dnd.EffectMove)
	if srcLayer.Len() != 0 || !src.Selection().IsEmpty() {
		t.Fatalf("move did not remove the original")
	}
}

func TestDropOnSourceMovesOriginals(t *testing.T) {
	s, _, l := newSurface(t, gridOnly)
	r := addRect(l, geom.R(0, 0, 20, 20))
	dragTo(t, s, 18, 7)
	data, allowed, err := s.BeginDragOut()
	must(t, err)

	s.DragEnter(data, press(200, 200), allowed)
	eff, err := s.Drop(lift(200, 200), allowed)
	must(t, err)
	s.EndDragOut(eff)
	if eff != dnd.EffectMove || l.Len() != 1 {
		t.Fatalf("effect %v, %d shapes", eff, l.Len())
	}
	if !r.Pin().Near(geom.Pt(202, 203), 1e-9) {
		t.Fatalf("original pin = %v", r.Pin())
	}
	if !s.Undo() || r.Pin() != geom.Pt(10, 10) {
		t.Fatalf("move by drop not undoable: %v", r.Pin())
	}
}

func TestDragRefusedAndCancelled(t *testing.T) {
	s, _, l := newSurface(t, nil)
	if eff := s.DragEnter([]byte(`{}`), press(10, 10), dnd.EffectCopy); eff != dnd.EffectNone {
		t.Fatalf("invalid payload accepted: %v", eff)
	}
	if eff, err := s.Drop(lift(10, 10), dnd.EffectCopy); eff != dnd.EffectNone || err != nil {
		t.Fatalf("drop without enter = %v %v", eff, err)
	}

	addRect(l, geom.R(0, 0, 20, 20))
	data, err := s.Snapshot()
	must(t, err)
	if eff := s.DragEnter(data, press(10, 10), dnd.EffectCopy); eff != dnd.EffectCopy {
		t.Fatalf("snapshot payload refused: %v", eff)
	}
	if a := s.QueryContinue(true, behavior.ButtonPrimary); a != dnd.ActionCancel {
		t.Fatalf("escape = %v", a)
	}
	if s.Preview().Active() {
		t.Fatalf("cancel left the preview up")
	}
	if eff, _ := s.Drop(lift(10, 10), dnd.EffectCopy); eff != dnd.EffectNone || l.Len() != 1 {
		t.Fatalf("drop after cancel: %v, %d shapes", eff, l.Len())
	}
}

func TestLockedLayerRefusesEdits(t *testing.T) {
	s, _, l := newSurface(t, nil)
	r := addRect(l, geom.R(0, 0, 20, 20))
	data, err := s.Snapshot()
	must(t, err)

	l.Locked = true
	must(t, s.PointerDown(press(5, 5)))
	must(t, s.PointerMove(press(40, 40)))
	must(t, s.PointerUp(lift(40, 40)))
	if !s.Selection().IsEmpty() {
		t.Fatalf("press on a locked layer selected %d shapes", s.Selection().Len())
	}
	if r.Pin() != geom.Pt(10, 10) {
		t.Fatalf("locked shape moved to %v", r.Pin())
	}

	s.Selection().Add(r)
	if _, ok := s.KnobAt(geom.Pt(0, 0)); ok {
		t.Fatalf("knob offered on a locked layer")
	}
	if eff := s.DragEnter(data, press(100, 100), dnd.EffectCopy); eff != dnd.EffectNone {
		t.Fatalf("locked layer accepted a drag: %v", eff)
	}
	if eff, _ := s.Drop(lift(100, 100), dnd.EffectCopy); eff != dnd.EffectNone || l.Len() != 1 {
		t.Fatalf("drop on locked layer: %v, %d shapes", eff, l.Len())
	}

	l.Locked = false
	if _, ok := s.KnobAt(geom.Pt(0, 0)); !ok {
		t.Fatalf("unlocked layer offers no knob at the corner")
	}
}

func TestRepaintKeepsSelectionBounds(t *testing.T) {
	s, _, l := newSurface(t, nil)
	r := addRect(l, geom.R(0, 0, 20, 20))
	s.Selection().Add(r)
	if _, ok := s.Selection().Bounds(); !ok {
		t.Fatalf("no bounds for a selected shape")
	}
	must(t, s.PreviewMove(lift(200, 200)))
	s.Invalidate()
	if !s.Selection().Cached() {
		t.Fatalf("repaint dropped the selection bounds")
	}
	r.SetPin(geom.Pt(50, 50))
	if s.Selection().Cached() {
		t.Fatalf("moved member did not stale the bounds")
	}
	if b, _ := s.Selection().Bounds(); !b.Min().Near(geom.Pt(40, 40), 1e-9) || !geom.Pt(b.W, b.H).Near(geom.Pt(20, 20), 1e-9) {
		t.Fatalf("bounds = %v", b)
	}
}

func TestRenderFrame(t *testing.T) {
	s, _, l := newSurface(t, nil)
	addRect(l, geom.R(0, 0, 20, 20))
	must(t, s.PointerDown(press(5, 5)))
	must(t, s.PointerUp(lift(5, 5)))
	if s.Selection().Len() != 1 || !s.Dirty() {
		t.Fatalf("click did not select")
	}

	rec := render.NewRecorder()
	s.Render(rec)
	if s.Dirty() {
		t.Fatalf("render did not clear the dirty flag")
	}
	// halo, shape and selection outline
	if n := rec.Count("path"); n != 3 {
		t.Fatalf("paths = %d", n)
	}
	// pin and four corners as squares, the locpin as a circle
	if rec.Count("rect") != 5 || rec.Count("ellipse") != 1 {
		t.Fatalf("knobs: %d rects, %d ellipses", rec.Count("rect"), rec.Count("ellipse"))
	}
	if rec.Depth() != 0 {
		t.Fatalf("unbalanced transforms")
	}
}

func TestSwitchingSheetCancelsGesture(t *testing.T) {
	s, _, l := newSurface(t, gridOnly)
	r := addRect(l, geom.R(0, 0, 20, 20))
	dragTo(t, s, 18, 7)
	s.SetSheet(shape.NewSheet("sheet-2", geom.Size{W: 10, H: 10}))
	if s.Stack().Len() != 1 || r.Pin() != geom.Pt(10, 10) || !s.Selection().IsEmpty() {
		t.Fatalf("sheet switch left the drag running")
	}
	if s.CanUndo() {
		t.Fatalf("new sheet inherited undo history")
	}
}
