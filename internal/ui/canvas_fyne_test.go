//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests drive SurfaceCanvas with synthetic Fyne events. They are gated
// behind the "fyne" build tag so headless CI does not need Fyne.
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"image/color"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"drawsurface/internal/behavior"
	"drawsurface/internal/config"
	"drawsurface/internal/geom"
	applog "drawsurface/internal/log"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
	"drawsurface/internal/surface"
)

func newCanvas(t *testing.T) (*SurfaceCanvas, *shape.Shape) {
	t.Helper()
	test.NewTempApp(t)
	cfg := config.Defaults()
	cfg.Glue.Enabled = false
	sheet := shape.NewSheet("ui", geom.Size{W: 1000, H: 1000})
	r := shape.NewRect("box", geom.R(0, 0, 40, 40), &render.Brush{Color: color.NRGBA{R: 0xff, A: 0xff}}, nil)
	sheet.ActiveLayer().Add(r)
	s, err := surface.New(surface.Options{Size: geom.Size{W: 400, H: 300}, Sheet: sheet, Config: &cfg, Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	c := NewSurfaceCanvas(s)
	c.Resize(fyne.NewSize(400, 300))
	return c, r
}

func mouse(x, y float32, b desktop.MouseButton, m fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b, Modifier: m}
}

func TestModifierAndButtonMapping(t *testing.T) {
	if got := toModifiers(fyne.KeyModifierShift | fyne.KeyModifierControl); got != behavior.ModShift|behavior.ModCtrl {
		t.Fatalf("unexpected modifiers %v", got)
	}
	if got := toModifiers(fyne.KeyModifierSuper | fyne.KeyModifierAlt); got != behavior.ModMeta|behavior.ModAlt {
		t.Fatalf("unexpected modifiers %v", got)
	}
	if got := toButtons(desktop.MouseButtonSecondary); got != behavior.ButtonSecondary {
		t.Fatalf("unexpected buttons %v", got)
	}
}

func TestDragThroughFyneEvents(t *testing.T) {
	c, r := newCanvas(t)
	var status string
	c.OnStatus = func(s string) { status = s }

	c.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary, 0))
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 30)}})
	if !strings.HasPrefix(status, "basic > dragging") {
		t.Fatalf("unexpected status %q", status)
	}
	c.DragEnd()
	c.MouseUp(mouse(40, 30, desktop.MouseButtonPrimary, 0))

	if r.Pin() != geom.Pt(50, 40) {
		t.Fatalf("pin = %v, want (50,40)", r.Pin())
	}
	if c.Surface().Stack().Len() != 1 || !strings.Contains(status, "1 selected") {
		t.Fatalf("drag did not finish cleanly: %q", status)
	}
	c.Undo()
	if r.Pin() != geom.Pt(20, 20) {
		t.Fatalf("undo left pin at %v", r.Pin())
	}
}

func TestScrollZoomsAroundPointer(t *testing.T) {
	c, _ := newCanvas(t)
	v := c.Surface().View()
	before := v.ToDocument(geom.Pt(100, 100))
	c.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)}, Scrolled: fyne.NewDelta(0, 10)})
	if v.Scale() != zoomStep {
		t.Fatalf("scale = %v, want %v", v.Scale(), zoomStep)
	}
	if after := v.ToDocument(geom.Pt(100, 100)); !after.Near(before, 1e-9) {
		t.Fatalf("zoom moved the point under the pointer: %v -> %v", before, after)
	}
}

func TestDrawProducesFrame(t *testing.T) {
	c, _ := newCanvas(t)
	img := c.draw(400, 300)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("unexpected frame size %v", b)
	}
	r, g, _, _ := img.At(20, 20).RGBA()
	if r < 0xc000 || g > 0x4000 {
		t.Fatalf("expected the red box at (20,20), got %v", img.At(20, 20))
	}
}

func TestDemoSheet(t *testing.T) {
	if n := demoSheet().ActiveLayer().Len(); n != 3 {
		t.Fatalf("demo sheet has %d shapes, want 3", n)
	}
}
