//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"drawsurface/internal/behavior"
	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/surface"
)

const zoomStep = 1.25

var backdrop = color.NRGBA{R: 0xee, G: 0xee, B: 0xf0, A: 0xff}

// SurfaceCanvas hosts a surface inside a Fyne window. It translates Fyne
// pointer events into surface input and paints frames through a raster.
type SurfaceCanvas struct {
	widget.BaseWidget

	surf   *surface.Surface
	raster *canvas.Raster
	ctx    *gg.Context

	held behavior.Buttons
	mods behavior.Modifiers
	last fyne.Position

	// OnStatus receives a one-line summary after every handled event.
	OnStatus func(string)
}

func NewSurfaceCanvas(s *surface.Surface) *SurfaceCanvas {
	c := &SurfaceCanvas{surf: s}
	c.raster = canvas.NewRaster(c.draw)
	c.raster.ScaleMode = canvas.ImageScalePixels
	c.ExtendBaseWidget(c)
	return c
}

func (c *SurfaceCanvas) Surface() *surface.Surface { return c.surf }

func (c *SurfaceCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

func (c *SurfaceCanvas) MinSize() fyne.Size { return fyne.NewSize(400, 300) }

// Resize keeps the view's display size in step with the widget.
func (c *SurfaceCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.surf.View().SetSize(geom.Size{W: float64(size.Width), H: float64(size.Height)})
}

func (c *SurfaceCanvas) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if c.ctx == nil || c.ctx.Width() != w || c.ctx.Height() != h {
		if c.ctx != nil {
			_ = c.ctx.Close()
		}
		c.ctx = gg.NewContext(w, h)
	}
	c.ctx.ClearWithColor(gg.FromColor(backdrop))
	back := render.NewGG(c.ctx)
	sx, sy := 1.0, 1.0
	if sz := c.Size(); sz.Width > 0 && sz.Height > 0 {
		sx, sy = float64(w)/float64(sz.Width), float64(h)/float64(sz.Height)
	}
	render.WithTransform(back, geom.Scale(sx, sy), func() { c.surf.Render(back) })
	return c.ctx.Image()
}

func (c *SurfaceCanvas) input(pos fyne.Position) surface.Input {
	c.last = pos
	return surface.Input{At: geom.Pt(float64(pos.X), float64(pos.Y)), Buttons: c.held, Mods: c.mods}
}

// changed refreshes the raster and reports status.
func (c *SurfaceCanvas) changed() {
	c.raster.Refresh()
	if c.OnStatus != nil {
		c.OnStatus(Status(c.surf))
	}
}

func (c *SurfaceCanvas) MouseDown(e *desktop.MouseEvent) {
	c.held |= toButtons(e.Button)
	c.mods = toModifiers(e.Modifier)
	_ = c.surf.PointerDown(c.input(e.Position))
	c.changed()
}

func (c *SurfaceCanvas) MouseUp(e *desktop.MouseEvent) {
	c.mods = toModifiers(e.Modifier)
	c.release(e.Position, toButtons(e.Button))
}

// release sends the up event once; both MouseUp and DragEnd end a drag and
// Fyne does not promise their order.
func (c *SurfaceCanvas) release(pos fyne.Position, b behavior.Buttons) {
	if c.held&b == 0 {
		return
	}
	c.held &^= b
	_ = c.surf.PointerUp(c.input(pos))
	c.changed()
}

func (c *SurfaceCanvas) MouseIn(e *desktop.MouseEvent) {
	_ = c.surf.PointerEnter(c.input(e.Position))
	c.changed()
}

func (c *SurfaceCanvas) MouseMoved(e *desktop.MouseEvent) {
	c.mods = toModifiers(e.Modifier)
	in := c.input(e.Position)
	if c.held == 0 {
		_ = c.surf.PreviewMove(in)
	} else {
		_ = c.surf.PointerMove(in)
	}
	c.changed()
}

func (c *SurfaceCanvas) MouseOut() {
	_ = c.surf.PointerLeave(c.input(c.last))
	c.changed()
}

func (c *SurfaceCanvas) Dragged(e *fyne.DragEvent) {
	if c.held == 0 {
		c.held = behavior.ButtonPrimary
	}
	_ = c.surf.PointerMove(c.input(e.Position))
	c.changed()
}

func (c *SurfaceCanvas) DragEnd() { c.release(c.last, behavior.ButtonPrimary) }

// Scrolled zooms around the pointer, one step per wheel notch.
func (c *SurfaceCanvas) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY == 0 {
		return
	}
	f := zoomStep
	if e.Scrolled.DY < 0 {
		f = 1 / zoomStep
	}
	c.surf.View().ZoomAt(geom.Pt(float64(e.Position.X), float64(e.Position.Y)), f)
	c.surf.Invalidate()
	c.changed()
}

// Cancel abandons the current gesture, as Escape does.
func (c *SurfaceCanvas) Cancel() {
	_ = c.surf.Cancel()
	c.changed()
}

func (c *SurfaceCanvas) Undo() {
	if c.surf.Undo() {
		c.changed()
	}
}

func (c *SurfaceCanvas) Redo() {
	if c.surf.Redo() {
		c.changed()
	}
}

// Status summarizes interaction state for the status bar.
func Status(s *surface.Surface) string {
	kinds := s.Stack().Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s | %d selected | zoom %.0f%%", strings.Join(names, " > "), s.Selection().Len(), s.View().Scale()*100)
}

func toButtons(b desktop.MouseButton) behavior.Buttons {
	var out behavior.Buttons
	if b&desktop.MouseButtonPrimary != 0 {
		out |= behavior.ButtonPrimary
	}
	if b&desktop.MouseButtonSecondary != 0 {
		out |= behavior.ButtonSecondary
	}
	if b&desktop.MouseButtonTertiary != 0 {
		out |= behavior.ButtonMiddle
	}
	return out
}

func toModifiers(m fyne.KeyModifier) behavior.Modifiers {
	var out behavior.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= behavior.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= behavior.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= behavior.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= behavior.ModMeta
	}
	return out
}
