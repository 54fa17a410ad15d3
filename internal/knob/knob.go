/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package knob turns shape control points into on-screen handles and turns
// handle drags back into document edits.
package knob

import (
	"errors"
	"image/color"

	"drawsurface/internal/geom"
	"drawsurface/internal/lazy"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
	"drawsurface/internal/xform"
)

// ErrNilView is returned when a controller is built without a view.
var ErrNilView = errors.New("knob: nil view")

// Handle is a display-space square bound to one control point.
type Handle struct {
	Point   shape.ControlPoint
	Display geom.Point
}

// Controller owns the handles of the currently bound shapes. Handle
// positions are derived from the model, so they always show the accepted
// value rather than the raw drag target.
type Controller struct {
	view    *xform.View
	size    float64
	shapes  []*shape.Shape
	handles *lazy.Value[[]Handle]
	gen     uint64

	Fill   render.Brush
	Stroke render.Pen
}

func NewController(view *xform.View, size float64) (*Controller, error) {
	if view == nil {
		return nil, ErrNilView
	}
	if size <= 0 {
		size = 8
	}
	c := &Controller{
		view:   view,
		size:   size,
		Fill:   render.Brush{Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		Stroke: render.Pen{Color: color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 255}, Width: 1},
	}
	c.handles = lazy.New(c.build).DependsOn(view.Epoch, c.revs, func() uint64 { return c.gen })
	return c, nil
}

func (c *Controller) revs() uint64 {
	var n uint64
	for _, s := range c.shapes {
		n += s.Rev()
	}
	return n
}

func (c *Controller) build() []Handle {
	var out []Handle
	fwd := c.view.Forward()
	for _, s := range c.shapes {
		for _, cp := range s.Knobs() {
			out = append(out, Handle{Point: cp, Display: fwd.Apply(cp.Value())})
		}
	}
	return out
}

// Bind replaces the set of shapes whose knobs are shown.
func (c *Controller) Bind(shapes []*shape.Shape) {
	c.shapes = append(c.shapes[:0], shapes...)
	c.gen++
}

func (c *Controller) Size() float64 { return c.size }

// Handles returns the current handles in knob order.
func (c *Controller) Handles() []Handle { return c.handles.Get() }

// At returns the last handle whose square contains pt (display space).
func (c *Controller) At(pt geom.Point) (Handle, bool) {
	hs := c.Handles()
	for i := len(hs) - 1; i >= 0; i-- {
		if c.box(hs[i].Display).Contains(pt) {
			return hs[i], true
		}
	}
	return Handle{}, false
}

func (c *Controller) box(p geom.Point) geom.Rect {
	h := c.size / 2
	return geom.R(p.X-h, p.Y-h, c.size, c.size)
}

// DragBy moves h by a display-space delta and returns the handle at its new,
// model-authoritative position.
func (c *Controller) DragBy(h Handle, displayDelta geom.Point) Handle {
	d := c.view.DisplayDeltaToDocument(displayDelta)
	accepted := h.Point.Accept(h.Point.Value().Add(d))
	return Handle{Point: h.Point, Display: c.view.ToDisplay(accepted)}
}

// MoveTo places h at a display-space position.
func (c *Controller) MoveTo(h Handle, display geom.Point) Handle {
	return c.DragBy(h, display.Sub(c.view.ToDisplay(h.Point.Value())))
}

// Render draws every handle in display space.
func (c *Controller) Render(b render.Backend) {
	fill, stroke := c.Fill, c.Stroke
	for _, h := range c.Handles() {
		if h.Point.Kind() == shape.KnobLocPin {
			b.DrawEllipse(h.Display, c.size/2, c.size/2, &fill, &stroke)
			continue
		}
		b.DrawRect(c.box(h.Display), &fill, &stroke)
	}
}
