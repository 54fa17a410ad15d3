/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package behavior

import (
	"image/color"
	"log/slog"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
)

// RangeSelecting rubber-bands a rectangle from the press to the pointer and
// replaces the selection with the shapes it catches on release.
type RangeSelecting struct {
	link
	noop
	host Host

	start, cur geom.Point
	active     bool

	Fill render.Brush
	Pen  render.Pen
}

func NewRangeSelecting(host Host) (*RangeSelecting, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	return &RangeSelecting{
		host: host,
		Fill: render.Brush{Color: color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 0x20}},
		Pen:  render.Pen{Color: color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff}, Width: 1, Dash: []float64{4, 4}},
	}, nil
}

func (r *RangeSelecting) Kind() Kind   { return KindRangeSelecting }
func (r *RangeSelecting) chain() *link { return &r.link }
func (r *RangeSelecting) valid() bool  { return r != nil && r.host != nil }

// Rect is the current rubber band in document space.
func (r *RangeSelecting) Rect() geom.Rect { return geom.RectFromCorners(r.start, r.cur) }

func (r *RangeSelecting) DragBegin(_ *Stack, down Event) error {
	r.start, r.cur, r.active = down.Doc, down.Doc, true
	r.host.Capture()
	return nil
}

func (r *RangeSelecting) PointerMove(s *Stack, ev Event) error {
	if !ev.Primary() {
		return r.PointerUp(s, ev)
	}
	if r.active {
		r.cur = ev.Doc
		r.host.Invalidate()
	}
	return nil
}

func (r *RangeSelecting) PointerUp(s *Stack, ev Event) error {
	if r.active {
		r.cur = ev.Doc
		if r.host.ActiveLayer() != nil {
			hits := r.host.ShapesInRect(r.Rect())
			r.host.Selection().Replace(hits...)
			r.host.Logger().Debug("range select", slog.Int("hits", len(hits)))
		}
	}
	return r.finish(s)
}

// Cancel drops the rubber band and leaves the selection alone.
func (r *RangeSelecting) Cancel(s *Stack) error { return r.finish(s) }

func (r *RangeSelecting) finish(s *Stack) error {
	r.active = false
	r.host.ReleaseCapture()
	r.host.Invalidate()
	return s.Pop(r)
}

func (r *RangeSelecting) PreviewMove(s *Stack, ev Event) error {
	return Forward(r, func(p Behavior) error { return p.PreviewMove(s, ev) })
}

// RenderPost draws the band as a transformed quad so it follows view
// rotation.
func (r *RangeSelecting) RenderPost(b render.Backend, toDisplay geom.Matrix) {
	if !r.active {
		return
	}
	fill, pen := r.Fill, r.Pen
	b.DrawPath(render.QuadPath(r.Rect(), toDisplay), &fill, &pen)
}

var _ Behavior = (*RangeSelecting)(nil)
