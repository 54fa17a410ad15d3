/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"image/color"

	"github.com/gogpu/gg"

	"drawsurface/internal/behavior"
	"drawsurface/internal/geom"
	"drawsurface/internal/glue"
	"drawsurface/internal/render"
)

var (
	hoverPen = render.Pen{Color: color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 0x90}, Width: 1}
	guidePen = render.Pen{Color: color.NRGBA{R: 0xff, G: 0x00, B: 0x88, A: 0xff}, Width: 1, Dash: []float64{3, 3}}
)

// Render paints one frame in display space, back to front: behavior
// pre-overlays, selection halos, visible layers, selection outline, glue
// guides, knobs, behavior post-overlays and finally the drag preview.
func (s *Surface) Render(b render.Backend) {
	s.dirty = false
	if s.closed || s.sheet == nil {
		return
	}
	fwd := s.view.Forward()
	s.stack.RenderPre(b, fwd)
	s.sel.RenderPre(b, fwd)
	s.sheet.Draw(b, fwd)
	if h := s.stack.Root().Hover(); h != nil && !s.sel.Contains(h) && s.stack.Len() == 1 {
		b.DrawPath(render.QuadPath(h.Bounds(), fwd), nil, &hoverPen)
	}
	s.sel.RenderPost(b, fwd)
	s.renderGuides(b, fwd)
	if s.stack.Len() == 1 || s.knobDragging() {
		s.knobs.Render(b)
	}
	s.stack.RenderPost(b, fwd)
	s.preview.Render(b, s.view)
}

func (s *Surface) knobDragging() bool {
	d, ok := s.stack.Top().(*behavior.Dragging)
	return ok && d.KnobMode()
}

func (s *Surface) renderGuides(b render.Backend, fwd geom.Matrix) {
	d, ok := s.stack.Top().(*behavior.Dragging)
	if !ok || d.KnobMode() {
		return
	}
	for _, sh := range d.Shapes() {
		for _, g := range s.guides.Lines(sh) {
			b.DrawPath(guidePath(g, fwd), nil, &guidePen)
		}
	}
}

func guidePath(g glue.GuideLine, fwd geom.Matrix) *gg.Path {
	from, to := fwd.Apply(g.From), fwd.Apply(g.To)
	p := gg.NewPath()
	p.MoveTo(from.X, from.Y)
	p.LineTo(to.X, to.Y)
	return p
}
