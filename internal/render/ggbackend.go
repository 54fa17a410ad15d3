/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"errors"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
)

// GG rasterizes through a gogpu/gg context. Drawing errors do not stop a
// frame; the first one is kept and reported by Err.
type GG struct {
	ctx   *gg.Context
	depth int
	err   error
}

func NewGG(ctx *gg.Context) *GG { return &GG{ctx: ctx} }

func (b *GG) Context() *gg.Context { return b.ctx }

// Err returns the first error raised while drawing.
func (b *GG) Err() error { return b.err }

func (b *GG) keep(err error) {
	if err != nil && b.err == nil {
		b.err = err
	}
}

func (b *GG) DrawPath(p *gg.Path, fill *Brush, stroke *Pen) {
	if p == nil {
		return
	}
	b.ctx.ClearPath()
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case gg.MoveTo:
			b.ctx.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			b.ctx.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			b.ctx.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			b.ctx.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			b.ctx.ClosePath()
		}
	}
	b.paint(fill, stroke)
}

func (b *GG) DrawEllipse(c geom.Point, rx, ry float64, fill *Brush, stroke *Pen) {
	b.ctx.ClearPath()
	b.ctx.DrawEllipse(c.X, c.Y, rx, ry)
	b.paint(fill, stroke)
}

func (b *GG) DrawRect(r geom.Rect, fill *Brush, stroke *Pen) {
	b.ctx.ClearPath()
	b.ctx.DrawRectangle(r.X, r.Y, r.W, r.H)
	b.paint(fill, stroke)
}

func (b *GG) paint(fill *Brush, stroke *Pen) {
	if fill != nil {
		b.ctx.SetColor(fill.Color)
		b.keep(b.ctx.FillPreserve())
	}
	if stroke != nil {
		b.ctx.SetColor(stroke.Color)
		w := stroke.Width
		if w <= 0 {
			w = 1
		}
		b.ctx.SetLineWidth(w)
		b.ctx.SetDash(stroke.Dash...)
		b.keep(b.ctx.StrokePreserve())
		b.ctx.ClearDash()
	}
	b.ctx.ClearPath()
}

func (b *GG) PushTransform(m geom.Matrix) {
	b.ctx.Push()
	b.ctx.Transform(ToGG(m))
	b.depth++
}

func (b *GG) PopTransform() {
	if b.depth == 0 {
		b.keep(errors.New("render: pop without push"))
		return
	}
	b.depth--
	b.ctx.Pop()
}
