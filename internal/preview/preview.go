/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview draws the floating copy of the dragged shapes that
// follows the pointer during a drag-and-drop, and rasterizes the same
// snapshot as the drag image handed to the OS.
package preview

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
	"drawsurface/internal/xform"
)

// DefaultAlpha is the opacity of preview fills and strokes, 0..255.
const DefaultAlpha = 0x80

// maxRaster caps the intermediate raster used by Thumbnail.
const maxRaster = 1024

var ErrEmpty = errors.New("nothing to preview")

// Renderer holds the snapshot of a drag in progress. The snapshot is a
// deep copy; edits to the originals after Begin do not show.
type Renderer struct {
	Alpha uint8

	shapes  []*shape.Shape
	anchor  geom.Point // document point under the pointer at Begin
	pointer geom.Point // display
	placed  bool
}

func New() *Renderer { return &Renderer{Alpha: DefaultAlpha} }

// Begin snapshots shapes and remembers which document point was grabbed.
func (r *Renderer) Begin(shapes []*shape.Shape, anchorDoc geom.Point) {
	r.shapes = r.shapes[:0]
	for _, s := range shapes {
		r.shapes = append(r.shapes, detached(s))
	}
	r.anchor = anchorDoc
	r.placed = false
}

// detached clones s with its world placement baked in, so the copy renders
// where the original did without its parent.
func detached(s *shape.Shape) *shape.Shape {
	c := s.Clone()
	if p := s.Parent(); p != nil {
		c.SetPin(p.World().Apply(s.Pin()))
		a := s.Angle()
		for q := p; q != nil; q = q.Parent() {
			a += q.Angle()
		}
		c.SetAngle(a)
	}
	return c
}

// Move records the pointer position in display space.
func (r *Renderer) Move(display geom.Point) {
	r.pointer = display
	r.placed = true
}

func (r *Renderer) End() {
	r.shapes = nil
	r.placed = false
}

// Active reports whether a snapshot is held.
func (r *Renderer) Active() bool { return len(r.shapes) > 0 }

func (r *Renderer) Shapes() []*shape.Shape { return r.shapes }

// Offset is the document-space translation that puts the anchor under the
// pointer.
func (r *Renderer) Offset(v *xform.View) geom.Point {
	if !r.placed {
		return geom.Point{}
	}
	return v.ToDocument(r.pointer).Sub(r.anchor)
}

// Render draws the snapshot translucently, anchored to the pointer. Nothing
// is drawn before the first Move.
func (r *Renderer) Render(b render.Backend, v *xform.View) {
	if !r.Active() || !r.placed {
		return
	}
	off := r.Offset(v)
	base := v.Forward().Mul(geom.Translate(off.X, off.Y))
	for _, s := range r.shapes {
		s.Walk(func(n *shape.Shape) {
			render.WithTransform(b, base.Mul(n.World()), func() {
				for _, dp := range n.Paths() {
					b.DrawPath(dp.Path, fade(dp.Fill, r.Alpha), fadePen(dp.Stroke, r.Alpha))
				}
			})
		})
	}
}

func scaleAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = uint8(uint16(c.A) * uint16(a) / 0xff)
	return c
}

func fade(f *render.Brush, a uint8) *render.Brush {
	if f == nil {
		return nil
	}
	return &render.Brush{Color: scaleAlpha(f.Color, a)}
}

func fadePen(p *render.Pen, a uint8) *render.Pen {
	if p == nil {
		return nil
	}
	c := *p
	c.Color = scaleAlpha(p.Color, a)
	return &c
}

// Thumbnail rasterizes shapes at their document size and scales the result
// into a w×h image, centred and aspect-preserving.
func Thumbnail(shapes []*shape.Shape, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("thumbnail size must be positive")
	}
	var (
		bounds geom.Rect
		found  bool
	)
	for _, s := range shapes {
		b := s.Bounds()
		if b.IsEmpty() {
			continue
		}
		if !found {
			bounds, found = b, true
		} else {
			bounds = bounds.Union(b)
		}
	}
	if !found {
		return nil, ErrEmpty
	}

	scale := math.Min(1, maxRaster/math.Max(bounds.W, bounds.H))
	rw := max(1, int(math.Ceil(bounds.W*scale)))
	rh := max(1, int(math.Ceil(bounds.H*scale)))
	ctx := gg.NewContext(rw, rh)
	defer func() { _ = ctx.Close() }()

	back := render.NewGG(ctx)
	base := geom.Scale(scale, scale).Mul(geom.Translate(-bounds.X, -bounds.Y))
	for _, s := range shapes {
		shape.Draw(back, base, s)
	}
	if err := back.Err(); err != nil {
		return nil, err
	}

	src := ctx.Image()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	fit := math.Min(float64(w)/float64(rw), float64(h)/float64(rh))
	dw, dh := int(math.Round(float64(rw)*fit)), int(math.Round(float64(rh)*fit))
	x0, y0 := (w-dw)/2, (h-dh)/2
	xdraw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+dw, y0+dh), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}
