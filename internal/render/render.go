/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render defines the drawing contract the surface renders through,
// plus two backends: one rasterizing with gogpu/gg and one recording a
// command list for inspection.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
)

// Brush fills an area. A nil *Brush means "do not fill".
type Brush struct {
	Color color.NRGBA
}

// Pen strokes an outline. A nil *Pen means "do not stroke".
type Pen struct {
	Color color.NRGBA
	Width float64
	Dash  []float64
}

// Backend is the drawing context handed to Render entry points.
// PushTransform composes m onto the current transform; PopTransform undoes
// the most recent push.
type Backend interface {
	DrawPath(p *gg.Path, fill *Brush, stroke *Pen)
	DrawEllipse(center geom.Point, rx, ry float64, fill *Brush, stroke *Pen)
	DrawRect(r geom.Rect, fill *Brush, stroke *Pen)
	PushTransform(m geom.Matrix)
	PopTransform()
}

// WithTransform runs fn with m pushed onto b. The transform is popped on
// every exit path, including a panic inside fn.
func WithTransform(b Backend, m geom.Matrix, fn func()) {
	b.PushTransform(m)
	defer b.PopTransform()
	fn()
}

// ToGG converts a geom matrix to gg's row-major layout.
func ToGG(m geom.Matrix) gg.Matrix {
	return gg.Matrix{A: m.A, B: m.C, C: m.E, D: m.B, E: m.D, F: m.F}
}

// FromGG is the inverse of ToGG.
func FromGG(m gg.Matrix) geom.Matrix {
	return geom.Matrix{A: m.A, B: m.D, C: m.B, D: m.E, E: m.C, F: m.F}
}

func GGPoint(p geom.Point) gg.Point { return gg.Pt(p.X, p.Y) }
func GeomPoint(p gg.Point) geom.Point { return geom.Pt(p.X, p.Y) }

// PathBounds returns the bounds of p after applying m.
func PathBounds(p *gg.Path, m geom.Matrix) (geom.Rect, bool) {
	if p == nil || len(p.Elements()) == 0 {
		return geom.Rect{}, false
	}
	bb := p.Transform(ToGG(m)).BoundingBox()
	return geom.RectFromCorners(GeomPoint(bb.Min), GeomPoint(bb.Max)), true
}

// RectPath returns a closed path tracing r.
func RectPath(r geom.Rect) *gg.Path {
	p := gg.NewPath()
	p.Rectangle(r.X, r.Y, r.W, r.H)
	return p
}

// QuadPath returns the closed outline of r after applying m.
func QuadPath(r geom.Rect, m geom.Matrix) *gg.Path {
	c := r.Corners()
	p := gg.NewPath()
	for i, pt := range c {
		q := m.Apply(pt)
		if i == 0 {
			p.MoveTo(q.X, q.Y)
		} else {
			p.LineTo(q.X, q.Y)
		}
	}
	p.Close()
	return p
}

// Hex formats c as #rrggbb or #rrggbbaa.
func Hex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHex reads #rgb, #rrggbb or #rrggbbaa.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
