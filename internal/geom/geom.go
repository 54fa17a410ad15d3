/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the value types shared by every layer of the surface:
// points, sizes, rectangles, angles, distances and 2D affine matrices.
// All types are immutable values; methods return new values.
package geom

import "math"

// Point is a 2D point or vector.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point       { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point       { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float64) Point     { return Point{p.X * s, p.Y * s} }
func (p Point) Len() float64            { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64    { return p.Sub(q).Len() }
func (p Point) IsZero() bool            { return p.X == 0 && p.Y == 0 }
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Size is a width/height pair.
type Size struct{ W, H float64 }

func (s Size) IsEmpty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// RectFromCorners builds the rectangle spanned by two opposite corners given
// in any order.
func RectFromCorners(a, b Point) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (r Rect) Min() Point    { return Point{r.X, r.Y} }
func (r Rect) Max() Point    { return Point{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Size() Size    { return Size{r.W, r.H} }
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Intersects reports whether r and o share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return o.X <= r.X+r.W && r.X <= o.X+o.W && o.Y <= r.Y+r.H && r.Y <= o.Y+o.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

func (r Rect) Translate(d Point) Rect { return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H} }

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Corners returns the four corners clockwise from the min corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
}

// BoundsOf returns the bounding rectangle of pts; ok is false for no points.
func BoundsOf(pts ...Point) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Angle is a signed rotation in radians, positive is clockwise in a y-down
// display.
type Angle float64

func Degrees(d float64) Angle      { return Angle(d * math.Pi / 180) }
func (a Angle) Radians() float64   { return float64(a) }
func (a Angle) Degrees() float64   { return float64(a) * 180 / math.Pi }
func (a Angle) Sincos() (s, c float64) {
	return math.Sincos(float64(a))
}

// Unit is a length unit convertible to pixels.
type Unit int

const (
	Pixel Unit = iota
	Point72
	Millimeter
	Inch
)

// PixelsPerInch is the canonical resolution used to convert physical units.
const PixelsPerInch = 96.0

func (u Unit) String() string {
	switch u {
	case Point72:
		return "pt"
	case Millimeter:
		return "mm"
	case Inch:
		return "in"
	default:
		return "px"
	}
}

// Distance is a length tagged with its unit.
type Distance struct {
	Value float64
	Unit  Unit
}

func Px(v float64) Distance { return Distance{Value: v, Unit: Pixel} }
func Mm(v float64) Distance { return Distance{Value: v, Unit: Millimeter} }

// Pixels converts d into the canonical pixel unit.
func (d Distance) Pixels() float64 {
	switch d.Unit {
	case Point72:
		return d.Value * PixelsPerInch / 72
	case Millimeter:
		return d.Value * PixelsPerInch / 25.4
	case Inch:
		return d.Value * PixelsPerInch
	default:
		return d.Value
	}
}

// In converts d to unit u.
func (d Distance) In(u Unit) Distance {
	px := d.Pixels()
	one := Distance{Value: 1, Unit: u}.Pixels()
	return Distance{Value: px / one, Unit: u}
}

func (d Distance) Add(o Distance) Distance {
	return Distance{Value: d.Value + o.In(d.Unit).Value, Unit: d.Unit}
}
