/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shape

import (
	"math"

	"github.com/gogpu/gg"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
)

// KnobKind tells what a control point edits.
type KnobKind int

const (
	KnobPin KnobKind = iota
	KnobLocPin
	KnobVertex
)

func (k KnobKind) String() string {
	switch k {
	case KnobPin:
		return "pin"
	case KnobLocPin:
		return "locpin"
	default:
		return "vertex"
	}
}

// ControlPoint is one editable point of a shape. Values are in document
// space. Accept applies an edited value and returns the value the model
// actually took, which may be clamped.
type ControlPoint interface {
	Shape() *Shape
	Kind() KnobKind
	Value() geom.Point
	Accept(doc geom.Point) geom.Point
}

// Knobs lists the shape's control points: pin, pivot, then every path
// vertex in element order.
func (s *Shape) Knobs() []ControlPoint {
	out := []ControlPoint{pinKnob{s}, locPinKnob{s}}
	for pi, p := range s.paths {
		if p.Path == nil {
			continue
		}
		for ei, el := range p.Path.Elements() {
			switch el.(type) {
			case gg.MoveTo, gg.LineTo:
				out = append(out, vertexKnob{s: s, path: pi, elem: ei})
			}
		}
	}
	return out
}

type pinKnob struct{ s *Shape }

func (k pinKnob) Shape() *Shape      { return k.s }
func (k pinKnob) Kind() KnobKind     { return KnobPin }
func (k pinKnob) Value() geom.Point  { return k.s.DocPin() }
func (k pinKnob) Accept(doc geom.Point) geom.Point {
	p := doc
	if k.s.parent != nil {
		p = k.s.parent.InverseWorld().Apply(doc)
	}
	k.s.SetPin(p)
	return k.Value()
}

// locPinKnob moves the rotation pivot without moving the shape. The pivot is
// kept inside the shape's local path bounds.
type locPinKnob struct{ s *Shape }

func (k locPinKnob) Shape() *Shape     { return k.s }
func (k locPinKnob) Kind() KnobKind    { return KnobLocPin }
func (k locPinKnob) Value() geom.Point { return k.s.DocPin() }
func (k locPinKnob) Accept(doc geom.Point) geom.Point {
	local := k.s.InverseWorld().Apply(doc)
	if b, ok := k.s.localBounds(); ok {
		local.X = math.Min(math.Max(local.X, b.X), b.X+b.W)
		local.Y = math.Min(math.Max(local.Y, b.Y), b.Y+b.H)
	}
	k.s.SetLocPinInPlace(local)
	return k.Value()
}

func (s *Shape) localBounds() (geom.Rect, bool) {
	var out geom.Rect
	have := false
	for _, p := range s.paths {
		b, ok := render.PathBounds(p.Path, geom.Identity())
		if !ok {
			continue
		}
		if have {
			out = out.Union(b)
		} else {
			out, have = b, true
		}
	}
	return out, have
}

type vertexKnob struct {
	s          *Shape
	path, elem int
}

func (k vertexKnob) Shape() *Shape  { return k.s }
func (k vertexKnob) Kind() KnobKind { return KnobVertex }

func (k vertexKnob) local() (geom.Point, bool) {
	if k.path >= len(k.s.paths) || k.s.paths[k.path].Path == nil {
		return geom.Point{}, false
	}
	els := k.s.paths[k.path].Path.Elements()
	if k.elem >= len(els) {
		return geom.Point{}, false
	}
	switch e := els[k.elem].(type) {
	case gg.MoveTo:
		return render.GeomPoint(e.Point), true
	case gg.LineTo:
		return render.GeomPoint(e.Point), true
	}
	return geom.Point{}, false
}

func (k vertexKnob) Value() geom.Point {
	p, _ := k.local()
	return k.s.World().Apply(p)
}

func (k vertexKnob) Accept(doc geom.Point) geom.Point {
	if _, ok := k.local(); !ok {
		return k.Value()
	}
	target := k.s.InverseWorld().Apply(doc)
	src := k.s.paths[k.path].Path
	dst := gg.NewPath()
	for i, el := range src.Elements() {
		if i == k.elem {
			switch el.(type) {
			case gg.MoveTo:
				dst.MoveTo(target.X, target.Y)
				continue
			case gg.LineTo:
				dst.LineTo(target.X, target.Y)
				continue
			}
		}
		switch e := el.(type) {
		case gg.MoveTo:
			dst.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dst.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			dst.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dst.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dst.Close()
		}
	}
	k.s.paths[k.path].Path = dst
	k.s.touch()
	return k.Value()
}
