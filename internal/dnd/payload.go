/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	gojsonschema "github.com/xeipuuv/gojsonschema"

	"drawsurface/internal/geom"
	"drawsurface/internal/render"
	"drawsurface/internal/shape"
)

// Version of the payload layout.
const Version = 1

var ErrInvalidPayload = errors.New("invalid drag payload")

// Payload snapshots the dragged shapes in document space. Anchor is the
// document point that was under the pointer when the drag began.
type Payload struct {
	Version int         `json:"version"`
	Source  string      `json:"source"`
	Anchor  [2]float64  `json:"anchor"`
	Shapes  []ShapeData `json:"shapes"`
}

type ShapeData struct {
	Name     string      `json:"name,omitempty"`
	Pin      [2]float64  `json:"pin"`
	LocPin   [2]float64  `json:"locpin"`
	Angle    float64     `json:"angle"` // degrees
	Paths    []PathData  `json:"paths,omitempty"`
	Children []ShapeData `json:"children,omitempty"`
}

type PathData struct {
	Elements []Element `json:"elements"`
	Fill     string    `json:"fill,omitempty"`
	Stroke   string    `json:"stroke,omitempty"`
	Width    float64   `json:"width,omitempty"`
	Dash     []float64 `json:"dash,omitempty"`
}

// Element is one path command: M and L take one point, Q two, C three and
// Z none. Pts is a flat x,y list.
type Element struct {
	Op  string    `json:"op"`
	Pts []float64 `json:"pts,omitempty"`
}

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "source", "anchor", "shapes"],
  "properties": {
    "version": {"const": 1},
    "source": {"type": "string", "minLength": 1},
    "anchor": {"$ref": "#/definitions/point"},
    "shapes": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/shape"}}
  },
  "definitions": {
    "point": {"type": "array", "items": {"type": "number"}, "minItems": 2, "maxItems": 2},
    "color": {"type": "string", "pattern": "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$"},
    "element": {
      "type": "object",
      "required": ["op"],
      "properties": {
        "op": {"enum": ["M", "L", "Q", "C", "Z"]},
        "pts": {"type": "array", "items": {"type": "number"}, "maxItems": 6}
      }
    },
    "path": {
      "type": "object",
      "required": ["elements"],
      "properties": {
        "elements": {"type": "array", "items": {"$ref": "#/definitions/element"}},
        "fill": {"$ref": "#/definitions/color"},
        "stroke": {"$ref": "#/definitions/color"},
        "width": {"type": "number", "minimum": 0},
        "dash": {"type": "array", "items": {"type": "number", "minimum": 0}}
      }
    },
    "shape": {
      "type": "object",
      "required": ["pin", "locpin", "angle"],
      "properties": {
        "name": {"type": "string"},
        "pin": {"$ref": "#/definitions/point"},
        "locpin": {"$ref": "#/definitions/point"},
        "angle": {"type": "number"},
        "paths": {"type": "array", "items": {"$ref": "#/definitions/path"}},
        "children": {"type": "array", "items": {"$ref": "#/definitions/shape"}}
      }
    }
  }
}`

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// New snapshots shapes. Nested shapes are flattened into document space:
// their pin becomes the document pin and their angle the accumulated angle.
func New(source uuid.UUID, anchor geom.Point, shapes []*shape.Shape) Payload {
	p := Payload{Version: Version, Source: source.String(), Anchor: pt2(anchor)}
	for _, s := range shapes {
		d := snapshot(s)
		d.Pin = pt2(s.DocPin())
		d.Angle = docAngle(s).Degrees()
		p.Shapes = append(p.Shapes, d)
	}
	return p
}

func docAngle(s *shape.Shape) geom.Angle {
	a := s.Angle()
	for p := s.Parent(); p != nil; p = p.Parent() {
		a += p.Angle()
	}
	return a
}

func snapshot(s *shape.Shape) ShapeData {
	d := ShapeData{
		Name:   s.Name,
		Pin:    pt2(s.Pin()),
		LocPin: pt2(s.LocPin()),
		Angle:  s.Angle().Degrees(),
	}
	for _, dp := range s.Paths() {
		d.Paths = append(d.Paths, pathData(dp))
	}
	for _, c := range s.Children() {
		d.Children = append(d.Children, snapshot(c))
	}
	return d
}

func pathData(dp shape.DrawingPath) PathData {
	pd := PathData{}
	if dp.Path != nil {
		for _, el := range dp.Path.Elements() {
			switch e := el.(type) {
			case gg.MoveTo:
				pd.Elements = append(pd.Elements, Element{Op: "M", Pts: []float64{e.Point.X, e.Point.Y}})
			case gg.LineTo:
				pd.Elements = append(pd.Elements, Element{Op: "L", Pts: []float64{e.Point.X, e.Point.Y}})
			case gg.QuadTo:
				pd.Elements = append(pd.Elements, Element{Op: "Q", Pts: []float64{e.Control.X, e.Control.Y, e.Point.X, e.Point.Y}})
			case gg.CubicTo:
				pd.Elements = append(pd.Elements, Element{Op: "C", Pts: []float64{
					e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y}})
			case gg.Close:
				pd.Elements = append(pd.Elements, Element{Op: "Z"})
			}
		}
	}
	if pd.Elements == nil {
		pd.Elements = []Element{}
	}
	if dp.Fill != nil {
		pd.Fill = render.Hex(dp.Fill.Color)
	}
	if dp.Stroke != nil {
		pd.Stroke = render.Hex(dp.Stroke.Color)
		pd.Width = dp.Stroke.Width
		pd.Dash = append([]float64(nil), dp.Stroke.Dash...)
	}
	return pd
}

// Encode marshals p.
func Encode(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

// Decode validates data against the payload schema and unmarshals it.
// Every failure wraps ErrInvalidPayload.
func Decode(data []byte) (Payload, error) {
	schema, err := compiled()
	if err != nil {
		return Payload{}, fmt.Errorf("compile payload schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Payload{}, fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}

// Build materializes the payload as new top-level shapes with fresh IDs,
// translated so the anchor lands on at.
func (p Payload) Build(at geom.Point) ([]*shape.Shape, error) {
	d := at.Sub(pt(p.Anchor))
	out := make([]*shape.Shape, 0, len(p.Shapes))
	for i, sd := range p.Shapes {
		s, err := build(sd)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		s.MoveBy(d)
		out = append(out, s)
	}
	return out, nil
}

func build(sd ShapeData) (*shape.Shape, error) {
	paths := make([]shape.DrawingPath, 0, len(sd.Paths))
	for _, pd := range sd.Paths {
		dp, err := drawingPath(pd)
		if err != nil {
			return nil, err
		}
		paths = append(paths, dp)
	}
	s := shape.New(sd.Name, pt(sd.Pin), pt(sd.LocPin), paths...)
	s.SetAngle(geom.Degrees(sd.Angle))
	for _, cd := range sd.Children {
		c, err := build(cd)
		if err != nil {
			return nil, err
		}
		s.AddChild(c)
	}
	return s, nil
}

func drawingPath(pd PathData) (shape.DrawingPath, error) {
	path := gg.NewPath()
	for _, e := range pd.Elements {
		want := map[string]int{"M": 2, "L": 2, "Q": 4, "C": 6, "Z": 0}[e.Op]
		if len(e.Pts) != want {
			return shape.DrawingPath{}, fmt.Errorf("%w: %s needs %d coordinates, got %d", ErrInvalidPayload, e.Op, want, len(e.Pts))
		}
		v := e.Pts
		switch e.Op {
		case "M":
			path.MoveTo(v[0], v[1])
		case "L":
			path.LineTo(v[0], v[1])
		case "Q":
			path.QuadraticTo(v[0], v[1], v[2], v[3])
		case "C":
			path.CubicTo(v[0], v[1], v[2], v[3], v[4], v[5])
		case "Z":
			path.Close()
		}
	}
	dp := shape.DrawingPath{Path: path}
	if pd.Fill != "" {
		c, err := render.ParseHex(pd.Fill)
		if err != nil {
			return dp, err
		}
		dp.Fill = &render.Brush{Color: c}
	}
	if pd.Stroke != "" {
		c, err := render.ParseHex(pd.Stroke)
		if err != nil {
			return dp, err
		}
		dp.Stroke = &render.Pen{Color: c, Width: pd.Width, Dash: append([]float64(nil), pd.Dash...)}
	}
	return dp, nil
}

func pt2(p geom.Point) [2]float64 { return [2]float64{p.X, p.Y} }
func pt(v [2]float64) geom.Point  { return geom.Pt(v[0], v[1]) }
